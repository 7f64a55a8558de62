package element

import (
	"math"

	"github.com/notargets/gocsm/utils"
)

// GaussPoint is an integration point in natural coordinates with its weight
type GaussPoint struct {
	R [3]float64
	W float64
}

// Shape describes a linear tensor product Lagrange element on [-1,1]^nDim
type Shape struct {
	Name    string
	NDim    int
	NNodes  int
	Natural [][3]float64 // natural coordinates of the nodes
	Gauss   []GaussPoint // full rule
	GaussP  []GaussPoint // reduced rule, used for the pressure term
}

var (
	// Quad4 is the bilinear quadrilateral, 2x2 full rule, 1 point reduced rule
	Quad4 = newShape("quad4", 2, [][3]float64{
		{-1, -1}, {1, -1}, {1, 1}, {-1, 1},
	})
	// Hexa8 is the trilinear hexahedron, 2x2x2 full rule, 1 point reduced rule
	Hexa8 = newShape("hexa8", 3, [][3]float64{
		{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
	})
)

func newShape(name string, nDim int, natural [][3]float64) (sh *Shape) {
	g := 1. / math.Sqrt(3)
	sh = &Shape{
		Name:    name,
		NDim:    nDim,
		NNodes:  len(natural),
		Natural: natural,
		Gauss:   tensorRule(nDim, []float64{-g, g}, []float64{1, 1}),
		GaussP:  tensorRule(nDim, []float64{0}, []float64{2}),
	}
	return
}

// tensorRule builds the product of a 1D rule over nDim directions, first direction fastest
func tensorRule(nDim int, pts, wts []float64) (rule []GaussPoint) {
	var (
		n     = len(pts)
		total = 1
	)
	for d := 0; d < nDim; d++ {
		total *= n
	}
	rule = make([]GaussPoint, total)
	for ind := 0; ind < total; ind++ {
		gp := GaussPoint{W: 1}
		rem := ind
		for d := 0; d < nDim; d++ {
			k := rem % n
			rem /= n
			gp.R[d] = pts[k]
			gp.W *= wts[k]
		}
		rule[ind] = gp
	}
	return
}

// Func evaluates the shape functions at natural coordinate r
func (sh *Shape) Func(r [3]float64, N *[utils.MaxNodes]float64) {
	for a := 0; a < sh.NNodes; a++ {
		N[a] = 1
		for d := 0; d < sh.NDim; d++ {
			N[a] *= 0.5 * (1 + r[d]*sh.Natural[a][d])
		}
	}
}

// Deriv evaluates dN/dr at natural coordinate r
func (sh *Shape) Deriv(r [3]float64, dNdr *[utils.MaxNodes][3]float64) {
	for a := 0; a < sh.NNodes; a++ {
		for k := 0; k < 3; k++ {
			dNdr[a][k] = 0
		}
		for k := 0; k < sh.NDim; k++ {
			val := 0.5 * sh.Natural[a][k]
			for d := 0; d < sh.NDim; d++ {
				if d != k {
					val *= 0.5 * (1 + r[d]*sh.Natural[a][d])
				}
			}
			dNdr[a][k] = val
		}
	}
}
