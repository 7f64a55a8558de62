package element

import (
	"fmt"

	"github.com/notargets/gocsm/utils"
)

// Mesh is a structured block of quadrilaterals (2D) or hexahedra (3D) on [0,Length]^nDim
type Mesh struct {
	NDim      int
	Divisions int
	Length    float64
	Coords    [][]float64 // reference coordinates, one entry per node
	EToV      [][]int     // element to vertex connectivity, in Shape node order
}

func NewBlockMesh(nDim, divisions int, length float64) (m *Mesh, err error) {
	if nDim != 2 && nDim != 3 {
		err = fmt.Errorf("%w: block mesh nDim = %d", utils.ErrDimension, nDim)
		return
	}
	if divisions < 1 || length <= 0 {
		err = fmt.Errorf("block mesh needs divisions >= 1 and length > 0, have %d, %g",
			divisions, length)
		return
	}
	var (
		n   = divisions
		np  = n + 1
		h   = length / float64(n)
		nk  = 1
		nkp = 1
	)
	if nDim == 3 {
		nk, nkp = n, np
	}
	m = &Mesh{NDim: nDim, Divisions: n, Length: length}
	for k := 0; k < nkp; k++ {
		for j := 0; j < np; j++ {
			for i := 0; i < np; i++ {
				X := []float64{float64(i) * h, float64(j) * h}
				if nDim == 3 {
					X = append(X, float64(k)*h)
				}
				m.Coords = append(m.Coords, X)
			}
		}
	}
	node := func(i, j, k int) int { return i + np*(j+np*k) }
	for k := 0; k < nk; k++ {
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				verts := []int{node(i, j, k), node(i+1, j, k), node(i+1, j+1, k), node(i, j+1, k)}
				if nDim == 3 {
					verts = append(verts,
						node(i, j, k+1), node(i+1, j, k+1), node(i+1, j+1, k+1), node(i, j+1, k+1))
				}
				m.EToV = append(m.EToV, verts)
			}
		}
	}
	return
}

func (m *Mesh) NNodes() int    { return len(m.Coords) }
func (m *Mesh) NElements() int { return len(m.EToV) }

func (m *Mesh) Shape() *Shape {
	if m.NDim == 2 {
		return Quad4
	}
	return Hexa8
}

// Solids builds one element per cell, in the reference configuration
func (m *Mesh) Solids() (solids []*Solid, err error) {
	solids = make([]*Solid, m.NElements())
	for k, verts := range m.EToV {
		if solids[k], err = NewSolid(k, m.Shape(), m.gather(m.Coords, verts)); err != nil {
			return nil, err
		}
	}
	return
}

// Deform maps every node with x = F.X
func (m *Mesh) Deform(F utils.Tensor3) (x [][]float64) {
	x = make([][]float64, m.NNodes())
	for a, X := range m.Coords {
		x[a] = make([]float64, m.NDim)
		for i := 0; i < m.NDim; i++ {
			for j := 0; j < m.NDim; j++ {
				x[a][i] += F[i][j] * X[j]
			}
		}
	}
	return
}

// UpdateCurrent scatters global current coordinates into each element
func (m *Mesh) UpdateCurrent(solids []*Solid, x [][]float64) (err error) {
	if len(x) != m.NNodes() {
		return fmt.Errorf("%w: mesh has %d nodes, have %d current coordinates",
			utils.ErrDimension, m.NNodes(), len(x))
	}
	for k, s := range solids {
		if err = s.SetCurrCoords(m.gather(x, m.EToV[k])); err != nil {
			return
		}
	}
	return
}

func (m *Mesh) gather(coords [][]float64, verts []int) (local [][]float64) {
	local = make([][]float64, len(verts))
	for a, v := range verts {
		local[a] = coords[v]
	}
	return
}
