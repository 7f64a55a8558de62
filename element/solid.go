package element

import (
	"fmt"

	"github.com/notargets/gocsm/utils"
)

// Solid is an isoparametric continuum element built from a Shape.
// Reference gradients are computed once at construction, current ones on every SetCurrCoords.
type Solid struct {
	Id    int
	Shape *Shape

	refCoord, currCoord [utils.MaxNodes][3]float64

	// full rule
	gradX, gradx [][utils.MaxNodes][3]float64
	jacX, jacx   []float64
	// reduced rule
	gradxP       [][utils.MaxNodes][3]float64
	jacXP, jacxP []float64

	// accumulators
	kab [utils.MaxNodes][utils.MaxNodes]utils.Tensor3
	ks  [utils.MaxNodes][utils.MaxNodes]float64
	kk  [utils.MaxNodes][utils.MaxNodes]utils.Tensor3
	kt  [utils.MaxNodes][3]float64
}

func NewSolid(id int, shape *Shape, refCoords [][]float64) (o *Solid, err error) {
	if err = utils.CheckDims(shape.NDim, shape.NNodes); err != nil {
		return
	}
	if len(refCoords) != shape.NNodes {
		err = fmt.Errorf("%w: element %d (%s) needs %d nodes, have %d",
			utils.ErrDimension, id, shape.Name, shape.NNodes, len(refCoords))
		return
	}
	nG, nGP := len(shape.Gauss), len(shape.GaussP)
	o = &Solid{
		Id:     id,
		Shape:  shape,
		gradX:  make([][utils.MaxNodes][3]float64, nG),
		gradx:  make([][utils.MaxNodes][3]float64, nG),
		jacX:   make([]float64, nG),
		jacx:   make([]float64, nG),
		gradxP: make([][utils.MaxNodes][3]float64, nGP),
		jacXP:  make([]float64, nGP),
		jacxP:  make([]float64, nGP),
	}
	for a, X := range refCoords {
		if len(X) < shape.NDim {
			err = fmt.Errorf("%w: element %d node %d has %d coordinates, need %d",
				utils.ErrDimension, id, a, len(X), shape.NDim)
			return nil, err
		}
		for i := 0; i < shape.NDim; i++ {
			o.refCoord[a][i] = X[i]
		}
	}
	if g, det := o.mapping(shape.Gauss, &o.refCoord, o.gradX, o.jacX); g >= 0 {
		err = fmt.Errorf("element %d: reference jacobian %g at gauss point %d: %w",
			id, det, g, utils.ErrDegenerateVolume)
		return nil, err
	}
	o.mapping(shape.GaussP, &o.refCoord, nil, o.jacXP)
	if err = o.SetCurrCoords(refCoords); err != nil {
		return nil, err
	}
	return
}

// SetCurrCoords updates the current configuration and its gradients.
// An inverted mapping is reported after all integration points are updated.
func (o *Solid) SetCurrCoords(x [][]float64) (err error) {
	nDim := o.Shape.NDim
	if len(x) != o.Shape.NNodes {
		return fmt.Errorf("%w: element %d needs %d current coordinates, have %d",
			utils.ErrDimension, o.Id, o.Shape.NNodes, len(x))
	}
	for a := range x {
		if len(x[a]) < nDim {
			return fmt.Errorf("%w: element %d node %d has %d coordinates, need %d",
				utils.ErrDimension, o.Id, a, len(x[a]), nDim)
		}
		for i := 0; i < nDim; i++ {
			o.currCoord[a][i] = x[a][i]
		}
	}
	g, det := o.mapping(o.Shape.Gauss, &o.currCoord, o.gradx, o.jacx)
	gP, detP := o.mapping(o.Shape.GaussP, &o.currCoord, o.gradxP, o.jacxP)
	switch {
	case g >= 0:
		err = fmt.Errorf("element %d: current jacobian %g at gauss point %d: %w",
			o.Id, det, g, utils.ErrElementInversion)
	case gP >= 0:
		err = fmt.Errorf("element %d: current jacobian %g at pressure point %d: %w",
			o.Id, detP, gP, utils.ErrElementInversion)
	}
	return
}

// SetDeformation places the nodes at x = F.X, a homogeneous deformation of the reference configuration
func (o *Solid) SetDeformation(F utils.Tensor3) error {
	var (
		nDim = o.Shape.NDim
		x    = make([][]float64, o.Shape.NNodes)
	)
	for a := range x {
		x[a] = make([]float64, nDim)
		for i := 0; i < nDim; i++ {
			for j := 0; j < nDim; j++ {
				x[a][i] += F[i][j] * o.refCoord[a][j]
			}
		}
	}
	return o.SetCurrCoords(x)
}

// mapping fills gradients (if grad != nil) and Jacobians for a rule on the given coordinates.
// It returns the first gauss point with a non positive Jacobian, or -1.
func (o *Solid) mapping(rule []GaussPoint, coords *[utils.MaxNodes][3]float64,
	grad [][utils.MaxNodes][3]float64, jac []float64) (gBad int, detBad float64) {
	var (
		nDim   = o.Shape.NDim
		nNodes = o.Shape.NNodes
		dNdr   [utils.MaxNodes][3]float64
	)
	gBad = -1
	for g, gp := range rule {
		o.Shape.Deriv(gp.R, &dNdr)
		Jm := utils.Identity3()
		for i := 0; i < nDim; i++ {
			for j := 0; j < nDim; j++ {
				Jm[i][j] = 0
				for a := 0; a < nNodes; a++ {
					Jm[i][j] += coords[a][i] * dNdr[a][j]
				}
			}
		}
		Jinv, det := Jm.Inverse()
		jac[g] = det
		if det <= 0 && gBad < 0 {
			gBad, detBad = g, det
		}
		if grad == nil {
			continue
		}
		for a := 0; a < nNodes; a++ {
			for i := 0; i < 3; i++ {
				grad[g][a][i] = 0
			}
			if det <= 0 {
				continue
			}
			for i := 0; i < nDim; i++ {
				for j := 0; j < nDim; j++ {
					grad[g][a][i] += dNdr[a][j] * Jinv[j][i]
				}
			}
		}
	}
	return
}

func (o *Solid) ID() int     { return o.Id }
func (o *Solid) NDim() int   { return o.Shape.NDim }
func (o *Solid) NNodes() int { return o.Shape.NNodes }

func (o *Solid) NGaussPoints() int                       { return len(o.Shape.Gauss) }
func (o *Solid) Weight(iGauss int) float64               { return o.Shape.Gauss[iGauss].W }
func (o *Solid) JacX(iGauss int) float64                 { return o.jacX[iGauss] }
func (o *Solid) Jacx(iGauss int) float64                 { return o.jacx[iGauss] }
func (o *Solid) GradNiX(iNode, iGauss, iDim int) float64 { return o.gradX[iGauss][iNode][iDim] }
func (o *Solid) GradNix(iNode, iGauss, iDim int) float64 { return o.gradx[iGauss][iNode][iDim] }

func (o *Solid) NGaussPointsP() int                       { return len(o.Shape.GaussP) }
func (o *Solid) WeightP(iGauss int) float64               { return o.Shape.GaussP[iGauss].W }
func (o *Solid) JacXP(iGauss int) float64                 { return o.jacXP[iGauss] }
func (o *Solid) JacxP(iGauss int) float64                 { return o.jacxP[iGauss] }
func (o *Solid) GradNixP(iNode, iGauss, iDim int) float64 { return o.gradxP[iGauss][iNode][iDim] }

func (o *Solid) RefCoord(iNode, iDim int) float64  { return o.refCoord[iNode][iDim] }
func (o *Solid) CurrCoord(iNode, iDim int) float64 { return o.currCoord[iNode][iDim] }

func (o *Solid) ClearElement() {
	o.kab = [utils.MaxNodes][utils.MaxNodes]utils.Tensor3{}
	o.ks = [utils.MaxNodes][utils.MaxNodes]float64{}
	o.kk = [utils.MaxNodes][utils.MaxNodes]utils.Tensor3{}
	o.kt = [utils.MaxNodes][3]float64{}
}

func (o *Solid) AddKab(iNode, jNode int, K *utils.Tensor3) {
	nDim := o.Shape.NDim
	for i := 0; i < nDim; i++ {
		for j := 0; j < nDim; j++ {
			o.kab[iNode][jNode][i][j] += K[i][j]
		}
	}
}

func (o *Solid) AddKabT(iNode, jNode int, K *utils.Tensor3) {
	nDim := o.Shape.NDim
	for i := 0; i < nDim; i++ {
		for j := 0; j < nDim; j++ {
			o.kab[iNode][jNode][i][j] += K[j][i]
		}
	}
}

func (o *Solid) AddKsab(iNode, jNode int, ks float64) { o.ks[iNode][jNode] += ks }

func (o *Solid) SetKkab(iNode, jNode int, K *utils.Tensor3) {
	nDim := o.Shape.NDim
	o.kk[iNode][jNode] = utils.Tensor3{}
	for i := 0; i < nDim; i++ {
		for j := 0; j < nDim; j++ {
			o.kk[iNode][jNode][i][j] = K[i][j]
		}
	}
}

func (o *Solid) AddKtA(iNode int, f *[3]float64) {
	for i := 0; i < o.Shape.NDim; i++ {
		o.kt[iNode][i] += f[i]
	}
}

// Kab returns the constitutive stiffness block for a node pair
func (o *Solid) Kab(iNode, jNode int) utils.Tensor3 { return o.kab[iNode][jNode] }

// Ksab returns the scalar geometric stiffness for a node pair
func (o *Solid) Ksab(iNode, jNode int) float64 { return o.ks[iNode][jNode] }

// Kkab returns the incompressibility block for a node pair
func (o *Solid) Kkab(iNode, jNode int) utils.Tensor3 { return o.kk[iNode][jNode] }

// KtA returns the internal force at a node
func (o *Solid) KtA(iNode int) [3]float64 { return o.kt[iNode] }

// ReferenceVolume integrates the reference Jacobian over the full rule
func (o *Solid) ReferenceVolume() (vol float64) {
	for g := range o.jacX {
		vol += o.Weight(g) * o.jacX[g]
	}
	return
}

// CurrentVolume integrates the current Jacobian over the full rule
func (o *Solid) CurrentVolume() (vol float64) {
	for g := range o.jacx {
		vol += o.Weight(g) * o.jacx[g]
	}
	return
}

// StiffnessMatrix expands the accumulated blocks into a dense nNodes*nDim square matrix.
// The geometric term adds Ks to the diagonal of each block; the incompressibility blocks are optional.
func (o *Solid) StiffnessMatrix(withKk bool) (K utils.Matrix) {
	var (
		nDim   = o.Shape.NDim
		nNodes = o.Shape.NNodes
		n      = nDim * nNodes
	)
	K = utils.NewMatrix(n, n)
	for a := 0; a < nNodes; a++ {
		for b := 0; b < nNodes; b++ {
			for i := 0; i < nDim; i++ {
				for j := 0; j < nDim; j++ {
					val := o.kab[a][b][i][j]
					if i == j {
						val += o.ks[a][b]
					}
					if withKk {
						val += o.kk[a][b][i][j]
					}
					K.Set(a*nDim+i, b*nDim+j, val)
				}
			}
		}
	}
	return
}

// InternalForces flattens the nodal internal forces, nDim per node
func (o *Solid) InternalForces() (f []float64) {
	var (
		nDim   = o.Shape.NDim
		nNodes = o.Shape.NNodes
	)
	f = make([]float64, nDim*nNodes)
	for a := 0; a < nNodes; a++ {
		for i := 0; i < nDim; i++ {
			f[a*nDim+i] = o.kt[a][i]
		}
	}
	return
}
