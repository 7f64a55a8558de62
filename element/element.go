// Package element provides the isoparametric solid elements consumed by the
// elasticity kernels: nodal coordinates, shape function gradients and
// Jacobians for the full and reduced (pressure) Gauss rules, and the
// accumulators that receive the element stiffness blocks.
package element

import "github.com/notargets/gocsm/utils"

// Element is the contract between an element and the kernels that integrate over it.
// Block arguments are nDim x nDim in the upper left corner of a Tensor3.
type Element interface {
	ID() int
	NDim() int
	NNodes() int

	// Full integration rule
	NGaussPoints() int
	Weight(iGauss int) float64
	JacX(iGauss int) float64                  // det(dX/dr), reference configuration
	Jacx(iGauss int) float64                  // det(dx/dr), current configuration
	GradNiX(iNode, iGauss, iDim int) float64 // dN/dX
	GradNix(iNode, iGauss, iDim int) float64 // dN/dx

	// Reduced (pressure) integration rule
	NGaussPointsP() int
	WeightP(iGauss int) float64
	JacXP(iGauss int) float64
	JacxP(iGauss int) float64
	GradNixP(iNode, iGauss, iDim int) float64

	CurrCoord(iNode, iDim int) float64

	// ClearElement zeroes every accumulator
	ClearElement()
	AddKab(iNode, jNode int, K *utils.Tensor3)
	// AddKabT adds the transpose of K into block (iNode, jNode)
	AddKabT(iNode, jNode int, K *utils.Tensor3)
	AddKsab(iNode, jNode int, ks float64)
	// SetKkab overwrites the incompressibility block (iNode, jNode)
	SetKkab(iNode, jNode int, K *utils.Tensor3)
	AddKtA(iNode int, f *[3]float64)
}
