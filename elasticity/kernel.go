// Package elasticity computes the element tangent stiffness of finite strain
// solids: the constitutive and geometric blocks from a full Gauss rule, the
// mean dilatation (B-bar) pressure blocks from the reduced rule, and the
// nodal internal forces.
//
// A NonlinearKernel owns reusable scratch sized for the largest element of
// its dimension and is not safe for concurrent use; run one kernel per
// goroutine.
package elasticity

import (
	"fmt"

	"github.com/notargets/gocsm/element"
	"github.com/notargets/gocsm/material"
	"github.com/notargets/gocsm/utils"
)

// Parameters are fixed at construction
type Parameters struct {
	Kappa float64 // bulk modulus of the mean dilatation term
	// IntegrateCurrent integrates the tangent over the current volume (Jac_x) instead of the
	// reference volume (Jac_X), for updated Lagrangian formulations
	IntegrateCurrent bool
}

type NonlinearKernel struct {
	nDim, bDim, maxNodes int
	model                material.ConstitutiveModel
	prm                  Parameters

	// per gauss point
	state  material.DeformationState
	D      utils.Voigt6
	stress utils.Tensor3

	// scratch, reused across gauss points and elements
	gradNi       [utils.MaxNodes][3]float64
	currentCoord [utils.MaxNodes][3]float64
	ba, bb       [utils.MaxBDim][3]float64
	auxKc        [3][utils.MaxBDim]float64
	auxKs        [3]float64
	kAux         utils.Tensor3
	kAuxP        utils.Tensor3
}

func NewNonlinearKernel(nDim int, model material.ConstitutiveModel, prm Parameters) (k *NonlinearKernel, err error) {
	if nDim != 2 && nDim != 3 {
		err = fmt.Errorf("%w: kernel nDim = %d, must be 2 or 3", utils.ErrDimension, nDim)
		return
	}
	if model == nil {
		err = fmt.Errorf("kernel needs a constitutive model")
		return
	}
	k = &NonlinearKernel{
		nDim:     nDim,
		bDim:     utils.BDim(nDim),
		maxNodes: utils.MaxNodesFor(nDim),
		model:    model,
		prm:      prm,
	}
	return
}

func (k *NonlinearKernel) NDim() int              { return k.nDim }
func (k *NonlinearKernel) Parameters() Parameters { return k.prm }

// State returns the deformation state of the last evaluated gauss point
func (k *NonlinearKernel) State() material.DeformationState { return k.state }

// Stress returns the Cauchy stress of the last evaluated gauss point
func (k *NonlinearKernel) Stress() utils.Tensor3 { return k.stress }

// ConstitutiveMatrix returns D of the last evaluated gauss point
func (k *NonlinearKernel) ConstitutiveMatrix() utils.Voigt6 { return k.D }

// checkElement guards the fixed scratch capacity
func (k *NonlinearKernel) checkElement(el element.Element) (nNode int, err error) {
	nNode = el.NNodes()
	if el.NDim() != k.nDim {
		err = fmt.Errorf("%w: element %d has nDim = %d, kernel has %d",
			utils.ErrDimension, el.ID(), el.NDim(), k.nDim)
		return
	}
	if nNode < 1 || nNode > k.maxNodes {
		err = fmt.Errorf("%w: element %d has %d nodes, capacity is %d",
			utils.ErrDimension, el.ID(), nNode, k.maxNodes)
	}
	return
}

// kinematics loads the reference gradients and current coordinates of gauss point g, then builds F, b and J.
// A non positive J is an element inversion.
func (k *NonlinearKernel) kinematics(el element.Element, nNode, iGauss int) (err error) {
	var (
		nDim = k.nDim
		F    = &k.state.F
	)
	F.Zero()
	for iNode := 0; iNode < nNode; iNode++ {
		for iDim := 0; iDim < nDim; iDim++ {
			k.gradNi[iNode][iDim] = el.GradNiX(iNode, iGauss, iDim)
			k.currentCoord[iNode][iDim] = el.CurrCoord(iNode, iDim)
		}
		for i := 0; i < nDim; i++ {
			for j := 0; j < nDim; j++ {
				F[i][j] += k.currentCoord[iNode][i] * k.gradNi[iNode][j]
			}
		}
	}
	if nDim == 2 {
		// plane strain
		F[2][2] = 1
	}
	k.state.NDim = nDim
	k.state.Update()
	if !(k.state.J > 0) {
		err = fmt.Errorf("element %d gauss point %d: det(F) = %g: %w",
			el.ID(), iGauss, k.state.J, utils.ErrElementInversion)
	}
	return
}

// evalMaterial evaluates D and the stress for the current state
func (k *NonlinearKernel) evalMaterial(el element.Element, iGauss int) (err error) {
	if err = k.model.ConstitutiveMatrix(&k.state, &k.D); err != nil {
		return fmt.Errorf("element %d gauss point %d: %w", el.ID(), iGauss, err)
	}
	if err = k.model.Stress(&k.state, &k.stress); err != nil {
		return fmt.Errorf("element %d gauss point %d: %w", el.ID(), iGauss, err)
	}
	if utils.IsNan(&k.D) || utils.IsNan(&k.stress) {
		return fmt.Errorf("element %d gauss point %d: non finite material response at det(F) = %g",
			el.ID(), iGauss, k.state.J)
	}
	return
}

// setB writes the Voigt strain-displacement operator of one node into B.
// Only the non zero pattern is written, B must be zeroed once per gauss point.
func (k *NonlinearKernel) setB(B *[utils.MaxBDim][3]float64, iNode int) {
	g := &k.gradNi[iNode]
	switch k.nDim {
	case 2:
		B[0][0] = g[0]
		B[1][1] = g[1]
		B[2][0] = g[1]
		B[2][1] = g[0]
	case 3:
		B[0][0] = g[0]
		B[1][1] = g[1]
		B[2][2] = g[2]
		B[3][0] = g[1]
		B[3][1] = g[0]
		B[4][0] = g[2]
		B[4][2] = g[0]
		B[5][1] = g[2]
		B[5][2] = g[1]
	}
}

func (k *NonlinearKernel) zeroB() {
	k.ba = [utils.MaxBDim][3]float64{}
	k.bb = [utils.MaxBDim][3]float64{}
}

// Evaluate runs the full element evaluation: tangent blocks, internal forces and, if requested,
// the mean dilatation blocks.
func (k *NonlinearKernel) Evaluate(el element.Element, meanDilatation bool) (md MeanDilatation, err error) {
	if err = k.ComputeTangentMatrix(el); err != nil {
		return
	}
	if err = k.ComputeNodalStressTerm(el); err != nil {
		return
	}
	if meanDilatation {
		md, err = k.ComputeMeanDilatationTerm(el)
	}
	return
}
