package elasticity

import (
	"fmt"

	"github.com/notargets/gocsm/element"
	"github.com/notargets/gocsm/utils"
)

// MeanDilatation reports the volumes and bulk modulus of the last mean dilatation evaluation
type MeanDilatation struct {
	VolReference, VolCurrent float64
	AvgKappa                 float64
}

// Ratio is the volume change Vol_x / Vol_X of the element
func (md MeanDilatation) Ratio() float64 { return md.VolCurrent / md.VolReference }

// ComputeMeanDilatationTerm integrates the volume averaged current gradients over the pressure rule and
// overwrites every incompressibility block (a, b) with Avg_kappa * Vol_x * g_a (x) g_b.
// The element's other accumulators are left untouched.
func (k *NonlinearKernel) ComputeMeanDilatationTerm(el element.Element) (md MeanDilatation, err error) {
	var (
		nNode  int
		nDim   = k.nDim
		nGauss = el.NGaussPointsP()
		gradP  [utils.MaxNodes][3]float64
	)
	if nNode, err = k.checkElement(el); err != nil {
		return
	}
	for iGauss := 0; iGauss < nGauss; iGauss++ {
		var (
			w    = el.WeightP(iGauss)
			jacx = el.JacxP(iGauss)
		)
		for iNode := 0; iNode < nNode; iNode++ {
			for iDim := 0; iDim < nDim; iDim++ {
				gradP[iNode][iDim] += w * el.GradNixP(iNode, iGauss, iDim) * jacx
			}
		}
		md.VolReference += w * el.JacXP(iGauss)
		md.VolCurrent += w * jacx
	}
	if md.VolReference == 0 || md.VolCurrent == 0 {
		err = fmt.Errorf("element %d: Vol_X = %g, Vol_x = %g: %w",
			el.ID(), md.VolReference, md.VolCurrent, utils.ErrDegenerateVolume)
		return
	}
	for iNode := 0; iNode < nNode; iNode++ {
		for iDim := 0; iDim < nDim; iDim++ {
			gradP[iNode][iDim] /= md.VolCurrent
		}
	}
	md.AvgKappa = k.prm.Kappa * md.VolCurrent / md.VolReference

	scale := md.AvgKappa * md.VolCurrent
	for iNode := 0; iNode < nNode; iNode++ {
		for jNode := 0; jNode < nNode; jNode++ {
			k.kAuxP.Zero()
			for i := 0; i < nDim; i++ {
				for j := 0; j < nDim; j++ {
					k.kAuxP[i][j] = scale * gradP[iNode][i] * gradP[jNode][j]
				}
			}
			el.SetKkab(iNode, jNode, &k.kAuxP)
		}
	}
	return
}
