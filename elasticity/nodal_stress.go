package elasticity

import (
	"fmt"

	"github.com/notargets/gocsm/element"
	"github.com/notargets/gocsm/utils"
)

// ComputeNodalStressTerm adds the internal forces Kt_a[i] = sum_g w * sum_j dN_a/dx_j * sigma[j][i] * Jac_x
// into the element. It does not clear the element so it can follow ComputeTangentMatrix.
func (k *NonlinearKernel) ComputeNodalStressTerm(el element.Element) (err error) {
	var (
		nNode  int
		nDim   = k.nDim
		nGauss = el.NGaussPoints()
		f      [3]float64
	)
	if nNode, err = k.checkElement(el); err != nil {
		return
	}
	for iGauss := 0; iGauss < nGauss; iGauss++ {
		if err = k.kinematics(el, nNode, iGauss); err != nil {
			return
		}
		if err = k.model.Stress(&k.state, &k.stress); err != nil {
			return fmt.Errorf("element %d gauss point %d: %w", el.ID(), iGauss, err)
		}
		if utils.IsNan(&k.stress) {
			return fmt.Errorf("element %d gauss point %d: non finite stress at det(F) = %g",
				el.ID(), iGauss, k.state.J)
		}
		wJ := el.Weight(iGauss) * el.Jacx(iGauss)
		for iNode := 0; iNode < nNode; iNode++ {
			f = [3]float64{}
			for i := 0; i < nDim; i++ {
				for j := 0; j < nDim; j++ {
					f[i] += el.GradNix(iNode, iGauss, j) * k.stress[j][i]
				}
				f[i] *= wJ
			}
			el.AddKtA(iNode, &f)
		}
	}
	return
}
