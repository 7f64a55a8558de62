package elasticity

import (
	"github.com/notargets/gocsm/element"
)

// ComputeTangentMatrix clears the element and accumulates, for every node pair a <= b, the constitutive
// block Kab and the scalar geometric term Ks; the (b, a) entries are mirrored from them.
// On error the element holds a partial result and must be discarded by the caller.
func (k *NonlinearKernel) ComputeTangentMatrix(el element.Element) (err error) {
	var (
		nNode  int
		nGauss = el.NGaussPoints()
		nDim   = k.nDim
		bDim   = k.bDim
		ks     float64
		jac    float64
	)
	if nNode, err = k.checkElement(el); err != nil {
		return
	}
	el.ClearElement()

	for iGauss := 0; iGauss < nGauss; iGauss++ {
		k.zeroB()
		if err = k.kinematics(el, nNode, iGauss); err != nil {
			return
		}
		if err = k.evalMaterial(el, iGauss); err != nil {
			return
		}
		jac = el.JacX(iGauss)
		if k.prm.IntegrateCurrent {
			jac = el.Jacx(iGauss)
		}
		wJ := el.Weight(iGauss) * jac

		for iNode := 0; iNode < nNode; iNode++ {
			k.setB(&k.ba, iNode)

			// AuxKc = Ba^T.D
			for i := 0; i < nDim; i++ {
				for j := 0; j < bDim; j++ {
					k.auxKc[i][j] = 0
					for kk := 0; kk < bDim; kk++ {
						k.auxKc[i][j] += k.ba[kk][i] * k.D[kk][j]
					}
				}
			}
			// AuxKs = GradNa.σ
			for i := 0; i < nDim; i++ {
				k.auxKs[i] = 0
				for j := 0; j < nDim; j++ {
					k.auxKs[i] += k.gradNi[iNode][j] * k.stress[j][i]
				}
			}

			for jNode := iNode; jNode < nNode; jNode++ {
				k.setB(&k.bb, jNode)
				k.kAux.Zero()
				for i := 0; i < nDim; i++ {
					for j := 0; j < nDim; j++ {
						for kk := 0; kk < bDim; kk++ {
							k.kAux[i][j] += k.auxKc[i][kk] * k.bb[kk][j]
						}
						k.kAux[i][j] *= wJ
					}
				}
				ks = 0
				for i := 0; i < nDim; i++ {
					ks += k.auxKs[i] * k.gradNi[jNode][i]
				}
				ks *= wJ

				el.AddKab(iNode, jNode, &k.kAux)
				el.AddKsab(iNode, jNode, ks)
				if iNode != jNode {
					el.AddKabT(jNode, iNode, &k.kAux)
					el.AddKsab(jNode, iNode, ks)
				}
			}
		}
	}
	return
}
