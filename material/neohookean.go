package material

import (
	"math"

	"github.com/notargets/gocsm/utils"
)

// NeoHookean implements the compressible Neo-Hookean model
//
//	σ = (μ/J)(b - I) + (λ/J) ln(J) I
//
// with the spatial tangent
//
//	μ' = (μ - λ ln J)/J,  λ' = λ/J
//
// assembled in the isotropic Voigt pattern.
type NeoHookean struct {
	Mu, Lambda float64
}

func init() {
	allocators["neohookean"] = func(p Properties) ConstitutiveModel {
		return NewNeoHookean(p.Mu, p.Lambda)
	}
}

func NewNeoHookean(mu, lambda float64) *NeoHookean {
	return &NeoHookean{Mu: mu, Lambda: lambda}
}

// ConstitutiveMatrix fills D; in 2D only the plane strain block is written
func (o *NeoHookean) ConstitutiveMatrix(s *DeformationState, D *utils.Voigt6) (err error) {
	if err = checkJacobian(s); err != nil {
		return
	}
	var (
		lnJ     = math.Log(s.J)
		muP     = (o.Mu - o.Lambda*lnJ) / s.J
		lambdaP = o.Lambda / s.J
	)
	D.Isotropic(s.NDim, lambdaP, muP)
	return
}

func (o *NeoHookean) Stress(s *DeformationState, sigma *utils.Tensor3) (err error) {
	if err = checkJacobian(s); err != nil {
		return
	}
	var (
		muJ     = o.Mu / s.J
		lambdaJ = o.Lambda / s.J
		lnJ     = math.Log(s.J)
		dij     float64
	)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			dij = 0
			if i == j {
				dij = 1
			}
			sigma[i][j] = muJ*(s.B[i][j]-dij) + lambdaJ*lnJ*dij
		}
	}
	return
}
