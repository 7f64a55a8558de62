package material

import (
	"github.com/notargets/gocsm/utils"
)

// LinearElastic is the small strain isotropic model, with ε = sym(F) - I.
// Its tangent is the constant Hooke matrix, which the Neo-Hookean tangent reduces to at F = I.
type LinearElastic struct {
	Mu, Lambda float64
}

func init() {
	allocators["linear-elastic"] = func(p Properties) ConstitutiveModel {
		return NewLinearElastic(p.Mu, p.Lambda)
	}
}

func NewLinearElastic(mu, lambda float64) *LinearElastic {
	return &LinearElastic{Mu: mu, Lambda: lambda}
}

func (o *LinearElastic) ConstitutiveMatrix(s *DeformationState, D *utils.Voigt6) (err error) {
	if err = checkJacobian(s); err != nil {
		return
	}
	D.Isotropic(s.NDim, o.Lambda, o.Mu)
	return
}

func (o *LinearElastic) Stress(s *DeformationState, sigma *utils.Tensor3) (err error) {
	if err = checkJacobian(s); err != nil {
		return
	}
	var (
		eps utils.Tensor3
	)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			eps[i][j] = 0.5 * (s.F[i][j] + s.F[j][i])
		}
		eps[i][i] -= 1
	}
	trEps := eps.Trace()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			sigma[i][j] = 2 * o.Mu * eps[i][j]
		}
		sigma[i][i] += o.Lambda * trEps
	}
	return
}
