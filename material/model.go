// Package material implements constitutive models for finite strain solids.
//
// A model turns the deformation state at an integration point into a Voigt
// tangent matrix D and a Cauchy stress tensor. Models are selected by name
// through New, so element kernels never depend on a concrete law.
package material

import (
	"fmt"
	"sort"

	"github.com/notargets/gocsm/utils"
)

// DeformationState holds the kinematics at one integration point
type DeformationState struct {
	NDim int           // spatial dimension, 2 (plane strain) or 3
	F    utils.Tensor3 // deformation gradient, F[2][2] = 1 in 2D
	B    utils.Tensor3 // left Cauchy-Green tensor b = F.Ft
	J    float64       // det(F)
}

// Reset sets the state to the undeformed configuration
func (s *DeformationState) Reset(nDim int) {
	s.NDim = nDim
	s.F = utils.Identity3()
	s.B = utils.Identity3()
	s.J = 1
}

// Update recomputes J and b from F
func (s *DeformationState) Update() {
	s.J = s.F.Det()
	s.F.LeftCauchyGreen(&s.B)
}

// ConstitutiveModel is the capability a kernel needs from a material law
type ConstitutiveModel interface {
	// ConstitutiveMatrix writes the spatial tangent for state s into D
	ConstitutiveMatrix(s *DeformationState, D *utils.Voigt6) error
	// Stress writes the Cauchy stress for state s into sigma
	Stress(s *DeformationState, sigma *utils.Tensor3) error
}

// Properties are the isotropic elastic constants shared by the models here
type Properties struct {
	Mu     float64 // shear modulus
	Lambda float64 // first Lamé parameter
	Kappa  float64 // bulk modulus, used by the mean dilatation term
}

// NewProperties converts Young's modulus and Poisson's ratio
func NewProperties(E, Nu float64) (p Properties, err error) {
	if E <= 0 {
		err = fmt.Errorf("young's modulus must be positive, have %g", E)
		return
	}
	if Nu <= -1 || Nu >= 0.5 {
		err = fmt.Errorf("poisson's ratio must lie in (-1, 0.5), have %g", Nu)
		return
	}
	p.Mu = E / (2 * (1 + Nu))
	p.Lambda = E * Nu / ((1 + Nu) * (1 - 2*Nu))
	p.Kappa = p.Lambda + 2*p.Mu/3
	return
}

func (p Properties) Validate() error {
	if p.Mu <= 0 {
		return fmt.Errorf("shear modulus Mu must be positive, have %g", p.Mu)
	}
	if p.Kappa < 0 {
		return fmt.Errorf("bulk modulus Kappa must not be negative, have %g", p.Kappa)
	}
	return nil
}

// New returns the named model built from props
func New(name string, props Properties) (model ConstitutiveModel, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, fmt.Errorf("material model %q is not available, have %v", name, Names())
	}
	if err = props.Validate(); err != nil {
		return nil, err
	}
	return allocator(props), nil
}

// Names lists the registered models
func Names() (names []string) {
	for name := range allocators {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// allocators holds all available models; modelname => allocator
var allocators = map[string]func(Properties) ConstitutiveModel{}

// checkJacobian rejects states for which ln(J) or 1/J is undefined
func checkJacobian(s *DeformationState) error {
	if !(s.J > 0) {
		return fmt.Errorf("%w: det(F) = %g", utils.ErrElementInversion, s.J)
	}
	return nil
}
