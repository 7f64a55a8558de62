package material

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gocsm/utils"
)

func newState(nDim int, F utils.Tensor3) (s *DeformationState) {
	s = &DeformationState{NDim: nDim, F: F}
	s.Update()
	return
}

func TestNeoHookeanIdentity(t *testing.T) {
	var (
		mu, lambda = 1.5, 2.5
		m          = NewNeoHookean(mu, lambda)
		D, Dlin    utils.Voigt6
		sigma      utils.Tensor3
	)
	for _, nDim := range []int{2, 3} {
		s := &DeformationState{}
		s.Reset(nDim)
		assert.Equal(t, 1., s.J)
		require.NoError(t, m.Stress(s, &sigma))
		assert.Equal(t, utils.Tensor3{}, sigma)
		require.NoError(t, m.ConstitutiveMatrix(s, &D))
		Dlin.Isotropic(nDim, lambda, mu)
		assert.Equal(t, Dlin, D)
	}
}

func TestNeoHookeanDilation(t *testing.T) {
	var (
		mu, lambda = 1., 1.
		m          = NewNeoHookean(mu, lambda)
		sigma      utils.Tensor3
	)
	for _, sc := range []float64{0.5, 0.9, 1.1, 2.} {
		s := newState(3, utils.ScaledIdentity3(sc))
		assert.InDelta(t, sc*sc*sc, s.J, 1.e-14)
		require.NoError(t, m.Stress(s, &sigma))
		p := (mu/math.Pow(sc, 3))*(sc*sc-1) + (lambda/math.Pow(sc, 3))*math.Log(sc*sc*sc)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				if i == j {
					assert.InDelta(t, p, sigma[i][j], 1.e-13)
				} else {
					assert.Equal(t, 0., sigma[i][j])
				}
			}
		}
	}
}

func TestNeoHookeanTangentSymmetry(t *testing.T) {
	var (
		m = NewNeoHookean(3, 7)
		D utils.Voigt6
	)
	for _, F := range []utils.Tensor3{
		{{1.2, 0.1, 0}, {0.05, 0.9, 0.2}, {0, 0.1, 1.1}},
		{{0.7, 0.3, 0.1}, {0, 1.4, 0}, {0.2, 0, 0.8}},
	} {
		s := newState(3, F)
		require.True(t, s.J > 0)
		require.NoError(t, m.ConstitutiveMatrix(s, &D))
		assert.True(t, D.IsSymmetric(6, 0))
		muP := (3 - 7*math.Log(s.J)) / s.J
		assert.InDelta(t, muP, D[3][3], 1.e-13)
		assert.InDelta(t, 7/s.J, D[0][1], 1.e-13)
		assert.InDelta(t, 7/s.J+2*muP, D[2][2], 1.e-13)
	}
	// Plane strain layout
	s := newState(2, utils.Tensor3{{1.1, 0.2, 0}, {0, 0.95, 0}, {0, 0, 1}})
	require.NoError(t, m.ConstitutiveMatrix(s, &D))
	assert.True(t, D.IsSymmetric(3, 0))
	assert.Equal(t, 0., D[0][2])
	assert.Equal(t, 0., D[3][3])
	assert.InDelta(t, (3-7*math.Log(s.J))/s.J, D[2][2], 1.e-13)
}

func TestElementInversion(t *testing.T) {
	var (
		D     utils.Voigt6
		sigma utils.Tensor3
	)
	for _, m := range []ConstitutiveModel{NewNeoHookean(1, 1), NewLinearElastic(1, 1)} {
		for _, F := range []utils.Tensor3{
			{{1, 0, 0}, {0, 0, 0}, {0, 0, 1}},  // zero row
			{{-1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, // reflection
		} {
			s := newState(3, F)
			assert.True(t, s.J <= 0)
			err := m.ConstitutiveMatrix(s, &D)
			assert.True(t, errors.Is(err, utils.ErrElementInversion), "%v", err)
			err = m.Stress(s, &sigma)
			assert.True(t, errors.Is(err, utils.ErrElementInversion), "%v", err)
		}
	}
	s := &DeformationState{NDim: 3, J: math.NaN()}
	assert.Error(t, NewNeoHookean(1, 1).Stress(s, &sigma))
}

func TestSmallStrainLimit(t *testing.T) {
	var (
		props, _   = NewProperties(210, 0.3)
		nh         = NewNeoHookean(props.Mu, props.Lambda)
		le         = NewLinearElastic(props.Mu, props.Lambda)
		sNH, sLE   utils.Tensor3
		eps        = 1.e-7
		H          = utils.Tensor3{{0.3, 0.2, -0.1}, {0.2, -0.4, 0.5}, {-0.1, 0.5, 0.1}}
		F          = utils.Identity3()
		relErr     float64
		maxLE      float64
		components = 0
	)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			F[i][j] += eps * H[i][j]
		}
	}
	s := newState(3, F)
	require.NoError(t, nh.Stress(s, &sNH))
	require.NoError(t, le.Stress(s, &sLE))
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			maxLE = math.Max(maxLE, math.Abs(sLE[i][j]))
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			relErr = math.Abs(sNH[i][j]-sLE[i][j]) / maxLE
			assert.True(t, relErr < 1.e-5, "component %d,%d: %g vs %g", i, j, sNH[i][j], sLE[i][j])
			components++
		}
	}
	assert.Equal(t, 9, components)
}

func TestRegistry(t *testing.T) {
	props, err := NewProperties(1000, 0.25)
	require.NoError(t, err)
	assert.InDelta(t, 400., props.Mu, 1.e-12)
	assert.InDelta(t, 400., props.Lambda, 1.e-12)
	assert.InDelta(t, 400+800./3, props.Kappa, 1.e-12)

	_, err = NewProperties(-1, 0.3)
	assert.Error(t, err)
	_, err = NewProperties(1, 0.5)
	assert.Error(t, err)

	assert.Equal(t, []string{"linear-elastic", "neohookean"}, Names())
	m, err := New("neohookean", props)
	require.NoError(t, err)
	assert.IsType(t, &NeoHookean{}, m)
	m, err = New("linear-elastic", props)
	require.NoError(t, err)
	assert.IsType(t, &LinearElastic{}, m)
	_, err = New("mooney-rivlin", props)
	assert.Error(t, err)
	_, err = New("neohookean", Properties{Mu: 0, Lambda: 1})
	assert.Error(t, err)
}
