package InputParameters

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gocsm/utils"
)

func TestParse(t *testing.T) {
	{ // Engineering constants
		fileInput := []byte(`
Title: Test Case
NDim: 2
Material: linear-elastic
E: 1000.
Nu: 0.25
MeanDilatation: true
Divisions: 4
F:
  - [1.1, 0.1]
  - [0.0, 0.95]
`)
		var input InputParameters
		require.NoError(t, input.Parse(fileInput))
		assert.Equal(t, "Test Case", input.Title)
		assert.Equal(t, 2, input.NDim)
		assert.Equal(t, "linear-elastic", input.Material)
		assert.True(t, input.MeanDilatation)
		assert.False(t, input.IntegrateCurrent)
		assert.Equal(t, 4, input.Divisions)
		assert.Equal(t, 1., input.Length)
		p, err := input.Properties()
		require.NoError(t, err)
		assert.InDelta(t, 400., p.Mu, 1.e-12)
		assert.InDelta(t, 400., p.Lambda, 1.e-12)
		assert.InDelta(t, 400+800./3, p.Kappa, 1.e-12)
		F, err := input.DeformationGradient()
		require.NoError(t, err)
		assert.Equal(t, utils.Tensor3{{1.1, 0.1, 0}, {0, 0.95, 0}, {0, 0, 1}}, F)
		input.Print()
	}
	{ // Lamé constants and defaults
		var input InputParameters
		require.NoError(t, input.Parse([]byte("Mu: 2.\nLambda: 3.\nIntegrateCurrent: true\n")))
		assert.Equal(t, 3, input.NDim)
		assert.Equal(t, "neohookean", input.Material)
		assert.Equal(t, 2, input.Divisions)
		assert.True(t, input.IntegrateCurrent)
		p, err := input.Properties()
		require.NoError(t, err)
		assert.InDelta(t, 3+4./3, p.Kappa, 1.e-14)
		F, err := input.DeformationGradient()
		require.NoError(t, err)
		assert.Equal(t, utils.Identity3(), F)
	}
	{ // Invalid input
		var input InputParameters
		require.NoError(t, input.Parse([]byte("E: 1.\nNu: 0.5\n")))
		_, err := input.Properties()
		assert.Error(t, err)
		require.NoError(t, input.Parse([]byte("E: 0\nMu: 0\n")))
		_, err = input.Properties()
		assert.Error(t, err)
		input.F = [][]float64{{1, 0}, {0, 1}}
		_, err = input.DeformationGradient()
		assert.True(t, errors.Is(err, utils.ErrDimension))
		input.F = [][]float64{{1, 0, 0}, {0, 1}, {0, 0, 1}}
		_, err = input.DeformationGradient()
		assert.True(t, errors.Is(err, utils.ErrDimension))
		assert.Error(t, input.Parse([]byte("NDim: [")))
	}
	assert.Equal(t, 3, NewInputParameters().NDim)
}
