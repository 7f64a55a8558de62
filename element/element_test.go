package element

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gocsm/utils"
)

var (
	unitSquare = [][]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	unitCube   = [][]float64{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
	}
)

func TestShapes(t *testing.T) {
	for _, sh := range []*Shape{Quad4, Hexa8} {
		var (
			N    [utils.MaxNodes]float64
			dNdr [utils.MaxNodes][3]float64
		)
		// Kronecker property at the nodes
		for b := 0; b < sh.NNodes; b++ {
			sh.Func(sh.Natural[b], &N)
			for a := 0; a < sh.NNodes; a++ {
				if a == b {
					assert.InDelta(t, 1., N[a], 1.e-15)
				} else {
					assert.InDelta(t, 0., N[a], 1.e-15)
				}
			}
		}
		// Partition of unity and its derivative
		for _, r := range [][3]float64{{0.1, -0.3, 0.7}, {-0.9, 0.2, 0}, {0.5, 0.5, -0.5}} {
			sh.Func(r, &N)
			sh.Deriv(r, &dNdr)
			var sum float64
			var dsum [3]float64
			for a := 0; a < sh.NNodes; a++ {
				sum += N[a]
				for k := 0; k < 3; k++ {
					dsum[k] += dNdr[a][k]
				}
			}
			assert.InDelta(t, 1., sum, 1.e-14)
			assert.InDeltaSlice(t, []float64{0, 0, 0}, dsum[:], 1.e-14)
		}
		// Rules integrate the reference cell volume
		var w, wP float64
		for _, gp := range sh.Gauss {
			w += gp.W
		}
		for _, gp := range sh.GaussP {
			wP += gp.W
		}
		vol := 4.
		if sh.NDim == 3 {
			vol = 8
		}
		assert.InDelta(t, vol, w, 1.e-14)
		assert.InDelta(t, vol, wP, 1.e-14)
		assert.Equal(t, 1, len(sh.GaussP))
	}
	assert.Equal(t, 4, len(Quad4.Gauss))
	assert.Equal(t, 8, len(Hexa8.Gauss))
}

func TestSolidGeometry(t *testing.T) {
	{ // Unit cube
		el, err := NewSolid(7, Hexa8, unitCube)
		require.NoError(t, err)
		assert.Equal(t, 7, el.ID())
		assert.Equal(t, 3, el.NDim())
		assert.Equal(t, 8, el.NNodes())
		assert.Equal(t, 8, el.NGaussPoints())
		assert.Equal(t, 1, el.NGaussPointsP())
		for g := 0; g < el.NGaussPoints(); g++ {
			assert.InDelta(t, 0.125, el.JacX(g), 1.e-15)
			assert.InDelta(t, 0.125, el.Jacx(g), 1.e-15)
		}
		assert.InDelta(t, 1., el.ReferenceVolume(), 1.e-14)
		assert.InDelta(t, 8., el.WeightP(0), 1.e-15)
		assert.InDelta(t, 0.125, el.JacXP(0), 1.e-15)
		// At the centroid, dN0/dX = -1/4 in every direction
		for i := 0; i < 3; i++ {
			assert.InDelta(t, -0.25, el.GradNixP(0, 0, i), 1.e-15)
			assert.InDelta(t, 0.25, el.GradNixP(6, 0, i), 1.e-15)
		}
		// Uniform dilation by 2: volumes scale by 8, spatial gradients by 1/2
		require.NoError(t, el.SetDeformation(utils.ScaledIdentity3(2)))
		assert.InDelta(t, 8., el.CurrentVolume(), 1.e-13)
		assert.InDelta(t, 1., el.JacxP(0), 1.e-14)
		for g := 0; g < el.NGaussPoints(); g++ {
			for a := 0; a < el.NNodes(); a++ {
				for i := 0; i < 3; i++ {
					assert.InDelta(t, 0.5*el.GradNiX(a, g, i), el.GradNix(a, g, i), 1.e-14)
				}
			}
		}
		assert.InDelta(t, 2., el.CurrCoord(6, 1), 1.e-15)
		assert.Equal(t, 1., el.RefCoord(6, 1))
	}
	{ // Unit square
		el, err := NewSolid(0, Quad4, unitSquare)
		require.NoError(t, err)
		assert.InDelta(t, 1., el.ReferenceVolume(), 1.e-14)
		assert.InDelta(t, 0.25, el.JacX(0), 1.e-15)
		assert.InDelta(t, -0.5, el.GradNixP(0, 0, 0), 1.e-15)
		assert.Equal(t, 0., el.GradNiX(0, 0, 2))
	}
}

func TestSolidErrors(t *testing.T) {
	_, err := NewSolid(0, Hexa8, unitSquare)
	assert.True(t, errors.Is(err, utils.ErrDimension))
	_, err = NewSolid(0, Quad4, [][]float64{{0}, {1}, {1}, {0}})
	assert.True(t, errors.Is(err, utils.ErrDimension))
	_, err = NewSolid(0, Quad4, [][]float64{{0, 0}, {0, 0}, {0, 0}, {0, 0}})
	assert.True(t, errors.Is(err, utils.ErrDegenerateVolume))
	// Clockwise node order maps to a negative Jacobian
	_, err = NewSolid(0, Quad4, [][]float64{{0, 0}, {0, 1}, {1, 1}, {1, 0}})
	assert.True(t, errors.Is(err, utils.ErrDegenerateVolume))
	big := &Shape{Name: "bad", NDim: 2, NNodes: 9}
	_, err = NewSolid(0, big, nil)
	assert.True(t, errors.Is(err, utils.ErrDimension))

	el, err := NewSolid(0, Quad4, unitSquare)
	require.NoError(t, err)
	err = el.SetDeformation(utils.Tensor3{{-1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	assert.True(t, errors.Is(err, utils.ErrElementInversion))
	assert.True(t, el.Jacx(0) < 0)
	assert.True(t, errors.Is(el.SetCurrCoords(unitSquare[:3]), utils.ErrDimension))
}

func TestAccumulators(t *testing.T) {
	el, err := NewSolid(0, Quad4, unitSquare)
	require.NoError(t, err)
	K := utils.Tensor3{{1, 2, 9}, {3, 4, 9}, {9, 9, 9}}
	el.AddKab(0, 1, &K)
	el.AddKab(0, 1, &K)
	el.AddKabT(1, 0, &K)
	assert.Equal(t, utils.Tensor3{{2, 4, 0}, {6, 8, 0}, {0, 0, 0}}, el.Kab(0, 1))
	assert.Equal(t, utils.Tensor3{{1, 3, 0}, {2, 4, 0}, {0, 0, 0}}, el.Kab(1, 0))
	el.AddKsab(2, 3, 0.5)
	el.AddKsab(2, 3, 0.25)
	assert.Equal(t, 0.75, el.Ksab(2, 3))
	el.SetKkab(1, 1, &K)
	el.SetKkab(1, 1, &K)
	assert.Equal(t, utils.Tensor3{{1, 2, 0}, {3, 4, 0}, {0, 0, 0}}, el.Kkab(1, 1))
	f := [3]float64{1, -1, 7}
	el.AddKtA(3, &f)
	assert.Equal(t, [3]float64{1, -1, 0}, el.KtA(3))
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0, 1, -1}, el.InternalForces())

	Km := el.StiffnessMatrix(false)
	nr, nc := Km.Dims()
	assert.Equal(t, 8, nr)
	assert.Equal(t, 8, nc)
	assert.Equal(t, 4., Km.At(0, 3))
	assert.Equal(t, 0.75, Km.At(4, 6))
	assert.Equal(t, 0.75, Km.At(5, 7))
	assert.Equal(t, 0., Km.At(2, 2))
	assert.Equal(t, 1., el.StiffnessMatrix(true).At(2, 2))

	el.ClearElement()
	assert.Equal(t, utils.Tensor3{}, el.Kab(0, 1))
	assert.Equal(t, 0., el.Ksab(2, 3))
	assert.Equal(t, utils.Tensor3{}, el.Kkab(1, 1))
	assert.Equal(t, [3]float64{}, el.KtA(3))
}

func TestBlockMesh(t *testing.T) {
	m, err := NewBlockMesh(3, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 27, m.NNodes())
	assert.Equal(t, 8, m.NElements())
	assert.Equal(t, Hexa8, m.Shape())
	solids, err := m.Solids()
	require.NoError(t, err)
	var vol float64
	for _, s := range solids {
		vol += s.ReferenceVolume()
	}
	assert.InDelta(t, 1., vol, 1.e-13)

	x := m.Deform(utils.ScaledIdentity3(1.5))
	require.NoError(t, m.UpdateCurrent(solids, x))
	vol = 0
	for _, s := range solids {
		vol += s.CurrentVolume()
	}
	assert.InDelta(t, 3.375, vol, 1.e-12)
	assert.Error(t, m.UpdateCurrent(solids, x[:3]))

	m2, err := NewBlockMesh(2, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 16, m2.NNodes())
	assert.Equal(t, 9, m2.NElements())
	assert.Equal(t, Quad4, m2.Shape())
	assert.Equal(t, []int{0, 1, 5, 4}, m2.EToV[0])

	_, err = NewBlockMesh(4, 2, 1)
	assert.True(t, errors.Is(err, utils.ErrDimension))
	_, err = NewBlockMesh(2, 0, 1)
	assert.Error(t, err)
}
