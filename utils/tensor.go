package utils

import (
	"fmt"
	"math"
)

// Tensor3 is a fixed size second order tensor in 3 dimensions, stored row first.
// 2D quantities occupy the upper left 2x2 block.
type Tensor3 [3][3]float64

// Voigt6 is a fixed size constitutive matrix in Voigt notation.
// 3D ordering is ε11, ε22, ε33, γ12, γ13, γ23; 2D (plane strain) uses the upper left 3x3 block
// ordered ε11, ε22, γ12.
type Voigt6 [6][6]float64

func Identity3() (I Tensor3) {
	for i := 0; i < 3; i++ {
		I[i][i] = 1
	}
	return
}

// ScaledIdentity3 returns s*I, a uniform dilation gradient
func ScaledIdentity3(s float64) (T Tensor3) {
	for i := 0; i < 3; i++ {
		T[i][i] = s
	}
	return
}

func (t *Tensor3) Zero() {
	*t = Tensor3{}
}

// Det is the explicit cofactor expansion of the 3x3 determinant
func (t *Tensor3) Det() float64 {
	return t[0][0]*t[1][1]*t[2][2] +
		t[0][1]*t[1][2]*t[2][0] +
		t[0][2]*t[1][0]*t[2][1] -
		t[0][2]*t[1][1]*t[2][0] -
		t[1][2]*t[2][1]*t[0][0] -
		t[2][2]*t[0][1]*t[1][0]
}

// Inverse returns the inverse and the determinant. The inverse is zero when det == 0.
func (t *Tensor3) Inverse() (R Tensor3, det float64) {
	det = t.Det()
	if det == 0 {
		return
	}
	oodet := 1. / det
	R[0][0] = (t[1][1]*t[2][2] - t[1][2]*t[2][1]) * oodet
	R[0][1] = (t[0][2]*t[2][1] - t[0][1]*t[2][2]) * oodet
	R[0][2] = (t[0][1]*t[1][2] - t[0][2]*t[1][1]) * oodet
	R[1][0] = (t[1][2]*t[2][0] - t[1][0]*t[2][2]) * oodet
	R[1][1] = (t[0][0]*t[2][2] - t[0][2]*t[2][0]) * oodet
	R[1][2] = (t[0][2]*t[1][0] - t[0][0]*t[1][2]) * oodet
	R[2][0] = (t[1][0]*t[2][1] - t[1][1]*t[2][0]) * oodet
	R[2][1] = (t[0][1]*t[2][0] - t[0][0]*t[2][1]) * oodet
	R[2][2] = (t[0][0]*t[1][1] - t[0][1]*t[1][0]) * oodet
	return
}

// LeftCauchyGreen computes b = F.Ft into b
func (t *Tensor3) LeftCauchyGreen(b *Tensor3) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			b[i][j] = 0
			for k := 0; k < 3; k++ {
				b[i][j] += t[i][k] * t[j][k]
			}
		}
	}
}

func (t *Tensor3) Transpose() (R Tensor3) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			R[i][j] = t[j][i]
		}
	}
	return
}

func (t *Tensor3) Trace() float64 {
	return t[0][0] + t[1][1] + t[2][2]
}

func (t *Tensor3) IsSymmetric(tol float64) bool {
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			if math.Abs(t[i][j]-t[j][i]) > tol {
				return false
			}
		}
	}
	return true
}

func (t Tensor3) String() string {
	return fmt.Sprintf("[%12.5e %12.5e %12.5e]\n[%12.5e %12.5e %12.5e]\n[%12.5e %12.5e %12.5e]",
		t[0][0], t[0][1], t[0][2],
		t[1][0], t[1][1], t[1][2],
		t[2][0], t[2][1], t[2][2])
}

func (d *Voigt6) Zero() {
	*d = Voigt6{}
}

// IsSymmetric checks the leading n x n block
func (d *Voigt6) IsSymmetric(n int, tol float64) bool {
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if math.Abs(d[i][j]-d[j][i]) > tol {
				return false
			}
		}
	}
	return true
}

// Isotropic fills the isotropic tangent pattern from the Lamé-like moduli lambda and mu.
// In 2D only the plane strain block is written, everything else is zeroed.
func (d *Voigt6) Isotropic(nDim int, lambda, mu float64) {
	d.Zero()
	switch nDim {
	case 2:
		d[0][0], d[0][1] = lambda+2*mu, lambda
		d[1][0], d[1][1] = lambda, lambda+2*mu
		d[2][2] = mu
	case 3:
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				d[i][j] = lambda
			}
			d[i][i] = lambda + 2*mu
			d[i+3][i+3] = mu
		}
	default:
		panic(fmt.Errorf("%w: nDim = %d", ErrDimension, nDim))
	}
}
