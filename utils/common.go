package utils

import (
	"errors"
	"fmt"
)

// Scratch capacity of the element kernels, by spatial dimension
const (
	MaxNodes2D = 4 // quadrilaterals
	MaxNodes3D = 8 // hexahedra
	MaxNodes   = MaxNodes3D
	MaxBDim    = 6
)

var (
	// ErrElementInversion is returned when det(F) <= 0 at an integration point
	ErrElementInversion = errors.New("element inversion")
	// ErrDegenerateVolume is returned when an element integrates to zero volume
	ErrDegenerateVolume = errors.New("degenerate element volume")
	// ErrDimension flags an unsupported spatial dimension or node count
	ErrDimension = errors.New("dimension mismatch")
)

// BDim returns the number of Voigt strain components for nDim: 3 in 2D (plane strain), 6 in 3D
func BDim(nDim int) int {
	switch nDim {
	case 2:
		return 3
	case 3:
		return 6
	}
	panic(fmt.Errorf("%w: nDim = %d", ErrDimension, nDim))
}

// MaxNodesFor returns the scratch node capacity for nDim
func MaxNodesFor(nDim int) int {
	switch nDim {
	case 2:
		return MaxNodes2D
	case 3:
		return MaxNodes3D
	}
	return 0
}

// CheckDims validates a spatial dimension and node count against the scratch capacity
func CheckDims(nDim, nNodes int) (err error) {
	if nDim != 2 && nDim != 3 {
		return fmt.Errorf("%w: nDim = %d, must be 2 or 3", ErrDimension, nDim)
	}
	if maxN := MaxNodesFor(nDim); nNodes < 1 || nNodes > maxN {
		return fmt.Errorf("%w: %d nodes exceeds capacity %d for nDim = %d",
			ErrDimension, nNodes, maxN, nDim)
	}
	return
}
