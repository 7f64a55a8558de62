package utils

import (
	"fmt"
	"math"
	"runtime"
)

func GetMemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	// For info on each, see: https://golang.org/pkg/runtime/#MemStats
	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}
	return fmt.Sprintf("Alloc = %v MiB TotalAlloc = %v MiB Sys = %v MiB NumGC = %v",
		bToMb(m.Alloc), bToMb(m.TotalAlloc), bToMb(m.Sys), m.NumGC)
}

// IsNan reports whether any entry is NaN or infinite
func IsNan(A any) bool {
	bad := func(f float64) bool { return math.IsNaN(f) || math.IsInf(f, 0) }
	switch v := A.(type) {
	case float64:
		return bad(v)
	case []float64:
		for _, f := range v {
			if bad(f) {
				return true
			}
		}
	case *Tensor3:
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				if bad(v[i][j]) {
					return true
				}
			}
		}
	case *Voigt6:
		for i := 0; i < 6; i++ {
			for j := 0; j < 6; j++ {
				if bad(v[i][j]) {
					return true
				}
			}
		}
	case Matrix:
		return IsNan(v.Data())
	}
	return false
}
