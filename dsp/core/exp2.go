//go:build !fastmath

package core

import "math"

// Exp2 computes 2^x using standard library math.
func Exp2(x float64) float64 {
	return math.Exp2(x)
}
