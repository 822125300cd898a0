//go:build fastmath

package core

import "github.com/meko-christian/algo-approx"

// ln2 is the natural logarithm of 2.
const ln2 = 0.693147180559945309417232121458

// Exp2 computes 2^x using fast approximation.
// Uses the identity: 2^x = e^(x * ln(2))
func Exp2(x float64) float64 {
	return approx.FastExp(x * ln2)
}
