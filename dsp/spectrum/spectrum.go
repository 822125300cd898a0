package spectrum

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// SplitParts copies the real and imaginary parts of in into re and im.
// Only the first min(len(in), len(re), len(im)) bins are copied; the count is
// returned.
func SplitParts(re, im []float64, in []complex128) int {
	n := min(len(in), len(re), len(im))
	for i, c := range in[:n] {
		re[i] = real(c)
		im[i] = imag(c)
	}
	return n
}

// MagnitudeFromParts computes |X[k]| = sqrt(re[k]^2 + im[k]^2) into dst.
//
// All three slices must have the same length.
func MagnitudeFromParts(dst, re, im []float64) {
	vecmath.Magnitude(dst, re, im)
}

// PowerFromParts computes |X[k]|^2 = re[k]^2 + im[k]^2 into dst.
//
// All three slices must have the same length.
func PowerFromParts(dst, re, im []float64) {
	vecmath.Power(dst, re, im)
}

// IsLocalMax5 reports whether mag[k] is strictly greater than both immediate
// neighbors and both second-nearest neighbors. Bins closer than two to either
// edge are never local maxima.
func IsLocalMax5(mag []float64, k int) bool {
	if k < 2 || k+2 >= len(mag) {
		return false
	}
	m := mag[k]
	return m > mag[k-1] && m > mag[k+1] && m > mag[k-2] && m > mag[k+2]
}

// QuadraticOffset returns the sub-bin offset of a spectral peak from three
// neighboring magnitudes by fitting a parabola:
//
//	δ = (next - prev) / (2·(2·cur - prev - next))
//
// When the three magnitudes are collinear the denominator is zero and the
// vertex is undefined; the offset is then 0. Non-finite results also yield 0.
func QuadraticOffset(prev, cur, next float64) float64 {
	den := 2 * (2*cur - prev - next)
	if den == 0 {
		return 0
	}
	d := (next - prev) / den
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0
	}
	return d
}

// BinToHz converts a (fractional) bin index to Hz for a spectrum whose bins
// span 0 to Nyquist in halfBins steps.
func BinToHz(bin, sampleRate float64, halfBins int) float64 {
	if halfBins <= 0 {
		return 0
	}
	return bin * 0.5 * sampleRate / float64(halfBins)
}
