package core

import "math"

const defaultEpsilon = 1e-12

// MiddleC is the MIDI note number that plays partials at their analyzed pitch.
const MiddleC = 60

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// FlushDenormals converts tiny denormal-like values to exact zero.
// Oscillator amplitudes ramping toward silence pass through this range.
func FlushDenormals(x float64) float64 {
	const epsilon = 1e-30
	if x > -epsilon && x < epsilon {
		return 0
	}

	return x
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// NoteRatio returns the frequency ratio of a MIDI note relative to [MiddleC].
func NoteRatio(note uint8) float64 {
	return Exp2(float64(int(note)-MiddleC) / 12)
}

// OctavesToRatio converts a signed octave offset to a frequency ratio.
func OctavesToRatio(octaves float64) float64 {
	return Exp2(octaves)
}
