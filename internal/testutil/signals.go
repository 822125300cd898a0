package testutil

import (
	"math"
	"math/rand"
)

// SinePartial is one component of SumOfSines.
type SinePartial struct {
	FreqHz    float64
	Amplitude float64
}

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	return SumOfSines(sampleRate, length, SinePartial{FreqHz: freqHz, Amplitude: amplitude})
}

// SumOfSines returns the sum of zero-phase sines over length samples.
func SumOfSines(sampleRate float64, length int, partials ...SinePartial) []float64 {
	out := make([]float64, length)
	for _, p := range partials {
		step := 2 * math.Pi * p.FreqHz / sampleRate
		for i := range out {
			out[i] += p.Amplitude * math.Sin(step*float64(i))
		}
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// RMS returns the root mean square of data, or 0 for an empty slice.
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(data)))
}
