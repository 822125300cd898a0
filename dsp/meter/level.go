package meter

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// LevelStats holds the level statistics of everything passed to a Level.
//
//nolint:revive
type LevelStats struct {
	Length         int
	Peak           float64 // max |x|
	Peak_dB        float64
	RMS            float64
	RMS_dB         float64
	CrestFactor_dB float64 // 0 for silence
	Clipped        int     // samples at or beyond full scale
}

// Level accumulates level statistics incrementally across blocks.
type Level struct {
	n       int
	sumSq   float64
	peak    float64
	clipped int
}

// NewLevel returns an empty accumulator.
func NewLevel() *Level {
	return &Level{}
}

// Update adds a block of samples.
func (l *Level) Update(block []float64) {
	if len(block) == 0 {
		return
	}
	l.peak = math.Max(l.peak, vecmath.MaxAbs(block))
	for _, x := range block {
		l.sumSq += x * x
		if x >= 1 || x <= -1 {
			l.clipped++
		}
	}
	l.n += len(block)
}

// Result computes the statistics of all samples seen so far.
func (l *Level) Result() LevelStats {
	if l.n == 0 {
		return LevelStats{
			Peak_dB: math.Inf(-1),
			RMS_dB:  math.Inf(-1),
		}
	}

	rms := math.Sqrt(l.sumSq / float64(l.n))
	var crest float64
	if rms > 0 {
		crest = ampTodB(l.peak / rms)
	}
	return LevelStats{
		Length:         l.n,
		Peak:           l.peak,
		Peak_dB:        ampTodB(l.peak),
		RMS:            rms,
		RMS_dB:         ampTodB(rms),
		CrestFactor_dB: crest,
		Clipped:        l.clipped,
	}
}

// Reset clears all accumulated data.
func (l *Level) Reset() {
	*l = Level{}
}

// ampTodB converts an amplitude to decibels. Zero maps to -Inf.
func ampTodB(value float64) float64 {
	a := math.Abs(value)
	if a == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(a)
}
