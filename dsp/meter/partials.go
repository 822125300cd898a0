package meter

import (
	"math"

	"github.com/cwbudde/algo-resynth/dsp/peaks"
)

// PartialStats describes the occupied slots of a partial table.
type PartialStats struct {
	Count          int
	TotalAmplitude float64
	Centroid       float64 // amplitude-weighted mean frequency, Hz
	Spread         float64 // amplitude-weighted standard deviation, Hz
	Lowest         float64 // Hz, 0 when empty
	Highest        float64 // Hz, 0 when empty
}

// Partials computes PartialStats for f. Empty tables and tables with zero
// total amplitude report a centroid and spread of 0.
func Partials(f *peaks.Frame) PartialStats {
	var s PartialStats
	var weighted float64
	for i := range f {
		p, ok := f.Get(i)
		if !ok {
			continue
		}
		if s.Count == 0 || p.Frequency < s.Lowest {
			s.Lowest = p.Frequency
		}
		if s.Count == 0 || p.Frequency > s.Highest {
			s.Highest = p.Frequency
		}
		s.Count++
		s.TotalAmplitude += p.Amplitude
		weighted += p.Frequency * p.Amplitude
	}
	if s.TotalAmplitude == 0 {
		return s
	}

	s.Centroid = weighted / s.TotalAmplitude
	var sq float64
	for i := range f {
		if p, ok := f.Get(i); ok {
			d := p.Frequency - s.Centroid
			sq += d * d * p.Amplitude
		}
	}
	s.Spread = math.Sqrt(sq / s.TotalAmplitude)
	return s
}
