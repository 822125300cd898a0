package peaks

import (
	"testing"

	"github.com/cwbudde/algo-resynth/internal/testutil"
)

func BenchmarkAnalyze(b *testing.B) {
	a, err := NewAnalyzer(48000)
	if err != nil {
		b.Fatalf("NewAnalyzer() error = %v", err)
	}
	frame := frameOf(testutil.SumOfSines(48000, WindowSize,
		testutil.SinePartial{FreqHz: 220, Amplitude: 0.7},
		testutil.SinePartial{FreqHz: 440, Amplitude: 0.5},
		testutil.SinePartial{FreqHz: 660, Amplitude: 0.3},
		testutil.SinePartial{FreqHz: 880, Amplitude: 0.2},
	))

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		_ = a.Analyze(frame)
	}
}

func BenchmarkTrackerUpdate(b *testing.B) {
	var x, y Frame
	for i := range MaxPeaks {
		x.Set(i, Peak{Frequency: 200 * float64(i+1), Amplitude: 1})
		y.Set(MaxPeaks-1-i, Peak{Frequency: 200*float64(i+1) + 3, Amplitude: 1})
	}
	tr := NewTracker()

	b.ReportAllocs()
	b.ResetTimer()
	for i := range b.N {
		if i%2 == 0 {
			tr.Update(&x)
		} else {
			tr.Update(&y)
		}
	}
}
