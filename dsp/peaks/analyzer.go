package peaks

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-resynth/dsp/spectrum"
	"github.com/cwbudde/algo-resynth/dsp/window"
)

const (
	// MagnitudeThreshold is the minimum bin magnitude for a peak candidate.
	MagnitudeThreshold = 0.6
	// MaxCandidates bounds the local-maximum scan.
	MaxCandidates = 256

	minPeakBin = 2
	maxPeakBin = WindowSize - 2
	// amplitudeScale is the empirical normalization of a Hann-windowed
	// magnitude back to a partial amplitude.
	amplitudeScale = 0.2
)

var invSqrtWindow = 1 / math.Sqrt(WindowSize)

type binPeak struct {
	bin int
	mag float64
}

// Analyzer picks the dominant partials of a 512-sample frame.
//
// An Analyzer owns all of its FFT scratch memory. It is not thread-safe.
type Analyzer struct {
	sampleRate float64
	plan       *algofft.Plan[complex128]
	window     *window.Table

	windowed [WindowSize]float64
	fftIn    [FFTSize]complex128
	fftOut   [FFTSize]complex128
	re       [NumBins]float64
	im       [NumBins]float64
	mag      [NumBins]float64

	top        [MaxPeaks]binPeak
	candidates int
}

// NewAnalyzer returns an analyzer for the given sample rate.
func NewAnalyzer(sampleRate float64) (*Analyzer, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("peak analyzer sample rate must be > 0 and finite: %f", sampleRate)
	}

	plan, err := algofft.NewPlan64(FFTSize)
	if err != nil {
		return nil, fmt.Errorf("peaks: failed to create FFT plan: %w", err)
	}

	win, err := window.NewTable(window.TypeHann, WindowSize)
	if err != nil {
		return nil, fmt.Errorf("peaks: %w", err)
	}

	return &Analyzer{
		sampleRate: sampleRate,
		plan:       plan,
		window:     win,
	}, nil
}

// SampleRate returns the sample rate used for bin-to-Hz conversion.
func (a *Analyzer) SampleRate() float64 { return a.sampleRate }

// Candidates returns how many bins passed the threshold and local-maximum
// test during the last Analyze call, before the top-20 cut.
func (a *Analyzer) Candidates() int { return a.candidates }

// Magnitudes returns the bin magnitudes computed by the last Analyze call.
// The slice aliases internal storage and is overwritten on the next call.
func (a *Analyzer) Magnitudes() []float64 { return a.mag[:] }

// Analyze returns up to MaxPeaks peaks of frame ordered by descending
// magnitude and packed from slot 0. Remaining slots are empty.
func (a *Analyzer) Analyze(frame *[WindowSize]float64) Frame {
	var out Frame

	if err := a.window.ApplyTo(a.windowed[:], frame[:]); err != nil {
		return out
	}
	for i := range a.windowed {
		a.fftIn[i] = complex(a.windowed[i], 0)
	}
	for i := WindowSize; i < FFTSize; i++ {
		a.fftIn[i] = 0
	}

	if err := a.plan.Forward(a.fftOut[:], a.fftIn[:]); err != nil {
		return out
	}

	spectrum.SplitParts(a.re[:], a.im[:], a.fftOut[:NumBins])
	spectrum.MagnitudeFromParts(a.mag[:], a.re[:], a.im[:])

	n := a.pickTop()
	for i := range n {
		k := a.top[i].bin
		delta := spectrum.QuadraticOffset(a.mag[k-1], a.mag[k], a.mag[k+1])
		out.Set(i, Peak{
			Frequency: spectrum.BinToHz(float64(k)+delta, a.sampleRate, WindowSize),
			Amplitude: a.top[i].mag * invSqrtWindow * amplitudeScale,
		})
	}

	return out
}

// pickTop scans for candidate bins and keeps the MaxPeaks largest in
// a.top, largest first. Equal magnitudes keep ascending bin order.
func (a *Analyzer) pickTop() int {
	n := 0
	a.candidates = 0

	for k := minPeakBin; k <= maxPeakBin; k++ {
		m := a.mag[k]
		if m <= MagnitudeThreshold || !spectrum.IsLocalMax5(a.mag[:], k) {
			continue
		}

		a.candidates++
		if n == MaxPeaks && m <= a.top[n-1].mag {
			if a.candidates == MaxCandidates {
				break
			}
			continue
		}

		pos := n
		if n < MaxPeaks {
			n++
		} else {
			pos = MaxPeaks - 1
		}
		for pos > 0 && a.top[pos-1].mag < m {
			a.top[pos] = a.top[pos-1]
			pos--
		}
		a.top[pos] = binPeak{bin: k, mag: m}

		if a.candidates == MaxCandidates {
			break
		}
	}

	return n
}
