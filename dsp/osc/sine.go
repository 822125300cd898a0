package osc

import (
	"math"

	"github.com/cwbudde/algo-resynth/dsp/core"
)

const (
	// MinFrequencyHz is the lowest frequency SetFrequencyHz will produce.
	MinFrequencyHz = 20.0
	// RolloffStartHz is where the anti-alias gain starts falling below 1.
	RolloffStartHz = 18000.0

	rolloffSlope     = -0.00025
	rolloffIntercept = 5.5
	twoPi            = 2 * math.Pi
)

// Sine is a stateful sine generator with a phase accumulator.
//
// Next must be called exactly once per output sample. Sine is not
// thread-safe and never allocates.
type Sine struct {
	phase         float64 // radians in [0, 2π)
	omega         float64 // radians per sample
	amplitude     float64
	antiAliasGain float64
}

// New returns an oscillator with the given angular frequency (radians per
// sample), amplitude and starting phase.
func New(angularFrequency, amplitude, phase float64) Sine {
	return Sine{
		phase:         wrapPhase(phase),
		omega:         angularFrequency,
		amplitude:     amplitude,
		antiAliasGain: 1,
	}
}

// AntiAliasGain returns the amplitude rolloff for a partial at hz: 1 up to
// 18 kHz, then falling linearly to 0 at 22 kHz.
func AntiAliasGain(hz float64) float64 {
	if hz <= RolloffStartHz {
		return 1
	}
	return core.Clamp(rolloffSlope*hz+rolloffIntercept, 0, 1)
}

// SetFrequencyHz clamps hz to [20, sampleRate/2], converts it to radians per
// sample and recomputes the anti-alias gain. Out-of-range input is clamped,
// never rejected.
func (s *Sine) SetFrequencyHz(hz, sampleRate float64) {
	hz = core.Clamp(hz, MinFrequencyHz, 0.5*sampleRate)
	s.omega = twoPi * hz / sampleRate
	s.antiAliasGain = AntiAliasGain(hz)
}

// SetAngularFrequency sets the phase increment in radians per sample
// directly. The anti-alias gain is left unchanged.
func (s *Sine) SetAngularFrequency(omega float64) { s.omega = omega }

// SetAmplitude sets the output amplitude.
func (s *Sine) SetAmplitude(amplitude float64) { s.amplitude = amplitude }

// Next returns the current sample and advances the phase by one step.
func (s *Sine) Next() float64 {
	out := math.Sin(s.phase) * s.amplitude * s.antiAliasGain
	s.phase = wrapPhase(s.phase + s.omega)
	return out
}

// Phase returns the current phase in radians.
func (s Sine) Phase() float64 { return s.phase }

// AngularFrequency returns the phase increment in radians per sample.
func (s Sine) AngularFrequency() float64 { return s.omega }

// Amplitude returns the current amplitude.
func (s Sine) Amplitude() float64 { return s.amplitude }

// Gain returns the anti-alias gain computed by the last SetFrequencyHz.
func (s Sine) Gain() float64 { return s.antiAliasGain }

func wrapPhase(p float64) float64 {
	if p >= 0 && p < twoPi {
		return p
	}
	p = math.Mod(p, twoPi)
	if p < 0 {
		p += twoPi
	}
	return p
}
