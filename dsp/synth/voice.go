package synth

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-resynth/dsp/core"
	"github.com/cwbudde/algo-resynth/dsp/osc"
	"github.com/cwbudde/algo-resynth/dsp/peaks"
	"github.com/cwbudde/algo-resynth/dsp/smooth"
)

const (
	// DefaultRampLength is the smoothing length, in samples, of every
	// per-partial parameter.
	DefaultRampLength = 64
	// NoteGain is the output level of a voice holding a note.
	NoteGain = 0.25

	initialFrequencyHz = 440.0
	minDetuneRatio     = 0.25
	maxDetuneRatio     = 4.0
)

// Controls are the per-block parameters shared by every voice.
type Controls struct {
	Freeze    bool    // keep the previous frequency and amplitude targets
	Transpose float64 // frequency ratio, 1 means unchanged
	Detune    float64 // depth of the per-partial random spread, in [0, 1]
}

// DefaultControls returns controls that resynthesize the input unchanged.
func DefaultControls() Controls {
	return Controls{Transpose: 1}
}

type partial struct {
	osc       osc.Sine
	freq      smooth.Linear
	amp       smooth.Linear
	transpose smooth.Linear
	random    smooth.Linear
	detune    smooth.Linear
}

// Voice plays the tracked partials on a bank of peaks.MaxPeaks smoothed sine
// oscillators. Oscillator i always follows tracker slot i.
type Voice struct {
	sampleRate float64
	rampLength int
	note       Note
	active     bool
	noise      [peaks.MaxPeaks]float64
	partials   [peaks.MaxPeaks]partial
}

// NewVoice returns a free voice. rng seeds the fixed per-partial detune
// offsets; nil uses a source seeded with 1.
func NewVoice(sampleRate float64, rampLength int, rng *rand.Rand) (*Voice, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("voice sample rate must be > 0 and finite: %f", sampleRate)
	}
	if rampLength < 0 {
		return nil, fmt.Errorf("voice ramp length must be >= 0: %d", rampLength)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	v := &Voice{sampleRate: sampleRate, rampLength: rampLength}
	for i := range v.noise {
		v.noise[i] = rng.Float64()*2 - 1
	}
	v.Reset()
	return v, nil
}

// Reset returns every oscillator and smoother to its initial state. The held
// note is kept.
func (v *Voice) Reset() {
	for i := range v.partials {
		p := &v.partials[i]
		p.osc = osc.New(0, 0, 0)
		p.osc.SetFrequencyHz(initialFrequencyHz, v.sampleRate)
		p.freq = smooth.NewLinear(initialFrequencyHz, v.rampLength)
		p.amp = smooth.NewLinear(0, v.rampLength)
		p.transpose = smooth.NewLinear(1, v.rampLength)
		p.random = smooth.NewLinear(v.noise[i], v.rampLength)
		p.detune = smooth.NewLinear(0, v.rampLength)
	}
}

// SampleRate returns the sample rate the voice renders at.
func (v *Voice) SampleRate() float64 { return v.sampleRate }

// NoteOn assigns note to the voice.
func (v *Voice) NoteOn(note, velocity uint8) {
	v.note = Note{Number: note, Velocity: velocity}
	v.active = true
}

// NoteOff frees the voice if it holds note.
func (v *Voice) NoteOff(note uint8) {
	if v.Matches(note) {
		v.Release()
	}
}

// Release frees the voice regardless of the note it holds.
func (v *Voice) Release() {
	v.note = Note{}
	v.active = false
}

// IsFree reports whether the voice holds no note.
func (v *Voice) IsFree() bool { return !v.active }

// Matches reports whether the voice holds note.
func (v *Voice) Matches(note uint8) bool {
	return v.active && v.note.Number == note
}

// Note returns the held note and whether there is one.
func (v *Voice) Note() (Note, bool) { return v.note, v.active }

// Oscillator returns a copy of oscillator i.
func (v *Voice) Oscillator(i int) osc.Sine { return v.partials[i].osc }

// Prepare sets the smoother targets for the next block. Transpose and detune
// always follow c. Unless c.Freeze is set, frequency and amplitude follow the
// tracked slots and empty slots fade to silence.
func (v *Voice) Prepare(table *peaks.Frame, c Controls) {
	for i := range v.partials {
		p := &v.partials[i]
		p.transpose.SetTarget(c.Transpose)
		p.detune.SetTarget(c.Detune)
		if c.Freeze {
			continue
		}
		if pk, ok := table.Get(i); ok {
			p.freq.SetTarget(pk.Frequency)
			p.amp.SetTarget(pk.Amplitude)
		} else {
			p.amp.SetTarget(0)
		}
	}
}

// Render adds the voice to block, hard-clipping the running sum to [-1, 1].
// A free voice still advances its oscillators but contributes silence.
func (v *Voice) Render(block []float64) {
	pitch, gain := 1.0, 0.0
	if v.active {
		pitch = core.NoteRatio(v.note.Number)
		gain = NoteGain
	}

	for i := range v.partials {
		p := &v.partials[i]
		for j := range block {
			spread := core.Clamp(core.Exp2(p.random.Next()*2*p.detune.Next()), minDetuneRatio, maxDetuneRatio)
			p.osc.SetFrequencyHz(p.freq.Next()*p.transpose.Next()*spread*pitch, v.sampleRate)
			p.osc.SetAmplitude(core.FlushDenormals(p.amp.Next() * gain))
			block[j] = core.Clamp(block[j]+p.osc.Next(), -1, 1)
		}
	}
}
