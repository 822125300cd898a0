package resynth

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-resynth/dsp/buffer"
	"github.com/cwbudde/algo-resynth/dsp/core"
	"github.com/cwbudde/algo-resynth/dsp/peaks"
	"github.com/cwbudde/algo-resynth/dsp/synth"
)

const (
	// MaxTransposeOctaves bounds SetTranspose in both directions.
	MaxTransposeOctaves = 2.0
)

// Reconstructor analyzes the incoming stream and resynthesizes it from the
// tracked partials. It is not thread-safe: one audio thread owns it.
type Reconstructor struct {
	sampleRate float64

	ring     *buffer.Ring
	analysis [peaks.WindowSize]float64
	analyzer *peaks.Analyzer
	tracker  *peaks.Tracker

	controls         synth.Controls
	transposeOctaves float64
	synthMode        bool

	voice *synth.Voice
	pool  *synth.Synth
}

// New returns a reconstructor for sampleRate with every control at rest:
// not frozen, no transpose, no detune, single-voice mode.
func New(sampleRate float64, opts ...Option) (*Reconstructor, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("reconstructor sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	analyzer, err := peaks.NewAnalyzer(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("reconstructor: %w", err)
	}

	rng := rand.New(rand.NewSource(cfg.seed))
	voice, err := synth.NewVoice(sampleRate, cfg.rampLength, rng)
	if err != nil {
		return nil, fmt.Errorf("reconstructor: %w", err)
	}
	voice.NoteOn(core.MiddleC, 127)

	pool, err := synth.NewSynth(sampleRate, cfg.voices, cfg.rampLength, rng)
	if err != nil {
		return nil, fmt.Errorf("reconstructor: %w", err)
	}

	return &Reconstructor{
		sampleRate: sampleRate,
		ring:       buffer.NewRing(peaks.WindowSize),
		analyzer:   analyzer,
		tracker:    peaks.NewTracker(),
		controls:   synth.DefaultControls(),
		voice:      voice,
		pool:       pool,
	}, nil
}

// SampleRate returns the rate the reconstructor was built for.
func (r *Reconstructor) SampleRate() float64 { return r.sampleRate }

// SetFreeze holds the current partial frequencies and amplitudes while true.
func (r *Reconstructor) SetFreeze(freeze bool) { r.controls.Freeze = freeze }

// SetTranspose shifts every partial by octaves, clamped to
// [-MaxTransposeOctaves, MaxTransposeOctaves]. NaN resets to 0.
func (r *Reconstructor) SetTranspose(octaves float64) {
	if math.IsNaN(octaves) {
		octaves = 0
	}
	r.transposeOctaves = core.Clamp(octaves, -MaxTransposeOctaves, MaxTransposeOctaves)
	r.controls.Transpose = core.OctavesToRatio(r.transposeOctaves)
}

// SetDetune sets the random per-partial spread, clamped to [0, 1]. NaN
// resets to 0.
func (r *Reconstructor) SetDetune(amount float64) {
	if math.IsNaN(amount) {
		amount = 0
	}
	r.controls.Detune = core.Clamp(amount, 0, 1)
}

// SetSynthMode switches between the single always-on voice and the
// note-driven polyphonic pool.
func (r *Reconstructor) SetSynthMode(on bool) { r.synthMode = on }

// Controls returns the controls applied on the next Run. Transpose is a
// frequency ratio.
func (r *Reconstructor) Controls() synth.Controls { return r.controls }

// TransposeOctaves returns the clamped transpose amount in octaves.
func (r *Reconstructor) TransposeOctaves() float64 { return r.transposeOctaves }

// SynthMode reports whether the polyphonic pool is active.
func (r *Reconstructor) SynthMode() bool { return r.synthMode }

// ActiveVoices returns the number of pool voices holding a note.
func (r *Reconstructor) ActiveVoices() int { return r.pool.ActiveVoices() }

// Latest returns the tracked partial table of the last Run. Callers must not
// modify it.
func (r *Reconstructor) Latest() *peaks.Frame { return r.tracker.Latest() }

// Run processes one block. The resynthesized signal is added to output, which
// the caller normally zeroes first. Events must be sorted by offset; they only
// take effect in synth mode.
//
// Run panics if input and output differ in length.
func (r *Reconstructor) Run(input, output []float64, events []synth.Event) {
	if len(input) != len(output) {
		panic(fmt.Sprintf("resynth: input length %d does not match output length %d", len(input), len(output)))
	}

	r.ring.WriteBlock(input)
	r.ring.ReadInto(r.analysis[:])

	batch := r.analyzer.Analyze(&r.analysis)
	r.tracker.Update(&batch)
	table := r.tracker.Latest()

	if r.synthMode {
		r.pool.Prepare(table, r.controls)
		r.pool.Render(output, events)
		return
	}
	r.voice.Prepare(table, r.controls)
	r.voice.Render(output)
}

// Reset clears the analysis history and the tracked table, releases every
// pool note and returns all oscillators to rest. Controls are kept.
func (r *Reconstructor) Reset() {
	r.ring.Reset()
	clear(r.analysis[:])
	r.tracker.Reset()
	r.voice.Reset()
	r.pool.Reset()
}
