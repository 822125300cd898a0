package resynth

import (
	"math"
	"strings"
	"testing"

	"github.com/cwbudde/algo-resynth/dsp/peaks"
	"github.com/cwbudde/algo-resynth/dsp/synth"
	"github.com/cwbudde/algo-resynth/internal/testutil"
)

const (
	testSampleRate = 48000.0
	testBlock      = 512
)

func newTestReconstructor(t *testing.T, opts ...Option) *Reconstructor {
	t.Helper()
	r, err := New(testSampleRate, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

// runBlocks feeds input through r block by block and returns the output.
func runBlocks(r *Reconstructor, input []float64, block int) []float64 {
	out := make([]float64, len(input))
	for start := 0; start < len(input); start += block {
		end := min(start+block, len(input))
		r.Run(input[start:end], out[start:end], nil)
	}
	return out
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		sr   float64
		opts []Option
	}{
		{name: "zero rate", sr: 0},
		{name: "inf rate", sr: math.Inf(1)},
		{name: "no voices", sr: testSampleRate, opts: []Option{WithVoices(0)}},
		{name: "negative ramp", sr: testSampleRate, opts: []Option{WithRampLength(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.sr, tt.opts...); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	r := newTestReconstructor(t, nil, WithVoices(3), WithRampLength(0), WithSeed(9))
	if got := len(r.pool.Voices()); got != 3 {
		t.Fatalf("voices = %d, want 3", got)
	}
	if r.SampleRate() != testSampleRate {
		t.Fatalf("SampleRate() = %v, want %v", r.SampleRate(), testSampleRate)
	}
}

func TestControlsAreClamped(t *testing.T) {
	r := newTestReconstructor(t)
	if c := r.Controls(); c.Freeze || c.Transpose != 1 || c.Detune != 0 || r.SynthMode() {
		t.Fatalf("initial controls = %+v synth=%v", c, r.SynthMode())
	}

	tests := []struct {
		octaves   float64
		wantOct   float64
		wantRatio float64
	}{
		{octaves: 1, wantOct: 1, wantRatio: 2},
		{octaves: 3, wantOct: 2, wantRatio: 4},
		{octaves: -5, wantOct: -2, wantRatio: 0.25},
		{octaves: math.NaN(), wantOct: 0, wantRatio: 1},
	}
	for _, tt := range tests {
		r.SetTranspose(tt.octaves)
		if r.TransposeOctaves() != tt.wantOct {
			t.Fatalf("SetTranspose(%v): octaves = %v, want %v", tt.octaves, r.TransposeOctaves(), tt.wantOct)
		}
		if got := r.Controls().Transpose; math.Abs(got-tt.wantRatio) > 1e-3 {
			t.Fatalf("SetTranspose(%v): ratio = %v, want %v", tt.octaves, got, tt.wantRatio)
		}
	}

	for _, tt := range []struct{ in, want float64 }{{0.5, 0.5}, {2, 1}, {-1, 0}, {math.NaN(), 0}} {
		r.SetDetune(tt.in)
		if got := r.Controls().Detune; got != tt.want {
			t.Fatalf("SetDetune(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	r.SetFreeze(true)
	r.SetSynthMode(true)
	if !r.Controls().Freeze || !r.SynthMode() {
		t.Fatal("freeze or synth mode not stored")
	}
}

func TestRunPanicsOnLengthMismatch(t *testing.T) {
	r := newTestReconstructor(t)
	defer func() {
		rec := recover()
		if rec == nil {
			t.Fatal("expected panic")
		}
		if msg, ok := rec.(string); !ok || !strings.Contains(msg, "does not match") {
			t.Fatalf("panic = %v", rec)
		}
	}()
	r.Run(make([]float64, 4), make([]float64, 5), nil)
}

func TestRunTracksInputPartials(t *testing.T) {
	r := newTestReconstructor(t)
	in := testutil.SumOfSines(testSampleRate, 8*testBlock,
		testutil.SinePartial{FreqHz: 440, Amplitude: 0.5},
		testutil.SinePartial{FreqHz: 1000, Amplitude: 0.25},
	)
	out := runBlocks(r, in, testBlock)

	latest := r.Latest()
	if latest.Count() != 2 {
		t.Fatalf("tracked %d partials, want 2", latest.Count())
	}
	for _, want := range []float64{440, 1000} {
		found := false
		for i := range latest {
			if latest[i].Present && math.Abs(latest[i].Frequency-want) < 5 {
				found = true
			}
		}
		if !found {
			t.Fatalf("no tracked partial near %v Hz", want)
		}
	}

	testutil.RequireFinite(t, out)
	if rms := testutil.RMS(out[len(out)-testBlock:]); rms < 0.01 {
		t.Fatalf("output RMS = %v, want audible resynthesis", rms)
	}
}

func TestRunVariableBlockSizes(t *testing.T) {
	r := newTestReconstructor(t)
	in := testutil.DeterministicSine(700, testSampleRate, 0.5, 5000)
	out := make([]float64, len(in))
	pos := 0
	for i, n := range []int{1, 37, 128, 1024, 3000, 810} {
		if pos+n > len(in) {
			t.Fatalf("block %d overruns the test signal", i)
		}
		r.Run(in[pos:pos+n], out[pos:pos+n], nil)
		pos += n
	}
	testutil.RequireFinite(t, out)
	latest := r.Latest()
	for i := range latest {
		if latest[i].Present && math.Abs(latest[i].Frequency-700) < 5 {
			return
		}
	}
	t.Fatalf("no tracked partial near 700 Hz: %+v", *latest)
}

func TestSilenceFadesOutput(t *testing.T) {
	r := newTestReconstructor(t)
	runBlocks(r, testutil.DeterministicSine(440, testSampleRate, 0.8, 4*testBlock), testBlock)

	out := make([]float64, testBlock)
	r.Run(make([]float64, testBlock), out, nil)

	if r.Latest().Count() != 0 {
		t.Fatalf("tracked %d partials after silence, want 0", r.Latest().Count())
	}
	for i := synth.DefaultRampLength; i < len(out); i++ {
		if math.Abs(out[i]) > 1e-9 {
			t.Fatalf("out[%d] = %v after the fade, want silence", i, out[i])
		}
	}
}

func TestFreezeHoldsPartials(t *testing.T) {
	r := newTestReconstructor(t)
	runBlocks(r, testutil.DeterministicSine(440, testSampleRate, 0.8, 4*testBlock), testBlock)

	r.SetFreeze(true)
	out := runBlocks(r, make([]float64, 4*testBlock), testBlock)
	if rms := testutil.RMS(out[len(out)-testBlock:]); rms < 0.01 {
		t.Fatalf("frozen output RMS = %v, want the held partial", rms)
	}
}

func TestTransposeShiftsOutput(t *testing.T) {
	r := newTestReconstructor(t)
	r.SetTranspose(1)
	out := runBlocks(r, testutil.DeterministicSine(1000, testSampleRate, 0.5, 8*testBlock), testBlock)

	a, err := peaks.NewAnalyzer(testSampleRate)
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}
	var frame [peaks.WindowSize]float64
	copy(frame[:], out[len(out)-peaks.WindowSize:])
	got := a.Analyze(&frame)
	p, ok := got.Get(0)
	if !ok || math.Abs(p.Frequency-2000) > 20 {
		t.Fatalf("dominant output partial = %+v (%v), want near 2000 Hz", p, ok)
	}
}

func TestSynthModeFollowsNotes(t *testing.T) {
	r := newTestReconstructor(t)
	r.SetSynthMode(true)
	in := testutil.DeterministicSine(440, testSampleRate, 0.8, 4*testBlock)

	silent := runBlocks(r, in, testBlock)
	for i, x := range silent {
		if x != 0 {
			t.Fatalf("out[%d] = %v with no notes held", i, x)
		}
	}

	// Each event covers the samples from the previous event's offset up to
	// its own: 72 sounds in [0, 100), nothing in [100, 256), 76 from 256 on.
	out := make([]float64, testBlock)
	r.Run(in[:testBlock], out, []synth.Event{
		synth.NoteOn(100, 72, 100),
		synth.NoteOff(256, 72),
		synth.NoteOn(300, 76, 100),
	})
	if rms := testutil.RMS(out[:100]); rms == 0 {
		t.Fatal("no output in the first note's sub-block")
	}
	testutil.RequireSilent(t, out, 100, 256)
	if rms := testutil.RMS(out[256:]); rms == 0 {
		t.Fatal("no output after the second note-on")
	}
	if r.ActiveVoices() != 1 {
		t.Fatalf("ActiveVoices() = %d, want 1", r.ActiveVoices())
	}

	// Events are ignored outside synth mode.
	r.SetSynthMode(false)
	r.Run(in[:testBlock], out, []synth.Event{synth.NoteOff(0, 72)})
	if r.ActiveVoices() != 1 {
		t.Fatalf("ActiveVoices() = %d after single-voice run, want 1", r.ActiveVoices())
	}
}

func TestReset(t *testing.T) {
	r := newTestReconstructor(t)
	r.SetSynthMode(true)
	r.SetDetune(0.3)
	in := testutil.DeterministicSine(440, testSampleRate, 0.8, testBlock)
	r.Run(in, make([]float64, testBlock), []synth.Event{synth.NoteOn(0, 60, 100)})

	r.Reset()
	if r.Latest().Count() != 0 || r.ActiveVoices() != 0 {
		t.Fatalf("after Reset: tracked %d, active %d", r.Latest().Count(), r.ActiveVoices())
	}
	if r.Controls().Detune != 0.3 {
		t.Fatalf("Reset changed controls: %+v", r.Controls())
	}
}

func TestRunNoAllocs(t *testing.T) {
	r := newTestReconstructor(t)
	in := testutil.DeterministicSine(440, testSampleRate, 0.8, testBlock)
	out := make([]float64, testBlock)
	events := []synth.Event{synth.NoteOn(10, 60, 100), synth.NoteOff(300, 60)}

	testutil.RequireNoAllocs(t, 20, func() {
		clear(out)
		r.Run(in, out, nil)
	})

	r.SetSynthMode(true)
	testutil.RequireNoAllocs(t, 20, func() {
		clear(out)
		r.Run(in, out, events)
	})
}
