package synth

import (
	"math/rand"
	"testing"

	"github.com/cwbudde/algo-resynth/internal/testutil"
)

func newTestSynth(t *testing.T, n int) *Synth {
	t.Helper()
	s, err := NewSynth(testSampleRate, n, DefaultRampLength, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("NewSynth() error = %v", err)
	}
	return s
}

func TestNewSynthValidation(t *testing.T) {
	if _, err := NewSynth(testSampleRate, 0, DefaultRampLength, nil); err == nil {
		t.Fatal("expected error for zero voices")
	}
	if _, err := NewSynth(-1, 4, DefaultRampLength, nil); err == nil {
		t.Fatal("expected error for negative sample rate")
	}
}

func TestAllocateNoteTwiceUsesOneVoice(t *testing.T) {
	s := newTestSynth(t, DefaultVoices)
	s.AllocateNote(60, 127)
	s.AllocateNote(60, 127)
	if got := s.ActiveVoices(); got != 1 {
		t.Fatalf("ActiveVoices() = %d, want 1", got)
	}
}

func TestDeallocateMissingNoteIsNoop(t *testing.T) {
	s := newTestSynth(t, DefaultVoices)
	s.AllocateNote(60, 127)
	s.DeallocateNote(61)
	if got := s.ActiveVoices(); got != 1 {
		t.Fatalf("ActiveVoices() = %d, want 1", got)
	}
	s.DeallocateNote(60)
	if got := s.ActiveVoices(); got != 0 {
		t.Fatalf("ActiveVoices() = %d, want 0", got)
	}
}

func TestAllocateBeyondPolyphonyDrops(t *testing.T) {
	s := newTestSynth(t, 3)
	for n := uint8(60); n < 66; n++ {
		s.AllocateNote(n, 127)
	}
	if got := s.ActiveVoices(); got != 3 {
		t.Fatalf("ActiveVoices() = %d, want 3", got)
	}
	for i, n := range []uint8{60, 61, 62} {
		if !s.Voices()[i].Matches(n) {
			t.Fatalf("voice %d does not hold note %d", i, n)
		}
	}

	// Releasing one note frees a voice for the next one.
	s.DeallocateNote(61)
	s.AllocateNote(70, 127)
	if !s.Voices()[1].Matches(70) {
		t.Fatal("freed voice was not reused")
	}
}

func TestRenderAppliesEventBeforeItsSubBlock(t *testing.T) {
	s := newTestSynth(t, 2)
	s.Prepare(singlePeak(1000, 1), DefaultControls())

	// The first event covers [0, 100), so the note sounds from sample 0.
	out := make([]float64, 256)
	s.Render(out, []Event{NoteOn(100, 60, 127)})

	if rms := testutil.RMS(out[:100]); rms == 0 {
		t.Fatal("no output in the note-on sub-block")
	}
	if rms := testutil.RMS(out[100:]); rms == 0 {
		t.Fatal("no output after the last event")
	}
}

func TestRenderSubBlocksFollowEventOrder(t *testing.T) {
	s := newTestSynth(t, 2)
	s.Prepare(singlePeak(1000, 1), DefaultControls())

	out := make([]float64, 256)
	s.Render(out, []Event{
		NoteOn(100, 60, 127), // sounds in [0, 100)
		NoteOff(160, 60),     // silent in [100, 160)
		NoteOn(200, 64, 127), // sounds in [160, 200) and after
	})

	if rms := testutil.RMS(out[:100]); rms == 0 {
		t.Fatal("no output in [0, 100)")
	}
	testutil.RequireSilent(t, out, 100, 160)
	if rms := testutil.RMS(out[160:]); rms == 0 {
		t.Fatal("no output from 160 on")
	}
	if got := s.ActiveVoices(); got != 1 {
		t.Fatalf("ActiveVoices() = %d, want 1", got)
	}
}

func TestRenderNoteOffSilencesWholeBlock(t *testing.T) {
	s := newTestSynth(t, 2)
	s.AllocateNote(60, 127)
	s.Prepare(singlePeak(1000, 1), DefaultControls())

	out := make([]float64, 256)
	s.Render(out, []Event{NoteOff(128, 60)})

	testutil.RequireSilent(t, out, 0, len(out))
	if s.ActiveVoices() != 0 {
		t.Fatalf("ActiveVoices() = %d, want 0", s.ActiveVoices())
	}
}

func TestRenderNoneEventOnlySplits(t *testing.T) {
	s := newTestSynth(t, 2)
	s.AllocateNote(60, 127)
	s.Prepare(singlePeak(1000, 1), DefaultControls())

	out := make([]float64, 256)
	s.Render(out, []Event{{Offset: 50, Kind: EventNone}, NoteOff(128, 60)})

	if rms := testutil.RMS(out[:50]); rms == 0 {
		t.Fatal("no output before the marker")
	}
	testutil.RequireSilent(t, out, 50, len(out))
}

func TestRenderClampsOffsets(t *testing.T) {
	s := newTestSynth(t, 4)
	s.Prepare(singlePeak(500, 0.5), DefaultControls())

	out := make([]float64, 64)
	events := []Event{
		NoteOn(40, 60, 127),
		NoteOn(10, 64, 127),  // earlier than the previous event
		NoteOn(-5, 67, 127),  // negative
		NoteOn(999, 72, 127), // past the block
		{Offset: 20, Kind: 0, Note: 1},
	}
	s.Render(out, events)
	testutil.RequireFinite(t, out)
	if got := s.ActiveVoices(); got != 4 {
		t.Fatalf("ActiveVoices() = %d, want 4", got)
	}
}

func TestSynthReset(t *testing.T) {
	s := newTestSynth(t, 2)
	s.AllocateNote(60, 127)
	s.AllocateNote(62, 127)
	s.Reset()
	if s.ActiveVoices() != 0 {
		t.Fatalf("ActiveVoices() after Reset = %d, want 0", s.ActiveVoices())
	}
}

func TestSynthRenderNoAllocs(t *testing.T) {
	s := newTestSynth(t, DefaultVoices)
	table := singlePeak(440, 0.5)
	out := make([]float64, 256)
	events := []Event{NoteOn(0, 60, 127), NoteOn(64, 67, 127), NoteOff(200, 60)}
	testutil.RequireNoAllocs(t, 20, func() {
		s.Prepare(table, DefaultControls())
		s.Render(out, events)
	})
}

func TestEventKindString(t *testing.T) {
	tests := []struct {
		kind EventKind
		want string
	}{
		{EventNone, "none"},
		{EventNoteOn, "note-on"},
		{EventNoteOff, "note-off"},
		{EventKind(9), "EventKind(9)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Fatalf("String() = %q, want %q", got, tt.want)
		}
	}
}
