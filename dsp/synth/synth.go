package synth

import (
	"fmt"
	"math/rand"

	"github.com/cwbudde/algo-resynth/dsp/peaks"
)

// DefaultVoices is the default polyphony of a Synth.
const DefaultVoices = 8

// Synth is a fixed pool of voices driven by note events.
type Synth struct {
	voices []*Voice
}

// NewSynth builds a pool of n voices. Every voice draws its detune offsets
// from rng in turn; nil uses a source seeded with 1.
func NewSynth(sampleRate float64, n, rampLength int, rng *rand.Rand) (*Synth, error) {
	if n <= 0 {
		return nil, fmt.Errorf("synth voice count must be > 0: %d", n)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	s := &Synth{voices: make([]*Voice, n)}
	for i := range s.voices {
		v, err := NewVoice(sampleRate, rampLength, rng)
		if err != nil {
			return nil, fmt.Errorf("synth: %w", err)
		}
		s.voices[i] = v
	}
	return s, nil
}

// Voices returns the pool. Callers must not modify the slice.
func (s *Synth) Voices() []*Voice { return s.voices }

// ActiveVoices returns the number of voices holding a note.
func (s *Synth) ActiveVoices() int {
	n := 0
	for _, v := range s.voices {
		if !v.IsFree() {
			n++
		}
	}
	return n
}

// AllocateNote assigns note to the first free voice. It does nothing if a
// voice already holds note, and drops the note if no voice is free.
func (s *Synth) AllocateNote(note, velocity uint8) {
	for _, v := range s.voices {
		if v.Matches(note) {
			return
		}
	}
	for _, v := range s.voices {
		if v.IsFree() {
			v.NoteOn(note, velocity)
			return
		}
	}
}

// DeallocateNote releases every voice holding note.
func (s *Synth) DeallocateNote(note uint8) {
	for _, v := range s.voices {
		v.NoteOff(note)
	}
}

// Prepare sets the targets of every voice from table.
func (s *Synth) Prepare(table *peaks.Frame, c Controls) {
	for _, v := range s.voices {
		v.Prepare(table, c)
	}
}

// Reset releases every note and resets every voice.
func (s *Synth) Reset() {
	for _, v := range s.voices {
		v.Release()
		v.Reset()
	}
}

// Render adds every voice to output. Each event is applied and then the
// sub-block from the previous event's offset up to its own offset is
// rendered; the rest of the block follows the last event. Offsets are
// clamped to the block and never move backwards.
func (s *Synth) Render(output []float64, events []Event) {
	start := 0
	for _, e := range events {
		end := min(max(e.Offset, start), len(output))
		s.apply(e)
		s.render(output[start:end])
		start = end
	}
	s.render(output[start:])
}

func (s *Synth) apply(e Event) {
	switch e.Kind {
	case EventNoteOn:
		s.AllocateNote(e.Note, e.Velocity)
	case EventNoteOff:
		s.DeallocateNote(e.Note)
	}
}

func (s *Synth) render(block []float64) {
	if len(block) == 0 {
		return
	}
	for _, v := range s.voices {
		v.Render(block)
	}
}
