package synth

import "fmt"

// EventKind identifies the payload of an Event.
type EventKind uint8

const (
	// EventNone changes no note and only ends a sub-block at its offset.
	EventNone EventKind = iota
	// EventNoteOn assigns a note to a free voice.
	EventNoteOn
	// EventNoteOff releases every voice holding a note.
	EventNoteOff
)

func (k EventKind) String() string {
	switch k {
	case EventNone:
		return "none"
	case EventNoteOn:
		return "note-on"
	case EventNoteOff:
		return "note-off"
	default:
		return fmt.Sprintf("EventKind(%d)", uint8(k))
	}
}

// Event is a note change inside the current block. Offset ends the sub-block
// the change applies to; the sub-block starts at the previous event's offset.
type Event struct {
	Offset   int
	Kind     EventKind
	Note     uint8
	Velocity uint8
}

// NoteOn returns a note-on event.
func NoteOn(offset int, note, velocity uint8) Event {
	return Event{Offset: offset, Kind: EventNoteOn, Note: note, Velocity: velocity}
}

// NoteOff returns a note-off event.
func NoteOff(offset int, note uint8) Event {
	return Event{Offset: offset, Kind: EventNoteOff, Note: note}
}

// Note is a MIDI note held by a voice.
type Note struct {
	Number   uint8
	Velocity uint8 // recorded only; output level does not follow velocity
}
