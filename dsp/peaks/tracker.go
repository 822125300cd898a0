package peaks

import (
	"cmp"
	"math"
	"slices"
)

// MaxDistanceHz is the largest frequency jump a slot may follow between two
// frames. Farther peaks take over a free slot instead.
const MaxDistanceHz = 187.5

type pairDistance struct {
	slot  uint8 // table slot
	batch uint8 // batch slot
	hz    float64
}

// Tracker keeps partial identity stable across analysis frames.
//
// The zero value is ready to use with every slot empty. Tracker is not
// thread-safe and never allocates.
type Tracker struct {
	peaks Frame
}

// NewTracker returns a tracker with an empty table.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Latest returns the current slot table. Callers must not modify it.
func (t *Tracker) Latest() *Frame { return &t.peaks }

// Reset empties every slot.
func (t *Tracker) Reset() { t.peaks.Reset() }

// Update reassigns batch onto the table in place.
//
// Batch peaks matched to a previous peak within MaxDistanceHz keep that
// peak's slot. Unmatched batch peaks fill slots left empty, lowest slot
// first. Slots that receive nothing become empty.
func (t *Tracker) Update(batch *Frame) {
	matches := Match(&t.peaks, batch)

	var next Frame
	var used [MaxPeaks]bool
	for slot, b := range matches {
		if b < 0 {
			continue
		}
		next[slot] = batch[b]
		used[b] = true
	}

	free := 0
	for b := range batch {
		if !batch[b].Present || used[b] {
			continue
		}
		for free < MaxPeaks && next[free].Present {
			free++
		}
		if free == MaxPeaks {
			break
		}
		next[free] = batch[b]
	}

	t.peaks = next
}

// Match greedily pairs table slots with batch slots by ascending frequency
// distance and returns, for each table slot, the batch slot assigned to it or
// -1. Only occupied slots take part and pairs farther apart than
// MaxDistanceHz are never accepted. Equal distances are resolved by lower
// table slot, then lower batch slot.
func Match(table, batch *Frame) [MaxPeaks]int {
	var pairs [MaxPeaks * MaxPeaks]pairDistance
	n := 0
	for a := range table {
		if !table[a].Present {
			continue
		}
		for b := range batch {
			if !batch[b].Present {
				continue
			}
			d := math.Abs(table[a].Frequency - batch[b].Frequency)
			if math.IsNaN(d) {
				continue
			}
			pairs[n] = pairDistance{slot: uint8(a), batch: uint8(b), hz: d}
			n++
		}
	}

	slices.SortFunc(pairs[:n], comparePairs)

	var matches [MaxPeaks]int
	for i := range matches {
		matches[i] = -1
	}

	var takenSlot, takenBatch [MaxPeaks]bool
	accepted := 0
	for _, p := range pairs[:n] {
		if accepted == MaxPeaks || p.hz > MaxDistanceHz {
			break
		}
		if takenSlot[p.slot] || takenBatch[p.batch] {
			continue
		}
		takenSlot[p.slot] = true
		takenBatch[p.batch] = true
		matches[p.slot] = int(p.batch)
		accepted++
	}

	return matches
}

func comparePairs(x, y pairDistance) int {
	if c := cmp.Compare(x.hz, y.hz); c != 0 {
		return c
	}
	if c := cmp.Compare(x.slot, y.slot); c != 0 {
		return c
	}
	return cmp.Compare(x.batch, y.batch)
}
