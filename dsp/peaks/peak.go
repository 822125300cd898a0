package peaks

const (
	// MaxPeaks is the number of partial slots per frame.
	MaxPeaks = 20
	// WindowSize is the analysis frame length in samples.
	WindowSize = 512
	// FFTSize is the zero-padded transform length.
	FFTSize = 2 * WindowSize
	// NumBins is the number of non-negative frequency bins of the transform.
	NumBins = FFTSize/2 + 1
)

// Peak is one detected spectral component of one analysis frame.
type Peak struct {
	Frequency float64 // Hz
	Amplitude float64 // linear
}

// Slot is an optional Peak. An empty slot means no partial is currently
// assigned there, not that silence was detected.
type Slot struct {
	Peak
	Present bool
}

// Frame is a fixed set of partial slots.
type Frame [MaxPeaks]Slot

// Set stores p at slot i.
func (f *Frame) Set(i int, p Peak) {
	f[i] = Slot{Peak: p, Present: true}
}

// Clear empties slot i.
func (f *Frame) Clear(i int) {
	f[i] = Slot{}
}

// Get returns the peak at slot i and whether the slot is occupied.
func (f *Frame) Get(i int) (Peak, bool) {
	return f[i].Peak, f[i].Present
}

// Count returns the number of occupied slots.
func (f *Frame) Count() int {
	n := 0
	for i := range f {
		if f[i].Present {
			n++
		}
	}
	return n
}

// Reset empties every slot.
func (f *Frame) Reset() {
	*f = Frame{}
}
