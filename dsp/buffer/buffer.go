package buffer

import "github.com/cwbudde/algo-resynth/dsp/core"

// Buffer is reusable float64 scratch for one processing block. It is sized
// for the largest block up front; Resize within that capacity never
// allocates.
type Buffer struct {
	samples []float64
}

// New returns a zero-filled Buffer of the given length.
func New(length int) *Buffer {
	if length < 0 {
		length = 0
	}
	return &Buffer{samples: make([]float64, length)}
}

// Samples returns the underlying slice.
func (b *Buffer) Samples() []float64 {
	return b.samples
}

// Len returns the current number of samples.
func (b *Buffer) Len() int {
	return len(b.samples)
}

// Cap returns the current capacity of the backing slice.
func (b *Buffer) Cap() int {
	return cap(b.samples)
}

// Resize sets the length to n, reusing existing capacity when possible.
// New elements beyond the previous length are zeroed.
func (b *Buffer) Resize(n int) {
	if n < 0 {
		n = 0
	}
	oldLen := len(b.samples)
	if n <= cap(b.samples) {
		b.samples = b.samples[:n]
	} else {
		s := make([]float64, n)
		copy(s, b.samples)
		b.samples = s
	}
	// The backing array may hold samples from an earlier, longer block.
	if n > oldLen {
		core.Zero(b.samples[oldLen:])
	}
}

// Zero sets all samples to 0.
func (b *Buffer) Zero() {
	core.Zero(b.samples)
}

// ZeroRange sets samples in [start, end) to 0.
// Indices are clamped to valid bounds.
func (b *Buffer) ZeroRange(start, end int) {
	start = max(start, 0)
	end = min(end, len(b.samples))
	if start < end {
		core.Zero(b.samples[start:end])
	}
}

// LoadFloat32 fills the buffer from src starting at src[offset], widening
// to float64. Samples past the end of src read as silence.
func (b *Buffer) LoadFloat32(src []float32, offset int) {
	offset = max(offset, 0)
	n := 0
	if offset < len(src) {
		n = min(len(src)-offset, len(b.samples))
		for i, v := range src[offset : offset+n] {
			b.samples[i] = float64(v)
		}
	}
	b.ZeroRange(n, len(b.samples))
}

// StoreFloat32 writes the buffer into dst starting at dst[offset],
// narrowing to float32, and returns the number of samples written.
func (b *Buffer) StoreFloat32(dst []float32, offset int) int {
	offset = max(offset, 0)
	if offset >= len(dst) {
		return 0
	}
	n := min(len(dst)-offset, len(b.samples))
	for i, v := range b.samples[:n] {
		dst[offset+i] = float32(v)
	}
	return n
}
