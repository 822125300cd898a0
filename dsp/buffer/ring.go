package buffer

import "github.com/cwbudde/algo-resynth/dsp/core"

// Ring is a fixed-capacity circular sample buffer.
//
// The write index always wraps modulo the capacity. Ring is not thread-safe.
type Ring struct {
	data  []float64
	index int
}

// NewRing returns a zero-filled ring holding capacity samples.
// Capacities below 1 are raised to 1.
func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{data: make([]float64, capacity)}
}

// Len returns the fixed capacity of the ring.
func (r *Ring) Len() int { return len(r.data) }

// Index returns the position the next Write will store to. It is also the
// position of the oldest sample.
func (r *Ring) Index() int { return r.index }

// Write stores v over the oldest sample.
func (r *Ring) Write(v float64) {
	r.data[r.index] = v
	r.index++
	if r.index == len(r.data) {
		r.index = 0
	}
}

// WriteBlock writes every sample of block in order.
func (r *Ring) WriteBlock(block []float64) {
	n := len(r.data)
	// Only the newest n samples survive a long block.
	if len(block) > n {
		skipped := len(block) - n
		r.index = (r.index + skipped) % n
		block = block[skipped:]
	}
	for len(block) > 0 {
		c := copy(r.data[r.index:], block)
		block = block[c:]
		r.index += c
		if r.index == n {
			r.index = 0
		}
	}
}

// Reader returns an iterator over the whole ring, oldest sample first.
// The reader sees the ring as it is during iteration; it is meant to be
// drained before the next Write.
func (r *Ring) Reader() Reader {
	return Reader{data: r.data, start: r.index}
}

// ReadInto copies up to len(dst) samples, oldest first, and returns the
// number copied.
func (r *Ring) ReadInto(dst []float64) int {
	n := len(dst)
	if n > len(r.data) {
		n = len(r.data)
	}
	c := copy(dst[:n], r.data[r.index:])
	if c < n {
		c += copy(dst[c:n], r.data[:r.index])
	}
	return c
}

// Reset zeroes the contents and rewinds the write index.
func (r *Ring) Reset() {
	core.Zero(r.data)
	r.index = 0
}

// Reader walks a Ring from its oldest sample to its newest.
type Reader struct {
	data  []float64
	start int
	pos   int
}

// Next returns the next sample and true, or 0 and false once every sample
// has been read.
func (rd *Reader) Next() (float64, bool) {
	if rd.pos >= len(rd.data) {
		return 0, false
	}
	i := rd.start + rd.pos
	if i >= len(rd.data) {
		i -= len(rd.data)
	}
	rd.pos++
	return rd.data[i], true
}

// Remaining returns how many samples are left to read.
func (rd *Reader) Remaining() int { return len(rd.data) - rd.pos }
