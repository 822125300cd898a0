// Package smooth provides the linear ramp used for every time-varying
// control value in the resynthesis engine.
//
// A ramp moves from its current value to a new target over a fixed number of
// Next calls. Re-targeting mid-ramp starts the new ramp from wherever the
// value currently is, so there is never a discontinuity.
package smooth

// Linear is a fixed-length linear ramp generator.
//
// The zero value is a ramp of length 0 sitting at 0. Linear is not
// thread-safe and never allocates.
type Linear struct {
	current    float64
	target     float64
	remaining  int
	rampLength int
}

// NewLinear returns a ramp resting at initial that takes rampLength steps to
// reach each new target. Negative lengths are treated as 0 (jump on Next).
func NewLinear(initial float64, rampLength int) Linear {
	if rampLength < 0 {
		rampLength = 0
	}
	return Linear{
		current:    initial,
		target:     initial,
		rampLength: rampLength,
	}
}

// SetTarget starts a new ramp from the current value toward v.
func (l *Linear) SetTarget(v float64) {
	l.target = v
	l.remaining = l.rampLength
	if l.remaining == 0 {
		l.current = v
	}
}

// Next advances the ramp by one step and returns the updated value. The last
// step lands exactly on the target. With no steps remaining it returns the
// current value unchanged.
func (l *Linear) Next() float64 {
	if l.remaining <= 0 {
		return l.current
	}
	if l.remaining == 1 {
		l.current = l.target
	} else {
		l.current += (l.target - l.current) / float64(l.remaining)
	}
	l.remaining--
	return l.current
}

// Reset jumps directly to v and cancels any ramp in progress.
func (l *Linear) Reset(v float64) {
	l.current = v
	l.target = v
	l.remaining = 0
}

// Current returns the most recent value without advancing.
func (l *Linear) Current() float64 { return l.current }

// Target returns the value the ramp is heading toward.
func (l *Linear) Target() float64 { return l.target }

// Remaining returns the number of Next calls left until Target is reached.
func (l *Linear) Remaining() int { return l.remaining }

// RampLength returns the configured number of steps per ramp.
func (l *Linear) RampLength() int { return l.rampLength }
