// Package osc provides the phase-accumulating sine oscillator used by the
// resynthesis voices.
//
// Frequencies set in Hz are clamped into [MinFrequencyHz, sampleRate/2] and
// attenuated above [RolloffStartHz] so partials approaching Nyquist fade out
// instead of aliasing.
package osc
