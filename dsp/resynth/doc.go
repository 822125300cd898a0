// Package resynth rebuilds an audio stream from its strongest partials.
//
// A Reconstructor keeps the last 512 input samples, picks up to 20 spectral
// peaks from them on every block, keeps each peak on a stable slot across
// blocks and drives one smoothed sine oscillator per slot. In the default
// mode a single voice plays the partials at their analyzed pitch. In synth
// mode a polyphonic pool replays them transposed by incoming MIDI notes.
//
// Run is meant for a real-time audio callback: it never allocates, never
// blocks and does bounded work per sample.
package resynth
