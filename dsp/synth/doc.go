// Package synth renders tracked spectral peaks through banks of smoothed sine
// oscillators.
//
// A Voice owns one oscillator per peak slot and plays the tracked partials
// shifted by the MIDI note it holds. A Synth owns a fixed pool of voices,
// allocates them on note events and renders sample-accurate sub-blocks
// between events. Voices are never stolen: a note arriving while every voice
// is busy is dropped.
//
// Nothing in this package allocates after construction.
package synth
