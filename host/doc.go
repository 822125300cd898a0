// Package host adapts a resynth.Reconstructor to the shape of a plugin or
// audio-device callback: float32 buffers of any length, raw MIDI bytes with
// sample offsets and a parameter snapshot per block.
//
// A Processor preallocates all scratch memory in NewProcessor. Process never
// allocates, so it can run on a real-time audio thread.
package host
