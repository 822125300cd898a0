// Package peaks extracts dominant sinusoidal partials from short audio frames
// and tracks them coherently from frame to frame.
//
// The Analyzer windows a fixed 512-sample frame with a Hann window, computes a
// zero-padded 1024-point FFT and picks at most 20 five-point local maxima,
// refining each to sub-bin accuracy by quadratic interpolation.
//
// The Tracker keeps a persistent 20-slot table. Each frame it moves every new
// peak into the slot holding the nearest previous peak (within 187.5 Hz), so a
// slot keeps describing the same partial while its frequency drifts. Slot
// index is what binds a partial to an oscillator downstream.
//
// Both types are sized at construction and never allocate afterwards.
package peaks
