// Package spectrum provides FFT-adjacent helpers for spectral peak picking.
//
// The package intentionally does not implement FFT itself. It operates on
// complex spectrum bins produced by an external FFT backend and provides
// magnitude extraction, local-maximum tests, and sub-bin interpolation.
// Every function writes into caller-owned storage and never allocates.
package spectrum
