// Package buffer provides the sample storage the engine reuses between
// blocks.
//
// Ring is the fixed-capacity circular buffer that decouples a host's
// variable block size from the engine's fixed analysis window. Writes
// overwrite the oldest sample once the ring has wrapped; readers always walk
// the full capacity from oldest to newest.
//
// Buffer is per-block float64 scratch sized once for the largest block. It
// converts host float32 audio in and out without allocating.
package buffer
