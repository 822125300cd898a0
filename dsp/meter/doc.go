// Package meter summarizes rendered audio and tracked partial tables.
//
// Level accumulates peak, RMS and clipping statistics across blocks without
// allocating. PartialStats describes a peaks.Frame by its amplitude-weighted
// centroid and spread.
package meter
