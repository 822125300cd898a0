package testutil

import (
	"math"
	"testing"
)

func TestDeterministicSine(t *testing.T) {
	s := DeterministicSine(1000, 48000, 1.0, 48)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}
	// First sample of a sine at phase 0 should be 0.
	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
	for i, v := range s {
		if v < -1 || v > 1 {
			t.Fatalf("s[%d] = %v out of range", i, v)
		}
	}
}

func TestSumOfSines(t *testing.T) {
	a := DeterministicSine(440, 48000, 1, 64)
	b := DeterministicSine(1000, 48000, 0.5, 64)
	sum := SumOfSines(48000, 64, SinePartial{440, 1}, SinePartial{1000, 0.5})
	for i := range sum {
		if math.Abs(sum[i]-(a[i]+b[i])) > 1e-12 {
			t.Fatalf("sum[%d] = %v, want %v", i, sum[i], a[i]+b[i])
		}
	}
}

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(42, 1.0, 64)
	b := DeterministicNoise(42, 1.0, 64)
	if len(a) != 64 {
		t.Fatalf("len = %d, want 64", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise not deterministic at index %d", i)
		}
	}
}

func TestRMS(t *testing.T) {
	if got := RMS(nil); got != 0 {
		t.Fatalf("RMS(nil) = %v, want 0", got)
	}
	if got := RMS([]float64{1, -1, 1, -1}); math.Abs(got-1) > 1e-15 {
		t.Fatalf("RMS = %v, want 1", got)
	}
	s := DeterministicSine(1000, 48000, 1, 4800)
	if got := RMS(s); math.Abs(got-1/math.Sqrt2) > 1e-9 {
		t.Fatalf("sine RMS = %v, want %v", got, 1/math.Sqrt2)
	}
}
