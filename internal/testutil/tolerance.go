package testutil

import (
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// RequireSilent fails t unless every sample of data[from:to] is exactly 0.
func RequireSilent(t *testing.T, data []float64, from, to int) {
	t.Helper()
	for i := from; i < to; i++ {
		if data[i] != 0 {
			t.Fatalf("index %d: got %v, want silence in [%d, %d)", i, data[i], from, to)
		}
	}
}

// RequireNoAllocs fails t if fn allocates on average over runs calls.
func RequireNoAllocs(t *testing.T, runs int, fn func()) {
	t.Helper()
	if allocs := testing.AllocsPerRun(runs, fn); allocs != 0 {
		t.Fatalf("allocations per run = %v, want 0", allocs)
	}
}
