package core

import "testing"

func TestZero(t *testing.T) {
	buf := []float64{1, -2, 3}
	Zero(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("buf[%d] = %v, want 0", i, v)
		}
	}
	Zero(nil)
}

func TestCopyInto(t *testing.T) {
	tests := []struct {
		name    string
		dstLen  int
		src     []float64
		wantN   int
		wantDst []float64
	}{
		{name: "short src", dstLen: 4, src: []float64{1, 2}, wantN: 2, wantDst: []float64{1, 2, 0, 0}},
		{name: "long src", dstLen: 2, src: []float64{1, 2, 3}, wantN: 2, wantDst: []float64{1, 2}},
		{name: "empty src", dstLen: 2, src: nil, wantN: 0, wantDst: []float64{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]float64, tt.dstLen)
			if n := CopyInto(dst, tt.src); n != tt.wantN {
				t.Fatalf("CopyInto() = %d, want %d", n, tt.wantN)
			}
			for i := range dst {
				if dst[i] != tt.wantDst[i] {
					t.Fatalf("dst = %v, want %v", dst, tt.wantDst)
				}
			}
		})
	}
}
