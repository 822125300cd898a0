package audiofile

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-resynth/internal/testutil"
)

func TestWriteReadRoundTrip(t *testing.T) {
	in := Clip{
		Samples:    testutil.DeterministicSine(440, 8000, 0.5, 800),
		SampleRate: 8000,
	}

	var buf bytes.Buffer
	if err := Write(&buf, in); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, err := Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.SampleRate != 8000 {
		t.Fatalf("SampleRate = %d, want 8000", got.SampleRate)
	}
	// 16-bit quantization.
	testutil.RequireSliceNearlyEqual(t, got.Samples, in.Samples, 1.0/math.MaxInt16)
	if math.Abs(got.Seconds()-0.1) > 1e-12 {
		t.Fatalf("Seconds() = %v, want 0.1", got.Seconds())
	}
}

func TestWriteClipsOutOfRange(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Clip{Samples: []float64{2, -3, 0}, SampleRate: 44100}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, err := Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	for i, v := range got.Samples {
		if v < -1 || v > 1 {
			t.Fatalf("sample %d = %v outside [-1, 1]", i, v)
		}
	}
}

func TestWriteRejectsBadRate(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Clip{Samples: []float64{0}}); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	in := Clip{Samples: testutil.DeterministicSine(1000, 48000, 0.25, 480), SampleRate: 48000}
	if err := WriteFile(path, in); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(got.Samples) != len(in.Samples) {
		t.Fatalf("len = %d, want %d", len(got.Samples), len(in.Samples))
	}
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
