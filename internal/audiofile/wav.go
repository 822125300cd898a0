// Package audiofile reads and writes the mono WAV files used by the command
// line tools.
package audiofile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	wav "github.com/youpy/go-wav"
)

// Clip holds mono samples in [-1, 1] and their sample rate.
type Clip struct {
	Samples    []float64
	SampleRate int
}

// Seconds returns the clip duration.
func (c Clip) Seconds() float64 {
	if c.SampleRate <= 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.SampleRate)
}

// ReadFile decodes a PCM WAV file and mixes all channels down to mono.
func ReadFile(path string) (Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return Clip{}, err
	}
	defer f.Close()

	clip, err := Read(f)
	if err != nil {
		return Clip{}, fmt.Errorf("%s: %w", path, err)
	}
	return clip, nil
}

// Read decodes a PCM WAV stream and mixes all channels down to mono.
func Read(r interface {
	io.Reader
	io.ReaderAt
}) (Clip, error) {
	rd := wav.NewReader(r)
	format, err := rd.Format()
	if err != nil {
		return Clip{}, fmt.Errorf("read wav format: %w", err)
	}
	channels := uint(format.NumChannels)
	if channels == 0 {
		return Clip{}, errors.New("wav has no channels")
	}
	// go-wav decodes at most two channels per sample frame.
	channels = min(channels, 2)

	clip := Clip{SampleRate: int(format.SampleRate)}
	for {
		samples, err := rd.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Clip{}, fmt.Errorf("read wav samples: %w", err)
		}
		for _, s := range samples {
			var sum float64
			for ch := range channels {
				sum += rd.FloatValue(s, ch)
			}
			clip.Samples = append(clip.Samples, sum/float64(channels))
		}
	}
	return clip, nil
}

// WriteFile encodes clip as a 16-bit mono PCM WAV file.
func WriteFile(path string, clip Clip) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, clip); err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// Write encodes clip as 16-bit mono PCM. Samples are clipped to [-1, 1].
func Write(w io.Writer, clip Clip) error {
	if clip.SampleRate <= 0 {
		return fmt.Errorf("wav sample rate must be > 0: %d", clip.SampleRate)
	}
	if len(clip.Samples) > math.MaxUint32 {
		return fmt.Errorf("wav too long: %d samples", len(clip.Samples))
	}

	ww := wav.NewWriter(w, uint32(len(clip.Samples)), 1, uint32(clip.SampleRate), 16)
	out := make([]wav.Sample, len(clip.Samples))
	for i, v := range clip.Samples {
		v = math.Max(-1, math.Min(1, v))
		out[i].Values[0] = int(math.Round(v * math.MaxInt16))
	}
	if err := ww.WriteSamples(out); err != nil {
		return fmt.Errorf("write wav samples: %w", err)
	}
	return nil
}
