package resynth

import (
	"fmt"

	"github.com/cwbudde/algo-resynth/dsp/synth"
)

// Option mutates reconstructor construction parameters.
type Option func(*config) error

type config struct {
	voices     int
	rampLength int
	seed       int64
}

func defaultConfig() config {
	return config{
		voices:     synth.DefaultVoices,
		rampLength: synth.DefaultRampLength,
		seed:       1,
	}
}

// WithVoices sets the polyphony of synth mode.
func WithVoices(n int) Option {
	return func(cfg *config) error {
		if n <= 0 {
			return fmt.Errorf("reconstructor voices must be > 0: %d", n)
		}
		cfg.voices = n
		return nil
	}
}

// WithRampLength sets the smoothing length, in samples, of every oscillator
// parameter. Zero applies new targets immediately.
func WithRampLength(n int) Option {
	return func(cfg *config) error {
		if n < 0 {
			return fmt.Errorf("reconstructor ramp length must be >= 0: %d", n)
		}
		cfg.rampLength = n
		return nil
	}
}

// WithSeed sets the seed of the per-partial detune offsets.
func WithSeed(seed int64) Option {
	return func(cfg *config) error {
		cfg.seed = seed
		return nil
	}
}
