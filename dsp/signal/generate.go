// Package signal generates deterministic test and demo signals for the
// resynthesis engine: sums of partials, sines, noise and silence.
package signal

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-resynth/dsp/core"
)

// Generator creates deterministic signals from a shared configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return &Generator{
		cfg:  core.ApplyProcessorOptions(opts...),
		seed: 1,
	}
}

// NewGeneratorWithOptions creates a configured signal generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := NewGenerator(coreOpts...)
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Seed returns the noise seed.
func (g *Generator) Seed() int64 { return g.seed }

// SetSeed updates the noise seed.
func (g *Generator) SetSeed(seed int64) { g.seed = seed }

// Partial is one sinusoidal component of a synthetic signal.
type Partial struct {
	FrequencyHz float64
	Amplitude   float64
	Phase       float64 // starting phase in cycles
}

// Partials returns the sum of the given partials over samples samples.
func (g *Generator) Partials(partials []Partial, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("partials samples must be > 0: %d", samples)
	}
	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("partials sample rate must be > 0: %f", g.cfg.SampleRate)
	}
	out := make([]float64, samples)
	for _, p := range partials {
		if !core.IsFinite(p.FrequencyHz) || !core.IsFinite(p.Amplitude) {
			return nil, fmt.Errorf("partial must be finite: %v", p)
		}
		phase := 2 * math.Pi * p.Phase
		step := 2 * math.Pi * p.FrequencyHz / g.cfg.SampleRate
		for i := range out {
			out[i] += p.Amplitude * math.Sin(phase+step*float64(i))
		}
	}
	return out, nil
}

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	return g.Partials([]Partial{{FrequencyHz: freqHz, Amplitude: amplitude}}, samples)
}

// Silence returns samples zeros.
func (g *Generator) Silence(samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("silence samples must be > 0: %d", samples)
	}
	return make([]float64, samples), nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// ParsePartials parses a comma-separated list of "hz:amplitude" or
// "hz:amplitude:phase" entries, e.g. "440:1,1000:0.5".
func ParsePartials(s string) ([]Partial, error) {
	var out []Partial
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		parts := strings.Split(field, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("partial %q must be hz:amplitude[:phase]", field)
		}
		var vals [3]float64
		for i, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, fmt.Errorf("partial %q: %w", field, err)
			}
			vals[i] = v
		}
		out = append(out, Partial{FrequencyHz: vals[0], Amplitude: vals[1], Phase: vals[2]})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no partials in %q", s)
	}
	return out, nil
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	maxAbs := 0.0
	for _, v := range data {
		av := math.Abs(v)
		if av > maxAbs {
			maxAbs = av
		}
	}

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}
	return out, nil
}
