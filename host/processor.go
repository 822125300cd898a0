package host

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-resynth/dsp/buffer"
	"github.com/cwbudde/algo-resynth/dsp/resynth"
	"github.com/cwbudde/algo-resynth/dsp/synth"
	"github.com/cwbudde/algo-vecmath"
	"gitlab.com/gomidi/midi/v2"
)

const (
	// DefaultMaxBlockSize is the largest block processed in one engine run.
	DefaultMaxBlockSize = 4096
	// DefaultMaxEvents is the event capacity per block.
	DefaultMaxEvents = 256
)

// ErrEventQueueFull is returned when an event arrives after the per-block
// capacity is used up. The event is dropped.
var ErrEventQueueFull = errors.New("host: event queue full")

// Params is the parameter snapshot applied at the start of every block.
type Params struct {
	Freeze     bool
	Transpose  float64 // octaves, clamped to [-2, 2]
	Detune     float64 // clamped to [0, 1]
	SynthMode  bool
	OutputGain float64 // linear; negative or NaN mutes
}

// DefaultParams returns parameters that pass the resynthesis through at unity
// gain.
func DefaultParams() Params {
	return Params{OutputGain: 1}
}

// Option mutates processor construction parameters.
type Option func(*config) error

type config struct {
	maxBlockSize int
	maxEvents    int
	engineOpts   []resynth.Option
}

// WithMaxBlockSize sets the scratch size. Longer host blocks are processed
// in chunks of this size.
func WithMaxBlockSize(n int) Option {
	return func(cfg *config) error {
		if n <= 0 {
			return fmt.Errorf("processor max block size must be > 0: %d", n)
		}
		cfg.maxBlockSize = n
		return nil
	}
}

// WithMaxEvents sets how many events can be queued per block.
func WithMaxEvents(n int) Option {
	return func(cfg *config) error {
		if n <= 0 {
			return fmt.Errorf("processor max events must be > 0: %d", n)
		}
		cfg.maxEvents = n
		return nil
	}
}

// WithEngineOptions forwards options to the underlying reconstructor.
func WithEngineOptions(opts ...resynth.Option) Option {
	return func(cfg *config) error {
		cfg.engineOpts = append(cfg.engineOpts, opts...)
		return nil
	}
}

// Processor drives a Reconstructor from host callbacks. It is not
// thread-safe: queue events and call Process from the audio thread only.
type Processor struct {
	engine *resynth.Reconstructor
	params Params

	in     *buffer.Buffer
	out    *buffer.Buffer
	events []synth.Event
	chunk  []synth.Event
}

// NewProcessor returns a processor with DefaultParams.
func NewProcessor(sampleRate float64, opts ...Option) (*Processor, error) {
	cfg := config{
		maxBlockSize: DefaultMaxBlockSize,
		maxEvents:    DefaultMaxEvents,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	engine, err := resynth.New(sampleRate, cfg.engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("host: %w", err)
	}

	p := &Processor{
		engine: engine,
		in:     buffer.New(cfg.maxBlockSize),
		out:    buffer.New(cfg.maxBlockSize),
		events: make([]synth.Event, 0, cfg.maxEvents),
		chunk:  make([]synth.Event, 0, cfg.maxEvents+1),
	}
	p.SetParams(DefaultParams())
	return p, nil
}

// Engine returns the wrapped reconstructor, e.g. for metering Latest.
func (p *Processor) Engine() *resynth.Reconstructor { return p.engine }

// MaxBlockSize returns the chunk size used by Process.
func (p *Processor) MaxBlockSize() int { return p.in.Cap() }

// Params returns the current parameter snapshot.
func (p *Processor) Params() Params { return p.params }

// SetParams stores params for the next Process call.
func (p *Processor) SetParams(params Params) {
	if math.IsNaN(params.OutputGain) || params.OutputGain < 0 {
		params.OutputGain = 0
	}
	p.params = params
}

// Pending returns the number of queued events.
func (p *Processor) Pending() int { return len(p.events) }

// PushEvent queues e for the next Process call.
func (p *Processor) PushEvent(e synth.Event) error {
	if len(p.events) == cap(p.events) {
		return ErrEventQueueFull
	}
	p.events = append(p.events, e)
	return nil
}

// PushMIDI decodes a raw MIDI message and queues it at offset. Note-on with
// velocity 0 counts as note-off. Messages other than notes are ignored.
func (p *Processor) PushMIDI(offset int, msg []byte) error {
	var ch, key, vel uint8
	m := midi.Message(msg)
	switch {
	case m.GetNoteStart(&ch, &key, &vel):
		return p.PushEvent(synth.NoteOn(offset, key, vel))
	case m.GetNoteEnd(&ch, &key):
		return p.PushEvent(synth.NoteOff(offset, key))
	default:
		return nil
	}
}

// Process renders one host block. Output has len(out) samples; input samples
// past len(in) are treated as silence. Queued events are consumed.
func (p *Processor) Process(in, out []float32) {
	p.sortEvents()
	p.engine.SetFreeze(p.params.Freeze)
	p.engine.SetTranspose(p.params.Transpose)
	p.engine.SetDetune(p.params.Detune)
	p.engine.SetSynthMode(p.params.SynthMode)

	n := len(out)
	if n == 0 {
		p.in.Resize(0)
		p.out.Resize(0)
		p.engine.Run(p.in.Samples(), p.out.Samples(), p.events)
		p.events = p.events[:0]
		return
	}

	maxBlock := p.in.Cap()
	next := 0
	for start := 0; start < n; start += maxBlock {
		size := min(maxBlock, n-start)
		last := start+size == n

		// An event takes effect at the previous event's offset, so it is
		// routed to the chunk holding that point. When the first event of a
		// chunk takes effect past the chunk start, a no-op event keeps the
		// sub-block boundary there. The last chunk takes everything left.
		p.chunk = p.chunk[:0]
		for next < len(p.events) {
			at := 0
			if next > 0 {
				at = p.events[next-1].Offset
			}
			if !last && at >= start+size {
				break
			}
			if len(p.chunk) == 0 && at > start {
				p.chunk = append(p.chunk, synth.Event{Offset: at - start, Kind: synth.EventNone})
			}
			e := p.events[next]
			e.Offset -= start
			p.chunk = append(p.chunk, e)
			next++
		}

		p.in.Resize(size)
		p.in.LoadFloat32(in, start)
		p.out.Resize(size)
		p.out.Zero()

		p.engine.Run(p.in.Samples(), p.out.Samples(), p.chunk)
		vecmath.ScaleBlockInPlace(p.out.Samples(), p.params.OutputGain)
		p.out.StoreFloat32(out, start)
	}

	p.events = p.events[:0]
}

// sortEvents orders the queue by offset. Insertion sort keeps equal offsets
// in arrival order and does not allocate.
func (p *Processor) sortEvents() {
	ev := p.events
	for i := 1; i < len(ev); i++ {
		e := ev[i]
		j := i
		for j > 0 && ev[j-1].Offset > e.Offset {
			ev[j] = ev[j-1]
			j--
		}
		ev[j] = e
	}
}

// Reset clears queued events and the engine state. Params are kept.
func (p *Processor) Reset() {
	p.events = p.events[:0]
	p.engine.Reset()
}
