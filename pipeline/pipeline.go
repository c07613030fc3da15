package pipeline

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"go-stems/audio"
	"go-stems/config"
	"go-stems/debug"
	"go-stems/harmony"
	"go-stems/render"
	"go-stems/sequencer"
)

// Sample is one finished piece: the composition, its note tracks and the
// normalized stems in instrument order, plus the mix
type Sample struct {
	Index       int
	Composition harmony.Composition
	Tracks      []sequencer.NoteTrack
	Stems       []*audio.Buffer
	Mix         *audio.Buffer
	Rate        beep.SampleRate
	Target      float64 // seconds
	Elapsed     time.Duration
}

// Pipeline generates samples. Instruments are selected once, when the
// pipeline is built; every sample then draws its progression and schedules
// each instrument in selection order from the same seeded stream. Rendering
// starts only after all draws for the sample are done.
type Pipeline struct {
	generator   harmony.Generator
	scheduler   sequencer.Scheduler
	renderer    render.Renderer
	mixer       audio.Mixer
	instruments []sequencer.Instrument
	length      int
	rate        beep.SampleRate
	workers     int
	events      chan<- Event
	log         *zap.SugaredLogger

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// Option customizes a Pipeline
type Option func(*Pipeline)

// WithEvents publishes progress on ch. Sends block, so the reader must
// keep draining until the run ends.
func WithEvents(ch chan<- Event) Option {
	return func(p *Pipeline) { p.events = ch }
}

// WithLogger sets the logger
func WithLogger(log *zap.SugaredLogger) Option {
	return func(p *Pipeline) { p.log = log.Named("pipeline") }
}

// New validates cfg, seeds the random stream and selects the instruments
func New(cfg *config.Config, r render.Renderer, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	gen, err := cfg.Generator()
	if err != nil {
		return nil, err
	}
	sched, err := cfg.Scheduler()
	if err != nil {
		return nil, err
	}
	if over := sched.Groove.Span() + sched.HitDuration - sched.SlotDuration; over > 0 {
		debug.Log("scheduler", "drum groove runs %.2fs past each %.2fs slot, the last slot is trimmed", over, sched.SlotDuration)
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	insts, err := cfg.Ensemble().Select(cfg.Instruments, cfg.Selection, rng)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		generator:   gen,
		scheduler:   sched,
		renderer:    r,
		mixer:       cfg.Mixer(),
		instruments: insts,
		length:      cfg.ProgressionLength,
		rate:        cfg.Rate(),
		workers:     cfg.Workers,
		log:         zap.NewNop().Sugar(),
		rng:         rng,
	}
	if p.workers == 0 {
		p.workers = len(insts)
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Instruments returns the selected instruments in selection order
func (p *Pipeline) Instruments() []sequencer.Instrument {
	return p.instruments
}

// Target is the exact duration of every stem and mix
func (p *Pipeline) Target() float64 {
	return float64(p.length) * p.scheduler.SlotDuration
}

// Compose draws the progression for the next sample and schedules every
// instrument. It advances the random stream; samples must be composed in
// index order for runs to be reproducible.
func (p *Pipeline) Compose(ctx context.Context, index int) (harmony.Composition, []sequencer.NoteTrack, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	comp, err := p.generator.Compose(p.length, p.rng)
	if err != nil {
		return harmony.Composition{}, nil, err
	}
	tracks, err := p.scheduler.ScheduleAll(comp.Progression, p.instruments, p.rng)
	if err != nil {
		return harmony.Composition{}, nil, err
	}
	for _, t := range tracks {
		p.emit(ctx, Event{Kind: TrackScheduled, Sample: index, Instrument: t.Instrument.Name, Notes: len(t.Notes)})
	}
	return comp, tracks, nil
}

// Generate runs one sample through compose, render, normalize and mix.
// Any failure aborts the sample and no partial result is returned.
func (p *Pipeline) Generate(ctx context.Context, index int) (*Sample, error) {
	start := time.Now()
	p.emit(ctx, Event{Kind: SampleStarted, Sample: index})

	comp, tracks, err := p.Compose(ctx, index)
	if err != nil {
		return nil, fmt.Errorf("sample %d: %w", index, err)
	}
	p.log.Debugw("composed", "sample", index, "progression", comp.Progression.String(), "tracks", len(tracks))

	stems, err := p.Render(ctx, index, tracks)
	if err != nil {
		return nil, fmt.Errorf("sample %d: %w", index, err)
	}

	mix, err := p.mixer.Mix(p.rate, stems, p.Target())
	if err != nil {
		return nil, fmt.Errorf("sample %d: mix: %w", index, err)
	}

	return &Sample{
		Index:       index,
		Composition: comp,
		Tracks:      tracks,
		Stems:       stems,
		Mix:         mix,
		Rate:        p.rate,
		Target:      p.Target(),
		Elapsed:     time.Since(start),
	}, nil
}

// Render renders and normalizes every track concurrently. Stems come back
// in track order; the first failure cancels the others.
func (p *Pipeline) Render(ctx context.Context, index int, tracks []sequencer.NoteTrack) ([]*audio.Buffer, error) {
	target := p.Target()
	stems := make([]*audio.Buffer, len(tracks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.workers, 1))
	for i, track := range tracks {
		g.Go(func() error {
			buf, err := p.renderer.Render(ctx, track, p.rate)
			if err != nil {
				return err
			}
			if buf.Rate != p.rate {
				debug.Log("render", "%s came back at %d Hz, resampling to %d Hz", track.Instrument.Name, buf.Rate, p.rate)
				if buf, err = audio.Resample(buf, p.rate); err != nil {
					return &render.Error{Instrument: track.Instrument.Name, Err: err}
				}
			}
			stems[i] = p.mixer.Normalizer.Normalize(buf, target)
			p.emit(ctx, Event{Kind: StemRendered, Sample: index, Instrument: track.Instrument.Name})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stems, nil
}

func (p *Pipeline) emit(ctx context.Context, ev Event) {
	if p.events == nil {
		return
	}
	select {
	case p.events <- ev:
	case <-ctx.Done():
	}
}
