package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"go-stems/config"
)

// Report summarizes a run
type Report struct {
	RunID     string
	Committed []int
	Failed    map[int]error
	Files     []string
}

// Runner generates a batch of samples and commits each to disk
type Runner struct {
	Pipeline  *Pipeline
	Layout    Layout
	Seed      uint64
	KeepGoing bool
	RunID     string
}

// NewRunner pairs p with the output settings of cfg
func NewRunner(cfg *config.Config, p *Pipeline) *Runner {
	return &Runner{
		Pipeline: p,
		Layout: Layout{
			Root:     cfg.Output.Dir,
			MIDI:     cfg.Output.MIDI,
			Stems:    cfg.Output.Stems,
			Channels: cfg.Channels,
		},
		Seed:      cfg.Seed,
		KeepGoing: cfg.KeepGoing,
		RunID:     uuid.NewString(),
	}
}

// Run generates samples 0..n-1 in order. A failed sample writes nothing;
// with KeepGoing the run moves on and all failures are joined into the
// returned error, otherwise it stops at the first one.
func (r *Runner) Run(ctx context.Context, n int) (*Report, error) {
	p := r.Pipeline
	rep := &Report{RunID: r.RunID, Failed: map[int]error{}}
	var errs []error

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		files, err := r.sample(ctx, i)
		if err != nil {
			rep.Failed[i] = err
			errs = append(errs, err)
			p.log.Errorw("sample failed", "sample", i, "error", err)
			p.emit(ctx, Event{Kind: SampleFailed, Sample: i, Err: err})
			if !r.KeepGoing {
				break
			}
			continue
		}

		rep.Committed = append(rep.Committed, i)
		rep.Files = append(rep.Files, files...)
		p.log.Infow("sample written", "sample", i, "files", len(files))
		p.emit(ctx, Event{Kind: SampleCommitted, Sample: i, Files: files})
	}

	err := errors.Join(errs...)
	p.emit(ctx, Event{Kind: RunFinished, Err: err})
	return rep, err
}

func (r *Runner) sample(ctx context.Context, i int) ([]string, error) {
	s, err := r.Pipeline.Generate(ctx, i)
	if err != nil {
		return nil, err
	}
	files, err := r.Layout.Commit(s, NewManifest(r.RunID, r.Seed, s))
	if err != nil {
		return nil, fmt.Errorf("sample %d: %w", i, err)
	}
	r.Pipeline.log.Debugw("sample timing", "sample", i, "elapsed", s.Elapsed)
	return files, nil
}
