package render

import (
	"fmt"

	"go.uber.org/zap"
)

// Options selects and configures a renderer
type Options struct {
	Kind      Kind
	Binary    string
	SoundFont string
	Gain      float64
	WorkDir   string
	Cache     bool
	CacheDir  string // "" with Cache set keeps the cache in memory
}

// New builds the renderer described by opts. The returned close function
// releases the cache, if any, and is never nil.
func New(opts Options, log *zap.SugaredLogger) (Renderer, func() error, error) {
	noop := func() error { return nil }
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	var r Renderer
	switch opts.Kind {
	case KindSynth, "":
		r = NewSynth(opts.Gain)
	case KindFluidSynth:
		fs, err := NewFluidSynth(opts.Binary, opts.SoundFont, opts.Gain, log)
		if err != nil {
			return nil, noop, err
		}
		fs.WorkDir = opts.WorkDir
		r = fs
	default:
		return nil, noop, fmt.Errorf("unknown renderer %q", opts.Kind)
	}

	if !opts.Cache {
		return r, noop, nil
	}
	c, err := OpenCache(opts.CacheDir, r, log)
	if err != nil {
		return nil, noop, err
	}
	return c, c.Close, nil
}
