package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gopxl/beep"

	"go-stems/audio"
	"go-stems/harmony"
	"go-stems/render"
	"go-stems/sequencer"
)

// TargetDuration is the length every stem and mix is normalized to
func (c *Config) TargetDuration() float64 {
	return float64(c.ProgressionLength) * c.SlotDuration
}

// Rate returns the output sample rate
func (c *Config) Rate() beep.SampleRate {
	return beep.SampleRate(c.SampleRate)
}

// Ensemble returns the configured catalog, or the built-in one
func (c *Config) Ensemble() sequencer.Catalog {
	if len(c.Catalog) > 0 {
		return c.Catalog
	}
	return sequencer.DefaultCatalog()
}

// Scheduler builds the note scheduler from the timing settings
func (c *Config) Scheduler() (sequencer.Scheduler, error) {
	kit, err := sequencer.LookupKit(c.DrumKit)
	if err != nil {
		return sequencer.Scheduler{}, err
	}
	groove := sequencer.DefaultGroove
	if c.Groove != "" {
		if groove, err = sequencer.ParseGroove(c.Groove); err != nil {
			return sequencer.Scheduler{}, err
		}
	}
	return sequencer.Scheduler{
		SlotDuration:       c.SlotDuration,
		ArpeggioDelay:      c.ArpeggioDelay,
		Jitter:             c.Jitter,
		HitDuration:        c.HitDuration,
		ReferencePitch:     c.ReferencePitch,
		Velocity:           c.Velocity,
		PercussionVelocity: c.PercussionVelocity,
		Kit:                kit,
		Groove:             groove,
	}, nil
}

// Generator returns the progression source: the fixed progression when
// one is configured, otherwise the configured strategy
func (c *Config) Generator() (harmony.Generator, error) {
	if c.Progression != "" {
		p, err := harmony.ParseProgression(c.Progression, c.LenientChords)
		if err != nil {
			return nil, err
		}
		return harmony.Fixed(p), nil
	}
	return harmony.NewGenerator(c.Strategy, c.KeyTranspose)
}

// Mixer builds the stem mixer
func (c *Config) Mixer() audio.Mixer {
	return audio.Mixer{Start: c.MixStart, Normalizer: audio.Normalizer{TrimBuffer: c.TrimBuffer}}
}

// RenderOptions maps the renderer section onto render.Options
func (c *Config) RenderOptions() render.Options {
	return render.Options{
		Kind:      render.Kind(c.Renderer.Kind),
		Binary:    c.Renderer.Binary,
		SoundFont: c.Renderer.SoundFont,
		Gain:      c.Renderer.Gain,
		Cache:     c.Renderer.Cache,
		CacheDir:  c.Renderer.CacheDir,
	}
}

// Validate reports every problem with the config at once
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Samples < 1 {
		add("samples must be at least 1, got %d", c.Samples)
	}
	if c.ProgressionLength < 1 {
		errs = append(errs, fmt.Errorf("%w: %d", harmony.ErrInvalidLength, c.ProgressionLength))
	}
	if c.Instruments < 1 {
		add("instruments must be at least 1, got %d", c.Instruments)
	}
	if c.SampleRate < 1000 || c.SampleRate > 192000 {
		add("sample rate %d out of range", c.SampleRate)
	}
	if c.Channels != 1 && c.Channels != 2 {
		add("channels must be 1 or 2, got %d", c.Channels)
	}
	if !slices.Contains(harmony.Strategies(), c.Strategy) {
		add("unknown strategy %q (have %v)", c.Strategy, harmony.Strategies())
	}
	if c.Progression != "" {
		if _, err := harmony.ParseProgression(c.Progression, c.LenientChords); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Selection != sequencer.SelectFirst && c.Selection != sequencer.SelectRandom {
		add("unknown selection %q", c.Selection)
	}
	if c.MixStart != audio.StartSilence && c.MixStart != audio.StartFirstStem {
		add("unknown mix start %q", c.MixStart)
	}
	if c.Workers < 0 {
		add("workers must not be negative, got %d", c.Workers)
	}

	if s, err := c.Scheduler(); err != nil {
		errs = append(errs, err)
	} else if err := s.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.SlotDuration > 0 && c.ProgressionLength > 0 {
		if err := (audio.Normalizer{TrimBuffer: c.TrimBuffer}).Validate(c.TargetDuration()); err != nil {
			errs = append(errs, err)
		}
	}
	if len(c.Catalog) > 0 {
		if err := c.Catalog.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	switch render.Kind(c.Renderer.Kind) {
	case render.KindSynth:
	case render.KindFluidSynth:
		if c.Renderer.SoundFont == "" {
			add("renderer fluidsynth needs a soundfont")
		}
	default:
		add("unknown renderer %q", c.Renderer.Kind)
	}
	if c.Renderer.Gain <= 0 {
		add("renderer gain must be positive, got %v", c.Renderer.Gain)
	}
	if c.Output.Dir == "" {
		add("output dir is empty")
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		add("log format must be console or json, got %q", c.Log.Format)
	}

	return errors.Join(errs...)
}
