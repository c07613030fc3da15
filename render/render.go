package render

import (
	"context"
	"errors"
	"fmt"

	"github.com/gopxl/beep"

	"go-stems/audio"
	"go-stems/sequencer"
)

// ErrRender marks every failure coming out of a renderer
var ErrRender = errors.New("render failed")

// Error wraps a renderer failure with the instrument it was rendering
type Error struct {
	Instrument string
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrRender, e.Instrument, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{ErrRender, e.Err}
}

// Renderer turns a note track into audio. The track's instrument selects
// the timbre. Output length need not match the track; callers normalize.
type Renderer interface {
	Render(ctx context.Context, track sequencer.NoteTrack, rate beep.SampleRate) (*audio.Buffer, error)
}

// Identifier is implemented by renderers whose output is a pure function of
// their settings and input, so results can be cached under Identity.
type Identifier interface {
	Identity() string
}

// Func adapts a function to the Renderer interface. Its errors come back
// wrapped in *Error.
type Func func(ctx context.Context, track sequencer.NoteTrack, rate beep.SampleRate) (*audio.Buffer, error)

func (f Func) Render(ctx context.Context, track sequencer.NoteTrack, rate beep.SampleRate) (*audio.Buffer, error) {
	buf, err := f(ctx, track, rate)
	if err != nil {
		return nil, wrap(track, err)
	}
	return buf, nil
}

func wrap(track sequencer.NoteTrack, err error) error {
	var re *Error
	if errors.As(err, &re) {
		return err
	}
	return &Error{Instrument: track.Instrument.Name, Err: err}
}

// Kind names a renderer implementation
type Kind string

const (
	KindSynth      Kind = "synth"
	KindFluidSynth Kind = "fluidsynth"
)
