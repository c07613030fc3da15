package render

import (
	"context"
	"errors"
	"testing"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-stems/audio"
	"go-stems/midi"
	"go-stems/sequencer"
)

const rate = beep.SampleRate(16000)

func track(t *testing.T, name string) sequencer.NoteTrack {
	t.Helper()
	inst, ok := sequencer.DefaultCatalog().Lookup(name)
	require.True(t, ok)
	ch := inst.Channel
	switch {
	case inst.Percussive():
		return sequencer.NoteTrack{Instrument: inst, Notes: []midi.Note{
			{Pitch: 36, Velocity: 100, Start: 0, End: 0.1, Channel: ch},
			{Pitch: 38, Velocity: 100, Start: 1, End: 1.1, Channel: ch},
			{Pitch: 42, Velocity: 90, Start: 1.5, End: 1.6, Channel: ch},
		}}
	default:
		return sequencer.NoteTrack{Instrument: inst, Notes: []midi.Note{
			{Pitch: 60, Velocity: 100, Start: 0, End: 2, Channel: ch},
			{Pitch: 64, Velocity: 100, Start: 0.2, End: 2, Channel: ch},
			{Pitch: 67, Velocity: 100, Start: 0.4, End: 2, Channel: ch},
		}}
	}
}

func TestSynthDeterministic(t *testing.T) {
	s := NewSynth(0.2)
	for _, name := range []string{"Piano", "Drums", "Cello", "Saxophone"} {
		tr := track(t, name)
		a, err := s.Render(context.Background(), tr, rate)
		require.NoError(t, err)
		b, err := s.Render(context.Background(), tr, rate)
		require.NoError(t, err)
		assert.Equal(t, a, b, name)
		assert.Positive(t, a.Peak(), name)
		assert.GreaterOrEqual(t, a.Duration(), tr.End(), name)
	}
}

func TestSynthEmptyTrack(t *testing.T) {
	inst, _ := sequencer.DefaultCatalog().Lookup("Bass")
	buf, err := NewSynth(0.2).Render(context.Background(), sequencer.NoteTrack{Instrument: inst}, rate)
	require.NoError(t, err)
	assert.Zero(t, buf.Len())
}

func TestSynthCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSynth(0.2).Render(ctx, track(t, "Piano"), rate)
	assert.ErrorIs(t, err, ErrRender)
	assert.ErrorIs(t, err, context.Canceled)

	var re *Error
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "Piano", re.Instrument)
}

func TestTimbreFor(t *testing.T) {
	piano, _ := sequencer.DefaultCatalog().Lookup("Piano")
	drums, _ := sequencer.DefaultCatalog().Lookup("Drums")
	assert.Equal(t, timbres[0], TimbreFor(piano))
	assert.Equal(t, defaultTimbre, TimbreFor(drums))
}

func TestWrapKeepsExistingError(t *testing.T) {
	tr := track(t, "Bass")
	inner := &Error{Instrument: "Bass", Err: errors.New("boom")}
	assert.Same(t, inner, wrap(tr, inner))
}

func TestCacheHit(t *testing.T) {
	calls := 0
	inner := &countingSynth{Synth: NewSynth(0.2), calls: &calls}
	c, err := OpenCache("", inner, nil)
	require.NoError(t, err)
	defer c.Close()

	tr := track(t, "Piano")
	a, err := c.Render(context.Background(), tr, rate)
	require.NoError(t, err)
	b, err := c.Render(context.Background(), tr, rate)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, 1, calls)

	// same notes on another channel sound the same
	moved := tr
	moved.Notes = append([]midi.Note(nil), tr.Notes...)
	for i := range moved.Notes {
		moved.Notes[i].Channel = 7
	}
	_, err = c.Render(context.Background(), moved, rate)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	_, err = c.Render(context.Background(), tr, 22050)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	hits, misses := c.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(2), misses)
}

func TestCacheRequiresIdentity(t *testing.T) {
	plain := Func(func(context.Context, sequencer.NoteTrack, beep.SampleRate) (*audio.Buffer, error) {
		return audio.NewSilence(rate, 1), nil
	})
	_, err := OpenCache("", plain, nil)
	assert.Error(t, err)
}

func TestFluidSynthArgs(t *testing.T) {
	f := &FluidSynth{Binary: "fluidsynth", SoundFont: "/sf/FluidR3_GM.sf2", Gain: 0.2}
	args := f.Args("in.mid", "out.wav", 16000)
	assert.Equal(t, []string{"-ni", "-g", "0.2", "-r", "16000", "-F", "out.wav", "/sf/FluidR3_GM.sf2", "in.mid"}, args)
	assert.Equal(t, "fluidsynth/FluidR3_GM.sf2/gain=0.2", f.Identity())
}

func TestNewFluidSynthMissingBinary(t *testing.T) {
	_, err := NewFluidSynth("no-such-fluidsynth-binary", "x.sf2", 0.2, nil)
	assert.Error(t, err)
}

func TestNewUnknownKind(t *testing.T) {
	_, closeFn, err := New(Options{Kind: "timidity"}, nil)
	assert.Error(t, err)
	assert.NoError(t, closeFn())

	r, closeFn, err := New(Options{Kind: KindSynth, Gain: 0.2, Cache: true}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Cache{}, r)
	assert.NoError(t, closeFn())
}

type countingSynth struct {
	*Synth
	calls *int
}

func (c *countingSynth) Render(ctx context.Context, tr sequencer.NoteTrack, r beep.SampleRate) (*audio.Buffer, error) {
	*c.calls++
	return c.Synth.Render(ctx, tr, r)
}

func TestFuncWrapsErrors(t *testing.T) {
	boom := errors.New("boom")
	f := Func(func(context.Context, sequencer.NoteTrack, beep.SampleRate) (*audio.Buffer, error) {
		return nil, boom
	})
	_, err := f.Render(context.Background(), track(t, "Viola"), rate)
	assert.ErrorIs(t, err, ErrRender)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "Viola")
}
