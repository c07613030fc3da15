package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gopxl/beep"
	"go.uber.org/zap"

	"go-stems/audio"
	"go-stems/midi"
	"go-stems/sequencer"
)

// FluidSynth renders tracks by writing a MIDI file and running the
// fluidsynth command line player in fast file-render mode
type FluidSynth struct {
	Binary    string
	SoundFont string
	Gain      float64
	WorkDir   string // parent of per-render temp dirs, "" for the system default
	log       *zap.SugaredLogger
}

// NewFluidSynth locates the binary (searching PATH when binary is empty)
// and checks that the soundfont exists
func NewFluidSynth(binary, soundFont string, gain float64, log *zap.SugaredLogger) (*FluidSynth, error) {
	if binary == "" {
		binary = "fluidsynth"
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("fluidsynth not found: %w", err)
	}
	if soundFont == "" {
		return nil, fmt.Errorf("fluidsynth renderer needs a soundfont")
	}
	if _, err := os.Stat(soundFont); err != nil {
		return nil, fmt.Errorf("soundfont: %w", err)
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &FluidSynth{Binary: path, SoundFont: soundFont, Gain: gain, log: log.Named("fluidsynth")}, nil
}

func (f *FluidSynth) Identity() string {
	return fmt.Sprintf("fluidsynth/%s/gain=%g", filepath.Base(f.SoundFont), f.Gain)
}

// Args builds the command line for one render
func (f *FluidSynth) Args(midiPath, wavPath string, rate beep.SampleRate) []string {
	return []string{
		"-ni",
		"-g", strconv.FormatFloat(f.Gain, 'f', -1, 64),
		"-r", strconv.Itoa(int(rate)),
		"-F", wavPath,
		f.SoundFont,
		midiPath,
	}
}

func (f *FluidSynth) Render(ctx context.Context, track sequencer.NoteTrack, rate beep.SampleRate) (*audio.Buffer, error) {
	dir, err := os.MkdirTemp(f.WorkDir, "render-*")
	if err != nil {
		return nil, wrap(track, err)
	}
	defer os.RemoveAll(dir)

	midiPath := filepath.Join(dir, "track.mid")
	wavPath := filepath.Join(dir, "track.wav")
	if err := midi.WriteFile(midiPath, track.Part()); err != nil {
		return nil, wrap(track, fmt.Errorf("write midi: %w", err))
	}

	cmd := exec.CommandContext(ctx, f.Binary, f.Args(midiPath, wavPath, rate)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	f.log.Debugw("render", "instrument", track.Instrument.Name, "notes", len(track.Notes), "rate", int(rate))
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return nil, wrap(track, err)
	}

	buf, err := audio.ReadFile(wavPath)
	if err != nil {
		return nil, wrap(track, err)
	}
	if buf.Rate != rate {
		f.log.Debugw("resampling output", "from", int(buf.Rate), "to", int(rate))
		buf, err = audio.Resample(buf, rate)
		if err != nil {
			return nil, wrap(track, err)
		}
	}
	return buf, nil
}
