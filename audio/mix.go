package audio

import (
	"errors"
	"fmt"

	"github.com/gopxl/beep"
)

var (
	ErrRateMismatch = errors.New("stems have different sample rates")
	ErrNoStems      = errors.New("no stems to mix")
)

// StartMode picks what the mix is built on
type StartMode string

const (
	// StartSilence overlays every stem onto silence of the target length
	StartSilence StartMode = "silence"
	// StartFirstStem starts from the first stem and overlays the rest
	StartFirstStem StartMode = "first-stem"
)

// Mixer sums stems sample by sample with no gain compensation
type Mixer struct {
	Start      StartMode
	Normalizer Normalizer
}

// Mix overlays stems and normalizes the result to target seconds at rate
func (m Mixer) Mix(rate beep.SampleRate, stems []*Buffer, target float64) (*Buffer, error) {
	for i, s := range stems {
		if s.Rate != rate {
			return nil, fmt.Errorf("%w: stem %d is %d Hz, mix is %d Hz", ErrRateMismatch, i, s.Rate, rate)
		}
	}

	frames := FrameCount(rate, target)
	var streamers []beep.Streamer
	switch m.Start {
	case StartSilence, "":
		streamers = append(streamers, beep.Silence(frames))
	case StartFirstStem:
		if len(stems) == 0 {
			return nil, ErrNoStems
		}
	default:
		return nil, fmt.Errorf("unknown mix start mode %q", m.Start)
	}
	for _, s := range stems {
		streamers = append(streamers, s.Streamer())
	}

	mixed, err := Collect(beep.Take(frames, beep.Mix(streamers...)), rate)
	if err != nil {
		return nil, err
	}
	return m.Normalizer.Normalize(mixed, target), nil
}
