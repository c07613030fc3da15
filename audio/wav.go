package audio

import (
	"fmt"
	"io"
	"os"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/wav"
)

// pcmCorrection undoes the beep v1.4.1 wav decoder dividing signed 16 and
// 24 bit samples by 2^n-1 instead of 2^(n-1)-1, which halves them.
func pcmCorrection(precision int) float64 {
	switch precision {
	case 2:
		return float64(1<<16-1) / float64(1<<15-1)
	case 3:
		return float64(1<<24-1) / float64(1<<23-1)
	}
	return 1
}

// Decode reads a WAV stream into a buffer. Mono files come back with the
// same signal on both channels.
func Decode(r io.Reader) (*Buffer, error) {
	s, format, err := wav.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	defer s.Close()

	var src beep.Streamer = s
	if k := pcmCorrection(format.Precision); k != 1 {
		src = &effects.Gain{Streamer: s, Gain: k - 1}
	}
	return Collect(src, format.SampleRate)
}

// ReadFile decodes a .wav file
func ReadFile(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Encode writes the buffer as 16-bit PCM with 1 or 2 channels
func Encode(w io.WriteSeeker, b *Buffer, channels int) error {
	if channels != 1 && channels != 2 {
		return fmt.Errorf("unsupported channel count %d", channels)
	}
	return wav.Encode(w, b.Streamer(), b.Format(channels))
}

// WriteFile encodes the buffer to path
func WriteFile(path string, b *Buffer, channels int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, b, channels); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
