package audio

import (
	"math"

	"github.com/gopxl/beep"
)

// Buffer is a block of stereo float samples at a fixed rate. Operations in
// this package never modify a buffer they were given; they return new ones.
type Buffer struct {
	Rate   beep.SampleRate
	Frames [][2]float64
}

// FrameCount converts seconds to a frame count at rate, rounding to nearest
func FrameCount(rate beep.SampleRate, seconds float64) int {
	if seconds <= 0 {
		return 0
	}
	return int(math.Round(seconds * float64(rate)))
}

// NewSilence returns a silent buffer of the given length in frames
func NewSilence(rate beep.SampleRate, frames int) *Buffer {
	return &Buffer{Rate: rate, Frames: make([][2]float64, frames)}
}

// Len is the number of frames
func (b *Buffer) Len() int {
	return len(b.Frames)
}

// Duration is the length in seconds
func (b *Buffer) Duration() float64 {
	if b.Rate == 0 {
		return 0
	}
	return float64(len(b.Frames)) / float64(b.Rate)
}

// Clone returns a deep copy
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{Rate: b.Rate, Frames: make([][2]float64, len(b.Frames))}
	copy(out.Frames, b.Frames)
	return out
}

// Peak is the largest absolute sample value on either channel
func (b *Buffer) Peak() float64 {
	var peak float64
	for _, f := range b.Frames {
		peak = max(peak, math.Abs(f[0]), math.Abs(f[1]))
	}
	return peak
}

// Format describes the buffer for the wav encoder
func (b *Buffer) Format(channels int) beep.Format {
	return beep.Format{SampleRate: b.Rate, NumChannels: channels, Precision: 2}
}

// Streamer plays the buffer from the start. The buffer must not be
// modified while the streamer is in use.
func (b *Buffer) Streamer() beep.Streamer {
	return &sliceStreamer{buf: b.Frames}
}

type sliceStreamer struct {
	buf [][2]float64
	pos int
}

func (s *sliceStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if s.pos >= len(s.buf) {
		return 0, false
	}
	n = copy(samples, s.buf[s.pos:])
	s.pos += n
	return n, true
}

func (s *sliceStreamer) Err() error {
	return nil
}

// Collect drains a streamer into a new buffer
func Collect(s beep.Streamer, rate beep.SampleRate) (*Buffer, error) {
	out := &Buffer{Rate: rate}
	chunk := make([][2]float64, 512)
	for {
		n, ok := s.Stream(chunk)
		out.Frames = append(out.Frames, chunk[:n]...)
		if !ok {
			break
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
