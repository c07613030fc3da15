package audio

import (
	"fmt"

	"github.com/gopxl/beep"
	resampling "github.com/tphakala/go-audio-resampling"
)

// Resample converts the buffer to another sample rate. The result can be a
// few frames shorter than the exact ratio because of the filter delay;
// callers normalize afterwards.
func Resample(b *Buffer, rate beep.SampleRate) (*Buffer, error) {
	if b.Rate == rate {
		return b.Clone(), nil
	}
	r, err := resampling.New(&resampling.Config{
		InputRate:  float64(b.Rate),
		OutputRate: float64(rate),
		Channels:   2,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("create resampler: %w", err)
	}

	in := make([]float64, 0, 2*len(b.Frames))
	for _, f := range b.Frames {
		in = append(in, f[0], f[1])
	}
	res, err := r.Process(in)
	if err != nil {
		return nil, fmt.Errorf("resample %d -> %d Hz: %w", b.Rate, rate, err)
	}

	out := &Buffer{Rate: rate, Frames: make([][2]float64, len(res)/2)}
	for i := range out.Frames {
		out.Frames[i] = [2]float64{res[2*i], res[2*i+1]}
	}
	return out, nil
}
