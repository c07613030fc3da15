package audio

import "fmt"

// Normalizer forces buffers to an exact length. Longer input is cut to
// target minus TrimBuffer and the rest of the target is silence; shorter
// input is padded with silence. Applying it twice is the same as once.
type Normalizer struct {
	TrimBuffer float64 // seconds of silence left at the end of trimmed audio
}

// Validate checks the trim buffer against a target duration
func (n Normalizer) Validate(target float64) error {
	if target <= 0 {
		return fmt.Errorf("target duration must be positive, got %v", target)
	}
	if n.TrimBuffer < 0 || n.TrimBuffer >= target {
		return fmt.Errorf("trim buffer %v must be in [0, %v)", n.TrimBuffer, target)
	}
	return nil
}

// Normalize returns a new buffer of exactly target seconds
func (n Normalizer) Normalize(b *Buffer, target float64) *Buffer {
	want := FrameCount(b.Rate, target)
	out := NewSilence(b.Rate, want)

	keep := len(b.Frames)
	if keep > want {
		keep = want - FrameCount(b.Rate, n.TrimBuffer)
	}
	copy(out.Frames, b.Frames[:max(keep, 0)])
	return out
}
