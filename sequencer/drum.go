package sequencer

import (
	"fmt"
	"strconv"
	"strings"
)

// DrumHit is one hit of the groove, offset in seconds from the slot start
type DrumHit struct {
	Voice  Voice
	Offset float64
}

// Groove is the hit pattern the percussive idiom plays in every chord slot
type Groove []DrumHit

// DefaultGroove is a one-bar rock beat at 120 bpm: kick on 1, snare on 3,
// closed hats on every beat.
var DefaultGroove = Groove{
	{VoiceKick, 0},
	{VoiceSnare, 1.0},
	{VoiceClosedHat, 0},
	{VoiceClosedHat, 0.5},
	{VoiceClosedHat, 1.0},
	{VoiceClosedHat, 1.5},
}

// Span is the offset of the latest hit
func (g Groove) Span() float64 {
	var span float64
	for _, h := range g {
		span = max(span, h.Offset)
	}
	return span
}

// String renders the groove as "kick@0 snare@1 ..."
func (g Groove) String() string {
	parts := make([]string, len(g))
	for i, h := range g {
		parts[i] = h.Voice.String() + "@" + strconv.FormatFloat(h.Offset, 'f', -1, 64)
	}
	return strings.Join(parts, " ")
}

// ParseGroove parses the String form back into a groove
func ParseGroove(s string) (Groove, error) {
	var g Groove
	for _, f := range strings.Fields(s) {
		name, off, ok := strings.Cut(f, "@")
		if !ok {
			return nil, fmt.Errorf("drum hit %q: want voice@offset", f)
		}
		v, err := ParseVoice(name)
		if err != nil {
			return nil, err
		}
		o, err := strconv.ParseFloat(off, 64)
		if err != nil || o < 0 {
			return nil, fmt.Errorf("drum hit %q: bad offset", f)
		}
		g = append(g, DrumHit{Voice: v, Offset: o})
	}
	if len(g) == 0 {
		return nil, fmt.Errorf("empty groove")
	}
	return g, nil
}
