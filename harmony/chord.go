package harmony

import (
	"fmt"
	"strings"
)

// Quality is a triad quality
type Quality int

const (
	Major Quality = iota
	Minor
	Diminished
	Augmented
)

// NumQualities is the number of supported triad qualities
const NumQualities = 4

var qualityLabels = [NumQualities]string{"maj", "min", "dim", "aug"}

var qualityIntervals = [NumQualities][3]int{
	{0, 4, 7},
	{0, 3, 7},
	{0, 3, 6},
	{0, 4, 8},
}

// Qualities returns every supported quality in table order.
func Qualities() []Quality {
	return []Quality{Major, Minor, Diminished, Augmented}
}

// QualityLabels returns the accepted quality suffixes.
func QualityLabels() []string {
	return qualityLabels[:]
}

// Valid reports whether q has an interval set.
func (q Quality) Valid() bool {
	return q >= 0 && q < NumQualities
}

// Intervals returns the semitone offsets from the root, ascending.
func (q Quality) Intervals() [3]int {
	return qualityIntervals[q]
}

func (q Quality) String() string {
	if !q.Valid() {
		return fmt.Sprintf("quality(%d)", int(q))
	}
	return qualityLabels[q]
}

// ParseQuality parses a quality label such as "maj" or "dim".
func ParseQuality(label string) (Quality, error) {
	for i, l := range qualityLabels {
		if l == label {
			return Quality(i), nil
		}
	}
	return 0, &QualityError{Label: label, Supported: qualityLabels[:]}
}

// Chord is a triad symbol: a root pitch class plus a quality.
type Chord struct {
	Root    PitchClass
	Quality Quality
}

// Pitches expands the chord to three MIDI pitches above reference,
// where reference is the MIDI note of pitch class C (60 = C4).
func (c Chord) Pitches(reference int) [3]int {
	var out [3]int
	for i, iv := range c.Quality.Intervals() {
		out[i] = reference + int(c.Root) + iv
	}
	return out
}

// Label renders the chord as root plus quality suffix, e.g. "F#min".
func (c Chord) Label() string {
	return c.Root.String() + c.Quality.String()
}

func (c Chord) String() string {
	return c.Label()
}

// ParseChord parses a label such as "Cmaj", "F#min" or "Bbdim".
// With lenient set, an unknown root or quality falls back to C or major
// instead of failing.
func ParseChord(label string, lenient bool) (Chord, error) {
	label = strings.TrimSpace(label)
	rootLen := 1
	if len(label) > 1 && (label[1] == '#' || label[1] == 'b') {
		rootLen = 2
	}
	if len(label) < rootLen {
		rootLen = len(label)
	}

	var c Chord
	root, err := ParsePitchClass(label[:rootLen])
	if err != nil {
		if !lenient {
			return Chord{}, err
		}
		root = 0
	}
	c.Root = root

	suffix := label[rootLen:]
	if suffix == "" {
		suffix = "maj"
	}
	q, err := ParseQuality(suffix)
	if err != nil {
		if !lenient {
			return Chord{}, err
		}
		q = Major
	}
	c.Quality = q
	return c, nil
}
