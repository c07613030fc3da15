package harmony

import "strings"

// Degree is a diatonic scale degree in roman numeral notation.
type Degree struct {
	Label   string
	Index   int // position in the major scale, 0-6
	Quality Quality
}

// majorScale holds semitone offsets of the major scale from its tonic
var majorScale = [7]int{0, 2, 4, 5, 7, 9, 11}

var degrees = []Degree{
	{"I", 0, Major},
	{"ii", 1, Minor},
	{"iii", 2, Minor},
	{"IV", 3, Major},
	{"V", 4, Major},
	{"vi", 5, Minor},
	{"vii°", 6, Diminished},
}

// DegreeLabels returns the supported roman numerals in scale order.
func DegreeLabels() []string {
	out := make([]string, len(degrees))
	for i, d := range degrees {
		out[i] = d.Label
	}
	return out
}

// ParseDegree looks up a roman numeral label.
func ParseDegree(label string) (Degree, error) {
	for _, d := range degrees {
		if d.Label == label {
			return d, nil
		}
	}
	// accept the ascii spelling of the leading-tone degree
	if label == "vii" || label == "viio" {
		return degrees[6], nil
	}
	return Degree{}, &DegreeError{Label: label, Supported: DegreeLabels()}
}

// Chord resolves the degree to a chord. With transpose set the root is
// taken from the scale of key; otherwise it is read from C major.
func (d Degree) Chord(key Key, transpose bool) Chord {
	root := PitchClass(majorScale[d.Index])
	if transpose {
		root = key.Tonic.Transpose(majorScale[d.Index])
	}
	return Chord{Root: root, Quality: d.Quality}
}

// Pattern is a named sequence of degree labels.
type Pattern []string

func (p Pattern) String() string {
	return strings.Join(p, "-")
}

// Patterns is the fixed library of common pop progressions.
var Patterns = []Pattern{
	{"I", "V", "vi", "IV"},
	{"I", "vi", "IV", "V"},
	{"vi", "IV", "I", "V"},
	{"IV", "V", "I", "vi"},
	{"I", "IV", "V", "IV"},
}
