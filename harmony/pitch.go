package harmony

import "strings"

// PitchClass is a pitch modulo the octave, 0 = C through 11 = B.
type PitchClass int

// NumPitchClasses is the size of the chromatic scale
const NumPitchClasses = 12

var pitchNames = [NumPitchClasses]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// flat and alternate spellings accepted by ParsePitchClass
var pitchAliases = map[string]PitchClass{
	"Cb": 11,
	"Db": 1,
	"Eb": 3,
	"Fb": 4,
	"E#": 5,
	"Gb": 6,
	"Ab": 8,
	"Bb": 10,
	"B#": 0,
}

// PitchClasses returns all twelve pitch classes in chromatic order.
func PitchClasses() []PitchClass {
	out := make([]PitchClass, NumPitchClasses)
	for i := range out {
		out[i] = PitchClass(i)
	}
	return out
}

// Valid reports whether p is in 0-11.
func (p PitchClass) Valid() bool {
	return p >= 0 && p < NumPitchClasses
}

// Transpose shifts p by semitones, wrapping around the octave.
func (p PitchClass) Transpose(semitones int) PitchClass {
	v := (int(p) + semitones) % NumPitchClasses
	if v < 0 {
		v += NumPitchClasses
	}
	return PitchClass(v)
}

func (p PitchClass) String() string {
	if !p.Valid() {
		return "?"
	}
	return pitchNames[p]
}

// ParsePitchClass parses a note name such as "C", "F#" or "Bb".
func ParsePitchClass(name string) (PitchClass, error) {
	name = strings.TrimSpace(name)
	for i, n := range pitchNames {
		if n == name {
			return PitchClass(i), nil
		}
	}
	if p, ok := pitchAliases[name]; ok {
		return p, nil
	}
	return 0, &RootError{Label: name, Supported: pitchNames[:]}
}

// Key is a major key identified by its spelled tonic.
type Key struct {
	Name  string
	Tonic PitchClass
}

// MajorKeys lists the fifteen major key signatures.
var MajorKeys = []Key{
	{"C", 0}, {"G", 7}, {"D", 2}, {"A", 9}, {"E", 4}, {"B", 11}, {"F#", 6}, {"C#", 1},
	{"F", 5}, {"Bb", 10}, {"Eb", 3}, {"Ab", 8}, {"Db", 1}, {"Gb", 6}, {"Cb", 11},
}

func (k Key) String() string {
	return k.Name + " major"
}
