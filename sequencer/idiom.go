package sequencer

import (
	"errors"
	"fmt"
)

// ErrUnknownIdiom is returned for idiom names outside the closed set
var ErrUnknownIdiom = errors.New("unknown playing idiom")

// Idiom identifies how an instrument turns a chord into notes
type Idiom string

const (
	IdiomChordal          Idiom = "chordal"
	IdiomArpeggio         Idiom = "arpeggio"
	IdiomRootOnly         Idiom = "root-only"
	IdiomPercussive       Idiom = "percussive"
	IdiomHumanizedHarmony Idiom = "humanized-harmony"
	IdiomMelodicLead      Idiom = "melodic-lead"
)

// Idioms returns every idiom the scheduler knows
func Idioms() []Idiom {
	return []Idiom{
		IdiomChordal,
		IdiomArpeggio,
		IdiomRootOnly,
		IdiomPercussive,
		IdiomHumanizedHarmony,
		IdiomMelodicLead,
	}
}

// Valid reports whether the idiom is one of Idioms()
func (i Idiom) Valid() bool {
	for _, known := range Idioms() {
		if i == known {
			return true
		}
	}
	return false
}

// ParseIdiom validates an idiom name
func ParseIdiom(s string) (Idiom, error) {
	i := Idiom(s)
	if !i.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownIdiom, s)
	}
	return i, nil
}

// UnmarshalText rejects unknown idioms while a catalog is being decoded
func (i *Idiom) UnmarshalText(text []byte) error {
	parsed, err := ParseIdiom(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
