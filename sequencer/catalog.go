package sequencer

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"go-stems/midi"
)

// ErrCatalogExhausted is returned when more instruments are requested than exist
var ErrCatalogExhausted = errors.New("instrument catalog exhausted")

// CatalogExhaustedError carries the request that could not be met
type CatalogExhaustedError struct {
	Requested int
	Size      int
}

func (e *CatalogExhaustedError) Error() string {
	return fmt.Sprintf("%v: requested %d instruments, catalog has %d", ErrCatalogExhausted, e.Requested, e.Size)
}

func (e *CatalogExhaustedError) Unwrap() error { return ErrCatalogExhausted }

// Instrument is a catalog entry: a voice, its MIDI channel and how it plays chords
type Instrument struct {
	Name    string `yaml:"name"`
	Program *uint8 `yaml:"program,omitempty"` // nil for percussion kits
	Channel uint8  `yaml:"channel"`
	Idiom   Idiom  `yaml:"idiom"`
}

// Percussive reports whether the instrument plays the drum groove
func (i Instrument) Percussive() bool {
	return i.Idiom == IdiomPercussive
}

func (i Instrument) String() string {
	if i.Program == nil {
		return fmt.Sprintf("%s (ch %d, %s)", i.Name, i.Channel+1, i.Idiom)
	}
	return fmt.Sprintf("%s (prog %d, ch %d, %s)", i.Name, *i.Program, i.Channel+1, i.Idiom)
}

// Validate checks the entry's MIDI ranges and idiom
func (i Instrument) Validate() error {
	if i.Name == "" {
		return errors.New("instrument has no name")
	}
	if !i.Idiom.Valid() {
		return fmt.Errorf("instrument %s: %w: %q", i.Name, ErrUnknownIdiom, i.Idiom)
	}
	if i.Channel > 15 {
		return fmt.Errorf("instrument %s: channel %d out of range", i.Name, i.Channel)
	}
	if i.Program != nil && *i.Program > 127 {
		return fmt.Errorf("instrument %s: program %d out of range", i.Name, *i.Program)
	}
	return nil
}

// Selection is the policy for choosing instruments from the catalog
type Selection string

const (
	SelectFirst  Selection = "first"
	SelectRandom Selection = "random"
)

// Catalog is an ordered list of instruments
type Catalog []Instrument

func program(p uint8) *uint8 { return &p }

// DefaultCatalog returns the built-in eight-voice ensemble
func DefaultCatalog() Catalog {
	return Catalog{
		{Name: "Piano", Program: program(0), Channel: 0, Idiom: IdiomChordal},
		{Name: "Electric Guitar", Program: program(27), Channel: 1, Idiom: IdiomArpeggio},
		{Name: "Bass", Program: program(32), Channel: 2, Idiom: IdiomRootOnly},
		{Name: "Drums", Channel: midi.DrumChannel, Idiom: IdiomPercussive},
		{Name: "Violin", Program: program(40), Channel: 3, Idiom: IdiomHumanizedHarmony},
		{Name: "Viola", Program: program(41), Channel: 4, Idiom: IdiomHumanizedHarmony},
		{Name: "Cello", Program: program(42), Channel: 5, Idiom: IdiomHumanizedHarmony},
		{Name: "Saxophone", Program: program(66), Channel: 6, Idiom: IdiomMelodicLead},
	}
}

// Validate checks every entry and rejects duplicate names
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return errors.New("instrument catalog is empty")
	}
	seen := make(map[string]bool, len(c))
	var errs []error
	for _, inst := range c {
		if err := inst.Validate(); err != nil {
			errs = append(errs, err)
		}
		if seen[inst.Name] {
			errs = append(errs, fmt.Errorf("duplicate instrument %q", inst.Name))
		}
		seen[inst.Name] = true
	}
	return errors.Join(errs...)
}

// Lookup finds an instrument by name
func (c Catalog) Lookup(name string) (Instrument, bool) {
	for _, inst := range c {
		if inst.Name == name {
			return inst, true
		}
	}
	return Instrument{}, false
}

// Select returns n instruments. SelectFirst takes them in catalog order;
// SelectRandom draws a sample without replacement, in draw order.
func (c Catalog) Select(n int, policy Selection, rng *rand.Rand) ([]Instrument, error) {
	if n < 1 {
		return nil, fmt.Errorf("instrument count must be at least 1, got %d", n)
	}
	if n > len(c) {
		return nil, &CatalogExhaustedError{Requested: n, Size: len(c)}
	}

	switch policy {
	case SelectFirst, "":
		out := make([]Instrument, n)
		copy(out, c[:n])
		return out, nil

	case SelectRandom:
		idx := make([]int, len(c))
		for i := range idx {
			idx[i] = i
		}
		// partial Fisher-Yates: the first n slots are the sample
		for i := 0; i < n; i++ {
			j := i + rng.IntN(len(idx)-i)
			idx[i], idx[j] = idx[j], idx[i]
		}
		out := make([]Instrument, n)
		for i := range out {
			out[i] = c[idx[i]]
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown selection policy %q", policy)
}
