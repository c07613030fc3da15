package harmony

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Progression is an ordered list of chords, one per time slot.
type Progression []Chord

// Labels returns the chord labels in slot order.
func (p Progression) Labels() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = c.Label()
	}
	return out
}

// Duration is the total length of the progression for a given slot length.
func (p Progression) Duration(slot float64) float64 {
	return float64(len(p)) * slot
}

func (p Progression) String() string {
	return strings.Join(p.Labels(), " ")
}

// ParseProgression parses space separated chord labels.
func ParseProgression(s string, lenient bool) (Progression, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, ErrInvalidLength
	}
	out := make(Progression, 0, len(fields))
	for _, f := range fields {
		c, err := ParseChord(f, lenient)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Strategy names a progression generation strategy.
type Strategy string

const (
	StrategyDirectRandom Strategy = "direct-random"
	StrategyDegree       Strategy = "degree"
	StrategyFixed        Strategy = "fixed"
)

// Strategies lists the known strategies.
func Strategies() []Strategy {
	return []Strategy{StrategyDirectRandom, StrategyDegree}
}

// Composition is a generated progression plus the choices behind it.
type Composition struct {
	Strategy    Strategy
	Progression Progression
	Key         *Key    // set by the degree strategy
	Pattern     Pattern // set by the degree strategy
}

// Generator produces chord progressions from a caller-owned random stream.
type Generator interface {
	Compose(length int, rng *rand.Rand) (Composition, error)
}

// NewGenerator returns the generator for a strategy name.
func NewGenerator(s Strategy, transpose bool) (Generator, error) {
	switch s {
	case StrategyDirectRandom:
		return DirectRandom{}, nil
	case StrategyDegree:
		return DegreeGenerator{Keys: MajorKeys, Patterns: Patterns, Transpose: transpose}, nil
	}
	return nil, fmt.Errorf("unknown progression strategy %q", s)
}

// DirectRandom draws an independent root and quality for every slot.
// Draw order per slot: root, then quality.
type DirectRandom struct{}

func (DirectRandom) Compose(length int, rng *rand.Rand) (Composition, error) {
	if length < 1 {
		return Composition{}, ErrInvalidLength
	}
	prog := make(Progression, length)
	for i := range prog {
		root := PitchClass(rng.IntN(NumPitchClasses))
		q := Quality(rng.IntN(NumQualities))
		prog[i] = Chord{Root: root, Quality: q}
	}
	return Composition{Strategy: StrategyDirectRandom, Progression: prog}, nil
}

// DegreeGenerator picks a key and a degree pattern, then resolves the
// pattern's degrees to chords. Draw order: key, then pattern.
type DegreeGenerator struct {
	Keys      []Key
	Patterns  []Pattern
	Transpose bool
}

func (g DegreeGenerator) Compose(length int, rng *rand.Rand) (Composition, error) {
	if length < 1 {
		return Composition{}, ErrInvalidLength
	}
	if len(g.Keys) == 0 || len(g.Patterns) == 0 {
		return Composition{}, fmt.Errorf("degree generator needs at least one key and one pattern")
	}
	key := g.Keys[rng.IntN(len(g.Keys))]
	pattern := g.Patterns[rng.IntN(len(g.Patterns))]

	prog, err := g.Resolve(key, pattern, length)
	if err != nil {
		return Composition{}, err
	}
	return Composition{
		Strategy:    StrategyDegree,
		Progression: prog,
		Key:         &key,
		Pattern:     pattern,
	}, nil
}

// Resolve maps the first length degrees of pattern to chords in key.
// Patterns shorter than length repeat from the start.
func (g DegreeGenerator) Resolve(key Key, pattern Pattern, length int) (Progression, error) {
	if len(pattern) == 0 {
		return nil, fmt.Errorf("empty degree pattern")
	}
	prog := make(Progression, length)
	for i := range prog {
		d, err := ParseDegree(pattern[i%len(pattern)])
		if err != nil {
			return nil, err
		}
		prog[i] = d.Chord(key, g.Transpose)
	}
	return prog, nil
}

// Fixed replays a given progression and draws nothing. Progressions
// shorter than the requested length repeat from the start.
type Fixed Progression

func (f Fixed) Compose(length int, _ *rand.Rand) (Composition, error) {
	if length < 1 {
		return Composition{}, ErrInvalidLength
	}
	if len(f) == 0 {
		return Composition{}, fmt.Errorf("fixed progression is empty")
	}
	prog := make(Progression, length)
	for i := range prog {
		prog[i] = f[i%len(f)]
	}
	return Composition{Strategy: StrategyFixed, Progression: prog}, nil
}
