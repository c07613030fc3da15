package harmony

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func TestChordPitches(t *testing.T) {
	tests := []struct {
		label string
		want  [3]int
	}{
		{"Cmaj", [3]int{60, 64, 67}},
		{"Amin", [3]int{69, 72, 76}},
		{"Bdim", [3]int{71, 74, 77}},
		{"Eaug", [3]int{64, 68, 72}},
		{"F#min", [3]int{66, 69, 73}},
		{"Bbmaj", [3]int{70, 74, 77}},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			c, err := ParseChord(tt.label, false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Pitches(60))
		})
	}
}

func TestParseChordStrict(t *testing.T) {
	_, err := ParseChord("Csus4", false)
	var qe *QualityError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, "sus4", qe.Label)
	assert.True(t, errors.Is(err, ErrUnsupportedQuality))
	assert.Contains(t, err.Error(), "maj, min, dim, aug")

	_, err = ParseChord("Hmaj", false)
	assert.ErrorIs(t, err, ErrUnsupportedRoot)
}

func TestParseChordLenient(t *testing.T) {
	c, err := ParseChord("Dsus4", true)
	require.NoError(t, err)
	assert.Equal(t, Chord{Root: 2, Quality: Major}, c)

	c, err = ParseChord("Xmin", true)
	require.NoError(t, err)
	assert.Equal(t, Chord{Root: 0, Quality: Minor}, c)
}

func TestParseDegree(t *testing.T) {
	d, err := ParseDegree("vii°")
	require.NoError(t, err)
	assert.Equal(t, Diminished, d.Quality)

	_, err = ParseDegree("VIII")
	var de *DegreeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "VIII", de.Label)
	assert.Equal(t, DegreeLabels(), de.Supported)
	assert.ErrorIs(t, err, ErrUnsupportedDegree)
}

func TestResolveUnsupportedDegree(t *testing.T) {
	g := DegreeGenerator{Keys: MajorKeys, Patterns: Patterns, Transpose: true}
	_, err := g.Resolve(MajorKeys[0], Pattern{"I", "bVII"}, 2)
	assert.ErrorIs(t, err, ErrUnsupportedDegree)
	assert.Contains(t, err.Error(), "bVII")
}

func TestDegreeChordTranspose(t *testing.T) {
	g := DegreeGenerator{Transpose: true}
	prog, err := g.Resolve(Key{"G", 7}, Pattern{"I", "V", "vi", "IV"}, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"Gmaj", "Dmaj", "Emin", "Cmaj"}, prog.Labels())

	g.Transpose = false
	prog, err = g.Resolve(Key{"G", 7}, Pattern{"I", "V", "vi", "IV"}, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cmaj", "Gmaj", "Amin", "Fmaj"}, prog.Labels())
}

func TestResolveRepeatsShortPattern(t *testing.T) {
	g := DegreeGenerator{Transpose: true}
	prog, err := g.Resolve(MajorKeys[0], Patterns[0], 6)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cmaj", "Gmaj", "Amin", "Fmaj", "Cmaj", "Gmaj"}, prog.Labels())
}

func TestComposeLength(t *testing.T) {
	for _, s := range Strategies() {
		g, err := NewGenerator(s, true)
		require.NoError(t, err)
		for _, n := range []int{1, 2, 3, 4, 7, 16} {
			comp, err := g.Compose(n, seeded(42))
			require.NoError(t, err)
			assert.Len(t, comp.Progression, n, "strategy %s", s)
			for _, c := range comp.Progression {
				assert.True(t, c.Root.Valid())
				assert.True(t, c.Quality.Valid())
				assert.Len(t, c.Pitches(60), 3)
			}
		}
		_, err = g.Compose(0, seeded(42))
		assert.ErrorIs(t, err, ErrInvalidLength)
	}
}

func TestComposeDeterministic(t *testing.T) {
	for _, s := range Strategies() {
		g, err := NewGenerator(s, true)
		require.NoError(t, err)
		a, err := g.Compose(8, seeded(7))
		require.NoError(t, err)
		b, err := g.Compose(8, seeded(7))
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestDegreeComposeRecordsChoices(t *testing.T) {
	g := DegreeGenerator{Keys: MajorKeys, Patterns: Patterns, Transpose: true}
	comp, err := g.Compose(4, seeded(1))
	require.NoError(t, err)
	require.NotNil(t, comp.Key)
	assert.Contains(t, Patterns, comp.Pattern)

	want, err := g.Resolve(*comp.Key, comp.Pattern, 4)
	require.NoError(t, err)
	assert.Equal(t, want, comp.Progression)
}

func TestUnknownStrategy(t *testing.T) {
	_, err := NewGenerator("markov", true)
	assert.Error(t, err)
}

func TestParseProgression(t *testing.T) {
	p, err := ParseProgression("Cmaj Amin Fmaj Gmaj", false)
	require.NoError(t, err)
	assert.Equal(t, 8.0, p.Duration(2.0))
	assert.Equal(t, "Cmaj Amin Fmaj Gmaj", p.String())
}

func TestPitchClassTranspose(t *testing.T) {
	assert.Equal(t, PitchClass(1), PitchClass(11).Transpose(2))
	assert.Equal(t, PitchClass(10), PitchClass(0).Transpose(-2))

	p, err := ParsePitchClass("Cb")
	require.NoError(t, err)
	assert.Equal(t, PitchClass(11), p)
}

func TestFixedRepeats(t *testing.T) {
	p, err := ParseProgression("Cmaj Gmaj", false)
	require.NoError(t, err)

	comp, err := Fixed(p).Compose(5, nil)
	require.NoError(t, err)
	assert.Equal(t, StrategyFixed, comp.Strategy)
	assert.Equal(t, "Cmaj Gmaj Cmaj Gmaj Cmaj", comp.Progression.String())

	_, err = Fixed(nil).Compose(2, nil)
	assert.Error(t, err)
	_, err = Fixed(p).Compose(0, nil)
	assert.ErrorIs(t, err, ErrInvalidLength)
}
