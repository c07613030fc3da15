package widgets

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-stems/harmony"
	"go-stems/sequencer"
	"go-stems/theme"
)

func schedule(t *testing.T, name, prog string) sequencer.NoteTrack {
	t.Helper()
	inst, ok := sequencer.DefaultCatalog().Lookup(name)
	require.True(t, ok)
	p, err := harmony.ParseProgression(prog, false)
	require.NoError(t, err)
	tr, err := sequencer.DefaultScheduler().Schedule(p, inst, rand.New(rand.NewPCG(1, 1)))
	require.NoError(t, err)
	return tr
}

func TestLaneCells(t *testing.T) {
	sym := theme.New(nil).Symbols
	tests := []struct {
		name  string
		inst  string
		prog  string
		slots int
		want  string
	}{
		{"chordal", "Piano", "Cmaj Gmaj", 2, "●━━━━━━━│●━━━━━━━"},
		{"arpeggio", "Electric Guitar", "Cmaj", 1, "●●━━━━━━"},
		{"percussive", "Drums", "Cmaj", 1, "×·×·×·×·"},
		{"empty lane", "Bass", "Cmaj", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := schedule(t, tt.inst, tt.prog)
			assert.Equal(t, tt.want, string(LaneCells(tr, 2.0, tt.slots, sym)))
		})
	}
}

func TestChordRow(t *testing.T) {
	p, err := harmony.ParseProgression("Cmaj F#min", false)
	require.NoError(t, err)
	assert.Equal(t, "Cmaj     F#min   ", ChordRow(p))
}

func TestRenderProgression(t *testing.T) {
	g := harmony.DegreeGenerator{Keys: harmony.MajorKeys, Patterns: harmony.Patterns, Transpose: true}
	comp, err := g.Compose(4, rand.New(rand.NewPCG(42, 42)))
	require.NoError(t, err)

	out := RenderProgression(theme.New(nil), comp)
	assert.Contains(t, out, comp.Key.String())
	assert.Contains(t, out, comp.Pattern.String())
	assert.Contains(t, out, comp.Progression[0].Label())
}

func TestRenderLanes(t *testing.T) {
	tracks := []sequencer.NoteTrack{schedule(t, "Piano", "Cmaj"), schedule(t, "Saxophone", "Cmaj")}
	out := RenderLanes(theme.New(nil), tracks, 2.0, 1)
	assert.Contains(t, out, "Piano")
	assert.Contains(t, out, "60-67")
	assert.Contains(t, out, "72-72")
}

func TestRenderKeyHelp(t *testing.T) {
	out := RenderKeyHelp([]KeySection{{Title: "Run", Keys: []KeyBinding{{"q", "quit"}}}})
	assert.Equal(t, "Run\n  q            quit", out)
}
