package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-stems/harmony"
	"go-stems/sequencer"
	"go-stems/theme"
)

// CellsPerSlot is the lane resolution: 8 cells per chord slot
const CellsPerSlot = 8

// LaneCells draws a track as one rune per cell. A cell shows an onset
// (or a hit for percussion) when a note starts inside it, sustain while
// a note sounds, and a rest otherwise. Slots are separated by bars.
func LaneCells(track sequencer.NoteTrack, slot float64, slots int, sym theme.Symbols) []rune {
	cell := slot / CellsPerSlot
	onset := sym.Onset
	if track.Instrument.Percussive() {
		onset = sym.Hit
	}

	out := make([]rune, 0, slots*(CellsPerSlot+1))
	for s := 0; s < slots; s++ {
		if s > 0 {
			out = append(out, sym.Bar)
		}
		for c := 0; c < CellsPerSlot; c++ {
			from := float64(s)*slot + float64(c)*cell
			to := from + cell
			r := sym.Rest
			for _, n := range track.Notes {
				if n.Start >= from && n.Start < to {
					r = onset
					break
				}
				if n.Start < from && n.End > from && !track.Instrument.Percussive() {
					r = sym.Sustain
				}
			}
			out = append(out, r)
		}
	}
	return out
}

// RenderLanes draws one labelled lane per track
func RenderLanes(th *theme.Theme, tracks []sequencer.NoteTrack, slot float64, slots int) string {
	width := 0
	for _, t := range tracks {
		width = max(width, lipgloss.Width(t.Instrument.Name))
	}

	var lines []string
	for i, t := range tracks {
		label := th.Dim().Render(fmt.Sprintf("%-*s", width, t.Instrument.Name))
		lane := lipgloss.NewStyle().Foreground(th.Lane(i, len(tracks))).
			Render(string(LaneCells(t, slot, slots, th.Symbols)))
		lo, hi := t.PitchRange()
		lines = append(lines, fmt.Sprintf("%s  %s  %s", label, lane, th.Dim().Render(fmt.Sprintf("%d-%d", lo, hi))))
	}
	return strings.Join(lines, "\n")
}

// ChordRow lays the chord labels out over the lane cells
func ChordRow(p harmony.Progression) string {
	var out strings.Builder
	for i, c := range p {
		if i > 0 {
			out.WriteString(" ")
		}
		fmt.Fprintf(&out, "%-*s", CellsPerSlot, c.Label())
	}
	return out.String()
}

// RenderProgression renders the composition header: key and pattern when
// the degree strategy chose them, then the chords
func RenderProgression(th *theme.Theme, comp harmony.Composition) string {
	var head []string
	head = append(head, string(comp.Strategy))
	if comp.Key != nil {
		head = append(head, comp.Key.String())
	}
	if len(comp.Pattern) > 0 {
		head = append(head, comp.Pattern.String())
	}
	return th.Header().Render(strings.Join(head, "  ")) + "\n" + ChordRow(comp.Progression)
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}
