package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// Note lanes
	Onset   rune // ● note starts in this cell
	Sustain rune // ━ note still sounding
	Hit     rune // × drum hit
	Rest    rune // · nothing sounding
	Bar     rune // │ slot boundary

	// Progress
	Pending rune // ○ waiting
	Done    rune // ✓ rendered or written
	Failed  rune // ✗ failed
}

func New(palette *Palette) *Theme {
	if palette == nil {
		palette = Default
	}
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Onset:   '●',
			Sustain: '━',
			Hit:     '×',
			Rest:    '·',
			Bar:     '│',

			Pending: '○',
			Done:    '✓',
			Failed:  '✗',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0  // deep purple
	RoleSurface = 0.1  // dark purple
	RoleMuted   = 0.3  // purple-magenta
	RoleFG      = 0.45 // pink-purple (readable)
	RoleAccent  = 0.5  // vivid magenta
	RoleActive  = 0.7  // soft red
	RoleWarning = 0.8  // orange
	RoleSuccess = 1.0  // bright yellow
)

// Style helpers

func (t *Theme) BG() lipgloss.Color {
	return toLipgloss(t.Palette.Lookup(RoleBG))
}

func (t *Theme) FG() lipgloss.Color {
	return toLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return toLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return toLipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Active() lipgloss.Color {
	return toLipgloss(t.Palette.Lookup(RoleActive))
}

func (t *Theme) Warning() lipgloss.Color {
	return toLipgloss(t.Palette.Lookup(RoleWarning))
}

func (t *Theme) Success() lipgloss.Color {
	return toLipgloss(t.Palette.Lookup(RoleSuccess))
}

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return toLipgloss(t.Palette.Lookup(norm))
}

// Lane returns the color of the i-th of n instrument lanes, spread over
// the readable part of the palette
func (t *Theme) Lane(i, n int) lipgloss.Color {
	if n <= 1 {
		return t.Accent()
	}
	return t.Color(RoleFG + (1-RoleFG)*float64(i)/float64(n-1))
}

// Header, Dim, Error and OK are the text styles shared by the CLI and TUI

func (t *Theme) Header() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.Accent())
}

func (t *Theme) Dim() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Muted())
}

func (t *Theme) Error() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Active())
}

func (t *Theme) OK() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Success())
}

func toLipgloss(c colorful.Color) lipgloss.Color {
	return lipgloss.Color(c.Hex())
}
