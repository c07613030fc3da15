package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGPL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "duo.gpl")
	require.NoError(t, os.WriteFile(path, []byte("GIMP Palette\nName: duo\nColumns: 2\n# comment\n0 0 0\tblack\n255 255 255\twhite\n300 0 0\tbogus\n"), 0644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "duo", p.Name)
	require.Len(t, p.Colors, 2)
	assert.Equal(t, "#000000", p.Lookup(0).Hex())
	assert.Equal(t, "#ffffff", p.Lookup(1).Hex())
	assert.Equal(t, "#ffffff", p.Index(9).Hex())

	mid := p.Lookup(0.5)
	assert.InDelta(t, mid.R, mid.G, 0.01)
	assert.Greater(t, mid.R, 0.0)
	assert.Less(t, mid.R, 1.0)
}

func TestParseHexList(t *testing.T) {
	p, err := Parse(strings.NewReader("# two tone\n#ff0000\n#0000ff  blue\n"))
	require.NoError(t, err)
	require.Len(t, p.Colors, 2)
	assert.Equal(t, "#ff0000", p.Index(-1).Hex())
	assert.Equal(t, "#0000ff", p.Index(1).Hex())
}

func TestLoadDefaultsAndErrors(t *testing.T) {
	p, err := Load("")
	require.NoError(t, err)
	assert.Same(t, Default, p)

	empty := filepath.Join(t.TempDir(), "empty.gpl")
	require.NoError(t, os.WriteFile(empty, []byte("GIMP Palette\n"), 0644))
	_, err = Load(empty)
	assert.ErrorContains(t, err, "no colors")

	_, err = Load(filepath.Join(t.TempDir(), "missing.gpl"))
	assert.Error(t, err)
}

func TestThemeColors(t *testing.T) {
	th := New(nil)
	assert.Equal(t, lipgloss.Color("#1a102e"), th.BG())
	assert.Equal(t, lipgloss.Color("#ffd84d"), th.Success())
	assert.Equal(t, th.Accent(), th.Lane(0, 1))
	assert.Equal(t, th.Success(), th.Lane(3, 4))
}
