package theme

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette is an ordered color ramp. Roles pick positions along it.
type Palette struct {
	Name   string
	Colors []colorful.Color
}

// Default is the built-in ramp, dark purple through magenta to yellow
var Default = mustHex("go-stems",
	"#1a102e", "#2d1b4e", "#5b2a86", "#9a4cb5", "#d03fc0",
	"#f05d9a", "#f76e6e", "#fa9a4b", "#ffd84d",
)

func mustHex(name string, hexes ...string) *Palette {
	p := &Palette{Name: name}
	for _, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			panic(err)
		}
		p.Colors = append(p.Colors, c)
	}
	return p
}

// Load reads a palette file, or returns Default for an empty path.
// Both GIMP .gpl files and plain lists of #rrggbb lines are accepted.
func Load(path string) (*Palette, error) {
	if path == "" {
		return Default, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("palette %s: %w", path, err)
	}
	return p, nil
}

// Parse reads palette lines. Headers, comments and unparseable lines are skipped.
func Parse(r io.Reader) (*Palette, error) {
	p := &Palette{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "", strings.HasPrefix(line, "GIMP"), strings.HasPrefix(line, "Columns:"):
		case strings.HasPrefix(line, "Name:"):
			p.Name = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))
		case line[0] == '#':
			// "#rrggbb" is a color, anything else after # is a comment
			if c, err := colorful.Hex(strings.Fields(line)[0]); err == nil {
				p.Colors = append(p.Colors, c)
			}
		default:
			if c, ok := parseTriplet(strings.Fields(line)); ok {
				p.Colors = append(p.Colors, c)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(p.Colors) == 0 {
		return nil, fmt.Errorf("no colors found")
	}
	return p, nil
}

func parseTriplet(fields []string) (colorful.Color, bool) {
	if len(fields) < 3 {
		return colorful.Color{}, false
	}
	var rgb [3]float64
	for i := range rgb {
		v, err := strconv.Atoi(fields[i])
		if err != nil || v < 0 || v > 255 {
			return colorful.Color{}, false
		}
		rgb[i] = float64(v) / 255
	}
	return colorful.Color{R: rgb[0], G: rgb[1], B: rgb[2]}, true
}

// Lookup returns the color at norm (0-1) along the ramp, blended in Lab space
// between neighbouring entries.
func (p *Palette) Lookup(norm float64) colorful.Color {
	last := len(p.Colors) - 1
	if norm <= 0 || last == 0 {
		return p.Colors[0]
	}
	if norm >= 1 {
		return p.Colors[last]
	}
	pos := norm * float64(last)
	i := int(pos)
	return p.Colors[i].BlendLab(p.Colors[i+1], pos-float64(i)).Clamped()
}

// Index returns the i-th entry, clamped to the ramp
func (p *Palette) Index(i int) colorful.Color {
	return p.Colors[max(0, min(i, len(p.Colors)-1))]
}
