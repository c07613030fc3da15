package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go-stems/audio"
	"go-stems/midi"
)

// Output subdirectories
const (
	MIDIDir     = "midi"
	StemDir     = "wav"
	MergedDir   = "merged"
	ManifestDir = "manifests"
)

// Layout places sample artifacts under Root
type Layout struct {
	Root     string
	MIDI     bool // write per-instrument MIDI files
	Stems    bool // write per-instrument stems
	Channels int  // WAV channel count

	renameFn func(from, to string) error // os.Rename when nil
}

func (l Layout) rename(from, to string) error {
	if l.renameFn != nil {
		return l.renameFn(from, to)
	}
	return os.Rename(from, to)
}

// sanitizeFilename replaces characters that are problematic in filenames
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, " ", "-")
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, "\\", "-")
	name = strings.ReplaceAll(name, ":", "-")
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(`*?"<>|`, r) {
			return -1
		}
		return r
	}, name)
}

// MIDIPath is the relative path of an instrument's MIDI file
func MIDIPath(index int, instrument string) string {
	return filepath.Join(MIDIDir, fmt.Sprintf("sample%d_inst%s.mid", index, sanitizeFilename(instrument)))
}

// StemPath is the relative path of an instrument's stem
func StemPath(index int, instrument string) string {
	return filepath.Join(StemDir, fmt.Sprintf("sample%d_inst%s.wav", index, sanitizeFilename(instrument)))
}

// MixPath is the relative path of a sample's mix
func MixPath(index int) string {
	return filepath.Join(MergedDir, fmt.Sprintf("sample%d_merged.wav", index))
}

// ManifestPath is the relative path of a sample's manifest
func ManifestPath(index int) string {
	return filepath.Join(ManifestDir, fmt.Sprintf("sample%d.yaml", index))
}

type artifact struct {
	rel   string
	write func(path string) error
}

// Commit writes every artifact of s into a staging directory and moves
// them into place only once all of them were written. On error nothing
// new is left behind and files an earlier run wrote at the same paths are
// restored. Returns the final paths.
func (l Layout) Commit(s *Sample, m *Manifest) ([]string, error) {
	if err := os.MkdirAll(l.Root, 0755); err != nil {
		return nil, err
	}
	stage, err := os.MkdirTemp(l.Root, ".stage-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(stage)

	var arts []artifact
	for i, t := range s.Tracks {
		if l.MIDI {
			rel := MIDIPath(s.Index, t.Instrument.Name)
			part := t.Part()
			m.Tracks[i].MIDI = rel
			arts = append(arts, artifact{rel, func(p string) error { return midi.WriteFile(p, part) }})
		}
		if l.Stems {
			rel := StemPath(s.Index, t.Instrument.Name)
			stem := s.Stems[i]
			m.Tracks[i].Stem = rel
			arts = append(arts, artifact{rel, func(p string) error { return audio.WriteFile(p, stem, l.Channels) }})
		}
	}
	m.Mix = MixPath(s.Index)
	arts = append(arts,
		artifact{m.Mix, func(p string) error { return audio.WriteFile(p, s.Mix, l.Channels) }},
		artifact{ManifestPath(s.Index), m.WriteFile},
	)

	for _, a := range arts {
		p := filepath.Join(stage, a.rel)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return nil, err
		}
		if err := a.write(p); err != nil {
			return nil, fmt.Errorf("write %s: %w", a.rel, err)
		}
	}

	// files from an earlier run at the same paths are parked in the stage
	// so a failed commit can put them back
	type move struct{ dst, parked string }
	var moved []move
	rollback := func() {
		for i := len(moved) - 1; i >= 0; i-- {
			os.Remove(moved[i].dst)
			if moved[i].parked != "" {
				os.Rename(moved[i].parked, moved[i].dst)
			}
		}
	}
	for i, a := range arts {
		dst := filepath.Join(l.Root, a.rel)
		mv := move{dst: dst}
		err := os.MkdirAll(filepath.Dir(dst), 0755)
		if err == nil {
			if _, statErr := os.Lstat(dst); statErr == nil {
				mv.parked = filepath.Join(stage, "prev", strconv.Itoa(i))
				if err = os.MkdirAll(filepath.Dir(mv.parked), 0755); err == nil {
					err = os.Rename(dst, mv.parked)
				}
				if err != nil {
					mv.parked = ""
				}
			}
		}
		if err == nil {
			err = l.rename(filepath.Join(stage, a.rel), dst)
		}
		if err != nil {
			if mv.parked != "" {
				os.Rename(mv.parked, dst)
			}
			rollback()
			return nil, fmt.Errorf("commit %s: %w", a.rel, err)
		}
		moved = append(moved, mv)
	}

	paths := make([]string, len(moved))
	for i, mv := range moved {
		paths[i] = mv.dst
	}
	return paths, nil
}
