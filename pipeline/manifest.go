package pipeline

import (
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"go-stems/harmony"
	"go-stems/midi"
	"go-stems/sequencer"
)

// Manifest records how a sample was made and which files belong to it
type Manifest struct {
	RunID        string           `yaml:"run_id"`
	Seed         uint64           `yaml:"seed"`
	Sample       int              `yaml:"sample"`
	Strategy     harmony.Strategy `yaml:"strategy"`
	Key          string           `yaml:"key,omitempty"`
	Pattern      string           `yaml:"pattern,omitempty"`
	Chords       []string         `yaml:"chords"`
	SlotDuration float64          `yaml:"slot_duration"`
	Duration     float64          `yaml:"duration"`
	SampleRate   int              `yaml:"sample_rate"`
	Mix          string           `yaml:"mix"`
	Tracks       []ManifestTrack  `yaml:"tracks"`
	CreatedAt    time.Time        `yaml:"created_at"`
}

// ManifestTrack is one instrument's entry
type ManifestTrack struct {
	Instrument sequencer.Instrument `yaml:"instrument"`
	MIDI       string               `yaml:"midi,omitempty"`
	Stem       string               `yaml:"stem,omitempty"`
	Notes      []midi.Note          `yaml:"notes"`
}

// NewManifest describes s. File fields are filled in by Layout.Commit.
func NewManifest(runID string, seed uint64, s *Sample) *Manifest {
	m := &Manifest{
		RunID:      runID,
		Seed:       seed,
		Sample:     s.Index,
		Strategy:   s.Composition.Strategy,
		Chords:     s.Composition.Progression.Labels(),
		Duration:   s.Target,
		SampleRate: int(s.Rate),
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
	if len(s.Composition.Progression) > 0 {
		m.SlotDuration = s.Target / float64(len(s.Composition.Progression))
	}
	if s.Composition.Key != nil {
		m.Key = s.Composition.Key.Name
	}
	if len(s.Composition.Pattern) > 0 {
		m.Pattern = s.Composition.Pattern.String()
	}
	for _, t := range s.Tracks {
		m.Tracks = append(m.Tracks, ManifestTrack{Instrument: t.Instrument, Notes: t.Sorted()})
	}
	return m
}

// WriteFile writes the manifest as YAML
func (m *Manifest) WriteFile(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadManifest loads a manifest written by WriteFile
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
