package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"go-stems/audio"
	"go-stems/harmony"
	"go-stems/sequencer"
)

// EnvPrefix prefixes every environment override, e.g. STEMS_SEED
const EnvPrefix = "stems"

// RendererConfig selects the synthesis backend
type RendererConfig struct {
	Kind      string  `yaml:"kind" envconfig:"KIND"` // synth | fluidsynth
	Binary    string  `yaml:"binary,omitempty" envconfig:"BINARY"`
	SoundFont string  `yaml:"soundfont,omitempty" envconfig:"SOUNDFONT"`
	Gain      float64 `yaml:"gain" envconfig:"GAIN"`
	Cache     bool    `yaml:"cache" envconfig:"CACHE"`
	CacheDir  string  `yaml:"cache_dir,omitempty" envconfig:"CACHE_DIR"`
}

// OutputConfig controls which artifacts are written and where
type OutputConfig struct {
	Dir   string `yaml:"dir" envconfig:"DIR"`
	MIDI  bool   `yaml:"midi" envconfig:"MIDI"`
	Stems bool   `yaml:"stems" envconfig:"STEMS"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`
	Format string `yaml:"format" envconfig:"FORMAT"` // console | json
	File   string `yaml:"file,omitempty" envconfig:"FILE"`
}

// Config is the main configuration structure
type Config struct {
	Seed              uint64  `yaml:"seed" envconfig:"SEED"`
	Samples           int     `yaml:"samples" envconfig:"SAMPLES"`
	ProgressionLength int     `yaml:"progression_length" envconfig:"PROGRESSION_LENGTH"`
	SlotDuration      float64 `yaml:"slot_duration" envconfig:"SLOT_DURATION"`
	Instruments       int     `yaml:"instruments" envconfig:"INSTRUMENTS"`
	SampleRate        int     `yaml:"sample_rate" envconfig:"SAMPLE_RATE"`
	Channels          int     `yaml:"channels" envconfig:"CHANNELS"`

	Strategy  harmony.Strategy    `yaml:"strategy" envconfig:"STRATEGY"`
	Selection sequencer.Selection `yaml:"selection" envconfig:"SELECTION"`
	MixStart  audio.StartMode     `yaml:"mix_start" envconfig:"MIX_START"`

	TrimBuffer         float64         `yaml:"trim_buffer" envconfig:"TRIM_BUFFER"`
	ArpeggioDelay      float64         `yaml:"arpeggio_delay" envconfig:"ARPEGGIO_DELAY"`
	Jitter             float64         `yaml:"jitter" envconfig:"JITTER"`
	HitDuration        float64         `yaml:"hit_duration" envconfig:"HIT_DURATION"`
	ReferencePitch     int             `yaml:"reference_pitch" envconfig:"REFERENCE_PITCH"`
	Velocity           sequencer.Range `yaml:"velocity" envconfig:"VELOCITY"`
	PercussionVelocity sequencer.Range `yaml:"percussion_velocity" envconfig:"PERCUSSION_VELOCITY"`
	DrumKit            string          `yaml:"drum_kit" envconfig:"DRUM_KIT"`
	Groove             string          `yaml:"groove,omitempty" envconfig:"GROOVE"` // "" for the default groove

	Progression   string `yaml:"progression,omitempty" envconfig:"PROGRESSION"` // fixed chords, e.g. "Cmaj Amin Fmaj Gmaj"
	LenientChords bool   `yaml:"lenient_chords" envconfig:"LENIENT_CHORDS"`
	KeyTranspose  bool   `yaml:"key_transpose" envconfig:"KEY_TRANSPOSE"`
	Workers       int    `yaml:"workers" envconfig:"WORKERS"` // 0 = one per instrument
	KeepGoing     bool   `yaml:"keep_going" envconfig:"KEEP_GOING"`

	Renderer RendererConfig `yaml:"renderer" envconfig:"RENDERER"`
	Output   OutputConfig   `yaml:"output" envconfig:"OUTPUT"`
	Log      LogConfig      `yaml:"log" envconfig:"LOG"`
	Palette  string         `yaml:"palette,omitempty" envconfig:"PALETTE"` // GIMP .gpl file

	Catalog sequencer.Catalog `yaml:"catalog,omitempty" ignored:"true"` // replaces the built-in ensemble
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Seed:               42,
		Samples:            1,
		ProgressionLength:  4,
		SlotDuration:       2.0,
		Instruments:        8,
		SampleRate:         16000,
		Channels:           2,
		Strategy:           harmony.StrategyDegree,
		Selection:          sequencer.SelectFirst,
		MixStart:           audio.StartSilence,
		TrimBuffer:         0,
		ArpeggioDelay:      0.2,
		Jitter:             0.2,
		HitDuration:        0.1,
		ReferencePitch:     60,
		Velocity:           sequencer.Range{Min: 80, Max: 120},
		PercussionVelocity: sequencer.Range{Min: 80, Max: 120},
		DrumKit:            sequencer.DefaultKit,
		KeyTranspose:       true,
		Renderer: RendererConfig{
			Kind: "synth",
			Gain: 0.2,
		},
		Output: OutputConfig{
			Dir:   "output",
			MIDI:  true,
			Stems: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-stems"), nil
}

// ConfigPath returns the full path to config.yaml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load builds the effective config: defaults, then the YAML file, then
// .env and STEMS_* environment variables. An empty path reads the user
// config file when there is one.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		p, err := ConfigPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if err := cfg.ReadFile(path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadFile overlays the YAML file at path onto c
func (c *Config) ReadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, c, yaml.Strict()); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// ApplyEnv loads ./.env when present, then applies STEMS_* variables
func (c *Config) ApplyEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	return nil
}

// Marshal renders the config as YAML
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Save writes the config to path, creating its directory
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
