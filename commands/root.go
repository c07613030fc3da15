package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-stems/config"
	"go-stems/debug"
	"go-stems/theme"
)

// globals holds the persistent flags shared by every subcommand
type globals struct {
	configPath string
	logLevel   string
	logFile    string
	seed       uint64
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "go-stems",
		Short: "Compose chord progressions and render them to stems and a mix",
		Long: `go-stems composes short seeded chord progressions, voices them for an
ensemble of instruments, renders one stem per instrument and mixes them.

Commands:
  generate  Render samples to MIDI, stems, mixes and manifests
  preview   Show the progression and note lanes of a sample without rendering
  catalog   List the instrument catalog and drum kits
  config    Print or initialize the configuration

Configuration is read from ~/.config/go-stems/config.yaml (or --config),
then .env and STEMS_* environment variables, then flags.

Examples:
  go-stems generate --samples 10 --out ./dataset
  go-stems generate --seed 7 --instruments 4 --tui
  go-stems preview --seed 7
  STEMS_STRATEGY=direct-random go-stems preview`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "config file (default ~/.config/go-stems/config.yaml)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&g.logFile, "log-file", "", "write logs to this file instead of stderr")
	root.PersistentFlags().Uint64VarP(&g.seed, "seed", "s", 0, "random seed")

	root.AddCommand(
		newGenerateCmd(g),
		newPreviewCmd(g),
		newCatalogCmd(g),
		newConfigCmd(g),
	)
	return root
}

// Execute runs the command tree
func Execute() error {
	return NewRootCmd().Execute()
}

// load reads the effective config and applies the persistent flags
func (g *globals) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = g.seed
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = g.logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = g.logFile
	}
	return cfg, nil
}

// logger builds the process logger and routes debug.Log to it
func logger(cfg *config.Config) (*zap.SugaredLogger, error) {
	log, err := debug.NewLogger(debug.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		return nil, err
	}
	debug.Enable(log)
	return log, nil
}

func loadTheme(cfg *config.Config) (*theme.Theme, error) {
	palette, err := theme.Load(cfg.Palette)
	if err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}
	return theme.New(palette), nil
}
