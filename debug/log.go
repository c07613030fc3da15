package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// Options configures the process logger
type Options struct {
	Level  string // debug | info | warn | error
	Format string // console | json
	File   string // "" logs to stderr
}

// NewLogger builds a zap logger from opts
func NewLogger(opts Options) (*zap.SugaredLogger, error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	var cfg zap.Config
	switch opts.Format {
	case "json":
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.MessageKey = "message"
	case "console", "":
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, err
		}
		cfg.OutputPaths = []string{opts.File}
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// NewTestLogger returns a new logger and observed logs for testing.
func NewTestLogger() (*zap.SugaredLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zap.DebugLevel)
	return zap.New(core).Sugar(), recorded
}

var (
	mu     sync.Mutex
	global = zap.NewNop().Sugar()
)

// Enable routes Log calls to l
func Enable(l *zap.SugaredLogger) {
	mu.Lock()
	defer mu.Unlock()
	global = l
}

// Disable silences Log and flushes the previous logger
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	_ = global.Sync()
	global = zap.NewNop().Sugar()
}

// Log writes a debug message under a category
func Log(category, format string, args ...any) {
	mu.Lock()
	l := global
	mu.Unlock()
	l.Named(category).Debugf(format, args...)
}
