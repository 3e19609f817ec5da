// Package logging wires up the zap logger the rest of the module traces
// through. The teacher has no structured logger of its own (it prints
// REPL text with fmt); this package is the idiomatic replacement for a
// long-running solve session, following the pack's zap/lumberjack
// manifest.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures logger construction.
type Options struct {
	// Verbose switches between zap's production and development
	// presets (JSON vs. console-friendly, info vs. debug level).
	Verbose bool

	// LogFile, if non-empty, sends output through a rotating
	// lumberjack writer instead of stderr.
	LogFile string
}

// New builds a *zap.Logger per Options. Callers should defer Sync() on
// the result.
func New(opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	if opts.Verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	if opts.LogFile == "" {
		return cfg.Build()
	}

	encoder := zapcore.NewJSONEncoder(cfg.EncoderConfig)
	if opts.Verbose {
		encoder = zapcore.NewConsoleEncoder(cfg.EncoderConfig)
	}

	rotator := &lumberjack.Logger{
		Filename:   opts.LogFile,
		MaxSize:    50, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	level := zapcore.InfoLevel
	if opts.Verbose {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(encoder, zapcore.AddSync(rotator), level)
	return zap.New(core), nil
}
