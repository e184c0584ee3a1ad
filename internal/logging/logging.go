// Package logging builds the zap loggers used by the server.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level enumerates supported log levels.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format enumerates supported log encodings.
type Format string

const (
	FormatStructured Format = "structured"
	FormatConsole    Format = "console"
)

var levels = map[Level]zapcore.Level{
	LevelDebug: zapcore.DebugLevel,
	LevelInfo:  zapcore.InfoLevel,
	LevelWarn:  zapcore.WarnLevel,
	LevelError: zapcore.ErrorLevel,
}

var encodings = map[Format]string{
	FormatStructured: "json",
	FormatConsole:    "console",
}

// Factory builds zap loggers with consistent configuration.
type Factory struct {
	// OutputPaths defaults to stderr; stdout carries the MCP stdio transport.
	OutputPaths []string
}

// NewFactory creates a Factory writing to stderr.
func NewFactory() *Factory {
	return &Factory{OutputPaths: []string{"stderr"}}
}

// CreateLogger returns a logger at the requested level and format.
func (f *Factory) CreateLogger(level Level, format Format) (*zap.Logger, error) {
	zapLevel, ok := levels[level]
	if !ok {
		return nil, fmt.Errorf("unsupported log level: %s", level)
	}

	encoding, ok := encodings[format]
	if !ok {
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.Encoding = encoding
	cfg.OutputPaths = f.OutputPaths
	cfg.ErrorOutputPaths = []string{"stderr"}
	if format == FormatConsole {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("unable to create logger: %w", err)
	}
	return logger, nil
}
