// Package logging builds the zap logger shared by the CLI and the storage
// backend.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log formats accepted in Config.Format.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// DefaultLevel keeps command output free of routine log lines.
const DefaultLevel = "warn"

// Config holds logging configuration.
type Config struct {
	Level  string    // debug, info, warn, error; empty means DefaultLevel
	Format string    // "console" or "json"; empty means console
	Output io.Writer // nil means os.Stderr
}

// New creates a structured logger from config.
func New(config Config) (*zap.Logger, error) {
	levelText := strings.TrimSpace(config.Level)
	if levelText == "" {
		levelText = DefaultLevel
	}
	level, err := zapcore.ParseLevel(levelText)
	if err != nil {
		return nil, fmt.Errorf("invalid log level '%s': %w", config.Level, err)
	}

	var encoder zapcore.Encoder
	switch strings.ToLower(strings.TrimSpace(config.Format)) {
	case FormatJSON:
		encoderConfig := zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.MessageKey = "message"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case FormatConsole, "":
		encoderConfig := zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		return nil, fmt.Errorf("invalid log format '%s': want %s or %s", config.Format, FormatConsole, FormatJSON)
	}

	out := config.Output
	if out == nil {
		out = os.Stderr
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(out), level)
	return zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel)), nil
}
