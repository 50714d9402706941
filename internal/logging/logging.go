// Package logging builds the structured logger shared by the commands.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// LoggerConfig holds configuration for creating loggers.
type LoggerConfig struct {
	// Log level (debug, info, warn, error)
	Level string

	// Output format: text, json or logfmt (default: text)
	Format string

	// Output writer (default: stderr)
	Output io.Writer

	Prefix string

	// Adds timestamps to every line
	Timestamps bool
}

// DefaultLoggerConfig returns a default configuration.
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:  "info",
		Format: "text",
		Prefix: "kompas",
	}
}

// NewLogger creates a logger from cfg. Unknown levels fall back to info.
func NewLogger(cfg LoggerConfig) *log.Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	return log.NewWithOptions(output, log.Options{
		Level:           parseLevel(cfg.Level),
		Prefix:          cfg.Prefix,
		ReportTimestamp: cfg.Timestamps,
		Formatter:       parseFormat(cfg.Format),
	})
}

// Discard returns a logger that writes nothing.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

func parseLevel(level string) log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

func parseFormat(format string) log.Formatter {
	switch strings.ToLower(format) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
