package internal

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger creates the engine's structured logger, writing human-readable
// console output to stderr so table/JSON output on stdout stays clean.
func NewLogger(verbose bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// NewLoggerWithWriter creates a logger with a custom writer, for tests.
func NewLoggerWithWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

// NopLogger discards everything; handy as a default dependency.
func NopLogger() zerolog.Logger {
	return zerolog.Nop()
}
