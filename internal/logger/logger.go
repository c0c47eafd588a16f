// =============================================================================
// Invoice Extractor - Logging
// =============================================================================
//
// Structured logging for the pipeline, built on zerolog. Every pipeline
// stage receives a logger; recoverable anomalies (unparseable cells,
// underdetermined distributions, skipped tables) are logged at warn so a
// run stays auditable without aborting on soft failures.
//
// =============================================================================

package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New creates a console logger at the given level. Verbose runs use debug,
// everything else info.
func New(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// NewWithWriter creates a logger writing to a custom destination. Used by
// tests to capture output.
func NewWithWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

// Nop returns a disabled logger for callers that do not care about output.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
