package logging

import (
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init installs the global logger. Output goes to stderr so stdout stays
// free for segment listings.
func Init(verbose, jsonOutput bool) {
	log.Logger = Setup(os.Stderr, verbose, jsonOutput)
}

// Setup builds a logger writing to w: human-readable console lines by
// default, one JSON object per event when jsonOutput is set.
func Setup(w io.Writer, verbose, jsonOutput bool) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	if !jsonOutput {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: "15:04:05",
		}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// WithComponent creates a logger with a component field
func WithComponent(component string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger()
}

// NewRunID returns an identifier for one segmentation run.
func NewRunID() string {
	return uuid.NewString()
}

// WithRun tags every event of logger with the run id and input path.
func WithRun(logger zerolog.Logger, runID, input string) zerolog.Logger {
	return logger.With().Str("run", runID).Str("input", input).Logger()
}
