// Package log wraps zerolog with the component-scoped logger shape used
// across this service: one global Logger initialized at startup, and
// per-package sub-loggers carrying a "component" field.
package log

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Level is the configured filtering threshold.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// Config controls Init.
type Config struct {
	Level      Level
	JSONOutput bool
	Output     io.Writer
}

// Logger is the process-wide logger. Init must be called once at startup;
// until then it defaults to info-level JSON on stderr.
var Logger zerolog.Logger

func init() {
	Logger = zerolog.New(os.Stderr).Level(zerolog.InfoLevel).With().Timestamp().Logger()
}

// Init configures the global Logger.
func Init(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var level zerolog.Level
	switch cfg.Level {
	case DebugLevel:
		level = zerolog.DebugLevel
	case WarnLevel:
		level = zerolog.WarnLevel
	case ErrorLevel:
		level = zerolog.ErrorLevel
	default:
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var writer io.Writer = out
	if !cfg.JSONOutput {
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	Logger = zerolog.New(writer).With().Timestamp().Logger()
}

// WithComponent returns a sub-logger tagging every event with component=name.
func WithComponent(name string) zerolog.Logger {
	return Logger.With().Str("component", name).Logger()
}

// WithJob returns a sub-logger tagging every event with job_id.
func WithJob(base zerolog.Logger, jobID string) zerolog.Logger {
	return base.With().Str("job_id", jobID).Logger()
}
