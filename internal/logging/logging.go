// Package logging provides the tool's structured logger, built on zerolog.
//
// Verification runs as a pre-build step, so the logger is silent unless
// logs are asked for; what the user needs to read goes through the report
// package instead.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the global logger instance.
var Logger zerolog.Logger

// Level represents log levels.
type Level = zerolog.Level

// Log levels accepted by ParseLevel.
const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
	Disabled   = zerolog.Disabled
)

// Config holds logger configuration.
type Config struct {
	Level  Level
	Output io.Writer
	// Pretty selects the human-readable console writer over JSON lines.
	Pretty bool
}

// DefaultConfig logs warnings and errors to stderr as JSON lines.
func DefaultConfig() Config {
	return Config{Level: WarnLevel, Output: os.Stderr}
}

// FromFlags builds the configuration for the --print-logs and --log-level
// flags: nothing is logged unless printLogs is set, and then in console
// format at the parsed level.
func FromFlags(printLogs bool, level string, w io.Writer) Config {
	if !printLogs {
		return Config{Level: Disabled, Output: w}
	}
	return Config{Level: ParseLevel(level), Output: w, Pretty: true}
}

// New builds a logger from cfg without touching the global Logger.
func New(cfg Config) zerolog.Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.Kitchen}
	}
	return zerolog.New(output).Level(cfg.Level).With().Timestamp().Logger()
}

// Init replaces the global logger.
func Init(cfg Config) {
	Logger = New(cfg)
}

// ParseLevel parses a log level name, ignoring case. Unknown names give
// WarnLevel.
func ParseLevel(level string) Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DebugLevel
	case "INFO":
		return InfoLevel
	case "WARN", "WARNING":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	case "OFF", "NONE":
		return Disabled
	default:
		return WarnLevel
	}
}

// ForRun returns a child logger tagging every entry with a run identifier.
func ForRun(id string) zerolog.Logger {
	return Logger.With().Str("run", id).Logger()
}

// Debug starts a new debug level log message.
func Debug() *zerolog.Event {
	return Logger.Debug()
}

// Info starts a new info level log message.
func Info() *zerolog.Event {
	return Logger.Info()
}

// Error starts a new error level log message.
func Error() *zerolog.Event {
	return Logger.Error()
}

func init() {
	Init(DefaultConfig())
}
