// Package logging builds zerolog loggers and adapts them to the engine's Logger interface.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rgehrsitz/rothsim/internal/calculation"
	"github.com/rs/zerolog"
)

// Config holds logger configuration
type Config struct {
	Level  string // debug, info, warn, error
	Pretty bool   // console output instead of JSON
	Out    io.Writer
}

// ParseLevel maps a level name to zerolog; unknown names mean info
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "off", "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// New creates a structured logger. Output defaults to stderr so it never mixes
// with report output on stdout.
func New(cfg Config) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	return zerolog.New(out).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
}

// CalcLogger adapts a zerolog logger to calculation.Logger
type CalcLogger struct {
	log zerolog.Logger
}

var _ calculation.Logger = (*CalcLogger)(nil)

// NewCalcLogger tags every engine message with component=engine
func NewCalcLogger(l zerolog.Logger) *CalcLogger {
	return &CalcLogger{log: l.With().Str("component", "engine").Logger()}
}

func (c *CalcLogger) Debugf(format string, args ...any) { c.log.Debug().Msgf(format, args...) }
func (c *CalcLogger) Infof(format string, args ...any)  { c.log.Info().Msgf(format, args...) }
func (c *CalcLogger) Warnf(format string, args ...any)  { c.log.Warn().Msgf(format, args...) }
func (c *CalcLogger) Errorf(format string, args ...any) { c.log.Error().Msgf(format, args...) }
