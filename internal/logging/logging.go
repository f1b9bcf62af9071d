// Package logging configures the process-wide slog logger.
//
// Levels come from the --log-level flag or, when the flag is unset, the
// LOG_LEVEL environment variable:
//
//	LOG_LEVEL=debug awrlens analyze awrrpt.html
//
// The default is warn so normal CLI output stays clean.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLevel names the environment variable consulted when no level is given.
const EnvLevel = "LOG_LEVEL"

const DefaultLevel = slog.LevelWarn

// ParseLevel maps a level name (case-insensitive) to a slog level. Unknown
// names fall back to DefaultLevel.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return DefaultLevel
	}
}

// ResolveLevel prefers an explicit level name over LOG_LEVEL.
func ResolveLevel(name string) slog.Level {
	if name == "" {
		name = os.Getenv(EnvLevel)
	}
	return ParseLevel(name)
}

// NewLogger returns a text logger writing to w. Debug output carries the
// source location.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}))
}

// SetDefault installs a stderr logger at the resolved level.
func SetDefault(name string) {
	slog.SetDefault(NewLogger(os.Stderr, ResolveLevel(name)))
}
