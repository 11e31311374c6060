// Package logx configures the process wide slog logger.
package logx

import (
	"io"
	"log/slog"
)

// LevelFromFlags maps the verbosity flags to a level. Verbose wins over quiet.
func LevelFromFlags(verbose, quiet bool) slog.Level {
	switch {
	case verbose:
		return slog.LevelDebug
	case quiet:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// Setup installs a text handler writing to w as the default logger and
// returns it
func Setup(w io.Writer, level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
