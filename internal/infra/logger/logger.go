package logger

import (
	"io"
	"log/slog"
	"os"
)

// New returns the service logger: JSON on stdout, debug output in dev.
func New(env string) *slog.Logger {
	return NewWriter(os.Stdout, env)
}

func NewWriter(w io.Writer, env string) *slog.Logger {
	level := slog.LevelInfo
	if env == "dev" {
		level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("service", "linetrack")
}

// Discard is used by tests and one-shot commands that report on stdout.
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
