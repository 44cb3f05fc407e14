// Package logger builds the process-wide structured logger. Every component
// takes a *slog.Logger at construction; nothing logs through the package-level
// default.
package logger

import (
	"log/slog"
	"os"
)

// New returns the JSON logger the service runs with. Info is the floor:
// signups, transitions, and dispatch runs all log at info, which is the
// operational record this service needs.
func New() *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(handler)
}
