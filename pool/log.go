package pool

import (
	"io"
	"log/slog"
	"os"
)

// Runtime growth logging - controlled by SPLICE_LOG_GROW env var.
var logGrow = os.Getenv("SPLICE_LOG_GROW") != ""

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// defaultLogger is used when Options.Logger is nil.
func defaultLogger() *slog.Logger {
	if logGrow {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})).With("component", "pool")
	}
	return discardLogger
}
