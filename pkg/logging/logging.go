package logging

import (
	"log/slog"
	"os"

	"gitlab.com/staffsync/staffsync-backend/pkg/env"
)

// Setup builds the process-wide logger for the given mode. Local and test
// modes get a human-readable text handler, everything else JSON. The
// returned cleanup is a no-op today but callers should still defer it.
func Setup(mode env.Mode) (*slog.Logger, func()) {
	level := mode.SlogLevel()

	var handler slog.Handler
	switch mode {
	case env.Local, env.Test:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	default:
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	logger := slog.New(handler)

	return logger, func() {}
}
