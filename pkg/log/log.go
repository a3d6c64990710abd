// Package log configures the process-wide slog handler shared by the
// flowsight binaries.
package log

import (
	"log/slog"
	"os"
	"strings"
)

// Setup installs the default handler: text on stderr, or JSON when
// LOG_FORMAT=json. Unknown levels fall back to info.
func Setup(logLevel string) {
	opts := &slog.HandlerOptions{Level: ParseLevel(logLevel)}

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}

func ParseLevel(logLevel string) slog.Level {
	switch strings.ToLower(logLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithModule tags a child of the default logger with the component name.
// Every package logs through one of these so records are filterable by
// module.
func WithModule(module string) *slog.Logger {
	return slog.With("module", module)
}
