// Package obslog wires the module's structured logging, in the style the
// rest of the corpus uses: a pair of package-level *slog.Logger globals
// that callers use directly. Both share one handler and one level, set at
// startup and replaced whenever Init is called again.
package obslog

import (
	"log/slog"
	"os"
)

var (
	// Info is the logger for normal operational events.
	Info *slog.Logger
	// Error is the logger for failures worth surfacing to an operator.
	Error *slog.Logger
)

func init() {
	Init("info", "hpagetable")
}

// Init (re)configures the package-level loggers. Call it again once the
// real configuration has been loaded to pick up the configured level.
func Init(level string, component string) {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(level)})
	logger := slog.New(handler).With("component", component)
	Info = logger
	Error = logger
}

func parseLevel(level string) slog.Level {
	switch level {
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
