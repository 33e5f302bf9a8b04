package overlay

import (
	"log/slog"
	"sync/atomic"
)

// loggerPtr stores the active package logger. Accessed atomically so
// SetLogger can race with overlay operations on other goroutines.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(slog.DiscardHandler))
}

// SetLogger configures logging for the overlay engine and its layout
// attempts. By default nothing is logged; diagnostics are still returned on
// every Result regardless of logging. Pass nil to restore the silent
// default.
//
// Log levels used:
//   - [slog.LevelDebug]: one record per layout attempt and phase change
//   - [slog.LevelWarn]: clamped parameters and font substitutions
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	loggerPtr.Store(l)
}

func logger() *slog.Logger { return loggerPtr.Load() }
