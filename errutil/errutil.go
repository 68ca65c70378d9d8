package errutil

import (
	"github.com/decred/slog"
)

// LogError logs non-critical errors with context.
func LogError(log slog.Logger, context string, err error) {
	if err != nil {
		log.Errorf("[%s]: %v", context, err)
	}
}

// WarnError logs errors the next poll or click will retry past.
func WarnError(log slog.Logger, context string, err error) {
	if err != nil {
		log.Warnf("[%s]: %v", context, err)
	}
}

// CriticalError logs an error the process can't continue past. The caller
// unwinds and exits, so deferred cleanup still runs.
func CriticalError(log slog.Logger, context string, err error) {
	log.Criticalf("[%s]: %v", context, err)
}
