//go:build !windows && !linux && !darwin

package hotkey

import (
	"errors"

	"github.com/decred/slog"
)

// NewKeySource is unavailable on this platform; hotkeys stay disabled.
func NewKeySource(modifiers []Key, slots int, log slog.Logger) (KeySource, error) {
	return nil, errors.New("global hotkeys are not supported on this platform")
}
