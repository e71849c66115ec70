package hotkey

import (
	"errors"

	"github.com/TanaroSch/memoir-capture/internal/shortcut"
)

// ErrBackendNotAvailable is returned when a backend cannot be used on the current system.
var ErrBackendNotAvailable = errors.New("backend not available on this system")

// Backend abstracts the OS facility that intercepts key combinations
// system-wide. Implementations exist per display server; tests use fakes.
type Backend interface {
	// Register grabs the given shortcut and returns a handle whose Keydown
	// channel fires on every press.
	Register(spec shortcut.Spec) (RegisteredHotkey, error)

	// UnregisterAll releases every shortcut registered through this backend.
	UnregisterAll() error

	// Name returns a human-readable name for this backend (for logging).
	Name() string

	// IsAvailable returns true if this backend can be used on the current system.
	IsAvailable() bool
}

// RegisteredHotkey is a live OS-level grab.
type RegisteredHotkey interface {
	// Keydown receives one value per key press. Key releases are never
	// delivered.
	Keydown() <-chan struct{}

	// Close releases the grab. The Keydown channel must not be used afterwards.
	Close() error
}
