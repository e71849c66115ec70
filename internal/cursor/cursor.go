// Package cursor reads the global mouse position and monitor work areas in
// screen coordinates with a top-left origin.
package cursor

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned where the platform offers no way to read the
// pointer position. It matches errors.ErrUnsupported.
var ErrUnsupported = fmt.Errorf("cursor position: %w", errors.ErrUnsupported)

// Locator reads the current pointer position. It satisfies
// window.CursorLocator and window.WorkAreaLocator.
type Locator struct{}

// New returns the locator for the current platform.
func New() Locator { return Locator{} }

// Position returns the pointer position in logical pixels.
func (Locator) Position() (x, y float64, err error) {
	return position()
}

// WorkAreaOrigin returns the top-left corner of the usable area of the
// monitor containing (x, y). Menu bars, docks and taskbars are excluded.
func (Locator) WorkAreaOrigin(x, y float64) (left, top float64, err error) {
	return workAreaOrigin(x, y)
}
