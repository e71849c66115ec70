// Package window manages the floating quick-capture window: showing it next
// to the pointer, resizing it on request and dismissing it.
package window

import (
	"fmt"
	"log"
	"sync"

	"github.com/TanaroSch/memoir-capture/internal/focus"
)

// Label names the capture window.
const Label = "quick-capture"

const (
	// DefaultWidth and DefaultHeight are the compact size used for new windows.
	DefaultWidth  = 420
	DefaultHeight = 66

	// FallbackX and FallbackY stand in for the pointer when it cannot be read.
	FallbackX = 100
	FallbackY = 100
)

// LegacySize is the fixed size older builds used for the capture window.
var LegacySize = Size{Width: 380, Height: 56}

// Size is a window size in logical pixels.
type Size struct {
	Width, Height float64
}

// Geometry is a window rectangle; X and Y are the top-left corner.
type Geometry struct {
	X, Y          float64
	Width, Height float64
}

// Options describes the window chrome requested on creation.
type Options struct {
	Frameless   bool
	Resizable   bool
	AlwaysOnTop bool
	SkipTaskbar bool
	Transparent bool
	Focused     bool
}

// CaptureOptions is the chrome of the capture window.
var CaptureOptions = Options{
	Frameless:   true,
	Resizable:   false,
	AlwaysOnTop: true,
	SkipTaskbar: true,
	Transparent: true,
	Focused:     true,
}

// Surface is the windowing toolkit the controller drives.
type Surface interface {
	Create(label string, g Geometry, opts Options) error
	SetPosition(x, y float64) error
	SetSize(width, height float64) error
	Show() error
	Focus() error
	Close() error
}

// CursorLocator reads the pointer position in screen coordinates.
type CursorLocator interface {
	Position() (x, y float64, err error)
}

// Error reports a failed window operation.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("capture window %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Controller owns the lifecycle of the single capture window. Its methods are
// meant to be called from the UI loop.
type Controller struct {
	surface Surface
	cursor  CursorLocator
	tracker focus.Tracker
	initial Size

	mu     sync.Mutex
	exists bool
	size   Size
}

// NewController creates a controller. A zero initial size means
// DefaultWidth x DefaultHeight; a nil tracker disables focus restoration.
func NewController(surface Surface, cursor CursorLocator, tracker focus.Tracker, initial Size) *Controller {
	if initial.Width <= 0 || initial.Height <= 0 {
		initial = Size{Width: DefaultWidth, Height: DefaultHeight}
	}
	if tracker == nil {
		tracker = focus.Noop{}
	}
	return &Controller{
		surface: surface,
		cursor:  cursor,
		tracker: tracker,
		initial: initial,
		size:    initial,
	}
}

// ShowAtCursor remembers the frontmost application, then centres the window
// on the pointer, creating it if needed. Creation failures are logged only.
func (c *Controller) ShowAtCursor() {
	c.tracker.CaptureFrontmost()

	x, y := c.pointer()

	c.mu.Lock()
	defer c.mu.Unlock()

	g := Geometry{
		X:      x - c.size.Width/2,
		Y:      y - c.size.Height/2,
		Width:  c.size.Width,
		Height: c.size.Height,
	}

	if c.exists {
		if err := c.surface.SetPosition(g.X, g.Y); err != nil {
			log.Printf("Capture window: %v", &Error{Op: "position", Err: err})
		}
		if err := c.surface.Show(); err != nil {
			log.Printf("Capture window: %v", &Error{Op: "show", Err: err})
		}
		c.focusLocked()
		return
	}

	if err := c.surface.Create(Label, g, CaptureOptions); err != nil {
		log.Printf("Capture window: %v", &Error{Op: "create", Err: err})
		return
	}
	c.exists = true
	c.focusLocked()
	log.Printf("Capture window: Created at (%.0f, %.0f) %.0fx%.0f", g.X, g.Y, g.Width, g.Height)
}

// Resize changes the window size in place. It does nothing when the window
// does not exist.
func (c *Controller) Resize(width, height float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.exists {
		return nil
	}
	if width <= 0 || height <= 0 {
		return &Error{Op: "resize", Err: fmt.Errorf("invalid size %.0fx%.0f", width, height)}
	}
	if err := c.surface.SetSize(width, height); err != nil {
		return &Error{Op: "resize", Err: err}
	}
	c.size = Size{Width: width, Height: height}
	return nil
}

// Close dismisses the window if present and gives focus back to the
// application that was frontmost when it was shown.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.exists {
		if err := c.surface.Close(); err != nil {
			log.Printf("Capture window: %v", &Error{Op: "close", Err: err})
		}
		c.exists = false
		c.size = c.initial
	}
	c.mu.Unlock()

	c.tracker.RestoreFrontmost()
}

// Exists reports whether the window is currently created.
func (c *Controller) Exists() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exists
}

// Size returns the size the window has, or will be created with.
func (c *Controller) Size() Size {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// SetDefaultSize changes the size used for future creations. A visible
// window keeps its current size.
func (c *Controller) SetDefaultSize(s Size) {
	if s.Width <= 0 || s.Height <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initial = s
	if !c.exists {
		c.size = s
	}
}

func (c *Controller) pointer() (float64, float64) {
	if c.cursor == nil {
		return FallbackX, FallbackY
	}
	x, y, err := c.cursor.Position()
	if err != nil {
		log.Printf("Capture window: Could not read cursor position, using fallback: %v", err)
		return FallbackX, FallbackY
	}
	return x, y
}

func (c *Controller) focusLocked() {
	if err := c.surface.Focus(); err != nil {
		log.Printf("Capture window: %v", &Error{Op: "focus", Err: err})
	}
}
