package window

import (
	"context"
	"errors"
	"log"
	"math"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// Events emitted to the frontend.
const (
	EventFocusInput = "quick-capture:focus"
	EventReset      = "quick-capture:reset"
)

var errNotStarted = errors.New("wails runtime not started")

var (
	runtimeWindowShowFn           = runtime.WindowShow
	runtimeWindowHideFn           = runtime.WindowHide
	runtimeWindowSetPositionFn    = runtime.WindowSetPosition
	runtimeWindowSetSizeFn        = runtime.WindowSetSize
	runtimeWindowSetAlwaysOnTopFn = runtime.WindowSetAlwaysOnTop
	runtimeWindowUnminimiseFn     = runtime.WindowUnminimise
	runtimeEventsEmitFn           = runtime.EventsEmit
)

// WorkAreaLocator returns the top-left corner of the work area (the screen
// minus menu bar, dock or taskbar) of the monitor containing a screen point.
type WorkAreaLocator interface {
	WorkAreaOrigin(x, y float64) (left, top float64, err error)
}

// WailsSurface drives the single Wails window, which the application starts
// hidden. Creating shows it with the requested geometry; closing hides it.
// Chrome such as Frameless is fixed when the Wails app starts, from
// CaptureOptions.
//
// Geometry arrives in screen coordinates while Wails positions the window
// relative to the monitor work area, so positions are shifted by the work
// area origin before they reach the runtime.
type WailsSurface struct {
	workArea WorkAreaLocator

	mu   sync.Mutex
	ctx  context.Context
	size Size
}

// NewWailsSurface returns a surface that is usable once Attach is called.
// A nil workArea passes screen coordinates through unchanged.
func NewWailsSurface(workArea WorkAreaLocator) *WailsSurface {
	return &WailsSurface{workArea: workArea}
}

// Attach hands the surface the context Wails passes to OnStartup.
func (s *WailsSurface) Attach(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()
}

func (s *WailsSurface) context() (context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return nil, errNotStarted
	}
	return s.ctx, nil
}

func (s *WailsSurface) Create(_ string, g Geometry, opts Options) error {
	ctx, err := s.context()
	if err != nil {
		return err
	}
	s.setSize(Size{Width: g.Width, Height: g.Height})
	runtimeWindowSetSizeFn(ctx, px(g.Width), px(g.Height))
	x, y := s.toWorkArea(g.X, g.Y)
	runtimeWindowSetPositionFn(ctx, px(x), px(y))
	runtimeWindowSetAlwaysOnTopFn(ctx, opts.AlwaysOnTop)
	runtimeEventsEmitFn(ctx, EventReset)
	runtimeWindowShowFn(ctx)
	return nil
}

func (s *WailsSurface) SetPosition(x, y float64) error {
	ctx, err := s.context()
	if err != nil {
		return err
	}
	x, y = s.toWorkArea(x, y)
	runtimeWindowSetPositionFn(ctx, px(x), px(y))
	return nil
}

func (s *WailsSurface) SetSize(width, height float64) error {
	ctx, err := s.context()
	if err != nil {
		return err
	}
	s.setSize(Size{Width: width, Height: height})
	runtimeWindowSetSizeFn(ctx, px(width), px(height))
	return nil
}

func (s *WailsSurface) Show() error {
	ctx, err := s.context()
	if err != nil {
		return err
	}
	runtimeWindowUnminimiseFn(ctx)
	runtimeWindowShowFn(ctx)
	return nil
}

// Focus asks the frontend to focus its input; Wails v2 has no separate
// window focus call and Show already raises the window.
func (s *WailsSurface) Focus() error {
	ctx, err := s.context()
	if err != nil {
		return err
	}
	runtimeEventsEmitFn(ctx, EventFocusInput)
	return nil
}

func (s *WailsSurface) Close() error {
	ctx, err := s.context()
	if err != nil {
		return err
	}
	runtimeWindowHideFn(ctx)
	return nil
}

func (s *WailsSurface) setSize(size Size) {
	s.mu.Lock()
	s.size = size
	s.mu.Unlock()
}

// toWorkArea converts a screen-space top-left corner into the coordinates
// WindowSetPosition expects. The monitor is the one under the window centre.
func (s *WailsSurface) toWorkArea(x, y float64) (float64, float64) {
	if s.workArea == nil {
		return x, y
	}
	s.mu.Lock()
	size := s.size
	s.mu.Unlock()

	left, top, err := s.workArea.WorkAreaOrigin(x+size.Width/2, y+size.Height/2)
	if err != nil {
		if !errors.Is(err, errors.ErrUnsupported) {
			log.Printf("Capture window: work area lookup failed, using screen coordinates: %v", err)
		}
		return x, y
	}
	return x - left, y - top
}

func px(v float64) int {
	return int(math.Round(v))
}
