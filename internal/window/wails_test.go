package window

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

func restoreRuntimeHooks() {
	runtimeWindowShowFn = runtime.WindowShow
	runtimeWindowHideFn = runtime.WindowHide
	runtimeWindowSetPositionFn = runtime.WindowSetPosition
	runtimeWindowSetSizeFn = runtime.WindowSetSize
	runtimeWindowSetAlwaysOnTopFn = runtime.WindowSetAlwaysOnTop
	runtimeWindowUnminimiseFn = runtime.WindowUnminimise
	runtimeEventsEmitFn = runtime.EventsEmit
}

func TestWailsSurfaceRequiresContext(t *testing.T) {
	s := NewWailsSurface(nil)
	if err := s.Show(); !errors.Is(err, errNotStarted) {
		t.Fatalf("Show() error = %v, want errNotStarted", err)
	}

	c := NewController(s, nil, nil, Size{})
	c.ShowAtCursor()
	if c.Exists() {
		t.Error("window should not exist before the runtime starts")
	}
}

func TestWailsSurfaceCreate(t *testing.T) {
	t.Cleanup(restoreRuntimeHooks)

	var calls []string
	var size, pos [2]int
	var onTop bool
	runtimeWindowSetSizeFn = func(_ context.Context, w, h int) {
		calls = append(calls, "size")
		size = [2]int{w, h}
	}
	runtimeWindowSetPositionFn = func(_ context.Context, x, y int) {
		calls = append(calls, "position")
		pos = [2]int{x, y}
	}
	runtimeWindowSetAlwaysOnTopFn = func(_ context.Context, b bool) { onTop = b }
	runtimeWindowShowFn = func(context.Context) { calls = append(calls, "show") }
	runtimeWindowHideFn = func(context.Context) { calls = append(calls, "hide") }
	runtimeEventsEmitFn = func(_ context.Context, name string, _ ...interface{}) {
		calls = append(calls, name)
	}

	s := NewWailsSurface(nil)
	s.Attach(context.Background())

	if err := s.Create(Label, Geometry{X: 289.6, Y: 267.2, Width: 420, Height: 66}, CaptureOptions); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if size != [2]int{420, 66} {
		t.Errorf("size = %v, want [420 66]", size)
	}
	if pos != [2]int{290, 267} {
		t.Errorf("position = %v, want [290 267]", pos)
	}
	if !onTop {
		t.Error("capture window should be always on top")
	}
	if calls[len(calls)-1] != "show" {
		t.Errorf("calls = %v, want show last", calls)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if calls[len(calls)-1] != "hide" {
		t.Errorf("Close should hide the window, calls = %v", calls)
	}
}

// screens models two monitors side by side: a 1440x900 primary with a 25pt
// menu bar and a secondary to its right whose work area starts below a
// 40px top taskbar.
type screens struct {
	queried [][2]float64
	err     error
}

func (s *screens) WorkAreaOrigin(x, y float64) (float64, float64, error) {
	s.queried = append(s.queried, [2]float64{x, y})
	if s.err != nil {
		return 0, 0, s.err
	}
	if x >= 1440 {
		return 1440, 40, nil
	}
	return 0, 25, nil
}

func TestWailsSurfacePositionsRelativeToWorkArea(t *testing.T) {
	t.Cleanup(restoreRuntimeHooks)

	var pos [2]int
	runtimeWindowSetSizeFn = func(context.Context, int, int) {}
	runtimeWindowSetPositionFn = func(_ context.Context, x, y int) { pos = [2]int{x, y} }
	runtimeWindowSetAlwaysOnTopFn = func(context.Context, bool) {}
	runtimeWindowShowFn = func(context.Context) {}
	runtimeWindowUnminimiseFn = func(context.Context) {}
	runtimeEventsEmitFn = func(context.Context, string, ...interface{}) {}

	tests := []struct {
		name   string
		cursor [2]float64
		want   [2]int
	}{
		// (500,300) centres a 420x66 window at screen (290,267); the work
		// area starts 25pt lower.
		{name: "primary below menu bar", cursor: [2]float64{500, 300}, want: [2]int{290, 242}},
		{name: "secondary monitor", cursor: [2]float64{2000, 500}, want: [2]int{2000 - 210 - 1440, 467 - 40}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scr := &screens{}
			s := NewWailsSurface(scr)
			s.Attach(context.Background())
			c := NewController(s, &fakeCursor{x: tt.cursor[0], y: tt.cursor[1]}, nil, Size{Width: 420, Height: 66})

			c.ShowAtCursor()
			if pos != tt.want {
				t.Errorf("created at %v, want %v", pos, tt.want)
			}
			if len(scr.queried) == 0 || scr.queried[0] != tt.cursor {
				t.Errorf("work area looked up at %v, want window centre %v", scr.queried, tt.cursor)
			}

			// Reuse goes through SetPosition and converts the same way.
			c.ShowAtCursor()
			if pos != tt.want {
				t.Errorf("repositioned to %v, want %v", pos, tt.want)
			}
		})
	}
}

func TestWailsSurfaceWorkAreaFallback(t *testing.T) {
	t.Cleanup(restoreRuntimeHooks)

	var pos [2]int
	runtimeWindowSetPositionFn = func(_ context.Context, x, y int) { pos = [2]int{x, y} }

	for _, err := range []error{errors.ErrUnsupported, fmt.Errorf("GetMonitorInfoW: %w", errors.New("access denied"))} {
		s := NewWailsSurface(&screens{err: err})
		s.Attach(context.Background())
		if e := s.SetPosition(290, 267); e != nil {
			t.Fatalf("SetPosition: %v", e)
		}
		if pos != [2]int{290, 267} {
			t.Errorf("with lookup error %v: position = %v, want screen coordinates [290 267]", err, pos)
		}
	}
}
