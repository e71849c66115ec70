package hotkey

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/TanaroSch/memoir-capture/internal/shortcut"
)

type fakeHandle struct {
	spec    shortcut.Spec
	keydown chan struct{}
	closed  bool
}

func (h *fakeHandle) Keydown() <-chan struct{} { return h.keydown }

func (h *fakeHandle) Close() error {
	h.closed = true
	return nil
}

type fakeBackend struct {
	mu         sync.Mutex
	active     []*fakeHandle
	all        []*fakeHandle
	rejectWith error
}

func (b *fakeBackend) Register(spec shortcut.Spec) (RegisteredHotkey, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.rejectWith != nil {
		return nil, b.rejectWith
	}
	h := &fakeHandle{spec: spec, keydown: make(chan struct{}, 1)}
	b.active = append(b.active, h)
	b.all = append(b.all, h)
	return h, nil
}

func (b *fakeBackend) UnregisterAll() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, h := range b.active {
		h.Close()
	}
	b.active = nil
	return nil
}

func (b *fakeBackend) Name() string      { return "fake" }
func (b *fakeBackend) IsAvailable() bool { return true }

func (b *fakeBackend) activeCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.active)
}

func waitFor(t *testing.T, ch <-chan string, want string) {
	t.Helper()
	select {
	case got := <-ch:
		if got != want {
			t.Fatalf("callback = %q, want %q", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for callback %q", want)
	}
}

func TestRegistryRegister(t *testing.T) {
	backend := &fakeBackend{}
	reg := NewRegistry(backend)

	fired := make(chan string, 4)
	if err := reg.Register("Command+Option+N", func() { fired <- "capture" }); err != nil {
		t.Fatalf("Register returned unexpected error: %v", err)
	}

	if got := reg.Active(); got != "Super+Alt+N" {
		t.Errorf("Active() = %q, want %q", got, "Super+Alt+N")
	}
	if n := backend.activeCount(); n != 1 {
		t.Fatalf("active bindings = %d, want 1", n)
	}
	want := shortcut.Spec{Modifiers: shortcut.Super | shortcut.Alt, Key: shortcut.KeyN}
	if backend.all[0].spec != want {
		t.Errorf("backend got spec %+v, want %+v", backend.all[0].spec, want)
	}

	backend.all[0].keydown <- struct{}{}
	waitFor(t, fired, "capture")
}

func TestRegistryReplacesPreviousBinding(t *testing.T) {
	backend := &fakeBackend{}
	reg := NewRegistry(backend)

	fired := make(chan string, 4)
	if err := reg.Register("Command+Option+N", func() { fired <- "first" }); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := reg.Register("Control+Shift+M", func() { fired <- "second" }); err != nil {
		t.Fatalf("second Register: %v", err)
	}

	if n := backend.activeCount(); n != 1 {
		t.Fatalf("active bindings = %d, want 1", n)
	}
	first, second := backend.all[0], backend.all[1]
	if !first.closed {
		t.Error("first binding should have been released")
	}
	if second.closed {
		t.Error("second binding should still be live")
	}
	if got := reg.Active(); got != "Control+Shift+M" {
		t.Errorf("Active() = %q, want %q", got, "Control+Shift+M")
	}

	// A stray press on the released grab must not reach the old callback.
	first.keydown <- struct{}{}
	second.keydown <- struct{}{}
	waitFor(t, fired, "second")

	select {
	case got := <-fired:
		t.Fatalf("unexpected extra callback %q", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRegistryInvalidSpecLeavesNoBinding(t *testing.T) {
	backend := &fakeBackend{}
	reg := NewRegistry(backend)

	if err := reg.Register("Ctrl+K", func() {}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	err := reg.Register("Control+Foo", func() {})
	var regErr *RegistrationError
	if !errors.As(err, &regErr) {
		t.Fatalf("error = %v, want *RegistrationError", err)
	}
	if regErr.Kind != InvalidSpec {
		t.Errorf("Kind = %v, want InvalidSpec", regErr.Kind)
	}
	if !errors.Is(err, shortcut.ErrInvalidShortcut) {
		t.Errorf("error should wrap the parse failure, got %v", err)
	}
	var unknown *shortcut.UnknownKeyError
	if !errors.As(err, &unknown) || unknown.Token != "Foo" {
		t.Errorf("error should identify token Foo, got %v", err)
	}

	if n := backend.activeCount(); n != 0 {
		t.Errorf("active bindings = %d, want 0", n)
	}
	if got := reg.Active(); got != "" {
		t.Errorf("Active() = %q, want empty", got)
	}
}

func TestRegistryOSRejection(t *testing.T) {
	osErr := errors.New("hotkey already registered by another application")
	backend := &fakeBackend{}
	reg := NewRegistry(backend)

	if err := reg.Register("Ctrl+K", func() {}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	backend.rejectWith = osErr
	err := reg.Register("Ctrl+J", func() {})
	var regErr *RegistrationError
	if !errors.As(err, &regErr) || regErr.Kind != OSRejected {
		t.Fatalf("error = %v, want OSRejected", err)
	}
	if !errors.Is(err, osErr) {
		t.Errorf("error should wrap the OS error")
	}
	// No silent fallback to the previous shortcut.
	if n := backend.activeCount(); n != 0 {
		t.Errorf("active bindings = %d, want 0", n)
	}
	if got := reg.Active(); got != "" {
		t.Errorf("Active() = %q, want empty", got)
	}
}

func TestRegistryWithoutBackend(t *testing.T) {
	reg := NewRegistry(nil)
	err := reg.Register("Ctrl+K", func() {})
	if !errors.Is(err, ErrBackendNotAvailable) {
		t.Fatalf("error = %v, want ErrBackendNotAvailable", err)
	}
	if err := reg.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestRegistryRequiresCallback(t *testing.T) {
	backend := &fakeBackend{}
	reg := NewRegistry(backend)
	if err := reg.Register("Ctrl+K", nil); err == nil {
		t.Fatal("expected error for nil callback")
	}
	if len(backend.all) != 0 {
		t.Error("backend should not be touched without a callback")
	}
}

func TestRegistryClose(t *testing.T) {
	backend := &fakeBackend{}
	reg := NewRegistry(backend)
	if err := reg.Register("Ctrl+K", func() {}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := reg.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if n := backend.activeCount(); n != 0 {
		t.Errorf("active bindings = %d, want 0", n)
	}
	if got := reg.Active(); got != "" {
		t.Errorf("Active() = %q, want empty", got)
	}
}

func TestRegistryCallbackPanicKeepsListening(t *testing.T) {
	backend := &fakeBackend{}
	reg := NewRegistry(backend)

	fired := make(chan string, 4)
	calls := 0
	err := reg.Register("Ctrl+K", func() {
		calls++
		if calls == 1 {
			panic("boom")
		}
		fired <- "ok"
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	h := backend.all[0]
	h.keydown <- struct{}{}
	h.keydown <- struct{}{}
	waitFor(t, fired, "ok")
}

func TestDetectDisplayServer(t *testing.T) {
	orig := getenv
	t.Cleanup(func() { getenv = orig })

	tests := []struct {
		name string
		goos string
		env  map[string]string
		want DisplayServer
	}{
		{name: "windows", goos: "windows", want: DisplayServerWindows},
		{name: "darwin", goos: "darwin", env: map[string]string{"DISPLAY": ":0"}, want: DisplayServerMacOS},
		{name: "wayland wins over xwayland", goos: "linux", env: map[string]string{"WAYLAND_DISPLAY": "wayland-0", "DISPLAY": ":0"}, want: DisplayServerWayland},
		{name: "x11", goos: "linux", env: map[string]string{"DISPLAY": ":0"}, want: DisplayServerX11},
		{name: "headless", goos: "linux", want: DisplayServerUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getenv = func(key string) string { return tt.env[key] }
			if got := detectDisplayServer(tt.goos); got != tt.want {
				t.Errorf("detectDisplayServer(%q) = %v, want %v", tt.goos, got, tt.want)
			}
		})
	}
}

func TestRegistryConcurrentRegisterLeavesOneBinding(t *testing.T) {
	backend := &fakeBackend{}
	reg := NewRegistry(backend)

	keys := "ABCDEFGHIJKLMNOPQRST"
	fired := make(chan string, len(keys))
	var wg sync.WaitGroup
	for _, k := range keys {
		k := string(k)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := reg.Register("Ctrl+"+k, func() { fired <- "Control+" + k }); err != nil {
				t.Errorf("Register(Ctrl+%s): %v", k, err)
			}
		}()
	}
	wg.Wait()

	if n := backend.activeCount(); n != 1 {
		t.Fatalf("active bindings = %d, want 1", n)
	}
	active := reg.Active()
	backend.mu.Lock()
	live := backend.active[0]
	backend.mu.Unlock()
	if live.spec.String() != active {
		t.Fatalf("Active() = %q but live grab is %q", active, live.spec)
	}

	// Only the surviving binding's callback is reachable.
	for _, h := range backend.all {
		select {
		case h.keydown <- struct{}{}:
		default:
		}
	}
	waitFor(t, fired, active)
	select {
	case got := <-fired:
		t.Fatalf("released binding fired %q", got)
	case <-time.After(50 * time.Millisecond):
	}
}
