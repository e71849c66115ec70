//go:build linux

package hotkey

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/TanaroSch/memoir-capture/internal/shortcut"
)

const (
	// shortcutMods are the modifier bits a shortcut can name.
	shortcutMods = xproto.ModMaskShift | xproto.ModMaskControl | xproto.ModMask1 | xproto.ModMask4
	// NumLock is usually bound to Mod2.
	numLockMask = xproto.ModMask2
)

// NativeBackend grabs shortcuts on the X11 root window over a pure Go X
// connection. Failing to reach the X server is reported as unavailability;
// Wayland and headless sessions get no backend.
type NativeBackend struct {
	mu            sync.Mutex
	displayServer DisplayServer
	conn          *xgb.Conn
	root          xproto.Window
	keycodes      map[xproto.Keysym]xproto.Keycode
	grabs         map[grabID]*x11Hotkey
}

// grabID identifies a grab by keycode and the modifiers the user named.
type grabID struct {
	keycode xproto.Keycode
	mods    uint16
}

// NewNativeBackend creates a backend for the detected display server. The
// X connection is opened on first use.
func NewNativeBackend() *NativeBackend {
	ds := DetectDisplayServer()
	log.Printf("X11 hotkey backend: Detected display server: %s", ds)
	return &NativeBackend{displayServer: ds, grabs: make(map[grabID]*x11Hotkey)}
}

// Name returns the name of this backend.
func (b *NativeBackend) Name() string {
	return "X11 (XGrabKey)"
}

// IsAvailable reports whether an X server is reachable.
func (b *NativeBackend) IsAvailable() bool {
	if b.displayServer != DisplayServerX11 {
		log.Printf("X11 hotkey backend: Not available on %s", b.displayServer)
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.connectLocked(); err != nil {
		log.Printf("X11 hotkey backend: %v", err)
		return false
	}
	return true
}

func (b *NativeBackend) connectLocked() error {
	if b.conn != nil {
		return nil
	}
	conn, err := xgb.NewConn()
	if err != nil {
		return fmt.Errorf("connect to X server: %w", err)
	}
	setup := xproto.Setup(conn)
	count := int(setup.MaxKeycode) - int(setup.MinKeycode) + 1
	if count > 255 {
		count = 255
	}
	mapping, err := xproto.GetKeyboardMapping(conn, setup.MinKeycode, byte(count)).Reply()
	if err != nil {
		conn.Close()
		return fmt.Errorf("read keyboard mapping: %w", err)
	}

	b.conn = conn
	b.root = setup.DefaultScreen(conn).Root
	b.keycodes = keycodeTable(setup.MinKeycode, mapping.KeysymsPerKeycode, mapping.Keysyms)
	go b.eventLoop(conn)
	return nil
}

// Register grabs spec on the root window. The grab is repeated for the
// NumLock and CapsLock states since XGrabKey matches modifier state exactly;
// all variants feed the same Keydown channel.
func (b *NativeBackend) Register(spec shortcut.Spec) (RegisteredHotkey, error) {
	if b.displayServer != DisplayServerX11 {
		return nil, ErrBackendNotAvailable
	}
	sym, ok := keysymFor(spec.Key)
	if !ok {
		return nil, fmt.Errorf("unsupported key: %s", spec.Key)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.connectLocked(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendNotAvailable, err)
	}
	code, ok := b.keycodes[sym]
	if !ok {
		return nil, fmt.Errorf("key %s is not on the current keyboard layout", spec.Key)
	}
	id := grabID{keycode: code, mods: x11Modifiers(spec)}
	if _, taken := b.grabs[id]; taken {
		return nil, fmt.Errorf("hotkey '%s' already registered", spec)
	}

	h := &x11Hotkey{backend: b, id: id, name: spec.String(), keydownCh: make(chan struct{}, 1)}
	for i, mods := range lockVariants(id.mods) {
		err := xproto.GrabKeyChecked(b.conn, true, b.root, mods, code,
			xproto.GrabModeAsync, xproto.GrabModeAsync).Check()
		if err != nil {
			if i == 0 {
				return nil, fmt.Errorf("failed to register hotkey '%s': %w", spec, err)
			}
			log.Printf("X11 hotkey backend: Lock-mask variant %d of '%s' not registered: %v", i, spec, err)
			continue
		}
		h.variants = append(h.variants, mods)
	}
	b.grabs[id] = h

	log.Printf("X11 hotkey backend: Registered hotkey '%s' (%d grabs)", spec, len(h.variants))
	return h, nil
}

// UnregisterAll releases every grab. The X connection stays open for the
// next registration.
func (b *NativeBackend) UnregisterAll() error {
	b.mu.Lock()
	handles := make([]*x11Hotkey, 0, len(b.grabs))
	for _, h := range b.grabs {
		handles = append(handles, h)
	}
	b.mu.Unlock()

	var errs []error
	for _, h := range handles {
		if err := h.Close(); err != nil {
			log.Printf("X11 hotkey backend: Error unregistering '%s': %v", h.name, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *NativeBackend) eventLoop(conn *xgb.Conn) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic in X11 event loop: %v", r)
		}
	}()
	for {
		ev, xerr := conn.WaitForEvent()
		if ev == nil && xerr == nil {
			log.Println("X11 hotkey backend: Connection closed")
			return
		}
		if xerr != nil {
			log.Printf("X11 hotkey backend: X error: %v", xerr)
			continue
		}
		if press, ok := ev.(xproto.KeyPressEvent); ok {
			b.dispatch(pressID(press.Detail, press.State))
		}
	}
}

// dispatch signals the handle owning id. Presses queue at most one pending
// signal per handle.
func (b *NativeBackend) dispatch(id grabID) {
	b.mu.Lock()
	h := b.grabs[id]
	b.mu.Unlock()
	if h == nil {
		return
	}
	select {
	case h.keydownCh <- struct{}{}:
	default:
	}
}

func (b *NativeBackend) release(h *x11Hotkey) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.grabs[h.id] == h {
		delete(b.grabs, h.id)
	}
	if b.conn == nil {
		return nil
	}
	var errs []error
	for _, mods := range h.variants {
		if err := xproto.UngrabKeyChecked(b.conn, h.id.keycode, b.root, mods).Check(); err != nil {
			errs = append(errs, fmt.Errorf("failed to unregister hotkey '%s': %w", h.name, err))
		}
	}
	return errors.Join(errs...)
}

// x11Hotkey is one shortcut and its lock-mask variants.
type x11Hotkey struct {
	backend   *NativeBackend
	id        grabID
	name      string
	variants  []uint16
	keydownCh chan struct{}
	closeOnce sync.Once
}

func (h *x11Hotkey) Keydown() <-chan struct{} {
	return h.keydownCh
}

func (h *x11Hotkey) Close() error {
	var err error
	h.closeOnce.Do(func() {
		err = h.backend.release(h)
	})
	return err
}

// pressID maps a KeyPress to the grab it belongs to, ignoring lock and
// pointer-button state.
func pressID(detail xproto.Keycode, state uint16) grabID {
	return grabID{keycode: detail, mods: state & shortcutMods}
}

// x11Modifiers maps a parsed spec onto X11 modifier masks.
// Alt is Mod1 and Super is Mod4 on virtually every keyboard mapping.
func x11Modifiers(spec shortcut.Spec) uint16 {
	var mods uint16
	if spec.Has(shortcut.Super) {
		mods |= xproto.ModMask4
	}
	if spec.Has(shortcut.Control) {
		mods |= xproto.ModMaskControl
	}
	if spec.Has(shortcut.Alt) {
		mods |= xproto.ModMask1
	}
	if spec.Has(shortcut.Shift) {
		mods |= xproto.ModMaskShift
	}
	return mods
}

// lockVariants returns mods followed by its NumLock, CapsLock and
// NumLock+CapsLock variants.
func lockVariants(mods uint16) []uint16 {
	return []uint16{
		mods,
		mods | numLockMask,
		mods | xproto.ModMaskLock,
		mods | numLockMask | xproto.ModMaskLock,
	}
}

// keysymFor returns the unshifted X keysym of k.
func keysymFor(k shortcut.Key) (xproto.Keysym, bool) {
	switch {
	case k >= shortcut.KeyA && k <= shortcut.KeyZ:
		return xproto.Keysym('a' + int(k-shortcut.KeyA)), true
	case k >= shortcut.Key0 && k <= shortcut.Key9:
		return xproto.Keysym('0' + int(k-shortcut.Key0)), true
	}
	switch k {
	case shortcut.KeySpace:
		return 0x0020, true
	case shortcut.KeyEnter:
		return 0xff0d, true // XK_Return
	case shortcut.KeyEscape:
		return 0xff1b, true
	}
	return 0, false
}

// keycodeTable inverts a GetKeyboardMapping reply. The first keycode that
// produces a keysym wins.
func keycodeTable(first xproto.Keycode, perKeycode byte, syms []xproto.Keysym) map[xproto.Keysym]xproto.Keycode {
	table := make(map[xproto.Keysym]xproto.Keycode)
	if perKeycode == 0 {
		return table
	}
	for i, sym := range syms {
		if sym == 0 {
			continue
		}
		code := xproto.Keycode(int(first) + i/int(perKeycode))
		if _, seen := table[sym]; !seen {
			table[sym] = code
		}
	}
	return table
}
