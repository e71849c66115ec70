//go:build linux

package hotkey

import (
	"errors"
	"testing"

	"github.com/jezek/xgb/xproto"

	"github.com/TanaroSch/memoir-capture/internal/shortcut"
)

func TestX11BackendUnavailableWithoutX(t *testing.T) {
	for _, ds := range []DisplayServer{DisplayServerWayland, DisplayServerUnknown} {
		b := &NativeBackend{displayServer: ds, grabs: make(map[grabID]*x11Hotkey)}
		if b.IsAvailable() {
			t.Errorf("%s: IsAvailable() = true, want false", ds)
		}
		_, err := b.Register(shortcut.Spec{Modifiers: shortcut.Control, Key: shortcut.KeyK})
		if !errors.Is(err, ErrBackendNotAvailable) {
			t.Errorf("%s: Register error = %v, want ErrBackendNotAvailable", ds, err)
		}
	}
}

func TestX11Modifiers(t *testing.T) {
	tests := []struct {
		mods shortcut.Modifier
		want uint16
	}{
		{shortcut.Super | shortcut.Alt, xproto.ModMask4 | xproto.ModMask1},
		{shortcut.Control | shortcut.Shift, xproto.ModMaskControl | xproto.ModMaskShift},
		{0, 0},
	}
	for _, tt := range tests {
		got := x11Modifiers(shortcut.Spec{Modifiers: tt.mods, Key: shortcut.KeyN})
		if got != tt.want {
			t.Errorf("x11Modifiers(%v) = %#x, want %#x", tt.mods, got, tt.want)
		}
	}
}

func TestKeysymFor(t *testing.T) {
	tests := []struct {
		key  shortcut.Key
		want xproto.Keysym
	}{
		{shortcut.KeyA, 'a'},
		{shortcut.KeyN, 'n'},
		{shortcut.KeyZ, 'z'},
		{shortcut.Key0, '0'},
		{shortcut.Key9, '9'},
		{shortcut.KeySpace, 0x20},
		{shortcut.KeyEnter, 0xff0d},
		{shortcut.KeyEscape, 0xff1b},
	}
	for _, tt := range tests {
		got, ok := keysymFor(tt.key)
		if !ok || got != tt.want {
			t.Errorf("keysymFor(%v) = %#x, %v; want %#x", tt.key, got, ok, tt.want)
		}
	}
	if _, ok := keysymFor(shortcut.KeyNone); ok {
		t.Error("keysymFor(KeyNone) should fail")
	}
}

func TestKeycodeTable(t *testing.T) {
	// Two keysyms per keycode starting at keycode 8: 8 -> a/A, 9 -> b/B, 10 -> a.
	syms := []xproto.Keysym{'a', 'A', 'b', 'B', 'a', 0}
	table := keycodeTable(8, 2, syms)

	if got := table['a']; got != 8 {
		t.Errorf("keycode for 'a' = %d, want 8 (first wins)", got)
	}
	if got := table['B']; got != 9 {
		t.Errorf("keycode for 'B' = %d, want 9", got)
	}
	if _, ok := table[0]; ok {
		t.Error("NoSymbol must not be mapped")
	}
	if len(keycodeTable(8, 0, syms)) != 0 {
		t.Error("zero keysyms per keycode should give an empty table")
	}
}

func TestX11DispatchIgnoresLocks(t *testing.T) {
	b := &NativeBackend{displayServer: DisplayServerX11, grabs: make(map[grabID]*x11Hotkey)}
	mods := x11Modifiers(shortcut.Spec{Modifiers: shortcut.Super | shortcut.Alt, Key: shortcut.KeyN})
	id := grabID{keycode: 57, mods: mods}
	h := &x11Hotkey{backend: b, id: id, name: "Super+Alt+N", keydownCh: make(chan struct{}, 1)}
	b.grabs[id] = h

	variants := lockVariants(mods)
	if len(variants) != 4 {
		t.Fatalf("lockVariants returned %d variants, want 4", len(variants))
	}
	for _, state := range variants {
		// Button1 held while pressing must not matter either.
		b.dispatch(pressID(57, state|xproto.KeyButMaskButton1))
		select {
		case <-h.Keydown():
		default:
			t.Errorf("press with state %#x did not reach the handle", state)
		}
	}

	// Missing modifier: not our grab.
	b.dispatch(pressID(57, xproto.ModMask4))
	select {
	case <-h.Keydown():
		t.Error("press without Alt should not fire")
	default:
	}

	// Presses coalesce while one is pending.
	b.dispatch(pressID(57, mods))
	b.dispatch(pressID(57, mods))
	<-h.Keydown()
	select {
	case <-h.Keydown():
		t.Error("second press should have been coalesced")
	default:
	}

	if err := h.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	b.dispatch(pressID(57, mods))
	select {
	case <-h.Keydown():
		t.Error("closed handle should not be signalled")
	default:
	}
}
