//go:build darwin || windows

package hotkey

import (
	"golang.design/x/hotkey"

	"github.com/TanaroSch/memoir-capture/internal/shortcut"
)

// KeyMap maps parsed shortcut keys to golang.design/x/hotkey key codes.
var KeyMap = map[shortcut.Key]hotkey.Key{
	// Letters
	shortcut.KeyA: hotkey.KeyA,
	shortcut.KeyB: hotkey.KeyB,
	shortcut.KeyC: hotkey.KeyC,
	shortcut.KeyD: hotkey.KeyD,
	shortcut.KeyE: hotkey.KeyE,
	shortcut.KeyF: hotkey.KeyF,
	shortcut.KeyG: hotkey.KeyG,
	shortcut.KeyH: hotkey.KeyH,
	shortcut.KeyI: hotkey.KeyI,
	shortcut.KeyJ: hotkey.KeyJ,
	shortcut.KeyK: hotkey.KeyK,
	shortcut.KeyL: hotkey.KeyL,
	shortcut.KeyM: hotkey.KeyM,
	shortcut.KeyN: hotkey.KeyN,
	shortcut.KeyO: hotkey.KeyO,
	shortcut.KeyP: hotkey.KeyP,
	shortcut.KeyQ: hotkey.KeyQ,
	shortcut.KeyR: hotkey.KeyR,
	shortcut.KeyS: hotkey.KeyS,
	shortcut.KeyT: hotkey.KeyT,
	shortcut.KeyU: hotkey.KeyU,
	shortcut.KeyV: hotkey.KeyV,
	shortcut.KeyW: hotkey.KeyW,
	shortcut.KeyX: hotkey.KeyX,
	shortcut.KeyY: hotkey.KeyY,
	shortcut.KeyZ: hotkey.KeyZ,

	// Numbers
	shortcut.Key0: hotkey.Key0,
	shortcut.Key1: hotkey.Key1,
	shortcut.Key2: hotkey.Key2,
	shortcut.Key3: hotkey.Key3,
	shortcut.Key4: hotkey.Key4,
	shortcut.Key5: hotkey.Key5,
	shortcut.Key6: hotkey.Key6,
	shortcut.Key7: hotkey.Key7,
	shortcut.Key8: hotkey.Key8,
	shortcut.Key9: hotkey.Key9,

	// Special keys
	shortcut.KeySpace:  hotkey.KeySpace,
	shortcut.KeyEnter:  hotkey.KeyReturn,
	shortcut.KeyEscape: hotkey.KeyEscape,
}
