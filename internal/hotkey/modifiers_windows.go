//go:build windows

package hotkey

import (
	"golang.design/x/hotkey"

	"github.com/TanaroSch/memoir-capture/internal/shortcut"
)

// nativeModifiers maps a parsed spec onto RegisterHotKey modifier flags.
// Super is the Windows key.
func nativeModifiers(spec shortcut.Spec) []hotkey.Modifier {
	var modifiers []hotkey.Modifier
	if spec.Has(shortcut.Super) {
		modifiers = append(modifiers, hotkey.ModWin)
	}
	if spec.Has(shortcut.Control) {
		modifiers = append(modifiers, hotkey.ModCtrl)
	}
	if spec.Has(shortcut.Alt) {
		modifiers = append(modifiers, hotkey.ModAlt)
	}
	if spec.Has(shortcut.Shift) {
		modifiers = append(modifiers, hotkey.ModShift)
	}
	return modifiers
}

func expandModifiers(modifiers []hotkey.Modifier) [][]hotkey.Modifier {
	return [][]hotkey.Modifier{modifiers}
}
