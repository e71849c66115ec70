package shortcut

import (
	"errors"
	"fmt"
	"strings"
)

// Modifier is a bit set of the modifier keys a shortcut requires.
type Modifier uint8

const (
	Super Modifier = 1 << iota // Command on macOS, Windows key elsewhere
	Control
	Alt // Option on macOS
	Shift
)

// Key identifies the single non-modifier key of a shortcut.
type Key int

const (
	KeyNone Key = iota
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeySpace
	KeyEnter
	KeyEscape
)

// ErrInvalidShortcut is matched by every parse failure.
var ErrInvalidShortcut = errors.New("invalid shortcut")

// ErrNoKeySpecified is returned when a shortcut only names modifiers.
var ErrNoKeySpecified = fmt.Errorf("%w: no key specified in shortcut", ErrInvalidShortcut)

// UnknownKeyError reports a non-modifier token that is not a known key.
type UnknownKeyError struct {
	Token string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown key: %s", e.Token)
}

// Is lets errors.Is(err, ErrInvalidShortcut) match unknown keys too.
func (e *UnknownKeyError) Is(target error) bool {
	return target == ErrInvalidShortcut
}

// Spec is a parsed shortcut: a set of modifiers plus exactly one key.
type Spec struct {
	Modifiers Modifier
	Key       Key
}

// Has reports whether every modifier in m is part of the spec.
func (s Spec) Has(m Modifier) bool {
	return s.Modifiers&m == m
}

// String renders the canonical form, e.g. "Super+Alt+N".
func (s Spec) String() string {
	var parts []string
	for _, m := range modifierOrder {
		if s.Has(m.mod) {
			parts = append(parts, m.name)
		}
	}
	parts = append(parts, s.Key.String())
	return strings.Join(parts, "+")
}

var modifierOrder = []struct {
	mod  Modifier
	name string
}{
	{Super, "Super"},
	{Control, "Control"},
	{Alt, "Alt"},
	{Shift, "Shift"},
}

var modifierAliases = map[string]Modifier{
	"command": Super,
	"cmd":     Super,
	"super":   Super,
	"meta":    Super,
	"control": Control,
	"ctrl":    Control,
	"alt":     Alt,
	"option":  Alt,
	"shift":   Shift,
}

var namedKeys = map[string]Key{
	"SPACE":  KeySpace,
	"ENTER":  KeyEnter,
	"ESCAPE": KeyEscape,
	"ESC":    KeyEscape,
}

// Parse converts a human readable shortcut such as "Command+Option+N" into a
// Spec. Tokens are separated by '+', surrounding whitespace is ignored and
// matching is case-insensitive. When several key tokens are present the last
// one wins.
func Parse(s string) (Spec, error) {
	var spec Spec
	for _, part := range strings.Split(s, "+") {
		token := strings.TrimSpace(part)
		if mod, ok := modifierAliases[strings.ToLower(token)]; ok {
			spec.Modifiers |= mod
			continue
		}
		key, err := parseKey(token)
		if err != nil {
			return Spec{}, err
		}
		spec.Key = key
	}

	if spec.Key == KeyNone {
		return Spec{}, ErrNoKeySpecified
	}
	return spec, nil
}

func parseKey(token string) (Key, error) {
	upper := strings.ToUpper(token)
	if len(upper) == 1 {
		switch ch := upper[0]; {
		case ch >= 'A' && ch <= 'Z':
			return KeyA + Key(ch-'A'), nil
		case ch >= '0' && ch <= '9':
			return Key0 + Key(ch-'0'), nil
		}
	}
	if key, ok := namedKeys[upper]; ok {
		return key, nil
	}
	return KeyNone, &UnknownKeyError{Token: token}
}

func (k Key) String() string {
	switch {
	case k >= KeyA && k <= KeyZ:
		return string(rune('A' + int(k-KeyA)))
	case k >= Key0 && k <= Key9:
		return string(rune('0' + int(k-Key0)))
	case k == KeySpace:
		return "Space"
	case k == KeyEnter:
		return "Enter"
	case k == KeyEscape:
		return "Escape"
	default:
		return "None"
	}
}
