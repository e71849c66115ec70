package shortcut

import (
	"errors"
	"testing"
)

func TestParseSuccess(t *testing.T) {
	tests := []struct {
		name     string
		spec     string
		wantMods Modifier
		wantKey  Key
		wantStr  string
	}{
		{
			name:     "default shortcut",
			spec:     "Command+Option+N",
			wantMods: Super | Alt,
			wantKey:  KeyN,
			wantStr:  "Super+Alt+N",
		},
		{
			name:     "control shift letter",
			spec:     "Control+Shift+K",
			wantMods: Control | Shift,
			wantKey:  KeyK,
			wantStr:  "Control+Shift+K",
		},
		{
			name:     "lowercase is identical",
			spec:     "control+shift+k",
			wantMods: Control | Shift,
			wantKey:  KeyK,
			wantStr:  "Control+Shift+K",
		},
		{
			name:     "short aliases",
			spec:     "cmd+ctrl+alt+shift+Z",
			wantMods: Super | Control | Alt | Shift,
			wantKey:  KeyZ,
			wantStr:  "Super+Control+Alt+Shift+Z",
		},
		{
			name:     "meta and super alias",
			spec:     "Meta+Super+1",
			wantMods: Super,
			wantKey:  Key1,
			wantStr:  "Super+1",
		},
		{
			name:     "digit zero",
			spec:     "Alt+0",
			wantMods: Alt,
			wantKey:  Key0,
			wantStr:  "Alt+0",
		},
		{
			name:     "space",
			spec:     "Ctrl+Space",
			wantMods: Control,
			wantKey:  KeySpace,
			wantStr:  "Control+Space",
		},
		{
			name:     "enter",
			spec:     "Shift+ENTER",
			wantMods: Shift,
			wantKey:  KeyEnter,
			wantStr:  "Shift+Enter",
		},
		{
			name:     "esc alias",
			spec:     "Option+esc",
			wantMods: Alt,
			wantKey:  KeyEscape,
			wantStr:  "Alt+Escape",
		},
		{
			name:     "whitespace padded",
			spec:     "  Ctrl +  A ",
			wantMods: Control,
			wantKey:  KeyA,
			wantStr:  "Control+A",
		},
		{
			name:     "key without modifiers",
			spec:     "F",
			wantMods: 0,
			wantKey:  KeyF,
			wantStr:  "F",
		},
		{
			name:     "last key token wins",
			spec:     "Ctrl+A+B",
			wantMods: Control,
			wantKey:  KeyB,
			wantStr:  "Control+B",
		},
		{
			name:     "key before modifiers",
			spec:     "M+Shift",
			wantMods: Shift,
			wantKey:  KeyM,
			wantStr:  "Shift+M",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.spec)
			if err != nil {
				t.Fatalf("Parse(%q) returned unexpected error: %v", tt.spec, err)
			}
			if got.Modifiers != tt.wantMods {
				t.Errorf("Modifiers = %04b, want %04b", got.Modifiers, tt.wantMods)
			}
			if got.Key != tt.wantKey {
				t.Errorf("Key = %v, want %v", got.Key, tt.wantKey)
			}
			if got.String() != tt.wantStr {
				t.Errorf("String() = %q, want %q", got.String(), tt.wantStr)
			}
		})
	}
}

func TestParseNoKey(t *testing.T) {
	for _, spec := range []string{"Control+Shift", "cmd", "Meta+Option"} {
		_, err := Parse(spec)
		if !errors.Is(err, ErrNoKeySpecified) {
			t.Errorf("Parse(%q) error = %v, want ErrNoKeySpecified", spec, err)
		}
		if !errors.Is(err, ErrInvalidShortcut) {
			t.Errorf("Parse(%q) error should match ErrInvalidShortcut", spec)
		}
	}
}

func TestParseUnknownKey(t *testing.T) {
	tests := []struct {
		spec      string
		wantToken string
	}{
		{spec: "Control+Foo", wantToken: "Foo"},
		{spec: "Ctrl+F12", wantToken: "F12"},
		{spec: "Ctrl+", wantToken: ""},
		{spec: "Ctrl+ Tab ", wantToken: "Tab"},
		// An unknown token fails even when a valid key follows it.
		{spec: "Ctrl+Foo+K", wantToken: "Foo"},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			_, err := Parse(tt.spec)
			var unknown *UnknownKeyError
			if !errors.As(err, &unknown) {
				t.Fatalf("Parse(%q) error = %v, want *UnknownKeyError", tt.spec, err)
			}
			if unknown.Token != tt.wantToken {
				t.Errorf("Token = %q, want %q", unknown.Token, tt.wantToken)
			}
			if !errors.Is(err, ErrInvalidShortcut) {
				t.Errorf("error should match ErrInvalidShortcut")
			}
		})
	}
}

func TestSpecHas(t *testing.T) {
	spec := Spec{Modifiers: Super | Shift, Key: KeyN}
	if !spec.Has(Super) || !spec.Has(Shift) || !spec.Has(Super|Shift) {
		t.Error("Has should report present modifiers")
	}
	if spec.Has(Control) || spec.Has(Super|Control) {
		t.Error("Has should not report absent modifiers")
	}
}
