//go:build !darwin && !windows && !linux

package hotkey

import "github.com/TanaroSch/memoir-capture/internal/shortcut"

// NativeBackend is unavailable on this OS.
type NativeBackend struct{}

// NewNativeBackend returns a backend that reports itself unavailable.
func NewNativeBackend() *NativeBackend {
	return &NativeBackend{}
}

func (b *NativeBackend) Name() string { return "Native (unsupported OS)" }

func (b *NativeBackend) IsAvailable() bool { return false }

func (b *NativeBackend) Register(spec shortcut.Spec) (RegisteredHotkey, error) {
	return nil, ErrBackendNotAvailable
}

func (b *NativeBackend) UnregisterAll() error { return nil }
