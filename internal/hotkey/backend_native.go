//go:build darwin || windows

package hotkey

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"golang.design/x/hotkey"

	"github.com/TanaroSch/memoir-capture/internal/shortcut"
)

// NativeBackend registers shortcuts through golang.design/x/hotkey.
// It supports Windows and macOS. Linux uses the X11 backend instead.
type NativeBackend struct {
	mu            sync.Mutex
	registered    []*nativeHotkey
	displayServer DisplayServer
}

// NewNativeBackend creates a backend for the detected display server.
func NewNativeBackend() *NativeBackend {
	ds := DetectDisplayServer()
	log.Printf("Native hotkey backend: Detected display server: %s", ds)
	return &NativeBackend{displayServer: ds}
}

// Name returns the name of this backend.
func (b *NativeBackend) Name() string {
	return "Native (golang.design/x/hotkey)"
}

// IsAvailable checks if this backend can be used on the current system.
func (b *NativeBackend) IsAvailable() bool {
	switch b.displayServer {
	case DisplayServerWindows, DisplayServerMacOS:
		return true
	default:
		log.Printf("Native hotkey backend: Not available on %s", b.displayServer)
		return false
	}
}

// Register grabs spec with the OS.
func (b *NativeBackend) Register(spec shortcut.Spec) (RegisteredHotkey, error) {
	modifiers, key, err := toNative(spec)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	wrapped := &nativeHotkey{
		name:      spec.String(),
		keydownCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}

	for i, mods := range expandModifiers(modifiers) {
		hk := hotkey.New(mods, key)
		if err := hk.Register(); err != nil {
			if i == 0 {
				wrapped.Close()
				return nil, fmt.Errorf("failed to register hotkey '%s': %w", spec, err)
			}
			log.Printf("Native hotkey backend: Lock-mask variant %d of '%s' not registered: %v", i, spec, err)
			continue
		}
		wrapped.hotkeys = append(wrapped.hotkeys, hk)
		wrapped.startEventConverter(hk)
	}

	b.registered = append(b.registered, wrapped)
	log.Printf("Native hotkey backend: Registered hotkey '%s' (%d grabs)", spec, len(wrapped.hotkeys))
	return wrapped, nil
}

// UnregisterAll removes all registered hotkeys.
func (b *NativeBackend) UnregisterAll() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	for _, hk := range b.registered {
		if err := hk.Close(); err != nil {
			log.Printf("Native hotkey backend: Error unregistering '%s': %v", hk.name, err)
			errs = append(errs, err)
		}
	}
	b.registered = nil
	return errors.Join(errs...)
}

// nativeHotkey adapts one or more hotkey.Hotkey grabs to RegisteredHotkey.
type nativeHotkey struct {
	name      string
	hotkeys   []*hotkey.Hotkey
	keydownCh chan struct{}
	stopCh    chan struct{}
	closeOnce sync.Once
}

func (nh *nativeHotkey) Keydown() <-chan struct{} {
	return nh.keydownCh
}

// startEventConverter forwards hotkey.Event values from hk as struct{} signals.
func (nh *nativeHotkey) startEventConverter(hk *hotkey.Hotkey) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Recovered from panic in hotkey converter (%s): %v", nh.name, r)
			}
		}()

		for {
			select {
			case <-nh.stopCh:
				return
			case <-hk.Keydown():
				select {
				case nh.keydownCh <- struct{}{}:
				case <-nh.stopCh:
					return
				default:
					// A press is already pending; coalesce.
				}
			}
		}
	}()
}

// Close stops the converters and releases every grab.
func (nh *nativeHotkey) Close() error {
	var errs []error
	nh.closeOnce.Do(func() {
		close(nh.stopCh)
		for _, hk := range nh.hotkeys {
			if err := hk.Unregister(); err != nil {
				errs = append(errs, fmt.Errorf("failed to unregister hotkey '%s': %w", nh.name, err))
			}
		}
	})
	return errors.Join(errs...)
}

func toNative(spec shortcut.Spec) ([]hotkey.Modifier, hotkey.Key, error) {
	key, ok := KeyMap[spec.Key]
	if !ok {
		return nil, 0, fmt.Errorf("unsupported key: %s", spec.Key)
	}
	return nativeModifiers(spec), key, nil
}
