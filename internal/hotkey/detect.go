package hotkey

import (
	"log"
	"os"
	"runtime"
)

// DisplayServer represents the windowing system global shortcuts are grabbed from.
type DisplayServer int

const (
	DisplayServerUnknown DisplayServer = iota
	DisplayServerWindows
	DisplayServerMacOS
	DisplayServerX11
	DisplayServerWayland
)

func (ds DisplayServer) String() string {
	switch ds {
	case DisplayServerWindows:
		return "Windows"
	case DisplayServerMacOS:
		return "macOS"
	case DisplayServerX11:
		return "X11"
	case DisplayServerWayland:
		return "Wayland"
	default:
		return "Unknown"
	}
}

// getenv is swapped in tests.
var getenv = os.Getenv

// DetectDisplayServer determines which display server is currently in use.
func DetectDisplayServer() DisplayServer {
	return detectDisplayServer(runtime.GOOS)
}

func detectDisplayServer(goos string) DisplayServer {
	switch goos {
	case "windows":
		return DisplayServerWindows
	case "darwin":
		return DisplayServerMacOS
	}

	// Check Wayland first: XWayland sessions set DISPLAY as well, but
	// grabs made through it never see keys pressed in native Wayland clients.
	if getenv("WAYLAND_DISPLAY") != "" {
		return DisplayServerWayland
	}
	if getenv("DISPLAY") != "" {
		return DisplayServerX11
	}
	return DisplayServerUnknown
}

// SelectBackend chooses the backend for the current environment, or nil when
// global shortcuts cannot be grabbed here (Wayland, headless sessions).
func SelectBackend() Backend {
	backend := NewNativeBackend()
	if !backend.IsAvailable() {
		log.Printf("Warning: No global hotkey backend for %s; the capture shortcut is disabled", DetectDisplayServer())
		return nil
	}
	log.Printf("Selected hotkey backend: %s", backend.Name())
	return backend
}
