//go:build windows

package focus

import (
	"errors"
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                       = windows.NewLazyDLL("user32.dll")
	procGetForegroundWindow      = user32.NewProc("GetForegroundWindow")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procSetForegroundWindow      = user32.NewProc("SetForegroundWindow")
	procIsWindow                 = user32.NewProc("IsWindow")
)

var errNoForegroundWindow = errors.New("no foreground window found")

type win32Platform struct{}

func (win32Platform) Frontmost() (Snapshot, error) {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return Snapshot{}, errNoForegroundWindow
	}

	var pid uint32
	procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&pid)))

	path, err := processImage(pid)
	if err != nil {
		return Snapshot{}, fmt.Errorf("pid %d: %w: %v", pid, ErrNoIdentifier, err)
	}
	return Snapshot{AppID: path, PID: int(pid), Handle: hwnd}, nil
}

func (win32Platform) Activate(s Snapshot) error {
	if s.Handle == 0 {
		return errNoForegroundWindow
	}
	if ok, _, _ := procIsWindow.Call(s.Handle); ok == 0 {
		return fmt.Errorf("window %#x no longer exists", s.Handle)
	}
	if ok, _, err := procSetForegroundWindow.Call(s.Handle); ok == 0 {
		return fmt.Errorf("SetForegroundWindow: %w", err)
	}
	return nil
}

func processImage(pid uint32) (string, error) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return "", err
	}
	defer windows.CloseHandle(h)

	buf := make([]uint16, windows.MAX_PATH)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return "", err
	}
	return windows.UTF16ToString(buf[:size]), nil
}

// Native returns the Win32-backed tracker. The own process is always self;
// selfID is matched against the executable path.
func Native(selfID string) Tracker {
	return NewSnapshotTracker(win32Platform{}, SelfByAppID(selfID, os.Getpid()))
}
