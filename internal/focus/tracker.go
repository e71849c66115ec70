// Package focus remembers which application was frontmost before the capture
// window appeared, so that it can be handed focus again afterwards.
package focus

import (
	"errors"
	"log"
	"sync"
)

// ErrNoIdentifier is returned by a Platform when the frontmost application
// cannot be identified. Such an application is never recorded.
var ErrNoIdentifier = errors.New("frontmost application has no identifier")

// Snapshot identifies a running application.
type Snapshot struct {
	// AppID is the bundle identifier on macOS and the executable path on Windows.
	AppID string
	PID   int
	// Handle is the native window handle when the platform has one (HWND).
	Handle uintptr
}

// Tracker captures and later restores the frontmost application.
// Neither method reports errors; failures are logged and absorbed.
type Tracker interface {
	CaptureFrontmost()
	RestoreFrontmost()
}

// Platform is the OS surface a SnapshotTracker drives.
type Platform interface {
	Frontmost() (Snapshot, error)
	Activate(Snapshot) error
}

// SnapshotTracker holds at most one snapshot. Restoring consumes it.
type SnapshotTracker struct {
	platform Platform
	isSelf   func(Snapshot) bool

	mu       sync.Mutex
	snapshot *Snapshot
}

// NewSnapshotTracker creates a tracker that never records an application for
// which isSelf reports true. A nil isSelf treats nothing as self.
func NewSnapshotTracker(platform Platform, isSelf func(Snapshot) bool) *SnapshotTracker {
	if isSelf == nil {
		isSelf = func(Snapshot) bool { return false }
	}
	return &SnapshotTracker{platform: platform, isSelf: isSelf}
}

// SelfByAppID returns an identity check matching appID, or pid when non-zero.
func SelfByAppID(appID string, pid int) func(Snapshot) bool {
	return func(s Snapshot) bool {
		if appID != "" && s.AppID == appID {
			return true
		}
		return pid != 0 && s.PID == pid
	}
}

func (t *SnapshotTracker) CaptureFrontmost() {
	snap, err := t.platform.Frontmost()
	if err != nil {
		log.Printf("Focus tracker: Could not query frontmost application: %v", err)
		return
	}
	if snap.AppID == "" {
		log.Printf("Focus tracker: Ignoring frontmost pid %d: %v", snap.PID, ErrNoIdentifier)
		return
	}
	if t.isSelf(snap) {
		return
	}

	t.mu.Lock()
	t.snapshot = &snap
	t.mu.Unlock()
}

func (t *SnapshotTracker) RestoreFrontmost() {
	t.mu.Lock()
	snap := t.snapshot
	t.snapshot = nil
	t.mu.Unlock()

	if snap == nil || t.isSelf(*snap) {
		return
	}
	if err := t.platform.Activate(*snap); err != nil {
		log.Printf("Focus tracker: Could not reactivate %s (pid %d): %v", snap.AppID, snap.PID, err)
	}
}

// Pending reports the snapshot waiting to be restored, if any.
func (t *SnapshotTracker) Pending() (Snapshot, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.snapshot == nil {
		return Snapshot{}, false
	}
	return *t.snapshot, true
}

// Noop is the tracker for platforms without a frontmost-application API.
type Noop struct{}

func (Noop) CaptureFrontmost() {}
func (Noop) RestoreFrontmost() {}
