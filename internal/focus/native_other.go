//go:build !darwin && !windows

package focus

import "log"

// Native returns Noop; there is no portable frontmost-application API here.
func Native(selfID string) Tracker {
	log.Println("Focus tracker: Not supported on this platform, focus restoration disabled")
	return Noop{}
}
