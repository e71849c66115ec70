//go:build !windows

package ui

import "github.com/gen2brain/beeep"

func (n *NotificationManager) platformNotify(level NotificationLevel, title, message string) error {
	// Icon path left empty on non-Windows.
	if level == LevelError {
		return beeep.Alert(title, message, "")
	}
	return beeep.Notify(title, message, "")
}
