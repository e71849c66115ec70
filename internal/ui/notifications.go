package ui

import (
	"log"
	"sync"
	"sync/atomic"
)

// NotificationLevel orders notifications by importance.
type NotificationLevel int

const (
	LevelInfo NotificationLevel = iota
	LevelWarn
	LevelError
)

func (l NotificationLevel) String() string {
	switch l {
	case LevelWarn:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// NotificationManager shows desktop notifications. Info notifications follow
// the user's setting; warnings and errors are always shown.
type NotificationManager struct {
	enabled      atomic.Bool
	appName      string
	embeddedIcon []byte

	// notify is platformNotify outside tests.
	notify func(n *NotificationManager, level NotificationLevel, title, message string) error
}

// NewNotificationManager creates a notification manager.
func NewNotificationManager(useNotifications bool, appName string, embeddedIcon []byte) *NotificationManager {
	n := &NotificationManager{
		appName:      appName,
		embeddedIcon: embeddedIcon,
		notify:       (*NotificationManager).platformNotify,
	}
	n.enabled.Store(useNotifications)
	return n
}

// SetEnabled toggles info notifications.
func (n *NotificationManager) SetEnabled(enabled bool) {
	n.enabled.Store(enabled)
}

// Show displays a notification at the given level.
func (n *NotificationManager) Show(level NotificationLevel, title, message string) {
	if level == LevelInfo && !n.enabled.Load() {
		log.Printf("Notification suppressed (disabled): %s - %s", title, message)
		return
	}
	if err := n.notify(n, level, title, message); err != nil {
		log.Printf("Error showing %s notification '%s': %v", level, title, err)
	}
}

var (
	globalMu      sync.RWMutex
	globalManager *NotificationManager
)

// InitGlobalNotifications installs the manager used by ShowAdminNotification.
func InitGlobalNotifications(useNotifications bool, appName string, embeddedIcon []byte) *NotificationManager {
	n := NewNotificationManager(useNotifications, appName, embeddedIcon)
	globalMu.Lock()
	globalManager = n
	globalMu.Unlock()
	return n
}

// ShowAdminNotification shows a notification through the global manager.
func ShowAdminNotification(level NotificationLevel, title, message string) {
	globalMu.RLock()
	n := globalManager
	globalMu.RUnlock()
	if n == nil {
		log.Printf("Notification not shown (manager not initialized): %s - %s", title, message)
		return
	}
	n.Show(level, title, message)
}
