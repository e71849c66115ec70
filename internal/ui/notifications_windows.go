//go:build windows

package ui

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-toast/toast"
)

var (
	toastIconOnce sync.Once
	toastIconPath string
)

func (n *NotificationManager) platformNotify(level NotificationLevel, title, message string) error {
	toastIconOnce.Do(func() {
		path, err := cacheToastIcon(n.embeddedIcon)
		if err != nil {
			log.Printf("Notifications: toast icon unavailable: %v", err)
			return
		}
		toastIconPath = path
	})

	notification := toast.Notification{
		AppID:   n.appName,
		Title:   title,
		Message: message,
		Icon:    toastIconPath,
		Audio:   toast.Default,
	}
	switch level {
	case LevelError:
		notification.Audio = toast.IM
		notification.Duration = toast.Long
	case LevelInfo:
		notification.Audio = toast.Silent
	}

	if err := notification.Push(); err != nil {
		if strings.Contains(err.Error(), "notification platform is unavailable") {
			return fmt.Errorf("toast notifications disabled in Windows Settings: %w", err)
		}
		return err
	}
	return nil
}

// cacheToastIcon stores the icon under the user cache dir, since toast only
// accepts a file path. The file is rewritten only when its content differs.
func cacheToastIcon(icon []byte) (string, error) {
	if len(icon) == 0 {
		return "", fmt.Errorf("no embedded icon")
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "memoir-capture")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	path := filepath.Join(dir, "toast-icon.ico")
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, icon) {
		return path, nil
	}
	if err := os.WriteFile(path, icon, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
