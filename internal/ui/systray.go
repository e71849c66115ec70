package ui

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/getlantern/systray"
)

// TrayActions are the callbacks behind the tray menu. Nil actions hide
// their menu item.
type TrayActions struct {
	QuickCapture     func()
	CaptureClipboard func()
	ChangeShortcut   func()
	SetAPIToken      func()
	RetryPending     func()
	OpenSettings     func()
	// Release runs before a restart so the new process can take the shortcut.
	Release func()
	Quit    func()
}

// Tray is the system tray icon and menu.
type Tray struct {
	version      string
	embeddedIcon []byte
	actions      TrayActions

	mu             sync.Mutex
	ready          bool
	shortcut       string
	pending        int
	miQuickCapture *systray.MenuItem
	miRetry        *systray.MenuItem
}

// NewTray creates a tray; call Register to show it.
func NewTray(version string, embeddedIcon []byte, actions TrayActions) *Tray {
	return &Tray{
		version:      version,
		embeddedIcon: embeddedIcon,
		actions:      actions,
	}
}

// Register adds the tray icon without taking over the main loop, which
// belongs to the webview.
func (t *Tray) Register() {
	systray.Register(t.onReady, t.onExit)
}

// SetShortcut updates the shortcut shown next to Quick Capture.
func (t *Tray) SetShortcut(shortcut string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.shortcut = shortcut
	if t.ready && t.miQuickCapture != nil {
		t.miQuickCapture.SetTitle(quickCaptureTitle(shortcut))
	}
}

// SetPendingCount shows how many captures wait for upload.
func (t *Tray) SetPendingCount(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = n
	if t.ready && t.miRetry != nil {
		t.applyPendingLocked()
	}
}

func (t *Tray) applyPendingLocked() {
	t.miRetry.SetTitle(retryTitle(t.pending))
	if t.pending > 0 {
		t.miRetry.Enable()
	} else {
		t.miRetry.Disable()
	}
}

func quickCaptureTitle(shortcut string) string {
	if shortcut == "" {
		return "Quick Capture (no shortcut)"
	}
	return fmt.Sprintf("Quick Capture\t%s", shortcut)
}

func retryTitle(pending int) string {
	if pending == 0 {
		return "Retry Pending Uploads"
	}
	return fmt.Sprintf("Retry Pending Uploads (%d)", pending)
}

func (t *Tray) onReady() {
	title := AppName
	systray.SetTooltip(fmt.Sprintf("%s %s", AppName, t.version))
	if len(t.embeddedIcon) > 0 {
		systray.SetTemplateIcon(t.embeddedIcon, t.embeddedIcon)
	} else {
		log.Println("Warning: No embedded icon data to set for systray.")
		systray.SetTitle(title)
	}

	miVersion := systray.AddMenuItem(fmt.Sprintf("Version: %s", t.version), AppName+" version")
	miVersion.Disable()
	systray.AddSeparator()

	t.mu.Lock()
	t.miQuickCapture = t.addItem(quickCaptureTitle(t.shortcut), "Open the capture window", t.actions.QuickCapture)
	t.addItem("Capture Clipboard", "Save the clipboard text as a memory", t.actions.CaptureClipboard)
	t.mu.Unlock()

	systray.AddSeparator()
	t.addItem("Change Shortcut...", "Choose the global capture shortcut", t.actions.ChangeShortcut)
	t.addItem("Set API Token...", "Store the Memoir API token in the keychain", t.actions.SetAPIToken)
	retry := t.addItem(retryTitle(0), "Send captures that could not be uploaded", t.actions.RetryPending)
	t.addItem("Open Settings File", "Open settings.json in the default editor", t.actions.OpenSettings)
	miRestart := systray.AddMenuItem("Restart Application", "Restart "+AppName)

	systray.AddSeparator()
	miQuit := systray.AddMenuItem("Quit", "Exit the application")

	t.mu.Lock()
	t.miRetry = retry
	t.ready = true
	if t.miRetry != nil {
		t.applyPendingLocked()
	}
	t.mu.Unlock()

	go func() {
		for range miRestart.ClickedCh {
			log.Println("Restart Application menu item clicked.")
			RestartApplication(t.actions.Release)
		}
	}()

	go func() {
		<-miQuit.ClickedCh
		log.Println("Quit menu item clicked.")
		if t.actions.Quit != nil {
			t.actions.Quit()
		}
		systray.Quit()
	}()

	log.Println("Systray ready and menu configured.")
}

// addItem adds a menu item wired to action; a nil action adds nothing.
func (t *Tray) addItem(title, tooltip string, action func()) *systray.MenuItem {
	if action == nil {
		return nil
	}
	item := systray.AddMenuItem(title, tooltip)
	go func() {
		for range item.ClickedCh {
			log.Printf("'%s' menu item clicked.", strings.SplitN(title, "\t", 2)[0])
			action()
		}
	}()
	return item
}

func (t *Tray) onExit() {
	log.Println("Systray exiting.")
}

// IsDevMode reports whether the binary was built by `go run` into a temp dir.
func IsDevMode() bool {
	execPath, err := os.Executable()
	if err != nil {
		log.Printf("Warning: Could not get executable path in IsDevMode: %v", err)
		return false
	}
	return isTempBuild(execPath, os.TempDir())
}

func isTempBuild(execPath, tempDir string) bool {
	sep := string(filepath.Separator)
	if strings.Contains(execPath, sep+"go-build") {
		return true
	}
	execDir := filepath.Clean(filepath.Dir(execPath))
	tempDir = filepath.Clean(tempDir)
	return execDir == tempDir || strings.HasPrefix(execDir, tempDir+sep)
}

// RestartApplication starts a fresh copy of the executable and exits.
// release, if set, runs just before the new process starts.
func RestartApplication(release func()) {
	log.Println("Attempting application restart...")
	if IsDevMode() {
		log.Println("Development mode detected. Automatic restart is not supported.")
		ShowAdminNotification(LevelWarn, "Manual Restart Needed", "App running in dev mode. Please stop and run it again manually.")
		return
	}
	execPath, err := os.Executable()
	if err != nil {
		ShowAdminNotification(LevelError, "Restart Error", fmt.Sprintf("Failed to get executable path. Error: %v", err))
		return
	}

	if release != nil {
		release()
	}
	cmd := exec.Command(execPath, os.Args[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if cwd, err := os.Getwd(); err == nil {
		cmd.Dir = cwd
	}
	if err := cmd.Start(); err != nil {
		ShowAdminNotification(LevelError, "Restart Error", fmt.Sprintf("Failed to start new application process: %v", err))
		return
	}
	log.Println("Successfully started new process. Exiting current process now.")
	systray.Quit()
	os.Exit(0)
}
