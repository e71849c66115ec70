// Package app wires the capture pipeline together: the global shortcut
// opens the capture window, the window's frontend calls back into App, and
// captures flow into the capture service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/TanaroSch/memoir-capture/internal/capture"
	"github.com/TanaroSch/memoir-capture/internal/config"
	"github.com/TanaroSch/memoir-capture/internal/shortcut"
	"github.com/TanaroSch/memoir-capture/internal/ui"
	"github.com/TanaroSch/memoir-capture/internal/window"
)

const (
	captureTimeout = 15 * time.Second
	callTimeout    = 5 * time.Second
	flushTimeout   = 2 * time.Minute
)

// Registrar owns the global shortcut.
type Registrar interface {
	Register(spec string, onActivate func()) error
	Active() string
	Close() error
}

// CaptureWindow is the window lifecycle the app drives.
type CaptureWindow interface {
	ShowAtCursor()
	Resize(width, height float64) error
	Close()
	SetDefaultSize(window.Size)
}

// CaptureService stores and delivers captures.
type CaptureService interface {
	Capture(ctx context.Context, content string) error
	Flush(ctx context.Context) (int, error)
	PendingCount(ctx context.Context) (int, error)
	SetSender(capture.Sender)
}

// TokenStore holds the Memoir API token.
type TokenStore interface {
	Token() (string, error)
	SetToken(token string) error
}

// Attacher receives the Wails runtime context on startup.
type Attacher interface {
	Attach(ctx context.Context)
}

// Options are the collaborators of an App.
type Options struct {
	Version  string
	Store    *config.Store
	Registry Registrar
	Window   CaptureWindow
	Captures CaptureService
	// Tokens may be nil when no keyring is available.
	Tokens TokenStore
	// Surface, if set, is attached to the Wails context on startup.
	Surface Attacher
	// Tray adds a system tray menu, registered on startup.
	Tray bool
	Icon []byte
	// Notifier, if set, follows the use_notifications setting.
	Notifier *ui.NotificationManager
}

var (
	runtimeQuitFn    = runtime.Quit
	watchFn          = config.Watch
	showInfoDialogFn = ui.ShowInfoDialog
)

// App is bound to the Wails frontend; its exported methods are the IPC
// surface of the capture window.
type App struct {
	ctx      context.Context
	version  string
	store    *config.Store
	registry Registrar
	window   CaptureWindow
	captures CaptureService
	tokens   TokenStore
	surface  Attacher
	tray     *ui.Tray
	notifier *ui.NotificationManager
	loop     *Loop

	settingsMu sync.Mutex
	settings   config.Settings

	watcher *config.Watcher
}

// New creates an App from the stored settings.
func New(opts Options) *App {
	a := &App{
		ctx:      context.Background(),
		version:  opts.Version,
		store:    opts.Store,
		registry: opts.Registry,
		window:   opts.Window,
		captures: opts.Captures,
		tokens:   opts.Tokens,
		surface:  opts.Surface,
		notifier: opts.Notifier,
		loop:     NewLoop(16),
		settings: config.LoadSettings(opts.Store),
	}
	if opts.Tray {
		a.tray = ui.NewTray(opts.Version, opts.Icon, a.trayActions())
	}
	a.applySettings(a.settings)
	return a
}

// StartupHook returns the function Wails calls once the window exists. It
// is not a method so that it is not exposed to the frontend.
func StartupHook(a *App) func(ctx context.Context) {
	return a.startup
}

// ShutdownHook returns the function Wails calls on exit.
func ShutdownHook(a *App) func(ctx context.Context) {
	return a.shutdown
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	if a.surface != nil {
		a.surface.Attach(ctx)
	}

	a.settingsMu.Lock()
	shortcut := a.settings.Shortcut
	a.settingsMu.Unlock()

	if err := a.registerShortcut(shortcut); err != nil {
		log.Printf("Failed to register shortcut: %v", err)
		ui.ShowAdminNotification(ui.LevelWarn, "Shortcut Not Registered",
			fmt.Sprintf("Could not register '%s': %v\nChoose another shortcut from the tray menu.", shortcut, err))
	}

	if a.store != nil {
		w, err := watchFn(a.store.Path(), config.DefaultDebounce, a.onSettingsFileChanged)
		if err != nil {
			log.Printf("Warning: Settings file will not be watched: %v", err)
		} else {
			a.watcher = w
		}
	}

	if a.tray != nil {
		a.tray.Register()
	}
	go a.flushPending()
}

func (a *App) shutdown(ctx context.Context) {
	log.Println("Shutting down. Unregistering shortcut.")
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			log.Printf("Error closing settings watcher: %v", err)
		}
	}
	if err := a.registry.Close(); err != nil {
		log.Printf("Error unregistering shortcut: %v", err)
	}
	a.loop.Stop()
}

// GetSettings returns the current settings.
func (a *App) GetSettings() config.Settings {
	a.settingsMu.Lock()
	defer a.settingsMu.Unlock()
	return a.settings
}

// GetShortcut returns the configured capture shortcut.
func (a *App) GetShortcut() string {
	return a.GetSettings().Shortcut
}

// SaveSettings persists settings and re-registers the shortcut. The new
// settings are stored even when the shortcut is rejected; the registration
// error is returned.
func (a *App) SaveSettings(settings config.Settings) error {
	a.settingsMu.Lock()
	defer a.settingsMu.Unlock()
	return a.saveSettingsLocked(settings)
}

// SaveShortcut changes only the shortcut.
func (a *App) SaveShortcut(shortcut string) error {
	a.settingsMu.Lock()
	defer a.settingsMu.Unlock()
	settings := a.settings
	settings.Shortcut = shortcut
	return a.saveSettingsLocked(settings)
}

func (a *App) saveSettingsLocked(settings config.Settings) error {
	if a.store != nil {
		if err := config.SaveSettings(a.store, settings); err != nil {
			return err
		}
	}
	a.settings = settings
	a.applySettings(settings)
	return a.registerShortcut(settings.Shortcut)
}

// applySettings pushes everything except the shortcut to the collaborators.
func (a *App) applySettings(s config.Settings) {
	if a.window != nil {
		a.window.SetDefaultSize(window.Size{Width: s.Window.Width, Height: s.Window.Height})
	}
	if a.notifier != nil {
		a.notifier.SetEnabled(s.UseNotifications)
	}
	if a.captures != nil {
		a.captures.SetSender(a.newSender(s))
	}
}

func (a *App) newSender(s config.Settings) capture.Sender {
	url := s.CaptureURL()
	if url == "" {
		return nil
	}
	var token func() (string, error)
	if a.tokens != nil {
		token = a.tokens.Token
	}
	return capture.NewRemote(url, nil, token)
}

func (a *App) registerShortcut(spec string) error {
	err := a.registry.Register(spec, a.onHotkey)
	if a.tray != nil {
		a.tray.SetShortcut(a.registry.Active())
	}
	return err
}

// onHotkey runs on the hotkey listener goroutine.
func (a *App) onHotkey() {
	if !a.loop.Post(a.window.ShowAtCursor) {
		log.Println("Capture shortcut pressed after shutdown; ignored.")
	}
}

// CaptureMemory stores content typed into the capture window.
func (a *App) CaptureMemory(content string) error {
	ctx, cancel := context.WithTimeout(a.ctx, captureTimeout)
	defer cancel()

	if err := a.captures.Capture(ctx, content); err != nil {
		if !errors.Is(err, capture.ErrEmptyContent) {
			ui.ShowAdminNotification(ui.LevelError, "Capture Failed", err.Error())
		}
		return err
	}
	a.refreshPending()
	return nil
}

// ResizeQuickCapture resizes the capture window to fit its content.
func (a *App) ResizeQuickCapture(width, height float64) error {
	ctx, cancel := context.WithTimeout(a.ctx, callTimeout)
	defer cancel()
	return a.loop.Call(ctx, func() error {
		return a.window.Resize(width, height)
	})
}

// CloseQuickCapture dismisses the capture window and returns focus to the
// previous application.
func (a *App) CloseQuickCapture() {
	a.loop.Post(a.window.Close)
}

func (a *App) onSettingsFileChanged() {
	if a.store == nil {
		return
	}
	if err := a.store.Reload(); err != nil {
		log.Printf("Settings watcher: Ignoring unreadable settings file: %v", err)
		return
	}
	loaded := config.LoadSettings(a.store)

	a.settingsMu.Lock()
	defer a.settingsMu.Unlock()
	if loaded == a.settings {
		return
	}
	log.Println("Settings file changed on disk, applying.")
	previous := a.settings
	a.settings = loaded
	a.applySettings(loaded)
	if loaded.Shortcut != previous.Shortcut {
		if err := a.registerShortcut(loaded.Shortcut); err != nil {
			ui.ShowAdminNotification(ui.LevelWarn, "Shortcut Not Registered",
				fmt.Sprintf("Could not register '%s': %v", loaded.Shortcut, err))
		}
	}
}

func (a *App) flushPending() {
	ctx, cancel := context.WithTimeout(a.ctx, flushTimeout)
	defer cancel()
	n, err := a.captures.Flush(ctx)
	if err != nil {
		log.Printf("Some pending captures could not be uploaded: %v", err)
	}
	if n > 0 {
		ui.ShowAdminNotification(ui.LevelInfo, "Captures Uploaded", fmt.Sprintf("%d pending captures were uploaded.", n))
	}
	a.refreshPending()
}

func (a *App) refreshPending() {
	if a.tray == nil {
		return
	}
	n, err := a.captures.PendingCount(a.ctx)
	if err != nil {
		log.Printf("Could not count pending captures: %v", err)
		return
	}
	a.tray.SetPendingCount(n)
}

// ValidateShortcut reports whether spec parses. Used by the shortcut dialog.
func ValidateShortcut(spec string) error {
	_, err := shortcut.Parse(spec)
	return err
}
