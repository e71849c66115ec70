package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/TanaroSch/memoir-capture/internal/clipboard"
	"github.com/TanaroSch/memoir-capture/internal/ui"
)

func (a *App) trayActions() ui.TrayActions {
	actions := ui.TrayActions{
		QuickCapture:     a.onQuickCapture,
		CaptureClipboard: a.onCaptureClipboard,
		ChangeShortcut:   a.onChangeShortcut,
		RetryPending:     a.onRetryPending,
		OpenSettings:     a.onOpenSettingsFile,
		Release:          a.onRelease,
		Quit:             a.onQuit,
	}
	if a.tokens != nil {
		actions.SetAPIToken = a.onSetAPIToken
	}
	return actions
}

func (a *App) onQuickCapture() {
	a.loop.Post(a.window.ShowAtCursor)
}

func (a *App) onCaptureClipboard() {
	ctx, cancel := context.WithTimeout(a.ctx, captureTimeout)
	defer cancel()

	n, err := clipboard.CaptureTo(ctx, a.captures)
	switch {
	case errors.Is(err, clipboard.ErrEmpty):
		ui.ShowAdminNotification(ui.LevelInfo, "Nothing to Capture", "The clipboard does not contain text.")
	case err != nil:
		log.Printf("Clipboard capture failed: %v", err)
		ui.ShowAdminNotification(ui.LevelError, "Capture Failed", err.Error())
	default:
		ui.ShowAdminNotification(ui.LevelInfo, "Clipboard Captured", fmt.Sprintf("Saved %d characters.", n))
		a.refreshPending()
	}
}

func (a *App) onChangeShortcut() {
	current := a.GetShortcut()
	value, ok, err := ui.PromptShortcut(current, ValidateShortcut)
	if err != nil {
		log.Printf("Change Shortcut dialog failed: %v", err)
		ui.ShowErrorDialog("Change Shortcut", err.Error())
		return
	}
	if !ok || value == current {
		return
	}

	if err := a.SaveShortcut(value); err != nil {
		log.Printf("Shortcut '%s' saved but not registered: %v", value, err)
		ui.ShowErrorDialog("Shortcut Not Registered",
			fmt.Sprintf("'%s' was saved but could not be registered:\n%v\n\nAnother application may already use it.", value, err))
		return
	}
	ui.ShowAdminNotification(ui.LevelInfo, "Shortcut Updated", fmt.Sprintf("Press %s to capture.", a.registry.Active()))
}

func (a *App) onSetAPIToken() {
	token, ok, err := ui.PromptToken()
	if err != nil {
		log.Printf("API token dialog failed: %v", err)
		return
	}
	if !ok {
		return
	}
	if err := a.tokens.SetToken(token); err != nil {
		log.Printf("Failed to store API token: %v", err)
		ui.ShowErrorDialog("API Token", err.Error())
		return
	}
	if token == "" {
		ui.ShowAdminNotification(ui.LevelInfo, "API Token Removed", "Captures will be sent without a token.")
		return
	}
	ui.ShowAdminNotification(ui.LevelInfo, "API Token Saved", "Retrying pending uploads.")
	go a.flushPending()
}

func (a *App) onRetryPending() {
	ctx, cancel := context.WithTimeout(a.ctx, flushTimeout)
	defer cancel()

	if a.GetSettings().CaptureURL() == "" {
		showInfoDialogFn("Retry Pending Uploads",
			"No Memoir server is configured. Captures are kept in the local journal.")
		return
	}
	if pending, err := a.captures.PendingCount(ctx); err == nil && pending == 0 {
		showInfoDialogFn("Retry Pending Uploads", "There are no pending captures.")
		return
	}

	n, err := a.captures.Flush(ctx)
	a.refreshPending()
	if err != nil {
		log.Printf("Retry of pending uploads failed: %v", err)
		ui.ShowAdminNotification(ui.LevelWarn, "Upload Failed",
			fmt.Sprintf("%d captures uploaded; the rest are kept for later.\n%v", n, err))
		return
	}
	ui.ShowAdminNotification(ui.LevelInfo, "Uploads Complete", fmt.Sprintf("%d captures uploaded.", n))
}

func (a *App) onOpenSettingsFile() {
	if a.store == nil {
		return
	}
	path := a.store.Path()
	log.Printf("Request to open settings file: %s", path)
	if err := ui.OpenFileInDefaultApp(path); err != nil {
		ui.ShowAdminNotification(ui.LevelWarn, "Error Opening File",
			fmt.Sprintf("Could not open settings file '%s': %v", path, err))
	}
}

// onRelease frees the shortcut ahead of a restart.
func (a *App) onRelease() {
	if err := a.registry.Close(); err != nil {
		log.Printf("Error unregistering shortcut before restart: %v", err)
	}
}

func (a *App) onQuit() {
	log.Println("Quit requested.")
	runtimeQuitFn(a.ctx)
}
