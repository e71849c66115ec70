package ui

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/ncruces/zenity"
)

// AppName titles dialogs and notifications.
const AppName = "Memoir Quick Capture"

// zenity entry points, swapped in tests.
var (
	zenityEntry    = zenity.Entry
	zenityPassword = zenity.Password
	zenityError    = zenity.Error
	zenityInfo     = zenity.Info
)

// PromptShortcut asks for a new capture shortcut. validate is run on the
// input; invalid input re-opens the dialog with the error shown. ok is false
// when the user cancels.
func PromptShortcut(current string, validate func(string) error) (shortcut string, ok bool, err error) {
	prompt := "Enter the capture shortcut, e.g. Command+Option+N or Ctrl+Shift+Space."
	for {
		value, err := zenityEntry(prompt,
			zenity.Title(AppName+" - Change Shortcut"),
			zenity.EntryText(current),
			zenity.DisallowEmpty(),
		)
		if errors.Is(err, zenity.ErrCanceled) {
			log.Println("Change Shortcut dialog cancelled.")
			return "", false, nil
		}
		if err != nil {
			return "", false, fmt.Errorf("shortcut dialog failed: %w", err)
		}

		value = strings.TrimSpace(value)
		if validate == nil {
			return value, true, nil
		}
		verr := validate(value)
		if verr == nil {
			return value, true, nil
		}
		current = value
		prompt = fmt.Sprintf("'%s' is not a valid shortcut: %v\n\nEnter the capture shortcut, e.g. Command+Option+N.", value, verr)
	}
}

// PromptToken asks for the Memoir API token. An empty answer clears it.
func PromptToken() (token string, ok bool, err error) {
	_, value, err := zenityPassword(
		zenity.Title(AppName + " - Memoir API Token (leave empty to remove)"),
	)
	if errors.Is(err, zenity.ErrCanceled) {
		log.Println("API token dialog cancelled.")
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("token dialog failed: %w", err)
	}
	return strings.TrimSpace(value), true, nil
}

// ShowErrorDialog shows a modal error.
func ShowErrorDialog(title, message string) {
	if err := zenityError(message, zenity.Title(AppName+" - "+title), zenity.ErrorIcon); err != nil && !errors.Is(err, zenity.ErrCanceled) {
		log.Printf("Error dialog failed: %v", err)
	}
}

// ShowInfoDialog shows a modal message.
func ShowInfoDialog(title, message string) {
	if err := zenityInfo(message, zenity.Title(AppName+" - "+title), zenity.InfoIcon); err != nil && !errors.Is(err, zenity.ErrCanceled) {
		log.Printf("Info dialog failed: %v", err)
	}
}
