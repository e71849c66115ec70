//go:build windows

package ui

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// shellOpen runs the "open" verb on file, the same as a double click.
func shellOpen(file string) error {
	verb, err := windows.UTF16PtrFromString("open")
	if err != nil {
		return err
	}
	target, err := windows.UTF16PtrFromString(file)
	if err != nil {
		return fmt.Errorf("failed to convert file path to UTF16Ptr: %w", err)
	}
	if err := windows.ShellExecute(0, verb, target, nil, nil, windows.SW_SHOWNORMAL); err != nil {
		return fmt.Errorf("ShellExecuteW failed for '%s': %w", file, err)
	}
	return nil
}
