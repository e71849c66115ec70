//go:build windows

package ui

import "log"

// OpenFileInDefaultApp opens filePath with the handler registered for its
// extension.
func OpenFileInDefaultApp(filePath string) error {
	err := shellOpen(filePath)
	if err != nil {
		log.Printf("ShellExecute open of %s failed: %v", filePath, err)
	}
	return err
}
