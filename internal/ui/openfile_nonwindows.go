//go:build !windows

package ui

import (
	"fmt"
	"log"
	"os/exec"
	"runtime"
)

// OpenFileInDefaultApp opens filePath with the desktop's default handler.
func OpenFileInDefaultApp(filePath string) error {
	cmd := openCommand(runtime.GOOS, filePath)
	log.Printf("Opening %s with %v", filePath, cmd.Args)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start command (%s): %w", cmd.String(), err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func openCommand(goos, filePath string) *exec.Cmd {
	if goos == "darwin" {
		// -t picks the default text editor even for .json files.
		return exec.Command("open", "-t", filePath)
	}
	return exec.Command("xdg-open", filePath)
}
