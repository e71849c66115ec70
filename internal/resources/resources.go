// Package resources embeds the application icons.
package resources

import (
	_ "embed"
	"errors"
	"runtime"
)

// ErrIconNotFound is returned when an icon was not embedded.
var ErrIconNotFound = errors.New("embedded icon not found")

//go:embed icon.ico
var icoData []byte

//go:embed icon.png
var pngData []byte

// GetIcon returns the icon in the format the platform's tray expects:
// ICO on Windows, PNG elsewhere.
func GetIcon() ([]byte, error) {
	return iconFor(runtime.GOOS)
}

// GetPNG returns the PNG icon.
func GetPNG() ([]byte, error) {
	if len(pngData) == 0 {
		return nil, ErrIconNotFound
	}
	return pngData, nil
}

func iconFor(goos string) ([]byte, error) {
	data := pngData
	if goos == "windows" {
		data = icoData
	}
	if len(data) == 0 {
		return nil, ErrIconNotFound
	}
	return data, nil
}
