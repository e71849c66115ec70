// Package clipboard captures the current clipboard text.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/atotto/clipboard"
)

// ErrEmpty is returned when the clipboard holds no text.
var ErrEmpty = errors.New("clipboard is empty")

// readAll is swapped in tests.
var readAll = clipboard.ReadAll

// Sink receives captured text.
type Sink interface {
	Capture(ctx context.Context, content string) error
}

// ReadText returns the clipboard text with surrounding whitespace removed.
func ReadText() (string, error) {
	text, err := readAll()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmpty
	}
	return text, nil
}

// CaptureTo reads the clipboard and hands the text to sink. It returns the
// number of characters captured.
func CaptureTo(ctx context.Context, sink Sink) (int, error) {
	text, err := ReadText()
	if err != nil {
		return 0, err
	}
	if err := sink.Capture(ctx, text); err != nil {
		return 0, err
	}
	log.Printf("Clipboard: Captured %d characters", len([]rune(text)))
	return len([]rune(text)), nil
}
