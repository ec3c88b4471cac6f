// Package clipboard publishes annotated captures and recognized text to the
// system clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"runtime"
	"sync"

	textclip "github.com/atotto/clipboard"
)

var (
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
	// ErrEmpty is returned when the clipboard holds nothing of the requested kind.
	ErrEmpty = errors.New("clipboard is empty")
)

var (
	initOnce sync.Once
	initErr  error
)

// native is the image capable clipboard. It is swapped in tests.
var native nativeClipboard = newNative()

type nativeClipboard interface {
	Init() error
	WriteImage(data []byte) error
	WriteText(text string) error
	ReadText() (string, error)
}

// text is the command based text clipboard used when the native one is
// unavailable.
var text = struct {
	write func(string) error
	read  func() (string, error)
}{textclip.WriteAll, textclip.ReadAll}

func hasDisplay() bool {
	switch runtime.GOOS {
	case "windows", "darwin":
		return true
	}
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func ensureInit() error {
	initOnce.Do(func() {
		if !hasDisplay() {
			initErr = errNoDisplay
			return
		}
		initErr = native.Init()
	})
	return initErr
}

// WriteImage encodes img as PNG and publishes it.
func WriteImage(img image.Image) error {
	if err := ensureInit(); err != nil {
		return fmt.Errorf("clipboard image: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("clipboard image: encode: %w", err)
	}
	return native.WriteImage(buf.Bytes())
}

// WriteText publishes UTF-8 text. When the native clipboard cannot start it
// falls back to the xclip, xsel or wl-copy helpers.
func WriteText(s string) error {
	if err := ensureInit(); err == nil {
		return native.WriteText(s)
	} else if errors.Is(err, errNoDisplay) {
		return err
	}
	if err := text.write(s); err != nil {
		return fmt.Errorf("clipboard text: %w", err)
	}
	return nil
}

// ReadText returns the clipboard text.
func ReadText() (string, error) {
	if err := ensureInit(); err == nil {
		return native.ReadText()
	} else if errors.Is(err, errNoDisplay) {
		return "", err
	}
	s, err := text.read()
	if err != nil {
		return "", fmt.Errorf("clipboard text: %w", err)
	}
	if s == "" {
		return "", ErrEmpty
	}
	return s, nil
}
