//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package capture

import (
	"errors"
	"image"
)

// displayBackend lists displays through kbinani/screenshot. Window listing
// is not available, so auto-highlight stays off on these platforms.
type displayBackend struct{}

func newBackend() platformBackend {
	return displayBackend{}
}

func (displayBackend) ListMonitors() ([]MonitorInfo, error) {
	return displayMonitors()
}

func (displayBackend) ListWindows() ([]WindowInfo, error) {
	return nil, ErrNoWindows
}

func (displayBackend) CaptureWindowImage(uint32) (*image.RGBA, error) {
	return nil, errors.New("window capture is not supported on this platform")
}

func runningOnWayland() bool { return false }

func portalScreenshot(bool, Options) (*image.RGBA, error) {
	return nil, errors.New("portal screenshot is not supported on this platform")
}
