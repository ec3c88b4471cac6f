package capture

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// grabDisplays captures the union of all active displays.
func grabDisplays() (*image.RGBA, image.Point, error) {
	union, err := displayUnion()
	if err != nil {
		return nil, image.Point{}, err
	}
	img, err := screenshot.CaptureRect(union)
	if err != nil {
		return nil, image.Point{}, fmt.Errorf("capture %v: %w", union, err)
	}
	if img.Rect.Min != (image.Point{}) {
		img.Rect = img.Rect.Sub(img.Rect.Min)
	}
	return img, union.Min, nil
}

func displayUnion() (image.Rectangle, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return image.Rectangle{}, ErrNoMonitors
	}
	union := screenshot.GetDisplayBounds(0)
	for i := 1; i < n; i++ {
		union = union.Union(screenshot.GetDisplayBounds(i))
	}
	return union, nil
}

// displayMonitors describes the active displays as monitors. The first
// display is reported as primary.
func displayMonitors() ([]MonitorInfo, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, ErrNoMonitors
	}
	monitors := make([]MonitorInfo, 0, n)
	for i := 0; i < n; i++ {
		monitors = append(monitors, MonitorInfo{
			Index:   i,
			Name:    fmt.Sprintf("display-%d", i),
			Rect:    screenshot.GetDisplayBounds(i),
			Primary: i == 0,
		})
	}
	return monitors, nil
}
