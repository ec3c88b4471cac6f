package capture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log"

	"github.com/example/snapmark/internal/geom"
)

// Options tunes a desktop grab.
type Options struct {
	// Display restricts the frame to one monitor. See FindMonitor.
	Display string
	// IncludeCursor asks the portal to embed the pointer.
	IncludeCursor bool
	// Exclude drops a window from the highlight candidates, normally the
	// overlay itself.
	Exclude uint32
}

// Frame is a still of the desktop and the windows that were visible when it
// was taken. Image starts at (0,0) and every rectangle in the frame uses
// that origin.
type Frame struct {
	Image   *image.RGBA
	Windows Windows
}

// Bounds returns the inclusive pixel bounds of the frame.
func (f Frame) Bounds() geom.Rect {
	if f.Image == nil {
		return geom.None
	}
	return geom.FromImage(f.Image.Bounds())
}

var (
	portalScreenshotFn = portalScreenshot
	displayGrabFn      = grabDisplays
)

// Grab captures the desktop together with its window layout. A missing
// window list only disables auto-highlight, so it is logged, not returned.
func Grab(opts Options) (Frame, error) {
	img, origin, err := grabScreen(opts)
	if err != nil {
		return Frame{}, err
	}
	if opts.Display != "" {
		monitors, err := ListMonitors()
		if err != nil {
			return Frame{}, fmt.Errorf("grab display %q: %w", opts.Display, err)
		}
		mon, err := FindMonitor(monitors, opts.Display)
		if err != nil {
			return Frame{}, err
		}
		img, err = cropToRect(img, mon.Rect.Sub(origin))
		if err != nil {
			return Frame{}, fmt.Errorf("grab display %q: %w", opts.Display, err)
		}
		origin = mon.Rect.Min
	}

	frame := Frame{Image: img}
	windows, err := ListWindows()
	if err != nil {
		log.Printf("capture: window list unavailable: %v", err)
		return frame, nil
	}
	frame.Windows = NewWindows(windows, origin, img.Bounds(), opts.Exclude)
	return frame, nil
}

// grabScreen returns the desktop image and the global position of its
// top-left pixel.
func grabScreen(opts Options) (*image.RGBA, image.Point, error) {
	if runningOnWayland() {
		img, err := portalScreenshotFn(false, opts)
		if err != nil {
			return nil, image.Point{}, fmt.Errorf("portal screenshot: %w", err)
		}
		return img, image.Point{}, nil
	}
	img, origin, err := displayGrabFn()
	if err == nil {
		return img, origin, nil
	}
	shot, perr := portalScreenshotFn(false, opts)
	if perr != nil {
		return nil, image.Point{}, fmt.Errorf("display grab: %v; portal fallback: %w", err, perr)
	}
	return shot, image.Point{}, nil
}

// CaptureWindow captures a single window specified by the selector string.
// It prefers the window's own pixels and falls back to cropping a desktop
// screenshot when the compositor refuses to provide them.
func CaptureWindow(selector string, opts Options) (*image.RGBA, WindowInfo, error) {
	windows, err := ListWindows()
	if err != nil {
		return nil, WindowInfo{}, fmt.Errorf("capture window %q: %w", selector, err)
	}
	info, err := SelectWindow(selector, windows)
	if err != nil {
		return nil, WindowInfo{}, err
	}
	if info.Rect.Empty() {
		return nil, WindowInfo{}, errors.New("window has empty geometry")
	}
	img, directErr := backend.CaptureWindowImage(info.ID)
	if directErr == nil {
		return img, info, nil
	}
	shot, origin, err := grabScreen(opts)
	if err != nil {
		return nil, WindowInfo{}, fmt.Errorf("window capture: %v; fallback screenshot failed: %w", directErr, err)
	}
	img, err = cropToRect(shot, info.Rect.Sub(origin))
	if err != nil {
		return nil, WindowInfo{}, fmt.Errorf("window capture: %v; fallback crop failed: %w", directErr, err)
	}
	return img, info, nil
}

// Crop copies the inclusive rectangle r out of src into a new image whose
// origin is (0,0).
func Crop(src *image.RGBA, r geom.Rect) (*image.RGBA, error) {
	return cropToRect(src, r.Image())
}

func cropToRect(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, errors.New("requested region outside captured image")
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}
