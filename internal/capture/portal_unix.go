//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	portalDest      = "org.freedesktop.portal.Desktop"
	portalPath      = "/org/freedesktop/portal/desktop"
	portalMethod    = "org.freedesktop.portal.Screenshot.Screenshot"
	portalResponse  = "org.freedesktop.portal.Request.Response"
	portalTimeout   = 30 * time.Second
	portalCancelled = 1
)

// ErrPortalCancelled is returned when the user dismisses the portal dialog.
var ErrPortalCancelled = errors.New("screenshot cancelled")

var portalHandleToken = func() string {
	return fmt.Sprintf("snapmark_%d", time.Now().UnixNano())
}

func portalScreenshot(interactive bool, opts Options) (*image.RGBA, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("dbus connect: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Printf("dbus close: %v", cerr)
		}
	}()

	var handle dbus.ObjectPath
	call := conn.Object(portalDest, portalPath).Call(portalMethod, 0, "", portalScreenshotOptions(interactive, opts))
	if call.Err != nil {
		return nil, fmt.Errorf("portal screenshot call: %w", call.Err)
	}
	if err := call.Store(&handle); err != nil {
		return nil, fmt.Errorf("portal screenshot response: %w", err)
	}

	rule := fmt.Sprintf("type='signal',interface='org.freedesktop.portal.Request',member='Response',path='%s'", handle)
	if err := conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, rule).Err; err != nil {
		return nil, fmt.Errorf("portal screenshot subscribe: %w", err)
	}
	defer conn.BusObject().Call("org.freedesktop.DBus.RemoveMatch", 0, rule)

	sigc := make(chan *dbus.Signal, 1)
	conn.Signal(sigc)
	timeout := time.After(portalTimeout)
	for {
		select {
		case sig := <-sigc:
			if sig == nil || sig.Path != handle || sig.Name != portalResponse {
				continue
			}
			return decodePortalResponse(sig.Body)
		case <-timeout:
			return nil, errors.New("portal screenshot: timed out waiting for response")
		}
	}
}

func decodePortalResponse(body []interface{}) (*image.RGBA, error) {
	if len(body) < 2 {
		return nil, errors.New("portal screenshot: malformed response")
	}
	if code, ok := body[0].(uint32); ok && code == portalCancelled {
		return nil, ErrPortalCancelled
	}
	results, ok := body[1].(map[string]dbus.Variant)
	if !ok {
		return nil, errors.New("portal screenshot: malformed response")
	}
	v, ok := results["uri"]
	if !ok {
		return nil, errors.New("portal screenshot: response missing image data")
	}
	uri, _ := v.Value().(string)
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return nil, fmt.Errorf("portal screenshot: unexpected uri %q", uri)
	}
	img, err := loadPNG(u.Path)
	if err != nil {
		return nil, fmt.Errorf("portal screenshot image: %w", err)
	}
	return img, nil
}

func portalScreenshotOptions(interactive bool, opts Options) map[string]dbus.Variant {
	cursorMode := "hidden"
	if opts.IncludeCursor {
		cursorMode = "embedded"
	}
	return map[string]dbus.Variant{
		"interactive":  dbus.MakeVariant(interactive),
		"modal":        dbus.MakeVariant(interactive),
		"handle_token": dbus.MakeVariant(portalHandleToken()),
		"cursor_mode":  dbus.MakeVariant(cursorMode),
	}
}

// loadPNG decodes the portal's temporary file and removes it.
func loadPNG(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		f.Close()
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("remove %s: %v", path, err)
		}
	}()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba, nil
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba, nil
}
