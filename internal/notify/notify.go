// Package notify turns capture, save and copy events into desktop
// notifications according to the user's preferences.
package notify

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/example/snapmark/internal/config"
	"github.com/example/snapmark/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventCapture emits a notification when a capture completes.
	EventCapture Event = "capture"
	// EventSave emits a notification when an image is persisted to disk.
	EventSave Event = "save"
	// EventCopy emits a notification when data is copied to the clipboard.
	EventCopy Event = "copy"
)

// Title is used for every notification.
const Title = "snapmark"

// PreviewSize bounds the longer side of capture thumbnails.
const PreviewSize = 256

var templates = map[Event]string{
	EventCapture: "Captured %s",
	EventSave:    "Saved %s",
	EventCopy:    "Copied %s to clipboard",
}

var send = platform.Notify

// Notifier sends OS-level notifications for the enabled events.
type Notifier struct {
	enabled map[Event]bool
}

// New creates a Notifier from the [notify] config section.
func New(cfg config.Notify) *Notifier {
	n := &Notifier{enabled: make(map[Event]bool)}
	n.Configure(cfg)
	return n
}

// Configure replaces the enabled events.
func (n *Notifier) Configure(cfg config.Notify) {
	n.Enable(EventCapture, cfg.Capture)
	n.Enable(EventSave, cfg.Save)
	n.Enable(EventCopy, cfg.Copy)
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	if n.enabled == nil {
		n.enabled = make(map[Event]bool)
	}
	n.enabled[event] = enabled
}

// Capture sends a capture notification with an optional image preview.
func (n *Notifier) Capture(detail string, img image.Image) {
	if !n.enabledFor(EventCapture) {
		return
	}
	opts := platform.Options{}
	if img != nil {
		if path, cleanup, err := createPreview(img); err != nil {
			log.Printf("notification preview: %v", err)
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventCapture, detail, opts)
}

// Save announces a written file as "name in dir". The file itself becomes
// the notification icon.
func (n *Notifier) Save(path string) {
	if !n.enabledFor(EventSave) {
		return
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	opts := platform.Options{}
	if _, err := os.Stat(path); err == nil {
		opts.IconPath = path
	}
	n.dispatch(EventSave, fmt.Sprintf("%s in %s", filepath.Base(path), filepath.Dir(path)), opts)
}

// Copy sends a clipboard notification.
func (n *Notifier) Copy(detail string) {
	if !n.enabledFor(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "image"
	}
	n.dispatch(EventCopy, detail, platform.Options{})
}

// Message sends a free form notification regardless of the event switches.
func (n *Notifier) Message(title, body string) {
	if strings.TrimSpace(title) == "" {
		title = Title
	}
	if err := send(title, body, platform.Options{}); err != nil {
		log.Printf("notification: %v", err)
	}
}

func (n *Notifier) enabledFor(event Event) bool {
	if n == nil || n.enabled == nil {
		return false
	}
	return n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	body := strings.TrimSpace(fmt.Sprintf(templates[event], strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if err := send(Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

// thumbnail scales img so that its longer side is at most PreviewSize.
func thumbnail(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= PreviewSize && h <= PreviewSize {
		return img
	}
	if w >= h {
		h = max(1, h*PreviewSize/w)
		w = PreviewSize
	} else {
		w = max(1, w*PreviewSize/h)
		h = PreviewSize
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

func createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "snapmark-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	remove := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove preview: %v", err)
		}
	}
	if err := png.Encode(f, thumbnail(img)); err != nil {
		f.Close()
		remove()
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		remove()
		return "", nil, err
	}
	return path, remove, nil
}
