package capture

import (
	"image"

	"github.com/example/snapmark/internal/geom"
	"github.com/example/snapmark/internal/highlight"
)

// Windows is a snapshot of the window layout in frame coordinates, top-most
// first. It answers auto-highlight queries without touching the display
// server again.
type Windows struct {
	list []WindowInfo
}

// NewWindows translates windows from global coordinates by -origin, clips
// them to bounds and drops exclude and anything left without area.
func NewWindows(windows []WindowInfo, origin image.Point, bounds image.Rectangle, exclude uint32) Windows {
	out := make([]WindowInfo, 0, len(windows))
	for _, w := range windows {
		if exclude != 0 && w.ID == exclude {
			continue
		}
		w.Rect = w.Rect.Sub(origin).Intersect(bounds)
		if w.Rect.Empty() {
			continue
		}
		out = append(out, w)
	}
	return Windows{list: out}
}

// Len returns the number of windows in the snapshot.
func (w Windows) Len() int { return len(w.list) }

// List returns the windows, top-most first.
func (w Windows) List() []WindowInfo { return w.list }

// WindowAt returns the top-most window containing (x, y).
func (w Windows) WindowAt(x, y int) (highlight.Candidate, bool) {
	p := image.Pt(x, y)
	for _, win := range w.list {
		if !p.In(win.Rect) {
			continue
		}
		return highlight.Candidate{
			ID:    win.ID,
			Rect:  geom.FromImage(win.Rect),
			Title: win.Title,
		}, true
	}
	return highlight.Candidate{}, false
}

// Enumerator returns w as a highlight.WindowEnumerator, or nil when the
// snapshot is empty so that auto-highlight stays off.
func (w Windows) Enumerator() highlight.WindowEnumerator {
	if len(w.list) == 0 {
		return nil
	}
	return w
}
