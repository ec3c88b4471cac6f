// Package dirty accumulates the screen areas that need repainting between frames.
package dirty

import "github.com/example/snapmark/internal/geom"

// Kind summarises the tracker state.
type Kind uint8

const (
	// None means nothing needs painting.
	None Kind = iota
	// Partial means only the tracked regions need painting.
	Partial
	// Full means the whole screen needs painting.
	Full
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Partial:
		return "partial"
	case Full:
		return "full"
	default:
		return "unknown"
	}
}

// DefaultMaxRegions is the region count above which the tracker collapses
// its regions into their union.
const DefaultMaxRegions = 32

// Tracker records dirty rectangles. It is owned by the UI goroutine and is
// not safe for concurrent use.
type Tracker struct {
	regions    []geom.Rect
	full       bool
	screen     geom.Rect
	maxRegions int
}

// NewTracker returns a tracker for a screen of the given size.
func NewTracker(width, height int) *Tracker {
	t := &Tracker{
		regions:    make([]geom.Rect, 0, 8),
		maxRegions: DefaultMaxRegions,
	}
	t.setScreen(width, height)
	return t
}

func (t *Tracker) setScreen(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	t.screen = geom.Rect{Right: width - 1, Bottom: height - 1}
}

// SetScreenSize updates the screen dimensions and forces a full redraw.
func (t *Tracker) SetScreenSize(width, height int) {
	t.setScreen(width, height)
	t.MarkFullRedraw()
}

// Screen returns the screen rectangle.
func (t *Tracker) Screen() geom.Rect { return t.screen }

// MarkDirty adds r to the dirty set. It merges into the first region it
// intersects, otherwise it is appended. Calls are ignored while a full
// redraw is pending or when r lies entirely off screen.
func (t *Tracker) MarkDirty(r geom.Rect) {
	if t.full {
		return
	}
	r, ok := t.ClipToScreen(r.Canon())
	if !ok {
		return
	}
	for i, existing := range t.regions {
		if existing.Intersects(r) {
			t.regions[i] = existing.Union(r)
			return
		}
	}
	t.regions = append(t.regions, r)
	if len(t.regions) > t.maxRegions {
		combined := t.regions[0]
		for _, reg := range t.regions[1:] {
			combined = combined.Union(reg)
		}
		t.regions = append(t.regions[:0], combined)
	}
}

// MarkFullRedraw marks the entire screen dirty and drops partial regions.
func (t *Tracker) MarkFullRedraw() {
	t.full = true
	t.regions = t.regions[:0]
}

// Clear resets the tracker after a paint.
func (t *Tracker) Clear() {
	t.full = false
	t.regions = t.regions[:0]
}

// IsDirty reports whether anything needs painting.
func (t *Tracker) IsDirty() bool {
	return t.full || len(t.regions) > 0
}

// Kind reports the current dirty state.
func (t *Tracker) Kind() Kind {
	switch {
	case t.full:
		return Full
	case len(t.regions) > 0:
		return Partial
	default:
		return None
	}
}

// Regions returns a copy of the tracked partial regions.
func (t *Tracker) Regions() []geom.Rect {
	out := make([]geom.Rect, len(t.regions))
	copy(out, t.regions)
	return out
}

// CombinedRect returns the single rectangle to repaint. It is the screen
// during a full redraw, the union of the regions otherwise, and false when
// nothing is dirty.
func (t *Tracker) CombinedRect() (geom.Rect, bool) {
	if t.full {
		return t.screen, true
	}
	if len(t.regions) == 0 {
		return geom.None, false
	}
	combined := t.regions[0]
	for _, r := range t.regions[1:] {
		combined = combined.Union(r)
	}
	return combined, true
}

// ClipToScreen intersects r with the screen. It reports false when r lies
// entirely off screen.
func (t *Tracker) ClipToScreen(r geom.Rect) (geom.Rect, bool) {
	return r.Intersect(t.screen)
}
