// Package highlight turns pointer hover over on-screen windows into a
// proposed selection rectangle.
package highlight

import "github.com/example/snapmark/internal/geom"

// Candidate is a window or control whose bounds can become the selection.
type Candidate struct {
	ID    uint32
	Rect  geom.Rect
	Title string
}

// WindowEnumerator finds the topmost window under a point.
type WindowEnumerator interface {
	WindowAt(x, y int) (Candidate, bool)
}

// MoveKind classifies the outcome of a pointer move.
type MoveKind int

const (
	MoveNone MoveKind = iota
	MoveSet
	MoveClear
	MoveBeginManual
)

// Move is the result of Highlighter.OnMouseMove.
type Move struct {
	Kind      MoveKind
	Candidate Candidate
	// Start is the press position a manual selection should anchor to.
	Start geom.Point
}

// Highlighter tracks whether hover highlighting is active and where the
// pointer was pressed.
type Highlighter struct {
	enum    WindowEnumerator
	enabled bool
	screen  geom.Rect
	down    geom.Point
	pressed bool
}

// New returns an enabled highlighter. enum may be nil, in which case no
// window is ever found.
func New(enum WindowEnumerator) *Highlighter {
	return &Highlighter{enum: enum, enabled: true}
}

// SetEnumerator swaps the window source, typically after a new capture.
func (h *Highlighter) SetEnumerator(enum WindowEnumerator) { h.enum = enum }

// SetScreen sets the bounds highlight rectangles are clamped to.
func (h *Highlighter) SetScreen(r geom.Rect) { h.screen = r }

// Enabled reports whether hover detection is active.
func (h *Highlighter) Enabled() bool { return h.enabled }

// Disable turns hover detection off until the next Reset or release
// without a selection.
func (h *Highlighter) Disable() { h.enabled = false }

// Reset re-enables hover detection and forgets the press.
func (h *Highlighter) Reset() {
	h.enabled = true
	h.pressed = false
}

// OnMouseDown records the press position used for drag detection.
func (h *Highlighter) OnMouseDown(x, y int) {
	h.down = geom.Pt(x, y)
	h.pressed = true
}

// OnMouseMove reacts to pointer motion. current is the highlight the caller
// currently displays, or nil.
func (h *Highlighter) OnMouseMove(x, y int, current *Candidate, pressed bool) Move {
	if !h.enabled {
		return Move{}
	}
	if pressed {
		if current != nil && geom.DragExceeded(h.down, geom.Pt(x, y), geom.DragThreshold) {
			h.enabled = false
			return Move{Kind: MoveBeginManual, Start: h.down}
		}
		return Move{}
	}
	c, ok := h.detect(x, y)
	if !ok {
		if current != nil {
			return Move{Kind: MoveClear}
		}
		return Move{}
	}
	if current != nil && current.ID == c.ID && current.Rect == c.Rect {
		return Move{}
	}
	return Move{Kind: MoveSet, Candidate: c}
}

func (h *Highlighter) detect(x, y int) (Candidate, bool) {
	if h.enum == nil {
		return Candidate{}, false
	}
	c, ok := h.enum.WindowAt(x, y)
	if !ok {
		return Candidate{}, false
	}
	if h.screen.HasArea() {
		c.Rect = c.Rect.Clamp(h.screen)
	}
	if !c.Rect.HasArea() {
		return Candidate{}, false
	}
	return c, true
}

// OnMouseUp decides whether a release promotes the hovered window into a
// confirmed selection. Highlighting stays off while a selection exists.
func (h *Highlighter) OnMouseUp(wasClick, hadSelection, hadHighlight bool) bool {
	h.pressed = false
	promote := wasClick && hadHighlight && !hadSelection
	h.enabled = !(promote || hadSelection)
	return promote
}
