// Package geom holds the integer rectangle and point helpers shared by the
// selection, element and redraw code.
package geom

import (
	"image"
	"math"
)

const (
	// DragThreshold is the pointer travel in pixels that turns a press into a drag.
	DragThreshold = 4
	// HandleTolerance is the hit radius around selection handles.
	HandleTolerance = 5
	// ElementHandleTolerance is the hit radius around element handles.
	ElementHandleTolerance = 8
)

// Point is a position in frame coordinates.
type Point struct {
	X, Y int
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point { return Point{X: x, Y: y} }

// Add returns p translated by dx, dy.
func (p Point) Add(dx, dy int) Point { return Point{X: p.X + dx, Y: p.Y + dy} }

// Rect is an axis aligned rectangle. Containment is inclusive on every edge,
// so the zero Rect is the single pixel at the origin.
type Rect struct {
	Left, Top, Right, Bottom int
}

// None covers no pixels. It is the identity for Union.
var None = Rect{Right: -1, Bottom: -1}

// R builds a rectangle from its edges and normalizes it.
func R(left, top, right, bottom int) Rect {
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}.Canon()
}

// FromPoints returns the normalized rectangle spanned by two points.
func FromPoints(a, b Point) Rect {
	return R(a.X, a.Y, b.X, b.Y)
}

// FromImage converts an image.Rectangle. Max is exclusive there and inclusive here.
func FromImage(r image.Rectangle) Rect {
	if r.Empty() {
		return None
	}
	return Rect{Left: r.Min.X, Top: r.Min.Y, Right: r.Max.X - 1, Bottom: r.Max.Y - 1}
}

// Image converts r into an image.Rectangle covering the same pixels.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Right+1, r.Bottom+1)
}

// Canon swaps edges so that Left<=Right and Top<=Bottom.
func (r Rect) Canon() Rect {
	if r.Left > r.Right {
		r.Left, r.Right = r.Right, r.Left
	}
	if r.Top > r.Bottom {
		r.Top, r.Bottom = r.Bottom, r.Top
	}
	return r
}

func (r Rect) Width() int  { return r.Right - r.Left }
func (r Rect) Height() int { return r.Bottom - r.Top }

// Empty reports whether r covers no pixels, as None and other inverted
// rectangles do. Canonical rectangles are never empty.
func (r Rect) Empty() bool { return r.Right < r.Left || r.Bottom < r.Top }

// HasArea reports whether r spans a non-zero width and height.
func (r Rect) HasArea() bool { return r.Width() > 0 && r.Height() > 0 }

// Min returns the top-left corner.
func (r Rect) Min() Point { return Point{X: r.Left, Y: r.Top} }

// Max returns the bottom-right corner.
func (r Rect) Max() Point { return Point{X: r.Right, Y: r.Bottom} }

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{X: (r.Left + r.Right) / 2, Y: (r.Top + r.Bottom) / 2}
}

// Contains reports whether (x, y) lies inside r or on its border.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x <= r.Right && y >= r.Top && y <= r.Bottom
}

// Intersects reports whether r and o share at least one pixel.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.Left <= o.Right && o.Left <= r.Right && r.Top <= o.Bottom && o.Top <= r.Bottom
}

// Union returns the smallest rectangle covering r and o. An empty operand is ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	return Rect{
		Left:   min(r.Left, o.Left),
		Top:    min(r.Top, o.Top),
		Right:  max(r.Right, o.Right),
		Bottom: max(r.Bottom, o.Bottom),
	}
}

// Intersect returns the overlap of r and o. It returns None and false when
// they share no pixel.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	if !r.Intersects(o) {
		return None, false
	}
	return Rect{
		Left:   max(r.Left, o.Left),
		Top:    max(r.Top, o.Top),
		Right:  min(r.Right, o.Right),
		Bottom: min(r.Bottom, o.Bottom),
	}, true
}

// Inset grows r by n pixels on every side. Negative n shrinks it.
func (r Rect) Inset(n int) Rect {
	return Rect{Left: r.Left - n, Top: r.Top - n, Right: r.Right + n, Bottom: r.Bottom + n}
}

// Offset translates r.
func (r Rect) Offset(dx, dy int) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Clamp limits every edge of r to bounds.
func (r Rect) Clamp(bounds Rect) Rect {
	return Rect{
		Left:   clamp(r.Left, bounds.Left, bounds.Right),
		Top:    clamp(r.Top, bounds.Top, bounds.Bottom),
		Right:  clamp(r.Right, bounds.Left, bounds.Right),
		Bottom: clamp(r.Bottom, bounds.Top, bounds.Bottom),
	}
}

// KeepInside translates r so that it fits within bounds without changing its
// size, unless it is larger than bounds.
func (r Rect) KeepInside(bounds Rect) Rect {
	dx, dy := 0, 0
	if r.Left < bounds.Left {
		dx = bounds.Left - r.Left
	} else if r.Right > bounds.Right {
		dx = bounds.Right - r.Right
	}
	if r.Top < bounds.Top {
		dy = bounds.Top - r.Top
	} else if r.Bottom > bounds.Bottom {
		dy = bounds.Bottom - r.Bottom
	}
	return r.Offset(dx, dy)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DragExceeded reports whether the pointer moved more than threshold pixels
// from a to b on either axis.
func DragExceeded(a, b Point, threshold int) bool {
	return abs(b.X-a.X) > threshold || abs(b.Y-a.Y) > threshold
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// DistanceToSegment returns the distance from p to the segment a-b.
func DistanceToSegment(p, a, b Point) float64 {
	px, py := float64(p.X), float64(p.Y)
	ax, ay := float64(a.X), float64(a.Y)
	bx, by := float64(b.X), float64(b.Y)
	dx, dy := bx-ax, by-ay
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(px-ax, py-ay)
	}
	t := ((px-ax)*dx + (py-ay)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(px-(ax+t*dx), py-(ay+t*dy))
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(float64(b.X-a.X), float64(b.Y-a.Y))
}
