// Package element models the annotations drawn on top of a captured frame.
package element

import (
	"image/color"
	"math"

	"github.com/example/snapmark/internal/geom"
)

// Tool selects the kind of annotation created by a drawing drag.
type Tool int

const (
	ToolNone Tool = iota
	ToolRectangle
	ToolCircle
	ToolArrow
	ToolPen
	ToolText
)

var toolNames = map[Tool]string{
	ToolNone:      "none",
	ToolRectangle: "rectangle",
	ToolCircle:    "circle",
	ToolArrow:     "arrow",
	ToolPen:       "pen",
	ToolText:      "text",
}

func (t Tool) String() string {
	if n, ok := toolNames[t]; ok {
		return n
	}
	return "unknown"
}

// ParseTool maps a tool name back to its value.
func ParseTool(name string) (Tool, bool) {
	for t, n := range toolNames {
		if n == name {
			return t, true
		}
	}
	return ToolNone, false
}

const (
	DefaultStrokeWidth = 3
	DefaultFontSize    = 20.0
	MinFontSize        = 8.0
	MaxFontSize        = 200.0

	DefaultTextWidth  = 120
	DefaultTextHeight = 32
	TextPadding       = 4

	ClickTolerance = 5

	ArrowHeadLength = 15.0
	ArrowHeadAngle  = 0.5
	ArrowHeadMargin = 20
	ArrowMinLength  = 20.0

	// TextHandleTolerance is the grip radius for text corners.
	TextHandleTolerance = 12
)

// DefaultColor is the stroke colour used when no style is configured.
var DefaultColor = color.RGBA{R: 255, A: 255}

// Style is the paint applied to an element.
type Style struct {
	Color       color.RGBA
	StrokeWidth int
	FontSize    float64
}

// DefaultStyle returns the built in red 3px style.
func DefaultStyle() Style {
	return Style{Color: DefaultColor, StrokeWidth: DefaultStrokeWidth, FontSize: DefaultFontSize}
}

// Element is a single annotation.
type Element struct {
	ID     uint64
	Tool   Tool
	Points []geom.Point
	Bounds geom.Rect
	Style  Style

	Text string
	// Cursor is the insertion point in grapheme clusters.
	Cursor int

	Selected bool
}

// New creates an element of the given tool starting at p.
func New(tool Tool, p geom.Point, style Style) Element {
	e := Element{Tool: tool, Points: []geom.Point{p}, Style: style}
	if tool == ToolText {
		e.Style.FontSize = clampFontSize(style.FontSize)
	}
	e.UpdateBounds()
	return e
}

func clampFontSize(size float64) float64 {
	if size <= 0 {
		return DefaultFontSize
	}
	return math.Max(MinFontSize, math.Min(MaxFontSize, size))
}

// Clone returns a deep copy of e.
func (e Element) Clone() Element {
	c := e
	c.Points = append([]geom.Point(nil), e.Points...)
	return c
}

// Equal reports whether two elements carry the same geometry, style and text.
func (e Element) Equal(o Element) bool {
	if e.Tool != o.Tool || e.Bounds != o.Bounds || e.Style != o.Style || e.Text != o.Text {
		return false
	}
	if len(e.Points) != len(o.Points) {
		return false
	}
	for i := range e.Points {
		if e.Points[i] != o.Points[i] {
			return false
		}
	}
	return true
}

// UpdateBounds recomputes Bounds from the points.
func (e *Element) UpdateBounds() {
	if len(e.Points) == 0 {
		return
	}
	start := e.Points[0]
	switch e.Tool {
	case ToolText:
		if len(e.Points) >= 2 {
			e.Bounds = geom.FromPoints(start, e.Points[1])
		} else {
			e.Bounds = geom.Rect{Left: start.X, Top: start.Y, Right: start.X + DefaultTextWidth, Bottom: start.Y + DefaultTextHeight}
		}
	case ToolPen:
		r := geom.Rect{Left: start.X, Top: start.Y, Right: start.X, Bottom: start.Y}
		for _, p := range e.Points[1:] {
			r.Left = min(r.Left, p.X)
			r.Top = min(r.Top, p.Y)
			r.Right = max(r.Right, p.X)
			r.Bottom = max(r.Bottom, p.Y)
		}
		e.Bounds = r.Inset(e.Style.StrokeWidth/2 + 1)
	case ToolRectangle, ToolCircle:
		if len(e.Points) >= 2 {
			e.Bounds = geom.FromPoints(start, e.Points[1])
		}
	case ToolArrow:
		if len(e.Points) >= 2 {
			e.Bounds = geom.FromPoints(start, e.Points[1]).Inset(ArrowHeadMargin)
		}
	}
}

// End returns the last point, used as the drag end for two-point tools.
func (e *Element) End() geom.Point {
	return e.Points[len(e.Points)-1]
}

// SetEnd sets the second point of a two-point element, adding it if missing.
func (e *Element) SetEnd(p geom.Point) {
	if len(e.Points) < 2 {
		e.Points = append(e.Points, p)
	} else {
		e.Points[1] = p
	}
	e.UpdateBounds()
}

// AddPoint extends a pen stroke.
func (e *Element) AddPoint(p geom.Point) {
	if n := len(e.Points); n > 0 && e.Points[n-1] == p {
		return
	}
	e.Points = append(e.Points, p)
	e.UpdateBounds()
}

// Contains reports whether (x, y) hits the element.
func (e *Element) Contains(x, y int) bool {
	p := geom.Pt(x, y)
	tolerance := float64(e.Style.StrokeWidth + ClickTolerance)
	switch e.Tool {
	case ToolPen:
		for i := 0; i+1 < len(e.Points); i++ {
			if geom.DistanceToSegment(p, e.Points[i], e.Points[i+1]) <= tolerance {
				return true
			}
		}
		return false
	case ToolRectangle, ToolCircle:
		if len(e.Points) < 2 {
			return false
		}
		return geom.FromPoints(e.Points[0], e.Points[1]).Contains(x, y)
	case ToolArrow:
		if len(e.Points) < 2 {
			return false
		}
		start, end := e.Points[0], e.Points[1]
		if geom.DistanceToSegment(p, start, end) <= tolerance {
			return true
		}
		if w1, w2, ok := ArrowWings(start, end); ok {
			return geom.DistanceToSegment(p, end, w1) <= tolerance ||
				geom.DistanceToSegment(p, end, w2) <= tolerance
		}
		return false
	case ToolText:
		return e.Bounds.Contains(x, y)
	}
	return false
}

// ArrowWings returns the tips of the two head strokes of an arrow from start
// to end. ok is false when the arrow is too short to carry a head.
func ArrowWings(start, end geom.Point) (w1, w2 geom.Point, ok bool) {
	dx := float64(end.X - start.X)
	dy := float64(end.Y - start.Y)
	length := math.Hypot(dx, dy)
	if length <= ArrowMinLength {
		return geom.Point{}, geom.Point{}, false
	}
	ux, uy := dx/length, dy/length
	cos, sin := math.Cos(ArrowHeadAngle), math.Sin(ArrowHeadAngle)
	w1 = geom.Point{
		X: end.X - int(ArrowHeadLength*(ux*cos+uy*sin)),
		Y: end.Y - int(ArrowHeadLength*(uy*cos-ux*sin)),
	}
	w2 = geom.Point{
		X: end.X - int(ArrowHeadLength*(ux*cos-uy*sin)),
		Y: end.Y - int(ArrowHeadLength*(uy*cos+ux*sin)),
	}
	return w1, w2, true
}

// Resize fits the element into r using the rule for its tool and adopts r
// as its bounds.
func (e *Element) Resize(r geom.Rect) {
	r = r.Canon()
	switch e.Tool {
	case ToolRectangle, ToolCircle:
		if len(e.Points) >= 2 {
			e.Points[0] = r.Min()
			e.Points[1] = r.Max()
		}
	case ToolArrow:
		if len(e.Points) >= 2 {
			old := e.Bounds
			for i := 0; i < 2; i++ {
				e.Points[i] = scalePoint(e.Points[i], old, r)
			}
		}
	case ToolPen:
		old := e.Bounds
		for i := range e.Points {
			e.Points[i] = scalePoint(e.Points[i], old, r)
		}
	case ToolText:
		if len(e.Points) == 0 {
			return
		}
		e.Points[0] = r.Min()
		if len(e.Points) >= 2 {
			e.Points[1] = r.Max()
		} else {
			e.Points = append(e.Points, r.Max())
		}
	}
	e.Bounds = r
}

// scalePoint maps p from its relative position in from onto to. Source
// sizes below one pixel are treated as one.
func scalePoint(p geom.Point, from, to geom.Rect) geom.Point {
	ow := float64(max(from.Width(), 1))
	oh := float64(max(from.Height(), 1))
	return geom.Point{
		X: to.Left + int(float64(p.X-from.Left)*float64(to.Width())/ow),
		Y: to.Top + int(float64(p.Y-from.Top)*float64(to.Height())/oh),
	}
}

// MoveBy translates the element.
func (e *Element) MoveBy(dx, dy int) {
	for i := range e.Points {
		e.Points[i] = e.Points[i].Add(dx, dy)
	}
	e.Bounds = e.Bounds.Offset(dx, dy)
}

// HandleSet describes which grips an element exposes.
type HandleSet int

const (
	HandlesNone HandleSet = iota
	HandlesFull
	HandlesCorners
	HandlesEndpoints
)

// Handles returns the grip set for the element's tool.
func (e *Element) Handles() HandleSet {
	switch e.Tool {
	case ToolArrow:
		return HandlesEndpoints
	case ToolText:
		return HandlesCorners
	case ToolPen:
		return HandlesNone
	case ToolRectangle, ToolCircle:
		return HandlesFull
	}
	return HandlesNone
}

var cornerHandles = []geom.Handle{geom.HandleTopLeft, geom.HandleTopRight, geom.HandleBottomRight, geom.HandleBottomLeft}

// HandleAt returns the grip of the element under (x, y). Arrows report
// HandleTopLeft for the start point and HandleBottomRight for the end point.
func (e *Element) HandleAt(x, y int) geom.Handle {
	switch e.Handles() {
	case HandlesFull:
		return geom.HandleAt(e.Bounds, x, y, geom.ElementHandleTolerance)
	case HandlesCorners:
		return geom.HandleAtAmong(e.Bounds, x, y, TextHandleTolerance, cornerHandles)
	case HandlesEndpoints:
		if len(e.Points) < 2 {
			return geom.HandleNone
		}
		p := geom.Pt(x, y)
		if geom.Distance(p, e.Points[0]) <= geom.ElementHandleTolerance {
			return geom.HandleTopLeft
		}
		if geom.Distance(p, e.Points[1]) <= geom.ElementHandleTolerance {
			return geom.HandleBottomRight
		}
	}
	return geom.HandleNone
}

// DragHandle applies a handle drag of dx, dy to a copy of start and returns
// the result. Arrow endpoints move independently, other tools resize their
// bounds through the handle.
func DragHandle(start Element, h geom.Handle, dx, dy int) Element {
	e := start.Clone()
	if e.Tool == ToolArrow && len(e.Points) >= 2 {
		switch h {
		case geom.HandleTopLeft:
			e.Points[0] = e.Points[0].Add(dx, dy)
		case geom.HandleBottomRight:
			e.Points[1] = e.Points[1].Add(dx, dy)
		}
		e.UpdateBounds()
		return e
	}
	r := geom.ResizeByHandle(start.Bounds, h, dx, dy)
	if !r.HasArea() {
		return e
	}
	e.Resize(r)
	return e
}
