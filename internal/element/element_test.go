package element

import (
	"testing"

	"github.com/example/snapmark/internal/geom"
)

func twoPoint(tool Tool, a, b geom.Point) Element {
	e := New(tool, a, DefaultStyle())
	e.SetEnd(b)
	return e
}

func TestBoundsPerTool(t *testing.T) {
	tests := []struct {
		name string
		e    Element
		want geom.Rect
	}{
		{"rectangle", twoPoint(ToolRectangle, geom.Pt(60, 60), geom.Pt(20, 20)), geom.R(20, 20, 60, 60)},
		{"circle", twoPoint(ToolCircle, geom.Pt(0, 0), geom.Pt(10, 30)), geom.R(0, 0, 10, 30)},
		{"arrow", twoPoint(ToolArrow, geom.Pt(50, 50), geom.Pt(100, 60)), geom.R(30, 30, 120, 80)},
		{"text default", New(ToolText, geom.Pt(5, 5), DefaultStyle()), geom.R(5, 5, 125, 37)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.e.Bounds != tt.want {
				t.Fatalf("Bounds = %+v, want %+v", tt.e.Bounds, tt.want)
			}
		})
	}
}

func TestPenBoundsIncludeStroke(t *testing.T) {
	e := New(ToolPen, geom.Pt(10, 10), DefaultStyle())
	e.AddPoint(geom.Pt(20, 30))
	e.AddPoint(geom.Pt(5, 15))
	// stroke 3 gives a 2px margin
	if want := geom.R(3, 8, 22, 32); e.Bounds != want {
		t.Fatalf("Bounds = %+v, want %+v", e.Bounds, want)
	}
}

func TestContainsPerTool(t *testing.T) {
	rect := twoPoint(ToolRectangle, geom.Pt(20, 20), geom.Pt(60, 60))
	if !rect.Contains(40, 40) || rect.Contains(70, 40) {
		t.Errorf("rectangle hit test wrong")
	}

	pen := New(ToolPen, geom.Pt(0, 0), DefaultStyle())
	pen.AddPoint(geom.Pt(100, 0))
	if !pen.Contains(50, 7) {
		t.Errorf("pen should be hit within stroke plus tolerance")
	}
	if pen.Contains(50, 9) {
		t.Errorf("pen should miss beyond tolerance")
	}

	arrow := twoPoint(ToolArrow, geom.Pt(0, 100), geom.Pt(100, 100))
	if !arrow.Contains(50, 102) {
		t.Errorf("arrow shaft miss")
	}
	w1, _, ok := ArrowWings(arrow.Points[0], arrow.Points[1])
	if !ok {
		t.Fatal("arrow should have a head")
	}
	if !arrow.Contains(w1.X, w1.Y) {
		t.Errorf("arrow wing tip %v miss", w1)
	}
	if arrow.Contains(50, 140) {
		t.Errorf("arrow should miss far point")
	}
}

func TestShortArrowHasNoHead(t *testing.T) {
	if _, _, ok := ArrowWings(geom.Pt(0, 0), geom.Pt(10, 0)); ok {
		t.Fatal("arrows shorter than the minimum should not carry a head")
	}
}

func TestResizeRules(t *testing.T) {
	rect := twoPoint(ToolRectangle, geom.Pt(0, 0), geom.Pt(10, 10))
	rect.Resize(geom.R(5, 5, 25, 45))
	if rect.Points[0] != geom.Pt(5, 5) || rect.Points[1] != geom.Pt(25, 45) {
		t.Errorf("rectangle points = %v", rect.Points)
	}

	pen := New(ToolPen, geom.Pt(0, 0), Style{StrokeWidth: 0})
	pen.AddPoint(geom.Pt(10, 10))
	// bounds are (-1,-1,11,11) with a 1px margin
	pen.Resize(geom.R(-1, -1, 23, 23))
	if pen.Points[1] != geom.Pt(21, 21) {
		t.Errorf("pen end = %v, want 21,21", pen.Points[1])
	}
	if pen.Bounds != geom.R(-1, -1, 23, 23) {
		t.Errorf("pen bounds = %+v", pen.Bounds)
	}

	text := New(ToolText, geom.Pt(0, 0), DefaultStyle())
	text.Resize(geom.R(10, 10, 200, 60))
	if len(text.Points) != 2 || text.Points[1] != geom.Pt(200, 60) {
		t.Errorf("text points = %v", text.Points)
	}
}

func TestArrowResizeProportional(t *testing.T) {
	a := twoPoint(ToolArrow, geom.Pt(20, 20), geom.Pt(120, 20))
	// bounds (0,0,140,40)
	a.Resize(geom.R(0, 0, 280, 80))
	if a.Points[0] != geom.Pt(40, 40) || a.Points[1] != geom.Pt(240, 40) {
		t.Fatalf("arrow points = %v", a.Points)
	}
}

func TestMoveBy(t *testing.T) {
	e := twoPoint(ToolCircle, geom.Pt(0, 0), geom.Pt(10, 10))
	e.MoveBy(5, -5)
	if e.Bounds != geom.R(5, -5, 15, 5) || e.Points[0] != geom.Pt(5, -5) {
		t.Fatalf("moved = %+v %v", e.Bounds, e.Points)
	}
}

func TestElementHandles(t *testing.T) {
	rect := twoPoint(ToolRectangle, geom.Pt(0, 0), geom.Pt(100, 100))
	if h := rect.HandleAt(98, 50); h != geom.HandleRight {
		t.Errorf("rect handle = %v", h)
	}
	text := New(ToolText, geom.Pt(0, 0), DefaultStyle())
	if h := text.HandleAt(60, 0); h != geom.HandleNone {
		t.Errorf("text should expose corners only, got %v", h)
	}
	if h := text.HandleAt(110, 30); h != geom.HandleBottomRight {
		t.Errorf("text corner = %v", h)
	}
	pen := New(ToolPen, geom.Pt(0, 0), DefaultStyle())
	pen.AddPoint(geom.Pt(50, 50))
	if h := pen.HandleAt(pen.Bounds.Left, pen.Bounds.Top); h != geom.HandleNone {
		t.Errorf("pen should have no handles, got %v", h)
	}
	arrow := twoPoint(ToolArrow, geom.Pt(0, 0), geom.Pt(100, 0))
	if h := arrow.HandleAt(99, 2); h != geom.HandleBottomRight {
		t.Errorf("arrow end handle = %v", h)
	}
}

func TestDragHandleArrowEndpoint(t *testing.T) {
	a := twoPoint(ToolArrow, geom.Pt(0, 0), geom.Pt(100, 0))
	moved := DragHandle(a, geom.HandleBottomRight, 10, 20)
	if moved.Points[1] != geom.Pt(110, 20) || moved.Points[0] != geom.Pt(0, 0) {
		t.Fatalf("points = %v", moved.Points)
	}
	if a.Points[1] != geom.Pt(100, 0) {
		t.Fatalf("DragHandle mutated its input")
	}
}

func TestParseTool(t *testing.T) {
	for tool, name := range toolNames {
		got, ok := ParseTool(name)
		if !ok || got != tool {
			t.Errorf("ParseTool(%q) = %v, %v", name, got, ok)
		}
	}
	if _, ok := ParseTool("laser"); ok {
		t.Errorf("unknown tool accepted")
	}
}
