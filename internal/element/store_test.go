package element

import (
	"testing"

	"github.com/example/snapmark/internal/geom"
)

func TestStoreHitTestPrefersNewest(t *testing.T) {
	s := NewStore()
	a := s.Add(twoPoint(ToolRectangle, geom.Pt(0, 0), geom.Pt(100, 100)))
	b := s.Add(twoPoint(ToolRectangle, geom.Pt(50, 50), geom.Pt(150, 150)))
	if got := s.HitTest(75, 75); got != b {
		t.Fatalf("HitTest overlap = %d, want %d", got, b)
	}
	if got := s.HitTest(10, 10); got != a {
		t.Fatalf("HitTest = %d, want %d", got, a)
	}
	if got := s.HitTest(300, 300); got != -1 {
		t.Fatalf("HitTest miss = %d", got)
	}
}

func TestStoreHitTestWithin(t *testing.T) {
	s := NewStore()
	s.Add(twoPoint(ToolRectangle, geom.Pt(0, 0), geom.Pt(10, 10)))
	if got := s.HitTestWithin(5, 5, geom.R(50, 50, 100, 100)); got != -1 {
		t.Fatalf("element outside clip was hit: %d", got)
	}
	if got := s.HitTestWithin(5, 5, geom.R(0, 0, 100, 100)); got != 0 {
		t.Fatalf("HitTestWithin = %d", got)
	}
}

func TestStoreSingleSelection(t *testing.T) {
	s := NewStore()
	s.Add(twoPoint(ToolRectangle, geom.Pt(0, 0), geom.Pt(10, 10)))
	s.Add(twoPoint(ToolCircle, geom.Pt(0, 0), geom.Pt(10, 10)))
	s.SetSelected(0)
	s.SetSelected(1)
	count := 0
	for _, e := range s.Elements() {
		if e.Selected {
			count++
		}
	}
	if count != 1 || s.Selected() != 1 {
		t.Fatalf("selected count = %d index = %d", count, s.Selected())
	}
	s.SetSelected(-1)
	if s.Selected() != -1 || s.Elements()[1].Selected {
		t.Fatal("SetSelected(-1) should clear")
	}
}

func TestStoreSelectionFollowsRemoval(t *testing.T) {
	s := NewStore()
	for i := 0; i < 3; i++ {
		s.Add(twoPoint(ToolRectangle, geom.Pt(i, i), geom.Pt(i+10, i+10)))
	}
	s.SetSelected(2)
	s.Remove(0)
	if s.Selected() != 1 {
		t.Fatalf("selected = %d, want 1 after earlier removal", s.Selected())
	}
	s.Remove(1)
	if s.Selected() != -1 {
		t.Fatalf("selected = %d, want -1 after removing selected", s.Selected())
	}
	if _, ok := s.Remove(5); ok {
		t.Fatal("out of range Remove succeeded")
	}
}

func TestStoreInsertKeepsID(t *testing.T) {
	s := NewStore()
	s.Add(twoPoint(ToolRectangle, geom.Pt(0, 0), geom.Pt(10, 10)))
	e, _ := s.Remove(0)
	if !s.Insert(0, e) {
		t.Fatal("Insert failed")
	}
	got, _ := s.Get(0)
	if got.ID != e.ID {
		t.Fatalf("ID = %d, want %d", got.ID, e.ID)
	}
	if s.Insert(3, e) {
		t.Fatal("Insert past end succeeded")
	}
}

func TestStoreMutateRecomputesBounds(t *testing.T) {
	s := NewStore()
	i := s.Add(twoPoint(ToolRectangle, geom.Pt(0, 0), geom.Pt(10, 10)))
	s.Mutate(i, func(e *Element) { e.Points[1] = geom.Pt(40, 50) })
	e, _ := s.Get(i)
	if e.Bounds != geom.R(0, 0, 40, 50) {
		t.Fatalf("Bounds = %+v", e.Bounds)
	}
}

func TestStoreLimit(t *testing.T) {
	s := NewStore()
	s.limit = 2
	s.Add(New(ToolPen, geom.Pt(0, 0), DefaultStyle()))
	s.Add(New(ToolPen, geom.Pt(0, 0), DefaultStyle()))
	if got := s.Add(New(ToolPen, geom.Pt(0, 0), DefaultStyle())); got != -1 {
		t.Fatalf("Add over limit = %d", got)
	}
}

func TestStoreTextEditing(t *testing.T) {
	s := NewStore()
	i := s.Add(New(ToolText, geom.Pt(0, 0), DefaultStyle()))
	for _, r := range "hi" {
		s.InsertChar(i, r)
	}
	s.Backspace(i)
	e, _ := s.Get(i)
	if e.Text != "h" || e.Cursor != 1 {
		t.Fatalf("text = %q cursor = %d", e.Text, e.Cursor)
	}
	rect := s.Add(twoPoint(ToolRectangle, geom.Pt(0, 0), geom.Pt(1, 1)))
	if s.InsertChar(rect, 'x') {
		t.Fatal("InsertChar on a non text element succeeded")
	}
}
