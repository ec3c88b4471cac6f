package history

import (
	"errors"
	"testing"

	"github.com/example/snapmark/internal/element"
	"github.com/example/snapmark/internal/geom"
)

func rect(x int) element.Element {
	e := element.New(element.ToolRectangle, geom.Pt(x, x), element.DefaultStyle())
	e.SetEnd(geom.Pt(x+40, x+40))
	return e
}

func addN(t *testing.T, s *element.Store, h *Stack, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		e := rect(i * 10)
		idx := s.Add(e)
		got, _ := s.Get(idx)
		h.Push(Added(idx, *got))
	}
}

func TestUndoAllAdds(t *testing.T) {
	s := element.NewStore()
	h := New(0)
	addN(t, s, h, 5)
	for i := 0; i < 5; i++ {
		if !h.Undo(s) {
			t.Fatalf("undo %d failed", i)
		}
	}
	if s.Len() != 0 {
		t.Fatalf("store len = %d, want 0", s.Len())
	}
	if h.Undo(s) {
		t.Fatal("undo on empty history should return false")
	}
	if s.Len() != 0 {
		t.Fatal("empty undo changed the store")
	}
}

func TestRedoRestoresSameElement(t *testing.T) {
	s := element.NewStore()
	h := New(0)
	addN(t, s, h, 1)
	orig, _ := s.Get(0)
	id := orig.ID
	h.Undo(s)
	if !h.Redo(s) {
		t.Fatal("redo failed")
	}
	got, ok := s.Get(0)
	if !ok || got.ID != id || got.Bounds != geom.R(0, 0, 40, 40) {
		t.Fatalf("redo restored %+v", got)
	}
}

func TestPushClearsRedo(t *testing.T) {
	s := element.NewStore()
	h := New(0)
	addN(t, s, h, 2)
	h.Undo(s)
	if !h.CanRedo() {
		t.Fatal("expected redo after undo")
	}
	addN(t, s, h, 1)
	if h.CanRedo() {
		t.Fatal("push should clear redo")
	}
}

func TestModifyAndRemove(t *testing.T) {
	s := element.NewStore()
	h := New(0)
	idx := s.Add(rect(0))
	before, _ := s.Get(idx)
	b := before.Clone()
	s.MoveBy(idx, 10, 0)
	after, _ := s.Get(idx)
	h.Push(Modified(idx, b, *after))

	removed, _ := s.Remove(idx)
	h.Push(Removed(idx, removed))

	h.Undo(s) // restore
	if s.Len() != 1 {
		t.Fatalf("len = %d after undoing remove", s.Len())
	}
	h.Undo(s) // unmove
	got, _ := s.Get(0)
	if got.Bounds != geom.R(0, 0, 40, 40) {
		t.Fatalf("bounds after undoing move = %+v", got.Bounds)
	}
	h.Redo(s)
	got, _ = s.Get(0)
	if got.Bounds != geom.R(10, 0, 50, 40) {
		t.Fatalf("bounds after redoing move = %+v", got.Bounds)
	}
}

func TestLimitDropsOldest(t *testing.T) {
	s := element.NewStore()
	h := New(3)
	addN(t, s, h, 5)
	if h.Len() != 3 {
		t.Fatalf("Len = %d, want 3", h.Len())
	}
	for h.Undo(s) {
	}
	if s.Len() != 2 {
		t.Fatalf("store len = %d, want the 2 unrecorded elements", s.Len())
	}
}

func TestCorruptHistoryIsDiscarded(t *testing.T) {
	s := element.NewStore()
	h := New(0)
	addN(t, s, h, 2)
	s.Clear()
	if err := h.Step(s, true); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("Step err = %v, want ErrCorrupt", err)
	}
	if h.Undo(s) {
		t.Fatal("undo against a corrupt history should fail")
	}
	if h.CanUndo() || h.CanRedo() {
		t.Fatal("corrupt history should be cleared")
	}
}

func TestStepSentinels(t *testing.T) {
	h := New(0)
	s := element.NewStore()
	if err := h.Step(s, true); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("err = %v", err)
	}
	if err := h.Step(s, false); !errors.Is(err, ErrNothingToRedo) {
		t.Fatalf("err = %v", err)
	}
}
