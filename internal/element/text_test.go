package element

import (
	"testing"

	"github.com/example/snapmark/internal/geom"
)

func newText(s string) *Element {
	e := New(ToolText, geom.Pt(0, 0), DefaultStyle())
	e.InsertText(s)
	return &e
}

func TestInsertAndBackspace(t *testing.T) {
	e := newText("helo")
	e.SetCursor(3)
	e.InsertText("l")
	if e.Text != "hello" || e.Cursor != 4 {
		t.Fatalf("text = %q cursor = %d", e.Text, e.Cursor)
	}
	if !e.Backspace() || e.Text != "helo" || e.Cursor != 3 {
		t.Fatalf("after backspace text = %q cursor = %d", e.Text, e.Cursor)
	}
	e.SetCursor(0)
	if e.Backspace() {
		t.Fatal("backspace at start should be a no-op")
	}
}

func TestCursorCountsGraphemes(t *testing.T) {
	e := newText("a\U0001F44D\U0001F3FDb")
	if e.GraphemeCount() != 3 {
		t.Fatalf("GraphemeCount = %d", e.GraphemeCount())
	}
	e.MoveCursor(CursorLeft)
	e.Backspace()
	if e.Text != "ab" {
		t.Fatalf("backspace removed a partial cluster: %q", e.Text)
	}
}

func TestCombiningMarkJoinsCluster(t *testing.T) {
	e := newText("e")
	e.InsertText("\u0301")
	if e.Cursor != 1 {
		t.Fatalf("cursor = %d, want 1 after combining mark", e.Cursor)
	}
}

func TestCursorClamped(t *testing.T) {
	e := newText("abc")
	e.SetCursor(99)
	if e.Cursor != 3 {
		t.Fatalf("cursor = %d", e.Cursor)
	}
	if e.MoveCursor(CursorRight) {
		t.Fatal("moving right at the end should not change the cursor")
	}
	e.SetCursor(-4)
	if e.Cursor != 0 {
		t.Fatalf("cursor = %d", e.Cursor)
	}
}

func TestLineNavigation(t *testing.T) {
	e := newText("abcdef\nxy\nlonger")
	// cursor at end of "longer"
	e.MoveCursor(CursorUp)
	if line, col := e.CursorLine(); line != 1 || col != 2 {
		t.Fatalf("after up line=%d col=%d", line, col)
	}
	e.MoveCursor(CursorUp)
	if line, col := e.CursorLine(); line != 0 || col != 2 {
		t.Fatalf("after second up line=%d col=%d", line, col)
	}
	e.MoveCursor(CursorLineEnd)
	if e.Cursor != 6 {
		t.Fatalf("line end cursor = %d", e.Cursor)
	}
	e.MoveCursor(CursorDown)
	if line, col := e.CursorLine(); line != 1 || col != 2 {
		t.Fatalf("down clamps to shorter line, got line=%d col=%d", line, col)
	}
	e.MoveCursor(CursorLineStart)
	if e.Cursor != 7 {
		t.Fatalf("line start cursor = %d", e.Cursor)
	}
}

func TestFitTextGrows(t *testing.T) {
	e := New(ToolText, geom.Pt(10, 10), DefaultStyle())
	e.FitText(ApproxMeasurer{})
	if e.Bounds.Width() != DefaultTextWidth || e.Bounds.Height() != DefaultTextHeight {
		t.Fatalf("empty text bounds = %+v", e.Bounds)
	}
	e.InsertText("a fairly long line of annotation text")
	e.FitText(ApproxMeasurer{})
	if e.Bounds.Width() <= DefaultTextWidth {
		t.Fatalf("bounds did not grow: %+v", e.Bounds)
	}
	if e.Bounds.Min() != geom.Pt(10, 10) {
		t.Fatalf("text box moved: %+v", e.Bounds)
	}
}

func TestBlank(t *testing.T) {
	if !newText(" \n\t").Blank() {
		t.Error("whitespace should be blank")
	}
	if newText(" x ").Blank() {
		t.Error("text should not be blank")
	}
}
