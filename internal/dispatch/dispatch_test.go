package dispatch

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/example/snapmark/internal/action"
	"github.com/example/snapmark/internal/command"
	"github.com/example/snapmark/internal/element"
	"github.com/example/snapmark/internal/geom"
	"github.com/example/snapmark/internal/highlight"
	"github.com/example/snapmark/internal/selection"
)

var screen = geom.R(0, 0, 1919, 1079)

type windows []highlight.Candidate

func (w windows) WindowAt(x, y int) (highlight.Candidate, bool) {
	for _, c := range w {
		if c.Rect.Contains(x, y) {
			return c, true
		}
	}
	return highlight.Candidate{}, false
}

func newSession(t *testing.T, wins windows) *Dispatcher {
	t.Helper()
	d := New(element.DefaultStyle())
	var enum highlight.WindowEnumerator
	if wins != nil {
		enum = wins
	}
	d.Dispatch(action.FrameCaptured{Bounds: screen, Windows: enum})
	return d
}

func run(d *Dispatcher, actions ...action.Action) []command.Command {
	var out []command.Command
	for _, a := range actions {
		out = append(out, d.Dispatch(a)...)
	}
	return out
}

func drag(d *Dispatcher, x0, y0, x1, y1 int) []command.Command {
	return run(d,
		action.PointerDown{X: x0, Y: y0},
		action.PointerMove{X: x1, Y: y1, Pressed: true},
		action.PointerUp{X: x1, Y: y1},
	)
}

func find[T command.Command](cmds []command.Command) (T, bool) {
	for _, c := range cmds {
		if v, ok := c.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func TestDragSelectsRegion(t *testing.T) {
	d := newSession(t, nil)
	cmds := drag(d, 10, 10, 110, 80)
	ph := d.Phase()
	if ph.Kind != selection.Editing || ph.Rect != geom.R(10, 10, 110, 80) {
		t.Fatalf("phase = %+v", ph)
	}
	tb, ok := find[command.UpdateToolbar](cmds)
	if !ok || !tb.Visible || tb.Anchor != ph.Rect {
		t.Fatalf("toolbar = %+v %v", tb, ok)
	}
}

func TestDrawRectangleThenUndo(t *testing.T) {
	d := newSession(t, nil)
	drag(d, 10, 10, 110, 80)
	run(d, action.SelectTool{Tool: element.ToolRectangle})
	drag(d, 20, 20, 60, 60)

	if d.Store().Len() != 1 {
		t.Fatalf("store len = %d", d.Store().Len())
	}
	e, _ := d.Store().Get(0)
	if e.Bounds != geom.R(20, 20, 60, 60) {
		t.Fatalf("bounds = %+v", e.Bounds)
	}
	cmds := run(d, action.Undo{})
	if d.Store().Len() != 0 {
		t.Fatalf("store len after undo = %d", d.Store().Len())
	}
	if tb, ok := find[command.UpdateToolbar](cmds); !ok || tb.CanUndo || !tb.CanRedo {
		t.Fatalf("toolbar after undo = %+v", tb)
	}
	run(d, action.Redo{})
	if d.Store().Len() != 1 {
		t.Fatal("redo did not restore the rectangle")
	}
}

func TestTinyShapeIsDiscarded(t *testing.T) {
	d := newSession(t, nil)
	drag(d, 10, 10, 110, 80)
	run(d, action.SelectTool{Tool: element.ToolCircle})
	drag(d, 30, 30, 32, 31)
	if d.Store().Len() != 0 || d.History().CanUndo() {
		t.Fatalf("degenerate circle kept: len=%d", d.Store().Len())
	}
}

func TestPenStroke(t *testing.T) {
	d := newSession(t, nil)
	drag(d, 10, 10, 300, 300)
	run(d,
		action.SelectTool{Tool: element.ToolPen},
		action.PointerDown{X: 50, Y: 50},
		action.PointerMove{X: 60, Y: 55, Pressed: true},
		action.PointerMove{X: 70, Y: 65, Pressed: true},
		action.PointerUp{X: 80, Y: 70},
	)
	e, ok := d.Store().Get(0)
	if !ok || len(e.Points) != 4 {
		t.Fatalf("pen = %+v", e)
	}
}

func TestAutoHighlightClickPromotes(t *testing.T) {
	d := newSession(t, windows{{ID: 3, Rect: geom.R(0, 0, 200, 200)}})
	cmds := run(d, action.PointerMove{X: 5, Y: 5})
	if d.Hover() == nil || d.Hover().Rect != geom.R(0, 0, 200, 200) {
		t.Fatalf("hover = %+v", d.Hover())
	}
	if _, ok := find[command.Redraw](cmds); !ok {
		t.Fatal("hover should request a redraw")
	}
	run(d, action.PointerDown{X: 5, Y: 5}, action.PointerUp{X: 5, Y: 5})
	if r, ok := d.Selection(); !ok || r != geom.R(0, 0, 200, 200) {
		t.Fatalf("selection = %+v %v", r, ok)
	}
}

func TestAutoHighlightDragGoesManual(t *testing.T) {
	d := newSession(t, windows{{ID: 3, Rect: geom.R(0, 0, 200, 200)}})
	run(d,
		action.PointerMove{X: 5, Y: 5},
		action.PointerDown{X: 5, Y: 5},
		action.PointerMove{X: 5, Y: 60, Pressed: true},
	)
	ph := d.Phase()
	if ph.Kind != selection.Selecting || ph.Rect != geom.R(5, 5, 5, 60) {
		t.Fatalf("candidate = %+v", ph)
	}
	if d.Hover() != nil {
		t.Fatal("hover should be dropped once a manual drag starts")
	}
	run(d, action.PointerUp{X: 5, Y: 60})
	if _, ok := d.Selection(); ok {
		t.Fatal("zero width manual drag should not select")
	}
}

func TestAutoHighlightJitterIgnored(t *testing.T) {
	d := newSession(t, windows{{ID: 3, Rect: geom.R(0, 0, 200, 200)}})
	run(d,
		action.PointerMove{X: 50, Y: 50},
		action.PointerDown{X: 50, Y: 50},
		action.PointerMove{X: 52, Y: 53, Pressed: true},
		action.PointerUp{X: 52, Y: 53},
	)
	if r, ok := d.Selection(); !ok || r != geom.R(0, 0, 200, 200) {
		t.Fatalf("small jitter should still promote, got %+v %v", r, ok)
	}
}

func TestClickWithoutHighlightStaysIdle(t *testing.T) {
	d := newSession(t, nil)
	run(d, action.PointerDown{X: 5, Y: 5}, action.PointerUp{X: 6, Y: 6})
	if d.Phase().Kind != selection.Idle {
		t.Fatalf("phase = %v", d.Phase().Kind)
	}
}

func TestSaveRequiresSelection(t *testing.T) {
	d := newSession(t, nil)
	cmds := run(d, action.Save{Target: action.SaveFile})
	e, ok := find[command.ShowError](cmds)
	if !ok || e.Message != MsgSelectRegion {
		t.Fatalf("cmds = %#v", cmds)
	}
	drag(d, 10, 10, 110, 80)
	cmds = run(d, action.KeyDown{Key: action.KeyRune, Rune: 's', Mods: action.ModCtrl})
	if s, ok := find[command.SaveToFile](cmds); !ok || s.Rect != geom.R(10, 10, 110, 80) {
		t.Fatalf("cmds = %#v", cmds)
	}
}

func TestTextCommitRules(t *testing.T) {
	d := newSession(t, nil)
	drag(d, 10, 10, 400, 300)
	run(d, action.SelectTool{Tool: element.ToolText})

	cmds := run(d, action.PointerDown{X: 50, Y: 50}, action.PointerUp{X: 50, Y: 50})
	if _, ok := find[command.StartTimer](cmds); !ok {
		t.Fatal("text editing should start the caret timer")
	}
	if d.Editing() != 0 {
		t.Fatalf("editing = %d", d.Editing())
	}
	run(d, action.CharInput{Rune: ' '}, action.KeyDown{Key: action.KeyEnter, Mods: action.ModCtrl})
	if d.Store().Len() != 0 || d.History().CanUndo() {
		t.Fatal("blank text should vanish without history")
	}

	run(d, action.PointerDown{X: 60, Y: 60}, action.PointerUp{X: 60, Y: 60})
	for _, r := range "hi" {
		run(d, action.CharInput{Rune: r})
	}
	cmds = run(d, action.KeyDown{Key: action.KeyEnter, Mods: action.ModCtrl})
	if _, ok := find[command.StopTimer](cmds); !ok {
		t.Fatal("commit should stop the caret timer")
	}
	e, ok := d.Store().Get(0)
	if !ok || e.Text != "hi" || !d.History().CanUndo() {
		t.Fatalf("text = %+v", e)
	}
}

func TestEditExistingTextRecordsModify(t *testing.T) {
	d := newSession(t, nil)
	drag(d, 10, 10, 400, 300)
	run(d, action.SelectTool{Tool: element.ToolText},
		action.PointerDown{X: 50, Y: 50}, action.PointerUp{X: 50, Y: 50},
		action.CharInput{Rune: 'a'}, action.KeyDown{Key: action.KeyEnter, Mods: action.ModCtrl},
		action.SelectTool{Tool: element.ToolNone},
		action.DoubleClick{X: 55, Y: 55},
		action.CharInput{Rune: 'b'},
		action.KeyDown{Key: action.KeyEnter, Mods: action.ModCtrl},
	)
	e, _ := d.Store().Get(0)
	if e.Text != "ab" || d.History().Len() != 2 {
		t.Fatalf("text = %q history = %d", e.Text, d.History().Len())
	}
	run(d, action.Undo{})
	e, _ = d.Store().Get(0)
	if e.Text != "a" {
		t.Fatalf("undo text = %q", e.Text)
	}
}

func TestMoveElementRecordsModify(t *testing.T) {
	d := newSession(t, nil)
	drag(d, 0, 0, 500, 500)
	run(d, action.SelectTool{Tool: element.ToolRectangle})
	drag(d, 100, 100, 200, 200)
	run(d, action.SelectTool{Tool: element.ToolNone})
	drag(d, 150, 150, 170, 160)
	e, _ := d.Store().Get(0)
	if e.Bounds != geom.R(120, 110, 220, 210) {
		t.Fatalf("bounds = %+v", e.Bounds)
	}
	if d.Phase().Rect != geom.R(0, 0, 500, 500) {
		t.Fatalf("selection moved with the element: %+v", d.Phase().Rect)
	}
	run(d, action.Undo{})
	e, _ = d.Store().Get(0)
	if e.Bounds != geom.R(100, 100, 200, 200) {
		t.Fatalf("undo bounds = %+v", e.Bounds)
	}
}

func TestDeleteSelectedElement(t *testing.T) {
	d := newSession(t, nil)
	drag(d, 0, 0, 500, 500)
	run(d, action.SelectTool{Tool: element.ToolArrow})
	drag(d, 100, 100, 200, 100)
	run(d, action.SelectTool{Tool: element.ToolNone},
		action.PointerDown{X: 150, Y: 100}, action.PointerUp{X: 150, Y: 100},
		action.KeyDown{Key: action.KeyDelete},
	)
	if d.Store().Len() != 0 {
		t.Fatal("delete did not remove the arrow")
	}
	run(d, action.Undo{})
	if d.Store().Len() != 1 {
		t.Fatal("undo did not restore the arrow")
	}
}

func TestSelectionCacheFollowsEveryAction(t *testing.T) {
	d := newSession(t, windows{{ID: 3, Rect: geom.R(300, 300, 500, 400)}})
	steps := []action.Action{
		action.PointerMove{X: 350, Y: 350},
		action.PointerDown{X: 350, Y: 350},
		action.PointerUp{X: 350, Y: 350},
		action.PointerDown{X: 400, Y: 350},
		action.PointerMove{X: 420, Y: 360, Pressed: true},
		action.PointerUp{X: 420, Y: 360},
		action.PointerDown{X: 900, Y: 900},
		action.PointerDown{X: 10, Y: 10},
		action.PointerMove{X: 110, Y: 80, Pressed: true},
		action.PointerUp{X: 110, Y: 80},
		action.Cancel{},
		action.FrameCaptured{Bounds: screen},
		action.PointerDown{X: 10, Y: 10},
		action.PointerMove{X: 60, Y: 60, Pressed: true},
		action.PointerUp{X: 60, Y: 60},
		action.Reset{},
	}
	for i, a := range steps {
		d.Dispatch(a)
		want, wantOK := d.sel.Confirmed()
		got, ok := d.Selection()
		if ok != wantOK || got != want {
			t.Fatalf("step %d %T: cached %+v %v, machine %+v %v", i, a, got, ok, want, wantOK)
		}
	}
}

func TestReleaseConsultsConfirmedSelection(t *testing.T) {
	d := newSession(t, windows{{ID: 3, Rect: geom.R(300, 300, 500, 400)}})
	drag(d, 10, 10, 110, 80)
	if _, ok := d.Selection(); !ok {
		t.Fatal("drag should confirm a region")
	}
	if d.hl.Enabled() {
		t.Fatal("highlighting should stay off while a region is confirmed")
	}

	d = newSession(t, windows{{ID: 3, Rect: geom.R(300, 300, 500, 400)}})
	run(d, action.PointerDown{X: 10, Y: 10}, action.PointerUp{X: 10, Y: 10})
	if _, ok := d.Selection(); ok {
		t.Fatal("a click on empty space confirmed a region")
	}
	if !d.hl.Enabled() {
		t.Fatal("highlighting should resume after a click with no region")
	}
	run(d, action.PointerMove{X: 350, Y: 350})
	if d.Hover() == nil {
		t.Fatal("hover should work after the empty click")
	}
}

func TestEscapeClosesFromEditing(t *testing.T) {
	d := newSession(t, nil)
	drag(d, 10, 10, 110, 80)
	run(d, action.SelectTool{Tool: element.ToolRectangle})
	drag(d, 20, 20, 60, 60)

	cmds := run(d, action.Cancel{})
	if d.Phase().Kind != selection.Idle || d.Store().Len() != 0 || d.History().Len() != 0 {
		t.Fatalf("phase=%v len=%d history=%d", d.Phase().Kind, d.Store().Len(), d.History().Len())
	}
	if _, ok := d.Selection(); ok {
		t.Fatal("selection survived escape")
	}
	if _, ok := find[command.HideWindow](cmds); !ok {
		t.Fatal("escape should hide the overlay")
	}
	if _, ok := find[command.ResetSession](cmds); !ok {
		t.Fatal("escape should reset the session")
	}

	again := run(d, action.Cancel{})
	if d.Phase().Kind != selection.Idle {
		t.Fatalf("second escape phase = %v", d.Phase().Kind)
	}
	if _, ok := find[command.HideWindow](again); !ok {
		t.Fatalf("second escape = %#v", again)
	}
}

func TestEscapeAbortsDrawing(t *testing.T) {
	d := newSession(t, nil)
	drag(d, 10, 10, 300, 300)
	run(d, action.SelectTool{Tool: element.ToolRectangle},
		action.PointerDown{X: 20, Y: 20},
		action.PointerMove{X: 90, Y: 90, Pressed: true},
		action.Cancel{},
	)
	if d.Store().Len() != 0 || d.Drag().Active() {
		t.Fatal("escape should discard the shape being drawn")
	}
	if d.Phase().Kind != selection.Idle || d.History().Len() != 0 {
		t.Fatalf("phase=%v history=%d", d.Phase().Kind, d.History().Len())
	}
	if cmds := run(d, action.PointerUp{X: 90, Y: 90}); len(cmds) != 0 || d.Store().Len() != 0 {
		t.Fatalf("release after escape = %#v", cmds)
	}
}

func TestEscapeDiscardsTextEdit(t *testing.T) {
	for _, key := range []action.Action{action.Cancel{}, action.KeyDown{Key: action.KeyEscape}} {
		d := newSession(t, nil)
		drag(d, 10, 10, 400, 300)
		run(d, action.SelectTool{Tool: element.ToolText},
			action.PointerDown{X: 50, Y: 50}, action.PointerUp{X: 50, Y: 50})
		for _, r := range "hi" {
			run(d, action.CharInput{Rune: r})
		}
		cmds := run(d, key)
		if d.Phase().Kind != selection.Idle || d.Store().Len() != 0 || d.History().Len() != 0 {
			t.Fatalf("%T: phase=%v len=%d history=%d", key, d.Phase().Kind, d.Store().Len(), d.History().Len())
		}
		if d.Editing() != -1 || d.CursorVisible() {
			t.Fatalf("%T: still editing %d", key, d.Editing())
		}
		if st, ok := find[command.StopTimer](cmds); !ok || st.ID != command.TimerCursorBlink {
			t.Fatalf("%T: caret timer not stopped: %#v", key, cmds)
		}
	}
}

func TestOutsideClickCancelsRegion(t *testing.T) {
	d := newSession(t, nil)
	drag(d, 10, 10, 110, 80)
	run(d, action.PointerDown{X: 500, Y: 500})
	if d.Phase().Kind != selection.Idle {
		t.Fatalf("phase = %v", d.Phase().Kind)
	}
}

func TestOCRFlow(t *testing.T) {
	d := newSession(t, nil)
	drag(d, 10, 10, 110, 80)

	cmds := run(d, action.ExtractText{})
	if e, ok := find[command.ShowError](cmds); !ok || e.Message != MsgOCRUnavailable {
		t.Fatalf("cmds = %#v", cmds)
	}
	run(d, action.OCRAvailability{Available: true})
	cmds = run(d, action.ExtractText{})
	begin, ok := find[command.BeginOCR](cmds)
	if !ok || begin.Job == uuid.Nil || !d.OCRRunning() {
		t.Fatalf("cmds = %#v", cmds)
	}
	if again := run(d, action.ExtractText{}); len(again) != 0 {
		t.Fatalf("second extract while running = %#v", again)
	}

	if stale := run(d, action.OCRResult{Job: uuid.New(), Text: "old"}); len(stale) != 0 {
		t.Fatalf("stale result produced %#v", stale)
	}
	cmds = run(d, action.OCRResult{Job: begin.Job, Text: "  hello world \n"})
	ct, ok := find[command.CopyText](cmds)
	if !ok || ct.Text != "hello world" {
		t.Fatalf("cmds = %#v", cmds)
	}
	if _, ok := find[command.ResetSession](cmds); !ok {
		t.Fatal("OCR completion should reset the session")
	}
}

func TestOCRNoTextAndFailure(t *testing.T) {
	d := newSession(t, nil)
	drag(d, 10, 10, 110, 80)
	run(d, action.OCRAvailability{Available: true})
	begin, _ := find[command.BeginOCR](run(d, action.ExtractText{}))
	cmds := run(d, action.OCRResult{Job: begin.Job})
	if m, ok := find[command.ShowMessage](cmds); !ok || m.Body != MsgNoText {
		t.Fatalf("cmds = %#v", cmds)
	}

	begin, _ = find[command.BeginOCR](run(d, action.ExtractText{}))
	cmds = run(d, action.OCRResult{Job: begin.Job, Err: errors.New("engine crashed")})
	if _, ok := find[command.ShowError](cmds); !ok {
		t.Fatalf("cmds = %#v", cmds)
	}
	if d.OCRRunning() {
		t.Fatal("failed job still running")
	}
}

func TestEscapeCancelsOCR(t *testing.T) {
	d := newSession(t, nil)
	drag(d, 10, 10, 110, 80)
	run(d, action.OCRAvailability{Available: true})
	begin, _ := find[command.BeginOCR](run(d, action.ExtractText{}))
	cmds := run(d, action.Cancel{})
	if c, ok := find[command.CancelOCR](cmds); !ok || c.Job != begin.Job {
		t.Fatalf("cmds = %#v", cmds)
	}
	if d.OCRRunning() || d.Phase().Kind != selection.Idle {
		t.Fatalf("running=%v phase=%v", d.OCRRunning(), d.Phase().Kind)
	}
	if _, ok := find[command.HideWindow](cmds); !ok {
		t.Fatalf("cmds = %#v", cmds)
	}
	if late := run(d, action.OCRResult{Job: begin.Job, Text: "late"}); len(late) != 0 {
		t.Fatalf("late result after cancel = %#v", late)
	}
}

func TestHotkeyCaptureFlow(t *testing.T) {
	d := New(element.DefaultStyle())
	cmds := run(d, action.Hotkey{ID: action.HotkeyCapture})
	if _, ok := find[command.HideWindow](cmds); !ok {
		t.Fatalf("cmds = %#v", cmds)
	}
	st, ok := find[command.StartTimer](cmds)
	if !ok || st.ID != command.TimerCaptureDelay {
		t.Fatalf("cmds = %#v", cmds)
	}
	cmds = run(d, action.TimerFired{ID: command.TimerCaptureDelay})
	if _, ok := find[command.CaptureScreen](cmds); !ok {
		t.Fatalf("cmds = %#v", cmds)
	}
}

func TestPointerWithoutFrameIgnored(t *testing.T) {
	d := New(element.DefaultStyle())
	if cmds := drag(d, 0, 0, 100, 100); len(cmds) != 0 {
		t.Fatalf("cmds = %#v", cmds)
	}
}

func TestResetClearsEverything(t *testing.T) {
	d := newSession(t, nil)
	drag(d, 10, 10, 110, 80)
	run(d, action.SelectTool{Tool: element.ToolRectangle})
	drag(d, 20, 20, 60, 60)
	run(d, action.Reset{})
	if _, ok := d.Frame(); ok {
		t.Fatal("reset should drop the frame")
	}
	if d.Store().Len() != 0 || d.History().CanUndo() || d.Tool() != element.ToolNone {
		t.Fatal("reset left session state behind")
	}
}

func TestCursorBlinkToggles(t *testing.T) {
	d := newSession(t, nil)
	drag(d, 10, 10, 400, 300)
	run(d, action.SelectTool{Tool: element.ToolText},
		action.PointerDown{X: 50, Y: 50}, action.PointerUp{X: 50, Y: 50})
	if !d.CursorVisible() {
		t.Fatal("caret should start visible")
	}
	cmds := run(d, action.TimerFired{ID: command.TimerCursorBlink})
	if d.CursorVisible() {
		t.Fatal("blink should hide the caret")
	}
	if r, ok := find[command.Redraw](cmds); !ok || r.Full {
		t.Fatalf("blink should redraw only the text box, got %#v", cmds)
	}
}
