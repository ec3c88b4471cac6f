// Package dispatch maps actions onto the selection machine, the element
// store and the highlighter, and returns the commands the host must run.
//
// Dispatch never performs I/O. All side effects leave as commands.
package dispatch

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/snapmark/internal/action"
	"github.com/example/snapmark/internal/command"
	"github.com/example/snapmark/internal/element"
	"github.com/example/snapmark/internal/geom"
	"github.com/example/snapmark/internal/highlight"
	"github.com/example/snapmark/internal/history"
	"github.com/example/snapmark/internal/selection"
)

// Messages shown to the user.
const (
	MsgSelectRegion   = "select a region first"
	MsgOCRUnavailable = "text recognition is not available"
	MsgElementLimit   = "annotation limit reached"
	MsgNoText         = "no text recognized"
)

// chromeMargin pads redraw rectangles so borders and handles are repainted.
const chromeMargin = 12

// CaptureDelay is how long the overlay stays hidden before a capture.
const CaptureDelay = 50 * time.Millisecond

// Dispatcher owns the interaction state of one capture session.
type Dispatcher struct {
	sel   *selection.Machine
	store *element.Store
	hist  *history.Stack
	hl    *highlight.Highlighter

	style element.Style
	tool  element.Tool

	hover        *highlight.Candidate
	confirmed    geom.Rect
	hasConfirmed bool

	down    geom.Point
	pressed bool

	// dragBefore is the element as it was when a move or resize began.
	dragBefore element.Element

	editing    int
	editIsNew  bool
	editBefore element.Element
	cursorOn   bool

	ocrAvailable bool
	ocrRunning   bool
	ocrJob       uuid.UUID
}

// New returns a dispatcher with an empty session.
func New(style element.Style) *Dispatcher {
	return &Dispatcher{
		sel:     selection.New(),
		store:   element.NewStore(),
		hist:    history.New(history.DefaultLimit),
		hl:      highlight.New(nil),
		style:   style,
		editing: -1,
	}
}

// Store exposes the element store for rendering and persistence.
func (d *Dispatcher) Store() *element.Store { return d.store }

// History exposes the undo stack.
func (d *Dispatcher) History() *history.Stack { return d.hist }

// Phase returns the selection phase.
func (d *Dispatcher) Phase() selection.Phase { return d.sel.Phase() }

// Drag returns the drag in progress.
func (d *Dispatcher) Drag() selection.DragMode { return d.sel.Drag() }

// Frame returns the captured frame bounds and whether a frame exists.
func (d *Dispatcher) Frame() (geom.Rect, bool) { return d.sel.Frame(), d.sel.HasFrame() }

// Hover returns the highlighted window, if any.
func (d *Dispatcher) Hover() *highlight.Candidate { return d.hover }

// Tool returns the active annotation tool.
func (d *Dispatcher) Tool() element.Tool { return d.tool }

// Style returns the style applied to new elements.
func (d *Dispatcher) Style() element.Style { return d.style }

// Editing returns the index of the text element being edited, or -1.
func (d *Dispatcher) Editing() int { return d.editing }

// CursorVisible reports the caret blink state.
func (d *Dispatcher) CursorVisible() bool { return d.cursorOn }

// OCRRunning reports whether a recognition job is outstanding.
func (d *Dispatcher) OCRRunning() bool { return d.ocrRunning }

// Selection returns the confirmed region.
func (d *Dispatcher) Selection() (geom.Rect, bool) { return d.confirmed, d.hasConfirmed }

// Dispatch applies a and returns the resulting commands. The cached
// confirmed selection matches the machine once it returns.
func (d *Dispatcher) Dispatch(a action.Action) []command.Command {
	defer d.resync()
	return d.apply(a)
}

func (d *Dispatcher) apply(a action.Action) []command.Command {
	switch a := a.(type) {
	case action.PointerDown:
		return d.pointerDown(a.X, a.Y)
	case action.PointerMove:
		return d.pointerMove(a.X, a.Y, a.Pressed)
	case action.PointerUp:
		return d.pointerUp(a.X, a.Y)
	case action.DoubleClick:
		return d.doubleClick(a.X, a.Y)
	case action.KeyDown:
		return d.keyDown(a)
	case action.CharInput:
		return d.charInput(a.Rune)
	case action.TimerFired:
		return d.timer(a.ID)
	case action.Tray:
		switch a.Item {
		case action.TrayCapture:
			return d.startCapture()
		case action.TraySettings:
			return []command.Command{command.ReloadSettings{}}
		case action.TrayQuit:
			return []command.Command{command.DestroyWindow{}}
		}
	case action.Hotkey:
		if a.ID == action.HotkeyCapture {
			return d.startCapture()
		}
	case action.OCRResult:
		return d.ocrResult(a)
	case action.OCRCancelled:
		if !d.ocrRunning || a.Job != d.ocrJob {
			return nil
		}
		d.ocrRunning = false
		d.ocrJob = uuid.Nil
		return []command.Command{command.FullRedraw()}
	case action.OCRAvailability:
		d.ocrAvailable = a.Available
		return []command.Command{d.toolbar()}
	case action.SelectTool:
		return d.selectTool(a.Tool)
	case action.Undo:
		return d.undo(true)
	case action.Redo:
		return d.undo(false)
	case action.Save:
		return d.save(a.Target)
	case action.ExtractText:
		return d.extractText()
	case action.Cancel:
		return d.cancel()
	case action.FrameCaptured:
		d.resetState()
		d.sel.SetFrame(a.Bounds)
		d.hl.SetEnumerator(a.Windows)
		d.hl.SetScreen(a.Bounds)
		return []command.Command{command.ShowWindow{}, d.toolbar(), command.FullRedraw()}
	case action.SettingsReloaded:
		d.style = a.Style
		return []command.Command{command.FullRedraw()}
	case action.Reset:
		d.resetState()
		d.sel.Reset()
		return []command.Command{command.StopTimer{ID: command.TimerCursorBlink}, d.toolbar(), command.FullRedraw()}
	}
	return nil
}

// resync refreshes the cached confirmed selection from the machine.
func (d *Dispatcher) resync() {
	d.confirmed, d.hasConfirmed = d.sel.Confirmed()
}

func (d *Dispatcher) resetState() {
	d.sel.OnCancel()
	d.store.Clear()
	d.hist.Clear()
	d.hl.Reset()
	d.hover = nil
	d.pressed = false
	d.tool = element.ToolNone
	d.editing = -1
	d.cursorOn = false
	d.ocrRunning = false
	d.ocrJob = uuid.Nil
	d.resync()
}

func (d *Dispatcher) toolbar() command.Command {
	return command.UpdateToolbar{
		Visible: d.hasConfirmed,
		Anchor:  d.confirmed,
		Tool:    d.tool,
		CanUndo: d.hist.CanUndo(),
		CanRedo: d.hist.CanRedo(),
		OCR:     d.ocrAvailable,
	}
}

func redrawAround(r geom.Rect) command.Command {
	return command.Redraw{Rect: r.Inset(chromeMargin)}
}

func (d *Dispatcher) startCapture() []command.Command {
	return []command.Command{
		command.HideWindow{},
		command.StartTimer{ID: command.TimerCaptureDelay, Interval: CaptureDelay},
	}
}

func (d *Dispatcher) timer(id int) []command.Command {
	switch id {
	case command.TimerCursorBlink:
		e, ok := d.store.Get(d.editing)
		if !ok {
			return []command.Command{command.StopTimer{ID: id}}
		}
		d.cursorOn = !d.cursorOn
		return []command.Command{command.Redraw{Rect: e.Bounds.Inset(5)}}
	case command.TimerCaptureDelay:
		return []command.Command{command.StopTimer{ID: id}, command.CaptureScreen{}}
	}
	return nil
}

func (d *Dispatcher) selectTool(t element.Tool) []command.Command {
	var cmds []command.Command
	if d.editing >= 0 {
		cmds = append(cmds, d.commitText()...)
	}
	d.tool = t
	if d.store.Selected() >= 0 {
		d.store.SetSelected(-1)
		cmds = append(cmds, command.FullRedraw())
	}
	return append(cmds, d.toolbar())
}

func (d *Dispatcher) undo(back bool) []command.Command {
	if d.sel.Drag().Active() {
		return nil
	}
	var cmds []command.Command
	if d.editing >= 0 {
		cmds = append(cmds, d.commitText()...)
	}
	var ok bool
	if back {
		ok = d.hist.Undo(d.store)
	} else {
		ok = d.hist.Redo(d.store)
	}
	if !ok {
		return cmds
	}
	d.store.SetSelected(-1)
	return append(cmds, d.toolbar(), command.FullRedraw())
}

func (d *Dispatcher) save(target action.SaveTarget) []command.Command {
	if !d.hasConfirmed {
		return []command.Command{command.ShowError{Message: MsgSelectRegion}}
	}
	var cmds []command.Command
	if d.editing >= 0 {
		cmds = append(cmds, d.commitText()...)
	}
	d.store.SetSelected(-1)
	if target == action.SaveFile {
		return append(cmds, command.SaveToFile{Rect: d.confirmed})
	}
	return append(cmds, command.SaveToClipboard{Rect: d.confirmed})
}

func (d *Dispatcher) extractText() []command.Command {
	if !d.hasConfirmed {
		return []command.Command{command.ShowError{Message: MsgSelectRegion}}
	}
	if d.ocrRunning {
		return nil
	}
	if !d.ocrAvailable {
		return []command.Command{command.ShowError{Message: MsgOCRUnavailable}}
	}
	var cmds []command.Command
	if d.editing >= 0 {
		cmds = append(cmds, d.commitText()...)
	}
	d.ocrRunning = true
	d.ocrJob = uuid.New()
	return append(cmds, command.BeginOCR{Job: d.ocrJob, Rect: d.confirmed}, command.FullRedraw())
}

func (d *Dispatcher) ocrResult(r action.OCRResult) []command.Command {
	if !d.ocrRunning || r.Job != d.ocrJob {
		return nil
	}
	d.ocrRunning = false
	d.ocrJob = uuid.Nil
	if r.Err != nil {
		return []command.Command{
			command.ShowError{Message: fmt.Sprintf("text recognition failed: %v", r.Err)},
			command.FullRedraw(),
		}
	}
	text := strings.TrimSpace(r.Text)
	if text == "" {
		return []command.Command{
			command.ShowMessage{Title: "Text recognition", Body: MsgNoText},
			command.HideWindow{},
			command.ResetSession{},
		}
	}
	return []command.Command{
		command.CopyText{Text: text},
		command.ShowMessage{Title: "Text copied", Body: preview(text, 80)},
		command.HideWindow{},
		command.ResetSession{},
	}
}

func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// cancel abandons the session from any phase and hides the overlay. Text
// being edited and shapes being drawn are dropped without history entries.
func (d *Dispatcher) cancel() []command.Command {
	var cmds []command.Command
	if d.editing >= 0 {
		cmds = append(cmds, command.StopTimer{ID: command.TimerCursorBlink})
	}
	if d.ocrRunning {
		cmds = append(cmds, command.CancelOCR{Job: d.ocrJob})
	}
	d.resetState()
	return append(cmds, command.HideWindow{}, command.ResetSession{})
}

// leaveEditing drops the annotations of a region that was cancelled.
func (d *Dispatcher) leaveEditing() []command.Command {
	d.store.Clear()
	d.hist.Clear()
	d.hover = nil
	d.hl.Reset()
	d.resync()
	return []command.Command{d.toolbar(), command.FullRedraw()}
}
