package dispatch

import (
	"github.com/example/snapmark/internal/action"
	"github.com/example/snapmark/internal/command"
	"github.com/example/snapmark/internal/element"
	"github.com/example/snapmark/internal/geom"
	"github.com/example/snapmark/internal/highlight"
	"github.com/example/snapmark/internal/history"
	"github.com/example/snapmark/internal/selection"
)

func (d *Dispatcher) pointerDown(x, y int) []command.Command {
	p := geom.Pt(x, y)
	d.down = p
	switch d.sel.Phase().Kind {
	case selection.Idle:
		if d.sel.OnMouseDown(x, y, false) != selection.OutcomeSelecting {
			return nil
		}
		d.pressed = true
		d.hl.OnMouseDown(x, y)
		return nil
	case selection.Editing:
		d.pressed = true
		return d.editingDown(p)
	}
	return nil
}

// editingDown routes a press inside an editing session. Text editing,
// element handles and element hits take priority over the region itself.
func (d *Dispatcher) editingDown(p geom.Point) []command.Command {
	var cmds []command.Command
	if d.editing >= 0 {
		if e, ok := d.store.Get(d.editing); ok && e.Bounds.Contains(p.X, p.Y) {
			return nil
		}
		cmds = append(cmds, d.commitText()...)
	}

	if i := d.store.Selected(); i >= 0 {
		e, _ := d.store.Get(i)
		if h := e.HandleAt(p.X, p.Y); h != geom.HandleNone {
			d.dragBefore = e.Clone()
			d.sel.BeginDrag(selection.DragMode{
				Kind: selection.DragResizing, Handle: h, Target: selection.TargetElement,
				Index: i, Start: p, StartRect: e.Bounds,
			})
			return cmds
		}
	}

	if i := d.store.HitTestWithin(p.X, p.Y, d.confirmed); i >= 0 {
		e, _ := d.store.Get(i)
		if d.tool == element.ToolText && e.Tool == element.ToolText {
			return append(cmds, d.beginEdit(i)...)
		}
		prev := d.store.Selected()
		d.store.SetSelected(i)
		d.dragBefore = e.Clone()
		d.sel.BeginDrag(selection.DragMode{
			Kind: selection.DragMovingElement, Target: selection.TargetElement,
			Index: i, Start: p, StartRect: e.Bounds,
		})
		cmds = append(cmds, redrawAround(e.Bounds))
		if pe, ok := d.store.Get(prev); ok && prev != i {
			cmds = append(cmds, redrawAround(pe.Bounds))
		}
		return cmds
	}

	if prev := d.store.Selected(); prev >= 0 {
		pe, _ := d.store.Get(prev)
		cmds = append(cmds, redrawAround(pe.Bounds))
		d.store.SetSelected(-1)
	}

	switch d.sel.OnMouseDown(p.X, p.Y, d.tool != element.ToolNone) {
	case selection.OutcomeRouted:
		cmds = append(cmds, d.beginDrawing(p)...)
	case selection.OutcomeCancelled:
		d.pressed = false
		cmds = append(cmds, d.leaveEditing()...)
	}
	return cmds
}

func (d *Dispatcher) beginDrawing(p geom.Point) []command.Command {
	e := element.New(d.tool, p, d.style)
	i := d.store.Add(e)
	if i < 0 {
		d.pressed = false
		return []command.Command{command.ShowError{Message: MsgElementLimit}}
	}
	if d.tool == element.ToolText {
		d.pressed = false
		d.store.EditText(i, func(*element.Element) bool { return false })
		d.editing = i
		d.editIsNew = true
		d.cursorOn = true
		added, _ := d.store.Get(i)
		return []command.Command{
			command.StartTimer{ID: command.TimerCursorBlink, Interval: command.CursorBlinkInterval},
			redrawAround(added.Bounds),
		}
	}
	d.sel.BeginDrag(selection.DragMode{
		Kind: selection.DragDrawingShape, Target: selection.TargetElement, Index: i, Start: p,
	})
	return nil
}

func (d *Dispatcher) pointerMove(x, y int, pressed bool) []command.Command {
	switch d.sel.Phase().Kind {
	case selection.Idle:
		if pressed || !d.sel.HasFrame() {
			return nil
		}
		return d.hoverMove(x, y)
	case selection.Selecting:
		return d.selectingMove(x, y)
	case selection.Editing:
		if !d.pressed {
			return nil
		}
		return d.dragMove(geom.Pt(x, y))
	}
	return nil
}

func (d *Dispatcher) hoverMove(x, y int) []command.Command {
	m := d.hl.OnMouseMove(x, y, d.hover, false)
	switch m.Kind {
	case highlight.MoveSet:
		dirty := m.Candidate.Rect
		if d.hover != nil {
			dirty = dirty.Union(d.hover.Rect)
		}
		c := m.Candidate
		d.hover = &c
		return []command.Command{redrawAround(dirty)}
	case highlight.MoveClear:
		dirty := d.hover.Rect
		d.hover = nil
		return []command.Command{redrawAround(dirty)}
	}
	return nil
}

func (d *Dispatcher) selectingMove(x, y int) []command.Command {
	dirty := geom.None
	if d.hover != nil {
		m := d.hl.OnMouseMove(x, y, d.hover, true)
		if m.Kind != highlight.MoveBeginManual {
			return nil
		}
		dirty = d.hover.Rect
		d.hover = nil
	}
	before := d.sel.Phase().Rect
	if !d.sel.OnMouseMove(x, y) {
		if dirty.Empty() {
			return nil
		}
		return []command.Command{redrawAround(dirty)}
	}
	dirty = dirty.Union(before).Union(d.sel.Phase().Rect)
	return []command.Command{redrawAround(dirty)}
}

func (d *Dispatcher) dragMove(p geom.Point) []command.Command {
	drag := d.sel.Drag()
	if !drag.Active() {
		return nil
	}
	if drag.Target == selection.TargetSelection {
		before := d.confirmed
		if !d.sel.OnMouseMove(p.X, p.Y) {
			return nil
		}
		d.resync()
		return []command.Command{redrawAround(before.Union(d.confirmed)), d.toolbar()}
	}

	e, ok := d.store.Get(drag.Index)
	if !ok {
		d.sel.EndDrag()
		return nil
	}
	before := e.Bounds
	dx, dy := p.X-drag.Start.X, p.Y-drag.Start.Y
	switch drag.Kind {
	case selection.DragDrawingShape:
		if e.Tool == element.ToolPen {
			e.AddPoint(p)
		} else {
			e.SetEnd(p)
		}
	case selection.DragMovingElement:
		moved := d.dragBefore.Clone()
		moved.MoveBy(dx, dy)
		d.store.Replace(drag.Index, moved)
	case selection.DragResizing:
		d.store.Replace(drag.Index, element.DragHandle(d.dragBefore, drag.Handle, dx, dy))
	}
	e, _ = d.store.Get(drag.Index)
	return []command.Command{redrawAround(before.Union(e.Bounds).Inset(e.Style.StrokeWidth))}
}

func (d *Dispatcher) pointerUp(x, y int) []command.Command {
	wasPressed := d.pressed
	d.pressed = false
	p := geom.Pt(x, y)
	switch d.sel.Phase().Kind {
	case selection.Selecting:
		return d.finishSelecting(p)
	case selection.Editing:
		if !wasPressed {
			return nil
		}
		return d.finishDrag(p)
	}
	return nil
}

func (d *Dispatcher) finishSelecting(p geom.Point) []command.Command {
	wasClick := !geom.DragExceeded(d.down, p, geom.DragThreshold)
	hover := d.hover
	d.sel.OnMouseUp(p.X, p.Y)
	d.resync()
	if d.hl.OnMouseUp(wasClick, d.hasConfirmed, hover != nil) {
		d.sel.Confirm(hover.Rect)
		d.resync()
	}
	d.hover = nil
	return []command.Command{d.toolbar(), command.FullRedraw()}
}

func (d *Dispatcher) finishDrag(p geom.Point) []command.Command {
	drag := d.sel.Drag()
	if !drag.Active() {
		return nil
	}
	if drag.Target == selection.TargetSelection {
		d.sel.OnMouseUp(p.X, p.Y)
		d.resync()
		return []command.Command{d.toolbar(), redrawAround(d.confirmed)}
	}
	d.sel.EndDrag()
	e, ok := d.store.Get(drag.Index)
	if !ok {
		return nil
	}
	if drag.Kind == selection.DragDrawingShape {
		return d.finishDrawing(drag.Index, e, p)
	}
	if !e.Equal(d.dragBefore) {
		d.hist.Push(history.Modified(drag.Index, d.dragBefore, *e))
	}
	return []command.Command{d.toolbar(), redrawAround(e.Bounds)}
}

func (d *Dispatcher) finishDrawing(i int, e *element.Element, p geom.Point) []command.Command {
	if e.Tool == element.ToolPen {
		e.AddPoint(p)
	} else {
		e.SetEnd(p)
	}
	dirty := redrawAround(e.Bounds.Inset(e.Style.StrokeWidth))
	degenerate := len(e.Points) < 2
	if e.Tool != element.ToolPen && !degenerate {
		degenerate = !geom.DragExceeded(e.Points[0], e.Points[1], geom.DragThreshold)
	}
	if degenerate {
		d.store.Remove(i)
		return []command.Command{dirty}
	}
	d.hist.Push(history.Added(i, *e))
	return []command.Command{d.toolbar(), dirty}
}

func (d *Dispatcher) doubleClick(x, y int) []command.Command {
	if d.sel.Phase().Kind != selection.Editing {
		return nil
	}
	if i := d.store.HitTestWithin(x, y, d.confirmed); i >= 0 {
		if e, _ := d.store.Get(i); e.Tool == element.ToolText {
			d.sel.EndDrag()
			return d.beginEdit(i)
		}
	}
	if d.tool == element.ToolNone && d.confirmed.Contains(x, y) {
		d.sel.EndDrag()
		return d.save(action.SaveClipboard)
	}
	return nil
}
