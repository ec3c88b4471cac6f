package dispatch

import (
	"unicode"

	"github.com/example/snapmark/internal/action"
	"github.com/example/snapmark/internal/command"
	"github.com/example/snapmark/internal/element"
	"github.com/example/snapmark/internal/history"
)

var toolShortcuts = map[rune]element.Tool{
	'r': element.ToolRectangle,
	'c': element.ToolCircle,
	'a': element.ToolArrow,
	'p': element.ToolPen,
	't': element.ToolText,
	'v': element.ToolNone,
}

var cursorKeys = map[action.Key]element.CursorMove{
	action.KeyArrowLeft:  element.CursorLeft,
	action.KeyArrowRight: element.CursorRight,
	action.KeyArrowUp:    element.CursorUp,
	action.KeyArrowDown:  element.CursorDown,
	action.KeyHome:       element.CursorLineStart,
	action.KeyEnd:        element.CursorLineEnd,
}

func (d *Dispatcher) keyDown(k action.KeyDown) []command.Command {
	if k.Mods&action.ModCtrl != 0 && k.Key == action.KeyRune {
		switch unicode.ToLower(k.Rune) {
		case 'z':
			return d.undo(k.Mods&action.ModShift == 0)
		case 'y':
			return d.undo(false)
		case 'c':
			return d.save(action.SaveClipboard)
		case 's':
			return d.save(action.SaveFile)
		}
		return nil
	}
	if d.editing >= 0 {
		return d.editKey(k)
	}
	switch k.Key {
	case action.KeyEscape:
		return d.cancel()
	case action.KeyEnter:
		return d.save(action.SaveClipboard)
	case action.KeyDelete, action.KeyBackspace:
		return d.deleteSelected()
	}
	return nil
}

func (d *Dispatcher) editKey(k action.KeyDown) []command.Command {
	i := d.editing
	switch k.Key {
	case action.KeyEscape:
		return d.cancel()
	case action.KeyEnter:
		if k.Mods&action.ModCtrl != 0 {
			return d.commitText()
		}
		return d.editText(func(e *element.Element) bool { e.InsertText("\n"); return true })
	case action.KeyBackspace:
		return d.editText((*element.Element).Backspace)
	case action.KeyDelete:
		return d.editText((*element.Element).DeleteForward)
	}
	if m, ok := cursorKeys[k.Key]; ok {
		e, _ := d.store.Get(i)
		if !d.store.MoveCursor(i, m) {
			return nil
		}
		d.cursorOn = true
		return []command.Command{redrawAround(e.Bounds)}
	}
	return nil
}

// editText applies fn to the text being edited and repaints the old and new
// text boxes.
func (d *Dispatcher) editText(fn func(*element.Element) bool) []command.Command {
	e, ok := d.store.Get(d.editing)
	if !ok {
		d.editing = -1
		return nil
	}
	before := e.Bounds
	if !d.store.EditText(d.editing, fn) {
		return nil
	}
	d.cursorOn = true
	e, _ = d.store.Get(d.editing)
	return []command.Command{redrawAround(before.Union(e.Bounds))}
}

func (d *Dispatcher) charInput(r rune) []command.Command {
	if d.editing >= 0 {
		if r == '\r' || r == '\n' {
			r = '\n'
		} else if !unicode.IsPrint(r) {
			return nil
		}
		return d.editText(func(e *element.Element) bool { e.InsertText(string(r)); return true })
	}
	if t, ok := toolShortcuts[unicode.ToLower(r)]; ok {
		if _, has := d.Selection(); has {
			return d.selectTool(t)
		}
	}
	return nil
}

// beginEdit starts editing the text element at i with the caret at the end.
func (d *Dispatcher) beginEdit(i int) []command.Command {
	if d.editing == i {
		return nil
	}
	var cmds []command.Command
	if d.editing >= 0 {
		cmds = append(cmds, d.commitText()...)
	}
	e, ok := d.store.Get(i)
	if !ok {
		return cmds
	}
	d.store.SetSelected(-1)
	d.editing = i
	d.editIsNew = false
	d.editBefore = e.Clone()
	e.SetCursor(e.GraphemeCount())
	d.cursorOn = true
	return append(cmds,
		command.StartTimer{ID: command.TimerCursorBlink, Interval: command.CursorBlinkInterval},
		redrawAround(e.Bounds),
	)
}

// commitText finishes text editing. Blank new text vanishes without a
// history entry. Blank existing text is recorded as a removal.
func (d *Dispatcher) commitText() []command.Command {
	i := d.editing
	d.editing = -1
	d.cursorOn = false
	cmds := []command.Command{command.StopTimer{ID: command.TimerCursorBlink}}
	e, ok := d.store.Get(i)
	if !ok {
		return append(cmds, d.toolbar())
	}
	dirty := redrawAround(e.Bounds)
	switch {
	case e.Blank():
		d.store.Remove(i)
		if !d.editIsNew {
			d.hist.Push(history.Removed(i, d.editBefore))
		}
	case d.editIsNew:
		d.hist.Push(history.Added(i, *e))
	case !e.Equal(d.editBefore):
		d.hist.Push(history.Modified(i, d.editBefore, *e))
	}
	return append(cmds, d.toolbar(), dirty)
}

func (d *Dispatcher) deleteSelected() []command.Command {
	i := d.store.Selected()
	if i < 0 || d.sel.Drag().Active() {
		return nil
	}
	e, ok := d.store.Remove(i)
	if !ok {
		return nil
	}
	d.hist.Push(history.Removed(i, e))
	return []command.Command{d.toolbar(), redrawAround(e.Bounds)}
}
