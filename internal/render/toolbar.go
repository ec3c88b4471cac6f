package render

import (
	"github.com/example/snapmark/internal/action"
	"github.com/example/snapmark/internal/command"
	"github.com/example/snapmark/internal/element"
	"github.com/example/snapmark/internal/geom"
)

// Toolbar metrics.
const (
	ButtonWidth  = 48
	ButtonHeight = 28
	ButtonGap    = 4
	ToolbarGap   = 8
)

// Button is a toolbar entry placed in screen coordinates.
type Button struct {
	Label    string
	Rect     geom.Rect
	Action   action.Action
	Active   bool
	Disabled bool
}

type buttonSpec struct {
	label string
	tool  element.Tool
	act   action.Action
}

var toolbarSpecs = []buttonSpec{
	{label: "Rect", tool: element.ToolRectangle},
	{label: "Oval", tool: element.ToolCircle},
	{label: "Arrow", tool: element.ToolArrow},
	{label: "Pen", tool: element.ToolPen},
	{label: "Text", tool: element.ToolText},
	{label: "Undo", act: action.Undo{}},
	{label: "Redo", act: action.Redo{}},
	{label: "OCR", act: action.ExtractText{}},
	{label: "Copy", act: action.Save{Target: action.SaveClipboard}},
	{label: "Save", act: action.Save{Target: action.SaveFile}},
}

// ToolbarButtons lays the toolbar out below the selection, or above it when
// there is no room, keeping it on screen. It returns nil when the toolbar is
// hidden.
func ToolbarButtons(tb command.UpdateToolbar, screen geom.Rect) []Button {
	if !tb.Visible {
		return nil
	}
	n := len(toolbarSpecs)
	width := n*ButtonWidth + (n-1)*ButtonGap

	top := tb.Anchor.Bottom + ToolbarGap
	if top+ButtonHeight > screen.Bottom {
		top = tb.Anchor.Top - ToolbarGap - ButtonHeight
	}
	if top < screen.Top {
		top = tb.Anchor.Bottom - ToolbarGap - ButtonHeight
	}
	left := max(screen.Left, min(tb.Anchor.Left, screen.Right-width))

	buttons := make([]Button, n)
	for i, s := range toolbarSpecs {
		x := left + i*(ButtonWidth+ButtonGap)
		b := Button{Label: s.label, Rect: geom.R(x, top, x+ButtonWidth, top+ButtonHeight), Action: s.act}
		if s.tool != element.ToolNone {
			b.Active = tb.Tool == s.tool
			b.Action = action.SelectTool{Tool: s.tool}
			if b.Active {
				b.Action = action.SelectTool{Tool: element.ToolNone}
			}
		}
		switch s.act.(type) {
		case action.Undo:
			b.Disabled = !tb.CanUndo
		case action.Redo:
			b.Disabled = !tb.CanRedo
		case action.ExtractText:
			b.Disabled = !tb.OCR
		}
		buttons[i] = b
	}
	return buttons
}

// ToolbarBounds returns the rectangle covered by buttons.
func ToolbarBounds(buttons []Button) geom.Rect {
	r := geom.None
	for _, b := range buttons {
		r = r.Union(b.Rect)
	}
	return r
}

// ButtonAt returns the enabled button under (x, y).
func ButtonAt(buttons []Button, x, y int) (Button, bool) {
	for _, b := range buttons {
		if b.Rect.Contains(x, y) && !b.Disabled {
			return b, true
		}
	}
	return Button{}, false
}
