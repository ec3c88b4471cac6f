package render

import (
	"image/color"
	"strings"

	"github.com/fogleman/gg"
	"github.com/rivo/uniseg"

	"github.com/example/snapmark/internal/element"
	"github.com/example/snapmark/internal/geom"
	"github.com/example/snapmark/internal/host"
	"github.com/example/snapmark/internal/theme"
)

const (
	handleSize = 8
	dashOn     = 6
	dashOff    = 4
)

func fpt(p geom.Point) (float64, float64) { return float64(p.X), float64(p.Y) }

// drawShape strokes or writes e onto dc in e's own coordinates.
func drawShape(dc *gg.Context, fonts *Fonts, e element.Element) {
	dc.SetColor(e.Style.Color)
	dc.SetLineWidth(float64(max(e.Style.StrokeWidth, 1)))
	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	switch e.Tool {
	case element.ToolRectangle:
		if len(e.Points) < 2 {
			return
		}
		r := geom.FromPoints(e.Points[0], e.Points[1])
		dc.DrawRectangle(float64(r.Left), float64(r.Top), float64(r.Width()), float64(r.Height()))
		dc.Stroke()
	case element.ToolCircle:
		if len(e.Points) < 2 {
			return
		}
		r := geom.FromPoints(e.Points[0], e.Points[1])
		c := r.Center()
		dc.DrawEllipse(float64(c.X), float64(c.Y), float64(r.Width())/2, float64(r.Height())/2)
		dc.Stroke()
	case element.ToolArrow:
		if len(e.Points) < 2 {
			return
		}
		start, end := e.Points[0], e.Points[1]
		dc.MoveTo(fpt(start))
		dc.LineTo(fpt(end))
		if w1, w2, ok := element.ArrowWings(start, end); ok {
			dc.MoveTo(fpt(w1))
			dc.LineTo(fpt(end))
			dc.LineTo(fpt(w2))
		}
		dc.Stroke()
	case element.ToolPen:
		if len(e.Points) == 0 {
			return
		}
		if len(e.Points) == 1 {
			x, y := fpt(e.Points[0])
			dc.DrawPoint(x, y, float64(max(e.Style.StrokeWidth, 1))/2)
			dc.Fill()
			return
		}
		dc.MoveTo(fpt(e.Points[0]))
		for _, p := range e.Points[1:] {
			dc.LineTo(fpt(p))
		}
		dc.Stroke()
	case element.ToolText:
		drawText(dc, fonts, e)
	}
}

func textOrigin(e element.Element) (float64, float64) {
	if len(e.Points) == 0 {
		return float64(e.Bounds.Left + element.TextPadding), float64(e.Bounds.Top + element.TextPadding)
	}
	return float64(e.Points[0].X + element.TextPadding), float64(e.Points[0].Y + element.TextPadding)
}

func drawText(dc *gg.Context, fonts *Fonts, e element.Element) {
	if e.Text == "" {
		return
	}
	face := fonts.Face(e.Style.FontSize)
	dc.SetFontFace(face)
	ascent := float64(face.Metrics().Ascent.Ceil())
	lh := float64(fonts.LineHeight(e.Style.FontSize))
	x, y := textOrigin(e)
	for i, line := range strings.Split(e.Text, "\n") {
		dc.DrawString(line, x, y+ascent+float64(i)*lh)
	}
}

// caretRect returns where the text caret of e is drawn.
func caretRect(fonts *Fonts, e element.Element) geom.Rect {
	line, col := e.CursorLine()
	lines := strings.Split(e.Text, "\n")
	prefix := ""
	if line < len(lines) {
		g := uniseg.NewGraphemes(lines[line])
		for i := 0; i < col && g.Next(); i++ {
			prefix += g.Str()
		}
	}
	w, _ := fonts.MeasureText(prefix, e.Style.FontSize)
	lh := fonts.LineHeight(e.Style.FontSize)
	x, y := textOrigin(e)
	left := int(x) + w
	top := int(y) + line*lh
	return geom.R(left, top, left+1, top+lh)
}

// gripPoints lists the grips drawn for a selected element.
func gripPoints(e element.Element) []geom.Point {
	switch e.Handles() {
	case element.HandlesFull:
		pts := geom.HandlePoints(e.Bounds)
		return pts[:]
	case element.HandlesCorners:
		b := e.Bounds
		return []geom.Point{{X: b.Left, Y: b.Top}, {X: b.Right, Y: b.Top}, {X: b.Right, Y: b.Bottom}, {X: b.Left, Y: b.Bottom}}
	case element.HandlesEndpoints:
		if len(e.Points) >= 2 {
			return []geom.Point{e.Points[0], e.Points[1]}
		}
	}
	return nil
}

func strokeRect(dc *gg.Context, r geom.Rect, col color.Color, width float64, dashed bool) {
	dc.SetColor(col)
	dc.SetLineWidth(width)
	if dashed {
		dc.SetDash(dashOn, dashOff)
	}
	dc.DrawRectangle(float64(r.Left)+0.5, float64(r.Top)+0.5, float64(r.Width()), float64(r.Height()))
	dc.Stroke()
	dc.SetDash()
}

func fillRect(dc *gg.Context, r geom.Rect, col color.Color) {
	dc.SetColor(col)
	dc.DrawRectangle(float64(r.Left), float64(r.Top), float64(r.Width()+1), float64(r.Height()+1))
	dc.Fill()
}

func drawGrips(dc *gg.Context, pts []geom.Point, th *theme.Theme) {
	for _, p := range pts {
		r := geom.R(p.X-handleSize/2, p.Y-handleSize/2, p.X+handleSize/2, p.Y+handleSize/2)
		fillRect(dc, r, th.HandleFill)
		strokeRect(dc, r, th.HandleBorder, 1, false)
	}
}

// decorate draws selection and editing marks around e.
func decorate(dc *gg.Context, fonts *Fonts, e element.Element, st host.ElementState, th *theme.Theme) {
	if st.Editing || st.Selected {
		strokeRect(dc, e.Bounds, th.ElementOutline, 1, true)
	}
	if st.Selected && !st.Editing {
		drawGrips(dc, gripPoints(e), th)
	}
	if st.Caret {
		fillRect(dc, caretRect(fonts, e), th.Caret)
	}
}
