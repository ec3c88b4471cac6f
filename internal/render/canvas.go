package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"

	"github.com/example/snapmark/internal/element"
	"github.com/example/snapmark/internal/geom"
	"github.com/example/snapmark/internal/host"
	"github.com/example/snapmark/internal/theme"
)

const busyLabel = "Recognizing text..."

// Canvas is a host.Renderer that paints onto an RGBA buffer, typically the
// overlay window's back buffer.
type Canvas struct {
	Theme *theme.Theme
	Fonts *Fonts

	dst  *image.RGBA
	dc   *gg.Context
	clip geom.Rect
}

// NewCanvas returns a canvas drawing into dst with th.
func NewCanvas(dst *image.RGBA, th *theme.Theme) *Canvas {
	if th == nil {
		th = theme.Default()
	}
	return &Canvas{Theme: th, Fonts: DefaultFonts(), dst: dst}
}

// SetTarget switches the destination buffer, e.g. after a window resize.
func (c *Canvas) SetTarget(dst *image.RGBA) { c.dst = dst }

// Target returns the destination buffer.
func (c *Canvas) Target() *image.RGBA { return c.dst }

func (c *Canvas) BeginFrame(clip geom.Rect) {
	c.clip = clip
	c.dc = gg.NewContextForRGBA(c.dst)
	c.dc.DrawRectangle(float64(clip.Left), float64(clip.Top), float64(clip.Width()+1), float64(clip.Height()+1))
	c.dc.Clip()
}

func (c *Canvas) DrawBackground(img *image.RGBA) {
	r := c.clip.Image().Intersect(c.dst.Bounds())
	draw.Draw(c.dst, r, img, r.Min, draw.Src)
}

func (c *Canvas) DrawElement(e element.Element, st host.ElementState) {
	drawShape(c.dc, c.Fonts, e)
	decorate(c.dc, c.Fonts, e, st, c.Theme)
}

func (c *Canvas) DrawSelection(ch host.Chrome) {
	th := c.Theme
	dc := c.dc

	var focus geom.Rect
	var hasFocus bool
	switch {
	case ch.HasSelection:
		focus, hasFocus = ch.Selection, true
	case ch.HasCandidate:
		focus, hasFocus = ch.Candidate, true
	case ch.Hover != nil:
		focus, hasFocus = ch.Hover.Rect, true
	}
	c.dim(ch.Screen, focus, hasFocus)

	switch {
	case ch.HasSelection:
		strokeRect(dc, ch.Selection, th.SelectionBorder, 1, true)
		pts := geom.HandlePoints(ch.Selection)
		drawGrips(dc, pts[:], th)
		c.label(ch.Selection, fmt.Sprintf("%d x %d", ch.Selection.Width()+1, ch.Selection.Height()+1))
	case ch.HasCandidate:
		strokeRect(dc, ch.Candidate, th.SelectionBorder, 1, true)
		c.label(ch.Candidate, fmt.Sprintf("%d x %d", ch.Candidate.Width()+1, ch.Candidate.Height()+1))
	case ch.Hover != nil:
		fillRect(dc, ch.Hover.Rect, th.HighlightFill)
		strokeRect(dc, ch.Hover.Rect, th.Highlight, 2, false)
		if ch.Hover.Title != "" {
			c.label(ch.Hover.Rect, ch.Hover.Title)
		}
	}

	if ch.OCRBusy && ch.HasSelection {
		c.busy(ch.Selection)
	}
	c.toolbar(ToolbarButtons(ch.Toolbar, ch.Screen))
}

// dim shades everything outside focus.
func (c *Canvas) dim(screen, focus geom.Rect, hasFocus bool) {
	if !hasFocus {
		fillRect(c.dc, screen, c.Theme.Dim)
		return
	}
	parts := []geom.Rect{
		{Left: screen.Left, Top: screen.Top, Right: screen.Right, Bottom: focus.Top - 1},
		{Left: screen.Left, Top: focus.Bottom + 1, Right: screen.Right, Bottom: screen.Bottom},
		{Left: screen.Left, Top: focus.Top, Right: focus.Left - 1, Bottom: focus.Bottom},
		{Left: focus.Right + 1, Top: focus.Top, Right: screen.Right, Bottom: focus.Bottom},
	}
	for _, p := range parts {
		if p.Right < p.Left || p.Bottom < p.Top {
			continue
		}
		fillRect(c.dc, p, c.Theme.Dim)
	}
}

// label writes text in a small box above r, or inside it at the top edge.
func (c *Canvas) label(r geom.Rect, text string) {
	const size, pad = 12, 3
	w, h := c.Fonts.MeasureText(text, size)
	top := r.Top - h - 2*pad - 2
	if top < 0 {
		top = r.Top + 2
	}
	box := geom.R(r.Left, top, r.Left+w+2*pad, top+h+2*pad)
	fillRect(c.dc, box, c.Theme.ToolbarBackground)
	c.text(text, size, box, c.Theme.ToolbarText)
}

func (c *Canvas) busy(r geom.Rect) {
	const size = 16
	w, h := c.Fonts.MeasureText(busyLabel, size)
	ctr := r.Center()
	box := geom.R(ctr.X-w/2-8, ctr.Y-h/2-6, ctr.X+w/2+8, ctr.Y+h/2+6)
	fillRect(c.dc, box, c.Theme.ToolbarBackground)
	c.text(busyLabel, size, box, c.Theme.Busy)
}

// text centres a single line in box.
func (c *Canvas) text(s string, size float64, box geom.Rect, col color.Color) {
	c.dc.SetFontFace(c.Fonts.Face(size))
	c.dc.SetColor(col)
	ctr := box.Center()
	c.dc.DrawStringAnchored(s, float64(ctr.X), float64(ctr.Y), 0.5, 0.35)
}

func (c *Canvas) toolbar(buttons []Button) {
	if len(buttons) == 0 {
		return
	}
	th := c.Theme
	fillRect(c.dc, ToolbarBounds(buttons).Inset(ButtonGap), th.ToolbarBackground)
	for _, b := range buttons {
		switch {
		case b.Disabled:
			fillRect(c.dc, b.Rect, th.ButtonDisabled)
		case b.Active:
			fillRect(c.dc, b.Rect, th.ButtonActive)
		}
		c.text(b.Label, 12, b.Rect, th.ToolbarText)
	}
}

func (c *Canvas) EndFrame() error {
	if c.dc == nil {
		return errors.New("EndFrame without BeginFrame")
	}
	c.dc.ResetClip()
	c.dc = nil
	return nil
}
