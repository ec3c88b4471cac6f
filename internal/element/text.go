package element

import (
	"math"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/example/snapmark/internal/geom"
)

// CursorMove is a caret movement inside a text element.
type CursorMove int

const (
	CursorLeft CursorMove = iota
	CursorRight
	CursorUp
	CursorDown
	CursorLineStart
	CursorLineEnd
)

// TextMeasurer reports the pixel size of text at a font size.
type TextMeasurer interface {
	MeasureText(text string, size float64) (width, height int)
}

// ApproxMeasurer estimates text size from terminal cell widths. It is used
// when no font backed measurer is installed.
type ApproxMeasurer struct{}

func (ApproxMeasurer) MeasureText(text string, size float64) (int, int) {
	lines := strings.Split(text, "\n")
	widest := 0
	for _, l := range lines {
		widest = max(widest, uniseg.StringWidth(l))
	}
	w := int(math.Ceil(float64(widest) * size * 0.6))
	h := int(math.Ceil(float64(len(lines)) * size * 1.2))
	return w, h
}

func graphemes(s string) []string {
	var out []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// GraphemeCount returns the number of user perceived characters in the text.
func (e *Element) GraphemeCount() int {
	return uniseg.GraphemeClusterCount(e.Text)
}

func (e *Element) clampCursor() {
	n := e.GraphemeCount()
	if e.Cursor < 0 {
		e.Cursor = 0
	}
	if e.Cursor > n {
		e.Cursor = n
	}
}

// InsertText inserts s at the cursor and advances the cursor past it.
func (e *Element) InsertText(s string) {
	if s == "" {
		return
	}
	e.clampCursor()
	clusters := graphemes(e.Text)
	prefix := strings.Join(clusters[:e.Cursor], "") + s
	e.Text = prefix + strings.Join(clusters[e.Cursor:], "")
	// Combining marks can merge with the preceding cluster.
	e.Cursor = uniseg.GraphemeClusterCount(prefix)
}

// Backspace removes the cluster before the cursor.
func (e *Element) Backspace() bool {
	e.clampCursor()
	if e.Cursor == 0 {
		return false
	}
	clusters := graphemes(e.Text)
	e.Text = strings.Join(clusters[:e.Cursor-1], "") + strings.Join(clusters[e.Cursor:], "")
	e.Cursor--
	return true
}

// DeleteForward removes the cluster after the cursor.
func (e *Element) DeleteForward() bool {
	e.clampCursor()
	clusters := graphemes(e.Text)
	if e.Cursor >= len(clusters) {
		return false
	}
	e.Text = strings.Join(clusters[:e.Cursor], "") + strings.Join(clusters[e.Cursor+1:], "")
	return true
}

// lineSpans returns the [start, end) cluster ranges of every line,
// excluding the newline clusters.
func lineSpans(clusters []string) [][2]int {
	var spans [][2]int
	start := 0
	for i, c := range clusters {
		if c == "\n" || c == "\r\n" {
			spans = append(spans, [2]int{start, i})
			start = i + 1
		}
	}
	return append(spans, [2]int{start, len(clusters)})
}

// CursorLine returns the zero based line and column of the cursor.
func (e *Element) CursorLine() (line, col int) {
	e.clampCursor()
	spans := lineSpans(graphemes(e.Text))
	for i, s := range spans {
		if e.Cursor >= s[0] && e.Cursor <= s[1] {
			return i, e.Cursor - s[0]
		}
	}
	last := len(spans) - 1
	return last, spans[last][1] - spans[last][0]
}

// MoveCursor moves the caret and reports whether it changed.
func (e *Element) MoveCursor(m CursorMove) bool {
	e.clampCursor()
	before := e.Cursor
	spans := lineSpans(graphemes(e.Text))
	line, col := e.CursorLine()
	switch m {
	case CursorLeft:
		if e.Cursor > 0 {
			e.Cursor--
		}
	case CursorRight:
		e.Cursor++
	case CursorLineStart:
		e.Cursor = spans[line][0]
	case CursorLineEnd:
		e.Cursor = spans[line][1]
	case CursorUp:
		if line > 0 {
			t := spans[line-1]
			e.Cursor = t[0] + min(col, t[1]-t[0])
		}
	case CursorDown:
		if line+1 < len(spans) {
			t := spans[line+1]
			e.Cursor = t[0] + min(col, t[1]-t[0])
		}
	}
	e.clampCursor()
	return e.Cursor != before
}

// SetCursor places the caret, clamped to the text.
func (e *Element) SetCursor(n int) {
	e.Cursor = n
	e.clampCursor()
}

// FitText grows or shrinks a text element so its box holds the text, never
// going below the default text box.
func (e *Element) FitText(m TextMeasurer) {
	if e.Tool != ToolText || len(e.Points) == 0 {
		return
	}
	if m == nil {
		m = ApproxMeasurer{}
	}
	w, h := m.MeasureText(e.Text, e.Style.FontSize)
	width := max(DefaultTextWidth, w+2*TextPadding)
	height := max(DefaultTextHeight, h+2*TextPadding)
	start := e.Points[0]
	e.SetEnd(geom.Pt(start.X+width, start.Y+height))
}

// Blank reports whether the text holds nothing but whitespace.
func (e *Element) Blank() bool {
	return strings.TrimSpace(e.Text) == ""
}
