package geom

// Handle identifies one of the eight resize grips on a rectangle.
type Handle int

const (
	HandleNone Handle = iota - 1
	HandleTopLeft
	HandleTop
	HandleTopRight
	HandleRight
	HandleBottomRight
	HandleBottom
	HandleBottomLeft
	HandleLeft
)

// Handles lists the grips in hit-test order.
var Handles = [...]Handle{
	HandleTopLeft, HandleTop, HandleTopRight, HandleRight,
	HandleBottomRight, HandleBottom, HandleBottomLeft, HandleLeft,
}

var handleNames = [...]string{"top-left", "top", "top-right", "right", "bottom-right", "bottom", "bottom-left", "left"}

func (h Handle) String() string {
	if h < 0 || int(h) >= len(handleNames) {
		return "none"
	}
	return handleNames[h]
}

// Corner reports whether h sits on a corner of the rectangle.
func (h Handle) Corner() bool {
	switch h {
	case HandleTopLeft, HandleTopRight, HandleBottomRight, HandleBottomLeft:
		return true
	}
	return false
}

// HandlePoint returns the centre of grip h on r.
func HandlePoint(r Rect, h Handle) Point {
	c := r.Center()
	switch h {
	case HandleTopLeft:
		return Point{r.Left, r.Top}
	case HandleTop:
		return Point{c.X, r.Top}
	case HandleTopRight:
		return Point{r.Right, r.Top}
	case HandleRight:
		return Point{r.Right, c.Y}
	case HandleBottomRight:
		return Point{r.Right, r.Bottom}
	case HandleBottom:
		return Point{c.X, r.Bottom}
	case HandleBottomLeft:
		return Point{r.Left, r.Bottom}
	case HandleLeft:
		return Point{r.Left, c.Y}
	}
	return c
}

// HandlePoints returns the eight grip centres of r in Handles order.
func HandlePoints(r Rect) [8]Point {
	var pts [8]Point
	for i, h := range Handles {
		pts[i] = HandlePoint(r, h)
	}
	return pts
}

// HandleAt returns the first grip whose centre lies within tolerance of
// (x, y) on both axes, or HandleNone.
func HandleAt(r Rect, x, y, tolerance int) Handle {
	return HandleAtAmong(r, x, y, tolerance, Handles[:])
}

// HandleAtAmong is HandleAt restricted to the given grips.
func HandleAtAmong(r Rect, x, y, tolerance int, among []Handle) Handle {
	for _, h := range among {
		p := HandlePoint(r, h)
		if abs(x-p.X) <= tolerance && abs(y-p.Y) <= tolerance {
			return h
		}
	}
	return HandleNone
}

// ResizeByHandle moves the edges owned by h by dx, dy and normalizes the
// result, so dragging a grip past the opposite edge flips the rectangle.
func ResizeByHandle(r Rect, h Handle, dx, dy int) Rect {
	switch h {
	case HandleTopLeft:
		r.Left += dx
		r.Top += dy
	case HandleTop:
		r.Top += dy
	case HandleTopRight:
		r.Right += dx
		r.Top += dy
	case HandleRight:
		r.Right += dx
	case HandleBottomRight:
		r.Right += dx
		r.Bottom += dy
	case HandleBottom:
		r.Bottom += dy
	case HandleBottomLeft:
		r.Left += dx
		r.Bottom += dy
	case HandleLeft:
		r.Left += dx
	}
	return r.Canon()
}
