package render

import (
	"image"
	"image/color"
	"image/draw"
)

// Shadow is a blurred drop shadow drawn behind a saved image.
type Shadow struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// DefaultShadow returns a soft shadow offset down and to the right.
func DefaultShadow() Shadow {
	return Shadow{Radius: 24, Offset: image.Pt(16, 16), Opacity: 0.55}
}

// Enabled reports whether Apply changes anything.
func (s Shadow) Enabled() bool { return s.Opacity > 0 }

// Apply returns img on a larger transparent canvas with the shadow behind
// it. The result's origin is (0,0).
func (s Shadow) Apply(img *image.RGBA) *image.RGBA {
	if img == nil || img.Bounds().Empty() || !s.Enabled() {
		return img
	}
	radius := max(s.Radius, 0)
	opacity := min(s.Opacity, 1)
	src := img.Bounds()

	// The shadow footprint is the source grown by the blur radius, then
	// shifted by the offset. The canvas covers both.
	shadowBox := src.Inset(-radius).Add(s.Offset)
	canvas := src.Union(shadowBox)
	w, h := canvas.Dx(), canvas.Dy()

	alpha := make([]uint8, w*h)
	for y := src.Min.Y; y < src.Max.Y; y++ {
		row := (y - canvas.Min.Y + s.Offset.Y) * w
		for x := src.Min.X; x < src.Max.X; x++ {
			alpha[row+x-canvas.Min.X+s.Offset.X] = img.RGBAAt(x, y).A
		}
	}
	alpha = boxBlur(alpha, w, h, radius)

	mask := &image.Alpha{Pix: alpha, Stride: w, Rect: image.Rect(0, 0, w, h)}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	shade := image.NewUniform(color.RGBA{A: uint8(opacity*255 + 0.5)})
	draw.DrawMask(out, out.Bounds(), shade, image.Point{}, mask, image.Point{}, draw.Over)
	draw.Draw(out, src.Sub(canvas.Min), img, src.Min, draw.Over)
	return out
}

// boxBlur blurs an alpha plane with a horizontal then a vertical running
// mean of width 2r+1, clamped at the edges.
func boxBlur(pix []uint8, w, h, r int) []uint8 {
	if r == 0 {
		return pix
	}
	tmp := make([]uint8, len(pix))
	blurLine(pix, tmp, w, h, 1, w, r)
	out := make([]uint8, len(pix))
	blurLine(tmp, out, h, w, w, 1, r)
	return out
}

// blurLine runs a 1D mean along lines of length n. step moves along a line
// and stride moves between the count lines.
func blurLine(src, dst []uint8, n, count, step, stride, r int) {
	sums := make([]int, n+1)
	for l := 0; l < count; l++ {
		base := l * stride
		for i := 0; i < n; i++ {
			sums[i+1] = sums[i] + int(src[base+i*step])
		}
		for i := 0; i < n; i++ {
			lo, hi := max(i-r, 0), min(i+r, n-1)
			dst[base+i*step] = uint8((sums[hi+1] - sums[lo]) / (hi - lo + 1))
		}
	}
}
