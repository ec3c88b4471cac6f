package render

import (
	"image"

	"github.com/fogleman/gg"

	"github.com/example/snapmark/internal/capture"
	"github.com/example/snapmark/internal/element"
	"github.com/example/snapmark/internal/geom"
)

// Composer flattens annotations onto a crop of the captured frame. It
// implements host.Composer.
type Composer struct {
	Fonts *Fonts
	// Shadow, when enabled, frames the result with a drop shadow.
	Shadow Shadow
}

// NewComposer returns a composer using the shared fonts.
func NewComposer() *Composer {
	return &Composer{Fonts: DefaultFonts()}
}

// Measurer returns the text measurer matching the composer's fonts.
func (c *Composer) Measurer() element.TextMeasurer { return c.Fonts }

// Compose copies rect out of img and draws the elements that overlap it.
// Element coordinates are frame coordinates.
func (c *Composer) Compose(img *image.RGBA, rect geom.Rect, elements []element.Element) (*image.RGBA, error) {
	out, err := capture.Crop(img, rect)
	if err != nil {
		return nil, err
	}
	dc := gg.NewContextForRGBA(out)
	dc.Translate(float64(-rect.Left), float64(-rect.Top))
	for _, e := range elements {
		if !e.Bounds.Intersects(rect) {
			continue
		}
		drawShape(dc, c.Fonts, e)
	}
	if c.Shadow.Enabled() {
		out = c.Shadow.Apply(out)
	}
	return out, nil
}
