// Package assets provides the application icon. The SVG is embedded and the
// raster sizes are drawn on first use.
package assets

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sort"
	"sync"

	"github.com/fogleman/gg"
)

//go:embed icons/*.svg
var embeddedIcons embed.FS

// Sizes lists the raster icon sizes offered to tray and notification hosts.
var Sizes = []int{16, 22, 24, 32, 48, 64, 128}

var (
	frameColor = color.RGBA{0x1E, 0x2A, 0x38, 0xFF}
	markColor  = color.RGBA{0x4F, 0xC3, 0xF7, 0xFF}
	arrowColor = color.RGBA{0xFF, 0x52, 0x52, 0xFF}
)

var (
	mu      sync.Mutex
	pngData = map[int][]byte{}
)

// IconImage draws the icon at the requested size.
func IconImage(size int) (image.Image, error) {
	if size < 8 || size > 1024 {
		return nil, fmt.Errorf("icon size %d out of range", size)
	}
	s := float64(size) / 64
	dc := gg.NewContext(size, size)
	dc.Scale(s, s)

	dc.DrawRoundedRectangle(4, 4, 56, 56, 10)
	dc.SetColor(frameColor)
	dc.Fill()

	dc.SetLineCapRound()
	dc.SetLineWidth(5)
	dc.SetColor(markColor)
	corners := [][3][2]float64{
		{{14, 26}, {14, 14}, {26, 14}},
		{{38, 14}, {50, 14}, {50, 26}},
		{{50, 38}, {50, 50}, {38, 50}},
		{{26, 50}, {14, 50}, {14, 38}},
	}
	for _, c := range corners {
		dc.MoveTo(c[0][0], c[0][1])
		dc.LineTo(c[1][0], c[1][1])
		dc.LineTo(c[2][0], c[2][1])
		dc.Stroke()
	}

	dc.SetColor(arrowColor)
	dc.DrawLine(24, 40, 40, 24)
	dc.Stroke()
	return dc.Image(), nil
}

// IconPNG returns a copy of the PNG encoding for the requested icon size.
func IconPNG(size int) ([]byte, error) {
	mu.Lock()
	defer mu.Unlock()
	data, ok := pngData[size]
	if !ok {
		img, err := IconImage(size)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
		data = buf.Bytes()
		pngData[size] = data
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// IconSizes lists the raster sizes in ascending order.
func IconSizes() []int {
	sizes := append([]int(nil), Sizes...)
	sort.Ints(sizes)
	return sizes
}

// IconSVG returns the SVG icon bytes.
func IconSVG() ([]byte, error) {
	data, err := embeddedIcons.ReadFile("icons/snapmark.svg")
	if err != nil {
		return nil, fmt.Errorf("svg icon not embedded: %w", err)
	}
	return data, nil
}
