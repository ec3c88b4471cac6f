// Package render draws the overlay and flattens annotations into saved
// images.
package render

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Fonts caches Go Regular faces by size. Drawing faces come from freetype
// because gg rasterizes through it; measurement uses opentype, which reports
// tighter metrics.
type Fonts struct {
	ttf *truetype.Font
	otf *opentype.Font

	mu      sync.Mutex
	draw    map[float64]font.Face
	measure map[float64]font.Face
}

// NewFonts parses the embedded Go Regular font.
func NewFonts() (*Fonts, error) {
	ttf, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	otf, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &Fonts{
		ttf:     ttf,
		otf:     otf,
		draw:    make(map[float64]font.Face),
		measure: make(map[float64]font.Face),
	}, nil
}

var defaultFonts = sync.OnceValues(NewFonts)

// DefaultFonts returns the shared font cache.
func DefaultFonts() *Fonts {
	f, err := defaultFonts()
	if err != nil {
		panic(err)
	}
	return f
}

func roundSize(size float64) float64 {
	if size <= 0 {
		size = 12
	}
	return math.Round(size*2) / 2
}

// Face returns a drawing face for size.
func (f *Fonts) Face(size float64) font.Face {
	size = roundSize(size)
	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.draw[size]; ok {
		return face
	}
	face := truetype.NewFace(f.ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	f.draw[size] = face
	return face
}

func (f *Fonts) measureFace(size float64) font.Face {
	size = roundSize(size)
	f.mu.Lock()
	defer f.mu.Unlock()
	if face, ok := f.measure[size]; ok {
		return face
	}
	face, err := opentype.NewFace(f.otf, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		face = truetype.NewFace(f.ttf, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
	}
	f.measure[size] = face
	return face
}

// LineHeight returns the distance between baselines at size.
func (f *Fonts) LineHeight(size float64) int {
	m := f.measureFace(size).Metrics()
	return max(m.Height.Ceil(), m.Ascent.Ceil()+m.Descent.Ceil())
}

// MeasureText implements element.TextMeasurer. Lines are split on '\n'.
func (f *Fonts) MeasureText(text string, size float64) (width, height int) {
	face := f.measureFace(size)
	lines := strings.Split(text, "\n")
	for _, l := range lines {
		width = max(width, font.MeasureString(face, l).Ceil())
	}
	return width, len(lines) * f.LineHeight(size)
}
