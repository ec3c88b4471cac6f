package assets

import (
	"bytes"
	"image/png"
	"strings"
	"testing"
)

func TestIconPNG(t *testing.T) {
	for _, size := range IconSizes() {
		data, err := IconPNG(size)
		if err != nil {
			t.Fatalf("IconPNG(%d): %v", size, err)
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("decode %d: %v", size, err)
		}
		if b := img.Bounds(); b.Dx() != size || b.Dy() != size {
			t.Errorf("size %d decoded as %v", size, b)
		}
	}
	a, _ := IconPNG(32)
	a[0] = 0
	b, _ := IconPNG(32)
	if b[0] == 0 {
		t.Error("IconPNG should return a copy")
	}
}

func TestIconImageCentreIsOpaque(t *testing.T) {
	img, err := IconImage(64)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, a := img.At(32, 10).RGBA(); a == 0 {
		t.Error("icon body should be opaque")
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Error("corner should be transparent")
	}
	if _, err := IconImage(2); err == nil {
		t.Error("expected size error")
	}
}

func TestIconSVG(t *testing.T) {
	data, err := IconSVG()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("not an svg")
	}
}
