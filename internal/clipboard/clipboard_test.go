package clipboard

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"sync"
	"testing"
)

type fakeNative struct {
	initErr error
	image   []byte
	text    string
}

func (f *fakeNative) Init() error { return f.initErr }
func (f *fakeNative) WriteImage(data []byte) error { f.image = data; return nil }
func (f *fakeNative) WriteText(s string) error { f.text = s; return nil }
func (f *fakeNative) ReadText() (string, error) { return f.text, nil }

func useNative(t *testing.T, n nativeClipboard) {
	t.Helper()
	prevNative, prevText := native, text
	t.Cleanup(func() {
		native, text = prevNative, prevText
		initOnce = sync.Once{}
		initErr = nil
	})
	native = n
	initOnce = sync.Once{}
	initErr = nil
	t.Setenv("DISPLAY", ":0")
}

func TestEnsureInitWithoutDisplay(t *testing.T) {
	useNative(t, &fakeNative{})
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")
	if !hasDisplay() {
		if err := WriteText("hello"); !errors.Is(err, errNoDisplay) {
			t.Fatalf("expected errNoDisplay, got %v", err)
		}
	}
}

func TestWriteImageEncodesPNG(t *testing.T) {
	f := &fakeNative{}
	useNative(t, f)
	if err := WriteImage(image.NewRGBA(image.Rect(0, 0, 4, 3))); err != nil {
		t.Fatalf("WriteImage: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(f.image))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width != 4 || cfg.Height != 3 {
		t.Fatalf("size = %dx%d", cfg.Width, cfg.Height)
	}
}

func TestWriteTextFallsBack(t *testing.T) {
	nativeErr := errors.New("no cgo")
	useNative(t, &fakeNative{initErr: nativeErr})
	var got string
	text.write = func(s string) error { got = s; return nil }
	text.read = func() (string, error) { return got, nil }

	if err := WriteText("recognized"); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	if got != "recognized" {
		t.Fatalf("fallback got %q", got)
	}
	if s, err := ReadText(); err != nil || s != "recognized" {
		t.Fatalf("ReadText = %q, %v", s, err)
	}
	if err := WriteImage(image.NewRGBA(image.Rect(0, 0, 1, 1))); !errors.Is(err, nativeErr) {
		t.Fatalf("image write should not fall back, got %v", err)
	}
}

func TestWriteTextNative(t *testing.T) {
	f := &fakeNative{}
	useNative(t, f)
	text.write = func(string) error {
		t.Error("fallback used although native clipboard is available")
		return nil
	}
	if err := WriteText("x"); err != nil || f.text != "x" {
		t.Fatalf("WriteText: %v, native text %q", err, f.text)
	}
}
