package tray

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/example/snapmark/internal/action"
)

func TestItems(t *testing.T) {
	tr := New("Ctrl+Shift+S", nil)
	items := tr.items()
	if len(items) != 3 {
		t.Fatalf("got %d items", len(items))
	}
	if items[0].title != "Capture (Ctrl+Shift+S)" || items[0].item != action.TrayCapture {
		t.Errorf("capture item = %+v", items[0])
	}
	if items[1].item != action.TraySettings || items[2].item != action.TrayQuit {
		t.Errorf("items = %+v", items)
	}
	if New("", nil).items()[0].title != "Capture" {
		t.Error("capture title without shortcut")
	}
}

func TestForwardPostsClicks(t *testing.T) {
	var got []action.Action
	tr := New("", func(a action.Action) bool {
		got = append(got, a)
		return len(got) < 2
	})
	clicks := make(chan struct{}, 3)
	clicks <- struct{}{}
	clicks <- struct{}{}
	clicks <- struct{}{}
	close(clicks)
	tr.forward(clicks, action.TraySettings)
	if len(got) != 2 {
		t.Fatalf("forward should stop when posting fails, got %d posts", len(got))
	}
	if got[0] != (action.Tray{Item: action.TraySettings}) {
		t.Errorf("posted %#v", got[0])
	}
	if New("", nil).click(action.TrayQuit) {
		t.Error("click without Post should report false")
	}
}

func TestTrayIcon(t *testing.T) {
	data, err := trayIcon()
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("empty icon")
	}
	// ICO data wraps the PNG, so the PNG signature appears either way.
	i := bytes.Index(data, []byte("\x89PNG"))
	if i < 0 {
		t.Fatal("icon does not contain a PNG")
	}
	img, err := png.Decode(bytes.NewReader(data[i:]))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != IconSize || b.Dy() != IconSize {
		t.Errorf("icon bounds = %v", b)
	}
}
