//go:build cgo || windows

package clipboard

import (
	"golang.design/x/clipboard"
)

type designClipboard struct{}

func newNative() nativeClipboard { return designClipboard{} }

func (designClipboard) Init() error { return clipboard.Init() }

func (designClipboard) WriteImage(data []byte) error {
	clipboard.Write(clipboard.FmtImage, data)
	return nil
}

func (designClipboard) WriteText(s string) error {
	clipboard.Write(clipboard.FmtText, []byte(s))
	return nil
}

func (designClipboard) ReadText() (string, error) {
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return "", ErrEmpty
	}
	return string(data), nil
}
