//go:build darwin && cgo

package hotkey

import "golang.design/x/hotkey"

var modifiers = map[string]hotkey.Modifier{
	"ctrl":  hotkey.ModCtrl,
	"shift": hotkey.ModShift,
	"alt":   hotkey.ModOption,
	"super": hotkey.ModCmd,
}
