//go:build linux && cgo

package hotkey

import "golang.design/x/hotkey"

var modifiers = map[string]hotkey.Modifier{
	"ctrl":  hotkey.ModCtrl,
	"shift": hotkey.ModShift,
	"alt":   hotkey.Mod1,
	"super": hotkey.Mod4,
}
