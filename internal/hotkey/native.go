//go:build ((linux || darwin) && cgo) || windows

package hotkey

import (
	"fmt"

	"golang.design/x/hotkey"
)

var keys = map[string]hotkey.Key{
	"a": hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD,
	"e": hotkey.KeyE, "f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH,
	"i": hotkey.KeyI, "j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO, "p": hotkey.KeyP,
	"q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,
	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,
	"f1": hotkey.KeyF1, "f2": hotkey.KeyF2, "f3": hotkey.KeyF3, "f4": hotkey.KeyF4,
	"f5": hotkey.KeyF5, "f6": hotkey.KeyF6, "f7": hotkey.KeyF7, "f8": hotkey.KeyF8,
	"f9": hotkey.KeyF9, "f10": hotkey.KeyF10, "f11": hotkey.KeyF11, "f12": hotkey.KeyF12,
	"space":  hotkey.KeySpace,
	"enter":  hotkey.KeyReturn,
	"escape": hotkey.KeyEscape,
	"tab":    hotkey.KeyTab,
	"delete": hotkey.KeyDelete,
	"up":     hotkey.KeyUp,
	"down":   hotkey.KeyDown,
	"left":   hotkey.KeyLeft,
	"right":  hotkey.KeyRight,
}

type nativeRegistration struct {
	hk   *hotkey.Hotkey
	done chan struct{}
}

func registerNative(b Binding, fire func()) (registration, error) {
	k, ok := keys[b.Key]
	if !ok {
		return nil, fmt.Errorf("unsupported key %q", b.Key)
	}
	var mods []hotkey.Modifier
	for _, name := range b.Mods {
		m, ok := modifiers[name]
		if !ok {
			return nil, fmt.Errorf("unsupported modifier %q", name)
		}
		mods = append(mods, m)
	}
	hk := hotkey.New(mods, k)
	if err := hk.Register(); err != nil {
		return nil, err
	}
	r := &nativeRegistration{hk: hk, done: make(chan struct{})}
	go func() {
		for {
			select {
			case <-hk.Keydown():
				fire()
			case <-r.done:
				return
			}
		}
	}()
	return r, nil
}

func (r *nativeRegistration) unregister() error {
	close(r.done)
	return r.hk.Unregister()
}

