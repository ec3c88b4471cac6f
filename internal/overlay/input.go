package overlay

import (
	"time"
	"unicode"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/snapmark/internal/action"
)

// Double click detection.
const (
	DoubleClickInterval = 400 * time.Millisecond
	DoubleClickSlop     = 4
)

var specialKeys = map[key.Code]action.Key{
	key.CodeEscape:          action.KeyEscape,
	key.CodeReturnEnter:     action.KeyEnter,
	key.CodeKeypadEnter:     action.KeyEnter,
	key.CodeDeleteBackspace: action.KeyBackspace,
	key.CodeDeleteForward:   action.KeyDelete,
	key.CodeLeftArrow:       action.KeyArrowLeft,
	key.CodeRightArrow:      action.KeyArrowRight,
	key.CodeUpArrow:         action.KeyArrowUp,
	key.CodeDownArrow:       action.KeyArrowDown,
	key.CodeHome:            action.KeyHome,
	key.CodeEnd:             action.KeyEnd,
	key.CodeTab:             action.KeyTab,
}

func modifiers(m key.Modifiers) action.Modifiers {
	var out action.Modifiers
	if m&key.ModShift != 0 {
		out |= action.ModShift
	}
	if m&(key.ModControl|key.ModMeta) != 0 {
		out |= action.ModCtrl
	}
	if m&key.ModAlt != 0 {
		out |= action.ModAlt
	}
	return out
}

// KeyActions translates a key event. Named keys become KeyDown, printable
// runes become CharInput unless Ctrl or Alt is held, in which case they are
// reported as a KeyRune shortcut. Releases are ignored; repeats count as
// presses.
func KeyActions(e key.Event) []action.Action {
	if e.Direction == key.DirRelease {
		return nil
	}
	mods := modifiers(e.Modifiers)
	if k, ok := specialKeys[e.Code]; ok {
		return []action.Action{action.KeyDown{Key: k, Mods: mods}}
	}
	if e.Rune <= 0 || !unicode.IsPrint(e.Rune) {
		return nil
	}
	if mods&(action.ModCtrl|action.ModAlt) != 0 {
		return []action.Action{action.KeyDown{Key: action.KeyRune, Rune: e.Rune, Mods: mods}}
	}
	return []action.Action{action.CharInput{Rune: e.Rune}}
}

// Pointer turns primary button mouse events into pointer actions and
// detects double clicks.
type Pointer struct {
	pressed   bool
	lastPress time.Time
	lastX     int
	lastY     int
}

// Pressed reports whether the primary button is held.
func (p *Pointer) Pressed() bool { return p.pressed }

// Actions translates e, which happened at now.
func (p *Pointer) Actions(e mouse.Event, now time.Time) []action.Action {
	x, y := int(e.X), int(e.Y)
	switch e.Direction {
	case mouse.DirPress:
		if e.Button != mouse.ButtonLeft {
			return nil
		}
		p.pressed = true
		double := !p.lastPress.IsZero() &&
			now.Sub(p.lastPress) <= DoubleClickInterval &&
			abs(x-p.lastX) <= DoubleClickSlop && abs(y-p.lastY) <= DoubleClickSlop
		if double {
			p.lastPress = time.Time{}
			return []action.Action{action.DoubleClick{X: x, Y: y}}
		}
		p.lastPress, p.lastX, p.lastY = now, x, y
		return []action.Action{action.PointerDown{X: x, Y: y}}
	case mouse.DirRelease:
		if e.Button != mouse.ButtonLeft || !p.pressed {
			return nil
		}
		p.pressed = false
		return []action.Action{action.PointerUp{X: x, Y: y}}
	case mouse.DirNone:
		return []action.Action{action.PointerMove{X: x, Y: y, Pressed: p.pressed}}
	}
	return nil
}

// Reset forgets button state, e.g. when the window goes away mid drag.
func (p *Pointer) Reset() { *p = Pointer{} }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
