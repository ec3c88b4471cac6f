package overlay

import (
	"reflect"
	"testing"
	"time"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/snapmark/internal/action"
)

func TestKeyActions(t *testing.T) {
	tests := []struct {
		name string
		ev   key.Event
		want []action.Action
	}{
		{"escape", key.Event{Code: key.CodeEscape, Direction: key.DirPress}, []action.Action{action.KeyDown{Key: action.KeyEscape}}},
		{"shift enter", key.Event{Code: key.CodeReturnEnter, Rune: '\r', Modifiers: key.ModShift, Direction: key.DirPress}, []action.Action{action.KeyDown{Key: action.KeyEnter, Mods: action.ModShift}}},
		{"repeat arrow", key.Event{Code: key.CodeLeftArrow, Direction: key.DirNone}, []action.Action{action.KeyDown{Key: action.KeyArrowLeft}}},
		{"down arrow", key.Event{Code: key.CodeDownArrow, Direction: key.DirPress}, []action.Action{action.KeyDown{Key: action.KeyArrowDown}}},
		{"release", key.Event{Code: key.CodeEscape, Direction: key.DirRelease}, nil},
		{"char", key.Event{Code: key.CodeA, Rune: 'a', Direction: key.DirPress}, []action.Action{action.CharInput{Rune: 'a'}}},
		{"shifted char", key.Event{Code: key.CodeA, Rune: 'A', Modifiers: key.ModShift, Direction: key.DirPress}, []action.Action{action.CharInput{Rune: 'A'}}},
		{"ctrl z", key.Event{Code: key.CodeZ, Rune: 'z', Modifiers: key.ModControl, Direction: key.DirPress}, []action.Action{action.KeyDown{Key: action.KeyRune, Rune: 'z', Mods: action.ModCtrl}}},
		{"cmd c", key.Event{Code: key.CodeC, Rune: 'c', Modifiers: key.ModMeta, Direction: key.DirPress}, []action.Action{action.KeyDown{Key: action.KeyRune, Rune: 'c', Mods: action.ModCtrl}}},
		{"no rune", key.Event{Code: key.CodeLeftShift, Rune: -1, Direction: key.DirPress}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeyActions(tt.ev); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("KeyActions = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestPointerDoubleClick(t *testing.T) {
	var p Pointer
	t0 := time.Unix(100, 0)
	got := p.Actions(press(10, 10), t0)
	if !reflect.DeepEqual(got, []action.Action{action.PointerDown{X: 10, Y: 10}}) {
		t.Fatalf("first press = %#v", got)
	}
	if !p.Pressed() {
		t.Fatal("expected pressed")
	}
	if got := p.Actions(move(11, 12), t0); !reflect.DeepEqual(got, []action.Action{action.PointerMove{X: 11, Y: 12, Pressed: true}}) {
		t.Fatalf("move = %#v", got)
	}
	p.Actions(release(11, 12), t0)
	got = p.Actions(press(12, 11), t0.Add(200*time.Millisecond))
	if !reflect.DeepEqual(got, []action.Action{action.DoubleClick{X: 12, Y: 11}}) {
		t.Fatalf("second press = %#v", got)
	}
	p.Actions(release(12, 11), t0)

	// a third quick press starts over
	got = p.Actions(press(12, 11), t0.Add(300*time.Millisecond))
	if _, ok := got[0].(action.PointerDown); !ok {
		t.Fatalf("third press = %#v", got)
	}
	p.Actions(release(12, 11), t0)
	got = p.Actions(press(12, 11), t0.Add(time.Second))
	if _, ok := got[0].(action.PointerDown); !ok {
		t.Fatalf("slow press = %#v", got)
	}
}

func TestPointerIgnoresOtherButtons(t *testing.T) {
	var p Pointer
	if got := p.Actions(mouse.Event{Button: mouse.ButtonRight, Direction: mouse.DirPress}, time.Now()); got != nil {
		t.Fatalf("right press = %#v", got)
	}
	if got := p.Actions(release(1, 1), time.Now()); got != nil {
		t.Fatalf("unpaired release = %#v", got)
	}
	if got := p.Actions(mouse.Event{Direction: mouse.DirStep, Button: mouse.ButtonWheelUp}, time.Now()); got != nil {
		t.Fatalf("wheel = %#v", got)
	}
}
