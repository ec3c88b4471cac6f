// Package action defines the events the dispatcher consumes. Hosts translate
// their native input, timer, tray and worker callbacks into these values.
package action

import (
	"github.com/google/uuid"

	"github.com/example/snapmark/internal/element"
	"github.com/example/snapmark/internal/geom"
	"github.com/example/snapmark/internal/highlight"
)

// Action is a discrete input to the dispatcher.
type Action interface {
	isAction()
}

// Key is a non-character key.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyArrowLeft
	KeyArrowRight
	KeyArrowUp
	KeyArrowDown
	KeyHome
	KeyEnd
	KeyTab
	// KeyRune is a printable key carried in KeyDown.Rune, used for shortcuts.
	KeyRune
)

// Modifiers is a bit set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
)

// TrayItem identifies a tray menu entry.
type TrayItem int

const (
	TrayCapture TrayItem = iota
	TraySettings
	TrayQuit
)

// SaveTarget is where a selection is persisted.
type SaveTarget int

const (
	SaveFile SaveTarget = iota
	SaveClipboard
)

// HotkeyCapture is the id of the global capture shortcut.
const HotkeyCapture = 1001

// TextBlock is one recognized line of text.
type TextBlock struct {
	Text       string
	Rect       geom.Rect
	Confidence float64
}

type (
	// PointerDown is a primary button press.
	PointerDown struct{ X, Y int }
	// PointerMove is pointer motion. Pressed reports the primary button state.
	PointerMove struct {
		X, Y    int
		Pressed bool
	}
	// PointerUp is a primary button release.
	PointerUp struct{ X, Y int }
	// DoubleClick is a second press in quick succession.
	DoubleClick struct{ X, Y int }
	// KeyDown is a key press.
	KeyDown struct {
		Key  Key
		Rune rune
		Mods Modifiers
	}
	// CharInput is typed text, delivered separately from KeyDown.
	CharInput struct{ Rune rune }
	// TimerFired is a host timer tick.
	TimerFired struct{ ID int }
	// Tray is a tray menu click.
	Tray struct{ Item TrayItem }
	// Hotkey is a global shortcut press.
	Hotkey struct{ ID int }

	// OCRResult is a finished recognition job.
	OCRResult struct {
		Job    uuid.UUID
		Text   string
		Blocks []TextBlock
		Err    error
	}
	// OCRAvailability reports whether the recognizer can be used.
	OCRAvailability struct{ Available bool }
	// OCRCancelled reports that a job ended without a result.
	OCRCancelled struct{ Job uuid.UUID }

	// SelectTool changes the active annotation tool.
	SelectTool struct{ Tool element.Tool }
	// Undo reverts the last committed annotation change.
	Undo struct{}
	// Redo reapplies the last undone change.
	Redo struct{}
	// Save persists the selection.
	Save struct{ Target SaveTarget }
	// ExtractText starts text recognition on the selection.
	ExtractText struct{}
	// Cancel is the escape action.
	Cancel struct{}

	// FrameCaptured installs a new capture.
	FrameCaptured struct {
		Bounds  geom.Rect
		Windows highlight.WindowEnumerator
	}
	// SettingsReloaded swaps the style used for new annotations.
	SettingsReloaded struct{ Style element.Style }
	// Reset returns the session to its initial state.
	Reset struct{}
)

func (PointerDown) isAction()      {}
func (PointerMove) isAction()      {}
func (PointerUp) isAction()        {}
func (DoubleClick) isAction()      {}
func (KeyDown) isAction()          {}
func (CharInput) isAction()        {}
func (TimerFired) isAction()       {}
func (Tray) isAction()             {}
func (Hotkey) isAction()           {}
func (OCRResult) isAction()        {}
func (OCRAvailability) isAction()  {}
func (OCRCancelled) isAction()     {}
func (SelectTool) isAction()       {}
func (Undo) isAction()             {}
func (Redo) isAction()             {}
func (Save) isAction()             {}
func (ExtractText) isAction()      {}
func (Cancel) isAction()           {}
func (FrameCaptured) isAction()    {}
func (SettingsReloaded) isAction() {}
func (Reset) isAction()            {}
