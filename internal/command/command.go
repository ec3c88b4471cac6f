// Package command defines the side effects the dispatcher asks the host to
// perform and the queue that drains them.
package command

import (
	"time"

	"github.com/google/uuid"

	"github.com/example/snapmark/internal/action"
	"github.com/example/snapmark/internal/element"
	"github.com/example/snapmark/internal/geom"
)

// Command is a side effect request.
type Command interface {
	isCommand()
}

// Timer ids.
const (
	TimerCursorBlink  = 1
	TimerCaptureDelay = 2001
)

// CursorBlinkInterval is the text caret blink period.
const CursorBlinkInterval = 500 * time.Millisecond

type (
	// None is the empty command. Queues drop it.
	None struct{}
	// Redraw asks for a repaint of Rect, or of everything when Full is set.
	Redraw struct {
		Full bool
		Rect geom.Rect
	}
	// SaveToFile writes the annotated selection to a file chosen by the host.
	SaveToFile struct{ Rect geom.Rect }
	// SaveToClipboard copies the annotated selection as an image.
	SaveToClipboard struct{ Rect geom.Rect }
	// ShowError reports a user facing failure.
	ShowError struct{ Message string }
	// ShowMessage reports information to the user.
	ShowMessage struct{ Title, Body string }
	// StartTimer starts or restarts a repeating timer.
	StartTimer struct {
		ID       int
		Interval time.Duration
	}
	// StopTimer stops a timer.
	StopTimer struct{ ID int }
	// UpdateToolbar refreshes toolbar placement and button state.
	UpdateToolbar struct {
		Visible bool
		Anchor  geom.Rect
		Tool    element.Tool
		CanUndo bool
		CanRedo bool
		OCR     bool
	}
	// ReloadSettings rereads configuration.
	ReloadSettings struct{}
	// HideWindow hides the overlay.
	HideWindow struct{}
	// ShowWindow shows the overlay.
	ShowWindow struct{}
	// DestroyWindow ends the program.
	DestroyWindow struct{}
	// BeginOCR submits the selection to the recognizer.
	BeginOCR struct {
		Job  uuid.UUID
		Rect geom.Rect
	}
	// CancelOCR abandons a recognition job.
	CancelOCR struct{ Job uuid.UUID }
	// ResetSession returns the core to its initial state.
	ResetSession struct{}
	// CaptureScreen grabs a new frame.
	CaptureScreen struct{}
	// CopyText places text on the clipboard.
	CopyText struct{ Text string }
	// Dispatch feeds an action back into the dispatcher.
	Dispatch struct{ Action action.Action }
)

func (None) isCommand()            {}
func (Redraw) isCommand()          {}
func (SaveToFile) isCommand()      {}
func (SaveToClipboard) isCommand() {}
func (ShowError) isCommand()       {}
func (ShowMessage) isCommand()     {}
func (StartTimer) isCommand()      {}
func (StopTimer) isCommand()       {}
func (UpdateToolbar) isCommand()   {}
func (ReloadSettings) isCommand()  {}
func (HideWindow) isCommand()      {}
func (ShowWindow) isCommand()      {}
func (DestroyWindow) isCommand()   {}
func (BeginOCR) isCommand()        {}
func (CancelOCR) isCommand()       {}
func (ResetSession) isCommand()    {}
func (CaptureScreen) isCommand()   {}
func (CopyText) isCommand()        {}
func (Dispatch) isCommand()        {}

// FullRedraw is shorthand for Redraw{Full: true}.
func FullRedraw() Command { return Redraw{Full: true} }
