// Package host connects the dispatcher to the outside world. It defines the
// capabilities a platform provides, executes commands against them and owns
// the per-frame paint.
package host

import (
	"image"
	"time"

	"github.com/google/uuid"

	"github.com/example/snapmark/internal/capture"
	"github.com/example/snapmark/internal/command"
	"github.com/example/snapmark/internal/element"
	"github.com/example/snapmark/internal/geom"
	"github.com/example/snapmark/internal/highlight"
	"github.com/example/snapmark/internal/ocr"
)

// Chrome is the selection overlay drawn on top of the frame.
type Chrome struct {
	Screen geom.Rect

	// Selection is the confirmed region.
	Selection    geom.Rect
	HasSelection bool
	// Candidate is the rectangle being dragged out while selecting.
	Candidate    geom.Rect
	HasCandidate bool

	Hover   *highlight.Candidate
	Toolbar command.UpdateToolbar
	OCRBusy bool
}

// ElementState says how an element should be decorated.
type ElementState struct {
	Selected bool
	Editing  bool
	Caret    bool
}

// Renderer paints one frame. Calls arrive in the order BeginFrame,
// DrawBackground, DrawElement for each element, DrawSelection, EndFrame.
type Renderer interface {
	BeginFrame(clip geom.Rect)
	DrawBackground(img *image.RGBA)
	DrawElement(e element.Element, st ElementState)
	DrawSelection(c Chrome)
	EndFrame() error
}

// Platform is the window system and desktop integration.
type Platform interface {
	ShowWindow()
	HideWindow()
	DestroyWindow()
	RequestRedraw()
	StartTimer(id int, interval time.Duration)
	StopTimer(id int)
	WriteImage(img image.Image) error
	WriteText(text string) error
	// SavePath asks where to save. ok is false when the user cancelled.
	SavePath(suggested string) (path string, ok bool, err error)
	ShowMessage(title, body string)
	ShowError(msg string)
}

// OCR recognizes text asynchronously. Results come back as actions.
type OCR interface {
	Available() bool
	Submit(job ocr.Job) error
	Cancel(id uuid.UUID)
}

// Capturer grabs the screen.
type Capturer interface {
	Capture() (capture.Frame, error)
}

// CapturerFunc adapts a function to Capturer.
type CapturerFunc func() (capture.Frame, error)

func (f CapturerFunc) Capture() (capture.Frame, error) { return f() }

// Composer flattens the annotations inside rect onto a copy of img.
type Composer interface {
	Compose(img *image.RGBA, rect geom.Rect, elements []element.Element) (*image.RGBA, error)
}

// Notifier announces completed saves and copies.
type Notifier interface {
	Save(path string)
	Copy(detail string)
	Capture(detail string, img image.Image)
}
