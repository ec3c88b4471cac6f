package host

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/example/snapmark/internal/action"
	"github.com/example/snapmark/internal/capture"
	"github.com/example/snapmark/internal/command"
	"github.com/example/snapmark/internal/dirty"
	"github.com/example/snapmark/internal/dispatch"
	"github.com/example/snapmark/internal/element"
	"github.com/example/snapmark/internal/geom"
	"github.com/example/snapmark/internal/ocr"
)

// Executor performs commands against the host capabilities. Capabilities
// left nil turn the matching commands into errors or no-ops.
type Executor struct {
	Dispatcher *dispatch.Dispatcher
	Tracker    *dirty.Tracker

	Platform Platform
	Capturer Capturer
	Composer Composer
	OCR      OCR
	Notifier Notifier

	// LoadStyle rereads the annotation style for ReloadSettings.
	LoadStyle func() (element.Style, error)
	// SaveDir is where suggested file names point.
	SaveDir string

	frame   capture.Frame
	toolbar command.UpdateToolbar
	now     func() time.Time
}

// Frame returns the current capture.
func (e *Executor) Frame() capture.Frame { return e.frame }

// Toolbar returns the last toolbar state.
func (e *Executor) Toolbar() command.UpdateToolbar { return e.toolbar }

// Execute implements command.Executor.
func (e *Executor) Execute(c command.Command) []command.Command {
	switch c := c.(type) {
	case command.None:
	case command.Redraw:
		if c.Full {
			e.Tracker.MarkFullRedraw()
		} else {
			e.Tracker.MarkDirty(c.Rect)
		}
		if e.Platform != nil {
			e.Platform.RequestRedraw()
		}
	case command.SaveToFile:
		return e.saveToFile(c)
	case command.SaveToClipboard:
		return e.saveToClipboard(c)
	case command.ShowError:
		log.Printf("error: %s", c.Message)
		if e.Platform != nil {
			e.Platform.ShowError(c.Message)
		}
	case command.ShowMessage:
		if e.Platform != nil {
			e.Platform.ShowMessage(c.Title, c.Body)
		}
	case command.StartTimer:
		if e.Platform != nil {
			e.Platform.StartTimer(c.ID, c.Interval)
		}
	case command.StopTimer:
		if e.Platform != nil {
			e.Platform.StopTimer(c.ID)
		}
	case command.UpdateToolbar:
		e.toolbar = c
	case command.ReloadSettings:
		return e.reloadSettings()
	case command.HideWindow:
		if e.Platform != nil {
			e.Platform.HideWindow()
		}
	case command.ShowWindow:
		if e.Platform != nil {
			e.Platform.ShowWindow()
		}
	case command.DestroyWindow:
		if e.Platform != nil {
			e.Platform.DestroyWindow()
		}
	case command.BeginOCR:
		return e.beginOCR(c)
	case command.CancelOCR:
		if e.OCR != nil {
			e.OCR.Cancel(c.Job)
		}
	case command.ResetSession:
		return []command.Command{command.Dispatch{Action: action.Reset{}}}
	case command.CaptureScreen:
		return e.captureScreen()
	case command.CopyText:
		return e.copyText(c.Text)
	case command.Dispatch:
		if e.Dispatcher != nil {
			return e.Dispatcher.Dispatch(c.Action)
		}
	default:
		log.Printf("executor: unhandled command %T", c)
	}
	return nil
}

func (e *Executor) failed(format string, args ...any) []command.Command {
	return []command.Command{command.ShowError{Message: fmt.Sprintf(format, args...)}}
}

// Load installs frame as the current capture and starts a session on it.
func (e *Executor) Load(frame capture.Frame) []command.Command {
	e.frame = frame
	b := frame.Bounds()
	e.Tracker.SetScreenSize(b.Width()+1, b.Height()+1)
	available := e.OCR != nil && e.OCR.Available()
	return []command.Command{
		command.Dispatch{Action: action.FrameCaptured{Bounds: b, Windows: frame.Windows.Enumerator()}},
		command.Dispatch{Action: action.OCRAvailability{Available: available}},
	}
}

func (e *Executor) captureScreen() []command.Command {
	if e.Capturer == nil {
		return e.failed("capture failed: no capture backend")
	}
	frame, err := e.Capturer.Capture()
	if err != nil {
		return e.failed("capture failed: %v", err)
	}
	if e.Notifier != nil {
		b := frame.Image.Bounds()
		e.Notifier.Capture(fmt.Sprintf("%dx%d screen", b.Dx(), b.Dy()), nil)
	}
	return e.Load(frame)
}

// flatten composes the selection with its annotations.
func (e *Executor) flatten(rect geom.Rect) (*image.RGBA, error) {
	if e.frame.Image == nil {
		return nil, errors.New("no capture")
	}
	var elements []element.Element
	if e.Dispatcher != nil {
		elements = e.Dispatcher.Store().Elements()
	}
	if e.Composer == nil {
		return capture.Crop(e.frame.Image, rect)
	}
	return e.Composer.Compose(e.frame.Image, rect, elements)
}

func (e *Executor) timestamp() time.Time {
	if e.now != nil {
		return e.now()
	}
	return time.Now()
}

// SuggestedName returns the default file name for a save at t.
func SuggestedName(dir string, t time.Time) string {
	return filepath.Join(dir, "snapmark-"+t.Format("20060102-150405")+".png")
}

func (e *Executor) saveToFile(c command.SaveToFile) []command.Command {
	if !c.Rect.HasArea() {
		return []command.Command{command.ShowError{Message: dispatch.MsgSelectRegion}}
	}
	if e.Platform == nil {
		return e.failed("save failed: no file dialog")
	}
	img, err := e.flatten(c.Rect)
	if err != nil {
		return e.failed("save failed: %v", err)
	}
	path, ok, err := e.Platform.SavePath(SuggestedName(e.SaveDir, e.timestamp()))
	if err != nil {
		return e.failed("save failed: %v", err)
	}
	if !ok {
		return nil
	}
	if err := writePNG(path, img); err != nil {
		return e.failed("save failed: %v", err)
	}
	log.Printf("saved %s", path)
	if e.Notifier != nil {
		e.Notifier.Save(path)
	}
	return []command.Command{command.HideWindow{}, command.ResetSession{}}
}

func writePNG(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func (e *Executor) saveToClipboard(c command.SaveToClipboard) []command.Command {
	if !c.Rect.HasArea() {
		return []command.Command{command.ShowError{Message: dispatch.MsgSelectRegion}}
	}
	if e.Platform == nil {
		return e.failed("save failed: no clipboard")
	}
	img, err := e.flatten(c.Rect)
	if err != nil {
		return e.failed("save failed: %v", err)
	}
	if err := e.Platform.WriteImage(img); err != nil {
		return e.failed("save failed: %v", err)
	}
	if e.Notifier != nil {
		e.Notifier.Copy("image")
	}
	return []command.Command{command.HideWindow{}, command.ResetSession{}}
}

func (e *Executor) copyText(text string) []command.Command {
	if e.Platform == nil {
		return e.failed("copy failed: no clipboard")
	}
	if err := e.Platform.WriteText(text); err != nil {
		return e.failed("copy failed: %v", err)
	}
	if e.Notifier != nil {
		e.Notifier.Copy("text")
	}
	return nil
}

func (e *Executor) reloadSettings() []command.Command {
	if e.LoadStyle == nil {
		return nil
	}
	style, err := e.LoadStyle()
	if err != nil {
		return e.failed("reload settings: %v", err)
	}
	return []command.Command{command.Dispatch{Action: action.SettingsReloaded{Style: style}}}
}

func (e *Executor) beginOCR(c command.BeginOCR) []command.Command {
	cancelled := command.Dispatch{Action: action.OCRCancelled{Job: c.Job}}
	if e.OCR == nil {
		return []command.Command{command.ShowError{Message: dispatch.MsgOCRUnavailable}, cancelled}
	}
	if e.frame.Image == nil {
		return []command.Command{command.ShowError{Message: "text recognition failed: no capture"}, cancelled}
	}
	img, err := capture.Crop(e.frame.Image, c.Rect)
	if err != nil {
		return []command.Command{command.ShowError{Message: fmt.Sprintf("text recognition failed: %v", err)}, cancelled}
	}
	if err := e.OCR.Submit(ocr.Job{ID: c.Job, Image: img}); err != nil {
		return []command.Command{command.ShowError{Message: fmt.Sprintf("text recognition failed: %v", err)}, cancelled}
	}
	return nil
}
