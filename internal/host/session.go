package host

import (
	"github.com/example/snapmark/internal/action"
	"github.com/example/snapmark/internal/capture"
	"github.com/example/snapmark/internal/command"
	"github.com/example/snapmark/internal/dirty"
	"github.com/example/snapmark/internal/dispatch"
	"github.com/example/snapmark/internal/element"
	"github.com/example/snapmark/internal/selection"
)

// Session runs one overlay: actions go through the dispatcher, the resulting
// commands drain through the executor and Paint renders what became dirty.
// It is not safe for concurrent use; hosts call it from their event loop.
type Session struct {
	Dispatcher *dispatch.Dispatcher
	Queue      *command.Queue
	Tracker    *dirty.Tracker
	Exec       *Executor
}

// NewSession wires a dispatcher, queue and tracker to exec. exec's
// Dispatcher and Tracker fields are filled in.
func NewSession(style element.Style, exec *Executor) *Session {
	d := dispatch.New(style)
	t := dirty.NewTracker(1, 1)
	exec.Dispatcher = d
	exec.Tracker = t
	if m := measurerOf(exec.Composer); m != nil {
		d.Store().SetMeasurer(m)
	}
	return &Session{
		Dispatcher: d,
		Queue:      command.NewQueue(command.DefaultLimit),
		Tracker:    t,
		Exec:       exec,
	}
}

func measurerOf(c Composer) element.TextMeasurer {
	if m, ok := c.(interface{ Measurer() element.TextMeasurer }); ok {
		return m.Measurer()
	}
	return nil
}

// Handle dispatches a and drains the resulting commands.
func (s *Session) Handle(a action.Action) error {
	return s.Queue.Execute(s.Exec, s.Dispatcher.Dispatch(a)...)
}

// Run drains cmds without a triggering action.
func (s *Session) Run(cmds ...command.Command) error {
	return s.Queue.Execute(s.Exec, cmds...)
}

// Load starts a session on an existing frame, e.g. an image opened from
// disk.
func (s *Session) Load(frame capture.Frame) error {
	return s.Run(s.Exec.Load(frame)...)
}

// Chrome describes the overlay for the current state.
func (s *Session) Chrome() Chrome {
	d := s.Dispatcher
	c := Chrome{
		Screen:  s.Tracker.Screen(),
		Hover:   d.Hover(),
		Toolbar: s.Exec.Toolbar(),
		OCRBusy: d.OCRRunning(),
	}
	c.Selection, c.HasSelection = d.Selection()
	if ph := d.Phase(); ph.Kind == selection.Selecting && ph.HasCandidate {
		c.Candidate, c.HasCandidate = ph.Rect, true
	}
	return c
}

// Paint renders the dirty part of the overlay and clears the tracker. It
// does nothing when nothing is dirty.
func (s *Session) Paint(r Renderer) error {
	if !s.Tracker.IsDirty() {
		return nil
	}
	defer s.Tracker.Clear()

	clip := s.Tracker.Screen()
	if s.Tracker.Kind() == dirty.Partial {
		if combined, ok := s.Tracker.CombinedRect(); ok {
			clip = combined
		}
	}
	r.BeginFrame(clip)
	if img := s.Exec.Frame().Image; img != nil {
		r.DrawBackground(img)
	}
	d := s.Dispatcher
	editing := d.Editing()
	for i, e := range d.Store().Elements() {
		if !e.Bounds.Intersects(clip) {
			continue
		}
		r.DrawElement(e, ElementState{
			Selected: e.Selected,
			Editing:  i == editing,
			Caret:    i == editing && d.CursorVisible(),
		})
	}
	r.DrawSelection(s.Chrome())
	return r.EndFrame()
}
