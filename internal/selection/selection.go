// Package selection implements the capture region state machine: idle,
// rubber-band selecting, and editing a confirmed region.
package selection

import "github.com/example/snapmark/internal/geom"

// PhaseKind is the coarse state of the machine.
type PhaseKind int

const (
	Idle PhaseKind = iota
	Selecting
	Editing
)

func (k PhaseKind) String() string {
	switch k {
	case Idle:
		return "idle"
	case Selecting:
		return "selecting"
	case Editing:
		return "editing"
	}
	return "unknown"
}

// Phase is the machine state. Anchor is valid while Selecting. Rect is the
// candidate while Selecting and the confirmed region while Editing.
type Phase struct {
	Kind         PhaseKind
	Anchor       geom.Point
	Rect         geom.Rect
	HasCandidate bool
}

// DragKind is what an active pointer drag manipulates.
type DragKind int

const (
	DragNone DragKind = iota
	DragDrawingShape
	DragMovingElement
	DragResizing
)

func (k DragKind) String() string {
	switch k {
	case DragNone:
		return "none"
	case DragDrawingShape:
		return "drawing"
	case DragMovingElement:
		return "moving"
	case DragResizing:
		return "resizing"
	}
	return "unknown"
}

// Target says whether a move or resize applies to the region or an element.
type Target int

const (
	TargetSelection Target = iota
	TargetElement
)

// DragMode describes the drag in progress. Start and StartRect capture the
// press position and the rectangle being manipulated at that moment.
type DragMode struct {
	Kind      DragKind
	Handle    geom.Handle
	Target    Target
	Index     int
	Start     geom.Point
	StartRect geom.Rect
}

// Active reports whether a drag is in progress.
func (d DragMode) Active() bool { return d.Kind != DragNone }

// Outcome tells the caller what a pointer event did.
type Outcome int

const (
	// OutcomeNone means the event was not handled.
	OutcomeNone Outcome = iota
	// OutcomeSelecting means a rubber-band selection started.
	OutcomeSelecting
	// OutcomeResizing means a region handle drag started.
	OutcomeResizing
	// OutcomeMoving means a region move started.
	OutcomeMoving
	// OutcomeCancelled means the region was dropped and the machine is idle.
	OutcomeCancelled
	// OutcomeRouted means the press belongs to the element tools.
	OutcomeRouted
	// OutcomeCommitted means a selection drag produced an editing region.
	OutcomeCommitted
	// OutcomeIdle means a selection ended without a region.
	OutcomeIdle
	// OutcomeDragEnd means a region move or resize finished.
	OutcomeDragEnd
)

// Machine is the selection state machine. It is owned by the UI goroutine.
type Machine struct {
	frame    geom.Rect
	hasFrame bool
	phase    Phase
	drag     DragMode
}

// New returns an idle machine without a frame.
func New() *Machine {
	return &Machine{}
}

// SetFrame installs the captured frame bounds and returns to Idle.
func (m *Machine) SetFrame(bounds geom.Rect) {
	m.frame = bounds
	m.hasFrame = true
	m.phase = Phase{}
	m.drag = DragMode{}
}

// ClearFrame forgets the captured frame.
func (m *Machine) ClearFrame() {
	m.hasFrame = false
	m.frame = geom.None
}

// HasFrame reports whether a frame has been captured.
func (m *Machine) HasFrame() bool { return m.hasFrame }

// Frame returns the frame bounds.
func (m *Machine) Frame() geom.Rect { return m.frame }

// Phase returns the current phase.
func (m *Machine) Phase() Phase { return m.phase }

// Drag returns the drag in progress.
func (m *Machine) Drag() DragMode { return m.drag }

// BeginDrag starts an element drag owned by the caller.
func (m *Machine) BeginDrag(d DragMode) { m.drag = d }

// EndDrag clears the drag in progress.
func (m *Machine) EndDrag() { m.drag = DragMode{} }

// Confirmed returns the editing region.
func (m *Machine) Confirmed() (geom.Rect, bool) {
	if m.phase.Kind != Editing {
		return geom.None, false
	}
	return m.phase.Rect, true
}

// OnMouseDown handles a primary button press. toolActive reports whether an
// annotation tool is selected.
func (m *Machine) OnMouseDown(x, y int, toolActive bool) Outcome {
	p := geom.Pt(x, y)
	switch m.phase.Kind {
	case Idle:
		if !m.hasFrame {
			return OutcomeNone
		}
		m.phase = Phase{Kind: Selecting, Anchor: p, Rect: geom.FromPoints(p, p)}
		return OutcomeSelecting
	case Editing:
		r := m.phase.Rect
		if h := geom.HandleAt(r, x, y, geom.HandleTolerance); h != geom.HandleNone {
			m.drag = DragMode{Kind: DragResizing, Handle: h, Target: TargetSelection, Start: p, StartRect: r}
			return OutcomeResizing
		}
		if toolActive {
			return OutcomeRouted
		}
		if r.Contains(x, y) {
			m.drag = DragMode{Kind: DragMovingElement, Target: TargetSelection, Start: p, StartRect: r}
			return OutcomeMoving
		}
		m.OnCancel()
		return OutcomeCancelled
	}
	return OutcomeNone
}

// OnMouseMove updates the candidate or the region being dragged and reports
// whether anything changed.
func (m *Machine) OnMouseMove(x, y int) bool {
	switch m.phase.Kind {
	case Selecting:
		r := geom.FromPoints(m.phase.Anchor, geom.Pt(x, y)).Clamp(m.frame)
		if r == m.phase.Rect && m.phase.HasCandidate {
			return false
		}
		m.phase.Rect = r
		m.phase.HasCandidate = true
		return true
	case Editing:
		if m.drag.Target != TargetSelection {
			return false
		}
		dx, dy := x-m.drag.Start.X, y-m.drag.Start.Y
		var r geom.Rect
		switch m.drag.Kind {
		case DragMovingElement:
			r = m.drag.StartRect.Offset(dx, dy).KeepInside(m.frame)
		case DragResizing:
			r = geom.ResizeByHandle(m.drag.StartRect, m.drag.Handle, dx, dy).Clamp(m.frame)
			if !r.HasArea() {
				return false
			}
		default:
			return false
		}
		if r == m.phase.Rect {
			return false
		}
		m.phase.Rect = r
		return true
	}
	return false
}

// OnMouseUp finishes a selection or a region drag.
func (m *Machine) OnMouseUp(x, y int) Outcome {
	p := geom.Pt(x, y)
	switch m.phase.Kind {
	case Selecting:
		anchor := m.phase.Anchor
		if geom.DragExceeded(anchor, p, geom.DragThreshold) {
			r := geom.FromPoints(anchor, p).Clamp(m.frame)
			if r.HasArea() {
				m.phase = Phase{Kind: Editing, Rect: r}
				return OutcomeCommitted
			}
		}
		m.phase = Phase{}
		return OutcomeIdle
	case Editing:
		if m.drag.Active() && m.drag.Target == TargetSelection {
			m.drag = DragMode{}
			return OutcomeDragEnd
		}
	}
	return OutcomeNone
}

// OnCancel returns to Idle from any phase. It is idempotent.
func (m *Machine) OnCancel() {
	m.phase = Phase{}
	m.drag = DragMode{}
}

// Confirm enters Editing with r, as when a highlighted window is clicked.
func (m *Machine) Confirm(r geom.Rect) bool {
	if !m.hasFrame {
		return false
	}
	r = r.Canon().Clamp(m.frame)
	if !r.HasArea() {
		return false
	}
	m.phase = Phase{Kind: Editing, Rect: r}
	m.drag = DragMode{}
	return true
}

// Reset returns to Idle and forgets the frame.
func (m *Machine) Reset() {
	m.OnCancel()
	m.ClearFrame()
}
