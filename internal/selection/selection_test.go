package selection

import (
	"testing"

	"github.com/example/snapmark/internal/geom"
)

var screen = geom.R(0, 0, 1919, 1079)

func editing(t *testing.T, r geom.Rect) *Machine {
	t.Helper()
	m := New()
	m.SetFrame(screen)
	if !m.Confirm(r) {
		t.Fatalf("Confirm(%+v) failed", r)
	}
	return m
}

func TestDragCommitsEditing(t *testing.T) {
	m := New()
	m.SetFrame(screen)
	if out := m.OnMouseDown(10, 10, false); out != OutcomeSelecting {
		t.Fatalf("down = %v", out)
	}
	if !m.OnMouseMove(110, 80) {
		t.Fatal("move should update the candidate")
	}
	if out := m.OnMouseUp(110, 80); out != OutcomeCommitted {
		t.Fatalf("up = %v", out)
	}
	ph := m.Phase()
	if ph.Kind != Editing || ph.Rect != geom.R(10, 10, 110, 80) {
		t.Fatalf("phase = %+v", ph)
	}
	if r, ok := m.Confirmed(); !ok || r != ph.Rect {
		t.Fatalf("Confirmed = %+v %v", r, ok)
	}
}

func TestReversedDragNormalizes(t *testing.T) {
	m := New()
	m.SetFrame(screen)
	m.OnMouseDown(110, 80, false)
	m.OnMouseUp(10, 10)
	if m.Phase().Rect != geom.R(10, 10, 110, 80) {
		t.Fatalf("rect = %+v", m.Phase().Rect)
	}
}

func TestSmallDragIsClick(t *testing.T) {
	m := New()
	m.SetFrame(screen)
	m.OnMouseDown(10, 10, false)
	m.OnMouseMove(13, 12)
	if out := m.OnMouseUp(13, 12); out != OutcomeIdle {
		t.Fatalf("up = %v", out)
	}
	if m.Phase().Kind != Idle {
		t.Fatalf("phase = %v", m.Phase().Kind)
	}
}

func TestZeroAreaDragReturnsIdle(t *testing.T) {
	m := New()
	m.SetFrame(screen)
	m.OnMouseDown(5, 5, false)
	m.OnMouseMove(5, 60)
	if m.Phase().Rect != geom.R(5, 5, 5, 60) {
		t.Fatalf("candidate = %+v", m.Phase().Rect)
	}
	if out := m.OnMouseUp(5, 60); out != OutcomeIdle {
		t.Fatalf("up = %v", out)
	}
}

func TestMouseDownWithoutFrameIgnored(t *testing.T) {
	m := New()
	if out := m.OnMouseDown(10, 10, false); out != OutcomeNone {
		t.Fatalf("down = %v", out)
	}
	if m.Phase().Kind != Idle {
		t.Fatal("machine left Idle without a frame")
	}
}

func TestCancelIdempotent(t *testing.T) {
	m := editing(t, geom.R(10, 10, 110, 80))
	m.OnCancel()
	first := m.Phase()
	m.OnCancel()
	if m.Phase() != first || first.Kind != Idle {
		t.Fatalf("phase = %+v", m.Phase())
	}
	if m.Drag().Active() {
		t.Fatal("drag survived cancel")
	}
	if !m.HasFrame() {
		t.Fatal("cancel should keep the frame")
	}
}

func TestEditingPointerDown(t *testing.T) {
	tests := []struct {
		name       string
		x, y       int
		toolActive bool
		want       Outcome
		phase      PhaseKind
		drag       DragKind
	}{
		{"handle", 12, 12, false, OutcomeResizing, Editing, DragResizing},
		{"handle with tool", 110, 45, true, OutcomeResizing, Editing, DragResizing},
		{"inside", 60, 45, false, OutcomeMoving, Editing, DragMovingElement},
		{"outside", 500, 500, false, OutcomeCancelled, Idle, DragNone},
		{"outside with tool", 500, 500, true, OutcomeRouted, Editing, DragNone},
		{"inside with tool", 60, 45, true, OutcomeRouted, Editing, DragNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := editing(t, geom.R(10, 10, 110, 80))
			if out := m.OnMouseDown(tt.x, tt.y, tt.toolActive); out != tt.want {
				t.Fatalf("outcome = %v, want %v", out, tt.want)
			}
			if m.Phase().Kind != tt.phase {
				t.Fatalf("phase = %v", m.Phase().Kind)
			}
			if m.Drag().Kind != tt.drag {
				t.Fatalf("drag = %v", m.Drag().Kind)
			}
		})
	}
}

func TestResizeByHandleDrag(t *testing.T) {
	m := editing(t, geom.R(10, 10, 110, 80))
	m.OnMouseDown(110, 80, false)
	if m.Drag().Handle != geom.HandleBottomRight {
		t.Fatalf("handle = %v", m.Drag().Handle)
	}
	m.OnMouseMove(150, 100)
	if out := m.OnMouseUp(150, 100); out != OutcomeDragEnd {
		t.Fatalf("up = %v", out)
	}
	if r, _ := m.Confirmed(); r != geom.R(10, 10, 150, 100) {
		t.Fatalf("rect = %+v", r)
	}
}

func TestResizeRejectsCollapse(t *testing.T) {
	m := editing(t, geom.R(10, 10, 110, 80))
	m.OnMouseDown(110, 45, false)
	if m.OnMouseMove(10, 45) {
		t.Fatal("collapsing to zero width should be rejected")
	}
	if r, _ := m.Confirmed(); r != geom.R(10, 10, 110, 80) {
		t.Fatalf("rect = %+v", r)
	}
}

func TestMoveStaysInFrame(t *testing.T) {
	m := editing(t, geom.R(10, 10, 110, 80))
	m.OnMouseDown(60, 45, false)
	m.OnMouseMove(0, 0)
	if r, _ := m.Confirmed(); r != geom.R(0, 0, 100, 70) {
		t.Fatalf("rect = %+v", r)
	}
}

func TestConfirmRequiresFrameAndArea(t *testing.T) {
	m := New()
	if m.Confirm(geom.R(0, 0, 10, 10)) {
		t.Fatal("Confirm without frame succeeded")
	}
	m.SetFrame(screen)
	if m.Confirm(geom.R(5, 5, 5, 50)) {
		t.Fatal("Confirm with zero width succeeded")
	}
}

func TestResetDropsFrame(t *testing.T) {
	m := editing(t, geom.R(10, 10, 110, 80))
	m.Reset()
	if m.HasFrame() || m.Phase().Kind != Idle {
		t.Fatal("Reset should return to a frameless Idle")
	}
}
