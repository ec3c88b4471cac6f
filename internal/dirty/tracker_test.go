package dirty

import (
	"testing"

	"github.com/example/snapmark/internal/geom"
)

func TestNewTrackerIsClean(t *testing.T) {
	tr := NewTracker(800, 600)
	if tr.IsDirty() {
		t.Fatal("new tracker should be clean")
	}
	if tr.Kind() != None {
		t.Fatalf("Kind = %v, want none", tr.Kind())
	}
	if _, ok := tr.CombinedRect(); ok {
		t.Fatal("CombinedRect should report nothing dirty")
	}
}

func TestMarkDirtyUnionsDisjointRegions(t *testing.T) {
	tr := NewTracker(800, 600)
	tr.MarkDirty(geom.R(0, 0, 10, 10))
	tr.MarkDirty(geom.R(20, 20, 30, 30))

	if tr.Kind() != Partial {
		t.Fatalf("Kind = %v, want partial", tr.Kind())
	}
	if n := len(tr.Regions()); n != 2 {
		t.Fatalf("regions = %d, want 2", n)
	}
	got, ok := tr.CombinedRect()
	if !ok || got != geom.R(0, 0, 30, 30) {
		t.Fatalf("CombinedRect = %+v, %v", got, ok)
	}
}

func TestMarkDirtyMergesIntersecting(t *testing.T) {
	tr := NewTracker(800, 600)
	tr.MarkDirty(geom.R(0, 0, 10, 10))
	tr.MarkDirty(geom.R(5, 5, 15, 15))
	regions := tr.Regions()
	if len(regions) != 1 || regions[0] != geom.R(0, 0, 15, 15) {
		t.Fatalf("regions = %+v", regions)
	}
}

func TestFullRedrawDominates(t *testing.T) {
	tr := NewTracker(800, 600)
	tr.MarkDirty(geom.R(0, 0, 10, 10))
	tr.MarkFullRedraw()
	tr.MarkDirty(geom.R(100, 100, 110, 110))

	if tr.Kind() != Full {
		t.Fatalf("Kind = %v, want full", tr.Kind())
	}
	if len(tr.Regions()) != 0 {
		t.Fatalf("regions should be dropped during a full redraw")
	}
	got, _ := tr.CombinedRect()
	if got != geom.R(0, 0, 799, 599) {
		t.Fatalf("CombinedRect = %+v, want screen", got)
	}
}

func TestClearResets(t *testing.T) {
	tr := NewTracker(800, 600)
	tr.MarkFullRedraw()
	tr.Clear()
	if tr.IsDirty() || tr.Kind() != None {
		t.Fatalf("tracker still dirty after Clear: %v", tr.Kind())
	}
	tr.MarkDirty(geom.R(1, 1, 2, 2))
	if tr.Kind() != Partial {
		t.Fatalf("tracker should accept regions after Clear")
	}
}

func TestMarkDirtyClipsToScreen(t *testing.T) {
	tr := NewTracker(100, 100)
	tr.MarkDirty(geom.R(90, 90, 200, 200))
	got, _ := tr.CombinedRect()
	if got != geom.R(90, 90, 99, 99) {
		t.Fatalf("clipped = %+v", got)
	}
	tr.Clear()
	tr.MarkDirty(geom.R(300, 300, 400, 400))
	if tr.IsDirty() {
		t.Fatal("offscreen region should be ignored")
	}
}

func TestMarkDirtyOriginPixel(t *testing.T) {
	tr := NewTracker(100, 100)
	tr.MarkDirty(geom.R(0, 0, 0, 0))
	got, ok := tr.CombinedRect()
	if !ok || got != geom.R(0, 0, 0, 0) {
		t.Fatalf("CombinedRect = %+v, %v", got, ok)
	}
	tr.Clear()
	tr.MarkDirty(geom.R(-10, -10, 0, 0))
	if got, _ := tr.CombinedRect(); got != geom.R(0, 0, 0, 0) {
		t.Fatalf("corner overlap = %+v", got)
	}
	tr.Clear()
	tr.MarkDirty(geom.None)
	if tr.IsDirty() {
		t.Fatal("None should not mark anything")
	}
}

func TestTooManyRegionsCollapse(t *testing.T) {
	tr := NewTracker(1000, 1000)
	for i := 0; i <= DefaultMaxRegions; i++ {
		x := i * 20
		tr.MarkDirty(geom.R(x, 0, x+5, 5))
	}
	if n := len(tr.Regions()); n != 1 {
		t.Fatalf("regions = %d, want collapse to 1", n)
	}
	if tr.Kind() != Partial {
		t.Fatalf("collapse should stay partial, got %v", tr.Kind())
	}
}

func TestSetScreenSizeForcesFull(t *testing.T) {
	tr := NewTracker(10, 10)
	tr.SetScreenSize(20, 20)
	if tr.Kind() != Full {
		t.Fatalf("resize should force a full redraw")
	}
	if tr.Screen() != geom.R(0, 0, 19, 19) {
		t.Fatalf("Screen = %+v", tr.Screen())
	}
}
