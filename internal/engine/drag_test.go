package engine

import (
	"testing"

	"github.com/eric-ce/mapmeasure/pkg/core"
)

func TestDragEndCommitsNewPosition(t *testing.T) {
	e, gfx, _ := newTestEngine(t, core.ModeDistance)
	buildChain(t, e, p(0, 0), p(10, 0), p(20, 0))

	g := e.Groups()[0]
	pointID := e.Handles().Graphics(g.ID).Points[1].ID
	e.DragStart(pointID)
	if !e.Dragging() {
		t.Fatalf("drag did not start")
	}
	if got, _ := e.GroupByID(g.ID); got.Status != core.GroupPending {
		t.Errorf("dragged group not pending")
	}
	e.DragMove(p(10, 5))
	e.DragEnd(p(10, 10))

	g, _ = e.GroupByID(g.ID)
	if g.Status != core.GroupCompleted {
		t.Errorf("group not completed after drag end")
	}
	if g.Coordinates[1].Lat != 10 {
		t.Errorf("coordinate not updated: %+v", g.Coordinates[1])
	}
	// Letters survive the drag untouched.
	if g.SegmentLetters[0] != 0 || g.SegmentLetters[1] != 1 {
		t.Errorf("segment letters changed across drag: %v", g.SegmentLetters)
	}
	if len(g.Records.Distances) != 2 {
		t.Fatalf("expected 2 distances, got %d", len(g.Records.Distances))
	}
	if g.Records.Distances[0] <= 10 {
		t.Errorf("distance not recomputed: %v", g.Records.Distances[0])
	}
	if gfx.Count(core.KindPoint) != 3 || gfx.Count(core.KindLine) != 2 {
		t.Errorf("primitive counts after drag: points=%d lines=%d",
			gfx.Count(core.KindPoint), gfx.Count(core.KindLine))
	}
	for _, h := range e.Handles().Graphics(g.ID).All() {
		if h.Status == core.StatusMoving {
			t.Errorf("moving preview survived drag end: %s", h.ID)
		}
	}
}

func TestDragCancelRevertsToOrigin(t *testing.T) {
	e, gfx, _ := newTestEngine(t, core.ModeDistance)
	buildChain(t, e, p(0, 0), p(10, 0), p(20, 0))

	g := e.Groups()[0]
	pointID := e.Handles().Graphics(g.ID).Points[1].ID
	before := gfx.Len()

	e.DragStart(pointID)
	e.DragMove(p(50, 50))
	e.DragCancel()

	if e.Dragging() {
		t.Fatalf("drag state survived cancel")
	}
	g, _ = e.GroupByID(g.ID)
	if g.Status != core.GroupCompleted {
		t.Errorf("group not restored to completed")
	}
	if g.Coordinates[1].Lng != 10 || g.Coordinates[1].Lat != 0 {
		t.Errorf("coordinate mutated by cancelled drag: %+v", g.Coordinates[1])
	}
	if g.Records.Total != 20 {
		t.Errorf("records mutated by cancelled drag: total %v", g.Records.Total)
	}
	if gfx.Len() != before {
		t.Errorf("primitive count changed across cancel: %d -> %d", before, gfx.Len())
	}
}

func TestDragMoveRedrawsPreviewInPlace(t *testing.T) {
	e, gfx, _ := newTestEngine(t, core.ModeDistance)
	buildChain(t, e, p(0, 0), p(10, 0), p(20, 0))

	g := e.Groups()[0]
	pointID := e.Handles().Graphics(g.ID).Points[1].ID
	e.DragStart(pointID)
	after := gfx.Len()
	e.DragMove(p(11, 1))
	e.DragMove(p(12, 2))
	if gfx.Len() != after {
		t.Errorf("preview accumulated primitives: %d -> %d", after, gfx.Len())
	}
	e.DragCancel()
}

func TestDragEndpointTouchesOneSegment(t *testing.T) {
	e, _, _ := newTestEngine(t, core.ModeDistance)
	buildChain(t, e, p(0, 0), p(10, 0), p(20, 0))

	g := e.Groups()[0]
	pointID := e.Handles().Graphics(g.ID).Points[0].ID
	e.DragStart(pointID)
	e.DragEnd(p(0, 10))

	g, _ = e.GroupByID(g.ID)
	if g.Coordinates[0].Lat != 10 {
		t.Errorf("endpoint not moved")
	}
	if g.Records.Distances[1] != 10 {
		t.Errorf("untouched segment distance changed: %v", g.Records.Distances[1])
	}
}

func TestConstructionIgnoredDuringDrag(t *testing.T) {
	e, _, _ := newTestEngine(t, core.ModeDistance)
	buildChain(t, e, p(0, 0), p(10, 0))

	g := e.Groups()[0]
	pointID := e.Handles().Graphics(g.ID).Points[0].ID
	e.DragStart(pointID)
	e.PrimaryAction(p(70, 70))
	if len(e.Groups()) != 1 {
		t.Errorf("primary action started a group mid-drag")
	}
	e.DragCancel()
}
