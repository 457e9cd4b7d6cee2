package engine

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/eric-ce/mapmeasure/internal/adapter/memgfx"
	"github.com/eric-ce/mapmeasure/internal/adapter/planar"
	"github.com/eric-ce/mapmeasure/internal/store/memory"
	"github.com/eric-ce/mapmeasure/pkg/core"
)

func newTestEngine(t *testing.T, mode core.Mode) (*Engine, *memgfx.Adapter, *memory.Store) {
	t.Helper()
	gfx := memgfx.New()
	st := memory.New()
	if err := st.Init(); err != nil {
		t.Fatalf("store init: %v", err)
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	e := New(StrategyFor(mode, 8), planar.New(0), gfx, st, log)
	return e, gfx, st
}

func p(x, y float64) core.Position { return core.Position{Lng: x, Lat: y} }

func TestChainConstruction(t *testing.T) {
	e, gfx, st := newTestEngine(t, core.ModeDistance)

	e.PrimaryAction(p(0, 0))
	if e.State() != StateBuilding {
		t.Fatalf("expected building state after first click")
	}
	e.PrimaryAction(p(10, 0))
	e.PrimaryAction(p(10, 10))
	e.SecondaryAction(p(20, 10))

	groups := e.Groups()
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	g := groups[0]
	if g.Status != core.GroupCompleted {
		t.Errorf("expected completed group, got %s", g.Status)
	}
	if len(g.Coordinates) != 4 {
		t.Fatalf("expected 4 coordinates, got %d", len(g.Coordinates))
	}
	if len(g.Records.Distances) != 3 {
		t.Fatalf("expected 3 distances, got %d", len(g.Records.Distances))
	}
	if g.Records.Total != 30 {
		t.Errorf("expected total 30, got %v", g.Records.Total)
	}
	want := []int{0, 1, 2}
	for i, n := range want {
		if g.SegmentLetters[i] != n {
			t.Errorf("segment %d letter = %d, want %d", i, g.SegmentLetters[i], n)
		}
	}

	if got := gfx.Count(core.KindPoint); got != 4 {
		t.Errorf("expected 4 point primitives, got %d", got)
	}
	if got := gfx.Count(core.KindLine); got != 3 {
		t.Errorf("expected 3 line primitives, got %d", got)
	}
	// 3 segment labels plus the running total.
	if got := gfx.Count(core.KindLabel); got != 4 {
		t.Errorf("expected 4 label primitives, got %d", got)
	}

	for _, h := range e.Handles().Graphics(g.ID).All() {
		if strings.HasSuffix(h.ID, "_pending") || strings.HasSuffix(h.ID, "_moving") {
			t.Errorf("finalized primitive kept lifecycle suffix: %s", h.ID)
		}
		if h.Status != core.StatusCompleted {
			t.Errorf("finalized primitive not completed: %s", h.ID)
		}
	}

	stored, ok := st.GetGroupByID(g.ID)
	if !ok {
		t.Fatalf("group not persisted")
	}
	if stored.Records.Total != 30 {
		t.Errorf("persisted total = %v, want 30", stored.Records.Total)
	}
}

func TestSegmentLabelText(t *testing.T) {
	e, _, _ := newTestEngine(t, core.ModeDistance)

	e.PrimaryAction(p(0, 0))
	e.SecondaryAction(p(100, 0))

	g := e.Groups()[0]
	gg := e.Handles().Graphics(g.ID)
	if len(gg.Labels) != 1 {
		t.Fatalf("expected 1 segment label, got %d", len(gg.Labels))
	}
	if got, want := gg.Labels[0].Text, "a0: 100.00m"; got != want {
		t.Errorf("label text = %q, want %q", got, want)
	}
	if gg.Total == nil {
		t.Fatalf("missing total label")
	}
	if got, want := gg.Total.Text, "Total: 100.00m"; got != want {
		t.Errorf("total text = %q, want %q", got, want)
	}
}

func TestMovingPreviewReplacedEachTick(t *testing.T) {
	e, gfx, _ := newTestEngine(t, core.ModeDistance)

	e.PrimaryAction(p(0, 0))
	before := gfx.Len()
	e.PointerMove(p(5, 5))
	afterOne := gfx.Len()
	if afterOne != before+2 {
		t.Fatalf("expected moving line and label, got %d extra", afterOne-before)
	}
	e.PointerMove(p(6, 6))
	if gfx.Len() != afterOne {
		t.Errorf("preview not replaced in place: %d primitives", gfx.Len())
	}
	e.SecondaryAction(p(10, 10))
	for _, h := range e.Handles().Graphics(e.Groups()[0].ID).All() {
		if h.Status == core.StatusMoving {
			t.Errorf("moving primitive survived finalize: %s", h.ID)
		}
	}
}

func TestDuplicateSuppressedAcrossGroups(t *testing.T) {
	e, _, _ := newTestEngine(t, core.ModePolygon)

	e.PrimaryAction(p(0, 0))
	e.PrimaryAction(p(10, 0))
	e.PrimaryAction(p(10, 10))
	e.SecondaryAction(p(0, 10))

	// A new group may not reuse a position any group already holds.
	e.PrimaryAction(p(10, 0))
	if e.State() != StateIdle {
		t.Fatalf("duplicate first click started a group")
	}
	if len(e.Groups()) != 1 {
		t.Errorf("expected 1 group, got %d", len(e.Groups()))
	}

	// Nor may an active construction.
	e.PrimaryAction(p(50, 50))
	e.PrimaryAction(p(0, 0))
	if g := e.Groups()[1]; len(g.Coordinates) != 1 {
		t.Errorf("duplicate point committed: %d coordinates", len(g.Coordinates))
	}
}

func TestCounterAdvancesOncePerGroup(t *testing.T) {
	e, _, _ := newTestEngine(t, core.ModeDistance)

	e.PrimaryAction(p(0, 0))
	e.PrimaryAction(p(10, 0))
	e.SecondaryAction(p(20, 0))
	e.PrimaryAction(p(100, 100))
	e.SecondaryAction(p(110, 100))

	groups := e.Groups()
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].LabelIndex != 0 || groups[1].LabelIndex != 1 {
		t.Errorf("label indices = %d, %d; want 0, 1", groups[0].LabelIndex, groups[1].LabelIndex)
	}
}

func TestPolygonAreaAndCentroid(t *testing.T) {
	e, _, _ := newTestEngine(t, core.ModePolygon)

	e.PrimaryAction(p(0, 0))
	e.PrimaryAction(p(10, 0))
	e.PrimaryAction(p(10, 10))
	e.SecondaryAction(p(0, 10))

	g := e.Groups()[0]
	if g.Records.Area != 100 {
		t.Errorf("area = %v, want 100", g.Records.Area)
	}
	total := e.Handles().Graphics(g.ID).Total
	if total == nil {
		t.Fatalf("missing area label")
	}
	if got, want := total.Text, "Area: 100.00m²"; got != want {
		t.Errorf("area label = %q, want %q", got, want)
	}
	anchor := total.Positions[0]
	if anchor.Lng != 5 || anchor.Lat != 5 {
		t.Errorf("area label anchored at (%v, %v), want centroid (5, 5)", anchor.Lng, anchor.Lat)
	}
}

func TestCurveAutoFinalizesAtThree(t *testing.T) {
	e, _, _ := newTestEngine(t, core.ModeCurve)

	e.PrimaryAction(p(0, 0))
	e.PrimaryAction(p(5, 10))
	if e.State() != StateBuilding {
		t.Fatalf("curve finalized early")
	}
	e.PrimaryAction(p(10, 0))

	if e.State() != StateIdle {
		t.Fatalf("curve did not auto-finalize on third point")
	}
	g := e.Groups()[0]
	if g.Status != core.GroupCompleted {
		t.Errorf("expected completed curve group")
	}
	if len(g.Interpolated) != 9 {
		t.Errorf("interpolated points = %d, want steps+1 = 9", len(g.Interpolated))
	}
	if g.Records.Total <= 0 {
		t.Errorf("curve total = %v, want > 0", g.Records.Total)
	}
	// The densified curve is longer than the straight endpoint distance.
	if g.Records.Total <= 10 {
		t.Errorf("curve total %v not longer than endpoint chord", g.Records.Total)
	}
}

func TestPointInfoSingleClickCompletes(t *testing.T) {
	e, gfx, _ := newTestEngine(t, core.ModePointInfo)

	e.PrimaryAction(p(3, 4))
	if e.State() != StateIdle {
		t.Fatalf("point info did not finalize on first click")
	}
	g := e.Groups()[0]
	if len(g.Coordinates) != 1 || g.Status != core.GroupCompleted {
		t.Errorf("unexpected point info group: %+v", g)
	}
	if gfx.Count(core.KindLine) != 0 || gfx.Count(core.KindLabel) != 0 {
		t.Errorf("point info drew segments or labels")
	}
}

func TestResumeFromFirstEndpointReverses(t *testing.T) {
	e, _, _ := newTestEngine(t, core.ModeDistance)

	e.PrimaryAction(p(0, 0))
	e.SecondaryAction(p(10, 0))

	// Click the first coordinate of the completed chain: construction
	// resumes extending that end.
	e.PrimaryAction(p(0, 0))
	if e.State() != StateBuilding {
		t.Fatalf("endpoint click did not resume construction")
	}
	e.SecondaryAction(p(-10, 0))

	g := e.Groups()[0]
	if len(g.Coordinates) != 3 {
		t.Fatalf("expected 3 coordinates after resume, got %d", len(g.Coordinates))
	}
	if g.Coordinates[0].Lng != -10 {
		t.Errorf("new point not prepended: first coordinate at lng %v", g.Coordinates[0].Lng)
	}
	// The prepended segment takes the next letter in creation order even
	// though it sits first in position order.
	if g.SegmentLetters[0] != 1 || g.SegmentLetters[1] != 0 {
		t.Errorf("segment letters = %v, want [1 0]", g.SegmentLetters)
	}
	if g.Records.Total != 20 {
		t.Errorf("total = %v, want 20", g.Records.Total)
	}
}

func TestSingleCoordinateGroupDiscardedOnFinish(t *testing.T) {
	e, gfx, st := newTestEngine(t, core.ModeDistance)

	e.PrimaryAction(p(0, 0))
	// Finishing on the same spot commits nothing; one coordinate is not
	// measurable, so the group is discarded.
	e.SecondaryAction(p(0, 0))

	if len(e.Groups()) != 0 {
		t.Errorf("unmeasurable group survived")
	}
	if gfx.Len() != 0 {
		t.Errorf("discarded group left %d primitives", gfx.Len())
	}
	if len(st.GetAllGroups()) != 0 {
		t.Errorf("discarded group persisted")
	}
}

func TestBackendRefusalAbortsAppend(t *testing.T) {
	e, gfx, _ := newTestEngine(t, core.ModeDistance)

	e.PrimaryAction(p(0, 0))
	// Allow the point primitive, fail the segment line: nothing commits
	// and the accepted point is rolled back.
	gfx.FailAfter(1)
	e.PrimaryAction(p(10, 0))

	g := e.Groups()[0]
	if len(g.Coordinates) != 1 {
		t.Errorf("partial append committed: %d coordinates", len(g.Coordinates))
	}
	if gfx.Len() != 1 {
		t.Errorf("leaked primitives after refused append: %d", gfx.Len())
	}
}

func TestPositionGuardExtendsSuppression(t *testing.T) {
	chain, _, _ := newTestEngine(t, core.ModeDistance)
	poly, _, _ := newTestEngine(t, core.ModePolygon)

	coord := planar.New(0)
	chain.SetPositionGuard(func(pos core.Position) bool {
		for _, g := range poly.Groups() {
			if g.IndexOf(pos, coord.Equal) >= 0 {
				return true
			}
		}
		return false
	})

	poly.PrimaryAction(p(0, 0))
	poly.PrimaryAction(p(10, 0))
	poly.PrimaryAction(p(10, 10))
	poly.SecondaryAction(p(0, 10))

	// A chain starting on the polygon's corner never forms a group.
	chain.PrimaryAction(p(0, 0))
	if got := len(chain.Groups()); got != 0 {
		t.Fatalf("expected no chain group at an occupied position, got %d", got)
	}

	// Unoccupied positions still work, and an append landing on the
	// polygon's corner is a no-op.
	chain.PrimaryAction(p(50, 50))
	chain.PrimaryAction(p(10, 10))
	g := chain.Groups()[0]
	if len(g.Coordinates) != 1 {
		t.Fatalf("append at occupied position committed: %d coordinates", len(g.Coordinates))
	}
}
