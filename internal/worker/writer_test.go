package worker

import (
	"io"
	"log/slog"
	"testing"

	"github.com/eric-ce/mapmeasure/internal/model"
	"github.com/eric-ce/mapmeasure/internal/store/memory"
	"github.com/eric-ce/mapmeasure/pkg/core"
)

func newTestWriter(t *testing.T) (*Writer, *memory.Store) {
	t.Helper()
	inner := memory.New()
	w := NewWriter(inner, 64, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := w.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w, inner
}

func TestWriterAppliesWritesInOrder(t *testing.T) {
	w, inner := newTestWriter(t)

	g := model.NewGroup(core.ModeDistance, 0)
	g.Append(core.Position{Lng: 1}, false)
	w.UpsertGroup(g.Clone())

	g.Append(core.Position{Lng: 2}, false)
	w.UpsertGroup(g.Clone())
	w.Flush()

	got, ok := inner.GetGroupByID(g.ID)
	if !ok {
		t.Fatalf("group not persisted")
	}
	if len(got.Coordinates) != 2 {
		t.Errorf("later write lost: %d coordinates", len(got.Coordinates))
	}
}

func TestWriterRemoveAfterUpsert(t *testing.T) {
	w, _ := newTestWriter(t)

	g := model.NewGroup(core.ModePolygon, 0)
	w.UpsertGroup(g.Clone())
	w.RemoveGroupByID(g.ID)

	if _, ok := w.GetGroupByID(g.ID); ok {
		t.Errorf("removed group still readable")
	}
}

func TestWriterReadsSeePriorWrites(t *testing.T) {
	w, _ := newTestWriter(t)

	for i := 0; i < 50; i++ {
		g := model.NewGroup(core.ModeDistance, i)
		w.UpsertGroup(g)
	}
	if got := len(w.GetAllGroups()); got != 50 {
		t.Errorf("read missed queued writes: %d groups", got)
	}
}

func TestWriterCloseFlushes(t *testing.T) {
	inner := memory.New()
	w := NewWriter(inner, 64, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := w.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	g := model.NewGroup(core.ModeDistance, 0)
	w.UpsertGroup(g)
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if _, ok := inner.GetGroupByID(g.ID); !ok {
		t.Errorf("close dropped a pending write")
	}
	// Writes after close are dropped, not applied.
	w.UpsertGroup(model.NewGroup(core.ModeDistance, 1))
	if got := len(inner.GetAllGroups()); got != 1 {
		t.Errorf("write after close applied: %d groups", got)
	}
}
