package memory

import (
	"testing"

	"github.com/eric-ce/mapmeasure/internal/model"
	"github.com/eric-ce/mapmeasure/pkg/core"
)

func TestUpsertClonesInput(t *testing.T) {
	s := New()
	g := &model.Group{
		ID:          1,
		Mode:        core.ModeDistance,
		Coordinates: core.Positions{{Lat: 1, Lng: 1}},
		Status:      core.GroupPending,
	}
	if err := s.UpsertGroup(g); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// Mutating the original must not leak into the stored copy.
	g.Coordinates[0].Lat = 99
	g.Status = core.GroupCompleted

	got, ok := s.GetGroupByID(1)
	if !ok {
		t.Fatalf("group not found")
	}
	if got.Coordinates[0].Lat != 1 {
		t.Errorf("stored coordinates alias the caller's slice")
	}
	if got.Status != core.GroupPending {
		t.Errorf("stored status mutated")
	}
}

func TestGetReturnsIndependentCopies(t *testing.T) {
	s := New()
	_ = s.UpsertGroup(&model.Group{
		ID:          7,
		Coordinates: core.Positions{{Lat: 1, Lng: 1}},
	})

	a, _ := s.GetGroupByID(7)
	a.Coordinates[0].Lng = 42

	b, _ := s.GetGroupByID(7)
	if b.Coordinates[0].Lng != 1 {
		t.Errorf("reads share a coordinate slice")
	}
}

func TestRemoveAndReset(t *testing.T) {
	s := New()
	_ = s.UpsertGroup(&model.Group{ID: 1})
	_ = s.UpsertGroup(&model.Group{ID: 2})

	if err := s.RemoveGroupByID(1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := s.GetGroupByID(1); ok {
		t.Errorf("removed group still present")
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if len(s.GetAllGroups()) != 0 {
		t.Errorf("reset left groups behind")
	}
}
