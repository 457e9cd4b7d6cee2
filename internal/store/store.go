// internal/store/store.go
package store

import "github.com/eric-ce/mapmeasure/internal/model"

// Store is the interface all measurement-group stores must satisfy. The
// engine is the single writer; external collaborators read through it.
// Implementations receive group clones and must never hand back slices the
// engine still mutates.
type Store interface {
	// Lifecycle
	Init() error
	Close() error

	// Group persistence
	UpsertGroup(g *model.Group) error
	RemoveGroupByID(id uint64) error
	GetGroupByID(id uint64) (*model.Group, bool)
	GetAllGroups() []*model.Group

	// Reset drops all groups, e.g. when a mode discards its state.
	Reset() error
}
