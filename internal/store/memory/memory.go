// internal/store/memory/memory.go
package memory

import (
	"sync"

	"github.com/eric-ce/mapmeasure/internal/model"
)

// Store keeps measurement groups in memory. It is the default backend and
// the reference implementation for the Store contract.
type Store struct {
	mu     sync.RWMutex
	groups map[uint64]*model.Group
}

func New() *Store {
	return &Store{groups: make(map[uint64]*model.Group)}
}

func (s *Store) Init() error { return nil }

func (s *Store) Close() error { return nil }

// UpsertGroup stores a clone so later engine mutations don't alias stored
// state.
func (s *Store) UpsertGroup(g *model.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[g.ID] = g.Clone()
	return nil
}

func (s *Store) RemoveGroupByID(id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.groups, id)
	return nil
}

func (s *Store) GetGroupByID(id uint64) (*model.Group, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[id]
	if !ok {
		return nil, false
	}
	return g.Clone(), true
}

func (s *Store) GetAllGroups() []*model.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Group, 0, len(s.groups))
	for _, g := range s.groups {
		out = append(out, g.Clone())
	}
	return out
}

func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups = make(map[uint64]*model.Group)
	return nil
}
