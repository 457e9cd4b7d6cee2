// Package memgfx is the headless graphics backend: it keeps every primitive
// in memory and draws nothing. It backs engine tests and any embedding that
// only wants the measurement data, not the visuals.
package memgfx

import (
	"sync"

	"github.com/eric-ce/mapmeasure/pkg/core"
)

// Adapter records primitives keyed by handle id.
type Adapter struct {
	mu         sync.Mutex
	primitives map[string]*core.Handle

	// FailAdds forces every Add call to return nil, simulating a backend
	// that cannot draw. Tests use it to assert no partial mutation commits.
	FailAdds bool

	limited   bool
	remaining int
}

// FailAfter arms a failure n successful Add calls from now.
func (a *Adapter) FailAfter(n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.limited = true
	a.remaining = n
}

func New() *Adapter {
	return &Adapter{primitives: make(map[string]*core.Handle)}
}

func (a *Adapter) AddPoint(pos core.Position, id string, style core.Style) *core.Handle {
	return a.add(&core.Handle{
		ID:        id,
		Kind:      core.KindPoint,
		Positions: core.Positions{pos},
		Style:     style,
	})
}

func (a *Adapter) AddLine(p, q core.Position, id string, style core.Style) *core.Handle {
	return a.add(&core.Handle{
		ID:        id,
		Kind:      core.KindLine,
		Positions: core.Positions{p, q},
		Style:     style,
	})
}

func (a *Adapter) AddLabel(anchor core.Position, text, id string, style core.Style) *core.Handle {
	return a.add(&core.Handle{
		ID:        id,
		Kind:      core.KindLabel,
		Positions: core.Positions{anchor},
		Text:      text,
		Style:     style,
	})
}

func (a *Adapter) add(h *core.Handle) *core.Handle {
	if a.FailAdds {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.limited {
		if a.remaining == 0 {
			return nil
		}
		a.remaining--
	}
	a.primitives[h.ID] = h
	return h
}

func (a *Adapter) UpdateStyle(h *core.Handle, style core.Style) {
	if h == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	h.Style = style
}

func (a *Adapter) Remove(h *core.Handle) {
	if h == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.primitives, h.ID)
}

// Rebind re-keys a primitive whose handle id was rewritten (finalize strips
// the pending suffix). The engine calls this through the Rebinder interface.
func (a *Adapter) Rebind(oldID string, h *core.Handle) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.primitives, oldID)
	a.primitives[h.ID] = h
}

// Count returns how many primitives of the given kind are live.
func (a *Adapter) Count(kind core.PrimitiveKind) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, h := range a.primitives {
		if h.Kind == kind {
			n++
		}
	}
	return n
}

// Lookup returns the live primitive with the given id.
func (a *Adapter) Lookup(id string) (*core.Handle, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	h, ok := a.primitives[id]
	return h, ok
}

// Len returns the number of live primitives.
func (a *Adapter) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.primitives)
}
