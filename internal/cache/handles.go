// Package cache holds the engine's fast-lookup state: the group counter and
// the handle index that maps renderer primitives back to group positions.
// Latency here is critical — every pointer event resolves through it.
package cache

import (
	"sync"

	"github.com/eric-ce/mapmeasure/pkg/core"
)

// Ref locates a primitive inside its group: point index for points, segment
// index for lines and labels. Total marks the running-total (or area) label.
type Ref struct {
	GroupID uint64
	Kind    core.PrimitiveKind
	Index   int
	Total   bool
}

// GroupGraphics holds one group's primitive handles, aligned with the
// group's coordinate and segment order. Points[i] renders Coordinates[i];
// Lines[i] and Labels[i] render the segment between Coordinates[i] and
// Coordinates[i+1].
type GroupGraphics struct {
	Points []*core.Handle
	Lines  []*core.Handle
	Labels []*core.Handle
	Total  *core.Handle
}

// All returns every live handle of the group.
func (g *GroupGraphics) All() []*core.Handle {
	out := make([]*core.Handle, 0, len(g.Points)+len(g.Lines)+len(g.Labels)+1)
	for _, h := range g.Points {
		if h != nil {
			out = append(out, h)
		}
	}
	for _, h := range g.Lines {
		if h != nil {
			out = append(out, h)
		}
	}
	for _, h := range g.Labels {
		if h != nil {
			out = append(out, h)
		}
	}
	if g.Total != nil {
		out = append(out, g.Total)
	}
	return out
}

// HandleIndex is the explicit handle -> group/index arena. It replaces
// scanning every primitive's encoded id and source positions to find "the
// line that touches this point".
type HandleIndex struct {
	mu     sync.Mutex
	byID   map[string]Ref
	groups map[uint64]*GroupGraphics
}

func NewHandleIndex() *HandleIndex {
	return &HandleIndex{
		byID:   make(map[string]Ref),
		groups: make(map[uint64]*GroupGraphics),
	}
}

// Reset drops all tracked handles.
func (x *HandleIndex) Reset() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.byID = make(map[string]Ref)
	x.groups = make(map[uint64]*GroupGraphics)
}

// Graphics returns the group's graphics set, creating it on first use.
func (x *HandleIndex) Graphics(groupID uint64) *GroupGraphics {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.graphicsLocked(groupID)
}

func (x *HandleIndex) graphicsLocked(groupID uint64) *GroupGraphics {
	g, ok := x.groups[groupID]
	if !ok {
		g = &GroupGraphics{}
		x.groups[groupID] = g
	}
	return g
}

// Resolve maps a primitive handle id back to its group and index.
func (x *HandleIndex) Resolve(handleID string) (Ref, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	r, ok := x.byID[handleID]
	return r, ok
}

// AppendPoint tracks a new point handle at the end (or front, when reversed)
// of the group's point order.
func (x *HandleIndex) AppendPoint(groupID uint64, h *core.Handle, front bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	g := x.graphicsLocked(groupID)
	if front {
		g.Points = append([]*core.Handle{h}, g.Points...)
	} else {
		g.Points = append(g.Points, h)
	}
	x.reindexLocked(groupID, g)
}

// InsertPointAt tracks a point handle spliced in at index i.
func (x *HandleIndex) InsertPointAt(groupID uint64, i int, h *core.Handle) {
	x.mu.Lock()
	defer x.mu.Unlock()
	g := x.graphicsLocked(groupID)
	if i < 0 || i > len(g.Points) {
		return
	}
	g.Points = append(g.Points, nil)
	copy(g.Points[i+1:], g.Points[i:])
	g.Points[i] = h
	x.reindexLocked(groupID, g)
}

// RemovePointAt untracks the point handle at index i and returns it.
func (x *HandleIndex) RemovePointAt(groupID uint64, i int) *core.Handle {
	x.mu.Lock()
	defer x.mu.Unlock()
	g := x.graphicsLocked(groupID)
	if i < 0 || i >= len(g.Points) {
		return nil
	}
	h := g.Points[i]
	g.Points = append(g.Points[:i], g.Points[i+1:]...)
	x.reindexLocked(groupID, g)
	return h
}

// SetPointAt replaces the point handle at index i and returns the old one.
func (x *HandleIndex) SetPointAt(groupID uint64, i int, h *core.Handle) *core.Handle {
	x.mu.Lock()
	defer x.mu.Unlock()
	g := x.graphicsLocked(groupID)
	if i < 0 || i >= len(g.Points) {
		return nil
	}
	old := g.Points[i]
	g.Points[i] = h
	x.reindexLocked(groupID, g)
	return old
}

// AppendSegment tracks a segment's line and label handles at the end (or
// front, when construction is reversed) of the group's segment order.
func (x *HandleIndex) AppendSegment(groupID uint64, line, lbl *core.Handle, front bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	g := x.graphicsLocked(groupID)
	if front {
		g.Lines = append([]*core.Handle{line}, g.Lines...)
		g.Labels = append([]*core.Handle{lbl}, g.Labels...)
	} else {
		g.Lines = append(g.Lines, line)
		g.Labels = append(g.Labels, lbl)
	}
	x.reindexLocked(groupID, g)
}

// InsertSegmentAt tracks a segment spliced in at segment index i.
func (x *HandleIndex) InsertSegmentAt(groupID uint64, i int, line, lbl *core.Handle) {
	x.mu.Lock()
	defer x.mu.Unlock()
	g := x.graphicsLocked(groupID)
	if i < 0 || i > len(g.Lines) {
		return
	}
	g.Lines = append(g.Lines, nil)
	copy(g.Lines[i+1:], g.Lines[i:])
	g.Lines[i] = line
	g.Labels = append(g.Labels, nil)
	copy(g.Labels[i+1:], g.Labels[i:])
	g.Labels[i] = lbl
	x.reindexLocked(groupID, g)
}

// RemoveSegmentAt untracks segment i and returns its line and label handles.
func (x *HandleIndex) RemoveSegmentAt(groupID uint64, i int) (line, lbl *core.Handle) {
	x.mu.Lock()
	defer x.mu.Unlock()
	g := x.graphicsLocked(groupID)
	if i < 0 || i >= len(g.Lines) {
		return nil, nil
	}
	line, lbl = g.Lines[i], g.Labels[i]
	g.Lines = append(g.Lines[:i], g.Lines[i+1:]...)
	g.Labels = append(g.Labels[:i], g.Labels[i+1:]...)
	x.reindexLocked(groupID, g)
	return line, lbl
}

// SetSegmentAt replaces segment i's handles, returning the old pair.
func (x *HandleIndex) SetSegmentAt(groupID uint64, i int, line, lbl *core.Handle) (oldLine, oldLbl *core.Handle) {
	x.mu.Lock()
	defer x.mu.Unlock()
	g := x.graphicsLocked(groupID)
	if i < 0 || i >= len(g.Lines) {
		return nil, nil
	}
	oldLine, oldLbl = g.Lines[i], g.Labels[i]
	g.Lines[i] = line
	g.Labels[i] = lbl
	x.reindexLocked(groupID, g)
	return oldLine, oldLbl
}

// SetTotal replaces the group's total label handle, returning the old one.
func (x *HandleIndex) SetTotal(groupID uint64, h *core.Handle) *core.Handle {
	x.mu.Lock()
	defer x.mu.Unlock()
	g := x.graphicsLocked(groupID)
	old := g.Total
	g.Total = h
	x.reindexLocked(groupID, g)
	return old
}

// Rebind refreshes the id key of a handle whose ID string changed, e.g. when
// pending primitives are relabeled on finalize.
func (x *HandleIndex) Rebind(oldID string, h *core.Handle) {
	x.mu.Lock()
	defer x.mu.Unlock()
	r, ok := x.byID[oldID]
	if !ok {
		return
	}
	delete(x.byID, oldID)
	x.byID[h.ID] = r
}

// RemoveGroup untracks a whole group and returns its handles for renderer
// cleanup.
func (x *HandleIndex) RemoveGroup(groupID uint64) []*core.Handle {
	x.mu.Lock()
	defer x.mu.Unlock()
	g, ok := x.groups[groupID]
	if !ok {
		return nil
	}
	handles := g.All()
	for _, h := range handles {
		delete(x.byID, h.ID)
	}
	delete(x.groups, groupID)
	return handles
}

// reindexLocked rebuilds the id map entries for one group. Group sizes are
// pointer-interaction small, so a full rebuild beats bookkeeping shifted
// indices.
func (x *HandleIndex) reindexLocked(groupID uint64, g *GroupGraphics) {
	for id, r := range x.byID {
		if r.GroupID == groupID {
			delete(x.byID, id)
		}
	}
	for i, h := range g.Points {
		if h != nil {
			x.byID[h.ID] = Ref{GroupID: groupID, Kind: core.KindPoint, Index: i}
		}
	}
	for i, h := range g.Lines {
		if h != nil {
			x.byID[h.ID] = Ref{GroupID: groupID, Kind: core.KindLine, Index: i}
		}
	}
	for i, h := range g.Labels {
		if h != nil {
			x.byID[h.ID] = Ref{GroupID: groupID, Kind: core.KindLabel, Index: i}
		}
	}
	if g.Total != nil {
		x.byID[g.Total.ID] = Ref{GroupID: groupID, Kind: core.KindLabel, Total: true}
	}
}
