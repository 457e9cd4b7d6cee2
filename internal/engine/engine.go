// Package engine implements the measurement engine: the single writer of
// measurement groups and the state machine behind construction, editing,
// dragging, and highlighting. Renderers plug in through the adapter
// contracts; persistence goes through the store as group clones.
package engine

import (
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/eric-ce/mapmeasure/internal/adapter"
	"github.com/eric-ce/mapmeasure/internal/cache"
	"github.com/eric-ce/mapmeasure/internal/label"
	"github.com/eric-ce/mapmeasure/internal/model"
	"github.com/eric-ce/mapmeasure/internal/store"
	"github.com/eric-ce/mapmeasure/pkg/core"
)

// State is the engine's construction phase.
type State int

const (
	// StateIdle means no group is under construction.
	StateIdle State = iota
	// StateBuilding means the active group is collecting points.
	StateBuilding
)

// ActivityRecorder receives one call per committed user action. The
// telemetry manager implements it; a nil recorder disables recording.
type ActivityRecorder interface {
	RecordActivity(action string, mode core.Mode, groupID uint64)
}

// Engine drives one measurement mode over one rendering backend. All methods
// must be called from the event-dispatch goroutine; the engine itself does
// not lock.
type Engine struct {
	coord adapter.Coordinate
	gfx   adapter.Graphics
	store store.Store
	log   *slog.Logger

	strategy Strategy
	counter  *cache.SafeCounter
	handles  *cache.HandleIndex
	activity ActivityRecorder
	guard    func(core.Position) bool

	groups map[uint64]*model.Group
	order  []uint64

	state    State
	active   *model.Group
	reversed bool

	// serial feeds primitive id uniqueness; atomic so renderers on other
	// goroutines can mint ids through the same sequence if they need to.
	serial atomic.Uint64

	movingLine  *core.Handle
	movingLabel *core.Handle

	drag *dragState

	hovered    *core.Handle
	hoverSaved core.Style
	selected   uint64
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithActivityRecorder wires the per-action telemetry hook.
func WithActivityRecorder(r ActivityRecorder) Option {
	return func(e *Engine) { e.activity = r }
}

// WithCounter shares a group counter across engines, e.g. when several modes
// run against the same scene.
func WithCounter(c *cache.SafeCounter) Option {
	return func(e *Engine) { e.counter = c }
}

// New builds an engine for one mode. The store receives clones of every
// committed group; pass a write-behind store to keep persistence off the
// event path.
func New(strategy Strategy, coord adapter.Coordinate, gfx adapter.Graphics, st store.Store, log *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		coord:    coord,
		gfx:      gfx,
		store:    st,
		log:      log,
		strategy: strategy,
		counter:  cache.NewSafeCounter(),
		handles:  cache.NewHandleIndex(),
		groups:   make(map[uint64]*model.Group),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Mode returns the engine's measurement mode.
func (e *Engine) Mode() core.Mode { return e.strategy.Mode() }

// State returns the construction phase.
func (e *Engine) State() State { return e.state }

// Dragging reports whether a point drag is in progress.
func (e *Engine) Dragging() bool { return e.drag != nil }

// GroupByID returns a snapshot of one group.
func (e *Engine) GroupByID(id uint64) (*model.Group, bool) {
	g, ok := e.groups[id]
	if !ok {
		return nil, false
	}
	return g.Clone(), true
}

// Groups returns snapshots of every group in creation order.
func (e *Engine) Groups() []*model.Group {
	out := make([]*model.Group, 0, len(e.order))
	for _, id := range e.order {
		if g, ok := e.groups[id]; ok {
			out = append(out, g.Clone())
		}
	}
	return out
}

// Handles returns the handle index, for renderers and pickers that resolve
// primitive ids back to groups.
func (e *Engine) Handles() *cache.HandleIndex { return e.handles }

// Reset tears down every group, its primitives, the counter, and the store.
// Mode deactivation calls this.
func (e *Engine) Reset() {
	e.clearMovingPreview()
	e.drag = nil
	e.hovered = nil
	e.selected = 0
	for _, id := range e.order {
		for _, h := range e.handles.RemoveGroup(id) {
			e.gfx.Remove(h)
		}
	}
	e.handles.Reset()
	e.groups = make(map[uint64]*model.Group)
	e.order = nil
	e.active = nil
	e.reversed = false
	e.state = StateIdle
	e.counter.Set(0)
	if err := e.store.Reset(); err != nil {
		e.log.Error("Failed to reset measurement store", "error", err)
	}
}

// nextID mints a unique primitive id for the active mode.
func (e *Engine) nextID(role string, groupID uint64, status core.PrimitiveStatus) string {
	return core.PrimitiveID(e.strategy.Mode(), role, groupID, e.serial.Add(1), status)
}

// SetPositionGuard installs an extra occupancy check consulted alongside the
// engine's own groups. The app installs one spanning its per-mode engines so
// a position used in any mode stays suppressed in all of them.
func (e *Engine) SetPositionGuard(guard func(core.Position) bool) {
	e.guard = guard
}

// positionInUse reports whether any group already holds an equal position.
// Duplicate suppression is global, not per-group.
func (e *Engine) positionInUse(pos core.Position) bool {
	for _, g := range e.groups {
		if g.IndexOf(pos, e.coord.Equal) >= 0 {
			return true
		}
	}
	return e.guard != nil && e.guard(pos)
}

// findEndpointAt returns a completed chain-mode group whose first or last
// coordinate equals pos, for resuming construction from an endpoint.
func (e *Engine) findEndpointAt(pos core.Position) (*model.Group, int) {
	if e.strategy.Mode() != core.ModeDistance {
		return nil, -1
	}
	for _, id := range e.order {
		g, ok := e.groups[id]
		if !ok || g.Status != core.GroupCompleted || len(g.Coordinates) < 2 {
			continue
		}
		if e.coord.Equal(g.Coordinates[0], pos) {
			return g, 0
		}
		if e.coord.Equal(g.Coordinates[len(g.Coordinates)-1], pos) {
			return g, len(g.Coordinates) - 1
		}
	}
	return nil, -1
}

// drawPoint creates a point primitive for the group.
func (e *Engine) drawPoint(g *model.Group, pos core.Position, status core.PrimitiveStatus) *core.Handle {
	id := e.nextID(core.RolePoint, g.ID, status)
	h := e.gfx.AddPoint(pos, id, core.StyleDefaultPoint)
	if h == nil {
		e.log.Error("Backend refused point primitive", "group", g.ID, "id", id)
		return nil
	}
	h.Status = status
	return h
}

// drawSegment creates the line and distance label for one segment. The
// letter ordinal must already be decided by the caller; it is committed to
// the group only after both primitives exist.
func (e *Engine) drawSegment(g *model.Group, a, b core.Position, letter int, status core.PrimitiveStatus) (line, lbl *core.Handle) {
	lineStyle := core.StyleDefaultLine
	if status == core.StatusMoving {
		lineStyle = core.StyleMovingLine
	}
	lineID := e.nextID(core.RoleLine, g.ID, status)
	line = e.gfx.AddLine(a, b, lineID, lineStyle)
	if line == nil {
		e.log.Error("Backend refused line primitive", "group", g.ID, "id", lineID)
		return nil, nil
	}
	line.Status = status

	text := label.Segment(letter, g.LabelIndex, e.coord.Distance(a, b))
	lblID := e.nextID(core.RoleLabel, g.ID, status)
	lbl = e.gfx.AddLabel(e.coord.Midpoint(a, b), text, lblID, core.StyleDefaultLabel)
	if lbl == nil {
		e.log.Error("Backend refused label primitive", "group", g.ID, "id", lblID)
		e.gfx.Remove(line)
		return nil, nil
	}
	lbl.Status = status
	return line, lbl
}

// refreshSummary redraws the group's total/area label from current records.
// The old label, if any, is removed first.
func (e *Engine) refreshSummary(g *model.Group, status core.PrimitiveStatus) {
	text := e.strategy.SummaryText(g)
	var h *core.Handle
	if text != "" {
		id := e.nextID(core.RoleTotalLabel, g.ID, status)
		h = e.gfx.AddLabel(e.strategy.SummaryAnchor(g, e.coord), text, id, core.StyleDefaultLabel)
		if h == nil {
			e.log.Error("Backend refused summary label", "group", g.ID)
		} else {
			h.Status = status
		}
	}
	if old := e.handles.SetTotal(g.ID, h); old != nil {
		e.gfx.Remove(old)
	}
}

// persist hands a clone of the group to the store.
func (e *Engine) persist(g *model.Group) {
	if err := e.store.UpsertGroup(g.Clone()); err != nil {
		e.log.Error("Failed to persist measurement group", "group", g.ID, "error", err)
	}
}

// record emits one telemetry event for a committed action.
func (e *Engine) record(action string, groupID uint64) {
	if e.activity != nil {
		e.activity.RecordActivity(action, e.strategy.Mode(), groupID)
	}
}

// removeGroup destroys a group entirely: primitives, index entries, live
// state, and the persisted row.
func (e *Engine) removeGroup(id uint64) {
	for _, h := range e.handles.RemoveGroup(id) {
		e.gfx.Remove(h)
	}
	delete(e.groups, id)
	for i, gid := range e.order {
		if gid == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	if e.selected == id {
		e.selected = 0
	}
	if err := e.store.RemoveGroupByID(id); err != nil {
		e.log.Error("Failed to remove persisted group", "group", id, "error", err)
	}
}

// completeID strips the lifecycle suffix from a pending primitive id.
func completeID(id string) string {
	id = strings.TrimSuffix(id, "_pending")
	return strings.TrimSuffix(id, "_moving")
}
