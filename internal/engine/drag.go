package engine

import (
	"github.com/eric-ce/mapmeasure/internal/model"
	"github.com/eric-ce/mapmeasure/pkg/core"
)

// dragState tracks one in-flight point drag. The original point and its
// adjoining segment primitives are taken out of the scene for the duration;
// preview primitives are recreated on every move tick.
type dragState struct {
	groupID uint64
	index   int
	origin  core.Position
	last    core.Position

	point    *core.Handle
	prevLine *core.Handle
	prevLbl  *core.Handle
	nextLine *core.Handle
	nextLbl  *core.Handle
}

// DragStart begins dragging a committed point of a completed group. The
// group turns pending until the drag ends or cancels. Segment letters are
// preserved across the whole drag.
func (e *Engine) DragStart(pointHandleID string) {
	if e.drag != nil || e.state == StateBuilding {
		e.log.Debug("Drag start ignored", "id", pointHandleID)
		return
	}
	ref, ok := e.handles.Resolve(pointHandleID)
	if !ok || ref.Kind != core.KindPoint {
		e.log.Debug("Drag target is not a point", "id", pointHandleID)
		return
	}
	g, ok := e.groups[ref.GroupID]
	if !ok || g.Status != core.GroupCompleted {
		e.log.Debug("Drag target group not draggable", "group", ref.GroupID)
		return
	}

	e.Unhover()
	idx := ref.Index
	e.removePrimitive(e.handles.SetPointAt(g.ID, idx, nil))
	if idx > 0 {
		line, lbl := e.handles.SetSegmentAt(g.ID, idx-1, nil, nil)
		e.removePrimitive(line)
		e.removePrimitive(lbl)
	}
	if idx < len(g.Coordinates)-1 {
		line, lbl := e.handles.SetSegmentAt(g.ID, idx, nil, nil)
		e.removePrimitive(line)
		e.removePrimitive(lbl)
	}

	g.Status = core.GroupPending
	e.drag = &dragState{
		groupID: g.ID,
		index:   idx,
		origin:  g.Coordinates[idx],
		last:    g.Coordinates[idx],
	}
	e.drawDragPreview(g, g.Coordinates[idx])
	e.persist(g)
}

// DragMove redraws the drag preview at the new cursor position.
func (e *Engine) DragMove(pos core.Position) {
	d := e.drag
	if d == nil {
		return
	}
	g, ok := e.groups[d.groupID]
	if !ok {
		e.drag = nil
		return
	}
	e.clearDragPreview()
	e.drawDragPreview(g, pos)
	d.last = pos
}

// DragEnd commits the drag: the coordinate updates in place, permanent
// primitives replace the preview, and only the touched records change
// meaningfully. A backend refusal reverts to the pre-drag position.
func (e *Engine) DragEnd(pos core.Position) {
	d := e.drag
	if d == nil {
		return
	}
	g, ok := e.groups[d.groupID]
	if !ok {
		e.drag = nil
		return
	}
	e.clearDragPreview()

	if !e.placeDragged(g, d.index, pos) {
		e.log.Error("Backend refused drag commit, reverting", "group", g.ID)
		e.revertDrag(g, d)
		return
	}
	g.Coordinates[d.index] = pos
	e.finishDrag(g, "point_dragged")
}

// DragCancel abandons the drag and restores the point at its pre-drag
// position. Nothing mutates and nothing is recorded.
func (e *Engine) DragCancel() {
	d := e.drag
	if d == nil {
		return
	}
	g, ok := e.groups[d.groupID]
	if !ok {
		e.drag = nil
		return
	}
	e.clearDragPreview()
	e.revertDrag(g, d)
}

// revertDrag re-places the original point and segments at the drag origin.
func (e *Engine) revertDrag(g *model.Group, d *dragState) {
	if !e.placeDragged(g, d.index, d.origin) {
		e.log.Error("Backend refused drag revert", "group", g.ID)
	}
	e.finishDrag(g, "")
}

// finishDrag restores completed status, refreshes records, and closes out
// the drag state.
func (e *Engine) finishDrag(g *model.Group, action string) {
	g.Status = core.GroupCompleted
	e.strategy.Recompute(g, e.coord)
	e.strategy.Interpolate(g)
	e.refreshSummary(g, core.StatusCompleted)
	e.persist(g)
	if action != "" {
		e.record(action, g.ID)
	}
	e.drag = nil
}

// placeDragged draws the permanent point and adjoining segments for the
// coordinate at idx rendered at pos, and installs them in the index. False
// means the backend refused and nothing was installed.
func (e *Engine) placeDragged(g *model.Group, idx int, pos core.Position) bool {
	ph := e.drawPoint(g, pos, core.StatusCompleted)
	if ph == nil {
		return false
	}
	var prevLine, prevLbl, nextLine, nextLbl *core.Handle
	if idx > 0 {
		prevLine, prevLbl = e.drawSegment(g, g.Coordinates[idx-1], pos, e.letterAt(g, idx-1), core.StatusCompleted)
		if prevLine == nil {
			e.gfx.Remove(ph)
			return false
		}
	}
	if idx < len(g.Coordinates)-1 {
		nextLine, nextLbl = e.drawSegment(g, pos, g.Coordinates[idx+1], e.letterAt(g, idx), core.StatusCompleted)
		if nextLine == nil {
			e.gfx.Remove(ph)
			e.removePrimitive(prevLine)
			e.removePrimitive(prevLbl)
			return false
		}
	}

	e.handles.SetPointAt(g.ID, idx, ph)
	if prevLine != nil {
		e.handles.SetSegmentAt(g.ID, idx-1, prevLine, prevLbl)
	}
	if nextLine != nil {
		e.handles.SetSegmentAt(g.ID, idx, nextLine, nextLbl)
	}
	return true
}

// drawDragPreview draws the moving point and neighbour segments at pos.
func (e *Engine) drawDragPreview(g *model.Group, pos core.Position) {
	d := e.drag
	d.point = e.drawPoint(g, pos, core.StatusMoving)
	if d.index > 0 {
		d.prevLine, d.prevLbl = e.drawSegment(g, g.Coordinates[d.index-1], pos, e.letterAt(g, d.index-1), core.StatusMoving)
	}
	if d.index < len(g.Coordinates)-1 {
		d.nextLine, d.nextLbl = e.drawSegment(g, pos, g.Coordinates[d.index+1], e.letterAt(g, d.index), core.StatusMoving)
	}
}

func (e *Engine) clearDragPreview() {
	d := e.drag
	for _, h := range []*core.Handle{d.point, d.prevLine, d.prevLbl, d.nextLine, d.nextLbl} {
		if h != nil {
			e.gfx.Remove(h)
		}
	}
	d.point, d.prevLine, d.prevLbl, d.nextLine, d.nextLbl = nil, nil, nil, nil, nil
}

// letterAt returns the stored letter ordinal of segment i, falling back to
// the index for groups predating letter tracking.
func (e *Engine) letterAt(g *model.Group, i int) int {
	if i >= 0 && i < len(g.SegmentLetters) {
		return g.SegmentLetters[i]
	}
	return i
}
