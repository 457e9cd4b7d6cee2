package engine

import (
	"github.com/eric-ce/mapmeasure/pkg/core"
)

// InsertPoint splits a completed group's segment at pos. The picked line's
// handle id identifies the segment; the two replacement segments each take
// the next letters in creation order, so letters stop reading in position
// order after an insert. New primitives are created before old ones are
// removed; a backend refusal aborts with the group untouched.
func (e *Engine) InsertPoint(lineHandleID string, pos core.Position) {
	if e.drag != nil || e.state == StateBuilding {
		e.log.Debug("Insert ignored during construction or drag")
		return
	}
	ref, ok := e.handles.Resolve(lineHandleID)
	if !ok || ref.Kind != core.KindLine || ref.Total {
		e.log.Debug("Insert target is not a segment line", "id", lineHandleID)
		return
	}
	g, ok := e.groups[ref.GroupID]
	if !ok || g.Status != core.GroupCompleted {
		e.log.Debug("Insert target group not editable", "group", ref.GroupID)
		return
	}
	if e.positionInUse(pos) {
		e.log.Debug("Duplicate position suppressed", "group", g.ID)
		return
	}

	i := ref.Index
	a, b := g.Coordinates[i], g.Coordinates[i+1]
	n1 := g.LettersIssued
	n2 := n1 + 1

	ph := e.drawPoint(g, pos, core.StatusCompleted)
	if ph == nil {
		return
	}
	line1, lbl1 := e.drawSegment(g, a, pos, n1, core.StatusCompleted)
	if line1 == nil {
		e.gfx.Remove(ph)
		return
	}
	line2, lbl2 := e.drawSegment(g, pos, b, n2, core.StatusCompleted)
	if line2 == nil {
		e.gfx.Remove(ph)
		e.gfx.Remove(line1)
		e.gfx.Remove(lbl1)
		return
	}

	oldLine, oldLbl := e.handles.SetSegmentAt(g.ID, i, line1, lbl1)
	e.removePrimitive(oldLine)
	e.removePrimitive(oldLbl)
	e.handles.InsertSegmentAt(g.ID, i+1, line2, lbl2)

	g.InsertAt(i+1, pos)
	e.handles.InsertPointAt(g.ID, i+1, ph)
	g.NextLetter()
	g.NextLetter()
	g.RemoveLetterAt(i)
	g.InsertLetterAt(i, n1)
	g.InsertLetterAt(i+1, n2)

	e.strategy.Recompute(g, e.coord)
	e.strategy.Interpolate(g)
	e.refreshSummary(g, core.StatusCompleted)
	e.persist(g)
	e.record("point_inserted", g.ID)
}

// DeletePoint removes a committed point from a completed group. Interior
// deletions reconnect the two neighbours with a fresh segment carrying the
// next letter; endpoint deletions just shorten the chain. A group reduced
// below two coordinates is destroyed outright.
func (e *Engine) DeletePoint(pointHandleID string) {
	if e.drag != nil || e.state == StateBuilding {
		e.log.Debug("Delete ignored during construction or drag")
		return
	}
	ref, ok := e.handles.Resolve(pointHandleID)
	if !ok || ref.Kind != core.KindPoint {
		e.log.Debug("Delete target is not a point", "id", pointHandleID)
		return
	}
	g, ok := e.groups[ref.GroupID]
	if !ok || g.Status != core.GroupCompleted {
		e.log.Debug("Delete target group not editable", "group", ref.GroupID)
		return
	}

	if len(g.Coordinates) <= 2 {
		e.forgetHover()
		e.removeGroup(g.ID)
		e.record("group_removed", g.ID)
		return
	}

	idx := ref.Index
	hasPrev := idx > 0
	hasNext := idx < len(g.Coordinates)-1

	var reconnectLine, reconnectLbl *core.Handle
	reconnectLetter := g.LettersIssued
	if hasPrev && hasNext {
		reconnectLine, reconnectLbl = e.drawSegment(g, g.Coordinates[idx-1], g.Coordinates[idx+1], reconnectLetter, core.StatusCompleted)
		if reconnectLine == nil {
			return
		}
	}

	e.forgetHover()
	e.removePrimitive(e.handles.RemovePointAt(g.ID, idx))
	if hasNext {
		line, lbl := e.handles.RemoveSegmentAt(g.ID, idx)
		e.removePrimitive(line)
		e.removePrimitive(lbl)
		g.RemoveLetterAt(idx)
	}
	if hasPrev {
		line, lbl := e.handles.RemoveSegmentAt(g.ID, idx-1)
		e.removePrimitive(line)
		e.removePrimitive(lbl)
		g.RemoveLetterAt(idx - 1)
	}
	g.RemoveAt(idx)

	if reconnectLine != nil {
		e.handles.InsertSegmentAt(g.ID, idx-1, reconnectLine, reconnectLbl)
		g.NextLetter()
		g.InsertLetterAt(idx-1, reconnectLetter)
	}

	e.strategy.Recompute(g, e.coord)
	e.strategy.Interpolate(g)
	e.refreshSummary(g, core.StatusCompleted)
	e.persist(g)
	e.record("point_deleted", g.ID)
}

// removePrimitive removes a handle from the backend, tolerating nil.
func (e *Engine) removePrimitive(h *core.Handle) {
	if h == nil {
		return
	}
	if e.hovered == h {
		e.hovered = nil
	}
	e.gfx.Remove(h)
}

// forgetHover drops hover state without restoring the style; callers are
// about to remove or restyle the primitive anyway.
func (e *Engine) forgetHover() {
	e.hovered = nil
}
