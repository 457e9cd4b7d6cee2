package engine

import (
	"github.com/eric-ce/mapmeasure/internal/adapter"
	"github.com/eric-ce/mapmeasure/internal/model"
	"github.com/eric-ce/mapmeasure/pkg/core"
)

// PrimaryAction handles the mode's primary pointer action (left click).
// Idle: start a new group, or resume a completed chain when the click lands
// on one of its endpoints. Building: commit another point.
func (e *Engine) PrimaryAction(pos core.Position) {
	if e.drag != nil {
		e.log.Debug("Primary action ignored during drag")
		return
	}
	if e.state == StateBuilding {
		e.appendPoint(pos)
		return
	}
	if g, idx := e.findEndpointAt(pos); g != nil {
		e.resume(g, idx)
		return
	}
	e.startGroup(pos)
}

// PointerMove redraws the moving preview segment from the committed endpoint
// to the cursor. Outside construction it is a no-op; hover highlighting goes
// through Hover instead.
func (e *Engine) PointerMove(pos core.Position) {
	if e.drag != nil {
		e.DragMove(pos)
		return
	}
	if e.state != StateBuilding || e.active == nil || len(e.active.Coordinates) == 0 {
		return
	}
	e.clearMovingPreview()
	anchor := e.active.Coordinates[len(e.active.Coordinates)-1]
	if e.reversed {
		anchor = e.active.Coordinates[0]
	}
	letter := e.active.LettersIssued
	e.movingLine, e.movingLabel = e.drawSegment(e.active, anchor, pos, letter, core.StatusMoving)
}

// SecondaryAction finishes construction (right click): commit the point
// under the cursor unless it duplicates an existing one, then finalize.
// Groups that never reached two points are discarded.
func (e *Engine) SecondaryAction(pos core.Position) {
	if e.drag != nil {
		e.log.Debug("Secondary action ignored during drag")
		return
	}
	if e.state != StateBuilding || e.active == nil {
		e.log.Debug("Secondary action outside construction ignored")
		return
	}
	if !e.positionInUse(pos) {
		e.appendPoint(pos)
	}
	if e.active == nil {
		// appendPoint auto-finalized.
		return
	}
	if len(e.active.Coordinates) >= 2 {
		e.finalizeActive()
		return
	}
	e.discardActive()
}

// startGroup begins a new group with its first point. The group counter
// advances only after the backend accepted the point primitive, so a refused
// draw leaves no trace.
func (e *Engine) startGroup(pos core.Position) {
	if e.positionInUse(pos) {
		e.log.Debug("Duplicate position suppressed", "lat", pos.Lat, "lng", pos.Lng)
		return
	}
	g := model.NewGroup(e.strategy.Mode(), 0)
	ph := e.drawPoint(g, pos, core.StatusPending)
	if ph == nil {
		return
	}
	g.LabelIndex = e.counter.Next()
	g.Append(pos, false)
	e.groups[g.ID] = g
	e.order = append(e.order, g.ID)
	e.handles.AppendPoint(g.ID, ph, false)
	e.active = g
	e.reversed = false
	e.state = StateBuilding
	e.strategy.Recompute(g, e.coord)
	e.persist(g)
	e.record("group_created", g.ID)
	e.maybeAutoFinalize()
}

// appendPoint commits one more point to the active group, together with the
// segment joining it to the committed endpoint. Every primitive is created
// before any state mutates, so a backend refusal aborts cleanly.
func (e *Engine) appendPoint(pos core.Position) {
	g := e.active
	if e.positionInUse(pos) {
		e.log.Debug("Duplicate position suppressed", "group", g.ID)
		return
	}
	anchor := g.Coordinates[len(g.Coordinates)-1]
	if e.reversed {
		anchor = g.Coordinates[0]
	}

	ph := e.drawPoint(g, pos, core.StatusPending)
	if ph == nil {
		return
	}
	letter := g.LettersIssued
	line, lbl := e.drawSegment(g, anchor, pos, letter, core.StatusPending)
	if line == nil {
		e.gfx.Remove(ph)
		return
	}

	e.clearMovingPreview()
	g.Append(pos, e.reversed)
	g.NextLetter()
	g.AppendLetter(letter, e.reversed)
	e.handles.AppendPoint(g.ID, ph, e.reversed)
	e.handles.AppendSegment(g.ID, line, lbl, e.reversed)

	e.strategy.Recompute(g, e.coord)
	e.refreshSummary(g, core.StatusPending)
	e.persist(g)
	e.record("point_placed", g.ID)
	e.maybeAutoFinalize()
}

// resume reopens a completed chain from one of its endpoints. A click on the
// first coordinate reverses construction so new points extend that end.
func (e *Engine) resume(g *model.Group, idx int) {
	e.active = g
	e.reversed = idx == 0
	e.state = StateBuilding
	g.Status = core.GroupPending
	e.persist(g)
	e.record("group_resumed", g.ID)
	e.log.Debug("Resumed chain from endpoint", "group", g.ID, "reversed", e.reversed)
}

// maybeAutoFinalize finalizes modes with a fixed point count.
func (e *Engine) maybeAutoFinalize() {
	if e.active == nil {
		return
	}
	if n := e.strategy.AutoFinalizeAt(); n > 0 && len(e.active.Coordinates) >= n {
		e.finalizeActive()
	}
}

// finalizeActive completes the active group: pending primitives lose their
// lifecycle suffix and become permanent, derived records refresh, and the
// group persists as completed.
func (e *Engine) finalizeActive() {
	g := e.active
	e.clearMovingPreview()

	rb, _ := e.gfx.(adapter.Rebinder)
	for _, h := range e.handles.Graphics(g.ID).All() {
		if h.Status != core.StatusPending {
			continue
		}
		oldID := h.ID
		h.ID = completeID(oldID)
		h.Status = core.StatusCompleted
		e.handles.Rebind(oldID, h)
		if rb != nil {
			rb.Rebind(oldID, h)
		}
	}

	g.Status = core.GroupCompleted
	e.strategy.Recompute(g, e.coord)
	e.strategy.Interpolate(g)
	e.refreshSummary(g, core.StatusCompleted)
	e.persist(g)
	e.record("group_completed", g.ID)

	e.active = nil
	e.reversed = false
	e.state = StateIdle
}

// discardActive abandons a construction that never became measurable.
func (e *Engine) discardActive() {
	g := e.active
	e.clearMovingPreview()
	e.removeGroup(g.ID)
	e.record("group_discarded", g.ID)
	e.active = nil
	e.reversed = false
	e.state = StateIdle
}

func (e *Engine) clearMovingPreview() {
	if e.movingLine != nil {
		e.gfx.Remove(e.movingLine)
		e.movingLine = nil
	}
	if e.movingLabel != nil {
		e.gfx.Remove(e.movingLabel)
		e.movingLabel = nil
	}
}
