package engine

import "github.com/eric-ce/mapmeasure/pkg/core"

// Hover highlights the picked primitive. The primitive's current style is
// saved first and restored by the next Hover or Unhover, so a highlight
// never clobbers a selection tint. Only completed points and lines react.
func (e *Engine) Hover(handleID string) {
	if e.drag != nil || e.state == StateBuilding {
		return
	}
	h := e.lookupHandle(handleID)
	if h == e.hovered {
		return
	}
	e.Unhover()
	if h == nil || h.Status != core.StatusCompleted || h.Kind == core.KindLabel {
		return
	}
	e.hoverSaved = h.Style
	e.gfx.UpdateStyle(h, core.StyleHover)
	e.hovered = h
}

// Unhover restores the previously highlighted primitive's saved style.
func (e *Engine) Unhover() {
	if e.hovered == nil {
		return
	}
	e.gfx.UpdateStyle(e.hovered, e.hoverSaved)
	e.hovered = nil
}

// SelectChain tints every line of the picked primitive's group. Selecting a
// different group first restores the previous one to the default line style.
func (e *Engine) SelectChain(handleID string) {
	if e.drag != nil || e.state == StateBuilding {
		return
	}
	ref, ok := e.handles.Resolve(handleID)
	if !ok {
		e.log.Debug("Select target unknown", "id", handleID)
		return
	}
	g, ok := e.groups[ref.GroupID]
	if !ok || g.Status != core.GroupCompleted {
		return
	}
	if e.selected == g.ID {
		return
	}
	e.Unhover()
	e.ClearSelection()
	for _, ln := range e.handles.Graphics(g.ID).Lines {
		if ln != nil {
			e.gfx.UpdateStyle(ln, core.StyleSelected)
		}
	}
	e.selected = g.ID
}

// ClearSelection restores the selected group's lines to the default style.
func (e *Engine) ClearSelection() {
	if e.selected == 0 {
		return
	}
	e.Unhover()
	for _, ln := range e.handles.Graphics(e.selected).Lines {
		if ln != nil {
			e.gfx.UpdateStyle(ln, core.StyleDefaultLine)
		}
	}
	e.selected = 0
}

// Selected returns the selected group id, 0 when none.
func (e *Engine) Selected() uint64 { return e.selected }

// lookupHandle resolves a primitive id to its live handle.
func (e *Engine) lookupHandle(handleID string) *core.Handle {
	ref, ok := e.handles.Resolve(handleID)
	if !ok {
		return nil
	}
	gg := e.handles.Graphics(ref.GroupID)
	if ref.Total {
		return gg.Total
	}
	switch ref.Kind {
	case core.KindPoint:
		if ref.Index < len(gg.Points) {
			return gg.Points[ref.Index]
		}
	case core.KindLine:
		if ref.Index < len(gg.Lines) {
			return gg.Lines[ref.Index]
		}
	case core.KindLabel:
		if ref.Index < len(gg.Labels) {
			return gg.Labels[ref.Index]
		}
	}
	return nil
}
