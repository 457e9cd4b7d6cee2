// Package adapter defines the two contracts the measurement engine depends
// on but does not implement: coordinate conversion and primitive drawing.
// One implementation of each exists per rendering backend; the engine itself
// stays backend-agnostic.
package adapter

import "github.com/eric-ce/mapmeasure/pkg/core"

// Coordinate converts between a renderer's native point representation and
// canonical positions, and supplies the metric the engine measures with.
type Coordinate interface {
	// ToCanonical converts a renderer-native point. ok is false on an
	// unrecognized input shape; the engine treats that as a no-op event.
	ToCanonical(native any) (pos core.Position, ok bool)

	// Equal is tolerance-based equality. Sub-centimeter differences must
	// compare equal; the tolerance may be wider by configuration.
	Equal(a, b core.Position) bool

	// Midpoint returns the label anchor between two positions.
	Midpoint(a, b core.Position) core.Position

	// Distance returns meters between two positions, straight-line or
	// ground-clamped depending on the backend.
	Distance(a, b core.Position) float64

	// Area returns the area of an ordered ring in square meters. The ring
	// may be open; implementations auto-close it. Rings with fewer than
	// three positions yield 0.
	Area(ring core.Positions) float64

	// Centroid returns the anchor for a ring's area label.
	Centroid(ring core.Positions) core.Position
}

// Graphics creates, restyles, and removes primitives in a renderer. A nil
// handle from any Add call means the backend could not draw the primitive;
// the engine then aborts the current step without committing state.
type Graphics interface {
	AddPoint(pos core.Position, id string, style core.Style) *core.Handle
	AddLine(a, b core.Position, id string, style core.Style) *core.Handle
	AddLabel(anchor core.Position, text, id string, style core.Style) *core.Handle

	// UpdateStyle applies a partial style to an existing primitive and
	// records it on the handle.
	UpdateStyle(h *core.Handle, style core.Style)

	// Remove deletes the primitive; unknown handles are ignored.
	Remove(h *core.Handle)
}

// Rebinder is an optional Graphics extension for backends that key
// primitives by handle id and need to follow the id rewrite that happens
// when pending primitives become permanent on finalize.
type Rebinder interface {
	Rebind(oldID string, h *core.Handle)
}
