// pkg/core/primitive.go
package core

import "fmt"

// PrimitiveKind is the renderer primitive type.
type PrimitiveKind string

const (
	KindPoint PrimitiveKind = "point"
	KindLine  PrimitiveKind = "line"
	KindLabel PrimitiveKind = "label"
)

// PrimitiveStatus tags a primitive's role in the construction lifecycle.
type PrimitiveStatus string

const (
	// StatusPending belongs to an unfinished group; relabeled on finalize.
	StatusPending PrimitiveStatus = "pending"
	// StatusMoving is a transient preview redrawn every pointer-move tick.
	StatusMoving PrimitiveStatus = "moving"
	// StatusCompleted is a permanent primitive of a finalized group.
	StatusCompleted PrimitiveStatus = "completed"
)

// Primitive roles used when composing primitive ids.
const (
	RolePoint      = "point"
	RoleLine       = "line"
	RoleLabel      = "label"
	RoleTotalLabel = "total_label"
)

// Handle is the engine's reference to one renderer primitive. The renderer
// owns the native object; the engine owns everything else.
type Handle struct {
	// ID follows the convention annotate_<mode>_<role>_<groupID>[_pending|_moving].
	ID string
	// Kind is the primitive type.
	Kind PrimitiveKind
	// Status is the lifecycle tag encoded into the ID suffix.
	Status PrimitiveStatus
	// Positions are the source positions this primitive currently represents.
	Positions Positions
	// Text is the rendered label text; empty for points and lines.
	Text string
	// Style is the style the primitive currently renders with.
	Style Style
	// Native is the renderer-native object, opaque to the engine.
	Native any
}

// PrimitiveID composes the conventional primitive id string. The serial
// keeps ids unique across a group's primitives of the same role so the
// handle index can key on them directly.
func PrimitiveID(mode Mode, role string, groupID, serial uint64, status PrimitiveStatus) string {
	id := fmt.Sprintf("annotate_%s_%s_%d_%d", mode, role, groupID, serial)
	switch status {
	case StatusPending:
		return id + "_pending"
	case StatusMoving:
		return id + "_moving"
	default:
		return id
	}
}

// Style carries renderer-agnostic display options. Renderers interpret what
// they can and ignore the rest.
type Style struct {
	Color     string  `json:"color,omitempty"`
	FillColor string  `json:"fillColor,omitempty"`
	Width     float64 `json:"width,omitempty"`
	Size      float64 `json:"size,omitempty"`
	FontSize  float64 `json:"fontSize,omitempty"`
}

// Default style palette shared by all renderers.
var (
	StyleDefaultPoint = Style{Color: "#edffff", Size: 8}
	StyleDefaultLine  = Style{Color: "#ffff00", Width: 2}
	StyleDefaultLabel = Style{Color: "#ffffff", FillColor: "#2d2d2d", FontSize: 12}
	StyleMovingLine   = Style{Color: "#ffcc33", Width: 2}
	StyleHover        = Style{Color: "#ff8040", Width: 3, Size: 10}
	StyleSelected     = Style{Color: "#00ffff", Width: 3}
)
