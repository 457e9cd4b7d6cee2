// pkg/core/measure.go
package core

// Mode identifies the measurement kind a group was drawn with.
type Mode string

const (
	// ModeDistance is a multi-segment distance chain.
	ModeDistance Mode = "distance"
	// ModePolygon is a closed ring with an area record.
	ModePolygon Mode = "polygon"
	// ModeCurve is a fixed three-click curve with interpolated points.
	ModeCurve Mode = "curve"
	// ModePointInfo is a single inspected point with no derived records.
	ModePointInfo Mode = "pointinfo"
)

// GroupStatus tracks the lifecycle of a measurement group.
type GroupStatus string

const (
	// GroupPending marks a group under active construction or drag.
	GroupPending GroupStatus = "pending"
	// GroupCompleted marks a finalized group.
	GroupCompleted GroupStatus = "completed"
)
