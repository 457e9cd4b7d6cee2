package engine

import (
	"github.com/eric-ce/mapmeasure/internal/adapter"
	"github.com/eric-ce/mapmeasure/internal/geo"
	"github.com/eric-ce/mapmeasure/internal/label"
	"github.com/eric-ce/mapmeasure/internal/model"
	"github.com/eric-ce/mapmeasure/pkg/core"
)

// Strategy is the per-mode shape policy. The engine runs one state machine
// for every mode; the strategy supplies what differs: when construction
// auto-finalizes, how derived records are computed, and what the summary
// label says and where it anchors.
type Strategy interface {
	Mode() core.Mode

	// AutoFinalizeAt returns the point count at which construction
	// finalizes without an explicit finish action, or 0 for never.
	AutoFinalizeAt() int

	// Recompute refreshes the group's derived records from its coordinates.
	Recompute(g *model.Group, coord adapter.Coordinate)

	// SummaryText is the group summary label text, empty when the group has
	// nothing to summarize yet.
	SummaryText(g *model.Group) string

	// SummaryAnchor is where the summary label sits.
	SummaryAnchor(g *model.Group, coord adapter.Coordinate) core.Position

	// Interpolate fills the group's densified point list for modes that
	// carry one; a no-op otherwise.
	Interpolate(g *model.Group)
}

// StrategyFor returns the strategy for a mode. Curve interpolation uses the
// given subdivision count.
func StrategyFor(mode core.Mode, curveSteps int) Strategy {
	switch mode {
	case core.ModePolygon:
		return PolygonStrategy{}
	case core.ModeCurve:
		return CurveStrategy{Steps: curveSteps}
	case core.ModePointInfo:
		return PointInfoStrategy{}
	default:
		return ChainStrategy{}
	}
}

// ChainStrategy measures an open chain: per-segment distances plus a running
// total anchored at the chain's last point.
type ChainStrategy struct{}

func (ChainStrategy) Mode() core.Mode     { return core.ModeDistance }
func (ChainStrategy) AutoFinalizeAt() int { return 0 }

func (ChainStrategy) Recompute(g *model.Group, coord adapter.Coordinate) {
	recomputeChain(g, coord)
}

func (ChainStrategy) SummaryText(g *model.Group) string {
	if g.SegmentCount() < 1 {
		return ""
	}
	return label.Total(g.Records.Total)
}

func (ChainStrategy) SummaryAnchor(g *model.Group, _ adapter.Coordinate) core.Position {
	return g.Coordinates[len(g.Coordinates)-1]
}

func (ChainStrategy) Interpolate(*model.Group) {}

// PolygonStrategy measures a ring: segment distances along the drawn edges
// plus an auto-closed area anchored at the ring centroid.
type PolygonStrategy struct{}

func (PolygonStrategy) Mode() core.Mode     { return core.ModePolygon }
func (PolygonStrategy) AutoFinalizeAt() int { return 0 }

func (PolygonStrategy) Recompute(g *model.Group, coord adapter.Coordinate) {
	recomputeChain(g, coord)
	if len(g.Coordinates) >= 3 {
		g.Records.Area = coord.Area(g.Coordinates)
	} else {
		g.Records.Area = 0
	}
}

func (PolygonStrategy) SummaryText(g *model.Group) string {
	if len(g.Coordinates) < 3 {
		return ""
	}
	return label.Area(g.Records.Area)
}

func (PolygonStrategy) SummaryAnchor(g *model.Group, coord adapter.Coordinate) core.Position {
	if len(g.Coordinates) >= 3 {
		return coord.Centroid(g.Coordinates)
	}
	return g.Coordinates[len(g.Coordinates)-1]
}

func (PolygonStrategy) Interpolate(*model.Group) {}

// CurveStrategy measures a three-point quadratic curve. Construction
// auto-finalizes on the third point and the group carries a densified point
// list for downstream charting.
type CurveStrategy struct {
	Steps int
}

func (CurveStrategy) Mode() core.Mode     { return core.ModeCurve }
func (CurveStrategy) AutoFinalizeAt() int { return 3 }

func (s CurveStrategy) Recompute(g *model.Group, coord adapter.Coordinate) {
	recomputeChain(g, coord)
	if len(g.Coordinates) == 3 {
		// Total follows the densified curve, not the control chain.
		pts := geo.DensifyQuadratic(g.Coordinates[0], g.Coordinates[1], g.Coordinates[2], s.steps())
		total := 0.0
		for i := 0; i < len(pts)-1; i++ {
			total += coord.Distance(pts[i], pts[i+1])
		}
		g.Records.Total = total
	}
}

func (CurveStrategy) SummaryText(g *model.Group) string {
	if g.SegmentCount() < 1 {
		return ""
	}
	return label.Total(g.Records.Total)
}

func (CurveStrategy) SummaryAnchor(g *model.Group, _ adapter.Coordinate) core.Position {
	return g.Coordinates[len(g.Coordinates)-1]
}

func (s CurveStrategy) Interpolate(g *model.Group) {
	if len(g.Coordinates) != 3 {
		g.Interpolated = nil
		return
	}
	g.Interpolated = geo.DensifyQuadratic(g.Coordinates[0], g.Coordinates[1], g.Coordinates[2], s.steps())
}

func (s CurveStrategy) steps() int {
	if s.Steps < 1 {
		return 32
	}
	return s.Steps
}

// PointInfoStrategy places a single annotated point; one click completes the
// group and there is nothing to measure.
type PointInfoStrategy struct{}

func (PointInfoStrategy) Mode() core.Mode     { return core.ModePointInfo }
func (PointInfoStrategy) AutoFinalizeAt() int { return 1 }

func (PointInfoStrategy) Recompute(g *model.Group, _ adapter.Coordinate) {
	g.Records = model.Records{}
}

func (PointInfoStrategy) SummaryText(*model.Group) string { return "" }

func (PointInfoStrategy) SummaryAnchor(g *model.Group, _ adapter.Coordinate) core.Position {
	return g.Coordinates[0]
}

func (PointInfoStrategy) Interpolate(*model.Group) {}

// recomputeChain fills per-segment distances and their sum.
func recomputeChain(g *model.Group, coord adapter.Coordinate) {
	n := g.SegmentCount()
	if n == 0 {
		g.Records.Distances = nil
		g.Records.Total = 0
		return
	}
	dists := make([]float64, n)
	total := 0.0
	for i := 0; i < n; i++ {
		d := coord.Distance(g.Coordinates[i], g.Coordinates[i+1])
		dists[i] = d
		total += d
	}
	g.Records.Distances = dists
	g.Records.Total = total
}
