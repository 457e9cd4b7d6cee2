// Package planar implements the coordinate contract for renderers that work
// in projected meters (a WebGL canvas or a commercial widget already in
// EPSG:3857). Lng carries X and Lat carries Y; the metric is euclidean.
package planar

import (
	"github.com/eric-ce/mapmeasure/internal/geo"
	"github.com/eric-ce/mapmeasure/internal/util"
	"github.com/eric-ce/mapmeasure/pkg/core"
)

// DefaultToleranceMeters treats sub-centimeter differences as equal.
const DefaultToleranceMeters = 0.01

type Adapter struct {
	tolerance float64
}

func New(toleranceMeters float64) *Adapter {
	if toleranceMeters <= 0 {
		toleranceMeters = DefaultToleranceMeters
	}
	return &Adapter{tolerance: toleranceMeters}
}

// ToCanonical accepts core.Position values and pointers, [x, y] and
// [x, y, z] arrays and slices of projected meters, and bracketed strings
// like "[12.5,3.75]" from text-protocol bridges.
func (a *Adapter) ToCanonical(native any) (core.Position, bool) {
	switch v := native.(type) {
	case core.Position:
		return v, true
	case *core.Position:
		if v == nil {
			return core.Position{}, false
		}
		return *v, true
	case [2]float64:
		return core.Position{Lng: v[0], Lat: v[1]}, true
	case [3]float64:
		return core.Position{Lng: v[0], Lat: v[1], Height: v[2]}, true
	case []float64:
		if len(v) < 2 {
			return core.Position{}, false
		}
		p := core.Position{Lng: v[0], Lat: v[1]}
		if len(v) > 2 {
			p.Height = v[2]
		}
		return p, true
	case string:
		comps, err := util.ParsePositionArray(util.TrimQuotes(v))
		if err != nil {
			return core.Position{}, false
		}
		p := core.Position{Lng: comps[0], Lat: comps[1]}
		if len(comps) > 2 {
			p.Height = comps[2]
		}
		return p, true
	default:
		return core.Position{}, false
	}
}

func (a *Adapter) Equal(p, q core.Position) bool {
	return geo.EuclideanMeters(p, q) < a.tolerance
}

func (a *Adapter) Midpoint(p, q core.Position) core.Position {
	return geo.Midpoint(p, q)
}

func (a *Adapter) Distance(p, q core.Position) float64 {
	return geo.EuclideanMeters(p, q)
}

// Area is the planar shoelace area of the ring, auto-closed.
func (a *Adapter) Area(ring core.Positions) float64 {
	area, err := geo.RingArea(ring, geo.PlanarXY)
	if err != nil {
		return 0
	}
	return area
}

func (a *Adapter) Centroid(ring core.Positions) core.Position {
	c, err := geo.RingCentroid(ring, geo.PlanarXY)
	if err != nil {
		if len(ring) > 0 {
			return ring[0]
		}
		return core.Position{}
	}
	return c
}
