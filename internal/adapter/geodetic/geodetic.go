// Package geodetic implements the coordinate contract for renderers that
// work in WGS84 lat/lng degrees (globe and tile-map backends). Distances are
// great-circle meters; areas are computed on EPSG:3857 projected meters.
package geodetic

import (
	"github.com/eric-ce/mapmeasure/internal/geo"
	"github.com/eric-ce/mapmeasure/internal/util"
	"github.com/eric-ce/mapmeasure/pkg/core"
)

// DefaultToleranceMeters treats sub-centimeter differences as equal.
const DefaultToleranceMeters = 0.01

// Adapter converts native lat/lng shapes and measures on the sphere.
type Adapter struct {
	tolerance float64
}

// New creates a geodetic adapter. toleranceMeters <= 0 selects the default.
func New(toleranceMeters float64) *Adapter {
	if toleranceMeters <= 0 {
		toleranceMeters = DefaultToleranceMeters
	}
	return &Adapter{tolerance: toleranceMeters}
}

// ToCanonical accepts core.Position values and pointers, [lng, lat] and
// [lng, lat, height] arrays and slices, and bracketed strings like
// "[12.5,3.75]" from text-protocol bridges. Anything else is rejected.
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
	return geo.HaversineMeters(p, q) < a.tolerance
}

func (a *Adapter) Midpoint(p, q core.Position) core.Position {
	return geo.Midpoint(p, q)
}

func (a *Adapter) Distance(p, q core.Position) float64 {
	return geo.HaversineMeters(p, q)
}

// Area projects the ring to EPSG:3857 and measures there, so the result is
// in square meters regardless of latitude-dependent degree scaling.
func (a *Adapter) Area(ring core.Positions) float64 {
	area, err := geo.RingArea(ring, func(p core.Position) (float64, float64) {
		return geo.ToWebMercator(p)
	})
	if err != nil {
		return 0
	}
	return area
}

// Centroid computes the ring centroid in projected space and maps it back
// to lat/lng for label anchoring.
func (a *Adapter) Centroid(ring core.Positions) core.Position {
	c, err := geo.RingCentroid(ring, func(p core.Position) (float64, float64) {
		return geo.ToWebMercator(p)
	})
	if err != nil {
		if len(ring) > 0 {
			return ring[0]
		}
		return core.Position{}
	}
	return geo.FromWebMercator(c.Lng, c.Lat)
}
