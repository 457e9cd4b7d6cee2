// Package geo provides the distance, area, and interpolation primitives the
// measurement engine builds on. Geodetic math is WGS84-spherical; planar math
// runs on EPSG:3857 meters so SQLite-backed stores can keep interpreting
// coordinate data without spatial awareness.
package geo

import (
	"errors"
	"math"

	"github.com/eric-ce/mapmeasure/pkg/core"
	"github.com/wroge/wgs84"
)

// EarthRadiusMeters is the WGS84 semi-major axis.
const EarthRadiusMeters = 6378137.0

// ErrInvalidRing is returned when a polygon operation receives fewer than
// three distinct positions.
var ErrInvalidRing = errors.New("ring needs at least 3 positions")

// HaversineMeters returns the great-circle distance between two geodetic
// positions in meters. Height differences are folded in linearly, which is
// enough for per-segment measurement labels.
func HaversineMeters(a, b core.Position) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLng/2)*math.Sin(dLng/2)
	ground := 2 * EarthRadiusMeters * math.Asin(math.Sqrt(h))

	dh := b.Height - a.Height
	if dh == 0 {
		return ground
	}
	return math.Hypot(ground, dh)
}

// EuclideanMeters returns the straight-line distance between two planar
// positions whose Lng/Lat fields already carry projected meters.
func EuclideanMeters(a, b core.Position) float64 {
	dx := b.Lng - a.Lng
	dy := b.Lat - a.Lat
	dz := b.Height - a.Height
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Midpoint returns the coordinate midpoint of two positions. Labels anchor
// here; the simple average matches what segment labels need at map scale.
func Midpoint(a, b core.Position) core.Position {
	return core.Position{
		Lat:    (a.Lat + b.Lat) / 2,
		Lng:    (a.Lng + b.Lng) / 2,
		Height: (a.Height + b.Height) / 2,
	}
}

// ToWebMercator converts a geodetic position to EPSG:3857 meters.
func ToWebMercator(p core.Position) (x, y float64) {
	f := wgs84.EPSG().Transform(4326, 3857)
	x, y, _ = f(p.Lng, p.Lat, p.Height)
	return x, y
}

// FromWebMercator converts EPSG:3857 meters back to a geodetic position.
func FromWebMercator(x, y float64) core.Position {
	f := wgs84.EPSG().Transform(3857, 4326)
	lng, lat, _ := f(x, y, 0)
	return core.Position{Lat: lat, Lng: lng}
}
