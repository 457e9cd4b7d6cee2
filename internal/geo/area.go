package geo

import (
	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/eric-ce/mapmeasure/pkg/core"
)

// Projection maps a canonical position onto the plane an area is computed in.
type Projection func(core.Position) (x, y float64)

// PlanarXY treats Lng/Lat as X/Y directly. Used by the planar adapter and by
// degree-space test fixtures.
func PlanarXY(p core.Position) (float64, float64) {
	return p.Lng, p.Lat
}

// ringPolygon builds a simplefeatures polygon from an ordered ring,
// auto-closing it when the first and last positions differ.
func ringPolygon(ring core.Positions, project Projection) (geom.Polygon, error) {
	if len(ring) < 3 {
		return geom.Polygon{}, ErrInvalidRing
	}
	flat := make([]float64, 0, (len(ring)+1)*2)
	for _, p := range ring {
		x, y := project(p)
		flat = append(flat, x, y)
	}
	if flat[0] != flat[len(flat)-2] || flat[1] != flat[len(flat)-1] {
		flat = append(flat, flat[0], flat[1])
	}
	seq := geom.NewSequence(flat, geom.DimXY)
	ls := geom.NewLineString(seq)
	return geom.NewPolygon([]geom.LineString{ls}), nil
}

// RingArea computes the area of an ordered ring in the projection's square
// units. The ring is auto-closed; rings with fewer than three positions are
// an error.
func RingArea(ring core.Positions, project Projection) (float64, error) {
	poly, err := ringPolygon(ring, project)
	if err != nil {
		return 0, err
	}
	return poly.Area(), nil
}

// RingCentroid returns the centroid of an ordered ring in canonical space.
// The centroid anchors the polygon's area label.
func RingCentroid(ring core.Positions, project Projection) (core.Position, error) {
	poly, err := ringPolygon(ring, project)
	if err != nil {
		return core.Position{}, err
	}
	c, ok := poly.Centroid().XY()
	if !ok {
		return core.Position{}, ErrInvalidRing
	}
	// Recover canonical coordinates for the identity projection; projected
	// rings get the centroid mapped back by the caller's adapter.
	return core.Position{Lat: c.Y, Lng: c.X}, nil
}

// ChainLength returns the length of an ordered position chain in the
// projection's units.
func ChainLength(chain core.Positions, project Projection) float64 {
	if len(chain) < 2 {
		return 0
	}
	flat := make([]float64, 0, len(chain)*2)
	for _, p := range chain {
		x, y := project(p)
		flat = append(flat, x, y)
	}
	seq := geom.NewSequence(flat, geom.DimXY)
	return geom.NewLineString(seq).Length()
}
