package geo

import "github.com/eric-ce/mapmeasure/pkg/core"

// DensifyQuadratic interpolates a quadratic Bezier through three control
// points, returning steps+1 positions including both endpoints. Curve-mode
// groups store the result as their interpolated point list for charting.
func DensifyQuadratic(p0, p1, p2 core.Position, steps int) core.Positions {
	if steps < 1 {
		steps = 1
	}
	out := make(core.Positions, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		u := 1 - t
		out = append(out, core.Position{
			Lat:    u*u*p0.Lat + 2*u*t*p1.Lat + t*t*p2.Lat,
			Lng:    u*u*p0.Lng + 2*u*t*p1.Lng + t*t*p2.Lng,
			Height: u*u*p0.Height + 2*u*t*p1.Height + t*t*p2.Height,
		})
	}
	return out
}

// DensifyLinear splits each segment of a chain into the given number of even
// subdivisions. Ground-clamped distance modes sample terrain along these.
func DensifyLinear(chain core.Positions, perSegment int) core.Positions {
	if len(chain) < 2 || perSegment < 1 {
		return chain.Clone()
	}
	out := make(core.Positions, 0, (len(chain)-1)*perSegment+1)
	for i := 0; i < len(chain)-1; i++ {
		a, b := chain[i], chain[i+1]
		for s := 0; s < perSegment; s++ {
			t := float64(s) / float64(perSegment)
			out = append(out, core.Position{
				Lat:    a.Lat + t*(b.Lat-a.Lat),
				Lng:    a.Lng + t*(b.Lng-a.Lng),
				Height: a.Height + t*(b.Height-a.Height),
			})
		}
	}
	out = append(out, chain[len(chain)-1])
	return out
}
