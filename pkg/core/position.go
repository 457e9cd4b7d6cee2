// pkg/core/position.go
package core

// Position is a canonical semantic point. Lat/Lng are degrees for geodetic
// renderers; planar renderers reuse the same shape with Lng as X meters and
// Lat as Y meters. Height is optional and carried through untouched.
//
// Position is an immutable value: operations that move a point replace the
// value, they never mutate it in place. Equality is adapter-defined and
// tolerance-based, never float-exact.
type Position struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Height float64 `json:"height,omitempty"`
}

// Positions is an ordered coordinate sequence. Order is semantically
// meaningful: consecutive entries define segments.
type Positions []Position

// Clone returns an independent copy of the sequence.
func (p Positions) Clone() Positions {
	if p == nil {
		return nil
	}
	out := make(Positions, len(p))
	copy(out, p)
	return out
}
