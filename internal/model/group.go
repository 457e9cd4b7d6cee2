// Package model holds the measurement group aggregate: the ordered-position
// record a user draws, plus the derived distances and totals the engine keeps
// in sync with it.
package model

import (
	"sync/atomic"
	"time"

	"github.com/eric-ce/mapmeasure/pkg/core"
)

// Records is the derived measurement output of a group. For chains,
// Distances holds one entry per segment and Total their sum. For polygons,
// Area holds the ring area in square meters.
type Records struct {
	Distances []float64 `json:"distances,omitempty"`
	Total     float64   `json:"totalDistance,omitempty"`
	Area      float64   `json:"area,omitempty"`
}

// Group is the aggregate root for one user-drawn chain, polygon, or curve.
// The engine is its single writer; collaborators receive snapshots.
type Group struct {
	// ID is assigned at creation, monotonic, never reused.
	ID uint64 `json:"id"`
	// Mode is the measurement kind the group was drawn with.
	Mode core.Mode `json:"mode"`
	// Coordinates is the ordered position list; consecutive pairs define
	// segments.
	Coordinates core.Positions `json:"coordinates"`
	// LabelIndex is the per-engine group counter value at creation; it is
	// the numeric suffix of every segment letter.
	LabelIndex int `json:"labelNumberIndex"`
	// LettersIssued counts segment letters handed out so far. Letters follow
	// creation order: construction, inserts, and delete-reconnects each take
	// the next letter and existing segments are never relettered.
	LettersIssued int `json:"lettersIssued"`
	// Status is pending during construction or drag, completed after finalize.
	Status core.GroupStatus `json:"status"`
	// SegmentLetters holds each segment's issued letter ordinal, aligned
	// with segment order. Stored rather than derived because letters follow
	// creation order, which position order stops encoding after inserts
	// and deletes.
	SegmentLetters []int `json:"segmentLetters,omitempty"`
	// Records is the derived measurement output.
	Records Records `json:"records"`
	// Interpolated is the densified point list for curve mode; nil otherwise.
	Interpolated core.Positions `json:"interpolatedPoints,omitempty"`
}

// lastID guarantees IDs stay monotonic when two groups are created within
// the same millisecond.
var lastID atomic.Uint64

// NewGroup allocates a group with a fresh ID and the given label counter
// value. Coordinates start empty; status starts pending.
func NewGroup(mode core.Mode, labelIndex int) *Group {
	id := uint64(time.Now().UnixMilli())
	for {
		prev := lastID.Load()
		if id <= prev {
			id = prev + 1
		}
		if lastID.CompareAndSwap(prev, id) {
			break
		}
	}
	return &Group{
		ID:         id,
		Mode:       mode,
		LabelIndex: labelIndex,
		Status:     core.GroupPending,
	}
}

// NextLetter returns the ordinal for the next segment letter and advances
// the per-group sequence.
func (g *Group) NextLetter() int {
	n := g.LettersIssued
	g.LettersIssued++
	return n
}

// AppendLetter records a freshly issued segment letter at the end (or
// front, when construction is reversed) of the segment order.
func (g *Group) AppendLetter(n int, front bool) {
	if front {
		g.SegmentLetters = append([]int{n}, g.SegmentLetters...)
		return
	}
	g.SegmentLetters = append(g.SegmentLetters, n)
}

// InsertLetterAt records an issued letter at segment index i.
func (g *Group) InsertLetterAt(i, n int) {
	if i < 0 || i > len(g.SegmentLetters) {
		return
	}
	g.SegmentLetters = append(g.SegmentLetters, 0)
	copy(g.SegmentLetters[i+1:], g.SegmentLetters[i:])
	g.SegmentLetters[i] = n
}

// RemoveLetterAt drops the letter of segment index i.
func (g *Group) RemoveLetterAt(i int) {
	if i < 0 || i >= len(g.SegmentLetters) {
		return
	}
	g.SegmentLetters = append(g.SegmentLetters[:i], g.SegmentLetters[i+1:]...)
}

// Append pushes a position, or unshifts it when construction is reversed.
func (g *Group) Append(p core.Position, reverse bool) {
	if reverse {
		g.Coordinates = append(core.Positions{p}, g.Coordinates...)
		return
	}
	g.Coordinates = append(g.Coordinates, p)
}

// InsertAt splices a position in at the given index.
func (g *Group) InsertAt(i int, p core.Position) {
	if i < 0 || i > len(g.Coordinates) {
		return
	}
	g.Coordinates = append(g.Coordinates, core.Position{})
	copy(g.Coordinates[i+1:], g.Coordinates[i:])
	g.Coordinates[i] = p
}

// RemoveAt deletes the position at the given index.
func (g *Group) RemoveAt(i int) {
	if i < 0 || i >= len(g.Coordinates) {
		return
	}
	g.Coordinates = append(g.Coordinates[:i], g.Coordinates[i+1:]...)
}

// IndexOf returns the index of the first position satisfying the equality
// predicate, or -1.
func (g *Group) IndexOf(p core.Position, equal func(a, b core.Position) bool) int {
	for i, c := range g.Coordinates {
		if equal(c, p) {
			return i
		}
	}
	return -1
}

// SegmentCount is the number of consecutive-pair segments.
func (g *Group) SegmentCount() int {
	if len(g.Coordinates) < 2 {
		return 0
	}
	return len(g.Coordinates) - 1
}

// Neighbours returns the chain-adjacent positions of the coordinate at
// index i: up to [prev, target, next] with missing ends filtered out.
// Adjacency is by index, never spatial.
func (g *Group) Neighbours(i int) core.Positions {
	if i < 0 || i >= len(g.Coordinates) {
		return nil
	}
	out := make(core.Positions, 0, 3)
	if i > 0 {
		out = append(out, g.Coordinates[i-1])
	}
	out = append(out, g.Coordinates[i])
	if i < len(g.Coordinates)-1 {
		out = append(out, g.Coordinates[i+1])
	}
	return out
}

// Clone returns a deep copy. Stores persist clones so nothing outside the
// engine aliases a live coordinate slice.
func (g *Group) Clone() *Group {
	if g == nil {
		return nil
	}
	out := *g
	out.Coordinates = g.Coordinates.Clone()
	out.Interpolated = g.Interpolated.Clone()
	if g.SegmentLetters != nil {
		out.SegmentLetters = make([]int, len(g.SegmentLetters))
		copy(out.SegmentLetters, g.SegmentLetters)
	}
	if g.Records.Distances != nil {
		out.Records.Distances = make([]float64, len(g.Records.Distances))
		copy(out.Records.Distances, g.Records.Distances)
	}
	return &out
}
