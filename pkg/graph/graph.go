// Package graph holds the road skeleton: a set of unique points and the
// segments joining them. Points live in an arena addressed by stable IDs so a
// drag edit through MovePoint is seen by every segment that uses the point.
package graph

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"

	"github.com/ChicagoDave/roadworld/pkg/geo"
)

// PointID is a stable handle into the point arena. IDs of removed points are
// never reused.
type PointID int

// Edge is a graph segment stored by endpoint IDs.
type Edge struct {
	A      PointID `json:"a"`
	B      PointID `json:"b"`
	OneWay bool    `json:"oneWay,omitempty"`
}

// Equals reports whether both edges join the same two points, in either order.
func (e Edge) Equals(o Edge) bool {
	return (e.A == o.A && e.B == o.B) || (e.A == o.B && e.B == o.A)
}

// Includes reports whether id is one of the edge's endpoints.
func (e Edge) Includes(id PointID) bool {
	return e.A == id || e.B == id
}

type slot struct {
	p    geo.Point
	live bool
}

// Graph is not safe for concurrent use; callers serialize edits and generation.
type Graph struct {
	slots []slot
	edges []Edge
	index map[geo.Point]PointID
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{index: make(map[geo.Point]PointID)}
}

// AddPoint appends p without a duplicate check. Non-finite coordinates are a
// caller bug and panic with a *geo.PreconditionError.
func (g *Graph) AddPoint(p geo.Point) PointID {
	if !p.IsFinite() {
		panic(&geo.PreconditionError{
			Op:     "graph.AddPoint",
			Reason: fmt.Sprintf("point is not finite: (%v, %v)", p.X, p.Y),
		})
	}
	id := PointID(len(g.slots))
	g.slots = append(g.slots, slot{p: p, live: true})
	if _, ok := g.index[p]; !ok {
		g.index[p] = id
	}
	return id
}

// TryAddPoint adds p unless a point with the same coordinates exists or p is
// not finite. The returned ID is the existing point's when ok is false and a
// duplicate was found.
func (g *Graph) TryAddPoint(p geo.Point) (PointID, bool) {
	if !p.IsFinite() {
		return -1, false
	}
	if id, ok := g.index[p]; ok {
		return id, false
	}
	return g.AddPoint(p), true
}

// Point returns the coordinates of a live point.
func (g *Graph) Point(id PointID) (geo.Point, bool) {
	if !g.live(id) {
		return geo.Point{}, false
	}
	return g.slots[id].p, true
}

// Lookup finds the live point at p.
func (g *Graph) Lookup(p geo.Point) (PointID, bool) {
	id, ok := g.index[p]
	return id, ok
}

func (g *Graph) live(id PointID) bool {
	return id >= 0 && int(id) < len(g.slots) && g.slots[id].live
}

// RemovePoint removes the point and every segment incident to it.
func (g *Graph) RemovePoint(id PointID) bool {
	if !g.live(id) {
		return false
	}
	kept := g.edges[:0]
	for _, e := range g.edges {
		if !e.Includes(id) {
			kept = append(kept, e)
		}
	}
	g.edges = kept

	p := g.slots[id].p
	g.slots[id] = slot{}
	g.unindex(id, p)
	return true
}

// MovePoint changes the coordinates of a live point in place. All segments
// that reference it follow. Moving onto another point's coordinates or to a
// non-finite position is refused.
func (g *Graph) MovePoint(id PointID, p geo.Point) bool {
	if !g.live(id) || !p.IsFinite() {
		return false
	}
	if other, ok := g.index[p]; ok && other != id {
		return false
	}
	old := g.slots[id].p
	g.slots[id].p = p
	g.unindex(id, old)
	g.index[p] = id
	return true
}

// unindex drops id from the coordinate index, handing the slot to another
// live point at the same coordinates if AddPoint created one.
func (g *Graph) unindex(id PointID, p geo.Point) {
	if g.index[p] != id {
		return
	}
	delete(g.index, p)
	for i, s := range g.slots {
		if s.live && s.p == p && PointID(i) != id {
			g.index[p] = PointID(i)
			return
		}
	}
}

// AddSegment appends e without validation.
func (g *Graph) AddSegment(e Edge) {
	g.edges = append(g.edges, e)
}

// TryAddSegment adds e unless it is a duplicate in either order, a
// self-loop, zero-length, or references a missing point.
func (g *Graph) TryAddSegment(e Edge) bool {
	if e.A == e.B || !g.live(e.A) || !g.live(e.B) {
		return false
	}
	if g.slots[e.A].p.Equals(g.slots[e.B].p) {
		return false
	}
	if g.ContainsSegment(e) {
		return false
	}
	g.AddSegment(e)
	return true
}

// RemoveSegment removes the first segment equal to e in either order.
func (g *Graph) RemoveSegment(e Edge) bool {
	for i, o := range g.edges {
		if o.Equals(e) {
			g.edges = append(g.edges[:i], g.edges[i+1:]...)
			return true
		}
	}
	return false
}

// ContainsPoint reports whether a live point has p's coordinates.
func (g *Graph) ContainsPoint(p geo.Point) bool {
	_, ok := g.index[p]
	return ok
}

// ContainsSegment reports whether a segment equal to e exists.
func (g *Graph) ContainsSegment(e Edge) bool {
	for _, o := range g.edges {
		if o.Equals(e) {
			return true
		}
	}
	return false
}

// SegmentsWithPoint returns the segments incident to id.
func (g *Graph) SegmentsWithPoint(id PointID) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Includes(id) {
			out = append(out, e)
		}
	}
	return out
}

// Degree returns the number of segments incident to id.
func (g *Graph) Degree(id PointID) int {
	n := 0
	for _, e := range g.edges {
		if e.Includes(id) {
			n++
		}
	}
	return n
}

// Intersections returns the points joined by more than two segments.
func (g *Graph) Intersections() []PointID {
	degree := make(map[PointID]int)
	for _, e := range g.edges {
		degree[e.A]++
		degree[e.B]++
	}
	var out []PointID
	for _, id := range g.PointIDs() {
		if degree[id] > 2 {
			out = append(out, id)
		}
	}
	return out
}

// PointIDs returns the live point IDs in insertion order.
func (g *Graph) PointIDs() []PointID {
	out := make([]PointID, 0, len(g.slots))
	for i, s := range g.slots {
		if s.live {
			out = append(out, PointID(i))
		}
	}
	return out
}

// Points returns the coordinates of the live points in insertion order.
func (g *Graph) Points() []geo.Point {
	out := make([]geo.Point, 0, len(g.slots))
	for _, s := range g.slots {
		if s.live {
			out = append(out, s.p)
		}
	}
	return out
}

// Edges returns a copy of the segment list.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Segment resolves e to current coordinates.
func (g *Graph) Segment(e Edge) (geo.Segment, bool) {
	if !g.live(e.A) || !g.live(e.B) {
		return geo.Segment{}, false
	}
	return geo.Segment{P1: g.slots[e.A].p, P2: g.slots[e.B].p, OneWay: e.OneWay}, true
}

// Segments resolves every edge to current coordinates. Edges with a missing
// endpoint are skipped.
func (g *Graph) Segments() []geo.Segment {
	out := make([]geo.Segment, 0, len(g.edges))
	for _, e := range g.edges {
		if s, ok := g.Segment(e); ok {
			out = append(out, s)
		}
	}
	return out
}

// PointCount returns the number of live points.
func (g *Graph) PointCount() int {
	n := 0
	for _, s := range g.slots {
		if s.live {
			n++
		}
	}
	return n
}

// SegmentCount returns the number of segments.
func (g *Graph) SegmentCount() int { return len(g.edges) }

// Dispose removes every point and segment.
func (g *Graph) Dispose() {
	g.slots = nil
	g.edges = nil
	g.index = make(map[geo.Point]PointID)
}

// Hash fingerprints live coordinates and connectivity. Two graphs with the
// same points and segments in the same order hash equal.
func (g *Graph) Hash() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	put := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		h.Write(buf[:])
	}
	for _, s := range g.slots {
		if s.live {
			put(s.p.X)
			put(s.p.Y)
		}
	}
	h.Write([]byte{0xff})
	for _, e := range g.edges {
		s, ok := g.Segment(e)
		if !ok {
			continue
		}
		put(s.P1.X)
		put(s.P1.Y)
		put(s.P2.X)
		put(s.P2.Y)
		if s.OneWay {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
	}
	return h.Sum64()
}
