package graph

import (
	"fmt"

	"github.com/ChicagoDave/roadworld/pkg/geo"
)

// Record is the coordinate-based form of a graph used for persistence.
// Segments name their endpoints by value, not by ID.
type Record struct {
	Points   []geo.Point   `json:"points" yaml:"points"`
	Segments []geo.Segment `json:"segments" yaml:"segments"`
}

// Record exports the live points and resolved segments.
func (g *Graph) Record() Record {
	return Record{Points: g.Points(), Segments: g.Segments()}
}

// Load builds a graph from a record. Segment endpoints are matched to points
// by coordinate so that segments sharing an endpoint share one PointID.
// Endpoints missing from the point list are added. Duplicate points and
// duplicate or degenerate segments are dropped.
func Load(rec Record) (*Graph, error) {
	g := New()
	for i, p := range rec.Points {
		if !p.IsFinite() {
			return nil, &geo.PreconditionError{Op: "graph.Load", Reason: fmt.Sprintf("non-finite point at index %d", i)}
		}
		g.TryAddPoint(p)
	}
	for i, s := range rec.Segments {
		if !s.P1.IsFinite() || !s.P2.IsFinite() {
			return nil, &geo.PreconditionError{Op: "graph.Load", Reason: fmt.Sprintf("non-finite segment at index %d", i)}
		}
		a, _ := g.TryAddPoint(s.P1)
		b, _ := g.TryAddPoint(s.P2)
		g.TryAddSegment(Edge{A: a, B: b, OneWay: s.OneWay})
	}
	return g, nil
}
