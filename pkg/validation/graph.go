package validation

import (
	"fmt"

	"github.com/ChicagoDave/roadworld/pkg/graph"
)

// ValidateGraph performs Level 2 (geometry) validation on a road graph.
// It checks that every segment resolves to two distinct live points and
// reports isolated points.
func ValidateGraph(g *graph.Graph) *Report {
	r := NewReport()

	if g == nil {
		r.AddError(Result{
			Level:   LevelGeometry,
			Message: "graph is nil",
		})
		return r
	}

	for i, e := range g.Edges() {
		path := fmt.Sprintf("graph.segments[%d]", i)
		p1, ok1 := g.Point(e.A)
		p2, ok2 := g.Point(e.B)
		if !ok1 || !ok2 {
			r.AddError(Result{
				Level:       LevelGeometry,
				Message:     fmt.Sprintf("segment %d references a missing point", i),
				Path:        path,
				ActualValue: fmt.Sprintf("%d-%d", e.A, e.B),
				Expected:    "live point IDs",
			})
			continue
		}
		if p1.Equals(p2) {
			r.AddError(Result{
				Level:    LevelGeometry,
				Message:  fmt.Sprintf("segment %d has zero length", i),
				Path:     path,
				Expected: "distinct endpoints",
			})
		}
	}

	for _, id := range g.PointIDs() {
		if g.Degree(id) == 0 {
			p, _ := g.Point(id)
			r.AddWarning(Result{
				Level:       LevelGeometry,
				Message:     fmt.Sprintf("point %d is not connected to any segment", id),
				Path:        fmt.Sprintf("graph.points[%d]", id),
				ActualValue: fmt.Sprintf("(%v, %v)", p.X, p.Y),
			})
		}
	}

	r.AddInfo(Result{
		Level: LevelGeometry,
		Message: fmt.Sprintf("graph has %d points, %d segments, %d intersections",
			g.PointCount(), g.SegmentCount(), len(g.Intersections())),
	})
	return r
}
