// Package routing finds drivable paths through the road graph, honoring
// one-way segments, and plans the route between the start and target
// markings.
package routing

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/ChicagoDave/roadworld/pkg/geo"
	"github.com/ChicagoDave/roadworld/pkg/graph"
	"github.com/ChicagoDave/roadworld/pkg/marking"
	"github.com/ChicagoDave/roadworld/pkg/validation"
)

// Route is a path through the road network.
type Route struct {
	Points []geo.Point `json:"points"`
	Length float64     `json:"length"`
}

// Virtual nodes for the snapped query endpoints. Graph IDs are never
// negative.
const (
	sourceNode graph.PointID = -1
	targetNode graph.PointID = -2
)

type arc struct {
	to   graph.PointID
	cost float64
}

// anchor is a query location projected onto its nearest segment.
type anchor struct {
	edge   graph.Edge
	point  geo.Point
	seg    geo.Segment
	offset float64
}

// ShortestPath returns the shortest drivable route from the road point
// nearest to from to the road point nearest to to. ok is false when the
// graph has no segments or the target cannot be reached.
func ShortestPath(g *graph.Graph, from, to geo.Point) (Route, bool) {
	src, ok := snap(g, from)
	if !ok {
		return Route{}, false
	}
	dst, ok := snap(g, to)
	if !ok {
		return Route{}, false
	}

	arcs := make(map[graph.PointID][]arc)
	pos := map[graph.PointID]geo.Point{sourceNode: src.point, targetNode: dst.point}
	for _, e := range g.Edges() {
		s, _ := g.Segment(e)
		pos[e.A], pos[e.B] = s.P1, s.P2
		arcs[e.A] = append(arcs[e.A], arc{e.B, s.Length()})
		if !e.OneWay {
			arcs[e.B] = append(arcs[e.B], arc{e.A, s.Length()})
		}
	}

	// Virtual arcs use point distances so a route within one segment
	// measures exactly what its endpoints span.
	arcs[sourceNode] = append(arcs[sourceNode], arc{src.edge.B, src.point.Distance(src.seg.P2)})
	if !src.edge.OneWay {
		arcs[sourceNode] = append(arcs[sourceNode], arc{src.edge.A, src.point.Distance(src.seg.P1)})
	}
	arcs[dst.edge.A] = append(arcs[dst.edge.A], arc{targetNode, dst.seg.P1.Distance(dst.point)})
	if !dst.edge.OneWay {
		arcs[dst.edge.B] = append(arcs[dst.edge.B], arc{targetNode, dst.seg.P2.Distance(dst.point)})
	}
	if src.edge == dst.edge && (dst.offset >= src.offset || !src.edge.OneWay) {
		arcs[sourceNode] = append(arcs[sourceNode], arc{targetNode, src.point.Distance(dst.point)})
	}

	dist, prev := dijkstra(arcs, sourceNode)
	length, reached := dist[targetNode]
	if !reached {
		return Route{}, false
	}

	var nodes []graph.PointID
	for n := targetNode; ; n = prev[n] {
		nodes = append(nodes, n)
		if n == sourceNode {
			break
		}
	}
	points := make([]geo.Point, 0, len(nodes))
	for i := len(nodes) - 1; i >= 0; i-- {
		p := pos[nodes[i]]
		if len(points) > 0 && points[len(points)-1].Equals(p) {
			continue
		}
		points = append(points, p)
	}
	return Route{Points: points, Length: length}, true
}

// PlanRoute routes from the first start marking to the first target
// marking.
func PlanRoute(g *graph.Graph, markings []marking.Marking) (Route, *validation.Report) {
	report := validation.NewReport()

	start, okStart := first(markings, marking.KindStart)
	target, okTarget := first(markings, marking.KindTarget)
	if !okStart || !okTarget {
		report.AddInfo(validation.Result{
			Level:   validation.LevelGeneration,
			Message: "no route planned: needs a start and a target marking",
		})
		return Route{}, report
	}

	route, ok := ShortestPath(g, start.Center, target.Center)
	if !ok {
		report.AddWarning(validation.Result{
			Level:        validation.LevelGeneration,
			Message:      "target is unreachable from start",
			Path:         "markings.target",
			ConflictWith: "markings.start",
			Suggestions:  []string{"check one-way segments and disconnected roads"},
		})
		return Route{}, report
	}
	report.AddInfo(validation.Result{
		Level:   validation.LevelGeneration,
		Message: fmt.Sprintf("route from start to target: %.1f units over %d points", route.Length, len(route.Points)),
	})
	return route, report
}

func first(markings []marking.Marking, kind marking.Kind) (marking.Marking, bool) {
	for _, m := range markings {
		if m.Kind == kind {
			return m, true
		}
	}
	return marking.Marking{}, false
}

// snap projects p onto the nearest graph segment, clamped to its ends.
func snap(g *graph.Graph, p geo.Point) (anchor, bool) {
	best := anchor{}
	bestDist := math.MaxFloat64
	found := false
	for _, e := range g.Edges() {
		s, ok := g.Segment(e)
		if !ok {
			continue
		}
		if d := s.DistanceToPoint(p); d < bestDist {
			t := math.Max(0, math.Min(1, s.ProjectPoint(p).Offset))
			best = anchor{edge: e, point: s.P1.Lerp(s.P2, t), seg: s, offset: t}
			bestDist = d
			found = true
		}
	}
	return best, found
}

func dijkstra(arcs map[graph.PointID][]arc, source graph.PointID) (map[graph.PointID]float64, map[graph.PointID]graph.PointID) {
	dist := map[graph.PointID]float64{source: 0}
	prev := make(map[graph.PointID]graph.PointID)
	done := make(map[graph.PointID]bool)

	pq := &queue{{node: source}}
	for pq.Len() > 0 {
		cur := heap.Pop(pq).(item)
		if done[cur.node] {
			continue
		}
		done[cur.node] = true
		for _, a := range arcs[cur.node] {
			nd := cur.dist + a.cost
			if d, seen := dist[a.to]; !seen || nd < d {
				dist[a.to] = nd
				prev[a.to] = cur.node
				heap.Push(pq, item{node: a.to, dist: nd})
			}
		}
	}
	return dist, prev
}

type item struct {
	node graph.PointID
	dist float64
}

type queue []item

func (q queue) Len() int           { return len(q) }
func (q queue) Less(i, j int) bool { return q[i].dist < q[j].dist }
func (q queue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *queue) Push(x any)        { *q = append(*q, x.(item)) }
func (q *queue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}
