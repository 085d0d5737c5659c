package routing

import (
	"fmt"
	"sort"

	"github.com/ChicagoDave/roadworld/pkg/graph"
	"github.com/ChicagoDave/roadworld/pkg/validation"
)

// BuildConnectivity returns the directed successors of every live point.
// Two-way segments connect both ways; one-way segments only from A to B.
// Successor lists are sorted for deterministic output.
func BuildConnectivity(g *graph.Graph) map[graph.PointID][]graph.PointID {
	conn := make(map[graph.PointID]map[graph.PointID]bool)
	for _, id := range g.PointIDs() {
		conn[id] = make(map[graph.PointID]bool)
	}
	for _, e := range g.Edges() {
		conn[e.A][e.B] = true
		if !e.OneWay {
			conn[e.B][e.A] = true
		}
	}

	result := make(map[graph.PointID][]graph.PointID, len(conn))
	for id, next := range conn {
		ids := make([]graph.PointID, 0, len(next))
		for n := range next {
			ids = append(ids, n)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		result[id] = ids
	}
	return result
}

// Components groups live points into undirected connected components. Each
// component is sorted and components are ordered by their smallest ID.
func Components(g *graph.Graph) [][]graph.PointID {
	parent := make(map[graph.PointID]graph.PointID)
	var find func(graph.PointID) graph.PointID
	find = func(id graph.PointID) graph.PointID {
		if parent[id] != id {
			parent[id] = find(parent[id])
		}
		return parent[id]
	}

	ids := g.PointIDs()
	for _, id := range ids {
		parent[id] = id
	}
	for _, e := range g.Edges() {
		ra, rb := find(e.A), find(e.B)
		if ra != rb {
			parent[rb] = ra
		}
	}

	groups := make(map[graph.PointID][]graph.PointID)
	for _, id := range ids {
		root := find(id)
		groups[root] = append(groups[root], id)
	}
	out := make([][]graph.PointID, 0, len(groups))
	for _, members := range groups {
		sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
		out = append(out, members)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// ValidateConnectivity warns when the road network falls apart into
// several pieces, ignoring isolated points.
func ValidateConnectivity(g *graph.Graph) *validation.Report {
	report := validation.NewReport()

	networks := 0
	for _, c := range Components(g) {
		if len(c) > 1 {
			networks++
		}
	}
	if networks > 1 {
		report.AddWarning(validation.Result{
			Level:       validation.LevelGeometry,
			Message:     fmt.Sprintf("road network has %d disconnected parts", networks),
			Path:        "graph.segments",
			ActualValue: networks,
			Expected:    "1",
			Suggestions: []string{"join the parts with a segment so every road is reachable"},
		})
	}
	report.AddInfo(validation.Result{
		Level:   validation.LevelGeometry,
		Message: fmt.Sprintf("road network: %d connected parts", networks),
	})
	return report
}
