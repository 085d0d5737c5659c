// Package analytics measures a generated world: network size, land use and
// traffic-light grouping.
package analytics

import (
	"github.com/ChicagoDave/roadworld/pkg/validation"
	"github.com/ChicagoDave/roadworld/pkg/world"
)

// Resolve measures the world as generated. It does not regenerate or
// advance the lights. Returns the metrics and a validation report.
func Resolve(w *world.World) (*Metrics, *validation.Report) {
	report := validation.NewReport()

	// 1. Network
	network := resolveNetwork(w)

	// 2. Land use
	land := resolveLandUse(w)

	// 3. Junctions
	junctions := resolveJunctions(w)

	// 4. Markings by kind
	markings := make(map[string]int)
	for _, m := range w.Markings {
		markings[string(m.Kind)]++
	}

	metrics := &Metrics{
		Network:   network,
		Land:      land,
		Junctions: junctions,
		Markings:  markings,
	}

	// 5. Analytical validation
	validateAnalytical(w, metrics, report)

	return metrics, report
}

func resolveNetwork(w *world.World) NetworkMetrics {
	g := w.Graph
	nm := NetworkMetrics{
		Points:          g.PointCount(),
		Segments:        g.SegmentCount(),
		Intersections:   len(g.Intersections()),
		BorderLength:    totalLength(w.RoadBorders),
		LaneGuideLength: totalLength(w.LaneGuides),
	}
	for _, e := range g.Edges() {
		if e.OneWay {
			nm.OneWaySegments++
		}
	}
	for _, id := range g.PointIDs() {
		if g.Degree(id) == 1 {
			nm.DeadEnds++
		}
	}
	nm.RoadLength = totalLength(g.Segments())
	return nm
}

func resolveJunctions(w *world.World) []JunctionData {
	degree := make(map[[2]float64]int)
	for _, id := range w.Graph.Intersections() {
		p, _ := w.Graph.Point(id)
		degree[[2]float64{p.X, p.Y}] = w.Graph.Degree(id)
	}

	centers := w.ControlCenters()
	out := make([]JunctionData, 0, len(centers))
	for _, c := range centers {
		pos := [2]float64{c.Point.X, c.Point.Y}
		out = append(out, JunctionData{
			Position:   pos,
			Degree:     degree[pos],
			Lights:     len(c.Lights),
			CycleTicks: c.Ticks,
		})
	}
	return out
}
