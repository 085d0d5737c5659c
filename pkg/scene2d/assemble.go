package scene2d

import (
	"fmt"
	"time"

	"github.com/ChicagoDave/roadworld/pkg/geo"
	"github.com/ChicagoDave/roadworld/pkg/render"
	"github.com/ChicagoDave/roadworld/pkg/world"
)

// Assemble2D converts a generated world into a 2D scene. Light states are
// taken as they are; the frame counter is not advanced.
func Assemble2D(w *world.World) *Scene2D {
	return &Scene2D{
		Metadata:   assembleMetadata(w),
		Roads:      assembleRoads(w),
		Borders:    linesToCoords(w.RoadBorders),
		LaneGuides: linesToCoords(w.LaneGuides),
		Buildings:  assembleBuildings(w.Buildings),
		Trees:      assembleTrees(w.Trees),
		Markings:   assembleMarkings(w),
		Junctions:  assembleJunctions(w),
		Summary:    assembleSummary(w),
	}
}

func assembleMetadata(w *world.World) Metadata {
	b := render.Bounds(w)
	return Metadata{
		PointCount:    w.Graph.PointCount(),
		SegmentCount:  w.Graph.SegmentCount(),
		Intersections: len(w.Graph.Intersections()),
		Frame:         w.FrameCount(),
		GraphHash:     fmt.Sprintf("%016x", w.Graph.Hash()),
		Bounds:        [2][2]float64{pointToCoords(b.Min), pointToCoords(b.Max)},
		Params:        w.Params,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
	}
}

// assembleRoads pairs graph segments with their envelopes. Envelopes are
// generated in graph segment order, so indices line up until the graph is
// edited without regenerating.
func assembleRoads(w *world.World) []Road2D {
	segments := w.Graph.Segments()
	result := make([]Road2D, 0, len(segments))
	for i, s := range segments {
		r := Road2D{
			Start:  pointToCoords(s.P1),
			End:    pointToCoords(s.P2),
			OneWay: s.OneWay,
		}
		if i < len(w.Envelopes) && w.Envelopes[i].Skeleton.Equals(s) {
			r.Surface = polygonToCoords(w.Envelopes[i].Poly)
		}
		result = append(result, r)
	}
	return result
}

func assembleBuildings(buildings []world.Building) []Building2D {
	result := make([]Building2D, 0, len(buildings))
	for _, b := range buildings {
		result = append(result, Building2D{
			Footprint: polygonToCoords(b.Base),
			Height:    b.Height,
			Area:      b.Base.Area(),
		})
	}
	return result
}

func assembleTrees(trees []world.Tree) []Tree2D {
	result := make([]Tree2D, 0, len(trees))
	for _, t := range trees {
		result = append(result, Tree2D{Position: pointToCoords(t.Center), Size: t.Size})
	}
	return result
}

func assembleMarkings(w *world.World) []Marking2D {
	result := make([]Marking2D, 0, len(w.Markings))
	for _, m := range w.Markings {
		m2 := Marking2D{
			Type:      string(m.Kind),
			Center:    pointToCoords(m.Center),
			Direction: pointToCoords(m.Direction),
			Width:     m.Width,
			Height:    m.Height,
			Polygon:   polygonToCoords(m.Poly),
		}
		if m.IsTrafficControl() {
			m2.State = string(m.State)
		}
		result = append(result, m2)
	}
	return result
}

func assembleJunctions(w *world.World) []Junction2D {
	centers := w.ControlCenters()
	result := make([]Junction2D, 0, len(centers))
	for _, c := range centers {
		result = append(result, Junction2D{
			Position: pointToCoords(c.Point),
			Lights:   len(c.Lights),
			Cycle:    c.Ticks,
		})
	}
	return result
}

func assembleSummary(w *world.World) Summary {
	bs := Summary{
		TotalBuildings: len(w.Buildings),
		TotalTrees:     len(w.Trees),
		RoadArea:       w.RoadArea(),
	}
	for _, b := range w.Buildings {
		bs.TotalArea += b.Base.Area()
	}
	return bs
}

func pointToCoords(p geo.Point) [2]float64 {
	return [2]float64{p.X, p.Y}
}

// polygonToCoords converts a geo.Polygon to a [][2]float64 coordinate list.
func polygonToCoords(p geo.Polygon) [][2]float64 {
	coords := make([][2]float64, len(p.Points))
	for i, v := range p.Points {
		coords[i] = pointToCoords(v)
	}
	return coords
}

func linesToCoords(segments []geo.Segment) []Line2D {
	result := make([]Line2D, len(segments))
	for i, s := range segments {
		result[i] = Line2D{Start: pointToCoords(s.P1), End: pointToCoords(s.P2)}
	}
	return result
}
