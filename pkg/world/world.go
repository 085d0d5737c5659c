// Package world derives the drivable environment from a road graph: road
// surfaces and borders, building footprints, trees and lane guides. It also
// owns the frame counter that drives traffic-light phases.
package world

import (
	"fmt"
	"math/rand"

	"github.com/dhconnelly/rtreego"

	"github.com/ChicagoDave/roadworld/pkg/geo"
	"github.com/ChicagoDave/roadworld/pkg/graph"
	"github.com/ChicagoDave/roadworld/pkg/marking"
	"github.com/ChicagoDave/roadworld/pkg/project"
	"github.com/ChicagoDave/roadworld/pkg/validation"
)

const (
	// maxTreeTries is the number of consecutive rejected samples after which
	// tree placement stops.
	maxTreeTries = 100
	// buildingEps loosens the spacing check between building footprints.
	buildingEps = 0.001
	// buildingRoundness keeps building footprints rectangular.
	buildingRoundness = 1
)

// World is the generated environment around a road graph. Derived fields are
// rebuilt wholesale by Generate. A World is not safe for concurrent use.
type World struct {
	Graph    *graph.Graph
	Params   project.Params
	Markings []marking.Marking

	Envelopes   []geo.Envelope
	RoadBorders []geo.Segment
	Buildings   []Building
	Trees       []Tree
	LaneGuides  []geo.Segment

	Zoom   float64
	Offset geo.Point

	frameCount int
	index      *rtreego.Rtree
	lastHash   uint64
	generated  bool
}

// New returns a world over g. Nothing is generated until Generate is called.
func New(g *graph.Graph, params project.Params) *World {
	if g == nil {
		g = graph.New()
	}
	return &World{
		Graph:  g,
		Params: params.WithDefaults(),
		Zoom:   1,
	}
}

// FrameCount returns the number of light updates so far.
func (w *World) FrameCount() int { return w.frameCount }

// Generate recomputes all derived geometry from the current graph. Tree
// placement is seeded from Params.Seed, so equal graphs give equal worlds.
//
// Invalid parameters (non-finite or non-positive sizes) generate nothing:
// derived geometry is cleared and the parameter errors are returned.
func (w *World) Generate() *validation.Report {
	if pr := validation.ValidateParams(w.Params); !pr.Valid {
		w.clearDerived()
		return pr
	}

	report := validation.NewReport()
	segments := w.Graph.Segments()

	w.Envelopes = geo.Envelopes(segments, w.Params.RoadWidth, w.Params.RoadRoundness)
	w.RoadBorders = geo.Union(geo.Polys(w.Envelopes))

	var bReport *validation.Report
	w.Buildings, bReport = w.generateBuildings(segments)
	report.Merge(bReport)

	rng := rand.New(rand.NewSource(w.Params.Seed))
	var tReport *validation.Report
	w.Trees, tReport = w.generateTrees(rng)
	report.Merge(tReport)

	w.LaneGuides = w.generateLaneGuides(segments)

	w.rebuildIndex()
	w.lastHash = w.Graph.Hash()
	w.generated = true

	report.AddInfo(validation.Result{
		Level: validation.LevelGeneration,
		Message: fmt.Sprintf("generated %d envelopes, %d road border segments, %d lane guides",
			len(w.Envelopes), len(w.RoadBorders), len(w.LaneGuides)),
	})
	return report
}

func (w *World) clearDerived() {
	w.Envelopes = nil
	w.RoadBorders = nil
	w.Buildings = nil
	w.Trees = nil
	w.LaneGuides = nil
	w.rebuildIndex()
	w.lastHash = w.Graph.Hash()
	w.generated = true
}

// RegenerateIfChanged runs Generate when the graph hash differs from the one
// seen at the last generation. It reports whether generation ran.
func (w *World) RegenerateIfChanged() (bool, *validation.Report) {
	if w.generated && w.Graph.Hash() == w.lastHash {
		return false, nil
	}
	return true, w.Generate()
}

// RoadArea returns the road surface area, counting overlaps once.
func (w *World) RoadArea() float64 {
	return geo.CoverageArea(geo.Polys(w.Envelopes))
}

func (w *World) generateLaneGuides(segments []geo.Segment) []geo.Segment {
	envs := geo.Envelopes(segments, w.Params.RoadWidth/2, w.Params.RoadRoundness)
	return geo.Union(geo.Polys(envs))
}

func (w *World) generateBuildings(segments []geo.Segment) ([]Building, *validation.Report) {
	report := validation.NewReport()
	p := w.Params

	guideWidth := p.RoadWidth + p.BuildingWidth + p.Spacing*2
	guides := geo.Union(geo.Polys(geo.Envelopes(segments, guideWidth, p.RoadRoundness)))

	var supports []geo.Segment
	for _, g := range guides {
		if g.Length() < p.BuildingMinLength {
			continue
		}
		supports = append(supports, layoutSupports(g, p.BuildingMinLength, p.Spacing)...)
	}

	bases := make([]geo.Polygon, 0, len(supports))
	for _, s := range supports {
		bases = append(bases, geo.NewEnvelope(s, p.BuildingWidth, buildingRoundness).Poly)
	}

	removed := 0
	for i := 0; i < len(bases)-1; i++ {
		for j := i + 1; j < len(bases); j++ {
			if bases[i].IntersectsPoly(bases[j]) ||
				bases[i].DistanceToPoly(bases[j]) < p.Spacing-buildingEps {
				bases = append(bases[:j], bases[j+1:]...)
				j--
				removed++
			}
		}
	}

	buildings := make([]Building, len(bases))
	for i, b := range bases {
		buildings[i] = Building{Base: b, Height: p.BuildingHeight}
	}

	report.AddInfo(validation.Result{
		Level: validation.LevelGeneration,
		Message: fmt.Sprintf("placed %d buildings along %d guide segments (%d dropped for overlap)",
			len(buildings), len(guides), removed),
	})
	return buildings, report
}

// layoutSupports divides a guide segment into as many building supports of
// at least minLength as fit with spacing gaps, sharing the slack evenly.
func layoutSupports(guide geo.Segment, minLength, spacing float64) []geo.Segment {
	length := guide.Length() + spacing
	count := int(length / (minLength + spacing))
	if count < 1 {
		return nil
	}
	buildingLength := length/float64(count) - spacing
	dir := guide.DirectionVector()

	out := make([]geo.Segment, 0, count)
	q1 := guide.P1
	q2 := q1.Add(dir.Scale(buildingLength))
	out = append(out, geo.Seg(q1, q2))
	for i := 2; i <= count; i++ {
		q1 = q2.Add(dir.Scale(spacing))
		q2 = q1.Add(dir.Scale(buildingLength))
		out = append(out, geo.Seg(q1, q2))
	}
	return out
}

func (w *World) generateTrees(rng *rand.Rand) ([]Tree, *validation.Report) {
	report := validation.NewReport()

	var points []geo.Point
	for _, s := range w.RoadBorders {
		points = append(points, s.P1, s.P2)
	}
	for _, b := range w.Buildings {
		points = append(points, b.Base.Points...)
	}
	if len(points) == 0 {
		report.AddInfo(validation.Result{
			Level:   validation.LevelGeneration,
			Message: "no trees placed: empty scene",
		})
		return nil, report
	}
	bounds := geo.BoundsOf(points)

	illegal := make([]geo.Polygon, 0, len(w.Buildings)+len(w.Envelopes))
	for _, b := range w.Buildings {
		illegal = append(illegal, b.Base)
	}
	illegal = append(illegal, geo.Polys(w.Envelopes)...)

	size := w.Params.TreeSize
	draw := func() geo.Point {
		return geo.Pt(
			lerp(bounds.Min.X, bounds.Max.X, rng.Float64()),
			lerp(bounds.Max.Y, bounds.Min.Y, rng.Float64()),
		)
	}
	fits := func(p geo.Point, placed []Tree) bool {
		return treeFits(p, size, illegal, placed)
	}
	trees, samples := sampleTrees(draw, fits, size)

	report.AddInfo(validation.Result{
		Level:   validation.LevelGeneration,
		Message: fmt.Sprintf("placed %d trees from %d samples", len(trees), samples),
	})
	return trees, report
}

// sampleTrees draws candidates until maxTreeTries of them in a row are
// rejected. Every accepted tree resets the streak. It returns the placed
// trees and the number of candidates drawn.
func sampleTrees(draw func() geo.Point, fits func(geo.Point, []Tree) bool, size float64) ([]Tree, int) {
	var trees []Tree
	samples := 0
	for streak := 0; streak < maxTreeTries; {
		samples++
		p := draw()
		if fits(p, trees) {
			trees = append(trees, NewTree(p, size))
			streak = 0
			continue
		}
		streak++
	}
	return trees, samples
}

// treeFits accepts p when it keeps clear of every footprint and tree but
// still lies near some footprint.
func treeFits(p geo.Point, size float64, illegal []geo.Polygon, trees []Tree) bool {
	for _, poly := range illegal {
		if poly.ContainsPoint(p) || poly.DistanceToPoint(p) < size/2 {
			return false
		}
	}
	for _, t := range trees {
		if t.Center.Distance(p) < size {
			return false
		}
	}
	for _, poly := range illegal {
		if poly.DistanceToPoint(p) < size*2 {
			return true
		}
	}
	return false
}

// AddMarking appends a marking.
func (w *World) AddMarking(m marking.Marking) {
	w.Markings = append(w.Markings, m)
}

// RemoveMarkingAt deletes the first marking containing p.
func (w *World) RemoveMarkingAt(p geo.Point) bool {
	var ok bool
	w.Markings, ok = marking.RemoveAt(w.Markings, p)
	return ok
}

// MarkingTargets returns the segments a marking of kind snaps to.
func (w *World) MarkingTargets(kind marking.Kind) []geo.Segment {
	if kind.LaneConstrained() {
		return w.LaneGuides
	}
	return w.Graph.Segments()
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
