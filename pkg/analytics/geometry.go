package analytics

import (
	"github.com/ChicagoDave/roadworld/pkg/geo"
	"github.com/ChicagoDave/roadworld/pkg/world"
)

func totalLength(segments []geo.Segment) float64 {
	total := 0.0
	for _, s := range segments {
		total += s.Length()
	}
	return total
}

// resolveLandUse measures areas inside the world's footprint bounds. Road
// area counts overlapping envelopes once; the overlap is reported
// separately.
func resolveLandUse(w *world.World) LandUse {
	lu := LandUse{
		Buildings: len(w.Buildings),
		Trees:     len(w.Trees),
	}

	var pts []geo.Point
	sumEnvelopes := 0.0
	for _, e := range w.Envelopes {
		pts = append(pts, e.Poly.Points...)
		sumEnvelopes += e.Poly.Area()
	}
	for _, b := range w.Buildings {
		pts = append(pts, b.Base.Points...)
		area := b.Base.Area()
		lu.BuiltArea += area
		lu.BuiltVolume += area * b.Height
	}
	if len(pts) == 0 {
		return lu
	}

	bounds := geo.BoundsOf(pts)
	lu.SiteArea = bounds.Width() * bounds.Height()
	lu.RoadArea = w.RoadArea()
	lu.RoadOverlapArea = max(0, sumEnvelopes-lu.RoadArea)
	if lu.SiteArea > 0 {
		lu.BuildingCoverage = lu.BuiltArea / lu.SiteArea
		lu.RoadCoverage = lu.RoadArea / lu.SiteArea
	}
	return lu
}
