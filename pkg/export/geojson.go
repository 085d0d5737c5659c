// Package export converts a generated world to GeoJSON. World units are
// written as planar coordinates; no projection is applied.
package export

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/ChicagoDave/roadworld/pkg/geo"
	"github.com/ChicagoDave/roadworld/pkg/world"
)

// chainTolerance joins border pieces whose endpoints were computed separately.
const chainTolerance = 1e-6

// Layer names written to the "layer" property.
const (
	LayerGraph     = "graph"
	LayerBorder    = "road_border"
	LayerLaneGuide = "lane_guide"
	LayerBuilding  = "building"
	LayerTree      = "tree"
	LayerMarking   = "marking"
)

// FeatureCollection builds one feature per graph segment, chained road
// border and lane guide, building, tree and marking.
func FeatureCollection(w *world.World) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, s := range w.Graph.Segments() {
		f := geojson.NewFeature(orb.LineString{toOrb(s.P1), toOrb(s.P2)})
		f.Properties["layer"] = LayerGraph
		f.Properties["one_way"] = s.OneWay
		fc.Append(f)
	}

	appendChains(fc, w.RoadBorders, LayerBorder)
	appendChains(fc, w.LaneGuides, LayerLaneGuide)

	for _, b := range w.Buildings {
		f := geojson.NewFeature(orb.Polygon{ring(b.Base.Points)})
		f.Properties["layer"] = LayerBuilding
		f.Properties["height"] = b.Height
		fc.Append(f)
	}

	for _, t := range w.Trees {
		f := geojson.NewFeature(toOrb(t.Center))
		f.Properties["layer"] = LayerTree
		f.Properties["size"] = t.Size
		fc.Append(f)
	}

	for _, m := range w.Markings {
		f := geojson.NewFeature(toOrb(m.Center))
		f.Properties["layer"] = LayerMarking
		f.Properties["kind"] = string(m.Kind)
		f.Properties["direction"] = []float64{m.Direction.X, m.Direction.Y}
		if m.IsTrafficControl() {
			f.Properties["state"] = string(m.State)
		}
		fc.Append(f)
	}
	return fc
}

// Marshal encodes the world as a GeoJSON document.
func Marshal(w *world.World) ([]byte, error) {
	return FeatureCollection(w).MarshalJSON()
}

func appendChains(fc *geojson.FeatureCollection, segments []geo.Segment, layer string) {
	for _, pl := range geo.Chain(segments, chainTolerance) {
		ls := make(orb.LineString, len(pl.Points))
		for i, p := range pl.Points {
			ls[i] = toOrb(p)
		}
		f := geojson.NewFeature(ls)
		f.Properties["layer"] = layer
		f.Properties["closed"] = pl.Closed(chainTolerance)
		f.Properties["length"] = planar.Length(ls)
		fc.Append(f)
	}
}

func toOrb(p geo.Point) orb.Point {
	return orb.Point{p.X, p.Y}
}

// ring closes a point loop as GeoJSON requires.
func ring(points []geo.Point) orb.Ring {
	r := make(orb.Ring, 0, len(points)+1)
	for _, p := range points {
		r = append(r, toOrb(p))
	}
	if len(points) > 0 {
		r = append(r, toOrb(points[0]))
	}
	return r
}
