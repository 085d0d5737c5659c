package world

import (
	"fmt"
	"math"
	"sort"

	"github.com/ChicagoDave/roadworld/pkg/geo"
)

const (
	// ceilingRatio is how high the flat top of a wall sits relative to the
	// full building height; the roof ridge reaches the full height.
	ceilingRatio = 0.6
	// defaultTreeHeight is the fake-3D height of a tree crown.
	defaultTreeHeight = 200
	treeLevels        = 7
	treeTopSize       = 40
	// treeStep is the angular resolution of a tree outline.
	treeStep = math.Pi / 16
)

// Item is anything drawn with fake 3D after the flat layers.
type Item interface {
	Footprint() geo.Polygon
}

// Building is an extruded rectangular footprint.
type Building struct {
	Base   geo.Polygon `json:"base"`
	Height float64     `json:"height"`
}

// Footprint returns the ground polygon.
func (b Building) Footprint() geo.Polygon { return b.Base }

// Faces are the polygons of a building as seen from a view point, each list
// ordered far to near.
type Faces struct {
	Base    geo.Polygon
	Sides   []geo.Polygon
	Ceiling geo.Polygon
	Roof    []geo.Polygon
}

// Faces projects the building toward viewPoint. Roof planes are only built
// for four-cornered footprints.
func (b Building) Faces(viewPoint geo.Point) Faces {
	pts := b.Base.Points
	n := len(pts)
	top := make([]geo.Point, n)
	for i, p := range pts {
		top[i] = geo.Fake3D(p, viewPoint, b.Height*ceilingRatio)
	}

	f := Faces{Base: b.Base, Ceiling: geo.MustPolygon(top...)}
	for i := 0; i < n; i++ {
		next := (i + 1) % n
		f.Sides = append(f.Sides, geo.MustPolygon(pts[i], pts[next], top[next], top[i]))
	}
	sortFarToNear(f.Sides, viewPoint)

	if n == 4 {
		baseMid := []geo.Point{geo.Average(pts[0], pts[1]), geo.Average(pts[2], pts[3])}
		topMid := []geo.Point{
			geo.Fake3D(baseMid[0], viewPoint, b.Height),
			geo.Fake3D(baseMid[1], viewPoint, b.Height),
		}
		f.Roof = []geo.Polygon{
			geo.MustPolygon(top[0], top[3], topMid[1], topMid[0]),
			geo.MustPolygon(top[2], top[1], topMid[0], topMid[1]),
		}
		sortFarToNear(f.Roof, viewPoint)
	}
	return f
}

func sortFarToNear(polys []geo.Polygon, viewPoint geo.Point) {
	sort.SliceStable(polys, func(i, j int) bool {
		return polys[i].DistanceToPoint(viewPoint) > polys[j].DistanceToPoint(viewPoint)
	})
}

// Tree is a round crown centered on Center.
type Tree struct {
	Center geo.Point `json:"center"`
	Size   float64   `json:"size"`
	Height float64   `json:"height"`
}

// NewTree returns a tree with the default crown height.
func NewTree(center geo.Point, size float64) Tree {
	return Tree{Center: center, Size: size, Height: defaultTreeHeight}
}

// Footprint returns the ground outline of the crown.
func (t Tree) Footprint() geo.Polygon {
	return t.outline(t.Center, t.Size)
}

// TreeLevel is one horizontal slice of a tree crown.
type TreeLevel struct {
	Poly  geo.Polygon
	Color string
}

// Levels returns the crown slices from ground to top, shrinking and
// lightening as they rise toward the fake-3D top.
func (t Tree) Levels(viewPoint geo.Point) []TreeLevel {
	top := geo.Fake3D(t.Center, viewPoint, t.Height)
	out := make([]TreeLevel, 0, treeLevels)
	for level := 0; level < treeLevels; level++ {
		f := float64(level) / (treeLevels - 1)
		out = append(out, TreeLevel{
			Poly:  t.outline(t.Center.Lerp(top, f), lerp(t.Size, treeTopSize, f)),
			Color: fmt.Sprintf("rgb(30,%d,70)", int(lerp(50, 200, f))),
		})
	}
	return out
}

// outline is a circle of diameter size around p whose radius wobbles by a
// deterministic function of the angle and the tree's own x coordinate, so a
// tree keeps its shape across frames.
func (t Tree) outline(p geo.Point, size float64) geo.Polygon {
	radius := size / 2
	points := make([]geo.Point, 0, 32)
	for a := 0.0; a < math.Pi*2; a += treeStep {
		wobble := math.Pow(math.Cos(math.Mod((a+t.Center.X)*size, 17)), 2)
		points = append(points, p.Translate(a, radius*lerp(0.5, 1, wobble)))
	}
	return geo.MustPolygon(points...)
}
