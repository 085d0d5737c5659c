package geo

import (
	"math"

	polyclip "github.com/akavel/polyclip-go"
)

// CoverageArea returns the area covered by the union of the polygons,
// counting overlaps once. It runs a full boolean union through polyclip and
// is independent of Union, which only yields boundary segments.
func CoverageArea(polys []Polygon) float64 {
	if len(polys) == 0 {
		return 0
	}
	merged := toClip(polys[0])
	for _, p := range polys[1:] {
		merged = merged.Construct(polyclip.UNION, toClip(p))
	}

	total := 0.0
	for i, c := range merged {
		if len(c) < 3 {
			continue
		}
		area := math.Abs(contourArea(c))
		if contourDepth(merged, i)%2 == 1 {
			total -= area
		} else {
			total += area
		}
	}
	return total
}

func toClip(p Polygon) polyclip.Polygon {
	contour := make(polyclip.Contour, len(p.Points))
	for i, pt := range p.Points {
		contour[i] = polyclip.Point{X: pt.X, Y: pt.Y}
	}
	return polyclip.Polygon{contour}
}

func contourArea(c polyclip.Contour) float64 {
	area := 0.0
	n := len(c)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	return area / 2
}

// contourDepth counts how many other contours enclose contour i. Odd depth
// means i is a hole.
func contourDepth(poly polyclip.Polygon, i int) int {
	probe := poly[i][0]
	depth := 0
	for j, c := range poly {
		if j == i || len(c) < 3 {
			continue
		}
		if c.Contains(probe) {
			depth++
		}
	}
	return depth
}
