package geo

import (
	"encoding/json"
	"fmt"
	"math"
)

// sentinelPad keeps the ray-cast origin clear of the polygon it tests.
const sentinelPad = 1000.0

// Polygon is a closed ring of points. Segments join consecutive points,
// including the last back to the first.
type Polygon struct {
	Points   []Point   `json:"points"`
	Segments []Segment `json:"-"`
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// NewPolygon builds a polygon and its boundary segments from at least three points.
func NewPolygon(points []Point) (Polygon, error) {
	if len(points) < 3 {
		return Polygon{}, &PreconditionError{
			Op:     "NewPolygon",
			Reason: fmt.Sprintf("need at least 3 points, got %d", len(points)),
		}
	}
	for i, p := range points {
		if !p.IsFinite() {
			return Polygon{}, &PreconditionError{
				Op:     "NewPolygon",
				Reason: fmt.Sprintf("point %d is not finite: (%v, %v)", i, p.X, p.Y),
			}
		}
	}
	poly := Polygon{Points: points}
	poly.resetSegments()
	return poly, nil
}

// MustPolygon is like NewPolygon but panics on invalid input.
func MustPolygon(points ...Point) Polygon {
	poly, err := NewPolygon(points)
	if err != nil {
		panic(err)
	}
	return poly
}

// UnmarshalJSON decodes {"points": [...]} and rebuilds the boundary segments.
func (p *Polygon) UnmarshalJSON(data []byte) error {
	var raw struct {
		Points []Point `json:"points"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	poly, err := NewPolygon(raw.Points)
	if err != nil {
		return err
	}
	*p = poly
	return nil
}

func (p *Polygon) resetSegments() {
	n := len(p.Points)
	p.Segments = make([]Segment, 0, n)
	for i := 1; i <= n; i++ {
		p.Segments = append(p.Segments, Seg(p.Points[i-1], p.Points[i%n]))
	}
}

// Clone returns a copy that shares no slices with p.
func (p Polygon) Clone() Polygon {
	c := Polygon{
		Points:   make([]Point, len(p.Points)),
		Segments: make([]Segment, len(p.Segments)),
	}
	copy(c.Points, p.Points)
	copy(c.Segments, p.Segments)
	return c
}

// Bounds returns the axis-aligned bounding box of the points.
func (p Polygon) Bounds() Rect {
	return BoundsOf(p.Points)
}

// BoundsOf returns the bounding box of a point set.
func BoundsOf(points []Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	r := Rect{Min: points[0], Max: points[0]}
	for _, v := range points[1:] {
		r.Min.X = math.Min(r.Min.X, v.X)
		r.Min.Y = math.Min(r.Min.Y, v.Y)
		r.Max.X = math.Max(r.Max.X, v.X)
		r.Max.Y = math.Max(r.Max.Y, v.Y)
	}
	return r
}

// Contains reports whether q lies inside r, edges included.
func (r Rect) Contains(q Point) bool {
	return q.X >= r.Min.X && q.X <= r.Max.X && q.Y >= r.Min.Y && q.Y <= r.Max.Y
}

// Overlaps reports whether two boxes share any area or edge.
func (r Rect) Overlaps(o Rect) bool {
	return r.Min.X <= o.Max.X && o.Min.X <= r.Max.X && r.Min.Y <= o.Max.Y && o.Min.Y <= r.Max.Y
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Area returns the unsigned shoelace area of the ring.
func (p Polygon) Area() float64 {
	return math.Abs(signedArea(p.Points))
}

func signedArea(points []Point) float64 {
	n := len(points)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += points[i].X*points[j].Y - points[j].X*points[i].Y
	}
	return area / 2
}

// sentinel returns a ray origin outside the polygon's bounds. The origin is
// offset unevenly on the two axes so the ray rarely grazes grid-aligned vertices.
func (p Polygon) sentinel() Point {
	b := p.Bounds()
	pad := sentinelPad + math.Max(b.Width(), b.Height())
	return Point{X: b.Min.X - pad, Y: b.Min.Y - pad*0.7071}
}

// ContainsPoint reports whether pt is inside the polygon by counting boundary
// crossings of a ray cast from outside the polygon to pt.
func (p Polygon) ContainsPoint(pt Point) bool {
	if len(p.Segments) == 0 {
		return false
	}
	outer := p.sentinel()
	count := 0
	for _, s := range p.Segments {
		if _, ok := GetIntersection(outer, pt, s.P1, s.P2); ok {
			count++
		}
	}
	return count%2 == 1
}

// ContainsSegment reports whether the midpoint of s lies inside the polygon.
func (p Polygon) ContainsSegment(s Segment) bool {
	return p.ContainsPoint(s.Midpoint())
}

// DistanceToPoint returns the distance from pt to the nearest boundary segment.
func (p Polygon) DistanceToPoint(pt Point) float64 {
	d := math.Inf(1)
	for _, s := range p.Segments {
		d = math.Min(d, s.DistanceToPoint(pt))
	}
	return d
}

// DistanceToPoly returns the smallest distance from any of p's points to o's boundary.
func (p Polygon) DistanceToPoly(o Polygon) float64 {
	d := math.Inf(1)
	for _, pt := range p.Points {
		d = math.Min(d, o.DistanceToPoint(pt))
	}
	return d
}

// IntersectsPoly reports whether any boundary segments of the two polygons cross or touch.
func (p Polygon) IntersectsPoly(o Polygon) bool {
	for _, s1 := range p.Segments {
		for _, s2 := range o.Segments {
			if _, ok := GetIntersection(s1.P1, s1.P2, s2.P1, s2.P2); ok {
				return true
			}
		}
	}
	return false
}
