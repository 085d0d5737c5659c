package geo

import "math"

// intersectionEps guards the determinant against near-parallel lines.
const intersectionEps = 0.001

// Segment is a directed pair of points. OneWay only affects drawing.
type Segment struct {
	P1     Point `json:"p1"`
	P2     Point `json:"p2"`
	OneWay bool  `json:"oneWay,omitempty"`
}

// Seg is a shorthand constructor for Segment.
func Seg(p1, p2 Point) Segment {
	return Segment{P1: p1, P2: p2}
}

// Projection is a point projected onto the line through a segment.
// Offset is 0 at P1 and 1 at P2 and is not clamped.
type Projection struct {
	Point  Point
	Offset float64
}

// Intersection is where two segments cross. Offset is the position along
// the first segment.
type Intersection struct {
	Point  Point
	Offset float64
}

// Equals reports whether both segments join the same two points, in either order.
func (s Segment) Equals(o Segment) bool {
	return s.Includes(o.P1) && s.Includes(o.P2)
}

// Includes reports whether p is one of the endpoints.
func (s Segment) Includes(p Point) bool {
	return s.P1.Equals(p) || s.P2.Equals(p)
}

// Length returns the distance between the endpoints.
func (s Segment) Length() float64 {
	return s.P1.Distance(s.P2)
}

// DirectionVector returns the unit vector from P1 to P2.
func (s Segment) DirectionVector() Point {
	return s.P2.Sub(s.P1).Normalize()
}

// Midpoint returns the point halfway between the endpoints.
func (s Segment) Midpoint() Point {
	return Average(s.P1, s.P2)
}

// ProjectPoint projects p onto the line through the segment.
func (s Segment) ProjectPoint(p Point) Projection {
	a := p.Sub(s.P1)
	b := s.P2.Sub(s.P1)
	mag := b.Length()
	if mag < 1e-12 {
		return Projection{Point: s.P1}
	}
	normB := b.Scale(1 / mag)
	scaler := a.Dot(normB)
	return Projection{
		Point:  s.P1.Add(normB.Scale(scaler)),
		Offset: scaler / mag,
	}
}

// DistanceToPoint returns the perpendicular distance when the projection of p
// falls strictly inside the segment, otherwise the distance to the nearer endpoint.
func (s Segment) DistanceToPoint(p Point) float64 {
	proj := s.ProjectPoint(p)
	if proj.Offset > 0 && proj.Offset < 1 {
		return p.Distance(proj.Point)
	}
	return math.Min(p.Distance(s.P1), p.Distance(s.P2))
}

// Intersect returns where s crosses o, with the offset measured along s.
func (s Segment) Intersect(o Segment) (Intersection, bool) {
	return GetIntersection(s.P1, s.P2, o.P1, o.P2)
}

// GetIntersection intersects segment a-b with segment c-d. Touching at an
// endpoint counts; near-parallel pairs do not.
func GetIntersection(a, b, c, d Point) (Intersection, bool) {
	t, u, ok := crossRatios(a, b, c, d)
	if !ok {
		return Intersection{}, false
	}
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Intersection{}, false
	}
	return Intersection{Point: a.Lerp(b, t), Offset: t}, true
}

// crossRatios returns the parametric positions of the crossing of lines a-b
// and c-d: t along a-b and u along c-d.
func crossRatios(a, b, c, d Point) (t, u float64, ok bool) {
	tTop := (d.X-c.X)*(a.Y-c.Y) - (d.Y-c.Y)*(a.X-c.X)
	uTop := (c.Y-a.Y)*(a.X-b.X) - (c.X-a.X)*(a.Y-b.Y)
	bottom := (d.Y-c.Y)*(b.X-a.X) - (d.X-c.X)*(b.Y-a.Y)

	if math.Abs(bottom) <= intersectionEps {
		return 0, 0, false
	}
	return tTop / bottom, uTop / bottom, true
}

// NearestSegment returns the segment closest to location, ignoring segments
// at or beyond threshold.
func NearestSegment(location Point, segments []Segment, threshold float64) (nearest Segment, ok bool) {
	minDist := math.MaxFloat64
	for _, s := range segments {
		d := s.DistanceToPoint(location)
		if d < minDist && d < threshold {
			minDist = d
			nearest = s
			ok = true
		}
	}
	return nearest, ok
}
