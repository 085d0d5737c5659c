package geo

import "math"

// Point is a coordinate on the world plane. Points compare by value.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Origin is the zero point.
var Origin = Point{0, 0}

// Pt is a shorthand constructor for Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Equals reports exact coordinate equality.
func (p Point) Equals(q Point) bool {
	return p.X == q.X && p.Y == q.Y
}

// IsFinite reports whether both coordinates are neither NaN nor infinite.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale returns p * s.
func (p Point) Scale(s float64) Point {
	return Point{p.X * s, p.Y * s}
}

// Length returns the Euclidean length of the vector.
func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// Normalize returns the unit vector in the same direction.
// Returns zero vector if length is zero.
func (p Point) Normalize() Point {
	l := p.Length()
	if l < 1e-12 {
		return Point{}
	}
	return Point{p.X / l, p.Y / l}
}

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Distance returns the Euclidean distance from p to q.
func (p Point) Distance(q Point) float64 {
	return p.Sub(q).Length()
}

// Angle returns the angle of the vector from the positive X axis in radians.
func (p Point) Angle() float64 {
	return math.Atan2(p.Y, p.X)
}

// Translate moves p by offset along the direction given by angle.
func (p Point) Translate(angle, offset float64) Point {
	return Point{
		X: p.X + math.Cos(angle)*offset,
		Y: p.Y + math.Sin(angle)*offset,
	}
}

// Lerp returns the linear interpolation between p and q at t.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: lerp(p.X, q.X, t),
		Y: lerp(p.Y, q.Y, t),
	}
}

// Perp returns a vector perpendicular to p (rotated 90 degrees counterclockwise).
func (p Point) Perp() Point {
	return Point{-p.Y, p.X}
}

// Average returns the midpoint between p and q.
func Average(p, q Point) Point {
	return Point{(p.X + q.X) / 2, (p.Y + q.Y) / 2}
}

// NearestPoint returns the point closest to location, ignoring points at or
// beyond threshold. ok is false when nothing qualifies.
func NearestPoint(location Point, points []Point, threshold float64) (nearest Point, ok bool) {
	minDist := math.MaxFloat64
	for _, p := range points {
		d := p.Distance(location)
		if d < minDist && d < threshold {
			minDist = d
			nearest = p
			ok = true
		}
	}
	return nearest, ok
}

// Fake3D lifts p away from viewPoint by a perspective-scaled height so flat
// footprints read as extruded when drawn top-down.
func Fake3D(p, viewPoint Point, height float64) Point {
	dir := p.Sub(viewPoint).Normalize()
	dist := p.Distance(viewPoint)
	scaler := math.Atan(dist/300) / (math.Pi / 2)
	return p.Add(dir.Scale(height * scaler))
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
