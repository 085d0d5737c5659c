package geo

import (
	"errors"
	"math"
	"testing"
)

const tolerance = 0.01

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func square(x, y, size float64) Polygon {
	return MustPolygon(Pt(x, y), Pt(x+size, y), Pt(x+size, y+size), Pt(x, y+size))
}

// --- Point tests ---

func TestPointDistance(t *testing.T) {
	a := Pt(0, 0)
	b := Pt(3, 4)
	if !approxEqual(a.Distance(b), 5.0, tolerance) {
		t.Errorf("expected distance 5.0, got %f", a.Distance(b))
	}
}

func TestPointNormalize(t *testing.T) {
	n := Pt(3, 4).Normalize()
	if !approxEqual(n.Length(), 1.0, tolerance) {
		t.Errorf("expected unit length, got %f", n.Length())
	}
	z := Pt(0, 0).Normalize()
	if z != (Point{}) || !z.IsFinite() {
		t.Errorf("expected zero vector for zero input, got %+v", z)
	}
}

func TestPointIsFinite(t *testing.T) {
	if !Pt(1, 2).IsFinite() {
		t.Error("expected (1,2) to be finite")
	}
	if Pt(math.NaN(), 0).IsFinite() {
		t.Error("expected NaN point to be rejected")
	}
	if Pt(0, math.Inf(-1)).IsFinite() {
		t.Error("expected infinite point to be rejected")
	}
}

func TestNearestPoint(t *testing.T) {
	pts := []Point{Pt(0, 0), Pt(10, 0), Pt(3, 3)}
	p, ok := NearestPoint(Pt(4, 4), pts, math.MaxFloat64)
	if !ok || !p.Equals(Pt(3, 3)) {
		t.Errorf("expected (3,3), got %+v ok=%v", p, ok)
	}
	if _, ok := NearestPoint(Pt(100, 100), pts, 5); ok {
		t.Error("expected no point within threshold")
	}
}

// --- Segment tests ---

func TestSegmentEqualsIsUnordered(t *testing.T) {
	a, b := Pt(1, 2), Pt(7, -3)
	if !Seg(a, b).Equals(Seg(b, a)) {
		t.Error("expected reversed segment to be equal")
	}
	if Seg(a, b).Equals(Seg(a, Pt(7, -2))) {
		t.Error("expected different endpoint to differ")
	}
}

func TestSegmentProjectPoint(t *testing.T) {
	s := Seg(Pt(0, 0), Pt(10, 0))
	proj := s.ProjectPoint(Pt(2.5, 7))
	if !approxEqual(proj.Offset, 0.25, 1e-9) || !approxEqual(proj.Point.X, 2.5, 1e-9) || !approxEqual(proj.Point.Y, 0, 1e-9) {
		t.Errorf("unexpected projection %+v", proj)
	}
	beyond := s.ProjectPoint(Pt(15, 1))
	if !approxEqual(beyond.Offset, 1.5, 1e-9) {
		t.Errorf("expected unclamped offset 1.5, got %f", beyond.Offset)
	}
}

func TestSegmentDistanceToPoint(t *testing.T) {
	s := Seg(Pt(0, 0), Pt(10, 0))
	if d := s.DistanceToPoint(Pt(5, 3)); !approxEqual(d, 3, 1e-9) {
		t.Errorf("expected perpendicular distance 3, got %f", d)
	}
	if d := s.DistanceToPoint(Pt(13, 4)); !approxEqual(d, 5, 1e-9) {
		t.Errorf("expected endpoint distance 5, got %f", d)
	}
}

func TestSegmentDirectionVector(t *testing.T) {
	d := Seg(Pt(1, 1), Pt(1, 6)).DirectionVector()
	if !approxEqual(d.X, 0, 1e-12) || !approxEqual(d.Y, 1, 1e-12) {
		t.Errorf("expected (0,1), got %+v", d)
	}
}

func TestGetIntersectionCrossing(t *testing.T) {
	in, ok := GetIntersection(Pt(0, 0), Pt(10, 10), Pt(0, 10), Pt(10, 0))
	if !ok {
		t.Fatal("expected an intersection")
	}
	if !approxEqual(in.Point.X, 5, 1e-9) || !approxEqual(in.Point.Y, 5, 1e-9) {
		t.Errorf("expected (5,5), got %+v", in.Point)
	}
	if !approxEqual(in.Offset, 0.5, 1e-9) {
		t.Errorf("expected offset 0.5, got %f", in.Offset)
	}
}

func TestGetIntersectionParallel(t *testing.T) {
	if _, ok := GetIntersection(Pt(0, 0), Pt(10, 0), Pt(0, 5), Pt(10, 5)); ok {
		t.Error("expected parallel segments not to intersect")
	}
}

func TestGetIntersectionTouchingEndpoint(t *testing.T) {
	in, ok := GetIntersection(Pt(0, 0), Pt(10, 0), Pt(10, -5), Pt(10, 5))
	if !ok {
		t.Fatal("expected touching segments to intersect")
	}
	if in.Offset != 1 {
		t.Errorf("expected offset 1, got %f", in.Offset)
	}
}

func TestGetIntersectionMiss(t *testing.T) {
	if _, ok := GetIntersection(Pt(0, 0), Pt(4, 4), Pt(0, 10), Pt(10, 0)); ok {
		t.Error("expected segments ending before the crossing not to intersect")
	}
}

// --- Polygon tests ---

func TestNewPolygonTooFewPoints(t *testing.T) {
	_, err := NewPolygon([]Point{Pt(0, 0), Pt(1, 1)})
	var pe *PreconditionError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PreconditionError, got %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected MustPolygon to panic")
		}
	}()
	MustPolygon(Pt(0, 0))
}

func TestNewPolygonRejectsNaN(t *testing.T) {
	if _, err := NewPolygon([]Point{Pt(0, 0), Pt(math.NaN(), 1), Pt(2, 0)}); err == nil {
		t.Error("expected NaN point to be rejected")
	}
}

func TestPolygonSegmentsWrap(t *testing.T) {
	sq := square(0, 0, 10)
	if len(sq.Segments) != 4 {
		t.Fatalf("expected 4 segments, got %d", len(sq.Segments))
	}
	last := sq.Segments[3]
	if !last.P1.Equals(Pt(0, 10)) || !last.P2.Equals(Pt(0, 0)) {
		t.Errorf("expected closing segment (0,10)->(0,0), got %+v", last)
	}
}

func TestPolygonContainsPoint(t *testing.T) {
	sq := square(0, 0, 10)
	if !sq.ContainsPoint(Pt(5, 5)) {
		t.Error("expected (5,5) inside square")
	}
	if sq.ContainsPoint(Pt(15, 5)) {
		t.Error("expected (15,5) outside square")
	}
	if sq.ContainsPoint(Pt(-1, 5)) {
		t.Error("expected (-1,5) outside square")
	}
	far := square(5000, 5000, 10)
	if !far.ContainsPoint(Pt(5005, 5002)) {
		t.Error("expected containment far from the origin")
	}
}

func TestPolygonDistances(t *testing.T) {
	a := square(0, 0, 10)
	b := square(20, 0, 10)
	if d := a.DistanceToPoint(Pt(15, 5)); !approxEqual(d, 5, 1e-9) {
		t.Errorf("expected distance 5, got %f", d)
	}
	if d := a.DistanceToPoly(b); !approxEqual(d, 10, 1e-9) {
		t.Errorf("expected poly distance 10, got %f", d)
	}
	if a.IntersectsPoly(b) {
		t.Error("expected disjoint squares not to intersect")
	}
	if !a.IntersectsPoly(square(5, 5, 10)) {
		t.Error("expected overlapping squares to intersect")
	}
}

func TestPolygonArea(t *testing.T) {
	if a := square(0, 0, 10).Area(); !approxEqual(a, 100, tolerance) {
		t.Errorf("expected area 100, got %f", a)
	}
}

// --- Envelope tests ---

func TestEnvelopeRoundness(t *testing.T) {
	const (
		width     = 20.0
		roundness = 8
	)
	skel := Seg(Pt(3, 4), Pt(43, 34))
	env := NewEnvelope(skel, width, roundness)
	pts := env.Poly.Points

	if len(pts) != 2*(roundness+1) {
		t.Fatalf("expected %d points, got %d", 2*(roundness+1), len(pts))
	}
	for i, p := range pts {
		d := math.Min(p.Distance(skel.P1), p.Distance(skel.P2))
		if !approxEqual(d, width/2, 1e-6) {
			t.Errorf("point %d at distance %f from nearest endpoint, want %f", i, d, width/2)
		}
	}

	dir := skel.DirectionVector()
	sides := []Segment{env.Poly.Segments[roundness], env.Poly.Segments[len(pts)-1]}
	for i, side := range sides {
		sd := side.DirectionVector()
		cross := sd.X*dir.Y - sd.Y*dir.X
		if !approxEqual(cross, 0, 1e-6) {
			t.Errorf("side %d not parallel to skeleton (cross %g)", i, cross)
		}
		for _, p := range []Point{side.P1, side.P2} {
			off := p.Sub(skel.P1)
			perp := math.Abs(off.X*dir.Y - off.Y*dir.X)
			if !approxEqual(perp, width/2, 1e-6) {
				t.Errorf("side %d at distance %f from skeleton, want %f", i, perp, width/2)
			}
		}
	}
}

func TestEnvelopeRoundnessOneIsRectangle(t *testing.T) {
	env := NewEnvelope(Seg(Pt(0, 0), Pt(10, 0)), 4, 0)
	if len(env.Poly.Points) != 4 {
		t.Fatalf("expected 4 points, got %d", len(env.Poly.Points))
	}
	if !approxEqual(env.Poly.Area(), 40, 1e-6) {
		t.Errorf("expected area 40, got %f", env.Poly.Area())
	}
}

// --- Union tests ---

func TestUnionSinglePolygon(t *testing.T) {
	sq := square(0, 0, 10)
	got := Union([]Polygon{sq})
	if len(got) != len(sq.Segments) {
		t.Fatalf("expected %d segments, got %d", len(sq.Segments), len(got))
	}
	for i := range got {
		if got[i] != sq.Segments[i] {
			t.Errorf("segment %d changed: %+v vs %+v", i, got[i], sq.Segments[i])
		}
	}
}

func TestUnionDisjoint(t *testing.T) {
	got := Union([]Polygon{square(0, 0, 10), square(50, 50, 10)})
	if len(got) != 8 {
		t.Errorf("expected 8 segments, got %d", len(got))
	}
}

func TestUnionOverlappingSquares(t *testing.T) {
	got := Union([]Polygon{square(0, 0, 10), square(5, 5, 10)})

	total := 0.0
	for _, s := range got {
		total += s.Length()
	}
	// Outline of the merged L-shaped region: 2 * (15 + 15).
	if !approxEqual(total, 60, 1e-6) {
		t.Errorf("expected merged perimeter 60, got %f", total)
	}
	for _, s := range got {
		m := s.Midpoint()
		if m.X > 5 && m.X < 10 && m.Y > 5 && m.Y < 10 {
			t.Errorf("segment %+v lies inside the overlap", s)
		}
	}
}

func TestUnionCollinearCapsules(t *testing.T) {
	a := NewEnvelope(Seg(Pt(0, 0), Pt(10, 0)), 1, 2)
	b := NewEnvelope(Seg(Pt(10, 0), Pt(20, 0)), 1, 2)
	got := Union([]Polygon{a.Poly, b.Poly})

	if len(got) != 8 {
		t.Errorf("expected 8 border segments, got %d", len(got))
	}
	for _, s := range got {
		m := s.Midpoint()
		if m.X > 9.6 && m.X < 10.4 {
			t.Errorf("seam segment retained at x=10: %+v", s)
		}
	}
}

func TestBreakSharesIntersectionPoints(t *testing.T) {
	a := square(0, 0, 10)
	b := square(5, 5, 10)
	Break(&a, &b)
	if len(a.Segments) != 6 || len(b.Segments) != 6 {
		t.Fatalf("expected 6 segments each, got %d and %d", len(a.Segments), len(b.Segments))
	}
	found := 0
	for _, s := range a.Segments {
		for _, o := range b.Segments {
			if s.P2.Equals(o.P2) && s.P2.Equals(Pt(10, 5)) || s.P2.Equals(o.P2) && s.P2.Equals(Pt(5, 10)) {
				found++
			}
		}
	}
	if found != 2 {
		t.Errorf("expected both cut points shared exactly, found %d", found)
	}
}

func TestCoverageArea(t *testing.T) {
	got := CoverageArea([]Polygon{square(0, 0, 10), square(5, 5, 10)})
	if !approxEqual(got, 175, tolerance) {
		t.Errorf("expected area 175, got %f", got)
	}
	if a := CoverageArea(nil); a != 0 {
		t.Errorf("expected 0 for no polygons, got %f", a)
	}
}

func TestChainClosesSquare(t *testing.T) {
	sq := square(0, 0, 10)
	shuffled := []Segment{sq.Segments[2], sq.Segments[0], sq.Segments[3], sq.Segments[1]}
	lines := Chain(shuffled, 1e-6)
	if len(lines) != 1 {
		t.Fatalf("expected 1 polyline, got %d", len(lines))
	}
	if len(lines[0].Points) != 5 {
		t.Errorf("expected 5 points, got %d", len(lines[0].Points))
	}
	if !lines[0].Closed(1e-6) {
		t.Error("expected closed polyline")
	}
	if !approxEqual(lines[0].Length(), 40, 1e-9) {
		t.Errorf("expected length 40, got %f", lines[0].Length())
	}
}

func TestClipToRect(t *testing.T) {
	r := Rect{Min: Pt(0, 0), Max: Pt(10, 10)}
	clipped, ok := ClipToRect(square(5, 5, 10), r)
	if !ok {
		t.Fatal("expected overlap to survive clipping")
	}
	if !approxEqual(clipped.Area(), 25, tolerance) {
		t.Errorf("expected clipped area 25, got %f", clipped.Area())
	}
	if _, ok := ClipToRect(square(20, 20, 5), r); ok {
		t.Error("expected polygon outside rect to be dropped")
	}
}

func TestClipSegmentToRect(t *testing.T) {
	r := Rect{Min: Pt(0, 0), Max: Pt(10, 10)}
	s, ok := ClipSegmentToRect(Seg(Pt(-5, 5), Pt(15, 5)), r)
	if !ok {
		t.Fatal("expected segment crossing rect to be kept")
	}
	if !approxEqual(s.P1.X, 0, 1e-9) || !approxEqual(s.P2.X, 10, 1e-9) {
		t.Errorf("expected x range [0,10], got %+v", s)
	}
	if _, ok := ClipSegmentToRect(Seg(Pt(-5, 20), Pt(15, 20)), r); ok {
		t.Error("expected segment above rect to be dropped")
	}
}
