package geo

import "math"

// ClipToRect clips the polygon to an axis-aligned rectangle using the
// Sutherland-Hodgman algorithm. ok is false when nothing of the polygon
// remains inside r.
func ClipToRect(poly Polygon, r Rect) (Polygon, bool) {
	if len(poly.Points) < 3 {
		return Polygon{}, false
	}
	corners := []Point{
		r.Min,
		{r.Max.X, r.Min.Y},
		r.Max,
		{r.Min.X, r.Max.Y},
	}

	output := make([]Point, len(poly.Points))
	copy(output, poly.Points)

	for i := range corners {
		if len(output) == 0 {
			return Polygon{}, false
		}
		edgeStart := corners[i]
		edgeEnd := corners[(i+1)%len(corners)]
		input := output
		output = make([]Point, 0, len(input))

		for j := range input {
			current := input[j]
			next := input[(j+1)%len(input)]
			curInside := isInsideEdge(current, edgeStart, edgeEnd)
			nextInside := isInsideEdge(next, edgeStart, edgeEnd)

			switch {
			case curInside && nextInside:
				output = append(output, next)
			case curInside && !nextInside:
				if ix, ok := lineIntersection(current, next, edgeStart, edgeEnd); ok {
					output = append(output, ix)
				}
			case !curInside && nextInside:
				if ix, ok := lineIntersection(current, next, edgeStart, edgeEnd); ok {
					output = append(output, ix)
				}
				output = append(output, next)
			}
		}
	}
	clipped, err := NewPolygon(output)
	if err != nil {
		return Polygon{}, false
	}
	return clipped, true
}

// ClipSegmentToRect trims s to the part inside r (Liang-Barsky).
func ClipSegmentToRect(s Segment, r Rect) (Segment, bool) {
	d := s.P2.Sub(s.P1)
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-d.X, s.P1.X - r.Min.X},
		{d.X, r.Max.X - s.P1.X},
		{-d.Y, s.P1.Y - r.Min.Y},
		{d.Y, r.Max.Y - s.P1.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if math.Abs(p) < 1e-12 {
			if q < 0 {
				return Segment{}, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			t0 = math.Max(t0, t)
		} else {
			t1 = math.Min(t1, t)
		}
		if t0 > t1 {
			return Segment{}, false
		}
	}
	return Segment{P1: s.P1.Lerp(s.P2, t0), P2: s.P1.Lerp(s.P2, t1), OneWay: s.OneWay}, true
}

// isInsideEdge returns true if the point is on the inside (left) of the
// directed edge from edgeStart to edgeEnd.
func isInsideEdge(p, edgeStart, edgeEnd Point) bool {
	return (edgeEnd.X-edgeStart.X)*(p.Y-edgeStart.Y)-
		(edgeEnd.Y-edgeStart.Y)*(p.X-edgeStart.X) >= 0
}

// lineIntersection returns the intersection point of lines (p1→p2) and (p3→p4).
func lineIntersection(p1, p2, p3, p4 Point) (Point, bool) {
	d := (p1.X-p2.X)*(p3.Y-p4.Y) - (p1.Y-p2.Y)*(p3.X-p4.X)
	if math.Abs(d) < 1e-12 {
		return Point{}, false
	}
	t := ((p1.X-p3.X)*(p3.Y-p4.Y) - (p1.Y-p3.Y)*(p3.X-p4.X)) / d
	return Point{
		X: p1.X + t*(p2.X-p1.X),
		Y: p1.Y + t*(p2.Y-p1.Y),
	}, true
}
