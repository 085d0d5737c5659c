package geo

import "math"

// Polyline is an ordered sequence of points forming a path.
type Polyline struct {
	Points []Point
}

// Length returns the total arc length of the polyline.
func (pl Polyline) Length() float64 {
	total := 0.0
	for i := 1; i < len(pl.Points); i++ {
		total += pl.Points[i-1].Distance(pl.Points[i])
	}
	return total
}

// Closed reports whether the last point meets the first within tolerance.
func (pl Polyline) Closed(tolerance float64) bool {
	n := len(pl.Points)
	return n > 2 && pl.Points[0].Distance(pl.Points[n-1]) <= tolerance
}

type endpoint struct {
	segIdx int
	isEnd  bool // false=P1, true=P2
}

// endpointIndex buckets segment endpoints into grid cells so that joins
// within tolerance are found without a pairwise scan.
type endpointIndex struct {
	cellSize float64
	buckets  map[[2]int][]endpoint
}

func newEndpointIndex(segments []Segment, tolerance float64) *endpointIndex {
	idx := &endpointIndex{
		cellSize: math.Max(tolerance*2, 1e-6),
		buckets:  make(map[[2]int][]endpoint),
	}
	for i, s := range segments {
		for _, isEnd := range []bool{false, true} {
			pt := s.P1
			if isEnd {
				pt = s.P2
			}
			key := idx.cellKey(pt)
			ep := endpoint{segIdx: i, isEnd: isEnd}
			for dx := -1; dx <= 1; dx++ {
				for dy := -1; dy <= 1; dy++ {
					bk := [2]int{key[0] + dx, key[1] + dy}
					idx.buckets[bk] = append(idx.buckets[bk], ep)
				}
			}
		}
	}
	return idx
}

func (idx *endpointIndex) cellKey(p Point) [2]int {
	return [2]int{int(math.Floor(p.X / idx.cellSize)), int(math.Floor(p.Y / idx.cellSize))}
}

// Chain joins segments that share endpoints (within tolerance) into
// polylines. Each segment is used once; branches start new polylines.
func Chain(segments []Segment, tolerance float64) []Polyline {
	idx := newEndpointIndex(segments, tolerance)
	used := make([]bool, len(segments))

	// next finds an unused segment touching pt and returns its far endpoint.
	next := func(pt Point) (Point, bool) {
		for _, ep := range idx.buckets[idx.cellKey(pt)] {
			if used[ep.segIdx] {
				continue
			}
			s := segments[ep.segIdx]
			near, far := s.P1, s.P2
			if ep.isEnd {
				near, far = s.P2, s.P1
			}
			if near.Distance(pt) <= tolerance {
				used[ep.segIdx] = true
				return far, true
			}
		}
		return Point{}, false
	}

	var lines []Polyline
	for i, s := range segments {
		if used[i] {
			continue
		}
		used[i] = true
		pts := []Point{s.P1, s.P2}

		for {
			far, ok := next(pts[len(pts)-1])
			if !ok {
				break
			}
			pts = append(pts, far)
		}
		var head []Point
		for {
			anchor := pts[0]
			if len(head) > 0 {
				anchor = head[len(head)-1]
			}
			far, ok := next(anchor)
			if !ok {
				break
			}
			head = append(head, far)
		}
		if len(head) > 0 {
			rev := make([]Point, 0, len(head)+len(pts))
			for k := len(head) - 1; k >= 0; k-- {
				rev = append(rev, head[k])
			}
			pts = append(rev, pts...)
		}
		lines = append(lines, Polyline{Points: pts})
	}
	return lines
}
