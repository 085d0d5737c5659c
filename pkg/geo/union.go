package geo

import "sort"

// splitMergeEps collapses split offsets that land on the same spot of a segment.
const splitMergeEps = 1e-9

// split is a cut through a boundary segment at Offset along it.
type split struct {
	offset float64
	point  Point
}

// Union merges overlapping polygons into the segments of their common outer
// boundary. Polygon segments are split in place where boundaries cross; the
// result is a flat segment list, not a closed ring.
func Union(polys []Polygon) []Segment {
	MultiBreak(polys)

	bounds := make([]Rect, len(polys))
	for i, p := range polys {
		bounds[i] = p.Bounds()
	}

	var kept []Segment
	for i := range polys {
		for _, s := range polys[i].Segments {
			keep := true
			mid := s.Midpoint()
			for j := range polys {
				if i == j || !bounds[j].Contains(mid) {
					continue
				}
				if polys[j].ContainsPoint(mid) {
					keep = false
					break
				}
			}
			if keep {
				kept = append(kept, s)
			}
		}
	}
	return kept
}

// MultiBreak splits the segments of every polygon wherever they cross a
// segment of another polygon. All cuts are gathered against the original
// segments before any segment list is rebuilt.
func MultiBreak(polys []Polygon) {
	cuts := make([][][]split, len(polys))
	for i, p := range polys {
		cuts[i] = make([][]split, len(p.Segments))
	}

	bounds := make([]Rect, len(polys))
	for i, p := range polys {
		bounds[i] = p.Bounds()
	}

	for i := 0; i < len(polys)-1; i++ {
		for j := i + 1; j < len(polys); j++ {
			if !bounds[i].Overlaps(bounds[j]) {
				continue
			}
			collectCuts(polys[i], polys[j], cuts[i], cuts[j])
		}
	}

	for i := range polys {
		polys[i].Segments = applyCuts(polys[i].Segments, cuts[i])
	}
}

// Break splits the segments of two polygons where they cross each other.
func Break(a, b *Polygon) {
	pair := []Polygon{*a, *b}
	MultiBreak(pair)
	*a, *b = pair[0], pair[1]
}

// collectCuts records where segments of a and b cross. A crossing that falls
// on an endpoint of one segment still cuts the other one if it lies strictly
// inside it. Both cuts share the same freshly computed point.
func collectCuts(a, b Polygon, cutsA, cutsB [][]split) {
	for i, s1 := range a.Segments {
		for j, s2 := range b.Segments {
			t, u, ok := crossRatios(s1.P1, s1.P2, s2.P1, s2.P2)
			if !ok || t < 0 || t > 1 || u < 0 || u > 1 {
				continue
			}
			point := s1.P1.Lerp(s1.P2, t)
			if interior(t) {
				cutsA[i] = append(cutsA[i], split{offset: t, point: point})
			}
			if interior(u) {
				cutsB[j] = append(cutsB[j], split{offset: u, point: point})
			}
		}
	}
}

// interior reports whether offset lies inside (0,1), away from both ends.
func interior(offset float64) bool {
	return offset > splitMergeEps && offset < 1-splitMergeEps
}

// applyCuts materializes the ordered sub-segments of each original segment.
func applyCuts(segments []Segment, cuts [][]split) []Segment {
	out := make([]Segment, 0, len(segments))
	for i, s := range segments {
		c := cuts[i]
		if len(c) == 0 {
			out = append(out, s)
			continue
		}
		sort.Slice(c, func(a, b int) bool { return c[a].offset < c[b].offset })

		start := s.P1
		last := 0.0
		for _, cut := range c {
			if cut.offset-last < splitMergeEps || cut.point.Equals(start) {
				continue
			}
			out = append(out, Segment{P1: start, P2: cut.point, OneWay: s.OneWay})
			start = cut.point
			last = cut.offset
		}
		if !start.Equals(s.P2) {
			out = append(out, Segment{P1: start, P2: s.P2, OneWay: s.OneWay})
		}
	}
	return out
}
