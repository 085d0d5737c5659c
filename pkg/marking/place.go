package marking

import (
	"github.com/ChicagoDave/roadworld/pkg/geo"
)

// Intent computes where a marking of kind would land for a cursor at
// location: projected onto the nearest target segment within threshold and
// oriented along it. ok is false when no segment is near enough or the
// projection falls off the segment's ends.
func Intent(kind Kind, location geo.Point, targets []geo.Segment, threshold, roadWidth float64) (Marking, bool) {
	seg, ok := geo.NearestSegment(location, targets, threshold)
	if !ok {
		return Marking{}, false
	}
	proj := seg.ProjectPoint(location)
	if proj.Offset < 0 || proj.Offset > 1 {
		return Marking{}, false
	}
	w, h := DefaultSize(kind, roadWidth)
	m, err := New(kind, proj.Point, seg.DirectionVector(), w, h)
	if err != nil {
		return Marking{}, false
	}
	return m, true
}

// RemoveAt deletes the first marking containing p.
func RemoveAt(markings []Marking, p geo.Point) ([]Marking, bool) {
	for i, m := range markings {
		if m.Contains(p) {
			return append(markings[:i], markings[i+1:]...), true
		}
	}
	return markings, false
}

// Lights returns pointers to the light markings in order so callers can
// write their state.
func Lights(markings []Marking) []*Marking {
	var out []*Marking
	for i := range markings {
		if markings[i].IsTrafficControl() {
			out = append(out, &markings[i])
		}
	}
	return out
}
