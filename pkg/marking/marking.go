// Package marking models the road markings placed on a world: start and
// target points, stop and yield lines, parking bays, crossings and traffic
// lights. All kinds share one geometry; behavior differs by Kind.
package marking

import (
	"encoding/json"
	"fmt"

	"github.com/ChicagoDave/roadworld/pkg/geo"
)

// Kind tags a marking variant.
type Kind string

const (
	KindStart    Kind = "start"
	KindStop     Kind = "stop"
	KindYield    Kind = "yield"
	KindParking  Kind = "parking"
	KindCrossing Kind = "crossing"
	KindTarget   Kind = "target"
	KindLight    Kind = "light"
)

// Kinds lists every marking kind.
var Kinds = []Kind{KindStart, KindStop, KindYield, KindParking, KindCrossing, KindTarget, KindLight}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown marking kind %q", s)
}

// State is a traffic light phase.
type State string

const (
	StateRed    State = "red"
	StateYellow State = "yellow"
	StateGreen  State = "green"
)

// lightHeight is the fixed depth of a traffic light housing.
const lightHeight = 18

// Marking is a rectangle of Width across and Height along Direction,
// centered on Center. State is only meaningful for lights.
type Marking struct {
	Kind      Kind      `json:"type"`
	Center    geo.Point `json:"center"`
	Direction geo.Point `json:"directionVector"`
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	State     State     `json:"state,omitempty"`

	Support geo.Segment `json:"-"`
	Poly    geo.Polygon `json:"-"`
}

// New builds a marking of the given kind. Direction is normalized; a zero or
// non-finite direction, a non-finite center or a non-positive size is rejected.
func New(kind Kind, center, direction geo.Point, width, height float64) (Marking, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return Marking{}, err
	}
	if !center.IsFinite() || !direction.IsFinite() {
		return Marking{}, fmt.Errorf("marking %s: non-finite center or direction", kind)
	}
	dir := direction.Normalize()
	if dir == (geo.Point{}) {
		return Marking{}, fmt.Errorf("marking %s: zero direction", kind)
	}
	if kind == KindLight {
		height = lightHeight
	}
	if width <= 0 || height <= 0 {
		return Marking{}, fmt.Errorf("marking %s: size must be positive, got %vx%v", kind, width, height)
	}

	m := Marking{
		Kind:      kind,
		Center:    center,
		Direction: dir,
		Width:     width,
		Height:    height,
	}
	if kind == KindLight {
		m.State = StateRed
	}
	m.build()
	return m, nil
}

func (m *Marking) build() {
	a := m.Direction.Angle()
	m.Support = geo.Seg(
		m.Center.Translate(a, m.Height/2),
		m.Center.Translate(a, -m.Height/2),
	)
	m.Poly = geo.NewEnvelope(m.Support, m.Width, 0).Poly
}

// UnmarshalJSON decodes the persisted fields and rebuilds the geometry.
func (m *Marking) UnmarshalJSON(data []byte) error {
	type plain Marking
	var raw plain
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	built, err := New(raw.Kind, raw.Center, raw.Direction, raw.Width, raw.Height)
	if err != nil {
		return err
	}
	if raw.State != "" && built.Kind == KindLight {
		built.State = raw.State
	}
	*m = built
	return nil
}

// Borders returns the painted edges of the marking rectangle.
func (m Marking) Borders() []geo.Segment {
	segs := m.Poly.Segments
	if len(segs) < 4 {
		return nil
	}
	switch m.Kind {
	case KindStop, KindYield:
		return []geo.Segment{segs[2]}
	case KindLight:
		return []geo.Segment{segs[0]}
	case KindCrossing, KindParking:
		return []geo.Segment{segs[0], segs[2]}
	default:
		return nil
	}
}

// IsTrafficControl reports whether the marking takes part in signal timing.
func (m Marking) IsTrafficControl() bool {
	return m.Kind == KindLight
}

// LaneConstrained reports whether markings of this kind snap to lane guides
// rather than to the road graph.
func (k Kind) LaneConstrained() bool {
	return k != KindCrossing
}

// Contains reports whether p falls inside the marking rectangle.
func (m Marking) Contains(p geo.Point) bool {
	return m.Poly.ContainsPoint(p)
}

// CrossLine is the line across the road through the center, Width long.
func (m Marking) CrossLine() geo.Segment {
	perp := m.Direction.Perp()
	return geo.Seg(
		m.Center.Add(perp.Scale(m.Width/2)),
		m.Center.Add(perp.Scale(-m.Width/2)),
	)
}

// Lamps returns the green, yellow and red lamp positions of a light.
func (m Marking) Lamps() (green, yellow, red geo.Point) {
	line := m.CrossLine()
	return line.P1.Lerp(line.P2, 0.2), line.P1.Lerp(line.P2, 0.5), line.P1.Lerp(line.P2, 0.8)
}

// DefaultSize returns the editor's width and height for a kind on roads of
// the given width.
func DefaultSize(kind Kind, roadWidth float64) (width, height float64) {
	if kind == KindCrossing {
		return roadWidth, roadWidth / 2
	}
	return roadWidth / 2, roadWidth / 2
}
