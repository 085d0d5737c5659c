package world

import (
	"github.com/ChicagoDave/roadworld/pkg/geo"
	"github.com/ChicagoDave/roadworld/pkg/marking"
)

// Style describes how a primitive is painted. Colors are CSS strings; empty
// means none.
type Style struct {
	Fill   string
	Stroke string
	Width  float64
	Dash   []float64
	Cap    string
	Join   string
	// Size is the diameter of points and the font size of text.
	Size float64
}

// Surface receives draw calls in painter's order.
type Surface interface {
	Polygon(poly geo.Polygon, style Style)
	Segment(s geo.Segment, style Style)
	Point(p geo.Point, style Style)
	Text(at geo.Point, angle float64, text string, style Style)
}

var (
	envelopeStyle   = Style{Fill: "#BBB", Stroke: "#BBB", Width: 15}
	centerLineStyle = Style{Stroke: "white", Width: 4, Dash: []float64{10, 10}}
	borderStyle     = Style{Stroke: "white", Width: 4}
	paintStyle      = Style{Stroke: "white", Width: 5}

	buildingBaseStyle = Style{Fill: "white", Stroke: "rgba(0,0,0,0.2)", Width: 20}
	wallStyle         = Style{Fill: "white", Stroke: "#AAA"}
	ceilingStyle      = Style{Fill: "white", Stroke: "white", Width: 6}
	roofStyle         = Style{Fill: "#D44", Stroke: "#C44", Width: 8, Join: "round"}
)

// DefaultRenderRadius is how far from the view point items are drawn.
const DefaultRenderRadius = 1000

// Draw advances the lights by one frame and paints the world: road
// surfaces, markings, graph center lines, road borders, then buildings and
// trees near viewPoint from far to near.
func (w *World) Draw(s Surface, viewPoint geo.Point, renderRadius float64) {
	w.UpdateLights()

	for _, e := range w.Envelopes {
		s.Polygon(e.Poly, envelopeStyle)
	}
	for _, m := range w.Markings {
		drawMarking(s, m)
	}
	for _, seg := range w.Graph.Segments() {
		s.Segment(seg, centerLineStyle)
	}
	for _, seg := range w.RoadBorders {
		s.Segment(seg, borderStyle)
	}

	for _, it := range w.VisibleItems(viewPoint, renderRadius) {
		switch v := it.(type) {
		case Building:
			drawBuilding(s, v, viewPoint)
		case Tree:
			for _, level := range v.Levels(viewPoint) {
				s.Polygon(level.Poly, Style{Fill: level.Color})
			}
		}
	}
}

func drawBuilding(s Surface, b Building, viewPoint geo.Point) {
	f := b.Faces(viewPoint)
	s.Polygon(f.Base, buildingBaseStyle)
	for _, side := range f.Sides {
		s.Polygon(side, wallStyle)
	}
	s.Polygon(f.Ceiling, ceilingStyle)
	for _, r := range f.Roof {
		s.Polygon(r, roofStyle)
	}
}

func drawMarking(s Surface, m marking.Marking) {
	angle := m.Direction.Angle()
	switch m.Kind {
	case marking.KindStop:
		for _, b := range m.Borders() {
			s.Segment(b, paintStyle)
		}
		s.Text(m.Center, angle, "STOP", Style{Fill: "white", Size: m.Height * 0.3})
	case marking.KindYield:
		for _, b := range m.Borders() {
			s.Segment(b, paintStyle)
		}
		s.Text(m.Center, angle, "YIELD", Style{Fill: "white", Size: m.Height * 0.3})
	case marking.KindParking:
		for _, b := range m.Borders() {
			s.Segment(b, paintStyle)
		}
		s.Text(m.Center, angle, "P", Style{Fill: "white", Size: m.Height * 0.9})
	case marking.KindCrossing:
		s.Segment(m.CrossLine(), Style{Stroke: "white", Width: m.Height, Dash: []float64{11, 11}})
	case marking.KindTarget:
		s.Point(m.Center, Style{Fill: "red", Size: 30})
		s.Point(m.Center, Style{Fill: "white", Size: 20})
		s.Point(m.Center, Style{Fill: "red", Size: 10})
	case marking.KindStart:
		s.Polygon(m.Poly, Style{Fill: "#36C", Stroke: "white", Width: 2})
		s.Segment(geo.Seg(m.Center, m.Center.Add(m.Direction.Scale(m.Height/2))), Style{Stroke: "white", Width: 3})
	case marking.KindLight:
		drawLight(s, m)
	}
}

func drawLight(s Surface, m marking.Marking) {
	green, yellow, red := m.Lamps()
	lamp := m.Height * 0.6
	s.Segment(geo.Seg(red, green), Style{Stroke: "black", Width: m.Height, Cap: "round"})
	s.Point(green, Style{Fill: "#060", Size: lamp})
	s.Point(yellow, Style{Fill: "#660", Size: lamp})
	s.Point(red, Style{Fill: "#600", Size: lamp})

	switch m.State {
	case marking.StateGreen:
		s.Point(green, Style{Fill: "#0F0", Size: lamp})
	case marking.StateYellow:
		s.Point(yellow, Style{Fill: "#FF0", Size: lamp})
	case marking.StateRed:
		s.Point(red, Style{Fill: "#F00", Size: lamp})
	}
}
