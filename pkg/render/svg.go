// Package render paints a world onto an SVG document.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/ChicagoDave/roadworld/pkg/geo"
	"github.com/ChicagoDave/roadworld/pkg/world"
)

const (
	grassColor    = "#2a5"
	defaultWidth  = 1200
	boundsPadding = 50
)

// Options control the output size and the optional window of the world to
// show. Without a window the whole world is framed.
type Options struct {
	Width  int
	Window *geo.Rect
}

// SVG is a world.Surface writing to an SVG canvas. World coordinates map to
// pixels by a uniform scale; y grows downward in both.
type SVG struct {
	canvas *svg.SVG
	window geo.Rect
	scale  float64
	width  int
	height int
}

var _ world.Surface = (*SVG)(nil)

// NewSVG starts a document showing window at the given pixel width.
func NewSVG(out io.Writer, window geo.Rect, width int) *SVG {
	if width <= 0 {
		width = defaultWidth
	}
	w := math.Max(window.Width(), 1)
	h := math.Max(window.Height(), 1)
	scale := float64(width) / w
	s := &SVG{
		canvas: svg.New(out),
		window: window,
		scale:  scale,
		width:  width,
		height: int(math.Ceil(h * scale)),
	}
	s.canvas.Start(s.width, s.height)
	s.canvas.Rect(0, 0, s.width, s.height, "fill:"+grassColor)
	return s
}

// Close ends the document.
func (s *SVG) Close() {
	s.canvas.End()
}

func (s *SVG) px(p geo.Point) (int, int) {
	return int(math.Round((p.X - s.window.Min.X) * s.scale)),
		int(math.Round((p.Y - s.window.Min.Y) * s.scale))
}

func (s *SVG) size(v float64) int {
	return int(math.Max(1, math.Round(v*s.scale)))
}

// Polygon paints the part of poly inside the window.
func (s *SVG) Polygon(poly geo.Polygon, style world.Style) {
	clipped, ok := geo.ClipToRect(poly, s.window)
	if !ok {
		return
	}
	xs := make([]int, len(clipped.Points))
	ys := make([]int, len(clipped.Points))
	for i, p := range clipped.Points {
		xs[i], ys[i] = s.px(p)
	}
	s.canvas.Polygon(xs, ys, s.css(style))
}

// Segment paints the part of seg inside the window.
func (s *SVG) Segment(seg geo.Segment, style world.Style) {
	clipped, ok := geo.ClipSegmentToRect(seg, s.window)
	if !ok {
		return
	}
	x1, y1 := s.px(clipped.P1)
	x2, y2 := s.px(clipped.P2)
	s.canvas.Line(x1, y1, x2, y2, s.css(style))
}

// Point paints a filled dot of diameter style.Size.
func (s *SVG) Point(p geo.Point, style world.Style) {
	if !s.window.Contains(p) {
		return
	}
	x, y := s.px(p)
	s.canvas.Circle(x, y, s.size(style.Size/2), "fill:"+orNone(style.Fill))
}

// Text paints a label centered at at, rotated to angle radians.
func (s *SVG) Text(at geo.Point, angle float64, text string, style world.Style) {
	if !s.window.Contains(at) {
		return
	}
	x, y := s.px(at)
	s.canvas.Text(x, y, text,
		fmt.Sprintf(`transform="rotate(%.1f %d %d)"`, angle*180/math.Pi+90, x, y),
		fmt.Sprintf("fill:%s;font-family:Arial;font-weight:bold;font-size:%dpx;text-anchor:middle;dominant-baseline:middle",
			orNone(style.Fill), s.size(style.Size)))
}

func (s *SVG) css(st world.Style) string {
	parts := []string{
		"fill:" + orNone(st.Fill),
		"stroke:" + orNone(st.Stroke),
	}
	if st.Stroke != "" {
		parts = append(parts, fmt.Sprintf("stroke-width:%d", s.size(math.Max(st.Width, 1))))
	}
	if len(st.Dash) > 0 {
		dash := make([]string, len(st.Dash))
		for i, d := range st.Dash {
			dash[i] = fmt.Sprint(s.size(d))
		}
		parts = append(parts, "stroke-dasharray:"+strings.Join(dash, ","))
	}
	if st.Cap != "" {
		parts = append(parts, "stroke-linecap:"+st.Cap)
	}
	if st.Join != "" {
		parts = append(parts, "stroke-linejoin:"+st.Join)
	}
	return strings.Join(parts, ";")
}

func orNone(color string) string {
	if color == "" {
		return "none"
	}
	return color
}

// Bounds frames the generated geometry of w with a margin.
func Bounds(w *world.World) geo.Rect {
	var pts []geo.Point
	for _, e := range w.Envelopes {
		pts = append(pts, e.Poly.Points...)
	}
	for _, b := range w.Buildings {
		pts = append(pts, b.Base.Points...)
	}
	for _, t := range w.Trees {
		pts = append(pts, t.Footprint().Points...)
	}
	if len(pts) == 0 {
		pts = w.Graph.Points()
	}
	r := geo.BoundsOf(pts)
	r.Min = r.Min.Sub(geo.Pt(boundsPadding, boundsPadding))
	r.Max = r.Max.Add(geo.Pt(boundsPadding, boundsPadding))
	return r
}

// World draws one frame of w as seen from viewPoint into out.
func World(out io.Writer, w *world.World, viewPoint geo.Point, renderRadius float64, opts Options) {
	window := Bounds(w)
	if opts.Window != nil {
		window = *opts.Window
	}
	s := NewSVG(out, window, opts.Width)
	w.Draw(s, viewPoint, renderRadius)
	s.Close()
}
