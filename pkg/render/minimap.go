package render

import (
	"io"

	"github.com/ChicagoDave/roadworld/pkg/geo"
	"github.com/ChicagoDave/roadworld/pkg/graph"
	"github.com/ChicagoDave/roadworld/pkg/world"
)

// miniMapScale is the pixel size of one world unit on the minimap.
const miniMapScale = 0.05

// DefaultMiniMapSize is the minimap edge length in pixels.
const DefaultMiniMapSize = 300

// MiniMap draws the road skeleton around viewPoint into a size by size
// square, with a dot marking the view point at its center.
func MiniMap(out io.Writer, g *graph.Graph, viewPoint geo.Point, size int) {
	if size <= 0 {
		size = DefaultMiniMapSize
	}
	half := float64(size) / 2 / miniMapScale
	window := geo.Rect{
		Min: viewPoint.Sub(geo.Pt(half, half)),
		Max: viewPoint.Add(geo.Pt(half, half)),
	}
	s := NewSVG(out, window, size)
	road := world.Style{Stroke: "white", Width: 3 / miniMapScale, Cap: "round"}
	for _, seg := range g.Segments() {
		s.Segment(seg, road)
	}
	s.Point(viewPoint, world.Style{Fill: "blue", Size: 18 / miniMapScale})
	s.Close()
}
