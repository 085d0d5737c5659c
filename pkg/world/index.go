package world

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/ChicagoDave/roadworld/pkg/geo"
)

// minExtent keeps degenerate footprints indexable; rtreego rejects zero-length sides.
const minExtent = 1e-6

type indexedItem struct {
	item Item
	rect rtreego.Rect
}

func (e *indexedItem) Bounds() rtreego.Rect { return e.rect }

func toRect(r geo.Rect) (rtreego.Rect, error) {
	return rtreego.NewRect(
		rtreego.Point{r.Min.X, r.Min.Y},
		[]float64{math.Max(r.Width(), minExtent), math.Max(r.Height(), minExtent)},
	)
}

// rebuildIndex loads every building and tree footprint into an R-tree.
func (w *World) rebuildIndex() {
	spatials := make([]rtreego.Spatial, 0, len(w.Buildings)+len(w.Trees))
	add := func(it Item) {
		rect, err := toRect(it.Footprint().Bounds())
		if err != nil {
			return
		}
		spatials = append(spatials, &indexedItem{item: it, rect: rect})
	}
	for _, b := range w.Buildings {
		add(b)
	}
	for _, t := range w.Trees {
		add(t)
	}
	w.index = rtreego.NewTree(2, 25, 50, spatials...)
}

// VisibleItems returns the buildings and trees whose footprint boundary is
// closer than radius to viewPoint, sorted far to near so nearer items are
// drawn over farther ones.
func (w *World) VisibleItems(viewPoint geo.Point, radius float64) []Item {
	if w.index == nil {
		w.rebuildIndex()
	}
	query, err := toRect(geo.Rect{
		Min: geo.Pt(viewPoint.X-radius, viewPoint.Y-radius),
		Max: geo.Pt(viewPoint.X+radius, viewPoint.Y+radius),
	})
	if err != nil {
		return nil
	}

	type candidate struct {
		item Item
		dist float64
	}
	var found []candidate
	for _, s := range w.index.SearchIntersect(query) {
		it := s.(*indexedItem).item
		d := it.Footprint().DistanceToPoint(viewPoint)
		if d < radius {
			found = append(found, candidate{item: it, dist: d})
		}
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].dist > found[j].dist })

	out := make([]Item, len(found))
	for i, c := range found {
		out[i] = c.item
	}
	return out
}
