package scene

import (
	"fmt"
	"math"
	"time"

	"github.com/ChicagoDave/roadworld/pkg/geo"
	"github.com/ChicagoDave/roadworld/pkg/marking"
	"github.com/ChicagoDave/roadworld/pkg/world"
)

const (
	roadThickness  = 0.1
	paintThickness = 0.05
	lightPole      = 40.0
)

// Assemble converts a generated world into a scene graph. Light states are
// read as they are; the frame counter is not advanced.
func Assemble(w *world.World) *Graph {
	g := NewGraph()

	assembleRoads(w, g)
	assembleBuildings(w.Buildings, g)
	assembleTrees(w.Trees, g)
	assembleMarkings(w, g)

	g.Metadata = Metadata{
		GraphHash:   fmt.Sprintf("%016x", w.Graph.Hash()),
		Frame:       w.FrameCount(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		WorldBounds: computeBounds(g.Entities),
	}
	return g
}

func assembleRoads(w *world.World, g *Graph) {
	for i, s := range w.Graph.Segments() {
		addEntity(g, Entity{
			ID:         fmt.Sprintf("road-%d", i),
			Type:       EntityRoad,
			Position:   ground(s.Midpoint()),
			Dimensions: Vec3{X: s.Length(), Y: roadThickness, Z: w.Params.RoadWidth},
			Rotation:   yawQuat(heading(s.P2.Sub(s.P1))),
			Material:   "asphalt",
			Layer:      LayerRoad,
			Metadata:   map[string]any{"one_way": s.OneWay},
		})
	}
}

// assembleBuildings turns each rectangular footprint into an oriented box.
func assembleBuildings(buildings []world.Building, g *Graph) {
	for i, b := range buildings {
		pts := b.Base.Points
		if len(pts) < 3 {
			continue
		}
		along := pts[1].Sub(pts[0])
		addEntity(g, Entity{
			ID:       fmt.Sprintf("bld-%d", i),
			Type:     EntityBuilding,
			Position: ground(centroid(pts)),
			Dimensions: Vec3{
				X: along.Length(),
				Y: b.Height,
				Z: pts[2].Distance(pts[1]),
			},
			Rotation: yawQuat(heading(along)),
			Material: "concrete",
			Layer:    LayerStructure,
			Metadata: map[string]any{"footprint_area": b.Base.Area()},
		})
	}
}

func assembleTrees(trees []world.Tree, g *Graph) {
	for i, t := range trees {
		addEntity(g, Entity{
			ID:         fmt.Sprintf("tree-%d", i),
			Type:       EntityTree,
			Position:   ground(t.Center),
			Dimensions: Vec3{X: t.Size, Y: t.Height, Z: t.Size},
			Rotation:   identityQuat(),
			Material:   "foliage",
			Layer:      LayerVegetation,
		})
	}
}

// assembleMarkings lays markings flat on the road. Lights also join the
// group of the junction that controls them.
func assembleMarkings(w *world.World, g *Graph) {
	junctionOf := make(map[*marking.Marking]string)
	for i, c := range w.ControlCenters() {
		for _, l := range c.Lights {
			junctionOf[l] = fmt.Sprintf("junction-%d", i)
		}
	}

	for i := range w.Markings {
		m := &w.Markings[i]
		e := Entity{
			ID:         fmt.Sprintf("mark-%d", i),
			Type:       EntityMarking,
			Position:   ground(m.Center),
			Dimensions: Vec3{X: m.Height, Y: paintThickness, Z: m.Width},
			Rotation:   yawQuat(heading(m.Direction)),
			Material:   "paint",
			Layer:      LayerMarking,
			Metadata:   map[string]any{"kind": string(m.Kind)},
		}
		if m.IsTrafficControl() {
			e.ID = fmt.Sprintf("light-%d", i)
			e.Type = EntityLight
			e.Dimensions.Y = lightPole
			e.Material = "steel"
			e.Junction = junctionOf[m]
			e.Metadata["state"] = string(m.State)
		}
		addEntity(g, e)
	}
}

func addEntity(g *Graph, e Entity) {
	g.Entities = append(g.Entities, e)
	id := e.ID

	if e.Junction != "" {
		g.Groups.Junctions[e.Junction] = append(g.Groups.Junctions[e.Junction], id)
	}
	g.Groups.Layers[e.Layer] = append(g.Groups.Layers[e.Layer], id)
	g.Groups.EntityTypes[e.Type] = append(g.Groups.EntityTypes[e.Type], id)
}

// horizontalExtent is the half size of the entity's footprint on each
// axis. Rotated entities use their half diagonal.
func horizontalExtent(e Entity) (halfX, halfZ float64) {
	if e.Rotation == identityQuat() {
		return e.Dimensions.X / 2, e.Dimensions.Z / 2
	}
	r := math.Hypot(e.Dimensions.X, e.Dimensions.Z) / 2
	return r, r
}

// computeBounds calculates the AABB of all entities.
func computeBounds(entities []Entity) BoundingBox {
	if len(entities) == 0 {
		return BoundingBox{}
	}
	minV := Vec3{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64}
	maxV := Vec3{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64}

	for _, e := range entities {
		halfX, halfZ := horizontalExtent(e)

		minV.X = math.Min(minV.X, e.Position.X-halfX)
		maxV.X = math.Max(maxV.X, e.Position.X+halfX)
		minV.Y = math.Min(minV.Y, e.Position.Y)
		maxV.Y = math.Max(maxV.Y, e.Position.Y+e.Dimensions.Y)
		minV.Z = math.Min(minV.Z, e.Position.Z-halfZ)
		maxV.Z = math.Max(maxV.Z, e.Position.Z+halfZ)
	}
	return BoundingBox{Min: minV, Max: maxV}
}

func centroid(pts []geo.Point) geo.Point {
	var c geo.Point
	for _, p := range pts {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(pts)))
}

func ground(p geo.Point) Vec3 {
	return Vec3{X: p.X, Y: 0, Z: p.Y}
}

// heading is the yaw that turns the +X axis onto the world direction d.
func heading(d geo.Point) float64 {
	return -math.Atan2(d.Y, d.X)
}

func identityQuat() [4]float64 {
	return [4]float64{0, 0, 0, 1}
}

func yawQuat(angle float64) [4]float64 {
	half := angle / 2
	return [4]float64{0, math.Sin(half), 0, math.Cos(half)}
}
