package scene

// LayerType identifies a vertical layer of the world.
type LayerType string

const (
	LayerRoad       LayerType = "road"
	LayerMarking    LayerType = "marking"
	LayerStructure  LayerType = "structure"
	LayerVegetation LayerType = "vegetation"
)

// EntityType identifies the kind of entity.
type EntityType string

const (
	EntityRoad     EntityType = "road"
	EntityBuilding EntityType = "building"
	EntityTree     EntityType = "tree"
	EntityMarking  EntityType = "marking"
	EntityLight    EntityType = "light"
)

// Vec3 is a 3D vector. Y is up; world x and y map to X and Z.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// BoundingBox defines an axis-aligned bounding box.
type BoundingBox struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// Entity is a single element in the scene graph. Position is the center of
// the entity's base; Dimensions are its extent before Rotation is applied.
type Entity struct {
	ID         string         `json:"id"`
	Type       EntityType     `json:"type"`
	Position   Vec3           `json:"position"`
	Dimensions Vec3           `json:"dimensions"`
	Rotation   [4]float64     `json:"rotation"` // quaternion [x, y, z, w]
	Material   string         `json:"material"`
	Junction   string         `json:"junction,omitempty"`
	Layer      LayerType      `json:"layer"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Graph is the 3D scene graph of a generated world.
type Graph struct {
	Metadata Metadata `json:"metadata"`
	Entities []Entity `json:"entities"`
	Groups   Groups   `json:"groups"`
}

// Metadata holds scene-level information.
type Metadata struct {
	GraphHash   string      `json:"graph_hash"`
	Frame       int         `json:"frame"`
	GeneratedAt string      `json:"generated_at"`
	WorldBounds BoundingBox `json:"world_bounds"`
}

// Groups organizes entity IDs by various axes for fast filtering.
type Groups struct {
	Junctions   map[string][]string     `json:"junctions"`
	Layers      map[LayerType][]string  `json:"layers"`
	EntityTypes map[EntityType][]string `json:"entity_types"`
}

// NewGraph creates an empty scene graph.
func NewGraph() *Graph {
	return &Graph{
		Entities: []Entity{},
		Groups: Groups{
			Junctions:   make(map[string][]string),
			Layers:      make(map[LayerType][]string),
			EntityTypes: make(map[EntityType][]string),
		},
	}
}
