package scene2d

import "github.com/ChicagoDave/roadworld/pkg/project"

// Scene2D is a flattened snapshot of a generated world for top-down clients.
// Coordinates are [x, y] pairs in world units.
type Scene2D struct {
	Metadata   Metadata     `json:"metadata"`
	Roads      []Road2D     `json:"roads"`
	Borders    []Line2D     `json:"borders"`
	LaneGuides []Line2D     `json:"lane_guides"`
	Buildings  []Building2D `json:"buildings"`
	Trees      []Tree2D     `json:"trees"`
	Markings   []Marking2D  `json:"markings"`
	Junctions  []Junction2D `json:"junctions"`
	Summary    Summary      `json:"summary"`
}

// Metadata holds world-level summary data.
type Metadata struct {
	PointCount    int            `json:"point_count"`
	SegmentCount  int            `json:"segment_count"`
	Intersections int            `json:"intersections"`
	Frame         int            `json:"frame"`
	GraphHash     string         `json:"graph_hash"`
	Bounds        [2][2]float64  `json:"bounds"`
	Params        project.Params `json:"params"`
	GeneratedAt   string         `json:"generated_at"`
}

// Road2D is one skeleton segment with its road surface outline.
type Road2D struct {
	Start   [2]float64   `json:"start"`
	End     [2]float64   `json:"end"`
	OneWay  bool         `json:"one_way"`
	Surface [][2]float64 `json:"surface"`
}

// Line2D is a straight line piece.
type Line2D struct {
	Start [2]float64 `json:"start"`
	End   [2]float64 `json:"end"`
}

// Building2D is a building footprint.
type Building2D struct {
	Footprint [][2]float64 `json:"footprint"`
	Height    float64      `json:"height"`
	Area      float64      `json:"area"`
}

// Tree2D is a tree trunk position.
type Tree2D struct {
	Position [2]float64 `json:"position"`
	Size     float64    `json:"size"`
}

// Marking2D is a road marking with its rectangle.
type Marking2D struct {
	Type      string       `json:"type"`
	Center    [2]float64   `json:"center"`
	Direction [2]float64   `json:"direction"`
	Width     float64      `json:"width"`
	Height    float64      `json:"height"`
	State     string       `json:"state,omitempty"`
	Polygon   [][2]float64 `json:"polygon"`
}

// Junction2D is a traffic-light control center.
type Junction2D struct {
	Position [2]float64 `json:"position"`
	Lights   int        `json:"lights"`
	Cycle    int        `json:"cycle_ticks"`
}

// Summary holds aggregate counts and areas.
type Summary struct {
	TotalBuildings int     `json:"total_buildings"`
	TotalArea      float64 `json:"total_area"`
	TotalTrees     int     `json:"total_trees"`
	RoadArea       float64 `json:"road_area"`
}
