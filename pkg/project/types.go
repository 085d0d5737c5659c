package project

import "github.com/ChicagoDave/roadworld/pkg/geo"

// Project is the top-level description of a road world: generation
// parameters, the road skeleton and the placed markings.
type Project struct {
	Name     string       `yaml:"name" json:"name"`
	Params   Params       `yaml:"params" json:"params"`
	Graph    GraphDef     `yaml:"graph" json:"graph"`
	Markings []MarkingDef `yaml:"markings" json:"markings"`
	View     ViewDef      `yaml:"view" json:"view"`
}

// Params controls world generation. A zero field means "use the default":
// WithDefaults replaces it when a project is loaded or a world is built, so
// a literal 0 (for instance spacing: 0) cannot be expressed and does not
// survive a save and reload. Seed is the exception; 0 is a valid seed.
type Params struct {
	RoadWidth         float64 `yaml:"road_width" json:"roadWidth"`
	RoadRoundness     int     `yaml:"road_roundness" json:"roadRoundness"`
	BuildingWidth     float64 `yaml:"building_width" json:"buildingWidth"`
	BuildingMinLength float64 `yaml:"building_min_length" json:"buildingMinLength"`
	BuildingHeight    float64 `yaml:"building_height" json:"buildingHeight"`
	Spacing           float64 `yaml:"spacing" json:"spacing"`
	TreeSize          float64 `yaml:"tree_size" json:"treeSize"`
	Seed              int64   `yaml:"seed" json:"seed"`
}

// DefaultParams returns the stock generation parameters.
func DefaultParams() Params {
	return Params{
		RoadWidth:         100,
		RoadRoundness:     10,
		BuildingWidth:     150,
		BuildingMinLength: 150,
		BuildingHeight:    200,
		Spacing:           50,
		TreeSize:          160,
	}
}

// WithDefaults replaces zero fields, other than Seed, with DefaultParams.
func (p Params) WithDefaults() Params {
	d := DefaultParams()
	if p.RoadWidth == 0 {
		p.RoadWidth = d.RoadWidth
	}
	if p.RoadRoundness == 0 {
		p.RoadRoundness = d.RoadRoundness
	}
	if p.BuildingWidth == 0 {
		p.BuildingWidth = d.BuildingWidth
	}
	if p.BuildingMinLength == 0 {
		p.BuildingMinLength = d.BuildingMinLength
	}
	if p.BuildingHeight == 0 {
		p.BuildingHeight = d.BuildingHeight
	}
	if p.Spacing == 0 {
		p.Spacing = d.Spacing
	}
	if p.TreeSize == 0 {
		p.TreeSize = d.TreeSize
	}
	return p
}

// GraphDef lists skeleton points and segments by coordinate.
type GraphDef struct {
	Points   []geo.Point  `yaml:"points" json:"points"`
	Segments []SegmentDef `yaml:"segments" json:"segments"`
}

type SegmentDef struct {
	P1     geo.Point `yaml:"p1" json:"p1"`
	P2     geo.Point `yaml:"p2" json:"p2"`
	OneWay bool      `yaml:"one_way" json:"oneWay"`
}

// MarkingDef places one marking. Width and height default to the editor
// sizes for the kind when zero.
type MarkingDef struct {
	Type      string    `yaml:"type" json:"type"`
	Center    geo.Point `yaml:"center" json:"center"`
	Direction geo.Point `yaml:"direction" json:"direction"`
	Width     float64   `yaml:"width" json:"width"`
	Height    float64   `yaml:"height" json:"height"`
}

// ViewDef is the default camera for rendering.
type ViewDef struct {
	Zoom         float64   `yaml:"zoom" json:"zoom"`
	Offset       geo.Point `yaml:"offset" json:"offset"`
	ViewPoint    geo.Point `yaml:"view_point" json:"viewPoint"`
	RenderRadius float64   `yaml:"render_radius" json:"renderRadius"`
}
