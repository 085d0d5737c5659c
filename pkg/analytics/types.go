package analytics

// Metrics holds the measured values of a generated world.
type Metrics struct {
	Network   NetworkMetrics `json:"network"`
	Land      LandUse        `json:"land"`
	Junctions []JunctionData `json:"junctions"`
	Markings  map[string]int `json:"markings"`
}

// NetworkMetrics describes the road graph and its derived outlines.
type NetworkMetrics struct {
	Points          int     `json:"points"`
	Segments        int     `json:"segments"`
	OneWaySegments  int     `json:"one_way_segments"`
	Intersections   int     `json:"intersections"`
	DeadEnds        int     `json:"dead_ends"`
	RoadLength      float64 `json:"road_length"`
	BorderLength    float64 `json:"border_length"`
	LaneGuideLength float64 `json:"lane_guide_length"`
}

// LandUse splits the site area between roads, buildings and trees.
type LandUse struct {
	SiteArea         float64 `json:"site_area"`
	RoadArea         float64 `json:"road_area"`
	RoadOverlapArea  float64 `json:"road_overlap_area"`
	Buildings        int     `json:"buildings"`
	BuiltArea        float64 `json:"built_area"`
	BuiltVolume      float64 `json:"built_volume"`
	BuildingCoverage float64 `json:"building_coverage"`
	RoadCoverage     float64 `json:"road_coverage"`
	Trees            int     `json:"trees"`
}

// JunctionData holds the light grouping of one intersection.
type JunctionData struct {
	Position   [2]float64 `json:"position"`
	Degree     int        `json:"degree"`
	Lights     int        `json:"lights"`
	CycleTicks int        `json:"cycle_ticks"`
}
