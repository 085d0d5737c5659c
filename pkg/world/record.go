package world

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ChicagoDave/roadworld/pkg/geo"
	"github.com/ChicagoDave/roadworld/pkg/graph"
	"github.com/ChicagoDave/roadworld/pkg/marking"
	"github.com/ChicagoDave/roadworld/pkg/project"
)

// Record is the persisted form of a world. Parameters are flattened into the
// top level; graph segments name their endpoints by coordinate.
type Record struct {
	Graph graph.Record `json:"graph"`
	project.Params

	Envelopes   []geo.Envelope    `json:"envelopes"`
	RoadBorders []geo.Segment     `json:"roadBorders"`
	Buildings   []Building        `json:"buildings"`
	Trees       []Tree            `json:"trees"`
	LaneGuides  []geo.Segment     `json:"laneGuides"`
	Markings    []marking.Marking `json:"markings"`

	Zoom   float64   `json:"zoom"`
	Offset geo.Point `json:"offset"`
}

// Record snapshots the world.
func (w *World) Record() Record {
	return Record{
		Graph:       w.Graph.Record(),
		Params:      w.Params,
		Envelopes:   w.Envelopes,
		RoadBorders: w.RoadBorders,
		Buildings:   w.Buildings,
		Trees:       w.Trees,
		LaneGuides:  w.LaneGuides,
		Markings:    w.Markings,
		Zoom:        w.Zoom,
		Offset:      w.Offset,
	}
}

// FromRecord restores a world without regenerating it. Graph point identity
// is re-established by coordinate.
func FromRecord(rec Record) (*World, error) {
	g, err := graph.Load(rec.Graph)
	if err != nil {
		return nil, fmt.Errorf("loading graph: %w", err)
	}
	w := New(g, rec.Params)
	w.Envelopes = rec.Envelopes
	w.RoadBorders = rec.RoadBorders
	w.Buildings = rec.Buildings
	w.LaneGuides = rec.LaneGuides
	w.Markings = rec.Markings
	w.Trees = make([]Tree, len(rec.Trees))
	for i, t := range rec.Trees {
		if t.Size == 0 {
			t.Size = w.Params.TreeSize
		}
		if t.Height == 0 {
			t.Height = defaultTreeHeight
		}
		w.Trees[i] = t
	}
	if rec.Zoom != 0 {
		w.Zoom = rec.Zoom
	}
	w.Offset = rec.Offset

	w.rebuildIndex()
	w.lastHash = g.Hash()
	w.generated = true
	return w, nil
}

// Save writes the world as indented JSON.
func (w *World) Save(out io.Writer) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(w.Record()); err != nil {
		return fmt.Errorf("encoding world: %w", err)
	}
	return nil
}

// Load reads a world saved by Save.
func Load(in io.Reader) (*World, error) {
	var rec Record
	if err := json.NewDecoder(in).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decoding world: %w", err)
	}
	return FromRecord(rec)
}

// FromProject builds an ungenerated world from a loaded project.
func FromProject(p *project.Project) (*World, error) {
	g, err := p.BuildGraph()
	if err != nil {
		return nil, err
	}
	ms, err := p.BuildMarkings()
	if err != nil {
		return nil, err
	}
	w := New(g, p.Params)
	w.Markings = ms
	w.Zoom = p.View.Zoom
	w.Offset = p.View.Offset
	return w, nil
}
