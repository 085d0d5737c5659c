package project

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ChicagoDave/roadworld/pkg/geo"
	"github.com/ChicagoDave/roadworld/pkg/graph"
	"github.com/ChicagoDave/roadworld/pkg/marking"
)

// FileName is the project file looked up by LoadProject.
const FileName = "roadworld.yaml"

// defaultRenderRadius is the viewer's draw distance.
const defaultRenderRadius = 1000

// Load reads a project from a YAML file.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}
	return Parse(data)
}

// Parse decodes project YAML and applies parameter defaults.
func Parse(data []byte) (*Project, error) {
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing project YAML: %w", err)
	}
	p.Params = p.Params.WithDefaults()
	if p.View.Zoom == 0 {
		p.View.Zoom = 1
	}
	if p.View.RenderRadius == 0 {
		p.View.RenderRadius = defaultRenderRadius
	}
	return &p, nil
}

// LoadProject loads a project from a directory.
// It looks for roadworld.yaml in the given directory.
func LoadProject(projectDir string) (*Project, error) {
	return Load(filepath.Join(projectDir, FileName))
}

// BuildGraph resolves the skeleton into a graph with shared point identity.
func (p *Project) BuildGraph() (*graph.Graph, error) {
	rec := graph.Record{Points: p.Graph.Points}
	for _, s := range p.Graph.Segments {
		rec.Segments = append(rec.Segments, geo.Segment{P1: s.P1, P2: s.P2, OneWay: s.OneWay})
	}
	g, err := graph.Load(rec)
	if err != nil {
		return nil, fmt.Errorf("building graph: %w", err)
	}
	return g, nil
}

// BuildMarkings constructs the placed markings.
func (p *Project) BuildMarkings() ([]marking.Marking, error) {
	out := make([]marking.Marking, 0, len(p.Markings))
	for i, def := range p.Markings {
		kind, err := marking.ParseKind(def.Type)
		if err != nil {
			return nil, fmt.Errorf("markings[%d]: %w", i, err)
		}
		w, h := marking.DefaultSize(kind, p.Params.RoadWidth)
		if def.Width > 0 {
			w = def.Width
		}
		if def.Height > 0 {
			h = def.Height
		}
		m, err := marking.New(kind, def.Center, def.Direction, w, h)
		if err != nil {
			return nil, fmt.Errorf("markings[%d]: %w", i, err)
		}
		out = append(out, m)
	}
	return out, nil
}
