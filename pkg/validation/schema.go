package validation

import (
	"fmt"
	"math"

	"github.com/ChicagoDave/roadworld/pkg/marking"
	"github.com/ChicagoDave/roadworld/pkg/project"
)

// ValidateProject performs Level 1 (schema) validation on a parsed project.
// It checks structural correctness before any geometry is built.
func ValidateProject(p *project.Project) *Report {
	r := ValidateParams(p.Params)
	validateSkeleton(p, r)
	validateMarkings(p, r)
	return r
}

// ValidateParams checks generation parameters.
func ValidateParams(p project.Params) *Report {
	r := NewReport()

	positive := []struct {
		path  string
		value float64
	}{
		{"params.road_width", p.RoadWidth},
		{"params.building_width", p.BuildingWidth},
		{"params.building_min_length", p.BuildingMinLength},
		{"params.building_height", p.BuildingHeight},
		{"params.tree_size", p.TreeSize},
	}
	for _, f := range positive {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) || f.value <= 0 {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("%s must be a positive finite number", f.path),
				Path:        f.path,
				ActualValue: f.value,
				Expected:    "> 0",
			})
		}
	}

	if math.IsNaN(p.Spacing) || math.IsInf(p.Spacing, 0) || p.Spacing < 0 {
		r.AddError(Result{
			Level:       LevelSchema,
			Message:     "params.spacing must be non-negative",
			Path:        "params.spacing",
			ActualValue: p.Spacing,
			Expected:    ">= 0",
		})
	}

	if p.RoadRoundness < 1 {
		r.AddWarning(Result{
			Level:       LevelSchema,
			Message:     "params.road_roundness below 1 produces square road ends",
			Path:        "params.road_roundness",
			ActualValue: p.RoadRoundness,
			Expected:    ">= 1",
		})
	}

	if corridor := p.RoadWidth + p.BuildingWidth + 2*p.Spacing; corridor > 0 && p.TreeSize > 4*corridor {
		r.AddWarning(Result{
			Level:       LevelSchema,
			Message:     "params.tree_size is large relative to the road corridor; few or no trees will fit",
			Path:        "params.tree_size",
			ActualValue: p.TreeSize,
		})
	}

	return r
}

func validateSkeleton(p *project.Project, r *Report) {
	for i, pt := range p.Graph.Points {
		if !pt.IsFinite() {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("graph point %d is not finite", i),
				Path:        fmt.Sprintf("graph.points[%d]", i),
				ActualValue: fmt.Sprintf("(%v, %v)", pt.X, pt.Y),
			})
		}
	}
	for i, s := range p.Graph.Segments {
		path := fmt.Sprintf("graph.segments[%d]", i)
		if !s.P1.IsFinite() || !s.P2.IsFinite() {
			r.AddError(Result{
				Level:   LevelSchema,
				Message: fmt.Sprintf("graph segment %d has a non-finite endpoint", i),
				Path:    path,
			})
			continue
		}
		if s.P1.Equals(s.P2) {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("graph segment %d has zero length", i),
				Path:        path,
				ActualValue: fmt.Sprintf("(%v, %v)", s.P1.X, s.P1.Y),
				Expected:    "distinct endpoints",
			})
		}
	}
}

func validateMarkings(p *project.Project, r *Report) {
	for i, m := range p.Markings {
		path := fmt.Sprintf("markings[%d]", i)
		if _, err := marking.ParseKind(m.Type); err != nil {
			r.AddError(Result{
				Level:       LevelSchema,
				Message:     err.Error(),
				Path:        path + ".type",
				ActualValue: m.Type,
				Suggestions: kindNames(),
			})
		}
		if !m.Center.IsFinite() {
			r.AddError(Result{
				Level:   LevelSchema,
				Message: fmt.Sprintf("marking %d center is not finite", i),
				Path:    path + ".center",
			})
		}
		if !m.Direction.IsFinite() || m.Direction.Length() < 1e-12 {
			r.AddError(Result{
				Level:    LevelSchema,
				Message:  fmt.Sprintf("marking %d needs a non-zero direction", i),
				Path:     path + ".direction",
				Expected: "non-zero vector",
			})
		}
		if m.Width < 0 || m.Height < 0 {
			r.AddError(Result{
				Level:    LevelSchema,
				Message:  fmt.Sprintf("marking %d size must not be negative", i),
				Path:     path,
				Expected: ">= 0 (0 selects the default size)",
			})
		}
	}
}

func kindNames() []string {
	out := make([]string, len(marking.Kinds))
	for i, k := range marking.Kinds {
		out[i] = string(k)
	}
	return out
}
