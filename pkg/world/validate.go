package world

import (
	"fmt"

	"github.com/ChicagoDave/roadworld/pkg/geo"
	"github.com/ChicagoDave/roadworld/pkg/validation"
)

// ValidateOutput performs structural validation on generated geometry.
// It checks for non-finite coordinates, building overlap and tree spacing.
func ValidateOutput(w *World) *validation.Report {
	r := validation.NewReport()

	if w == nil {
		r.AddError(validation.Result{
			Level:   validation.LevelGeneration,
			Message: "world is nil",
		})
		return r
	}

	validateFinite(w, r)
	validateBuildingSpacing(w, r)
	validateTreePlacement(w, r)

	return r
}

func validateFinite(w *World, r *validation.Report) {
	check := func(path string, pts ...geo.Point) {
		for _, p := range pts {
			if !p.IsFinite() {
				r.AddError(validation.Result{
					Level:       validation.LevelGeneration,
					Message:     fmt.Sprintf("%s has a non-finite coordinate", path),
					Path:        path,
					ActualValue: fmt.Sprintf("(%v, %v)", p.X, p.Y),
				})
				return
			}
		}
	}
	for i, e := range w.Envelopes {
		check(fmt.Sprintf("envelopes[%d]", i), e.Poly.Points...)
	}
	for i, s := range w.RoadBorders {
		check(fmt.Sprintf("roadBorders[%d]", i), s.P1, s.P2)
	}
	for i, s := range w.LaneGuides {
		check(fmt.Sprintf("laneGuides[%d]", i), s.P1, s.P2)
	}
	for i, b := range w.Buildings {
		check(fmt.Sprintf("buildings[%d]", i), b.Base.Points...)
	}
	for i, t := range w.Trees {
		check(fmt.Sprintf("trees[%d]", i), t.Center)
	}
}

func validateBuildingSpacing(w *World, r *validation.Report) {
	for i := 0; i < len(w.Buildings)-1; i++ {
		for j := i + 1; j < len(w.Buildings); j++ {
			a, b := w.Buildings[i].Base, w.Buildings[j].Base
			if a.IntersectsPoly(b) {
				r.AddError(validation.Result{
					Level:        validation.LevelGeneration,
					Message:      fmt.Sprintf("buildings %d and %d overlap", i, j),
					Path:         fmt.Sprintf("buildings[%d]", i),
					ConflictWith: fmt.Sprintf("buildings[%d]", j),
				})
				continue
			}
			if d := a.DistanceToPoly(b); d < w.Params.Spacing-buildingEps {
				r.AddError(validation.Result{
					Level:        validation.LevelGeneration,
					Message:      fmt.Sprintf("buildings %d and %d are %.3f apart", i, j, d),
					Path:         fmt.Sprintf("buildings[%d]", i),
					ConflictWith: fmt.Sprintf("buildings[%d]", j),
					ActualValue:  d,
					Expected:     fmt.Sprintf(">= %v", w.Params.Spacing),
				})
			}
		}
	}
}

func validateTreePlacement(w *World, r *validation.Report) {
	for i := 0; i < len(w.Trees); i++ {
		for j := i + 1; j < len(w.Trees); j++ {
			if d := w.Trees[i].Center.Distance(w.Trees[j].Center); d < w.Params.TreeSize {
				r.AddError(validation.Result{
					Level:        validation.LevelGeneration,
					Message:      fmt.Sprintf("trees %d and %d are %.3f apart", i, j, d),
					Path:         fmt.Sprintf("trees[%d]", i),
					ConflictWith: fmt.Sprintf("trees[%d]", j),
					ActualValue:  d,
					Expected:     fmt.Sprintf(">= %v", w.Params.TreeSize),
				})
			}
		}
		for j, b := range w.Buildings {
			if b.Base.ContainsPoint(w.Trees[i].Center) {
				r.AddWarning(validation.Result{
					Level:        validation.LevelGeneration,
					Message:      fmt.Sprintf("tree %d stands inside building %d", i, j),
					Path:         fmt.Sprintf("trees[%d]", i),
					ConflictWith: fmt.Sprintf("buildings[%d]", j),
				})
			}
		}
	}

	r.AddInfo(validation.Result{
		Level: validation.LevelGeneration,
		Message: fmt.Sprintf("%d buildings, %d trees, %d markings",
			len(w.Buildings), len(w.Trees), len(w.Markings)),
	})
}
