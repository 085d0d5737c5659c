package analytics

import (
	"fmt"

	"github.com/ChicagoDave/roadworld/pkg/validation"
	"github.com/ChicagoDave/roadworld/pkg/world"
)

// validateAnalytical runs checks on the measured world.
func validateAnalytical(w *world.World, m *Metrics, report *validation.Report) {
	validateLightCoverage(m, report)
	validateJunctionLights(m, report)
	validateRoadOverlap(w, m, report)

	report.AddInfo(validation.Result{
		Level: validation.LevelGeneration,
		Message: fmt.Sprintf("road length %.0f, road area %.0f (%.1f%% of site), built area %.0f (%.1f%% of site)",
			m.Network.RoadLength, m.Land.RoadArea, m.Land.RoadCoverage*100,
			m.Land.BuiltArea, m.Land.BuildingCoverage*100),
	})
}

// validateLightCoverage flags lights that no junction controls. Their state
// stays as it was.
func validateLightCoverage(m *Metrics, report *validation.Report) {
	controlled := 0
	for _, j := range m.Junctions {
		controlled += j.Lights
	}
	if lights := m.Markings["light"]; lights > controlled {
		report.AddWarning(validation.Result{
			Level:       validation.LevelGeneration,
			Message:     fmt.Sprintf("%d of %d lights have no intersection to control them", lights-controlled, lights),
			Path:        "markings",
			ActualValue: lights - controlled,
			Expected:    "0",
			Suggestions: []string{"add a point joining three or more segments near the lights"},
		})
	}
}

// validateJunctionLights flags junctions with more lights than approaches.
func validateJunctionLights(m *Metrics, report *validation.Report) {
	for _, j := range m.Junctions {
		if j.Degree > 0 && j.Lights > j.Degree {
			report.AddWarning(validation.Result{
				Level:        validation.LevelGeneration,
				Message:      fmt.Sprintf("junction at (%.0f, %.0f) has %d lights for %d approaches", j.Position[0], j.Position[1], j.Lights, j.Degree),
				Path:         "markings",
				ActualValue:  j.Lights,
				Expected:     fmt.Sprintf("<= %d", j.Degree),
				ConflictWith: "graph",
			})
		}
	}
}

func validateRoadOverlap(w *world.World, m *Metrics, report *validation.Report) {
	if len(w.Envelopes) < 2 || m.Land.RoadArea == 0 {
		return
	}
	report.AddInfo(validation.Result{
		Level: validation.LevelGeneration,
		Message: fmt.Sprintf("road envelopes overlap by %.0f (%.1f%% of road area)",
			m.Land.RoadOverlapArea, m.Land.RoadOverlapArea/m.Land.RoadArea*100),
	})
}
