package scene

import (
	"fmt"
	"math"

	"github.com/ChicagoDave/roadworld/pkg/validation"
)

// boundsTolerance absorbs rounding in the enclosure check.
const boundsTolerance = 1.0

// ValidateGraph performs structural validation on a scene graph output.
// It checks entity integrity, group index consistency and bounds enclosure.
func ValidateGraph(g *Graph) *validation.Report {
	r := validation.NewReport()

	if g == nil {
		r.AddError(validation.Result{
			Level:   validation.LevelGeneration,
			Message: "scene graph is nil",
		})
		return r
	}

	validateEntityIDs(g, r)
	validateGroupIndices(g, r)
	validateGroupMembership(g, r)
	validateBoundsEnclosure(g, r)
	validateEntityDimensions(g, r)

	return r
}

func validateEntityIDs(g *Graph, r *validation.Report) {
	seen := make(map[string]int, len(g.Entities))

	for i, e := range g.Entities {
		if e.ID == "" {
			r.AddError(validation.Result{
				Level:       validation.LevelGeneration,
				Message:     fmt.Sprintf("entity at index %d has empty ID", i),
				Path:        fmt.Sprintf("entities[%d].id", i),
				ActualValue: "",
				Expected:    "non-empty string",
			})
			continue
		}
		if prev, exists := seen[e.ID]; exists {
			r.AddError(validation.Result{
				Level:       validation.LevelGeneration,
				Message:     fmt.Sprintf("duplicate entity ID %q at indices %d and %d", e.ID, prev, i),
				Path:        fmt.Sprintf("entities[%d].id", i),
				ActualValue: e.ID,
			})
		}
		seen[e.ID] = i
	}
}

func validateGroupIndices(g *Graph, r *validation.Report) {
	entityIDs := make(map[string]bool, len(g.Entities))
	for _, e := range g.Entities {
		entityIDs[e.ID] = true
	}

	checkGroup := func(groupType, groupName string, ids []string) {
		for _, id := range ids {
			if !entityIDs[id] {
				r.AddError(validation.Result{
					Level:       validation.LevelGeneration,
					Message:     fmt.Sprintf("group %s.%s references non-existent entity %q", groupType, groupName, id),
					Path:        fmt.Sprintf("groups.%s.%s", groupType, groupName),
					ActualValue: id,
					Expected:    "existing entity ID",
				})
			}
		}
	}

	for name, ids := range g.Groups.Junctions {
		checkGroup("junctions", name, ids)
	}
	for name, ids := range g.Groups.Layers {
		checkGroup("layers", string(name), ids)
	}
	for name, ids := range g.Groups.EntityTypes {
		checkGroup("entity_types", string(name), ids)
	}
}

func memberSets[K ~string](groups map[K][]string) map[string]map[string]bool {
	out := make(map[string]map[string]bool, len(groups))
	for name, ids := range groups {
		m := make(map[string]bool, len(ids))
		for _, id := range ids {
			m[id] = true
		}
		out[string(name)] = m
	}
	return out
}

func validateGroupMembership(g *Graph, r *validation.Report) {
	checks := []struct {
		group   string
		members map[string]map[string]bool
		key     func(Entity) string
	}{
		{"layers", memberSets(g.Groups.Layers), func(e Entity) string { return string(e.Layer) }},
		{"entity_types", memberSets(g.Groups.EntityTypes), func(e Entity) string { return string(e.Type) }},
		{"junctions", memberSets(g.Groups.Junctions), func(e Entity) string { return e.Junction }},
	}

	for _, e := range g.Entities {
		if e.ID == "" {
			continue
		}
		for _, c := range checks {
			key := c.key(e)
			if key == "" {
				continue
			}
			m, ok := c.members[key]
			if !ok {
				r.AddError(validation.Result{
					Level:       validation.LevelGeneration,
					Message:     fmt.Sprintf("entity %q has %s %q but no such group exists", e.ID, c.group, key),
					Path:        "groups." + c.group,
					ActualValue: key,
				})
				continue
			}
			if !m[e.ID] {
				r.AddError(validation.Result{
					Level:       validation.LevelGeneration,
					Message:     fmt.Sprintf("entity %q is missing from group %s.%s", e.ID, c.group, key),
					Path:        fmt.Sprintf("groups.%s.%s", c.group, key),
					ActualValue: e.ID,
				})
			}
		}
	}
}

func validateBoundsEnclosure(g *Graph, r *validation.Report) {
	bounds := g.Metadata.WorldBounds

	for _, e := range g.Entities {
		halfX, halfZ := horizontalExtent(e)

		if e.Position.X-halfX < bounds.Min.X-boundsTolerance || e.Position.X+halfX > bounds.Max.X+boundsTolerance ||
			e.Position.Z-halfZ < bounds.Min.Z-boundsTolerance || e.Position.Z+halfZ > bounds.Max.Z+boundsTolerance {
			r.AddWarning(validation.Result{
				Level:       validation.LevelGeneration,
				Message:     fmt.Sprintf("entity %q extends outside world bounds", e.ID),
				Path:        "metadata.world_bounds",
				ActualValue: e.Position,
			})
			break
		}
	}
}

func validateEntityDimensions(g *Graph, r *validation.Report) {
	for _, e := range g.Entities {
		d := e.Dimensions
		finite := !math.IsNaN(d.X+d.Y+d.Z) && !math.IsInf(d.X+d.Y+d.Z, 0)
		if !finite || d.X <= 0 || d.Y <= 0 || d.Z <= 0 {
			r.AddWarning(validation.Result{
				Level:       validation.LevelGeneration,
				Message:     fmt.Sprintf("entity %q has degenerate dimension (%.2f, %.2f, %.2f)", e.ID, d.X, d.Y, d.Z),
				Path:        fmt.Sprintf("entities.%s.dimensions", e.ID),
				ActualValue: fmt.Sprintf("%.2f x %.2f x %.2f", d.X, d.Y, d.Z),
				Expected:    "all dimensions > 0",
			})
		}
	}
}
