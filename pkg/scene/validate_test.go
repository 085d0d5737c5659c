package scene

import (
	"testing"
)

func validGraph() *Graph {
	g := NewGraph()
	g.Entities = []Entity{
		{
			ID:         "bld-1",
			Type:       EntityBuilding,
			Position:   Vec3{X: 10, Y: 0, Z: 20},
			Dimensions: Vec3{X: 5, Y: 12, Z: 5},
			Rotation:   identityQuat(),
			Material:   "concrete",
			Layer:      LayerStructure,
		},
		{
			ID:         "light-1",
			Type:       EntityLight,
			Position:   Vec3{X: 10, Y: 0, Z: 40},
			Dimensions: Vec3{X: 18, Y: 40, Z: 50},
			Rotation:   identityQuat(),
			Material:   "steel",
			Junction:   "junction-0",
			Layer:      LayerMarking,
		},
	}
	g.Groups.Junctions["junction-0"] = []string{"light-1"}
	g.Groups.Layers[LayerStructure] = []string{"bld-1"}
	g.Groups.Layers[LayerMarking] = []string{"light-1"}
	g.Groups.EntityTypes[EntityBuilding] = []string{"bld-1"}
	g.Groups.EntityTypes[EntityLight] = []string{"light-1"}
	g.Metadata = Metadata{
		WorldBounds: BoundingBox{
			Min: Vec3{X: -100, Y: 0, Z: -100},
			Max: Vec3{X: 100, Y: 50, Z: 100},
		},
	}
	return g
}

func TestValidateGraph_Valid(t *testing.T) {
	r := ValidateGraph(validGraph())
	if !r.Valid {
		t.Errorf("expected valid, got %d errors", len(r.Errors))
		for _, e := range r.Errors {
			t.Logf("  error: %s", e.Message)
		}
	}
	if len(r.Warnings) != 0 {
		t.Errorf("expected no warnings, got %d", len(r.Warnings))
	}
}

func TestValidateGraph_Nil(t *testing.T) {
	r := ValidateGraph(nil)
	if r.Valid {
		t.Error("expected invalid for nil graph")
	}
}

func TestValidateGraph_DuplicateID(t *testing.T) {
	g := validGraph()
	g.Entities[1].ID = "bld-1"
	r := ValidateGraph(g)
	if r.Valid {
		t.Error("expected invalid for duplicate IDs")
	}
}

func TestValidateGraph_DanglingGroupReference(t *testing.T) {
	g := validGraph()
	g.Groups.Junctions["junction-0"] = append(g.Groups.Junctions["junction-0"], "light-9")
	r := ValidateGraph(g)
	if !r.HasErrorAt("groups.junctions.junction-0") {
		t.Error("expected error for group referencing a missing entity")
	}
}

func TestValidateGraph_MissingMembership(t *testing.T) {
	g := validGraph()
	g.Groups.Layers[LayerStructure] = nil
	r := ValidateGraph(g)
	if !r.HasErrorAt("groups.layers.structure") {
		t.Error("expected error for entity missing from its layer group")
	}

	g = validGraph()
	delete(g.Groups.Junctions, "junction-0")
	r = ValidateGraph(g)
	if !r.HasErrorAt("groups.junctions") {
		t.Error("expected error for entity naming an unknown junction")
	}
}

func TestValidateGraph_OutOfBounds(t *testing.T) {
	g := validGraph()
	g.Entities[0].Position.X = 500
	r := ValidateGraph(g)
	if len(r.Warnings) == 0 {
		t.Error("expected bounds warning")
	}
}

func TestValidateGraph_DegenerateDimensions(t *testing.T) {
	g := validGraph()
	g.Entities[0].Dimensions.Y = 0
	r := ValidateGraph(g)
	if len(r.Warnings) == 0 {
		t.Error("expected dimension warning")
	}
}
