package scene

import (
	"testing"
)

func TestLargeGrid(t *testing.T) {
	g := Assemble(gridWorld(6))
	if len(g.Entities) == 0 {
		t.Fatal("expected entities for 6x6 grid")
	}
	t.Logf("6x6 grid: %d entities", len(g.Entities))

	for et, ids := range g.Groups.EntityTypes {
		t.Logf("  %s: %d", et, len(ids))
	}
	if n := len(g.Groups.EntityTypes[EntityRoad]); n != 84 {
		t.Errorf("expected 84 road entities, got %d", n)
	}
}

func BenchmarkGenerateGrid3(b *testing.B) {
	for b.Loop() {
		gridWorld(3)
	}
}

func BenchmarkGenerateGrid6(b *testing.B) {
	for b.Loop() {
		gridWorld(6)
	}
}

func BenchmarkAssembleGrid6(b *testing.B) {
	w := gridWorld(6)
	for b.Loop() {
		Assemble(w)
	}
}
