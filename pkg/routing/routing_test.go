package routing

import (
	"math"
	"testing"

	"github.com/ChicagoDave/roadworld/pkg/geo"
	"github.com/ChicagoDave/roadworld/pkg/graph"
	"github.com/ChicagoDave/roadworld/pkg/marking"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// square builds a 1000x1000 loop: (0,0)->(1000,0)->(1000,1000)->(0,1000)->(0,0).
// The bottom edge is one-way eastbound.
func square() *graph.Graph {
	g := graph.New()
	ids := []graph.PointID{
		g.AddPoint(geo.Pt(0, 0)),
		g.AddPoint(geo.Pt(1000, 0)),
		g.AddPoint(geo.Pt(1000, 1000)),
		g.AddPoint(geo.Pt(0, 1000)),
	}
	g.AddSegment(graph.Edge{A: ids[0], B: ids[1], OneWay: true})
	g.AddSegment(graph.Edge{A: ids[1], B: ids[2]})
	g.AddSegment(graph.Edge{A: ids[2], B: ids[3]})
	g.AddSegment(graph.Edge{A: ids[3], B: ids[0]})
	return g
}

func TestShortestPathAlongOneWay(t *testing.T) {
	r, ok := ShortestPath(square(), geo.Pt(100, 10), geo.Pt(900, -10))
	if !ok {
		t.Fatal("expected a route")
	}
	if !approxEqual(r.Length, 800, 1e-9) {
		t.Errorf("expected length 800, got %f", r.Length)
	}
	if len(r.Points) != 2 {
		t.Errorf("expected a direct route, got %v", r.Points)
	}
}

func TestShortestPathDetoursAroundOneWay(t *testing.T) {
	r, ok := ShortestPath(square(), geo.Pt(900, 0), geo.Pt(100, 0))
	if !ok {
		t.Fatal("expected a route")
	}
	// 100 east to the corner, then around the other three sides, then 100 east.
	if !approxEqual(r.Length, 3200, 1e-9) {
		t.Errorf("expected detour of 3200, got %f", r.Length)
	}
	want := []geo.Point{
		geo.Pt(900, 0), geo.Pt(1000, 0), geo.Pt(1000, 1000),
		geo.Pt(0, 1000), geo.Pt(0, 0), geo.Pt(100, 0),
	}
	if len(r.Points) != len(want) {
		t.Fatalf("expected %d points, got %v", len(want), r.Points)
	}
	for i := range want {
		if r.Points[i].Distance(want[i]) > 1e-9 {
			t.Errorf("point %d: expected %v, got %v", i, want[i], r.Points[i])
		}
	}
}

func TestShortestPathTwoWayShortcut(t *testing.T) {
	r, ok := ShortestPath(square(), geo.Pt(1000, 900), geo.Pt(1000, 100))
	if !ok {
		t.Fatal("expected a route")
	}
	if !approxEqual(r.Length, 800, 1e-9) {
		t.Errorf("expected 800 on a two-way segment, got %f", r.Length)
	}
}

func TestShortestPathWithinSegmentIsExact(t *testing.T) {
	g := graph.New()
	a := g.AddPoint(geo.Pt(0, 0))
	b := g.AddPoint(geo.Pt(1000, 0))
	g.AddSegment(graph.Edge{A: a, B: b})

	r, ok := ShortestPath(g, geo.Pt(200, 25), geo.Pt(700, 25))
	if !ok {
		t.Fatal("expected a route")
	}
	if r.Length != 500 {
		t.Errorf("expected exactly 500, got %v", r.Length)
	}
	if len(r.Points) != 2 || !r.Points[0].Equals(geo.Pt(200, 0)) || !r.Points[1].Equals(geo.Pt(700, 0)) {
		t.Errorf("expected the snapped endpoints, got %v", r.Points)
	}
}

func TestShortestPathUnreachable(t *testing.T) {
	g := graph.New()
	a := g.AddPoint(geo.Pt(0, 0))
	b := g.AddPoint(geo.Pt(1000, 0))
	g.AddSegment(graph.Edge{A: a, B: b, OneWay: true})

	if _, ok := ShortestPath(g, geo.Pt(800, 0), geo.Pt(200, 0)); ok {
		t.Error("expected no route against a one-way street")
	}
	if _, ok := ShortestPath(graph.New(), geo.Pt(0, 0), geo.Pt(1, 1)); ok {
		t.Error("expected no route in an empty graph")
	}
}

func TestPlanRoute(t *testing.T) {
	start, err := marking.New(marking.KindStart, geo.Pt(1000, 500), geo.Pt(0, 1), 50, 50)
	if err != nil {
		t.Fatal(err)
	}
	target, err := marking.New(marking.KindTarget, geo.Pt(500, 1000), geo.Pt(-1, 0), 50, 50)
	if err != nil {
		t.Fatal(err)
	}

	r, report := PlanRoute(square(), []marking.Marking{target, start})
	if !report.Valid || len(report.Warnings) != 0 {
		t.Fatalf("unexpected report: %s", report.Summary)
	}
	if !approxEqual(r.Length, 1000, 1e-9) {
		t.Errorf("expected length 1000, got %f", r.Length)
	}

	_, report = PlanRoute(square(), []marking.Marking{start})
	if len(report.Info) != 1 || len(report.Warnings) != 0 {
		t.Errorf("expected a single info without a target, got %s", report.Summary)
	}
}

func TestPlanRouteWarnsWhenUnreachable(t *testing.T) {
	g := square()
	far := g.AddPoint(geo.Pt(5000, 5000))
	far2 := g.AddPoint(geo.Pt(6000, 5000))
	g.AddSegment(graph.Edge{A: far, B: far2})

	start, _ := marking.New(marking.KindStart, geo.Pt(500, 1000), geo.Pt(1, 0), 50, 50)
	target, _ := marking.New(marking.KindTarget, geo.Pt(5500, 5000), geo.Pt(1, 0), 50, 50)
	_, report := PlanRoute(g, []marking.Marking{start, target})
	if len(report.Warnings) != 1 {
		t.Errorf("expected 1 warning, got %d", len(report.Warnings))
	}
}

func TestBuildConnectivityHonorsOneWay(t *testing.T) {
	g := square()
	a, _ := g.Lookup(geo.Pt(0, 0))
	b, _ := g.Lookup(geo.Pt(1000, 0))
	conn := BuildConnectivity(g)

	if !contains(conn[a], b) {
		t.Error("expected A -> B along the one-way segment")
	}
	if contains(conn[b], a) {
		t.Error("expected no B -> A against the one-way segment")
	}
	if len(conn[b]) != 1 {
		t.Errorf("expected B to have 1 successor, got %v", conn[b])
	}
}

func TestComponents(t *testing.T) {
	g := square()
	lone := g.AddPoint(geo.Pt(3000, 3000))
	p := g.AddPoint(geo.Pt(5000, 5000))
	q := g.AddPoint(geo.Pt(6000, 5000))
	g.AddSegment(graph.Edge{A: p, B: q})

	comps := Components(g)
	if len(comps) != 3 {
		t.Fatalf("expected 3 components, got %d", len(comps))
	}
	if len(comps[0]) != 4 || len(comps[1]) != 1 || comps[1][0] != lone || len(comps[2]) != 2 {
		t.Errorf("unexpected components %v", comps)
	}

	report := ValidateConnectivity(g)
	if len(report.Warnings) != 1 {
		t.Errorf("expected a disconnected-network warning, got %d", len(report.Warnings))
	}
	if report := ValidateConnectivity(square()); len(report.Warnings) != 0 {
		t.Errorf("expected no warnings for a connected network, got %d", len(report.Warnings))
	}
}

func contains(ids []graph.PointID, id graph.PointID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
