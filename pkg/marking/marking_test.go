package marking

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/ChicagoDave/roadworld/pkg/geo"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func TestNewBuildsRectangle(t *testing.T) {
	m, err := New(KindStop, geo.Pt(0, 0), geo.Pt(0, 2), 50, 20)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !approxEqual(m.Direction.Length(), 1, 1e-12) {
		t.Errorf("expected unit direction, got %+v", m.Direction)
	}
	if len(m.Poly.Points) != 4 {
		t.Fatalf("expected 4 corners, got %d", len(m.Poly.Points))
	}
	if !approxEqual(m.Poly.Area(), 1000, 1e-6) {
		t.Errorf("expected area 1000, got %f", m.Poly.Area())
	}
	if !approxEqual(m.Support.Length(), 20, 1e-9) {
		t.Errorf("expected support length 20, got %f", m.Support.Length())
	}
}

func TestNewLightForcesHeightAndState(t *testing.T) {
	m, err := New(KindLight, geo.Pt(0, 0), geo.Pt(1, 0), 50, 50)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if m.Height != 18 {
		t.Errorf("expected height 18, got %f", m.Height)
	}
	if m.State != StateRed {
		t.Errorf("expected initial state red, got %q", m.State)
	}
	if !m.IsTrafficControl() {
		t.Error("expected light to be a traffic control")
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	if _, err := New("bogus", geo.Pt(0, 0), geo.Pt(1, 0), 1, 1); err == nil {
		t.Error("expected unknown kind to fail")
	}
	if _, err := New(KindStop, geo.Pt(0, 0), geo.Pt(0, 0), 1, 1); err == nil {
		t.Error("expected zero direction to fail")
	}
	if _, err := New(KindStop, geo.Pt(math.NaN(), 0), geo.Pt(1, 0), 1, 1); err == nil {
		t.Error("expected NaN center to fail")
	}
}

func TestBordersByKind(t *testing.T) {
	cases := map[Kind]int{
		KindStart:    0,
		KindTarget:   0,
		KindStop:     1,
		KindYield:    1,
		KindLight:    1,
		KindParking:  2,
		KindCrossing: 2,
	}
	for kind, want := range cases {
		m, err := New(kind, geo.Pt(0, 0), geo.Pt(1, 0), 40, 20)
		if err != nil {
			t.Fatalf("New(%s): %v", kind, err)
		}
		if got := len(m.Borders()); got != want {
			t.Errorf("%s: expected %d borders, got %d", kind, want, got)
		}
	}
}

func TestStopBorderIsBehindCenter(t *testing.T) {
	m, _ := New(KindStop, geo.Pt(0, 0), geo.Pt(1, 0), 40, 20)
	border := m.Borders()[0]
	mid := border.Midpoint()
	if !approxEqual(mid.X, -10, 1e-9) || !approxEqual(mid.Y, 0, 1e-9) {
		t.Errorf("expected stop line at (-10,0), got %+v", mid)
	}
}

func TestLaneConstrained(t *testing.T) {
	if KindCrossing.LaneConstrained() {
		t.Error("crossings snap to the road graph")
	}
	for _, k := range []Kind{KindStop, KindYield, KindParking, KindTarget, KindLight, KindStart} {
		if !k.LaneConstrained() {
			t.Errorf("%s should snap to lane guides", k)
		}
	}
}

func TestIntentProjectsOntoSegment(t *testing.T) {
	targets := []geo.Segment{geo.Seg(geo.Pt(0, 0), geo.Pt(100, 0))}
	m, ok := Intent(KindStop, geo.Pt(30, 5), targets, 10, 100)
	if !ok {
		t.Fatal("expected an intent near the segment")
	}
	if !m.Center.Equals(geo.Pt(30, 0)) {
		t.Errorf("expected center (30,0), got %+v", m.Center)
	}
	if m.Width != 50 || m.Height != 50 {
		t.Errorf("expected 50x50, got %vx%v", m.Width, m.Height)
	}

	if _, ok := Intent(KindStop, geo.Pt(30, 50), targets, 10, 100); ok {
		t.Error("expected no intent beyond threshold")
	}
	if _, ok := Intent(KindStop, geo.Pt(-5, 0), targets, 10, 100); ok {
		t.Error("expected no intent past the segment end")
	}
}

func TestRemoveAt(t *testing.T) {
	a, _ := New(KindTarget, geo.Pt(0, 0), geo.Pt(1, 0), 10, 10)
	b, _ := New(KindTarget, geo.Pt(100, 0), geo.Pt(1, 0), 10, 10)
	list, ok := RemoveAt([]Marking{a, b}, geo.Pt(100, 1))
	if !ok || len(list) != 1 || !list[0].Center.Equals(geo.Pt(0, 0)) {
		t.Errorf("expected second marking removed, got %+v ok=%v", list, ok)
	}
}

func TestLightsReturnsWritablePointers(t *testing.T) {
	l, _ := New(KindLight, geo.Pt(0, 0), geo.Pt(1, 0), 10, 10)
	s, _ := New(KindStop, geo.Pt(5, 0), geo.Pt(1, 0), 10, 10)
	list := []Marking{s, l}
	lights := Lights(list)
	if len(lights) != 1 {
		t.Fatalf("expected 1 light, got %d", len(lights))
	}
	lights[0].State = StateGreen
	if list[1].State != StateGreen {
		t.Error("expected state write to reach the slice")
	}
}

func TestJSONRebuildsGeometry(t *testing.T) {
	m, _ := New(KindLight, geo.Pt(3, 4), geo.Pt(0, 1), 50, 18)
	m.State = StateYellow
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got Marking
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Kind != KindLight || got.State != StateYellow {
		t.Errorf("expected yellow light, got %s %s", got.Kind, got.State)
	}
	if len(got.Poly.Points) != 4 {
		t.Errorf("expected rebuilt polygon, got %d points", len(got.Poly.Points))
	}
}
