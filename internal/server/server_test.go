package server

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ChicagoDave/roadworld/pkg/geo"
	"github.com/ChicagoDave/roadworld/pkg/graph"
	"github.com/ChicagoDave/roadworld/pkg/marking"
	"github.com/ChicagoDave/roadworld/pkg/project"
	"github.com/ChicagoDave/roadworld/pkg/world"
)

func testServer(t *testing.T) (*Server, *world.World) {
	t.Helper()
	g := graph.New()
	a := g.AddPoint(geo.Pt(0, 0))
	b := g.AddPoint(geo.Pt(1000, 0))
	g.AddSegment(graph.Edge{A: a, B: b})
	w := world.New(g, project.DefaultParams())
	w.Generate()
	return NewWithWorld(w, 0, 60), w
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func writeProject(t *testing.T, yaml string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, project.FileName), []byte(yaml), 0o644); err != nil {
		t.Fatalf("writing project: %v", err)
	}
	return dir
}

func TestNewRejectsInvalidProject(t *testing.T) {
	dir := writeProject(t, `name: broken
params:
  road_width: .nan
graph:
  points:
    - {x: 0, y: 0}
    - {x: 1000, y: 0}
  segments:
    - {p1: {x: 0, y: 0}, p2: {x: 1000, y: 0}}
`)
	s, err := New(dir, 0, 0)
	if err == nil {
		t.Fatal("expected an error for a NaN road width")
	}
	if s != nil {
		t.Error("expected no server")
	}
	if !strings.Contains(err.Error(), "params.road_width") {
		t.Errorf("expected the failing path in the error, got %v", err)
	}
}

func TestNewLoadsProject(t *testing.T) {
	dir := writeProject(t, `name: straight
graph:
  points:
    - {x: 0, y: 0}
    - {x: 1000, y: 0}
  segments:
    - {p1: {x: 0, y: 0}, p2: {x: 1000, y: 0}}
`)
	s, err := New(dir, 0, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(s.world.Buildings) == 0 {
		t.Error("expected a generated world")
	}
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAddPoint(t *testing.T) {
	s, w := testServer(t)
	h := s.Handler()

	rec := do(t, h, "POST", "/api/points", `{"x": 0, "y": 500}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}
	var resp struct {
		ID graph.PointID `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if p, ok := w.Graph.Point(resp.ID); !ok || !p.Equals(geo.Pt(0, 500)) {
		t.Errorf("expected point (0,500) under id %d", resp.ID)
	}

	rec = do(t, h, "POST", "/api/points", `{"x": 0, "y": 500}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate, got %d", rec.Code)
	}
	rec = do(t, h, "POST", "/api/points", `not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad body, got %d", rec.Code)
	}
}

func TestSegmentEditsRegenerate(t *testing.T) {
	s, w := testServer(t)
	h := s.Handler()
	before := len(w.Buildings)

	a, _ := w.Graph.Lookup(geo.Pt(1000, 0))
	c := w.Graph.AddPoint(geo.Pt(1000, 1000))

	body := `{"a": ` + strconv.Itoa(int(a)) + `, "b": ` + strconv.Itoa(int(c)) + `}`
	if rec := do(t, h, "POST", "/api/segments", body); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}
	if rec := do(t, h, "POST", "/api/segments", body); rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate segment, got %d", rec.Code)
	}

	rec := do(t, h, "GET", "/api/world", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(w.Envelopes) != 2 {
		t.Errorf("expected regeneration to produce 2 envelopes, got %d", len(w.Envelopes))
	}
	if len(w.Buildings) <= before {
		t.Errorf("expected more buildings after adding a road, got %d (was %d)", len(w.Buildings), before)
	}

	path := "/api/segments/" + strconv.Itoa(int(c)) + "/" + strconv.Itoa(int(a))
	if rec := do(t, h, "DELETE", path, ""); rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 removing reversed edge, got %d", rec.Code)
	}
	if rec := do(t, h, "DELETE", path, ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second removal, got %d", rec.Code)
	}
}

func TestMoveAndRemovePoint(t *testing.T) {
	s, w := testServer(t)
	h := s.Handler()
	id, _ := w.Graph.Lookup(geo.Pt(1000, 0))

	if rec := do(t, h, "PUT", "/api/points/"+strconv.Itoa(int(id)), `{"x": 800, "y": 0}`); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body)
	}
	if !w.Graph.ContainsPoint(geo.Pt(800, 0)) {
		t.Error("expected moved point")
	}
	if rec := do(t, h, "PUT", "/api/points/"+strconv.Itoa(int(id)), `{"x": 0, "y": 0}`); rec.Code != http.StatusConflict {
		t.Errorf("expected 409 moving onto an existing point, got %d", rec.Code)
	}
	if rec := do(t, h, "DELETE", "/api/points/"+strconv.Itoa(int(id)), ""); rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if w.Graph.SegmentCount() != 0 {
		t.Errorf("expected cascade removal, got %d segments", w.Graph.SegmentCount())
	}
}

func TestAddMarking(t *testing.T) {
	s, w := testServer(t)
	h := s.Handler()

	rec := do(t, h, "POST", "/api/markings", `{"type": "light", "x": 500, "y": 20}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}
	if len(w.Markings) != 1 {
		t.Fatalf("expected 1 marking, got %d", len(w.Markings))
	}
	m := w.Markings[0]
	if m.Kind != marking.KindLight || m.Center.Distance(geo.Pt(500, 25)) > 1e-9 {
		t.Errorf("expected light snapped to lane guide at (500,25), got %s at %v", m.Kind, m.Center)
	}

	if rec := do(t, h, "POST", "/api/markings", `{"type": "billboard", "x": 500, "y": 20}`); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown type, got %d", rec.Code)
	}
	if rec := do(t, h, "POST", "/api/markings", `{"type": "stop", "x": 500, "y": 5000}`); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 far from any road, got %d", rec.Code)
	}

	if rec := do(t, h, "DELETE", "/api/markings?x=500&y=25", ""); rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if len(w.Markings) != 0 {
		t.Errorf("expected marking removed, got %d", len(w.Markings))
	}
}

func TestReadEndpoints(t *testing.T) {
	s, _ := testServer(t)
	h := s.Handler()

	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{"/api/world", "application/json", `"buildings"`},
		{"/api/scene", "application/json", `"metadata"`},
		{"/api/validation", "application/json", `"valid"`},
		{"/api/scene3d", "application/json", `"entities"`},
		{"/api/metrics", "application/json", `"road_length"`},
		{"/api/render.svg?x=500&y=0&radius=400", "image/svg+xml", "<svg"},
		{"/api/minimap.svg?x=500&y=0&size=150", "image/svg+xml", `width="150"`},
		{"/api/export.geojson", "application/geo+json", "FeatureCollection"},
		{"/", "text/html", "/ws/lights"},
	}
	for _, tt := range tests {
		rec := do(t, h, "GET", tt.path, "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", tt.path, rec.Code)
			continue
		}
		if ct := rec.Header().Get("Content-Type"); ct != tt.contentType {
			t.Errorf("%s: expected content type %q, got %q", tt.path, tt.contentType, ct)
		}
		if !strings.Contains(rec.Body.String(), tt.contains) {
			t.Errorf("%s: expected body to contain %q", tt.path, tt.contains)
		}
	}

	if rec := do(t, h, "GET", "/api/render.svg?x=abc&y=0", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad view point, got %d", rec.Code)
	}
}

func TestRoute(t *testing.T) {
	s, w := testServer(t)
	h := s.Handler()

	rec := do(t, h, "GET", "/api/route?from_x=100&from_y=10&to_x=900&to_y=-10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got routeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding route: %v", err)
	}
	if !got.Found || !approxEqual(got.Route.Length, 800, 1e-9) {
		t.Errorf("expected an 800-long route, got %+v", got)
	}

	if rec := do(t, h, "GET", "/api/route?from_x=abc&from_y=0", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad query, got %d", rec.Code)
	}

	for _, spot := range []struct {
		kind marking.Kind
		x    float64
	}{{marking.KindStart, 200}, {marking.KindTarget, 700}} {
		m, err := marking.New(spot.kind, geo.Pt(spot.x, 25), geo.Pt(1, 0), 50, 50)
		if err != nil {
			t.Fatalf("marking.New: %v", err)
		}
		w.AddMarking(m)
	}
	rec = do(t, h, "GET", "/api/route", "")
	got = routeResponse{}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding planned route: %v", err)
	}
	if !got.Found || !approxEqual(got.Route.Length, 500, 1e-9) {
		t.Errorf("expected a 500-long planned route, got %+v", got)
	}
}

func TestGenerate(t *testing.T) {
	s, _ := testServer(t)
	rec := do(t, s.Handler(), "POST", "/api/generate", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var report struct {
		Valid bool `json:"valid"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if !report.Valid {
		t.Error("expected valid generation report")
	}
}

func TestLightsWebsocket(t *testing.T) {
	s, w := testServer(t)
	m, err := marking.New(marking.KindLight, geo.Pt(500, 25), geo.Pt(1, 0), 50, 18)
	if err != nil {
		t.Fatalf("marking.New: %v", err)
	}
	w.AddMarking(m)

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/lights"
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	c.SetReadDeadline(time.Now().Add(5 * time.Second))
	var f LightFrame
	if err := c.ReadJSON(&f); err != nil {
		t.Fatalf("read: %v", err)
	}
	if f.Frame < 1 {
		t.Errorf("expected a ticked frame, got %d", f.Frame)
	}
	if len(f.Lights) != 1 || f.Lights[0].Index != 0 {
		t.Fatalf("expected the single light, got %+v", f.Lights)
	}
	// The straight road has no intersection, so the light keeps its state.
	if f.Lights[0].State != marking.StateRed {
		t.Errorf("expected red, got %s", f.Lights[0].State)
	}
}
