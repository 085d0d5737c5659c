package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/ChicagoDave/roadworld/pkg/analytics"
	"github.com/ChicagoDave/roadworld/pkg/export"
	"github.com/ChicagoDave/roadworld/pkg/geo"
	"github.com/ChicagoDave/roadworld/pkg/graph"
	"github.com/ChicagoDave/roadworld/pkg/marking"
	"github.com/ChicagoDave/roadworld/pkg/project"
	"github.com/ChicagoDave/roadworld/pkg/render"
	"github.com/ChicagoDave/roadworld/pkg/routing"
	"github.com/ChicagoDave/roadworld/pkg/scene"
	"github.com/ChicagoDave/roadworld/pkg/scene2d"
	"github.com/ChicagoDave/roadworld/pkg/validation"
	"github.com/ChicagoDave/roadworld/pkg/world"
)

// DefaultFPS is the light animation rate when none is configured.
const DefaultFPS = 60

// Server is the local development server for interactive road editing.
// Every request and every animation frame runs under one mutex, so edits,
// regeneration and light updates never interleave.
type Server struct {
	port int
	fps  int

	mu    sync.Mutex
	world *world.World

	subMu       sync.Mutex
	subscribers map[chan LightFrame]struct{}

	upgrader websocket.Upgrader
}

// LightFrame is one animation frame of light states sent to websocket
// clients.
type LightFrame struct {
	Frame  int          `json:"frame"`
	Lights []LightState `json:"lights"`
}

// LightState is the state of one light marking; Index is its position in
// the world's marking list.
type LightState struct {
	Index  int           `json:"index"`
	Center [2]float64    `json:"center"`
	State  marking.State `json:"state"`
}

// New loads the project at projectPath, generates its world and returns a
// server for it.
func New(projectPath string, port, fps int) (*Server, error) {
	p, err := project.LoadProject(projectPath)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	if err := validation.ValidateProject(p).Err(); err != nil {
		return nil, fmt.Errorf("project is invalid: %w", err)
	}
	w, err := world.FromProject(p)
	if err != nil {
		return nil, fmt.Errorf("building world: %w", err)
	}
	if err := w.Generate().Err(); err != nil {
		return nil, fmt.Errorf("generating world: %w", err)
	}
	log.Printf("Project: %s (%d points, %d segments)", projectPath, w.Graph.PointCount(), w.Graph.SegmentCount())
	return NewWithWorld(w, port, fps), nil
}

// NewWithWorld returns a server over an existing world.
func NewWithWorld(w *world.World, port, fps int) *Server {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Server{
		port:        port,
		fps:         fps,
		world:       w,
		subscribers: make(map[chan LightFrame]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/world", s.handleWorld).Methods("GET")
	r.HandleFunc("/api/scene", s.handleScene).Methods("GET")
	r.HandleFunc("/api/scene3d", s.handleScene3D).Methods("GET")
	r.HandleFunc("/api/metrics", s.handleMetrics).Methods("GET")
	r.HandleFunc("/api/route", s.handleRoute).Methods("GET")
	r.HandleFunc("/api/validation", s.handleValidation).Methods("GET")
	r.HandleFunc("/api/render.svg", s.handleRender).Methods("GET")
	r.HandleFunc("/api/minimap.svg", s.handleMiniMap).Methods("GET")
	r.HandleFunc("/api/export.geojson", s.handleExport).Methods("GET")
	r.HandleFunc("/api/generate", s.handleGenerate).Methods("POST")

	r.HandleFunc("/api/points", s.handleAddPoint).Methods("POST")
	r.HandleFunc("/api/points/{id:[0-9]+}", s.handleMovePoint).Methods("PUT")
	r.HandleFunc("/api/points/{id:[0-9]+}", s.handleRemovePoint).Methods("DELETE")

	r.HandleFunc("/api/segments", s.handleAddSegment).Methods("POST")
	r.HandleFunc("/api/segments/{a:[0-9]+}/{b:[0-9]+}", s.handleRemoveSegment).Methods("DELETE")

	r.HandleFunc("/api/markings", s.handleAddMarking).Methods("POST")
	r.HandleFunc("/api/markings", s.handleRemoveMarking).Methods("DELETE")

	r.HandleFunc("/ws/lights", s.handleLights).Methods("GET")
	r.HandleFunc("/", s.handleIndex).Methods("GET")

	return r
}

// Start runs the frame loop and serves HTTP until the listener fails.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Roadworld server starting on http://localhost%s (%d fps)", addr, s.fps)
	return http.ListenAndServe(addr, handlers.CombinedLoggingHandler(os.Stdout, s.Handler()))
}

// Run drives the world at the configured frame rate until ctx is done. Each
// frame regenerates the world if the graph changed, advances the lights and
// broadcasts their states.
func (s *Server) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(s.fps))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.broadcast(s.frame())
		}
	}
}

func (s *Server) frame() LightFrame {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regenerate()
	s.world.Tick()
	return lightFrame(s.world)
}

func lightFrame(w *world.World) LightFrame {
	f := LightFrame{Frame: w.FrameCount(), Lights: []LightState{}}
	for i, m := range w.Markings {
		if !m.IsTrafficControl() {
			continue
		}
		f.Lights = append(f.Lights, LightState{
			Index:  i,
			Center: [2]float64{m.Center.X, m.Center.Y},
			State:  m.State,
		})
	}
	return f
}

// regenerate must be called with s.mu held.
func (s *Server) regenerate() {
	ran, report := s.world.RegenerateIfChanged()
	if ran && !report.Valid {
		log.Printf("regeneration: %s", report.Summary)
	}
}

func (s *Server) subscribe() chan LightFrame {
	ch := make(chan LightFrame, 1)
	s.subMu.Lock()
	s.subscribers[ch] = struct{}{}
	s.subMu.Unlock()
	return ch
}

func (s *Server) unsubscribe(ch chan LightFrame) {
	s.subMu.Lock()
	delete(s.subscribers, ch)
	s.subMu.Unlock()
}

// broadcast drops the frame for subscribers that have not consumed the
// previous one.
func (s *Server) broadcast(f LightFrame) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- f:
		default:
		}
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html><head><title>Roadworld</title></head>
<body style="margin:0;background:#2a5">
<img id="world" src="/api/render.svg" style="width:100vw;height:100vh;object-fit:contain">
<img src="/api/minimap.svg" style="position:fixed;right:10px;bottom:10px;width:200px;border:2px solid #fff">
<script>
const img = document.getElementById("world");
const ws = new WebSocket("ws://" + location.host + "/ws/lights");
ws.onmessage = () => { img.src = "/api/render.svg?t=" + Date.now(); };
</script>
</body></html>`)
}

func (s *Server) handleWorld(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regenerate()
	writeJSON(w, http.StatusOK, s.world.Record())
}

func (s *Server) handleScene(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regenerate()
	writeJSON(w, http.StatusOK, scene2d.Assemble2D(s.world))
}

func (s *Server) handleValidation(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regenerate()
	report := validation.ValidateGraph(s.world.Graph)
	report.Merge(routing.ValidateConnectivity(s.world.Graph))
	report.Merge(world.ValidateOutput(s.world))
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleScene3D(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regenerate()
	writeJSON(w, http.StatusOK, scene.Assemble(s.world))
}

type metricsResponse struct {
	Metrics *analytics.Metrics `json:"metrics"`
	Report  *validation.Report `json:"report"`
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regenerate()
	m, report := analytics.Resolve(s.world)
	writeJSON(w, http.StatusOK, metricsResponse{Metrics: m, Report: report})
}

type routeResponse struct {
	Found  bool               `json:"found"`
	Route  routing.Route      `json:"route"`
	Report *validation.Report `json:"report,omitempty"`
}

// handleRoute plans a route between the query points from_x,from_y and
// to_x,to_y, or between the start and target markings when none are given.
func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	explicit := q.Get("from_x") != "" || q.Get("to_x") != ""
	var from, to geo.Point
	if explicit {
		var err error
		if from, err = queryPoint(q.Get("from_x"), q.Get("from_y")); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if to, err = queryPoint(q.Get("to_x"), q.Get("to_y")); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if explicit {
		route, ok := routing.ShortestPath(s.world.Graph, from, to)
		writeJSON(w, http.StatusOK, routeResponse{Found: ok, Route: route})
		return
	}
	route, report := routing.PlanRoute(s.world.Graph, s.world.Markings)
	writeJSON(w, http.StatusOK, routeResponse{Found: len(route.Points) > 0, Route: route, Report: report})
}

// handleRender draws one frame. Drawing advances the lights like any other
// frame.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view, err := queryPoint(q.Get("x"), q.Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	radius := float64(world.DefaultRenderRadius)
	if v := q.Get("radius"); v != "" {
		if radius, err = strconv.ParseFloat(v, 64); err != nil {
			writeError(w, http.StatusBadRequest, "invalid radius")
			return
		}
	}
	width := 0
	if v := q.Get("width"); v != "" {
		if width, err = strconv.Atoi(v); err != nil || width <= 0 {
			writeError(w, http.StatusBadRequest, "invalid width")
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.regenerate()
	w.Header().Set("Content-Type", "image/svg+xml")
	render.World(w, s.world, view, radius, render.Options{Width: width})
}

func (s *Server) handleMiniMap(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view, err := queryPoint(q.Get("x"), q.Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	size := render.DefaultMiniMapSize
	if v := q.Get("size"); v != "" {
		if size, err = strconv.Atoi(v); err != nil || size <= 0 {
			writeError(w, http.StatusBadRequest, "invalid size")
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	w.Header().Set("Content-Type", "image/svg+xml")
	render.MiniMap(w, s.world.Graph, view, size)
}

func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regenerate()
	data, err := export.Marshal(s.world)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Write(data)
}

func (s *Server) handleGenerate(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.world.Generate())
}

type pointRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (s *Server) handleAddPoint(w http.ResponseWriter, r *http.Request) {
	var req pointRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.world.Graph.TryAddPoint(geo.Pt(req.X, req.Y))
	if !ok {
		writeError(w, http.StatusConflict, "point rejected: duplicate or non-finite")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (s *Server) handleMovePoint(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req pointRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.world.Graph.MovePoint(id, geo.Pt(req.X, req.Y)) {
		writeError(w, http.StatusConflict, "move rejected")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemovePoint(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.world.Graph.RemovePoint(id) {
		writeError(w, http.StatusNotFound, "no such point")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type segmentRequest struct {
	A      graph.PointID `json:"a"`
	B      graph.PointID `json:"b"`
	OneWay bool          `json:"oneWay"`
}

func (s *Server) handleAddSegment(w http.ResponseWriter, r *http.Request) {
	var req segmentRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.world.Graph.TryAddSegment(graph.Edge{A: req.A, B: req.B, OneWay: req.OneWay}) {
		writeError(w, http.StatusConflict, "segment rejected: duplicate, degenerate or unknown endpoint")
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleRemoveSegment(w http.ResponseWriter, r *http.Request) {
	a, ok := pathID(w, r, "a")
	if !ok {
		return
	}
	b, ok := pathID(w, r, "b")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.world.Graph.RemoveSegment(graph.Edge{A: a, B: b}) {
		writeError(w, http.StatusNotFound, "no such segment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type markingRequest struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// handleAddMarking places a marking where the editor intent would put it for
// a cursor at (x, y).
func (s *Server) handleAddMarking(w http.ResponseWriter, r *http.Request) {
	var req markingRequest
	if !decode(w, r, &req) {
		return
	}
	kind, err := marking.ParseKind(req.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regenerate()
	roadWidth := s.world.Params.RoadWidth
	m, ok := marking.Intent(kind, geo.Pt(req.X, req.Y), s.world.MarkingTargets(kind), roadWidth, roadWidth)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "no road near enough to place marking")
		return
	}
	s.world.AddMarking(m)
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleRemoveMarking(w http.ResponseWriter, r *http.Request) {
	p, err := queryPoint(r.URL.Query().Get("x"), r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.world.RemoveMarkingAt(p) {
		writeError(w, http.StatusNotFound, "no marking at point")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleLights streams light frames until the client goes away.
func (s *Server) handleLights(w http.ResponseWriter, r *http.Request) {
	c, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Print("upgrade:", err)
		return
	}
	defer c.Close()

	frames := s.subscribe()
	defer s.unsubscribe(frames)

	// Reading is required to notice a client-side close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case f := <-frames:
			if err := c.WriteJSON(f); err != nil {
				log.Print("write:", err)
				return
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, key string) (graph.PointID, bool) {
	n, err := strconv.Atoi(mux.Vars(r)[key])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+key)
		return 0, false
	}
	return graph.PointID(n), true
}

// queryPoint parses x and y query values; both empty means the origin.
func queryPoint(xs, ys string) (geo.Point, error) {
	if xs == "" && ys == "" {
		return geo.Point{}, nil
	}
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("invalid x %q", xs)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("invalid y %q", ys)
	}
	return geo.Pt(x, y), nil
}
