package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ChicagoDave/roadworld/internal/server"
	"github.com/ChicagoDave/roadworld/pkg/analytics"
	"github.com/ChicagoDave/roadworld/pkg/export"
	"github.com/ChicagoDave/roadworld/pkg/geo"
	"github.com/ChicagoDave/roadworld/pkg/project"
	"github.com/ChicagoDave/roadworld/pkg/render"
	"github.com/ChicagoDave/roadworld/pkg/routing"
	"github.com/ChicagoDave/roadworld/pkg/validation"
	"github.com/ChicagoDave/roadworld/pkg/world"
)

// loadAndValidate loads the project and runs schema validation.
func loadAndValidate(projectPath string) (*project.Project, *validation.Report, error) {
	p, err := project.LoadProject(projectPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading project: %w", err)
	}
	return p, validation.ValidateProject(p), nil
}

// buildWorld loads, validates and generates the project's world. Generation
// and output reports are merged into the returned report.
func buildWorld(projectPath string) (*project.Project, *world.World, *validation.Report, error) {
	p, report, err := loadAndValidate(projectPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := report.Err(); err != nil {
		return p, nil, report, fmt.Errorf("project is invalid: %w", err)
	}
	w, err := world.FromProject(p)
	if err != nil {
		return p, nil, report, fmt.Errorf("building world: %w", err)
	}
	report.Merge(validation.ValidateGraph(w.Graph))
	report.Merge(routing.ValidateConnectivity(w.Graph))
	report.Merge(w.Generate())
	report.Merge(world.ValidateOutput(w))
	_, routeReport := routing.PlanRoute(w.Graph, w.Markings)
	report.Merge(routeReport)
	return p, w, report, nil
}

func runValidate(projectPath string) error {
	_, _, report, err := buildWorld(projectPath)
	if report != nil {
		printValidationReport(os.Stdout, report)
	}
	if err != nil {
		return err
	}
	if !report.Valid {
		os.Exit(1)
	}
	return nil
}

func runGenerate(projectPath, outPath string) error {
	_, w, report, err := buildWorld(projectPath)
	if err != nil {
		if report != nil {
			printValidationReport(os.Stderr, report)
		}
		return err
	}
	printValidationReport(os.Stderr, report)

	return withOutput(outPath, func(out io.Writer) error {
		return w.Save(out)
	})
}

func runRender(projectPath, outPath, view string, radius float64, width int) error {
	p, w, report, err := buildWorld(projectPath)
	if err != nil {
		if report != nil {
			printValidationReport(os.Stderr, report)
		}
		return err
	}

	viewPoint := p.View.ViewPoint
	if view != "" {
		if viewPoint, err = parseView(view); err != nil {
			return err
		}
	}
	if radius <= 0 {
		radius = p.View.RenderRadius
	}

	err = withOutput(outPath, func(out io.Writer) error {
		render.World(out, w, viewPoint, radius, render.Options{Width: width})
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %s (%d buildings, %d trees, %d markings)\n",
		outPath, len(w.Buildings), len(w.Trees), len(w.Markings))
	return nil
}

func runExport(projectPath, outPath string) error {
	_, w, report, err := buildWorld(projectPath)
	if err != nil {
		if report != nil {
			printValidationReport(os.Stderr, report)
		}
		return err
	}
	data, err := export.Marshal(w)
	if err != nil {
		return fmt.Errorf("encoding GeoJSON: %w", err)
	}
	return withOutput(outPath, func(out io.Writer) error {
		_, err := out.Write(data)
		return err
	})
}

func runStats(projectPath string, asJSON bool) error {
	_, w, report, err := buildWorld(projectPath)
	if err != nil {
		if report != nil {
			printValidationReport(os.Stderr, report)
		}
		return err
	}
	m, mReport := analytics.Resolve(w)
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	}
	printMetrics(os.Stdout, m)
	fmt.Fprintln(os.Stdout)
	printValidationReport(os.Stdout, mReport)
	return nil
}

func runServe(projectPath string, cfg serveConfig) error {
	srv, err := server.New(projectPath, cfg.port, cfg.fps)
	if err != nil {
		return err
	}
	return srv.Start()
}

type serveConfig struct {
	port int
	fps  int
}

// loadServeConfig reads an optional env file. Environment values apply
// only to flags the user did not set.
func loadServeConfig(envFile string, port, fps int, portSet, fpsSet bool) serveConfig {
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		log.Printf("reading %s: %v", envFile, err)
	}
	cfg := serveConfig{port: port, fps: fps}
	if !portSet {
		cfg.port = envInt("ROADWORLD_PORT", cfg.port)
	}
	if !fpsSet {
		cfg.fps = envInt("ROADWORLD_FPS", cfg.fps)
	}
	return cfg
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("ignoring %s=%q: not a positive integer", key, v)
		return def
	}
	return n
}

// parseView parses "x,y".
func parseView(s string) (geo.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geo.Point{}, fmt.Errorf("view must be x,y, got %q", s)
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errX != nil || errY != nil {
		return geo.Point{}, fmt.Errorf("view must be numeric x,y, got %q", s)
	}
	return geo.Pt(x, y), nil
}

func withOutput(path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
