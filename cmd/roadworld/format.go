package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/ttacon/chalk"

	"github.com/ChicagoDave/roadworld/pkg/analytics"
	"github.com/ChicagoDave/roadworld/pkg/validation"
)

func printMetrics(out io.Writer, m *analytics.Metrics) {
	n, lu := m.Network, m.Land
	fmt.Fprintln(out, chalk.Bold.TextStyle("Network"))
	fmt.Fprintf(out, "  points %d, segments %d (%d one-way)\n", n.Points, n.Segments, n.OneWaySegments)
	fmt.Fprintf(out, "  intersections %d, dead ends %d\n", n.Intersections, n.DeadEnds)
	fmt.Fprintf(out, "  road length %.1f, border %.1f, lane guides %.1f\n", n.RoadLength, n.BorderLength, n.LaneGuideLength)

	fmt.Fprintln(out, chalk.Bold.TextStyle("Land use"))
	fmt.Fprintf(out, "  site %.0f\n", lu.SiteArea)
	fmt.Fprintf(out, "  roads %.0f (%.1f%%), overlap %.0f\n", lu.RoadArea, lu.RoadCoverage*100, lu.RoadOverlapArea)
	fmt.Fprintf(out, "  buildings %d, %.0f built (%.1f%%), volume %.0f\n", lu.Buildings, lu.BuiltArea, lu.BuildingCoverage*100, lu.BuiltVolume)
	fmt.Fprintf(out, "  trees %d\n", lu.Trees)

	if len(m.Junctions) > 0 {
		fmt.Fprintln(out, chalk.Bold.TextStyle("Junctions"))
		for _, j := range m.Junctions {
			fmt.Fprintf(out, "  (%.0f, %.0f) degree %d, %d lights, cycle %d ticks\n",
				j.Position[0], j.Position[1], j.Degree, j.Lights, j.CycleTicks)
		}
	}
	if len(m.Markings) > 0 {
		kinds := make([]string, 0, len(m.Markings))
		for k := range m.Markings {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		fmt.Fprintln(out, chalk.Bold.TextStyle("Markings"))
		for _, k := range kinds {
			fmt.Fprintf(out, "  %-10s %d\n", k, m.Markings[k])
		}
	}
}

func printValidationReport(out io.Writer, r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Fprintln(out, chalk.Red.Color(fmt.Sprintf("ERRORS (%d):", len(r.Errors))))
		for _, e := range r.Errors {
			printResult(out, e)
			if e.ConflictWith != "" {
				fmt.Fprintf(out, "    conflicts with: %s\n", e.ConflictWith)
			}
		}
		fmt.Fprintln(out)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintln(out, chalk.Yellow.Color(fmt.Sprintf("WARNINGS (%d):", len(r.Warnings))))
		for _, w := range r.Warnings {
			printResult(out, w)
		}
		fmt.Fprintln(out)
	}

	if len(r.Info) > 0 {
		fmt.Fprintln(out, chalk.Cyan.Color(fmt.Sprintf("INFO (%d):", len(r.Info))))
		for _, i := range r.Info {
			fmt.Fprintf(out, "  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "Stages: schema %d, geometry %d, generation %d\n",
		len(r.AtLevel(validation.LevelSchema)),
		len(r.AtLevel(validation.LevelGeometry)),
		len(r.AtLevel(validation.LevelGeneration)))

	if r.Valid {
		fmt.Fprintln(out, chalk.Green.Color(fmt.Sprintf("Result: VALID (%s)", r.Summary)))
	} else {
		fmt.Fprintln(out, chalk.Red.Color(fmt.Sprintf("Result: INVALID (%s)", r.Summary)))
	}
}

func printResult(out io.Writer, res validation.Result) {
	fmt.Fprintf(out, "  [%s] %s\n", res.Level, res.Message)
	if res.Path != "" {
		fmt.Fprintf(out, "    -> %s = %v\n", res.Path, res.ActualValue)
	}
	if res.Expected != "" {
		fmt.Fprintf(out, "    expected: %s\n", res.Expected)
	}
	for _, s := range res.Suggestions {
		fmt.Fprintf(out, "    * %s\n", s)
	}
}
