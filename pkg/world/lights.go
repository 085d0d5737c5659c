package world

import (
	"math"

	"github.com/ChicagoDave/roadworld/pkg/geo"
	"github.com/ChicagoDave/roadworld/pkg/marking"
)

const (
	greenDuration  = 2
	yellowDuration = 1
	// framesPerTick converts animation frames to light timing ticks.
	framesPerTick = 60
)

// ControlCenter groups the lights whose nearest graph intersection is Point.
// Members rotate through one green-then-yellow slot each per cycle.
type ControlCenter struct {
	Point  geo.Point
	Lights []*marking.Marking
	Ticks  int
}

// ControlCenters groups the world's lights by nearest intersection, in
// the order lights appear. Lights are skipped when the graph has no
// intersections. The grouping is rebuilt on every call.
func (w *World) ControlCenters() []ControlCenter {
	var junctions []geo.Point
	for _, id := range w.Graph.Intersections() {
		p, _ := w.Graph.Point(id)
		junctions = append(junctions, p)
	}

	var centers []ControlCenter
	for _, light := range marking.Lights(w.Markings) {
		p, ok := geo.NearestPoint(light.Center, junctions, math.MaxFloat64)
		if !ok {
			continue
		}
		found := false
		for i := range centers {
			if centers[i].Point.Equals(p) {
				centers[i].Lights = append(centers[i].Lights, light)
				found = true
				break
			}
		}
		if !found {
			centers = append(centers, ControlCenter{Point: p, Lights: []*marking.Marking{light}})
		}
	}
	for i := range centers {
		centers[i].Ticks = len(centers[i].Lights) * (greenDuration + yellowDuration)
	}
	return centers
}

// LightPhase returns the state of member index in a control center of
// members lights at the given tick.
func LightPhase(members, tick, index int) marking.State {
	if members <= 0 || index < 0 || index >= members {
		return marking.StateRed
	}
	slot := greenDuration + yellowDuration
	cTick := tick % (members * slot)
	if cTick/slot != index {
		return marking.StateRed
	}
	if cTick%slot < greenDuration {
		return marking.StateGreen
	}
	return marking.StateYellow
}

// UpdateLights writes the light states for the current frame and advances
// the frame counter. Generate never resets the counter.
func (w *World) UpdateLights() {
	tick := w.frameCount / framesPerTick
	for _, c := range w.ControlCenters() {
		for i, light := range c.Lights {
			light.State = LightPhase(len(c.Lights), tick, i)
		}
	}
	w.frameCount++
}

// Tick is called once per rendered frame by whatever drives the animation.
func (w *World) Tick() {
	w.UpdateLights()
}
