package geo

import "math"

// Envelope is a capsule-shaped polygon around a skeleton segment.
type Envelope struct {
	Skeleton Segment `json:"skeleton"`
	Poly     Polygon `json:"poly"`
}

// NewEnvelope sweeps half circles of radius width/2 around both skeleton
// endpoints. Roundness is the number of steps per half circle; values below 1
// are treated as 1, which yields a plain rectangle.
func NewEnvelope(skeleton Segment, width float64, roundness int) Envelope {
	return Envelope{
		Skeleton: skeleton,
		Poly:     capsule(skeleton, width, roundness),
	}
}

func capsule(skeleton Segment, width float64, roundness int) Polygon {
	p1, p2 := skeleton.P1, skeleton.P2

	radius := width / 2
	alpha := p1.Sub(p2).Angle()
	alphaCw := alpha + math.Pi/2
	alphaCcw := alpha - math.Pi/2

	step := math.Pi / float64(max(1, roundness))
	eps := step / 2

	points := make([]Point, 0, 2*(max(1, roundness)+1))
	for a := alphaCcw; a <= alphaCw+eps; a += step {
		points = append(points, p1.Translate(a, radius))
	}
	for a := alphaCcw; a <= alphaCw+eps; a += step {
		points = append(points, p2.Translate(math.Pi+a, radius))
	}
	return MustPolygon(points...)
}

// Envelopes builds one envelope per skeleton segment.
func Envelopes(skeletons []Segment, width float64, roundness int) []Envelope {
	out := make([]Envelope, 0, len(skeletons))
	for _, s := range skeletons {
		out = append(out, NewEnvelope(s, width, roundness))
	}
	return out
}

// Polys returns the polygons of the given envelopes.
func Polys(envs []Envelope) []Polygon {
	out := make([]Polygon, len(envs))
	for i, e := range envs {
		out[i] = e.Poly
	}
	return out
}
