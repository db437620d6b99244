package telemetry

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/lao-tseu-is-alive/go-boids-flocking/pkg/flock"
)

// FlockStats summarises one snapshot of the flock.
type FlockStats struct {
	Tick       uint64 `csv:"tick" json:"tick"`
	Population int    `csv:"population" json:"population"`

	// Speed distribution
	MeanSpeed   float64 `csv:"speed_mean" json:"meanSpeed"`
	SpeedStdDev float64 `csv:"speed_std" json:"speedStdDev"`
	SpeedP50    float64 `csv:"speed_p50" json:"speedP50"`

	// Polarization is the length of the mean unit heading: 1 when every agent flies the
	// same way, near 0 for a disordered flock.
	Polarization float64 `csv:"polarization" json:"polarization"`

	CentroidX float64 `csv:"centroid_x" json:"centroidX"`
	CentroidY float64 `csv:"centroid_y" json:"centroidY"`
}

// Measure computes the statistics of a snapshot. An empty snapshot yields zeroes.
func Measure(tick uint64, states []flock.AgentState) FlockStats {
	out := FlockStats{Tick: tick, Population: len(states)}
	n := len(states)
	if n == 0 {
		return out
	}

	speeds := make([]float64, n)
	xs := make([]float64, n)
	ys := make([]float64, n)
	hx := make([]float64, n)
	hy := make([]float64, n)
	for i, s := range states {
		speeds[i] = float64(s.Velocity.Len())
		xs[i] = float64(s.Position.X)
		ys[i] = float64(s.Position.Y)
		// stationary agents have no heading and only dilute the order parameter
		if u := s.Velocity.Normalize(); !u.IsZero() {
			hx[i] = float64(u.X)
			hy[i] = float64(u.Y)
		}
	}

	if n > 1 {
		out.MeanSpeed, out.SpeedStdDev = stat.MeanStdDev(speeds, nil)
	} else {
		out.MeanSpeed = speeds[0]
	}
	sort.Float64s(speeds)
	out.SpeedP50 = stat.Quantile(0.5, stat.Empirical, speeds, nil)

	out.Polarization = math.Hypot(floats.Sum(hx), floats.Sum(hy)) / float64(n)
	out.CentroidX = stat.Mean(xs, nil)
	out.CentroidY = stat.Mean(ys, nil)
	return out
}
