package telemetry

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lao-tseu-is-alive/go-boids-flocking/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-flocking/pkg/geometry"
)

func state(px, py, vx, vy float32) flock.AgentState {
	return flock.AgentState{
		Position: geometry.Vector2D{X: px, Y: py},
		Velocity: geometry.Vector2D{X: vx, Y: vy},
	}
}

func TestMeasure(t *testing.T) {
	tests := []struct {
		name   string
		states []flock.AgentState
		want   FlockStats
	}{
		{
			name:   "empty",
			states: nil,
			want:   FlockStats{Tick: 7},
		},
		{
			name:   "single agent",
			states: []flock.AgentState{state(4, -2, 0, 2)},
			want: FlockStats{Tick: 7, Population: 1, MeanSpeed: 2, SpeedP50: 2,
				Polarization: 1, CentroidX: 4, CentroidY: -2},
		},
		{
			name: "aligned flock",
			states: []flock.AgentState{
				state(0, 0, 1, 0), state(2, 0, 2, 0), state(4, 3, 3, 0),
			},
			want: FlockStats{Tick: 7, Population: 3, MeanSpeed: 2, SpeedStdDev: 1, SpeedP50: 2,
				Polarization: 1, CentroidX: 2, CentroidY: 1},
		},
		{
			name: "opposing pair",
			states: []flock.AgentState{
				state(-1, 0, 1, 0), state(1, 0, -1, 0), state(0, 0, 0, 0),
			},
			want: FlockStats{Tick: 7, Population: 3, MeanSpeed: 2.0 / 3, SpeedStdDev: math.Sqrt(1.0 / 3),
				SpeedP50: 1, Polarization: 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Measure(7, tt.states)
			if got.Tick != tt.want.Tick || got.Population != tt.want.Population {
				t.Errorf("Tick, Population = %d, %d; want %d, %d", got.Tick, got.Population, tt.want.Tick, tt.want.Population)
			}
			for _, f := range []struct {
				name      string
				got, want float64
			}{
				{"MeanSpeed", got.MeanSpeed, tt.want.MeanSpeed},
				{"SpeedStdDev", got.SpeedStdDev, tt.want.SpeedStdDev},
				{"SpeedP50", got.SpeedP50, tt.want.SpeedP50},
				{"Polarization", got.Polarization, tt.want.Polarization},
				{"CentroidX", got.CentroidX, tt.want.CentroidX},
				{"CentroidY", got.CentroidY, tt.want.CentroidY},
			} {
				if math.Abs(f.got-f.want) > 1e-6 {
					t.Errorf("%s = %v, want %v", f.name, f.got, f.want)
				}
			}
		})
	}
}

func TestRecorder_HeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	r := NewRecorder(&buf)
	for tick := uint64(1); tick <= 3; tick++ {
		if err := r.Record(FlockStats{Tick: tick, Population: 10}); err != nil {
			t.Fatal(err)
		}
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3 rows:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "tick,population,speed_mean") {
		t.Errorf("header = %q", lines[0])
	}
	if strings.Count(buf.String(), "tick,") != 1 {
		t.Errorf("header written more than once:\n%s", buf.String())
	}
	if r.Rows() != 3 {
		t.Errorf("Rows = %d, want 3", r.Rows())
	}

	rows, err := ReadStats(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[2].Tick != 3 || rows[2].Population != 10 {
		t.Errorf("ReadStats = %+v", rows)
	}
}

func TestRecorder_Nil(t *testing.T) {
	r, err := CreateRecorder("")
	if err != nil || r != nil {
		t.Fatalf("CreateRecorder(\"\") = %v, %v; want nil, nil", r, err)
	}
	if err := r.Record(FlockStats{}); err != nil {
		t.Errorf("nil Record: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}

func TestCreateRecorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "stats.csv")
	r, err := CreateRecorder(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Record(FlockStats{Tick: 1}); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
}
