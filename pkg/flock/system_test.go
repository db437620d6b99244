package flock

import (
	"fmt"
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-boids-flocking/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-boids-flocking/pkg/spatial"
)

func newTestSystem(t *testing.T, cfg Config, seed uint64) *System {
	t.Helper()
	s, err := New(cfg, WithSeed(seed))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestAdvance_SpeedBoundAndContainment(t *testing.T) {
	for _, strategy := range spatial.Strategies {
		for _, preset := range []string{"a", "b"} {
			t.Run(fmt.Sprintf("%s/preset-%s", strategy, preset), func(t *testing.T) {
				cfg, _ := Preset(preset)
				cfg.Population = 300
				cfg.Index = strategy
				s := newTestSystem(t, cfg, 11)
				world := s.World()

				for tick := 0; tick < 60; tick++ {
					s.Advance()
					for i, a := range s.Agents() {
						if a.Velocity.Len() > cfg.MaxSpeed+geometry.Epsilon {
							t.Fatalf("tick %d agent %d: speed %v > MaxSpeed %v", tick, i, a.Velocity.Len(), cfg.MaxSpeed)
						}
						if !world.Contains(a.Position) {
							t.Fatalf("tick %d agent %d: position %v outside world", tick, i, a.Position)
						}
						if !a.Acceleration.IsZero() {
							t.Fatalf("tick %d agent %d: acceleration %v not cleared", tick, i, a.Acceleration)
						}
					}
				}
			})
		}
	}
}

func TestAdvance_TwoAgentSeparation(t *testing.T) {
	// Setup: two agents 10 apart, heading towards each other. Only separation is in range.
	cfg := PresetA()
	cfg.AlignmentRadius = 5
	cfg.CohesionRadius = 5
	s := newTestSystem(t, cfg, 1)
	s.SetAgents([]Agent{
		NewAgent(geometry.Vector2D{X: 0, Y: 0}, geometry.Vector2D{X: 1, Y: 0}, 8),
		NewAgent(geometry.Vector2D{X: 10, Y: 0}, geometry.Vector2D{X: -1, Y: 0}, 8),
	})

	// Steer vectors point away from each other at MaxForce.
	agents := s.Agents()
	hood := sliceHood{&agents[0], &agents[1]}
	left := agents[0].Separation(hood, &cfg)
	right := agents[1].Separation(hood, &cfg)
	if left.X >= 0 || right.X <= 0 || left.Y != 0 || right.Y != 0 {
		t.Fatalf("separation steer = %v, %v; want opposite signs along X", left, right)
	}
	if left.Len() > cfg.MaxForce+geometry.Epsilon || right.Len() > cfg.MaxForce+geometry.Epsilon {
		t.Fatalf("separation steer exceeds MaxForce: %v, %v", left, right)
	}

	s.Advance()

	agents = s.Agents()
	// Pure inertia would put them at x=1 and x=9.
	wantLeft := 1 - cfg.SeparationWeight*cfg.MaxForce
	wantRight := 9 + cfg.SeparationWeight*cfg.MaxForce
	if !near(agents[0].Position.X, wantLeft) || !near(agents[1].Position.X, wantRight) {
		t.Errorf("positions = %v, %v; want x=%v and x=%v", agents[0].Position, agents[1].Position, wantLeft, wantRight)
	}
	if agents[0].Position.X >= 1 || agents[1].Position.X <= 9 {
		t.Errorf("agents did not move apart relative to inertia: %v, %v", agents[0].Position, agents[1].Position)
	}
}

func TestAdvance_WrapScenario(t *testing.T) {
	cfg := PresetA()
	s := newTestSystem(t, cfg, 1)
	s.SetAgents([]Agent{NewAgent(geometry.Vector2D{X: cfg.WorldWidth/2 + 1, Y: 0}, geometry.Zero, 8)})

	s.Advance()

	if got := s.Agents()[0].Position.X; got != -cfg.WorldWidth/2 {
		t.Errorf("x after wrap = %v; want %v", got, -cfg.WorldWidth/2)
	}
}

func TestAdvance_IsolatedAgentMovesStraight(t *testing.T) {
	cfg := PresetA()
	s := newTestSystem(t, cfg, 1)
	vel := geometry.Vector2D{X: 1, Y: 0.5}
	s.SetAgents([]Agent{
		NewAgent(geometry.Vector2D{}, vel, 8),
		NewAgent(geometry.Vector2D{X: -300, Y: 300}, geometry.Zero, 8),
	})

	for i := 0; i < 10; i++ {
		s.Advance()
	}

	a := s.Agents()[0]
	if !a.Velocity.Eq(vel) {
		t.Errorf("velocity = %v; want unchanged %v", a.Velocity, vel)
	}
	if !near(a.Position.X, 10) || !near(a.Position.Y, 5) {
		t.Errorf("position = %v; want (10, 5)", a.Position)
	}
}

func TestAdvance_EmptyPopulation(t *testing.T) {
	cfg := PresetA()
	cfg.Population = 0
	s := newTestSystem(t, cfg, 1)

	s.Advance()

	if s.Tick() != 1 {
		t.Errorf("Tick = %d; want 1", s.Tick())
	}
	if snap := s.Snapshot(); len(snap) != 0 {
		t.Errorf("Snapshot = %v; want empty", snap)
	}
}

func TestAdvance_Deterministic(t *testing.T) {
	cfg := PresetA()
	cfg.Population = 300
	a := newTestSystem(t, cfg, 99)
	b := newTestSystem(t, cfg, 99)
	for i := 0; i < 30; i++ {
		a.Advance()
		b.Advance()
	}
	sa, sb := a.Snapshot(), b.Snapshot()
	for i := range sa {
		if sa[i] != sb[i] {
			t.Fatalf("agent %d differs: %+v vs %+v", i, sa[i], sb[i])
		}
	}
}

func TestAdvance_ParallelMatchesSequential(t *testing.T) {
	cfg := PresetA()
	cfg.Population = 300
	cfg.Workers = 1
	seq := newTestSystem(t, cfg, 5)
	cfg.Workers = 4
	par := newTestSystem(t, cfg, 5)

	for i := 0; i < 30; i++ {
		seq.Advance()
		par.Advance()
	}
	ss, sp := seq.Snapshot(), par.Snapshot()
	for i := range ss {
		if ss[i] != sp[i] {
			t.Fatalf("agent %d differs: sequential %+v, parallel %+v", i, ss[i], sp[i])
		}
	}
}

func TestAdvance_StrategiesAgree(t *testing.T) {
	// Neighbour order differs between strategies, so sums may differ in the last bits.
	cfg := PresetA()
	cfg.Population = 300
	const ticks = 5
	var ref []AgentState
	for _, strategy := range spatial.Strategies {
		cfg.Index = strategy
		s := newTestSystem(t, cfg, 21)
		for i := 0; i < ticks; i++ {
			s.Advance()
		}
		snap := s.Snapshot()
		if ref == nil {
			ref = snap
			continue
		}
		for i := range snap {
			if snap[i].Position.DistanceTo(ref[i].Position) > 1e-3 {
				t.Fatalf("%s: agent %d at %v; linear has %v", strategy, i, snap[i].Position, ref[i].Position)
			}
		}
	}
}

func TestReset(t *testing.T) {
	cfg := PresetB()
	cfg.Population = 50
	s := newTestSystem(t, cfg, 7)
	fresh := s.Snapshot()
	for i := 0; i < 5; i++ {
		s.Advance()
	}

	s.Reset(7)

	if s.Tick() != 0 || s.Seed() != 7 {
		t.Errorf("Tick, Seed = %d, %d; want 0, 7", s.Tick(), s.Seed())
	}
	again := s.Snapshot()
	for i := range fresh {
		if fresh[i] != again[i] {
			t.Fatalf("agent %d after reset = %+v; want %+v", i, again[i], fresh[i])
		}
	}
}

func TestInitialize(t *testing.T) {
	seed := uint64(3)
	s, err := Initialize(40, 200, 100, &seed)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 40 {
		t.Errorf("Len = %d; want 40", s.Len())
	}
	world := geometry.NewRect(200, 100)
	for i, a := range s.Agents() {
		if !world.Contains(a.Position) {
			t.Errorf("agent %d spawned outside world: %v", i, a.Position)
		}
		if a.Velocity.Len() > s.Config().MaxSpeed+geometry.Epsilon {
			t.Errorf("agent %d spawned too fast: %v", i, a.Velocity)
		}
	}

	if _, err := Initialize(-1, 200, 100, nil); err == nil {
		t.Error("Initialize with negative population succeeded")
	}
}

func TestReconfigure(t *testing.T) {
	cfg := PresetA()
	cfg.Population = 100
	s := newTestSystem(t, cfg, 2)
	s.Advance()

	t.Run("grow population and switch index", func(t *testing.T) {
		next := s.Config()
		next.Population = 150
		next.Index = spatial.StrategyGrid
		if err := s.Reconfigure(next); err != nil {
			t.Fatal(err)
		}
		if s.Len() != 150 {
			t.Errorf("Len = %d; want 150", s.Len())
		}
		s.Advance()
	})

	t.Run("lower max speed clamps velocities", func(t *testing.T) {
		next := s.Config()
		next.MaxSpeed = 0.5
		next.Population = 80
		if err := s.Reconfigure(next); err != nil {
			t.Fatal(err)
		}
		for i, a := range s.Agents() {
			if a.Velocity.Len() > 0.5+geometry.Epsilon {
				t.Fatalf("agent %d speed %v after lowering MaxSpeed", i, a.Velocity.Len())
			}
		}
		if s.Len() != 80 {
			t.Errorf("Len = %d; want 80", s.Len())
		}
	})

	t.Run("shrink world re-wraps", func(t *testing.T) {
		next := s.Config()
		next.WorldWidth, next.WorldHeight = 100, 100
		if err := s.Reconfigure(next); err != nil {
			t.Fatal(err)
		}
		for i, a := range s.Agents() {
			if !s.World().Contains(a.Position) {
				t.Fatalf("agent %d at %v outside the new world", i, a.Position)
			}
		}
	})

	t.Run("invalid config is rejected", func(t *testing.T) {
		before := s.Config()
		bad := before
		bad.MaxSpeed = float32(math.NaN())
		if err := s.Reconfigure(bad); err == nil {
			t.Fatal("Reconfigure accepted NaN MaxSpeed")
		}
		if s.Config() != before {
			t.Errorf("config changed after rejected Reconfigure")
		}
	})
}

func TestSnapshotInto_ReusesStorage(t *testing.T) {
	cfg := PresetA()
	cfg.Population = 10
	s := newTestSystem(t, cfg, 4)
	buf := make([]AgentState, 0, 32)

	out := s.SnapshotInto(buf)

	if len(out) != 10 || &out[0] != &buf[:1][0] {
		t.Errorf("SnapshotInto did not reuse the buffer")
	}
	for i, st := range out {
		if st.ID != i {
			t.Errorf("ID = %d; want %d", st.ID, i)
		}
	}
}

func BenchmarkAdvance_PresetA(b *testing.B) {
	for _, strategy := range spatial.Strategies {
		b.Run(string(strategy), func(b *testing.B) {
			cfg := PresetA()
			cfg.Index = strategy
			s, err := New(cfg, WithSeed(1))
			if err != nil {
				b.Fatal(err)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				s.Advance()
			}
		})
	}
}
