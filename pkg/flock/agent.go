package flock

import (
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-boids-flocking/pkg/geometry"
)

// Agent is a single boid: a point with velocity, steered each tick by separation,
// alignment and cohesion against its neighbours.
//
// Boids is an artificial life program, developed by Craig Reynolds in 1986,
// which simulates the flocking behaviour of birds. https://en.wikipedia.org/wiki/Boids
type Agent struct {
	Position     geometry.Vector2D
	Velocity     geometry.Vector2D
	Acceleration geometry.Vector2D // only non-zero between Steer and Integrate
	Radius       float32           // sprite size, no physical meaning
}

// Neighborhood returns the agents near a point. The returned slice is only valid until the
// next call; it may contain the querying agent itself.
type Neighborhood interface {
	Within(center geometry.Vector2D, radius float32) []*Agent
}

// NewAgent creates an agent with the given kinematic state.
func NewAgent(position, velocity geometry.Vector2D, radius float32) Agent {
	return Agent{Position: position, Velocity: velocity, Radius: radius}
}

// RandomAgent places an agent uniformly in world with a velocity uniform in [-maxSpeed, maxSpeed)².
// The velocity is clamped so the speed bound holds from the first observation.
func RandomAgent(rng *rand.Rand, world geometry.Rect, maxSpeed, radius float32) Agent {
	pos := world.RandomPoint(rng)
	vel := geometry.Vector2D{
		X: (rng.Float32()*2 - 1) * maxSpeed,
		Y: (rng.Float32()*2 - 1) * maxSpeed,
	}
	return NewAgent(pos, vel.ClampLen(maxSpeed), radius)
}

// Heading is the direction of travel in radians.
func (a *Agent) Heading() float32 {
	return a.Velocity.Angle()
}

// Steer accumulates force into the acceleration.
func (a *Agent) Steer(force geometry.Vector2D) {
	a.Acceleration = a.Acceleration.Add(force)
}

// Separation steers away from neighbours closer than SeparationRadius.
func (a *Agent) Separation(neighbors []*Agent, cfg *Config) geometry.Vector2D {
	var steer geometry.Vector2D
	count := 0
	for _, other := range neighbors {
		d := a.Position.Sub(other.Position)
		dist := d.Len()
		if dist > 0 && dist < cfg.SeparationRadius {
			steer = steer.Add(d.Mul(1 / dist))
			count++
		}
	}
	if count == 0 {
		return geometry.Zero
	}
	steer = steer.Mul(1 / float32(count))
	if steer.IsZero() {
		return geometry.Zero
	}
	return a.steerTowards(steer, cfg)
}

// Alignment steers towards the average velocity of neighbours within AlignmentRadius.
func (a *Agent) Alignment(neighbors []*Agent, cfg *Config) geometry.Vector2D {
	var sum geometry.Vector2D
	count := 0
	for _, other := range neighbors {
		dist := a.Position.DistanceTo(other.Position)
		if dist > 0 && dist < cfg.AlignmentRadius {
			sum = sum.Add(other.Velocity)
			count++
		}
	}
	if count == 0 {
		return geometry.Zero
	}
	avg := sum.Mul(1 / float32(count))
	if avg.IsZero() {
		// opposing neighbours cancel out: no preferred heading
		return geometry.Zero
	}
	return a.steerTowards(avg, cfg)
}

// Cohesion seeks the average position of neighbours within CohesionRadius.
func (a *Agent) Cohesion(neighbors []*Agent, cfg *Config) geometry.Vector2D {
	var sum geometry.Vector2D
	count := 0
	for _, other := range neighbors {
		dist := a.Position.DistanceTo(other.Position)
		if dist > 0 && dist < cfg.CohesionRadius {
			sum = sum.Add(other.Position)
			count++
		}
	}
	if count == 0 {
		return geometry.Zero
	}
	return a.Seek(sum.Mul(1/float32(count)), cfg)
}

// Seek steers towards target at full speed. A target on the agent's own position yields no force.
func (a *Agent) Seek(target geometry.Vector2D, cfg *Config) geometry.Vector2D {
	desired := target.Sub(a.Position)
	if desired.IsZero() {
		return geometry.Zero
	}
	return a.steerTowards(desired, cfg)
}

// steerTowards is the Reynolds steering formula: desired velocity at MaxSpeed minus current
// velocity, limited to MaxForce. direction must be non-zero.
func (a *Agent) steerTowards(direction geometry.Vector2D, cfg *Config) geometry.Vector2D {
	desired := direction.WithLen(cfg.MaxSpeed)
	return desired.Sub(a.Velocity).ClampLen(cfg.MaxForce)
}

// Flock queries the neighbourhood once per rule radius and returns the weighted sum of the
// three steering forces.
func (a *Agent) Flock(n Neighborhood, cfg *Config) geometry.Vector2D {
	sep := a.Separation(n.Within(a.Position, cfg.SeparationRadius), cfg)
	ali := a.Alignment(n.Within(a.Position, cfg.AlignmentRadius), cfg)
	coh := a.Cohesion(n.Within(a.Position, cfg.CohesionRadius), cfg)

	return sep.Mul(cfg.SeparationWeight).
		Add(ali.Mul(cfg.AlignmentWeight)).
		Add(coh.Mul(cfg.CohesionWeight))
}

// Integrate applies the accumulated acceleration: velocity is clamped to MaxSpeed, position
// advances by one velocity step and the acceleration is cleared.
func (a *Agent) Integrate(cfg *Config) {
	a.Velocity = a.Velocity.Add(a.Acceleration).ClampLen(cfg.MaxSpeed)
	a.Position = a.Position.Add(a.Velocity)
	a.Acceleration = geometry.Zero
}

// Wrap moves the agent to the opposite edge when it has left the world.
func (a *Agent) Wrap(world geometry.Rect) {
	a.Position = world.Wrap(a.Position)
}

// Tick runs a whole step for this agent alone: flock, integrate, wrap.
// When stepping a population, every agent's Flock must run before any Integrate so all
// forces see the same snapshot; System.Advance does that.
func (a *Agent) Tick(n Neighborhood, cfg *Config, world geometry.Rect) {
	a.Steer(a.Flock(n, cfg))
	a.Integrate(cfg)
	a.Wrap(world)
}
