package flock

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/tochemey/goakt/v3/log"
	"golang.org/x/sync/errgroup"

	"github.com/lao-tseu-is-alive/go-boids-flocking/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-boids-flocking/pkg/spatial"
)

// minParallelAgents is the population below which the force phase stays on one goroutine.
const minParallelAgents = 64

// pcgStream is the fixed second PCG word; runs are reproducible from the seed alone.
const pcgStream = 0x9e3779b97f4a7c15

// AgentState is the read-only view of one agent handed to renderers.
type AgentState struct {
	ID       int               `json:"id" csv:"id"`
	Position geometry.Vector2D `json:"position" csv:"-"`
	Velocity geometry.Vector2D `json:"velocity" csv:"-"`
	Heading  float32           `json:"heading" csv:"heading"` // radians, from velocity
	Radius   float32           `json:"radius" csv:"radius"`
}

// System owns a fixed population of agents and the spatial index, and advances them one
// tick at a time. A System is not safe for concurrent use: the host must alternate Advance
// and reads.
type System struct {
	cfg   Config
	world geometry.Rect

	agents    []Agent
	positions []geometry.Vector2D // index snapshot, rewritten each tick
	forces    []geometry.Vector2D // force phase output, one slot per agent
	index     spatial.Index
	hoods     []*indexedNeighborhood // one per worker

	rng     *rand.Rand
	seed    uint64
	seedSet bool
	tick    uint64
	logger  log.Logger
}

// Option configures a System at construction.
type Option func(*System)

// WithSeed makes the initial population reproducible.
func WithSeed(seed uint64) Option {
	return func(s *System) {
		s.seed = seed
		s.seedSet = true
	}
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(l log.Logger) Option {
	return func(s *System) {
		if l != nil {
			s.logger = l
		}
	}
}

// New validates cfg, spawns the population and builds the first index.
func New(cfg Config, opts ...Option) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &System{
		cfg:    cfg,
		world:  geometry.NewRect(cfg.WorldWidth, cfg.WorldHeight),
		logger: log.DiscardLogger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if !s.seedSet {
		s.seed = uint64(time.Now().UnixNano())
	}

	index, err := spatial.New(cfg.Index, cfg.maxRadius())
	if err != nil {
		return nil, err
	}
	s.index = index
	s.spawn(s.seed)

	s.logger.Infof("flock initialised: %d agents in %.0fx%.0f, index=%s, workers=%d, seed=%d",
		cfg.Population, cfg.WorldWidth, cfg.WorldHeight, cfg.Index, cfg.Workers, s.seed)
	return s, nil
}

// Initialize builds a System from the default preset with the given population and world size.
// A nil seed picks a time-based one.
func Initialize(populationSize int, worldWidth, worldHeight float32, seed *uint64) (*System, error) {
	cfg := DefaultConfig()
	cfg.Population = populationSize
	cfg.WorldWidth = worldWidth
	cfg.WorldHeight = worldHeight
	var opts []Option
	if seed != nil {
		opts = append(opts, WithSeed(*seed))
	}
	return New(cfg, opts...)
}

// spawn replaces the whole population with agents drawn from a fresh RNG.
func (s *System) spawn(seed uint64) {
	s.seed = seed
	s.rng = rand.New(rand.NewPCG(seed, pcgStream))
	s.tick = 0

	s.agents = make([]Agent, s.cfg.Population)
	for i := range s.agents {
		s.agents[i] = RandomAgent(s.rng, s.world, s.cfg.MaxSpeed, s.cfg.AgentRadius)
	}
	s.positions = make([]geometry.Vector2D, len(s.agents))
	s.forces = make([]geometry.Vector2D, len(s.agents))
	s.rebuildIndex()
}

func (s *System) rebuildIndex() {
	for i := range s.agents {
		s.positions[i] = s.agents[i].Position
	}
	s.index.Build(s.positions)
}

// Advance runs one tick: rebuild the index from the current positions, compute every agent's
// flocking force against that snapshot, then integrate and wrap each agent.
// An empty population makes this a no-op apart from the tick counter.
func (s *System) Advance() {
	s.tick++
	if len(s.agents) == 0 {
		return
	}

	s.rebuildIndex()
	s.computeForces()

	for i := range s.agents {
		a := &s.agents[i]
		a.Steer(s.forces[i])
		a.Integrate(&s.cfg)
		a.Wrap(s.world)
	}
}

// computeForces fills s.forces. Agents are only read here; with several workers each one owns
// a disjoint range of s.forces, so the result does not depend on the worker count.
func (s *System) computeForces() {
	n := len(s.agents)
	workers := s.cfg.Workers
	if workers <= 1 || n < minParallelAgents {
		workers = 1
	}
	s.ensureHoods(workers)

	if workers == 1 {
		hood := s.hoods[0]
		for i := range s.agents {
			s.forces[i] = s.agents[i].Flock(hood, &s.cfg)
		}
		return
	}

	chunk := (n + workers - 1) / workers
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, n)
		if lo >= hi {
			break
		}
		hood := s.hoods[w]
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				s.forces[i] = s.agents[i].Flock(hood, &s.cfg)
			}
			return nil
		})
	}
	_ = g.Wait() // workers never fail
}

func (s *System) ensureHoods(k int) {
	for len(s.hoods) < k {
		s.hoods = append(s.hoods, &indexedNeighborhood{})
	}
	for _, h := range s.hoods[:k] {
		h.index = s.index
		h.agents = s.agents
	}
}

// Reset respawns the population from seed and restarts the tick counter.
func (s *System) Reset(seed uint64) {
	s.spawn(seed)
	s.logger.Infof("flock reset: %d agents, seed=%d", len(s.agents), seed)
}

// SetAgents replaces the population with a copy of agents, e.g. to replay a recorded layout.
// Config.Population follows the new length and the tick counter restarts.
func (s *System) SetAgents(agents []Agent) {
	s.agents = slices.Clone(agents)
	if s.agents == nil {
		s.agents = []Agent{}
	}
	s.cfg.Population = len(s.agents)
	s.positions = make([]geometry.Vector2D, len(s.agents))
	s.forces = make([]geometry.Vector2D, len(s.agents))
	s.tick = 0
	s.rebuildIndex()
}

// Reconfigure applies a new configuration to the running flock. Agents are kept; the
// population is trimmed or topped up with random agents, velocities are re-clamped to the new
// MaxSpeed and positions re-wrapped into the new world.
func (s *System) Reconfigure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	old := s.cfg
	s.cfg = cfg
	s.world = geometry.NewRect(cfg.WorldWidth, cfg.WorldHeight)

	if cfg.Index != old.Index || cfg.maxRadius() != old.maxRadius() {
		index, err := spatial.New(cfg.Index, cfg.maxRadius())
		if err != nil {
			s.cfg = old
			s.world = geometry.NewRect(old.WorldWidth, old.WorldHeight)
			return err
		}
		s.index = index
	}

	if cfg.Population < len(s.agents) {
		s.agents = s.agents[:cfg.Population:cfg.Population]
	}
	for len(s.agents) < cfg.Population {
		s.agents = append(s.agents, RandomAgent(s.rng, s.world, cfg.MaxSpeed, cfg.AgentRadius))
	}
	for i := range s.agents {
		a := &s.agents[i]
		a.Velocity = a.Velocity.ClampLen(cfg.MaxSpeed)
		a.Radius = cfg.AgentRadius
		a.Wrap(s.world)
	}
	s.positions = slices.Grow(s.positions[:0], len(s.agents))[:len(s.agents)]
	s.forces = slices.Grow(s.forces[:0], len(s.agents))[:len(s.agents)]
	s.rebuildIndex()

	s.logger.Debugf("flock reconfigured: %+v", cfg)
	return nil
}

// Snapshot returns a copy of every agent's render state.
func (s *System) Snapshot() []AgentState {
	return s.SnapshotInto(make([]AgentState, 0, len(s.agents)))
}

// SnapshotInto is Snapshot reusing dst's storage.
func (s *System) SnapshotInto(dst []AgentState) []AgentState {
	dst = dst[:0]
	for i := range s.agents {
		a := &s.agents[i]
		dst = append(dst, AgentState{
			ID:       i,
			Position: a.Position,
			Velocity: a.Velocity,
			Heading:  a.Heading(),
			Radius:   a.Radius,
		})
	}
	return dst
}

// Agents returns a copy of the population.
func (s *System) Agents() []Agent { return slices.Clone(s.agents) }

// Len returns the population size.
func (s *System) Len() int { return len(s.agents) }

// Tick returns the number of ticks since the population was spawned.
func (s *System) Tick() uint64 { return s.tick }

// Seed returns the seed the current population was spawned from.
func (s *System) Seed() uint64 { return s.seed }

// Config returns the active configuration.
func (s *System) Config() Config { return s.cfg }

// World returns the world rectangle.
func (s *System) World() geometry.Rect { return s.world }

// indexedNeighborhood resolves index hits to agents. Its buffers are reused across queries,
// so each worker needs its own.
type indexedNeighborhood struct {
	index  spatial.Index
	agents []Agent
	ids    []int
	out    []*Agent
}

func (n *indexedNeighborhood) Within(center geometry.Vector2D, radius float32) []*Agent {
	n.ids = n.index.QueryRadius(n.ids[:0], center, radius)
	n.out = n.out[:0]
	for _, id := range n.ids {
		n.out = append(n.out, &n.agents[id])
	}
	return n.out
}
