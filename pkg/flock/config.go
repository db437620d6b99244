package flock

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/lao-tseu-is-alive/go-boids-flocking/pkg/spatial"
)

// ErrInvalidConfig wraps every configuration problem reported by Validate.
var ErrInvalidConfig = errors.New("invalid flock config")

// Config holds every tunable of the simulation.
type Config struct {
	// Population
	Population int `json:"population" yaml:"population"`

	// World Dimensions, centred on the origin
	WorldWidth  float32 `json:"worldWidth" yaml:"world_width"`
	WorldHeight float32 `json:"worldHeight" yaml:"world_height"`

	// Physics
	MaxForce float32 `json:"maxForce" yaml:"max_force"` // steering magnitude limit per rule
	MaxSpeed float32 `json:"maxSpeed" yaml:"max_speed"`

	// Neighbour radii
	SeparationRadius float32 `json:"separationRadius" yaml:"separation_radius"`
	AlignmentRadius  float32 `json:"alignmentRadius" yaml:"alignment_radius"`
	CohesionRadius   float32 `json:"cohesionRadius" yaml:"cohesion_radius"`

	// Rule weights
	SeparationWeight float32 `json:"separationWeight" yaml:"separation_weight"`
	AlignmentWeight  float32 `json:"alignmentWeight" yaml:"alignment_weight"`
	CohesionWeight   float32 `json:"cohesionWeight" yaml:"cohesion_weight"`

	// AgentRadius is the sprite size; it plays no part in the physics.
	AgentRadius float32 `json:"agentRadius" yaml:"agent_radius"`

	// Engine
	Index   spatial.Strategy `json:"index" yaml:"index"`
	Workers int              `json:"workers" yaml:"workers"` // >1 computes forces in parallel
}

// PresetA is the dense profile: 900 small agents with short radii and a kd-tree index.
func PresetA() Config {
	return Config{
		Population:       900,
		WorldWidth:       800,
		WorldHeight:      800,
		MaxForce:         0.03,
		MaxSpeed:         2.8,
		SeparationRadius: 25,
		AlignmentRadius:  20,
		CohesionRadius:   20,
		SeparationWeight: 2.0,
		AlignmentWeight:  1.5,
		CohesionWeight:   1.3,
		AgentRadius:      8,
		Index:            spatial.StrategyKDTree,
	}
}

// PresetB is the sparse profile: 500 larger agents with wide radii, brute-force neighbours.
func PresetB() Config {
	return Config{
		Population:       500,
		WorldWidth:       800,
		WorldHeight:      800,
		MaxForce:         0.03,
		MaxSpeed:         2.8,
		SeparationRadius: 30,
		AlignmentRadius:  50,
		CohesionRadius:   50,
		SeparationWeight: 1.9,
		AlignmentWeight:  1.0,
		CohesionWeight:   1.0,
		AgentRadius:      20,
		Index:            spatial.StrategyLinear,
	}
}

var presets = map[string]func() Config{
	"a": PresetA,
	"b": PresetB,
}

// DefaultConfig returns preset "a".
func DefaultConfig() Config {
	return PresetA()
}

// Preset returns a named preset ("a" or "b").
func Preset(name string) (Config, error) {
	if p, ok := presets[strings.ToLower(strings.TrimSpace(name))]; ok {
		return p(), nil
	}
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return Config{}, fmt.Errorf("unknown preset %q (known: %s)", name, strings.Join(names, ", "))
}

// Validate reports every problem in the config at once. Each error wraps ErrInvalidConfig.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}
	finite := func(v float32) bool {
		f := float64(v)
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	}

	if c.Population < 0 {
		bad("population must be >= 0, got %d", c.Population)
	}
	if !finite(c.WorldWidth) || c.WorldWidth <= 0 {
		bad("worldWidth must be a positive number, got %v", c.WorldWidth)
	}
	if !finite(c.WorldHeight) || c.WorldHeight <= 0 {
		bad("worldHeight must be a positive number, got %v", c.WorldHeight)
	}
	if !finite(c.MaxSpeed) || c.MaxSpeed <= 0 {
		bad("maxSpeed must be a positive number, got %v", c.MaxSpeed)
	}
	if !finite(c.MaxForce) || c.MaxForce < 0 {
		bad("maxForce must be >= 0, got %v", c.MaxForce)
	}
	for _, r := range []struct {
		name string
		v    float32
	}{
		{"separationRadius", c.SeparationRadius},
		{"alignmentRadius", c.AlignmentRadius},
		{"cohesionRadius", c.CohesionRadius},
		{"agentRadius", c.AgentRadius},
	} {
		if !finite(r.v) || r.v < 0 {
			bad("%s must be >= 0, got %v", r.name, r.v)
		}
	}
	for _, w := range []struct {
		name string
		v    float32
	}{
		{"separationWeight", c.SeparationWeight},
		{"alignmentWeight", c.AlignmentWeight},
		{"cohesionWeight", c.CohesionWeight},
	} {
		if !finite(w.v) {
			bad("%s must be a finite number, got %v", w.name, w.v)
		}
	}
	if !c.Index.Valid() {
		bad("index must be one of %v, got %q", spatial.Strategies, string(c.Index))
	}
	if c.Workers < 0 {
		bad("workers must be >= 0, got %d", c.Workers)
	}
	return errors.Join(errs...)
}

// maxRadius is the widest neighbour radius; the grid index uses it as its cell size.
func (c Config) maxRadius() float32 {
	return max(c.SeparationRadius, c.AlignmentRadius, c.CohesionRadius)
}
