// Package cli holds the command-line surface shared by the windowed and headless runners.
package cli

import (
	"flag"
	"fmt"

	golog "github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-boids-flocking/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-flocking/pkg/spatial"
)

// Options are the flags that pick and override the flock configuration.
type Options struct {
	ConfigPath string
	Preset     string
	Seed       uint64 // 0 = time-based
	Index      string // empty = keep the configured strategy
	Population int    // negative = keep the configured population
	Workers    int    // negative = keep the configured worker count
}

// Register binds the options to fs.
func (o *Options) Register(fs *flag.FlagSet) {
	fs.StringVar(&o.ConfigPath, "config", "", "Path to a .json, .yaml or .yml flock config (empty = preset only)")
	fs.StringVar(&o.Preset, "preset", "a", "Base preset: a (dense, kdtree) or b (sparse, linear)")
	fs.Uint64Var(&o.Seed, "seed", 0, "RNG seed (0 = time-based)")
	fs.StringVar(&o.Index, "index", "", "Neighbour index: linear, kdtree or grid (empty = from config)")
	fs.IntVar(&o.Population, "population", -1, "Number of agents (-1 = from config)")
	fs.IntVar(&o.Workers, "workers", -1, "Force phase goroutines (-1 = from config)")
}

// Resolve builds the effective configuration: preset, then config file, then flag overrides.
func (o Options) Resolve() (flock.Config, error) {
	cfg, err := flock.Preset(o.Preset)
	if err != nil {
		return flock.Config{}, err
	}
	if o.ConfigPath != "" {
		if cfg, err = flock.LoadConfig(o.ConfigPath, cfg); err != nil {
			return flock.Config{}, fmt.Errorf("loading %s: %w", o.ConfigPath, err)
		}
	}
	if o.Index != "" {
		if cfg.Index, err = spatial.ParseStrategy(o.Index); err != nil {
			return flock.Config{}, err
		}
	}
	if o.Population >= 0 {
		cfg.Population = o.Population
	}
	if o.Workers >= 0 {
		cfg.Workers = o.Workers
	}
	if err := cfg.Validate(); err != nil {
		return flock.Config{}, err
	}
	return cfg, nil
}

// NewSystem builds the engine for cfg with the seed from the options.
func (o Options) NewSystem(cfg flock.Config, logger golog.Logger) (*flock.System, error) {
	opts := []flock.Option{flock.WithLogger(logger)}
	if o.Seed != 0 {
		opts = append(opts, flock.WithSeed(o.Seed))
	}
	return flock.New(cfg, opts...)
}
