package cli

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	golog "github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-boids-flocking/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-flocking/pkg/spatial"
)

func parse(t *testing.T, args ...string) Options {
	t.Helper()
	var o Options
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	o.Register(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	return o
}

func TestResolve_Defaults(t *testing.T) {
	cfg, err := parse(t).Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if cfg != flock.PresetA() {
		t.Errorf("Resolve() = %+v; want preset a", cfg)
	}
}

func TestResolve_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flock.yaml")
	if err := os.WriteFile(path, []byte("population: 77\ncohesion_radius: 40\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := parse(t, "-preset", "b", "-config", path, "-index", "grid", "-workers", "4").Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Population != 77 || cfg.CohesionRadius != 40 {
		t.Errorf("config file not applied: %+v", cfg)
	}
	if cfg.Index != spatial.StrategyGrid || cfg.Workers != 4 {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.SeparationWeight != flock.PresetB().SeparationWeight {
		t.Errorf("preset b not used as base: %+v", cfg)
	}

	cfg, err = parse(t, "-config", path, "-population", "5").Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Population != 5 {
		t.Errorf("-population should win over the file, got %d", cfg.Population)
	}
}

func TestResolve_Errors(t *testing.T) {
	if _, err := parse(t, "-preset", "z").Resolve(); err == nil {
		t.Error("unknown preset accepted")
	}
	if _, err := parse(t, "-index", "octree").Resolve(); !errors.Is(err, spatial.ErrUnknownStrategy) {
		t.Errorf("unknown index error = %v", err)
	}
	if _, err := parse(t, "-config", filepath.Join(t.TempDir(), "missing.json")).Resolve(); err == nil {
		t.Error("missing config file accepted")
	}
}

func TestNewSystem_Seed(t *testing.T) {
	o := parse(t, "-seed", "42", "-population", "10")
	cfg, err := o.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	a, err := o.NewSystem(cfg, golog.DiscardLogger)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := o.NewSystem(cfg, golog.DiscardLogger)
	if a.Seed() != 42 || a.Snapshot()[3] != b.Snapshot()[3] {
		t.Error("seeded systems differ")
	}
}
