package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	golog "github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-boids-flocking/internal/cli"
	"github.com/lao-tseu-is-alive/go-boids-flocking/pkg/render"
	"github.com/lao-tseu-is-alive/go-boids-flocking/pkg/simulation"
)

func main() {
	var opts cli.Options
	opts.Register(flag.CommandLine)
	flag.Parse()

	cfg, err := opts.Resolve()
	if err != nil {
		log.Fatal(err)
	}

	logger := golog.DefaultLogger
	engine, err := opts.NewSystem(cfg, logger)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	host, err := simulation.StartHost(ctx, "BoidsWorld", engine, golog.DiscardLogger)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_ = host.Stop(stopCtx)
	}()

	game := render.NewGame(ctx, host, cfg, engine.Seed(), logger)

	ebiten.SetWindowSize(int(cfg.WorldWidth), int(cfg.WorldHeight))
	ebiten.SetWindowTitle("Boids: separation, alignment, cohesion")
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
