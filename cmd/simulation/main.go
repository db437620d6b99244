package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	golog "github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-boids-flocking/internal/cli"
	"github.com/lao-tseu-is-alive/go-boids-flocking/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-boids-flocking/pkg/telemetry"
)

func main() {
	var opts cli.Options
	opts.Register(flag.CommandLine)
	ticks := flag.Int("ticks", 1000, "Number of ticks to run")
	statsEvery := flag.Int("stats-every", 50, "Record flock stats every N ticks (0 = only at the end)")
	outputDir := flag.String("out", "", "Output directory for stats.csv and config.yaml (empty = no files)")
	flag.Parse()

	logger := golog.DefaultLogger
	if err := run(opts, *ticks, *statsEvery, *outputDir, logger); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func run(opts cli.Options, ticks, statsEvery int, outputDir string, logger golog.Logger) error {
	cfg, err := opts.Resolve()
	if err != nil {
		return err
	}
	engine, err := opts.NewSystem(cfg, logger)
	if err != nil {
		return err
	}

	var recorder *telemetry.Recorder
	if outputDir != "" {
		if recorder, err = telemetry.CreateRecorder(filepath.Join(outputDir, "stats.csv")); err != nil {
			return err
		}
		defer recorder.Close()
		if err := cfg.WriteYAML(filepath.Join(outputDir, "config.yaml")); err != nil {
			return err
		}
	}

	ctx := context.Background()
	host, err := simulation.StartHost(ctx, "HeadlessBoids", engine, golog.DiscardLogger)
	if err != nil {
		return err
	}
	defer host.Stop(ctx)

	logger.Infof("starting headless run: ticks=%d agents=%d index=%s workers=%d seed=%d",
		ticks, cfg.Population, cfg.Index, cfg.Workers, engine.Seed())

	start := time.Now()
	for tick := 1; tick <= ticks; tick++ {
		if err := host.Tick(ctx, 0); err != nil {
			return fmt.Errorf("tick %d: %w", tick, err)
		}
		if statsEvery > 0 && tick%statsEvery == 0 && tick != ticks {
			if err := record(ctx, host, recorder, logger); err != nil {
				return err
			}
		}
	}
	// The final ask also waits for every queued tick.
	if err := record(ctx, host, recorder, logger); err != nil {
		return err
	}

	elapsed := time.Since(start)
	logger.Infof("done: %d ticks in %s (%.0f ticks/s), %d stats rows",
		ticks, elapsed.Round(time.Millisecond), float64(ticks)/elapsed.Seconds(), recorder.Rows())
	return nil
}

func record(ctx context.Context, host *simulation.Host, recorder *telemetry.Recorder, logger golog.Logger) error {
	stats, err := host.Stats(ctx)
	if err != nil {
		return err
	}
	logger.Debugf("tick %d: speed=%.3f±%.3f polarization=%.3f centroid=(%.1f, %.1f)",
		stats.Tick, stats.MeanSpeed, stats.SpeedStdDev, stats.Polarization, stats.CentroidX, stats.CentroidY)
	return recorder.Record(stats)
}
