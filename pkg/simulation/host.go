package simulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lao-tseu-is-alive/go-boids-flocking/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-flocking/pkg/telemetry"
)

const (
	frameBuffer       = 2
	defaultAskTimeout = 5 * time.Second
)

// Host runs a flock.System inside a goakt actor system. After StartHost the System belongs to
// the actor: callers talk to it only through the Host.
type Host struct {
	System     actor.ActorSystem
	flockPID   *actor.PID
	frameCh    chan *Frame
	askTimeout time.Duration
}

// StartHost starts an actor system named name and spawns the flock actor around engine.
// A nil logger discards actor-system logs.
func StartHost(ctx context.Context, name string, engine *flock.System, logger golog.Logger) (*Host, error) {
	if engine == nil {
		return nil, errors.New("flock host needs an engine")
	}
	if logger == nil {
		logger = golog.DiscardLogger
	}

	system, err := actor.NewActorSystem(name,
		actor.WithLogger(logger),
		actor.WithActorInitMaxRetries(3))
	if err != nil {
		return nil, fmt.Errorf("failed to create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start actor system: %w", err)
	}

	// Buffered so the actor never waits on the renderer.
	frameCh := make(chan *Frame, frameBuffer)
	pid, err := system.Spawn(ctx, "flock", NewFlockActor(engine, frameCh))
	if err != nil {
		_ = system.Stop(ctx)
		return nil, fmt.Errorf("failed to spawn flock: %w", err)
	}

	return &Host{
		System:     system,
		flockPID:   pid,
		frameCh:    frameCh,
		askTimeout: defaultAskTimeout,
	}, nil
}

// Frames delivers a copy of the flock after ticks. Frames are dropped while nobody reads.
func (h *Host) Frames() <-chan *Frame { return h.frameCh }

// Tick asks the flock to advance one step. dt is the host frame time, kept for logging.
func (h *Host) Tick(ctx context.Context, dt time.Duration) error {
	return actor.Tell(ctx, h.flockPID, tickMessage(dt))
}

// Reset respawns the flock from seed.
func (h *Host) Reset(ctx context.Context, seed uint64) error {
	return actor.Tell(ctx, h.flockPID, resetMessage(seed))
}

// Tune sends a new configuration. It is validated here first so a bad value is reported to
// the caller instead of only being logged by the actor.
func (h *Host) Tune(ctx context.Context, cfg flock.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	msg, err := toStruct(cfg)
	if err != nil {
		return err
	}
	return actor.Tell(ctx, h.flockPID, msg)
}

// Stats returns the statistics of the flock after every message sent before it was processed.
func (h *Host) Stats(ctx context.Context) (telemetry.FlockStats, error) {
	resp, err := actor.Ask(ctx, h.flockPID, statsRequest(), h.askTimeout)
	if err != nil {
		return telemetry.FlockStats{}, fmt.Errorf("asking flock stats: %w", err)
	}
	s, ok := resp.(*structpb.Struct)
	if !ok {
		return telemetry.FlockStats{}, fmt.Errorf("unexpected stats response %T", resp)
	}
	var stats telemetry.FlockStats
	if err := fromStruct(s, &stats); err != nil {
		return telemetry.FlockStats{}, err
	}
	return stats, nil
}

// Stop shuts the actor system down.
func (h *Host) Stop(ctx context.Context) error {
	return h.System.Stop(ctx)
}
