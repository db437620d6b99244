package simulation

import (
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/lao-tseu-is-alive/go-boids-flocking/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-flocking/pkg/telemetry"
)

// FlockActor owns the flock.System. Its mailbox serialises ticks, resets and tuning, so the
// engine is never touched from two goroutines.
type FlockActor struct {
	system   *flock.System
	frameCh  chan<- *Frame
	lastTick time.Duration

	// --- Benchmark Stats ---
	tickCount   int
	lastLogTime time.Time
}

var _ actor.Actor = (*FlockActor)(nil)

// NewFlockActor wraps system. Frames are pushed to frameCh without blocking; a nil channel
// disables frame delivery.
func NewFlockActor(system *flock.System, frameCh chan<- *Frame) *FlockActor {
	return &FlockActor{
		system:      system,
		frameCh:     frameCh,
		lastLogTime: time.Now(),
	}
}

func (f *FlockActor) PreStart(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Info("Flock is starting...")
	return nil
}

func (f *FlockActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {

	case *goaktpb.PostStart:
		ctx.Logger().Infof("Flock started: %d agents, seed=%d", f.system.Len(), f.system.Seed())
		f.pushFrame()

	// The main simulation step (driven by the host loop)
	case *durationpb.Duration:
		f.lastTick = msg.AsDuration()
		f.system.Advance()
		f.logBenchmarks(ctx)
		f.pushFrame()

	case *wrapperspb.UInt64Value:
		f.system.Reset(msg.GetValue())
		ctx.Logger().Infof("Flock reset with seed %d", msg.GetValue())
		f.pushFrame()

	// Live tuning from the UI
	case *structpb.Struct:
		cfg := f.system.Config()
		if err := fromStruct(msg, &cfg); err != nil {
			ctx.Logger().Warnf("ignoring tuning message: %v", err)
			return
		}
		if cfg == f.system.Config() {
			return
		}
		if err := f.system.Reconfigure(cfg); err != nil {
			ctx.Logger().Warnf("ignoring tuning message: %v", err)
		}

	case *emptypb.Empty:
		stats := telemetry.Measure(f.system.Tick(), f.system.Snapshot())
		resp, err := toStruct(stats)
		if err != nil {
			ctx.Err(err)
			return
		}
		ctx.Response(resp)

	default:
		ctx.Unhandled()
	}
}

func (f *FlockActor) logBenchmarks(ctx *actor.ReceiveContext) {
	f.tickCount++
	if time.Since(f.lastLogTime) >= time.Second {
		ctx.Logger().Infof("📊 TICK RATE: %d/sec | Agents: %d | Tick: %d | Frame: %s",
			f.tickCount, f.system.Len(), f.system.Tick(), f.lastTick)
		f.tickCount = 0
		f.lastLogTime = time.Now()
	}
}

func (f *FlockActor) pushFrame() {
	if f.frameCh == nil {
		return
	}
	agents := f.system.Snapshot()
	frame := &Frame{
		Tick:   f.system.Tick(),
		Agents: agents,
		Stats:  telemetry.Measure(f.system.Tick(), agents),
		Config: f.system.Config(),
	}
	select {
	case f.frameCh <- frame:
	default:
		// UI busy, skip frame
	}
}

func (f *FlockActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Info("Flock is shutdown...")
	return nil
}
