package simulation

import (
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/lao-tseu-is-alive/go-boids-flocking/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-flocking/pkg/telemetry"
)

// The flock actor speaks protobuf well-known types:
//
//	*durationpb.Duration    tick, carrying the host frame time
//	*wrapperspb.UInt64Value reset with a new seed
//	*structpb.Struct        tune, a partial or full flock.Config in its JSON form
//	*emptypb.Empty          ask for the current FlockStats, answered with a *structpb.Struct

// Frame is what the renderer receives after every tick. Agents is a private copy.
type Frame struct {
	Tick   uint64
	Agents []flock.AgentState
	Stats  telemetry.FlockStats
	Config flock.Config
}

func tickMessage(dt time.Duration) *durationpb.Duration { return durationpb.New(dt) }

func resetMessage(seed uint64) *wrapperspb.UInt64Value { return wrapperspb.UInt64(seed) }

func statsRequest() *emptypb.Empty { return &emptypb.Empty{} }

// toStruct converts any JSON-encodable value into a protobuf Struct.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding message: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("encoding message: %w", err)
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("encoding message: %w", err)
	}
	return s, nil
}

// fromStruct overlays the fields present in s onto dst.
func fromStruct(s *structpb.Struct, dst any) error {
	b, err := json.Marshal(s.AsMap())
	if err != nil {
		return fmt.Errorf("decoding message: %w", err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("decoding message: %w", err)
	}
	return nil
}
