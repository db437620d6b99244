// Package spatial answers fixed-radius neighbour queries over a snapshot of points.
//
// An Index is rebuilt from scratch every simulation tick and is read-only in between,
// so concurrent queries against a built index are safe.
package spatial

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lao-tseu-is-alive/go-boids-flocking/pkg/geometry"
)

// ErrUnknownStrategy is returned when an index strategy name is not recognised.
var ErrUnknownStrategy = errors.New("unknown spatial index strategy")

// Strategy selects an Index implementation.
type Strategy string

const (
	StrategyLinear Strategy = "linear"
	StrategyKDTree Strategy = "kdtree"
	StrategyGrid   Strategy = "grid"
)

// Strategies lists every supported strategy.
var Strategies = []Strategy{StrategyLinear, StrategyKDTree, StrategyGrid}

// Index is a neighbour-query structure built from a position snapshot.
//
// QueryRadius appends to dst the identifiers (indices into the slice given to Build) of every
// point p with |p - center|² <= radius², and returns the extended slice. Result order is not
// significant. The center's own point is not excluded.
type Index interface {
	Build(points []geometry.Vector2D)
	QueryRadius(dst []int, center geometry.Vector2D, radius float32) []int
	Len() int
}

// ParseStrategy converts a configuration string to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	st := Strategy(strings.ToLower(strings.TrimSpace(s)))
	if st.Valid() {
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// Valid reports whether s names a supported strategy.
func (s Strategy) Valid() bool {
	for _, known := range Strategies {
		if s == known {
			return true
		}
	}
	return false
}

func (s Strategy) String() string { return string(s) }

// New returns an empty index for the strategy. cellSize is only used by the grid and
// should be the largest query radius.
func New(s Strategy, cellSize float32) (Index, error) {
	switch s {
	case StrategyLinear:
		return NewLinear(), nil
	case StrategyKDTree:
		return NewKDTree(), nil
	case StrategyGrid:
		return NewGrid(cellSize), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, string(s))
	}
}

// within is the shared distance predicate, so that every strategy agrees bit for bit.
func within(p, center geometry.Vector2D, radiusSq float32) bool {
	dx := p.X - center.X
	dy := p.Y - center.Y
	return dx*dx+dy*dy <= radiusSq
}
