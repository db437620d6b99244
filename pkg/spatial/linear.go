package spatial

import "github.com/lao-tseu-is-alive/go-boids-flocking/pkg/geometry"

// Linear scans every point on each query. It is the reference the other strategies are
// tested against.
type Linear struct {
	points []geometry.Vector2D
}

// NewLinear returns an empty linear index.
func NewLinear() *Linear {
	return &Linear{}
}

// Build keeps a reference to points; the caller must not mutate them until the next Build.
func (l *Linear) Build(points []geometry.Vector2D) {
	l.points = points
}

// QueryRadius appends every point within radius of center.
func (l *Linear) QueryRadius(dst []int, center geometry.Vector2D, radius float32) []int {
	if radius < 0 {
		return dst
	}
	r2 := radius * radius
	for i, p := range l.points {
		if within(p, center, r2) {
			dst = append(dst, i)
		}
	}
	return dst
}

// Len returns the number of indexed points.
func (l *Linear) Len() int { return len(l.points) }
