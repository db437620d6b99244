package spatial

import (
	"math"

	"github.com/lao-tseu-is-alive/go-boids-flocking/pkg/geometry"
)

// minCellSize avoids tiny grids and division by zero.
const minCellSize = 1.0

type gridKey struct {
	x, y int
}

// Grid is a uniform spatial hash. With the cell size set to the largest query radius a query
// touches at most a 3x3 block of cells.
type Grid struct {
	cellSize float32
	points   []geometry.Vector2D
	cells    map[gridKey][]int
}

// NewGrid returns an empty grid whose cells are cellSize wide.
func NewGrid(cellSize float32) *Grid {
	if !(cellSize >= minCellSize) {
		cellSize = minCellSize
	}
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[gridKey][]int),
	}
}

// CellSize returns the width of a cell.
func (g *Grid) CellSize() float32 { return g.cellSize }

// Build buckets every point. The caller must not mutate points until the next Build.
func (g *Grid) Build(points []geometry.Vector2D) {
	g.points = points
	// Reset slices to length 0 but keep their capacity, so steady-state rebuilds
	// reuse the same backing arrays.
	for k := range g.cells {
		g.cells[k] = g.cells[k][:0]
	}
	for i, p := range points {
		key := g.keyOf(p)
		g.cells[key] = append(g.cells[key], i)
	}
}

// QueryRadius appends every point within radius of center.
func (g *Grid) QueryRadius(dst []int, center geometry.Vector2D, radius float32) []int {
	if radius < 0 || len(g.points) == 0 {
		return dst
	}
	r2 := radius * radius

	// A query wider than the occupied area is cheaper as a plain scan.
	span := float64(radius)/float64(g.cellSize)*2 + 2
	if span*span > float64(len(g.cells)) {
		for i, p := range g.points {
			if within(p, center, r2) {
				dst = append(dst, i)
			}
		}
		return dst
	}

	// The covering range is padded by a sliver of a cell so rounding in center±radius can never
	// drop a cell holding a point that the distance test would accept.
	reach := radius + g.cellSize*0.05
	minG := g.keyOf(geometry.Vector2D{X: center.X - reach, Y: center.Y - reach})
	maxG := g.keyOf(geometry.Vector2D{X: center.X + reach, Y: center.Y + reach})
	for gx := minG.x; gx <= maxG.x; gx++ {
		for gy := minG.y; gy <= maxG.y; gy++ {
			for _, i := range g.cells[gridKey{x: gx, y: gy}] {
				if within(g.points[i], center, r2) {
					dst = append(dst, i)
				}
			}
		}
	}
	return dst
}

// Len returns the number of indexed points.
func (g *Grid) Len() int { return len(g.points) }

func (g *Grid) keyOf(p geometry.Vector2D) gridKey {
	return gridKey{
		x: int(math.Floor(float64(p.X / g.cellSize))),
		y: int(math.Floor(float64(p.Y / g.cellSize))),
	}
}
