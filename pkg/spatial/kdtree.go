package spatial

import "github.com/lao-tseu-is-alive/go-boids-flocking/pkg/geometry"

// kdNode is one point of the tree. Children are indices into KDTree.nodes, -1 when absent.
// min and max bound every point of the subtree rooted here.
type kdNode struct {
	point       int32
	axis        uint8
	left, right int32
	min, max    geometry.Vector2D
}

// KDTree is a 2-d tree over a position snapshot. Levels split on x and y alternately around
// the median, and every node stores its subtree bounding box so radius queries can prune whole
// subtrees. The tree is rebuilt from scratch on every Build; node and scratch storage is reused.
type KDTree struct {
	points []geometry.Vector2D
	nodes  []kdNode
	order  []int32
	root   int32
}

// NewKDTree returns an empty tree.
func NewKDTree() *KDTree {
	return &KDTree{root: -1}
}

// Build constructs the tree in O(n log n). The caller must not mutate points until the next Build.
func (t *KDTree) Build(points []geometry.Vector2D) {
	n := len(points)
	t.points = points
	if cap(t.nodes) < n {
		t.nodes = make([]kdNode, 0, n)
	}
	t.nodes = t.nodes[:0]
	if cap(t.order) < n {
		t.order = make([]int32, n)
	}
	t.order = t.order[:n]
	for i := range t.order {
		t.order[i] = int32(i)
	}
	t.root = t.build(0, n, 0)
}

func (t *KDTree) build(lo, hi, depth int) int32 {
	if lo >= hi {
		return -1
	}
	axis := depth % 2
	mid := lo + (hi-lo)/2
	t.selectNth(t.order[lo:hi], mid-lo, axis)

	pi := t.order[mid]
	p := t.points[pi]
	idx := int32(len(t.nodes))
	t.nodes = append(t.nodes, kdNode{point: pi, axis: uint8(axis), left: -1, right: -1, min: p, max: p})

	left := t.build(lo, mid, depth+1)
	right := t.build(mid+1, hi, depth+1)

	node := &t.nodes[idx]
	node.left, node.right = left, right
	for _, child := range [2]int32{left, right} {
		if child < 0 {
			continue
		}
		c := &t.nodes[child]
		node.min.X = min(node.min.X, c.min.X)
		node.min.Y = min(node.min.Y, c.min.Y)
		node.max.X = max(node.max.X, c.max.X)
		node.max.Y = max(node.max.Y, c.max.Y)
	}
	return idx
}

// selectNth reorders s so that s[k] holds the k-th smallest coordinate along axis, with
// smaller-or-equal values before it and greater-or-equal after. Three-way partitioning keeps
// runs of coincident points linear.
func (t *KDTree) selectNth(s []int32, k, axis int) {
	lo, hi := 0, len(s)
	for hi-lo > 1 {
		pivot := t.points[s[lo+(hi-lo)/2]].Component(axis)
		lt, i, gt := lo, lo, hi
		for i < gt {
			c := t.points[s[i]].Component(axis)
			switch {
			case c < pivot:
				s[lt], s[i] = s[i], s[lt]
				lt++
				i++
			case c > pivot:
				gt--
				s[i], s[gt] = s[gt], s[i]
			default:
				i++
			}
		}
		switch {
		case k < lt:
			hi = lt
		case k >= gt:
			lo = gt
		default:
			return
		}
	}
}

// QueryRadius appends every point within radius of center.
func (t *KDTree) QueryRadius(dst []int, center geometry.Vector2D, radius float32) []int {
	if t.root < 0 || radius < 0 {
		return dst
	}
	return t.query(dst, t.root, center, radius*radius)
}

func (t *KDTree) query(dst []int, n int32, center geometry.Vector2D, r2 float32) []int {
	node := &t.nodes[n]
	if boxDistSq(node.min, node.max, center) > r2 {
		return dst
	}
	if within(t.points[node.point], center, r2) {
		dst = append(dst, int(node.point))
	}

	// near side first
	first, second := node.left, node.right
	if center.Component(int(node.axis)) >= t.points[node.point].Component(int(node.axis)) {
		first, second = second, first
	}
	if first >= 0 {
		dst = t.query(dst, first, center, r2)
	}
	if second >= 0 {
		dst = t.query(dst, second, center, r2)
	}
	return dst
}

// Len returns the number of indexed points.
func (t *KDTree) Len() int { return len(t.points) }

// Depth returns the height of the tree, 0 when empty.
func (t *KDTree) Depth() int {
	var depth func(n int32) int
	depth = func(n int32) int {
		if n < 0 {
			return 0
		}
		return 1 + max(depth(t.nodes[n].left), depth(t.nodes[n].right))
	}
	return depth(t.root)
}

// boxDistSq is the squared distance from p to the closest point of the box [lo, hi].
// It never exceeds the squared distance from p to any point inside the box.
func boxDistSq(lo, hi, p geometry.Vector2D) float32 {
	var dx, dy float32
	if p.X < lo.X {
		dx = lo.X - p.X
	} else if p.X > hi.X {
		dx = p.X - hi.X
	}
	if p.Y < lo.Y {
		dy = lo.Y - p.Y
	} else if p.Y > hi.Y {
		dy = p.Y - hi.Y
	}
	return dx*dx + dy*dy
}
