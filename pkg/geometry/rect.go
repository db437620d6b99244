package geometry

import "math/rand/v2"

// Rect is a world rectangle centred on the origin: [-HalfW, HalfW] x [-HalfH, HalfH].
type Rect struct {
	HalfW float32
	HalfH float32
}

// NewRect builds the centred rectangle of the given width and height.
func NewRect(width, height float32) Rect {
	return Rect{HalfW: width / 2, HalfH: height / 2}
}

// Width of the rectangle.
func (r Rect) Width() float32 { return 2 * r.HalfW }

// Height of the rectangle.
func (r Rect) Height() float32 { return 2 * r.HalfH }

// Contains reports whether p lies inside the rectangle, edges included.
func (r Rect) Contains(p Vector2D) bool {
	return p.X >= -r.HalfW && p.X <= r.HalfW && p.Y >= -r.HalfH && p.Y <= r.HalfH
}

// Wrap applies the toroidal boundary: a coordinate past one edge jumps to the opposite edge.
// Each axis is handled independently and the jump lands exactly on the edge.
func (r Rect) Wrap(p Vector2D) Vector2D {
	if p.X > r.HalfW {
		p.X = -r.HalfW
	} else if p.X < -r.HalfW {
		p.X = r.HalfW
	}
	if p.Y > r.HalfH {
		p.Y = -r.HalfH
	} else if p.Y < -r.HalfH {
		p.Y = r.HalfH
	}
	return p
}

// RandomPoint returns a point drawn uniformly inside the rectangle.
func (r Rect) RandomPoint(rng *rand.Rand) Vector2D {
	return Vector2D{
		X: (rng.Float32()*2 - 1) * r.HalfW,
		Y: (rng.Float32()*2 - 1) * r.HalfH,
	}
}
