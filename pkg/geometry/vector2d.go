package geometry

import (
	"errors"
	"fmt"
	"math"
)

// Epsilon is the tolerance used by Eq for float32 comparisons.
const (
	Epsilon = 1e-5
)

// Vector2D represents a 2D vector or point in cartesian space.
// Components are float32: a flock holds thousands of them and the renderer consumes float32.
type Vector2D struct {
	X float32 `json:"x" yaml:"x"`
	Y float32 `json:"y" yaml:"y"`
}

// Zero is the zero vector.
var Zero = Vector2D{}

// NewVector creates a new Vector2D.
func NewVector(x, y float32) Vector2D {
	return Vector2D{X: x, Y: y}
}

// NewVectorPolar creates a new Vector2D from polar coordinates.
// theta is in radians.
func NewVectorPolar(radius, theta float32) Vector2D {
	s, c := math.Sincos(float64(theta))
	x := float32(float64(radius) * c)
	y := float32(float64(radius) * s)

	// Handle standard floating point precision issues near zero
	if math.Abs(float64(x)) < Epsilon {
		x = 0
	}
	if math.Abs(float64(y)) < Epsilon {
		y = 0
	}

	return Vector2D{X: x, Y: y}
}

// String implements the fmt.Stringer interface.
func (v Vector2D) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y)
}

// ---------------------------------------------------------------------
// Arithmetic Operations
// Value receivers returning new values; Vector2D is small enough to copy.
// ---------------------------------------------------------------------

// Add adds two vectors and returns the result.
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{v.X + other.X, v.Y + other.Y}
}

// Sub subtracts the other vector from the current vector.
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{v.X - other.X, v.Y - other.Y}
}

// Mul scales the vector by a scalar value.
func (v Vector2D) Mul(scalar float32) Vector2D {
	return Vector2D{v.X * scalar, v.Y * scalar}
}

// Div scales the vector by 1/scalar.
// A zero scalar returns an Inf vector together with an error.
func (v Vector2D) Div(scalar float32) (Vector2D, error) {
	if scalar == 0 {
		inf := float32(math.Inf(1))
		return Vector2D{inf, inf}, errors.New("vector cannot be divided by zero")
	}
	return Vector2D{v.X / scalar, v.Y / scalar}, nil
}

// ---------------------------------------------------------------------
// Vector2D Products
// ---------------------------------------------------------------------

// Dot calculates the dot product of two vectors.
func (v Vector2D) Dot(other Vector2D) float32 {
	return v.X*other.X + v.Y*other.Y
}

// Cross calculates the 2D scalar cross product (z-component of 3D cross product).
func (v Vector2D) Cross(other Vector2D) float32 {
	return v.X*other.Y - v.Y*other.X
}

// ---------------------------------------------------------------------
// Magnitude and Normalization
// ---------------------------------------------------------------------

// LenSqr calculates the squared magnitude of the vector.
// Cheaper than Len; use it for comparisons.
func (v Vector2D) LenSqr() float32 {
	return v.X*v.X + v.Y*v.Y
}

// Len calculates the magnitude (length) of the vector.
func (v Vector2D) Len() float32 {
	return float32(math.Hypot(float64(v.X), float64(v.Y)))
}

// IsZero reports whether both components are exactly zero.
func (v Vector2D) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// IsFinite reports whether neither component is NaN or infinite.
func (v Vector2D) IsFinite() bool {
	x, y := float64(v.X), float64(v.Y)
	return !math.IsNaN(x) && !math.IsInf(x, 0) && !math.IsNaN(y) && !math.IsInf(y, 0)
}

// Normalize returns a unit vector in the same direction.
// The zero vector normalizes to the zero vector instead of NaN.
func (v Vector2D) Normalize() Vector2D {
	l := v.Len()
	if l == 0 {
		return Vector2D{0, 0}
	}
	return Vector2D{v.X / l, v.Y / l}
}

// WithLen returns the vector rescaled to length l, keeping its direction.
func (v Vector2D) WithLen(l float32) Vector2D {
	return v.Normalize().Mul(l)
}

// ClampLen limits the magnitude of the vector to max.
// Vectors already within the limit are returned unchanged.
func (v Vector2D) ClampLen(max float32) Vector2D {
	if v.LenSqr() <= max*max {
		return v
	}
	return v.WithLen(max)
}

// ---------------------------------------------------------------------
// Geometric Utilities
// ---------------------------------------------------------------------

// DistanceTo calculates the Euclidean distance to another vector.
func (v Vector2D) DistanceTo(other Vector2D) float32 {
	return v.Sub(other).Len()
}

// DistanceSquaredTo calculates the squared Euclidean distance to another vector.
func (v Vector2D) DistanceSquaredTo(other Vector2D) float32 {
	return v.Sub(other).LenSqr()
}

// Angle returns the angle (in radians) of the vector relative to the X-axis.
// Range: [-Pi, Pi]
func (v Vector2D) Angle() float32 {
	return float32(math.Atan2(float64(v.Y), float64(v.X)))
}

// Rotate rotates the vector by angle (in radians) around the origin (0,0).
func (v Vector2D) Rotate(angle float32) Vector2D {
	sinTheta, cosTheta := math.Sincos(float64(angle))
	x, y := float64(v.X), float64(v.Y)
	return Vector2D{
		X: float32(x*cosTheta - y*sinTheta),
		Y: float32(x*sinTheta + y*cosTheta),
	}
}

// Lerp (Linear Interpolate) calculates a point between v and target based on t [0, 1].
func (v Vector2D) Lerp(target Vector2D, t float32) Vector2D {
	return v.Add(target.Sub(v).Mul(t))
}

// Component returns the coordinate along axis 0 (X) or 1 (Y).
func (v Vector2D) Component(axis int) float32 {
	if axis == 0 {
		return v.X
	}
	return v.Y
}

// ---------------------------------------------------------------------
// Comparison
// ---------------------------------------------------------------------

// Eq checks if two vectors are approximately equal using the Epsilon constant.
func (v Vector2D) Eq(other Vector2D) bool {
	return math.Abs(float64(v.X-other.X)) <= Epsilon && math.Abs(float64(v.Y-other.Y)) <= Epsilon
}
