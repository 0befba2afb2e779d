// internal/browser/humanoid/vector.go
package humanoid

import "math"

// Vector2D represents a point or vector in viewport coordinates.
type Vector2D struct {
	X float64
	Y float64
}

// Add performs vector addition, returning `v + other`.
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub performs vector subtraction, returning `v - other`.
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{X: v.X - other.X, Y: v.Y - other.Y}
}

// Mul performs scalar multiplication, returning `v * scalar`.
func (v Vector2D) Mul(scalar float64) Vector2D {
	return Vector2D{X: v.X * scalar, Y: v.Y * scalar}
}

// Dist calculates the Euclidean distance between `v` and `other`.
func (v Vector2D) Dist(other Vector2D) float64 {
	return math.Hypot(v.X-other.X, v.Y-other.Y)
}

// Point is an integer pixel coordinate on a pointer path.
type Point struct {
	X int
	Y int
}

// Round snaps a vector to the nearest pixel.
func (v Vector2D) Round() Point {
	return Point{X: int(math.Round(v.X)), Y: int(math.Round(v.Y))}
}

// PointerState is the simulated pointer position. It is passed into and
// returned from every primitive that moves the pointer; the zero value is the
// viewport origin.
type PointerState struct {
	X float64
	Y float64
}

// Vector converts the pointer to a Vector2D.
func (p PointerState) Vector() Vector2D { return Vector2D{X: p.X, Y: p.Y} }

func pointerAt(v Vector2D) PointerState { return PointerState{X: v.X, Y: v.Y} }
