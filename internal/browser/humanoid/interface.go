// internal/browser/humanoid/interface.go
package humanoid

import (
	"context"
	"time"
)

// Box is an element's bounding box in viewport CSS pixels.
type Box struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Center returns the midpoint of the box.
func (b Box) Center() Vector2D {
	return Vector2D{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Executor defines the low-level driver inputs the primitives are built on.
// Coordinates are viewport CSS pixels.
type Executor interface {
	Sleep(ctx context.Context, d time.Duration) error
	MouseMove(ctx context.Context, x, y float64) error
	// MouseDown and MouseUp act on the left button at the last moved-to position.
	MouseDown(ctx context.Context) error
	MouseUp(ctx context.Context) error
	// TypeText inserts text through keyboard events on the focused element.
	TypeText(ctx context.Context, text string) error
	// BoundingBox returns nil without error when the selector matches nothing
	// or the element is not rendered.
	BoundingBox(ctx context.Context, selector string) (*Box, error)
	// Click and Fill act on the selector directly and are the fallbacks when a
	// simulated interaction fails.
	Click(ctx context.Context, selector string) error
	Fill(ctx context.Context, selector, value string) error
	// ScrollTo smoothly scrolls the window to a vertical offset.
	ScrollTo(ctx context.Context, y float64) error
}

// Observer receives one event per finished primitive.
type Observer interface {
	ObservePrimitive(primitive, status string)
}
