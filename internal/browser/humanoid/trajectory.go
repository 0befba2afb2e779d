package humanoid

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"
)

// BezierPath samples a cubic Bezier curve from start to end at numPoints+1
// evenly spaced parameter values, rounding each sample to whole pixels.
// The two control points sit at the thirds of the straight line, each
// coordinate offset by a uniform integer in [-controlOffset, controlOffset].
func BezierPath(rng *gofakeit.Faker, start, end Vector2D, numPoints, controlOffset int) []Point {
	if numPoints < 1 {
		numPoints = 1
	}
	offset := func() float64 {
		if controlOffset <= 0 {
			return 0
		}
		return float64(rng.IntRange(-controlOffset, controlOffset))
	}

	d := end.Sub(start)
	p1 := start.Add(d.Mul(1.0 / 3.0)).Add(Vector2D{X: offset(), Y: offset()})
	p2 := start.Add(d.Mul(2.0 / 3.0)).Add(Vector2D{X: offset(), Y: offset()})

	path := make([]Point, numPoints+1)
	for i := 0; i <= numPoints; i++ {
		t := float64(i) / float64(numPoints)
		omt := 1.0 - t
		omt2 := omt * omt
		t2 := t * t

		p := start.Mul(omt2 * omt).
			Add(p1.Mul(3 * omt2 * t)).
			Add(p2.Mul(3 * omt * t2)).
			Add(end.Mul(t2 * t))
		path[i] = p.Round()
	}
	return path
}

// MoveTo moves the pointer along a Bezier path to a jittered point near the
// center of the element. It is a no-op when the element has no bounding box.
// Driver errors are logged and reported as Degraded.
func (h *Humanoid) MoveTo(ctx context.Context, ptr PointerState, selector string) (PointerState, Outcome) {
	box, err := h.executor.BoundingBox(ctx, selector)
	if err != nil {
		h.logger.Warn("Mouse movement failed", zap.String("selector", selector), zap.Error(err))
		return ptr, h.record("move", Degraded(fmt.Sprintf("bounding box: %v", err)))
	}
	if box == nil {
		return ptr, h.record("move", Degraded("element has no bounding box"))
	}

	next, err := h.moveToBox(ctx, ptr, *box)
	if err != nil {
		h.logger.Warn("Mouse movement failed", zap.String("selector", selector), zap.Error(err))
		return next, h.record("move", Degraded(err.Error()))
	}
	return next, h.record("move", Succeeded())
}

// moveToBox walks the path and returns the last position actually reached.
func (h *Humanoid) moveToBox(ctx context.Context, ptr PointerState, box Box) (PointerState, error) {
	center := box.Center()
	target := Vector2D{
		X: center.X + h.jitter(h.cfg.TargetJitterPx),
		Y: center.Y + h.jitter(h.cfg.TargetJitterPx),
	}

	numPoints := h.between(h.cfg.PathPoints)
	h.mu.Lock()
	path := BezierPath(h.rng, ptr.Vector(), target, numPoints, h.cfg.ControlOffsetPx)
	h.mu.Unlock()

	current := ptr
	for _, p := range path {
		if err := h.executor.MouseMove(ctx, float64(p.X), float64(p.Y)); err != nil {
			return current, fmt.Errorf("mouse move to (%d,%d): %w", p.X, p.Y, err)
		}
		current = PointerState{X: float64(p.X), Y: float64(p.Y)}
		if err := h.executor.Sleep(ctx, h.delay(h.cfg.MoveDelay)); err != nil {
			return current, err
		}
	}
	return pointerAt(target), nil
}
