package humanoid

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Type moves to the field, clicks it, then types text one character at a time
// with a randomized delay after each. A missing element is a no-op. On a driver
// error the field value is set directly instead.
func (h *Humanoid) Type(ctx context.Context, ptr PointerState, selector, text string) (PointerState, Outcome) {
	box, err := h.executor.BoundingBox(ctx, selector)
	if err != nil {
		return ptr, h.record("type", h.fallbackFill(ctx, selector, text, err))
	}
	if box == nil {
		return ptr, h.record("type", Degraded("element not found"))
	}

	next, err := h.moveToBox(ctx, ptr, *box)
	if err != nil {
		h.logger.Warn("Mouse movement failed", zap.String("selector", selector), zap.Error(err))
	}

	if err := h.press(ctx); err != nil {
		return next, h.record("type", h.fallbackFill(ctx, selector, text, err))
	}

	for _, r := range text {
		if err := h.executor.TypeText(ctx, string(r)); err != nil {
			return next, h.record("type", h.fallbackFill(ctx, selector, text, fmt.Errorf("type %q: %w", r, err)))
		}
		if err := h.executor.Sleep(ctx, h.delay(h.cfg.KeyDelay)); err != nil {
			return next, h.record("type", h.fallbackFill(ctx, selector, text, err))
		}
	}
	return next, h.record("type", Succeeded())
}

func (h *Humanoid) fallbackFill(ctx context.Context, selector, text string, cause error) Outcome {
	h.logger.Warn("Natural typing failed, setting the value directly", zap.String("selector", selector), zap.Error(cause))
	if err := h.executor.Fill(ctx, selector, text); err != nil {
		h.logger.Warn("Direct fill failed", zap.String("selector", selector), zap.Error(err))
		return Failed(fmt.Sprintf("natural type: %v; fill: %v", cause, err))
	}
	return Degraded(fmt.Sprintf("fell back to fill: %v", cause))
}
