package humanoid

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Click moves to the element, waits a reaction delay, then presses, holds and
// releases the left button. A missing element is a no-op. On any driver error
// it falls back to a direct click on the selector; the outcome is Degraded when
// the fallback works and Failed when it does not. Errors are never returned.
func (h *Humanoid) Click(ctx context.Context, ptr PointerState, selector string) (PointerState, Outcome) {
	box, err := h.executor.BoundingBox(ctx, selector)
	if err != nil {
		return ptr, h.record("click", h.fallbackClick(ctx, selector, err))
	}
	if box == nil {
		return ptr, h.record("click", Degraded("element not found"))
	}

	next, err := h.moveToBox(ctx, ptr, *box)
	if err != nil {
		// A broken path still leaves the pointer somewhere usable.
		h.logger.Warn("Mouse movement failed", zap.String("selector", selector), zap.Error(err))
	}

	if err := h.press(ctx); err != nil {
		return next, h.record("click", h.fallbackClick(ctx, selector, err))
	}
	return next, h.record("click", Succeeded())
}

// press waits the reaction delay and performs a held left click in place.
func (h *Humanoid) press(ctx context.Context) error {
	if err := h.executor.Sleep(ctx, h.delay(h.cfg.Reaction)); err != nil {
		return err
	}
	if err := h.executor.MouseDown(ctx); err != nil {
		return fmt.Errorf("mouse down: %w", err)
	}
	if err := h.executor.Sleep(ctx, h.delay(h.cfg.ClickHold)); err != nil {
		// Never leave the button pressed.
		_ = h.executor.MouseUp(ctx)
		return err
	}
	if err := h.executor.MouseUp(ctx); err != nil {
		return fmt.Errorf("mouse up: %w", err)
	}
	return nil
}

func (h *Humanoid) fallbackClick(ctx context.Context, selector string, cause error) Outcome {
	h.logger.Warn("Natural click failed, falling back to direct click", zap.String("selector", selector), zap.Error(cause))
	if err := h.executor.Click(ctx, selector); err != nil {
		h.logger.Warn("Direct click failed", zap.String("selector", selector), zap.Error(err))
		return Failed(fmt.Sprintf("natural click: %v; direct click: %v", cause, err))
	}
	return Degraded(fmt.Sprintf("fell back to direct click: %v", cause))
}
