package humanoid

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Scroll smoothly scrolls the window to vertical offset y and waits for the
// animation to settle. A failed scroll is logged and reported as Degraded.
func (h *Humanoid) Scroll(ctx context.Context, y float64) Outcome {
	if err := h.executor.ScrollTo(ctx, y); err != nil {
		h.logger.Warn("Smooth scroll failed", zap.Float64("y", y), zap.Error(err))
		return h.record("scroll", Degraded(fmt.Sprintf("scroll: %v", err)))
	}
	if err := h.executor.Sleep(ctx, h.delay(h.cfg.ScrollSettle)); err != nil {
		return h.record("scroll", Failed(err.Error()))
	}
	return h.record("scroll", Succeeded())
}
