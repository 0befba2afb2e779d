// internal/browser/humanoid/humanoid.go
package humanoid

import (
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"
)

// Humanoid simulates human interaction timing and pointer motion on top of an
// Executor. It holds no pointer position of its own; callers thread a
// PointerState through the primitives.
type Humanoid struct {
	// mu guards rng; the logout stage clicks from a second goroutine.
	mu       sync.Mutex
	cfg      Config
	logger   *zap.Logger
	executor Executor
	rng      *gofakeit.Faker
	observer Observer
}

// Option customizes a Humanoid.
type Option func(*Humanoid)

// WithObserver reports every primitive outcome to o.
func WithObserver(o Observer) Option {
	return func(h *Humanoid) { h.observer = o }
}

// New creates a Humanoid. A nil rng gets a randomly seeded source.
func New(cfg Config, logger *zap.Logger, executor Executor, rng *gofakeit.Faker, opts ...Option) *Humanoid {
	if rng == nil {
		rng = gofakeit.New(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Humanoid{
		cfg:      cfg,
		logger:   logger,
		executor: executor,
		rng:      rng,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewTestHumanoid creates a Humanoid with default timings, a no-op logger and a
// deterministic random source.
func NewTestHumanoid(executor Executor, seed uint64) *Humanoid {
	return New(DefaultConfig(), zap.NewNop(), executor, gofakeit.New(seed))
}

// between samples an inclusive integer range, tolerating inverted bounds.
func (h *Humanoid) between(r Range) int {
	lo, hi := r.Min, r.Max
	if hi < lo {
		hi = lo
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rng.IntRange(lo, hi)
}

func (h *Humanoid) delay(r Range) time.Duration { return ms(h.between(r)) }

func (h *Humanoid) jitter(px int) float64 {
	if px <= 0 {
		return 0
	}
	return float64(h.between(Range{-px, px}))
}

func (h *Humanoid) record(primitive string, o Outcome) Outcome {
	if h.observer != nil {
		h.observer.ObservePrimitive(primitive, o.Status.String())
	}
	return o
}
