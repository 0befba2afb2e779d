package humanoid

import (
	"context"
	"time"
)

// Band names a human pause latency range.
type Band string

const (
	Micro    Band = "MICRO"
	Short    Band = "SHORT"
	Medium   Band = "MEDIUM"
	Long     Band = "LONG"
	VeryLong Band = "VERY_LONG"
)

// bands are inclusive millisecond ranges.
var bands = map[Band]Range{
	Micro:    {100, 300},
	Short:    {300, 800},
	Medium:   {1000, 2000},
	Long:     {2000, 4000},
	VeryLong: {4000, 8000},
}

// BandRange returns the range for a band; unknown bands map to Short.
func BandRange(b Band) Range {
	if r, ok := bands[b]; ok {
		return r
	}
	return bands[Short]
}

// PauseOption overrides one bound of a pause band.
type PauseOption func(*Range)

// WithMin overrides the lower bound. Zero leaves the band default.
func WithMin(d time.Duration) PauseOption {
	return func(r *Range) {
		if d > 0 {
			r.Min = int(d / time.Millisecond)
		}
	}
}

// WithMax overrides the upper bound. Zero leaves the band default.
func WithMax(d time.Duration) PauseOption {
	return func(r *Range) {
		if d > 0 {
			r.Max = int(d / time.Millisecond)
		}
	}
}

// Pause waits a duration drawn uniformly from the band. It only fails when
// the context is done.
func (h *Humanoid) Pause(ctx context.Context, band Band, opts ...PauseOption) error {
	r := BandRange(band)
	for _, opt := range opts {
		opt(&r)
	}
	return h.executor.Sleep(ctx, h.delay(r))
}
