// internal/browser/humanoid/config.go
package humanoid

import (
	"time"

	"github.com/xkilldash9x/hogflix-traffic/internal/config"
)

// Range is an inclusive integer interval.
type Range struct {
	Min int
	Max int
}

// Config holds the sampled ranges of the primitives. Delay ranges are milliseconds.
type Config struct {
	PathPoints      Range
	ControlOffsetPx int
	TargetJitterPx  int
	MoveDelay       Range
	Reaction        Range
	ClickHold       Range
	KeyDelay        Range
	ScrollSettle    Range
}

// DefaultConfig returns the standard timing profile.
func DefaultConfig() Config {
	return Config{
		PathPoints:      Range{10, 20},
		ControlOffsetPx: 50,
		TargetJitterPx:  10,
		MoveDelay:       Range{10, 25},
		Reaction:        Range{100, 200},
		ClickHold:       Range{50, 150},
		KeyDelay:        Range{100, 200},
		ScrollSettle:    Range{500, 1000},
	}
}

// FromConfig maps the browser.humanoid configuration section.
func FromConfig(c config.HumanoidConfig) Config {
	return Config{
		PathPoints:      Range{c.PathPointsMin, c.PathPointsMax},
		ControlOffsetPx: c.ControlOffsetPx,
		TargetJitterPx:  c.TargetJitterPx,
		MoveDelay:       Range{c.MoveDelayMinMs, c.MoveDelayMaxMs},
		Reaction:        Range{c.ReactionMinMs, c.ReactionMaxMs},
		ClickHold:       Range{c.ClickHoldMinMs, c.ClickHoldMaxMs},
		KeyDelay:        Range{c.KeyDelayMinMs, c.KeyDelayMaxMs},
		ScrollSettle:    Range{c.ScrollSettleMinMs, c.ScrollSettleMaxMs},
	}
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }
