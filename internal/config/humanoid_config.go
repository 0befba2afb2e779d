// File: internal/config/humanoid_config.go
// This file defines the HumanoidConfig struct, which contains the tunable
// timing and geometry parameters of the human interaction primitives: pointer
// travel, click reaction and hold, per-character typing cadence and scroll settle.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// HumanoidConfig holds the ranges (inclusive, milliseconds or pixels) sampled by the
// human interaction primitives.
type HumanoidConfig struct {
	PathPointsMin     int `mapstructure:"path_points_min" yaml:"path_points_min"`
	PathPointsMax     int `mapstructure:"path_points_max" yaml:"path_points_max"`
	ControlOffsetPx   int `mapstructure:"control_offset_px" yaml:"control_offset_px"`
	TargetJitterPx    int `mapstructure:"target_jitter_px" yaml:"target_jitter_px"`
	MoveDelayMinMs    int `mapstructure:"move_delay_min_ms" yaml:"move_delay_min_ms"`
	MoveDelayMaxMs    int `mapstructure:"move_delay_max_ms" yaml:"move_delay_max_ms"`
	ReactionMinMs     int `mapstructure:"reaction_min_ms" yaml:"reaction_min_ms"`
	ReactionMaxMs     int `mapstructure:"reaction_max_ms" yaml:"reaction_max_ms"`
	ClickHoldMinMs    int `mapstructure:"click_hold_min_ms" yaml:"click_hold_min_ms"`
	ClickHoldMaxMs    int `mapstructure:"click_hold_max_ms" yaml:"click_hold_max_ms"`
	KeyDelayMinMs     int `mapstructure:"key_delay_min_ms" yaml:"key_delay_min_ms"`
	KeyDelayMaxMs     int `mapstructure:"key_delay_max_ms" yaml:"key_delay_max_ms"`
	ScrollSettleMinMs int `mapstructure:"scroll_settle_min_ms" yaml:"scroll_settle_min_ms"`
	ScrollSettleMaxMs int `mapstructure:"scroll_settle_max_ms" yaml:"scroll_settle_max_ms"`
}

func setHumanoidDefaults(v *viper.Viper) {
	v.SetDefault("browser.humanoid.path_points_min", 10)
	v.SetDefault("browser.humanoid.path_points_max", 20)
	v.SetDefault("browser.humanoid.control_offset_px", 50)
	v.SetDefault("browser.humanoid.target_jitter_px", 10)
	v.SetDefault("browser.humanoid.move_delay_min_ms", 10)
	v.SetDefault("browser.humanoid.move_delay_max_ms", 25)
	v.SetDefault("browser.humanoid.reaction_min_ms", 100)
	v.SetDefault("browser.humanoid.reaction_max_ms", 200)
	v.SetDefault("browser.humanoid.click_hold_min_ms", 50)
	v.SetDefault("browser.humanoid.click_hold_max_ms", 150)
	v.SetDefault("browser.humanoid.key_delay_min_ms", 100)
	v.SetDefault("browser.humanoid.key_delay_max_ms", 200)
	v.SetDefault("browser.humanoid.scroll_settle_min_ms", 500)
	v.SetDefault("browser.humanoid.scroll_settle_max_ms", 1000)
}

// Validate ensures every range is well formed.
func (h HumanoidConfig) Validate() error {
	ranges := []struct {
		name     string
		min, max int
	}{
		{"path_points", h.PathPointsMin, h.PathPointsMax},
		{"move_delay", h.MoveDelayMinMs, h.MoveDelayMaxMs},
		{"reaction", h.ReactionMinMs, h.ReactionMaxMs},
		{"click_hold", h.ClickHoldMinMs, h.ClickHoldMaxMs},
		{"key_delay", h.KeyDelayMinMs, h.KeyDelayMaxMs},
		{"scroll_settle", h.ScrollSettleMinMs, h.ScrollSettleMaxMs},
	}
	for _, r := range ranges {
		if r.min < 0 || r.max < r.min {
			return fmt.Errorf("%s range [%d, %d] is invalid", r.name, r.min, r.max)
		}
	}
	if h.PathPointsMin < 1 {
		return fmt.Errorf("path_points_min must be at least 1")
	}
	if h.ControlOffsetPx < 0 || h.TargetJitterPx < 0 {
		return fmt.Errorf("control_offset_px and target_jitter_px must not be negative")
	}
	return nil
}
