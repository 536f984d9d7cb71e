package config

import (
	"fmt"
	"time"
)

// SpeedPreset represents a named tick speed.
type SpeedPreset string

const (
	SpeedSlow   SpeedPreset = "slow"
	SpeedNormal SpeedPreset = "normal"
	SpeedFast   SpeedPreset = "fast"
)

// TickPeriodForPreset returns the tick period for a speed preset.
// Unknown presets run at normal speed.
func TickPeriodForPreset(preset SpeedPreset) time.Duration {
	switch preset {
	case SpeedSlow:
		return 220 * time.Millisecond
	case SpeedFast:
		return 110 * time.Millisecond
	default:
		return 160 * time.Millisecond
	}
}

// ParseSpeed validates a preset name. Empty means normal.
func ParseSpeed(s string) (SpeedPreset, error) {
	switch SpeedPreset(s) {
	case "":
		return SpeedNormal, nil
	case SpeedSlow, SpeedNormal, SpeedFast:
		return SpeedPreset(s), nil
	default:
		return "", fmt.Errorf("unknown speed preset %q (want slow, normal or fast)", s)
	}
}

// ApplySpeedPreset switches the config to a preset, clearing any explicit tick override.
func ApplySpeedPreset(cfg *Config, preset SpeedPreset) {
	cfg.Game.Speed = preset
	cfg.Game.TickMS = 0
}
