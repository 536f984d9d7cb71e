// Package config provides YAML-based configuration loading and speed
// presets for Serpent Arena.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/vovakirdan/serpent-arena/internal/arena"
)

// Config is the full configuration shared by every command.
type Config struct {
	Game    GameConfig    `yaml:"game"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	SSH     SSHConfig     `yaml:"ssh"`
	Log     LogConfig     `yaml:"log"`
}

// GameConfig defines the arena and its timing.
type GameConfig struct {
	Cols  int         `yaml:"cols"`
	Rows  int         `yaml:"rows"`
	Bots  int         `yaml:"bots"`
	Speed SpeedPreset `yaml:"speed"`

	// TickMS overrides the speed preset when nonzero.
	TickMS       int `yaml:"tick_ms"`
	DeathGraceMS int `yaml:"death_grace_ms"`
	EndGraceMS   int `yaml:"end_grace_ms"`

	Rules RulesConfig `yaml:"rules"`
}

// RulesConfig defines scoring and bot behavior.
type RulesConfig struct {
	BotTurnChance float64 `yaml:"bot_turn_chance"`
	FoodScore     int     `yaml:"food_score"`
	KillScore     int     `yaml:"kill_score"`
}

// ServerConfig defines the HTTP API server.
type ServerConfig struct {
	Port         int    `yaml:"port"`
	PublicAPIURL string `yaml:"public_api_url"` // Served to browsers as apiBaseUrl
	StaticDir    string `yaml:"static_dir"`     // Built web client; empty disables static serving
	MaxSessions  int    `yaml:"max_sessions"`   // Concurrent websocket games
	ShutdownMS   int    `yaml:"shutdown_ms"`
}

// StorageConfig defines the scores database.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// SSHConfig defines the SSH front end.
type SSHConfig struct {
	Address       string `yaml:"address"`
	HostKeyPath   string `yaml:"host_key_path"` // Auto-generated under ~/.serpent when empty
	IdleTimeoutMn int    `yaml:"idle_timeout_minutes"`
}

// LogConfig defines logger output.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// TickPeriod returns the effective simulation period.
func (g GameConfig) TickPeriod() time.Duration {
	if g.TickMS > 0 {
		return time.Duration(g.TickMS) * time.Millisecond
	}
	return TickPeriodForPreset(g.Speed)
}

// Settings converts the game section into arena settings.
func (c Config) Settings() arena.Settings {
	g := c.Game
	return arena.Settings{
		Grid: arena.Grid{Cols: g.Cols, Rows: g.Rows},
		Rules: arena.Rules{
			BotTurnChance: g.Rules.BotTurnChance,
			FoodScore:     g.Rules.FoodScore,
			KillScore:     g.Rules.KillScore,
		},
		Bots:       g.Bots,
		TickPeriod: g.TickPeriod(),
		DeathGrace: time.Duration(g.DeathGraceMS) * time.Millisecond,
		EndGrace:   time.Duration(g.EndGraceMS) * time.Millisecond,
	}
}

// Addr returns the HTTP listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort("", strconv.Itoa(s.Port))
}

// ShutdownTimeout returns how long graceful shutdown may take.
func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownMS) * time.Millisecond
}

// IdleTimeout returns the SSH idle timeout.
func (s SSHConfig) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutMn) * time.Minute
}

// Validate reports every problem found in the configuration.
func (c Config) Validate() error {
	var errs []error

	g := c.Game
	if g.Cols <= 0 || g.Rows <= 0 {
		errs = append(errs, fmt.Errorf("game: grid must be positive, got %dx%d", g.Cols, g.Rows))
	}
	if g.Bots < 0 {
		errs = append(errs, fmt.Errorf("game: bots must not be negative, got %d", g.Bots))
	}
	if g.TickMS < 0 || g.DeathGraceMS < 0 || g.EndGraceMS < 0 {
		errs = append(errs, errors.New("game: durations must not be negative"))
	}
	if g.TickMS == 0 {
		if _, err := ParseSpeed(string(g.Speed)); err != nil {
			errs = append(errs, fmt.Errorf("game: %w", err))
		}
	}
	if r := g.Rules.BotTurnChance; r < 0 || r > 1 {
		errs = append(errs, fmt.Errorf("game: bot_turn_chance must be within [0,1], got %v", r))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server: invalid port %d", c.Server.Port))
	}
	if c.Server.MaxSessions < 0 {
		errs = append(errs, fmt.Errorf("server: max_sessions must not be negative, got %d", c.Server.MaxSessions))
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		errs = append(errs, errors.New("storage: path is required"))
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log: unknown level %q", c.Log.Level))
	}

	return errors.Join(errs...)
}
