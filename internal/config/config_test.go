package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/serpent-arena/internal/arena"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvPort, EnvPublicAPIURL, EnvDBPath, EnvStaticDir} {
		t.Setenv(k, "")
	}
}

func TestEmbeddedDefaultsMatchDefault(t *testing.T) {
	cfg, ok := parse(DefaultYAML())
	if !ok {
		t.Fatal("embedded YAML failed to parse")
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("embedded defaults differ from Default():\n%+v\n%+v", cfg, Default())
	}
	if err := Default().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestDefaultSettingsMatchArena(t *testing.T) {
	if got, want := Default().Settings(), arena.DefaultSettings(); !reflect.DeepEqual(got, want) {
		t.Errorf("Settings() = %+v, expected %+v", got, want)
	}
}

func TestLoadCustomPath(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, path, `
game:
  bots: 5
  speed: fast
server:
  port: 8080
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Game.Bots != 5 || cfg.Server.Port != 8080 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Game.TickPeriod() != 110*time.Millisecond {
		t.Errorf("tick period = %v, expected fast preset", cfg.Game.TickPeriod())
	}
	// Untouched fields keep their defaults.
	if cfg.Game.Cols != 32 || cfg.Storage.Path != "~/.serpent/serpent.db" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	broken := filepath.Join(dir, "broken.yaml")
	writeFile(t, broken, "game: [not, a, map")
	if _, err := Load(broken); err == nil {
		t.Error("expected error for malformed custom config")
	}
}

func TestLoadSearchOrder(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("expected embedded defaults, got %+v", cfg)
	}

	writeFile(t, filepath.Join(work, "configs", "serpent.yaml"), "game:\n  bots: 4\n")
	if cfg, _ = Load(""); cfg.Game.Bots != 4 {
		t.Errorf("local config not used: bots = %d", cfg.Game.Bots)
	}

	writeFile(t, filepath.Join(home, ".serpent", "config.yaml"), "game:\n  bots: 6\n")
	if cfg, _ = Load(""); cfg.Game.Bots != 6 {
		t.Errorf("user config should win over local: bots = %d", cfg.Game.Bots)
	}

	// A broken user file falls through to the local one.
	writeFile(t, filepath.Join(home, ".serpent", "config.yaml"), "game: [oops")
	if cfg, _ = Load(""); cfg.Game.Bots != 4 {
		t.Errorf("broken user config should be skipped: bots = %d", cfg.Game.Bots)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvPort:         "5001",
		EnvPublicAPIURL: "https://api.example.com",
		EnvDBPath:       "/data/serpent.db",
		EnvStaticDir:    "/srv/web",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := ApplyEnv(&cfg, lookup); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}

	if cfg.Server.Port != 5001 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Server.PublicAPIURL != "https://api.example.com" {
		t.Errorf("public url = %q", cfg.Server.PublicAPIURL)
	}
	if cfg.Storage.Path != "/data/serpent.db" {
		t.Errorf("db path = %q", cfg.Storage.Path)
	}
	if cfg.Server.StaticDir != "/srv/web" {
		t.Errorf("static dir = %q", cfg.Server.StaticDir)
	}

	env[EnvPort] = "forty"
	if err := ApplyEnv(&cfg, lookup); err == nil {
		t.Error("expected error for non-numeric PORT")
	}
}

func TestLoadAppliesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvPort, "9000")
	path := filepath.Join(t.TempDir(), "c.yaml")
	writeFile(t, path, "server:\n  port: 8080\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, expected env override 9000", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errSub string
	}{
		{"valid", func(*Config) {}, ""},
		{"zero grid", func(c *Config) { c.Game.Cols = 0 }, "grid"},
		{"negative bots", func(c *Config) { c.Game.Bots = -1 }, "bots"},
		{"bad speed", func(c *Config) { c.Game.Speed = "warp" }, "speed"},
		{"bad speed overridden", func(c *Config) { c.Game.Speed = "warp"; c.Game.TickMS = 50 }, ""},
		{"negative grace", func(c *Config) { c.Game.DeathGraceMS = -5 }, "durations"},
		{"turn chance", func(c *Config) { c.Game.Rules.BotTurnChance = 1.5 }, "bot_turn_chance"},
		{"port", func(c *Config) { c.Server.Port = 70000 }, "port"},
		{"sessions", func(c *Config) { c.Server.MaxSessions = -1 }, "max_sessions"},
		{"db path", func(c *Config) { c.Storage.Path = " " }, "storage"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errSub == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errSub) {
				t.Errorf("error = %v, expected mention of %q", err, tt.errSub)
			}
		})
	}
}

func TestSpeedPresets(t *testing.T) {
	tests := []struct {
		preset SpeedPreset
		want   time.Duration
	}{
		{SpeedSlow, 220 * time.Millisecond},
		{SpeedNormal, 160 * time.Millisecond},
		{SpeedFast, 110 * time.Millisecond},
		{"", 160 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := TickPeriodForPreset(tt.preset); got != tt.want {
			t.Errorf("TickPeriodForPreset(%q) = %v, expected %v", tt.preset, got, tt.want)
		}
	}

	if _, err := ParseSpeed("ludicrous"); err == nil {
		t.Error("expected error for unknown preset")
	}
	if p, err := ParseSpeed(""); err != nil || p != SpeedNormal {
		t.Errorf("ParseSpeed(\"\") = %q, %v", p, err)
	}

	cfg := Default()
	cfg.Game.TickMS = 40
	ApplySpeedPreset(&cfg, SpeedSlow)
	if cfg.Game.TickPeriod() != 220*time.Millisecond {
		t.Errorf("preset should clear tick override, got %v", cfg.Game.TickPeriod())
	}
}
