package config

import (
	_ "embed"
)

//go:embed defaults/serpent.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Game: GameConfig{
			Cols:         32,
			Rows:         24,
			Bots:         3,
			Speed:        SpeedNormal,
			DeathGraceMS: 300,
			EndGraceMS:   100,
			Rules: RulesConfig{
				BotTurnChance: 0.1,
				FoodScore:     10,
				KillScore:     25,
			},
		},
		Server: ServerConfig{
			Port:        4000,
			MaxSessions: 64,
			ShutdownMS:  5000,
		},
		Storage: StorageConfig{
			Path: "~/.serpent/serpent.db",
		},
		SSH: SSHConfig{
			Address:       ":23234",
			IdleTimeoutMn: 30,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultYAML
}
