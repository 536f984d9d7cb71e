package tui

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Profile is the last menu choice, restored on the next local start.
type Profile struct {
	Username string `json:"username"`
	Color    string `json:"snakeColor"`
	Style    string `json:"snakeType"`
}

// ProfileFile reads and writes a Profile as JSON.
type ProfileFile struct {
	Path string
}

// DefaultProfilePath returns ~/.serpent/profile.json.
func DefaultProfilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot get home directory: %w", err)
	}
	return filepath.Join(home, ".serpent", "profile.json"), nil
}

// Load returns the saved profile. A missing file is an empty profile.
func (f ProfileFile) Load() (Profile, error) {
	var p Profile
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("profile: read: %w", err)
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("profile: parse %s: %w", f.Path, err)
	}
	return p, nil
}

// Save writes the profile, creating its directory.
func (f ProfileFile) Save(p Profile) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return fmt.Errorf("profile: create directory: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("profile: encode: %w", err)
	}
	if err := os.WriteFile(f.Path, data, 0o600); err != nil {
		return fmt.Errorf("profile: write: %w", err)
	}
	return nil
}
