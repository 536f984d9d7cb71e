package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/serpent-arena/internal/arena"
	"github.com/vovakirdan/serpent-arena/internal/client"
	"github.com/vovakirdan/serpent-arena/internal/config"
	"github.com/vovakirdan/serpent-arena/internal/platform/tui"
	"github.com/vovakirdan/serpent-arena/internal/storage"
)

var (
	flagServerURL string
	flagSpeed     string
	flagBots      int
	flagLogFile   string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Start Serpent Arena in the terminal.

Scores are saved to the local database, or to a Serpent Arena server
when --server is given. The last username, color and style are
remembered in ~/.serpent/profile.json.

Controls:
  Arrows/WASD  - Steer
  E            - End the game
  R            - Play again (after game over)
  M            - Back to menu (after game over)
  Q/Ctrl+C     - Quit

Speed options:
  slow   - 220ms per tick
  normal - 160ms per tick
  fast   - 110ms per tick

Examples:
  serpent play
  serpent play --speed fast --bots 5
  serpent play --server http://localhost:4000
  serpent play --seed 42 --log-file /tmp/serpent.log`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagServerURL, "server", "", "Play against a Serpent Arena API server instead of the local database")
	playCmd.Flags().StringVar(&flagSpeed, "speed", "", "Speed preset: slow, normal, fast (default from config)")
	playCmd.Flags().IntVar(&flagBots, "bots", -1, "Number of bot snakes (default from config)")
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (the terminal is taken by the game)")
}

func runPlay(cmd *cobra.Command, _ []string) {
	if err := play(cmd); err != nil {
		fail("Error: %v", err)
	}
}

// play runs one terminal session. Errors are returned so deferred closes
// run before the process exits.
func play(cmd *cobra.Command) error {
	cfg := loadConfig()
	if cmd.Flags().Changed("speed") {
		preset, err := config.ParseSpeed(flagSpeed)
		if err != nil {
			return err
		}
		config.ApplySpeedPreset(&cfg, preset)
	}
	if flagBots >= 0 {
		cfg.Game.Bots = flagBots
	}
	validate(cfg)

	logger := log.New(io.Discard)
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logger = cfg.Log.NewLogger(f, "serpent")
	}

	var backend tui.Backend
	if flagServerURL != "" {
		c, err := client.New(flagServerURL, nil)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = c.Health(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("reaching server %s: %w", flagServerURL, err)
		}
		backend = tui.RemoteBackend{Client: c}
	} else {
		store, err := storage.Open(cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("opening scores database: %w", err)
		}
		defer store.Close()
		backend = tui.StoreBackend{Store: store}
	}

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	opts := tui.Options{
		Backend:  backend,
		Settings: cfg.Settings(),
		Seed:     flagSeed,
		Logger:   logger,
		Width:    width,
		Height:   height,
	}

	// Restore the last profile (best-effort)
	if path, err := tui.DefaultProfilePath(); err == nil {
		profile := &tui.ProfileFile{Path: path}
		opts.Profile = profile
		if p, loadErr := profile.Load(); loadErr == nil {
			opts.Username = p.Username
			opts.Color = p.Color
			opts.Style = arena.Style(p.Style)
		} else {
			logger.Warn("ignoring saved profile", "error", loadErr)
		}
	}

	if err := tui.Run(opts); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
