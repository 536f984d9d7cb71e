// serpent is a terminal snake arena with bots, a shared leaderboard and an
// HTTP API for the web client.
//
// Usage:
//
//	serpent play             - Play in the terminal
//	serpent serve            - Start the HTTP API and websocket server
//	serpent ssh              - Start the SSH server for remote play
//	serpent leaderboard      - Show the top scores
//	serpent config           - Print the default configuration
//
// Global flags:
//
//	--config <path> - Load configuration from a YAML file
//	--db <path>     - Set database path (default: ~/.serpent/serpent.db)
//	--seed <value>  - Set RNG seed for reproducible gameplay
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/serpent-arena/internal/config"
)

var (
	// Global flags
	flagConfig string
	flagDBPath string
	flagSeed   int64
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "serpent",
	Short: "Serpent Arena - Snake against bots in your terminal",
	Long: `Serpent Arena is a snake game on a wrapping grid shared with bot snakes.
Eat food to grow, swallow smaller snakes, and climb the leaderboard.

Available commands:
  play         - Play in the terminal (local database or a remote server)
  serve        - Start the HTTP API for the web client
  ssh          - Start the SSH server for remote play
  leaderboard  - Show the top scores
  config       - Print the default configuration

Examples:
  serpent play
  serpent play --speed fast --server http://localhost:4000
  serpent serve --port 8080
  serpent ssh --addr :2222
  serpent leaderboard --limit 20`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML (default: search ~/.serpent, ./configs, then built-in)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (overrides config and SERPENT_DB)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sshCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig loads the configuration and applies the global flags.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fail("Error loading config: %v", err)
	}
	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}
	return cfg
}

// validate stops the command when the final configuration is unusable.
func validate(cfg config.Config) {
	if err := cfg.Validate(); err != nil {
		fail("Invalid configuration:\n%v", err)
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
