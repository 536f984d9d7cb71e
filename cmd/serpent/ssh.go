package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/serpent-arena/internal/platform/tui"
	"github.com/vovakirdan/serpent-arena/internal/storage"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var sshCmd = &cobra.Command{
	Use:   "ssh",
	Short: "Start the SSH server for remote play",
	Long: `Start an SSH server that lets users connect and play in their terminal.

Each SSH connection gets its own game, with the username prefilled from
the SSH user. Scores go to the server's database, so all users share
the same leaderboard.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.serpent/host_key

Examples:
  serpent ssh                           # Listen on :23234 with auto-generated key
  serpent ssh --addr :2222              # Listen on port 2222
  serpent ssh --host-key ./my_host_key  # Use specific host key
  serpent ssh --db ./serpent.db         # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runSSH,
}

func init() {
	sshCmd.Flags().StringVar(&flagSSHAddr, "addr", "", "SSH server address (host:port, default from config)")
	sshCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	sshCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes before disconnecting (default from config)")
}

func runSSH(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	if flagSSHAddr != "" {
		cfg.SSH.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.SSH.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		cfg.SSH.IdleTimeoutMn = flagIdleTimeout
	}
	validate(cfg)

	logger := cfg.Log.NewLogger(os.Stderr, "serpent-ssh")

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		fail("Error opening scores database: %v", err)
	}
	defer store.Close()

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     cfg.SSH.Address,
		HostKeyPath: cfg.SSH.HostKeyPath,
		IdleTimeout: cfg.SSH.IdleTimeout(),
		Settings:    cfg.Settings(),
		Seed:        flagSeed,
		Logger:      logger,
	}, tui.StoreBackend{Store: store})
	if err != nil {
		fail("Error creating server: %v", err)
	}

	fmt.Printf("Starting Serpent Arena SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.ListenAndServe(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		store.Close()
		os.Exit(1)
	}
}
