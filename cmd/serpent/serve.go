package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/serpent-arena/internal/api"
	"github.com/vovakirdan/serpent-arena/internal/storage"
)

var (
	flagPort      int
	flagStaticDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and websocket server",
	Long: `Start the Serpent Arena HTTP server.

Endpoints:
  GET  /health            - Liveness check
  GET  /config.json       - Runtime config for the web client
  POST /api/users         - Create or sign in a user
  PUT  /api/users/{id}    - Update snake color and type
  POST /api/scores        - Record a score
  GET  /api/leaderboard   - Top scores (?limit=, default 10, max 50)
  GET  /ws/play           - Server-driven game over a websocket

Environment:
  PORT                 - Listen port (default 4000)
  PUBLIC_API_URL       - API base URL advertised in /config.json
  SERPENT_DB           - Database path
  SERPENT_STATIC_DIR   - Built web client to serve

Examples:
  serpent serve
  serpent serve --port 8080 --static ./web/dist
  PORT=8080 serpent serve --db ./serpent.db`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&flagPort, "port", 0, "HTTP port (default from config or PORT)")
	serveCmd.Flags().StringVar(&flagStaticDir, "static", "", "Directory of the built web client")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	if flagPort != 0 {
		cfg.Server.Port = flagPort
	}
	if flagStaticDir != "" {
		cfg.Server.StaticDir = flagStaticDir
	}
	validate(cfg)

	logger := cfg.Log.NewLogger(os.Stderr, "serpent-api")

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		fail("Error opening scores database: %v", err)
	}
	defer store.Close()

	server := api.NewServer(store, api.Options{
		Addr:            cfg.Server.Addr(),
		PublicAPIURL:    cfg.Server.PublicAPIURL,
		StaticDir:       cfg.Server.StaticDir,
		MaxSessions:     cfg.Server.MaxSessions,
		Settings:        cfg.Settings(),
		Seed:            flagSeed,
		ShutdownTimeout: cfg.Server.ShutdownTimeout(),
		Logger:          logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("database ready", "path", cfg.Storage.Path)
	if err := server.ListenAndServe(ctx); err != nil {
		logger.Error("server error", "error", err)
		store.Close()
		os.Exit(1)
	}
}
