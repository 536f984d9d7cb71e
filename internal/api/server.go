// Package api provides the Serpent Arena HTTP server: profile and score
// endpoints, the leaderboard, static client serving and websocket play.
package api

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/serpent-arena/internal/arena"
	"github.com/vovakirdan/serpent-arena/internal/storage"
)

// Store is the persistence the server needs. *storage.Store satisfies it.
type Store interface {
	UpsertUser(ctx context.Context, username string, prefs storage.Prefs) (storage.User, error)
	UpdateUser(ctx context.Context, id string, prefs storage.Prefs) (storage.User, error)
	SaveScore(ctx context.Context, userID string, value int) (storage.Score, error)
	Leaderboard(ctx context.Context, limit int) ([]storage.LeaderboardEntry, error)
}

// Options configures a Server.
type Options struct {
	// Addr is the host:port to listen on (e.g., ":4000").
	Addr string

	// PublicAPIURL is advertised to browsers through /config.json.
	PublicAPIURL string

	// StaticDir holds the built web client. Empty disables static serving.
	StaticDir string

	// MaxSessions caps concurrent websocket games. Zero means unlimited.
	MaxSessions int

	// Settings configures the arena of websocket games.
	Settings arena.Settings

	// Seed fixes the RNG of every websocket game. Zero seeds from the clock.
	Seed int64

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration

	Logger *log.Logger
}

// Server serves the HTTP API.
type Server struct {
	opts   Options
	store  Store
	logger *log.Logger
	hub    *Hub

	// baseCtx parents every websocket game; cancelled on shutdown.
	baseCtx    context.Context
	cancelBase context.CancelFunc

	mu       sync.Mutex
	listener net.Listener
}

// NewServer creates a server backed by the given store.
func NewServer(store Store, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "serpent-api",
		})
	}
	if opts.Settings.TickPeriod <= 0 {
		opts.Settings = arena.DefaultSettings()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		opts:       opts,
		store:      store,
		logger:     opts.Logger,
		hub:        NewHub(),
		baseCtx:    ctx,
		cancelBase: cancel,
	}
}

// Handler returns the full HTTP handler: routes wrapped in CORS and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /config.json", s.handleConfig)
	mux.HandleFunc("POST /api/users", s.handleCreateUser)
	mux.HandleFunc("PUT /api/users/{id}", s.handleUpdateUser)
	mux.HandleFunc("POST /api/scores", s.handleCreateScore)
	mux.HandleFunc("GET /api/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("GET /ws/play", s.handlePlay)
	mux.HandleFunc("/api/", s.handleNotFound)
	mux.HandleFunc("/", s.handleStatic)

	return s.cors(s.logRequests(mux))
}

// Hub returns the registry of live websocket games.
func (s *Server) Hub() *Hub {
	return s.hub
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "address", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.cancelBase()
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	// Hijacked websocket connections are not tracked by http.Server.
	s.cancelBase()
	s.hub.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Addr returns the bound listen address, or the configured one before Serve.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.opts.Addr
}

// cors allows every origin, mirroring the requested headers on preflight.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			h.Set("Access-Control-Allow-Methods", "GET,HEAD,PUT,PATCH,POST,DELETE")
			if req := r.Header.Get("Access-Control-Request-Headers"); req != "" {
				h.Set("Access-Control-Allow-Headers", req)
				h.Add("Vary", "Access-Control-Request-Headers")
			}
			h.Set("Content-Length", "0")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Hijack passes websocket upgrades through to the underlying connection.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("api: response does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
