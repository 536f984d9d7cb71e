package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vovakirdan/serpent-arena/internal/storage"
)

// Leaderboard limits.
const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 50
)

// Error messages shared with clients.
const (
	errUsernameRequired = "username required"
	errScoreRequired    = "userId and numeric value required"
	errNotFound         = "not_found"
	errInternal         = "internal_error"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleConfig prefers a config.json shipped with the static client over the env-based one.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if s.opts.StaticDir != "" {
		disk := filepath.Join(s.opts.StaticDir, "config.json")
		if info, err := os.Stat(disk); err == nil && !info.IsDir() {
			w.Header().Set("Content-Type", "application/json")
			http.ServeFile(w, r, disk)
			return
		}
	}
	writeJSON(w, http.StatusOK, RuntimeConfig{APIBaseURL: s.opts.PublicAPIURL})
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	body := decodeObject(w, r)

	username, ok := body["username"].(string)
	if !ok || username == "" {
		writeError(w, http.StatusBadRequest, errUsernameRequired)
		return
	}

	// Empty strings are treated as absent on create-or-fetch.
	var prefs storage.Prefs
	if c, ok := body["snakeColor"].(string); ok && c != "" {
		prefs.Color = &c
	}
	if t, ok := body["snakeType"].(string); ok && t != "" {
		prefs.Type = &t
	}

	u, err := s.store.UpsertUser(r.Context(), username, prefs)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userFromStorage(u))
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	body := decodeObject(w, r)

	var prefs storage.Prefs
	if c, ok := body["snakeColor"].(string); ok {
		prefs.Color = &c
	}
	if t, ok := body["snakeType"].(string); ok {
		prefs.Type = &t
	}

	u, err := s.store.UpdateUser(r.Context(), r.PathValue("id"), prefs)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userFromStorage(u))
}

func (s *Server) handleCreateScore(w http.ResponseWriter, r *http.Request) {
	body := decodeObject(w, r)

	userID, _ := body["userId"].(string)
	value, ok := body["value"].(float64)
	if userID == "" || !ok || value != math.Trunc(value) || math.Abs(value) > math.MaxInt32 {
		writeError(w, http.StatusBadRequest, errScoreRequired)
		return
	}

	sc, err := s.store.SaveScore(r.Context(), userID, int(value))
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scoreFromStorage(sc))
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"))

	entries, err := s.store.Leaderboard(r.Context(), limit)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rowsFromStorage(entries))
}

func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, errNotFound)
}

// handleStatic serves the web client, falling back to index.html for client-side routes.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	if s.opts.StaticDir == "" || (r.Method != http.MethodGet && r.Method != http.MethodHead) {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}

	rel := filepath.FromSlash(strings.TrimPrefix(filepath.ToSlash(filepath.Clean("/"+r.URL.Path)), "/"))
	if rel != "" && rel != "." {
		path := filepath.Join(s.opts.StaticDir, rel)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
	}

	index := filepath.Join(s.opts.StaticDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		writeError(w, http.StatusNotFound, errNotFound)
		return
	}
	http.ServeFile(w, r, index)
}

// parseLimit applies the leaderboard default and cap. Like a browser parseInt it
// reads the leading integer and ignores the rest, so "5abc" is 5. Non-positive
// or unparsable values fall back to the default.
func parseLimit(raw string) int {
	s := strings.TrimLeft(raw, " \t\r\n")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if errors.Is(err, strconv.ErrRange) && s[0] != '-' {
		return maxLeaderboardLimit
	}
	if err != nil || n <= 0 {
		return defaultLeaderboardLimit
	}
	return min(n, maxLeaderboardLimit)
}

// decodeObject reads a JSON object body. Missing or malformed bodies decode as empty.
func decodeObject(w http.ResponseWriter, r *http.Request) map[string]any {
	body := map[string]any{}
	if r.Body == nil {
		return body
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		return map[string]any{}
	}
	return body
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, errInternal)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorBody{Error: msg})
}
