// Package client is a typed HTTP client for the Serpent Arena API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vovakirdan/serpent-arena/internal/api"
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code    int
	Message string // The server's "error" field, if any
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("client: http %d", e.Code)
	}
	return fmt.Sprintf("client: http %d: %s", e.Code, e.Message)
}

// Client talks to one API server.
type Client struct {
	base *url.URL
	http *http.Client
}

// New creates a client for baseURL. A nil httpClient uses a client with a 10s timeout.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("client: invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("client: base url %q must be http or https", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{base: u, http: httpClient}, nil
}

// userRequest is the body of POST /api/users and PUT /api/users/{id}.
type userRequest struct {
	Username   string `json:"username,omitempty"`
	SnakeColor string `json:"snakeColor,omitempty"`
	SnakeType  string `json:"snakeType,omitempty"`
}

// CreateUser creates the user or fetches the existing one, applying non-empty preferences.
func (c *Client) CreateUser(ctx context.Context, username, color, style string) (api.User, error) {
	var u api.User
	err := c.do(ctx, http.MethodPost, "/api/users", nil,
		userRequest{Username: username, SnakeColor: color, SnakeType: style}, &u)
	return u, err
}

// UpdateUser changes the appearance of an existing user. Empty values are left unchanged.
func (c *Client) UpdateUser(ctx context.Context, id, color, style string) (api.User, error) {
	var u api.User
	err := c.do(ctx, http.MethodPut, "/api/users/"+url.PathEscape(id), nil,
		userRequest{SnakeColor: color, SnakeType: style}, &u)
	return u, err
}

// SubmitScore records a finished game.
func (c *Client) SubmitScore(ctx context.Context, userID string, value int) (api.Score, error) {
	body := struct {
		UserID string `json:"userId"`
		Value  int    `json:"value"`
	}{userID, value}

	var sc api.Score
	err := c.do(ctx, http.MethodPost, "/api/scores", nil, body, &sc)
	return sc, err
}

// Leaderboard fetches the top scores. A non-positive limit uses the server default.
func (c *Client) Leaderboard(ctx context.Context, limit int) ([]api.LeaderboardRow, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var rows []api.LeaderboardRow
	err := c.do(ctx, http.MethodGet, "/api/leaderboard", q, nil, &rows)
	return rows, err
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) error {
	var body struct {
		OK bool `json:"ok"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, &body); err != nil {
		return err
	}
	if !body.OK {
		return fmt.Errorf("client: server reported not ok")
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = query.Encode()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Code: resp.StatusCode}
		var eb api.ErrorBody
		if json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&eb) == nil {
			se.Message = eb.Error
		}
		return se
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode %s response: %w", path, err)
	}
	return nil
}
