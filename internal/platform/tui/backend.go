package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/vovakirdan/serpent-arena/internal/client"
	"github.com/vovakirdan/serpent-arena/internal/storage"
)

// Player is a signed-in profile.
type Player struct {
	ID       string
	Username string
	Color    string
	Style    string
}

// Row is one leaderboard line.
type Row struct {
	Username string
	Color    string
	Score    int
	At       time.Time
}

// Backend persists profiles and scores for the terminal app.
type Backend interface {
	// SignIn creates or loads the user, applying the chosen appearance.
	SignIn(ctx context.Context, username, color, style string) (Player, error)
	SubmitScore(ctx context.Context, userID string, score int) error
	Leaderboard(ctx context.Context, limit int) ([]Row, error)
}

// StoreBackend plays against a local database.
type StoreBackend struct {
	Store *storage.Store
}

var _ Backend = StoreBackend{}

func (b StoreBackend) SignIn(ctx context.Context, username, color, style string) (Player, error) {
	var prefs storage.Prefs
	if color != "" {
		prefs.Color = &color
	}
	if style != "" {
		prefs.Type = &style
	}
	u, err := b.Store.UpsertUser(ctx, username, prefs)
	if err != nil {
		return Player{}, err
	}
	return Player{ID: u.ID, Username: u.Username, Color: u.SnakeColor, Style: u.SnakeType}, nil
}

func (b StoreBackend) SubmitScore(ctx context.Context, userID string, score int) error {
	_, err := b.Store.SaveScore(ctx, userID, score)
	return err
}

func (b StoreBackend) Leaderboard(ctx context.Context, limit int) ([]Row, error) {
	entries, err := b.Store.Leaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = Row{Username: e.User.Username, Color: e.User.SnakeColor, Score: e.Value, At: e.CreatedAt}
	}
	return rows, nil
}

// RemoteBackend plays against a Serpent Arena API server.
type RemoteBackend struct {
	Client *client.Client
}

var _ Backend = RemoteBackend{}

func (b RemoteBackend) SignIn(ctx context.Context, username, color, style string) (Player, error) {
	u, err := b.Client.CreateUser(ctx, username, color, style)
	if err != nil {
		return Player{}, fmt.Errorf("sign in: %w", err)
	}
	return Player{ID: u.ID, Username: u.Username, Color: u.SnakeColor, Style: u.SnakeType}, nil
}

func (b RemoteBackend) SubmitScore(ctx context.Context, userID string, score int) error {
	_, err := b.Client.SubmitScore(ctx, userID, score)
	return err
}

func (b RemoteBackend) Leaderboard(ctx context.Context, limit int) ([]Row, error) {
	list, err := b.Client.Leaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, len(list))
	for i, r := range list {
		rows[i] = Row{Username: r.User.Username, Color: r.User.SnakeColor, Score: r.Value, At: r.CreatedAt}
	}
	return rows, nil
}
