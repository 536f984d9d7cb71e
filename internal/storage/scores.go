package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultLeaderboardLimit is used when a non-positive limit is requested.
const DefaultLeaderboardLimit = 10

// Score is a single finished game.
type Score struct {
	ID        string
	UserID    string
	Value     int
	CreatedAt time.Time
}

// LeaderboardEntry is a score joined with the user who made it.
type LeaderboardEntry struct {
	Score
	User User
}

// Stats contains aggregated statistics over all scores.
type Stats struct {
	Games      int
	Players    int
	BestScore  int
	AvgScore   float64
	LastPlayed time.Time
}

// SaveScore records a finished game for a user.
// Returns ErrNotFound if the user does not exist.
func (s *Store) SaveScore(ctx context.Context, userID string, value int) (Score, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Score{}, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, userID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return Score{}, ErrNotFound
	}
	if err != nil {
		return Score{}, fmt.Errorf("storage: cannot look up user: %w", err)
	}

	sc := Score{
		ID:        uuid.NewString(),
		UserID:    userID,
		Value:     value,
		CreatedAt: s.timestamp(),
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO scores (id, user_id, value, created_at) VALUES (?, ?, ?, ?)",
		sc.ID, sc.UserID, sc.Value, sc.CreatedAt,
	); err != nil {
		return Score{}, fmt.Errorf("storage: cannot save score: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Score{}, fmt.Errorf("storage: cannot commit score: %w", err)
	}
	return sc, nil
}

// Leaderboard retrieves the top scores across all users.
// Results are ordered by value descending, older scores first on ties.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.user_id, s.value, s.created_at,
		        u.id, u.username, u.snake_color, u.snake_type, u.created_at, u.updated_at
		 FROM scores s
		 JOIN users u ON u.id = s.user_id
		 ORDER BY s.value DESC, s.created_at ASC, s.rowid ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []LeaderboardEntry{}
	for rows.Next() {
		var e LeaderboardEntry
		var scoreAt, userCreated, userUpdated any
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Value, &scoreAt,
			&e.User.ID, &e.User.Username, &e.User.SnakeColor, &e.User.SnakeType, &userCreated, &userUpdated,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(scoreAt)
		e.User.CreatedAt = parseTime(userCreated)
		e.User.UpdatedAt = parseTime(userUpdated)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// UserBest returns the highest score of a user.
// Returns 0 if the user has no scores.
func (s *Store) UserBest(ctx context.Context, userID string) (int, error) {
	var best sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT MAX(value) FROM scores WHERE user_id = ?",
		userID,
	).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best score: %w", err)
	}

	if !best.Valid {
		return 0, nil
	}
	return int(best.Int64), nil
}

// Stats retrieves aggregated statistics over every recorded game.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT user_id), COALESCE(MAX(value), 0), COALESCE(AVG(value), 0)
		 FROM scores`,
	).Scan(&st.Games, &st.Players, &st.BestScore, &st.AvgScore)
	if err != nil {
		return Stats{}, fmt.Errorf("storage: cannot get stats: %w", err)
	}

	// Get last played
	var lastPlayed any
	err = s.db.QueryRowContext(ctx,
		`SELECT created_at FROM scores ORDER BY created_at DESC, rowid DESC LIMIT 1`,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Stats{}, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		st.LastPlayed = parseTime(lastPlayed)
	}

	return st, nil
}
