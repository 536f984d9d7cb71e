package api

import (
	"time"

	"github.com/vovakirdan/serpent-arena/internal/storage"
)

// User is the JSON form of a player profile.
type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	SnakeColor string    `json:"snakeColor"`
	SnakeType  string    `json:"snakeType"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Score is the JSON form of a saved score.
type Score struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Value     int       `json:"value"`
	CreatedAt time.Time `json:"createdAt"`
}

// LeaderboardUser is the user summary embedded in a leaderboard row.
type LeaderboardUser struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	SnakeColor string `json:"snakeColor"`
	SnakeType  string `json:"snakeType"`
}

// LeaderboardRow is one entry of GET /api/leaderboard.
type LeaderboardRow struct {
	ID        string          `json:"id"`
	Value     int             `json:"value"`
	CreatedAt time.Time       `json:"createdAt"`
	User      LeaderboardUser `json:"user"`
}

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// RuntimeConfig is served at /config.json for browser clients.
type RuntimeConfig struct {
	APIBaseURL string `json:"apiBaseUrl"`
}

func userFromStorage(u storage.User) User {
	return User{
		ID:         u.ID,
		Username:   u.Username,
		SnakeColor: u.SnakeColor,
		SnakeType:  u.SnakeType,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func scoreFromStorage(s storage.Score) Score {
	return Score{
		ID:        s.ID,
		UserID:    s.UserID,
		Value:     s.Value,
		CreatedAt: s.CreatedAt,
	}
}

func rowsFromStorage(entries []storage.LeaderboardEntry) []LeaderboardRow {
	rows := make([]LeaderboardRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, LeaderboardRow{
			ID:        e.ID,
			Value:     e.Value,
			CreatedAt: e.CreatedAt,
			User: LeaderboardUser{
				ID:         e.User.ID,
				Username:   e.User.Username,
				SnakeColor: e.User.SnakeColor,
				SnakeType:  e.User.SnakeType,
			},
		})
	}
	return rows
}
