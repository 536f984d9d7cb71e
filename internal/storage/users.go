package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Profile defaults for new users.
const (
	DefaultSnakeColor = "#39ff14"
	DefaultSnakeType  = "classic"
)

// User is a player profile.
type User struct {
	ID         string
	Username   string
	SnakeColor string
	SnakeType  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Prefs carries optional appearance fields. Nil fields are left unchanged.
type Prefs struct {
	Color *string
	Type  *string
}

const userColumns = `id, username, snake_color, snake_type, created_at, updated_at`

// UpsertUser creates a user or updates the existing one with the same username.
// Only the provided preference fields are written on update.
func (s *Store) UpsertUser(ctx context.Context, username string, prefs Prefs) (User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return User{}, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	existing, err := scanUser(tx.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username))
	now := s.timestamp()

	switch {
	case errors.Is(err, ErrNotFound):
		u := User{
			ID:         uuid.NewString(),
			Username:   username,
			SnakeColor: DefaultSnakeColor,
			SnakeType:  DefaultSnakeType,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		applyPrefs(&u, prefs)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, username, snake_color, snake_type, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			u.ID, u.Username, u.SnakeColor, u.SnakeType, u.CreatedAt, u.UpdatedAt,
		); err != nil {
			return User{}, fmt.Errorf("storage: cannot create user: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return User{}, fmt.Errorf("storage: cannot commit user: %w", err)
		}
		return u, nil

	case err != nil:
		return User{}, err
	}

	if err := updatePrefs(ctx, tx, &existing, prefs, now); err != nil {
		return User{}, err
	}
	if err := tx.Commit(); err != nil {
		return User{}, fmt.Errorf("storage: cannot commit user: %w", err)
	}
	return existing, nil
}

// UpdateUser changes the appearance of an existing user.
// Returns ErrNotFound if the user does not exist.
func (s *Store) UpdateUser(ctx context.Context, id string, prefs Prefs) (User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return User{}, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	u, err := scanUser(tx.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		return User{}, err
	}
	if err := updatePrefs(ctx, tx, &u, prefs, s.timestamp()); err != nil {
		return User{}, err
	}
	if err := tx.Commit(); err != nil {
		return User{}, fmt.Errorf("storage: cannot commit user: %w", err)
	}
	return u, nil
}

// User returns the user with the given ID.
func (s *Store) User(ctx context.Context, id string) (User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

// UserByName returns the user with the given username.
func (s *Store) UserByName(ctx context.Context, username string) (User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

func updatePrefs(ctx context.Context, tx *sql.Tx, u *User, prefs Prefs, now time.Time) error {
	if prefs.Color == nil && prefs.Type == nil {
		return nil
	}
	applyPrefs(u, prefs)
	u.UpdatedAt = now
	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET snake_color = ?, snake_type = ?, updated_at = ? WHERE id = ?`,
		u.SnakeColor, u.SnakeType, u.UpdatedAt, u.ID,
	); err != nil {
		return fmt.Errorf("storage: cannot update user: %w", err)
	}
	return nil
}

func applyPrefs(u *User, prefs Prefs) {
	if prefs.Color != nil {
		u.SnakeColor = *prefs.Color
	}
	if prefs.Type != nil {
		u.SnakeType = *prefs.Type
	}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var u User
	var createdAt, updatedAt any
	err := row.Scan(&u.ID, &u.Username, &u.SnakeColor, &u.SnakeType, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("storage: cannot query user: %w", err)
	}
	u.CreatedAt = parseTime(createdAt)
	u.UpdatedAt = parseTime(updatedAt)
	return u, nil
}
