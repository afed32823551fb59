package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SaveToken persists the login token, replacing any previous one.
func (s *Store) SaveToken(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (id, token, saved_at) VALUES (1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET token = excluded.token, saved_at = excluded.saved_at`,
		token)
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// LoadToken returns the saved login token, or "" when none is stored.
func (s *Store) LoadToken(ctx context.Context) (string, error) {
	var token string
	err := s.db.QueryRowContext(ctx,
		"SELECT token FROM credentials WHERE id = 1").Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	return token, nil
}

// ClearToken removes the saved login token. Clearing an empty store is
// not an error.
func (s *Store) ClearToken(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM credentials WHERE id = 1"); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}
