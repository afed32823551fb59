package store

import (
	"context"
	"fmt"
	"time"
)

// Attempt is one answered practice question kept locally, so offline
// sessions leave a reviewable trail the same way server sessions do.
type Attempt struct {
	ID        int64
	Role      string
	Question  string
	Answer    string
	Feedback  string
	Score     *float64
	CreatedAt time.Time
}

// AppendAttempt records an answered question.
func (s *Store) AppendAttempt(ctx context.Context, a Attempt) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attempts (role, question, answer, feedback, score)
		VALUES (?, ?, ?, ?, ?)`,
		a.Role, a.Question, a.Answer, a.Feedback, a.Score)
	if err != nil {
		return fmt.Errorf("append attempt: %w", err)
	}
	return nil
}

// RecentAttempts returns the most recent attempts, newest first.
func (s *Store) RecentAttempts(ctx context.Context, limit int) ([]Attempt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, role, question, answer, feedback, score, created_at
		FROM attempts ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var a Attempt
		if err := rows.Scan(&a.ID, &a.Role, &a.Question, &a.Answer, &a.Feedback, &a.Score, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CountAttempts returns the total number of recorded attempts.
func (s *Store) CountAttempts(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM attempts").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count attempts: %w", err)
	}
	return n, nil
}
