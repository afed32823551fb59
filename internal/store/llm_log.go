package store

import (
	"context"
	"fmt"
	"time"
)

// LLMRequestRecord describes one LLM round trip for the local log.
type LLMRequestRecord struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	CostUSD      *float64
	Success      bool
	ErrorMessage string
}

// RequestLog is the sink the LLM middleware writes to.
type RequestLog interface {
	AppendLLMRequest(ctx context.Context, rec LLMRequestRecord) error
}

// AppendLLMRequest records one LLM round trip.
func (s *Store) AppendLLMRequest(ctx context.Context, rec LLMRequestRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO llm_requests
			(provider, model, purpose, input_tokens, output_tokens, latency_ms, cost_usd, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Provider, rec.Model, rec.Purpose,
		rec.InputTokens, rec.OutputTokens, rec.LatencyMs,
		rec.CostUSD, rec.Success, rec.ErrorMessage)
	if err != nil {
		return fmt.Errorf("append LLM request: %w", err)
	}
	return nil
}

// LoggedLLMRequest is one stored row from the request log.
type LoggedLLMRequest struct {
	ID        int64
	CreatedAt time.Time
	LLMRequestRecord
}

// RecentLLMRequests returns the most recent logged requests, newest
// first.
func (s *Store) RecentLLMRequests(ctx context.Context, limit int) ([]LoggedLLMRequest, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, provider, model, purpose,
		       input_tokens, output_tokens, latency_ms, cost_usd, success, error_message
		FROM llm_requests ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query LLM requests: %w", err)
	}
	defer rows.Close()

	var out []LoggedLLMRequest
	for rows.Next() {
		var r LoggedLLMRequest
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Provider, &r.Model, &r.Purpose,
			&r.InputTokens, &r.OutputTokens, &r.LatencyMs, &r.CostUSD, &r.Success, &r.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan LLM request: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LLMModelUsage aggregates the request log per model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	CostUSD      float64
	AvgLatencyMs int64
}

// LLMUsageByModel returns token and cost totals grouped by model,
// heaviest spender first.
func (s *Store) LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT model, COUNT(*), SUM(input_tokens), SUM(output_tokens),
		       COALESCE(SUM(cost_usd), 0), CAST(AVG(latency_ms) AS INTEGER)
		FROM llm_requests
		GROUP BY model
		ORDER BY COALESCE(SUM(cost_usd), 0) DESC, COUNT(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("query LLM usage: %w", err)
	}
	defer rows.Close()

	var out []LLMModelUsage
	for rows.Next() {
		var u LLMModelUsage
		if err := rows.Scan(&u.Model, &u.Calls, &u.InputTokens, &u.OutputTokens, &u.CostUSD, &u.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan LLM usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// LLMRequestCount returns the number of logged LLM requests.
func (s *Store) LLMRequestCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM llm_requests").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count LLM requests: %w", err)
	}
	return n, nil
}
