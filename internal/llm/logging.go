package llm

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prepdeck/prepdeck/internal/store"
)

// LoggingProvider is a decorator that records every LLM round trip in
// the local request log, with an estimated cost when pricing is known.
type LoggingProvider struct {
	inner    Provider
	provider string
	log      store.RequestLog
}

// WithLogging wraps a Provider with request logging.
func WithLogging(p Provider, providerName string, log store.RequestLog) Provider {
	return &LoggingProvider{inner: p, provider: providerName, log: log}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	rec := store.LLMRequestRecord{
		Provider:  l.provider,
		Model:     l.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}

	if resp != nil {
		rec.InputTokens = resp.Usage.InputTokens
		rec.OutputTokens = resp.Usage.OutputTokens
		rec.Model = resp.Model
		if c := LookupCost(rec.Model); c != nil {
			cost := c.Cost(rec.InputTokens, rec.OutputTokens)
			rec.CostUSD = &cost
		}
	}

	if err != nil {
		rec.ErrorMessage = err.Error()
	}

	// Log the round trip but don't fail the request if logging fails.
	if logErr := l.log.AppendLLMRequest(ctx, rec); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log LLM request: %v\n", logErr)
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
