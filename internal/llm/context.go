package llm

import "context"

type ctxKey int

const purposeCtxKey ctxKey = iota

// WithPurpose tags the context with what the call is for, e.g.
// "question-generation" or "answer-evaluation". The logging decorator
// records the tag with each request.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeCtxKey, purpose)
}

// PurposeFrom reads the purpose tag, or "unknown" when absent.
func PurposeFrom(ctx context.Context) string {
	p, _ := ctx.Value(purposeCtxKey).(string)
	if p == "" {
		return "unknown"
	}
	return p
}
