package llm

import (
	"context"
	"encoding/json"
)

// Provider generates structured JSON from a prompt. The coach builds
// its questions, evaluations, and MCQs entirely through this interface,
// so the concrete backend (Anthropic, OpenAI, Gemini, mock) is an
// injection detail.
type Provider interface {
	// Generate sends the request and returns the model's output. When
	// the request carries a Schema, Content is JSON validated against
	// it; otherwise it is the raw text.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID reports the configured model identifier.
	ModelID() string
}

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of conversation.
type Message struct {
	Role    Role
	Content string
}

// Request is everything a generation call needs. Single-turn requests
// carry one user message.
type Request struct {
	// System sets the model's role and constraints.
	System string

	Messages []Message

	// Schema, when set, makes the provider use its native structured
	// output mechanism and validates the result.
	Schema *Schema

	// MaxTokens caps the response length.
	MaxTokens int

	// Temperature in [0, 1]. Zero means deterministic.
	Temperature float64
}

// Schema names and defines the JSON shape the model must produce.
type Schema struct {
	// Name is kebab-case, e.g. "interview-question". Providers use it
	// as the tool or schema name on the wire.
	Name string

	// Description guides the model toward the intended content.
	Description string

	// Definition is the JSON Schema as a map.
	Definition map[string]any
}

// Usage is the token accounting for one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Response is the model's output plus metadata.
type Response struct {
	// Content is validated JSON when the request had a Schema, raw
	// text otherwise.
	Content json.RawMessage

	Usage Usage

	// Model is the model that actually served the call, which may be
	// more specific than the configured alias.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}
