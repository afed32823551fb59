// Package coach generates questions, evaluations, and MCQs locally via
// an LLM provider. It implements the same service surfaces as the API
// gateway, so the session controllers work unchanged without a server.
package coach

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/prepdeck/prepdeck/internal/api"
	"github.com/prepdeck/prepdeck/internal/llm"
	"github.com/prepdeck/prepdeck/internal/store"
)

// Config controls generation behavior.
type Config struct {
	// MaxTokens is the token budget for a single LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// BatchSize is how many MCQs a list request generates.
	BatchSize int

	// MaxRecent is the maximum number of prior questions included in
	// prompts for deduplication.
	MaxRecent int
}

// DefaultConfig returns recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1024,
		Temperature: 0.7,
		BatchSize:   3,
		MaxRecent:   8,
	}
}

// Coach serves practice questions and MCQs from an LLM provider.
// Answered questions are recorded in the local store when one is set.
type Coach struct {
	provider llm.Provider
	config   Config
	attempts *store.Store

	mu     sync.Mutex
	nextID int64
	asked  []string
}

// New creates a Coach. attempts may be nil to skip local history.
func New(provider llm.Provider, cfg Config, attempts *store.Store) *Coach {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	return &Coach{provider: provider, config: cfg, attempts: attempts, nextID: 1}
}

// NextQuestion generates one open-ended question for role.
func (c *Coach) NextQuestion(ctx context.Context, role string) (*api.Question, error) {
	ctx = llm.WithPurpose(ctx, "question-generation")

	c.mu.Lock()
	asked := make([]string, len(c.asked))
	copy(asked, c.asked)
	c.mu.Unlock()

	resp, err := c.provider.Generate(ctx, llm.Request{
		System: questionSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildQuestionMessage(role, asked, c.config.MaxRecent)},
		},
		Schema:      questionSchema,
		MaxTokens:   c.config.MaxTokens,
		Temperature: c.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate question: %w", err)
	}

	var raw struct {
		Question string `json:"question"`
		Topic    string `json:"topic"`
	}
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("parse generated question: %w", err)
	}
	if raw.Question == "" {
		return nil, fmt.Errorf("generated question is empty")
	}

	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.asked = append(c.asked, raw.Question)
	c.mu.Unlock()

	return &api.Question{
		ID:   api.FlexID(strconv.FormatInt(id, 10)),
		Text: raw.Question,
		Role: role,
	}, nil
}

// Evaluate scores a submitted answer and records the attempt locally.
func (c *Coach) Evaluate(ctx context.Context, req api.EvaluateRequest) (*api.Feedback, error) {
	ctx = llm.WithPurpose(ctx, "answer-evaluation")

	resp, err := c.provider.Generate(ctx, llm.Request{
		System: evaluateSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildEvaluateMessage(req.Role, req.Question, req.Answer)},
		},
		Schema:    feedbackSchema,
		MaxTokens: c.config.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("evaluate answer: %w", err)
	}

	var raw struct {
		Feedback string  `json:"feedback"`
		Score    float64 `json:"score"`
	}
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("parse evaluation: %w", err)
	}

	score := raw.Score
	fb := &api.Feedback{Text: raw.Feedback, Score: &score}

	if c.attempts != nil {
		err := c.attempts.AppendAttempt(ctx, store.Attempt{
			Role:     req.Role,
			Question: req.Question,
			Answer:   req.Answer,
			Feedback: fb.Text,
			Score:    fb.Score,
		})
		if err != nil {
			// History is best-effort; the evaluation still stands.
			return fb, nil
		}
	}
	return fb, nil
}

// ListMCQs generates a fresh batch for the given filters. Empty topic
// or difficulty means unconstrained, mirroring the server's list call.
func (c *Coach) ListMCQs(ctx context.Context, role, topic, difficulty string) ([]api.MCQItem, error) {
	ctx = llm.WithPurpose(ctx, "mcq-generation")

	resp, err := c.provider.Generate(ctx, llm.Request{
		System: mcqSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildMCQMessage(role, topic, difficulty, c.config.BatchSize, nil, c.config.MaxRecent)},
		},
		Schema:      mcqBatchSchema,
		MaxTokens:   c.config.MaxTokens * c.config.BatchSize,
		Temperature: c.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate MCQ batch: %w", err)
	}

	var raw struct {
		MCQs []mcqOutput `json:"mcqs"`
	}
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("parse MCQ batch: %w", err)
	}

	items := make([]api.MCQItem, 0, len(raw.MCQs))
	for _, m := range raw.MCQs {
		item, err := c.toItem(m, topic, difficulty)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

// GenerateMCQ generates one item for the requested scope.
func (c *Coach) GenerateMCQ(ctx context.Context, req api.GenerateMCQRequest) (*api.MCQItem, error) {
	ctx = llm.WithPurpose(ctx, "mcq-generation")

	c.mu.Lock()
	asked := make([]string, len(c.asked))
	copy(asked, c.asked)
	c.mu.Unlock()

	resp, err := c.provider.Generate(ctx, llm.Request{
		System: mcqSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildMCQMessage(req.Role, req.Topic, req.Difficulty, 1, asked, c.config.MaxRecent)},
		},
		Schema:      mcqSchema,
		MaxTokens:   c.config.MaxTokens,
		Temperature: c.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate MCQ: %w", err)
	}

	var raw mcqOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("parse MCQ: %w", err)
	}
	return c.toItem(raw, req.Topic, req.Difficulty)
}

// mcqOutput is the raw LLM response before checks. Options decode
// through OptionList so A-D keep their written order.
type mcqOutput struct {
	Question      string         `json:"question"`
	Topic         string         `json:"topic"`
	Options       api.OptionList `json:"options"`
	CorrectAnswer string         `json:"correct_answer"`
	Explanation   string         `json:"explanation"`
	Difficulty    string         `json:"difficulty"`
}

// toItem checks a generated MCQ and assigns it a local ID. The schema
// constrains shape, but the correct key still has to name a real option.
func (c *Coach) toItem(m mcqOutput, topic, difficulty string) (*api.MCQItem, error) {
	if m.Question == "" {
		return nil, fmt.Errorf("generated MCQ has no question")
	}
	if len(m.Options) != 4 {
		return nil, fmt.Errorf("generated MCQ has %d options, want 4", len(m.Options))
	}
	if _, ok := m.Options.Text(m.CorrectAnswer); !ok {
		return nil, fmt.Errorf("correct answer %q is not an option", m.CorrectAnswer)
	}

	if topic == "" {
		topic = m.Topic
	}
	if difficulty == "" {
		difficulty = m.Difficulty
	}

	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.asked = append(c.asked, m.Question)
	c.mu.Unlock()

	return &api.MCQItem{
		ID:            id,
		Topic:         topic,
		Question:      m.Question,
		Options:       m.Options,
		CorrectAnswer: m.CorrectAnswer,
		Explanation:   m.Explanation,
		Difficulty:    difficulty,
	}, nil
}
