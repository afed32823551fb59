package practice

import (
	"context"
	"strings"
	"sync"

	"github.com/prepdeck/prepdeck/internal/api"
	"github.com/prepdeck/prepdeck/internal/auth"
)

// State is the practice cycle phase.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateSubmitting
	StateReviewing
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSubmitting:
		return "submitting"
	case StateReviewing:
		return "reviewing"
	case StateErrored:
		return "errored"
	}
	return "unknown"
}

// QuestionService is the slice of the gateway the practice cycle needs.
// Implemented by *api.Client and by the offline coach.
type QuestionService interface {
	NextQuestion(ctx context.Context, role string) (*api.Question, error)
	Evaluate(ctx context.Context, req api.EvaluateRequest) (*api.Feedback, error)
}

// Controller drives one free-text question/answer/feedback cycle:
// Idle → Loading → Ready → Submitting → Reviewing → Loading (next).
// A session-invalid observation from any non-Idle state forces Idle.
type Controller struct {
	service QuestionService
	role    string

	mu       sync.Mutex
	state    State
	question *api.Question
	answer   string
	feedback *api.Feedback
	errMsg   string

	// version tokens stale in-flight fetches: a result is applied only if
	// the controller's version still matches the issue-time snapshot.
	version int
}

// Snapshot is an immutable copy of the controller state for rendering.
type Snapshot struct {
	State    State
	Question *api.Question
	Answer   string
	Feedback *api.Feedback
	ErrMsg   string
}

// New creates a Controller for role. The controller resets to Idle
// whenever the session transitions to unauthenticated.
func New(service QuestionService, session *auth.Session, role string) *Controller {
	c := &Controller{service: service, role: role}
	if session != nil {
		session.Subscribe(func(authenticated bool) {
			if !authenticated {
				c.Reset()
			}
		})
	}
	return c
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:    c.state,
		Question: c.question,
		Answer:   c.answer,
		Feedback: c.feedback,
		ErrMsg:   c.errMsg,
	}
}

// Reset discards question, answer and feedback and returns to Idle.
// Idempotent.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version++
	c.state = StateIdle
	c.question = nil
	c.answer = ""
	c.feedback = nil
	c.errMsg = ""
}

// Start fetches the next question. Valid from Idle, Errored, or Ready
// (a refetch replaces any previous question). Blocks until the fetch
// completes; run it from a tea.Cmd.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StateLoading, StateSubmitting:
		c.mu.Unlock()
		return nil
	}
	c.version++
	v := c.version
	c.state = StateLoading
	c.question = nil
	c.answer = ""
	c.feedback = nil
	c.errMsg = ""
	role := c.role
	c.mu.Unlock()

	q, err := c.service.NextQuestion(ctx, role)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.version != v {
		// Superseded by a reset or a newer fetch; discard silently.
		return nil
	}
	if err != nil {
		c.state = StateErrored
		c.errMsg = api.UserMessage(err)
		return err
	}
	c.state = StateReady
	c.question = q
	return nil
}

// SetAnswer stores the answer text verbatim. Only valid in Ready.
func (c *Controller) SetAnswer(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateReady {
		return
	}
	c.answer = text
}

// Submit posts the answer for evaluation. Only valid in Ready with a
// non-empty answer; a second call while Submitting is a no-op. On failure
// the controller returns to Ready with the answer preserved.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return nil
	}
	if strings.TrimSpace(c.answer) == "" {
		c.errMsg = api.UserMessage(api.ErrEmptyAnswer)
		c.mu.Unlock()
		return api.ErrEmptyAnswer
	}
	v := c.version
	c.state = StateSubmitting
	c.errMsg = ""
	req := api.EvaluateRequest{
		Question: c.question.Text,
		Answer:   c.answer,
		Role:     c.role,
	}
	c.mu.Unlock()

	fb, err := c.service.Evaluate(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.version != v {
		return nil
	}
	if err != nil {
		// Back to Ready, answer intact, so the user can retry without
		// retyping.
		c.state = StateReady
		c.errMsg = api.UserMessage(err)
		return err
	}
	c.state = StateReviewing
	c.feedback = fb
	return nil
}

// Next clears the answer and feedback and fetches a fresh question.
// Valid in Reviewing or Errored.
func (c *Controller) Next(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateReviewing && c.state != StateErrored {
		c.mu.Unlock()
		return nil
	}
	// Rejoin the Start path from a state it accepts.
	c.state = StateIdle
	c.mu.Unlock()

	return c.Start(ctx)
}
