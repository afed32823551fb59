package practice

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prepdeck/prepdeck/internal/api"
	"github.com/prepdeck/prepdeck/internal/auth"
)

// stubService returns queued questions and feedback.
type stubService struct {
	mu        sync.Mutex
	questions []*api.Question
	feedbacks []*api.Feedback
	questErr  error
	evalErr   error
	evalCalls int
	lastEval  api.EvaluateRequest

	// blockEval, when non-nil, is closed by the test to release Evaluate.
	// evalStarted is closed when Evaluate is entered.
	blockEval   chan struct{}
	evalStarted chan struct{}
}

func (s *stubService) NextQuestion(_ context.Context, role string) (*api.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.questErr != nil {
		return nil, s.questErr
	}
	q := s.questions[0]
	if len(s.questions) > 1 {
		s.questions = s.questions[1:]
	}
	return q, nil
}

func (s *stubService) Evaluate(_ context.Context, req api.EvaluateRequest) (*api.Feedback, error) {
	s.mu.Lock()
	s.evalCalls++
	s.lastEval = req
	block := s.blockEval
	started := s.evalStarted
	s.evalStarted = nil
	s.mu.Unlock()

	if started != nil {
		close(started)
	}
	if block != nil {
		<-block
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.evalErr != nil {
		return nil, s.evalErr
	}
	return s.feedbacks[0], nil
}

func score(v float64) *float64 { return &v }

func TestFullCycle(t *testing.T) {
	svc := &stubService{
		questions: []*api.Question{{ID: "1", Text: "Tell me about a challenge", Role: "software-engineer"}},
		feedbacks: []*api.Feedback{{Text: "Good structure, add metrics.", Score: score(7)}},
	}
	c := New(svc, nil, "software-engineer")

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	snap := c.Snapshot()
	if snap.State != StateReady {
		t.Fatalf("state = %v, want ready", snap.State)
	}
	if snap.Question.Text != "Tell me about a challenge" {
		t.Errorf("question = %q", snap.Question.Text)
	}

	c.SetAnswer("I led a migration...")
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	snap = c.Snapshot()
	if snap.State != StateReviewing {
		t.Fatalf("state = %v, want reviewing", snap.State)
	}
	if snap.Feedback.Text != "Good structure, add metrics." {
		t.Errorf("feedback = %q", snap.Feedback.Text)
	}
	if snap.Feedback.Score == nil || *snap.Feedback.Score != 7 {
		t.Errorf("score = %v, want 7", snap.Feedback.Score)
	}
	if svc.lastEval.Answer != "I led a migration..." {
		t.Errorf("submitted answer = %q", svc.lastEval.Answer)
	}
}

func TestSubmitEmptyAnswerBlockedLocally(t *testing.T) {
	svc := &stubService{questions: []*api.Question{{ID: "1", Text: "q"}}}
	c := New(svc, nil, "sde")
	_ = c.Start(context.Background())

	c.SetAnswer("   ")
	err := c.Submit(context.Background())
	if !errors.Is(err, api.ErrEmptyAnswer) {
		t.Fatalf("err = %v, want ErrEmptyAnswer", err)
	}
	if svc.evalCalls != 0 {
		t.Fatalf("Evaluate called %d times, want 0", svc.evalCalls)
	}
	if c.Snapshot().State != StateReady {
		t.Fatalf("state = %v, want ready", c.Snapshot().State)
	}
}

func TestDoubleSubmitIsNoOp(t *testing.T) {
	svc := &stubService{
		questions:   []*api.Question{{ID: "1", Text: "q"}},
		feedbacks:   []*api.Feedback{{Text: "ok"}},
		blockEval:   make(chan struct{}),
		evalStarted: make(chan struct{}),
	}
	c := New(svc, nil, "sde")
	_ = c.Start(context.Background())
	c.SetAnswer("answer")

	done := make(chan error, 1)
	go func() { done <- c.Submit(context.Background()) }()

	// Wait until the first submit is in flight.
	<-svc.evalStarted

	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("second Submit returned %v, want nil no-op", err)
	}

	close(svc.blockEval)
	if err := <-done; err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	if got := svc.evalCalls; got != 1 {
		t.Fatalf("Evaluate called %d times, want 1", got)
	}
	if c.Snapshot().State != StateReviewing {
		t.Fatalf("state = %v, want reviewing", c.Snapshot().State)
	}
}

func TestSubmitFailureReturnsToReadyPreservingAnswer(t *testing.T) {
	svc := &stubService{
		questions: []*api.Question{{ID: "1", Text: "q"}},
		evalErr:   &api.RemoteError{Status: 500, Message: "Failed to evaluate"},
	}
	c := New(svc, nil, "sde")
	_ = c.Start(context.Background())
	c.SetAnswer("my answer")

	if err := c.Submit(context.Background()); err == nil {
		t.Fatal("expected error")
	}

	snap := c.Snapshot()
	if snap.State != StateReady {
		t.Fatalf("state = %v, want ready", snap.State)
	}
	if snap.Answer != "my answer" {
		t.Errorf("answer = %q, want preserved", snap.Answer)
	}
	if snap.ErrMsg != "Failed to evaluate" {
		t.Errorf("errMsg = %q", snap.ErrMsg)
	}
}

func TestStartFailureThenRetry(t *testing.T) {
	svc := &stubService{questErr: &api.UnreachableError{Err: errors.New("dial tcp")}}
	c := New(svc, nil, "sde")

	if err := c.Start(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if c.Snapshot().State != StateErrored {
		t.Fatalf("state = %v, want errored", c.Snapshot().State)
	}

	svc.mu.Lock()
	svc.questErr = nil
	svc.questions = []*api.Question{{ID: "2", Text: "q2"}}
	svc.mu.Unlock()

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("retry Start: %v", err)
	}
	if c.Snapshot().State != StateReady {
		t.Fatalf("state = %v, want ready", c.Snapshot().State)
	}
}

func TestNextClearsAnswerAndFeedback(t *testing.T) {
	svc := &stubService{
		questions: []*api.Question{{ID: "1", Text: "q1"}, {ID: "2", Text: "q2"}},
		feedbacks: []*api.Feedback{{Text: "fine"}},
	}
	c := New(svc, nil, "sde")
	_ = c.Start(context.Background())
	c.SetAnswer("a")
	_ = c.Submit(context.Background())

	if err := c.Next(context.Background()); err != nil {
		t.Fatalf("Next: %v", err)
	}

	snap := c.Snapshot()
	if snap.State != StateReady {
		t.Fatalf("state = %v, want ready", snap.State)
	}
	if snap.Answer != "" || snap.Feedback != nil {
		t.Errorf("answer/feedback not cleared: %q %v", snap.Answer, snap.Feedback)
	}
	if snap.Question.ID != "2" {
		t.Errorf("question = %v, want the next one", snap.Question.ID)
	}
}

func TestSessionInvalidForcesIdle(t *testing.T) {
	session := auth.NewSession()
	session.Login("tok")

	svc := &stubService{questions: []*api.Question{{ID: "1", Text: "q"}}}
	c := New(svc, session, "sde")
	_ = c.Start(context.Background())
	c.SetAnswer("partial answer")

	session.Invalidate()

	snap := c.Snapshot()
	if snap.State != StateIdle {
		t.Fatalf("state = %v, want idle", snap.State)
	}
	if snap.Question != nil || snap.Answer != "" || snap.Feedback != nil {
		t.Error("question/answer/feedback must be discarded on session invalidation")
	}
}

func TestStaleFetchDiscardedAfterReset(t *testing.T) {
	release := make(chan struct{})
	svc := &blockingQuestionService{started: make(chan struct{}), release: release}
	c := New(svc, nil, "sde")

	done := make(chan error, 1)
	go func() { done <- c.Start(context.Background()) }()
	<-svc.started

	c.Reset()
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Start: %v", err)
	}

	if c.Snapshot().State != StateIdle {
		t.Fatalf("state = %v, want idle (stale result discarded)", c.Snapshot().State)
	}
}

type blockingQuestionService struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingQuestionService) NextQuestion(context.Context, string) (*api.Question, error) {
	close(b.started)
	<-b.release
	return &api.Question{ID: "late", Text: "stale"}, nil
}

func (b *blockingQuestionService) Evaluate(context.Context, api.EvaluateRequest) (*api.Feedback, error) {
	return nil, nil
}
