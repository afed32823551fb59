package practice

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/prepdeck/prepdeck/internal/api"
	ctrl "github.com/prepdeck/prepdeck/internal/practice"
	"github.com/prepdeck/prepdeck/internal/screen"
)

// mockQuestionService implements ctrl.QuestionService for testing.
type mockQuestionService struct {
	question *api.Question
	feedback *api.Feedback
	err      error
}

func (m *mockQuestionService) NextQuestion(_ context.Context, role string) (*api.Question, error) {
	if m.err != nil {
		return nil, m.err
	}
	q := *m.question
	q.Role = role
	return &q, nil
}

func (m *mockQuestionService) Evaluate(_ context.Context, _ api.EvaluateRequest) (*api.Feedback, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.feedback, nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func ctrlKey(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}
}

// drive executes a command synchronously and feeds its message back.
// Follow-up commands (cursor blinks and the like) are discarded.
func drive(s screen.Screen, cmd tea.Cmd) screen.Screen {
	if cmd == nil {
		return s
	}
	msg := cmd()
	if msg == nil {
		return s
	}
	s, _ = s.Update(msg)
	return s
}

func testScreen() (*PracticeScreen, *mockQuestionService) {
	score := 8.0
	svc := &mockQuestionService{
		question: &api.Question{ID: "42", Text: "Explain the difference between a process and a thread."},
		feedback: &api.Feedback{Text: "Solid answer.", Score: &score},
	}
	s := New(ctrl.New(svc, nil, "sde"))
	return s, svc
}

func TestInitFetchesQuestion(t *testing.T) {
	s, _ := testScreen()

	scr := drive(s, s.Init())

	snap := s.controller.Snapshot()
	if snap.State != ctrl.StateReady {
		t.Fatalf("state = %v, want Ready", snap.State)
	}
	view := scr.View(80, 24)
	if !strings.Contains(view, "process and a thread") {
		t.Error("expected the question text in the view")
	}
}

func TestSubmitShowsFeedback(t *testing.T) {
	s, _ := testScreen()
	scr := drive(screen.Screen(s), s.Init())

	// Type an answer into the textarea.
	for _, r := range "A process owns memory" {
		scr, _ = scr.Update(keyPress(r))
	}

	scr, cmd := scr.Update(ctrlKey('s'))
	if cmd == nil {
		t.Fatal("expected a submit command")
	}
	scr = drive(scr, cmd)

	snap := s.controller.Snapshot()
	if snap.State != ctrl.StateReviewing {
		t.Fatalf("state = %v, want Reviewing", snap.State)
	}
	view := scr.View(80, 24)
	if !strings.Contains(view, "Solid answer.") {
		t.Error("expected feedback text in the view")
	}
	if !strings.Contains(view, "8/10") {
		t.Error("expected the score in the view")
	}
}

func TestNextFetchesFreshQuestion(t *testing.T) {
	s, svc := testScreen()
	scr := drive(screen.Screen(s), s.Init())
	for _, r := range "answer" {
		scr, _ = scr.Update(keyPress(r))
	}
	scr, cmd := scr.Update(ctrlKey('s'))
	scr = drive(scr, cmd)

	svc.question = &api.Question{ID: "43", Text: "What is a deadlock?"}
	scr, cmd = scr.Update(keyPress('n'))
	if cmd == nil {
		t.Fatal("expected a fetch command from N")
	}
	scr = drive(scr, cmd)

	snap := s.controller.Snapshot()
	if snap.State != ctrl.StateReady {
		t.Fatalf("state = %v, want Ready", snap.State)
	}
	if snap.Question.Text != "What is a deadlock?" {
		t.Errorf("question = %q, want the fresh one", snap.Question.Text)
	}
}

func TestRetryAfterError(t *testing.T) {
	s, svc := testScreen()
	svc.err = errors.New("gateway timeout")

	scr := drive(screen.Screen(s), s.Init())
	if got := s.controller.Snapshot().State; got != ctrl.StateErrored {
		t.Fatalf("state = %v, want Errored", got)
	}

	svc.err = nil
	scr, cmd := scr.Update(keyPress('r'))
	if cmd == nil {
		t.Fatal("expected a retry command from R")
	}
	drive(scr, cmd)

	if got := s.controller.Snapshot().State; got != ctrl.StateReady {
		t.Fatalf("state = %v, want Ready after retry", got)
	}
}

func TestSubmitIgnoredWhileLoading(t *testing.T) {
	s, _ := testScreen()

	// No Init: controller is still Idle, so Ctrl+S must do nothing.
	_, cmd := s.Update(ctrlKey('s'))
	if cmd != nil {
		t.Error("expected no command before a question is ready")
	}
}
