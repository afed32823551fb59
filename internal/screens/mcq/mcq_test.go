package mcq

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/prepdeck/prepdeck/internal/api"
	"github.com/prepdeck/prepdeck/internal/auth"
	ctrl "github.com/prepdeck/prepdeck/internal/mcq"
	"github.com/prepdeck/prepdeck/internal/screen"
)

// mockMCQService implements ctrl.MCQService for testing.
type mockMCQService struct {
	items     []api.MCQItem
	generated *api.MCQItem
	err       error
}

func (m *mockMCQService) ListMCQs(_ context.Context, _, _, _ string) ([]api.MCQItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.items, nil
}

func (m *mockMCQService) GenerateMCQ(_ context.Context, _ api.GenerateMCQRequest) (*api.MCQItem, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.generated, nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// drive executes a command synchronously and feeds its message back.
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

func sampleItems() []api.MCQItem {
	options := api.OptionList{
		{Key: "A", Text: "A queue"},
		{Key: "B", Text: "A stack"},
		{Key: "C", Text: "A heap"},
		{Key: "D", Text: "A trie"},
	}
	return []api.MCQItem{
		{ID: 1, Question: "Which structure is LIFO?", Topic: "Data Structures",
			Difficulty: api.DifficultyEasy, Options: options, CorrectAnswer: "B",
			Explanation: "Stacks pop the most recently pushed element."},
		{ID: 2, Question: "Which structure is FIFO?", Topic: "Data Structures",
			Difficulty: api.DifficultyEasy, Options: options, CorrectAnswer: "A",
			Explanation: "Queues dequeue in arrival order."},
	}
}

func testScreen() (*MCQScreen, *mockMCQService) {
	svc := &mockMCQService{items: sampleItems()}
	s := New(ctrl.New(svc, nil, "sde"))
	return s, svc
}

func TestInitLoadsCollection(t *testing.T) {
	s, _ := testScreen()

	scr := drive(screen.Screen(s), s.Init())

	if len(s.lists) != 2 {
		t.Fatalf("lists = %d, want 2", len(s.lists))
	}
	view := scr.View(80, 24)
	if !strings.Contains(view, "Question 1 of 2") {
		t.Error("expected the position indicator in the view")
	}
	if !strings.Contains(view, "LIFO") {
		t.Error("expected the first question in the view")
	}
}

func TestAnswerLocksAndShowsVerdict(t *testing.T) {
	s, _ := testScreen()
	scr := drive(screen.Screen(s), s.Init())

	scr, _ = scr.Update(keyPress('b'))

	if !s.lists[0].Locked() {
		t.Fatal("expected the answer to lock in")
	}
	if key, ok := s.controller.SelectedAnswer(1); !ok || key != "B" {
		t.Errorf("recorded selection = %q, %v; want B, true", key, ok)
	}
	view := scr.View(80, 24)
	if !strings.Contains(view, "Correct!") {
		t.Error("expected the verdict in the view")
	}
	if !strings.Contains(view, "recently pushed") {
		t.Error("expected the explanation in the view")
	}
}

func TestFirstAnswerWins(t *testing.T) {
	s, _ := testScreen()
	scr := drive(screen.Screen(s), s.Init())

	scr, _ = scr.Update(keyPress('c'))
	scr, _ = scr.Update(keyPress('b'))
	_ = scr

	if got := s.lists[0].ChosenKey; got != "C" {
		t.Errorf("ChosenKey = %q, want the first answer C", got)
	}
	if key, _ := s.controller.SelectedAnswer(1); key != "C" {
		t.Errorf("recorded selection = %q, want C", key)
	}
}

func TestSelectionSurvivesNavigation(t *testing.T) {
	s, _ := testScreen()
	scr := drive(screen.Screen(s), s.Init())

	scr, _ = scr.Update(keyPress('b'))
	scr, _ = scr.Update(specialKey(tea.KeyRight))
	scr, _ = scr.Update(specialKey(tea.KeyLeft))
	_ = scr

	if !s.lists[0].Locked() || s.lists[0].ChosenKey != "B" {
		t.Error("expected the locked answer to survive paging")
	}
}

func TestGenerateAppendsAndJumps(t *testing.T) {
	s, svc := testScreen()
	scr := drive(screen.Screen(s), s.Init())

	svc.generated = &api.MCQItem{
		ID: 3, Question: "Which structure backs a priority queue?",
		Topic: "Data Structures", Difficulty: api.DifficultyMedium,
		Options: sampleItems()[0].Options, CorrectAnswer: "C",
	}

	scr, cmd := scr.Update(keyPress('g'))
	if cmd == nil {
		t.Fatal("expected a generate command from G")
	}
	scr = drive(scr, cmd)

	if len(s.lists) != 3 {
		t.Fatalf("lists = %d, want 3 after generate", len(s.lists))
	}
	if s.cursor != 2 {
		t.Errorf("cursor = %d, want the appended item", s.cursor)
	}
	if !strings.Contains(scr.View(80, 24), "priority queue") {
		t.Error("expected the generated question in the view")
	}
}

func TestSessionInvalidationEmptiesBoard(t *testing.T) {
	session := auth.NewSession()
	session.Login("token")
	svc := &mockMCQService{items: sampleItems()}
	s := New(ctrl.New(svc, session, "sde"))
	scr := drive(screen.Screen(s), s.Init())

	scr, _ = scr.Update(specialKey(tea.KeyRight))
	session.Invalidate()

	// A render or keypress can land before the app resets to the login
	// screen; neither may index the stale widgets.
	view := scr.View(100, 40)
	if !strings.Contains(view, "No questions") {
		t.Error("expected the empty state after invalidation")
	}

	scr, cmd := scr.Update(keyPress('b'))
	_ = scr
	if cmd != nil {
		t.Error("expected no selection command on an empty board")
	}
	if len(s.lists) != 0 {
		t.Errorf("lists = %d, want 0 after invalidation", len(s.lists))
	}
}

func TestFilterChangeClearsSelections(t *testing.T) {
	s, _ := testScreen()
	scr := drive(screen.Screen(s), s.Init())

	scr, _ = scr.Update(keyPress('b'))

	// Cycle the topic filter, which reloads destructively.
	scr, cmd := scr.Update(keyPress('t'))
	if cmd == nil {
		t.Fatal("expected a reload command from T")
	}
	drive(scr, cmd)

	if s.lists[0].Locked() {
		t.Error("expected selections to clear on filter change")
	}
	if _, ok := s.controller.SelectedAnswer(1); ok {
		t.Error("expected the controller to forget selections on reload")
	}
}
