package mcq

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prepdeck/prepdeck/internal/api"
	"github.com/prepdeck/prepdeck/internal/auth"
)

func options(keys ...string) api.OptionList {
	var out api.OptionList
	for _, k := range keys {
		out = append(out, api.MCQOption{Key: k, Text: "option " + k})
	}
	return out
}

type stubMCQService struct {
	mu         sync.Mutex
	items      []api.MCQItem
	listErr    error
	listCalls  int
	lastTopic  string
	lastDiff   string
	generated  *api.MCQItem
	genErr     error
	genCalls   int
	genStarted chan struct{}
	genRelease chan struct{}
}

func (s *stubMCQService) ListMCQs(_ context.Context, role, topic, difficulty string) ([]api.MCQItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	s.lastTopic = topic
	s.lastDiff = difficulty
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]api.MCQItem, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *stubMCQService) GenerateMCQ(_ context.Context, req api.GenerateMCQRequest) (*api.MCQItem, error) {
	s.mu.Lock()
	s.genCalls++
	started := s.genStarted
	s.genStarted = nil
	release := s.genRelease
	s.mu.Unlock()

	if started != nil {
		close(started)
	}
	if release != nil {
		<-release
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.genErr != nil {
		return nil, s.genErr
	}
	return s.generated, nil
}

func threeItems() []api.MCQItem {
	return []api.MCQItem{
		{ID: 1, Topic: "Data Structures", Question: "q1", Options: options("A", "B", "C", "D"), CorrectAnswer: "A", Difficulty: "medium"},
		{ID: 2, Topic: "Data Structures", Question: "q2", Options: options("A", "B", "C", "D"), CorrectAnswer: "C", Difficulty: "medium"},
		{ID: 3, Topic: "Data Structures", Question: "q3", Options: options("A", "B", "C", "D"), CorrectAnswer: "B", Difficulty: "medium"},
	}
}

func TestApplyFiltersMapsAllToNoFilter(t *testing.T) {
	svc := &stubMCQService{}
	c := New(svc, nil, "sde")

	if err := c.ApplyFilters(context.Background(), TopicAll, DifficultyAll); err != nil {
		t.Fatalf("ApplyFilters: %v", err)
	}
	if svc.lastTopic != "" || svc.lastDiff != "" {
		t.Errorf("wire filters = %q/%q, want empty for all/all", svc.lastTopic, svc.lastDiff)
	}

	if err := c.ApplyFilters(context.Background(), "Data Structures", "medium"); err != nil {
		t.Fatalf("ApplyFilters: %v", err)
	}
	if svc.lastTopic != "Data Structures" || svc.lastDiff != "medium" {
		t.Errorf("wire filters = %q/%q", svc.lastTopic, svc.lastDiff)
	}
}

func TestApplyFiltersReplacesAndClearsSelections(t *testing.T) {
	svc := &stubMCQService{items: threeItems()}
	c := New(svc, nil, "sde")
	_ = c.Load(context.Background())

	if !c.SelectAnswer(1, "B") {
		t.Fatal("selection not recorded")
	}

	svc.mu.Lock()
	svc.items = threeItems()[:1]
	svc.mu.Unlock()

	if err := c.ApplyFilters(context.Background(), "Data Structures", "medium"); err != nil {
		t.Fatalf("ApplyFilters: %v", err)
	}

	snap := c.Snapshot()
	if len(snap.Items) != 1 {
		t.Fatalf("items = %d, want replaced collection of 1", len(snap.Items))
	}
	if len(snap.Selected) != 0 {
		t.Fatalf("selections survived a destructive reload: %v", snap.Selected)
	}
}

func TestSelectAnswerFirstWriteWins(t *testing.T) {
	svc := &stubMCQService{items: threeItems()}
	c := New(svc, nil, "sde")
	_ = c.Load(context.Background())

	if !c.SelectAnswer(2, "D") {
		t.Fatal("first selection rejected")
	}
	if c.SelectAnswer(2, "C") {
		t.Fatal("second selection on the same item must be a no-op")
	}

	key, ok := c.SelectedAnswer(2)
	if !ok || key != "D" {
		t.Fatalf("SelectedAnswer = %q, %v; want D (first write)", key, ok)
	}
}

func TestSelectAnswerUnknownOptionOrItem(t *testing.T) {
	svc := &stubMCQService{items: threeItems()}
	c := New(svc, nil, "sde")
	_ = c.Load(context.Background())

	if c.SelectAnswer(1, "Z") {
		t.Error("unknown option key must not be recorded")
	}
	if c.SelectAnswer(99, "A") {
		t.Error("unknown item must not be recorded")
	}
}

func TestGenerateAppends(t *testing.T) {
	svc := &stubMCQService{
		items: threeItems(),
		generated: &api.MCQItem{
			ID: 4, Topic: "Data Structures", Question: "q4",
			Options: options("A", "B", "C", "D"), CorrectAnswer: "D", Difficulty: "medium",
		},
	}
	c := New(svc, nil, "sde")
	_ = c.ApplyFilters(context.Background(), "Data Structures", "medium")

	if err := c.Generate(context.Background()); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	snap := c.Snapshot()
	if len(snap.Items) != 4 {
		t.Fatalf("items = %d, want 4", len(snap.Items))
	}
	for i, wantID := range []int64{1, 2, 3, 4} {
		if snap.Items[i].ID != wantID {
			t.Errorf("items[%d].ID = %d, want %d (append preserves order)", i, snap.Items[i].ID, wantID)
		}
	}
	if snap.Items[3].Difficulty != "medium" {
		t.Errorf("generated difficulty = %q, want medium", snap.Items[3].Difficulty)
	}
}

func TestGenerateSerializedByBusyFlag(t *testing.T) {
	svc := &stubMCQService{
		generated:  &api.MCQItem{ID: 10, Options: options("A", "B")},
		genStarted: make(chan struct{}),
		genRelease: make(chan struct{}),
	}
	c := New(svc, nil, "sde")

	done := make(chan error, 1)
	go func() { done <- c.Generate(context.Background()) }()
	<-svc.genStarted

	if err := c.Generate(context.Background()); !errors.Is(err, api.ErrAlreadyInProgress) {
		t.Fatalf("second Generate err = %v, want ErrAlreadyInProgress", err)
	}

	close(svc.genRelease)
	if err := <-done; err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	if svc.genCalls != 1 {
		t.Fatalf("GenerateMCQ called %d times, want 1", svc.genCalls)
	}
}

func TestGenerateDiscardedAfterFilterChange(t *testing.T) {
	svc := &stubMCQService{
		generated:  &api.MCQItem{ID: 10, Options: options("A", "B")},
		genStarted: make(chan struct{}),
		genRelease: make(chan struct{}),
	}
	c := New(svc, nil, "sde")

	done := make(chan error, 1)
	go func() { done <- c.Generate(context.Background()) }()
	<-svc.genStarted

	// Filter change supersedes the in-flight generation.
	if err := c.ApplyFilters(context.Background(), "OOP", DifficultyAll); err != nil {
		t.Fatalf("ApplyFilters: %v", err)
	}

	close(svc.genRelease)
	if err := <-done; err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for _, item := range c.Snapshot().Items {
		if item.ID == 10 {
			t.Fatal("stale generated item applied after filter change")
		}
	}
}

// stubTopicService adds the optional topics + check surface.
type stubTopicService struct {
	stubMCQService
	topics     []string
	topicsErr  error
	checkCalls []string
}

func (s *stubTopicService) MCQTopics(_ context.Context, _ string) ([]string, error) {
	if s.topicsErr != nil {
		return nil, s.topicsErr
	}
	return s.topics, nil
}

func (s *stubTopicService) CheckMCQ(_ context.Context, mcqID int64, answer string) (*api.MCQCheckResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkCalls = append(s.checkCalls, answer)
	return &api.MCQCheckResult{Correct: true}, nil
}

func TestLoadRefreshesServerTopics(t *testing.T) {
	svc := &stubTopicService{
		stubMCQService: stubMCQService{items: threeItems()},
		topics:         []string{"Concurrency", "Networking"},
	}
	c := New(svc, nil, "sde")
	_ = c.Load(context.Background())

	got := c.Snapshot().Topics
	want := []string{TopicAll, "Concurrency", "Networking"}
	if len(got) != len(want) {
		t.Fatalf("topics = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("topics = %v, want %v", got, want)
		}
	}
}

func TestLoadKeepsDefaultTopicsOnError(t *testing.T) {
	svc := &stubTopicService{
		stubMCQService: stubMCQService{items: threeItems()},
		topicsErr:      errors.New("boom"),
	}
	c := New(svc, nil, "sde")
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load must not fail on a topics error: %v", err)
	}
	if got := c.Snapshot().Topics; len(got) != len(DefaultTopics) {
		t.Fatalf("topics = %v, want the default set", got)
	}
}

func TestReportSelection(t *testing.T) {
	svc := &stubTopicService{stubMCQService: stubMCQService{items: threeItems()}}
	c := New(svc, nil, "sde")
	_ = c.Load(context.Background())

	// Unanswered item: nothing to report.
	c.ReportSelection(context.Background(), 1)
	if len(svc.checkCalls) != 0 {
		t.Fatalf("check calls = %v, want none before an answer", svc.checkCalls)
	}

	c.SelectAnswer(1, "B")
	c.ReportSelection(context.Background(), 1)
	if len(svc.checkCalls) != 1 || svc.checkCalls[0] != "B" {
		t.Fatalf("check calls = %v, want [B]", svc.checkCalls)
	}
}

func TestSessionInvalidResetsCollection(t *testing.T) {
	session := auth.NewSession()
	session.Login("tok")

	svc := &stubMCQService{items: threeItems()}
	c := New(svc, session, "sde")
	_ = c.Load(context.Background())
	c.SelectAnswer(1, "A")

	session.Invalidate()

	snap := c.Snapshot()
	if len(snap.Items) != 0 || len(snap.Selected) != 0 {
		t.Fatalf("state survived session invalidation: %d items, %d selections",
			len(snap.Items), len(snap.Selected))
	}
}
