package mcq

import (
	"context"
	"sync"

	"github.com/prepdeck/prepdeck/internal/api"
	"github.com/prepdeck/prepdeck/internal/auth"
)

// TopicAll and DifficultyAll disable the respective filter.
const (
	TopicAll      = "all"
	DifficultyAll = "all"
)

// DefaultTopics is the fixed topic set offered before the service has
// reported role-specific topics.
var DefaultTopics = []string{
	TopicAll,
	"Data Structures",
	"OOP",
	"System Design",
	"Web Development",
	"Databases",
	"Clean Code",
}

// Difficulties is the fixed difficulty filter set.
var Difficulties = []string{
	DifficultyAll,
	api.DifficultyEasy,
	api.DifficultyMedium,
	api.DifficultyHard,
}

// Filters narrows the MCQ collection.
type Filters struct {
	Topic      string
	Difficulty string
}

// query returns the wire values, mapping "all" to no filter.
func (f Filters) query() (topic, difficulty string) {
	if f.Topic != TopicAll {
		topic = f.Topic
	}
	if f.Difficulty != DifficultyAll {
		difficulty = f.Difficulty
	}
	return topic, difficulty
}

// MCQService is the slice of the gateway the MCQ session needs.
// Implemented by *api.Client and by the offline coach.
type MCQService interface {
	ListMCQs(ctx context.Context, role, topic, difficulty string) ([]api.MCQItem, error)
	GenerateMCQ(ctx context.Context, req api.GenerateMCQRequest) (*api.MCQItem, error)
}

// TopicLister is implemented by services that can report role-specific
// topics. When absent, the fixed DefaultTopics set is used.
type TopicLister interface {
	MCQTopics(ctx context.Context, role string) ([]string, error)
}

// AnswerChecker is implemented by services that record selections
// remotely. Verdicts stay local either way; the check call is
// best-effort bookkeeping.
type AnswerChecker interface {
	CheckMCQ(ctx context.Context, mcqID int64, answer string) (*api.MCQCheckResult, error)
}

// Controller manages a filtered, appendable MCQ collection with
// per-item first-answer-wins locking and serialized on-demand
// generation.
type Controller struct {
	service MCQService
	role    string

	mu       sync.Mutex
	filters  Filters
	topics   []string
	items    []api.MCQItem
	selected map[int64]string
	loading  bool
	busy     bool // generation reentrancy guard
	errMsg   string

	// version tokens stale fetches: a filter change while a list fetch
	// is in flight supersedes it, and the superseded result is discarded.
	version int
}

// Snapshot is an immutable copy for rendering.
type Snapshot struct {
	Filters    Filters
	Topics     []string
	Items      []api.MCQItem
	Selected   map[int64]string
	Loading    bool
	Generating bool
	ErrMsg     string
}

// New creates a Controller for role with both filters set to "all".
// MCQ state resets whenever the session becomes unauthenticated.
func New(service MCQService, session *auth.Session, role string) *Controller {
	c := &Controller{
		service:  service,
		role:     role,
		filters:  Filters{Topic: TopicAll, Difficulty: DifficultyAll},
		topics:   DefaultTopics,
		selected: make(map[int64]string),
	}
	if session != nil {
		session.Subscribe(func(authenticated bool) {
			if !authenticated {
				c.reset()
			}
		})
	}
	return c
}

func (c *Controller) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version++
	c.items = nil
	c.selected = make(map[int64]string)
	c.loading = false
	c.busy = false
	c.errMsg = ""
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]api.MCQItem, len(c.items))
	copy(items, c.items)
	selected := make(map[int64]string, len(c.selected))
	for k, v := range c.selected {
		selected[k] = v
	}

	return Snapshot{
		Filters:    c.filters,
		Topics:     c.topics,
		Items:      items,
		Selected:   selected,
		Loading:    c.loading,
		Generating: c.busy,
		ErrMsg:     c.errMsg,
	}
}

// Load fetches the collection for the current filters, replacing any
// previous items. Called on first entry and on role change. Services
// that report role-specific topics refresh the filter set as a side
// effect; a topics failure never fails the load.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	filters := c.filters
	role := c.role
	c.mu.Unlock()

	if lister, ok := c.service.(TopicLister); ok {
		if topics, err := lister.MCQTopics(ctx, role); err == nil && len(topics) > 0 {
			c.mu.Lock()
			c.topics = append([]string{TopicAll}, topics...)
			c.mu.Unlock()
		}
	}

	return c.refetch(ctx, filters)
}

// ApplyFilters sets new filters and triggers a destructive reload: the
// collection is replaced (never appended to) and every recorded
// selection is cleared.
func (c *Controller) ApplyFilters(ctx context.Context, topic, difficulty string) error {
	return c.refetch(ctx, Filters{Topic: topic, Difficulty: difficulty})
}

func (c *Controller) refetch(ctx context.Context, filters Filters) error {
	c.mu.Lock()
	c.version++
	v := c.version
	c.filters = filters
	c.loading = true
	c.errMsg = ""
	role := c.role
	c.mu.Unlock()

	topic, difficulty := filters.query()
	items, err := c.service.ListMCQs(ctx, role, topic, difficulty)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.version != v {
		return nil
	}
	c.loading = false
	if err != nil {
		c.errMsg = api.UserMessage(err)
		return err
	}
	c.items = items
	c.selected = make(map[int64]string)
	return nil
}

// SelectAnswer records the selection for an item. First answer wins:
// once an item has a selection it is immutable for the session, and its
// presence is what reveals the explanation. Returns true if the
// selection was recorded.
func (c *Controller) SelectAnswer(itemID int64, optionKey string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, answered := c.selected[itemID]; answered {
		return false
	}
	item := c.find(itemID)
	if item == nil {
		return false
	}
	if _, ok := item.Options.Text(optionKey); !ok {
		return false
	}
	c.selected[itemID] = optionKey
	return true
}

// ReportSelection tells the service about a recorded selection so it
// lands in the activity feed. Best effort: services without a check
// endpoint (the offline coach) and network failures are both silent.
func (c *Controller) ReportSelection(ctx context.Context, itemID int64) {
	checker, ok := c.service.(AnswerChecker)
	if !ok {
		return
	}

	c.mu.Lock()
	key, answered := c.selected[itemID]
	c.mu.Unlock()
	if !answered {
		return
	}

	_, _ = checker.CheckMCQ(ctx, itemID, key)
}

// SelectedAnswer returns the recorded selection for an item, if any.
func (c *Controller) SelectedAnswer(itemID int64) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key, ok := c.selected[itemID]
	return key, ok
}

// Generate requests one new item scoped by the current filters and
// appends it to the collection. Concurrent calls are serialized by a
// busy flag: a second call while one is pending fails locally with
// ErrAlreadyInProgress and never reaches the network.
func (c *Controller) Generate(ctx context.Context) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return api.ErrAlreadyInProgress
	}
	c.busy = true
	v := c.version
	filters := c.filters
	role := c.role
	c.errMsg = ""
	c.mu.Unlock()

	topic, difficulty := filters.query()
	item, err := c.service.GenerateMCQ(ctx, api.GenerateMCQRequest{
		Role:       role,
		Topic:      topic,
		Difficulty: difficulty,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	if c.version != v {
		// Filters changed while generating; the new item no longer
		// belongs to the visible collection.
		return nil
	}
	if err != nil {
		c.errMsg = api.UserMessage(err)
		return err
	}
	c.items = append(c.items, *item)
	return nil
}

func (c *Controller) find(itemID int64) *api.MCQItem {
	for i := range c.items {
		if c.items[i].ID == itemID {
			return &c.items[i]
		}
	}
	return nil
}
