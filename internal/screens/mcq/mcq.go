// Package mcq implements the multiple-choice drill screen.
package mcq

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	ctrl "github.com/prepdeck/prepdeck/internal/mcq"
	"github.com/prepdeck/prepdeck/internal/screen"
	"github.com/prepdeck/prepdeck/internal/ui/components"
	"github.com/prepdeck/prepdeck/internal/ui/layout"
	"github.com/prepdeck/prepdeck/internal/ui/theme"
)

// MCQScreen pages through the filtered collection one item at a time.
type MCQScreen struct {
	controller *ctrl.Controller

	lists  []components.OptionList
	cursor int

	topicIdx int
	diffIdx  int
}

var _ screen.Screen = (*MCQScreen)(nil)
var _ screen.KeyHintProvider = (*MCQScreen)(nil)

// New creates an MCQScreen around an existing controller.
func New(controller *ctrl.Controller) *MCQScreen {
	return &MCQScreen{controller: controller}
}

func (s *MCQScreen) Init() tea.Cmd {
	return s.load()
}

func (s *MCQScreen) Title() string {
	return "MCQ drills"
}

func (s *MCQScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Question"},
		{Key: "↑↓/Enter", Description: "Answer"},
		{Key: "T/S", Description: "Filters"},
		{Key: "G", Description: "Generate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *MCQScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case listDoneMsg:
		s.rebuild()
		s.cursor = 0
		return s, nil

	case generateDoneMsg:
		s.rebuild()
		// Jump to the appended item so the user sees what they asked for.
		if n := len(s.lists); n > 0 {
			s.cursor = n - 1
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *MCQScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		if s.cursor > 0 {
			s.cursor--
		}
		return s, nil
	case "right", "l":
		if s.cursor < len(s.lists)-1 {
			s.cursor++
		}
		return s, nil
	case "t", "T":
		s.topicIdx = (s.topicIdx + 1) % len(s.controller.Snapshot().Topics)
		return s, s.applyFilters()
	case "s", "S":
		s.diffIdx = (s.diffIdx + 1) % len(ctrl.Difficulties)
		return s, s.applyFilters()
	case "g", "G":
		return s, s.generate()
	}

	// Everything else drives the current item's option list.
	snap := s.controller.Snapshot()
	if len(s.lists) != len(snap.Items) {
		s.rebuildFrom(snap)
	}
	if len(s.lists) == 0 || s.cursor >= len(s.lists) {
		return s, nil
	}
	list, _ := s.lists[s.cursor].Update(msg)
	if list.Locked() && !s.lists[s.cursor].Locked() {
		item := snap.Items[s.cursor]
		if !s.controller.SelectAnswer(item.ID, list.ChosenKey) {
			return s, nil
		}
		s.lists[s.cursor] = list
		return s, s.reportSelection(item.ID)
	}
	s.lists[s.cursor] = list
	return s, nil
}

func (s *MCQScreen) load() tea.Cmd {
	return func() tea.Msg {
		return listDoneMsg{Err: s.controller.Load(context.Background())}
	}
}

func (s *MCQScreen) applyFilters() tea.Cmd {
	topics := s.controller.Snapshot().Topics
	if s.topicIdx >= len(topics) {
		s.topicIdx = 0
	}
	topic := topics[s.topicIdx]
	difficulty := ctrl.Difficulties[s.diffIdx]
	return func() tea.Msg {
		return listDoneMsg{Err: s.controller.ApplyFilters(context.Background(), topic, difficulty)}
	}
}

// reportSelection records the answer with the service off the Update
// loop. The local verdict is already on screen; nothing to render.
func (s *MCQScreen) reportSelection(itemID int64) tea.Cmd {
	return func() tea.Msg {
		s.controller.ReportSelection(context.Background(), itemID)
		return nil
	}
}

func (s *MCQScreen) generate() tea.Cmd {
	return func() tea.Msg {
		return generateDoneMsg{Err: s.controller.Generate(context.Background())}
	}
}

// rebuild syncs the option list widgets with the controller snapshot,
// restoring recorded selections so answered items stay locked.
func (s *MCQScreen) rebuild() {
	s.rebuildFrom(s.controller.Snapshot())
}

func (s *MCQScreen) rebuildFrom(snap ctrl.Snapshot) {
	s.lists = make([]components.OptionList, len(snap.Items))
	for i, item := range snap.Items {
		list := components.NewOptionList(item)
		if key, ok := snap.Selected[item.ID]; ok {
			list.ChosenKey = key
		}
		s.lists[i] = list
	}
	switch {
	case len(s.lists) == 0:
		s.cursor = 0
	case s.cursor >= len(s.lists):
		s.cursor = len(s.lists) - 1
	}
}

func (s *MCQScreen) View(width, height int) string {
	snap := s.controller.Snapshot()

	// The controller can empty the collection between messages, e.g. a
	// session invalidation observed mid-frame. Re-derive the widgets
	// before indexing.
	if len(s.lists) != len(snap.Items) {
		s.rebuildFrom(snap)
	}

	var b strings.Builder
	b.WriteString(s.renderFilters(snap))
	b.WriteString("\n\n")

	switch {
	case snap.Loading:
		b.WriteString(theme.Hint.Render("Loading questions..."))
	case len(s.lists) == 0:
		if snap.ErrMsg != "" {
			b.WriteString(theme.ErrText.Render(snap.ErrMsg))
		} else {
			b.WriteString(theme.Hint.Render("No questions for these filters. Press G to generate one."))
		}
	default:
		item := snap.Items[s.cursor]
		list := s.lists[s.cursor]

		b.WriteString(theme.Label.Render(fmt.Sprintf("Question %d of %d", s.cursor+1, len(s.lists))))
		b.WriteString(theme.Hint.Render(fmt.Sprintf("   %s · %s", item.Topic, item.Difficulty)))
		b.WriteString("\n\n")
		b.WriteString(list.View())

		if list.Locked() {
			b.WriteString("\n")
			if list.IsCorrect() {
				b.WriteString(theme.Correct.Render("Correct!") + "\n")
			} else {
				b.WriteString(theme.Incorrect.Render("Not quite.") + "\n")
			}
			if item.Explanation != "" {
				b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
					Width(width - 8).Render(item.Explanation) + "\n")
			}
		}

		if snap.Generating {
			b.WriteString("\n" + theme.Hint.Render("Generating a new question..."))
		} else if snap.ErrMsg != "" {
			b.WriteString("\n" + theme.ErrText.Render(snap.ErrMsg))
		}
	}

	return lipgloss.NewStyle().Padding(1, 2).Width(width).Render(b.String())
}

func (s *MCQScreen) renderFilters(snap ctrl.Snapshot) string {
	return theme.Label.Render("Topic: ") + theme.Body.Render(snap.Filters.Topic) +
		theme.Label.Render("   Difficulty: ") + theme.Body.Render(snap.Filters.Difficulty)
}
