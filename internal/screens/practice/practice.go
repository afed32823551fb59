// Package practice implements the free-text question/answer screen.
package practice

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	ctrl "github.com/prepdeck/prepdeck/internal/practice"
	"github.com/prepdeck/prepdeck/internal/screen"
	"github.com/prepdeck/prepdeck/internal/ui/layout"
	"github.com/prepdeck/prepdeck/internal/ui/theme"
)

// PracticeScreen drives one question/answer/feedback cycle at a time.
type PracticeScreen struct {
	controller *ctrl.Controller
	answer     textarea.Model
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)

// New creates a PracticeScreen around an existing controller.
func New(controller *ctrl.Controller) *PracticeScreen {
	ta := textarea.New()
	ta.Placeholder = "Write your answer..."
	ta.SetHeight(8)
	ta.CharLimit = 4000
	return &PracticeScreen{controller: controller, answer: ta}
}

func (s *PracticeScreen) Init() tea.Cmd {
	return s.fetchQuestion()
}

func (s *PracticeScreen) Title() string {
	return "Practice"
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	switch s.controller.Snapshot().State {
	case ctrl.StateReady:
		return []layout.KeyHint{
			{Key: "Ctrl+S", Description: "Submit answer"},
			{Key: "Esc", Description: "Back"},
		}
	case ctrl.StateReviewing:
		return []layout.KeyHint{
			{Key: "N", Description: "Next question"},
			{Key: "Esc", Description: "Back"},
		}
	case ctrl.StateErrored:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionDoneMsg:
		if s.controller.Snapshot().State == ctrl.StateReady {
			s.answer.Reset()
			return s, s.answer.Focus()
		}
		return s, nil

	case evaluateDoneMsg:
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s.forwardToAnswer(msg)
}

func (s *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	snap := s.controller.Snapshot()

	switch msg.String() {
	case "ctrl+s":
		if snap.State == ctrl.StateReady {
			s.controller.SetAnswer(s.answer.Value())
			return s, s.submitAnswer()
		}
		return s, nil
	case "n", "N":
		if snap.State == ctrl.StateReviewing {
			return s, s.nextQuestion()
		}
	case "r", "R":
		if snap.State == ctrl.StateErrored {
			return s, s.nextQuestion()
		}
	}

	return s.forwardToAnswer(msg)
}

func (s *PracticeScreen) forwardToAnswer(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.controller.Snapshot().State != ctrl.StateReady {
		return s, nil
	}
	var cmd tea.Cmd
	s.answer, cmd = s.answer.Update(msg)
	return s, cmd
}

func (s *PracticeScreen) fetchQuestion() tea.Cmd {
	return func() tea.Msg {
		return questionDoneMsg{Err: s.controller.Start(context.Background())}
	}
}

func (s *PracticeScreen) submitAnswer() tea.Cmd {
	return func() tea.Msg {
		return evaluateDoneMsg{Err: s.controller.Submit(context.Background())}
	}
}

func (s *PracticeScreen) nextQuestion() tea.Cmd {
	return func() tea.Msg {
		return questionDoneMsg{Err: s.controller.Next(context.Background())}
	}
}

func (s *PracticeScreen) View(width, height int) string {
	snap := s.controller.Snapshot()

	var b strings.Builder

	switch snap.State {
	case ctrl.StateIdle, ctrl.StateLoading:
		b.WriteString(theme.Hint.Render("Fetching your next question..."))

	case ctrl.StateErrored:
		b.WriteString(theme.ErrText.Render(snap.ErrMsg))

	case ctrl.StateReady, ctrl.StateSubmitting:
		b.WriteString(renderQuestion(snap, width))
		b.WriteString("\n\n")
		b.WriteString(s.answer.View())
		b.WriteString("\n")
		if snap.State == ctrl.StateSubmitting {
			b.WriteString("\n" + theme.Hint.Render("Evaluating your answer..."))
		} else if snap.ErrMsg != "" {
			b.WriteString("\n" + theme.ErrText.Render(snap.ErrMsg))
		}

	case ctrl.StateReviewing:
		b.WriteString(renderQuestion(snap, width))
		b.WriteString("\n\n")
		b.WriteString(theme.Label.Render("Your answer") + "\n")
		b.WriteString(theme.Body.Render(snap.Answer) + "\n\n")
		b.WriteString(renderFeedback(snap, width))
	}

	content := lipgloss.NewStyle().Padding(1, 2).Width(width).Render(b.String())
	return content
}

func renderQuestion(snap ctrl.Snapshot, width int) string {
	if snap.Question == nil {
		return ""
	}
	q := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
		Width(width - 8).Render(snap.Question.Text)
	return theme.Label.Render("Question") + "\n" + q
}

func renderFeedback(snap ctrl.Snapshot, width int) string {
	if snap.Feedback == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(theme.Label.Render("Feedback"))
	if snap.Feedback.Score != nil {
		score := *snap.Feedback.Score
		style := theme.Incorrect
		if score >= 7 {
			style = theme.Correct
		} else if score >= 4 {
			style = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
		}
		b.WriteString("  " + style.Render(fmt.Sprintf("%.0f/10", score)))
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Width(width - 8).Render(snap.Feedback.Text))
	return b.String()
}
