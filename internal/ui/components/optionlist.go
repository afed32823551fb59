package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/prepdeck/prepdeck/internal/api"
	"github.com/prepdeck/prepdeck/internal/ui/theme"
)

// OptionList renders one multiple-choice question's options in their
// served order. Once an answer is locked in, further input is ignored
// and the list shows the verdict.
type OptionList struct {
	Question string
	Options  api.OptionList
	Correct  string // key of the correct option

	Cursor    int
	ChosenKey string // "" until the first answer is locked in
}

// NewOptionList creates a list for one MCQ item.
func NewOptionList(item api.MCQItem) OptionList {
	return OptionList{
		Question: item.Question,
		Options:  item.Options,
		Correct:  item.CorrectAnswer,
	}
}

// Locked reports whether an answer has been recorded.
func (o OptionList) Locked() bool {
	return o.ChosenKey != ""
}

// IsCorrect reports whether the locked answer is the correct one.
func (o OptionList) IsCorrect() bool {
	return o.Locked() && o.ChosenKey == o.Correct
}

// Update handles keyboard navigation and answer lock-in.
func (o OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	if o.Locked() {
		return o, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if o.Cursor > 0 {
			o.Cursor--
		}
	case "down", "j":
		if o.Cursor < len(o.Options)-1 {
			o.Cursor++
		}
	case "enter":
		if o.Cursor >= 0 && o.Cursor < len(o.Options) {
			o.ChosenKey = o.Options[o.Cursor].Key
		}
	default:
		// Option keys lock in directly: a/A selects option A.
		for i, opt := range o.Options {
			if len(key) == 1 && (key == opt.Key || key == lower(opt.Key)) {
				o.Cursor = i
				o.ChosenKey = opt.Key
				break
			}
		}
	}

	return o, nil
}

// View renders the question and its options.
func (o OptionList) View() string {
	s := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(o.Question) + "\n\n"

	for i, opt := range o.Options {
		prefix := "  "
		if i == o.Cursor && !o.Locked() {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, opt.Key, opt.Text)

		switch {
		case o.Locked() && opt.Key == o.Correct:
			s += theme.Correct.Render(line) + "\n"
		case o.Locked() && opt.Key == o.ChosenKey:
			s += theme.Incorrect.Render(line) + "\n"
		case o.Locked():
			s += theme.Hint.Render(line) + "\n"
		case i == o.Cursor:
			s += theme.Selected.Render(line) + "\n"
		default:
			s += theme.Unselected.Render(line) + "\n"
		}
	}

	return s
}

func lower(key string) string {
	if len(key) == 1 && key[0] >= 'A' && key[0] <= 'Z' {
		return string(key[0] + 32)
	}
	return key
}
