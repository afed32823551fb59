package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/prepdeck/prepdeck/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with Prepdeck styling.
type TextInput struct {
	Model textinput.Model
}

// NewTextInput creates a styled text input.
func NewTextInput(placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	return TextInput{Model: ti}
}

// NewPassword creates a masked text input for secrets.
func NewPassword(placeholder string) TextInput {
	t := NewTextInput(placeholder, 128)
	t.Model.EchoMode = textinput.EchoPassword
	t.Model.EchoCharacter = '•'
	return t
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input, with a dim prompt when unfocused.
func (t TextInput) View() string {
	if !t.Model.Focused() {
		return theme.Hint.Render("  ") + t.Model.View()
	}
	return theme.Selected.Render("▸ ") + t.Model.View()
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// Focus gives the input keyboard focus.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes keyboard focus.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Reset clears the input value.
func (t *TextInput) Reset() {
	t.Model.SetValue("")
}
