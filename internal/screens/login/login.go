// Package login implements the sign-in and sign-up screen.
package login

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/prepdeck/prepdeck/internal/api"
	"github.com/prepdeck/prepdeck/internal/auth"
	"github.com/prepdeck/prepdeck/internal/screen"
	"github.com/prepdeck/prepdeck/internal/store"
	"github.com/prepdeck/prepdeck/internal/ui/components"
	"github.com/prepdeck/prepdeck/internal/ui/layout"
	"github.com/prepdeck/prepdeck/internal/ui/theme"
)

// field indexes within the form.
const (
	fieldName = iota
	fieldEmail
	fieldPassword
)

// LoginScreen implements screen.Screen for authentication.
type LoginScreen struct {
	gateway *api.Client
	session *auth.Session
	tokens  *store.Store // nil disables token persistence

	signup   bool // true when showing the sign-up form
	focused  int
	name     components.TextInput
	email    components.TextInput
	password components.TextInput
	busy     bool
	errMsg   string
	notice   string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates a LoginScreen. tokens may be nil.
func New(gateway *api.Client, session *auth.Session, tokens *store.Store) *LoginScreen {
	s := &LoginScreen{
		gateway:  gateway,
		session:  session,
		tokens:   tokens,
		focused:  fieldEmail,
		name:     components.NewTextInput("Your name", 80),
		email:    components.NewTextInput("you@example.com", 120),
		password: components.NewPassword("Password"),
	}
	s.name.Blur()
	s.password.Blur()
	return s
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.email.Focus()
}

func (s *LoginScreen) Title() string {
	if s.signup {
		return "Create account"
	}
	return "Sign in"
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Ctrl+S", Description: "Toggle sign-up"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		return s.handleLoginDone(msg)
	case signupDoneMsg:
		return s.handleSignupDone(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s.forwardToFocused(msg)
}

func (s *LoginScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.busy {
		return s, nil
	}

	switch msg.String() {
	case "tab", "down":
		s.moveFocus(1)
		return s, nil
	case "shift+tab", "up":
		s.moveFocus(-1)
		return s, nil
	case "ctrl+s":
		s.signup = !s.signup
		s.errMsg = ""
		s.notice = ""
		if !s.signup && s.focused == fieldName {
			s.setFocus(fieldEmail)
		}
		return s, nil
	case "enter":
		return s.submit()
	}

	return s.forwardToFocused(msg)
}

func (s *LoginScreen) forwardToFocused(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch s.focused {
	case fieldName:
		s.name, cmd = s.name.Update(msg)
	case fieldEmail:
		s.email, cmd = s.email.Update(msg)
	case fieldPassword:
		s.password, cmd = s.password.Update(msg)
	}
	return s, cmd
}

func (s *LoginScreen) moveFocus(delta int) {
	first := fieldEmail
	if s.signup {
		first = fieldName
	}
	next := s.focused + delta
	if next < first {
		next = fieldPassword
	}
	if next > fieldPassword {
		next = first
	}
	s.setFocus(next)
}

func (s *LoginScreen) setFocus(field int) {
	s.focused = field
	s.name.Blur()
	s.email.Blur()
	s.password.Blur()
	switch field {
	case fieldName:
		s.name.Focus()
	case fieldEmail:
		s.email.Focus()
	case fieldPassword:
		s.password.Focus()
	}
}

func (s *LoginScreen) submit() (screen.Screen, tea.Cmd) {
	email := strings.TrimSpace(s.email.Value())
	password := s.password.Value()
	if email == "" || password == "" {
		s.errMsg = "Email and password are required"
		return s, nil
	}

	if s.signup {
		name := strings.TrimSpace(s.name.Value())
		if name == "" {
			s.errMsg = "Name is required"
			return s, nil
		}
		s.busy = true
		s.errMsg = ""
		return s, func() tea.Msg {
			return signupDoneMsg{Err: s.gateway.Signup(context.Background(), name, email, password)}
		}
	}

	s.busy = true
	s.errMsg = ""
	return s, func() tea.Msg {
		res, err := s.gateway.Login(context.Background(), email, password)
		return loginDoneMsg{Result: res, Err: err}
	}
}

func (s *LoginScreen) handleLoginDone(msg loginDoneMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	if msg.Err != nil {
		s.errMsg = api.UserMessage(msg.Err)
		return s, nil
	}

	s.session.Login(msg.Result.Token)
	if s.tokens != nil {
		_ = s.tokens.SaveToken(context.Background(), msg.Result.Token)
	}

	name := msg.Result.User.Name
	return s, func() tea.Msg { return SuccessMsg{Name: name} }
}

func (s *LoginScreen) handleSignupDone(msg signupDoneMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	if msg.Err != nil {
		s.errMsg = api.UserMessage(msg.Err)
		return s, nil
	}

	// Account created; drop back to the sign-in form with the email kept.
	s.signup = false
	s.notice = "Account created, sign in to continue"
	s.password.Reset()
	s.setFocus(fieldPassword)
	return s, nil
}

func (s *LoginScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Render("Prepdeck") + "\n")
	b.WriteString(theme.Subtitle.Render("Interview preparation from your terminal") + "\n\n")

	if s.signup {
		b.WriteString(theme.Label.Render("Name") + "\n")
		b.WriteString(s.name.View() + "\n\n")
	}
	b.WriteString(theme.Label.Render("Email") + "\n")
	b.WriteString(s.email.View() + "\n\n")
	b.WriteString(theme.Label.Render("Password") + "\n")
	b.WriteString(s.password.View() + "\n\n")

	switch {
	case s.busy:
		b.WriteString(theme.Hint.Render("Signing in...") + "\n")
	case s.errMsg != "":
		b.WriteString(theme.ErrText.Render(s.errMsg) + "\n")
	case s.notice != "":
		b.WriteString(theme.Notice.Render(s.notice) + "\n")
	}

	card := theme.Card.Width(50).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
