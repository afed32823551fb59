// Package menu implements the main navigation menu.
package menu

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/prepdeck/prepdeck/internal/api"
	"github.com/prepdeck/prepdeck/internal/auth"
	aggpkg "github.com/prepdeck/prepdeck/internal/dashboard"
	mcqctrl "github.com/prepdeck/prepdeck/internal/mcq"
	practicectrl "github.com/prepdeck/prepdeck/internal/practice"
	"github.com/prepdeck/prepdeck/internal/router"
	"github.com/prepdeck/prepdeck/internal/screen"
	dashscreen "github.com/prepdeck/prepdeck/internal/screens/dashboard"
	mcqscreen "github.com/prepdeck/prepdeck/internal/screens/mcq"
	practicescreen "github.com/prepdeck/prepdeck/internal/screens/practice"
	roadmapscreen "github.com/prepdeck/prepdeck/internal/screens/roadmap"
	"github.com/prepdeck/prepdeck/internal/store"
	"github.com/prepdeck/prepdeck/internal/ui/components"
	"github.com/prepdeck/prepdeck/internal/ui/layout"
	"github.com/prepdeck/prepdeck/internal/ui/theme"
)

// Deps carries everything the menu needs to construct child screens.
type Deps struct {
	Session    *auth.Session
	Gateway    *api.Client
	Practice   *practicectrl.Controller
	MCQ        *mcqctrl.Controller
	Aggregator *aggpkg.Aggregator
	Tokens     *store.Store
	Role       string
	Offline    bool
}

// MenuScreen is the hub the user lands on after signing in.
type MenuScreen struct {
	deps Deps
	menu components.Menu
}

var _ screen.Screen = (*MenuScreen)(nil)
var _ screen.KeyHintProvider = (*MenuScreen)(nil)

// New creates the main menu. Server-backed entries are disabled in
// offline coach mode.
func New(deps Deps) *MenuScreen {
	s := &MenuScreen{deps: deps}

	offlineHint := ""
	if deps.Offline {
		offlineHint = "needs an account"
	}

	s.menu = components.NewMenu([]components.MenuItem{
		{
			Label:  "Practice interview questions",
			Hint:   "free-form answers with feedback",
			Action: s.openPractice,
		},
		{
			Label:  "MCQ drills",
			Hint:   "quick multiple-choice rounds",
			Action: s.openMCQ,
		},
		{
			Label:    "Dashboard",
			Hint:     orElse(offlineHint, "stats, activity, profile"),
			Action:   s.openDashboard,
			Disabled: deps.Offline,
		},
		{
			Label:    "Roadmap",
			Hint:     orElse(offlineHint, "what to study for "+deps.Role),
			Action:   s.openRoadmap,
			Disabled: deps.Offline,
		},
		{
			Label:    "Sign out",
			Action:   s.logout,
			Disabled: deps.Offline,
		},
	})
	return s
}

func (s *MenuScreen) Init() tea.Cmd {
	return nil
}

func (s *MenuScreen) Title() string {
	return "Prepdeck"
}

func (s *MenuScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
	}
}

func (s *MenuScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *MenuScreen) openPractice() tea.Cmd {
	return router.Push(practicescreen.New(s.deps.Practice))
}

func (s *MenuScreen) openMCQ() tea.Cmd {
	return router.Push(mcqscreen.New(s.deps.MCQ))
}

func (s *MenuScreen) openDashboard() tea.Cmd {
	return router.Push(dashscreen.New(s.deps.Aggregator))
}

func (s *MenuScreen) openRoadmap() tea.Cmd {
	return router.Push(roadmapscreen.New(s.deps.Gateway, s.deps.Role))
}

// logout clears the stored token and flips the session. The app layer
// watches the session and swaps back to the login screen.
func (s *MenuScreen) logout() tea.Cmd {
	return func() tea.Msg {
		if s.deps.Tokens != nil {
			_ = s.deps.Tokens.ClearToken(context.Background())
		}
		s.deps.Session.Logout()
		return nil
	}
}

func (s *MenuScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Subtitle.Render("What would you like to work on?"))
	b.WriteString("\n\n")
	b.WriteString(s.menu.View())
	if s.deps.Offline {
		b.WriteString("\n" + theme.Notice.Render("Offline coach mode: questions come from your local LLM key."))
	}
	return lipgloss.NewStyle().Padding(1, 2).Width(width).Render(b.String())
}

func orElse(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
