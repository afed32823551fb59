// Package app wires the Bubble Tea program together: router, header
// state, and session lifecycle.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/prepdeck/prepdeck/internal/api"
	"github.com/prepdeck/prepdeck/internal/auth"
	aggpkg "github.com/prepdeck/prepdeck/internal/dashboard"
	mcqctrl "github.com/prepdeck/prepdeck/internal/mcq"
	practicectrl "github.com/prepdeck/prepdeck/internal/practice"
	"github.com/prepdeck/prepdeck/internal/router"
	"github.com/prepdeck/prepdeck/internal/screen"
	"github.com/prepdeck/prepdeck/internal/screens/login"
	"github.com/prepdeck/prepdeck/internal/screens/menu"
	"github.com/prepdeck/prepdeck/internal/store"
	"github.com/prepdeck/prepdeck/internal/ui/layout"
)

// Deps carries everything the TUI needs. Gateway, Aggregator, and
// Tokens may be nil in offline coach mode.
type Deps struct {
	Session    *auth.Session
	Gateway    *api.Client
	Practice   *practicectrl.Controller
	MCQ        *mcqctrl.Controller
	Aggregator *aggpkg.Aggregator
	Tokens     *store.Store
	Role       string
	Offline    bool

	// Account pre-fills the header when a stored token skips the
	// login screen.
	Account string
}

// sessionInvalidatedMsg is injected from the session subscriber when
// the token is rejected or the user signs out.
type sessionInvalidatedMsg struct{}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	deps    Deps
	router  *router.Router
	account string
	width   int
	height  int
}

func newAppModel(deps Deps) AppModel {
	m := AppModel{deps: deps}

	switch {
	case deps.Offline:
		m.account = "offline"
		m.router = router.New(menu.New(m.menuDeps()))
	case deps.Session.Authenticated():
		m.account = deps.Account
		m.router = router.New(menu.New(m.menuDeps()))
	default:
		m.router = router.New(login.New(deps.Gateway, deps.Session, deps.Tokens))
	}
	return m
}

func (m AppModel) menuDeps() menu.Deps {
	return menu.Deps{
		Session:    m.deps.Session,
		Gateway:    m.deps.Gateway,
		Practice:   m.deps.Practice,
		MCQ:        m.deps.MCQ,
		Aggregator: m.deps.Aggregator,
		Tokens:     m.deps.Tokens,
		Role:       m.deps.Role,
		Offline:    m.deps.Offline,
	}
}

func (m AppModel) Init() tea.Cmd {
	active := m.router.Active()
	if active == nil {
		return nil
	}
	return active.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case login.SuccessMsg:
		m.account = msg.Name
		return m, m.router.Reset(menu.New(m.menuDeps()))

	case sessionInvalidatedMsg:
		if m.deps.Offline {
			return m, nil
		}
		m.account = ""
		return m, m.router.Reset(login.New(m.deps.Gateway, m.deps.Session, m.deps.Tokens))

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if c, ok := m.router.Active().(screen.EscConsumer); ok && c.ConsumesEsc() {
				return m, m.router.Update(msg)
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.account, m.width)

	footerHints := []layout.KeyHint{
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if hinter, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(hinter.KeyHints(), footerHints...)
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program and hooks the session watcher so a
// rejected token anywhere in the client drops the user back to login.
func Run(deps Deps) error {
	p := tea.NewProgram(newAppModel(deps))

	deps.Session.Subscribe(func(authenticated bool) {
		if !authenticated {
			p.Send(sessionInvalidatedMsg{})
		}
	})

	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
