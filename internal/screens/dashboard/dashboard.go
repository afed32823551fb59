// Package dashboard implements the stats, activity, and profile screen.
package dashboard

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	agg "github.com/prepdeck/prepdeck/internal/dashboard"
	"github.com/prepdeck/prepdeck/internal/screen"
	"github.com/prepdeck/prepdeck/internal/ui/components"
	"github.com/prepdeck/prepdeck/internal/ui/layout"
	"github.com/prepdeck/prepdeck/internal/ui/theme"
)

// tab indexes.
const (
	tabOverview = iota
	tabProfile
)

// form modes on the profile tab.
const (
	formNone = iota
	formRename
	formPassword
)

// DashboardScreen renders the aggregator state and hosts the profile
// forms.
type DashboardScreen struct {
	aggregator *agg.Aggregator

	tab     int
	form    int
	focused int
	loading bool

	nameInput components.TextInput
	currentPw components.TextInput
	newPw     components.TextInput
	confirmPw components.TextInput
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)
var _ screen.EscConsumer = (*DashboardScreen)(nil)

// New creates a DashboardScreen around an existing aggregator.
func New(aggregator *agg.Aggregator) *DashboardScreen {
	return &DashboardScreen{
		aggregator: aggregator,
		loading:    true,
		nameInput:  components.NewTextInput("New display name", 80),
		currentPw:  components.NewPassword("Current password"),
		newPw:      components.NewPassword("New password"),
		confirmPw:  components.NewPassword("Confirm new password"),
	}
}

func (s *DashboardScreen) Init() tea.Cmd {
	return func() tea.Msg {
		return activateDoneMsg{Err: s.aggregator.Activate(context.Background())}
	}
}

func (s *DashboardScreen) Title() string {
	return "Dashboard"
}

// ConsumesEsc keeps Esc inside the screen while a form is open, so
// cancelling a rename doesn't also leave the dashboard.
func (s *DashboardScreen) ConsumesEsc() bool {
	return s.form != formNone
}

func (s *DashboardScreen) KeyHints() []layout.KeyHint {
	if s.form != formNone {
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next field"},
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	if s.tab == tabOverview {
		return []layout.KeyHint{
			{Key: "←→", Description: "Page"},
			{Key: "P", Description: "Profile"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "R", Description: "Rename"},
		{Key: "W", Description: "Change password"},
		{Key: "O", Description: "Overview"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case activateDoneMsg:
		s.loading = false
		return s, nil
	case pageDoneMsg, renameDoneMsg:
		return s, nil
	case passwordDoneMsg:
		if msg.Err == nil {
			s.closeForm()
		}
		return s, nil
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s.forwardToForm(msg)
}

func (s *DashboardScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.form != formNone {
		return s.handleFormKey(msg)
	}

	switch msg.String() {
	case "p", "P":
		s.tab = tabProfile
		return s, nil
	case "o", "O":
		s.tab = tabOverview
		return s, nil
	case "left", "h":
		if s.tab == tabOverview {
			return s, s.setPage(s.aggregator.Snapshot().Page - 1)
		}
	case "right", "l":
		if s.tab == tabOverview {
			return s, s.setPage(s.aggregator.Snapshot().Page + 1)
		}
	case "r", "R":
		if s.tab == tabProfile {
			s.openForm(formRename)
			return s, s.nameInput.Focus()
		}
	case "w", "W":
		if s.tab == tabProfile {
			s.openForm(formPassword)
			return s, s.currentPw.Focus()
		}
	}
	return s, nil
}

func (s *DashboardScreen) handleFormKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.closeForm()
		return s, nil
	case "tab", "down":
		if s.form == formPassword {
			s.focusPasswordField((s.focused + 1) % 3)
		}
		return s, nil
	case "shift+tab", "up":
		if s.form == formPassword {
			s.focusPasswordField((s.focused + 2) % 3)
		}
		return s, nil
	case "enter":
		return s.submitForm()
	}
	return s.forwardToForm(msg)
}

func (s *DashboardScreen) forwardToForm(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case s.form == formRename:
		s.nameInput, cmd = s.nameInput.Update(msg)
	case s.form == formPassword && s.focused == 0:
		s.currentPw, cmd = s.currentPw.Update(msg)
	case s.form == formPassword && s.focused == 1:
		s.newPw, cmd = s.newPw.Update(msg)
	case s.form == formPassword && s.focused == 2:
		s.confirmPw, cmd = s.confirmPw.Update(msg)
	}
	return s, cmd
}

func (s *DashboardScreen) openForm(form int) {
	s.form = form
	s.focused = 0
	s.nameInput.Reset()
	s.currentPw.Reset()
	s.newPw.Reset()
	s.confirmPw.Reset()
}

func (s *DashboardScreen) closeForm() {
	s.form = formNone
	s.nameInput.Blur()
	s.currentPw.Blur()
	s.newPw.Blur()
	s.confirmPw.Blur()
}

func (s *DashboardScreen) focusPasswordField(n int) {
	s.focused = n
	s.currentPw.Blur()
	s.newPw.Blur()
	s.confirmPw.Blur()
	switch n {
	case 0:
		s.currentPw.Focus()
	case 1:
		s.newPw.Focus()
	case 2:
		s.confirmPw.Focus()
	}
}

func (s *DashboardScreen) submitForm() (screen.Screen, tea.Cmd) {
	switch s.form {
	case formRename:
		name := strings.TrimSpace(s.nameInput.Value())
		if name == "" {
			return s, nil
		}
		s.closeForm()
		return s, func() tea.Msg {
			return renameDoneMsg{Err: s.aggregator.Rename(context.Background(), name)}
		}
	case formPassword:
		current, next, confirm := s.currentPw.Value(), s.newPw.Value(), s.confirmPw.Value()
		return s, func() tea.Msg {
			return passwordDoneMsg{Err: s.aggregator.ChangePassword(context.Background(), current, next, confirm)}
		}
	}
	return s, nil
}

func (s *DashboardScreen) setPage(n int) tea.Cmd {
	return func() tea.Msg {
		return pageDoneMsg{Err: s.aggregator.SetPage(context.Background(), n)}
	}
}

func (s *DashboardScreen) View(width, height int) string {
	snap := s.aggregator.Snapshot()

	var b strings.Builder

	if s.loading {
		b.WriteString(theme.Hint.Render("Loading your dashboard..."))
		return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	}

	if s.tab == tabOverview {
		b.WriteString(renderStats(snap, width))
		b.WriteString("\n")
		b.WriteString(renderActivity(snap, width))
	} else {
		b.WriteString(s.renderProfile(snap, width))
	}

	if snap.Notice != "" {
		b.WriteString("\n" + theme.Notice.Render(snap.Notice))
	}
	if snap.ErrMsg != "" {
		b.WriteString("\n" + theme.ErrText.Render(snap.ErrMsg))
	}

	return lipgloss.NewStyle().Padding(1, 2).Width(width).Render(b.String())
}

func renderStats(snap agg.Snapshot, width int) string {
	var b strings.Builder
	b.WriteString(theme.Label.Render("Practice summary") + "\n")

	if snap.Stats == nil {
		b.WriteString(theme.Hint.Render("No stats yet") + "\n")
		return b.String()
	}

	b.WriteString(theme.Body.Render(fmt.Sprintf("Total answers: %d", snap.Stats.TotalResponses)) + "\n")
	for _, rs := range snap.Stats.RoleStats {
		bar := components.ProgressBar{
			Label:   fmt.Sprintf("%-10s", rs.Role),
			Percent: percentOf(rs.Count, snap.Stats.TotalResponses),
			Width:   width / 2,
		}
		b.WriteString(bar.View() + theme.Hint.Render(fmt.Sprintf("  %d", rs.Count)) + "\n")
	}
	return b.String()
}

func renderActivity(snap agg.Snapshot, width int) string {
	var b strings.Builder
	b.WriteString(theme.Label.Render(fmt.Sprintf("Recent activity — page %d of %d", snap.Page, snap.TotalPages)) + "\n")

	if len(snap.Activity) == 0 {
		b.WriteString(theme.Hint.Render("Nothing here yet. Answer some questions!") + "\n")
		return b.String()
	}

	for _, r := range snap.Activity {
		q := truncate(r.Question, width-20)
		b.WriteString(theme.Body.Render("• "+q) + "\n")
		if r.CreatedAt != "" {
			b.WriteString(theme.Hint.Render("  "+r.CreatedAt) + "\n")
		}
	}
	return b.String()
}

func (s *DashboardScreen) renderProfile(snap agg.Snapshot, width int) string {
	var b strings.Builder
	b.WriteString(theme.Label.Render("Profile") + "\n")

	if snap.Profile != nil {
		b.WriteString(theme.Body.Render("Name:  "+snap.Profile.Name) + "\n")
		b.WriteString(theme.Body.Render("Email: "+snap.Profile.Email) + "\n")
	}
	if snap.Details != nil && snap.Details.User.JoinedDate != nil {
		b.WriteString(theme.Hint.Render("Joined "+*snap.Details.User.JoinedDate) + "\n")
	}

	switch s.form {
	case formRename:
		b.WriteString("\n" + theme.Label.Render("New name") + "\n")
		b.WriteString(s.nameInput.View() + "\n")
	case formPassword:
		b.WriteString("\n" + theme.Label.Render("Change password") + "\n")
		b.WriteString(s.currentPw.View() + "\n")
		b.WriteString(s.newPw.View() + "\n")
		b.WriteString(s.confirmPw.View() + "\n")
	}

	return b.String()
}

// truncate shortens s to at most maxWidth display cells, cutting on
// rune boundaries so multibyte text never renders mojibake.
func truncate(s string, maxWidth int) string {
	if maxWidth <= 3 || lipgloss.Width(s) <= maxWidth {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > maxWidth {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

func percentOf(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
