// Package roadmap displays the role preparation roadmap.
package roadmap

import (
	"context"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/prepdeck/prepdeck/internal/api"
	"github.com/prepdeck/prepdeck/internal/screen"
	"github.com/prepdeck/prepdeck/internal/ui/layout"
	"github.com/prepdeck/prepdeck/internal/ui/theme"
)

type roadmapDoneMsg struct {
	Roadmap *api.Roadmap
	Err     error
}

// RoadmapScreen fetches and renders the roadmap for one role. The
// content usually exceeds the terminal height, so it scrolls.
type RoadmapScreen struct {
	gateway *api.Client
	role    string

	roadmap *api.Roadmap
	errMsg  string
	loading bool
	offset  int
}

var _ screen.Screen = (*RoadmapScreen)(nil)
var _ screen.KeyHintProvider = (*RoadmapScreen)(nil)

// New creates a RoadmapScreen for the given role.
func New(gateway *api.Client, role string) *RoadmapScreen {
	return &RoadmapScreen{gateway: gateway, role: role, loading: true}
}

func (s *RoadmapScreen) Init() tea.Cmd {
	return func() tea.Msg {
		rm, err := s.gateway.GetRoadmap(context.Background(), s.role)
		return roadmapDoneMsg{Roadmap: rm, Err: err}
	}
}

func (s *RoadmapScreen) Title() string {
	return "Roadmap"
}

func (s *RoadmapScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *RoadmapScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case roadmapDoneMsg:
		s.loading = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.roadmap = msg.Roadmap
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			s.offset++
		}
	}
	return s, nil
}

func (s *RoadmapScreen) View(width, height int) string {
	pad := lipgloss.NewStyle().Padding(1, 2).Width(width)

	if s.loading {
		return pad.Render(theme.Hint.Render("Loading roadmap..."))
	}
	if s.errMsg != "" {
		return pad.Render(theme.ErrText.Render(s.errMsg))
	}
	if s.roadmap == nil {
		return pad.Render(theme.Hint.Render("No roadmap available for " + s.role))
	}

	body := lipgloss.NewStyle().Foreground(theme.Text).Width(width - 8)

	var b strings.Builder
	b.WriteString(theme.Title.Render(s.roadmap.Title) + "\n")
	b.WriteString(body.Render(s.roadmap.Description) + "\n\n")

	for _, key := range sortedTopicKeys(s.roadmap.Topics) {
		topic := s.roadmap.Topics[key]
		b.WriteString(theme.Label.Render(topic.Title) + "\n")
		for _, item := range topic.Items {
			b.WriteString(theme.Body.Render("  • "+item) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(theme.Label.Render("Resources") + "\n")
	writeResourceList(&b, "Books", s.roadmap.Resources.Books)
	writeResourceList(&b, "Courses", s.roadmap.Resources.OnlineCourses)
	writeResourceList(&b, "Practice", s.roadmap.Resources.PracticePlatforms)

	lines := strings.Split(b.String(), "\n")
	visible := layout.ContentHeight(height) - 2
	if visible < 1 {
		visible = 1
	}
	if s.offset > len(lines)-visible {
		s.offset = max(0, len(lines)-visible)
	}
	end := min(len(lines), s.offset+visible)
	return pad.Render(strings.Join(lines[s.offset:end], "\n"))
}

func sortedTopicKeys(topics map[string]api.RoadmapTopic) []string {
	keys := make([]string, 0, len(topics))
	for k := range topics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeResourceList(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(theme.Hint.Render(label+":") + "\n")
	for _, item := range items {
		b.WriteString(theme.Body.Render("  • "+item) + "\n")
	}
}
