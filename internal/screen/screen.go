// Package screen defines the contract every TUI screen implements.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/prepdeck/prepdeck/internal/ui/layout"
)

// Screen is one full-content view between the app header and footer.
type Screen interface {
	// Init runs when the screen becomes active for the first time.
	Init() tea.Cmd

	// Update handles a message and returns the (possibly new) screen
	// plus a follow-up command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area. Header and footer are drawn by
	// the app around it.
	View(width, height int) string

	// Title labels the screen in the header.
	Title() string
}

// KeyHintProvider lets a screen publish its own footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// EscConsumer marks screens that handle Esc themselves, e.g. to
// dismiss a modal form. While ConsumesEsc reports true, Esc goes to
// the screen instead of popping it off the router.
type EscConsumer interface {
	ConsumesEsc() bool
}
