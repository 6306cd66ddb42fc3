// Package screen holds the contract between the app frame and the views
// it stacks.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/wenyan/internal/ui/layout"
)

// Screen is one full view between the header and footer.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders into a width x height area.
	View(width, height int) string

	// Title is shown in the header bar.
	Title() string
}

// Hinted screens choose their own footer hints. Screens that do not
// implement it get the frame's defaults.
type Hinted interface {
	KeyHints() []layout.KeyHint
}
