package components

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wenyan/internal/ui/layout"
	"github.com/abhisek/wenyan/internal/ui/theme"
)

// MenuItem is one row. Cmd runs when the row is chosen with Enter.
type MenuItem struct {
	Label string
	Cmd   tea.Cmd
}

// MenuKeys are the bindings a Menu responds to.
type MenuKeys struct {
	Up, Down, First, Last, Choose key.Binding
}

// DefaultMenuKeys uses arrows and vi keys.
var DefaultMenuKeys = MenuKeys{
	Up:     key.NewBinding(key.WithKeys("up", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	First:  key.NewBinding(key.WithKeys("home", "g")),
	Last:   key.NewBinding(key.WithKeys("end", "G")),
	Choose: key.NewBinding(key.WithKeys("enter")),
}

// Menu is a vertical list with a cursor, used for the library sidebar.
type Menu struct {
	Items    []MenuItem
	Selected int
	Keys     MenuKeys
}

// NewMenu creates a menu with the cursor on the first row.
func NewMenu(items []MenuItem) Menu {
	return Menu{Items: items, Keys: DefaultMenuKeys}
}

// SetItems replaces the rows and keeps the cursor in range.
func (m *Menu) SetItems(items []MenuItem) {
	m.Items = items
	m.Selected = max(min(m.Selected, len(items)-1), 0)
}

// Update moves the cursor or chooses the row under it.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	press, ok := msg.(tea.KeyPressMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(press, m.Keys.Up):
		m.Selected = max(m.Selected-1, 0)
	case key.Matches(press, m.Keys.Down):
		m.Selected = min(m.Selected+1, len(m.Items)-1)
	case key.Matches(press, m.Keys.First):
		m.Selected = 0
	case key.Matches(press, m.Keys.Last):
		m.Selected = len(m.Items) - 1
	case key.Matches(press, m.Keys.Choose):
		return m, m.Items[m.Selected].Cmd
	}
	return m, nil
}

// View renders one line per row, cut to width. The cursor marker is only
// drawn when focused; unfocused, the selected row is just bold.
func (m Menu) View(width int, focused bool) string {
	current := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)

	var b strings.Builder
	for i, item := range m.Items {
		label := layout.TruncateLine(item.Label, width-4)
		switch {
		case i != m.Selected:
			b.WriteString(theme.Unselected.Render("   " + label))
		case focused:
			b.WriteString(theme.Selected.Render(" ▸ " + label))
		default:
			b.WriteString(current.Render("   " + label))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
