// Package app is the root Bubble Tea model: it owns the screen stack and
// draws the header and footer around the top screen.
package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wenyan/internal/router"
	"github.com/abhisek/wenyan/internal/screen"
	"github.com/abhisek/wenyan/internal/ui/layout"
)

// Options configures the root model.
type Options struct {
	// Root is the bottom screen of the stack.
	Root screen.Screen

	// Passages reports the saved-passage count shown in the header.
	Passages func() int
}

// Model is the root tea.Model.
type Model struct {
	stack    *router.Stack
	passages func() int
	width    int
	height   int
}

func newModel(opts Options) Model {
	m := Model{stack: router.New(opts.Root), passages: opts.Passages}
	if m.passages == nil {
		m.passages = func() int { return 0 }
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return m.stack.Top().Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = size.Width, size.Height
	}
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			// At the root, Esc belongs to the screen.
			if m.stack.Len() > 1 {
				return m, router.Back()
			}
		}
	}
	return m, m.stack.Update(msg)
}

func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m Model) render() string {
	switch {
	case m.width == 0 || m.height == 0:
		return ""
	case layout.IsTooSmall(m.width, m.height):
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	top := m.stack.Top()
	header := layout.RenderHeader(top.Title(), m.passages(), m.width)
	footer := layout.RenderFooter(m.hints(top), m.width)
	body := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	return layout.RenderFrame(header, m.stack.View(m.width, body), footer, m.width, m.height)
}

// hints returns the top screen's own hints, or Esc/Ctrl+C defaults.
func (m Model) hints(top screen.Screen) []layout.KeyHint {
	if h, ok := top.(screen.Hinted); ok {
		if hints := h.KeyHints(); len(hints) > 0 {
			return hints
		}
	}
	hints := []layout.KeyHint{{Key: "Ctrl+C", Description: "離開"}}
	if m.stack.Len() > 1 {
		hints = append([]layout.KeyHint{{Key: "Esc", Description: "返回"}}, hints...)
	}
	return hints
}

// Run starts the program in the alternate screen and blocks until it exits.
func Run(opts Options) error {
	_, err := tea.NewProgram(newModel(opts)).Run()
	return err
}
