package reader

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// markdown renders explanations with glamour, caching the last result so
// unchanged frames do not re-render.
type markdown struct {
	style    string
	width    int
	renderer *glamour.TermRenderer

	lastIn  string
	lastOut string
}

func newMarkdown(style string) *markdown {
	return &markdown{style: style}
}

// Render returns text rendered for width cells. Rendering failures fall
// back to the raw text.
func (m *markdown) Render(text string, width int) string {
	if width < 1 {
		width = 1
	}
	if m.renderer == nil || m.width != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(m.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return text
		}
		m.renderer = r
		m.width = width
		m.lastIn, m.lastOut = "", ""
	}
	if text == m.lastIn && m.lastOut != "" {
		return m.lastOut
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	out = strings.Trim(out, "\n")
	m.lastIn, m.lastOut = text, out
	return out
}
