package reader

import (
	"strings"

	"charm.land/lipgloss/v2"

	sess "github.com/abhisek/wenyan/internal/session"
	"github.com/abhisek/wenyan/internal/ui/layout"
	"github.com/abhisek/wenyan/internal/ui/theme"
)

func (s *ReaderScreen) View(width, height int) string {
	st := s.ctrl.Snapshot()
	sideW, mainW, panelW := layout.Columns(width)

	sidebar := s.renderSidebar(sideW, height)
	main := s.renderMain(st, mainW, height)
	panel := s.renderPanel(st, panelW, height)

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main, panel)
}

func panelStyle(focused bool, width, height int) lipgloss.Style {
	style := theme.Panel
	if focused {
		style = theme.PanelFocused
	}
	return style.Width(width).Height(height)
}

func heading(text string) string {
	return lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(text)
}

// renderSidebar renders the library: the example, then saved passages.
func (s *ReaderScreen) renderSidebar(width, height int) string {
	var b strings.Builder
	b.WriteString(heading("文庫"))
	b.WriteString("\n\n")
	b.WriteString(s.library.View(width-4, s.focus == focusLibrary))

	if s.confirmDelete != 0 {
		b.WriteString("\n")
		b.WriteString(theme.Notice.Render("刪除此篇？(y/n)"))
	}

	return panelStyle(s.focus == focusLibrary, width, height).Render(b.String())
}

// renderMain renders the editor, the status line and the token grid.
func (s *ReaderScreen) renderMain(st sess.State, width, height int) string {
	inner := width - 4

	var b strings.Builder
	b.WriteString(heading("原文"))
	b.WriteString("\n")
	b.WriteString(s.editor.View())
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(inner, 0))))
	b.WriteString("\n")

	switch {
	case st.Notice != "":
		b.WriteString(theme.Notice.Render(layout.TruncateLine(st.Notice, inner)))
	case st.Analyzing:
		b.WriteString(theme.Hint.Render("分析中…"))
	case len(st.Tokens) == 0:
		b.WriteString(theme.Hint.Render("按 Ctrl+R 分析"))
	default:
		b.WriteString(legend())
	}
	b.WriteString("\n\n")

	if len(st.Tokens) > 0 {
		b.WriteString(renderGrid(st.Tokens, gridOptions{
			Width:      inner,
			Cursor:     s.cursor,
			ShowCursor: s.focus == focusTokens,
			ShowRuby:   s.showRuby,
			Explained:  st.Selected,
		}))
	}

	focused := s.focus == focusEditor || s.focus == focusTokens
	return panelStyle(focused, width, height).Render(b.String())
}

// renderPanel renders the selected token and its explanation.
func (s *ReaderScreen) renderPanel(st sess.State, width, height int) string {
	inner := width - 4

	var b strings.Builder
	b.WriteString(heading("解釋"))
	b.WriteString("\n\n")

	if st.Selected == nil {
		b.WriteString(theme.Hint.Render("選擇詞語後按 Enter"))
		return panelStyle(false, width, height).Render(b.String())
	}

	tok := *st.Selected
	word := lipgloss.NewStyle().Foreground(theme.POSColor(tok.POS)).Bold(true).Render(tok.Text)
	b.WriteString(word)
	if tok.Phonetic != "" {
		b.WriteString("  " + theme.Ruby.Render(tok.Phonetic))
	}
	if tok.POS != "" {
		b.WriteString("  " + theme.Hint.Render(tok.POS))
	}
	b.WriteString("\n\n")

	if st.Explaining {
		b.WriteString(theme.Hint.Render(st.Explanation))
	} else {
		b.WriteString(s.md.Render(st.Explanation, inner))
	}

	return panelStyle(false, width, height).Render(b.String())
}
