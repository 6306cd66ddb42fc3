package help

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wenyan/internal/screen"
	"github.com/abhisek/wenyan/internal/ui/layout"
	"github.com/abhisek/wenyan/internal/ui/theme"
)

type binding struct {
	key  string
	desc string
}

type section struct {
	title    string
	bindings []binding
}

var sections = []section{
	{"全域", []binding{
		{"Tab / Shift+Tab", "切換焦點：原文、詞語、文庫"},
		{"Ctrl+R", "分析原文"},
		{"Ctrl+S", "收藏原文至文庫"},
		{"Esc", "關閉提示"},
		{"Ctrl+C", "離開"},
	}},
	{"詞語", []binding{
		{"← → / h l", "移動游標"},
		{"Home / End", "首個 / 末個詞語"},
		{"Enter / Space", "朗讀並解釋"},
		{"t", "顯示 / 隱藏注音"},
	}},
	{"文庫", []binding{
		{"↑ ↓ / k j", "選擇"},
		{"Enter", "載入至原文"},
		{"d", "刪除收藏（範例不可刪除）"},
	}},
}

// HelpScreen lists the key bindings of the reader.
type HelpScreen struct{}

var _ screen.Screen = (*HelpScreen)(nil)
var _ screen.Hinted = (*HelpScreen)(nil)

// New creates a HelpScreen.
func New() *HelpScreen {
	return &HelpScreen{}
}

func (h *HelpScreen) Init() tea.Cmd { return nil }

func (h *HelpScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return h, nil }

func (h *HelpScreen) Title() string { return "說明" }

func (h *HelpScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "返回"},
		{Key: "Ctrl+C", Description: "離開"},
	}
}

func (h *HelpScreen) View(width, height int) string {
	keyWidth := 0
	for _, sec := range sections {
		for _, bnd := range sec.bindings {
			keyWidth = max(keyWidth, lipgloss.Width(bnd.key))
		}
	}
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(keyWidth + 2)

	var b strings.Builder
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(sec.title))
		b.WriteString("\n")
		for _, bnd := range sec.bindings {
			b.WriteString("  " + keyStyle.Render(bnd.key) + theme.Body.Render(bnd.desc) + "\n")
		}
	}

	card := theme.Card.Render(strings.TrimRight(b.String(), "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
