package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wenyan/internal/reader"
	"github.com/abhisek/wenyan/internal/router"
	"github.com/abhisek/wenyan/internal/screen"
	"github.com/abhisek/wenyan/internal/ui/theme"
)

const (
	tickInterval = 80 * time.Millisecond
	sealEnd      = 400 * time.Millisecond
	holdAfter    = 1200 * time.Millisecond
)

type tickMsg time.Time

// WelcomeScreen shows the seal and types out the example passage, then
// hands over to the reader.
type WelcomeScreen struct {
	readerFactory func() screen.Screen
	verse         []rune
	elapsed       time.Duration
	transitioned  bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced
// by readerFactory.
func New(readerFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		readerFactory: readerFactory,
		verse:         []rune(reader.ExamplePassage.Content),
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// totalDur is how long the animation runs before transitioning on its own.
func (w *WelcomeScreen) totalDur() time.Duration {
	return sealEnd + time.Duration(len(w.verse))*tickInterval + holdAfter
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		w.elapsed += tickInterval
		if w.elapsed >= w.totalDur() {
			return w, w.transition()
		}
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	return router.Replace(w.readerFactory())
}

// revealed returns how many runes of the verse are visible.
func (w *WelcomeScreen) revealed() int {
	if w.elapsed < sealEnd {
		return 0
	}
	n := int((w.elapsed-sealEnd)/tickInterval) + 1
	return min(n, len(w.verse))
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{RenderSeal(width), ""}

	verse := string(w.verse[:w.revealed()])
	sections = append(sections, lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render(verse))

	if w.revealed() == len(w.verse) {
		sections = append(sections,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("—— 韓愈《師說》"),
			"",
			theme.Hint.Render("按任意鍵開始"),
		)
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.TrimRight(content, "\n"))
}
