package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loadMsg struct{ label string }

func items(labels ...string) []MenuItem {
	out := make([]MenuItem, 0, len(labels))
	for _, l := range labels {
		out = append(out, MenuItem{
			Label: l,
			Cmd:   func() tea.Msg { return loadMsg{l} },
		})
	}
	return out
}

func TestMenu_Navigate(t *testing.T) {
	m := NewMenu(items("範例", "學而時習之", "溫故而知新"))

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m, _ = m.Update(tea.KeyPressMsg{Code: 'j', Text: "j"})
	assert.Equal(t, 2, m.Selected)

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 2, m.Selected, "cursor stops at the last row")

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, 1, m.Selected)

	m, _ = m.Update(tea.KeyPressMsg{Code: 'g', Text: "g"})
	assert.Equal(t, 0, m.Selected)

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyEnd})
	assert.Equal(t, 2, m.Selected)
}

func TestMenu_EmptyIgnoresKeys(t *testing.T) {
	m := NewMenu(nil)
	m, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Zero(t, m.Selected)
}

func TestMenu_EnterRunsAction(t *testing.T) {
	m := NewMenu(items("範例", "學而時習之"))
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, loadMsg{"學而時習之"}, cmd())
}

func TestMenu_SetItemsClampsCursor(t *testing.T) {
	m := NewMenu(items("範例", "學而時習之", "溫故而知新"))
	m.Selected = 2

	m.SetItems(items("範例"))
	assert.Equal(t, 0, m.Selected)

	m.SetItems(nil)
	assert.Equal(t, 0, m.Selected)
}

func TestMenu_ViewTruncatesRows(t *testing.T) {
	m := NewMenu(items("師者，所以傳道、受業、解惑也。\n人非生而知之者"))

	view := m.View(16, true)

	assert.Equal(t, 1, strings.Count(view, "\n"))
	assert.Contains(t, view, "…")
	assert.NotContains(t, view, "人非")
}

func TestTextArea_TracksChanges(t *testing.T) {
	ta := NewTextArea("輸入", true)

	ta, _ = ta.Update(tea.KeyPressMsg{Code: '學', Text: "學"})
	assert.True(t, ta.Changed())
	assert.Equal(t, "學", ta.Value())

	ta, _ = ta.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	assert.False(t, ta.Changed())

	ta.SetValue("溫故而知新")
	assert.Equal(t, "溫故而知新", ta.Value())
	assert.False(t, ta.Changed())
}

func TestTextArea_BlurredIgnoresKeys(t *testing.T) {
	ta := NewTextArea("輸入", true)
	ta.Blur()

	ta, _ = ta.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})

	assert.False(t, ta.Focused())
	assert.Empty(t, ta.Value())
}
