package welcome

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/wenyan/internal/reader"
	"github.com/abhisek/wenyan/internal/router"
	"github.com/abhisek/wenyan/internal/screen"
)

type readerStub struct{}

func (r readerStub) Init() tea.Cmd                           { return nil }
func (r readerStub) Update(tea.Msg) (screen.Screen, tea.Cmd) { return r, nil }
func (r readerStub) View(int, int) string                    { return "reader" }
func (r readerStub) Title() string                           { return "閱讀" }

// splash returns a WelcomeScreen and a pointer to how many readers it has
// built.
func splash() (*WelcomeScreen, *int) {
	built := 0
	return New(func() screen.Screen {
		built++
		return readerStub{}
	}), &built
}

func advance(w *WelcomeScreen, ticks int) tea.Cmd {
	var cmd tea.Cmd
	for range ticks {
		_, cmd = w.Update(tickMsg(time.Now()))
	}
	return cmd
}

func requireReplace(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	nav, ok := cmd().(router.NavigateMsg)
	require.True(t, ok, "got %T", cmd())
	assert.Equal(t, router.OpReplace, nav.Op)
	assert.Equal(t, "閱讀", nav.Screen.Title())
}

func TestWelcome_TypesVerseAfterSeal(t *testing.T) {
	w, _ := splash()
	assert.Zero(t, w.revealed())

	advance(w, int(sealEnd/tickInterval))
	assert.Equal(t, 1, w.revealed())
	assert.Contains(t, w.View(80, 24), "師")

	advance(w, 3)
	assert.Equal(t, 4, w.revealed())
	assert.NotContains(t, w.View(80, 24), "按任意鍵開始")
}

func TestWelcome_KeySkipsAhead(t *testing.T) {
	w, built := splash()
	advance(w, 2)

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' '})
	requireReplace(t, cmd)
	assert.Equal(t, 1, *built)
}

func TestWelcome_HandsOverWhenDone(t *testing.T) {
	w, built := splash()

	cmd := advance(w, int(w.totalDur()/tickInterval))
	requireReplace(t, cmd)
	view := w.View(80, 24)
	assert.Contains(t, view, reader.ExamplePassage.Content)
	assert.Contains(t, view, "韓愈")
	assert.Equal(t, 1, *built)
}

func TestWelcome_BuildsReaderOnce(t *testing.T) {
	w, built := splash()

	w.Update(tea.KeyPressMsg{Code: 'a'})
	_, cmd := w.Update(tea.KeyPressMsg{Code: 'b'})
	assert.Nil(t, cmd)
	assert.Nil(t, advance(w, 100))
	assert.Equal(t, 1, *built)
	assert.Empty(t, w.Title())
}

func TestRenderSeal_Compact(t *testing.T) {
	assert.Contains(t, RenderSeal(80), "閱")
	assert.NotContains(t, RenderSeal(12), "閱")
}
