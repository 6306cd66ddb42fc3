package reader

import (
	"context"
	"log/slog"

	tea "charm.land/bubbletea/v2"

	rdr "github.com/abhisek/wenyan/internal/reader"
	"github.com/abhisek/wenyan/internal/router"
	"github.com/abhisek/wenyan/internal/screen"
	"github.com/abhisek/wenyan/internal/screens/help"
	sess "github.com/abhisek/wenyan/internal/session"
	"github.com/abhisek/wenyan/internal/ui/components"
	"github.com/abhisek/wenyan/internal/ui/layout"
)

// editorHeight is the number of text rows the passage editor shows.
const editorHeight = 5

type focus int

const (
	focusEditor focus = iota
	focusTokens
	focusLibrary
)

// Options wires a ReaderScreen.
type Options struct {
	Controller *sess.Controller

	// Context bounds every backend call the screen starts.
	Context context.Context

	// MarkdownStyle is a glamour standard style name ("dark", "light",
	// "notty"). Defaults to "dark".
	MarkdownStyle string

	Log *slog.Logger
}

// ReaderScreen is the main reading view: library sidebar, passage editor
// with the annotated token grid, and the explanation panel.
type ReaderScreen struct {
	ctrl    *sess.Controller
	ctx     context.Context
	log     *slog.Logger
	editor  components.TextArea
	library components.Menu
	focus   focus

	// cursor indexes the token under the keyboard cursor.
	cursor   int
	showRuby bool

	// confirmDelete holds the passage id awaiting a y/n answer.
	confirmDelete int64

	md *markdown
}

var _ screen.Screen = (*ReaderScreen)(nil)
var _ screen.Hinted = (*ReaderScreen)(nil)

// New creates a ReaderScreen over an already loaded controller.
func New(opts Options) *ReaderScreen {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	style := opts.MarkdownStyle
	if style == "" {
		style = "dark"
	}

	s := &ReaderScreen{
		ctrl:     opts.Controller,
		ctx:      ctx,
		log:      log,
		editor:   components.NewTextArea("在此輸入或貼上文言文…", style != "light"),
		library:  components.NewMenu(nil),
		showRuby: true,
		md:       newMarkdown(style),
	}
	s.editor.SetValue(s.ctrl.Snapshot().InputText)
	s.refreshLibrary()
	return s
}

func (s *ReaderScreen) Init() tea.Cmd {
	return s.editor.Init()
}

func (s *ReaderScreen) Title() string {
	return "閱讀"
}

func (s *ReaderScreen) KeyHints() []layout.KeyHint {
	if s.confirmDelete != 0 {
		return []layout.KeyHint{
			{Key: "Y", Description: "刪除"},
			{Key: "N", Description: "取消"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "Tab", Description: "切換"},
		{Key: "Ctrl+R", Description: "分析"},
		{Key: "Ctrl+S", Description: "收藏"},
	}
	switch s.focus {
	case focusTokens:
		hints = append(hints,
			layout.KeyHint{Key: "←→", Description: "選詞"},
			layout.KeyHint{Key: "Enter", Description: "解釋"},
			layout.KeyHint{Key: "T", Description: "注音"},
		)
	case focusLibrary:
		hints = append(hints,
			layout.KeyHint{Key: "↑↓", Description: "選擇"},
			layout.KeyHint{Key: "Enter", Description: "載入"},
			layout.KeyHint{Key: "D", Description: "刪除"},
		)
	}
	if s.focus != focusEditor {
		hints = append(hints, layout.KeyHint{Key: "?", Description: "說明"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "離開"})
}

func (s *ReaderScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		_, mainW, _ := layout.Columns(msg.Width)
		s.editor.SetSize(mainW-4, editorHeight)
		return s, nil

	case analyzeDoneMsg:
		return s.handleAnalyzeDone(msg)

	case explainDoneMsg:
		s.ctrl.ApplyExplain(msg.Result)
		return s, nil

	case loadPassageMsg:
		return s.handleLoad(msg)

	case loadExampleMsg:
		return s.handleLoadExample()

	case libraryChangedMsg:
		s.refreshLibrary()
		return s, nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.focus == focusEditor {
		return s.updateEditor(msg)
	}
	return s, nil
}

func (s *ReaderScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirmDelete != 0 {
		switch key {
		case "y", "Y":
			id := s.confirmDelete
			s.confirmDelete = 0
			return s, s.deleteCmd(id)
		case "n", "N", "esc":
			s.confirmDelete = 0
		}
		return s, nil
	}

	switch key {
	case "tab":
		return s, s.setFocus((s.focus + 1) % 3)
	case "shift+tab":
		return s, s.setFocus((s.focus + 2) % 3)
	case "ctrl+r":
		return s, s.analyzeCmd()
	case "ctrl+s":
		return s, s.saveCmd()
	case "esc":
		s.ctrl.ClearNotice()
		return s, nil
	}

	switch s.focus {
	case focusTokens:
		return s.handleTokenKey(key)
	case focusLibrary:
		return s.handleLibraryKey(msg)
	}
	return s.updateEditor(msg)
}

func (s *ReaderScreen) handleTokenKey(key string) (screen.Screen, tea.Cmd) {
	tokens := s.ctrl.Snapshot().Tokens
	switch key {
	case "left", "h":
		if s.cursor > 0 {
			s.cursor--
		}
	case "right", "l":
		if s.cursor < len(tokens)-1 {
			s.cursor++
		}
	case "home":
		s.cursor = 0
	case "end":
		if len(tokens) > 0 {
			s.cursor = len(tokens) - 1
		}
	case "enter", "space":
		if s.cursor < len(tokens) {
			return s, s.explainCmd(tokens[s.cursor])
		}
	case "t":
		s.showRuby = !s.showRuby
	case "r":
		return s, s.analyzeCmd()
	case "?":
		return s, pushHelp()
	}
	return s, nil
}

func (s *ReaderScreen) handleLibraryKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "d", "delete":
		if id, ok := s.selectedPassage(); ok {
			s.confirmDelete = id
		}
		return s, nil
	case "?":
		return s, pushHelp()
	}
	var cmd tea.Cmd
	s.library, cmd = s.library.Update(msg)
	return s, cmd
}

func (s *ReaderScreen) updateEditor(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.editor, cmd = s.editor.Update(msg)
	if s.editor.Changed() {
		s.ctrl.SetInputText(s.editor.Value())
	}
	return s, cmd
}

func (s *ReaderScreen) setFocus(f focus) tea.Cmd {
	s.focus = f
	if f == focusEditor {
		return s.editor.Focus()
	}
	s.editor.Blur()
	return nil
}

func (s *ReaderScreen) handleAnalyzeDone(msg analyzeDoneMsg) (screen.Screen, tea.Cmd) {
	if !s.ctrl.ApplyAnalyze(msg.Result) {
		return s, nil
	}
	s.cursor = 0
	if msg.Result.Err == nil && len(msg.Result.Tokens) > 0 {
		return s, s.setFocus(focusTokens)
	}
	return s, nil
}

func (s *ReaderScreen) handleLoad(msg loadPassageMsg) (screen.Screen, tea.Cmd) {
	if !s.ctrl.LoadPassage(msg.ID) {
		return s, nil
	}
	return s, s.showInput()
}

func (s *ReaderScreen) handleLoadExample() (screen.Screen, tea.Cmd) {
	s.ctrl.LoadExample()
	return s, s.showInput()
}

// showInput copies the controller's input into the editor and focuses it.
func (s *ReaderScreen) showInput() tea.Cmd {
	s.editor.SetValue(s.ctrl.Snapshot().InputText)
	return s.setFocus(focusEditor)
}

// analyzeCmd issues an analysis and runs it off the UI loop.
func (s *ReaderScreen) analyzeCmd() tea.Cmd {
	req, ok := s.ctrl.BeginAnalyze()
	if !ok {
		return nil
	}
	ctrl, ctx := s.ctrl, s.ctx
	return func() tea.Msg {
		return analyzeDoneMsg{Result: ctrl.RunAnalyze(ctx, req)}
	}
}

// explainCmd issues an explanation for tok and runs it off the UI loop.
func (s *ReaderScreen) explainCmd(tok rdr.Token) tea.Cmd {
	req, ok := s.ctrl.BeginExplain(tok)
	if !ok {
		return nil
	}
	ctrl, ctx := s.ctrl, s.ctx
	return func() tea.Msg {
		return explainDoneMsg{Result: ctrl.RunExplain(ctx, req)}
	}
}

func (s *ReaderScreen) saveCmd() tea.Cmd {
	ctrl, ctx := s.ctrl, s.ctx
	return func() tea.Msg {
		if !ctrl.Save(ctx) {
			return nil
		}
		return libraryChangedMsg{}
	}
}

func (s *ReaderScreen) deleteCmd(id int64) tea.Cmd {
	ctrl, ctx := s.ctrl, s.ctx
	return func() tea.Msg {
		ctrl.Delete(ctx, id)
		return libraryChangedMsg{}
	}
}

func pushHelp() tea.Cmd {
	return router.Push(help.New())
}

// refreshLibrary rebuilds the sidebar rows: the example first, then saved
// passages newest first.
func (s *ReaderScreen) refreshLibrary() {
	lib := s.ctrl.Snapshot().Library
	items := make([]components.MenuItem, 0, len(lib)+1)
	items = append(items, components.MenuItem{
		Label: "範例 " + rdr.ExamplePassage.Title,
		Cmd:   func() tea.Msg { return loadExampleMsg{} },
	})
	for _, p := range lib {
		items = append(items, components.MenuItem{
			Label: p.Content,
			Cmd:   loadCmd(p.ID),
		})
	}
	s.library.SetItems(items)
}

func loadCmd(id int64) tea.Cmd {
	return func() tea.Msg { return loadPassageMsg{ID: id} }
}

// selectedPassage returns the id of the saved passage under the sidebar
// cursor. The example row has none.
func (s *ReaderScreen) selectedPassage() (int64, bool) {
	i := s.library.Selected - 1
	lib := s.ctrl.Snapshot().Library
	if i < 0 || i >= len(lib) {
		return 0, false
	}
	return lib[i].ID, true
}
