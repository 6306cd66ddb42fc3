package components

import (
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
)

// TextArea wraps bubbles/textarea as the passage editor. Changed reports
// whether the last Update edited the text.
type TextArea struct {
	Model   textarea.Model
	changed bool
}

// NewTextArea creates a focused multi-line editor.
func NewTextArea(placeholder string, isDark bool) TextArea {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.Prompt = "┃ "
	ta.CharLimit = 0
	ta.SetStyles(textarea.DefaultStyles(isDark))
	ta.Focus()

	return TextArea{Model: ta}
}

// Init returns the initial command.
func (t TextArea) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextArea) Update(msg tea.Msg) (TextArea, tea.Cmd) {
	before := t.Model.Value()
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	t.changed = t.Model.Value() != before
	return t, cmd
}

// View renders the editor.
func (t TextArea) View() string {
	return t.Model.View()
}

// Value returns the current text.
func (t TextArea) Value() string {
	return t.Model.Value()
}

// SetValue replaces the text and moves the cursor to the end.
func (t *TextArea) SetValue(s string) {
	t.Model.SetValue(s)
	t.changed = false
}

// Changed reports whether the last Update edited the text.
func (t TextArea) Changed() bool {
	return t.changed
}

// SetSize sets the editor dimensions in cells.
func (t *TextArea) SetSize(width, height int) {
	t.Model.SetWidth(width)
	t.Model.SetHeight(height)
}

// Focus focuses the editor.
func (t *TextArea) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes focus from the editor.
func (t *TextArea) Blur() {
	t.Model.Blur()
}

// Focused reports whether the editor has focus.
func (t TextArea) Focused() bool {
	return t.Model.Focused()
}
