// Package layout draws the frame around screens: the header bar, the
// key-hint footer and the three reader columns.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/wenyan/internal/ui/theme"
)

// Smallest terminal the reader can be drawn in.
const (
	MinWidth  = 80
	MinHeight = 24
)

// compactWidth is the width below which the library sidebar narrows.
const compactWidth = 100

// KeyHint is one "key description" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall reports whether width x height is below MinWidth x MinHeight.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage fills the terminal with a resize request.
func RenderMinSizeMessage(width, height int) string {
	text := fmt.Sprintf("終端機視窗太小\n\n請調整至至少 %d x %d\n\n目前：%d x %d",
		MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(text))
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

// RenderHeader draws the app name on the left, title centred and the number
// of saved passages on the right.
func RenderHeader(title string, passages int, width int) string {
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  文言 wenyan")
	name := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	count := lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("藏 %d 篇", passages))

	inner := max(width-4, 0)
	bw, nw, cw := lipgloss.Width(brand), lipgloss.Width(name), lipgloss.Width(count)
	gapL := max((inner-nw)/2-bw, 1)
	gapR := max(inner-bw-gapL-nw-cw, 1)

	line := brand + strings.Repeat(" ", gapL) + name + strings.Repeat(" ", gapR) + count
	return bar(width).Render(line)
}

// RenderFooter draws hints left to right.
func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	var b strings.Builder
	b.WriteString(" ")
	for _, h := range hints {
		b.WriteString("  " + key.Render(h.Key) + " " + desc.Render(h.Description) + " ")
	}
	return bar(width).Render(strings.TrimRight(b.String(), " "))
}

// RenderFrame stacks header, content and footer, giving content whatever
// height the bars leave.
func RenderFrame(header, content, footer string, width, height int) string {
	body := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	middle := lipgloss.NewStyle().Width(width).Height(body).MaxHeight(body).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, middle, footer)
}

// Columns splits the content width into the library sidebar, the reading
// column and the explanation panel.
func Columns(width int) (sidebar, main, panel int) {
	sidebar = 26
	if width < compactWidth {
		sidebar = 20
	}
	panel = width / 3
	main = max(width-sidebar-panel, 0)
	return sidebar, main, panel
}

// TruncateLine cuts s to its first line and to at most width cells,
// marking the cut with an ellipsis.
func TruncateLine(s string, width int) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i] + "…"
	}
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
