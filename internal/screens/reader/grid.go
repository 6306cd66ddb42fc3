package reader

import (
	"strings"

	"charm.land/lipgloss/v2"

	rdr "github.com/abhisek/wenyan/internal/reader"
	"github.com/abhisek/wenyan/internal/ui/theme"
)

// gridOptions controls how the token grid is drawn.
type gridOptions struct {
	Width      int
	Cursor     int
	ShowCursor bool
	ShowRuby   bool

	// Explained is the token whose explanation is on screen, if any.
	Explained *rdr.Token
}

// cellWidth is the width of a token cell: the wider of glyphs and reading.
func cellWidth(tok rdr.Token) int {
	return max(lipgloss.Width(tok.Text), lipgloss.Width(tok.Phonetic), 1)
}

// layoutRows packs token indices into rows no wider than width, with one
// cell of gap between tokens. A token wider than width gets a row alone.
func layoutRows(tokens rdr.TokenSequence, width int) [][]int {
	var rows [][]int
	var row []int
	used := 0
	for i, tok := range tokens {
		w := cellWidth(tok)
		if len(row) > 0 && used+1+w > width {
			rows = append(rows, row)
			row, used = nil, 0
		}
		if len(row) > 0 {
			used++
		}
		row = append(row, i)
		used += w
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

// renderGrid draws tokens as ruby cells: the reading above, the glyphs
// coloured by part of speech below.
func renderGrid(tokens rdr.TokenSequence, opts gridOptions) string {
	var lines []string
	for _, row := range layoutRows(tokens, opts.Width) {
		cells := make([]string, 0, len(row)*2)
		for n, i := range row {
			if n > 0 {
				cells = append(cells, " ")
			}
			cells = append(cells, renderCell(tokens[i], i, opts))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(lines, "\n")
}

func renderCell(tok rdr.Token, i int, opts gridOptions) string {
	w := cellWidth(tok)
	atCursor := opts.ShowCursor && i == opts.Cursor
	explained := opts.Explained != nil && *opts.Explained == tok

	ruby := ""
	if opts.ShowRuby || atCursor || explained {
		ruby = theme.Ruby.Render(tok.Phonetic)
	}

	glyph := lipgloss.NewStyle().Foreground(theme.POSColor(tok.POS))
	if atCursor {
		glyph = glyph.Reverse(true)
	}
	if explained {
		glyph = glyph.Underline(true).Bold(true)
	}

	top := lipgloss.PlaceHorizontal(w, lipgloss.Center, ruby)
	bottom := lipgloss.PlaceHorizontal(w, lipgloss.Center, glyph.Render(tok.Text))
	return top + "\n" + bottom
}

// legend is the colour key for the part-of-speech classes.
func legend() string {
	entries := []struct {
		label string
		pos   string
	}{
		{"名詞", "n"},
		{"動詞", "v"},
		{"形容詞", "a"},
		{"副詞", "d"},
		{"介詞", "p"},
	}
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.POSColor(e.pos)).Render("■ "+e.label))
	}
	return strings.Join(parts, "  ")
}
