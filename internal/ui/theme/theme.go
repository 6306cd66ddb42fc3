// Package theme is the ink-and-cinnabar palette shared by every screen.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/wenyan/internal/reader"
)

// Ground and ink.
var (
	Primary   = lipgloss.Color("#C2410C") // cinnabar seal
	Secondary = lipgloss.Color("#0D9488") // jade
	Accent    = lipgloss.Color("#D4A017") // gold leaf
	Error     = lipgloss.Color("#F43F5E")
	Text      = lipgloss.Color(TextHex)
	TextDim   = lipgloss.Color(PunctuationHex)
	BgCard    = lipgloss.Color("#292524") // inkstone
	Border    = lipgloss.Color("#44403C")
)

// Glyph colours by part of speech. They are hex strings so that the
// analyze command can print them through termenv.
const (
	NounHex        = "#60A5FA"
	VerbHex        = "#F87171"
	AdjectiveHex   = "#34D399"
	AdverbHex      = "#FBBF24"
	PrepositionHex = "#C084FC"
	PunctuationHex = "#A8A29E"
	TextHex        = "#F5F0E6"
)

// POSHex returns the glyph colour for a part-of-speech tag. Tags outside
// the coloured categories get plain text colour.
func POSHex(pos string) string {
	switch reader.CategoryOf(pos) {
	case reader.CategoryNoun:
		return NounHex
	case reader.CategoryVerb:
		return VerbHex
	case reader.CategoryAdjective:
		return AdjectiveHex
	case reader.CategoryAdverb:
		return AdverbHex
	case reader.CategoryPreposition:
		return PrepositionHex
	case reader.CategoryPunctuation:
		return PunctuationHex
	default:
		return TextHex
	}
}

// POSColor is POSHex as a lipgloss colour.
func POSColor(pos string) color.Color {
	return lipgloss.Color(POSHex(pos))
}

var (
	Body   = lipgloss.NewStyle().Foreground(Text)
	Hint   = lipgloss.NewStyle().Foreground(TextDim).Italic(true)
	Ruby   = lipgloss.NewStyle().Foreground(TextDim)
	Notice = lipgloss.NewStyle().Foreground(Error).Bold(true)

	Selected   = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Unselected = lipgloss.NewStyle().Foreground(Text)
)

var (
	// Card frames standalone content such as the help sheet.
	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	// Panel frames one reader column; PanelFocused marks the column that
	// receives keys.
	Panel        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Border).Padding(0, 1)
	PanelFocused = Panel.BorderForeground(Primary)
)
