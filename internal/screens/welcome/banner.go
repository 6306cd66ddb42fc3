package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/wenyan/internal/ui/theme"
)

// sealArt is a square seal stamp reading 文言, top to bottom, right to left.
const sealArt = `╔═══════════╗
║  言   文  ║
║           ║
║  閱   讀  ║
╚═══════════╝`

const bannerCompact = "文 言"

// RenderSeal returns the seal in cinnabar. Uses a compact fallback for
// terminals narrower than 20 columns.
func RenderSeal(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 20 {
		return style.Render(bannerCompact)
	}
	return style.Render(sealArt)
}
