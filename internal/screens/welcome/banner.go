package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingua/internal/ui/theme"
)

const bannerArt = `
██╗     ██╗███╗   ██╗ ██████╗ ██╗   ██╗ █████╗
██║     ██║████╗  ██║██╔════╝ ██║   ██║██╔══██╗
██║     ██║██╔██╗ ██║██║  ███╗██║   ██║███████║
██║     ██║██║╚██╗██║██║   ██║██║   ██║██╔══██║
███████╗██║██║ ╚████║╚██████╔╝╚██████╔╝██║  ██║
╚══════╝╚═╝╚═╝  ╚═══╝ ╚═════╝  ╚═════╝ ╚═╝  ╚═╝`

const bannerCompact = "L · I · N · G · U · A"

// bannerMinWidth is the narrowest terminal that fits the block letters.
const bannerMinWidth = 52

// RenderBanner returns the block-letter title in color c, or a one-line
// fallback on narrow terminals.
func RenderBanner(width int, c lipgloss.Style) string {
	style := c.Bold(true)
	if width < bannerMinWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}

// PrimaryBanner is RenderBanner in the primary color.
func PrimaryBanner(width int) string {
	return RenderBanner(width, lipgloss.NewStyle().Foreground(theme.Primary))
}
