package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingua/internal/ui/theme"
)

// WordPool renders a listening task's sentence under construction above
// the numbered pool of words. Used words are dimmed.
func WordPool(pool []string, used []bool, arranged []string, cw int) string {
	sentence := strings.Join(arranged, " ")
	if sentence == "" {
		sentence = lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("pick words to build the sentence")
	} else {
		sentence = lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(sentence)
	}

	chips := make([]string, 0, len(pool))
	for i, w := range pool {
		style := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.ArcadeCyan).
			Foreground(theme.Text).
			Padding(0, 1)
		if i < len(used) && used[i] {
			style = style.Foreground(theme.TextDim).BorderForeground(theme.Border).Strikethrough(true)
		}
		chips = append(chips, style.Render(fmt.Sprintf("%d %s", i+1, w)))
	}

	return lipgloss.JoinVertical(lipgloss.Center,
		BorderedCard(sentence, cw, theme.Secondary),
		"",
		wrapChips(chips, cw),
	)
}

// wrapChips lays chips out left to right, breaking rows at width cw.
func wrapChips(chips []string, cw int) string {
	var rows []string
	var row []string
	rowWidth := 0
	for _, c := range chips {
		w := lipgloss.Width(c)
		if rowWidth > 0 && rowWidth+w+1 > cw {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, rowWidth = nil, 0
		}
		if rowWidth > 0 {
			row = append(row, " ")
			rowWidth++
		}
		row = append(row, c)
		rowWidth += w
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Center, rows...)
}
