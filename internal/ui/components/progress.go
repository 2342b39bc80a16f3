package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingua/internal/ui/theme"
)

// NodeProgress shows how far into a node the learner is: one segment per
// task, answered ones filled.
type NodeProgress struct {
	Done  int
	Total int
	Width int
}

// View renders the segmented bar followed by "done/total".
func (p NodeProgress) View() string {
	if p.Total <= 0 {
		return ""
	}
	label := fmt.Sprintf("  %d/%d", p.Done, p.Total)
	seg := (p.Width - len(label)) / p.Total
	if seg < 2 {
		seg = 2
	}

	filled := lipgloss.NewStyle().Background(theme.Secondary)
	empty := lipgloss.NewStyle().Background(theme.Border)

	var b strings.Builder
	for i := range p.Total {
		cell := strings.Repeat(" ", seg-1)
		if i < p.Done {
			b.WriteString(filled.Render(cell))
		} else {
			b.WriteString(empty.Render(cell))
		}
		b.WriteString(" ")
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(label))
	return b.String()
}
