package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingua/internal/ui/theme"
)

// OptionList is a lettered single-choice picker. Options can be chosen with
// the arrow keys or directly by number.
type OptionList struct {
	Options  []string
	Selected int
	Locked   bool
}

// NewOptionList creates a picker with the first option highlighted.
func NewOptionList(options []string) OptionList {
	return OptionList{Options: options}
}

// Update moves the highlight. It never submits; the caller reads Choice
// on enter.
func (o OptionList) Update(msg tea.Msg) OptionList {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || o.Locked || len(o.Options) == 0 {
		return o
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if o.Selected > 0 {
			o.Selected--
		}
	case "down", "j":
		if o.Selected < len(o.Options)-1 {
			o.Selected++
		}
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(o.Options) {
				o.Selected = i
			}
		}
	}
	return o
}

// Choice returns the highlighted option text.
func (o OptionList) Choice() (string, bool) {
	if o.Selected < 0 || o.Selected >= len(o.Options) {
		return "", false
	}
	return o.Options[o.Selected], true
}

// View renders one line per option.
func (o OptionList) View() string {
	lines := make([]string, 0, len(o.Options))
	for i, opt := range o.Options {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case o.Locked:
			style = style.Foreground(theme.TextDim)
		case i == o.Selected:
			prefix = "▸ "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		lines = append(lines, style.Render(fmt.Sprintf("%s%c)  %s", prefix, 'A'+rune(i%26), opt)))
	}
	return strings.Join(lines, "\n")
}
