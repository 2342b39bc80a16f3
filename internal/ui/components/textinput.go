package components

import (
	"unicode/utf8"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingua/internal/ui/theme"
)

// Filter decides whether a typed character is accepted.
type Filter func(r rune) bool

// Digits accepts 0-9 only.
func Digits(r rune) bool { return r >= '0' && r <= '9' }

// CardChars accepts digits and the separators people type in card numbers.
func CardChars(r rune) bool { return Digits(r) || r == ' ' || r == '-' }

// ExpiryChars accepts digits and the month/year slash.
func ExpiryChars(r rune) bool { return Digits(r) || r == '/' }

// TextInput wraps bubbles/textinput with a label and an optional character
// filter.
type TextInput struct {
	Model  textinput.Model
	Label  string
	Filter Filter
}

// NewTextInput creates a focused input. limit <= 0 means no limit.
func NewTextInput(label, placeholder string, limit int, filter Filter) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if limit > 0 {
		ti.CharLimit = limit
	}
	ti.Focus()
	return TextInput{Model: ti, Label: label, Filter: filter}
}

// Masked hides the typed characters.
func (t TextInput) Masked() TextInput {
	t.Model.EchoMode = textinput.EchoPassword
	t.Model.EchoCharacter = '•'
	return t
}

// Update drops single printable characters rejected by the filter and
// forwards everything else.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && t.Filter != nil {
		key := kmsg.String()
		if key == "space" {
			key = " "
		}
		if utf8.RuneCountInString(key) == 1 {
			r, _ := utf8.DecodeRuneInString(key)
			if !t.Filter(r) {
				return t, nil
			}
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// Focus focuses the input.
func (t *TextInput) Focus() tea.Cmd { return t.Model.Focus() }

// Blur removes focus.
func (t *TextInput) Blur() { t.Model.Blur() }

// View renders the label above the input. The label is highlighted while
// the input has focus.
func (t TextInput) View() string {
	label := lipgloss.NewStyle().Foreground(theme.TextDim)
	if t.Model.Focused() {
		label = label.Foreground(theme.ArcadeCyan).Bold(true)
	}
	if t.Label == "" {
		return t.Model.View()
	}
	return label.Render(t.Label) + "\n" + t.Model.View()
}

// Value returns the current text.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// Reset clears the text.
func (t *TextInput) Reset() {
	t.Model.SetValue("")
}
