// Package dictionary looks up words between the learner's native and
// target languages.
package dictionary

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingua/internal/oracle"
	"github.com/abhisek/lingua/internal/router"
	"github.com/abhisek/lingua/internal/screen"
	"github.com/abhisek/lingua/internal/ui/components"
	"github.com/abhisek/lingua/internal/ui/layout"
	"github.com/abhisek/lingua/internal/ui/theme"
)

// historySize caps the words kept for this visit.
const historySize = 8

type lookupMsg struct {
	Word string
	Def  *oracle.Definition
	Err  error
}

// DictionaryScreen is a search box with the latest definition below it.
type DictionaryScreen struct {
	deps    screen.Deps
	input   components.TextInput
	pending string
	current *oracle.Definition
	history []string
	errMsg  string

	// ctx is cancelled when the screen is left, dropping a running lookup.
	ctx    context.Context
	cancel context.CancelFunc
}

var (
	_ screen.Screen          = (*DictionaryScreen)(nil)
	_ screen.KeyHintProvider = (*DictionaryScreen)(nil)
	_ screen.BackInterceptor = (*DictionaryScreen)(nil)
)

// New creates the dictionary screen.
func New(deps screen.Deps) *DictionaryScreen {
	ctx, cancel := context.WithCancel(context.Background())
	return &DictionaryScreen{
		deps:   deps,
		input:  components.NewTextInput("", deps.Label("search"), 64, nil),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (d *DictionaryScreen) Init() tea.Cmd { return d.input.Focus() }

func (d *DictionaryScreen) Title() string { return d.deps.Label("dictionary") }

// InterceptsBack lets esc cancel a lookup in flight before popping.
func (d *DictionaryScreen) InterceptsBack() bool { return true }

func (d *DictionaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: d.deps.Label("define")},
		{Key: "Esc", Description: d.deps.Label("back")},
	}
}

func (d *DictionaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case lookupMsg:
		if msg.Word != d.pending {
			return d, nil
		}
		d.pending = ""
		if msg.Err != nil {
			d.errMsg = msg.Err.Error()
			return d, nil
		}
		d.current = msg.Def
		d.remember(msg.Word)
		return d, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter":
			return d, d.lookup()
		case "esc":
			d.cancel()
			d.pending = ""
			return d, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

func (d *DictionaryScreen) lookup() tea.Cmd {
	word := strings.TrimSpace(d.input.Value())
	if word == "" || d.deps.Dictionary == nil {
		return nil
	}
	acct := d.deps.Live.Get()
	if acct == nil {
		return nil
	}
	track, ok := acct.ActiveTrack()
	if !ok {
		return nil
	}

	d.pending = word
	d.errMsg = ""
	dict, ctx := d.deps.Dictionary, d.ctx
	return func() tea.Msg {
		def, err := dict.LookupWord(ctx, word, track.Native, track.Target)
		return lookupMsg{Word: word, Def: def, Err: err}
	}
}

func (d *DictionaryScreen) remember(word string) {
	for i, w := range d.history {
		if strings.EqualFold(w, word) {
			d.history = append(d.history[:i], d.history[i+1:]...)
			break
		}
	}
	d.history = append([]string{word}, d.history...)
	if len(d.history) > historySize {
		d.history = d.history[:historySize]
	}
}

func (d *DictionaryScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	parts := []string{components.Card(d.input.View(), cw)}

	switch {
	case d.pending != "":
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(d.deps.Label("syncing_neural")))
	case d.errMsg != "":
		parts = append(parts, theme.Incorrect.Render(d.errMsg))
	case d.current != nil:
		parts = append(parts, renderDefinition(d.current, cw))
	default:
		parts = append(parts, theme.Hint.Render(d.deps.Label("empty_dict")))
	}

	if len(d.history) > 1 {
		parts = append(parts, theme.Hint.Render("recent: "+strings.Join(d.history[1:], " · ")))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, parts...))
}

func renderDefinition(def *oracle.Definition, cw int) string {
	lines := []string{
		lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(def.Word) +
			"  " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(def.Phonetics),
		lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Render(def.Translation),
		"",
		theme.Body.Render(def.Definition),
	}
	if len(def.Synonyms) > 0 {
		lines = append(lines, "", theme.Hint.Render("≈ "+strings.Join(def.Synonyms, ", ")))
	}
	for _, ex := range def.Examples {
		lines = append(lines, theme.Body.Render("• "+ex))
	}
	return components.BorderedCard(strings.Join(lines, "\n"), cw, theme.ArcadeCyan)
}
