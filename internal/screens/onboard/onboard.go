// Package onboard is the first-run form that creates the account.
package onboard

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/lingua/internal/account"
	"github.com/abhisek/lingua/internal/i18n"
	"github.com/abhisek/lingua/internal/profile"
	"github.com/abhisek/lingua/internal/router"
	"github.com/abhisek/lingua/internal/screen"
	"github.com/abhisek/lingua/internal/ui/components"
	"github.com/abhisek/lingua/internal/ui/layout"
	"github.com/abhisek/lingua/internal/ui/theme"
)

// localizeTimeout bounds the UI translation at signup.
const localizeTimeout = 30 * time.Second

// Form steps. The tier picker comes last.
const (
	stepNickname = iota
	stepNative
	stepTarget
	stepTier
)

// createdMsg reports the result of creating and saving the account.
type createdMsg struct {
	Err error
}

// OnboardScreen collects nickname, native language, target language and
// tier, then creates the account with its UI strings in the native
// language.
type OnboardScreen struct {
	deps   screen.Deps
	next   func() screen.Screen
	fields [stepTier]components.TextInput
	tiers  components.OptionList
	step   int
	saving bool
	errMsg string
}

var (
	_ screen.Screen          = (*OnboardScreen)(nil)
	_ screen.KeyHintProvider = (*OnboardScreen)(nil)
)

// New creates the form. next builds the screen shown after signup.
func New(deps screen.Deps, next func() screen.Screen) *OnboardScreen {
	o := &OnboardScreen{deps: deps, next: next}
	o.fields[stepNickname] = components.NewTextInput(deps.Label("nickname"), "at least 3 characters", 24, nil)
	o.fields[stepNative] = components.NewTextInput(deps.Label("native_tongue"), "English", 32, nil)
	o.fields[stepTarget] = components.NewTextInput(deps.Label("learning_goal"), "Spanish", 32, nil)
	o.fields[stepNative].Blur()
	o.fields[stepTarget].Blur()

	labels := make([]string, 0, len(profile.AllTiers()))
	for _, t := range profile.AllTiers() {
		labels = append(labels, t.DisplayName())
	}
	o.tiers = components.NewOptionList(labels)
	return o
}

func (o *OnboardScreen) Init() tea.Cmd { return o.fields[stepNickname].Focus() }

func (o *OnboardScreen) Title() string { return "Welcome" }

func (o *OnboardScreen) KeyHints() []layout.KeyHint {
	if o.saving {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Next"},
		{Key: "Shift+Tab", Description: "Previous"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (o *OnboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case createdMsg:
		o.saving = false
		if msg.Err != nil {
			o.errMsg = msg.Err.Error()
			return o, nil
		}
		target := o.next()
		return o, func() tea.Msg { return router.ResetScreenMsg{Screen: target} }

	case tea.KeyPressMsg:
		if o.saving {
			return o, nil
		}
		switch msg.String() {
		case "shift+tab":
			return o, o.goTo(max(o.step-1, 0))
		case "enter", "tab":
			return o, o.advance()
		}
		if o.step == stepTier {
			o.tiers = o.tiers.Update(msg)
			return o, nil
		}
		var cmd tea.Cmd
		o.fields[o.step], cmd = o.fields[o.step].Update(msg)
		return o, cmd
	}
	return o, nil
}

func (o *OnboardScreen) goTo(step int) tea.Cmd {
	if o.step < stepTier {
		o.fields[o.step].Blur()
	}
	o.step = step
	if step < stepTier {
		return o.fields[step].Focus()
	}
	return nil
}

// advance validates the current step and moves on, submitting after the
// tier picker.
func (o *OnboardScreen) advance() tea.Cmd {
	o.errMsg = ""
	switch o.step {
	case stepNickname:
		if len(strings.TrimSpace(o.fields[stepNickname].Value())) < 3 {
			o.errMsg = "Nickname must be at least 3 characters."
			return nil
		}
	case stepNative:
		if strings.TrimSpace(o.fields[stepNative].Value()) == "" {
			o.fields[stepNative].Model.SetValue("English")
		}
	case stepTarget:
		if strings.TrimSpace(o.fields[stepTarget].Value()) == "" {
			o.errMsg = "Choose a language to learn."
			return nil
		}
	case stepTier:
		return o.create()
	}
	return o.goTo(o.step + 1)
}

// create builds the account, localizes the UI into the native language
// and persists it. Translation failures keep the English strings.
func (o *OnboardScreen) create() tea.Cmd {
	tier := profile.AllTiers()[o.tiers.Selected]
	nickname := o.fields[stepNickname].Value()
	native := strings.TrimSpace(o.fields[stepNative].Value())
	target := strings.TrimSpace(o.fields[stepTarget].Value())

	acct, err := account.New(o.deps.Identity, nickname, native, target, tier)
	if err != nil {
		o.errMsg = err.Error()
		return nil
	}
	o.saving = true

	live, translator := o.deps.Live, o.deps.Translator
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), localizeTimeout)
		defer cancel()
		if table, err := i18n.Localize(ctx, translator, native); err == nil {
			acct.Strings = table
		}
		if err := live.Commit(context.Background(), acct); err != nil {
			return createdMsg{Err: err}
		}
		logrus.WithFields(logrus.Fields{
			"account": acct.ID,
			"native":  native,
			"target":  target,
			"tier":    tier,
		}).Info("account created")
		return createdMsg{}
	}
}

func (o *OnboardScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	rows := []string{
		theme.Title.Render("Set up your neural path"),
		"",
	}
	for i := range o.fields {
		rows = append(rows, o.fields[i].View(), "")
	}

	tierLabel := lipgloss.NewStyle().Foreground(theme.TextDim)
	if o.step == stepTier {
		tierLabel = tierLabel.Foreground(theme.ArcadeCyan).Bold(true)
	}
	picker := o.tiers
	picker.Locked = o.step != stepTier
	rows = append(rows, tierLabel.Render(o.deps.Label("rank")), picker.View())

	if o.step == stepTier {
		tier := profile.AllTiers()[o.tiers.Selected]
		rows = append(rows, "", theme.Hint.Render(tier.Difficulty()))
	}
	if o.saving {
		rows = append(rows, "", lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(o.deps.Label("syncing")))
	}
	if o.errMsg != "" {
		rows = append(rows, "", theme.Incorrect.Render(o.errMsg))
	}

	return components.CabinetFrame(components.Card(strings.Join(rows, "\n"), cw), width, height)
}
