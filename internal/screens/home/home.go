// Package home is the main menu.
package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingua/internal/profile"
	"github.com/abhisek/lingua/internal/router"
	"github.com/abhisek/lingua/internal/screen"
	"github.com/abhisek/lingua/internal/screens/dictionary"
	"github.com/abhisek/lingua/internal/screens/lesson"
	"github.com/abhisek/lingua/internal/screens/roadmap"
	"github.com/abhisek/lingua/internal/screens/shop"
	"github.com/abhisek/lingua/internal/screens/welcome"
	"github.com/abhisek/lingua/internal/ui/components"
	"github.com/abhisek/lingua/internal/ui/layout"
	"github.com/abhisek/lingua/internal/ui/theme"
)

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 24

// HomeScreen shows the learner's track, resources and the main menu.
type HomeScreen struct {
	deps screen.Deps
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen.
func New(deps screen.Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}
	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: build()} }
		}
	}

	h.menu = components.NewMenu([]components.MenuItem{
		{Label: strings.ToUpper(deps.Label("continue")), Action: push(func() screen.Screen {
			return lesson.New(deps, h.currentNode())
		})},
		{Label: strings.ToUpper(deps.Label("roadmap")), Action: push(func() screen.Screen {
			return roadmap.New(deps)
		})},
		{Label: strings.ToUpper(deps.Label("shop")), Action: push(func() screen.Screen {
			return shop.New(deps)
		})},
		{Label: strings.ToUpper(deps.Label("dictionary")), Disabled: deps.Dictionary == nil, Action: push(func() screen.Screen {
			return dictionary.New(deps)
		})},
		{Label: "EXIT", Action: func() tea.Cmd { return tea.Quit }},
	})
	return h
}

// currentNode is the highest unlocked node, capped at the last one once
// the roadmap is finished.
func (h *HomeScreen) currentNode() int {
	acct := h.deps.Live.Get()
	if acct == nil {
		return 1
	}
	track, ok := acct.ActiveTrack()
	if !ok {
		return 1
	}
	return min(track.CurrentLevel, profile.TotalNodes)
}

func (h *HomeScreen) Init() tea.Cmd { return nil }

func (h *HomeScreen) Title() string { return "Home" }

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header and footer.
	bannerWidth := width
	if height+layout.HeaderHeight+layout.FooterHeight < 30 || layout.IsCompactWidth(width) {
		bannerWidth = 0 // forces the one-line banner
	}
	cw := components.ContentWidth(width)

	banner := welcome.RenderBanner(bannerWidth, lipgloss.NewStyle().Foreground(theme.ArcadeYellow))
	sections := []string{
		theme.Centered(lipgloss.NewStyle(), cw, banner),
		h.renderTrack(cw),
		h.menu.View(buttonWidth, cw),
	}
	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

// renderTrack shows the active language pair and roadmap position.
func (h *HomeScreen) renderTrack(cw int) string {
	acct := h.deps.Live.Get()
	if acct == nil {
		return ""
	}
	track, ok := acct.ActiveTrack()
	if !ok {
		return ""
	}

	level := fmt.Sprintf("%s %d/%d", h.deps.Label("level"), min(track.CurrentLevel, profile.TotalNodes), profile.TotalNodes)
	if track.Finished() {
		level = "ROADMAP COMPLETE"
	}
	line := strings.Join([]string{
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(acct.Nickname),
		lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Render(track.Native + " → " + track.Target),
		lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Render(level),
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(track.Tier.DisplayName()),
	}, "  ·  ")
	if acct.Resources.Premium {
		line += "  " + lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("★ "+h.deps.Label("premium"))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(line)
}
