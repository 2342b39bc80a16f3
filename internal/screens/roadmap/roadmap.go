// Package roadmap shows the 25 nodes of the active track as a grid.
package roadmap

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingua/internal/profile"
	"github.com/abhisek/lingua/internal/router"
	"github.com/abhisek/lingua/internal/screen"
	"github.com/abhisek/lingua/internal/screens/lesson"
	"github.com/abhisek/lingua/internal/ui/components"
	"github.com/abhisek/lingua/internal/ui/layout"
	"github.com/abhisek/lingua/internal/ui/theme"
)

// columns is the grid width; TotalNodes divides evenly.
const columns = 5

const cellWidth = 8

// RoadmapScreen lets the learner pick any unlocked node.
type RoadmapScreen struct {
	deps   screen.Deps
	cursor int // 1-based node under the cursor
	notice string
}

var (
	_ screen.Screen          = (*RoadmapScreen)(nil)
	_ screen.KeyHintProvider = (*RoadmapScreen)(nil)
)

// New creates the roadmap with the cursor on the current node.
func New(deps screen.Deps) *RoadmapScreen {
	r := &RoadmapScreen{deps: deps, cursor: 1}
	if track, ok := r.track(); ok {
		r.cursor = min(max(track.CurrentLevel, 1), profile.TotalNodes)
	}
	return r
}

func (r *RoadmapScreen) track() (profile.Track, bool) {
	acct := r.deps.Live.Get()
	if acct == nil {
		return profile.Track{}, false
	}
	return acct.ActiveTrack()
}

func (r *RoadmapScreen) Init() tea.Cmd { return nil }

func (r *RoadmapScreen) Title() string { return r.deps.Label("roadmap") }

func (r *RoadmapScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←↑↓→", Description: "Move"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: r.deps.Label("back")},
	}
}

func (r *RoadmapScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return r, nil
	}
	r.notice = ""
	switch key.String() {
	case "left", "h":
		r.move(-1)
	case "right", "l":
		r.move(1)
	case "up", "k":
		r.move(-columns)
	case "down", "j":
		r.move(columns)
	case "enter":
		return r, r.open()
	case "q":
		return r, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return r, nil
}

func (r *RoadmapScreen) move(step int) {
	if n := r.cursor + step; n >= 1 && n <= profile.TotalNodes {
		r.cursor = n
	}
}

// open pushes the lesson for the cursor node if it is unlocked.
func (r *RoadmapScreen) open() tea.Cmd {
	track, ok := r.track()
	if !ok {
		return nil
	}
	if !track.CanEnter(r.cursor) {
		r.notice = fmt.Sprintf("%s %d is locked. Finish %s %d first.",
			r.deps.Label("level"), r.cursor, r.deps.Label("level"), track.CurrentLevel)
		return nil
	}
	node := r.cursor
	deps := r.deps
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: lesson.New(deps, node)}
	}
}

func (r *RoadmapScreen) View(width, height int) string {
	track, ok := r.track()
	if !ok {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("No active track."))
	}
	cw := components.ContentWidth(width)

	var rows []string
	for start := 1; start <= profile.TotalNodes; start += columns {
		cells := make([]string, 0, columns)
		for n := start; n < start+columns; n++ {
			cells = append(cells, r.renderCell(track, n))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	passed := min(track.CurrentLevel-1, profile.TotalNodes)
	header := fmt.Sprintf("%s → %s  ·  %s", track.Native, track.Target, track.Tier.DisplayName())
	sections := []string{
		theme.Centered(theme.Title, cw, strings.ToUpper(r.deps.Label("roadmap"))),
		theme.Centered(theme.Subtitle, cw, header),
		"",
		theme.Centered(lipgloss.NewStyle(), cw, strings.Join(rows, "\n")),
		"",
		theme.Centered(lipgloss.NewStyle(), cw,
			components.NodeProgress{Done: passed, Total: profile.TotalNodes, Width: min(cw-10, 40)}.View()),
	}
	if r.notice != "" {
		sections = append(sections, theme.Centered(theme.Incorrect, cw, r.notice))
	}
	return components.CabinetFrame(strings.Join(sections, "\n"), width, height)
}

func (r *RoadmapScreen) renderCell(track profile.Track, n int) string {
	var glyph string
	style := lipgloss.NewStyle().Width(cellWidth - 2).Align(lipgloss.Center).Border(lipgloss.RoundedBorder())

	switch track.StateOf(n) {
	case profile.NodePassed:
		glyph = "✓ " + fmt.Sprint(n)
		style = style.Foreground(theme.Success).BorderForeground(theme.Success)
	case profile.NodeCurrent:
		glyph = "▶ " + fmt.Sprint(n)
		style = style.Foreground(theme.ArcadeYellow).Bold(true).BorderForeground(theme.ArcadeYellow)
	default:
		glyph = "· " + fmt.Sprint(n)
		style = style.Foreground(theme.TextDim).BorderForeground(theme.TextDim)
	}
	if n == r.cursor {
		style = style.BorderStyle(lipgloss.DoubleBorder()).BorderForeground(theme.ArcadeCyan)
	}
	return style.Render(glyph)
}
