package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingua/internal/router"
	"github.com/abhisek/lingua/internal/screen"
	"github.com/abhisek/lingua/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 500 * time.Millisecond
	phase2End    = 1500 * time.Millisecond
	totalDur     = 4500 * time.Millisecond
)

// Two speech bubbles talking to each other.
const bubblesArt = `  ╭────────╮
  │ Hello! │
  ╰──┬─────╯   ╭─────────╮
     ╰         │ ¡Hola!  │
               ╰─────┬───╯
                     ╯`

// glyphs cycle around the bubbles
var glyphFrames = []string{"あ", "Ж", "é", "文"}

type tickMsg time.Time

// WelcomeScreen shows a splash animation before handing over to the screen
// built by next.
type WelcomeScreen struct {
	next         func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen. next is called once, on the first key
// press.
func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tea.Tick(tickInterval, func(t time.Time) tea.Msg {
			return tickMsg(t)
		})

	case tea.KeyPressMsg:
		// Any key skips the rest of the animation.
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	target := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: target}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	rendered := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Render(bubblesArt)

	if w.elapsed >= phase1End {
		glyph := glyphFrames[w.tickCount%len(glyphFrames)]
		left := lipgloss.NewStyle().Foreground(theme.Accent).Render(glyph)
		right := lipgloss.NewStyle().Foreground(theme.Secondary).Render(glyph)

		lines := strings.Split(rendered, "\n")
		for _, i := range []int{0, 3, 5} {
			if i < len(lines) {
				lines[i] = left + "  " + lines[i] + "  " + right
			}
		}
		rendered = strings.Join(lines, "\n")
	}

	sections := []string{rendered}

	if w.elapsed >= phase2End {
		tagline := lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render("Five tasks a node. Twenty-five nodes a language.")
		hint := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to continue")
		sections = append(sections, "", PrimaryBanner(width), "", tagline, "", hint)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
