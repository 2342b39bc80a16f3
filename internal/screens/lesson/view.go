package lesson

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingua/internal/ledger"
	lsn "github.com/abhisek/lingua/internal/lesson"
	"github.com/abhisek/lingua/internal/tasks"
	"github.com/abhisek/lingua/internal/ui/components"
	"github.com/abhisek/lingua/internal/ui/theme"
)

func (s *LessonScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var body string
	switch {
	case s.errMsg != "":
		body = components.BorderedCard(
			theme.Incorrect.Render("Something went wrong")+"\n\n"+theme.Body.Render(s.errMsg),
			cw, theme.Error)
	case s.refused:
		body = s.renderGameOver(cw, nil)
	case s.view.Phase == lsn.PhaseGameOver:
		body = s.renderGameOver(cw, s.feedback)
	case s.view.Phase == lsn.PhaseNodeComplete:
		body = s.renderComplete(cw)
	case s.view.ConfirmLeave:
		body = s.renderLeaveConfirm(cw)
	case s.view.Task == nil:
		body = s.renderLoading(cw)
	default:
		body = s.renderTask(cw)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func (s *LessonScreen) renderLoading(cw int) string {
	var parts []string
	if s.feedback != nil {
		parts = append(parts, s.renderFeedback(cw), "")
	}
	parts = append(parts, s.renderProgress(cw), "",
		lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(s.deps.Label("syncing_neural")))
	return lipgloss.JoinVertical(lipgloss.Center, parts...)
}

func (s *LessonScreen) renderProgress(cw int) string {
	return components.NodeProgress{Done: s.view.Position, Total: tasks.TasksPerNode, Width: cw}.View()
}

func (s *LessonScreen) renderTask(cw int) string {
	t := s.view.Task
	if s.feedback != nil {
		return lipgloss.JoinVertical(lipgloss.Center, s.renderFeedback(cw), "", s.renderProgress(cw))
	}

	typeLine := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true).Render(strings.ToUpper(t.Type.Label()))
	if s.view.FromFallback {
		typeLine += lipgloss.NewStyle().Foreground(theme.TextDim).Render("  (offline)")
	}

	parts := []string{
		s.renderProgress(cw),
		"",
		typeLine,
		theme.Subtitle.Render(t.Instruction),
	}
	if t.Passage != "" {
		parts = append(parts, "", components.Card(theme.Body.Render(t.Passage), cw))
	}
	if t.Content != "" && t.Type != tasks.Listening {
		parts = append(parts, "", theme.Title.Render(t.Content))
	}
	parts = append(parts, "")

	switch {
	case t.Type == tasks.Listening:
		parts = append(parts, components.WordPool(s.view.Pool, s.view.Used, s.view.Arranged, cw))
		if len(s.view.Pool) > 0 {
			parts = append(parts, lipgloss.NewStyle().Foreground(theme.TextDim).
				Render(fmt.Sprintf("cursor on %d: %s", s.poolIdx+1, s.view.Pool[s.poolIdx])))
		}
	case t.Type.OptionBased():
		parts = append(parts, s.options.View())
	default:
		parts = append(parts, s.input.View())
	}

	if s.view.Evaluating {
		parts = append(parts, "", lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(s.deps.Label("syncing")))
	}
	if s.notice != "" {
		parts = append(parts, "", theme.Hint.Render(s.notice))
	}
	return lipgloss.JoinVertical(lipgloss.Center, parts...)
}

func (s *LessonScreen) renderFeedback(cw int) string {
	res := s.feedback
	var title string
	border := theme.Success
	switch res.Outcome {
	case lsn.OutcomeCorrect, lsn.OutcomeComplete:
		title = theme.Correct.Render("✓ " + s.deps.Label("excellent"))
	default:
		title = theme.Incorrect.Render("✗ " + s.deps.Label("incorrect_title"))
		border = theme.Error
	}

	lines := []string{title}
	if s.submitted != "" {
		lines = append(lines, "", theme.Hint.Render("“"+s.submitted+"”"))
	}
	if res.Feedback != "" {
		lines = append(lines, "", theme.Body.Render(s.deps.Label("reason_label")+": "+res.Feedback))
	}
	if res.HeartsLost > 0 {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(theme.Heart).Render(fmt.Sprintf("♥ -%d", res.HeartsLost)))
	}
	if s.notice != "" {
		lines = append(lines, "", theme.Hint.Render(s.notice))
	}
	return components.BorderedCard(strings.Join(lines, "\n"), cw, border)
}

func (s *LessonScreen) renderComplete(cw int) string {
	lines := []string{
		lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render("★ " + s.deps.Label("congratulations") + " ★"),
		"",
		theme.Body.Render(fmt.Sprintf("%s %d complete.", s.deps.Label("level"), s.node)),
	}
	if s.feedback != nil && s.feedback.LevelAdvanced {
		lines = append(lines, "",
			lipgloss.NewStyle().Foreground(theme.Energy).Render(fmt.Sprintf("⚡ +%d", s.feedback.EnergyGained)),
			theme.Hint.Render(fmt.Sprintf("%s %d unlocked", s.deps.Label("level"), s.node+1)))
	}
	if s.notice != "" {
		lines = append(lines, "", theme.Hint.Render(s.notice))
	}
	return components.BorderedCard(strings.Join(lines, "\n"), cw, theme.ArcadeYellow)
}

func (s *LessonScreen) renderGameOver(cw int, last *lsn.Result) string {
	lines := []string{
		lipgloss.NewStyle().Foreground(theme.Heart).Bold(true).Render(s.deps.Label("gameover")),
		"",
		theme.Body.Render("Reason: " + lsn.ExhaustionReason),
	}
	if last != nil && last.Feedback != "" {
		lines = append(lines, "", theme.Hint.Render(last.Feedback))
	}
	lines = append(lines, "",
		theme.Hint.Render(fmt.Sprintf("Refill hearts in the %s (♥ +10) or go premium.", s.deps.Label("shop"))))
	if acct := s.deps.Live.Get(); acct != nil && ledger.CanEnter(acct.Resources) {
		lines = append(lines, theme.Hint.Render("Hearts restored. You can try again."))
	}
	return components.BorderedCard(strings.Join(lines, "\n"), cw, theme.Heart)
}

func (s *LessonScreen) renderLeaveConfirm(cw int) string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		theme.Title.Render(s.deps.Label("leave_task_title")),
		"",
		theme.Body.Render(s.deps.Label("leave_task_body")),
		"",
		theme.Hint.Render(fmt.Sprintf("[Y] %s    [N] %s", s.deps.Label("yes_btn"), s.deps.Label("no_btn"))),
	)
	return components.BorderedCard(body, cw, theme.Accent)
}
