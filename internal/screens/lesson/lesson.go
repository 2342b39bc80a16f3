// Package lesson is the screen that plays one roadmap node.
package lesson

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/lingua/internal/evaluator"
	lsn "github.com/abhisek/lingua/internal/lesson"
	"github.com/abhisek/lingua/internal/router"
	"github.com/abhisek/lingua/internal/screen"
	"github.com/abhisek/lingua/internal/screens/shop"
	"github.com/abhisek/lingua/internal/tasks"
	"github.com/abhisek/lingua/internal/ui/components"
	"github.com/abhisek/lingua/internal/ui/layout"
)

// LessonScreen drives lesson.Machine for one node. Fetches and
// evaluations run as commands; results are reconciled by session token.
type LessonScreen struct {
	deps   screen.Deps
	node   int
	ctx    context.Context
	cancel context.CancelFunc

	// refused is set when entry was denied for lack of hearts.
	refused bool
	errMsg  string

	view      lsn.View
	options   components.OptionList
	input     components.TextInput
	poolIdx   int
	feedback  *lsn.Result
	submitted string
	notice    string
}

var (
	_ screen.Screen          = (*LessonScreen)(nil)
	_ screen.KeyHintProvider = (*LessonScreen)(nil)
	_ screen.BackInterceptor = (*LessonScreen)(nil)
)

// New enters node on the live account. A locked node or a game over at the
// gate is shown on the screen itself; no session exists in either case.
func New(deps screen.Deps, node int) *LessonScreen {
	ctx, cancel := context.WithCancel(context.Background())
	s := &LessonScreen{deps: deps, node: node, ctx: ctx, cancel: cancel}

	acct := deps.Live.Get()
	if acct == nil {
		s.errMsg = "No account. Finish onboarding first."
		return s
	}
	outcome, err := deps.Lessons.Enter(acct, node)
	switch {
	case err != nil:
		s.errMsg = err.Error()
	case outcome == lsn.OutcomeGameOver:
		s.refused = true
	}
	s.refresh()
	return s
}

func (s *LessonScreen) Init() tea.Cmd {
	if s.errMsg != "" || s.refused {
		return nil
	}
	return s.loadCmd()
}

func (s *LessonScreen) Title() string {
	return fmt.Sprintf("%s %d", s.deps.Label("level"), s.node)
}

// InterceptsBack is always true: esc either asks before leaving or closes
// a finished session properly.
func (s *LessonScreen) InterceptsBack() bool { return true }

func (s *LessonScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "any key", Description: s.deps.Label("back")}}
	case s.refused || s.view.Phase == lsn.PhaseGameOver:
		return []layout.KeyHint{
			{Key: "S", Description: s.deps.Label("shop")},
			{Key: "Enter", Description: s.deps.Label("back")},
		}
	case s.view.Phase == lsn.PhaseNodeComplete:
		return []layout.KeyHint{{Key: "Enter", Description: s.deps.Label("continue")}}
	case s.view.ConfirmLeave:
		return []layout.KeyHint{
			{Key: "Y", Description: s.deps.Label("yes_btn")},
			{Key: "N", Description: s.deps.Label("no_btn")},
		}
	case s.feedback != nil:
		return []layout.KeyHint{{Key: "any key", Description: s.deps.Label("continue")}}
	case s.view.Task == nil:
		return []layout.KeyHint{{Key: "Esc", Description: "Leave"}}
	}

	hints := []layout.KeyHint{{Key: "Enter", Description: "Submit"}}
	switch {
	case s.view.Task.Type == tasks.Listening:
		hints = append(hints,
			layout.KeyHint{Key: "1-9/Space", Description: "Pick"},
			layout.KeyHint{Key: "Bksp", Description: "Undo"},
			layout.KeyHint{Key: "R", Description: "Reset"},
		)
	case s.view.Task.Type.OptionBased():
		hints = append(hints, layout.KeyHint{Key: "↑↓/1-9", Description: "Choose"})
	}
	if speakable(s.view.Task) && s.deps.Speaker != nil {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+P", Description: s.deps.Label("replay_audio")})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Leave"})
}

func (s *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case taskLoadedMsg:
		return s.handleLoaded(msg)
	case submittedMsg:
		return s.handleSubmitted(msg)
	case audioReadyMsg:
		if msg.Err != nil {
			s.notice = "Audio unavailable: " + msg.Err.Error()
		} else {
			s.notice = "Audio saved to " + msg.Path
		}
		return s, nil
	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

// refresh copies the machine's view of the session.
func (s *LessonScreen) refresh() {
	v, ok := s.deps.Lessons.View()
	if !ok || v.Node != s.node {
		s.view = lsn.View{Phase: lsn.PhaseIdle}
		return
	}
	s.view = v
}

func (s *LessonScreen) loadCmd() tea.Cmd {
	machine, ctx := s.deps.Lessons, s.ctx
	return func() tea.Msg {
		l, err := machine.Load(ctx)
		return taskLoadedMsg{Loaded: l, Err: err}
	}
}

func (s *LessonScreen) handleLoaded(msg taskLoadedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		if errors.Is(msg.Err, lsn.ErrNoSession) || errors.Is(msg.Err, lsn.ErrBusy) {
			return s, nil
		}
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	if !s.deps.Lessons.Accept(msg.Loaded) {
		return s, nil
	}
	s.refresh()
	s.prepareInputs()
	return s, nil
}

// prepareInputs resets the answer widgets for a newly installed task.
func (s *LessonScreen) prepareInputs() {
	t := s.view.Task
	if t == nil {
		return
	}
	s.poolIdx = 0
	s.notice = ""
	s.options = components.NewOptionList(t.Options)
	switch t.Type {
	case tasks.WritingComposition:
		s.input = components.NewTextInput("Your composition", "Write at least a sentence...", 500, nil)
	case tasks.Speaking:
		s.input = components.NewTextInput("Recording", "Path to an audio file of your answer", 260, nil)
	default:
		s.input = components.NewTextInput("Answer", "", 0, nil)
	}
}

func (s *LessonScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, s.leave()
	}

	if s.refused || s.view.Phase.Terminal() {
		switch key {
		case "s", "S":
			if s.refused || s.view.Phase == lsn.PhaseGameOver {
				s.deps.Lessons.Exit()
				s.cancel()
				return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: shop.New(s.deps)} }
			}
		case "enter", "esc", "q":
			return s, s.leave()
		}
		return s, nil
	}

	if s.view.ConfirmLeave {
		switch key {
		case "y", "Y":
			if err := s.deps.Lessons.Abandon(); err != nil && !errors.Is(err, lsn.ErrNoSession) {
				s.errMsg = err.Error()
				return s, nil
			}
			return s, s.leave()
		case "n", "N", "esc":
			s.deps.Lessons.CancelAbandon()
			s.refresh()
		}
		return s, nil
	}

	if key == "esc" {
		if err := s.deps.Lessons.RequestAbandon(); err != nil {
			return s, s.leave()
		}
		s.refresh()
		return s, nil
	}

	if s.feedback != nil {
		s.feedback = nil
		return s, nil
	}

	t := s.view.Task
	if t == nil || s.view.Evaluating {
		return s, nil
	}

	if key == "ctrl+p" && speakable(t) {
		return s, s.playCmd(t.CorrectAnswer)
	}

	switch {
	case t.Type == tasks.Listening:
		return s.handlePoolKey(key)
	case t.Type.OptionBased():
		if key == "enter" {
			choice, ok := s.options.Choice()
			if !ok {
				return s, nil
			}
			return s.submit(evaluator.Submission{Text: choice}, choice)
		}
		s.options = s.options.Update(msg)
		return s, nil
	}

	if key == "enter" {
		return s.submitInput()
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// handlePoolKey edits the listening arrangement.
func (s *LessonScreen) handlePoolKey(key string) (screen.Screen, tea.Cmd) {
	pool := s.view.Pool
	switch key {
	case "left", "h":
		if s.poolIdx > 0 {
			s.poolIdx--
		}
	case "right", "l":
		if s.poolIdx < len(pool)-1 {
			s.poolIdx++
		}
	case "space":
		s.deps.Lessons.Pick(s.poolIdx)
	case "backspace":
		if n := len(s.view.Arranged); n > 0 {
			s.deps.Lessons.Unpick(n - 1)
		}
	case "r", "R":
		s.deps.Lessons.ResetArrangement()
	case "p", "P":
		if t := s.view.Task; t != nil {
			return s, s.playCmd(t.CorrectAnswer)
		}
	case "enter":
		if len(s.view.Arranged) < len(pool) {
			return s, nil
		}
		return s.submit(evaluator.Submission{}, strings.Join(s.view.Arranged, " "))
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(pool) {
				s.poolIdx = i
				s.deps.Lessons.Pick(i)
			}
		}
	}
	s.refresh()
	return s, nil
}

// submitInput submits the text field of writing and speaking tasks.
func (s *LessonScreen) submitInput() (screen.Screen, tea.Cmd) {
	value := strings.TrimSpace(s.input.Value())
	if value == "" {
		return s, nil
	}
	if s.view.Task.Type != tasks.Speaking {
		return s.submit(evaluator.Submission{Text: value}, value)
	}
	audio, err := readSample(value)
	if err != nil {
		s.notice = err.Error()
		return s, nil
	}
	return s.submit(evaluator.Submission{Audio: audio}, "recording "+value)
}

// submit evaluates sub off the UI goroutine and commits the resulting
// account before reporting back.
func (s *LessonScreen) submit(sub evaluator.Submission, shown string) (screen.Screen, tea.Cmd) {
	machine, live, ctx := s.deps.Lessons, s.deps.Live, s.ctx
	acct := live.Get()
	s.submitted = shown
	s.notice = ""
	s.view.Evaluating = true

	return s, func() tea.Msg {
		next, res, err := machine.Submit(ctx, acct, sub)
		if err != nil {
			return submittedMsg{Err: err}
		}
		msg := submittedMsg{Account: next, Result: res}
		if next != acct {
			// The outcome must be saved even if the screen was closed.
			msg.CommitErr = live.Commit(context.WithoutCancel(ctx), next)
		}
		return msg
	}
}

func (s *LessonScreen) handleSubmitted(msg submittedMsg) (screen.Screen, tea.Cmd) {
	if errors.Is(msg.Err, lsn.ErrStale) {
		return s, nil
	}
	s.refresh()
	if msg.Err != nil {
		s.notice = msg.Err.Error()
		return s, nil
	}
	if msg.CommitErr != nil {
		logrus.WithError(msg.CommitErr).Error("failed to save lesson outcome")
		s.notice = "Progress could not be saved: " + msg.CommitErr.Error()
	}

	res := msg.Result
	s.feedback = &res
	s.input.Reset()

	if s.view.Phase == lsn.PhaseAdvancing {
		return s, s.loadCmd()
	}
	return s, nil
}

func (s *LessonScreen) playCmd(text string) tea.Cmd {
	speaker, ctx := s.deps.Speaker, s.ctx
	if speaker == nil || strings.TrimSpace(text) == "" {
		return nil
	}
	s.notice = s.deps.Label("syncing")
	return func() tea.Msg {
		audio, err := speaker.SynthesizeSpeech(ctx, text)
		if err != nil {
			return audioReadyMsg{Err: err}
		}
		path, err := writeSample(audio)
		return audioReadyMsg{Path: path, Err: err}
	}
}

// leave closes the session, finished or not, stops in-flight work and
// pops back.
func (s *LessonScreen) leave() tea.Cmd {
	s.refresh()
	switch {
	case s.view.Phase.Terminal():
		s.deps.Lessons.Exit()
	case s.view.Phase != lsn.PhaseIdle:
		// Reached only on errors; discarding is the same as a confirmed leave.
		if err := s.deps.Lessons.RequestAbandon(); err == nil {
			_ = s.deps.Lessons.Abandon()
		}
	}
	s.cancel()
	return func() tea.Msg { return router.PopScreenMsg{} }
}

// speakable reports whether the task has a sentence worth playing aloud.
func speakable(t *tasks.Task) bool {
	return t != nil && (t.Type == tasks.Listening || t.Type == tasks.Speaking)
}
