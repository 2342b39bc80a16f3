package lesson

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/lingua/internal/account"
	"github.com/abhisek/lingua/internal/evaluator"
	"github.com/abhisek/lingua/internal/ledger"
	"github.com/abhisek/lingua/internal/metrics"
	"github.com/abhisek/lingua/internal/profile"
	"github.com/abhisek/lingua/internal/store"
	"github.com/abhisek/lingua/internal/tasks"
)

// TaskSource fills node positions.
type TaskSource interface {
	Fetch(ctx context.Context, in tasks.FetchInput) (tasks.Fetched, error)
}

// Judge evaluates submissions.
type Judge interface {
	Evaluate(ctx context.Context, task tasks.Task, sub evaluator.Submission, tier profile.Tier) evaluator.Result
}

// OutcomeRecorder persists answer outcomes.
type OutcomeRecorder interface {
	AppendLessonEvent(ctx context.Context, data store.LessonEventData) error
}

// Machine is the lesson state machine. It owns at most one session. All
// methods are safe for concurrent use; fetches and evaluations run outside
// the lock and are reconciled by session token.
type Machine struct {
	source   TaskSource
	judge    Judge
	recorder OutcomeRecorder
	metrics  *metrics.Metrics

	mu        sync.Mutex
	session   *session
	track     profile.Track
	accountID string
	lastToken uint64
}

// Option configures a Machine.
type Option func(*Machine)

// WithRecorder persists every outcome.
func WithRecorder(r OutcomeRecorder) Option {
	return func(m *Machine) { m.recorder = r }
}

// WithMetrics counts outcomes.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Machine) { m.metrics = mt }
}

// NewMachine creates an idle Machine.
func NewMachine(source TaskSource, judge Judge, opts ...Option) *Machine {
	m := &Machine{source: source, judge: judge}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return PhaseIdle
	}
	return m.session.phase
}

// View returns a snapshot of the session, or false when idle.
func (m *Machine) View() (View, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.session
	if s == nil {
		return View{Phase: PhaseIdle}, false
	}
	v := View{
		Phase:        s.phase,
		Token:        s.token,
		Node:         s.node,
		Position:     s.position,
		FromFallback: s.fromFallback,
		Loading:      s.loading,
		Evaluating:   s.evaluating,
		ConfirmLeave: s.confirmLeave,
	}
	if s.task != nil {
		t := *s.task
		v.Task = &t
	}
	if s.arrangement != nil {
		v.Pool = s.arrangement.Pool()
		v.Used = make([]bool, len(v.Pool))
		for i := range v.Pool {
			v.Used[i] = s.arrangement.Used(i)
		}
		v.Arranged = s.arrangement.Words()
	}
	return v, true
}

// Enter starts node on the account's active track. A locked node is an
// error and creates nothing. An account without hearts that is not
// premium gets OutcomeGameOver and no session.
func (m *Machine) Enter(acct *account.Account, node int) (Outcome, error) {
	track, ok := acct.ActiveTrack()
	if !ok {
		return "", fmt.Errorf("account %q has no language track", acct.ID)
	}
	if !track.CanEnter(node) {
		return "", fmt.Errorf("enter node %d (unlocked up to %d): %w", node, track.CurrentLevel, ErrNodeLocked)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil && !m.session.phase.Terminal() {
		return "", ErrBusy
	}

	if !ledger.CanEnter(acct.Resources) {
		logrus.WithFields(logrus.Fields{
			"account": acct.ID,
			"node":    node,
		}).Info("entry refused: " + ExhaustionReason)
		m.metrics.LessonOutcome(string(OutcomeGameOver))
		m.session = nil
		return OutcomeGameOver, nil
	}

	m.lastToken++
	m.session = &session{
		token:    m.lastToken,
		node:     node,
		position: 0,
		phase:    PhaseAdvancing,
	}
	m.track = track
	m.accountID = acct.ID

	logrus.WithFields(logrus.Fields{
		"account": acct.ID,
		"node":    node,
		"tier":    track.Tier,
	}).Debug("entered node")
	return OutcomeEntered, nil
}

// Load fetches the task for the current position. It blocks on the content
// service and is meant to run off the UI goroutine; hand the result to
// Accept.
func (m *Machine) Load(ctx context.Context) (TaskLoaded, error) {
	m.mu.Lock()
	s := m.session
	if s == nil || s.phase.Terminal() {
		m.mu.Unlock()
		return TaskLoaded{}, ErrNoSession
	}
	if s.loading || s.evaluating || s.phase != PhaseAdvancing {
		m.mu.Unlock()
		return TaskLoaded{}, ErrBusy
	}
	s.loading = true
	in := tasks.FetchInput{Node: s.node, Position: s.position, Track: m.track}
	token := s.token
	m.mu.Unlock()

	fetched, err := m.source.Fetch(ctx, in)

	m.mu.Lock()
	if m.session != nil && m.session.token == token {
		m.session.loading = false
	}
	m.mu.Unlock()

	if err != nil {
		return TaskLoaded{}, err
	}
	return TaskLoaded{Token: token, Position: in.Position, Fetched: fetched}, nil
}

// Accept installs a loaded task. Results from an abandoned or replaced
// session, or for a position the session has left, are dropped and
// Accept returns false.
func (m *Machine) Accept(l TaskLoaded) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.session
	if s == nil || s.token != l.Token || s.position != l.Position || s.phase != PhaseAdvancing {
		logrus.WithField("token", l.Token).Debug("dropping stale task")
		return false
	}

	task := l.Fetched.Task
	s.task = &task
	s.fromFallback = l.Fetched.FromFallback
	s.arrangement = nil
	if l.Fetched.Pool != nil {
		s.arrangement = tasks.NewArrangement(l.Fetched.Pool)
	}
	s.loading = false
	s.phase = PhaseInNode
	return true
}

// Pick moves pool slot i into the arrangement.
func (m *Machine) Pick(i int) bool {
	return m.arrange(func(a *tasks.Arrangement) bool { return a.Pick(i) })
}

// Unpick returns arrangement position i to the pool.
func (m *Machine) Unpick(i int) bool {
	return m.arrange(func(a *tasks.Arrangement) bool { return a.Unpick(i) })
}

// ResetArrangement returns every word to the pool.
func (m *Machine) ResetArrangement() bool {
	return m.arrange(func(a *tasks.Arrangement) bool { a.Reset(); return true })
}

func (m *Machine) arrange(fn func(*tasks.Arrangement) bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.session
	if s == nil || s.phase != PhaseInNode || s.evaluating || s.arrangement == nil {
		return false
	}
	return fn(s.arrangement)
}

// Submit evaluates sub against the current task and returns the account
// with the outcome applied. For listening tasks the session's arrangement
// is the answer and sub.Text is ignored.
//
// Account changes happen only here, at the outcome boundary. If the
// session is abandoned while the evaluation runs, the result is dropped,
// acct is returned unchanged and the error is ErrStale.
func (m *Machine) Submit(ctx context.Context, acct *account.Account, sub evaluator.Submission) (*account.Account, Result, error) {
	m.mu.Lock()
	s := m.session
	if s == nil || s.phase != PhaseInNode || s.task == nil {
		m.mu.Unlock()
		return acct, Result{}, ErrNoSession
	}
	if s.evaluating {
		m.mu.Unlock()
		return acct, Result{}, ErrBusy
	}
	task := *s.task
	if task.Type == tasks.Listening && s.arrangement != nil {
		if !s.arrangement.Complete() {
			m.mu.Unlock()
			return acct, Result{}, ErrIncomplete
		}
		sub.Text = s.arrangement.Sentence()
	}
	s.evaluating = true
	s.confirmLeave = false
	token := s.token
	tier := m.track.Tier
	m.mu.Unlock()

	verdict := m.judge.Evaluate(ctx, task, sub, tier)

	m.mu.Lock()
	defer m.mu.Unlock()

	s = m.session
	if s == nil || s.token != token {
		return acct, Result{}, ErrStale
	}
	s.evaluating = false

	answered := answeredTask{node: s.node, position: s.position, task: task, fromFallback: s.fromFallback}
	next, res := m.apply(acct, s, verdict)
	m.record(ctx, next, answered, res)
	return next, res, nil
}

// apply computes the outcome and moves the session. Called with mu held.
func (m *Machine) apply(acct *account.Account, s *session, verdict evaluator.Result) (*account.Account, Result) {
	res := Result{Correct: verdict.Correct, Feedback: verdict.Feedback, Graded: verdict.Graded}

	if verdict.Correct {
		if s.position+1 < tasks.TasksPerNode {
			s.position++
			s.task = nil
			s.arrangement = nil
			s.phase = PhaseAdvancing
			res.Outcome = OutcomeCorrect
			return acct, res
		}

		res.Outcome = OutcomeComplete
		s.phase = PhaseNodeComplete
		s.task = nil

		track, _ := acct.ActiveTrack()
		if track.ID != m.track.ID {
			track = m.track
		}
		advanced, ok := track.Complete(s.node)
		if !ok {
			return acct, res
		}
		res.LevelAdvanced = true
		res.EnergyGained = ledger.NodeCompletionEnergy
		next := acct.WithTrack(advanced)
		next.Resources = ledger.Apply(next.Resources, ledger.Delta{Energy: ledger.NodeCompletionEnergy})
		m.track = advanced
		return next, res
	}

	before := acct.Resources
	delta := ledger.LoseHeart(before)
	next := acct.WithResources(ledger.Apply(before, delta))
	res.HeartsLost = -delta.Hearts

	// Losing the last heart supersedes the plain wrong-answer outcome.
	if !before.Premium && before.Hearts == 1 {
		res.Outcome = OutcomeGameOver
		s.phase = PhaseGameOver
		s.task = nil
		return next, res
	}

	// A wrong answer keeps the position; a fresh task is fetched for it.
	res.Outcome = OutcomeIncorrect
	s.task = nil
	s.arrangement = nil
	s.phase = PhaseAdvancing
	return next, res
}

type answeredTask struct {
	node         int
	position     int
	task         tasks.Task
	fromFallback bool
}

func (m *Machine) record(ctx context.Context, acct *account.Account, a answeredTask, res Result) {
	m.metrics.LessonOutcome(string(res.Outcome))

	fields := logrus.Fields{
		"account":  acct.ID,
		"node":     a.node,
		"position": a.position,
		"type":     a.task.Type,
		"outcome":  res.Outcome,
		"hearts":   acct.Resources.Hearts,
		"energy":   acct.Resources.Energy,
	}
	if res.Outcome == OutcomeGameOver {
		logrus.WithFields(fields).Info(ExhaustionReason)
	} else {
		logrus.WithFields(fields).Debug("answer evaluated")
	}

	if m.recorder == nil {
		return
	}
	track, _ := acct.ActiveTrack()
	err := m.recorder.AppendLessonEvent(ctx, store.LessonEventData{
		AccountID:     acct.ID,
		TrackID:       track.ID,
		Node:          a.node,
		Position:      a.position,
		TaskType:      string(a.task.Type),
		Outcome:       string(res.Outcome),
		Graded:        string(res.Graded),
		FromFallback:  a.fromFallback,
		HeartsAfter:   acct.Resources.Hearts,
		EnergyAfter:   acct.Resources.Energy,
		LevelAfter:    track.CurrentLevel,
		LevelAdvanced: res.LevelAdvanced,
	})
	if err != nil {
		logrus.WithError(err).Warn("failed to record lesson event")
	}
}

// RequestAbandon starts the leave confirmation.
func (m *Machine) RequestAbandon() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return ErrNoSession
	}
	m.session.confirmLeave = true
	return nil
}

// CancelAbandon dismisses the leave confirmation.
func (m *Machine) CancelAbandon() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session != nil {
		m.session.confirmLeave = false
	}
}

// Abandon discards the active session after a confirmed RequestAbandon.
// The account is never touched: no penalty and no partial credit. Any
// fetch or evaluation still in flight is dropped when it returns.
func (m *Machine) Abandon() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return ErrNoSession
	}
	if !m.session.confirmLeave && !m.session.phase.Terminal() {
		return ErrNotConfirmed
	}
	logrus.WithFields(logrus.Fields{
		"account":  m.accountID,
		"node":     m.session.node,
		"position": m.session.position,
	}).Debug("lesson abandoned")
	m.session = nil
	return nil
}

// Exit leaves a finished session and returns to idle.
func (m *Machine) Exit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session != nil && m.session.phase.Terminal() {
		m.session = nil
	}
}
