// Package lesson runs one node at a time: it sequences tasks, evaluates
// answers and applies the resulting economy changes to the account.
package lesson

import (
	"errors"

	"github.com/abhisek/lingua/internal/evaluator"
	"github.com/abhisek/lingua/internal/tasks"
)

var (
	// ErrNodeLocked is returned when entering a node beyond the unlocked
	// level. No session is created.
	ErrNodeLocked = errors.New("node is locked")

	// ErrNoSession is returned when an operation needs an active node.
	ErrNoSession = errors.New("no active lesson")

	// ErrBusy is returned when a task fetch or evaluation is already in
	// flight, or a node is entered while another is active.
	ErrBusy = errors.New("lesson is busy")

	// ErrStale is returned when the session changed while an evaluation
	// was running. The result was discarded and nothing was applied.
	ErrStale = errors.New("lesson session changed")

	// ErrIncomplete is returned when a listening answer is submitted before
	// every pool word is placed. Nothing is graded or charged.
	ErrIncomplete = errors.New("arrangement is incomplete")

	// ErrNotConfirmed is returned by Abandon without a prior RequestAbandon.
	ErrNotConfirmed = errors.New("leaving the lesson was not confirmed")
)

// ExhaustionReason explains a game over.
const ExhaustionReason = "neural exhaustion"

// Phase is the state of the machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseInNode
	PhaseAdvancing
	PhaseNodeComplete
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseInNode:
		return "in_node"
	case PhaseAdvancing:
		return "advancing"
	case PhaseNodeComplete:
		return "node_complete"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Terminal reports whether the session has ended.
func (p Phase) Terminal() bool {
	return p == PhaseNodeComplete || p == PhaseGameOver
}

// Outcome classifies the effect of entering a node or answering a task.
type Outcome string

const (
	OutcomeEntered   Outcome = "entered"
	OutcomeCorrect   Outcome = "correct"
	OutcomeComplete  Outcome = "complete"
	OutcomeIncorrect Outcome = "incorrect"
	OutcomeGameOver  Outcome = "game_over"
)

// Result is what the learner sees after an answer.
type Result struct {
	Outcome  Outcome
	Correct  bool
	Feedback string
	Graded   evaluator.Source

	// LevelAdvanced is set when completing the node unlocked the next one.
	LevelAdvanced bool
	EnergyGained  int
	HeartsLost    int
}

// session is the ephemeral per-node state. It exists only while a node is
// active and is never shared outside the machine.
type session struct {
	token        uint64
	node         int
	position     int
	phase        Phase
	task         *tasks.Task
	fromFallback bool
	arrangement  *tasks.Arrangement
	loading      bool
	evaluating   bool
	confirmLeave bool
}

// View is a read-only snapshot of the active session for presentation.
type View struct {
	Phase        Phase
	Token        uint64
	Node         int
	Position     int
	Task         *tasks.Task
	FromFallback bool
	Pool         []string
	Used         []bool
	Arranged     []string
	Loading      bool
	Evaluating   bool
	ConfirmLeave bool
}

// TaskLoaded carries a fetched task back to the machine. It is applied
// only if Token still names the active session.
type TaskLoaded struct {
	Token    uint64
	Position int
	Fetched  tasks.Fetched
}
