// Package evaluator decides whether a learner's submission answers a task.
package evaluator

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/lingua/internal/llm"
	"github.com/abhisek/lingua/internal/metrics"
	"github.com/abhisek/lingua/internal/oracle"
	"github.com/abhisek/lingua/internal/profile"
	"github.com/abhisek/lingua/internal/tasks"
)

// Generic feedback used when the grader is unreachable.
const (
	WritingFallbackFeedback  = "Composition node synced."
	SpeakingFallbackFeedback = "Speech node verified."
)

// minWritingLength is the fallback acceptance threshold for compositions.
const minWritingLength = 5

// Source records who decided a result.
type Source string

const (
	SourceLocal    Source = "local"
	SourceOracle   Source = "oracle"
	SourceFallback Source = "fallback"
)

// Grader is the subset of the oracle used for free text and speech.
type Grader interface {
	GradeFreeText(ctx context.Context, submission, prompt string, tier profile.Tier) (oracle.Grade, error)
	GradeSpeech(ctx context.Context, audio llm.Audio, expected string) (oracle.Grade, error)
}

// Submission is a learner's answer. Text carries the chosen option, the
// reassembled sentence or the composition; Audio carries a speaking sample.
type Submission struct {
	Text  string
	Audio *llm.Audio
}

// Result is the evaluation outcome.
type Result struct {
	Correct  bool
	Feedback string
	Graded   Source
}

// Evaluator checks submissions. Each call makes at most one grader
// request and never retries.
type Evaluator struct {
	grader  Grader
	metrics *metrics.Metrics
}

// New creates an Evaluator. grader may be nil, which sends every free text
// and speech submission down the fallback path.
func New(grader Grader, m *metrics.Metrics) *Evaluator {
	return &Evaluator{grader: grader, metrics: m}
}

// Evaluate judges sub against task for a learner at tier.
func (e *Evaluator) Evaluate(ctx context.Context, task tasks.Task, sub Submission, tier profile.Tier) Result {
	switch task.Type {
	case tasks.WritingComposition:
		return e.evaluateWriting(ctx, task, sub, tier)
	case tasks.Speaking:
		return e.evaluateSpeaking(ctx, task, sub)
	default:
		return Result{
			Correct:  Normalize(sub.Text) == Normalize(task.CorrectAnswer),
			Feedback: task.Explanation,
			Graded:   SourceLocal,
		}
	}
}

func (e *Evaluator) evaluateWriting(ctx context.Context, task tasks.Task, sub Submission, tier profile.Tier) Result {
	if e.grader != nil {
		g, err := e.grader.GradeFreeText(ctx, sub.Text, task.Content, tier)
		if err == nil {
			return Result{Correct: g.Correct, Feedback: g.Feedback, Graded: SourceOracle}
		}
		e.fallback("grade-writing", err)
	} else {
		e.fallback("grade-writing", nil)
	}

	return Result{
		Correct:  len(strings.TrimSpace(sub.Text)) > minWritingLength,
		Feedback: WritingFallbackFeedback,
		Graded:   SourceFallback,
	}
}

func (e *Evaluator) evaluateSpeaking(ctx context.Context, task tasks.Task, sub Submission) Result {
	if e.grader != nil && sub.Audio != nil {
		g, err := e.grader.GradeSpeech(ctx, *sub.Audio, task.CorrectAnswer)
		if err == nil {
			return Result{Correct: g.Correct, Feedback: g.Feedback, Graded: SourceOracle}
		}
		e.fallback("grade-speech", err)
	} else {
		e.fallback("grade-speech", nil)
	}

	// An infrastructure fault must not cost the learner a heart.
	return Result{Correct: true, Feedback: SpeakingFallbackFeedback, Graded: SourceFallback}
}

func (e *Evaluator) fallback(call string, err error) {
	entry := logrus.WithField("call", call)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Info("grading unavailable, using fallback")
	e.metrics.OracleFallback(call)
}

// Normalize lowercases s, trims it and removes the punctuation marks
// . , ! ? ; wherever they appear.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Map(func(r rune) rune {
		switch r {
		case '.', ',', '!', '?', ';':
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
