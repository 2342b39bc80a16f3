package tasks

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/lingua/internal/metrics"
	"github.com/abhisek/lingua/internal/profile"
)

var errNoGenerator = errors.New("no content generator configured")

// Request is what the content service needs to produce one task.
type Request struct {
	Node           int
	Type           Type
	TargetLanguage string
	Difficulty     string
}

// Generator produces task content. Implementations must return a fully
// validated Task or an error; they are called exactly once per position.
type Generator interface {
	GenerateTask(ctx context.Context, req Request) (*Task, error)
}

// FetchInput identifies the slot being filled.
type FetchInput struct {
	Node     int
	Position int
	Track    profile.Track
}

// Fetched is the outcome of filling one slot.
type Fetched struct {
	Task Task

	// Pool is the shuffled word pool for listening tasks, nil otherwise.
	Pool []string

	// FromFallback is set when the content service failed and the
	// placeholder task was substituted.
	FromFallback bool
}

// Sequencer fills node positions with tasks. It never fails: any content
// error yields the deterministic fallback task of the requested type.
type Sequencer struct {
	gen     Generator
	rnd     *rand.Rand
	metrics *metrics.Metrics
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithRand fixes the shuffle source, for tests.
func WithRand(r *rand.Rand) Option {
	return func(s *Sequencer) { s.rnd = r }
}

// WithMetrics counts fallbacks.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Sequencer) { s.metrics = m }
}

// NewSequencer creates a Sequencer. gen may be nil, in which case every
// slot is filled from the fallback.
func NewSequencer(gen Generator, opts ...Option) *Sequencer {
	s := &Sequencer{gen: gen}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Fetch produces the task for in.Position of in.Node.
func (s *Sequencer) Fetch(ctx context.Context, in FetchInput) (Fetched, error) {
	typ, err := NextType(in.Position, in.Track.Tier)
	if err != nil {
		return Fetched{}, err
	}

	var task Task
	fromFallback := false

	generated, err := s.generate(ctx, Request{
		Node:           in.Node,
		Type:           typ,
		TargetLanguage: in.Track.Target,
		Difficulty:     in.Track.Tier.Difficulty(),
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"node":     in.Node,
			"position": in.Position,
			"type":     typ,
		}).WithError(err).Warn("task generation failed, using fallback")
		s.metrics.OracleFallback("task-gen")

		task = Fallback(typ, in.Node, in.Position)
		fromFallback = true
	} else {
		task = *generated
	}

	// The slot decides the type, whatever the content service labelled it.
	task.Type = typ

	out := Fetched{Task: task, FromFallback: fromFallback}
	if typ == Listening {
		out.Pool = WordPool(task.CorrectAnswer, s.rnd)
	}
	return out, nil
}

func (s *Sequencer) generate(ctx context.Context, req Request) (*Task, error) {
	if s.gen == nil {
		return nil, errNoGenerator
	}
	return s.gen.GenerateTask(ctx, req)
}
