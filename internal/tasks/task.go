// Package tasks defines lesson tasks, the fixed per-tier task ordering and
// the sequencer that fetches task content for each position of a node.
package tasks

import (
	"fmt"

	"github.com/abhisek/lingua/internal/profile"
)

// TasksPerNode is the number of tasks a learner clears to complete a node.
const TasksPerNode = 5

// Type identifies the kind of exercise a task presents.
type Type string

const (
	Listening            Type = "listening"
	ReadingComprehension Type = "reading_comprehension"
	WritingComposition   Type = "writing_composition"
	Grammar              Type = "grammar"
	Speaking             Type = "speaking"
	Vocabulary           Type = "vocabulary"
)

// AllTypes lists every task type.
func AllTypes() []Type {
	return []Type{Listening, ReadingComprehension, WritingComposition, Grammar, Speaking, Vocabulary}
}

// Valid reports whether t is a known task type.
func (t Type) Valid() bool {
	for _, k := range AllTypes() {
		if k == t {
			return true
		}
	}
	return false
}

// OptionBased reports whether answers are picked from Options.
func (t Type) OptionBased() bool {
	return t == Grammar || t == Vocabulary || t == ReadingComprehension
}

// Label is a short human-readable name.
func (t Type) Label() string {
	switch t {
	case Listening:
		return "Listening"
	case ReadingComprehension:
		return "Reading"
	case WritingComposition:
		return "Writing"
	case Grammar:
		return "Grammar"
	case Speaking:
		return "Speaking"
	case Vocabulary:
		return "Vocabulary"
	default:
		return string(t)
	}
}

// Task is one exercise. It is immutable once fetched.
type Task struct {
	ID            string   `json:"task_id"`
	Type          Type     `json:"type"`
	Instruction   string   `json:"instruction"`
	Content       string   `json:"content"`
	Passage       string   `json:"reading_passage,omitempty"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

var (
	upperSequence = [TasksPerNode]Type{Listening, ReadingComprehension, WritingComposition, Grammar, Speaking}
	lowerSequence = [TasksPerNode]Type{Listening, ReadingComprehension, Vocabulary, Grammar, Speaking}
)

// Sequence returns the fixed task ordering for tier. ADVANCED and FLUENT
// learners get a writing composition in the third slot; everyone else gets
// vocabulary.
func Sequence(tier profile.Tier) [TasksPerNode]Type {
	if tier.Upper() {
		return upperSequence
	}
	return lowerSequence
}

// NextType returns the task type at position for tier.
func NextType(position int, tier profile.Tier) (Type, error) {
	if position < 0 || position >= TasksPerNode {
		return "", fmt.Errorf("task position %d out of range [0,%d)", position, TasksPerNode)
	}
	return Sequence(tier)[position], nil
}
