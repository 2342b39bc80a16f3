// Package oracle is the typed contract over the generative content
// service: task generation, grading, speech, UI translation and
// dictionary lookups. Every call makes exactly one provider request; the
// caller owns the fallback.
package oracle

import (
	"errors"
	"fmt"

	"github.com/abhisek/lingua/internal/llm"
)

// ErrUnavailable wraps every oracle failure, whether transport, parse or
// validation. Callers recover locally and never surface it to the learner.
var ErrUnavailable = errors.New("content oracle unavailable")

// Purpose labels attached to every request for event logging.
const (
	PurposeTaskGen     = "task-gen"
	PurposeGradeText   = "grade-writing"
	PurposeGradeSpeech = "grade-speech"
	PurposeSpeech      = "speech"
	PurposeTranslate   = "translate-ui"
	PurposeLookup      = "dictionary"
)

// Config tunes the requests.
type Config struct {
	// MaxTokens is the token budget for structured responses.
	MaxTokens int

	// Temperature for task generation. Grading always runs at 0.
	Temperature float64

	// Voice is the prebuilt voice for speech synthesis.
	Voice string
}

// DefaultConfig returns recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1024,
		Temperature: 0.8,
		Voice:       "Kore",
	}
}

// Oracle issues typed requests through an llm.Provider.
type Oracle struct {
	provider llm.Provider
	config   Config
}

// New creates an Oracle.
func New(provider llm.Provider, cfg Config) *Oracle {
	return &Oracle{provider: provider, config: cfg}
}

func unavailable(call string, err error) error {
	return fmt.Errorf("%s: %w: %w", call, ErrUnavailable, err)
}
