package profile

import (
	"fmt"
	"strings"
)

// Tier is the learner's stated proficiency for a language track.
type Tier string

const (
	TierBeginner     Tier = "BEGINNER"
	TierIntermediate Tier = "INTERMEDIATE"
	TierAdvanced     Tier = "ADVANCED"
	TierFluent       Tier = "FLUENT"
)

// AllTiers returns all tiers in ascending order.
func AllTiers() []Tier {
	return []Tier{TierBeginner, TierIntermediate, TierAdvanced, TierFluent}
}

// ParseTier parses a tier name case-insensitively.
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case TierBeginner, TierIntermediate, TierAdvanced, TierFluent:
		return t, nil
	}
	return "", fmt.Errorf("unknown proficiency tier %q", s)
}

// Upper reports whether the tier uses the composition-based node sequence.
func (t Tier) Upper() bool {
	return t == TierAdvanced || t == TierFluent
}

// Difficulty returns the difficulty descriptor sent to the content oracle.
func (t Tier) Difficulty() string {
	switch t {
	case TierBeginner:
		return "CEFR A1: Simple, basic vocabulary."
	case TierIntermediate:
		return "IELTS A2+ level (Band 4.0): Focusing on practical communication, everyday academic English, and basic exam-style reasoning for IELTS preparation."
	case TierAdvanced:
		return "CEFR B2: Professional and academic context."
	case TierFluent:
		return "CEFR C1: High-level nuanced English."
	default:
		return ""
	}
}

// DisplayName returns a human-readable tier label.
func (t Tier) DisplayName() string {
	if t == "" {
		return "Unknown"
	}
	s := strings.ToLower(string(t))
	return strings.ToUpper(s[:1]) + s[1:]
}
