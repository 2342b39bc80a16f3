package profile

import (
	"fmt"

	"github.com/google/uuid"
)

// TotalNodes is the number of lesson nodes on a language track's roadmap.
const TotalNodes = 25

// Track is one native→target language pairing with its own progression.
// CurrentLevel is the highest unlocked node; node n is enterable iff
// n <= CurrentLevel.
type Track struct {
	ID           string `json:"id"`
	Native       string `json:"native"`
	Target       string `json:"target"`
	Tier         Tier   `json:"proficiency"`
	CurrentLevel int    `json:"current_level"`
}

// NewTrack creates a track at level 1.
func NewTrack(native, target string, tier Tier) (Track, error) {
	if native == "" || target == "" {
		return Track{}, fmt.Errorf("native and target languages are required")
	}
	if _, err := ParseTier(string(tier)); err != nil {
		return Track{}, err
	}
	return Track{
		ID:           uuid.New().String(),
		Native:       native,
		Target:       target,
		Tier:         tier,
		CurrentLevel: 1,
	}, nil
}

// CanEnter reports whether node is unlocked on this track.
func (t Track) CanEnter(node int) bool {
	return node >= 1 && node <= TotalNodes && node <= t.CurrentLevel
}

// Complete records a successful completion of node and returns the updated
// track. The level advances by exactly one only when node is the current
// frontier; replaying an already-passed node changes nothing.
func (t Track) Complete(node int) (Track, bool) {
	if node != t.CurrentLevel || t.CurrentLevel > TotalNodes {
		return t, false
	}
	t.CurrentLevel++
	return t, true
}

// Finished reports whether every node on the roadmap has been completed.
func (t Track) Finished() bool {
	return t.CurrentLevel > TotalNodes
}

// NodeState classifies a roadmap node for display.
type NodeState int

const (
	NodeLocked NodeState = iota
	NodePassed
	NodeCurrent
)

// StateOf returns the display state of node.
func (t Track) StateOf(node int) NodeState {
	switch {
	case node == t.CurrentLevel:
		return NodeCurrent
	case t.CanEnter(node):
		return NodePassed
	default:
		return NodeLocked
	}
}
