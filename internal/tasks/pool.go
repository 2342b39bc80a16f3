package tasks

import (
	"math/rand/v2"
	"strings"
)

// WordPool splits answer on whitespace and returns the tokens in a random
// order drawn from rnd. A nil rnd uses the global source.
func WordPool(answer string, rnd *rand.Rand) []string {
	words := strings.Fields(answer)
	shuffle := rand.Shuffle
	if rnd != nil {
		shuffle = rnd.Shuffle
	}
	shuffle(len(words), func(i, j int) { words[i], words[j] = words[j], words[i] })
	return words
}

// Arrangement is the learner's in-progress reassembly of a word pool.
// Each pool slot can be picked at most once.
type Arrangement struct {
	pool   []string
	picked []int
}

// NewArrangement starts an empty arrangement over pool.
func NewArrangement(pool []string) *Arrangement {
	return &Arrangement{pool: append([]string(nil), pool...)}
}

// Pool returns the shuffled tokens.
func (a *Arrangement) Pool() []string {
	return append([]string(nil), a.pool...)
}

// Used reports whether pool slot i is already placed.
func (a *Arrangement) Used(i int) bool {
	for _, p := range a.picked {
		if p == i {
			return true
		}
	}
	return false
}

// Pick appends pool slot i to the arrangement. Out-of-range or already
// used slots are ignored.
func (a *Arrangement) Pick(i int) bool {
	if i < 0 || i >= len(a.pool) || a.Used(i) {
		return false
	}
	a.picked = append(a.picked, i)
	return true
}

// Unpick removes the token at arrangement position i and returns it to
// the pool.
func (a *Arrangement) Unpick(i int) bool {
	if i < 0 || i >= len(a.picked) {
		return false
	}
	a.picked = append(a.picked[:i], a.picked[i+1:]...)
	return true
}

// Reset returns every token to the pool.
func (a *Arrangement) Reset() {
	a.picked = nil
}

// Words returns the arranged tokens in order.
func (a *Arrangement) Words() []string {
	out := make([]string, len(a.picked))
	for i, p := range a.picked {
		out[i] = a.pool[p]
	}
	return out
}

// Complete reports whether every pool token has been placed.
func (a *Arrangement) Complete() bool {
	return len(a.picked) == len(a.pool)
}

// Sentence joins the arranged tokens with single spaces.
func (a *Arrangement) Sentence() string {
	return strings.Join(a.Words(), " ")
}
