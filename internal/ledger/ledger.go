package ledger

// Starting balances granted at onboarding.
const (
	StartingHearts = 10
	StartingEnergy = 50
)

// NodeCompletionEnergy is the energy bonus for completing the frontier node.
const NodeCompletionEnergy = 15

// ResourceState is the hearts/energy/premium economy of one account.
// Premium accounts keep their stored Hearts and Energy values, but those
// values are treated as unlimited for gating purposes.
type ResourceState struct {
	Hearts        int  `json:"hearts"`
	Energy        int  `json:"energy"`
	Premium       bool `json:"is_premium"`
	FamilyPremium bool `json:"is_family_premium,omitempty"`
}

// Delta describes a change to a ResourceState. Nil flag pointers leave the
// corresponding flag untouched.
type Delta struct {
	Hearts           int
	Energy           int
	SetPremium       *bool
	SetFamilyPremium *bool
}

// Starting returns the resources of a freshly onboarded account.
func Starting() ResourceState {
	return ResourceState{Hearts: StartingHearts, Energy: StartingEnergy}
}

// Apply returns state with delta applied. Hearts and energy are clamped at
// zero; there is no upper bound.
//
// Apply does not consult Premium. Callers that must not charge a premium
// account branch on it before building a negative delta.
func Apply(state ResourceState, delta Delta) ResourceState {
	next := state
	next.Hearts = clamp(state.Hearts + delta.Hearts)
	next.Energy = clamp(state.Energy + delta.Energy)
	if delta.SetPremium != nil {
		next.Premium = *delta.SetPremium
	}
	if delta.SetFamilyPremium != nil {
		next.FamilyPremium = *delta.SetFamilyPremium
	}
	return next
}

// CanEnter reports whether the resources allow entering a lesson node.
func CanEnter(state ResourceState) bool {
	return state.Premium || state.Hearts >= 1
}

// Unlimited reports whether depletion checks are waived for the account.
func (s ResourceState) Unlimited() bool {
	return s.Premium
}

// LoseHeart returns the delta for a wrong answer. Premium accounts are
// never charged, so the delta is empty for them.
func LoseHeart(state ResourceState) Delta {
	if state.Premium {
		return Delta{}
	}
	return Delta{Hearts: -1}
}

// Flag returns a pointer to v for use in Delta flag fields.
func Flag(v bool) *bool {
	return &v
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
