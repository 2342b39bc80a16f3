package ledger

import "testing"

func TestApply_ClampsAtZero(t *testing.T) {
	got := Apply(ResourceState{Hearts: 1, Energy: 3}, Delta{Hearts: -5, Energy: -10})
	if got.Hearts != 0 {
		t.Errorf("Hearts = %d, want 0", got.Hearts)
	}
	if got.Energy != 0 {
		t.Errorf("Energy = %d, want 0", got.Energy)
	}
}

func TestApply_NoUpperBound(t *testing.T) {
	got := Apply(ResourceState{Hearts: 10, Energy: 50}, Delta{Hearts: 1000, Energy: 2000})
	if got.Hearts != 1010 || got.Energy != 2050 {
		t.Errorf("got %+v, want hearts 1010 energy 2050", got)
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	in := ResourceState{Hearts: 4, Energy: 4}
	_ = Apply(in, Delta{Hearts: -1, SetPremium: Flag(true)})
	if in.Hearts != 4 || in.Premium {
		t.Errorf("input mutated: %+v", in)
	}
}

func TestApply_Flags(t *testing.T) {
	got := Apply(ResourceState{}, Delta{SetPremium: Flag(true), SetFamilyPremium: Flag(true)})
	if !got.Premium || !got.FamilyPremium {
		t.Errorf("flags not set: %+v", got)
	}

	got = Apply(got, Delta{Hearts: 1})
	if !got.Premium {
		t.Error("nil flag pointer must leave Premium untouched")
	}
}

func TestCanEnter(t *testing.T) {
	tests := []struct {
		name  string
		state ResourceState
		want  bool
	}{
		{"hearts available", ResourceState{Hearts: 1}, true},
		{"no hearts", ResourceState{Hearts: 0}, false},
		{"premium without hearts", ResourceState{Hearts: 0, Premium: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanEnter(tt.state); got != tt.want {
				t.Errorf("CanEnter(%+v) = %v, want %v", tt.state, got, tt.want)
			}
		})
	}
}

func TestLoseHeart_PremiumExempt(t *testing.T) {
	premium := ResourceState{Hearts: 3, Premium: true}
	got := Apply(premium, LoseHeart(premium))
	if got.Hearts != 3 {
		t.Errorf("premium Hearts = %d, want 3", got.Hearts)
	}

	free := ResourceState{Hearts: 3}
	got = Apply(free, LoseHeart(free))
	if got.Hearts != 2 {
		t.Errorf("free Hearts = %d, want 2", got.Hearts)
	}
}

func TestStarting(t *testing.T) {
	s := Starting()
	if s.Hearts != StartingHearts || s.Energy != StartingEnergy || s.Premium {
		t.Errorf("Starting() = %+v", s)
	}
}
