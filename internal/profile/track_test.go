package profile

import "testing"

func TestNewTrack_StartsAtLevelOne(t *testing.T) {
	tr, err := NewTrack("Uzbek", "English", TierBeginner)
	if err != nil {
		t.Fatalf("NewTrack: %v", err)
	}
	if tr.CurrentLevel != 1 {
		t.Errorf("CurrentLevel = %d, want 1", tr.CurrentLevel)
	}
	if tr.ID == "" {
		t.Error("expected non-empty ID")
	}
}

func TestNewTrack_Rejects(t *testing.T) {
	if _, err := NewTrack("", "English", TierBeginner); err == nil {
		t.Error("expected error for missing native language")
	}
	if _, err := NewTrack("Uzbek", "English", Tier("EXPERT")); err == nil {
		t.Error("expected error for unknown tier")
	}
}

func TestCanEnter(t *testing.T) {
	tr := Track{CurrentLevel: 3}
	for node, want := range map[int]bool{0: false, 1: true, 3: true, 4: false, 26: false} {
		if got := tr.CanEnter(node); got != want {
			t.Errorf("CanEnter(%d) = %v, want %v", node, got, want)
		}
	}
}

func TestComplete_FrontierAdvancesByOne(t *testing.T) {
	tr := Track{CurrentLevel: 4}
	got, advanced := tr.Complete(4)
	if !advanced || got.CurrentLevel != 5 {
		t.Errorf("Complete(4) = (%d, %v), want (5, true)", got.CurrentLevel, advanced)
	}
	if tr.CurrentLevel != 4 {
		t.Error("Complete must not mutate the receiver")
	}
}

func TestComplete_ReplayDoesNotAdvance(t *testing.T) {
	tr := Track{CurrentLevel: 4}
	got, advanced := tr.Complete(2)
	if advanced || got.CurrentLevel != 4 {
		t.Errorf("Complete(2) = (%d, %v), want (4, false)", got.CurrentLevel, advanced)
	}
}

func TestComplete_LastNode(t *testing.T) {
	tr := Track{CurrentLevel: TotalNodes}
	got, advanced := tr.Complete(TotalNodes)
	if !advanced || !got.Finished() {
		t.Errorf("completing last node: level=%d advanced=%v", got.CurrentLevel, advanced)
	}
	again, advanced := got.Complete(got.CurrentLevel)
	if advanced || again.CurrentLevel != TotalNodes+1 {
		t.Errorf("level must stop at %d, got %d", TotalNodes+1, again.CurrentLevel)
	}
}

func TestParseTier(t *testing.T) {
	got, err := ParseTier(" advanced ")
	if err != nil || got != TierAdvanced {
		t.Errorf("ParseTier = (%q, %v)", got, err)
	}
	if _, err := ParseTier("native"); err == nil {
		t.Error("expected error")
	}
}

func TestTier_Difficulty(t *testing.T) {
	for _, tier := range AllTiers() {
		if tier.Difficulty() == "" {
			t.Errorf("%s has no difficulty descriptor", tier)
		}
	}
	if TierBeginner.Upper() || TierIntermediate.Upper() || !TierAdvanced.Upper() || !TierFluent.Upper() {
		t.Error("Upper() classification wrong")
	}
}

func TestStateOf(t *testing.T) {
	tr := Track{CurrentLevel: 3}
	if tr.StateOf(1) != NodePassed || tr.StateOf(3) != NodeCurrent || tr.StateOf(4) != NodeLocked {
		t.Error("StateOf classification wrong")
	}
}
