package tasks

import (
	"math/rand/v2"
	"slices"
	"testing"
)

func TestWordPool_IsPermutation(t *testing.T) {
	pool := WordPool("the  cat sleeps", rand.New(rand.NewPCG(1, 2)))

	sorted := slices.Clone(pool)
	slices.Sort(sorted)
	want := []string{"cat", "sleeps", "the"}
	if !slices.Equal(sorted, want) {
		t.Fatalf("pool %v is not a permutation of %v", pool, want)
	}
}

func TestWordPool_Deterministic(t *testing.T) {
	a := WordPool("one two three four five", rand.New(rand.NewPCG(7, 7)))
	b := WordPool("one two three four five", rand.New(rand.NewPCG(7, 7)))
	if !slices.Equal(a, b) {
		t.Fatalf("same seed gave %v and %v", a, b)
	}
}

func TestArrangement(t *testing.T) {
	a := NewArrangement([]string{"sleeps", "the", "cat"})

	if !a.Pick(1) || !a.Pick(2) {
		t.Fatal("expected picks to succeed")
	}
	if a.Pick(1) {
		t.Fatal("picking a used slot should fail")
	}
	if a.Pick(9) {
		t.Fatal("picking out of range should fail")
	}
	if a.Complete() {
		t.Fatal("arrangement should not be complete yet")
	}

	a.Pick(0)
	if got := a.Sentence(); got != "the cat sleeps" {
		t.Fatalf("sentence = %q", got)
	}
	if !a.Complete() {
		t.Fatal("expected complete arrangement")
	}

	// Move "the" back to the pool and place it last.
	if !a.Unpick(0) {
		t.Fatal("unpick failed")
	}
	a.Pick(1)
	if got := a.Sentence(); got != "cat sleeps the" {
		t.Fatalf("sentence after unpick = %q", got)
	}

	a.Reset()
	if a.Sentence() != "" || a.Used(0) {
		t.Fatal("reset should clear the arrangement")
	}
}
