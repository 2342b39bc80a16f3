package dictionary

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lingua/internal/account"
	"github.com/abhisek/lingua/internal/oracle"
	"github.com/abhisek/lingua/internal/profile"
	"github.com/abhisek/lingua/internal/router"
	"github.com/abhisek/lingua/internal/screen"
)

// waitingDictionary answers only once ctx is done, or immediately when
// ready is closed.
type waitingDictionary struct {
	ready chan struct{}
}

func (w waitingDictionary) LookupWord(ctx context.Context, word, native, target string) (*oracle.Definition, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-w.ready:
		return &oracle.Definition{Word: word, Translation: "salom"}, nil
	}
}

func newScreen(t *testing.T, dict screen.Dictionary) *DictionaryScreen {
	t.Helper()
	a, err := account.New("learner@gmail.com", "Nomad", "Uzbek", "English", profile.TierBeginner)
	if err != nil {
		t.Fatalf("new account: %v", err)
	}
	d := New(screen.Deps{
		Identity:   a.ID,
		Live:       account.NewLive(nil, a),
		Dictionary: dict,
	})
	d.Init()
	return d
}

func typeWord(d *DictionaryScreen, word string) {
	for _, r := range word {
		d.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestDictionaryScreen_Lookup(t *testing.T) {
	ready := make(chan struct{})
	close(ready)
	d := newScreen(t, waitingDictionary{ready: ready})
	typeWord(d, "hello")

	_, cmd := d.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should start a lookup")
	}
	d.Update(cmd())
	if d.current == nil || d.current.Translation != "salom" {
		t.Fatalf("current = %+v, errMsg=%q", d.current, d.errMsg)
	}
	if len(d.history) != 1 || d.history[0] != "hello" {
		t.Fatalf("history = %v", d.history)
	}
}

func TestDictionaryScreen_LeavingCancelsLookup(t *testing.T) {
	d := newScreen(t, waitingDictionary{ready: make(chan struct{})})
	typeWord(d, "hello")

	_, lookup := d.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if lookup == nil {
		t.Fatal("enter should start a lookup")
	}
	if !d.InterceptsBack() {
		t.Fatal("esc must reach the screen")
	}
	_, cmd := d.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Fatal("esc should pop the screen")
	}

	msg, ok := lookup().(lookupMsg)
	if !ok {
		t.Fatal("lookup should report a lookupMsg")
	}
	if !errors.Is(msg.Err, context.Canceled) {
		t.Fatalf("lookup err = %v, want context.Canceled", msg.Err)
	}
}
