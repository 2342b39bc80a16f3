package shop

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lingua/internal/account"
	"github.com/abhisek/lingua/internal/payment"
	"github.com/abhisek/lingua/internal/profile"
	"github.com/abhisek/lingua/internal/router"
	"github.com/abhisek/lingua/internal/screen"
	catalog "github.com/abhisek/lingua/internal/shop"
)

type memRepo struct {
	saved map[string]*account.Account
}

func (r *memRepo) Load(_ context.Context, id string) (*account.Account, error) {
	a, ok := r.saved[id]
	if !ok {
		return nil, account.ErrNotFound
	}
	return a.Clone(), nil
}

func (r *memRepo) Save(_ context.Context, a *account.Account) error {
	if r.saved == nil {
		r.saved = map[string]*account.Account{}
	}
	r.saved[a.ID] = a.Clone()
	return nil
}

func (r *memRepo) List(context.Context) ([]*account.Account, error) { return nil, nil }
func (r *memRepo) Delete(context.Context, string) error            { return nil }

func testDeps(t *testing.T, premium bool) (screen.Deps, *memRepo) {
	t.Helper()
	a, err := account.New("learner@gmail.com", "Nomad", "Uzbek", "English", profile.TierBeginner)
	if err != nil {
		t.Fatalf("new account: %v", err)
	}
	a.Resources.Premium = premium

	repo := &memRepo{}
	now := func() time.Time { return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC) }
	return screen.Deps{
		Identity: a.ID,
		Live:     account.NewLive(repo, a),
		Payments: payment.NewProcessor(payment.WithDelay(0), payment.WithClock(now)),
	}, repo
}

func item(t *testing.T, id string) catalog.Item {
	t.Helper()
	it, ok := catalog.Find(id)
	if !ok {
		t.Fatalf("catalog has no %q", id)
	}
	return it
}

func fill(c *CheckoutScreen, number, expiry, cvv string) {
	c.fields[fieldNumber].Model.SetValue(number)
	c.fields[fieldExpiry].Model.SetValue(expiry)
	c.fields[fieldCVV].Model.SetValue(cvv)
	c.focus = fieldCVV
}

// pay presses enter on the last field and delivers the purchase result.
func pay(t *testing.T, c *CheckoutScreen) {
	t.Helper()
	_, cmd := c.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("expected a purchase command, errMsg=%q", c.errMsg)
	}
	if !c.InterceptsBack() {
		t.Error("esc should be held while authorizing")
	}
	c.Update(cmd())
}

func TestCheckout_Success(t *testing.T) {
	deps, repo := testDeps(t, false)
	c := NewCheckout(deps, item(t, "h10"))
	fill(c, "4539 1488 0343 6467", "01/26", "123")

	pay(t, c)

	if c.receipt == nil {
		t.Fatalf("expected a receipt, errMsg=%q", c.errMsg)
	}
	if c.receipt.Last4 != "6467" {
		t.Errorf("expected last4 6467, got %q", c.receipt.Last4)
	}
	if got := deps.Live.Get().Resources.Hearts; got != 20 {
		t.Errorf("expected 20 hearts, got %d", got)
	}
	saved, err := repo.Load(context.Background(), deps.Identity)
	if err != nil || saved.Resources.Hearts != 20 {
		t.Errorf("expected the purchase to be saved, got %+v, %v", saved, err)
	}
	if !strings.Contains(c.View(100, 30), "6467") {
		t.Error("expected receipt in view")
	}

	_, cmd := c.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Fatal("any key after success should close checkout")
	}
}

func TestCheckout_Rejected(t *testing.T) {
	deps, _ := testDeps(t, false)
	c := NewCheckout(deps, item(t, "e20"))
	fill(c, "4539 1488 0343 6468", "01/26", "123")

	pay(t, c)

	if c.receipt != nil {
		t.Fatal("a bad checksum must not produce a receipt")
	}
	if !strings.Contains(c.errMsg, "Luhn") {
		t.Errorf("expected Luhn rejection, got %q", c.errMsg)
	}
	if c.InterceptsBack() {
		t.Error("esc should pop once authorization ended")
	}
	if got := deps.Live.Get().Resources.Energy; got != 50 {
		t.Errorf("energy changed on rejection: %d", got)
	}
}

func TestCheckout_EnterAdvancesFields(t *testing.T) {
	deps, _ := testDeps(t, false)
	c := NewCheckout(deps, item(t, "h10"))

	c.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if c.focus != fieldExpiry {
		t.Fatalf("expected expiry focus, got %d", c.focus)
	}
	c.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	if c.focus != fieldNumber {
		t.Fatalf("expected number focus after shift+tab, got %d", c.focus)
	}
}

func TestCheckout_LocalCardSkipsCVV(t *testing.T) {
	deps, _ := testDeps(t, false)
	c := NewCheckout(deps, item(t, "p_ult"))
	fill(c, "8600 1234 1234 1234", "12/26", "")

	pay(t, c)

	if c.receipt == nil {
		t.Fatalf("expected a receipt, errMsg=%q", c.errMsg)
	}
	if !deps.Live.Get().Resources.Premium {
		t.Error("expected premium after purchase")
	}
}

func TestShop_PremiumDisabledForPremiumAccount(t *testing.T) {
	deps, _ := testDeps(t, true)
	s := New(deps)

	for i, it := range s.items {
		want := it.Effect.Kind == catalog.EffectPremium
		if s.menu.Items[i].Disabled != want {
			t.Errorf("%s: disabled=%v, want %v", it.ID, s.menu.Items[i].Disabled, want)
		}
	}
}

func TestShop_EnterOpensCheckout(t *testing.T) {
	deps, _ := testDeps(t, false)
	s := New(deps)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected checkout to be pushed")
	}
	c, ok := msg.Screen.(*CheckoutScreen)
	if !ok || c.item.ID != s.items[0].ID {
		t.Fatalf("expected checkout for %s, got %T", s.items[0].ID, msg.Screen)
	}
}
