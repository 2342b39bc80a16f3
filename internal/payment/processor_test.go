package payment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lingua/internal/account"
	"github.com/abhisek/lingua/internal/profile"
	"github.com/abhisek/lingua/internal/store"
)

type fakeRecorder struct {
	mu     sync.Mutex
	events []store.PurchaseEventData
}

func (f *fakeRecorder) AppendPurchaseEvent(_ context.Context, ev store.PurchaseEventData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}

func newAccount(t *testing.T) *account.Account {
	t.Helper()
	a, err := account.New("device-1", "neo", "English", "Spanish", profile.TierBeginner)
	require.NoError(t, err)
	return a
}

func newProcessor(rec *fakeRecorder, delay time.Duration) *Processor {
	return NewProcessor(
		WithDelay(delay),
		WithClock(func() time.Time { return refDate }),
		WithPurchaseRecorder(rec),
	)
}

var visa = CardInput{Number: "4539 1488 0343 6467", Expiry: "01/25", CVV: "123"}

func TestPurchase_Hearts(t *testing.T) {
	rec := &fakeRecorder{}
	p := newProcessor(rec, time.Millisecond)
	acct := newAccount(t)

	next, receipt, err := p.Purchase(context.Background(), acct, "h10", visa)
	require.NoError(t, err)
	assert.Equal(t, 20, next.Resources.Hearts)
	assert.Equal(t, 10, acct.Resources.Hearts, "input account must not change")
	assert.Equal(t, "6467", receipt.Last4)
	assert.Equal(t, NetworkVisa, receipt.Network)
	assert.NotEmpty(t, receipt.ID)

	require.Len(t, rec.events, 1)
	assert.Equal(t, "success", rec.events[0].Result)
	assert.Equal(t, receipt.ID, rec.events[0].ReceiptID)
}

func TestPurchase_PremiumOnLocalCard(t *testing.T) {
	p := newProcessor(&fakeRecorder{}, 0)
	acct := newAccount(t)

	next, _, err := p.Purchase(context.Background(), acct, "p_ult", CardInput{Number: "8600123412341234", Expiry: "12/24"})
	require.NoError(t, err)
	assert.True(t, next.Resources.Premium)
	assert.Equal(t, acct.Resources.Hearts, next.Resources.Hearts)
	assert.Equal(t, acct.Resources.Energy, next.Resources.Energy)
}

func TestPurchase_Rejected(t *testing.T) {
	rec := &fakeRecorder{}
	p := newProcessor(rec, time.Hour)
	acct := newAccount(t)

	card := visa
	card.CVV = ""
	next, _, err := p.Purchase(context.Background(), acct, "e20", card)
	assert.Nil(t, next)

	var rej *RejectionError
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, ReasonCVV, rej.Reason)

	require.Len(t, rec.events, 1)
	assert.Equal(t, string(ReasonCVV), rec.events[0].Result)
}

func TestPurchase_UnknownItem(t *testing.T) {
	p := newProcessor(&fakeRecorder{}, 0)
	_, _, err := p.Purchase(context.Background(), newAccount(t), "gems", visa)
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestPurchase_CancelDuringDelay(t *testing.T) {
	rec := &fakeRecorder{}
	p := newProcessor(rec, time.Hour)
	acct := newAccount(t)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(10*time.Millisecond, cancel)

	next, _, err := p.Purchase(ctx, acct, "h10", visa)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, next)
	assert.Equal(t, 10, acct.Resources.Hearts)

	require.Len(t, rec.events, 1)
	assert.Equal(t, "cancelled", rec.events[0].Result)
}

func TestPurchase_OneFlowPerAccount(t *testing.T) {
	p := newProcessor(&fakeRecorder{}, time.Hour)
	acct := newAccount(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _, _ = p.Purchase(ctx, acct, "h10", visa)
	}()

	require.Eventually(t, func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.inFlight[acct.ID]
	}, time.Second, time.Millisecond)

	_, _, err := p.Purchase(context.Background(), acct, "e20", visa)
	assert.ErrorIs(t, err, ErrInProgress)

	cancel()
	<-done

	p.mu.Lock()
	defer p.mu.Unlock()
	assert.False(t, p.inFlight[acct.ID], "cancelled flow must release the account")
}
