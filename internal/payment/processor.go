package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/lingua/internal/account"
	"github.com/abhisek/lingua/internal/ledger"
	"github.com/abhisek/lingua/internal/metrics"
	"github.com/abhisek/lingua/internal/shop"
	"github.com/abhisek/lingua/internal/store"
)

// DefaultConfirmDelay is the simulated confirmation time.
const DefaultConfirmDelay = 2 * time.Second

var (
	// ErrUnknownItem is returned for ids missing from the catalog.
	ErrUnknownItem = errors.New("unknown shop item")

	// ErrInProgress is returned when the account already has a purchase
	// awaiting confirmation.
	ErrInProgress = errors.New("purchase already in progress")
)

// Receipt describes a completed purchase.
type Receipt struct {
	ID      string
	ItemID  string
	Amount  float64
	Network Network
	Last4   string
	At      time.Time
}

// PurchaseRecorder persists purchase attempts.
type PurchaseRecorder interface {
	AppendPurchaseEvent(ctx context.Context, data store.PurchaseEventData) error
}

// Processor runs the purchase flow: validate, wait for the simulated
// confirmation, then apply the item effect.
type Processor struct {
	delay    time.Duration
	now      func() time.Time
	recorder PurchaseRecorder
	metrics  *metrics.Metrics

	mu       sync.Mutex
	inFlight map[string]bool
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithDelay overrides the confirmation delay.
func WithDelay(d time.Duration) ProcessorOption {
	return func(p *Processor) { p.delay = d }
}

// WithClock overrides the reference time used for expiry checks.
func WithClock(now func() time.Time) ProcessorOption {
	return func(p *Processor) { p.now = now }
}

// WithPurchaseRecorder persists every attempt.
func WithPurchaseRecorder(r PurchaseRecorder) ProcessorOption {
	return func(p *Processor) { p.recorder = r }
}

// WithMetrics counts attempts by result.
func WithMetrics(m *metrics.Metrics) ProcessorOption {
	return func(p *Processor) { p.metrics = m }
}

// NewProcessor creates a Processor with the default delay.
func NewProcessor(opts ...ProcessorOption) *Processor {
	p := &Processor{
		delay:    DefaultConfirmDelay,
		now:      time.Now,
		inFlight: make(map[string]bool),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Purchase validates card and, after the confirmation delay, returns a copy
// of acct with the item's effect applied. acct is never modified. A
// cancelled context during the delay returns ctx.Err() and no account.
func (p *Processor) Purchase(ctx context.Context, acct *account.Account, itemID string, card CardInput) (*account.Account, Receipt, error) {
	item, ok := shop.Find(itemID)
	if !ok {
		return nil, Receipt{}, fmt.Errorf("%w: %q", ErrUnknownItem, itemID)
	}

	network := DetectNetwork(Digits(card.Number))
	ev := store.PurchaseEventData{
		AccountID: acct.ID,
		ItemID:    item.ID,
		Amount:    item.Price,
		Network:   string(network),
	}

	if err := Validate(card, p.now()); err != nil {
		var rej *RejectionError
		if errors.As(err, &rej) {
			ev.Result = string(rej.Reason)
		}
		p.finish(ctx, ev)
		return nil, Receipt{}, err
	}

	if !p.begin(acct.ID) {
		return nil, Receipt{}, ErrInProgress
	}
	defer p.end(acct.ID)

	if err := p.wait(ctx); err != nil {
		ev.Result = "cancelled"
		p.finish(context.WithoutCancel(ctx), ev)
		return nil, Receipt{}, err
	}

	next := acct.WithResources(ledger.Apply(acct.Resources, item.Effect.Delta()))
	next.UpdatedAt = p.now().UTC()

	receipt := Receipt{
		ID:      uuid.New().String(),
		ItemID:  item.ID,
		Amount:  item.Price,
		Network: network,
		Last4:   card.Last4(),
		At:      next.UpdatedAt,
	}
	ev.Result = "success"
	ev.ReceiptID = receipt.ID
	p.finish(ctx, ev)
	return next, receipt, nil
}

func (p *Processor) wait(ctx context.Context) error {
	if p.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(p.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (p *Processor) begin(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inFlight[id] {
		return false
	}
	p.inFlight[id] = true
	return true
}

func (p *Processor) end(id string) {
	p.mu.Lock()
	delete(p.inFlight, id)
	p.mu.Unlock()
}

func (p *Processor) finish(ctx context.Context, ev store.PurchaseEventData) {
	p.metrics.Purchase(ev.Result)

	entry := logrus.WithFields(logrus.Fields{
		"account": ev.AccountID,
		"item":    ev.ItemID,
		"network": ev.Network,
		"result":  ev.Result,
	})
	if ev.Result == "success" {
		entry.Info("purchase applied")
	} else {
		entry.Warn("purchase not applied")
	}

	if p.recorder == nil {
		return
	}
	if err := p.recorder.AppendPurchaseEvent(ctx, ev); err != nil {
		logrus.WithError(err).Warn("failed to record purchase event")
	}
}
