package shop

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/lingua/internal/payment"
	"github.com/abhisek/lingua/internal/router"
	"github.com/abhisek/lingua/internal/screen"
	catalog "github.com/abhisek/lingua/internal/shop"
	"github.com/abhisek/lingua/internal/ui/components"
	"github.com/abhisek/lingua/internal/ui/layout"
	"github.com/abhisek/lingua/internal/ui/theme"
)

// Checkout field indexes.
const (
	fieldNumber = iota
	fieldExpiry
	fieldCVV
	fieldCount
)

// purchaseDoneMsg reports the end of a purchase attempt.
type purchaseDoneMsg struct {
	Receipt   payment.Receipt
	Err       error
	CommitErr error
}

// CheckoutScreen collects card details for one item and runs the purchase.
type CheckoutScreen struct {
	deps   screen.Deps
	item   catalog.Item
	fields [fieldCount]components.TextInput
	focus  int

	authorizing bool
	cancel      context.CancelFunc
	receipt     *payment.Receipt
	errMsg      string
}

var (
	_ screen.Screen          = (*CheckoutScreen)(nil)
	_ screen.KeyHintProvider = (*CheckoutScreen)(nil)
	_ screen.BackInterceptor = (*CheckoutScreen)(nil)
)

// NewCheckout creates the card form for item.
func NewCheckout(deps screen.Deps, item catalog.Item) *CheckoutScreen {
	c := &CheckoutScreen{deps: deps, item: item}
	c.fields[fieldNumber] = components.NewTextInput(deps.Label("card_number"), "8600 0000 0000 0000", 23, components.CardChars)
	c.fields[fieldExpiry] = components.NewTextInput(deps.Label("expiry"), "MM/YY", 5, components.ExpiryChars)
	c.fields[fieldCVV] = components.NewTextInput(deps.Label("cvv"), "123", 3, components.Digits).Masked()
	c.fields[fieldExpiry].Blur()
	c.fields[fieldCVV].Blur()
	return c
}

func (c *CheckoutScreen) Init() tea.Cmd { return c.fields[fieldNumber].Focus() }

func (c *CheckoutScreen) Title() string { return c.deps.Label("checkout_title") }

// InterceptsBack keeps esc for cancelling an authorization in flight.
func (c *CheckoutScreen) InterceptsBack() bool { return c.authorizing }

func (c *CheckoutScreen) KeyHints() []layout.KeyHint {
	switch {
	case c.authorizing:
		return []layout.KeyHint{{Key: "Esc", Description: c.deps.Label("cancel")}}
	case c.receipt != nil:
		return []layout.KeyHint{{Key: "any key", Description: c.deps.Label("continue")}}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: c.deps.Label("pay_now")},
		{Key: "Esc", Description: c.deps.Label("back")},
	}
}

func (c *CheckoutScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case purchaseDoneMsg:
		return c.handleDone(msg)
	case tea.KeyPressMsg:
		return c.handleKey(msg)
	}
	return c, nil
}

func (c *CheckoutScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if c.receipt != nil {
		return c, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if c.authorizing {
		if key == "esc" && c.cancel != nil {
			c.cancel()
		}
		return c, nil
	}

	switch key {
	case "tab", "down":
		return c, c.moveFocus(1)
	case "shift+tab", "up":
		return c, c.moveFocus(-1)
	case "enter":
		if c.focus < fieldCVV {
			return c, c.moveFocus(1)
		}
		return c, c.purchase()
	}

	var cmd tea.Cmd
	c.fields[c.focus], cmd = c.fields[c.focus].Update(msg)
	return c, cmd
}

func (c *CheckoutScreen) moveFocus(step int) tea.Cmd {
	c.fields[c.focus].Blur()
	c.focus = (c.focus + step + fieldCount) % fieldCount
	return c.fields[c.focus].Focus()
}

// purchase starts the processor in the background. The account is
// committed from the command so a completed payment is never lost.
func (c *CheckoutScreen) purchase() tea.Cmd {
	acct := c.deps.Live.Get()
	if acct == nil {
		c.errMsg = "No account."
		return nil
	}
	card := payment.CardInput{
		Number: c.fields[fieldNumber].Value(),
		Expiry: c.fields[fieldExpiry].Value(),
		CVV:    c.fields[fieldCVV].Value(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.authorizing = true
	c.errMsg = ""

	payments, live, itemID := c.deps.Payments, c.deps.Live, c.item.ID
	return func() tea.Msg {
		defer cancel()
		next, receipt, err := payments.Purchase(ctx, acct, itemID, card)
		if err != nil {
			return purchaseDoneMsg{Err: err}
		}
		return purchaseDoneMsg{Receipt: receipt, CommitErr: live.Commit(context.Background(), next)}
	}
}

func (c *CheckoutScreen) handleDone(msg purchaseDoneMsg) (screen.Screen, tea.Cmd) {
	c.authorizing = false
	c.cancel = nil

	switch {
	case errors.Is(msg.Err, context.Canceled):
		c.errMsg = "Transaction cancelled."
	case msg.Err != nil:
		c.errMsg = describe(msg.Err)
	case msg.CommitErr != nil:
		logrus.WithError(msg.CommitErr).WithField("receipt", msg.Receipt.ID).Error("purchase succeeded but account was not saved")
		c.errMsg = "Payment accepted but the account could not be saved: " + msg.CommitErr.Error()
	default:
		r := msg.Receipt
		c.receipt = &r
	}
	return c, nil
}

// describe turns a purchase error into the message shown to the learner.
func describe(err error) string {
	var rej *payment.RejectionError
	switch {
	case errors.As(err, &rej):
		return rej.Error()
	case errors.Is(err, payment.ErrInProgress):
		return "Another transaction is still being authorized."
	default:
		return err.Error()
	}
}

func (c *CheckoutScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	summary := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(c.item.Name) +
		"   " + theme.Body.Render(c.item.PriceLabel())

	var body string
	switch {
	case c.receipt != nil:
		body = components.BorderedCard(strings.Join([]string{
			theme.Correct.Render("✓ " + c.deps.Label("payment_success")),
			"",
			theme.Hint.Render(fmt.Sprintf("%s •••• %s  receipt %s", c.receipt.Network.Label(), c.receipt.Last4, shortID(c.receipt.ID))),
		}, "\n"), cw, theme.Success)
	default:
		rows := []string{summary, ""}
		for i := range c.fields {
			rows = append(rows, c.fields[i].View(), "")
		}
		if n := payment.DetectNetwork(payment.Digits(c.fields[fieldNumber].Value())); n != payment.NetworkUnknown {
			rows = append(rows, lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Render(n.Label()))
		}
		if c.authorizing {
			rows = append(rows, lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(c.deps.Label("authorizing")))
		} else {
			rows = append(rows, components.ArcadeButton(c.deps.Label("pay_now"), c.focus == fieldCVV, 30))
		}
		if c.errMsg != "" {
			rows = append(rows, "", theme.Incorrect.Render(c.errMsg))
		}
		body = components.Card(strings.Join(rows, "\n"), cw)
	}

	return components.CabinetFrame(
		lipgloss.JoinVertical(lipgloss.Center, theme.Title.Render(c.deps.Label("checkout_title")), "", body),
		width, height)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

var _ screen.Payments = (*payment.Processor)(nil)
