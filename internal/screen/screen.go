package screen

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lingua/internal/account"
	"github.com/abhisek/lingua/internal/i18n"
	"github.com/abhisek/lingua/internal/lesson"
	"github.com/abhisek/lingua/internal/oracle"
	"github.com/abhisek/lingua/internal/payment"
	"github.com/abhisek/lingua/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// BackInterceptor is implemented by screens that handle esc themselves,
// such as a lesson asking for confirmation before leaving.
type BackInterceptor interface {
	InterceptsBack() bool
}

// Payments buys shop items.
type Payments interface {
	Purchase(ctx context.Context, acct *account.Account, itemID string, card payment.CardInput) (*account.Account, payment.Receipt, error)
}

// Dictionary looks up words.
type Dictionary interface {
	LookupWord(ctx context.Context, word, native, target string) (*oracle.Definition, error)
}

// Deps are the services the screens share. Optional services may be nil;
// screens degrade instead of failing.
type Deps struct {
	Identity   string
	Live       *account.Live
	Lessons    *lesson.Machine
	Payments   Payments
	Dictionary Dictionary
	Speaker    oracle.Speaker
	Translator i18n.Translator
}

// Label returns the localized UI string for key.
func (d Deps) Label(key string) string {
	if d.Live != nil {
		if a := d.Live.Get(); a != nil {
			return a.Label(key)
		}
	}
	return i18n.Default().Get(key)
}
