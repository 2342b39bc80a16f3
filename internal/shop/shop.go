// Package shop is the static catalog of purchasable resource packs.
package shop

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/abhisek/lingua/internal/ledger"
)

// EffectKind is what an item grants.
type EffectKind string

const (
	EffectHearts        EffectKind = "hearts"
	EffectEnergy        EffectKind = "energy"
	EffectPremium       EffectKind = "premium"
	EffectFamilyPremium EffectKind = "family_premium"
)

// Effect is the resource change an item applies.
type Effect struct {
	Kind   EffectKind `validate:"required,oneof=hearts energy premium family_premium"`
	Amount int        `validate:"gte=0"`
}

// Delta converts the effect into a ledger delta.
func (e Effect) Delta() ledger.Delta {
	switch e.Kind {
	case EffectHearts:
		return ledger.Delta{Hearts: e.Amount}
	case EffectEnergy:
		return ledger.Delta{Energy: e.Amount}
	case EffectPremium:
		return ledger.Delta{SetPremium: ledger.Flag(true)}
	case EffectFamilyPremium:
		// A family plan includes premium for the purchaser.
		return ledger.Delta{SetPremium: ledger.Flag(true), SetFamilyPremium: ledger.Flag(true)}
	default:
		return ledger.Delta{}
	}
}

// Item is a catalog entry. Items are never mutated.
type Item struct {
	ID          string  `validate:"required"`
	Name        string  `validate:"required"`
	Description string  `validate:"required"`
	Effect      Effect  `validate:"required"`
	Price       float64 `validate:"gt=0"`
	Period      string  `validate:"omitempty,oneof=month year"`
}

// PriceLabel formats the price for display.
func (i Item) PriceLabel() string {
	switch i.Period {
	case "month":
		return fmt.Sprintf("$%.2f/m", i.Price)
	case "year":
		return fmt.Sprintf("$%.2f/y", i.Price)
	default:
		return fmt.Sprintf("$%.2f", i.Price)
	}
}

var catalog = []Item{
	{ID: "h10", Name: "+10 Hearts", Description: "Restore life pulse instantly", Effect: Effect{Kind: EffectHearts, Amount: 10}, Price: 1.99},
	{ID: "e20", Name: "+20 Energy", Description: "Powerful neural surge", Effect: Effect{Kind: EffectEnergy, Amount: 20}, Price: 0.99},
	{ID: "p_ult", Name: "PREMIUM", Description: "Unlimited Hearts & Energy Forever", Effect: Effect{Kind: EffectPremium}, Price: 9.67},
	{ID: "f_mo", Name: "Family Monthly", Description: "Sync with up to 5 members", Effect: Effect{Kind: EffectFamilyPremium}, Price: 59.99, Period: "month"},
	{ID: "f_yr", Name: "Family Yearly", Description: "Best value for the whole family", Effect: Effect{Kind: EffectFamilyPremium}, Price: 119.99, Period: "year"},
}

func init() {
	if err := validateCatalog(catalog); err != nil {
		panic(err)
	}
}

func validateCatalog(items []Item) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if err := v.Struct(it); err != nil {
			return fmt.Errorf("shop item %q: %w", it.ID, err)
		}
		if seen[it.ID] {
			return fmt.Errorf("duplicate shop item %q", it.ID)
		}
		seen[it.ID] = true
	}
	return nil
}

// Catalog returns the items in display order.
func Catalog() []Item {
	return append([]Item(nil), catalog...)
}

// Find returns the item with id.
func Find(id string) (Item, bool) {
	for _, it := range catalog {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}
