// Package i18n holds the UI string table and its localization.
package i18n

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Table maps UI string keys to display text.
type Table map[string]string

var defaults = Table{
	"roadmap":          "Neural Path",
	"shop":             "Shop",
	"dictionary":       "Dictionary",
	"back":             "Back",
	"hearts":           "Hearts",
	"energy":           "Energy",
	"level":            "Nodes",
	"continue":         "Continue",
	"confirm":          "Confirm",
	"cancel":           "Cancel",
	"buy":              "Buy",
	"define":           "Define",
	"search":           "Search word...",
	"replay_audio":     "Replay Audio",
	"syncing":          "Syncing...",
	"syncing_neural":   "Searching Neural Paths...",
	"congratulations":  "Congratulations!",
	"excellent":        "Excellent Work!",
	"incorrect_title":  "Incorrect Answer",
	"reason_label":     "Reason",
	"gameover":         "Neural Exhaustion! Game Over.",
	"empty_dict":       "Your neural dictionary is empty.",
	"leave_task_title": "Are you sure?",
	"leave_task_body":  "Leaving now discards this node's progress.",
	"yes_btn":          "YES",
	"no_btn":           "NO",
	"checkout_title":   "Neural Payment",
	"card_number":      "Card Number",
	"expiry":           "MM/YY",
	"cvv":              "CVV",
	"pay_now":          "Authorize Transaction",
	"authorizing":      "Authorizing...",
	"payment_success":  "Transaction Verified! Your neural assets have been credited.",
	"premium":          "Premium",
	"nickname":         "Nickname",
	"native_tongue":    "Native Tongue",
	"learning_goal":    "Learning Goal",
	"rank":             "Rank",
}

// Default returns a copy of the built-in English table.
func Default() Table {
	return defaults.Clone()
}

// Clone returns an independent copy of t.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Get returns the text for key, falling back to the built-in table and
// finally to the key itself.
func (t Table) Get(key string) string {
	if v, ok := t[key]; ok && v != "" {
		return v
	}
	if v, ok := defaults[key]; ok {
		return v
	}
	return key
}

// Translator translates a string table into a language.
type Translator interface {
	TranslateStrings(ctx context.Context, table map[string]string, language string) (map[string]string, error)
}

// Localize returns the default table translated into language. Missing
// keys keep their English text. On failure the default table is returned
// unchanged along with the error, so callers can ignore it.
func Localize(ctx context.Context, tr Translator, language string) (Table, error) {
	table := Default()
	if tr == nil || language == "" || language == "English" {
		return table, nil
	}

	translated, err := tr.TranslateStrings(ctx, table, language)
	if err != nil {
		logrus.WithError(err).WithField("language", language).Warn("UI translation failed, keeping defaults")
		return table, err
	}
	for k, v := range translated {
		if _, known := table[k]; known && v != "" {
			table[k] = v
		}
	}
	return table, nil
}
