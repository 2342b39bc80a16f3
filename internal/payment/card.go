// Package payment validates card input and applies simulated purchases.
// No real payment processing happens here.
package payment

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Network is the card network inferred from the number prefix.
type Network string

const (
	NetworkUzcard     Network = "uzcard"
	NetworkHumo       Network = "humo"
	NetworkVisa       Network = "visa"
	NetworkMastercard Network = "mastercard"
	NetworkUnknown    Network = "unknown"
)

// Local reports whether n is a domestic network. Local networks need
// neither a checksum nor a CVV.
func (n Network) Local() bool {
	return n == NetworkUzcard || n == NetworkHumo
}

// Prefix is the exact leading digits required for local networks.
func (n Network) Prefix() string {
	switch n {
	case NetworkUzcard:
		return "8600"
	case NetworkHumo:
		return "9860"
	default:
		return ""
	}
}

// Label is the display name of the network.
func (n Network) Label() string {
	switch n {
	case NetworkUzcard:
		return "Uzcard"
	case NetworkHumo:
		return "Humo"
	case NetworkVisa:
		return "Visa"
	case NetworkMastercard:
		return "Mastercard"
	default:
		return "Unknown"
	}
}

// CardLength is the only accepted card number length.
const CardLength = 16

// CardInput is the raw form input for one purchase attempt.
type CardInput struct {
	Number string
	Expiry string
	CVV    string
}

// Last4 returns the last four digits of the number for receipts.
func (c CardInput) Last4() string {
	d := Digits(c.Number)
	if len(d) < 4 {
		return d
	}
	return d[len(d)-4:]
}

// Digits strips spaces and dashes from a card number.
func Digits(number string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' || r == '\t' {
			return -1
		}
		return r
	}, number)
}

// DetectNetwork infers the network from the leading digits.
func DetectNetwork(digits string) Network {
	switch {
	case strings.HasPrefix(digits, "8600"):
		return NetworkUzcard
	case strings.HasPrefix(digits, "9860"):
		return NetworkHumo
	case strings.HasPrefix(digits, "4"):
		return NetworkVisa
	case strings.HasPrefix(digits, "5"):
		return NetworkMastercard
	default:
		return NetworkUnknown
	}
}

// Luhn reports whether digits pass the mod-10 checksum. Any non-digit
// fails the check.
func Luhn(digits string) bool {
	if digits == "" {
		return false
	}
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// Reason names the check that rejected a card.
type Reason string

const (
	ReasonLength       Reason = "invalid_length"
	ReasonNetwork      Reason = "unsupported_network"
	ReasonPrefix       Reason = "invalid_prefix"
	ReasonSignature    Reason = "invalid_signature"
	ReasonCVV          Reason = "cvv_required"
	ReasonExpiryFormat Reason = "invalid_expiry"
	ReasonExpired      Reason = "expired"
)

// RejectionError is returned by Validate for the first failing check.
type RejectionError struct {
	Reason  Reason
	Network Network
}

func (e *RejectionError) Error() string {
	switch e.Reason {
	case ReasonLength:
		return "Invalid node length. Neural link requires 16 digits."
	case ReasonNetwork:
		return "Unsupported network. Use Humo, Uzcard, Visa, or Mastercard."
	case ReasonPrefix:
		return fmt.Sprintf("Invalid %s network prefix.", e.Network.Label())
	case ReasonSignature:
		return "Neural signature invalid (Luhn check failed)."
	case ReasonCVV:
		return "Secure CVV (3 digits) required for global networks."
	case ReasonExpiryFormat:
		return "Invalid expiry format. Use MM/YY."
	case ReasonExpired:
		return "Neural asset expired. Please use a valid card."
	default:
		return string(e.Reason)
	}
}

func reject(r Reason, n Network) error {
	return &RejectionError{Reason: r, Network: n}
}

// Validate runs the card checks in order and returns a *RejectionError for
// the first one that fails. now is the reference date for expiry.
func Validate(card CardInput, now time.Time) error {
	digits := Digits(card.Number)
	if len(digits) != CardLength || !allDigits(digits) {
		return reject(ReasonLength, NetworkUnknown)
	}

	network := DetectNetwork(digits)
	if network == NetworkUnknown {
		return reject(ReasonNetwork, network)
	}

	if network.Local() {
		if digits[:4] != network.Prefix() {
			return reject(ReasonPrefix, network)
		}
	} else {
		if !Luhn(digits) {
			return reject(ReasonSignature, network)
		}
		if cvv := strings.TrimSpace(card.CVV); len(cvv) != 3 || !allDigits(cvv) {
			return reject(ReasonCVV, network)
		}
	}

	month, year, ok := parseExpiry(card.Expiry)
	if !ok {
		return reject(ReasonExpiryFormat, network)
	}
	curYear, curMonth := now.Year()%100, int(now.Month())
	if month < 1 || month > 12 || year < curYear || (year == curYear && month < curMonth) {
		return reject(ReasonExpired, network)
	}
	return nil
}

// parseExpiry splits "MM/YY". Two-digit years compare directly, so a card
// is never valid past the century wrap.
func parseExpiry(s string) (month, year int, ok bool) {
	if len(s) != 5 || s[2] != '/' {
		return 0, 0, false
	}
	mm, yy := s[:2], s[3:]
	if !allDigits(mm) || !allDigits(yy) {
		return 0, 0, false
	}
	month, _ = strconv.Atoi(mm)
	year, _ = strconv.Atoi(yy)
	return month, year, true
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
