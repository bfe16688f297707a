package domain

import (
	"fmt"

	"github.com/cajaviva/pos_settlement_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Currency identifies one of the two currencies the platform settles in.
// The strong currency is the stable reference unit; the local currency floats
// against it at the applicable exchange rate.
type Currency string

const (
	CurrencyStrong Currency = "USD"
	CurrencyLocal  Currency = "VES"
)

// ParseCurrency validates a currency code from an API boundary.
func ParseCurrency(s string) (Currency, error) {
	switch Currency(s) {
	case CurrencyStrong, CurrencyLocal:
		return Currency(s), nil
	}
	return "", fmt.Errorf("%w: unknown currency %q", apperrors.ErrValidation, s)
}

// Opposite returns the other currency of the pair.
func (c Currency) Opposite() Currency {
	if c == CurrencyStrong {
		return CurrencyLocal
	}
	return CurrencyStrong
}

// MoneyCents is the only internal money representation: a signed count of
// minor units (cents) tagged with its currency. Amounts never exist as binary
// floating point past the input boundary. Arithmetic between two values of
// different currencies is illegal without an explicit conversion step that
// records the rate used.
type MoneyCents struct {
	Cents    int64    `json:"cents"`
	Currency Currency `json:"currency"`
}

// NewMoneyCents builds a MoneyCents value.
func NewMoneyCents(cents int64, currency Currency) MoneyCents {
	return MoneyCents{Cents: cents, Currency: currency}
}

// Add returns m + other, failing on a currency mismatch.
func (m MoneyCents) Add(other MoneyCents) (MoneyCents, error) {
	if m.Currency != other.Currency {
		return MoneyCents{}, fmt.Errorf("%w: cannot add %s to %s", apperrors.ErrCurrencyMismatch, other.Currency, m.Currency)
	}
	return MoneyCents{Cents: m.Cents + other.Cents, Currency: m.Currency}, nil
}

// Sub returns m - other, failing on a currency mismatch.
func (m MoneyCents) Sub(other MoneyCents) (MoneyCents, error) {
	if m.Currency != other.Currency {
		return MoneyCents{}, fmt.Errorf("%w: cannot subtract %s from %s", apperrors.ErrCurrencyMismatch, other.Currency, m.Currency)
	}
	return MoneyCents{Cents: m.Cents - other.Cents, Currency: m.Currency}, nil
}

// IsNegative reports whether the amount is below zero.
func (m MoneyCents) IsNegative() bool {
	return m.Cents < 0
}

// IsZero reports whether the amount is exactly zero.
func (m MoneyCents) IsZero() bool {
	return m.Cents == 0
}

// Decimal exposes the cent count as a decimal for conversion arithmetic.
func (m MoneyCents) Decimal() decimal.Decimal {
	return decimal.NewFromInt(m.Cents)
}

// String renders the amount in major units for logs and error messages.
func (m MoneyCents) String() string {
	return fmt.Sprintf("%s %s", decimal.NewFromInt(m.Cents).Shift(-2).StringFixed(2), m.Currency)
}
