package services

import (
	"fmt"

	"github.com/cajaviva/pos_settlement_app/internal/apperrors"
	"github.com/cajaviva/pos_settlement_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MoneyConverter converts cent amounts between the strong and local currency.
// All arithmetic is decimal fixed-point; results are bit-for-bit reproducible
// for identical inputs.
type MoneyConverter struct{}

// NewMoneyConverter creates a new MoneyConverter.
func NewMoneyConverter() *MoneyConverter {
	return &MoneyConverter{}
}

// Convert applies rate (local units per strong unit) to amount and rounds at
// the smallest unit boundary implied by precision. Precision counts decimal
// places of the major unit (0-4); since the cent is the smallest internal
// unit, precision above 2 rounds at the one-cent boundary.
func (c *MoneyConverter) Convert(amount domain.MoneyCents, rate decimal.Decimal, rounding domain.RoundingMode, precision uint8) (domain.MoneyCents, error) {
	if rate.Sign() <= 0 {
		return domain.MoneyCents{}, fmt.Errorf("%w: rate must be positive, got %s", apperrors.ErrInvalidRate, rate)
	}
	if precision > 4 {
		return domain.MoneyCents{}, fmt.Errorf("%w: precision must be between 0 and 4", apperrors.ErrValidation)
	}

	var raw decimal.Decimal
	if amount.Currency == domain.CurrencyStrong {
		raw = amount.Decimal().Mul(rate)
	} else {
		raw = amount.Decimal().Div(rate)
	}

	// Rounding step in cents: precision 0 rounds to whole major units (100
	// cents), precision 1 to 10 cents, precision >= 2 to single cents.
	stepCents := int64(1)
	switch precision {
	case 0:
		stepCents = 100
	case 1:
		stepCents = 10
	}
	step := decimal.NewFromInt(stepCents)

	units := raw.Div(step)
	var rounded decimal.Decimal
	switch rounding {
	case domain.RoundingUp:
		rounded = units.RoundCeil(0)
	case domain.RoundingDown:
		rounded = units.RoundDown(0)
	case domain.RoundingNearest:
		rounded = units.Round(0)
	case domain.RoundingBanker:
		rounded = units.RoundBank(0)
	default:
		return domain.MoneyCents{}, fmt.Errorf("%w: unknown rounding mode %q", apperrors.ErrValidation, rounding)
	}

	return domain.NewMoneyCents(rounded.Mul(step).IntPart(), amount.Currency.Opposite()), nil
}
