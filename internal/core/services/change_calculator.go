package services

import (
	"fmt"

	"github.com/cajaviva/pos_settlement_app/internal/apperrors"
	"github.com/cajaviva/pos_settlement_app/internal/core/domain"
	portssvc "github.com/cajaviva/pos_settlement_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// ChangeCalculator computes the change owed to a customer, the currency it is
// handed in, and its physical denomination breakdown.
type ChangeCalculator struct {
	converter portssvc.MoneyConverterSvc
	denoms    domain.DenominationSet
}

// NewChangeCalculator creates a ChangeCalculator. A nil denomination set
// falls back to the default USD/VES sets.
func NewChangeCalculator(converter portssvc.MoneyConverterSvc, denoms domain.DenominationSet) *ChangeCalculator {
	if denoms == nil {
		denoms = domain.DefaultDenominations()
	}
	return &ChangeCalculator{converter: converter, denoms: denoms}
}

// Compute derives the change for received minus totalOwed. Both amounts must
// share a currency; the caller converts beforehand when they do not. The
// store's preferred change currency and small-change policy decide the
// currency handed over; the greedy breakdown then allocates denominations
// largest to smallest, leaving any unrepresentable remainder as excess for
// the configured excess action.
func (c *ChangeCalculator) Compute(totalOwed, received domain.MoneyCents, config domain.StoreRateConfig, rate domain.Rate) (domain.ChangeResult, error) {
	raw, err := received.Sub(totalOwed)
	if err != nil {
		return domain.ChangeResult{}, err
	}
	if raw.IsNegative() {
		return domain.ChangeResult{}, fmt.Errorf("%w: received less than owed", apperrors.ErrInsufficientPayment)
	}
	if raw.IsZero() {
		return domain.ChangeResult{Change: raw, ExcessAction: config.ExcessAction}, nil
	}

	change := raw
	appliedRate := decimal.Decimal{}

	target := change.Currency
	switch config.PreferredChangeCurrency {
	case domain.ChangeCurrencyStrong:
		target = domain.CurrencyStrong
	case domain.ChangeCurrencyLocal:
		target = domain.CurrencyLocal
	}
	if target != change.Currency {
		change, err = c.converter.Convert(change, rate.Value, config.Rounding, config.Precision)
		if err != nil {
			return domain.ChangeResult{}, err
		}
		appliedRate = rate.Value
	}

	// Strong-currency change below the threshold is forced into local
	// currency: the store cannot hand out fractional strong-currency coins.
	if config.AutoConvertSmallChange &&
		change.Currency == domain.CurrencyStrong &&
		config.SmallChangeThresholdCents > 0 &&
		change.Cents < config.SmallChangeThresholdCents {
		change, err = c.converter.Convert(change, rate.Value, config.Rounding, config.Precision)
		if err != nil {
			return domain.ChangeResult{}, err
		}
		appliedRate = rate.Value
	}

	denoms := c.denoms.For(change.Currency)
	breakdown, excess := breakDown(change.Cents, denoms)

	handed := change.Cents - excess
	if config.ExcessAction == domain.ExcessFavorCustomer && excess > 0 && len(denoms) > 0 {
		// Store absorbs the remainder: one extra smallest unit goes across
		// the counter. The breakdown itself stays the exact greedy result.
		handed += denoms[len(denoms)-1]
	}

	return domain.ChangeResult{
		Change:       change,
		HandedCents:  handed,
		Breakdown:    breakdown,
		ExcessCents:  excess,
		ExcessAction: config.ExcessAction,
		AppliedRate:  appliedRate,
	}, nil
}

// breakDown greedily allocates cents into the ordered denomination list.
// Precondition: denoms is sorted largest to smallest and forms a canonical
// system; greedy is not an optimal coin-change solver for arbitrary sets.
// It always holds that the subtotals plus the returned excess equal cents.
func breakDown(cents int64, denoms []int64) ([]domain.DenominationLine, int64) {
	remaining := cents
	var lines []domain.DenominationLine
	for _, d := range denoms {
		if d <= 0 || remaining < d {
			continue
		}
		count := remaining / d
		subtotal := d * count
		lines = append(lines, domain.DenominationLine{
			DenominationCents: d,
			Count:             count,
			SubtotalCents:     subtotal,
		})
		remaining -= subtotal
	}
	return lines, remaining
}
