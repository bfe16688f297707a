package domain

import (
	"fmt"
	"time"

	"github.com/cajaviva/pos_settlement_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// RateType names the source/channel an exchange rate is quoted on. It is an
// immutable identifier: never inferred, always explicit.
type RateType string

const (
	RateTypeOfficial RateType = "OFFICIAL"
	RateTypeParallel RateType = "PARALLEL"
	RateTypeCash     RateType = "CASH"
	RateTypeAltUSD   RateType = "ALT_USD"
)

// ParseRateType validates a rate type from an API boundary.
func ParseRateType(s string) (RateType, error) {
	switch RateType(s) {
	case RateTypeOfficial, RateTypeParallel, RateTypeCash, RateTypeAltUSD:
		return RateType(s), nil
	}
	return "", fmt.Errorf("%w: unknown rate type %q", apperrors.ErrValidation, s)
}

// RateOrigin records how a rate entered the cache.
type RateOrigin string

const (
	RateOriginAPI    RateOrigin = "API"
	RateOriginManual RateOrigin = "MANUAL"
)

// Rate is a point-in-time exchange rate: local-currency units per one
// strong-currency unit. Rates are superseded, never mutated.
type Rate struct {
	Value     decimal.Decimal `json:"value"`
	Origin    RateOrigin      `json:"origin"`
	FetchedAt time.Time       `json:"fetchedAt"`
}

// IsZero reports whether the rate has never been populated.
func (r Rate) IsZero() bool {
	return r.FetchedAt.IsZero()
}

// ExchangeRate is one append-only history row recording a fetched or manually
// set rate for a store. Payments never reference these rows; they freeze the
// applied rate as a value instead.
type ExchangeRate struct {
	ExchangeRateID string          `json:"exchangeRateID"`
	StoreID        string          `json:"storeID"`
	RateType       RateType        `json:"rateType"`
	Value          decimal.Decimal `json:"value"`
	Origin         RateOrigin      `json:"origin"`
	FetchedAt      time.Time       `json:"fetchedAt"`
}
