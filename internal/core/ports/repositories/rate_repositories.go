package repositories

import (
	"context"

	"github.com/cajaviva/pos_settlement_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateSource fetches the current rate for a rate type from an external
// provider. Implementations return an error on any failure (non-2xx, missing
// or non-positive rate field, timeout); they never retry internally.
type RateSource interface {
	FetchRate(ctx context.Context, rateType domain.RateType) (decimal.Decimal, error)
}

// RateHistoryRecorder appends rate fetches and manual overrides to the
// exchange rate history log. Recording is best-effort: a recording failure
// must never fail the settlement that triggered the fetch.
type RateHistoryRecorder interface {
	RecordRate(ctx context.Context, rate domain.ExchangeRate) error
}

// RateHistoryReader reads back the rate history log.
type RateHistoryReader interface {
	ListRates(ctx context.Context, storeID string, rateType domain.RateType, limit int) ([]domain.ExchangeRate, error)
}

// RateHistoryRepositoryFacade combines all rate-history repository interfaces.
type RateHistoryRepositoryFacade interface {
	RateHistoryRecorder
	RateHistoryReader
}
