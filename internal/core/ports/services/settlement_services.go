package services

import (
	"context"

	"github.com/cajaviva/pos_settlement_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateCacheSvc is one store's view of the rate cache: TTL-bounded reads with
// single-flight fetching and stale fallback, plus manual override.
type RateCacheSvc interface {
	// GetRate returns the cached rate for a rate type, fetching through the
	// source when the cache is cold or expired.
	GetRate(ctx context.Context, rateType domain.RateType) (domain.Rate, error)
	// SetManualRate replaces the cached rate immediately. The next successful
	// automatic fetch overwrites it; manual is a bridge, not a permanent
	// override.
	SetManualRate(ctx context.Context, rateType domain.RateType, value decimal.Decimal) (domain.Rate, error)
}

// RateCacheProvider hands out the per-store cache instance. Caches are shared
// across all concurrent settlements for that store.
type RateCacheProvider interface {
	ForStore(storeID string) RateCacheSvc
}

// RateResolverSvc resolves which rate applies to a payment method under a
// store's configuration.
type RateResolverSvc interface {
	Resolve(ctx context.Context, method domain.PaymentMethod, config domain.StoreRateConfig, cache RateCacheSvc) (domain.RateType, domain.Rate, error)
}

// MoneyConverterSvc converts cents between the two currencies with a
// configured rounding mode and precision.
type MoneyConverterSvc interface {
	Convert(amount domain.MoneyCents, rate decimal.Decimal, rounding domain.RoundingMode, precision uint8) (domain.MoneyCents, error)
}

// ChangeCalculatorSvc computes owed change, its currency, and its physical
// denomination breakdown.
type ChangeCalculatorSvc interface {
	Compute(totalOwed, received domain.MoneyCents, config domain.StoreRateConfig, rate domain.Rate) (domain.ChangeResult, error)
}

// SettlementSvcFacade runs the full settlement pipeline for one sale.
type SettlementSvcFacade interface {
	Settle(ctx context.Context, saleID string, saleTotal domain.MoneyCents, payments []domain.ProposedPayment, config domain.StoreRateConfig) (*domain.SettlementResult, error)
}

// StoreConfigSvcFacade manages per-store settlement policy.
type StoreConfigSvcFacade interface {
	GetConfig(ctx context.Context, storeID string) (*domain.StoreRateConfig, error)
	UpsertConfig(ctx context.Context, config domain.StoreRateConfig, updaterID string) (*domain.StoreRateConfig, error)
}

// RateSvcFacade exposes rate reads, manual overrides, and the rate history
// log, keyed by store.
type RateSvcFacade interface {
	GetRate(ctx context.Context, storeID string, rateType domain.RateType) (domain.Rate, error)
	SetManualRate(ctx context.Context, storeID string, rateType domain.RateType, value decimal.Decimal) (domain.Rate, error)
	ListRateHistory(ctx context.Context, storeID string, rateType domain.RateType, limit int) ([]domain.ExchangeRate, error)
}

// ServiceContainer holds instances of all the application services. Handlers
// depend on this, never on concrete service types.
type ServiceContainer struct {
	Settlement  SettlementSvcFacade
	Rates       RateSvcFacade
	StoreConfig StoreConfigSvcFacade
}
