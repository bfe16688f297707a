package services

import (
	"context"
	"sync"

	"github.com/cajaviva/pos_settlement_app/internal/core/domain"
	portsrepo "github.com/cajaviva/pos_settlement_app/internal/core/ports/repositories"
	portssvc "github.com/cajaviva/pos_settlement_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// RateCacheRegistry hands out one RateCache per store, created lazily. The
// cache instance is shared read/write state across all concurrent settlements
// for that store; there is no process-wide singleton.
type RateCacheRegistry struct {
	mu       sync.Mutex
	caches   map[string]*RateCache
	newCache func(storeID string) *RateCache
}

// NewRateCacheRegistry creates a registry around a per-store cache factory.
func NewRateCacheRegistry(factory func(storeID string) *RateCache) *RateCacheRegistry {
	return &RateCacheRegistry{
		caches:   make(map[string]*RateCache),
		newCache: factory,
	}
}

// ForStore returns the cache for a store, creating it on first use.
func (r *RateCacheRegistry) ForStore(storeID string) portssvc.RateCacheSvc {
	r.mu.Lock()
	defer r.mu.Unlock()
	cache, ok := r.caches[storeID]
	if !ok {
		cache = r.newCache(storeID)
		r.caches[storeID] = cache
	}
	return cache
}

// RateService exposes rate reads, manual overrides, and the history log to
// the HTTP layer, keyed by store id.
type RateService struct {
	BaseService
	caches  portssvc.RateCacheProvider
	history portsrepo.RateHistoryReader // optional
}

// NewRateService creates a new RateService. The history reader may be nil
// when no durable rate log is configured.
func NewRateService(caches portssvc.RateCacheProvider, history portsrepo.RateHistoryReader) *RateService {
	return &RateService{caches: caches, history: history}
}

// GetRate returns the current rate for a store and rate type, fetching
// through the provider when the cache is cold.
func (s *RateService) GetRate(ctx context.Context, storeID string, rateType domain.RateType) (domain.Rate, error) {
	return s.caches.ForStore(storeID).GetRate(ctx, rateType)
}

// SetManualRate records a manual rate override for a store and rate type.
func (s *RateService) SetManualRate(ctx context.Context, storeID string, rateType domain.RateType, value decimal.Decimal) (domain.Rate, error) {
	return s.caches.ForStore(storeID).SetManualRate(ctx, rateType, value)
}

// ListRateHistory returns the most recent history rows for a store and rate
// type, newest first.
func (s *RateService) ListRateHistory(ctx context.Context, storeID string, rateType domain.RateType, limit int) ([]domain.ExchangeRate, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.ListRates(ctx, storeID, rateType, limit)
}
