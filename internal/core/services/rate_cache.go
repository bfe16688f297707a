package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cajaviva/pos_settlement_app/internal/apperrors"
	"github.com/cajaviva/pos_settlement_app/internal/core/domain"
	portsrepo "github.com/cajaviva/pos_settlement_app/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

const (
	defaultRateTTL      = time.Hour
	defaultFetchTimeout = 5 * time.Second
)

// RateCache holds the last fetched or manually set rate per rate type for one
// store, bounded by a TTL. Concurrent GetRate calls for the same rate type
// collapse onto a single outbound fetch; all callers in the race window
// observe the same result. A reader never sees a half-written rate: entries
// are replaced whole under the lock.
type RateCache struct {
	BaseService

	storeID      string
	source       portsrepo.RateSource
	recorder     portsrepo.RateHistoryRecorder // optional
	ttl          time.Duration
	fetchTimeout time.Duration
	now          func() time.Time

	mu      sync.RWMutex
	entries map[domain.RateType]domain.Rate

	group singleflight.Group
}

// RateCacheOption customises a RateCache.
type RateCacheOption func(*RateCache)

// WithTTL overrides the default one-hour cache TTL.
func WithTTL(ttl time.Duration) RateCacheOption {
	return func(c *RateCache) { c.ttl = ttl }
}

// WithFetchTimeout overrides the default five-second provider fetch timeout.
func WithFetchTimeout(timeout time.Duration) RateCacheOption {
	return func(c *RateCache) { c.fetchTimeout = timeout }
}

// WithClock overrides the time source, used by tests to control TTL expiry.
func WithClock(now func() time.Time) RateCacheOption {
	return func(c *RateCache) { c.now = now }
}

// WithHistoryRecorder wires the append-only rate history log. Recording is
// best-effort and never fails a rate read.
func WithHistoryRecorder(recorder portsrepo.RateHistoryRecorder) RateCacheOption {
	return func(c *RateCache) { c.recorder = recorder }
}

// NewRateCache creates a RateCache for one store backed by the given source.
func NewRateCache(storeID string, source portsrepo.RateSource, opts ...RateCacheOption) *RateCache {
	c := &RateCache{
		storeID:      storeID,
		source:       source,
		ttl:          defaultRateTTL,
		fetchTimeout: defaultFetchTimeout,
		now:          time.Now,
		entries:      make(map[domain.RateType]domain.Rate),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetRate returns the rate for a rate type. A fresh cache entry is returned
// without touching the source. On a cold or expired cache exactly one fetch
// goes out; concurrent callers await its result. A failed fetch falls back to
// the stale entry when one exists, otherwise ErrRateUnavailable.
func (c *RateCache) GetRate(ctx context.Context, rateType domain.RateType) (domain.Rate, error) {
	if rate, ok := c.fresh(rateType); ok {
		return rate, nil
	}

	v, err, _ := c.group.Do(string(rateType), func() (interface{}, error) {
		// A waiter queued behind a completed fetch sees the fresh entry here
		// instead of fetching again.
		if rate, ok := c.fresh(rateType); ok {
			return rate, nil
		}

		// The fetch deadline is fixed and detached from any single caller:
		// every waiter shares this one attempt.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()

		value, fetchErr := c.source.FetchRate(fetchCtx, rateType)
		if fetchErr == nil && value.Sign() <= 0 {
			fetchErr = fmt.Errorf("%w: provider returned %s", apperrors.ErrInvalidRate, value)
		}
		if fetchErr != nil {
			if stale, ok := c.lookup(rateType); ok {
				c.LogWarn(ctx, "Rate fetch failed, serving stale cache",
					slog.String("store_id", c.storeID),
					slog.String("rate_type", string(rateType)),
					slog.String("error", fetchErr.Error()),
				)
				return stale, nil
			}
			return nil, fmt.Errorf("%w: rate type %s: %s", apperrors.ErrRateUnavailable, rateType, fetchErr)
		}

		rate := domain.Rate{Value: value, Origin: domain.RateOriginAPI, FetchedAt: c.now()}
		c.replace(ctx, rateType, rate)
		return rate, nil
	})
	if err != nil {
		return domain.Rate{}, err
	}
	return v.(domain.Rate), nil
}

// SetManualRate immediately replaces the cached rate with a manual value and
// resets the TTL clock. The next successful automatic fetch overwrites it.
func (c *RateCache) SetManualRate(ctx context.Context, rateType domain.RateType, value decimal.Decimal) (domain.Rate, error) {
	if value.Sign() <= 0 {
		return domain.Rate{}, fmt.Errorf("%w: manual rate must be positive, got %s", apperrors.ErrInvalidRate, value)
	}
	rate := domain.Rate{Value: value, Origin: domain.RateOriginManual, FetchedAt: c.now()}
	c.replace(ctx, rateType, rate)
	return rate, nil
}

func (c *RateCache) fresh(rateType domain.RateType) (domain.Rate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rate, ok := c.entries[rateType]
	if !ok || c.now().Sub(rate.FetchedAt) >= c.ttl {
		return domain.Rate{}, false
	}
	return rate, true
}

func (c *RateCache) lookup(rateType domain.RateType) (domain.Rate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rate, ok := c.entries[rateType]
	return rate, ok
}

func (c *RateCache) replace(ctx context.Context, rateType domain.RateType, rate domain.Rate) {
	c.mu.Lock()
	c.entries[rateType] = rate
	c.mu.Unlock()

	if c.recorder == nil {
		return
	}
	err := c.recorder.RecordRate(ctx, domain.ExchangeRate{
		ExchangeRateID: uuid.NewString(),
		StoreID:        c.storeID,
		RateType:       rateType,
		Value:          rate.Value,
		Origin:         rate.Origin,
		FetchedAt:      rate.FetchedAt,
	})
	if err != nil {
		c.LogWarn(ctx, "Failed to record rate history",
			slog.String("store_id", c.storeID),
			slog.String("rate_type", string(rateType)),
			slog.String("error", err.Error()),
		)
	}
}
