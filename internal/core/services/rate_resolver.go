package services

import (
	"context"
	"fmt"

	"github.com/cajaviva/pos_settlement_app/internal/apperrors"
	"github.com/cajaviva/pos_settlement_app/internal/core/domain"
	portssvc "github.com/cajaviva/pos_settlement_app/internal/core/ports/services"
)

// RateResolver yields the rate type and rate value to apply to a payment
// method under a store's configuration.
type RateResolver struct{}

// NewRateResolver creates a new RateResolver.
func NewRateResolver() *RateResolver {
	return &RateResolver{}
}

// Resolve looks up the configured rate type for the method and reads the rate
// through the store's cache. The returned rate is what the settlement freezes
// onto the payment as its applied rate.
func (r *RateResolver) Resolve(ctx context.Context, method domain.PaymentMethod, config domain.StoreRateConfig, cache portssvc.RateCacheSvc) (domain.RateType, domain.Rate, error) {
	rateType, err := config.RateTypeFor(method)
	if err != nil {
		return "", domain.Rate{}, err
	}

	rate, err := cache.GetRate(ctx, rateType)
	if err != nil {
		return "", domain.Rate{}, fmt.Errorf("%w: resolving method %s: %s", apperrors.ErrRateUnavailable, method, err)
	}
	return rateType, rate, nil
}
