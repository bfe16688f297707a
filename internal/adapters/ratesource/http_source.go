// Package ratesource implements the outbound rate provider client.
package ratesource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cajaviva/pos_settlement_app/internal/apperrors"
	"github.com/cajaviva/pos_settlement_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// HTTPRateSource fetches rates from per-rate-type JSON endpoints. A fetch
// fails on any non-2xx status, transport error, or missing/non-positive rate
// field; the cache layer decides what to do with the failure.
type HTTPRateSource struct {
	client    *http.Client
	endpoints map[domain.RateType]string
}

// NewHTTPRateSource creates an HTTPRateSource. The timeout bounds each fetch
// end to end, independent of the caller's context.
func NewHTTPRateSource(endpoints map[domain.RateType]string, timeout time.Duration) *HTTPRateSource {
	return &HTTPRateSource{
		client:    &http.Client{Timeout: timeout},
		endpoints: endpoints,
	}
}

// providerBody covers the field names the supported public providers use for
// the average/official quote. Numbers are kept as json.Number so the value
// never passes through binary floating point.
type providerBody struct {
	Promedio json.Number `json:"promedio"`
	Price    json.Number `json:"price"`
	Rate     json.Number `json:"rate"`
}

// FetchRate performs one GET against the endpoint configured for the rate
// type and extracts the rate value.
func (s *HTTPRateSource) FetchRate(ctx context.Context, rateType domain.RateType) (decimal.Decimal, error) {
	endpoint, ok := s.endpoints[rateType]
	if !ok || endpoint == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: no provider endpoint for rate type %s", apperrors.ErrRateUnavailable, rateType)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("building rate request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("rate provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decimal.Decimal{}, fmt.Errorf("rate provider returned status %d", resp.StatusCode)
	}

	var body providerBody
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return decimal.Decimal{}, fmt.Errorf("decoding rate provider body: %w", err)
	}

	for _, candidate := range []json.Number{body.Promedio, body.Price, body.Rate} {
		if candidate == "" {
			continue
		}
		value, err := decimal.NewFromString(candidate.String())
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("parsing rate value %q: %w", candidate, err)
		}
		if value.Sign() <= 0 {
			return decimal.Decimal{}, fmt.Errorf("%w: provider returned %s", apperrors.ErrInvalidRate, value)
		}
		return value, nil
	}
	return decimal.Decimal{}, fmt.Errorf("rate provider body carries no rate field")
}
