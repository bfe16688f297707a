package dto

import (
	"time"

	"github.com/cajaviva/pos_settlement_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SetManualRateRequest records a manual rate override for a store.
type SetManualRateRequest struct {
	Value decimal.Decimal `json:"value" binding:"required"`
}

// RateResponse is the API shape of a resolved rate.
type RateResponse struct {
	RateType  string          `json:"rateType"`
	Value     decimal.Decimal `json:"value"`
	Origin    string          `json:"origin"`
	FetchedAt time.Time       `json:"fetchedAt"`
}

// ToRateResponse converts a domain.Rate to its API shape.
func ToRateResponse(rateType domain.RateType, rate domain.Rate) RateResponse {
	return RateResponse{
		RateType:  string(rateType),
		Value:     rate.Value,
		Origin:    string(rate.Origin),
		FetchedAt: rate.FetchedAt,
	}
}

// RateHistoryEntryResponse is one rate history row in an API response.
type RateHistoryEntryResponse struct {
	ExchangeRateID string          `json:"exchangeRateID"`
	RateType       string          `json:"rateType"`
	Value          decimal.Decimal `json:"value"`
	Origin         string          `json:"origin"`
	FetchedAt      time.Time       `json:"fetchedAt"`
}

// ToRateHistoryResponse converts history rows to their API shape.
func ToRateHistoryResponse(rates []domain.ExchangeRate) []RateHistoryEntryResponse {
	resp := make([]RateHistoryEntryResponse, 0, len(rates))
	for _, r := range rates {
		resp = append(resp, RateHistoryEntryResponse{
			ExchangeRateID: r.ExchangeRateID,
			RateType:       string(r.RateType),
			Value:          r.Value,
			Origin:         string(r.Origin),
			FetchedAt:      r.FetchedAt,
		})
	}
	return resp
}
