package dto

import (
	"time"

	"github.com/cajaviva/pos_settlement_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ProposedPaymentRequest is one payment instrument inside a settlement request.
type ProposedPaymentRequest struct {
	Method      string `json:"method" binding:"required,paymentmethod"`
	AmountCents int64  `json:"amountCents" binding:"required,gt=0"`
	Currency    string `json:"currency" binding:"required,oneof=USD VES"`
	Reference   string `json:"reference,omitempty"`
	BankCode    string `json:"bankCode,omitempty"`
}

// SettleRequest asks the engine to settle one sale.
type SettleRequest struct {
	SaleID           string                   `json:"saleID" binding:"required"`
	TotalCentsStrong int64                    `json:"totalCentsStrong" binding:"required,gt=0"`
	Payments         []ProposedPaymentRequest `json:"payments" binding:"required,min=1,dive"`
}

// ToDomain parses the request into domain values. Enum validation happens
// here, producing a validation error instead of a panic deeper in the engine.
func (r SettleRequest) ToDomain() (domain.MoneyCents, []domain.ProposedPayment, error) {
	total := domain.NewMoneyCents(r.TotalCentsStrong, domain.CurrencyStrong)

	payments := make([]domain.ProposedPayment, 0, len(r.Payments))
	for _, p := range r.Payments {
		method, err := domain.ParsePaymentMethod(p.Method)
		if err != nil {
			return domain.MoneyCents{}, nil, err
		}
		currency, err := domain.ParseCurrency(p.Currency)
		if err != nil {
			return domain.MoneyCents{}, nil, err
		}
		payments = append(payments, domain.ProposedPayment{
			Method:    method,
			Amount:    domain.NewMoneyCents(p.AmountCents, currency),
			Reference: p.Reference,
			BankCode:  p.BankCode,
		})
	}
	return total, payments, nil
}

// SalePaymentResponse is one settled payment row in an API response.
type SalePaymentResponse struct {
	SalePaymentID     string          `json:"salePaymentID"`
	PaymentOrder      int             `json:"paymentOrder"`
	Method            string          `json:"method"`
	AmountCentsStrong int64           `json:"amountCentsStrong"`
	AmountCentsLocal  int64           `json:"amountCentsLocal"`
	RateType          string          `json:"rateType"`
	AppliedRate       decimal.Decimal `json:"appliedRate"`
	Reference         string          `json:"reference,omitempty"`
	BankCode          string          `json:"bankCode,omitempty"`
	Status            string          `json:"status"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// DenominationLineResponse is one breakdown row in an API response.
type DenominationLineResponse struct {
	DenominationCents int64 `json:"denominationCents"`
	Count             int64 `json:"count"`
	SubtotalCents     int64 `json:"subtotalCents"`
}

// SaleChangeResponse is the change row in an API response.
type SaleChangeResponse struct {
	SaleChangeID      string                     `json:"saleChangeID"`
	ChangeCentsStrong int64                      `json:"changeCentsStrong"`
	ChangeCentsLocal  int64                      `json:"changeCentsLocal"`
	ChangeCurrency    string                     `json:"changeCurrency"`
	AppliedRate       decimal.Decimal            `json:"appliedRate"`
	Breakdown         []DenominationLineResponse `json:"breakdown"`
	ExcessCents       int64                      `json:"excessCents"`
	ExcessAction      string                     `json:"excessAction"`
}

// SettlementResponse is the API shape of a settled sale.
type SettlementResponse struct {
	SaleID            string                `json:"saleID"`
	StoreID           string                `json:"storeID"`
	TotalCentsStrong  int64                 `json:"totalCentsStrong"`
	PaidCentsStrong   int64                 `json:"paidCentsStrong"`
	Payments          []SalePaymentResponse `json:"payments"`
	Change            *SaleChangeResponse   `json:"change,omitempty"`
	CreditCentsStrong int64                 `json:"creditCentsStrong"`
	TipCentsStrong    int64                 `json:"tipCentsStrong"`
}

// ToSettlementResponse converts a domain.SettlementResult to its API shape.
func ToSettlementResponse(result *domain.SettlementResult) SettlementResponse {
	resp := SettlementResponse{
		SaleID:            result.SaleID,
		StoreID:           result.StoreID,
		TotalCentsStrong:  result.TotalCentsStrong,
		PaidCentsStrong:   result.PaidCentsStrong,
		CreditCentsStrong: result.CreditCentsStrong,
		TipCentsStrong:    result.TipCentsStrong,
	}
	for _, p := range result.Payments {
		resp.Payments = append(resp.Payments, SalePaymentResponse{
			SalePaymentID:     p.SalePaymentID,
			PaymentOrder:      p.PaymentOrder,
			Method:            string(p.Method),
			AmountCentsStrong: p.AmountCentsStrong,
			AmountCentsLocal:  p.AmountCentsLocal,
			RateType:          string(p.RateType),
			AppliedRate:       p.AppliedRate,
			Reference:         p.Reference,
			BankCode:          p.BankCode,
			Status:            string(p.Status),
			CreatedAt:         p.CreatedAt,
		})
	}
	if result.Change != nil {
		change := &SaleChangeResponse{
			SaleChangeID:      result.Change.SaleChangeID,
			ChangeCentsStrong: result.Change.ChangeCentsStrong,
			ChangeCentsLocal:  result.Change.ChangeCentsLocal,
			ChangeCurrency:    string(result.Change.ChangeCurrency),
			AppliedRate:       result.Change.AppliedRate,
			ExcessCents:       result.Change.ExcessCents,
			ExcessAction:      string(result.Change.ExcessAction),
		}
		for _, line := range result.Change.Breakdown {
			change.Breakdown = append(change.Breakdown, DenominationLineResponse(line))
		}
		resp.Change = change
	}
	return resp
}
