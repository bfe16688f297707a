package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus tracks the lifecycle of a settled payment. A payment is
// immutable once Confirmed except for the transition to Refunded.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentConfirmed PaymentStatus = "CONFIRMED"
	PaymentRejected  PaymentStatus = "REJECTED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

// ProposedPayment is one payment instrument offered at checkout, before any
// rate has been resolved or validation performed.
type ProposedPayment struct {
	Method    PaymentMethod `json:"method"`
	Amount    MoneyCents    `json:"amount"`
	Reference string        `json:"reference,omitempty"` // bank/mobile confirmation number
	BankCode  string        `json:"bankCode,omitempty"`
}

// SalePayment is one validated, rate-stamped payment row. AppliedRate freezes
// the exact rate used at settlement time; it is never re-derived from rate
// history later.
type SalePayment struct {
	SalePaymentID     string          `json:"salePaymentID"`
	SaleID            string          `json:"saleID"`
	PaymentOrder      int             `json:"paymentOrder"` // 1-based, input order
	Method            PaymentMethod   `json:"method"`
	AmountCentsStrong int64           `json:"amountCentsStrong"`
	AmountCentsLocal  int64           `json:"amountCentsLocal"`
	RateType          RateType        `json:"rateType"`
	AppliedRate       decimal.Decimal `json:"appliedRate"`
	Reference         string          `json:"reference,omitempty"`
	BankCode          string          `json:"bankCode,omitempty"`
	Status            PaymentStatus   `json:"status"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// DenominationLine is one row of a physical change breakdown.
type DenominationLine struct {
	DenominationCents int64 `json:"denominationCents"`
	Count             int64 `json:"count"`
	SubtotalCents     int64 `json:"subtotalCents"`
}

// ChangeResult is the calculator's output for one settlement.
//
// Breakdown is the greedy allocation of Change into physical denominations;
// ExcessCents is the remainder the smallest denomination cannot represent.
// Breakdown subtotals plus ExcessCents always equal Change exactly.
// HandedCents is what physically crosses the counter after the excess action
// is applied (it exceeds the breakdown total only for FAVOR_CUSTOMER).
type ChangeResult struct {
	Change       MoneyCents         `json:"change"`
	HandedCents  int64              `json:"handedCents"`
	Breakdown    []DenominationLine `json:"breakdown"`
	ExcessCents  int64              `json:"excessCents"`
	ExcessAction ExcessAction       `json:"excessAction"`
	AppliedRate  decimal.Decimal    `json:"appliedRate"` // zero when no conversion happened
}

// IsZero reports whether no change is owed at all.
func (r ChangeResult) IsZero() bool {
	return r.Change.IsZero() && len(r.Breakdown) == 0
}

// SaleChange is the at-most-one change row for a sale, created atomically with
// the confirmed payment set and never mutated afterwards.
type SaleChange struct {
	SaleChangeID      string             `json:"saleChangeID"`
	SaleID            string             `json:"saleID"`
	ChangeCentsStrong int64              `json:"changeCentsStrong"`
	ChangeCentsLocal  int64              `json:"changeCentsLocal"`
	ChangeCurrency    Currency           `json:"changeCurrency"` // currency physically handed over
	AppliedRate       decimal.Decimal    `json:"appliedRate"`
	Breakdown         []DenominationLine `json:"breakdown"`
	ExcessCents       int64              `json:"excessCents"` // in ChangeCurrency
	ExcessAction      ExcessAction       `json:"excessAction"`
	CreatedAt         time.Time          `json:"createdAt"`
}

// SettlementResult is the engine's output: the frozen payment set, optional
// change, and any excess routed to the customer-credit or tip ledger. The
// persistence collaborator writes it durably in the same transaction as the
// sale.
type SettlementResult struct {
	SaleID            string        `json:"saleID"`
	StoreID           string        `json:"storeID"`
	TotalCentsStrong  int64         `json:"totalCentsStrong"`
	PaidCentsStrong   int64         `json:"paidCentsStrong"`
	Payments          []SalePayment `json:"payments"`
	Change            *SaleChange   `json:"change,omitempty"`
	CreditCentsStrong int64         `json:"creditCentsStrong"` // overpayment routed to customer credit
	TipCentsStrong    int64         `json:"tipCentsStrong"`    // overpayment routed to tips
}
