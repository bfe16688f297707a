package domain

import (
	"fmt"

	"github.com/cajaviva/pos_settlement_app/internal/apperrors"
)

// PaymentMethod identifies the instrument a payment was made with.
type PaymentMethod string

const (
	MethodCashStrong     PaymentMethod = "CASH_USD"
	MethodCashLocal      PaymentMethod = "CASH_VES"
	MethodMobileTransfer PaymentMethod = "MOBILE_TRANSFER"
	MethodBankTransfer   PaymentMethod = "BANK_TRANSFER"
	MethodCard           PaymentMethod = "CARD"
	MethodAltChannel     PaymentMethod = "ALT_CHANNEL"
)

// ParsePaymentMethod validates a payment method from an API boundary.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case MethodCashStrong, MethodCashLocal, MethodMobileTransfer,
		MethodBankTransfer, MethodCard, MethodAltChannel:
		return PaymentMethod(s), nil
	}
	return "", fmt.Errorf("%w: unknown payment method %q", apperrors.ErrValidation, s)
}

// RoundingMode selects how converted amounts are rounded at the precision
// boundary.
type RoundingMode string

const (
	RoundingUp      RoundingMode = "UP"      // ceiling toward positive infinity
	RoundingDown    RoundingMode = "DOWN"    // toward zero
	RoundingNearest RoundingMode = "NEAREST" // round-half-up
	RoundingBanker  RoundingMode = "BANKER"  // round-half-to-even
)

// ParseRoundingMode validates a rounding mode from an API boundary.
func ParseRoundingMode(s string) (RoundingMode, error) {
	switch RoundingMode(s) {
	case RoundingUp, RoundingDown, RoundingNearest, RoundingBanker:
		return RoundingMode(s), nil
	}
	return "", fmt.Errorf("%w: unknown rounding mode %q", apperrors.ErrValidation, s)
}

// ChangeCurrency selects which currency change is handed back in.
type ChangeCurrency string

const (
	ChangeCurrencyStrong ChangeCurrency = "STRONG"
	ChangeCurrencyLocal  ChangeCurrency = "LOCAL"
	ChangeCurrencySame   ChangeCurrency = "SAME" // stay in the currency received
)

// ParseChangeCurrency validates a change currency preference.
func ParseChangeCurrency(s string) (ChangeCurrency, error) {
	switch ChangeCurrency(s) {
	case ChangeCurrencyStrong, ChangeCurrencyLocal, ChangeCurrencySame:
		return ChangeCurrency(s), nil
	}
	return "", fmt.Errorf("%w: unknown change currency %q", apperrors.ErrValidation, s)
}

// OverpaymentAction decides what happens to an allowed overpayment.
type OverpaymentAction string

const (
	OverpaymentChange OverpaymentAction = "CHANGE"
	OverpaymentCredit OverpaymentAction = "CREDIT"
	OverpaymentTip    OverpaymentAction = "TIP"
	OverpaymentReject OverpaymentAction = "REJECT"
)

// ParseOverpaymentAction validates an overpayment action.
func ParseOverpaymentAction(s string) (OverpaymentAction, error) {
	switch OverpaymentAction(s) {
	case OverpaymentChange, OverpaymentCredit, OverpaymentTip, OverpaymentReject:
		return OverpaymentAction(s), nil
	}
	return "", fmt.Errorf("%w: unknown overpayment action %q", apperrors.ErrValidation, s)
}

// ExcessAction decides the disposition of the rounding surplus left over when
// change cannot be fully represented in physical denominations.
type ExcessAction string

const (
	ExcessFavorCustomer ExcessAction = "FAVOR_CUSTOMER" // store absorbs, change rounds up
	ExcessFavorStore    ExcessAction = "FAVOR_STORE"    // customer absorbs, change rounds down
	ExcessCredit        ExcessAction = "CREDIT"         // excess recorded as customer credit
	ExcessTip           ExcessAction = "TIP"            // excess recorded as tip
)

// ParseExcessAction validates an excess action.
func ParseExcessAction(s string) (ExcessAction, error) {
	switch ExcessAction(s) {
	case ExcessFavorCustomer, ExcessFavorStore, ExcessCredit, ExcessTip:
		return ExcessAction(s), nil
	}
	return "", fmt.Errorf("%w: unknown excess action %q", apperrors.ErrValidation, s)
}

// MethodLimit bounds the accepted amount for one payment method, expressed in
// strong-currency cents after conversion. MaxCents == 0 means unbounded above.
type MethodLimit struct {
	MinCents int64 `json:"minCents"`
	MaxCents int64 `json:"maxCents"`
}

// StoreRateConfig is the per-store settlement policy: exactly one row per
// store. The resolver reads it at settlement time; the engine never mutates it.
type StoreRateConfig struct {
	StoreID string `json:"storeID"`

	// RateTypes selects which rate stream applies to each payment method.
	RateTypes map[PaymentMethod]RateType `json:"rateTypes"`

	Rounding  RoundingMode `json:"rounding"`
	Precision uint8        `json:"precision"` // decimal places of the major unit, 0-4

	PreferredChangeCurrency   ChangeCurrency `json:"preferredChangeCurrency"`
	AutoConvertSmallChange    bool           `json:"autoConvertSmallChange"`
	SmallChangeThresholdCents int64          `json:"smallChangeThresholdCents"` // strong cents

	AllowOverpayment    bool              `json:"allowOverpayment"`
	MaxOverpaymentCents int64             `json:"maxOverpaymentCents"` // strong cents
	OverpaymentAction   OverpaymentAction `json:"overpaymentAction"`
	ExcessAction        ExcessAction      `json:"excessAction"`

	MethodLimits map[PaymentMethod]MethodLimit `json:"methodLimits,omitempty"`

	AuditFields
}

// RateTypeFor looks up the configured rate type for a payment method.
func (c StoreRateConfig) RateTypeFor(method PaymentMethod) (RateType, error) {
	rt, ok := c.RateTypes[method]
	if !ok {
		return "", fmt.Errorf("%w: no rate type configured for method %s", apperrors.ErrValidation, method)
	}
	return rt, nil
}

// Validate enforces the closed-enum and range invariants on a config before
// it is persisted or used for settlement.
func (c StoreRateConfig) Validate() error {
	if c.StoreID == "" {
		return fmt.Errorf("%w: store id is required", apperrors.ErrValidation)
	}
	if c.Precision > 4 {
		return fmt.Errorf("%w: precision must be between 0 and 4", apperrors.ErrValidation)
	}
	if _, err := ParseRoundingMode(string(c.Rounding)); err != nil {
		return err
	}
	if _, err := ParseChangeCurrency(string(c.PreferredChangeCurrency)); err != nil {
		return err
	}
	if _, err := ParseOverpaymentAction(string(c.OverpaymentAction)); err != nil {
		return err
	}
	if _, err := ParseExcessAction(string(c.ExcessAction)); err != nil {
		return err
	}
	for method, rt := range c.RateTypes {
		if _, err := ParsePaymentMethod(string(method)); err != nil {
			return err
		}
		if _, err := ParseRateType(string(rt)); err != nil {
			return err
		}
	}
	for method, limit := range c.MethodLimits {
		if _, err := ParsePaymentMethod(string(method)); err != nil {
			return err
		}
		if limit.MinCents < 0 || limit.MaxCents < 0 {
			return fmt.Errorf("%w: method limits cannot be negative", apperrors.ErrValidation)
		}
		if limit.MaxCents > 0 && limit.MinCents > limit.MaxCents {
			return fmt.Errorf("%w: min limit exceeds max limit for method %s", apperrors.ErrValidation, method)
		}
	}
	if c.MaxOverpaymentCents < 0 {
		return fmt.Errorf("%w: max overpayment cannot be negative", apperrors.ErrValidation)
	}
	if c.SmallChangeThresholdCents < 0 {
		return fmt.Errorf("%w: small change threshold cannot be negative", apperrors.ErrValidation)
	}
	return nil
}
