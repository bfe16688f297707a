package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrRateUnavailable indicates that no exchange rate could be produced for a
// rate type: the provider fetch failed and no cached value (even stale) exists.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// ErrInvalidRate indicates a non-positive rate value was supplied or fetched.
// Conversion never divides by a non-positive rate.
var ErrInvalidRate = errors.New("invalid exchange rate")

// ErrInsufficientPayment indicates the payments received do not cover the sale
// total. Partial settlements are never accepted.
var ErrInsufficientPayment = errors.New("insufficient payment")

// ErrOverpaymentRejected indicates the payment sum exceeds the sale total and
// the store policy does not permit the excess.
var ErrOverpaymentRejected = errors.New("overpayment rejected")

// ErrAmountOutOfBounds indicates a payment amount is outside the configured
// min/max bounds for its payment method.
var ErrAmountOutOfBounds = errors.New("payment amount out of bounds")

// ErrEmptyPaymentSet indicates a settlement was attempted with no payments.
var ErrEmptyPaymentSet = errors.New("empty payment set")

// ErrCurrencyMismatch indicates arithmetic was attempted between two money
// values of different currencies without an explicit conversion step.
var ErrCurrencyMismatch = errors.New("currency mismatch")
