package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cajaviva/pos_settlement_app/internal/apperrors"
	"github.com/cajaviva/pos_settlement_app/internal/core/domain"
	portsrepo "github.com/cajaviva/pos_settlement_app/internal/core/ports/repositories"
	portssvc "github.com/cajaviva/pos_settlement_app/internal/core/ports/services"
	"github.com/google/uuid"
)

// SettlementService validates one or many payments against a sale total and
// produces the frozen, rate-stamped payment set plus optional change. The
// pipeline is pure until everything validates; nothing is persisted on any
// failure, so a retry with corrected inputs is always safe.
type SettlementService struct {
	BaseService

	resolver    portssvc.RateResolverSvc
	converter   portssvc.MoneyConverterSvc
	change      portssvc.ChangeCalculatorSvc
	caches      portssvc.RateCacheProvider
	settlements portsrepo.SettlementWriter // optional persistence collaborator
	now         func() time.Time
}

// NewSettlementService creates a SettlementService. The settlement writer may
// be nil, in which case the caller owns persistence of the returned result.
func NewSettlementService(
	resolver portssvc.RateResolverSvc,
	converter portssvc.MoneyConverterSvc,
	change portssvc.ChangeCalculatorSvc,
	caches portssvc.RateCacheProvider,
	settlements portsrepo.SettlementWriter,
) *SettlementService {
	return &SettlementService{
		resolver:    resolver,
		converter:   converter,
		change:      change,
		caches:      caches,
		settlements: settlements,
		now:         time.Now,
	}
}

// Settle runs the settlement pipeline: collect payments in input order,
// resolve a rate per payment, validate bounds and the split sum against the
// sale total, apply the overpayment policy, and produce the settled result.
// Any failure at any step discards the whole attempt.
func (s *SettlementService) Settle(
	ctx context.Context,
	saleID string,
	saleTotal domain.MoneyCents,
	payments []domain.ProposedPayment,
	config domain.StoreRateConfig,
) (*domain.SettlementResult, error) {
	if len(payments) == 0 {
		return nil, fmt.Errorf("%w: sale %s has no payments", apperrors.ErrEmptyPaymentSet, saleID)
	}
	if saleTotal.Currency != domain.CurrencyStrong {
		return nil, fmt.Errorf("%w: sale total must be strong-currency cents", apperrors.ErrValidation)
	}
	if saleTotal.Cents <= 0 {
		return nil, fmt.Errorf("%w: sale total must be positive", apperrors.ErrValidation)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	cache := s.caches.ForStore(config.StoreID)
	createdAt := s.now()

	stamped := make([]domain.SalePayment, 0, len(payments))
	var sumStrong int64
	var lastRate domain.Rate
	uniformCurrency := payments[0].Amount.Currency

	for i, p := range payments {
		if p.Amount.Cents <= 0 {
			return nil, fmt.Errorf("%w: payment %d amount must be positive", apperrors.ErrValidation, i+1)
		}
		if p.Amount.Currency != uniformCurrency {
			uniformCurrency = domain.CurrencyStrong
		}

		rateType, rate, err := s.resolver.Resolve(ctx, p.Method, config, cache)
		if err != nil {
			// All-or-nothing: one unresolvable rate fails the settlement.
			return nil, err
		}
		lastRate = rate

		var strongCents, localCents int64
		if p.Amount.Currency == domain.CurrencyStrong {
			strongCents = p.Amount.Cents
			converted, err := s.converter.Convert(p.Amount, rate.Value, config.Rounding, config.Precision)
			if err != nil {
				return nil, err
			}
			localCents = converted.Cents
		} else {
			localCents = p.Amount.Cents
			converted, err := s.converter.Convert(p.Amount, rate.Value, config.Rounding, config.Precision)
			if err != nil {
				return nil, err
			}
			strongCents = converted.Cents
		}

		if limit, ok := config.MethodLimits[p.Method]; ok {
			if strongCents < limit.MinCents || (limit.MaxCents > 0 && strongCents > limit.MaxCents) {
				return nil, fmt.Errorf("%w: method %s", apperrors.ErrAmountOutOfBounds, p.Method)
			}
		}

		stamped = append(stamped, domain.SalePayment{
			SalePaymentID:     uuid.NewString(),
			SaleID:            saleID,
			PaymentOrder:      i + 1,
			Method:            p.Method,
			AmountCentsStrong: strongCents,
			AmountCentsLocal:  localCents,
			RateType:          rateType,
			AppliedRate:       rate.Value,
			Reference:         p.Reference,
			BankCode:          p.BankCode,
			Status:            domain.PaymentPending,
			CreatedAt:         createdAt,
		})
		sumStrong += strongCents
	}

	if sumStrong < saleTotal.Cents {
		return nil, fmt.Errorf("%w: payments do not cover the sale total", apperrors.ErrInsufficientPayment)
	}

	result := &domain.SettlementResult{
		SaleID:           saleID,
		StoreID:          config.StoreID,
		TotalCentsStrong: saleTotal.Cents,
		PaidCentsStrong:  sumStrong,
	}

	overpayment := sumStrong - saleTotal.Cents
	if overpayment > 0 {
		if !config.AllowOverpayment || overpayment > config.MaxOverpaymentCents {
			return nil, fmt.Errorf("%w: overpayment exceeds store policy", apperrors.ErrOverpaymentRejected)
		}

		switch config.OverpaymentAction {
		case domain.OverpaymentReject:
			return nil, fmt.Errorf("%w: store rejects overpayments", apperrors.ErrOverpaymentRejected)
		case domain.OverpaymentCredit:
			result.CreditCentsStrong = overpayment
		case domain.OverpaymentTip:
			result.TipCentsStrong = overpayment
		case domain.OverpaymentChange:
			saleChange, err := s.buildChange(saleID, saleTotal, sumStrong, uniformCurrency, config, lastRate, createdAt, result)
			if err != nil {
				return nil, err
			}
			result.Change = saleChange
		}
	}

	for i := range stamped {
		stamped[i].Status = domain.PaymentConfirmed
	}
	result.Payments = stamped

	if s.settlements != nil {
		if err := s.settlements.SaveSettlement(ctx, *result); err != nil {
			return nil, fmt.Errorf("failed to persist settlement for sale %s: %w", saleID, err)
		}
	}

	s.LogInfo(ctx, "Settlement accepted",
		slog.String("sale_id", saleID),
		slog.String("store_id", config.StoreID),
		slog.Int("payments", len(stamped)),
		slog.Bool("has_change", result.Change != nil),
	)
	return result, nil
}

// buildChange routes the overpayment into the change calculator and expresses
// the result in both currencies. The rate applied is the one resolved for the
// last payment in the set, frozen onto the change row.
func (s *SettlementService) buildChange(
	saleID string,
	saleTotal domain.MoneyCents,
	sumStrong int64,
	uniformCurrency domain.Currency,
	config domain.StoreRateConfig,
	rate domain.Rate,
	createdAt time.Time,
	result *domain.SettlementResult,
) (*domain.SaleChange, error) {
	// The validator sums in strong cents, so "same currency as received"
	// means the uniform currency of the payment set (strong for mixed sets).
	if config.PreferredChangeCurrency == domain.ChangeCurrencySame && uniformCurrency == domain.CurrencyLocal {
		config.PreferredChangeCurrency = domain.ChangeCurrencyLocal
	}

	owed := domain.NewMoneyCents(saleTotal.Cents, domain.CurrencyStrong)
	received := domain.NewMoneyCents(sumStrong, domain.CurrencyStrong)

	changeRes, err := s.change.Compute(owed, received, config, rate)
	if err != nil {
		return nil, err
	}

	var strongCents, localCents int64
	if changeRes.Change.Currency == domain.CurrencyStrong {
		strongCents = changeRes.Change.Cents
		converted, err := s.converter.Convert(changeRes.Change, rate.Value, config.Rounding, config.Precision)
		if err != nil {
			return nil, err
		}
		localCents = converted.Cents
	} else {
		localCents = changeRes.Change.Cents
		converted, err := s.converter.Convert(changeRes.Change, rate.Value, config.Rounding, config.Precision)
		if err != nil {
			return nil, err
		}
		strongCents = converted.Cents
	}

	// Excess tagged CREDIT or TIP is ledger-facing: the accounting
	// collaborator applies it, the physical change stays rounded down.
	if changeRes.ExcessCents > 0 {
		excess := domain.NewMoneyCents(changeRes.ExcessCents, changeRes.Change.Currency)
		excessStrong := excess.Cents
		if excess.Currency == domain.CurrencyLocal {
			converted, err := s.converter.Convert(excess, rate.Value, config.Rounding, config.Precision)
			if err != nil {
				return nil, err
			}
			excessStrong = converted.Cents
		}
		switch changeRes.ExcessAction {
		case domain.ExcessCredit:
			result.CreditCentsStrong += excessStrong
		case domain.ExcessTip:
			result.TipCentsStrong += excessStrong
		}
	}

	return &domain.SaleChange{
		SaleChangeID:      uuid.NewString(),
		SaleID:            saleID,
		ChangeCentsStrong: strongCents,
		ChangeCentsLocal:  localCents,
		ChangeCurrency:    changeRes.Change.Currency,
		AppliedRate:       rate.Value,
		Breakdown:         changeRes.Breakdown,
		ExcessCents:       changeRes.ExcessCents,
		ExcessAction:      changeRes.ExcessAction,
		CreatedAt:         createdAt,
	}, nil
}
