package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cajaviva/pos_settlement_app/internal/apperrors"
	"github.com/cajaviva/pos_settlement_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxSettlementRepository persists settlement results using pgxpool. The
// payment rows, the optional change row, and the summary row are written in
// one transaction; a settlement is never partially persisted.
type PgxSettlementRepository struct {
	db *pgxpool.Pool
}

// NewSettlementRepository creates a new PgxSettlementRepository.
func NewSettlementRepository(db *pgxpool.Pool) *PgxSettlementRepository {
	return &PgxSettlementRepository{db: db}
}

// SaveSettlement writes the full settlement result atomically.
func (r *PgxSettlementRepository) SaveSettlement(ctx context.Context, result domain.SettlementResult) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error beginning settlement transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	summaryQuery := `
		INSERT INTO sale_settlements (
			sale_id, store_id, total_cents_strong, paid_cents_strong,
			credit_cents_strong, tip_cents_strong
		) VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := tx.Exec(ctx, summaryQuery,
		result.SaleID, result.StoreID, result.TotalCentsStrong, result.PaidCentsStrong,
		result.CreditCentsStrong, result.TipCentsStrong,
	); err != nil {
		return fmt.Errorf("error inserting settlement summary: %w", err)
	}

	paymentQuery := `
		INSERT INTO sale_payments (
			sale_payment_id, sale_id, payment_order, method,
			amount_cents_strong, amount_cents_local, rate_type, applied_rate,
			reference, bank_code, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	for _, p := range result.Payments {
		if _, err := tx.Exec(ctx, paymentQuery,
			p.SalePaymentID, p.SaleID, p.PaymentOrder, p.Method,
			p.AmountCentsStrong, p.AmountCentsLocal, p.RateType, p.AppliedRate,
			p.Reference, p.BankCode, p.Status, p.CreatedAt,
		); err != nil {
			return fmt.Errorf("error inserting sale payment %d: %w", p.PaymentOrder, err)
		}
	}

	if result.Change != nil {
		breakdownJSON, err := json.Marshal(result.Change.Breakdown)
		if err != nil {
			return fmt.Errorf("error encoding change breakdown: %w", err)
		}
		changeQuery := `
			INSERT INTO sale_change (
				sale_change_id, sale_id, change_cents_strong, change_cents_local,
				change_currency, applied_rate, breakdown, excess_cents, excess_action, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		if _, err := tx.Exec(ctx, changeQuery,
			result.Change.SaleChangeID, result.Change.SaleID,
			result.Change.ChangeCentsStrong, result.Change.ChangeCentsLocal,
			result.Change.ChangeCurrency, result.Change.AppliedRate, breakdownJSON,
			result.Change.ExcessCents, result.Change.ExcessAction, result.Change.CreatedAt,
		); err != nil {
			return fmt.Errorf("error inserting sale change: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing settlement transaction: %w", err)
	}
	return nil
}

// FindBySaleID reads back a persisted settlement.
func (r *PgxSettlementRepository) FindBySaleID(ctx context.Context, saleID string) (*domain.SettlementResult, error) {
	result := &domain.SettlementResult{}
	summaryQuery := `
		SELECT sale_id, store_id, total_cents_strong, paid_cents_strong,
			credit_cents_strong, tip_cents_strong
		FROM sale_settlements
		WHERE sale_id = $1
	`
	err := r.db.QueryRow(ctx, summaryQuery, saleID).Scan(
		&result.SaleID, &result.StoreID, &result.TotalCentsStrong, &result.PaidCentsStrong,
		&result.CreditCentsStrong, &result.TipCentsStrong,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error finding settlement: %w", err)
	}

	paymentQuery := `
		SELECT sale_payment_id, sale_id, payment_order, method,
			amount_cents_strong, amount_cents_local, rate_type, applied_rate,
			reference, bank_code, status, created_at
		FROM sale_payments
		WHERE sale_id = $1
		ORDER BY payment_order
	`
	rows, err := r.db.Query(ctx, paymentQuery, saleID)
	if err != nil {
		return nil, fmt.Errorf("error listing sale payments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p domain.SalePayment
		if err := rows.Scan(
			&p.SalePaymentID, &p.SaleID, &p.PaymentOrder, &p.Method,
			&p.AmountCentsStrong, &p.AmountCentsLocal, &p.RateType, &p.AppliedRate,
			&p.Reference, &p.BankCode, &p.Status, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning sale payment: %w", err)
		}
		result.Payments = append(result.Payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale payments: %w", err)
	}

	changeQuery := `
		SELECT sale_change_id, sale_id, change_cents_strong, change_cents_local,
			change_currency, applied_rate, breakdown, excess_cents, excess_action, created_at
		FROM sale_change
		WHERE sale_id = $1
	`
	change := &domain.SaleChange{}
	var breakdownJSON []byte
	err = r.db.QueryRow(ctx, changeQuery, saleID).Scan(
		&change.SaleChangeID, &change.SaleID, &change.ChangeCentsStrong, &change.ChangeCentsLocal,
		&change.ChangeCurrency, &change.AppliedRate, &breakdownJSON,
		&change.ExcessCents, &change.ExcessAction, &change.CreatedAt,
	)
	switch {
	case err == nil:
		if len(breakdownJSON) > 0 {
			if err := json.Unmarshal(breakdownJSON, &change.Breakdown); err != nil {
				return nil, fmt.Errorf("error decoding change breakdown: %w", err)
			}
		}
		result.Change = change
	case errors.Is(err, pgx.ErrNoRows):
		// no change row for this sale
	default:
		return nil, fmt.Errorf("error finding sale change: %w", err)
	}

	return result, nil
}
