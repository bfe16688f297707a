package pgsql

import (
	"context"
	"fmt"

	"github.com/cajaviva/pos_settlement_app/internal/core/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxRateHistoryRepository appends and reads the exchange rate history log.
type PgxRateHistoryRepository struct {
	db *pgxpool.Pool
}

// NewRateHistoryRepository creates a new PgxRateHistoryRepository.
func NewRateHistoryRepository(db *pgxpool.Pool) *PgxRateHistoryRepository {
	return &PgxRateHistoryRepository{db: db}
}

// RecordRate appends one rate row. Rows are append-only: a new fetch or
// manual override supersedes, never mutates.
func (r *PgxRateHistoryRepository) RecordRate(ctx context.Context, rate domain.ExchangeRate) error {
	query := `
		INSERT INTO exchange_rate_history (
			exchange_rate_id, store_id, rate_type, value, origin, fetched_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		rate.ExchangeRateID, rate.StoreID, rate.RateType, rate.Value, rate.Origin, rate.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting exchange rate history: %w", err)
	}
	return nil
}

// ListRates returns the most recent history rows for a store and rate type.
func (r *PgxRateHistoryRepository) ListRates(ctx context.Context, storeID string, rateType domain.RateType, limit int) ([]domain.ExchangeRate, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT exchange_rate_id, store_id, rate_type, value, origin, fetched_at
		FROM exchange_rate_history
		WHERE store_id = $1 AND rate_type = $2
		ORDER BY fetched_at DESC
		LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, storeID, rateType, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing exchange rate history: %w", err)
	}
	defer rows.Close()

	var rates []domain.ExchangeRate
	for rows.Next() {
		var rate domain.ExchangeRate
		if err := rows.Scan(
			&rate.ExchangeRateID, &rate.StoreID, &rate.RateType, &rate.Value, &rate.Origin, &rate.FetchedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning exchange rate history: %w", err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exchange rate history: %w", err)
	}
	return rates, nil
}
