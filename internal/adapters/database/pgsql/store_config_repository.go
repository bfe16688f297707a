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

// PgxStoreConfigRepository implements the store rate config ports using pgxpool.
type PgxStoreConfigRepository struct {
	db *pgxpool.Pool
}

// NewStoreConfigRepository creates a new PgxStoreConfigRepository.
func NewStoreConfigRepository(db *pgxpool.Pool) *PgxStoreConfigRepository {
	return &PgxStoreConfigRepository{db: db}
}

// FindByStoreID retrieves the single config row for a store.
func (r *PgxStoreConfigRepository) FindByStoreID(ctx context.Context, storeID string) (*domain.StoreRateConfig, error) {
	query := `
		SELECT
			store_id, rate_types, rounding, precision, preferred_change_currency,
			auto_convert_small_change, small_change_threshold_cents,
			allow_overpayment, max_overpayment_cents, overpayment_action, excess_action,
			method_limits, created_at, created_by, last_updated_at, last_updated_by
		FROM store_rate_config
		WHERE store_id = $1
	`
	config := &domain.StoreRateConfig{}
	var rateTypesJSON, methodLimitsJSON []byte
	err := r.db.QueryRow(ctx, query, storeID).Scan(
		&config.StoreID, &rateTypesJSON, &config.Rounding, &config.Precision, &config.PreferredChangeCurrency,
		&config.AutoConvertSmallChange, &config.SmallChangeThresholdCents,
		&config.AllowOverpayment, &config.MaxOverpaymentCents, &config.OverpaymentAction, &config.ExcessAction,
		&methodLimitsJSON, &config.CreatedAt, &config.CreatedBy, &config.LastUpdatedAt, &config.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error finding store rate config: %w", err)
	}

	if err := json.Unmarshal(rateTypesJSON, &config.RateTypes); err != nil {
		return nil, fmt.Errorf("error decoding rate types for store %s: %w", storeID, err)
	}
	if len(methodLimitsJSON) > 0 {
		if err := json.Unmarshal(methodLimitsJSON, &config.MethodLimits); err != nil {
			return nil, fmt.Errorf("error decoding method limits for store %s: %w", storeID, err)
		}
	}
	return config, nil
}

// SaveConfig upserts the config row for a store.
func (r *PgxStoreConfigRepository) SaveConfig(ctx context.Context, config domain.StoreRateConfig) error {
	rateTypesJSON, err := json.Marshal(config.RateTypes)
	if err != nil {
		return fmt.Errorf("error encoding rate types: %w", err)
	}
	methodLimitsJSON, err := json.Marshal(config.MethodLimits)
	if err != nil {
		return fmt.Errorf("error encoding method limits: %w", err)
	}

	query := `
		INSERT INTO store_rate_config (
			store_id, rate_types, rounding, precision, preferred_change_currency,
			auto_convert_small_change, small_change_threshold_cents,
			allow_overpayment, max_overpayment_cents, overpayment_action, excess_action,
			method_limits, created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (store_id) DO UPDATE SET
			rate_types = EXCLUDED.rate_types,
			rounding = EXCLUDED.rounding,
			precision = EXCLUDED.precision,
			preferred_change_currency = EXCLUDED.preferred_change_currency,
			auto_convert_small_change = EXCLUDED.auto_convert_small_change,
			small_change_threshold_cents = EXCLUDED.small_change_threshold_cents,
			allow_overpayment = EXCLUDED.allow_overpayment,
			max_overpayment_cents = EXCLUDED.max_overpayment_cents,
			overpayment_action = EXCLUDED.overpayment_action,
			excess_action = EXCLUDED.excess_action,
			method_limits = EXCLUDED.method_limits,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by
	`
	_, err = r.db.Exec(ctx, query,
		config.StoreID, rateTypesJSON, config.Rounding, config.Precision, config.PreferredChangeCurrency,
		config.AutoConvertSmallChange, config.SmallChangeThresholdCents,
		config.AllowOverpayment, config.MaxOverpaymentCents, config.OverpaymentAction, config.ExcessAction,
		methodLimitsJSON, config.CreatedAt, config.CreatedBy, config.LastUpdatedAt, config.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("error upserting store rate config: %w", err)
	}
	return nil
}
