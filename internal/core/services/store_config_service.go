package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cajaviva/pos_settlement_app/internal/core/domain"
	portsrepo "github.com/cajaviva/pos_settlement_app/internal/core/ports/repositories"
)

// StoreConfigService manages the per-store settlement policy row.
type StoreConfigService struct {
	BaseService
	configRepo portsrepo.StoreRateConfigRepositoryFacade
}

// NewStoreConfigService creates a new StoreConfigService.
func NewStoreConfigService(configRepo portsrepo.StoreRateConfigRepositoryFacade) *StoreConfigService {
	return &StoreConfigService{configRepo: configRepo}
}

// GetConfig retrieves the single config row for a store.
func (s *StoreConfigService) GetConfig(ctx context.Context, storeID string) (*domain.StoreRateConfig, error) {
	config, err := s.configRepo.FindByStoreID(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get store rate config: %w", err)
	}
	return config, nil
}

// UpsertConfig validates and saves the config row for a store. There is
// exactly one row per store; a second upsert supersedes the first.
func (s *StoreConfigService) UpsertConfig(ctx context.Context, config domain.StoreRateConfig, updaterID string) (*domain.StoreRateConfig, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	if config.CreatedAt.IsZero() {
		config.CreatedAt = now
		config.CreatedBy = updaterID
	}
	config.LastUpdatedAt = now
	config.LastUpdatedBy = updaterID

	if err := s.configRepo.SaveConfig(ctx, config); err != nil {
		return nil, fmt.Errorf("failed to save store rate config: %w", err)
	}

	s.LogInfo(ctx, "Store rate config saved", slog.String("store_id", config.StoreID))
	return &config, nil
}
