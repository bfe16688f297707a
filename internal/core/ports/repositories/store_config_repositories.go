package repositories

import (
	"context"

	"github.com/cajaviva/pos_settlement_app/internal/core/domain"
)

// StoreRateConfigReader defines read operations for store settlement policy.
type StoreRateConfigReader interface {
	// FindByStoreID retrieves the single config row for a store.
	FindByStoreID(ctx context.Context, storeID string) (*domain.StoreRateConfig, error)
}

// StoreRateConfigWriter defines write operations for store settlement policy.
type StoreRateConfigWriter interface {
	// SaveConfig upserts the config row for a store (exactly one per store).
	SaveConfig(ctx context.Context, config domain.StoreRateConfig) error
}

// StoreRateConfigRepositoryFacade combines all store-config repository
// interfaces for clients that need full access.
type StoreRateConfigRepositoryFacade interface {
	StoreRateConfigReader
	StoreRateConfigWriter
}
