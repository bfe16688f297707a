package repositories

import (
	"context"

	"github.com/cajaviva/pos_settlement_app/internal/core/domain"
)

// SettlementWriter persists a fully validated settlement. Implementations
// must write the payment rows and the optional change row in one transaction;
// a settlement is never partially persisted.
type SettlementWriter interface {
	SaveSettlement(ctx context.Context, result domain.SettlementResult) error
}

// SettlementReader reads back persisted settlements.
type SettlementReader interface {
	FindBySaleID(ctx context.Context, saleID string) (*domain.SettlementResult, error)
}

// SettlementRepositoryFacade combines all settlement repository interfaces.
type SettlementRepositoryFacade interface {
	SettlementWriter
	SettlementReader
}

// RepositoryProvider bundles the concrete repositories handed to the service
// container at wiring time.
type RepositoryProvider struct {
	StoreConfigRepo StoreRateConfigRepositoryFacade
	SettlementRepo  SettlementRepositoryFacade
	RateHistoryRepo RateHistoryRepositoryFacade
}
