package services

import (
	"github.com/cajaviva/pos_settlement_app/internal/core/domain"
	portsrepo "github.com/cajaviva/pos_settlement_app/internal/core/ports/repositories"
	portssvc "github.com/cajaviva/pos_settlement_app/internal/core/ports/services"
)

// ContainerDeps carries everything NewContainer needs to wire the engine.
type ContainerDeps struct {
	Repos         *portsrepo.RepositoryProvider
	RateSource    portsrepo.RateSource
	CacheOptions  []RateCacheOption
	Denominations domain.DenominationSet // nil uses defaults
}

// NewContainer creates the service container with properly initialized
// dependencies: one rate cache per store, shared by the resolver and the
// settlement pipeline.
func NewContainer(deps ContainerDeps) *portssvc.ServiceContainer {
	registry := NewRateCacheRegistry(func(storeID string) *RateCache {
		opts := deps.CacheOptions
		if deps.Repos != nil && deps.Repos.RateHistoryRepo != nil {
			opts = append(opts, WithHistoryRecorder(deps.Repos.RateHistoryRepo))
		}
		return NewRateCache(storeID, deps.RateSource, opts...)
	})

	converter := NewMoneyConverter()
	resolver := NewRateResolver()
	changeCalc := NewChangeCalculator(converter, deps.Denominations)

	var settlementWriter portsrepo.SettlementWriter
	var configRepo portsrepo.StoreRateConfigRepositoryFacade
	var historyRepo portsrepo.RateHistoryReader
	if deps.Repos != nil {
		settlementWriter = deps.Repos.SettlementRepo
		configRepo = deps.Repos.StoreConfigRepo
		if deps.Repos.RateHistoryRepo != nil {
			historyRepo = deps.Repos.RateHistoryRepo
		}
	}

	return &portssvc.ServiceContainer{
		Settlement:  NewSettlementService(resolver, converter, changeCalc, registry, settlementWriter),
		Rates:       NewRateService(registry, historyRepo),
		StoreConfig: NewStoreConfigService(configRepo),
	}
}

// Compile-time interface checks.
var (
	_ portssvc.RateCacheSvc         = (*RateCache)(nil)
	_ portssvc.RateCacheProvider    = (*RateCacheRegistry)(nil)
	_ portssvc.RateResolverSvc      = (*RateResolver)(nil)
	_ portssvc.MoneyConverterSvc    = (*MoneyConverter)(nil)
	_ portssvc.ChangeCalculatorSvc  = (*ChangeCalculator)(nil)
	_ portssvc.SettlementSvcFacade  = (*SettlementService)(nil)
	_ portssvc.StoreConfigSvcFacade = (*StoreConfigService)(nil)
	_ portssvc.RateSvcFacade        = (*RateService)(nil)
)
