package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/cajaviva/pos_settlement_app/internal/adapters/database/pgsql"
	"github.com/cajaviva/pos_settlement_app/internal/adapters/ratesource"
	"github.com/cajaviva/pos_settlement_app/internal/core/domain"
	portsrepo "github.com/cajaviva/pos_settlement_app/internal/core/ports/repositories"
	"github.com/cajaviva/pos_settlement_app/internal/core/services"
	"github.com/cajaviva/pos_settlement_app/internal/handlers"
	"github.com/cajaviva/pos_settlement_app/internal/middleware"
	"github.com/cajaviva/pos_settlement_app/pkg/config"
	"github.com/cajaviva/pos_settlement_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitermem "github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title POS Settlement API
// @version 1.0
// @description Dual-currency settlement engine for retail point of sale.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the service or admin token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		os.Exit(1)
	}

	// Repositories
	repos := &portsrepo.RepositoryProvider{
		StoreConfigRepo: pgsql.NewStoreConfigRepository(dbPool),
		SettlementRepo:  pgsql.NewSettlementRepository(dbPool),
		RateHistoryRepo: pgsql.NewRateHistoryRepository(dbPool),
	}

	// Outbound rate provider
	source := ratesource.NewHTTPRateSource(map[domain.RateType]string{
		domain.RateTypeOfficial: cfg.RateURLOfficial,
		domain.RateTypeParallel: cfg.RateURLParallel,
		domain.RateTypeCash:     cfg.RateURLCash,
		domain.RateTypeAltUSD:   cfg.RateURLAltUSD,
	}, cfg.RateFetchTimeout)

	serviceContainer := services.NewContainer(services.ContainerDeps{
		Repos:      repos,
		RateSource: source,
		CacheOptions: []services.RateCacheOption{
			services.WithTTL(cfg.RateTTL),
			services.WithFetchTimeout(cfg.RateFetchTimeout),
		},
	})

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	if rate, err := limiter.NewRateFromFormatted(cfg.RequestRateLimit); err == nil {
		r.Use(middleware.RateLimit(limiter.New(limitermem.NewStore(), rate)))
	} else {
		logger.Warn("Invalid REQUEST_RATE_LIMIT, rate limiting disabled", slog.String("error", err.Error()))
	}

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending SQL migrations using a standalone
// database/sql connection compatible with the main pgx pool.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to open database connection for migrations", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		logger.Error("Failed to ping database for migrations", slog.String("error", err.Error()))
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		logger.Error("Could not create postgres driver instance for migrations", slog.String("error", err.Error()))
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		logger.Error("Could not create migrate instance", slog.String("error", err.Error()))
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		return err
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
