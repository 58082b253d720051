// Package app wires the pipeline services from configuration. The HTTP
// server and the CLI share it.
package app

import (
	"context"
	"fmt"

	"github.com/epeers/riskflow/config"
	"github.com/epeers/riskflow/internal/alphavantage"
	"github.com/epeers/riskflow/internal/cache"
	"github.com/epeers/riskflow/internal/policy"
	"github.com/epeers/riskflow/internal/repository"
	"github.com/epeers/riskflow/internal/services"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// App holds the constructed services
type App struct {
	Analysis *services.AnalysisService
	Cache    *cache.MemoryCache
	pool     *pgxpool.Pool
}

// New builds the service graph. The PostgreSQL cache is only connected when
// cfg.PGURL is set.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := policy.ValidateTables(); err != nil {
		return nil, err
	}

	pol := policy.Default()
	if cfg.PolicyFile != "" {
		p, err := policy.LoadFile(cfg.PolicyFile)
		if err != nil {
			return nil, err
		}
		log.Infof("Loaded policy overlay from %s", cfg.PolicyFile)
		pol = p
	}

	var (
		pool      *pgxpool.Pool
		priceRepo *repository.PriceCacheRepository
	)
	if cfg.PGURL != "" {
		p, err := repository.Connect(ctx, cfg.PGURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to price cache: %w", err)
		}
		priceRepo = repository.NewPriceCacheRepository(p)
		if err := priceRepo.EnsureSchema(ctx); err != nil {
			p.Close()
			return nil, err
		}
		pool = p
	} else {
		log.Info("PG_URL not set, running with the in-memory price cache only")
	}

	avClient := alphavantage.NewClient(cfg.AVKey, cfg.HTTPTimeout)
	memCache := cache.NewMemoryCache(cfg.CacheSize)

	pricingSvc := services.NewPricingService(memCache, priceRepo, avClient)
	performanceSvc := services.NewPerformanceService(pricingSvc, pol)
	analysisSvc := services.NewAnalysisService(
		performanceSvc,
		services.NewRiskService(),
		services.NewImpactService(pol),
		services.NewSectorService(),
		services.NewTimeSeriesService(),
	)

	return &App{
		Analysis: analysisSvc,
		Cache:    memCache,
		pool:     pool,
	}, nil
}

// Close releases the database pool, if any
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}
