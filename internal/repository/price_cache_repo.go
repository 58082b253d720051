package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/epeers/riskflow/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// schema creates the price cache tables if they do not exist
const schema = `
CREATE TABLE IF NOT EXISTS price_history (
	ticker VARCHAR(32) NOT NULL,
	date   DATE NOT NULL,
	close  DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (ticker, date)
);
CREATE TABLE IF NOT EXISTS price_history_range (
	ticker      VARCHAR(32) PRIMARY KEY,
	start_date  DATE NOT NULL,
	end_date    DATE NOT NULL,
	next_update TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS company_profile (
	ticker     VARCHAR(32) PRIMARY KEY,
	name       TEXT NOT NULL,
	sector     TEXT NOT NULL,
	industry   TEXT NOT NULL,
	fetched_at TIMESTAMPTZ NOT NULL
);
`

// PriceCacheRepository persists raw daily closes and company overviews so
// that restarts do not refetch from AlphaVantage. Derived metrics are never
// stored here.
type PriceCacheRepository struct {
	pool *pgxpool.Pool
}

// PriceRange represents the cached date range for a ticker's closes
type PriceRange struct {
	Ticker     string
	StartDate  time.Time
	EndDate    time.Time
	NextUpdate time.Time
}

// NewPriceCacheRepository creates a new PriceCacheRepository
func NewPriceCacheRepository(pool *pgxpool.Pool) *PriceCacheRepository {
	return &PriceCacheRepository{pool: pool}
}

// EnsureSchema creates the cache tables
func (r *PriceCacheRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create price cache schema: %w", err)
	}
	return nil
}

// GetDailyCloses retrieves cached closes for a ticker within a date range
func (r *PriceCacheRepository) GetDailyCloses(ctx context.Context, ticker string, startDate, endDate time.Time) ([]models.PricePoint, error) {
	query := `
		SELECT date, close
		FROM price_history
		WHERE ticker = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`
	rows, err := r.pool.Query(ctx, query, ticker, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query price cache: %w", err)
	}
	defer rows.Close()

	var prices []models.PricePoint
	for rows.Next() {
		var p models.PricePoint
		if err := rows.Scan(&p.Date, &p.Close); err != nil {
			return nil, fmt.Errorf("failed to scan price data: %w", err)
		}
		prices = append(prices, p)
	}
	return prices, rows.Err()
}

// StoreDailyCloses upserts closes for a ticker
func (r *PriceCacheRepository) StoreDailyCloses(ctx context.Context, ticker string, prices []models.PricePoint) error {
	if len(prices) == 0 {
		return nil
	}

	query := `
		INSERT INTO price_history (ticker, date, close)
		VALUES ($1, $2, $3)
		ON CONFLICT (ticker, date) DO UPDATE
		SET close = EXCLUDED.close
	`

	batch := &pgx.Batch{}
	for _, p := range prices {
		batch.Queue(query, ticker, p.Date, p.Close)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range prices {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to cache price: %w", err)
		}
	}
	return nil
}

// GetPriceRange retrieves the cached date range for a ticker, nil if none
func (r *PriceCacheRepository) GetPriceRange(ctx context.Context, ticker string) (*PriceRange, error) {
	query := `
		SELECT ticker, start_date, end_date, next_update
		FROM price_history_range
		WHERE ticker = $1
	`
	pr := &PriceRange{}
	err := r.pool.QueryRow(ctx, query, ticker).Scan(
		&pr.Ticker, &pr.StartDate, &pr.EndDate, &pr.NextUpdate,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get price range: %w", err)
	}
	return pr, nil
}

// UpsertPriceRange inserts or updates the cached date range for a ticker.
// It expands the range using LEAST/GREATEST to merge with existing data.
func (r *PriceCacheRepository) UpsertPriceRange(ctx context.Context, ticker string, startDate, endDate, nextUpdate time.Time) error {
	query := `
		INSERT INTO price_history_range (ticker, start_date, end_date, next_update)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (ticker) DO UPDATE
		SET start_date = LEAST(price_history_range.start_date, EXCLUDED.start_date),
		    end_date = GREATEST(price_history_range.end_date, EXCLUDED.end_date),
		    next_update = EXCLUDED.next_update
	`
	_, err := r.pool.Exec(ctx, query, ticker, startDate, endDate, nextUpdate)
	if err != nil {
		return fmt.Errorf("failed to upsert price range: %w", err)
	}
	return nil
}

// GetProfile retrieves a cached company overview, nil if none
func (r *PriceCacheRepository) GetProfile(ctx context.Context, ticker string) (*models.CompanyProfile, error) {
	query := `
		SELECT ticker, name, sector, industry
		FROM company_profile
		WHERE ticker = $1
	`
	p := &models.CompanyProfile{}
	err := r.pool.QueryRow(ctx, query, ticker).Scan(&p.Symbol, &p.Name, &p.Sector, &p.Industry)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company profile: %w", err)
	}
	return p, nil
}

// StoreProfile upserts a company overview
func (r *PriceCacheRepository) StoreProfile(ctx context.Context, p *models.CompanyProfile) error {
	query := `
		INSERT INTO company_profile (ticker, name, sector, industry, fetched_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (ticker) DO UPDATE
		SET name = EXCLUDED.name, sector = EXCLUDED.sector,
		    industry = EXCLUDED.industry, fetched_at = EXCLUDED.fetched_at
	`
	if _, err := r.pool.Exec(ctx, query, p.Symbol, p.Name, p.Sector, p.Industry, time.Now()); err != nil {
		return fmt.Errorf("failed to store company profile: %w", err)
	}
	return nil
}
