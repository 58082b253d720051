package services

import (
	"context"
	"fmt"
	"time"

	"github.com/epeers/riskflow/internal/alphavantage"
	"github.com/epeers/riskflow/internal/cache"
	"github.com/epeers/riskflow/internal/models"
	"github.com/epeers/riskflow/internal/repository"
	"github.com/epeers/riskflow/internal/util"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// PricingService resolves price histories through three layers:
// L1 in-process memo cache, L2 optional PostgreSQL cache, L3 AlphaVantage.
type PricingService struct {
	memCache  *cache.MemoryCache
	priceRepo *repository.PriceCacheRepository // nil disables L2
	avClient  *alphavantage.Client
	group     singleflight.Group
	now       func() time.Time
}

// NewPricingService creates a new PricingService. priceRepo may be nil.
func NewPricingService(
	memCache *cache.MemoryCache,
	priceRepo *repository.PriceCacheRepository,
	avClient *alphavantage.Client,
) *PricingService {
	return &PricingService{
		memCache:  memCache,
		priceRepo: priceRepo,
		avClient:  avClient,
		now:       time.Now,
	}
}

// loadTimeout bounds a shared load once it no longer follows any single
// caller's context.
const loadTimeout = 2 * time.Minute

// GetHistory returns the daily closes (start <= date <= end, ascending) and
// company overview of a ticker. Identical concurrent calls share one fetch;
// a caller that gives up returns its own context error without aborting the
// fetch for the others.
func (s *PricingService) GetHistory(ctx context.Context, ticker string, startDate, endDate time.Time) (*models.PriceHistory, error) {
	if h, ok := s.memCache.GetHistory(ticker, startDate, endDate); ok {
		return h, nil
	}

	key := cache.HistoryKey(ticker, startDate, endDate)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		// Keeps the first caller's values (its warning collector) but not
		// its cancellation.
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		h, err := s.loadHistory(loadCtx, ticker, startDate, endDate)
		if err != nil {
			return nil, err
		}
		s.memCache.SetHistory(ticker, startDate, endDate, h)
		return h, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.PriceHistory), nil
	}
}

func (s *PricingService) loadHistory(ctx context.Context, ticker string, startDate, endDate time.Time) (*models.PriceHistory, error) {
	defer TrackTime("loadHistory "+ticker, time.Now())

	prices, err := s.getDailyCloses(ctx, ticker, startDate, endDate)
	if err != nil {
		return nil, err
	}

	profile, err := s.getProfile(ctx, ticker)
	if err != nil {
		log.Warnf("overview unavailable for %s: %v", ticker, err)
		AddWarning(ctx, models.Warning{
			Code:    models.WarnProfileUnavailable,
			Message: fmt.Sprintf("%s: company overview unavailable, using ticker as name", ticker),
		})
	}

	return &models.PriceHistory{
		Ticker:  ticker,
		Prices:  prices,
		Profile: profile,
	}, nil
}

func (s *PricingService) getDailyCloses(ctx context.Context, ticker string, startDate, endDate time.Time) ([]models.PricePoint, error) {
	if s.priceRepo == nil {
		return s.fetchCloses(ctx, ticker, startDate, endDate)
	}

	priceRange, err := s.priceRepo.GetPriceRange(ctx, ticker)
	if err != nil {
		log.Errorf("warning: price cache lookup failed for %s: %v", ticker, err)
		return s.fetchCloses(ctx, ticker, startDate, endDate)
	}

	currentDT := s.now()
	if !DetermineFetch(priceRange, currentDT, startDate, endDate) {
		prices, err := s.priceRepo.GetDailyCloses(ctx, ticker, startDate, endDate)
		if err == nil {
			return prices, nil
		}
		log.Errorf("warning: failed to read cached prices for %s: %v", ticker, err)
	}

	prices, err := s.fetchCloses(ctx, ticker, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}

	if len(prices) > 0 {
		// A full fetch holds the whole history, so nothing exists before its
		// first close; record the requested start to avoid refetching.
		rangeStart := prices[0].Date
		if startDate.Before(rangeStart) {
			rangeStart = startDate
		}
		if err := s.priceRepo.StoreDailyCloses(ctx, ticker, prices); err != nil {
			log.Errorf("warning: failed to store prices: %v", err)
		} else if err := s.priceRepo.UpsertPriceRange(ctx, ticker, rangeStart, prices[len(prices)-1].Date, util.NextMarketDate(currentDT)); err != nil {
			log.Errorf("warning: failed to update price range: %v", err)
		}
	}

	return filterRange(prices, startDate, endDate), nil
}

// fetchCloses pulls the full daily history from AlphaVantage. Zero start and
// end dates return the unfiltered history.
func (s *PricingService) fetchCloses(ctx context.Context, ticker string, startDate, endDate time.Time) ([]models.PricePoint, error) {
	avPrices, err := s.avClient.GetDailyPrices(ctx, ticker, "full")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices from AlphaVantage: %w", err)
	}

	prices := make([]models.PricePoint, 0, len(avPrices))
	for _, p := range avPrices {
		prices = append(prices, models.PricePoint{Date: p.Date, Close: p.Close})
	}

	if startDate.IsZero() && endDate.IsZero() {
		return prices, nil
	}
	return filterRange(prices, startDate, endDate), nil
}

func (s *PricingService) getProfile(ctx context.Context, ticker string) (*models.CompanyProfile, error) {
	if s.priceRepo != nil {
		p, err := s.priceRepo.GetProfile(ctx, ticker)
		if err != nil {
			log.Errorf("warning: profile cache lookup failed for %s: %v", ticker, err)
		} else if p != nil {
			return p, nil
		}
	}

	ov, err := s.avClient.GetCompanyOverview(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch overview from AlphaVantage: %w", err)
	}

	profile := &models.CompanyProfile{
		Symbol:   ticker,
		Name:     ov.Name,
		Sector:   ov.Sector,
		Industry: ov.Industry,
	}

	if s.priceRepo != nil {
		if err := s.priceRepo.StoreProfile(ctx, profile); err != nil {
			log.Errorf("warning: failed to store profile: %v", err)
		}
	}

	return profile, nil
}

// DetermineFetch reports whether AlphaVantage must be queried for the
// requested range given what the L2 cache holds.
func DetermineFetch(priceRange *repository.PriceRange, currentDT, startDate, endDate time.Time) bool {
	if priceRange == nil {
		return true
	}

	// Requested start precedes the cached range
	if startDate.Before(priceRange.StartDate) {
		return true
	}

	// Fully inside the cached range: nothing newer can change it
	if !endDate.After(priceRange.EndDate) {
		return false
	}

	// End gap: refresh only once a new close can exist
	return !priceRange.NextUpdate.After(currentDT)
}

func filterRange(prices []models.PricePoint, startDate, endDate time.Time) []models.PricePoint {
	out := make([]models.PricePoint, 0, len(prices))
	for _, p := range prices {
		if p.Date.Before(startDate) || p.Date.After(endDate) {
			continue
		}
		out = append(out, p)
	}
	return out
}
