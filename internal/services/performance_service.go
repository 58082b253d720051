package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/epeers/riskflow/internal/models"
	"github.com/epeers/riskflow/internal/policy"
	"github.com/epeers/riskflow/internal/util"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

const (
	tradingDaysPerYear = 252

	// MinObservations is the minimum number of closes a ticker needs
	MinObservations = 30
	// VolatilityWindow is the trailing window of the rolling volatility
	VolatilityWindow = 30
	// VolatilityMinPeriods is the minimum number of returns inside a window
	VolatilityMinPeriods = 10
)

// ErrNoValidData is returned when no ticker of a run produced a record
var ErrNoValidData = errors.New("no valid stock data collected")

// errInsufficientHistory and errNonFiniteMetrics drop a ticker without
// counting as a fetch failure
var (
	errInsufficientHistory = errors.New("insufficient price history")
	errNonFiniteMetrics    = errors.New("non-finite metrics")
)

// HistorySource supplies raw price histories
type HistorySource interface {
	GetHistory(ctx context.Context, ticker string, startDate, endDate time.Time) (*models.PriceHistory, error)
}

// PerformanceService fetches companies and derives their performance metrics
type PerformanceService struct {
	source HistorySource
	policy *policy.Policy
}

// NewPerformanceService creates a new PerformanceService
func NewPerformanceService(source HistorySource, pol *policy.Policy) *PerformanceService {
	return &PerformanceService{
		source: source,
		policy: pol,
	}
}

// FetchCompanies builds a CompanyRecord for every usable ticker, in input
// order. Tickers that fail to fetch or do not yield finite metrics are
// dropped and reported as warnings. An empty cohort is ErrNoValidData.
func (s *PerformanceService) FetchCompanies(ctx context.Context, tickers []string, startDate, endDate time.Time) ([]models.CompanyRecord, error) {
	defer TrackTime("FetchCompanies", time.Now())

	var companies []models.CompanyRecord
	for _, ticker := range tickers {
		record, err := s.fetchCompany(ctx, ticker, startDate, endDate)
		if err != nil {
			code := models.WarnTickerFetchFailed
			switch {
			case errors.Is(err, errInsufficientHistory):
				code = models.WarnInsufficientHistory
			case errors.Is(err, errNonFiniteMetrics):
				code = models.WarnNonFiniteMetrics
			}
			log.Warnf("Error processing %s: %v", ticker, err)
			AddWarning(ctx, models.Warning{
				Code:    code,
				Message: fmt.Sprintf("%s: %v", ticker, err),
			})
			continue
		}
		companies = append(companies, *record)
	}

	if len(companies) == 0 {
		return nil, ErrNoValidData
	}
	return companies, nil
}

func (s *PerformanceService) fetchCompany(ctx context.Context, ticker string, startDate, endDate time.Time) (*models.CompanyRecord, error) {
	history, err := s.source.GetHistory(ctx, ticker, startDate, endDate)
	if err != nil {
		return nil, err
	}
	if len(history.Prices) < MinObservations {
		return nil, fmt.Errorf("%w: %d observations, need %d", errInsufficientHistory, len(history.Prices), MinObservations)
	}

	prices, metrics, err := ComputeMetrics(history.Prices)
	if err != nil {
		return nil, err
	}

	name := ticker
	var profileSector, profileIndustry string
	if history.Profile != nil {
		if history.Profile.Name != "" {
			name = history.Profile.Name
		}
		profileSector, profileIndustry = history.Profile.Sector, history.Profile.Industry
	}

	return &models.CompanyRecord{
		Ticker:  ticker,
		Name:    name,
		Sector:  s.DetermineSector(ticker, profileSector, profileIndustry),
		Prices:  prices,
		Metrics: metrics,
	}, nil
}

// DetermineSector places a ticker: static ticker table first, then keyword
// match over the free-text sector and industry, else Other.
func (s *PerformanceService) DetermineSector(ticker, sector, industry string) models.Sector {
	if found, ok := s.policy.SectorForTicker(ticker); ok {
		return found
	}
	if found, ok := s.policy.SectorForDescription(sector, industry); ok {
		return found
	}
	return models.SectorOther
}

// ComputeMetrics gap-fills a close series and derives the metrics triple.
// The returned series is the filled copy; the input is not modified.
func ComputeMetrics(prices []models.PricePoint) ([]models.PricePoint, models.CompanyMetrics, error) {
	if len(prices) == 0 {
		return nil, models.CompanyMetrics{}, errInsufficientHistory
	}

	filled := make([]models.PricePoint, len(prices))
	copy(filled, prices)

	closes := make([]float64, len(filled))
	for i, p := range filled {
		closes[i] = p.Close
		if !util.IsFinite(p.Close) || p.Close <= 0 {
			closes[i] = math.NaN()
		}
	}
	fillGaps(closes)
	for i := range filled {
		filled[i].Close = closes[i]
	}

	returns := dailyReturns(closes)
	vol := RollingVolatility(returns, VolatilityWindow, VolatilityMinPeriods)
	fillGaps(vol)

	first, last := closes[0], closes[len(closes)-1]
	hi, lo := math.Inf(-1), math.Inf(1)
	for _, c := range closes {
		hi = math.Max(hi, c)
		lo = math.Min(lo, c)
	}

	metrics := models.CompanyMetrics{
		ReturnPct:     util.Round((last/first-1)*100, 2),
		VolatilityPct: util.Round(stat.Mean(vol, nil)*100, 2),
		DrawdownPct:   util.Round((lo/hi-1)*100, 2),
	}

	if !util.IsFinite(metrics.ReturnPct) || !util.IsFinite(metrics.VolatilityPct) || !util.IsFinite(metrics.DrawdownPct) {
		return nil, models.CompanyMetrics{}, errNonFiniteMetrics
	}
	return filled, metrics, nil
}

// dailyReturns is the percent change between consecutive closes; the first
// entry has no predecessor and is NaN.
func dailyReturns(closes []float64) []float64 {
	returns := make([]float64, len(closes))
	returns[0] = math.NaN()
	for i := 1; i < len(closes); i++ {
		returns[i] = closes[i]/closes[i-1] - 1
	}
	return returns
}

// RollingVolatility is the annualized sample standard deviation of returns
// over a trailing window. Windows holding fewer than minPeriods finite
// returns yield NaN.
func RollingVolatility(returns []float64, window, minPeriods int) []float64 {
	out := make([]float64, len(returns))
	buf := make([]float64, 0, window)
	for i := range returns {
		buf = buf[:0]
		for j := max(0, i-window+1); j <= i; j++ {
			if util.IsFinite(returns[j]) {
				buf = append(buf, returns[j])
			}
		}
		if len(buf) < minPeriods || len(buf) < 2 {
			out[i] = math.NaN()
			continue
		}
		out[i] = stat.StdDev(buf, nil) * math.Sqrt(tradingDaysPerYear)
	}
	return out
}

// fillGaps forward-fills then backward-fills NaN entries in place. A series
// with no finite value at all is left as NaN.
func fillGaps(values []float64) {
	last := math.NaN()
	for i, v := range values {
		if math.IsNaN(v) {
			values[i] = last
		} else {
			last = v
		}
	}
	next := math.NaN()
	for i := len(values) - 1; i >= 0; i-- {
		if math.IsNaN(values[i]) {
			values[i] = next
		} else {
			next = values[i]
		}
	}
}

// PerformanceTable returns the per-ticker performance rows of a cohort
func (s *PerformanceService) PerformanceTable(companies []models.CompanyRecord) map[string]models.PerformanceEntry {
	out := make(map[string]models.PerformanceEntry, len(companies))
	for _, c := range companies {
		out[c.Ticker] = models.PerformanceEntry{
			Name:           c.Name,
			Sector:         c.Sector,
			CompanyMetrics: c.Metrics,
		}
	}
	return out
}

// ParseTickers splits a comma-separated ticker list, upper-cases and trims
// each entry and drops empties and duplicates, keeping first occurrence.
func ParseTickers(raw string) (tickers []string, duplicates []string) {
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		t := strings.ToUpper(strings.TrimSpace(part))
		if t == "" {
			continue
		}
		if seen[t] {
			duplicates = append(duplicates, t)
			continue
		}
		seen[t] = true
		tickers = append(tickers, t)
	}
	return tickers, duplicates
}
