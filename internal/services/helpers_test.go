package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/epeers/riskflow/internal/models"
)

var (
	testStart = time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC)
	testEnd   = time.Date(2022, 12, 30, 0, 0, 0, 0, time.UTC)
)

// fakeSource serves canned histories keyed by upper-case ticker
type fakeSource struct {
	mu        sync.Mutex
	histories map[string]*models.PriceHistory
	calls     map[string]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		histories: make(map[string]*models.PriceHistory),
		calls:     make(map[string]int),
	}
}

func (f *fakeSource) add(ticker, name, sector, industry string, closes []float64) {
	f.histories[ticker] = &models.PriceHistory{
		Ticker:  ticker,
		Prices:  pricePoints(closes),
		Profile: &models.CompanyProfile{Symbol: ticker, Name: name, Sector: sector, Industry: industry},
	}
}

func (f *fakeSource) GetHistory(ctx context.Context, ticker string, startDate, endDate time.Time) (*models.PriceHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticker = strings.ToUpper(ticker)
	f.calls[ticker]++
	h, ok := f.histories[ticker]
	if !ok {
		return nil, errors.New("unknown symbol")
	}
	return h, nil
}

// pricePoints lays closes out on consecutive days from testStart
func pricePoints(closes []float64) []models.PricePoint {
	out := make([]models.PricePoint, len(closes))
	for i, c := range closes {
		out[i] = models.PricePoint{Date: testStart.AddDate(0, 0, i), Close: c}
	}
	return out
}

// series builds n closes from f(i)
func series(n int, f func(i int) float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = f(i)
	}
	return out
}

// crashAndRecover falls from 100 to trough over the first half and climbs
// back to end over the second half.
func crashAndRecover(n int, trough, end float64) []float64 {
	half := n / 2
	return series(n, func(i int) float64 {
		if i <= half {
			return 100 + (trough-100)*float64(i)/float64(half)
		}
		return trough + (end-trough)*float64(i-half)/float64(n-1-half)
	})
}

func record(ticker string, sector models.Sector, ret, vol, dd float64) models.CompanyRecord {
	return models.CompanyRecord{
		Ticker: ticker,
		Name:   ticker + " Inc",
		Sector: sector,
		Metrics: models.CompanyMetrics{
			ReturnPct:     ret,
			VolatilityPct: vol,
			DrawdownPct:   dd,
		},
	}
}

func hasWarning(warnings []models.Warning, code models.WarningCode) bool {
	for _, w := range warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}
