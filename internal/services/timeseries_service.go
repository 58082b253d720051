package services

import (
	"github.com/epeers/riskflow/internal/models"
	"github.com/epeers/riskflow/internal/util"
)

const (
	// DefaultMaxSeries is how many companies are charted when unspecified
	DefaultMaxSeries = 6
	// MaxSeriesPoints caps the points emitted per company
	MaxSeriesPoints = 100
	normalizedBase  = 100.0
)

// TimeSeriesService prepares rebased price series for comparative charts
type TimeSeriesService struct{}

// NewTimeSeriesService creates a new TimeSeriesService
func NewTimeSeriesService() *TimeSeriesService {
	return &TimeSeriesService{}
}

// SelectDiverse picks up to maxCompanies companies: the first company of
// each distinct sector in cohort order, then the remaining companies in
// cohort order.
func (s *TimeSeriesService) SelectDiverse(companies []models.CompanyRecord, maxCompanies int) []models.CompanyRecord {
	if maxCompanies <= 0 {
		return nil
	}

	selected := make([]models.CompanyRecord, 0, maxCompanies)
	picked := make([]bool, len(companies))
	covered := make(map[models.Sector]bool)

	for i, c := range companies {
		if len(selected) == maxCompanies {
			return selected
		}
		if covered[c.Sector] {
			continue
		}
		covered[c.Sector] = true
		picked[i] = true
		selected = append(selected, c)
	}

	for i, c := range companies {
		if len(selected) == maxCompanies {
			break
		}
		if !picked[i] {
			selected = append(selected, c)
		}
	}
	return selected
}

// BuildTimeSeries rebases each selected company's closes to 100 at the
// first observation and thins long series to at most MaxSeriesPoints.
func (s *TimeSeriesService) BuildTimeSeries(companies []models.CompanyRecord, maxCompanies int) []models.TimeSeriesPoint {
	var out []models.TimeSeriesPoint
	for _, c := range s.SelectDiverse(companies, maxCompanies) {
		if len(c.Prices) == 0 {
			continue
		}
		base := c.Prices[0].Close
		if !util.IsFinite(base) || base == 0 {
			continue
		}

		for _, i := range sampleIndices(len(c.Prices), MaxSeriesPoints) {
			p := c.Prices[i]
			out = append(out, models.TimeSeriesPoint{
				Date:            p.Date.Format(models.DateLayout),
				NormalizedPrice: util.Round(p.Close/base*normalizedBase, 2),
				Company:         c.Name,
				Ticker:          c.Ticker,
				Sector:          c.Sector,
			})
		}
	}
	return out
}

// sampleIndices returns every k-th index of a series of length n, starting
// at 0, with k chosen so that at most limit indices are returned.
func sampleIndices(n, limit int) []int {
	stride := 1
	if n > limit {
		stride = (n + limit - 1) / limit
	}
	idx := make([]int, 0, (n+stride-1)/stride)
	for i := 0; i < n; i += stride {
		idx = append(idx, i)
	}
	return idx
}
