package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/epeers/riskflow/internal/models"
	"github.com/epeers/riskflow/internal/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeMetrics_Linear(t *testing.T) {
	prices := pricePoints(series(30, func(i int) float64 { return 100 + float64(i) }))

	filled, m, err := ComputeMetrics(prices)
	require.NoError(t, err)
	assert.Len(t, filled, 30)

	assert.Equal(t, 29.0, m.ReturnPct)
	// global min over global max, not a running peak-to-trough
	assert.Equal(t, -22.48, m.DrawdownPct)
	assert.Greater(t, m.VolatilityPct, 0.0)
}

func TestComputeMetrics_Flat(t *testing.T) {
	_, m, err := ComputeMetrics(pricePoints(series(40, func(int) float64 { return 50 })))
	require.NoError(t, err)
	assert.Equal(t, models.CompanyMetrics{}, m)
}

func TestComputeMetrics_FillsGaps(t *testing.T) {
	closes := series(35, func(i int) float64 { return 100 + float64(i) })
	closes[0] = math.NaN()
	closes[10] = -3
	closes[11] = math.Inf(1)
	closes[12] = 0
	prices := pricePoints(closes)

	filled, m, err := ComputeMetrics(prices)
	require.NoError(t, err)

	assert.Equal(t, 101.0, filled[0].Close, "leading gap is back-filled")
	assert.Equal(t, 109.0, filled[10].Close, "interior gaps are forward-filled")
	assert.Equal(t, 109.0, filled[12].Close)
	assert.True(t, math.IsNaN(prices[0].Close), "input must not be modified")

	assert.Equal(t, 32.67, m.ReturnPct) // 134/101
	assert.False(t, math.IsNaN(m.VolatilityPct))
}

func TestComputeMetrics_AllInvalid(t *testing.T) {
	_, _, err := ComputeMetrics(pricePoints(series(30, func(int) float64 { return math.NaN() })))
	assert.True(t, errors.Is(err, errNonFiniteMetrics))
}

func TestComputeMetrics_Empty(t *testing.T) {
	for _, prices := range [][]models.PricePoint{nil, {}} {
		filled, _, err := ComputeMetrics(prices)
		assert.ErrorIs(t, err, errInsufficientHistory)
		assert.Nil(t, filled)
	}
}

func TestRollingVolatility(t *testing.T) {
	returns := []float64{math.NaN(), 0.01, 0.03, -0.01}
	got := RollingVolatility(returns, 3, 2)

	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	assert.InDelta(t, 0.014142*math.Sqrt(252), got[2], 1e-5)
	assert.InDelta(t, 0.02*math.Sqrt(252), got[3], 1e-9)
}

func TestFillGaps(t *testing.T) {
	v := []float64{math.NaN(), 1, math.NaN(), 3, math.NaN()}
	fillGaps(v)
	assert.Equal(t, []float64{1, 1, 1, 3, 3}, v)

	empty := []float64{math.NaN(), math.NaN()}
	fillGaps(empty)
	assert.True(t, math.IsNaN(empty[0]))
}

func TestDetermineSector(t *testing.T) {
	svc := NewPerformanceService(newFakeSource(), policy.Default())

	tests := []struct {
		name                     string
		ticker, sector, industry string
		want                     models.Sector
	}{
		{"static table wins over keywords", "F", "TECHNOLOGY", "SEMICONDUCTORS", models.SectorAutomotive},
		{"keyword on industry", "MU", "TECHNOLOGY", "SEMICONDUCTORS", models.SectorSemiconductors},
		{"keyword on sector", "HON", "INDUSTRIALS", "", models.SectorTelecomIndustrial},
		{"no match", "XOM", "ENERGY", "OIL & GAS", models.SectorOther},
		{"no profile", "ZZZ", "", "", models.SectorOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.DetermineSector(tt.ticker, tt.sector, tt.industry))
		})
	}
}

func TestFetchCompanies(t *testing.T) {
	src := newFakeSource()
	src.add("NVDA", "NVIDIA Corp", "TECHNOLOGY", "SEMICONDUCTORS", crashAndRecover(60, 40, 150))
	src.add("SHORT", "Short Ltd", "", "", series(10, func(i int) float64 { return 10 + float64(i) }))
	src.add("BROKEN", "Broken Ltd", "", "", series(40, func(int) float64 { return math.NaN() }))
	src.add("F", "", "", "", crashAndRecover(60, 50, 90))

	svc := NewPerformanceService(src, policy.Default())
	ctx, wc := NewWarningContext(context.Background())

	companies, err := svc.FetchCompanies(ctx, []string{"NVDA", "MISSING", "SHORT", "BROKEN", "F"}, testStart, testEnd)
	require.NoError(t, err)
	require.Len(t, companies, 2)

	assert.Equal(t, "NVDA", companies[0].Ticker)
	assert.Equal(t, "NVIDIA Corp", companies[0].Name)
	assert.Equal(t, models.SectorSemiconductors, companies[0].Sector)
	assert.Equal(t, -73.33, companies[0].Metrics.DrawdownPct)

	assert.Equal(t, "F", companies[1].Ticker)
	assert.Equal(t, "F", companies[1].Name, "empty profile name falls back to ticker")
	assert.Equal(t, -10.0, companies[1].Metrics.ReturnPct)

	warnings := wc.GetWarnings()
	assert.True(t, hasWarning(warnings, models.WarnTickerFetchFailed))
	assert.True(t, hasWarning(warnings, models.WarnInsufficientHistory))
	assert.True(t, hasWarning(warnings, models.WarnNonFiniteMetrics))
}

func TestFetchCompanies_NoValidData(t *testing.T) {
	svc := NewPerformanceService(newFakeSource(), policy.Default())
	_, err := svc.FetchCompanies(context.Background(), []string{"A", "B"}, testStart, testEnd)
	assert.ErrorIs(t, err, ErrNoValidData)
}

func TestPerformanceTable(t *testing.T) {
	svc := NewPerformanceService(newFakeSource(), policy.Default())
	table := svc.PerformanceTable([]models.CompanyRecord{record("TSM", models.SectorSemiconductors, 12.5, 30, -20)})

	require.Contains(t, table, "TSM")
	assert.Equal(t, 12.5, table["TSM"].ReturnPct)
	assert.Equal(t, models.SectorSemiconductors, table["TSM"].Sector)
}

func TestParseTickers(t *testing.T) {
	tickers, dups := ParseTickers(" nvda, TSM,,f ,NVDA, tsm ")
	assert.Equal(t, []string{"NVDA", "TSM", "F"}, tickers)
	assert.Equal(t, []string{"NVDA", "TSM"}, dups)

	tickers, dups = ParseTickers(" , ")
	assert.Empty(t, tickers)
	assert.Empty(t, dups)
}
