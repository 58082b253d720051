package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/epeers/riskflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		Performance: map[string]models.PerformanceEntry{
			"TSM": {Name: "Taiwan Semiconductor", Sector: models.SectorSemiconductors, CompanyMetrics: models.CompanyMetrics{ReturnPct: 12.5, VolatilityPct: 31.02, DrawdownPct: -44.1}},
			"F":   {Name: "Ford Motor", Sector: models.SectorAutomotive, CompanyMetrics: models.CompanyMetrics{ReturnPct: -8, VolatilityPct: 40, DrawdownPct: -52.75}},
		},
		Risk: map[string]models.RiskAssessment{
			"TSM": {Name: "Taiwan Semiconductor", Sector: models.SectorSemiconductors, Score: models.RiskLow},
		},
		SupplyChainImpact: []models.ImpactAssessment{
			{Company: "Ford Motor, Co", Ticker: "F", Sector: models.SectorAutomotive, SemiconductorDependency: "Critical (50-150 chips/vehicle)",
				FinancialImpactPct: 52.75, ImpactSeverity: models.SeveritySevere, EstimatedRecovery: "18+ months", Resilience: 10, Recommendation: "Diversify"},
		},
		SectorVulnerability: []models.SectorSummary{
			{Sector: models.SectorAutomotive, CompaniesAnalyzed: 1, AvgFinancialImpactPct: 52.8, AvgReturnPct: -8, SevereImpactCompanies: 1, SupplyChainRiskLevel: "Extreme"},
		},
		TimeSeriesData: []models.TimeSeriesPoint{
			{Date: "2022-01-03", NormalizedPrice: 100, Company: "Ford Motor", Ticker: "F", Sector: models.SectorAutomotive},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	tests := []struct {
		table string
		want  string
	}{
		{models.TablePerformance, "ticker,name,sector,return,volatility,drawdown\n" +
			"F,Ford Motor,Automotive,-8,40,-52.75\n" +
			"TSM,Taiwan Semiconductor,Semiconductors,12.5,31.02,-44.1\n"},
		{models.TableRisk, "ticker,name,sector,score\nTSM,Taiwan Semiconductor,Semiconductors,Low\n"},
		{models.TableSupplyChainImpact, "company,ticker,sector,semiconductor_dependency,financial_impact_pct,impact_severity," +
			"estimated_recovery_months,supply_chain_resilience,strategic_recommendation\n" +
			"\"Ford Motor, Co\",F,Automotive,Critical (50-150 chips/vehicle),52.75,Severe,18+ months,10,Diversify\n"},
		{models.TableSectorVulnerability, "sector,companies_analyzed,avg_financial_impact_pct,avg_return_pct," +
			"critical_impact_companies,severe_impact_companies,supply_chain_risk_level\n" +
			"Automotive,1,52.8,-8,0,1,Extreme\n"},
		{models.TableTimeSeries, "date,normalized_price,company,ticker,sector\n2022-01-03,100,Ford Motor,F,Automotive\n"},
	}
	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteCSV(&buf, tt.table, sampleResult()))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWriteCSV_EmptyRisk(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, models.TableRisk, &models.AnalysisResult{}))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"), "header only")
}

func TestWriteCSV_UnknownTable(t *testing.T) {
	err := WriteCSV(&bytes.Buffer{}, "summary", sampleResult())
	assert.ErrorIs(t, err, ErrUnknownTable)
}
