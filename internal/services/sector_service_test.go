package services

import (
	"testing"

	"github.com/epeers/riskflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeSectors(t *testing.T) {
	svc := NewSectorService()
	companies := []models.CompanyRecord{
		record("F", models.SectorAutomotive, -10, 40, -40),
		record("NVDA", models.SectorSemiconductors, 120, 50, -66),
		record("GM", models.SectorAutomotive, 15, 35, -40),
		record("TSM", models.SectorSemiconductors, 20, 30, -12),
		record("CSCO", models.SectorTelecomIndustrial, 4.44, 20, -14.96),
	}

	got := svc.AnalyzeSectors(companies)
	require.Len(t, got, 3)

	// order of first appearance
	assert.Equal(t, models.SectorAutomotive, got[0].Sector)
	assert.Equal(t, models.SectorSemiconductors, got[1].Sector)
	assert.Equal(t, models.SectorTelecomIndustrial, got[2].Sector)

	auto := got[0]
	assert.Equal(t, 2, auto.CompaniesAnalyzed)
	assert.Equal(t, 40.0, auto.AvgFinancialImpactPct)
	assert.Equal(t, 2.5, auto.AvgReturnPct)
	assert.Equal(t, 0, auto.CriticalImpactCompanies)
	assert.Equal(t, 2, auto.SevereImpactCompanies)
	// each company is Severe at 40, yet the sector mean of 40 is Extreme
	assert.Equal(t, "Extreme", auto.SupplyChainRiskLevel)

	semi := got[1]
	assert.Equal(t, 39.0, semi.AvgFinancialImpactPct)
	assert.Equal(t, 1, semi.CriticalImpactCompanies)
	assert.Equal(t, 0, semi.SevereImpactCompanies)
	assert.Equal(t, "High", semi.SupplyChainRiskLevel)

	telecom := got[2]
	assert.Equal(t, 15.0, telecom.AvgFinancialImpactPct, "rounded for display")
	assert.Equal(t, "Low", telecom.SupplyChainRiskLevel, "level uses the unrounded mean")
	assert.Equal(t, 4.4, telecom.AvgReturnPct)
}

func TestAnalyzeSectors_Empty(t *testing.T) {
	assert.Empty(t, NewSectorService().AnalyzeSectors(nil))
}

func TestSectorRiskLevel(t *testing.T) {
	assert.Equal(t, "Extreme", SectorRiskLevel(40))
	assert.Equal(t, "High", SectorRiskLevel(39.9))
	assert.Equal(t, "High", SectorRiskLevel(25))
	assert.Equal(t, "Medium", SectorRiskLevel(15))
	assert.Equal(t, "Low", SectorRiskLevel(14.99))
	assert.Equal(t, "Low", SectorRiskLevel(0))
}
