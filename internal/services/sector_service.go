package services

import (
	"math"

	"github.com/epeers/riskflow/internal/models"
	"github.com/epeers/riskflow/internal/policy"
	"github.com/epeers/riskflow/internal/util"
	"gonum.org/v1/gonum/stat"
)

// SectorService aggregates impact assessments per sector
type SectorService struct{}

// NewSectorService creates a new SectorService
func NewSectorService() *SectorService {
	return &SectorService{}
}

type sectorAccumulator struct {
	impacts  []float64
	returns  []float64
	critical int
	severe   int
}

// AnalyzeSectors groups the cohort by sector in order of first appearance.
// Impact is |drawdown| as in the company assessments.
// Critical and Severe counts use the company severity bands; the sector
// risk level uses the separate sector risk bands on the mean impact.
func (s *SectorService) AnalyzeSectors(companies []models.CompanyRecord) []models.SectorSummary {
	var order []models.Sector
	acc := make(map[models.Sector]*sectorAccumulator)

	for _, c := range companies {
		data, ok := acc[c.Sector]
		if !ok {
			data = &sectorAccumulator{}
			acc[c.Sector] = data
			order = append(order, c.Sector)
		}

		impact := math.Abs(c.Metrics.DrawdownPct)
		data.impacts = append(data.impacts, impact)
		data.returns = append(data.returns, c.Metrics.ReturnPct)

		switch Severity(impact) {
		case models.SeverityCritical:
			data.critical++
		case models.SeveritySevere:
			data.severe++
		}
	}

	out := make([]models.SectorSummary, 0, len(order))
	for _, sector := range order {
		data := acc[sector]
		meanImpact := stat.Mean(data.impacts, nil)
		out = append(out, models.SectorSummary{
			Sector:                  sector,
			CompaniesAnalyzed:       len(data.impacts),
			AvgFinancialImpactPct:   util.Round(meanImpact, 1),
			AvgReturnPct:            util.Round(stat.Mean(data.returns, nil), 1),
			CriticalImpactCompanies: data.critical,
			SevereImpactCompanies:   data.severe,
			SupplyChainRiskLevel:    SectorRiskLevel(meanImpact),
		})
	}
	return out
}

// SectorRiskLevel maps a sector's mean |drawdown| to its risk level
func SectorRiskLevel(meanImpact float64) string {
	if level, ok := policy.SectorRiskBands.AtLeast(meanImpact); ok {
		return level
	}
	return "Low"
}
