package services

import (
	"math"

	"github.com/epeers/riskflow/internal/models"
	"github.com/epeers/riskflow/internal/policy"
	"github.com/epeers/riskflow/internal/util"
)

const (
	resilienceBase         = 50.0
	resilienceReturnWeight = 0.5
	resilienceDrawdownRate = 0.8
	resilienceMaxPenalty   = 40.0
)

// ImpactService classifies the supply chain impact of each company.
// All methods are pure functions of their input and the policy.
type ImpactService struct {
	policy *policy.Policy
}

// NewImpactService creates a new ImpactService
func NewImpactService(pol *policy.Policy) *ImpactService {
	return &ImpactService{policy: pol}
}

// AnalyzeSupplyChain assesses every company of the cohort, in cohort order
func (s *ImpactService) AnalyzeSupplyChain(companies []models.CompanyRecord) []models.ImpactAssessment {
	out := make([]models.ImpactAssessment, 0, len(companies))
	for _, c := range companies {
		out = append(out, s.Assess(c))
	}
	return out
}

// Assess builds the impact assessment of one company
func (s *ImpactService) Assess(c models.CompanyRecord) models.ImpactAssessment {
	impact := math.Abs(c.Metrics.DrawdownPct)
	return models.ImpactAssessment{
		Company:                 c.Name,
		Ticker:                  c.Ticker,
		Sector:                  c.Sector,
		SemiconductorDependency: s.policy.DependencyLevel(c.Sector),
		FinancialImpactPct:      impact,
		ImpactSeverity:          Severity(impact),
		EstimatedRecovery:       EstimateRecovery(c.Metrics.ReturnPct),
		Resilience:              Resilience(c.Metrics.ReturnPct, c.Metrics.DrawdownPct),
		Recommendation:          s.policy.Recommendation(c.Sector, impact),
	}
}

// Severity maps |drawdown| to a company severity tier
func Severity(impact float64) string {
	if tier, ok := policy.SeverityBands.AtLeast(impact); ok {
		return tier
	}
	return models.SeverityLow
}

// EstimateRecovery maps a total return to a recovery time estimate
func EstimateRecovery(returnPct float64) string {
	if est, ok := policy.RecoveryRules.Above(returnPct); ok {
		return est
	}
	return policy.RecoveryFallback
}

// Resilience scores 0-100: return lifts the base score without limit until
// the clamp, drawdown lowers it by at most 40 points.
func Resilience(returnPct, drawdownPct float64) float64 {
	boost := math.Max(0, returnPct*resilienceReturnWeight)
	penalty := math.Min(resilienceMaxPenalty, math.Abs(drawdownPct)*resilienceDrawdownRate)
	return util.Round(util.Clamp(resilienceBase+boost-penalty, 0, 100), 1)
}
