package services

import (
	"context"
	"fmt"
	"math"

	"github.com/epeers/riskflow/internal/anomaly"
	"github.com/epeers/riskflow/internal/models"
	"github.com/epeers/riskflow/internal/util"
	log "github.com/sirupsen/logrus"
)

// MinRiskCohort is the smallest cohort the anomaly model is fitted on
const MinRiskCohort = 3

// DefaultSensitivity is the contamination used when a request omits it
const DefaultSensitivity = 0.3

// RiskService labels companies as High or Low risk relative to their cohort
type RiskService struct{}

// NewRiskService creates a new RiskService
func NewRiskService() *RiskService {
	return &RiskService{}
}

// AnalyzeRisk fits an isolation forest over (volatility, |drawdown|) of the
// whole cohort and labels outliers High. Labels are only meaningful for this
// exact cohort. A nil map means risk is unavailable (fewer than
// MinRiskCohort usable companies), not that every company is low risk.
func (s *RiskService) AnalyzeRisk(ctx context.Context, companies []models.CompanyRecord, sensitivity float64) (map[string]models.RiskAssessment, error) {
	var rows [][]float64
	var valid []models.CompanyRecord
	for _, c := range companies {
		vol := c.Metrics.VolatilityPct
		dd := math.Abs(c.Metrics.DrawdownPct)
		if !util.IsFinite(vol) || !util.IsFinite(dd) {
			continue
		}
		rows = append(rows, []float64{vol, dd})
		valid = append(valid, c)
	}

	if len(rows) < MinRiskCohort {
		log.Infof("risk scoring skipped: %d usable companies, need %d", len(rows), MinRiskCohort)
		AddWarning(ctx, models.Warning{
			Code:    models.WarnRiskUnavailable,
			Message: fmt.Sprintf("risk assessment needs at least %d companies, got %d", MinRiskCohort, len(rows)),
		})
		return nil, nil
	}

	if sensitivity <= 0 {
		sensitivity = DefaultSensitivity
	}
	contamination := math.Min(sensitivity, anomaly.MaxContamination)

	forest, err := anomaly.Fit(rows, anomaly.DefaultConfig(contamination))
	if err != nil {
		return nil, fmt.Errorf("failed to fit anomaly model: %w", err)
	}

	outliers := forest.Predict(rows)
	out := make(map[string]models.RiskAssessment, len(valid))
	for i, c := range valid {
		score := models.RiskLow
		if outliers[i] {
			score = models.RiskHigh
		}
		out[c.Ticker] = models.RiskAssessment{
			Name:   c.Name,
			Sector: c.Sector,
			Score:  score,
		}
	}
	return out, nil
}
