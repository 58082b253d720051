package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/epeers/riskflow/internal/models"
	"github.com/epeers/riskflow/internal/util"
	log "github.com/sirupsen/logrus"
)

// ErrInvalidRequest wraps request validation failures
var ErrInvalidRequest = errors.New("invalid analysis request")

// AnalysisService runs the full pipeline for one request: fetch, risk
// scoring, impact classification, sector aggregation and series selection.
type AnalysisService struct {
	performanceSvc *PerformanceService
	riskSvc        *RiskService
	impactSvc      *ImpactService
	sectorSvc      *SectorService
	timeSeriesSvc  *TimeSeriesService
	now            func() time.Time
}

// NewAnalysisService creates a new AnalysisService
func NewAnalysisService(
	performanceSvc *PerformanceService,
	riskSvc *RiskService,
	impactSvc *ImpactService,
	sectorSvc *SectorService,
	timeSeriesSvc *TimeSeriesService,
) *AnalysisService {
	return &AnalysisService{
		performanceSvc: performanceSvc,
		riskSvc:        riskSvc,
		impactSvc:      impactSvc,
		sectorSvc:      sectorSvc,
		timeSeriesSvc:  timeSeriesSvc,
		now:            time.Now,
	}
}

// Run executes one analysis. Per-ticker problems surface as warnings in the
// result; ErrNoValidData is returned when no ticker produced a record.
func (s *AnalysisService) Run(ctx context.Context, req *models.AnalysisRequest) (*models.AnalysisResult, error) {
	defer TrackTime("AnalysisService.Run", time.Now())

	ctx, wc := NewWarningContext(ctx)

	tickers, duplicates := ParseTickers(req.Tickers)
	if len(tickers) == 0 {
		return nil, fmt.Errorf("%w: no tickers given", ErrInvalidRequest)
	}
	for _, d := range duplicates {
		AddWarning(ctx, models.Warning{
			Code:    models.WarnDuplicateTicker,
			Message: fmt.Sprintf("%s listed more than once", d),
		})
	}

	startDate := util.TruncateDay(req.StartDate.Time)
	endDate := util.TruncateDay(req.EndDate.Time)
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return nil, fmt.Errorf("%w: start_date and end_date are required", ErrInvalidRequest)
	}
	if !endDate.After(startDate) {
		return nil, fmt.Errorf("%w: end_date must be after start_date", ErrInvalidRequest)
	}
	today := util.TruncateDay(s.now())
	if endDate.After(today) {
		AddWarning(ctx, models.Warning{
			Code:    models.WarnEndDateAdjusted,
			Message: fmt.Sprintf("end_date %s is in the future, using %s", endDate.Format(models.DateLayout), today.Format(models.DateLayout)),
		})
		endDate = today
	}

	sensitivity := req.Sensitivity
	if sensitivity == 0 {
		sensitivity = DefaultSensitivity
	}
	maxSeries := req.MaxSeries
	if maxSeries == 0 {
		maxSeries = DefaultMaxSeries
	}

	log.Infof("Running analysis for %d tickers from %s to %s", len(tickers), startDate.Format(models.DateLayout), endDate.Format(models.DateLayout))

	companies, err := s.performanceSvc.FetchCompanies(ctx, tickers, startDate, endDate)
	if err != nil {
		return nil, err
	}

	risk, err := s.riskSvc.AnalyzeRisk(ctx, companies, sensitivity)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze risk: %w", err)
	}

	impacts := s.impactSvc.AnalyzeSupplyChain(companies)

	result := &models.AnalysisResult{
		Metadata: models.AnalysisMetadata{
			Tickers:        tickers,
			Period:         fmt.Sprintf("%s to %s", startDate.Format(models.DateLayout), endDate.Format(models.DateLayout)),
			AnalysisDate:   s.now().Format("2006-01-02 15:04:05"),
			TotalCompanies: len(companies),
			Sensitivity:    sensitivity,
		},
		Performance:         s.performanceSvc.PerformanceTable(companies),
		Risk:                risk,
		SupplyChainImpact:   impacts,
		SectorVulnerability: s.sectorSvc.AnalyzeSectors(companies),
		TimeSeriesData:      s.timeSeriesSvc.BuildTimeSeries(companies, maxSeries),
		Companies:           companyTickers(companies),
	}
	result.Summary = Summarize(result)
	result.Warnings = wc.GetWarnings()

	return result, nil
}

// Summarize computes the headline counts of a result
func Summarize(result *models.AnalysisResult) models.AnalysisSummary {
	summary := models.AnalysisSummary{
		TotalCompanies:    len(result.Companies),
		CompaniesBySector: make(map[models.Sector]int),
		SeverityCounts:    make(map[string]int),
		RiskAvailable:     result.Risk != nil,
	}
	for _, a := range result.SupplyChainImpact {
		summary.CompaniesBySector[a.Sector]++
		summary.SeverityCounts[a.ImpactSeverity]++
		if a.Resilience > 70 {
			summary.ResilientCompanies++
		}
	}
	for _, r := range result.Risk {
		switch r.Score {
		case models.RiskHigh:
			summary.RiskHigh++
		case models.RiskLow:
			summary.RiskLow++
		}
	}
	return summary
}

func companyTickers(companies []models.CompanyRecord) []string {
	out := make([]string, len(companies))
	for i, c := range companies {
		out[i] = c.Ticker
	}
	return out
}
