package models

// Severity tiers for a single company
const (
	SeverityCritical = "Critical"
	SeveritySevere   = "Severe"
	SeverityModerate = "Moderate"
	SeverityLow      = "Low"
)

// Risk labels produced by the anomaly scorer
const (
	RiskHigh = "High"
	RiskLow  = "Low"
)

// AnalysisRequest represents the request body for running an analysis
type AnalysisRequest struct {
	Tickers     string       `json:"tickers" binding:"required"` // comma-separated
	StartDate   FlexibleDate `json:"start_date" binding:"required"`
	EndDate     FlexibleDate `json:"end_date" binding:"required"`
	Sensitivity float64      `json:"sensitivity" binding:"omitempty,gte=0.1,lte=0.5"`
	MaxSeries   int          `json:"max_series" binding:"omitempty,gte=1,lte=50"`
}

// AnalysisResult is the result bundle of a single analysis run
type AnalysisResult struct {
	Metadata            AnalysisMetadata            `json:"metadata"`
	Performance         map[string]PerformanceEntry `json:"performance"`
	Risk                map[string]RiskAssessment   `json:"risk"` // null when the cohort is too small to score
	SupplyChainImpact   []ImpactAssessment          `json:"supply_chain_impact"`
	SectorVulnerability []SectorSummary             `json:"sector_vulnerability"`
	TimeSeriesData      []TimeSeriesPoint           `json:"time_series_data"`
	Companies           []string                    `json:"companies"`
	Summary             AnalysisSummary             `json:"summary"`
	Warnings            []Warning                   `json:"warnings,omitempty"`
}

// AnalysisMetadata describes the inputs of a run
type AnalysisMetadata struct {
	Tickers        []string `json:"tickers"`
	Period         string   `json:"period"`
	AnalysisDate   string   `json:"analysis_date"`
	TotalCompanies int      `json:"total_companies"`
	Sensitivity    float64  `json:"sensitivity"`
}

// PerformanceEntry is the per-ticker performance row
type PerformanceEntry struct {
	Name   string `json:"name"`
	Sector Sector `json:"sector"`
	CompanyMetrics
}

// RiskAssessment is the anomaly label of one company within its cohort
type RiskAssessment struct {
	Name   string `json:"name"`
	Sector Sector `json:"sector"`
	Score  string `json:"score"`
}

// ImpactAssessment is the per-company supply chain impact classification
type ImpactAssessment struct {
	Company                 string  `json:"company"`
	Ticker                  string  `json:"ticker"`
	Sector                  Sector  `json:"sector"`
	SemiconductorDependency string  `json:"semiconductor_dependency"`
	FinancialImpactPct      float64 `json:"financial_impact_pct"`
	ImpactSeverity          string  `json:"impact_severity"`
	EstimatedRecovery       string  `json:"estimated_recovery_months"`
	Resilience              float64 `json:"supply_chain_resilience"`
	Recommendation          string  `json:"strategic_recommendation"`
}

// SectorSummary aggregates impact assessments of one sector
type SectorSummary struct {
	Sector                  Sector  `json:"sector"`
	CompaniesAnalyzed       int     `json:"companies_analyzed"`
	AvgFinancialImpactPct   float64 `json:"avg_financial_impact_pct"`
	AvgReturnPct            float64 `json:"avg_return_pct"`
	CriticalImpactCompanies int     `json:"critical_impact_companies"`
	SevereImpactCompanies   int     `json:"severe_impact_companies"`
	SupplyChainRiskLevel    string  `json:"supply_chain_risk_level"`
}

// TimeSeriesPoint is one rebased price observation for comparative charts
type TimeSeriesPoint struct {
	Date            string  `json:"date"`
	NormalizedPrice float64 `json:"normalized_price"`
	Company         string  `json:"company"`
	Ticker          string  `json:"ticker"`
	Sector          Sector  `json:"sector"`
}

// AnalysisSummary holds headline counts of a run
type AnalysisSummary struct {
	TotalCompanies     int            `json:"total_companies_analyzed"`
	CompaniesBySector  map[Sector]int `json:"companies_by_sector"`
	SeverityCounts     map[string]int `json:"severity_counts"`
	RiskHigh           int            `json:"risk_high"`
	RiskLow            int            `json:"risk_low"`
	RiskAvailable      bool           `json:"risk_available"`
	ResilientCompanies int            `json:"resilient_companies"` // resilience above 70
}
