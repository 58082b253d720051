package models

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status string `json:"status"`
}

// Export tables addressable through POST /analysis/export/:table
const (
	TablePerformance         = "performance"
	TableRisk                = "risk"
	TableSupplyChainImpact   = "supply_chain_impact"
	TableSectorVulnerability = "sector_vulnerability"
	TableTimeSeries          = "time_series_data"
)

// ExportTables lists the tables that can be exported as CSV
var ExportTables = []string{
	TablePerformance,
	TableRisk,
	TableSupplyChainImpact,
	TableSectorVulnerability,
	TableTimeSeries,
}
