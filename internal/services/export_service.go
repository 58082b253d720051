package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/epeers/riskflow/internal/models"
)

// ErrUnknownTable is returned for export tables that do not exist
var ErrUnknownTable = errors.New("unknown export table")

// WriteCSV writes one table of an analysis result as CSV with a header row.
// Map-backed tables are written in ticker order.
func WriteCSV(w io.Writer, table string, result *models.AnalysisResult) error {
	var records [][]string

	switch table {
	case models.TablePerformance:
		records = append(records, []string{"ticker", "name", "sector", "return", "volatility", "drawdown"})
		for _, ticker := range sortedKeys(result.Performance) {
			p := result.Performance[ticker]
			records = append(records, []string{ticker, p.Name, string(p.Sector), ftoa(p.ReturnPct), ftoa(p.VolatilityPct), ftoa(p.DrawdownPct)})
		}
	case models.TableRisk:
		records = append(records, []string{"ticker", "name", "sector", "score"})
		for _, ticker := range sortedKeys(result.Risk) {
			r := result.Risk[ticker]
			records = append(records, []string{ticker, r.Name, string(r.Sector), r.Score})
		}
	case models.TableSupplyChainImpact:
		records = append(records, []string{"company", "ticker", "sector", "semiconductor_dependency", "financial_impact_pct",
			"impact_severity", "estimated_recovery_months", "supply_chain_resilience", "strategic_recommendation"})
		for _, a := range result.SupplyChainImpact {
			records = append(records, []string{a.Company, a.Ticker, string(a.Sector), a.SemiconductorDependency, ftoa(a.FinancialImpactPct),
				a.ImpactSeverity, a.EstimatedRecovery, ftoa(a.Resilience), a.Recommendation})
		}
	case models.TableSectorVulnerability:
		records = append(records, []string{"sector", "companies_analyzed", "avg_financial_impact_pct", "avg_return_pct",
			"critical_impact_companies", "severe_impact_companies", "supply_chain_risk_level"})
		for _, s := range result.SectorVulnerability {
			records = append(records, []string{string(s.Sector), strconv.Itoa(s.CompaniesAnalyzed), ftoa(s.AvgFinancialImpactPct), ftoa(s.AvgReturnPct),
				strconv.Itoa(s.CriticalImpactCompanies), strconv.Itoa(s.SevereImpactCompanies), s.SupplyChainRiskLevel})
		}
	case models.TableTimeSeries:
		records = append(records, []string{"date", "normalized_price", "company", "ticker", "sector"})
		for _, p := range result.TimeSeriesData {
			records = append(records, []string{p.Date, ftoa(p.NormalizedPrice), p.Company, p.Ticker, string(p.Sector)})
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write %s csv: %w", table, err)
	}
	return nil
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
