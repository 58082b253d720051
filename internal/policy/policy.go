// Package policy holds the static risk policy: threshold tables, the sector
// classification tables and the canned strategic recommendations.
package policy

import (
	"strings"

	"github.com/epeers/riskflow/internal/models"
)

// DefaultRecommendation is returned when neither the sector table nor the
// default table has an entry for the requested impact band.
const DefaultRecommendation = "Monitor supply chain risks"

// defaultTableKey names the sector-agnostic recommendation table
const defaultTableKey = "default"

// SectorTickers is the static ticker list of one sector
type SectorTickers struct {
	Sector  models.Sector `yaml:"sector"`
	Tickers []string      `yaml:"tickers"`
}

// KeywordRule maps free-text sector/industry keywords to a sector
type KeywordRule struct {
	Sector   models.Sector `yaml:"sector"`
	Keywords []string      `yaml:"keywords"`
}

// Policy is the full set of classification tables used during a run.
// A Policy is read-only once built.
type Policy struct {
	SectorTickers   []SectorTickers
	KeywordRules    []KeywordRule
	Dependency      map[models.Sector]string
	Recommendations map[string]map[string]string // sector (or "default") -> impact band -> text
}

// Default returns the built-in policy
func Default() *Policy {
	return &Policy{
		SectorTickers: []SectorTickers{
			{Sector: models.SectorSemiconductors, Tickers: []string{"TSM", "NVDA", "INTC", "AMD", "AVGO", "ASML", "QCOM"}},
			{Sector: models.SectorAutomotive, Tickers: []string{"TSLA", "F", "GM", "TM", "TATAMOTORS.NS", "MARUTI.NS"}},
			{Sector: models.SectorConsumerElectronics, Tickers: []string{"AAPL", "SONY", "HPQ", "DELL", "MSFT"}},
			{Sector: models.SectorTelecomIndustrial, Tickers: []string{"CSCO", "ERIC", "NOK", "ABB"}},
		},
		KeywordRules: []KeywordRule{
			{Sector: models.SectorSemiconductors, Keywords: []string{"semiconductor", "chip"}},
			{Sector: models.SectorAutomotive, Keywords: []string{"auto", "vehicle"}},
			{Sector: models.SectorConsumerElectronics, Keywords: []string{"electronic", "computer"}},
			{Sector: models.SectorTelecomIndustrial, Keywords: []string{"telecom", "industrial"}},
		},
		Dependency: map[models.Sector]string{
			models.SectorSemiconductors:      "Supplier",
			models.SectorAutomotive:          "Critical (50-150 chips/vehicle)",
			models.SectorConsumerElectronics: "High (Core component)",
			models.SectorTelecomIndustrial:   "Medium (Infrastructure)",
			models.SectorOther:               "Low",
		},
		Recommendations: map[string]map[string]string{
			string(models.SectorAutomotive): {
				ImpactHigh:   "Immediate supplier diversification and inventory buildup",
				ImpactMedium: "Diversify suppliers and increase safety stock",
				ImpactLow:    "Strengthen existing supplier relationships",
			},
			string(models.SectorConsumerElectronics): {
				ImpactHigh:   "Increase inventory buffers and dual-source components",
				ImpactMedium: "Optimize component sourcing and increase flexibility",
				ImpactLow:    "Maintain current sourcing strategy with monitoring",
			},
			string(models.SectorSemiconductors): {
				ImpactHigh: "Expand production capacity and geographic diversification",
				ImpactLow:  "Invest in R&D and process optimization",
			},
			defaultTableKey: {
				ImpactHigh: "Review and diversify supply chain dependencies",
				ImpactLow:  "Monitor supply chain risks regularly",
			},
		},
	}
}

// SectorForTicker looks the ticker up in the static sector lists.
func (p *Policy) SectorForTicker(ticker string) (models.Sector, bool) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	for _, st := range p.SectorTickers {
		for _, t := range st.Tickers {
			if strings.EqualFold(t, ticker) {
				return st.Sector, true
			}
		}
	}
	return "", false
}

// SectorForDescription matches free-text sector and industry strings
// against the keyword rules in order.
func (p *Policy) SectorForDescription(sector, industry string) (models.Sector, bool) {
	text := strings.ToLower(sector + industry)
	if text == "" {
		return "", false
	}
	for _, rule := range p.KeywordRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				return rule.Sector, true
			}
		}
	}
	return "", false
}

// DependencyLevel returns the semiconductor dependency level of a sector.
func (p *Policy) DependencyLevel(sector models.Sector) string {
	if level, ok := p.Dependency[sector]; ok {
		return level
	}
	return "Low"
}

// Recommendation resolves the strategic recommendation for a sector at the
// given |drawdown|. Resolution never fails: sector table, then the default
// table, then the low entry of whichever table was chosen, then
// DefaultRecommendation.
func (p *Policy) Recommendation(sector models.Sector, impact float64) string {
	recs, ok := p.Recommendations[string(sector)]
	if !ok {
		recs = p.Recommendations[defaultTableKey]
	}

	band, ok := RecommendationBands.AtLeast(impact)
	if !ok {
		band = ImpactLow
	}

	if text, ok := recs[band]; ok {
		return text
	}
	if text, ok := recs[ImpactLow]; ok {
		return text
	}
	return DefaultRecommendation
}
