package policy

import (
	"fmt"
	"math"
)

// Band is one (bound, label) entry of a threshold table
type Band struct {
	Bound float64 `yaml:"bound"`
	Label string  `yaml:"label"`
}

// Bands is a threshold table ordered descending by Bound.
// Lookups are first-match, so a value sitting exactly on a bound
// resolves to the earlier (higher) band.
type Bands []Band

// AtLeast returns the label of the first band whose bound is <= v.
func (b Bands) AtLeast(v float64) (string, bool) {
	for _, band := range b {
		if v >= band.Bound {
			return band.Label, true
		}
	}
	return "", false
}

// Above returns the label of the first band whose bound is < v.
func (b Bands) Above(v float64) (string, bool) {
	for _, band := range b {
		if v > band.Bound {
			return band.Label, true
		}
	}
	return "", false
}

// Validate checks that the table is non-empty and strictly descending.
func (b Bands) Validate() error {
	if len(b) == 0 {
		return fmt.Errorf("threshold table is empty")
	}
	for i := 1; i < len(b); i++ {
		if !(b[i].Bound < b[i-1].Bound) {
			return fmt.Errorf("threshold table not descending at %q (%v >= %v)", b[i].Label, b[i].Bound, b[i-1].Bound)
		}
	}
	return nil
}

// SeverityBands classify a single company's |drawdown|.
var SeverityBands = Bands{
	{Bound: 60, Label: "Critical"},
	{Bound: 40, Label: "Severe"},
	{Bound: 20, Label: "Moderate"},
	{Bound: 0, Label: "Low"},
}

// SectorRiskBands classify a sector's mean |drawdown|. They are a separate
// table from SeverityBands and the two must not be merged.
var SectorRiskBands = Bands{
	{Bound: 40, Label: "Extreme"},
	{Bound: 25, Label: "High"},
	{Bound: 15, Label: "Medium"},
	{Bound: 0, Label: "Low"},
}

// RecoveryRules map a total return (percent) to a recovery estimate,
// evaluated with Above.
var RecoveryRules = Bands{
	{Bound: 50, Label: "3-6 months"},
	{Bound: 20, Label: "6-12 months"},
	{Bound: 0, Label: "12-18 months"},
	{Bound: math.Inf(-1), Label: "18+ months"},
}

// RecoveryFallback is used when the return is below every recovery bound (NaN).
const RecoveryFallback = "18+ months"

// Impact bands used to pick a recommendation entry
const (
	ImpactHigh   = "high"
	ImpactMedium = "medium"
	ImpactLow    = "low"
)

// RecommendationBands pick the recommendation key from |drawdown|.
var RecommendationBands = Bands{
	{Bound: 45, Label: ImpactHigh},
	{Bound: 25, Label: ImpactMedium},
	{Bound: math.Inf(-1), Label: ImpactLow},
}

// ValidateTables checks every built-in threshold table
func ValidateTables() error {
	for name, b := range map[string]Bands{
		"severity":       SeverityBands,
		"sector risk":    SectorRiskBands,
		"recovery":       RecoveryRules,
		"recommendation": RecommendationBands,
	} {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("%s bands: %w", name, err)
		}
	}
	return nil
}
