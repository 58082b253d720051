package models

// WarningCode categorizes warnings by subsystem.
// W2xxx = pricing/fetch, W3xxx = risk scoring, W4xxx = request adjustments.
type WarningCode string

const (
	WarnTickerFetchFailed   WarningCode = "W2001" // ticker dropped, price or overview fetch failed
	WarnInsufficientHistory WarningCode = "W2002" // ticker dropped, fewer observations than required
	WarnNonFiniteMetrics    WarningCode = "W2003" // ticker dropped, a derived metric was NaN or Inf
	WarnProfileUnavailable  WarningCode = "W2004" // overview missing, name/sector fell back to defaults
	WarnRiskUnavailable     WarningCode = "W3001" // cohort too small for anomaly scoring
	WarnEndDateAdjusted     WarningCode = "W4001" // end date in the future clamped to today
	WarnDuplicateTicker     WarningCode = "W4002" // duplicate ticker removed from the request
)

// Warning represents a non-fatal issue encountered during processing.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}
