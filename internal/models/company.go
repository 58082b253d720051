package models

import (
	"time"
)

// Sector is one of the fixed supply-chain sectors a company can be placed in
type Sector string

const (
	SectorSemiconductors      Sector = "Semiconductors"
	SectorAutomotive          Sector = "Automotive"
	SectorConsumerElectronics Sector = "Consumer Electronics"
	SectorTelecomIndustrial   Sector = "Telecom_Industrial"
	SectorOther               Sector = "Other"
)

// Sectors lists the closed set of sectors, most specific first
var Sectors = []Sector{
	SectorSemiconductors,
	SectorAutomotive,
	SectorConsumerElectronics,
	SectorTelecomIndustrial,
	SectorOther,
}

// PricePoint is a single daily close
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// CompanyProfile carries the descriptive fields of a company overview
type CompanyProfile struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Sector   string `json:"sector"`   // free-text, as reported by the data source
	Industry string `json:"industry"` // free-text, as reported by the data source
}

// CompanyMetrics is the derived metrics triple, all values in percent
type CompanyMetrics struct {
	ReturnPct     float64 `json:"return"`
	VolatilityPct float64 `json:"volatility"`
	DrawdownPct   float64 `json:"drawdown"` // min/max - 1, typically negative
}

// CompanyRecord is a fetched company with its price history and metrics.
// Records are built once per run and never modified afterwards.
type CompanyRecord struct {
	Ticker  string         `json:"ticker"`
	Name    string         `json:"name"`
	Sector  Sector         `json:"sector"`
	Prices  []PricePoint   `json:"-"`
	Metrics CompanyMetrics `json:"metrics"`
}

// PriceHistory is the raw data fetched for one ticker over one date range
type PriceHistory struct {
	Ticker  string          `json:"ticker"`
	Prices  []PricePoint    `json:"prices"`
	Profile *CompanyProfile `json:"profile,omitempty"` // nil when the overview was unavailable
}
