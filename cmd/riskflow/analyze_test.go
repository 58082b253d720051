package main

import (
	"bytes"
	"testing"

	"github.com/epeers/riskflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeOptionsRequest(t *testing.T) {
	valid := analyzeOptions{
		tickers:     "NVDA,F",
		start:       "2021-01-01",
		end:         "2022-12-31",
		sensitivity: 0.3,
		maxSeries:   6,
		format:      "json",
	}

	req, err := valid.request()
	require.NoError(t, err)
	assert.Equal(t, "NVDA,F", req.Tickers)
	assert.Equal(t, "2021-01-01", req.StartDate.Format(models.DateLayout))
	assert.Equal(t, 0.3, req.Sensitivity)

	tests := []struct {
		name   string
		mutate func(o *analyzeOptions)
	}{
		{"sensitivity too low", func(o *analyzeOptions) { o.sensitivity = 0.05 }},
		{"sensitivity too high", func(o *analyzeOptions) { o.sensitivity = 0.6 }},
		{"max series zero", func(o *analyzeOptions) { o.maxSeries = 0 }},
		{"bad format", func(o *analyzeOptions) { o.format = "xlsx" }},
		{"bad start", func(o *analyzeOptions) { o.start = "01/01/2021" }},
		{"bad end", func(o *analyzeOptions) { o.end = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := valid
			tt.mutate(&o)
			_, err := o.request()
			assert.Error(t, err)
		})
	}
}

func TestAnalyzeOptionsWriteCSV(t *testing.T) {
	o := analyzeOptions{format: "csv", table: models.TableRisk}
	result := &models.AnalysisResult{
		Risk: map[string]models.RiskAssessment{
			"F": {Name: "Ford", Sector: models.SectorAutomotive, Score: models.RiskLow},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, o.write(&buf, result))
	assert.Equal(t, "ticker,name,sector,score\nF,Ford,Automotive,Low\n", buf.String())
}
