package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/epeers/riskflow/internal/models"
	"github.com/epeers/riskflow/internal/services"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// AnalysisHandler handles analysis and export endpoints
type AnalysisHandler struct {
	analysisSvc *services.AnalysisService
}

// NewAnalysisHandler creates a new AnalysisHandler
func NewAnalysisHandler(analysisSvc *services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		analysisSvc: analysisSvc,
	}
}

// Analyze handles POST /analysis
// @Summary Run a supply chain resilience analysis
// @Description Fetch price history for the tickers, derive metrics, score anomalies and classify impact per company and sector
// @Tags analysis
// @Accept json
// @Produce json
// @Param request body models.AnalysisRequest true "Analysis parameters"
// @Success 200 {object} models.AnalysisResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /analysis [post]
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	result, ok := h.run(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, result)
}

// Export handles POST /analysis/export/:table
// @Summary Export one table of an analysis as CSV
// @Description Runs the analysis (served from the price cache when possible) and returns a single table as CSV
// @Tags analysis
// @Accept json
// @Produce text/csv
// @Param table path string true "performance, risk, supply_chain_impact, sector_vulnerability or time_series_data"
// @Param request body models.AnalysisRequest true "Analysis parameters"
// @Success 200 {string} string "CSV document"
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /analysis/export/{table} [post]
func (h *AnalysisHandler) Export(c *gin.Context) {
	table := c.Param("table")
	if !knownTable(table) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "unknown table " + table,
		})
		return
	}

	result, ok := h.run(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := services.WriteCSV(&buf, table, result); err != nil {
		// The analysis itself succeeded; only the rendering failed
		log.Warnf("export of %s failed: %v", table, err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "export_failed",
			Message: err.Error(),
		})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+table+`.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// run binds the request and executes the analysis, writing the error
// response itself when it fails.
func (h *AnalysisHandler) run(c *gin.Context) (*models.AnalysisResult, bool) {
	var req models.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		})
		return nil, false
	}

	result, err := h.analysisSvc.Run(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "bad_request",
				Message: err.Error(),
			})
		case errors.Is(err, services.ErrNoValidData):
			c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
				Error:   "no_data",
				Message: err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "internal_error",
				Message: err.Error(),
			})
		}
		return nil, false
	}

	return result, true
}

func knownTable(table string) bool {
	for _, t := range models.ExportTables {
		if t == table {
			return true
		}
	}
	return false
}
