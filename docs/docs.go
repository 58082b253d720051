// Package docs registers the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.HealthResponse"}}
                }
            }
        },
        "/analysis": {
            "post": {
                "description": "Fetch price history for the tickers, derive metrics, score anomalies and classify impact per company and sector",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["analysis"],
                "summary": "Run a supply chain resilience analysis",
                "parameters": [
                    {"description": "Analysis parameters", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.AnalysisRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.AnalysisResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/analysis/export/{table}": {
            "post": {
                "description": "Runs the analysis (served from the price cache when possible) and returns a single table as CSV",
                "consumes": ["application/json"],
                "produces": ["text/csv"],
                "tags": ["analysis"],
                "summary": "Export one table of an analysis as CSV",
                "parameters": [
                    {"type": "string", "description": "performance, risk, supply_chain_impact, sector_vulnerability or time_series_data", "name": "table", "in": "path", "required": true},
                    {"description": "Analysis parameters", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.AnalysisRequest"}}
                ],
                "responses": {
                    "200": {"description": "CSV document", "schema": {"type": "string"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.AnalysisRequest": {
            "type": "object",
            "required": ["tickers", "start_date", "end_date"],
            "properties": {
                "tickers": {"type": "string", "example": "NVDA,TSM,F,GM,AAPL,CSCO"},
                "start_date": {"type": "string", "example": "2020-01-01"},
                "end_date": {"type": "string", "example": "2023-12-31"},
                "sensitivity": {"type": "number", "maximum": 0.5, "minimum": 0.1},
                "max_series": {"type": "integer", "maximum": 50, "minimum": 1}
            }
        },
        "models.AnalysisResult": {
            "type": "object",
            "properties": {
                "metadata": {"type": "object"},
                "performance": {"type": "object"},
                "risk": {"type": "object"},
                "supply_chain_impact": {"type": "array", "items": {"type": "object"}},
                "sector_vulnerability": {"type": "array", "items": {"type": "object"}},
                "time_series_data": {"type": "array", "items": {"type": "object"}},
                "companies": {"type": "array", "items": {"type": "string"}},
                "summary": {"type": "object"},
                "warnings": {"type": "array", "items": {"type": "object"}}
            }
        },
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "models.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Riskflow API",
	Description:      "Supply chain resilience analysis over daily equity prices.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
