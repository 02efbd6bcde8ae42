package models

import (
	"ech-simulator/internal/forecast"
	"ech-simulator/internal/model"
)

// Error codes carried in ErrorDetail.Code.
const (
	CodeInvalidInput        = "INVALID_INPUT"
	CodeScenarioNotFound    = "SCENARIO_NOT_FOUND"
	CodeSimulationError     = "SIMULATION_ERROR"
	CodeForecastUnavailable = "FORECAST_UNAVAILABLE"
	CodeRegenerateFailed    = "REGENERATE_FAILED"
	CodeRateLimited         = "RATE_LIMITED"
	CodeNotFound            = "NOT_FOUND"
	CodeInternal            = "INTERNAL_ERROR"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// NewError builds an error envelope without details.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// HealthResponse represents the /health payload
type HealthResponse struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	ForecastModel string `json:"forecast_model"`
	Periods       int    `json:"periods"`
}

// ScenarioListResponse represents a list of scenarios
type ScenarioListResponse struct {
	Count     int              `json:"count"`
	Scenarios []model.Scenario `json:"scenarios"`
}

type CategoriesResponse struct {
	Categories map[string]int `json:"categories"`
}

type PricesResponse struct {
	Dates  []string             `json:"dates"`
	Prices map[string][]float64 `json:"prices"`
}

// RegenerateResponse reports the metadata of a fresh baseline
type RegenerateResponse struct {
	Status   string                 `json:"status"`
	Metadata model.BaselineMetadata `json:"metadata"`
}

// ForecastConfigResponse answers both GET and PATCH of the forecast config.
// Ignored lists option keys a PATCH skipped.
type ForecastConfigResponse struct {
	Config  forecast.Config `json:"config"`
	Ignored []string        `json:"ignored,omitempty"`
}
