// Package forecast projects simulated price series forward.
//
// Two strategies sit behind Forecaster: a regularised trend + seasonality
// regression (primary) and a heuristic mean-reverting extrapolation
// (fallback). Both return the same shape; only the model tag differs.
package forecast

import (
	"errors"
	"fmt"

	"ech-simulator/internal/analysis"
	"ech-simulator/internal/model"
)

// Model tags reported in Forecast.Model.
const (
	ModelTrendSeasonal = "trend_seasonal"
	ModelFallback      = "simple_fallback"
)

var (
	ErrEmptyHistory        = errors.New("forecast: empty history")
	ErrInsufficientHistory = errors.New("forecast: not enough history")
	ErrNonPositive         = errors.New("forecast: non-positive value in multiplicative mode")
	ErrSingular            = errors.New("forecast: singular system")
	ErrNonFinite           = errors.New("forecast: non-finite output")
)

// Input is one region's history and, when the scenario is still active at
// the end of the history, its continuation regressor covering history and
// horizon (len(History)+Horizon values).
type Input struct {
	History   []float64
	Regressor []float64
	Horizon   int
}

// RegionForecast holds per-step projections for one region.
type RegionForecast struct {
	Point       []float64 `json:"point"`
	Lower       []float64 `json:"lower_95"`
	Upper       []float64 `json:"upper_95"`
	Trend       []float64 `json:"trend,omitempty"`
	Seasonality []float64 `json:"seasonality,omitempty"`
}

// Forecast is the engine-level result across regions.
type Forecast struct {
	Regions            map[model.Region]RegionForecast `json:"regions"`
	Dates              []string                        `json:"dates"`
	Model              string                          `json:"model"`
	ConfidenceInterval string                          `json:"confidence_interval"`
}

// Forecaster produces one region's forecast from its history.
type Forecaster interface {
	Name() string
	// Coverage is the nominal interval coverage under cfg, e.g. 0.95.
	Coverage(cfg Config) float64
	Forecast(in Input, cfg Config) (*RegionForecast, error)
}

// Prober is implemented by forecasters that can check their own
// availability before first use.
type Prober interface {
	Probe(cfg Config) error
}

// CoverageLabel formats a coverage fraction as "95%".
func CoverageLabel(c float64) string {
	return fmt.Sprintf("%g%%", analysis.Round(c*100, 2))
}
