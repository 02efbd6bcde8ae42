// Package metrics holds the Prometheus collectors for the API and engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all collectors, registered on one registry.
type Metrics struct {
	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	Simulations   *prometheus.CounterVec
	Forecasts     *prometheus.CounterVec
	Fallbacks     *prometheus.CounterVec
	Regenerations *prometheus.CounterVec
}

// New creates and registers all collectors on reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ech_http_requests_total",
				Help: "HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ech_http_request_duration_seconds",
				Help:    "HTTP request latency by method and route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Simulations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ech_simulations_total",
				Help: "Completed scenario runs by effect formula",
			},
			[]string{"logic"},
		),
		Forecasts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ech_forecasts_total",
				Help: "Forecasts produced by model",
			},
			[]string{"model"},
		),
		Fallbacks: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ech_forecast_fallbacks_total",
				Help: "Forecast calls served by the fallback model, by reason",
			},
			[]string{"reason"},
		),
		Regenerations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ech_baseline_regenerations_total",
				Help: "Baseline regenerations by result",
			},
			[]string{"result"},
		),
	}
}

// Simulation counts one simulation run by logic kind.
func (m *Metrics) Simulation(logic string) { m.Simulations.WithLabelValues(logic).Inc() }

// Forecast counts one forecast by model name.
func (m *Metrics) Forecast(model string) { m.Forecasts.WithLabelValues(model).Inc() }

// Fallback counts one switch to the fallback model.
func (m *Metrics) Fallback(reason string) { m.Fallbacks.WithLabelValues(reason).Inc() }

// Regeneration counts a baseline regeneration; result is "ok" or "error".
func (m *Metrics) Regeneration(result string) { m.Regenerations.WithLabelValues(result).Inc() }
