package engine

import (
	"log/slog"

	"ech-simulator/internal/forecast"
)

// Recorder receives counters for completed work. The metrics package
// provides the Prometheus implementation.
type Recorder interface {
	Simulation(logic string)
	Forecast(model string)
	Fallback(reason string)
}

type nopRecorder struct{}

func (nopRecorder) Simulation(string) {}
func (nopRecorder) Forecast(string)   {}
func (nopRecorder) Fallback(string)   {}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithForecastConfig sets the initial forecast configuration. An invalid
// config is rejected by New.
func WithForecastConfig(c forecast.Config) Option {
	return func(e *Engine) { e.cfg = c }
}

// WithPrimary replaces the default primary forecaster.
func WithPrimary(f forecast.Forecaster) Option {
	return func(e *Engine) { e.primary = f }
}

// WithoutPrimary forces every forecast through the fallback.
func WithoutPrimary() Option {
	return func(e *Engine) { e.primary = nil }
}

// WithRecorder reports runs, forecasts and fallbacks to r.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.recorder = r
		}
	}
}
