// Package engine runs scenarios end to end: parameter resolution, effect
// formulas, time phasing, metrics and forecasting over an atomically
// swappable baseline.
//
// An Engine's forecast configuration is plain state. Callers that update
// it while other goroutines run scenarios must serialise those calls
// themselves.
package engine

import (
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"

	"ech-simulator/internal/effects"
	"ech-simulator/internal/forecast"
	"ech-simulator/internal/model"
	"ech-simulator/internal/simulate"
)

// Scenarios looks up catalog entries by id.
type Scenarios interface {
	Get(id int) (model.Scenario, bool)
}

// Engine runs scenarios against the current baseline.
type Engine struct {
	scenarios  Scenarios
	baseline   atomic.Pointer[model.Baseline]
	cfg        forecast.Config
	primary    forecast.Forecaster
	forecasts  *forecast.Service
	applicator *simulate.Applicator
	logger     *slog.Logger
	recorder   Recorder
}

// New validates the baseline and probes the primary forecaster once.
func New(scenarios Scenarios, b *model.Baseline, opts ...Option) (*Engine, error) {
	if scenarios == nil {
		return nil, fmt.Errorf("engine: scenarios is nil")
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	e := &Engine{
		scenarios:  scenarios,
		cfg:        forecast.DefaultConfig(),
		primary:    forecast.NewTrendSeasonal(),
		applicator: simulate.New(),
		logger:     slog.Default(),
		recorder:   nopRecorder{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine: forecast config: %w", err)
	}
	e.logger = e.logger.With("component", "engine")
	e.baseline.Store(b)

	e.forecasts = forecast.NewService(e.primary, forecast.NewHeuristic(), e.cfg, e.logger)
	e.forecasts.OnFallback = e.recorder.Fallback
	if e.forecasts.Primary() == nil {
		e.logger.Warn("forecasting with fallback only", "model", forecast.ModelFallback)
	}
	return e, nil
}

// SimulationResult is the full output of one scenario run.
type SimulationResult struct {
	ScenarioID          int                                     `json:"scenario_id"`
	ScenarioName        string                                  `json:"scenario_name"`
	ScenarioCategory    string                                  `json:"scenario_category"`
	ScenarioDescription string                                  `json:"scenario_description"`
	AffectedRegions     []string                                `json:"affected_regions"`
	ParametersUsed      model.ParameterSet                      `json:"parameters_used"`
	IgnoredParameters   []string                                `json:"ignored_parameters,omitempty"`
	PriceEffects        map[model.Region]float64                `json:"price_effects"`
	SimulatedPrices     map[model.Region][]float64              `json:"simulated_prices"`
	BaselinePrices      map[string][]float64                    `json:"baseline_prices"`
	Metrics             map[model.Region]simulate.RegionMetrics `json:"metrics"`
	Forecast            *forecast.Forecast                      `json:"forecast"`
	Dates               []string                                `json:"dates"`
}

// ApplyScenario runs scenario id with optional parameter overrides.
// Overrides for unknown names, or of the wrong kind, are ignored.
func (e *Engine) ApplyScenario(id int, custom map[string]any) (*SimulationResult, error) {
	s, ok := e.scenarios.Get(id)
	if !ok {
		return nil, notFound(id)
	}
	return e.run(s, custom, e.baseline.Load())
}

func (e *Engine) run(s model.Scenario, custom map[string]any, b *model.Baseline) (res *SimulationResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &SimulationError{ScenarioID: s.ID, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	params, ignored := model.Resolve(s.Parameters, custom)
	if len(ignored) > 0 {
		e.logger.Debug("ignored parameter overrides", "scenario", s.ID, "keys", ignored)
	}

	vec := effects.Compute(s.LogicKind(), params)
	sim, err := e.applicator.Run(b, vec, params)
	if err != nil {
		return nil, &SimulationError{ScenarioID: s.ID, Err: err}
	}

	fc, err := e.forecast(b, sim, e.cfg)
	if err != nil {
		return nil, &SimulationError{ScenarioID: s.ID, Err: err}
	}

	e.recorder.Simulation(s.LogicKind().String())
	e.recorder.Forecast(fc.Model)
	e.logger.Debug("scenario applied",
		"scenario", s.ID,
		"logic", s.LogicKind().String(),
		"seed", sim.Seed,
		"model", fc.Model,
	)

	return &SimulationResult{
		ScenarioID:          s.ID,
		ScenarioName:        s.Name,
		ScenarioCategory:    s.Category,
		ScenarioDescription: s.Description,
		AffectedRegions:     s.AffectedRegions,
		ParametersUsed:      params,
		IgnoredParameters:   ignored,
		PriceEffects:        effects.Percent(vec),
		SimulatedPrices:     sim.Simulated,
		BaselinePrices:      b.ClonePrices(),
		Metrics:             simulate.Summarize(b, sim.Simulated),
		Forecast:            fc,
		Dates:               b.Dates,
	}, nil
}

func (e *Engine) forecast(b *model.Baseline, sim *simulate.Result, cfg forecast.Config) (*forecast.Forecast, error) {
	last, err := b.LastDate()
	if err != nil {
		return nil, err
	}
	return e.forecasts.Forecast(forecast.Request{
		Series:    sim.Simulated,
		Regressor: continuation(sim.Window, cfg.HorizonMonths),
		LastDate:  last,
		Config:    cfg,
	})
}

// continuation extends the effect envelope over history and horizon, or
// returns nil when the effect window closes inside the history.
func continuation(w simulate.Window, horizon int) []float64 {
	if !w.Ongoing() {
		return nil
	}
	out := make([]float64, w.Total+horizon)
	for i := range out {
		out[i] = w.Continuation(i)
	}
	return out
}

// ForecastModel names the model that serves forecasts when nothing fails.
func (e *Engine) ForecastModel() string {
	if p := e.forecasts.Primary(); p != nil {
		return p.Name()
	}
	return forecast.ModelFallback
}

// ForecastConfig returns a copy of the current configuration.
func (e *Engine) ForecastConfig() forecast.Config { return e.cfg }

// UpdateForecastConfig applies options to the forecast configuration for
// subsequent calls. Unknown keys and invalid values are skipped with a
// warning and returned sorted.
func (e *Engine) UpdateForecastConfig(options map[string]any) []string {
	next, skipped := e.cfg.With(options)
	keys := make([]string, 0, len(skipped))
	for k := range skipped {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		e.logger.Warn("forecast config option ignored", "key", k, "reason", skipped[k])
	}
	e.cfg = next
	return keys
}

// Baseline returns the baseline currently in use. Callers must not
// modify it.
func (e *Engine) Baseline() *model.Baseline { return e.baseline.Load() }

// ReplaceBaseline validates b and swaps it in. Runs already in flight keep
// the baseline they started with.
func (e *Engine) ReplaceBaseline(b *model.Baseline) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("replace baseline: %w", err)
	}
	e.baseline.Store(b)
	e.logger.Info("baseline replaced", "periods", b.Len())
	return nil
}
