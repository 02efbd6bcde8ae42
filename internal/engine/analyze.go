package engine

import (
	"fmt"

	"ech-simulator/internal/analysis"
	"ech-simulator/internal/forecast"
	"ech-simulator/internal/model"
	"ech-simulator/internal/simulate"
)

// MaxCompare bounds one CompareScenarios call.
const MaxCompare = 5

// Comparison is the result of CompareScenarios.
type Comparison struct {
	Results []*SimulationResult     `json:"results"`
	Ranking []analysis.RankedImpact `json:"ranking"`
}

// CompareScenarios runs each id against the same baseline snapshot and
// ranks them by mean absolute change. Any unknown id fails the call.
func (e *Engine) CompareScenarios(ids []int) (*Comparison, error) {
	if len(ids) == 0 {
		return nil, invalid("scenario_ids is required")
	}
	if len(ids) > MaxCompare {
		return nil, invalid("at most %d scenarios can be compared, got %d", MaxCompare, len(ids))
	}

	scenarios := make([]model.Scenario, len(ids))
	for i, id := range ids {
		s, ok := e.scenarios.Get(id)
		if !ok {
			return nil, notFound(id)
		}
		scenarios[i] = s
	}

	b := e.baseline.Load()
	out := &Comparison{Results: make([]*SimulationResult, 0, len(ids))}
	impacts := make([]analysis.Impact, 0, len(ids))
	for _, s := range scenarios {
		res, err := e.run(s, nil, b)
		if err != nil {
			return nil, err
		}
		out.Results = append(out.Results, res)

		changes := make(map[string]float64, len(res.Metrics))
		for region, m := range res.Metrics {
			changes[string(region)] = m.ChangePercent
		}
		impacts = append(impacts, analysis.Impact{ScenarioID: s.ID, ScenarioName: s.Name, Changes: changes})
	}
	out.Ranking = analysis.RankByImpact(impacts)
	return out, nil
}

// SensitivityPoint is the outcome for one swept value.
type SensitivityPoint struct {
	Value        any                                     `json:"value"`
	PriceEffects map[model.Region]float64                `json:"price_effects"`
	Metrics      map[model.Region]simulate.RegionMetrics `json:"metrics"`
}

// Sensitivity is the result of SensitivityAnalysis.
type Sensitivity struct {
	ScenarioID   int                `json:"scenario_id"`
	ScenarioName string             `json:"scenario_name"`
	Parameter    string             `json:"parameter"`
	Results      []SensitivityPoint `json:"results"`
}

// SensitivityAnalysis re-runs scenario id once per value of parameter,
// holding every other parameter at its default.
func (e *Engine) SensitivityAnalysis(id int, parameter string, values []any) (*Sensitivity, error) {
	s, ok := e.scenarios.Get(id)
	if !ok {
		return nil, notFound(id)
	}
	if parameter == "" {
		return nil, invalid("parameter is required")
	}
	if len(values) == 0 {
		return nil, invalid("values is required")
	}
	if !s.Parameters.Has(parameter) {
		return nil, invalid("scenario %d has no parameter %q", id, parameter)
	}

	b := e.baseline.Load()
	out := &Sensitivity{
		ScenarioID:   s.ID,
		ScenarioName: s.Name,
		Parameter:    parameter,
		Results:      make([]SensitivityPoint, 0, len(values)),
	}
	for i, v := range values {
		override := map[string]any{parameter: v}
		if _, ignored := model.Resolve(s.Parameters, override); len(ignored) > 0 {
			return nil, invalid("value %d (%v) does not fit parameter %q", i, v, parameter)
		}
		res, err := e.run(s, override, b)
		if err != nil {
			return nil, err
		}
		out.Results = append(out.Results, SensitivityPoint{
			Value:        res.ParametersUsed[parameter],
			PriceEffects: res.PriceEffects,
			Metrics:      res.Metrics,
		})
	}
	return out, nil
}

// Decomposer exposes a model's fitted components over history and horizon.
type Decomposer interface {
	Decompose(in forecast.Input, cfg forecast.Config) (*forecast.Components, error)
}

// ComponentsResult holds fitted components per region over history and horizon.
type ComponentsResult struct {
	ScenarioID int                                   `json:"scenario_id"`
	Model      string                                `json:"model"`
	Dates      []string                              `json:"dates"`
	Regions    map[model.Region]*forecast.Components `json:"regions"`
}

// ForecastComponents re-runs the scenario and decomposes each region's
// simulated series with the primary model. It fails with
// ErrForecastUnavailable when no decomposable primary is in use.
func (e *Engine) ForecastComponents(id int, custom map[string]any) (*ComponentsResult, error) {
	s, ok := e.scenarios.Get(id)
	if !ok {
		return nil, notFound(id)
	}
	d, ok := e.forecasts.Primary().(Decomposer)
	if !ok {
		return nil, ErrForecastUnavailable
	}

	b := e.baseline.Load()
	res, err := e.run(s, custom, b)
	if err != nil {
		return nil, err
	}
	last, err := b.LastDate()
	if err != nil {
		return nil, &SimulationError{ScenarioID: id, Err: err}
	}

	params := res.ParametersUsed
	w := simulate.NewWindow(b.Len(), params.Float("duration_months", 12))
	cfg := e.cfg
	reg := continuation(w, cfg.HorizonMonths)

	out := &ComponentsResult{
		ScenarioID: id,
		Model:      e.forecasts.Primary().Name(),
		Dates:      append(append([]string(nil), b.Dates...), forecast.FutureDates(last, cfg.HorizonMonths)...),
		Regions:    make(map[model.Region]*forecast.Components, len(res.SimulatedPrices)),
	}
	for _, region := range model.CanonicalRegions {
		hist, ok := res.SimulatedPrices[region]
		if !ok {
			continue
		}
		c, err := d.Decompose(forecast.Input{History: hist, Regressor: reg, Horizon: cfg.HorizonMonths}, cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %v", region, ErrForecastUnavailable, err)
		}
		out.Regions[region] = c
	}
	return out, nil
}
