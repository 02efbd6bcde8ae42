package engine

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"ech-simulator/internal/catalog"
	"ech-simulator/internal/forecast"
	"ech-simulator/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBaseline(n int, regions ...model.Region) *model.Baseline {
	if len(regions) == 0 {
		regions = model.CanonicalRegions
	}
	start := time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC)
	b := &model.Baseline{Prices: map[string][]float64{}}
	for i := 0; i < n; i++ {
		b.Dates = append(b.Dates, forecast.AddMonths(start, i).Format(model.DateLayout))
	}
	for k, r := range regions {
		base := 0.5 + 0.1*float64(k)
		s := make([]float64, n)
		for i := range s {
			s[i] = base * (1 + 0.05*math.Sin(2*math.Pi*float64(i)/12) + 0.001*float64(i))
		}
		b.Prices[string(r)] = s
	}
	b.Prices["glycerin"] = make([]float64, n)
	return b
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	e, err := New(cat, testBaseline(60), append([]Option{WithLogger(quiet())}, opts...)...)
	require.NoError(t, err)
	return e
}

type failingForecaster struct{}

func (failingForecaster) Name() string                     { return "failing" }
func (failingForecaster) Coverage(forecast.Config) float64 { return 0.95 }
func (failingForecaster) Forecast(forecast.Input, forecast.Config) (*forecast.RegionForecast, error) {
	return nil, errors.New("fit diverged")
}

type countingRecorder struct {
	simulations []string
	forecasts   []string
	fallbacks   []string
}

func (r *countingRecorder) Simulation(l string) { r.simulations = append(r.simulations, l) }
func (r *countingRecorder) Forecast(m string)   { r.forecasts = append(r.forecasts, m) }
func (r *countingRecorder) Fallback(s string)   { r.fallbacks = append(r.fallbacks, s) }

func assertForecastShape(t *testing.T, fc *forecast.Forecast, horizon int) {
	t.Helper()
	require.NotNil(t, fc)
	assert.Len(t, fc.Dates, horizon)
	assert.Equal(t, "95%", fc.ConfidenceInterval)
	for region, rf := range fc.Regions {
		require.Len(t, rf.Point, horizon, "region %s", region)
		for i := range rf.Point {
			assert.LessOrEqual(t, rf.Lower[i], rf.Point[i], "region %s step %d", region, i)
			assert.LessOrEqual(t, rf.Point[i], rf.Upper[i], "region %s step %d", region, i)
		}
	}
}

func TestApplyScenario_AllScenarios(t *testing.T) {
	e := newEngine(t)
	for id := 1; id <= 16; id++ {
		res, err := e.ApplyScenario(id, nil)
		require.NoError(t, err, "scenario %d", id)

		require.Len(t, res.PriceEffects, 4, "scenario %d", id)
		for _, r := range model.CanonicalRegions {
			v, ok := res.PriceEffects[r]
			assert.True(t, ok)
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "scenario %d region %s", id, r)
		}
		assert.Len(t, res.SimulatedPrices, 4)
		assert.Len(t, res.Metrics, 4)
		assert.Len(t, res.Dates, 60)
		assert.Contains(t, res.BaselinePrices, "glycerin")
		assertForecastShape(t, res.Forecast, 12)
	}
}

func TestApplyScenario_EURegulatory(t *testing.T) {
	e := newEngine(t)
	res, err := e.ApplyScenario(6, nil)
	require.NoError(t, err)

	assert.Equal(t, "EU Regulatory Impact", res.ScenarioName)
	assert.Equal(t, "regulatory", res.ScenarioCategory)
	assert.Equal(t, 35.0, res.PriceEffects[model.RegionEU])
	assert.Equal(t, forecast.ModelTrendSeasonal, res.Forecast.Model)
	assert.Equal(t, "2025-01-31", res.Forecast.Dates[0])
	assert.Greater(t, res.Metrics[model.RegionEU].ChangePercent, 10.0)
}

func TestApplyScenario_Deterministic(t *testing.T) {
	e := newEngine(t)
	a, err := e.ApplyScenario(3, map[string]any{"duration_months": 30})
	require.NoError(t, err)
	b, err := e.ApplyScenario(3, map[string]any{"duration_months": 30.0})
	require.NoError(t, err)

	assert.Equal(t, a.SimulatedPrices, b.SimulatedPrices)
	assert.Equal(t, a.Forecast, b.Forecast)

	c, err := e.ApplyScenario(3, map[string]any{"duration_months": 31})
	require.NoError(t, err)
	assert.NotEqual(t, a.SimulatedPrices, c.SimulatedPrices)
}

func TestApplyScenario_PreStartMatchesBaseline(t *testing.T) {
	e := newEngine(t)
	res, err := e.ApplyScenario(6, nil)
	require.NoError(t, err)

	b := e.Baseline()
	start := b.Len() / 5
	for _, r := range model.CanonicalRegions {
		base, _ := b.Series(r)
		for i := 0; i < start; i++ {
			assert.Equal(t, base[i], res.SimulatedPrices[r][i], "%s[%d]", r, i)
		}
	}
}

func TestApplyScenario_ResultDoesNotAliasBaseline(t *testing.T) {
	e := newEngine(t)
	res, err := e.ApplyScenario(6, nil)
	require.NoError(t, err)

	want := e.Baseline().Prices["eu_ech"][0]
	res.BaselinePrices["eu_ech"][0] = -1
	res.BaselinePrices["extra"] = []float64{1}

	assert.Equal(t, want, e.Baseline().Prices["eu_ech"][0])
	assert.NotContains(t, e.Baseline().Prices, "extra")
}

func TestApplyScenario_Overrides(t *testing.T) {
	e := newEngine(t)

	res, err := e.ApplyScenario(6, map[string]any{"supply_reduction": 0.3})
	require.NoError(t, err)
	assert.Equal(t, 50.0, res.PriceEffects[model.RegionEU])

	res, err = e.ApplyScenario(6, map[string]any{"bogus": 1, "supply_reduction": "high"})
	require.NoError(t, err)
	assert.Equal(t, []string{"bogus", "supply_reduction"}, res.IgnoredParameters)
	assert.Equal(t, 0.15, res.ParametersUsed["supply_reduction"])
	assert.NotContains(t, res.ParametersUsed, "bogus")
	assert.Equal(t, 35.0, res.PriceEffects[model.RegionEU])
}

func TestApplyScenario_NotFound(t *testing.T) {
	e := newEngine(t)
	_, err := e.ApplyScenario(99, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApplyScenario_OngoingEffectUsesRegressor(t *testing.T) {
	e := newEngine(t)
	res, err := e.ApplyScenario(6, map[string]any{"duration_months": 72})
	require.NoError(t, err)
	assert.Equal(t, forecast.ModelTrendSeasonal, res.Forecast.Model)
	assertForecastShape(t, res.Forecast, 12)
}

func TestApplyScenario_MissingRegion(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)
	e, err := New(cat, testBaseline(48, model.RegionUS, model.RegionEU, model.RegionAsia), WithLogger(quiet()))
	require.NoError(t, err)

	res, err := e.ApplyScenario(1, nil)
	require.NoError(t, err)
	assert.Len(t, res.PriceEffects, 4)
	assert.NotContains(t, res.SimulatedPrices, model.RegionChina)
	assert.NotContains(t, res.Metrics, model.RegionChina)
	assert.NotContains(t, res.Forecast.Regions, model.RegionChina)
	assert.Len(t, res.Forecast.Regions, 3)
}

func TestApplyScenario_FallbackWhenPrimaryFails(t *testing.T) {
	rec := &countingRecorder{}
	e := newEngine(t, WithPrimary(failingForecaster{}), WithRecorder(rec))

	res, err := e.ApplyScenario(1, nil)
	require.NoError(t, err)
	assert.Equal(t, forecast.ModelFallback, res.Forecast.Model)
	assertForecastShape(t, res.Forecast, 12)
	assert.Equal(t, []string{"primary_error"}, rec.fallbacks)
	assert.Equal(t, []string{"demand_growth"}, rec.simulations)
	assert.Equal(t, []string{forecast.ModelFallback}, rec.forecasts)
}

func TestApplyScenario_WithoutPrimary(t *testing.T) {
	e := newEngine(t, WithoutPrimary())
	assert.Equal(t, forecast.ModelFallback, e.ForecastModel())
	res, err := e.ApplyScenario(2, nil)
	require.NoError(t, err)
	assert.Equal(t, forecast.ModelFallback, res.Forecast.Model)

	_, err = e.ForecastComponents(2, nil)
	assert.ErrorIs(t, err, ErrForecastUnavailable)
}

func TestCompareScenarios(t *testing.T) {
	e := newEngine(t)

	_, err := e.CompareScenarios(nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = e.CompareScenarios([]int{1, 2, 3, 4, 5, 6})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = e.CompareScenarios([]int{1, 99})
	assert.ErrorIs(t, err, ErrNotFound)

	cmp, err := e.CompareScenarios([]int{1, 6, 8, 11, 16})
	require.NoError(t, err)
	require.Len(t, cmp.Results, 5)
	assert.Equal(t, 6, cmp.Results[1].ScenarioID)
	require.Len(t, cmp.Ranking, 5)
	for i := 1; i < len(cmp.Ranking); i++ {
		assert.GreaterOrEqual(t, cmp.Ranking[i-1].MeanAbsolute, cmp.Ranking[i].MeanAbsolute)
		assert.Equal(t, i+1, cmp.Ranking[i].Rank)
	}
}

func TestSensitivityAnalysis(t *testing.T) {
	e := newEngine(t)

	sens, err := e.SensitivityAnalysis(6, "supply_reduction", []any{0.1, 0.2})
	require.NoError(t, err)
	assert.Equal(t, "supply_reduction", sens.Parameter)
	require.Len(t, sens.Results, 2)
	assert.Equal(t, 0.1, sens.Results[0].Value)
	assert.Equal(t, 30.0, sens.Results[0].PriceEffects[model.RegionEU])
	assert.Equal(t, 40.0, sens.Results[1].PriceEffects[model.RegionEU])
	assert.Len(t, sens.Results[1].Metrics, 4)
}

func TestSensitivityAnalysis_Errors(t *testing.T) {
	e := newEngine(t)

	_, err := e.SensitivityAnalysis(99, "supply_reduction", []any{0.1})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = e.SensitivityAnalysis(6, "", []any{0.1})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = e.SensitivityAnalysis(6, "supply_reduction", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = e.SensitivityAnalysis(6, "nonexistent", []any{0.1})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = e.SensitivityAnalysis(6, "supply_reduction", []any{"lots"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateForecastConfig(t *testing.T) {
	e := newEngine(t)

	ignored := e.UpdateForecastConfig(map[string]any{
		"horizon_months":     6,
		"interval_width":     0.8,
		"weekly_seasonality": true,
	})
	assert.Equal(t, []string{"weekly_seasonality"}, ignored)
	assert.Equal(t, 6, e.ForecastConfig().HorizonMonths)

	res, err := e.ApplyScenario(1, nil)
	require.NoError(t, err)
	assert.Len(t, res.Forecast.Dates, 6)
	assert.Equal(t, "80%", res.Forecast.ConfidenceInterval)
	for _, rf := range res.Forecast.Regions {
		assert.Len(t, rf.Point, 6)
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)
	cfg := forecast.DefaultConfig()
	cfg.IntervalWidth = 2
	_, err = New(cat, testBaseline(24), WithForecastConfig(cfg))
	assert.Error(t, err)

	_, err = New(cat, &model.Baseline{})
	assert.Error(t, err)
}

func TestReplaceBaseline(t *testing.T) {
	e := newEngine(t)

	bad := testBaseline(24)
	bad.Prices[string(model.RegionUS)] = bad.Prices[string(model.RegionUS)][:10]
	require.Error(t, e.ReplaceBaseline(bad))
	assert.Equal(t, 60, e.Baseline().Len())

	require.NoError(t, e.ReplaceBaseline(testBaseline(36)))
	res, err := e.ApplyScenario(1, nil)
	require.NoError(t, err)
	assert.Len(t, res.Dates, 36)
	assert.Len(t, res.SimulatedPrices[model.RegionUS], 36)
}

func TestForecastComponents(t *testing.T) {
	e := newEngine(t)
	c, err := e.ForecastComponents(6, nil)
	require.NoError(t, err)

	assert.Equal(t, forecast.ModelTrendSeasonal, c.Model)
	assert.Len(t, c.Dates, 72)
	require.Len(t, c.Regions, 4)
	for _, rc := range c.Regions {
		assert.Len(t, rc.Fitted, 72)
		assert.Len(t, rc.Trend, 72)
		assert.Len(t, rc.Seasonality, 72)
		assert.Nil(t, rc.Regressor)
	}

	_, err = e.ForecastComponents(99, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}
