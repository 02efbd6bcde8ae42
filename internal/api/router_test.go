package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ech-simulator/internal/api/middleware"
	"ech-simulator/internal/api/models"
	"ech-simulator/internal/catalog"
	"ech-simulator/internal/config"
	"ech-simulator/internal/data"
	"ech-simulator/internal/engine"
	"ech-simulator/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

type testServer struct {
	router *gin.Engine
	engine *engine.Engine
}

func newTestServer(t *testing.T, mutate func(*Deps)) *testServer {
	t.Helper()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	b, err := data.NewGenerator(start, 36).Generate()
	require.NoError(t, err)
	cat, err := catalog.Default()
	require.NoError(t, err)
	eng, err := engine.New(cat, b, engine.WithLogger(quiet))
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	server := config.Default().Server
	server.StaticDir = ""
	server.RateLimit = 0

	d := Deps{
		Engine:  eng,
		Catalog: cat,
		Regenerator: &data.Regenerator{
			Path:   filepath.Join(t.TempDir(), "baseline.json"),
			Swap:   eng.ReplaceBaseline,
			Logger: quiet,
		},
		Metrics:   metrics.New(reg),
		Gatherer:  reg,
		Logger:    quiet,
		Server:    server,
		StartDate: start,
		Periods:   36,
	}
	if mutate != nil {
		mutate(&d)
	}
	return &testServer{router: NewRouter(d), engine: eng}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func assertErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	assert.Equal(t, status, w.Code, w.Body.String())
	assert.Equal(t, code, decode[models.ErrorResponse](t, w).Error.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	h := decode[models.HealthResponse](t, w)
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, "trend_seasonal", h.ForecastModel)
	assert.Equal(t, 36, h.Periods)
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(middleware.RequestIDHeader))
}

func TestScenarios(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/api/v1/scenarios", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 16, decode[models.ScenarioListResponse](t, w).Count)

	w = s.do(t, http.MethodGet, "/api/v1/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cats := decode[models.CategoriesResponse](t, w).Categories
	require.NotEmpty(t, cats)
	for name, n := range cats {
		w = s.do(t, http.MethodGet, "/api/v1/scenarios?category="+url.QueryEscape(name), nil)
		assert.Equal(t, n, decode[models.ScenarioListResponse](t, w).Count, name)
	}

	w = s.do(t, http.MethodGet, "/api/v1/scenarios?category=nope", nil)
	assert.Equal(t, 0, decode[models.ScenarioListResponse](t, w).Count)

	w = s.do(t, http.MethodGet, "/api/v1/scenarios/6", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(6), decode[map[string]any](t, w)["id"])

	assertErrorCode(t, s.do(t, http.MethodGet, "/api/v1/scenarios/999", nil), http.StatusNotFound, models.CodeScenarioNotFound)
	assertErrorCode(t, s.do(t, http.MethodGet, "/api/v1/scenarios/abc", nil), http.StatusBadRequest, models.CodeInvalidInput)
}

func TestSimulate(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/v1/simulate/6", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[engine.SimulationResult](t, w)
	assert.Equal(t, 6, res.ScenarioID)
	assert.Equal(t, 35.0, res.PriceEffects["eu_ech"])
	assert.Len(t, res.Dates, 36)

	w = s.do(t, http.MethodPost, "/api/v1/simulate/6", models.SimulateRequest{
		CustomParams: map[string]any{"supply_reduction": 0.3},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 50.0, decode[engine.SimulationResult](t, w).PriceEffects["eu_ech"])

	assertErrorCode(t, s.do(t, http.MethodPost, "/api/v1/simulate/999", nil), http.StatusNotFound, models.CodeScenarioNotFound)
}

func TestCompare(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/v1/compare", models.CompareRequest{ScenarioIDs: []int{1, 6}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cmp := decode[engine.Comparison](t, w)
	assert.Len(t, cmp.Results, 2)
	assert.Len(t, cmp.Ranking, 2)

	assertErrorCode(t, s.do(t, http.MethodPost, "/api/v1/compare", models.CompareRequest{}), http.StatusBadRequest, models.CodeInvalidInput)
	assertErrorCode(t, s.do(t, http.MethodPost, "/api/v1/compare",
		models.CompareRequest{ScenarioIDs: []int{1, 2, 3, 4, 5, 6}}), http.StatusBadRequest, models.CodeInvalidInput)
	assertErrorCode(t, s.do(t, http.MethodPost, "/api/v1/compare",
		models.CompareRequest{ScenarioIDs: []int{1, 99}}), http.StatusNotFound, models.CodeScenarioNotFound)
}

func TestSensitivity(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/v1/sensitivity", models.SensitivityRequest{
		ScenarioID: 6, Parameter: "supply_reduction", Values: []any{0.1, 0.2},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	sens := decode[engine.Sensitivity](t, w)
	require.Len(t, sens.Results, 2)
	assert.Equal(t, 40.0, sens.Results[1].PriceEffects["eu_ech"])

	assertErrorCode(t, s.do(t, http.MethodPost, "/api/v1/sensitivity", map[string]any{"scenario_id": 6}),
		http.StatusBadRequest, models.CodeInvalidInput)
	assertErrorCode(t, s.do(t, http.MethodPost, "/api/v1/sensitivity", models.SensitivityRequest{
		ScenarioID: 6, Parameter: "nonexistent", Values: []any{0.1},
	}), http.StatusBadRequest, models.CodeInvalidInput)
}

func TestComponents(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(t, http.MethodGet, "/api/v1/scenarios/6/components", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[engine.ComponentsResult](t, w)
	assert.Equal(t, "trend_seasonal", res.Model)
	assert.Len(t, res.Dates, 48)
	assert.Len(t, res.Regions, 4)
}

func TestComponents_Unavailable(t *testing.T) {
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := newTestServer(t, func(d *Deps) {
		eng, err := engine.New(d.Catalog, d.Engine.Baseline(), engine.WithoutPrimary(), engine.WithLogger(quiet))
		require.NoError(t, err)
		d.Engine = eng
	})
	assertErrorCode(t, s.do(t, http.MethodGet, "/api/v1/scenarios/6/components", nil),
		http.StatusServiceUnavailable, models.CodeForecastUnavailable)
}

func TestForecastConfig(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPatch, "/api/v1/forecast/config", map[string]any{"horizon_months": 6, "bogus": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[models.ForecastConfigResponse](t, w)
	assert.Equal(t, 6, resp.Config.HorizonMonths)
	assert.Equal(t, []string{"bogus"}, resp.Ignored)

	w = s.do(t, http.MethodGet, "/api/v1/forecast/config", nil)
	assert.Equal(t, 6, decode[models.ForecastConfigResponse](t, w).Config.HorizonMonths)

	w = s.do(t, http.MethodPost, "/api/v1/simulate/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[engine.SimulationResult](t, w).Forecast.Dates, 6)
}

func TestBaselineAndPrices(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodGet, "/api/v1/baseline", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[map[string]any](t, w)["dates"], 36)

	w = s.do(t, http.MethodGet, "/api/v1/prices?region=eu&type=ech", nil)
	require.Equal(t, http.StatusOK, w.Code)
	prices := decode[models.PricesResponse](t, w)
	assert.Len(t, prices.Dates, 36)
	assert.Len(t, prices.Prices, 1)
	assert.Contains(t, prices.Prices, "eu_ech")
}

func TestRegenerate(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/v1/regenerate", models.RegenerateRequest{StartDate: "2021-01-01", Periods: 24})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[models.RegenerateResponse](t, w)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 24, resp.Metadata.Periods)
	assert.Equal(t, 24, s.engine.Baseline().Len())
	assert.Equal(t, "2021-01-31", s.engine.Baseline().Dates[0])

	w = s.do(t, http.MethodPost, "/api/v1/regenerate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 36, s.engine.Baseline().Len())

	assertErrorCode(t, s.do(t, http.MethodPost, "/api/v1/regenerate", models.RegenerateRequest{Periods: 10}),
		http.StatusBadRequest, models.CodeInvalidInput)
	assertErrorCode(t, s.do(t, http.MethodPost, "/api/v1/regenerate", models.RegenerateRequest{StartDate: "01/02/2021"}),
		http.StatusBadRequest, models.CodeInvalidInput)
}

func TestUnknownAPIRoute(t *testing.T) {
	s := newTestServer(t, nil)
	assertErrorCode(t, s.do(t, http.MethodGet, "/api/v1/nope", nil), http.StatusNotFound, models.CodeNotFound)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, func(d *Deps) {
		d.Server.RateLimit = 0.001
		d.Server.RateBurst = 1
	})
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/categories", nil).Code)
	assertErrorCode(t, s.do(t, http.MethodGet, "/api/v1/categories", nil), http.StatusTooManyRequests, models.CodeRateLimited)

	// health is outside the limited group
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", nil).Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/compare", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	s.do(t, http.MethodPost, "/api/v1/simulate/6", nil)

	w := s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "ech_http_requests_total"), body)
	assert.True(t, strings.Contains(body, `route="/api/v1/simulate/:id"`), body)
}
