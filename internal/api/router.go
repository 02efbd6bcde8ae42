// Package api wires the HTTP surface of the simulator onto gin.
package api

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ech-simulator/internal/api/handlers"
	"ech-simulator/internal/api/middleware"
	"ech-simulator/internal/api/models"
	"ech-simulator/internal/catalog"
	"ech-simulator/internal/config"
	"ech-simulator/internal/data"
	"ech-simulator/internal/engine"
	"ech-simulator/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the collaborators the router serves. Metrics, Gatherer and
// Regenerator are optional.
type Deps struct {
	Engine      *engine.Engine
	Catalog     *catalog.Catalog
	Regenerator *data.Regenerator
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer
	Logger      *slog.Logger
	Server      config.ServerConfig

	// Regeneration defaults.
	StartDate time.Time
	Periods   int
}

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(d Deps) *gin.Engine {
	if d.Server.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "api")

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS(d.Server.AllowedOrigins))
	if d.Metrics != nil {
		router.Use(middleware.Metrics(d.Metrics))
	}

	shared := handlers.NewSharedEngine(d.Engine)
	scenarioHandler := handlers.NewScenarioHandler(d.Catalog)
	simulationHandler := handlers.NewSimulationHandler(shared)
	forecastHandler := handlers.NewForecastHandler(shared)
	baselineHandler := handlers.NewBaselineHandler(d.Engine.Baseline, d.Regenerator, d.StartDate, d.Periods)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{
			Status:        "ok",
			Message:       "ECH scenario simulator",
			ForecastModel: d.Engine.ForecastModel(),
			Periods:       d.Engine.Baseline().Len(),
		})
	})
	if d.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api/v1")
	if d.Server.RateLimit > 0 {
		api.Use(middleware.NewRateLimiter(d.Server.RateLimit, d.Server.RateBurst).Middleware())
	}
	{
		api.GET("/scenarios", scenarioHandler.ListScenarios)
		api.GET("/scenarios/:id", scenarioHandler.GetScenario)
		api.GET("/scenarios/:id/components", simulationHandler.Components)
		api.GET("/categories", scenarioHandler.ListCategories)

		api.POST("/simulate/:id", simulationHandler.Simulate)
		api.POST("/compare", simulationHandler.Compare)
		api.POST("/sensitivity", simulationHandler.Sensitivity)

		api.GET("/forecast/config", forecastHandler.GetConfig)
		api.PATCH("/forecast/config", forecastHandler.UpdateConfig)

		api.GET("/baseline", baselineHandler.GetBaseline)
		api.GET("/prices", baselineHandler.GetPrices)
		api.POST("/regenerate", baselineHandler.Regenerate)
	}

	serveStatic(router, d.Server.StaticDir, logger)
	return router
}

// serveStatic serves the built frontend when staticDir exists. Unknown
// paths under /api always get a JSON 404.
func serveStatic(router *gin.Engine, staticDir string, logger *slog.Logger) {
	_, err := os.Stat(staticDir)
	hasStatic := staticDir != "" && err == nil
	if hasStatic {
		router.Static("/assets", filepath.Join(staticDir, "assets"))
		router.StaticFile("/favicon.ico", filepath.Join(staticDir, "favicon.ico"))
		logger.Info("serving static files", "dir", staticDir)
	} else {
		logger.Info("static directory not found, skipping static file serving", "dir", staticDir)
	}

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") || !hasStatic {
			c.JSON(http.StatusNotFound, models.NewError(models.CodeNotFound, "Not found"))
			return
		}
		c.File(filepath.Join(staticDir, "index.html"))
	})
}
