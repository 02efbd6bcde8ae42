package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"sync"

	"ech-simulator/internal/api/models"
	"ech-simulator/internal/engine"

	"github.com/gin-gonic/gin"
)

// SharedEngine serialises forecast config updates against scenario runs.
// Runs hold the read lock so they proceed concurrently.
type SharedEngine struct {
	mu     sync.RWMutex
	engine *engine.Engine
}

// NewSharedEngine wraps e for use by several handlers.
func NewSharedEngine(e *engine.Engine) *SharedEngine {
	return &SharedEngine{engine: e}
}

// View runs fn under the read lock.
func (s *SharedEngine) View(fn func(*engine.Engine)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.engine)
}

// Update runs fn under the write lock.
func (s *SharedEngine) Update(fn func(*engine.Engine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.engine)
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, models.NewError(models.CodeInvalidInput, message))
}

// writeEngineError maps engine errors onto the API error envelope.
func writeEngineError(c *gin.Context, err error) {
	var simErr *engine.SimulationError
	switch {
	case errors.Is(err, engine.ErrNotFound):
		c.JSON(http.StatusNotFound, models.NewError(models.CodeScenarioNotFound, err.Error()))
	case errors.Is(err, engine.ErrInvalidInput):
		badRequest(c, err.Error())
	case errors.Is(err, engine.ErrForecastUnavailable):
		c.JSON(http.StatusServiceUnavailable, models.NewError(models.CodeForecastUnavailable, err.Error()))
	case errors.As(err, &simErr):
		resp := models.NewError(models.CodeSimulationError, simErr.Error())
		resp.Error.Details = map[string]any{"scenario_id": simErr.ScenarioID}
		c.JSON(http.StatusInternalServerError, resp)
	default:
		c.JSON(http.StatusInternalServerError, models.NewError(models.CodeInternal, err.Error()))
	}
}

func scenarioID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c, "scenario id must be an integer")
		return 0, false
	}
	return id, true
}
