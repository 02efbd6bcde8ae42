package handlers

import (
	"errors"
	"io"
	"net/http"

	"ech-simulator/internal/api/models"
	"ech-simulator/internal/engine"

	"github.com/gin-gonic/gin"
)

// SimulationHandler runs scenarios against the shared engine.
type SimulationHandler struct {
	engine *SharedEngine
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(e *SharedEngine) *SimulationHandler {
	return &SimulationHandler{engine: e}
}

// Simulate handles POST /api/v1/simulate/:id. The body is optional.
func (h *SimulationHandler) Simulate(c *gin.Context) {
	id, ok := scenarioID(c)
	if !ok {
		return
	}
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err.Error())
		return
	}

	var (
		res *engine.SimulationResult
		err error
	)
	h.engine.View(func(e *engine.Engine) { res, err = e.ApplyScenario(id, req.CustomParams) })
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Compare handles POST /api/v1/compare
func (h *SimulationHandler) Compare(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	var (
		res *engine.Comparison
		err error
	)
	h.engine.View(func(e *engine.Engine) { res, err = e.CompareScenarios(req.ScenarioIDs) })
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Sensitivity handles POST /api/v1/sensitivity
func (h *SimulationHandler) Sensitivity(c *gin.Context) {
	var req models.SensitivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	var (
		res *engine.Sensitivity
		err error
	)
	h.engine.View(func(e *engine.Engine) { res, err = e.SensitivityAnalysis(req.ScenarioID, req.Parameter, req.Values) })
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Components handles GET /api/v1/scenarios/:id/components
func (h *SimulationHandler) Components(c *gin.Context) {
	id, ok := scenarioID(c)
	if !ok {
		return
	}

	var (
		res *engine.ComponentsResult
		err error
	)
	h.engine.View(func(e *engine.Engine) { res, err = e.ForecastComponents(id, nil) })
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
