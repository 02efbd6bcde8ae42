package handlers

import (
	"net/http"

	"ech-simulator/internal/api/models"
	"ech-simulator/internal/engine"

	"github.com/gin-gonic/gin"
)

// ForecastHandler handles forecast configuration requests
type ForecastHandler struct {
	engine *SharedEngine
}

// NewForecastHandler creates a new forecast handler
func NewForecastHandler(e *SharedEngine) *ForecastHandler {
	return &ForecastHandler{engine: e}
}

// GetConfig handles GET /api/v1/forecast/config
func (h *ForecastHandler) GetConfig(c *gin.Context) {
	var resp models.ForecastConfigResponse
	h.engine.View(func(e *engine.Engine) { resp.Config = e.ForecastConfig() })
	c.JSON(http.StatusOK, resp)
}

// UpdateConfig handles PATCH /api/v1/forecast/config. Unknown or invalid
// options are reported back in "ignored" rather than failing the request.
func (h *ForecastHandler) UpdateConfig(c *gin.Context) {
	var options map[string]any
	if err := c.ShouldBindJSON(&options); err != nil {
		badRequest(c, err.Error())
		return
	}

	var resp models.ForecastConfigResponse
	h.engine.Update(func(e *engine.Engine) {
		resp.Ignored = e.UpdateForecastConfig(options)
		resp.Config = e.ForecastConfig()
	})
	c.JSON(http.StatusOK, resp)
}
