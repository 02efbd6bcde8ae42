package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"ech-simulator/internal/api/models"
	"ech-simulator/internal/data"
	"ech-simulator/internal/model"

	"github.com/gin-gonic/gin"
)

// BaselineHandler exposes the baseline series and regenerates them.
type BaselineHandler struct {
	baseline    func() *model.Baseline
	regenerator *data.Regenerator
	start       time.Time
	periods     int
}

// NewBaselineHandler serves the baseline returned by current. start and
// periods are the regeneration defaults.
func NewBaselineHandler(current func() *model.Baseline, r *data.Regenerator, start time.Time, periods int) *BaselineHandler {
	return &BaselineHandler{baseline: current, regenerator: r, start: start, periods: periods}
}

// GetBaseline handles GET /api/v1/baseline
func (h *BaselineHandler) GetBaseline(c *gin.Context) {
	c.JSON(http.StatusOK, h.baseline())
}

// GetPrices handles GET /api/v1/prices?region=&type=
func (h *BaselineHandler) GetPrices(c *gin.Context) {
	b := h.baseline()
	c.JSON(http.StatusOK, models.PricesResponse{
		Dates:  b.Dates,
		Prices: data.FilterPrices(b.Prices, c.Query("region"), c.Query("type")),
	})
}

// Regenerate handles POST /api/v1/regenerate
func (h *BaselineHandler) Regenerate(c *gin.Context) {
	if h.regenerator == nil {
		c.JSON(http.StatusServiceUnavailable, models.NewError(models.CodeRegenerateFailed, "regeneration is not configured"))
		return
	}
	var req models.RegenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err.Error())
		return
	}

	start, periods := h.start, h.periods
	if req.StartDate != "" {
		t, err := time.Parse(model.DateLayout, req.StartDate)
		if err != nil {
			badRequest(c, "start_date must be YYYY-MM-DD")
			return
		}
		start = t
	}
	if req.Periods != 0 {
		periods = req.Periods
	}

	b, err := h.regenerator.Regenerate(start, periods)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.NewError(models.CodeRegenerateFailed, err.Error()))
		return
	}
	c.JSON(http.StatusOK, models.RegenerateResponse{Status: "ok", Metadata: b.Metadata})
}
