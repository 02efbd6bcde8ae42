package handlers

import (
	"fmt"
	"net/http"

	"ech-simulator/internal/api/models"
	"ech-simulator/internal/catalog"
	"ech-simulator/internal/model"

	"github.com/gin-gonic/gin"
)

// ScenarioHandler serves the read-only scenario catalog.
type ScenarioHandler struct {
	catalog *catalog.Catalog
}

// NewScenarioHandler creates a new scenario handler
func NewScenarioHandler(c *catalog.Catalog) *ScenarioHandler {
	return &ScenarioHandler{catalog: c}
}

// ListScenarios handles GET /api/v1/scenarios
func (h *ScenarioHandler) ListScenarios(c *gin.Context) {
	var list []model.Scenario
	if category := c.Query("category"); category != "" {
		list = h.catalog.ByCategory(category)
	} else {
		list = h.catalog.All()
	}
	if list == nil {
		list = []model.Scenario{}
	}
	c.JSON(http.StatusOK, models.ScenarioListResponse{Count: len(list), Scenarios: list})
}

// GetScenario handles GET /api/v1/scenarios/:id
func (h *ScenarioHandler) GetScenario(c *gin.Context) {
	id, ok := scenarioID(c)
	if !ok {
		return
	}
	s, found := h.catalog.Get(id)
	if !found {
		c.JSON(http.StatusNotFound, models.NewError(models.CodeScenarioNotFound, fmt.Sprintf("scenario %d not found", id)))
		return
	}
	c.JSON(http.StatusOK, s)
}

// ListCategories handles GET /api/v1/categories
func (h *ScenarioHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, models.CategoriesResponse{Categories: h.catalog.Categories()})
}
