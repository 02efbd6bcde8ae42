package models

// SimulateRequest is the optional body of POST /api/v1/simulate/:id.
type SimulateRequest struct {
	CustomParams map[string]any `json:"custom_params,omitempty"`
}

// CompareRequest is the body of POST /api/v1/compare. Size limits are
// enforced by the engine so the error text is the same everywhere.
type CompareRequest struct {
	ScenarioIDs []int `json:"scenario_ids"`
}

// SensitivityRequest is the body of POST /api/v1/sensitivity.
type SensitivityRequest struct {
	ScenarioID int    `json:"scenario_id" binding:"required"`
	Parameter  string `json:"parameter" binding:"required"`
	Values     []any  `json:"values" binding:"required,min=1"`
}

// RegenerateRequest is the optional body of POST /api/v1/regenerate.
type RegenerateRequest struct {
	StartDate string `json:"start_date,omitempty" binding:"omitempty,datetime=2006-01-02"` // YYYY-MM-DD
	Periods   int    `json:"periods,omitempty" binding:"omitempty,min=24,max=240"`
}
