package engine

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("scenario not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrForecastUnavailable = errors.New("forecast model unavailable")
)

// SimulationError wraps any failure inside a scenario run. No partial
// result accompanies it.
type SimulationError struct {
	ScenarioID int
	Err        error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("simulate scenario %d: %v", e.ScenarioID, e.Err)
}

func (e *SimulationError) Unwrap() error { return e.Err }

func notFound(id int) error {
	return fmt.Errorf("scenario %d: %w", id, ErrNotFound)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
