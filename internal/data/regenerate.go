package data

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"ech-simulator/internal/model"
)

// Regenerator rebuilds the synthetic baseline, persists it and hands it to
// Swap. Calls are serialised so the file and the live baseline agree.
type Regenerator struct {
	Path string
	Swap func(*model.Baseline) error
	// OnResult, when set, receives "ok" or "error" after each attempt.
	OnResult func(result string)
	Logger   *slog.Logger

	mu sync.Mutex
}

// Regenerate builds a baseline of periods months from start, writes it to
// Path and hands it to Swap. A rejected swap leaves the file untouched.
func (r *Regenerator) Regenerate(start time.Time, periods int) (*model.Baseline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, err := r.regenerate(start, periods)
	result := "ok"
	if err != nil {
		result = "error"
	}
	if r.OnResult != nil {
		r.OnResult(result)
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if err != nil {
		logger.Error("baseline regeneration failed", "error", err)
		return nil, err
	}
	logger.Info("baseline regenerated", "start", b.Metadata.StartDate, "periods", b.Len(), "path", r.Path)
	return b, nil
}

func (r *Regenerator) regenerate(start time.Time, periods int) (*model.Baseline, error) {
	b, err := NewGenerator(start, periods).Generate()
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	// Stage the file first so a rejected swap leaves the old one in place.
	var tmp string
	if r.Path != "" {
		if tmp, err = stageBaseline(b, r.Path); err != nil {
			return nil, err
		}
	}
	if r.Swap != nil {
		if err := r.Swap(b); err != nil {
			if tmp != "" {
				_ = os.Remove(tmp)
			}
			return nil, fmt.Errorf("swap: %w", err)
		}
	}
	if tmp != "" {
		if err := commitBaseline(tmp, r.Path); err != nil {
			return nil, err
		}
	}
	return b, nil
}
