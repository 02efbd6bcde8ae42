// Package app assembles the simulator from configuration: catalog,
// baseline, engine and the regenerator that keeps them in step.
package app

import (
	"fmt"
	"log/slog"
	"time"

	"ech-simulator/internal/catalog"
	"ech-simulator/internal/config"
	"ech-simulator/internal/data"
	"ech-simulator/internal/engine"
	"ech-simulator/internal/metrics"
	"ech-simulator/internal/model"

	"github.com/prometheus/client_golang/prometheus"
)

// App holds the assembled services of one process.
type App struct {
	Config      *config.Config
	Catalog     *catalog.Catalog
	Engine      *engine.Engine
	Regenerator *data.Regenerator
	// Metrics is nil when New was given no registerer.
	Metrics *metrics.Metrics
	Logger  *slog.Logger

	start time.Time
}

// New builds an App. The baseline file is generated when missing. reg may
// be nil to run without Prometheus collectors.
func New(cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cat, err := loadCatalog(cfg.Data.CatalogFile)
	if err != nil {
		return nil, err
	}

	start, err := time.Parse(model.DateLayout, cfg.Data.StartDate)
	if err != nil {
		return nil, fmt.Errorf("app: start date: %w", err)
	}
	b, generated, err := data.LoadOrGenerate(cfg.Data.BaselinePath, data.NewGenerator(start, cfg.Data.Periods))
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	if generated {
		logger.Info("baseline generated", "path", cfg.Data.BaselinePath, "periods", b.Len())
	} else {
		logger.Info("baseline loaded", "path", cfg.Data.BaselinePath, "periods", b.Len())
	}

	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithForecastConfig(cfg.Forecast.ToEngine()),
	}
	if !cfg.Forecast.Primary {
		opts = append(opts, engine.WithoutPrimary())
	}
	var m *metrics.Metrics
	if reg != nil {
		m = metrics.New(reg)
		opts = append(opts, engine.WithRecorder(m))
	}

	eng, err := engine.New(cat, b, opts...)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	regen := &data.Regenerator{
		Path:   cfg.Data.BaselinePath,
		Swap:   eng.ReplaceBaseline,
		Logger: logger,
	}
	if m != nil {
		regen.OnResult = m.Regeneration
	}

	return &App{
		Config:      cfg,
		Catalog:     cat,
		Engine:      eng,
		Regenerator: regen,
		Metrics:     m,
		Logger:      logger,
		start:       start,
	}, nil
}

// StartDate is the configured first period used for regeneration.
func (a *App) StartDate() time.Time { return a.start }

// RegenerateDefault rebuilds the baseline from the configured start and
// period count.
func (a *App) RegenerateDefault() error {
	_, err := a.Regenerator.Regenerate(a.start, a.Config.Data.Periods)
	return err
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		c, err := catalog.Default()
		if err != nil {
			return nil, fmt.Errorf("app: catalog: %w", err)
		}
		return c, nil
	}
	c, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("app: catalog %q: %w", path, err)
	}
	return c, nil
}
