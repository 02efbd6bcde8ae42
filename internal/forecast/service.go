package forecast

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ech-simulator/internal/model"
)

// Service runs a primary forecaster and substitutes the fallback for the
// whole call when the primary is absent or fails on any region. A failed
// call does not demote the primary for later calls.
type Service struct {
	primary  Forecaster
	fallback Forecaster
	logger   *slog.Logger

	// OnFallback, when set, is told why a call fell back.
	OnFallback func(reason string)
}

// NewService probes primary under cfg. A primary that fails its probe is
// dropped and every call uses fallback. primary may be nil.
func NewService(primary, fallback Forecaster, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if fallback == nil {
		fallback = NewHeuristic()
	}
	if primary != nil {
		if p, ok := primary.(Prober); ok {
			if err := p.Probe(cfg); err != nil {
				logger.Warn("primary forecaster unavailable", "model", primary.Name(), "error", err)
				primary = nil
			}
		}
	}
	return &Service{primary: primary, fallback: fallback, logger: logger}
}

// Primary returns the primary forecaster, or nil when none is in use.
func (s *Service) Primary() Forecaster { return s.primary }

// Request is one call's regional histories and shared context.
type Request struct {
	Series map[model.Region][]float64
	// Regressor is shared by every region; nil when the scenario ends
	// inside the history.
	Regressor []float64
	LastDate  time.Time
	Config    Config
}

// Forecast projects every region in req and never fails unless the
// fallback itself does.
func (s *Service) Forecast(req Request) (*Forecast, error) {
	h := req.Config.HorizonMonths
	dates := FutureDates(req.LastDate, h)

	if s.primary != nil {
		out, err := s.run(s.primary, req)
		if err == nil {
			return s.wrap(s.primary, out, dates, req.Config), nil
		}
		s.logger.Warn("primary forecast failed, using fallback", "model", s.primary.Name(), "error", err)
		s.notify("primary_error")
	} else {
		s.notify("primary_unavailable")
	}

	out, err := s.run(s.fallback, req)
	if err != nil {
		return nil, fmt.Errorf("fallback forecast: %w", err)
	}
	return s.wrap(s.fallback, out, dates, req.Config), nil
}

func (s *Service) run(f Forecaster, req Request) (out map[model.Region]RegionForecast, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", f.Name(), r)
		}
	}()

	out = make(map[model.Region]RegionForecast, len(req.Series))
	for _, region := range model.CanonicalRegions {
		hist, ok := req.Series[region]
		if !ok {
			continue
		}
		rf, err := f.Forecast(Input{History: hist, Regressor: req.Regressor, Horizon: req.Config.HorizonMonths}, req.Config)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", region, err)
		}
		if err := checkShape(rf, req.Config.HorizonMonths); err != nil {
			return nil, fmt.Errorf("%s: %w", region, err)
		}
		out[region] = *rf
	}
	return out, nil
}

func (s *Service) wrap(f Forecaster, regions map[model.Region]RegionForecast, dates []string, cfg Config) *Forecast {
	return &Forecast{
		Regions:            regions,
		Dates:              dates,
		Model:              f.Name(),
		ConfidenceInterval: CoverageLabel(f.Coverage(cfg)),
	}
}

func (s *Service) notify(reason string) {
	if s.OnFallback != nil {
		s.OnFallback(reason)
	}
}

var errShape = errors.New("forecast: malformed output")

func checkShape(rf *RegionForecast, h int) error {
	if rf == nil || len(rf.Point) != h || len(rf.Lower) != h || len(rf.Upper) != h {
		return errShape
	}
	for i := range rf.Point {
		if !(rf.Lower[i] <= rf.Point[i] && rf.Point[i] <= rf.Upper[i]) {
			return fmt.Errorf("%w: bounds out of order at step %d", errShape, i)
		}
	}
	return nil
}
