package forecast

import (
	"math"

	"ech-simulator/internal/analysis"
	"ech-simulator/internal/simulate"
)

// Heuristic extrapolates from the recent slope, reverts toward the
// historical mean and adds a damped seasonal profile. It never needs a
// fit and only fails on empty input.
type Heuristic struct {
	Seed uint64
}

// NewHeuristic creates the fallback model with its fixed seed.
func NewHeuristic() *Heuristic { return &Heuristic{Seed: 42} }

func (h *Heuristic) Name() string { return ModelFallback }

// Coverage ignores cfg: the 1.96 multiplier is fixed.
func (h *Heuristic) Coverage(Config) float64 { return 0.95 }

const (
	trendWindow    = 6
	trendDecay     = 0.85
	reversionRate  = 0.08
	seasonalScale  = 0.05
	noiseScale     = 0.03
	spreadScale    = 0.2
	z95            = 1.96
	monthsPerYear  = 12
	roundingPlaces = 4
)

// Forecast extrapolates in.History. The config is not used.
func (h *Heuristic) Forecast(in Input, _ Config) (*RegionForecast, error) {
	prices := in.History
	n := len(prices)
	if n == 0 {
		return nil, ErrEmptyHistory
	}

	mean := analysis.Mean(prices)
	std := analysis.StdDev(prices)

	tail := prices[max(0, n-trendWindow):]
	trend := 0.0
	if len(tail) > 1 {
		trend = (tail[len(tail)-1] - tail[0]) / trendWindow
	}
	seasonal := yearlyProfile(prices)
	monthIdx := n % monthsPerYear

	// Same seed for every region.
	rng := simulate.NewRand(h.Seed)

	out := &RegionForecast{
		Point: make([]float64, in.Horizon),
		Lower: make([]float64, in.Horizon),
		Upper: make([]float64, in.Horizon),
	}
	current := prices[n-1]
	for i := 0; i < in.Horizon; i++ {
		s := 0.0
		if seasonal != nil {
			s = seasonal[(monthIdx+i)%monthsPerYear]
		}
		current += trend*math.Pow(trendDecay, float64(i)) + (mean-current)*reversionRate + s

		point := current + rng.NormFloat64()*std*noiseScale
		spread := z95 * std * math.Sqrt(float64(i+1)) * spreadScale

		out.Point[i] = analysis.Round(point, roundingPlaces)
		out.Lower[i] = analysis.Round(point-spread, roundingPlaces)
		out.Upper[i] = analysis.Round(point+spread, roundingPlaces)
	}
	return out, nil
}

// yearlyProfile averages each calendar position over complete years and
// centres the result. Nil below two full years.
func yearlyProfile(prices []float64) []float64 {
	years := len(prices) / monthsPerYear
	if years < 2 {
		return nil
	}
	profile := make([]float64, monthsPerYear)
	for y := 0; y < years; y++ {
		for m := 0; m < monthsPerYear; m++ {
			profile[m] += prices[y*monthsPerYear+m]
		}
	}
	for m := range profile {
		profile[m] /= float64(years)
	}
	centre := analysis.Mean(profile)
	for m := range profile {
		profile[m] = (profile[m] - centre) * seasonalScale
	}
	return profile
}
