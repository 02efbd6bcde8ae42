package data

import (
	"fmt"
	"math"
	"time"

	"ech-simulator/internal/analysis"
	"ech-simulator/internal/model"
	"ech-simulator/internal/simulate"
)

// SeriesSpec shapes one synthetic price series (USD/lb).
type SeriesSpec struct {
	Name       string
	Base       float64
	Range      float64 // prices stay within Base ± Range
	Volatility float64 // step std as a fraction of Base
}

// DefaultSeries follows observed market ranges for each region plus the
// two feedstocks.
var DefaultSeries = []SeriesSpec{
	{Name: string(model.RegionUS), Base: 0.65, Range: 0.12, Volatility: 0.03},
	{Name: string(model.RegionEU), Base: 0.96, Range: 0.10, Volatility: 0.04},
	{Name: string(model.RegionAsia), Base: 0.65, Range: 0.06, Volatility: 0.035},
	{Name: string(model.RegionChina), Base: 0.50, Range: 0.10, Volatility: 0.04},
	{Name: "glycerin", Base: 0.36, Range: 0.07, Volatility: 0.06},
	{Name: "propylene", Base: 0.45, Range: 0.09, Volatility: 0.05},
}

const (
	DefaultStartDate = "2020-01-01"
	DefaultPeriods   = 60
)

// Generator produces a mean-reverting seasonal random walk per series.
// Every series restarts the same seeded stream, so output depends only on
// the start month and period count.
type Generator struct {
	StartDate time.Time
	Periods   int
	Seed      uint64
	Series    []SeriesSpec
	Now       func() time.Time
}

// NewGenerator creates a generator for periods months from start.
func NewGenerator(start time.Time, periods int) *Generator {
	return &Generator{
		StartDate: start,
		Periods:   periods,
		Seed:      42,
		Series:    DefaultSeries,
		Now:       time.Now,
	}
}

// DefaultGenerator starts at DefaultStartDate with DefaultPeriods.
func DefaultGenerator() *Generator {
	start, _ := time.Parse(model.DateLayout, DefaultStartDate)
	return NewGenerator(start, DefaultPeriods)
}

// Generate produces a baseline with one series per DefaultSeries entry.
func (g *Generator) Generate() (*model.Baseline, error) {
	if g.Periods < 1 {
		return nil, fmt.Errorf("periods must be positive, got %d", g.Periods)
	}
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}

	b := &model.Baseline{
		Metadata: model.BaselineMetadata{
			GeneratedAt: now().UTC().Format(time.RFC3339),
			StartDate:   g.StartDate.Format(model.DateLayout),
			Periods:     g.Periods,
			Unit:        "USD/lb",
			Note:        "Prices in USD/lb based on real market ranges",
		},
		Dates:  MonthEnds(g.StartDate, g.Periods),
		Prices: make(map[string][]float64, len(g.Series)),
	}
	for _, spec := range g.Series {
		b.Prices[spec.Name] = g.series(spec)
	}
	return b, nil
}

func (g *Generator) series(spec SeriesSpec) []float64 {
	rng := simulate.NewRand(g.Seed)
	lo, hi := spec.Base-spec.Range, spec.Base+spec.Range

	prices := make([]float64, g.Periods)
	prices[0] = spec.Base
	for i := 1; i < g.Periods; i++ {
		prev := prices[i-1]
		change := rng.NormFloat64() * spec.Base * spec.Volatility
		reversion := (spec.Base - prev) * 0.05
		seasonal := spec.Range * 0.3 * math.Sin(2*math.Pi*float64(i)/12)

		next := math.Max(lo, math.Min(hi, prev+change+reversion+seasonal))
		prices[i] = analysis.Round(next, 4)
	}
	return prices
}

// MonthEnds labels n consecutive month-end dates starting with the month
// that contains start.
func MonthEnds(start time.Time, n int) []string {
	y, m, _ := start.Date()
	out := make([]string, n)
	for i := range out {
		out[i] = time.Date(y, m+time.Month(i+1), 0, 0, 0, 0, 0, time.UTC).Format(model.DateLayout)
	}
	return out
}
