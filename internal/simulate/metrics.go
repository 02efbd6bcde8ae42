package simulate

import (
	"ech-simulator/internal/analysis"
	"ech-simulator/internal/model"
)

// RegionMetrics compares one region's simulated series with its baseline.
type RegionMetrics struct {
	BaselineAvg   float64 `json:"baseline_avg"`
	SimulatedAvg  float64 `json:"simulated_avg"`
	ChangePercent float64 `json:"change_percent"`
	MaxPrice      float64 `json:"max_price"`
	MinPrice      float64 `json:"min_price"`
}

// Summarize computes metrics for regions present in both inputs.
// Prices round to 4 decimals, change percent to 2 (from unrounded means).
func Summarize(b *model.Baseline, simulated map[model.Region][]float64) map[model.Region]RegionMetrics {
	out := make(map[model.Region]RegionMetrics, len(simulated))
	for _, region := range model.CanonicalRegions {
		sim, ok := simulated[region]
		if !ok || len(sim) == 0 {
			continue
		}
		base, ok := b.Series(region)
		if !ok || len(base) == 0 {
			continue
		}

		baseAvg := analysis.Mean(base)
		s := analysis.Summarize(sim)
		change := 0.0
		if baseAvg != 0 {
			change = (s.Mean - baseAvg) / baseAvg * 100
		}
		out[region] = RegionMetrics{
			BaselineAvg:   analysis.Round(baseAvg, 4),
			SimulatedAvg:  analysis.Round(s.Mean, 4),
			ChangePercent: analysis.Round(change, 2),
			MaxPrice:      analysis.Round(s.Max, 4),
			MinPrice:      analysis.Round(s.Min, 4),
		}
	}
	return out
}
