package analysis

import (
	"math"
	"sort"
)

// Impact is one scenario's per-region percentage change, used for ranking.
type Impact struct {
	ScenarioID   int
	ScenarioName string
	Changes      map[string]float64
}

// RankedImpact is one row of an impact ranking.
type RankedImpact struct {
	Rank         int     `json:"rank"`
	ScenarioID   int     `json:"scenario_id"`
	ScenarioName string  `json:"scenario_name"`
	MeanAbsolute float64 `json:"mean_abs_change_percent"`
	MaxRegion    string  `json:"max_region,omitempty"`
	MaxChange    float64 `json:"max_change_percent"`
}

// RankByImpact sorts scenarios by mean absolute change, largest first.
// Ties keep input order.
func RankByImpact(items []Impact) []RankedImpact {
	out := make([]RankedImpact, 0, len(items))
	for _, it := range items {
		r := RankedImpact{ScenarioID: it.ScenarioID, ScenarioName: it.ScenarioName}
		regions := make([]string, 0, len(it.Changes))
		for region := range it.Changes {
			regions = append(regions, region)
		}
		sort.Strings(regions)

		sum := 0.0
		for _, region := range regions {
			c := it.Changes[region]
			sum += math.Abs(c)
			if r.MaxRegion == "" || math.Abs(c) > math.Abs(r.MaxChange) {
				r.MaxRegion = region
				r.MaxChange = c
			}
		}
		if len(regions) > 0 {
			r.MeanAbsolute = Round(sum/float64(len(regions)), 2)
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MeanAbsolute > out[j].MeanAbsolute
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
