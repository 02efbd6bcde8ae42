package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{4, 1, 3, 2})

	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 4.0, s.Max)
	assert.InDelta(t, 2.5, s.Mean, 1e-12)
	assert.InDelta(t, 1.118034, s.Std, 1e-6)
	assert.InDelta(t, 1.15, s.P05, 1e-12)
	assert.InDelta(t, 3.85, s.P95, 1e-12)

	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestStdDev_Population(t *testing.T) {
	assert.InDelta(t, 2.0, StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-12)
	assert.Equal(t, 0.0, StdDev([]float64{3}))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 35.0, Round(0.35*100, 2))
	assert.Equal(t, 1.2346, Round(1.23456, 4))
	assert.Equal(t, -0.13, Round(-0.125, 2))
	assert.Equal(t, []float64{0.67, 1}, RoundAll([]float64{0.666, 0.9999}, 2))
}

func TestRankByImpact(t *testing.T) {
	ranked := RankByImpact([]Impact{
		{ScenarioID: 1, ScenarioName: "small", Changes: map[string]float64{"eu_ech": 1, "us_ech": -1}},
		{ScenarioID: 2, ScenarioName: "big", Changes: map[string]float64{"eu_ech": 30, "us_ech": -2}},
		{ScenarioID: 3, ScenarioName: "tie", Changes: map[string]float64{"eu_ech": -1, "us_ech": 1}},
	})

	assert.Len(t, ranked, 3)
	assert.Equal(t, 2, ranked[0].ScenarioID)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 16.0, ranked[0].MeanAbsolute)
	assert.Equal(t, "eu_ech", ranked[0].MaxRegion)
	assert.Equal(t, 30.0, ranked[0].MaxChange)
	assert.Equal(t, []int{1, 3}, []int{ranked[1].ScenarioID, ranked[2].ScenarioID})
}
