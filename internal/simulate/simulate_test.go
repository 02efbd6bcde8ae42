package simulate

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"ech-simulator/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatBaseline(n int, regions ...model.Region) *model.Baseline {
	b := &model.Baseline{Prices: map[string][]float64{}}
	for i := 0; i < n; i++ {
		b.Dates = append(b.Dates, "2020-01-31")
	}
	for _, r := range regions {
		s := make([]float64, n)
		for i := range s {
			s[i] = 1.0
		}
		b.Prices[string(r)] = s
	}
	return b
}

func TestWindow_SixMonthDuration(t *testing.T) {
	w := NewWindow(60, 6)
	require.Equal(t, 12, w.Start)
	require.Equal(t, 2, w.Ramp)
	require.Equal(t, 18.0, w.End)

	assert.Equal(t, 0.0, w.Factor(w.Start-1))
	assert.Equal(t, 0.5, w.Factor(w.Start))
	assert.Equal(t, 1.0, w.Factor(w.Start+1))
	for i := w.Start + 2; i <= w.Start+6; i++ {
		assert.Equal(t, 1.0, w.Factor(i), "period %d", i)
	}
	assert.InDelta(t, 1-0.4/12, w.Factor(w.Start+7), 1e-12)
	assert.InDelta(t, 0.6, w.Factor(w.Start+6+12), 1e-12)
	assert.InDelta(t, 0.6, w.Factor(59), 1e-12)
	assert.False(t, w.Ongoing())
}

func TestWindow_ShortDurationSkipsRamp(t *testing.T) {
	w := NewWindow(60, 2)
	assert.Equal(t, 0, w.Ramp)
	assert.Equal(t, 1.0, w.Factor(w.Start))
	assert.Equal(t, 1.0, w.Factor(w.Start+1))
	assert.Less(t, w.Factor(w.Start+3), 1.0)
}

func TestWindow_ContinuationWhenOngoing(t *testing.T) {
	w := NewWindow(60, 60)
	require.True(t, w.Ongoing())
	assert.Equal(t, 60.0, w.End)

	assert.Equal(t, 1.0, w.Factor(59))
	for i := 60; i <= 72; i++ {
		assert.Equal(t, 1.0, w.Continuation(i), "period %d", i)
	}
	assert.InDelta(t, 1-0.6/12, w.Continuation(73), 1e-12)
	assert.InDelta(t, 0.4, w.Continuation(84), 1e-12)
	assert.InDelta(t, 0.4, w.Continuation(100), 1e-12)
	assert.Equal(t, w.Factor(30), w.Continuation(30))
}

func TestApply_NoiseFreeEnvelope(t *testing.T) {
	a := &Applicator{}
	w := NewWindow(20, 6)
	base := make([]float64, 20)
	for i := range base {
		base[i] = 2.0
	}

	out := a.Apply(base, 0.10, w, nil)

	assert.Equal(t, 2.0, out[w.Start-1])
	assert.InDelta(t, 2.0*1.05, out[w.Start], 1e-12)
	assert.InDelta(t, 2.0*1.10, out[w.Start+3], 1e-12)
}

func TestRun_DeterministicForEqualParams(t *testing.T) {
	b := flatBaseline(60, model.CanonicalRegions...)
	effects := model.NewEffectVector(0.01, 0.35, -0.003, -0.0045)
	p1 := model.ParameterSet{"supply_reduction": 0.15, "compliance_cost": 0.1, "duration_months": 36.0}
	p2 := model.ParameterSet{"duration_months": 36, "compliance_cost": 0.1, "supply_reduction": 0.15}

	r1, err := New().Run(b, effects, p1)
	require.NoError(t, err)
	r2, err := New().Run(b, effects, p2)
	require.NoError(t, err)

	assert.Equal(t, r1.Seed, r2.Seed)
	assert.Equal(t, r1.Simulated, r2.Simulated)

	p3 := p1.Clone()
	p3["compliance_cost"] = 0.2
	r3, err := New().Run(b, effects, p3)
	require.NoError(t, err)
	assert.NotEqual(t, r1.Simulated[model.RegionUS], r3.Simulated[model.RegionUS])
}

func TestRun_NoiseIsSmallAndPresent(t *testing.T) {
	b := flatBaseline(60, model.RegionUS)
	r, err := New().Run(b, model.NewEffectVector(0, 0, 0, 0), model.ParameterSet{"duration_months": 12.0})
	require.NoError(t, err)

	sim := r.Simulated[model.RegionUS]
	require.Len(t, sim, 60)
	changed := 0
	for _, v := range sim[r.Window.Start:] {
		assert.InDelta(t, 1.0, v, 0.05)
		if v != 1.0 {
			changed++
		}
	}
	assert.Equal(t, 60-r.Window.Start, changed)
}

func TestRun_PreStartPeriodsKeepBaseline(t *testing.T) {
	b := flatBaseline(60, model.CanonicalRegions...)
	for i := range b.Prices["eu_ech"] {
		b.Prices["eu_ech"][i] = 0.9 + float64(i)*0.01
	}
	r, err := New().Run(b, model.NewEffectVector(0.01, 0.35, -0.003, -0.0045), model.ParameterSet{"duration_months": 36.0})
	require.NoError(t, err)
	require.Equal(t, 12, r.Window.Start)

	for _, region := range model.CanonicalRegions {
		base := b.Prices[string(region)]
		sim := r.Simulated[region]
		for i := 0; i < r.Window.Start; i++ {
			assert.Equal(t, base[i], sim[i], "%s[%d]", region, i)
		}
		assert.NotEqual(t, base[r.Window.Start], sim[r.Window.Start], region)
	}

	base := b.Prices["us_ech"]
	base[0] = 5
	assert.Equal(t, 1.0, r.Simulated[model.RegionUS][0], "result must not alias the baseline")
}

func TestRun_MissingRegionSkipped(t *testing.T) {
	b := flatBaseline(24, model.RegionEU)
	r, err := New().Run(b, model.NewEffectVector(0.1, 0.1, 0.1, 0.1), model.ParameterSet{})
	require.NoError(t, err)

	assert.Len(t, r.Simulated, 1)
	assert.Contains(t, r.Simulated, model.RegionEU)

	_, err = New().Run(&model.Baseline{}, nil, nil)
	assert.Error(t, err)
}

func TestSummarize_Metrics(t *testing.T) {
	b := &model.Baseline{
		Dates:  []string{"2020-01-31", "2020-02-29", "2020-03-31", "2020-04-30"},
		Prices: map[string][]float64{"eu_ech": {1, 1, 1, 1}},
	}
	sim := map[model.Region][]float64{
		model.RegionEU: {1, 1.1, 1.2, 1.30004},
		model.RegionUS: {1, 1, 1, 1},
	}

	m := Summarize(b, sim)

	require.Len(t, m, 1)
	eu := m[model.RegionEU]
	assert.Equal(t, 1.0, eu.BaselineAvg)
	assert.Equal(t, 1.15, eu.SimulatedAvg)
	assert.Equal(t, 15.0, eu.ChangePercent)
	assert.Equal(t, 1.3, eu.MaxPrice)
	assert.Equal(t, 1.0, eu.MinPrice)
}

func TestWriteSeriesCSV(t *testing.T) {
	b := &model.Baseline{
		Dates:  []string{"2020-01-31", "2020-02-29"},
		Prices: map[string][]float64{"eu_ech": {1, 2}, "us_ech": {3, 4}},
	}
	sim := map[model.Region][]float64{model.RegionEU: {1.5, 2.5}, model.RegionUS: {3.5, 4.5}}
	path := filepath.Join(t.TempDir(), "out", "series.csv")

	require.NoError(t, WriteSeriesCSV(path, b, sim))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"date", "baseline_us_ech", "simulated_us_ech", "baseline_eu_ech", "simulated_eu_ech"}, rows[0])
	assert.Equal(t, []string{"2020-02-29", "4.000000", "4.500000", "2.000000", "2.500000"}, rows[2])
}
