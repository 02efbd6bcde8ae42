package simulate

import (
	"fmt"
	"math/rand/v2"

	"ech-simulator/internal/model"

	"github.com/cespare/xxhash/v2"
)

// DefaultNoiseStdDev is the per-period multiplicative noise level.
const DefaultNoiseStdDev = 0.008

// Second PCG word; fixed so a seed maps to one stream everywhere.
const pcgStream = 0x9e3779b97f4a7c15

// Seed hashes the canonical serialisation of p. Equal sets give equal seeds.
func Seed(p model.ParameterSet) uint64 {
	return xxhash.Sum64String(p.Canonical())
}

// NewRand returns the PCG generator for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^pcgStream))
}

// Result is the output of one simulation run.
type Result struct {
	Window    Window
	Seed      uint64
	Simulated map[model.Region][]float64
}

// Applicator turns effect vectors into simulated price series.
type Applicator struct {
	NoiseStdDev float64
}

// New creates an applicator with the default noise level.
func New() *Applicator { return &Applicator{NoiseStdDev: DefaultNoiseStdDev} }

// Apply perturbs one series from w.Start on: baseline[i] * (1 + effect*Factor(i) + noise).
// Periods before w.Start are copied unchanged. One draw is consumed from rng
// per perturbed period.
func (a *Applicator) Apply(baseline []float64, effect float64, w Window, rng *rand.Rand) []float64 {
	out := make([]float64, len(baseline))
	copy(out, baseline)
	for i := max(w.Start, 0); i < len(baseline); i++ {
		v := baseline[i]
		noise := 0.0
		if a.NoiseStdDev != 0 {
			noise = rng.NormFloat64() * a.NoiseStdDev
		}
		out[i] = v * (1 + effect*w.Factor(i) + noise)
	}
	return out
}

// Run applies effects to every canonical region present in the baseline.
// A single generator seeded from params serves all regions in canonical order.
func (a *Applicator) Run(b *model.Baseline, effects model.EffectVector, params model.ParameterSet) (*Result, error) {
	if b.Len() == 0 {
		return nil, fmt.Errorf("baseline is empty")
	}
	w := NewWindow(b.Len(), params.Float("duration_months", 12))
	seed := Seed(params)
	rng := NewRand(seed)

	simulated := make(map[model.Region][]float64, len(model.CanonicalRegions))
	for _, region := range model.CanonicalRegions {
		series, ok := b.Series(region)
		if !ok {
			continue
		}
		if len(series) != b.Len() {
			return nil, fmt.Errorf("region %s has %d values, want %d", region, len(series), b.Len())
		}
		simulated[region] = a.Apply(series, effects[region], w, rng)
	}

	return &Result{Window: w, Seed: seed, Simulated: simulated}, nil
}
