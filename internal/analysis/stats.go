// Package analysis holds descriptive statistics shared by metrics, forecasting
// and scenario ranking.
package analysis

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// Summary is a series-level description.
type Summary struct {
	Count int

	Min  float64
	Max  float64
	Mean float64
	Std  float64 // population standard deviation
	P05  float64
	P95  float64
}

// Summarize computes descriptive statistics over vals.
func Summarize(vals []float64) Summary {
	s := Summary{Count: len(vals)}
	if len(vals) == 0 {
		return s
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Mean = Mean(vals)
	s.Std = StdDev(vals)
	s.P05 = percentileSorted(sorted, 0.05)
	s.P95 = percentileSorted(sorted, 0.95)
	return s
}

// Mean returns the arithmetic mean of vals, or 0 when vals is empty.
func Mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	return stat.Mean(vals, nil)
}

// StdDev is the population standard deviation (divides by n).
func StdDev(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	_, std := stat.PopMeanStdDev(vals, nil)
	return std
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Round rounds half away from zero at the given number of decimal places,
// working on the shortest decimal representation of x.
func Round(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return decimal.NewFromFloat(x).Round(places).InexactFloat64()
}

// RoundAll rounds every element into a new slice.
func RoundAll(vals []float64, places int32) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = Round(v, places)
	}
	return out
}
