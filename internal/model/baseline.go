package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DateLayout is the period label format used in baseline files and forecasts.
const DateLayout = "2006-01-02"

// Baseline is the unperturbed monthly price history.
//
// Example:
//
//	{
//	  "metadata": {"start_date": "2020-01-01", "periods": 60, "unit": "USD/lb"},
//	  "dates": ["2020-01-31", "2020-02-29", ...],
//	  "prices": {"us_ech": [0.65, ...], "glycerin": [0.36, ...]}
//	}
//
// Series other than the canonical regions are carried through untouched.
type Baseline struct {
	Metadata BaselineMetadata     `json:"metadata"`
	Dates    []string             `json:"dates"`
	Prices   map[string][]float64 `json:"prices"`
}

// BaselineMetadata describes how a baseline was produced.
type BaselineMetadata struct {
	GeneratedAt string `json:"generated_at,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	Periods     int    `json:"periods,omitempty"`
	Unit        string `json:"unit,omitempty"`
	Note        string `json:"note,omitempty"`
}

// Len is the number of periods.
func (b *Baseline) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Dates)
}

// Series returns the price history for a region, if present.
func (b *Baseline) Series(r Region) ([]float64, bool) {
	if b == nil {
		return nil, false
	}
	s, ok := b.Prices[string(r)]
	return s, ok
}

// ClonePrices returns a deep copy of Prices.
func (b *Baseline) ClonePrices() map[string][]float64 {
	if b == nil {
		return nil
	}
	out := make(map[string][]float64, len(b.Prices))
	for k, v := range b.Prices {
		out[k] = append([]float64(nil), v...)
	}
	return out
}

// LastDate parses the final period label.
func (b *Baseline) LastDate() (time.Time, error) {
	if b.Len() == 0 {
		return time.Time{}, errors.New("baseline has no dates")
	}
	return time.Parse(DateLayout, b.Dates[len(b.Dates)-1])
}

// Validate checks alignment: parseable increasing dates and every series the
// same length as Dates. Canonical region prices must be positive.
func (b *Baseline) Validate() error {
	if b == nil {
		return errors.New("baseline is nil")
	}
	if len(b.Dates) == 0 {
		return errors.New("baseline has no dates")
	}
	var prev time.Time
	for i, d := range b.Dates {
		t, err := time.Parse(DateLayout, d)
		if err != nil {
			return fmt.Errorf("date %d %q: %w", i, d, err)
		}
		if i > 0 && !t.After(prev) {
			return fmt.Errorf("date %d %q is not after %q", i, d, b.Dates[i-1])
		}
		prev = t
	}
	if len(b.Prices) == 0 {
		return errors.New("baseline has no price series")
	}
	for name, series := range b.Prices {
		if len(series) != len(b.Dates) {
			return fmt.Errorf("series %q has %d values, want %d", name, len(series), len(b.Dates))
		}
		positive := Region(name).Valid()
		for i, v := range series {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("series %q value %d is not finite", name, i)
			}
			if positive && v <= 0 {
				return fmt.Errorf("series %q value %d must be > 0", name, i)
			}
		}
	}
	return nil
}
