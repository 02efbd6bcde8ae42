// Package simulate spreads a scenario's terminal effect across the baseline
// history and summarises the perturbed series.
package simulate

import "math"

// Window locates a scenario's effect on the period index.
//
// Phases over period i:
//   - pre-start (i < Start): 0
//   - ramp (Start <= i < Start+Ramp): linear up to 1
//   - plateau (i < End): 1
//   - decay (i >= End): falls to 0.6 over 12 periods and stays there
type Window struct {
	Total    int
	Start    int
	Ramp     int
	End      float64 // min(Start+Duration, Total)
	Duration float64
}

// NewWindow places the effect 20% of the way into a history of total periods.
func NewWindow(total int, durationMonths float64) Window {
	start := int(math.Floor(float64(total) * 0.2))
	ramp := int(math.Min(6, math.Floor(durationMonths/3)))
	if ramp < 0 {
		ramp = 0
	}
	return Window{
		Total:    total,
		Start:    start,
		Ramp:     ramp,
		End:      math.Min(float64(start)+durationMonths, float64(total)),
		Duration: durationMonths,
	}
}

// Factor is the envelope value at historical period i.
func (w Window) Factor(i int) float64 {
	switch {
	case i < w.Start:
		return 0
	case i < w.Start+w.Ramp:
		return float64(i-w.Start+1) / float64(w.Ramp)
	case float64(i) < w.End:
		return 1
	default:
		decay := math.Min((float64(i)-w.End)/12, 1)
		return 1 - decay*0.4
	}
}

// Ongoing reports whether the unclamped effect window runs past the history.
func (w Window) Ongoing() bool {
	return float64(w.Start)+w.Duration > float64(w.Total)
}

// Continuation extends the envelope past the history for forecasting.
// Future periods stay at 1 until the unclamped end, then decay at the
// steeper forecast rate, floored at 0.
func (w Window) Continuation(i int) float64 {
	if i < w.Total {
		return w.Factor(i)
	}
	end := float64(w.Start) + w.Duration
	if float64(i) < end {
		return 1
	}
	decay := math.Min((float64(i)-end)/12, 1)
	return math.Max(0, 1-decay*0.6)
}
