package forecast

import (
	"fmt"
	"math"
	"sort"
)

const (
	SeasonalityMultiplicative = "multiplicative"
	SeasonalityAdditive       = "additive"
)

// Config tunes the primary model and the horizon. It is plain data; an
// engine owns one copy and replaces it through Update.
type Config struct {
	YearlySeasonality     bool    `json:"yearly_seasonality"`
	SeasonalityMode       string  `json:"seasonality_mode"`
	ChangepointPriorScale float64 `json:"changepoint_prior_scale"` // trend flexibility
	SeasonalityPriorScale float64 `json:"seasonality_prior_scale"` // seasonality flexibility
	IntervalWidth         float64 `json:"interval_width"`
	HorizonMonths         int     `json:"horizon_months"`
}

// DefaultConfig returns the standard monthly configuration.
func DefaultConfig() Config {
	return Config{
		YearlySeasonality:     true,
		SeasonalityMode:       SeasonalityMultiplicative,
		ChangepointPriorScale: 0.05,
		SeasonalityPriorScale: 10,
		IntervalWidth:         0.95,
		HorizonMonths:         12,
	}
}

const maxHorizonMonths = 120

// Validate reports the first out-of-range field.
func (c Config) Validate() error {
	if c.SeasonalityMode != SeasonalityMultiplicative && c.SeasonalityMode != SeasonalityAdditive {
		return fmt.Errorf("seasonality_mode must be %q or %q", SeasonalityMultiplicative, SeasonalityAdditive)
	}
	if !(c.ChangepointPriorScale > 0) {
		return fmt.Errorf("changepoint_prior_scale must be > 0")
	}
	if !(c.SeasonalityPriorScale > 0) {
		return fmt.Errorf("seasonality_prior_scale must be > 0")
	}
	if !(c.IntervalWidth > 0 && c.IntervalWidth < 1) {
		return fmt.Errorf("interval_width must be in (0, 1)")
	}
	if c.HorizonMonths < 1 || c.HorizonMonths > maxHorizonMonths {
		return fmt.Errorf("horizon_months must be in [1, %d]", maxHorizonMonths)
	}
	return nil
}

// With returns c with options applied. Unknown keys and values that are
// the wrong type or out of range are skipped and reported, sorted, with
// the reason.
func (c Config) With(options map[string]any) (Config, map[string]string) {
	out := c
	skipped := map[string]string{}

	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		next := out
		var ok bool
		switch v := options[key]; key {
		case "yearly_seasonality":
			next.YearlySeasonality, ok = v.(bool)
		case "seasonality_mode":
			next.SeasonalityMode, ok = v.(string)
		case "changepoint_prior_scale":
			next.ChangepointPriorScale, ok = number(v)
		case "seasonality_prior_scale":
			next.SeasonalityPriorScale, ok = number(v)
		case "interval_width":
			next.IntervalWidth, ok = number(v)
		case "horizon_months":
			var f float64
			if f, ok = number(v); ok && f == math.Trunc(f) {
				next.HorizonMonths = int(f)
			} else {
				ok = false
			}
		default:
			skipped[key] = "unknown option"
			continue
		}
		if !ok {
			skipped[key] = fmt.Sprintf("invalid value %v", options[key])
			continue
		}
		if err := next.Validate(); err != nil {
			skipped[key] = err.Error()
			continue
		}
		out = next
	}
	return out, skipped
}

func number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}
