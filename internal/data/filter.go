package data

import (
	"fmt"
	"strings"
)

// FilterPrices selects series by key. With both region and kind the key
// must be exactly "region_kind"; with one of them any key containing it
// matches; with neither the input is returned as is.
func FilterPrices(prices map[string][]float64, region, kind string) map[string][]float64 {
	if region == "" && kind == "" {
		return prices
	}
	out := map[string][]float64{}
	if region != "" && kind != "" {
		key := fmt.Sprintf("%s_%s", region, kind)
		if s, ok := prices[key]; ok {
			out[key] = s
		}
		return out
	}
	needle := region
	if needle == "" {
		needle = kind
	}
	for k, s := range prices {
		if strings.Contains(k, needle) {
			out[k] = s
		}
	}
	return out
}
