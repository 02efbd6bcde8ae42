// Package effects turns a scenario's resolved parameters into per-region
// fractional price effects. Every formula is a pure function of the
// ParameterSet; constants and duration caps are business rules.
package effects

import (
	"ech-simulator/internal/analysis"
	"ech-simulator/internal/model"
)

// Formula computes an effect vector from resolved parameters.
type Formula func(p model.ParameterSet) model.EffectVector

// Compute dispatches on kind. Unknown kinds return the zero vector.
func Compute(kind model.LogicKind, p model.ParameterSet) model.EffectVector {
	if f := Lookup(kind); f != nil {
		return f(p)
	}
	return model.NewEffectVector(0, 0, 0, 0)
}

// Lookup returns the formula bound to kind, or nil for LogicUnknown.
func Lookup(kind model.LogicKind) Formula {
	switch kind {
	case model.LogicDemandGrowth:
		return demandGrowth
	case model.LogicAPACGrowth:
		return apacGrowth
	case model.LogicBioAdoption:
		return bioAdoption
	case model.LogicEpoxyDemand:
		return epoxyDemand
	case model.LogicFeedstockShift:
		return feedstockShift
	case model.LogicEURegulatory:
		return euRegulatory
	case model.LogicAsianAdvantage:
		return asianAdvantage
	case model.LogicPlantShutdown:
		return plantShutdown
	case model.LogicSupplyDisruption:
		return supplyDisruption
	case model.LogicCapacityExpansion:
		return capacityExpansion
	case model.LogicAmericasStability:
		return americasStability
	case model.LogicEuropeElevation:
		return europeElevation
	case model.LogicAPACPressure:
		return apacPressure
	case model.LogicAsianUndercut:
		return asianUndercut
	case model.LogicEUConstraints:
		return euConstraints
	case model.LogicUSStable:
		return usStable
	case model.LogicUnknown:
		return nil
	}
	return nil
}

// Percent converts fractions to percentages rounded to 2 decimals.
func Percent(v model.EffectVector) map[model.Region]float64 {
	out := make(map[model.Region]float64, len(v))
	for r, e := range v {
		out[r] = analysis.Round(e*100, 2)
	}
	return out
}

func years(p model.ParameterSet, defMonths float64) float64 {
	return p.Float("duration_months", defMonths) / 12
}
