package effects

import (
	"math"

	"ech-simulator/internal/model"
)

// Demand

func demandGrowth(p model.ParameterSet) model.EffectVector {
	growth := p.Float("demand_growth_rate", 0.033)
	elasticity := p.Float("price_elasticity", 0.6)
	pe := growth * years(p, 24) * elasticity
	return model.NewEffectVector(pe*0.9, pe*1.0, pe*1.1, pe*1.15)
}

func apacGrowth(p model.ParameterSet) model.EffectVector {
	premium := p.Float("apac_growth_premium", 0.02)
	spillover := p.Float("global_spillover", 0.3)
	apac := premium * years(p, 18) * 0.6
	global := apac * spillover * 0.59
	return model.NewEffectVector(global, global*1.1, apac, apac*1.1)
}

func epoxyDemand(p model.ParameterSet) model.EffectVector {
	growth := p.Float("epoxy_demand_growth", 0.05)
	infra := p.Float("infrastructure_boost", 0.0)
	total := (growth + infra) * 0.86
	pe := total * years(p, 12) * 0.7
	return model.NewEffectVector(pe*0.9, pe*1.0, pe*1.1, pe*1.15)
}

// Feedstock

func bioAdoption(p model.ParameterSet) model.EffectVector {
	adoption := p.Float("bio_adoption_rate", 0.04)
	glycerineCost := p.Float("glycerine_cost_factor", 1.0)
	bio := adoption * years(p, 36)
	return model.NewEffectVector(bio*0.02, bio*glycerineCost*0.08, bio*-0.05, bio*-0.06)
}

func feedstockShift(p model.ParameterSet) model.EffectVector {
	shift := p.Float("glycerine_share_change", 0.1)
	propylene := p.Float("propylene_price_change", 0.0)
	glycerine := p.Float("glycerine_price_change", 0.0)
	return model.NewEffectVector(
		propylene*0.4+shift*0.02,
		propylene*0.35+glycerine*0.15+shift*0.05,
		glycerine*0.4-shift*0.04,
		glycerine*0.45-shift*0.05,
	)
}

func asianAdvantage(p model.ParameterSet) model.EffectVector {
	advantage := p.Float("glycerine_cost_advantage", 0.15)
	intensity := p.Float("competitive_intensity", 0.5)
	asia := -advantage * intensity * math.Min(years(p, 18), 1.5)
	return model.NewEffectVector(-advantage*intensity*0.3, -advantage*intensity*0.2, asia, asia*1.1)
}

// Regulatory

func euRegulatory(p model.ParameterSet) model.EffectVector {
	cut := p.Float("supply_reduction", 0.15)
	compliance := p.Float("compliance_cost", 0.10)
	eu := (cut*0.5 + compliance) * math.Min(years(p, 36), 2)
	return model.NewEffectVector(cut*0.02, eu, -cut*0.02, -cut*0.03)
}

// Supply

const supplyElasticity = 1.7

func plantShutdown(p model.ParameterSet) model.EffectVector {
	offline := p.Float("capacity_offline", 0.10)
	region := p.String("region_affected", "eu")
	months := p.Float("duration_months", 6)

	direct := offline * supplyElasticity
	factor := math.Min(months/6, 1.5)

	switch region {
	case "eu":
		return model.NewEffectVector(direct*0.2, direct*factor, direct*0.15, direct*0.1)
	case "us":
		return model.NewEffectVector(direct*factor, direct*0.15, 0, 0)
	case "asia", "china":
		return model.NewEffectVector(direct*0.05, direct*0.1, direct*factor*0.9, direct*factor)
	default:
		return model.NewEffectVector(0, 0, 0, 0)
	}
}

// A non-positive duration has no disruption window; the effect is zero
// rather than the unbounded value the ratio would produce.
func supplyDisruption(p model.ParameterSet) model.EffectVector {
	severity := p.Float("disruption_severity", 0.20)
	recovery := p.Float("recovery_months", 4)
	months := p.Float("duration_months", 8)
	if months <= 0 {
		return model.NewEffectVector(0, 0, 0, 0)
	}
	peak := severity * 1.5
	avg := peak * (1 - recovery/(months*2))
	return model.NewEffectVector(avg*0.8, avg*1.0, avg*0.9, avg*0.85)
}

func capacityExpansion(p model.ParameterSet) model.EffectVector {
	addition := p.Float("capacity_addition", 0.15)
	rampUp := p.Float("ramp_up_months", 6)
	months := p.Float("duration_months", 24)
	if months <= 0 {
		return model.NewEffectVector(0, 0, 0, 0)
	}
	effective := addition * (1 - rampUp/(months*2))
	pe := -effective * 0.8
	return model.NewEffectVector(pe*0.4, pe*0.5, pe*1.0, pe*1.1)
}

// Regional

func americasStability(p model.ParameterSet) model.EffectVector {
	isolation := p.Float("isolation_factor", 0.7)
	pressure := p.Float("competitive_pressure", 0.0)
	drift := 1 - isolation
	return model.NewEffectVector(-pressure*0.5, 0.02*drift, 0.03*drift, 0.03*drift)
}

func europeElevation(p model.ParameterSet) model.EffectVector {
	reduction := p.Float("capacity_reduction", 0.12)
	imports := p.Float("import_dependency", 0.2)
	eu := (reduction*1.5 + imports*0.3) * math.Min(years(p, 18), 1.5)
	return model.NewEffectVector(reduction*0.1, eu, -reduction*0.05, -reduction*0.05)
}

func apacPressure(p model.ParameterSet) model.EffectVector {
	feedstock := p.Float("feedstock_pressure", 0.08)
	shutdown := p.Float("shutdown_impact", 0.05)
	combined := (feedstock + shutdown*1.5) * math.Min(years(p, 12), 1)
	return model.NewEffectVector(combined*0.15, combined*0.2, combined, combined*1.1)
}

// Competitive

func asianUndercut(p model.ParameterSet) model.EffectVector {
	discount := p.Float("price_discount", 0.10)
	share := p.Float("market_share_target", 0.05)
	cut := -discount * math.Min(years(p, 18), 1.5)
	pressure := discount * share * 5
	return model.NewEffectVector(-pressure*0.6, -pressure*0.5, cut, cut*1.1)
}

func euConstraints(p model.ParameterSet) model.EffectVector {
	constraint := p.Float("supply_constraint", 0.15)
	power := p.Float("pricing_power", 0.8)
	eu := constraint * power * math.Min(years(p, 24), 2)
	return model.NewEffectVector(constraint*0.05, eu, -constraint*0.03, -constraint*0.04)
}

// US anchors the market; other regions drift by fixed amounts.
func usStable(model.ParameterSet) model.EffectVector {
	return model.NewEffectVector(0, 0.01, 0.015, 0.02)
}
