package model

// LogicKind selects the effect formula a scenario uses.
// The set is closed; catalog tags map onto it through ParseLogicKind.
type LogicKind int

const (
	LogicUnknown LogicKind = iota
	LogicDemandGrowth
	LogicAPACGrowth
	LogicBioAdoption
	LogicEpoxyDemand
	LogicFeedstockShift
	LogicEURegulatory
	LogicAsianAdvantage
	LogicPlantShutdown
	LogicSupplyDisruption
	LogicCapacityExpansion
	LogicAmericasStability
	LogicEuropeElevation
	LogicAPACPressure
	LogicAsianUndercut
	LogicEUConstraints
	LogicUSStable
)

// Catalog tags. Keep these values stable; they appear in scenario files.
var logicTags = map[LogicKind]string{
	LogicDemandGrowth:      "demand_growth",
	LogicAPACGrowth:        "apac_growth",
	LogicBioAdoption:       "bio_adoption",
	LogicEpoxyDemand:       "epoxy_demand",
	LogicFeedstockShift:    "feedstock_shift",
	LogicEURegulatory:      "eu_regulatory",
	LogicAsianAdvantage:    "asian_advantage",
	LogicPlantShutdown:     "plant_shutdown",
	LogicSupplyDisruption:  "supply_disruption",
	LogicCapacityExpansion: "capacity_expansion",
	LogicAmericasStability: "americas_stability",
	LogicEuropeElevation:   "europe_elevation",
	LogicAPACPressure:      "apac_pressure",
	LogicAsianUndercut:     "asian_undercut",
	LogicEUConstraints:     "eu_constraints",
	LogicUSStable:          "us_stable",
}

func (k LogicKind) String() string {
	if tag, ok := logicTags[k]; ok {
		return tag
	}
	return "default"
}

// ParseLogicKind maps a catalog tag to its kind. Unrecognised tags yield LogicUnknown.
func ParseLogicKind(tag string) LogicKind {
	for k, t := range logicTags {
		if t == tag {
			return k
		}
	}
	return LogicUnknown
}

// LogicKinds lists every known kind in declaration order.
func LogicKinds() []LogicKind {
	out := make([]LogicKind, 0, len(logicTags))
	for k := LogicDemandGrowth; k <= LogicUSStable; k++ {
		out = append(out, k)
	}
	return out
}
