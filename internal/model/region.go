package model

// Region identifies one of the tracked ECH markets.
// Values double as keys in the baseline price map; keep them stable.
type Region string

const (
	RegionUS    Region = "us_ech"
	RegionEU    Region = "eu_ech"
	RegionAsia  Region = "asia_ech"
	RegionChina Region = "china_ech"
)

// CanonicalRegions is the fixed order every per-region loop follows.
// Seeded noise is drawn in this order, so changing it changes outputs.
var CanonicalRegions = []Region{RegionUS, RegionEU, RegionAsia, RegionChina}

func (r Region) Valid() bool {
	switch r {
	case RegionUS, RegionEU, RegionAsia, RegionChina:
		return true
	default:
		return false
	}
}

// EffectVector maps a region to its fractional price effect (+0.05 = +5%).
type EffectVector map[Region]float64

// NewEffectVector builds a vector holding all four canonical regions.
func NewEffectVector(us, eu, asia, china float64) EffectVector {
	return EffectVector{
		RegionUS:    us,
		RegionEU:    eu,
		RegionAsia:  asia,
		RegionChina: china,
	}
}
