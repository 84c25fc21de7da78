package model

import "sort"

// Canonical hazard type codes. Upstream payloads are normalized to these
// during ingest; anything else passes through untyped and simply misses
// the program-mapping tables.
const (
	HazardAvalanche        = "avalanche"
	HazardCoastalFlooding  = "coastal_flooding"
	HazardColdWave         = "cold_wave"
	HazardDrought          = "drought"
	HazardEarthquake       = "earthquake"
	HazardHail             = "hail"
	HazardHeatWave         = "heat_wave"
	HazardHurricane        = "hurricane"
	HazardIceStorm         = "ice_storm"
	HazardLandslide        = "landslide"
	HazardLightning        = "lightning"
	HazardRiverineFlooding = "riverine_flooding"
	HazardStrongWind       = "strong_wind"
	HazardTornado          = "tornado"
	HazardTsunami          = "tsunami"
	HazardVolcanic         = "volcanic_activity"
	HazardWildfire         = "wildfire"
	HazardWinterWeather    = "winter_weather"
)

// CanonicalHazardTypes lists every recognized hazard code.
func CanonicalHazardTypes() []string {
	return []string{
		HazardAvalanche, HazardCoastalFlooding, HazardColdWave,
		HazardDrought, HazardEarthquake, HazardHail, HazardHeatWave,
		HazardHurricane, HazardIceStorm, HazardLandslide, HazardLightning,
		HazardRiverineFlooding, HazardStrongWind, HazardTornado,
		HazardTsunami, HazardVolcanic, HazardWildfire, HazardWinterWeather,
	}
}

// Hazard is one hazard observation from a tribe's risk profile.
type Hazard struct {
	Type               string  `json:"type"`
	RiskScore          float64 `json:"risk_score"`
	Rating             string  `json:"rating,omitempty"`
	ExpectedAnnualLoss float64 `json:"expected_annual_loss,omitempty"`
}

// HazardProfile is the cached risk profile for one tribe.
type HazardProfile struct {
	TribeID       string   `json:"tribe_id"`
	Hazards       []Hazard `json:"hazards"`
	CompositeRisk *float64 `json:"composite_risk,omitempty"`
	Source        string   `json:"source,omitempty"`
	AsOf          string   `json:"as_of,omitempty"`
}

// Ranked returns the hazards ordered by risk score descending, type
// ascending on ties. The receiver is not modified.
func (p *HazardProfile) Ranked() []Hazard {
	if p == nil || len(p.Hazards) == 0 {
		return nil
	}
	out := make([]Hazard, len(p.Hazards))
	copy(out, p.Hazards)
	sort.Slice(out, func(i, j int) bool {
		if out[i].RiskScore != out[j].RiskScore {
			return out[i].RiskScore > out[j].RiskScore
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// TopTypes returns the type codes of the n highest-risk hazards.
func (p *HazardProfile) TopTypes(n int) []string {
	ranked := p.Ranked()
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	types := make([]string, 0, len(ranked))
	for _, h := range ranked {
		types = append(types, h.Type)
	}
	return types
}

// Usable reports whether the profile carries at least one hazard with a
// positive risk score.
func (p *HazardProfile) Usable() bool {
	if p == nil {
		return false
	}
	for _, h := range p.Hazards {
		if h.RiskScore > 0 {
			return true
		}
	}
	return false
}
