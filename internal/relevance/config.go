// Package relevance ranks the federal program catalog for one tribe from
// priority tiers, hazard exposure, and geography.
package relevance

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/meridian-policy/packet-cli/internal/model"
)

// Component keys in ScoredProgram breakdowns.
const (
	ComponentBase     = "base"
	ComponentAlways   = "always_relevant"
	ComponentCritical = "critical"
	ComponentHazard   = "hazard"
	ComponentGeo      = "geo"
)

// Config holds the relevance scoring constants.
type Config struct {
	// TierWeights is the base score per priority tier.
	TierWeights map[model.Tier]float64
	// AlwaysRelevant programs get AlwaysBonus regardless of inputs.
	AlwaysRelevant []string
	AlwaysBonus    float64
	// CriticalBonus keeps critical-tier programs ahead of trimming.
	CriticalBonus float64
	// Hazard rank bonus: max(HazardRankBase - HazardRankStep*rank,
	// HazardRankFloor) added to every program mapped from the hazard.
	HazardRankBase  float64
	HazardRankStep  float64
	HazardRankFloor float64
	// GeoBonus applies once per program on a matching geography list.
	GeoBonus float64
	// HazardPrograms maps canonical hazard codes to the programs that
	// address them.
	HazardPrograms map[string][]string
	// GeoPriorityPrograms maps geographic classification codes to their
	// priority programs.
	GeoPriorityPrograms map[string][]string
	// Packet size bounds.
	MinPrograms   int
	MaxPrograms   int
	AbsoluteFloor int
}

// DefaultConfig returns the auditable default relevance constants.
func DefaultConfig() Config {
	return Config{
		TierWeights: map[model.Tier]float64{
			model.TierCritical: 30,
			model.TierHigh:     20,
			model.TierMedium:   10,
			model.TierLow:      5,
		},
		AlwaysRelevant: []string{
			"epa-gap", "bia-climate-resilience", "hud-icdbg",
			"dot-tribal-transportation",
		},
		AlwaysBonus:     15,
		CriticalBonus:   50,
		HazardRankBase:  25,
		HazardRankStep:  5,
		HazardRankFloor: 5,
		GeoBonus:        10,
		HazardPrograms: map[string][]string{
			model.HazardAvalanche:        {"fema-hmgp", "bia-roads-maintenance"},
			model.HazardCoastalFlooding:  {"noaa-coastal-resilience", "fema-bric", "fema-fma", "usace-tribal-partnership"},
			model.HazardColdWave:         {"hhs-liheap", "doe-weatherization", "bia-hip"},
			model.HazardDrought:          {"bor-watersmart", "usda-water-environmental", "bia-climate-resilience"},
			model.HazardEarthquake:       {"fema-bric", "fema-hmgp", "bia-hip"},
			model.HazardHail:             {"fema-hmgp", "bia-hip"},
			model.HazardHeatWave:         {"hhs-liheap", "doe-weatherization", "epa-gap"},
			model.HazardHurricane:        {"fema-bric", "fema-hmgp", "noaa-coastal-resilience", "hud-icdbg"},
			model.HazardIceStorm:         {"doe-grid-resilience", "hhs-liheap", "bia-roads-maintenance"},
			model.HazardLandslide:        {"fema-hmgp", "bia-roads-maintenance", "dot-tribal-transportation"},
			model.HazardLightning:        {"bia-fuels-management", "doe-grid-resilience"},
			model.HazardRiverineFlooding: {"fema-fma", "fema-bric", "usace-tribal-partnership", "usda-water-environmental"},
			model.HazardStrongWind:       {"doe-grid-resilience", "fema-hmgp"},
			model.HazardTornado:          {"fema-hmgp", "fema-bric", "bia-hip"},
			model.HazardTsunami:          {"noaa-coastal-resilience", "fema-bric"},
			model.HazardVolcanic:         {"fema-hmgp", "bia-roads-maintenance"},
			model.HazardWildfire:         {"usda-community-wildfire", "bia-fuels-management", "fema-bric", "doe-grid-resilience"},
			model.HazardWinterWeather:    {"hhs-liheap", "doe-weatherization", "dot-tribal-transportation"},
		},
		GeoPriorityPrograms: map[string][]string{
			"coastal":        {"noaa-coastal-resilience", "usace-tribal-partnership"},
			"riverine":       {"fema-fma", "usace-tribal-partnership"},
			"arid_southwest": {"bor-watersmart", "usda-water-environmental"},
			"great_plains":   {"doe-grid-resilience", "usda-water-environmental"},
			"alaska":         {"ihs-sanitation", "doe-indian-energy", "usda-water-environmental"},
			"forested":       {"usda-community-wildfire", "bia-fuels-management"},
			"large_landbase": {"dot-tribal-transportation", "bia-roads-maintenance"},
			"mid_landbase":   {"dot-tribal-transportation"},
			"small_landbase": {"hud-icdbg", "cdfi-native"},
		},
		MinPrograms:   8,
		MaxPrograms:   12,
		AbsoluteFloor: 3,
	}
}

// ValidateConfig checks that a Config is internally consistent.
func ValidateConfig(c Config) error {
	var errs []string

	for _, tier := range []model.Tier{model.TierCritical, model.TierHigh, model.TierMedium, model.TierLow} {
		w, ok := c.TierWeights[tier]
		if !ok {
			errs = append(errs, fmt.Sprintf("tier_weights missing %s", tier))
			continue
		}
		if w < 0 {
			errs = append(errs, fmt.Sprintf("tier_weights[%s] must be >= 0", tier))
		}
	}

	if c.AlwaysBonus < 0 {
		errs = append(errs, "always_bonus must be >= 0")
	}
	if c.CriticalBonus < 0 {
		errs = append(errs, "critical_bonus must be >= 0")
	}
	if c.HazardRankBase < 0 || c.HazardRankStep < 0 {
		errs = append(errs, "hazard rank base and step must be >= 0")
	}
	if c.HazardRankFloor < 0 || c.HazardRankFloor > c.HazardRankBase {
		errs = append(errs, "hazard_rank_floor must be between 0 and hazard_rank_base")
	}
	if c.GeoBonus < 0 {
		errs = append(errs, "geo_bonus must be >= 0")
	}

	if c.MinPrograms <= 0 || c.MaxPrograms <= 0 {
		errs = append(errs, "min_programs and max_programs must be > 0")
	}
	if c.MinPrograms > c.MaxPrograms {
		errs = append(errs, "min_programs must be <= max_programs")
	}
	if c.AbsoluteFloor <= 0 || c.AbsoluteFloor > c.MinPrograms {
		errs = append(errs, "absolute_floor must be between 1 and min_programs")
	}

	if len(errs) > 0 {
		return eris.Errorf("relevance: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
