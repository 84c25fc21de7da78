// Package impact estimates the local economic effect of federal funding
// flows using multiplier ranges and typical-award benchmarks.
package impact

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Config holds the economic impact model parameters.
type Config struct {
	// Multiplier range applied to award dollars.
	ImpactLowMultiplier  float64
	ImpactHighMultiplier float64
	// Jobs supported per $1M of award dollars.
	JobsPerMillionLow  float64
	JobsPerMillionHigh float64
	// MitigationBCR is the benefit-cost ratio attached to hazard
	// mitigation programs.
	MitigationBCR      float64
	MitigationPrograms []string
	// BenchmarkAwards maps program IDs to typical award sizes used when
	// no funding has been observed. DefaultBenchmark covers the rest.
	BenchmarkAwards  map[string]float64
	DefaultBenchmark float64
}

// DefaultConfig returns the auditable default impact parameters.
func DefaultConfig() Config {
	return Config{
		ImpactLowMultiplier:  1.8,
		ImpactHighMultiplier: 2.4,
		JobsPerMillionLow:    8,
		JobsPerMillionHigh:   15,
		MitigationBCR:        4.0,
		MitigationPrograms: []string{
			"fema-bric", "fema-hmgp", "fema-fma",
			"usda-community-wildfire", "bia-climate-resilience",
			"bia-fuels-management",
		},
		BenchmarkAwards: map[string]float64{
			"fema-bric":                 1_800_000,
			"fema-hmgp":                 950_000,
			"dot-tribal-transportation": 1_200_000,
			"hud-icdbg":                 850_000,
			"ihs-sanitation":            780_000,
			"fema-fma":                  600_000,
			"usda-water-environmental":  550_000,
			"noaa-coastal-resilience":   700_000,
			"doe-indian-energy":         650_000,
			"bor-watersmart":            400_000,
			"epa-gap":                   160_000,
		},
		DefaultBenchmark: 500_000,
	}
}

// ValidateConfig checks that a Config is internally consistent.
func ValidateConfig(c Config) error {
	var errs []string

	if c.ImpactLowMultiplier <= 0 {
		errs = append(errs, "impact_low_multiplier must be > 0")
	}
	if c.ImpactHighMultiplier < c.ImpactLowMultiplier {
		errs = append(errs, "impact_high_multiplier must be >= impact_low_multiplier")
	}
	if c.JobsPerMillionLow < 0 {
		errs = append(errs, "jobs_per_million_low must be >= 0")
	}
	if c.JobsPerMillionHigh < c.JobsPerMillionLow {
		errs = append(errs, "jobs_per_million_high must be >= jobs_per_million_low")
	}
	if c.MitigationBCR < 0 {
		errs = append(errs, "mitigation_bcr must be >= 0")
	}
	if c.DefaultBenchmark <= 0 {
		errs = append(errs, "default_benchmark must be > 0")
	}
	for id, amt := range c.BenchmarkAwards {
		if amt <= 0 {
			errs = append(errs, fmt.Sprintf("benchmark_awards[%s] must be > 0", id))
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("impact: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
