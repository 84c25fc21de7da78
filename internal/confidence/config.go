// Package confidence scores the reliability of cached upstream data from
// its source reputation and staleness.
package confidence

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Config holds the confidence model parameters.
type Config struct {
	// DecayRate is the exponential staleness rate per day of data age.
	DecayRate float64
	// FallbackStaleDays is the assumed age when a payload carries no
	// parseable timestamp.
	FallbackStaleDays float64
	// DefaultWeight applies to sources missing from SourceWeights.
	DefaultWeight float64
	// SourceWeights maps source identifiers to base reliability in [0,1].
	SourceWeights map[string]float64
}

// DefaultConfig returns the auditable default confidence parameters.
func DefaultConfig() Config {
	return Config{
		DecayRate:         0.01,
		FallbackStaleDays: 365,
		DefaultWeight:     0.50,
		SourceWeights: map[string]float64{
			"fema_nri":          0.95,
			"usaspending":       0.92,
			"congress_gov":      0.90,
			"sam_gov":           0.85,
			"census_tiger":      0.82,
			"grants_gov":        0.75,
			"tribal_submission": 0.70,
			"manual_entry":      0.60,
		},
	}
}

// ValidateConfig checks that a Config is internally consistent.
func ValidateConfig(c Config) error {
	var errs []string

	if c.DecayRate <= 0 {
		errs = append(errs, "decay_rate must be > 0")
	}
	if c.FallbackStaleDays < 0 {
		errs = append(errs, "fallback_stale_days must be >= 0")
	}
	if c.DefaultWeight < 0 || c.DefaultWeight > 1 {
		errs = append(errs, "default_weight must be between 0 and 1")
	}
	for name, w := range c.SourceWeights {
		if w < 0 || w > 1 {
			errs = append(errs, fmt.Sprintf("source_weights[%s] must be between 0 and 1", name))
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("confidence: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
