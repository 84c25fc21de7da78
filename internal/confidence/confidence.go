package confidence

import (
	"math"
	"time"

	"github.com/meridian-policy/packet-cli/internal/model"
)

// Level bands.
const (
	LevelHigh   = "high"
	LevelMedium = "medium"
	LevelLow    = "low"
)

// timestampLayouts are tried in order when parsing source-reported
// freshness timestamps. Upstreams are inconsistent about format.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC1123,
	"01/02/2006",
}

// Scorer computes section confidence scores.
type Scorer struct {
	cfg Config
}

// NewScorer returns a Scorer over the given config.
func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// WeightFor returns the base reliability weight for a source, clamped to
// [0,1]. Unknown sources get the configured default.
func (s *Scorer) WeightFor(source string) float64 {
	w, ok := s.cfg.SourceWeights[source]
	if !ok {
		w = s.cfg.DefaultWeight
	}
	if w < 0 {
		return 0
	}
	if w > 1 {
		return 1
	}
	return w
}

// AgeDays converts a source-reported timestamp into an age in days at the
// reference time. Empty or unparseable timestamps use the configured
// fallback staleness; future timestamps count as fresh.
func (s *Scorer) AgeDays(lastUpdated string, now time.Time) float64 {
	if lastUpdated == "" {
		return s.cfg.FallbackStaleDays
	}
	var ts time.Time
	parsed := false
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, lastUpdated); err == nil {
			ts = t
			parsed = true
			break
		}
	}
	if !parsed {
		return s.cfg.FallbackStaleDays
	}
	age := now.Sub(ts).Hours() / 24
	if age < 0 {
		return 0
	}
	return age
}

// ScoreWeight applies exponential staleness decay to a base weight:
// weight * e^(-rate * ageDays), rounded to three decimals.
func (s *Scorer) ScoreWeight(weight float64, lastUpdated string, now time.Time) float64 {
	age := s.AgeDays(lastUpdated, now)
	score := weight * math.Exp(-s.cfg.DecayRate*age)
	return math.Round(score*1000) / 1000
}

// Score computes the confidence score for one cached payload.
func (s *Scorer) Score(source, lastUpdated string, now time.Time) float64 {
	return s.ScoreWeight(s.WeightFor(source), lastUpdated, now)
}

// Annotate builds the section confidence annotation for one payload.
func (s *Scorer) Annotate(source, lastUpdated string, now time.Time) model.SectionConfidence {
	score := s.Score(source, lastUpdated, now)
	return model.SectionConfidence{
		Source: source,
		Score:  score,
		Level:  Level(score),
	}
}

// Level maps a confidence score to its display band.
func Level(score float64) string {
	switch {
	case score >= 0.7:
		return LevelHigh
	case score >= 0.4:
		return LevelMedium
	default:
		return LevelLow
	}
}
