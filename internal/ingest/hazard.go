// Package ingest canonicalizes raw upstream payloads into model types.
// Every alternate wire shape is resolved here, once, so the engine never
// branches on source quirks.
package ingest

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/meridian-policy/packet-cli/internal/model"
)

// hazardAliases maps upstream hazard identifiers to canonical codes. The
// four-letter keys are the NRI dataset's own type codes; the rest are
// spelled-out variants seen in exports.
var hazardAliases = map[string]string{
	"avln": model.HazardAvalanche,
	"cfld": model.HazardCoastalFlooding,
	"cwav": model.HazardColdWave,
	"drgt": model.HazardDrought,
	"erqk": model.HazardEarthquake,
	"hail": model.HazardHail,
	"hwav": model.HazardHeatWave,
	"hrcn": model.HazardHurricane,
	"istm": model.HazardIceStorm,
	"lnds": model.HazardLandslide,
	"ltng": model.HazardLightning,
	"rfld": model.HazardRiverineFlooding,
	"swnd": model.HazardStrongWind,
	"trnd": model.HazardTornado,
	"tsun": model.HazardTsunami,
	"vlcn": model.HazardVolcanic,
	"wfir": model.HazardWildfire,
	"wntw": model.HazardWinterWeather,

	"flooding_riverine": model.HazardRiverineFlooding,
	"flooding_coastal":  model.HazardCoastalFlooding,
	"flooding":          model.HazardRiverineFlooding,
	"flood":             model.HazardRiverineFlooding,
	"sea_level_rise":    model.HazardCoastalFlooding,
	"volcanic":          model.HazardVolcanic,
	"volcano":           model.HazardVolcanic,
	"extreme_heat":      model.HazardHeatWave,
	"extreme_cold":      model.HazardColdWave,
	"severe_storm":      model.HazardStrongWind,
	"wind":              model.HazardStrongWind,
	"winter_storm":      model.HazardWinterWeather,
}

var canonicalTypes = func() map[string]bool {
	m := map[string]bool{}
	for _, ht := range model.CanonicalHazardTypes() {
		m[ht] = true
	}
	return m
}()

// CanonicalHazardType resolves an upstream hazard identifier to one of
// the canonical codes. Unknown identifiers come back unchanged; the
// scoring tables simply won't match them.
func CanonicalHazardType(raw string) string {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), " ", "_")
	if canonicalTypes[key] {
		return key
	}
	if canonical, ok := hazardAliases[key]; ok {
		return canonical
	}
	return raw
}

type rawHazard struct {
	Type               string  `json:"type"`
	RiskScore          float64 `json:"risk_score"`
	Rating             string  `json:"rating"`
	ExpectedAnnualLoss float64 `json:"expected_annual_loss"`
}

type rawHazardProfile struct {
	TribeID       string      `json:"tribe_id"`
	Hazards       []rawHazard `json:"hazards"`
	CompositeRisk *float64    `json:"composite_risk"`
	Source        string      `json:"source"`
	AsOf          string      `json:"as_of"`
}

// hazardEnvelope covers the two wrapper shapes hazard payloads arrive
// in. Older exports nest the profile under "risk_index", newer ones
// under "nri".
type hazardEnvelope struct {
	RiskIndex *rawHazardProfile `json:"risk_index"`
	NRI       *rawHazardProfile `json:"nri"`
}

// ParseHazardPayload decodes a raw hazard payload, unwrapping whichever
// envelope it arrived in and aliasing hazard types to canonical codes.
func ParseHazardPayload(data []byte) (*model.HazardProfile, error) {
	var env hazardEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, eris.Wrap(err, "ingest: unmarshal hazard payload")
	}

	raw := env.RiskIndex
	if raw == nil {
		raw = env.NRI
	}
	if raw == nil {
		// Bare profile without an envelope.
		raw = &rawHazardProfile{}
		if err := json.Unmarshal(data, raw); err != nil {
			return nil, eris.Wrap(err, "ingest: unmarshal bare hazard payload")
		}
	}

	if raw.TribeID == "" {
		return nil, eris.New("ingest: hazard payload missing tribe_id")
	}

	p := &model.HazardProfile{
		TribeID:       raw.TribeID,
		CompositeRisk: raw.CompositeRisk,
		Source:        raw.Source,
		AsOf:          raw.AsOf,
	}
	for _, h := range raw.Hazards {
		p.Hazards = append(p.Hazards, model.Hazard{
			Type:               CanonicalHazardType(h.Type),
			RiskScore:          h.RiskScore,
			Rating:             h.Rating,
			ExpectedAnnualLoss: h.ExpectedAnnualLoss,
		})
	}
	return p, nil
}
