package relevance

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-policy/packet-cli/internal/model"
)

func catalogOf(tiers map[model.Tier]int) []model.Program {
	var out []model.Program
	for _, tier := range []model.Tier{model.TierCritical, model.TierHigh, model.TierMedium, model.TierLow} {
		for i := 0; i < tiers[tier]; i++ {
			out = append(out, model.Program{
				ID:   fmt.Sprintf("%s-%02d", tier, i),
				Name: fmt.Sprintf("%s program %d", tier, i),
				Tier: tier,
			})
		}
	}
	return out
}

func TestScoreProgramsComponents(t *testing.T) {
	t.Parallel()
	f := NewFilter(DefaultConfig())

	catalog := []model.Program{
		{ID: "fema-bric", Name: "BRIC", Tier: model.TierCritical},
		{ID: "epa-gap", Name: "GAP", Tier: model.TierHigh},
		{ID: "usda-community-wildfire", Name: "CWDG", Tier: model.TierMedium},
		{ID: "bia-hip", Name: "HIP", Tier: model.TierLow},
	}
	profile := &model.HazardProfile{Hazards: []model.Hazard{
		{Type: model.HazardWildfire, RiskScore: 95},
		{Type: model.HazardHeatWave, RiskScore: 80},
		{Type: model.HazardDrought, RiskScore: 60},
	}}

	scored := f.ScorePrograms(catalog, profile, []string{"forested"}, []string{"bia-hip"})
	require.Len(t, scored, 4)

	byID := map[string]model.ScoredProgram{}
	for _, sp := range scored {
		byID[sp.Program.ID] = sp
	}

	bric := byID["fema-bric"]
	assert.InDelta(t, 30, bric.Components[ComponentBase], 0.001)
	assert.InDelta(t, 50, bric.Components[ComponentCritical], 0.001)
	assert.InDelta(t, 25, bric.Components[ComponentHazard], 0.001) // wildfire at rank 0
	assert.InDelta(t, 105, bric.Score, 0.001)

	gap := byID["epa-gap"]
	assert.InDelta(t, 20, gap.Components[ComponentBase], 0.001)
	assert.InDelta(t, 15, gap.Components[ComponentAlways], 0.001)
	assert.InDelta(t, 20, gap.Components[ComponentHazard], 0.001) // heat wave at rank 1
	assert.InDelta(t, 55, gap.Score, 0.001)

	cwdg := byID["usda-community-wildfire"]
	assert.InDelta(t, 25, cwdg.Components[ComponentHazard], 0.001)
	assert.InDelta(t, 10, cwdg.Components[ComponentGeo], 0.001) // forested priority list
	assert.InDelta(t, 45, cwdg.Score, 0.001)

	hip := byID["bia-hip"]
	assert.InDelta(t, 10, hip.Components[ComponentGeo], 0.001) // caller override
	assert.InDelta(t, 15, hip.Score, 0.001)

	// Sorted by score descending.
	assert.Equal(t, "fema-bric", scored[0].Program.ID)
	assert.Equal(t, "epa-gap", scored[1].Program.ID)
	assert.Equal(t, "usda-community-wildfire", scored[2].Program.ID)
	assert.Equal(t, "bia-hip", scored[3].Program.ID)
}

func TestScoreProgramsHazardRankDecay(t *testing.T) {
	t.Parallel()
	f := NewFilter(DefaultConfig())

	// noaa-coastal-resilience is mapped only from tsunami, ranked 6th
	// here (rank 5), so its bonus bottoms out at the floor.
	profile := &model.HazardProfile{Hazards: []model.Hazard{
		{Type: model.HazardColdWave, RiskScore: 90},
		{Type: model.HazardDrought, RiskScore: 85},
		{Type: model.HazardHail, RiskScore: 80},
		{Type: model.HazardLightning, RiskScore: 75},
		{Type: model.HazardStrongWind, RiskScore: 70},
		{Type: model.HazardTsunami, RiskScore: 65},
	}}
	catalog := []model.Program{{ID: "noaa-coastal-resilience", Tier: model.TierHigh}}

	scored := f.ScorePrograms(catalog, profile, nil, nil)
	require.Len(t, scored, 1)
	assert.InDelta(t, 5, scored[0].Components[ComponentHazard], 0.001)
	assert.InDelta(t, 25, scored[0].Score, 0.001)
}

func TestScoreProgramsUnknownHazardSkipped(t *testing.T) {
	t.Parallel()
	f := NewFilter(DefaultConfig())

	profile := &model.HazardProfile{Hazards: []model.Hazard{
		{Type: "space_weather", RiskScore: 99},
	}}
	catalog := []model.Program{{ID: "fema-bric", Tier: model.TierCritical}}

	scored := f.ScorePrograms(catalog, profile, nil, nil)
	require.Len(t, scored, 1)
	assert.NotContains(t, scored[0].Components, ComponentHazard)
	assert.InDelta(t, 80, scored[0].Score, 0.001)
}

func TestScoreProgramsNilProfile(t *testing.T) {
	t.Parallel()
	f := NewFilter(DefaultConfig())

	scored := f.ScorePrograms(catalogOf(map[model.Tier]int{model.TierHigh: 2}), nil, nil, nil)
	require.Len(t, scored, 2)
	for _, sp := range scored {
		assert.InDelta(t, 20, sp.Score, 0.001)
	}
	// Tie-break on ID keeps ordering stable.
	assert.Equal(t, "high-00", scored[0].Program.ID)
	assert.Equal(t, "high-01", scored[1].Program.ID)
}

func TestSelectTrimsToMax(t *testing.T) {
	t.Parallel()
	f := NewFilter(DefaultConfig())

	catalog := catalogOf(map[model.Tier]int{
		model.TierCritical: 2,
		model.TierHigh:     8,
		model.TierMedium:   5,
		model.TierLow:      5,
	})
	selected := f.Filter(catalog, nil, nil, nil)

	assert.Len(t, selected, 12)
	critical := 0
	for _, sp := range selected {
		if sp.Program.Tier == model.TierCritical {
			critical++
		}
	}
	assert.Equal(t, 2, critical, "every critical program survives trimming")
	for _, sp := range selected {
		assert.NotEqual(t, model.TierLow, sp.Program.Tier, "low tier trimmed before higher tiers")
	}
}

func TestSelectCriticalOverflowExceedsMax(t *testing.T) {
	t.Parallel()
	f := NewFilter(DefaultConfig())

	catalog := catalogOf(map[model.Tier]int{
		model.TierCritical: 14,
		model.TierHigh:     4,
	})
	selected := f.Filter(catalog, nil, nil, nil)

	assert.Len(t, selected, 14)
	for _, sp := range selected {
		assert.Equal(t, model.TierCritical, sp.Program.Tier)
	}
}

func TestSelectPadsToMin(t *testing.T) {
	t.Parallel()
	f := NewFilter(DefaultConfig())

	// Only 4 programs carry a known tier; the rest score zero and serve
	// as padding.
	catalog := catalogOf(map[model.Tier]int{model.TierHigh: 4})
	for i := 0; i < 6; i++ {
		catalog = append(catalog, model.Program{ID: fmt.Sprintf("untiered-%02d", i)})
	}

	selected := f.Filter(catalog, nil, nil, nil)
	assert.Len(t, selected, 8)

	padded := 0
	for _, sp := range selected {
		if sp.Score == 0 {
			padded++
		}
	}
	assert.Equal(t, 4, padded)
}

func TestSelectCatalogExhaustion(t *testing.T) {
	t.Parallel()
	f := NewFilter(DefaultConfig())

	catalog := catalogOf(map[model.Tier]int{model.TierHigh: 3, model.TierLow: 2})
	selected := f.Filter(catalog, nil, nil, nil)
	assert.Len(t, selected, 5, "a short catalog is used whole")
}

func TestSelectKeepsScoreOrder(t *testing.T) {
	t.Parallel()
	f := NewFilter(DefaultConfig())

	catalog := catalogOf(map[model.Tier]int{
		model.TierCritical: 3,
		model.TierHigh:     6,
		model.TierMedium:   6,
	})
	selected := f.Filter(catalog, nil, nil, nil)

	require.Len(t, selected, 12)
	for i := 1; i < len(selected); i++ {
		assert.GreaterOrEqual(t, selected[i-1].Score, selected[i].Score)
	}
}

func TestOmitted(t *testing.T) {
	t.Parallel()
	f := NewFilter(DefaultConfig())

	catalog := catalogOf(map[model.Tier]int{
		model.TierCritical: 1,
		model.TierHigh:     2,
		model.TierMedium:   14,
	})
	selected := f.Filter(catalog, nil, nil, nil)
	require.Len(t, selected, 12)

	omitted := f.Omitted(catalog, selected)
	require.Len(t, omitted, 5)
	for _, p := range omitted {
		assert.Equal(t, model.TierMedium, p.Tier, "only medium programs fall out")
	}
	for i := 1; i < len(omitted); i++ {
		assert.Less(t, omitted[i-1].ID, omitted[i].ID)
	}

	// Included and omitted partition the catalog.
	assert.Equal(t, len(catalog), len(selected)+len(omitted))
}

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	t.Run("default config is valid", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, ValidateConfig(DefaultConfig()))
	})

	t.Run("rejects missing tier weight", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		delete(cfg.TierWeights, model.TierMedium)
		err := ValidateConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tier_weights missing medium")
	})

	t.Run("rejects inverted bounds", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.MinPrograms = 15
		err := ValidateConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "min_programs must be <= max_programs")
	})

	t.Run("rejects floor above min", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.AbsoluteFloor = 10
		err := ValidateConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "absolute_floor")
	})
}
