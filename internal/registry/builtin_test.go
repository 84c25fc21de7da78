package registry

import (
	"testing"

	"github.com/meridian-policy/packet-cli/internal/impact"
	"github.com/meridian-policy/packet-cli/internal/model"
	"github.com/meridian-policy/packet-cli/internal/relevance"
)

func TestBuiltinProgramsUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range BuiltinPrograms() {
		if p.ID == "" || p.Name == "" {
			t.Errorf("program missing id or name: %+v", p)
		}
		if seen[p.ID] {
			t.Errorf("duplicate program id %s", p.ID)
		}
		seen[p.ID] = true
		switch p.Tier {
		case model.TierCritical, model.TierHigh, model.TierMedium, model.TierLow:
		default:
			t.Errorf("program %s has unknown tier %q", p.ID, p.Tier)
		}
	}
}

func TestBuiltinRegions(t *testing.T) {
	seen := map[string]bool{}
	var national bool
	for _, r := range BuiltinRegions() {
		if seen[r.ID] {
			t.Errorf("duplicate region id %s", r.ID)
		}
		seen[r.ID] = true
		if r.ID == "national" {
			national = true
			if len(r.States) != 0 {
				t.Errorf("national region must have no state filter, got %v", r.States)
			}
		}
	}
	if !national {
		t.Error("expected a national region")
	}
}

// Every program id referenced by the scoring and impact tables must
// resolve against the builtin catalog, or scoring silently misses it.
func TestScoringTablesResolveAgainstCatalog(t *testing.T) {
	r := New(BuiltinPrograms(), nil, BuiltinRegions())

	rcfg := relevance.DefaultConfig()
	for _, id := range rcfg.AlwaysRelevant {
		if r.ProgramByID(id) == nil {
			t.Errorf("always_relevant program %s not in catalog", id)
		}
	}
	for hazard, ids := range rcfg.HazardPrograms {
		for _, id := range ids {
			if r.ProgramByID(id) == nil {
				t.Errorf("hazard %s maps to unknown program %s", hazard, id)
			}
		}
	}
	for geo, ids := range rcfg.GeoPriorityPrograms {
		for _, id := range ids {
			if r.ProgramByID(id) == nil {
				t.Errorf("geography %s maps to unknown program %s", geo, id)
			}
		}
	}

	icfg := impact.DefaultConfig()
	for _, id := range icfg.MitigationPrograms {
		if r.ProgramByID(id) == nil {
			t.Errorf("mitigation program %s not in catalog", id)
		}
	}
	for id := range icfg.BenchmarkAwards {
		if r.ProgramByID(id) == nil {
			t.Errorf("benchmark program %s not in catalog", id)
		}
	}

	for _, reg := range BuiltinRegions() {
		for _, id := range reg.PriorityPrograms {
			if r.ProgramByID(id) == nil {
				t.Errorf("region %s priority program %s not in catalog", reg.ID, id)
			}
		}
	}
}

func TestHazardTablesCoverCanonicalTypes(t *testing.T) {
	rcfg := relevance.DefaultConfig()
	for _, ht := range model.CanonicalHazardTypes() {
		if len(rcfg.HazardPrograms[ht]) == 0 {
			t.Errorf("canonical hazard %s has no mapped programs", ht)
		}
	}
}
