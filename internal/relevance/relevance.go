package relevance

import (
	"math"
	"sort"

	"github.com/meridian-policy/packet-cli/internal/model"
)

// Filter scores and selects catalog programs for one tribe.
type Filter struct {
	cfg    Config
	always map[string]bool
}

// NewFilter creates a Filter over the given config.
func NewFilter(cfg Config) *Filter {
	always := make(map[string]bool, len(cfg.AlwaysRelevant))
	for _, id := range cfg.AlwaysRelevant {
		always[id] = true
	}
	return &Filter{cfg: cfg, always: always}
}

// ScorePrograms scores every catalog program for the tribe described by
// the hazard profile, geographic classes, and caller priority override.
// The result covers the whole catalog, sorted by score descending with
// tier weight and program ID as tie-breaks.
func (f *Filter) ScorePrograms(catalog []model.Program, profile *model.HazardProfile, geoClasses, extraPriority []string) []model.ScoredProgram {
	hazardBonus := f.hazardBonuses(profile)
	geoSet := f.geoPrioritySet(geoClasses, extraPriority)

	scored := make([]model.ScoredProgram, 0, len(catalog))
	for _, p := range catalog {
		components := map[string]float64{}

		if base := f.cfg.TierWeights[p.Tier]; base > 0 {
			components[ComponentBase] = base
		}
		if f.always[p.ID] {
			components[ComponentAlways] = f.cfg.AlwaysBonus
		}
		if p.Tier == model.TierCritical {
			components[ComponentCritical] = f.cfg.CriticalBonus
		}
		if b := hazardBonus[p.ID]; b > 0 {
			components[ComponentHazard] = b
		}
		if geoSet[p.ID] {
			components[ComponentGeo] = f.cfg.GeoBonus
		}

		total := 0.0
		for _, v := range components {
			total += v
		}

		scored = append(scored, model.ScoredProgram{
			Program:    p,
			Score:      math.Round(total*100) / 100,
			Components: components,
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		wi := f.cfg.TierWeights[scored[i].Program.Tier]
		wj := f.cfg.TierWeights[scored[j].Program.Tier]
		if wi != wj {
			return wi > wj
		}
		return scored[i].Program.ID < scored[j].Program.ID
	})
	return scored
}

// hazardBonuses accumulates the rank bonus per program over the
// profile's hazards in rank order. Hazard types missing from the table
// are skipped.
func (f *Filter) hazardBonuses(profile *model.HazardProfile) map[string]float64 {
	bonus := map[string]float64{}
	for rank, h := range profile.Ranked() {
		b := f.cfg.HazardRankBase - f.cfg.HazardRankStep*float64(rank)
		if b < f.cfg.HazardRankFloor {
			b = f.cfg.HazardRankFloor
		}
		for _, id := range f.cfg.HazardPrograms[h.Type] {
			bonus[id] += b
		}
	}
	return bonus
}

// geoPrioritySet unions the priority lists of the given geographic
// classes with the caller override.
func (f *Filter) geoPrioritySet(geoClasses, extraPriority []string) map[string]bool {
	set := map[string]bool{}
	for _, class := range geoClasses {
		for _, id := range f.cfg.GeoPriorityPrograms[class] {
			set[id] = true
		}
	}
	for _, id := range extraPriority {
		set[id] = true
	}
	return set
}

// Select clamps the scored catalog to the packet size bounds. Candidates
// are programs with a positive score; zero-scored catalog entries only
// appear as padding when the candidate list comes up short. When
// critical-tier programs alone exceed the upper bound the result keeps
// them all and exceeds the bound.
func (f *Filter) Select(scored []model.ScoredProgram) []model.ScoredProgram {
	var candidates, rest []model.ScoredProgram
	for _, sp := range scored {
		if sp.Score > 0 {
			candidates = append(candidates, sp)
		} else {
			rest = append(rest, sp)
		}
	}

	var out []model.ScoredProgram
	switch {
	case len(candidates) > f.cfg.MaxPrograms:
		var nonCritical []model.ScoredProgram
		for _, sp := range candidates {
			if sp.Program.Tier == model.TierCritical {
				out = append(out, sp)
			} else {
				nonCritical = append(nonCritical, sp)
			}
		}
		for _, sp := range nonCritical {
			if len(out) >= f.cfg.MaxPrograms {
				break
			}
			out = append(out, sp)
		}
	default:
		out = append(out, candidates...)
		for len(out) < f.cfg.MinPrograms && len(rest) > 0 {
			out = append(out, rest[0])
			rest = rest[1:]
		}
		for len(out) < f.cfg.AbsoluteFloor && len(rest) > 0 {
			out = append(out, rest[0])
			rest = rest[1:]
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		wi := f.cfg.TierWeights[out[i].Program.Tier]
		wj := f.cfg.TierWeights[out[j].Program.Tier]
		if wi != wj {
			return wi > wj
		}
		return out[i].Program.ID < out[j].Program.ID
	})
	return out
}

// Filter runs both stages: score the catalog, then select the packet
// list.
func (f *Filter) Filter(catalog []model.Program, profile *model.HazardProfile, geoClasses, extraPriority []string) []model.ScoredProgram {
	return f.Select(f.ScorePrograms(catalog, profile, geoClasses, extraPriority))
}

// Omitted returns the catalog programs absent from the included list,
// sorted by tier weight descending then ID.
func (f *Filter) Omitted(catalog []model.Program, included []model.ScoredProgram) []model.Program {
	in := make(map[string]bool, len(included))
	for _, sp := range included {
		in[sp.Program.ID] = true
	}
	var out []model.Program
	for _, p := range catalog {
		if !in[p.ID] {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		wi := f.cfg.TierWeights[out[i].Tier]
		wj := f.cfg.TierWeights[out[j].Tier]
		if wi != wj {
			return wi > wj
		}
		return out[i].ID < out[j].ID
	})
	return out
}
