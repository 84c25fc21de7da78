package pipeline

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/meridian-policy/packet-cli/internal/model"
	"github.com/meridian-policy/packet-cli/internal/region"
)

// RegionInputs reads every member tribe's cached inputs and computes
// per-tribe economic totals for regional aggregation. Every member gets
// an entry; tribes with nothing cached carry nil fields and surface as
// coverage gaps downstream.
func (g *Generator) RegionInputs(ctx context.Context, regionID string, agg *region.Aggregator) (map[string]*region.TribeData, error) {
	members, err := agg.TribesForRegion(regionID)
	if err != nil {
		return nil, err
	}

	out := make(map[string]*region.TribeData, len(members))
	for _, id := range members {
		tribe := g.registry.TribeByID(id)
		if tribe == nil {
			continue
		}
		td := &region.TribeData{Tribe: *tribe}

		if td.Hazards, err = g.store.GetHazardProfile(ctx, id); err != nil {
			return nil, eris.Wrapf(err, "pipeline: read hazard profile for %s", id)
		}
		set, err := g.store.GetAwards(ctx, id)
		if err != nil {
			return nil, eris.Wrapf(err, "pipeline: read awards for %s", id)
		}
		if set != nil && len(set.Awards) > 0 {
			td.Awards = set.Awards
			totals := observedTotals(g.calc.Compute(set.Awards, g.registry.Programs()))
			td.Economic = &totals
		}
		if td.Delegation, err = g.store.GetDelegation(ctx, id); err != nil {
			return nil, eris.Wrapf(err, "pipeline: read delegation for %s", id)
		}
		out[id] = td
	}
	return out, nil
}

// observedTotals reduces an economic summary to the impact of observed
// dollars, leaving benchmark rows out. Regional roll-ups would otherwise
// repeat the full catalog's benchmarks once per member tribe.
func observedTotals(s model.EconomicSummary) model.ImpactTotals {
	var t model.ImpactTotals
	for _, r := range s.Programs {
		if r.IsBenchmark {
			continue
		}
		t.Add(r)
	}
	return t
}
