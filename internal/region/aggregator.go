// Package region resolves regional tribe membership and synthesizes
// cross-tribe advocacy context from per-tribe inputs.
package region

import (
	"sort"
	"sync"
	"time"

	"github.com/rotisserie/eris"

	"github.com/meridian-policy/packet-cli/internal/model"
)

// TribeData carries one member tribe's inputs into aggregation. Economic
// totals arrive already computed; aggregation never recomputes them.
type TribeData struct {
	Tribe      model.Tribe
	Hazards    *model.HazardProfile
	Awards     []model.Award
	Delegation *model.Delegation
	Economic   *model.ImpactTotals
}

// Aggregator resolves region membership and builds regional syntheses.
// Membership is computed once per region ID and cached; the cache is the
// only shared state and is safe for concurrent readers.
type Aggregator struct {
	defs   map[string]model.RegionDef
	tribes []model.Tribe

	mu      sync.RWMutex
	members map[string][]string
}

// NewAggregator creates an Aggregator over the given region definitions
// and tribe registry.
func NewAggregator(defs []model.RegionDef, tribes []model.Tribe) *Aggregator {
	byID := make(map[string]model.RegionDef, len(defs))
	for _, d := range defs {
		byID[d.ID] = d
	}
	return &Aggregator{
		defs:    byID,
		tribes:  tribes,
		members: map[string][]string{},
	}
}

// TribesForRegion returns the sorted member tribe IDs for a region. A
// tribe belongs when its state set intersects the region's; a region
// with no states matches every tribe. Unknown region IDs error.
func (a *Aggregator) TribesForRegion(regionID string) ([]string, error) {
	a.mu.RLock()
	ids, ok := a.members[regionID]
	a.mu.RUnlock()
	if ok {
		return ids, nil
	}

	def, ok := a.defs[regionID]
	if !ok {
		return nil, eris.Errorf("region: unknown region %q", regionID)
	}

	regionStates := make(map[string]bool, len(def.States))
	for _, s := range def.States {
		regionStates[s] = true
	}

	ids = []string{}
	for _, t := range a.tribes {
		if len(regionStates) == 0 {
			ids = append(ids, t.ID)
			continue
		}
		for _, s := range t.States {
			if regionStates[s] {
				ids = append(ids, t.ID)
				break
			}
		}
	}
	sort.Strings(ids)

	a.mu.Lock()
	a.members[regionID] = ids
	a.mu.Unlock()
	return ids, nil
}

// Aggregate composes the regional synthesis for a region from per-tribe
// data. Tribes missing from data count toward every coverage gap.
func (a *Aggregator) Aggregate(regionID string, now time.Time, data map[string]*TribeData) (*model.RegionalContext, error) {
	members, err := a.TribesForRegion(regionID)
	if err != nil {
		return nil, err
	}
	def := a.defs[regionID]

	total, withAwards := AwardSummary(members, data)
	risk, riskCount := CompositeRisk(members, data)
	overlap, senators, reps := DelegationOverlap(members, data)

	return &model.RegionalContext{
		RegionID:            regionID,
		RegionName:          def.Name,
		GeneratedAt:         now,
		TribeIDs:            members,
		TribeCount:          len(members),
		TotalAwarded:        total,
		TribesWithAwards:    withAwards,
		SharedHazards:       SharedHazards(members, data),
		CompositeRisk:       risk,
		CompositeRiskCount:  riskCount,
		DelegationOverlap:   overlap,
		SenatorCount:        senators,
		RepresentativeCount: reps,
		Economic:            EconomicTotals(members, data),
		Gaps:                Gaps(members, data),
	}, nil
}
