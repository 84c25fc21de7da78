package region

import (
	"sort"

	"github.com/meridian-policy/packet-cli/internal/model"
)

// Delegation roles in regional output.
const (
	RoleSenator        = "Senator"
	RoleRepresentative = "Representative"
)

const (
	// topHazardsPerTribe bounds how many of each tribe's hazards feed
	// the shared ranking.
	topHazardsPerTribe = 5
	// sharedHazardLimit bounds the ranked output.
	sharedHazardLimit = 5
)

// AwardSummary sums observed award dollars across members and counts the
// tribes holding at least one award.
func AwardSummary(members []string, data map[string]*TribeData) (total float64, withAwards int) {
	for _, id := range members {
		td := data[id]
		if td == nil || len(td.Awards) == 0 {
			continue
		}
		withAwards++
		for _, a := range td.Awards {
			total += a.Amount
		}
	}
	return total, withAwards
}

// SharedHazards ranks hazard types by how many member tribes carry them
// among their top threats. Mean score averages the carrying tribes'
// risk scores. Ranked by tribe count, then mean score, then type; the
// top five survive.
func SharedHazards(members []string, data map[string]*TribeData) []model.SharedHazard {
	counts := map[string]int{}
	scores := map[string]float64{}

	for _, id := range members {
		td := data[id]
		if td == nil || td.Hazards == nil {
			continue
		}
		ranked := td.Hazards.Ranked()
		if len(ranked) > topHazardsPerTribe {
			ranked = ranked[:topHazardsPerTribe]
		}
		for _, h := range ranked {
			counts[h.Type]++
			scores[h.Type] += h.RiskScore
		}
	}

	out := make([]model.SharedHazard, 0, len(counts))
	for ht, n := range counts {
		out = append(out, model.SharedHazard{
			Type:       ht,
			TribeCount: n,
			MeanScore:  scores[ht] / float64(n),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TribeCount != out[j].TribeCount {
			return out[i].TribeCount > out[j].TribeCount
		}
		if out[i].MeanScore != out[j].MeanScore {
			return out[i].MeanScore > out[j].MeanScore
		}
		return out[i].Type < out[j].Type
	})
	if len(out) > sharedHazardLimit {
		out = out[:sharedHazardLimit]
	}
	return out
}

// CompositeRisk averages the members' composite risk scores, unweighted.
// Tribes without one are skipped; zero members with scores yields (0, 0).
func CompositeRisk(members []string, data map[string]*TribeData) (mean float64, count int) {
	sum := 0.0
	for _, id := range members {
		td := data[id]
		if td == nil || td.Hazards == nil || td.Hazards.CompositeRisk == nil {
			continue
		}
		sum += *td.Hazards.CompositeRisk
		count++
	}
	if count == 0 {
		return 0, 0
	}
	return sum / float64(count), count
}

// DelegationOverlap finds delegation members serving two or more member
// tribes, with committee lists unioned across sightings, plus the
// distinct senator and representative identity counts.
func DelegationOverlap(members []string, data map[string]*TribeData) (overlap []model.OverlapMember, senators, representatives int) {
	type entry struct {
		name       string
		role       string
		tribes     map[string]bool
		committees map[string]bool
	}
	byIdentity := map[string]*entry{}
	senatorIDs := map[string]bool{}
	repIDs := map[string]bool{}

	record := func(m model.Member, role, tribeID string) {
		id := m.Identity()
		if id == "" {
			return
		}
		e, ok := byIdentity[id]
		if !ok {
			e = &entry{name: m.Name, role: role, tribes: map[string]bool{}, committees: map[string]bool{}}
			byIdentity[id] = e
		}
		e.tribes[tribeID] = true
		for _, c := range m.Committees {
			e.committees[c] = true
		}
	}

	for _, tribeID := range members {
		td := data[tribeID]
		if td == nil || td.Delegation == nil {
			continue
		}
		for _, m := range td.Delegation.Senators {
			record(m, RoleSenator, tribeID)
			if id := m.Identity(); id != "" {
				senatorIDs[id] = true
			}
		}
		for _, m := range td.Delegation.Representatives {
			record(m, RoleRepresentative, tribeID)
			if id := m.Identity(); id != "" {
				repIDs[id] = true
			}
		}
	}

	for id, e := range byIdentity {
		if len(e.tribes) < 2 {
			continue
		}
		committees := make([]string, 0, len(e.committees))
		for c := range e.committees {
			committees = append(committees, c)
		}
		sort.Strings(committees)
		overlap = append(overlap, model.OverlapMember{
			Identity:   id,
			Name:       e.name,
			Role:       e.role,
			TribeCount: len(e.tribes),
			Committees: committees,
		})
	}
	sort.Slice(overlap, func(i, j int) bool {
		if overlap[i].TribeCount != overlap[j].TribeCount {
			return overlap[i].TribeCount > overlap[j].TribeCount
		}
		return overlap[i].Name < overlap[j].Name
	})

	return overlap, len(senatorIDs), len(repIDs)
}

// EconomicTotals sums the members' already-computed economic totals
// elementwise.
func EconomicTotals(members []string, data map[string]*TribeData) model.ImpactTotals {
	var out model.ImpactTotals
	for _, id := range members {
		td := data[id]
		if td == nil || td.Economic == nil {
			continue
		}
		out.AddTotals(*td.Economic)
	}
	return out
}

// Gaps lists the member tribes missing each input class. The three lists
// are independent; one tribe can appear in all of them.
func Gaps(members []string, data map[string]*TribeData) model.CoverageGaps {
	var gaps model.CoverageGaps
	for _, id := range members {
		td := data[id]
		if td == nil || len(td.Awards) == 0 {
			gaps.NoAwards = append(gaps.NoAwards, id)
		}
		if td == nil || !td.Hazards.Usable() {
			gaps.NoHazardData = append(gaps.NoHazardData, id)
		}
		if td == nil || td.Delegation.Empty() {
			gaps.NoDelegation = append(gaps.NoDelegation, id)
		}
	}
	return gaps
}
