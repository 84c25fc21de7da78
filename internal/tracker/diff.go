package tracker

import (
	"fmt"
	"sort"

	"github.com/meridian-policy/packet-cli/internal/model"
)

// amountEpsilon absorbs float accumulation noise when comparing award
// totals across runs.
const amountEpsilon = 0.01

// Diff compares two generation snapshots and describes what moved. A nil
// previous snapshot is a first generation and yields no changes.
func Diff(prev, cur *model.Snapshot) []model.Change {
	if prev == nil || cur == nil {
		return nil
	}

	var changes []model.Change
	changes = append(changes, diffProgramStatus(prev, cur)...)

	if cur.AwardCount > prev.AwardCount {
		changes = append(changes, model.Change{
			Type: model.ChangeNewAwards,
			Description: fmt.Sprintf("award count increased from %d to %d",
				prev.AwardCount, cur.AwardCount),
		})
	}

	delta := cur.AwardTotal - prev.AwardTotal
	if delta > amountEpsilon || delta < -amountEpsilon {
		changes = append(changes, model.Change{
			Type: model.ChangeAmount,
			Description: fmt.Sprintf("observed award total changed from $%.2f to $%.2f",
				prev.AwardTotal, cur.AwardTotal),
		})
	}

	if prev.AdvocacyGoal != "" && cur.AdvocacyGoal != "" && prev.AdvocacyGoal != cur.AdvocacyGoal {
		changes = append(changes, model.Change{
			Type: model.ChangeGoalShift,
			Description: fmt.Sprintf("advocacy goal shifted from %q to %q",
				prev.AdvocacyGoal, cur.AdvocacyGoal),
		})
	}

	changes = append(changes, diffTopHazards(prev, cur)...)

	return changes
}

func diffProgramStatus(prev, cur *model.Snapshot) []model.Change {
	ids := map[string]bool{}
	for id := range prev.ProgramStatus {
		ids[id] = true
	}
	for id := range cur.ProgramStatus {
		ids[id] = true
	}

	sorted := make([]string, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)

	var changes []model.Change
	for _, id := range sorted {
		pv, inPrev := prev.ProgramStatus[id]
		cv, inCur := cur.ProgramStatus[id]
		switch {
		case inPrev && inCur && pv != cv:
			changes = append(changes, model.Change{
				Type:        model.ChangeProgramStatus,
				Description: fmt.Sprintf("program %s changed from %s to %s", id, pv, cv),
			})
		case !inPrev && inCur:
			changes = append(changes, model.Change{
				Type:        model.ChangeProgramStatus,
				Description: fmt.Sprintf("program %s entered the packet as %s", id, cv),
			})
		case inPrev && !inCur:
			changes = append(changes, model.Change{
				Type:        model.ChangeProgramStatus,
				Description: fmt.Sprintf("program %s dropped from the packet (was %s)", id, pv),
			})
		}
	}
	return changes
}

func diffTopHazards(prev, cur *model.Snapshot) []model.Change {
	seen := make(map[string]bool, len(prev.TopHazards))
	for _, ht := range prev.TopHazards {
		seen[ht] = true
	}

	var added []string
	for _, ht := range cur.TopHazards {
		if !seen[ht] {
			added = append(added, ht)
		}
	}
	sort.Strings(added)

	var changes []model.Change
	for _, ht := range added {
		changes = append(changes, model.Change{
			Type:        model.ChangeNewThreat,
			Description: fmt.Sprintf("hazard %s newly ranks among top threats", ht),
		})
	}
	return changes
}
