package ingest

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/meridian-policy/packet-cli/internal/model"
)

type rawMember struct {
	BioguideID string   `json:"bioguide_id"`
	Name       string   `json:"name"`
	State      string   `json:"state"`
	Party      string   `json:"party"`
	Committees []string `json:"committees"`
}

type rawDelegation struct {
	TribeID         string      `json:"tribe_id"`
	Senators        []rawMember `json:"senators"`
	Representatives []rawMember `json:"representatives"`
	Source          string      `json:"source"`
	AsOf            string      `json:"as_of"`
}

// ParseDelegationPayload decodes a raw delegation payload. Members with
// neither a bioguide id nor a name are dropped; committee lists are
// deduplicated and sorted.
func ParseDelegationPayload(data []byte) (*model.Delegation, error) {
	var raw rawDelegation
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrap(err, "ingest: unmarshal delegation payload")
	}
	if raw.TribeID == "" {
		return nil, eris.New("ingest: delegation payload missing tribe_id")
	}

	d := &model.Delegation{
		TribeID: raw.TribeID,
		Source:  raw.Source,
		AsOf:    raw.AsOf,
	}

	dropped := 0
	for _, m := range raw.Senators {
		member, ok := normalizeMember(m)
		if !ok {
			dropped++
			continue
		}
		d.Senators = append(d.Senators, member)
	}
	for _, m := range raw.Representatives {
		member, ok := normalizeMember(m)
		if !ok {
			dropped++
			continue
		}
		d.Representatives = append(d.Representatives, member)
	}
	if dropped > 0 {
		zap.L().Debug("ingest: dropped unidentifiable delegation members",
			zap.String("tribe_id", raw.TribeID),
			zap.Int("dropped", dropped),
		)
	}
	return d, nil
}

func normalizeMember(m rawMember) (model.Member, bool) {
	out := model.Member{
		BioguideID: strings.TrimSpace(m.BioguideID),
		Name:       strings.TrimSpace(m.Name),
		State:      strings.ToUpper(strings.TrimSpace(m.State)),
		Party:      strings.TrimSpace(m.Party),
	}
	if out.BioguideID == "" && out.Name == "" {
		return model.Member{}, false
	}

	seen := map[string]bool{}
	for _, c := range m.Committees {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out.Committees = append(out.Committees, c)
	}
	sort.Strings(out.Committees)
	return out, true
}
