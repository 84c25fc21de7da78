package ingest

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/meridian-policy/packet-cli/internal/model"
)

type rawAward struct {
	ProgramID string `json:"program_id"`
	ALNumber  string `json:"al_number"`
	Amount    any    `json:"amount"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type rawAwardSet struct {
	TribeID string     `json:"tribe_id"`
	Awards  []rawAward `json:"awards"`
	Source  string     `json:"source"`
	AsOf    string     `json:"as_of"`
}

// parseAmount accepts the two amount encodings upstream exports use:
// plain numbers and display strings like "$1,234,567.89".
func parseAmount(v any) (float64, bool) {
	switch a := v.(type) {
	case float64:
		return a, true
	case string:
		s := strings.TrimSpace(a)
		s = strings.TrimPrefix(s, "$")
		s = strings.ReplaceAll(s, ",", "")
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// ParseAwardsPayload decodes a raw award payload. Rows whose amount is
// missing, unparsable, or non-positive are dropped.
func ParseAwardsPayload(data []byte) (*model.AwardSet, error) {
	var raw rawAwardSet
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrap(err, "ingest: unmarshal award payload")
	}
	if raw.TribeID == "" {
		return nil, eris.New("ingest: award payload missing tribe_id")
	}

	set := &model.AwardSet{
		TribeID: raw.TribeID,
		Source:  raw.Source,
		AsOf:    raw.AsOf,
	}

	dropped := 0
	for _, a := range raw.Awards {
		amount, ok := parseAmount(a.Amount)
		if !ok || amount <= 0 {
			dropped++
			continue
		}
		set.Awards = append(set.Awards, model.Award{
			ProgramID: a.ProgramID,
			ALNumber:  a.ALNumber,
			Amount:    amount,
			StartDate: a.StartDate,
			EndDate:   a.EndDate,
		})
	}
	if dropped > 0 {
		zap.L().Debug("ingest: dropped unusable award rows",
			zap.String("tribe_id", raw.TribeID),
			zap.Int("dropped", dropped),
		)
	}
	return set, nil
}
