package model

// Tier buckets federal programs by how central they are to tribal
// resilience funding strategy.
type Tier string

const (
	TierCritical Tier = "critical"
	TierHigh     Tier = "high"
	TierMedium   Tier = "medium"
	TierLow      Tier = "low"
)

// Program is one federal funding program from the catalog.
type Program struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Agency    string   `json:"agency,omitempty"`
	Tier      Tier     `json:"tier"`
	Mechanism string   `json:"mechanism,omitempty"` // e.g. "competitive", "formula", "set-aside"
	ALNumbers []string `json:"al_numbers,omitempty"`
}

// ListsAL reports whether the program claims the given assistance listing
// number.
func (p Program) ListsAL(code string) bool {
	for _, n := range p.ALNumbers {
		if n == code {
			return true
		}
	}
	return false
}

// Award is one observed federal award for a tribe, already normalized:
// Amount is parsed and positive, ProgramID may be empty when only an
// assistance listing number was reported.
type Award struct {
	ProgramID string  `json:"program_id,omitempty"`
	ALNumber  string  `json:"al_number,omitempty"`
	Amount    float64 `json:"amount"`
	StartDate string  `json:"start_date,omitempty"`
	EndDate   string  `json:"end_date,omitempty"`
}

// AwardSet is the cached award history for one tribe.
type AwardSet struct {
	TribeID string  `json:"tribe_id"`
	Awards  []Award `json:"awards"`
	Source  string  `json:"source,omitempty"`
	AsOf    string  `json:"as_of,omitempty"`
}
