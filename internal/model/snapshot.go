package model

import "time"

// Snapshot is the compact generation record diffed against the next run.
// It carries only the fields change detection needs, so old snapshots
// stay readable as the packet payload grows.
type Snapshot struct {
	TribeID       string            `json:"tribe_id"`
	GeneratedAt   time.Time         `json:"generated_at"`
	ProgramStatus map[string]string `json:"program_status"`
	AwardCount    int               `json:"award_count"`
	AwardTotal    float64           `json:"award_total"`
	TopHazards    []string          `json:"top_hazards,omitempty"`
	AdvocacyGoal  string            `json:"advocacy_goal,omitempty"`
}

// Program status values recorded in snapshots.
const (
	ProgramStatusFunded   = "funded"
	ProgramStatusEligible = "eligible"
)

// ChangeType classifies a detected difference between two generations.
type ChangeType string

const (
	ChangeProgramStatus ChangeType = "program_status"
	ChangeNewAwards     ChangeType = "new_awards"
	ChangeAmount        ChangeType = "amount_change"
	ChangeGoalShift     ChangeType = "goal_shift"
	ChangeNewThreat     ChangeType = "new_threat"
)

// Change is one detected difference, ready for rendering.
type Change struct {
	Type        ChangeType `json:"type"`
	Description string     `json:"description"`
}
