package model

import "time"

// RegionDef defines a regional grouping of tribes by state codes. An
// empty States list matches every tribe.
type RegionDef struct {
	ID               string   `json:"id" yaml:"id"`
	Name             string   `json:"name" yaml:"name"`
	States           []string `json:"states" yaml:"states"`
	PriorityPrograms []string `json:"priority_programs,omitempty" yaml:"priority_programs,omitempty"`
}

// SharedHazard is one hazard type ranked by how many member tribes share
// it among their top threats.
type SharedHazard struct {
	Type       string  `json:"type"`
	TribeCount int     `json:"tribe_count"`
	MeanScore  float64 `json:"mean_score"`
}

// OverlapMember is a delegation member representing two or more member
// tribes.
type OverlapMember struct {
	Identity   string   `json:"identity"`
	Name       string   `json:"name"`
	Role       string   `json:"role"`
	TribeCount int      `json:"tribe_count"`
	Committees []string `json:"committees,omitempty"`
}

// CoverageGaps lists member tribes missing each class of input data.
type CoverageGaps struct {
	NoAwards     []string `json:"no_awards,omitempty"`
	NoHazardData []string `json:"no_hazard_data,omitempty"`
	NoDelegation []string `json:"no_delegation,omitempty"`
}

// RegionalContext is the stage-two synthesis across a region's member
// tribes.
type RegionalContext struct {
	RegionID            string          `json:"region_id"`
	RegionName          string          `json:"region_name"`
	GeneratedAt         time.Time       `json:"generated_at"`
	TribeIDs            []string        `json:"tribe_ids"`
	TribeCount          int             `json:"tribe_count"`
	TotalAwarded        float64         `json:"total_awarded"`
	TribesWithAwards    int             `json:"tribes_with_awards"`
	SharedHazards       []SharedHazard  `json:"shared_hazards,omitempty"`
	CompositeRisk       float64         `json:"composite_risk"`
	CompositeRiskCount  int             `json:"composite_risk_count"`
	DelegationOverlap   []OverlapMember `json:"delegation_overlap,omitempty"`
	SenatorCount        int             `json:"senator_count"`
	RepresentativeCount int             `json:"representative_count"`
	Economic            ImpactTotals    `json:"economic"`
	Gaps                CoverageGaps    `json:"gaps"`
}
