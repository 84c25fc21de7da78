package model

import "time"

// ScoredProgram pairs a catalog program with its relevance score and the
// per-component breakdown that produced it.
type ScoredProgram struct {
	Program    Program            `json:"program"`
	Score      float64            `json:"score"`
	Components map[string]float64 `json:"components"`
}

// ProgramImpact is the estimated economic impact of funding through one
// program. IsBenchmark marks rows synthesized from typical award sizes
// rather than observed dollars.
type ProgramImpact struct {
	ProgramID        string   `json:"program_id"`
	Name             string   `json:"name"`
	Amount           float64  `json:"amount"`
	ImpactLow        float64  `json:"impact_low"`
	ImpactHigh       float64  `json:"impact_high"`
	JobsLow          float64  `json:"jobs_low"`
	JobsHigh         float64  `json:"jobs_high"`
	IsBenchmark      bool     `json:"is_benchmark"`
	BenefitCostRatio *float64 `json:"benefit_cost_ratio,omitempty"`
}

// ImpactTotals accumulates the elementwise sums over impact rows.
type ImpactTotals struct {
	Amount     float64 `json:"amount"`
	ImpactLow  float64 `json:"impact_low"`
	ImpactHigh float64 `json:"impact_high"`
	JobsLow    float64 `json:"jobs_low"`
	JobsHigh   float64 `json:"jobs_high"`
}

// Add accumulates one impact row into the totals.
func (t *ImpactTotals) Add(p ProgramImpact) {
	t.Amount += p.Amount
	t.ImpactLow += p.ImpactLow
	t.ImpactHigh += p.ImpactHigh
	t.JobsLow += p.JobsLow
	t.JobsHigh += p.JobsHigh
}

// AddTotals accumulates another totals value elementwise.
func (t *ImpactTotals) AddTotals(o ImpactTotals) {
	t.Amount += o.Amount
	t.ImpactLow += o.ImpactLow
	t.ImpactHigh += o.ImpactHigh
	t.JobsLow += o.JobsLow
	t.JobsHigh += o.JobsHigh
}

// Scale returns the totals multiplied by the given factor.
func (t ImpactTotals) Scale(f float64) ImpactTotals {
	return ImpactTotals{
		Amount:     t.Amount * f,
		ImpactLow:  t.ImpactLow * f,
		ImpactHigh: t.ImpactHigh * f,
		JobsLow:    t.JobsLow * f,
		JobsHigh:   t.JobsHigh * f,
	}
}

// EconomicSummary is the full economic section of a packet.
// ObservedTotal and ObservedCount cover usable awards only; Totals spans
// observed and benchmark rows alike.
type EconomicSummary struct {
	Programs       []ProgramImpact `json:"programs"`
	Totals         ImpactTotals    `json:"totals"`
	ObservedTotal  float64         `json:"observed_total"`
	ObservedCount  int             `json:"observed_count"`
	BenchmarkCount int             `json:"benchmark_count"`
}

// SectionConfidence annotates one packet section with the reliability of
// the data behind it.
type SectionConfidence struct {
	Source string  `json:"source"`
	Score  float64 `json:"score"`
	Level  string  `json:"level"`
}

// PacketContext is the complete per-tribe advocacy packet payload handed
// to downstream renderers.
type PacketContext struct {
	TribeID       string                       `json:"tribe_id"`
	TribeName     string                       `json:"tribe_name"`
	GeneratedAt   time.Time                    `json:"generated_at"`
	Programs      []ScoredProgram              `json:"programs"`
	Omitted       []Program                    `json:"omitted,omitempty"`
	Economic      EconomicSummary              `json:"economic"`
	Confidence    map[string]SectionConfidence `json:"confidence"`
	TopHazards    []string                     `json:"top_hazards,omitempty"`
	CompositeRisk *float64                     `json:"composite_risk,omitempty"`
	AdvocacyGoal  string                       `json:"advocacy_goal"`
}
