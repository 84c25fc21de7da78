package impact

import (
	"math"
	"sort"

	"github.com/meridian-policy/packet-cli/internal/model"
)

// Calculator turns observed awards and the program catalog into an
// economic summary.
type Calculator struct {
	cfg        Config
	mitigation map[string]bool
}

// NewCalculator creates a calculator over the given config.
func NewCalculator(cfg Config) *Calculator {
	mit := make(map[string]bool, len(cfg.MitigationPrograms))
	for _, id := range cfg.MitigationPrograms {
		mit[id] = true
	}
	return &Calculator{cfg: cfg, mitigation: mit}
}

// Compute builds the economic summary for one tribe: observed awards
// grouped by program, plus benchmark rows for every catalog program with
// no observed funding. Totals sum over all rows, observed and benchmark.
func (c *Calculator) Compute(awards []model.Award, catalog []model.Program) model.EconomicSummary {
	byID := make(map[string]model.Program, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}

	observed := map[string]float64{}
	var order []string
	usable := 0
	for _, a := range awards {
		if a.Amount <= 0 || math.IsNaN(a.Amount) {
			continue
		}
		key := c.resolveProgram(a, catalog)
		if key == "" {
			continue
		}
		if _, seen := observed[key]; !seen {
			order = append(order, key)
		}
		observed[key] += a.Amount
		usable++
	}

	var rows []model.ProgramImpact
	for _, key := range order {
		name := key
		if p, ok := byID[key]; ok {
			name = p.Name
		}
		rows = append(rows, c.row(key, name, observed[key], false))
	}

	benchmarks := 0
	for _, p := range catalog {
		if _, funded := observed[p.ID]; funded {
			continue
		}
		rows = append(rows, c.row(p.ID, p.Name, c.benchmarkAmount(p.ID), true))
		benchmarks++
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].IsBenchmark != rows[j].IsBenchmark {
			return !rows[i].IsBenchmark
		}
		if rows[i].Amount != rows[j].Amount {
			return rows[i].Amount > rows[j].Amount
		}
		return rows[i].ProgramID < rows[j].ProgramID
	})

	var summary model.EconomicSummary
	summary.Programs = rows
	summary.BenchmarkCount = benchmarks
	summary.ObservedCount = usable
	for _, r := range rows {
		summary.Totals.Add(r)
		if !r.IsBenchmark {
			summary.ObservedTotal += r.Amount
		}
	}
	return summary
}

// resolveProgram picks the grouping key for an award: the reported
// program ID, the first catalog program claiming its assistance listing
// number, or the raw listing number itself. Observed dollars are never
// dropped just because the catalog has no match.
func (c *Calculator) resolveProgram(a model.Award, catalog []model.Program) string {
	if a.ProgramID != "" {
		return a.ProgramID
	}
	if a.ALNumber == "" {
		return ""
	}
	for _, p := range catalog {
		if p.ListsAL(a.ALNumber) {
			return p.ID
		}
	}
	return a.ALNumber
}

func (c *Calculator) benchmarkAmount(programID string) float64 {
	if amt, ok := c.cfg.BenchmarkAwards[programID]; ok {
		return amt
	}
	return c.cfg.DefaultBenchmark
}

func (c *Calculator) row(id, name string, amount float64, benchmark bool) model.ProgramImpact {
	r := model.ProgramImpact{
		ProgramID:   id,
		Name:        name,
		Amount:      amount,
		ImpactLow:   amount * c.cfg.ImpactLowMultiplier,
		ImpactHigh:  amount * c.cfg.ImpactHighMultiplier,
		JobsLow:     amount / 1_000_000 * c.cfg.JobsPerMillionLow,
		JobsHigh:    amount / 1_000_000 * c.cfg.JobsPerMillionHigh,
		IsBenchmark: benchmark,
	}
	if c.mitigation[id] {
		bcr := c.cfg.MitigationBCR
		r.BenefitCostRatio = &bcr
	}
	return r
}

// Subarea is a sub-jurisdiction with a percentage overlap of the parent
// area.
type Subarea struct {
	Name       string  `json:"name"`
	OverlapPct float64 `json:"overlap_pct"`
}

// SubareaImpact is the share of the parent totals allocated to one
// subarea.
type SubareaImpact struct {
	Name   string             `json:"name"`
	Totals model.ImpactTotals `json:"totals"`
}

// Allocate splits totals across subareas by overlap percentage. Shares
// are independent: they are not normalized, so overlapping subareas can
// sum past the parent totals.
func Allocate(totals model.ImpactTotals, subareas []Subarea) []SubareaImpact {
	out := make([]SubareaImpact, 0, len(subareas))
	for _, s := range subareas {
		out = append(out, SubareaImpact{
			Name:   s.Name,
			Totals: totals.Scale(s.OverlapPct / 100),
		})
	}
	return out
}
