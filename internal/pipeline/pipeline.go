// Package pipeline composes the per-tribe generation stages into a
// single packet run: cached inputs in, scored packet context plus
// detected changes out.
package pipeline

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/meridian-policy/packet-cli/internal/confidence"
	"github.com/meridian-policy/packet-cli/internal/impact"
	"github.com/meridian-policy/packet-cli/internal/model"
	"github.com/meridian-policy/packet-cli/internal/registry"
	"github.com/meridian-policy/packet-cli/internal/relevance"
	"github.com/meridian-policy/packet-cli/internal/store"
	"github.com/meridian-policy/packet-cli/internal/tracker"
)

// Confidence section keys in the packet context.
const (
	SectionHazardProfile = "hazard_profile"
	SectionAwards        = "awards"
	SectionDelegation    = "delegation"
)

// Advocacy goals not derived from a hazard type.
const (
	GoalFundingDiversification = "funding-diversification"
	GoalBaselineDataCollection = "baseline-data-collection"
)

// topHazardCount bounds how many ranked hazard types a packet carries.
const topHazardCount = 5

// Generator runs the per-tribe packet pipeline over shared, read-only
// engine components. A Generator is safe for concurrent use as long as
// no two goroutines generate the same tribe ID at once: the snapshot
// file is the one per-tribe write.
type Generator struct {
	store    store.Store
	registry *registry.Registry
	filter   *relevance.Filter
	calc     *impact.Calculator
	scorer   *confidence.Scorer
	tracker  *tracker.Tracker
	now      func() time.Time

	skipSnapshotSave bool
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock overrides the reference time source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithoutSnapshotSave disables snapshot writes. Previous snapshots are
// still read and diffed, so read-only consumers see changes without
// consuming them.
func WithoutSnapshotSave() Option {
	return func(g *Generator) { g.skipSnapshotSave = true }
}

// New creates a Generator over the given components.
func New(st store.Store, reg *registry.Registry, f *relevance.Filter, c *impact.Calculator, s *confidence.Scorer, tr *tracker.Tracker, opts ...Option) *Generator {
	g := &Generator{
		store:    st,
		registry: reg,
		filter:   f,
		calc:     c,
		scorer:   s,
		tracker:  tr,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Result is one tribe's generation outcome: the packet context, the
// changes since the previous generation, and how loading that previous
// generation went.
type Result struct {
	Context         *model.PacketContext
	Changes         []model.Change
	FirstGeneration bool
	SnapshotStatus  tracker.LoadStatus
}

// Generate builds the packet context for one tribe. Missing cached
// inputs degrade the packet, they never fail it; the only errors are an
// unknown or invalid tribe ID, store failures, and snapshot writes.
func (g *Generator) Generate(ctx context.Context, tribeID string) (*Result, error) {
	tribe := g.registry.TribeByID(tribeID)
	if tribe == nil {
		return nil, eris.Errorf("pipeline: unknown tribe %q", tribeID)
	}

	log := zap.L().With(zap.String("tribe", tribeID))
	log.Info("pipeline: generating packet")

	hazards, err := g.store.GetHazardProfile(ctx, tribeID)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: read hazard profile for %s", tribeID)
	}
	awardSet, err := g.store.GetAwards(ctx, tribeID)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: read awards for %s", tribeID)
	}
	delegation, err := g.store.GetDelegation(ctx, tribeID)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: read delegation for %s", tribeID)
	}

	now := g.now()
	catalog := g.registry.Programs()

	var awards []model.Award
	if awardSet != nil {
		awards = awardSet.Awards
	}

	pc := &model.PacketContext{
		TribeID:     tribe.ID,
		TribeName:   tribe.Name,
		GeneratedAt: now,
	}
	pc.Programs = g.filter.Filter(catalog, hazards, tribe.GeoClasses, g.regionPriority(*tribe))
	pc.Omitted = g.filter.Omitted(catalog, pc.Programs)
	pc.Economic = g.calc.Compute(awards, catalog)
	pc.Confidence = g.annotate(hazards, awardSet, delegation, now)
	if hazards != nil {
		pc.CompositeRisk = hazards.CompositeRisk
		if hazards.Usable() {
			pc.TopHazards = hazards.TopTypes(topHazardCount)
		}
	}
	pc.AdvocacyGoal = advocacyGoal(hazards, pc.Economic)

	prev, err := g.tracker.LoadPrevious(tribeID)
	if err != nil {
		return nil, err
	}
	if prev.Status == tracker.LoadOversize || prev.Status == tracker.LoadCorrupt {
		log.Warn("pipeline: previous snapshot unusable, treating as first generation",
			zap.String("status", string(prev.Status)))
	}

	snap := tracker.BuildSnapshot(pc)
	changes := tracker.Diff(prev.Snapshot, &snap)
	if !g.skipSnapshotSave {
		if err := g.tracker.SaveCurrent(tribeID, &snap); err != nil {
			return nil, err
		}
	}

	log.Info("pipeline: packet generated",
		zap.Int("programs", len(pc.Programs)),
		zap.Int("changes", len(changes)),
		zap.String("advocacy_goal", pc.AdvocacyGoal),
	)

	return &Result{
		Context:         pc,
		Changes:         changes,
		FirstGeneration: prev.Snapshot == nil,
		SnapshotStatus:  prev.Status,
	}, nil
}

// regionPriority unions the priority program lists of every region the
// tribe belongs to. Membership follows the regional rule: overlapping
// states, or any tribe for a region with no state list.
func (g *Generator) regionPriority(t model.Tribe) []string {
	set := map[string]bool{}
	for _, def := range g.registry.Regions() {
		if !regionHasTribe(def, t) {
			continue
		}
		for _, id := range def.PriorityPrograms {
			set[id] = true
		}
	}
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func regionHasTribe(def model.RegionDef, t model.Tribe) bool {
	if len(def.States) == 0 {
		return true
	}
	for _, s := range def.States {
		if t.InState(s) {
			return true
		}
	}
	return false
}

// annotate builds the per-section confidence map from each payload's
// reported source and freshness. Sections without a cached payload get
// no annotation: absence is a coverage gap, not low-confidence data.
func (g *Generator) annotate(hazards *model.HazardProfile, awards *model.AwardSet, delegation *model.Delegation, now time.Time) map[string]model.SectionConfidence {
	out := make(map[string]model.SectionConfidence, 3)
	if hazards != nil {
		out[SectionHazardProfile] = g.scorer.Annotate(hazards.Source, hazards.AsOf, now)
	}
	if awards != nil {
		out[SectionAwards] = g.scorer.Annotate(awards.Source, awards.AsOf, now)
	}
	if delegation != nil {
		out[SectionDelegation] = g.scorer.Annotate(delegation.Source, delegation.AsOf, now)
	}
	return out
}

// advocacyGoal derives the packet's headline ask. The top-ranked hazard
// names a mitigation goal; observed funding without usable hazard data
// argues for diversifying it; with neither, the ask is baseline data.
func advocacyGoal(profile *model.HazardProfile, econ model.EconomicSummary) string {
	if profile.Usable() {
		top := profile.Ranked()[0]
		return strings.ReplaceAll(top.Type, "_", "-") + "-mitigation"
	}
	if econ.ObservedCount > 0 {
		return GoalFundingDiversification
	}
	return GoalBaselineDataCollection
}
