package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/meridian-policy/packet-cli/internal/confidence"
	"github.com/meridian-policy/packet-cli/internal/config"
	"github.com/meridian-policy/packet-cli/internal/impact"
	"github.com/meridian-policy/packet-cli/internal/pipeline"
	"github.com/meridian-policy/packet-cli/internal/region"
	"github.com/meridian-policy/packet-cli/internal/registry"
	"github.com/meridian-policy/packet-cli/internal/relevance"
	"github.com/meridian-policy/packet-cli/internal/store"
	"github.com/meridian-policy/packet-cli/internal/tracker"
)

// packetEnv holds the opened store, loaded registry, and the assembled
// generation pipeline shared by the packet/region/serve commands.
type packetEnv struct {
	Store      store.Store
	Registry   *registry.Registry
	Generator  *pipeline.Generator
	Aggregator *region.Aggregator
}

// Close releases resources held by the environment.
func (pe *packetEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

// initEnv validates config for the given command mode, opens the store,
// loads the registry, and wires up the generation pipeline. Callers
// should defer env.Close().
func initEnv(ctx context.Context, mode string, genOpts ...pipeline.Option) (*packetEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.Path, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if mode == "import" {
		if err := st.Migrate(ctx); err != nil {
			_ = st.Close()
			return nil, eris.Wrap(err, "migrate store")
		}
	}

	reg, err := loadRegistry()
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	relCfg := relevanceConfig(cfg.Relevance)
	if err := relevance.ValidateConfig(relCfg); err != nil {
		_ = st.Close()
		return nil, err
	}
	impCfg := impactConfig(cfg.Impact)
	if err := impact.ValidateConfig(impCfg); err != nil {
		_ = st.Close()
		return nil, err
	}
	confCfg := confidenceConfig(cfg.Confidence)
	if err := confidence.ValidateConfig(confCfg); err != nil {
		_ = st.Close()
		return nil, err
	}

	tr := tracker.New(cfg.Snapshot.Dir, tracker.WithMaxBytes(cfg.Snapshot.MaxBytes))
	gen := pipeline.New(st, reg,
		relevance.NewFilter(relCfg),
		impact.NewCalculator(impCfg),
		confidence.NewScorer(confCfg),
		tr,
		genOpts...,
	)

	return &packetEnv{
		Store:      st,
		Registry:   reg,
		Generator:  gen,
		Aggregator: region.NewAggregator(reg.Regions(), reg.Tribes()),
	}, nil
}

// loadRegistry reads the program catalog, tribe roster, and region
// definitions. Programs and regions fall back to the built-in defaults;
// the tribe roster has no built-in and must be configured.
func loadRegistry() (*registry.Registry, error) {
	programs := registry.BuiltinPrograms()
	if cfg.Registry.ProgramsPath != "" {
		var err error
		programs, err = registry.LoadPrograms(cfg.Registry.ProgramsPath)
		if err != nil {
			return nil, err
		}
	}

	if cfg.Registry.TribesPath == "" {
		return nil, eris.New("registry.tribes_path is required (PACKET_REGISTRY_TRIBES_PATH)")
	}
	tribes, err := registry.LoadTribes(cfg.Registry.TribesPath)
	if err != nil {
		return nil, err
	}

	regions := registry.BuiltinRegions()
	if cfg.Registry.RegionsPath != "" {
		regions, err = registry.LoadRegions(cfg.Registry.RegionsPath)
		if err != nil {
			return nil, err
		}
	}

	return registry.New(programs, tribes, regions), nil
}

// relevanceConfig returns the default relevance constants with file
// config overrides applied. Zero values leave the defaults untouched.
func relevanceConfig(over config.RelevanceConfig) relevance.Config {
	c := relevance.DefaultConfig()

	if over.MinPrograms > 0 {
		c.MinPrograms = over.MinPrograms
	}
	if over.MaxPrograms > 0 {
		c.MaxPrograms = over.MaxPrograms
	}
	if over.AbsoluteFloor > 0 {
		c.AbsoluteFloor = over.AbsoluteFloor
	}
	if over.CriticalBonus > 0 {
		c.CriticalBonus = over.CriticalBonus
	}
	if over.GeoBonus > 0 {
		c.GeoBonus = over.GeoBonus
	}
	if len(over.AlwaysRelevant) > 0 {
		c.AlwaysRelevant = over.AlwaysRelevant
	}

	return c
}

// impactConfig returns the default impact parameters with file config
// overrides applied.
func impactConfig(over config.ImpactConfig) impact.Config {
	c := impact.DefaultConfig()

	if over.ImpactLowMultiplier > 0 {
		c.ImpactLowMultiplier = over.ImpactLowMultiplier
	}
	if over.ImpactHighMultiplier > 0 {
		c.ImpactHighMultiplier = over.ImpactHighMultiplier
	}
	if over.JobsPerMillionLow > 0 {
		c.JobsPerMillionLow = over.JobsPerMillionLow
	}
	if over.JobsPerMillionHigh > 0 {
		c.JobsPerMillionHigh = over.JobsPerMillionHigh
	}
	if over.MitigationBCR > 0 {
		c.MitigationBCR = over.MitigationBCR
	}
	if over.DefaultBenchmark > 0 {
		c.DefaultBenchmark = over.DefaultBenchmark
	}
	for id, amount := range over.BenchmarkAwards {
		c.BenchmarkAwards[id] = amount
	}

	return c
}

// confidenceConfig returns the default confidence parameters with file
// config overrides applied. Source weights merge per key.
func confidenceConfig(over config.ConfidenceConfig) confidence.Config {
	c := confidence.DefaultConfig()

	if over.DecayRate > 0 {
		c.DecayRate = over.DecayRate
	}
	if over.FallbackStaleDays > 0 {
		c.FallbackStaleDays = over.FallbackStaleDays
	}
	if over.DefaultWeight > 0 {
		c.DefaultWeight = over.DefaultWeight
	}
	for source, w := range over.SourceWeights {
		c.SourceWeights[source] = w
	}

	return c
}
