package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/meridian-policy/packet-cli/internal/config"
	"github.com/meridian-policy/packet-cli/internal/pipeline"
)

var (
	packetTribes      []string
	packetAll         bool
	packetFormat      string
	packetOutput      string
	packetNoSave      bool
	packetConcurrency int
)

var packetCmd = &cobra.Command{
	Use:   "packet",
	Short: "Generate advocacy packets for one or more tribes",
	RunE:  runPacket,
}

func init() {
	packetCmd.Flags().StringSliceVar(&packetTribes, "tribe", nil, "tribe ID to generate for (repeatable)")
	packetCmd.Flags().BoolVar(&packetAll, "all", false, "generate for every tribe in the registry")
	packetCmd.Flags().StringVar(&packetFormat, "format", "table", "output format: table, json, csv, or xlsx")
	packetCmd.Flags().StringVar(&packetOutput, "output", "", "output file path (default stdout)")
	packetCmd.Flags().BoolVar(&packetNoSave, "no-save", false, "skip writing the generation snapshot")
	packetCmd.Flags().IntVar(&packetConcurrency, "concurrency", 0, "parallel generations (default from config)")
	packetCmd.Flags().Int("min-programs", 0, "override the minimum packet size")
	packetCmd.Flags().Int("max-programs", 0, "override the maximum packet size")
	rootCmd.AddCommand(packetCmd)
}

func runPacket(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(packetTribes) == 0 && !packetAll {
		return eris.New("packet: --tribe or --all is required")
	}
	if packetAll && len(packetTribes) > 0 {
		return eris.New("packet: --tribe and --all are mutually exclusive")
	}
	switch packetFormat {
	case "table", "json", "csv", "xlsx":
	default:
		return eris.Errorf("packet: --format must be table, json, csv, or xlsx (got %q)", packetFormat)
	}
	if packetFormat == "xlsx" && packetOutput == "" {
		return eris.New("packet: --output is required for xlsx format")
	}

	// Build engine config from global config with CLI overrides.
	cfg.Relevance = applyRelevanceOverrides(cmd, cfg.Relevance)

	var genOpts []pipeline.Option
	if packetNoSave {
		genOpts = append(genOpts, pipeline.WithoutSnapshotSave())
	}

	env, err := initEnv(ctx, "packet", genOpts...)
	if err != nil {
		return err
	}
	defer env.Close()

	ids := packetTribes
	if packetAll {
		ids = env.Registry.TribeIDs()
	}

	// Single-tribe mode.
	if len(ids) == 1 {
		result, err := env.Generator.Generate(ctx, ids[0])
		if err != nil {
			return err
		}
		return outputPacket(result, packetFormat, packetOutput)
	}

	concurrency := cfg.Batch.Concurrency
	if packetConcurrency > 0 {
		concurrency = packetConcurrency
	}

	results := env.Generator.GenerateAll(ctx, ids, concurrency)
	return outputBatch(results, packetFormat, packetOutput)
}

// applyRelevanceOverrides returns a copy of the base config with CLI flag overrides applied.
func applyRelevanceOverrides(cmd *cobra.Command, base config.RelevanceConfig) config.RelevanceConfig {
	c := base

	if v, _ := cmd.Flags().GetInt("min-programs"); v > 0 {
		c.MinPrograms = v
	}
	if v, _ := cmd.Flags().GetInt("max-programs"); v > 0 {
		c.MaxPrograms = v
	}

	return c
}
