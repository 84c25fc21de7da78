package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	regionID     string
	regionFormat string
	regionOutput string
)

var regionCmd = &cobra.Command{
	Use:   "region",
	Short: "Aggregate a regional coalition context across member tribes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if regionFormat != "table" && regionFormat != "json" {
			return eris.Errorf("region: --format must be table or json (got %q)", regionFormat)
		}

		env, err := initEnv(ctx, "region")
		if err != nil {
			return err
		}
		defer env.Close()

		data, err := env.Generator.RegionInputs(ctx, regionID, env.Aggregator)
		if err != nil {
			return err
		}

		rc, err := env.Aggregator.Aggregate(regionID, time.Now().UTC(), data)
		if err != nil {
			return err
		}

		zap.L().Info("region: context aggregated",
			zap.String("region", regionID),
			zap.Int("tribes", rc.TribeCount),
			zap.Int("with_awards", rc.TribesWithAwards),
		)

		w, closeFn, err := openOutput(regionOutput)
		if err != nil {
			return err
		}
		defer closeFn()

		if regionFormat == "json" {
			return writeJSONIndent(w, rc)
		}
		return writeRegionTable(w, rc)
	},
}

func init() {
	regionCmd.Flags().StringVar(&regionID, "region", "", "region ID to aggregate (required)")
	regionCmd.Flags().StringVar(&regionFormat, "format", "table", "output format: table or json")
	regionCmd.Flags().StringVar(&regionOutput, "output", "", "output file path (default stdout)")
	_ = regionCmd.MarkFlagRequired("region")
	rootCmd.AddCommand(regionCmd)
}
