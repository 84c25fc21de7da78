package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meridian-policy/packet-cli/internal/geo"
)

var geoCmd = &cobra.Command{
	Use:   "geo",
	Short: "Land-base geography tooling",
}

var (
	geoShpPath    string
	geoOutputPath string
)

var geoLoadAreasCmd = &cobra.Command{
	Use:   "load-areas",
	Short: "Derive land-base classifications from a TIGER shapefile",
	Long:  "Reads reservation boundary polygons, computes land area and centroid per record, and emits classified areas as JSON for the tribe roster.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		areas, err := geo.LoadAreas(geoShpPath)
		if err != nil {
			return err
		}

		classCounts := make(map[string]int)
		for _, a := range areas {
			classCounts[a.Class]++
		}
		fields := []zap.Field{
			zap.Int("areas", len(areas)),
			zap.String("shapefile", geoShpPath),
		}
		for class, n := range classCounts {
			fields = append(fields, zap.Int(class, n))
		}
		zap.L().Info("geo: areas classified", fields...)

		w, closeFn, err := openOutput(geoOutputPath)
		if err != nil {
			return err
		}
		defer closeFn()

		return writeJSONIndent(w, areas)
	},
}

func init() {
	geoLoadAreasCmd.Flags().StringVar(&geoShpPath, "shp", "", "path to the boundary shapefile (required)")
	geoLoadAreasCmd.Flags().StringVar(&geoOutputPath, "output", "", "output file path (default stdout)")
	_ = geoLoadAreasCmd.MarkFlagRequired("shp")
	geoCmd.AddCommand(geoLoadAreasCmd)
	rootCmd.AddCommand(geoCmd)
}
