package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/meridian-policy/packet-cli/internal/model"
	"github.com/meridian-policy/packet-cli/internal/pipeline"
	"github.com/meridian-policy/packet-cli/internal/relevance"
)

var catalogTribe string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the federal program catalog, optionally scored for a tribe",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// Scoring a catalog never counts as a generation, so snapshots
		// stay untouched.
		env, err := initEnv(ctx, "packet", pipeline.WithoutSnapshotSave())
		if err != nil {
			return err
		}
		defer env.Close()

		if catalogTribe == "" {
			printCatalog(env.Registry.Programs())
			return nil
		}

		result, err := env.Generator.Generate(ctx, catalogTribe)
		if err != nil {
			return err
		}
		printScoredCatalog(result.Context)
		return nil
	},
}

func init() {
	catalogCmd.Flags().StringVar(&catalogTribe, "tribe", "", "score the catalog for this tribe and show the breakdown")
	rootCmd.AddCommand(catalogCmd)
}

func printCatalog(programs []model.Program) {
	fmt.Printf("%-27s %-42s %-8s %-9s %s\n", "PROGRAM", "NAME", "AGENCY", "TIER", "AL NUMBERS")
	fmt.Println(strings.Repeat("-", 105))
	for _, p := range programs {
		name := p.Name
		if len(name) > 42 {
			name = name[:39] + "..."
		}
		fmt.Printf("%-27s %-42s %-8s %-9s %s\n",
			p.ID, name, p.Agency, p.Tier, strings.Join(p.ALNumbers, ", "))
	}
	fmt.Printf("\n%d programs\n", len(programs))
}

func printScoredCatalog(pc *model.PacketContext) {
	fmt.Printf("Catalog scored for %s (%s)\n\n", pc.TribeName, pc.TribeID)

	fmt.Printf("%-27s %-9s %6s %7s %6s %7s %5s %8s\n",
		"PROGRAM", "TIER", "BASE", "ALWAYS", "CRIT", "HAZARD", "GEO", "SCORE")
	fmt.Println(strings.Repeat("-", 82))
	for _, sp := range pc.Programs {
		c := sp.Components
		fmt.Printf("%-27s %-9s %6.0f %7.0f %6.0f %7.1f %5.0f %8.1f\n",
			sp.Program.ID, sp.Program.Tier,
			c[relevance.ComponentBase], c[relevance.ComponentAlways], c[relevance.ComponentCritical],
			c[relevance.ComponentHazard], c[relevance.ComponentGeo], sp.Score)
	}

	if len(pc.Omitted) > 0 {
		fmt.Println("\nOmitted from packet:")
		for _, p := range pc.Omitted {
			fmt.Printf("  %-27s %s\n", p.ID, p.Tier)
		}
	}
}
