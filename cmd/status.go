package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show input cache coverage and snapshot inventory",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx, "packet")
		if err != nil {
			return err
		}
		defer env.Close()

		cov, err := env.Store.Coverage(ctx)
		if err != nil {
			return eris.Wrap(err, "status: read coverage")
		}

		tribeIDs, err := env.Store.ListTribeIDs(ctx)
		if err != nil {
			return eris.Wrap(err, "status: list cached tribes")
		}

		snapCount, snapLatest, err := snapshotInventory(cfg.Snapshot.Dir)
		if err != nil {
			return err
		}

		fmt.Println("=== Input Cache ===")
		fmt.Printf("Hazard profiles:   %d", cov.Hazards.Rows)
		printLatest(cov.Hazards.Latest)
		fmt.Printf("Award sets:        %d", cov.Awards.Rows)
		printLatest(cov.Awards.Latest)
		fmt.Printf("Delegations:       %d", cov.Delegations.Rows)
		printLatest(cov.Delegations.Latest)
		fmt.Printf("Cached tribes:     %d\n", len(tribeIDs))
		fmt.Println()

		fmt.Println("=== Registry ===")
		fmt.Printf("Programs:          %d\n", len(env.Registry.Programs()))
		fmt.Printf("Tribes:            %d\n", len(env.Registry.Tribes()))
		fmt.Printf("Regions:           %d\n", len(env.Registry.Regions()))
		fmt.Println()

		fmt.Println("=== Snapshots ===")
		fmt.Printf("Directory:         %s\n", cfg.Snapshot.Dir)
		fmt.Printf("Snapshots:         %d", snapCount)
		printLatest(snapLatest)

		// Registry tribes with no cached inputs at all.
		cached := make(map[string]bool, len(tribeIDs))
		for _, id := range tribeIDs {
			cached[id] = true
		}
		var missing []string
		for _, id := range env.Registry.TribeIDs() {
			if !cached[id] {
				missing = append(missing, id)
			}
		}
		if len(missing) > 0 {
			fmt.Printf("\nTribes with no cached inputs: %s\n", strings.Join(missing, ", "))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func printLatest(t time.Time) {
	if t.IsZero() {
		fmt.Println()
		return
	}
	fmt.Printf("  (latest %s)\n", t.Format("2006-01-02"))
}

// snapshotInventory counts snapshot files and reports the newest write
// time. A missing directory is an empty inventory, not an error.
func snapshotInventory(dir string) (int, time.Time, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, time.Time{}, nil
		}
		return 0, time.Time{}, eris.Wrapf(err, "status: read snapshot dir %s", dir)
	}

	count := 0
	var latest time.Time
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		count++
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latest) {
			latest = info.ModTime()
		}
	}
	return count, latest, nil
}
