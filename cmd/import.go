package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meridian-policy/packet-cli/internal/ingest"
	"github.com/meridian-policy/packet-cli/internal/model"
	"github.com/meridian-policy/packet-cli/internal/store"
)

var (
	importHazardPaths     []string
	importAwardPaths      []string
	importDelegationPaths []string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load upstream JSON payloads into the input cache",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if len(importHazardPaths)+len(importAwardPaths)+len(importDelegationPaths) == 0 {
			return eris.New("import: at least one of --hazards, --awards, or --delegations is required")
		}

		env, err := initEnv(ctx, "import")
		if err != nil {
			return err
		}
		defer env.Close()

		stats, err := runImport(ctx, env.Store, importHazardPaths, importAwardPaths, importDelegationPaths)
		if err != nil {
			return err
		}

		zap.L().Info("import complete",
			zap.Int("hazard_profiles", stats.Hazards),
			zap.Int("award_sets", stats.Awards),
			zap.Int("delegations", stats.Delegations),
			zap.Int("skipped", stats.Skipped),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringSliceVar(&importHazardPaths, "hazards", nil, "hazard profile JSON file or directory (repeatable)")
	importCmd.Flags().StringSliceVar(&importAwardPaths, "awards", nil, "award history JSON file or directory (repeatable)")
	importCmd.Flags().StringSliceVar(&importDelegationPaths, "delegations", nil, "delegation JSON file or directory (repeatable)")
	rootCmd.AddCommand(importCmd)
}

// importStats counts what an import run loaded. Skipped covers payloads
// that failed to parse; store errors abort the run instead.
type importStats struct {
	Hazards     int
	Awards      int
	Delegations int
	Skipped     int
}

func runImport(ctx context.Context, st store.Store, hazardPaths, awardPaths, delegationPaths []string) (*importStats, error) {
	stats := &importStats{}

	files, err := collectFiles(hazardPaths)
	if err != nil {
		return nil, err
	}
	if len(files) > 0 {
		n, skipped, err := importHazards(ctx, st, files)
		if err != nil {
			return nil, err
		}
		stats.Hazards = n
		stats.Skipped += skipped
	}

	files, err = collectFiles(awardPaths)
	if err != nil {
		return nil, err
	}
	if len(files) > 0 {
		n, skipped, err := importAwards(ctx, st, files)
		if err != nil {
			return nil, err
		}
		stats.Awards = n
		stats.Skipped += skipped
	}

	files, err = collectFiles(delegationPaths)
	if err != nil {
		return nil, err
	}
	if len(files) > 0 {
		n, skipped, err := importDelegations(ctx, st, files)
		if err != nil {
			return nil, err
		}
		stats.Delegations = n
		stats.Skipped += skipped
	}

	return stats, nil
}

// collectFiles expands each path: directories contribute their *.json
// entries sorted by name, plain files contribute themselves.
func collectFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, eris.Wrapf(err, "import: stat %s", p)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(p, "*.json"))
		if err != nil {
			return nil, eris.Wrapf(err, "import: scan %s", p)
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}
	return files, nil
}

func importHazards(ctx context.Context, st store.Store, files []string) (int, int, error) {
	var profiles []model.HazardProfile
	skipped := 0
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return 0, 0, eris.Wrapf(err, "import: read %s", f)
		}
		p, err := ingest.ParseHazardPayload(data)
		if err != nil {
			zap.L().Warn("import: skipping hazard payload",
				zap.String("file", f), zap.Error(err))
			skipped++
			continue
		}
		profiles = append(profiles, *p)
	}

	// Bulk load when the backend supports it.
	if bw, ok := st.(store.BulkWriter); ok && len(profiles) > 1 {
		n, err := bw.BulkPutHazardProfiles(ctx, profiles)
		if err != nil {
			return 0, 0, eris.Wrap(err, "import: bulk load hazard profiles")
		}
		return int(n), skipped, nil
	}

	for i := range profiles {
		if err := st.PutHazardProfile(ctx, &profiles[i]); err != nil {
			return 0, 0, eris.Wrapf(err, "import: store hazard profile for %s", profiles[i].TribeID)
		}
	}
	return len(profiles), skipped, nil
}

func importAwards(ctx context.Context, st store.Store, files []string) (int, int, error) {
	var sets []model.AwardSet
	skipped := 0
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return 0, 0, eris.Wrapf(err, "import: read %s", f)
		}
		set, err := ingest.ParseAwardsPayload(data)
		if err != nil {
			zap.L().Warn("import: skipping award payload",
				zap.String("file", f), zap.Error(err))
			skipped++
			continue
		}
		sets = append(sets, *set)
	}

	if bw, ok := st.(store.BulkWriter); ok && len(sets) > 1 {
		n, err := bw.BulkPutAwards(ctx, sets)
		if err != nil {
			return 0, 0, eris.Wrap(err, "import: bulk load award sets")
		}
		return int(n), skipped, nil
	}

	for i := range sets {
		if err := st.PutAwards(ctx, &sets[i]); err != nil {
			return 0, 0, eris.Wrapf(err, "import: store awards for %s", sets[i].TribeID)
		}
	}
	return len(sets), skipped, nil
}

func importDelegations(ctx context.Context, st store.Store, files []string) (int, int, error) {
	loaded, skipped := 0, 0
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return 0, 0, eris.Wrapf(err, "import: read %s", f)
		}
		d, err := ingest.ParseDelegationPayload(data)
		if err != nil {
			zap.L().Warn("import: skipping delegation payload",
				zap.String("file", f), zap.Error(err))
			skipped++
			continue
		}
		if err := st.PutDelegation(ctx, d); err != nil {
			return 0, 0, eris.Wrapf(err, "import: store delegation for %s", d.TribeID)
		}
		loaded++
	}
	return loaded, skipped, nil
}
