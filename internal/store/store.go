// Package store is the raw per-tribe input cache: hazard profiles, award
// histories, and congressional delegations land here as the upstream
// fetchers report them, and packet generation reads them back out.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/meridian-policy/packet-cli/internal/model"
)

// DatasetCoverage summarizes one cached dataset.
type DatasetCoverage struct {
	Rows   int       `json:"rows"`
	Latest time.Time `json:"latest,omitempty"`
}

// Coverage reports how much of each input dataset the cache holds.
type Coverage struct {
	Hazards     DatasetCoverage `json:"hazards"`
	Awards      DatasetCoverage `json:"awards"`
	Delegations DatasetCoverage `json:"delegations"`
}

// Store defines the persistence interface for the raw input cache. All
// Get methods return (nil, nil) when the tribe has no cached row; a
// missing input is first-class state, not an error.
type Store interface {
	PutHazardProfile(ctx context.Context, p *model.HazardProfile) error
	GetHazardProfile(ctx context.Context, tribeID string) (*model.HazardProfile, error)

	PutAwards(ctx context.Context, set *model.AwardSet) error
	GetAwards(ctx context.Context, tribeID string) (*model.AwardSet, error)

	PutDelegation(ctx context.Context, d *model.Delegation) error
	GetDelegation(ctx context.Context, tribeID string) (*model.Delegation, error)

	// ListTribeIDs returns the sorted union of tribe ids across all three
	// datasets.
	ListTribeIDs(ctx context.Context) ([]string, error)
	Coverage(ctx context.Context) (*Coverage, error)

	Migrate(ctx context.Context) error
	Close() error
}

// BulkWriter is implemented by backends that can load many cached rows
// in one round trip. Callers fall back to per-row Puts when the backend
// does not offer it.
type BulkWriter interface {
	BulkPutAwards(ctx context.Context, sets []model.AwardSet) (int64, error)
	BulkPutHazardProfiles(ctx context.Context, profiles []model.HazardProfile) (int64, error)
}

// Open selects a backend by driver name. SQLite stores migrate on open;
// Postgres migration is left to the caller so read-only consumers skip it.
func Open(ctx context.Context, driver, path, databaseURL string) (Store, error) {
	switch driver {
	case "sqlite":
		st, err := NewSQLite(path)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close()
			return nil, err
		}
		return st, nil
	case "postgres":
		return NewPostgres(ctx, databaseURL, nil)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}
