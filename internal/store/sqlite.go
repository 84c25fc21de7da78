package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/meridian-policy/packet-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS hazard_profiles (
	tribe_id     TEXT PRIMARY KEY,
	id           TEXT NOT NULL,
	payload      TEXT NOT NULL,
	source       TEXT,
	as_of        TEXT,
	retrieved_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS award_sets (
	tribe_id     TEXT PRIMARY KEY,
	id           TEXT NOT NULL,
	payload      TEXT NOT NULL,
	source       TEXT,
	as_of        TEXT,
	retrieved_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS delegations (
	tribe_id     TEXT PRIMARY KEY,
	id           TEXT NOT NULL,
	payload      TEXT NOT NULL,
	source       TEXT,
	as_of        TEXT,
	retrieved_at TEXT NOT NULL
);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) put(ctx context.Context, table, tribeID, source, asOf string, payload any) error {
	if tribeID == "" {
		return eris.Errorf("sqlite: put %s: empty tribe id", table)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrapf(err, "sqlite: marshal %s payload", table)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO `+table+` (tribe_id, id, payload, source, as_of, retrieved_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (tribe_id) DO UPDATE SET
		   id = excluded.id, payload = excluded.payload, source = excluded.source,
		   as_of = excluded.as_of, retrieved_at = excluded.retrieved_at`,
		tribeID, uuid.New().String(), string(data), source, asOf,
		time.Now().UTC().Format(time.RFC3339),
	)
	return eris.Wrapf(err, "sqlite: put %s for %s", table, tribeID)
}

func (s *SQLiteStore) get(ctx context.Context, table, tribeID string, out any) (bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM `+table+` WHERE tribe_id = ?`, tribeID,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, eris.Wrapf(err, "sqlite: get %s for %s", table, tribeID)
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return false, eris.Wrapf(err, "sqlite: unmarshal %s payload for %s", table, tribeID)
	}
	return true, nil
}

func (s *SQLiteStore) PutHazardProfile(ctx context.Context, p *model.HazardProfile) error {
	return s.put(ctx, "hazard_profiles", p.TribeID, p.Source, p.AsOf, p)
}

func (s *SQLiteStore) GetHazardProfile(ctx context.Context, tribeID string) (*model.HazardProfile, error) {
	var p model.HazardProfile
	ok, err := s.get(ctx, "hazard_profiles", tribeID, &p)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

func (s *SQLiteStore) PutAwards(ctx context.Context, set *model.AwardSet) error {
	return s.put(ctx, "award_sets", set.TribeID, set.Source, set.AsOf, set)
}

func (s *SQLiteStore) GetAwards(ctx context.Context, tribeID string) (*model.AwardSet, error) {
	var set model.AwardSet
	ok, err := s.get(ctx, "award_sets", tribeID, &set)
	if err != nil || !ok {
		return nil, err
	}
	return &set, nil
}

func (s *SQLiteStore) PutDelegation(ctx context.Context, d *model.Delegation) error {
	return s.put(ctx, "delegations", d.TribeID, d.Source, d.AsOf, d)
}

func (s *SQLiteStore) GetDelegation(ctx context.Context, tribeID string) (*model.Delegation, error) {
	var d model.Delegation
	ok, err := s.get(ctx, "delegations", tribeID, &d)
	if err != nil || !ok {
		return nil, err
	}
	return &d, nil
}

func (s *SQLiteStore) ListTribeIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tribe_id FROM hazard_profiles
		 UNION SELECT tribe_id FROM award_sets
		 UNION SELECT tribe_id FROM delegations`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list tribe ids")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan tribe id")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: list tribe ids iterate")
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *SQLiteStore) Coverage(ctx context.Context) (*Coverage, error) {
	var cov Coverage
	for _, q := range []struct {
		table string
		dst   *DatasetCoverage
	}{
		{"hazard_profiles", &cov.Hazards},
		{"award_sets", &cov.Awards},
		{"delegations", &cov.Delegations},
	} {
		var latest sql.NullString
		err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*), MAX(retrieved_at) FROM `+q.table,
		).Scan(&q.dst.Rows, &latest)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: coverage %s", q.table)
		}
		if latest.Valid {
			ts, err := time.Parse(time.RFC3339, latest.String)
			if err != nil {
				return nil, eris.Wrapf(err, "sqlite: coverage %s retrieved_at", q.table)
			}
			q.dst.Latest = ts
		}
	}
	return &cov, nil
}
