package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/meridian-policy/packet-cli/internal/db"
	"github.com/meridian-policy/packet-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used cache operations.
var preparedStatements = map[string]string{
	"put_hazard_profile": upsertSQL("hazard_profiles"),
	"get_hazard_profile": `SELECT payload FROM hazard_profiles WHERE tribe_id = $1`,
	"put_award_set":      upsertSQL("award_sets"),
	"get_award_set":      `SELECT payload FROM award_sets WHERE tribe_id = $1`,
	"put_delegation":     upsertSQL("delegations"),
	"get_delegation":     `SELECT payload FROM delegations WHERE tribe_id = $1`,
}

func upsertSQL(table string) string {
	return `INSERT INTO ` + table + ` (tribe_id, id, payload, source, as_of, retrieved_at)
	 VALUES ($1, $2, $3, $4, $5, $6)
	 ON CONFLICT (tribe_id) DO UPDATE SET
	   id = EXCLUDED.id, payload = EXCLUDED.payload, source = EXCLUDED.source,
	   as_of = EXCLUDED.as_of, retrieved_at = EXCLUDED.retrieved_at`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// Pool returns the underlying database pool for subsystems that need
// direct query access.
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS hazard_profiles (
	tribe_id     TEXT PRIMARY KEY,
	id           TEXT NOT NULL,
	payload      JSONB NOT NULL,
	source       TEXT,
	as_of        TEXT,
	retrieved_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS award_sets (
	tribe_id     TEXT PRIMARY KEY,
	id           TEXT NOT NULL,
	payload      JSONB NOT NULL,
	source       TEXT,
	as_of        TEXT,
	retrieved_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS delegations (
	tribe_id     TEXT PRIMARY KEY,
	id           TEXT NOT NULL,
	payload      JSONB NOT NULL,
	source       TEXT,
	as_of        TEXT,
	retrieved_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) put(ctx context.Context, table, tribeID, source, asOf string, payload any) error {
	if tribeID == "" {
		return eris.Errorf("postgres: put %s: empty tribe id", table)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrapf(err, "postgres: marshal %s payload", table)
	}

	_, err = s.pool.Exec(ctx, upsertSQL(table),
		tribeID, uuid.New().String(), data, source, asOf, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: put %s for %s", table, tribeID)
}

func (s *PostgresStore) get(ctx context.Context, table, tribeID string, out any) (bool, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM `+table+` WHERE tribe_id = $1`, tribeID,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, eris.Wrapf(err, "postgres: get %s for %s", table, tribeID)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return false, eris.Wrapf(err, "postgres: unmarshal %s payload for %s", table, tribeID)
	}
	return true, nil
}

func (s *PostgresStore) PutHazardProfile(ctx context.Context, p *model.HazardProfile) error {
	return s.put(ctx, "hazard_profiles", p.TribeID, p.Source, p.AsOf, p)
}

func (s *PostgresStore) GetHazardProfile(ctx context.Context, tribeID string) (*model.HazardProfile, error) {
	var p model.HazardProfile
	ok, err := s.get(ctx, "hazard_profiles", tribeID, &p)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) PutAwards(ctx context.Context, set *model.AwardSet) error {
	return s.put(ctx, "award_sets", set.TribeID, set.Source, set.AsOf, set)
}

func (s *PostgresStore) GetAwards(ctx context.Context, tribeID string) (*model.AwardSet, error) {
	var set model.AwardSet
	ok, err := s.get(ctx, "award_sets", tribeID, &set)
	if err != nil || !ok {
		return nil, err
	}
	return &set, nil
}

func (s *PostgresStore) PutDelegation(ctx context.Context, d *model.Delegation) error {
	return s.put(ctx, "delegations", d.TribeID, d.Source, d.AsOf, d)
}

func (s *PostgresStore) GetDelegation(ctx context.Context, tribeID string) (*model.Delegation, error) {
	var d model.Delegation
	ok, err := s.get(ctx, "delegations", tribeID, &d)
	if err != nil || !ok {
		return nil, err
	}
	return &d, nil
}

func (s *PostgresStore) ListTribeIDs(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT tribe_id FROM hazard_profiles
		 UNION SELECT tribe_id FROM award_sets
		 UNION SELECT tribe_id FROM delegations
		 ORDER BY tribe_id`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list tribe ids")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, eris.Wrap(err, "postgres: scan tribe id")
		}
		ids = append(ids, id)
	}
	return ids, eris.Wrap(rows.Err(), "postgres: list tribe ids iterate")
}

func (s *PostgresStore) Coverage(ctx context.Context) (*Coverage, error) {
	var cov Coverage
	for _, q := range []struct {
		table string
		dst   *DatasetCoverage
	}{
		{"hazard_profiles", &cov.Hazards},
		{"award_sets", &cov.Awards},
		{"delegations", &cov.Delegations},
	} {
		var latest *time.Time
		err := s.pool.QueryRow(ctx,
			`SELECT COUNT(*), MAX(retrieved_at) FROM `+q.table,
		).Scan(&q.dst.Rows, &latest)
		if err != nil {
			return nil, eris.Wrapf(err, "postgres: coverage %s", q.table)
		}
		if latest != nil {
			q.dst.Latest = *latest
		}
	}
	return &cov, nil
}

// bulkColumns is the shared column layout for the three cache tables.
var bulkColumns = []string{"tribe_id", "id", "payload", "source", "as_of", "retrieved_at"}

// BulkPutAwards loads many award sets in one round trip via COPY.
func (s *PostgresStore) BulkPutAwards(ctx context.Context, sets []model.AwardSet) (int64, error) {
	rows := make([][]any, 0, len(sets))
	now := time.Now().UTC()
	for i := range sets {
		set := &sets[i]
		if set.TribeID == "" {
			return 0, eris.New("postgres: bulk put awards: empty tribe id")
		}
		payload, err := json.Marshal(set)
		if err != nil {
			return 0, eris.Wrapf(err, "postgres: marshal award set for %s", set.TribeID)
		}
		rows = append(rows, []any{set.TribeID, uuid.New().String(), payload, set.Source, set.AsOf, now})
	}
	return db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "award_sets",
		Columns:      bulkColumns,
		ConflictKeys: []string{"tribe_id"},
	}, rows)
}

// BulkPutHazardProfiles loads many hazard profiles in one round trip via COPY.
func (s *PostgresStore) BulkPutHazardProfiles(ctx context.Context, profiles []model.HazardProfile) (int64, error) {
	rows := make([][]any, 0, len(profiles))
	now := time.Now().UTC()
	for i := range profiles {
		p := &profiles[i]
		if p.TribeID == "" {
			return 0, eris.New("postgres: bulk put hazard profiles: empty tribe id")
		}
		payload, err := json.Marshal(p)
		if err != nil {
			return 0, eris.Wrapf(err, "postgres: marshal hazard profile for %s", p.TribeID)
		}
		rows = append(rows, []any{p.TribeID, uuid.New().String(), payload, p.Source, p.AsOf, now})
	}
	return db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "hazard_profiles",
		Columns:      bulkColumns,
		ConflictKeys: []string{"tribe_id"},
	}, rows)
}
