package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/dost0092/hotel-mapped-url/internal/db"
	"github.com/dost0092/hotel-mapped-url/internal/model"
)

// conflictExpr is the idempotency key for outcome rows: hotel_code folded to
// '' so that unmatched rows dedupe too. It must stay textually identical to
// the unique index expression in the migration or ON CONFLICT will not
// attach to the index.
const conflictExpr = "(COALESCE(hotel_code, ''), url)"

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	table   string
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

const saveRunSQL = `
INSERT INTO reconciliation_runs (id, status, locations, discovered, skipped, matched, unmatched, inserted, error, started_at, finished_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (id) DO UPDATE SET
	status      = EXCLUDED.status,
	locations   = EXCLUDED.locations,
	discovered  = EXCLUDED.discovered,
	skipped     = EXCLUDED.skipped,
	matched     = EXCLUDED.matched,
	unmatched   = EXCLUDED.unmatched,
	inserted    = EXCLUDED.inserted,
	error       = EXCLUDED.error,
	finished_at = EXCLUDED.finished_at`

const listRunsSQL = `
SELECT id, status, locations, discovered, skipped, matched, unmatched, inserted, error, started_at, finished_at
FROM reconciliation_runs
ORDER BY started_at DESC
LIMIT $1`

// preparedStatements lists queries to prepare on each new connection. The run
// record statements fire on every reconciliation run; the outcome insert is
// built dynamically against the configured table and is not prepared here.
var preparedStatements = map[string]string{
	"save_run":  saveRunSQL,
	"list_runs": listRunsSQL,
}

// NewPostgres creates a PostgresStore with a connection pool. An empty table
// name falls back to DefaultTable.
func NewPostgres(ctx context.Context, connString, table string, poolCfg *PoolConfig) (*PostgresStore, error) {
	if table == "" {
		table = DefaultTable
	}

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
	return &PostgresStore{pool: pool, table: table, closeFn: pool.Close}, nil
}

const postgresMigrationTmpl = `
CREATE TABLE IF NOT EXISTS %[1]s (
	id                   BIGSERIAL PRIMARY KEY,
	hotel_code           TEXT,
	scraped_hotel_name   TEXT NOT NULL DEFAULT '',
	global_property_name TEXT,
	city                 TEXT NOT NULL DEFAULT '',
	state                TEXT NOT NULL DEFAULT '',
	state_code           TEXT,
	country              TEXT NOT NULL DEFAULT '',
	country_code         TEXT,
	url                  TEXT NOT NULL,
	address              TEXT NOT NULL DEFAULT '',
	latitude             DOUBLE PRECISION,
	longitude            DOUBLE PRECISION,
	match_confidence     DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_%[2]s_code_url ON %[1]s (COALESCE(hotel_code, ''), url);
CREATE INDEX IF NOT EXISTS idx_%[2]s_url ON %[1]s(url);
CREATE INDEX IF NOT EXISTS idx_%[2]s_hotel_code ON %[1]s(hotel_code);

CREATE TABLE IF NOT EXISTS reconciliation_runs (
	id          TEXT PRIMARY KEY,
	status      TEXT NOT NULL DEFAULT 'running',
	locations   INTEGER NOT NULL DEFAULT 0,
	discovered  INTEGER NOT NULL DEFAULT 0,
	skipped     INTEGER NOT NULL DEFAULT 0,
	matched     INTEGER NOT NULL DEFAULT 0,
	unmatched   INTEGER NOT NULL DEFAULT 0,
	inserted    BIGINT NOT NULL DEFAULT 0,
	error       TEXT,
	started_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	finished_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_reconciliation_runs_status ON reconciliation_runs(status);
CREATE INDEX IF NOT EXISTS idx_reconciliation_runs_started_at ON reconciliation_runs(started_at DESC);
`

func (s *PostgresStore) migrationSQL() string {
	idxBase := strings.ReplaceAll(s.table, ".", "_")
	return fmt.Sprintf(postgresMigrationTmpl, s.table, idxBase)
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, s.migrationSQL())
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// InsertOutcomes appends outcomes to the configured table, skipping rows
// already present under the (hotel_code, url) idempotency key. Returns the
// number of rows actually written.
func (s *PostgresStore) InsertOutcomes(ctx context.Context, outcomes []model.MatchOutcome) (int64, error) {
	if len(outcomes) == 0 {
		return 0, nil
	}

	rows := make([][]any, 0, len(outcomes))
	for _, o := range outcomes {
		rows = append(rows, outcomeRow(o))
	}

	n, err := db.BulkAppend(ctx, s.pool, db.AppendConfig{
		Table:        s.table,
		Columns:      outcomeColumns,
		ConflictExpr: conflictExpr,
	}, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: insert outcomes")
	}
	return n, nil
}

func (s *PostgresStore) SaveRun(ctx context.Context, run model.RunSummary) error {
	var errMsg *string
	if run.Error != "" {
		errMsg = &run.Error
	}
	var finishedAt *time.Time
	if !run.FinishedAt.IsZero() {
		t := run.FinishedAt.UTC()
		finishedAt = &t
	}

	_, err := s.pool.Exec(ctx, saveRunSQL,
		run.ID, string(run.Status), run.Locations, run.Discovered, run.Skipped,
		run.Matched, run.Unmatched, run.Inserted, errMsg, run.StartedAt.UTC(), finishedAt,
	)
	return eris.Wrapf(err, "postgres: save run %s", run.ID)
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]model.RunSummary, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.pool.Query(ctx, listRunsSQL, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.RunSummary
	for rows.Next() {
		var r model.RunSummary
		var errMsg *string
		var finishedAt *time.Time

		if err := rows.Scan(&r.ID, &r.Status, &r.Locations, &r.Discovered, &r.Skipped,
			&r.Matched, &r.Unmatched, &r.Inserted, &errMsg, &r.StartedAt, &finishedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		if errMsg != nil {
			r.Error = *errMsg
		}
		if finishedAt != nil {
			r.FinishedAt = *finishedAt
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}
