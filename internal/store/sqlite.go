package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/dost0092/hotel-mapped-url/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. It exists for local
// runs and tests that should not need a Postgres instance.
type SQLiteStore struct {
	db    *sql.DB
	table string
}

// NewSQLite opens a SQLite database at the given path and configures WAL
// mode. An empty table name falls back to DefaultTable.
func NewSQLite(dsn, table string) (*SQLiteStore, error) {
	if table == "" {
		table = DefaultTable
	}

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
	return &SQLiteStore{db: db, table: table}, nil
}

const sqliteMigrationTmpl = `
CREATE TABLE IF NOT EXISTS %[1]s (
	id                   INTEGER PRIMARY KEY AUTOINCREMENT,
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
	latitude             REAL,
	longitude            REAL,
	match_confidence     REAL NOT NULL DEFAULT 0,
	created_at           DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_%[2]s_code_url ON %[1]s (COALESCE(hotel_code, ''), url);
CREATE INDEX IF NOT EXISTS idx_%[2]s_url ON %[1]s(url);

CREATE TABLE IF NOT EXISTS reconciliation_runs (
	id          TEXT PRIMARY KEY,
	status      TEXT NOT NULL DEFAULT 'running',
	locations   INTEGER NOT NULL DEFAULT 0,
	discovered  INTEGER NOT NULL DEFAULT 0,
	skipped     INTEGER NOT NULL DEFAULT 0,
	matched     INTEGER NOT NULL DEFAULT 0,
	unmatched   INTEGER NOT NULL DEFAULT 0,
	inserted    INTEGER NOT NULL DEFAULT 0,
	error       TEXT,
	started_at  DATETIME NOT NULL,
	finished_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_reconciliation_runs_status ON reconciliation_runs(status);
CREATE INDEX IF NOT EXISTS idx_reconciliation_runs_started_at ON reconciliation_runs(started_at);
`

func (s *SQLiteStore) migrationSQL() string {
	idxBase := strings.ReplaceAll(s.table, ".", "_")
	return fmt.Sprintf(sqliteMigrationTmpl, s.table, idxBase)
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, s.migrationSQL())
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// InsertOutcomes appends outcomes inside a single transaction, relying on
// INSERT OR IGNORE plus the unique (hotel_code, url) index for idempotency.
func (s *SQLiteStore) InsertOutcomes(ctx context.Context, outcomes []model.MatchOutcome) (int64, error) {
	if len(outcomes) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	insertSQL := fmt.Sprintf(
		"INSERT OR IGNORE INTO %s (%s) VALUES (%s)",
		s.table,
		strings.Join(outcomeColumns, ", "),
		placeholders(len(outcomeColumns)),
	)
	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close()

	var inserted int64
	for _, o := range outcomes {
		res, err := stmt.ExecContext(ctx, outcomeRow(o)...)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert outcome %s", o.URL)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, eris.Wrap(err, "sqlite: rows affected")
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit tx")
	}
	return inserted, nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run model.RunSummary) error {
	var errMsg *string
	if run.Error != "" {
		errMsg = &run.Error
	}
	var finishedAt *time.Time
	if !run.FinishedAt.IsZero() {
		t := run.FinishedAt.UTC()
		finishedAt = &t
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reconciliation_runs (id, status, locations, discovered, skipped, matched, unmatched, inserted, error, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			status      = excluded.status,
			locations   = excluded.locations,
			discovered  = excluded.discovered,
			skipped     = excluded.skipped,
			matched     = excluded.matched,
			unmatched   = excluded.unmatched,
			inserted    = excluded.inserted,
			error       = excluded.error,
			finished_at = excluded.finished_at`,
		run.ID, string(run.Status), run.Locations, run.Discovered, run.Skipped,
		run.Matched, run.Unmatched, run.Inserted, errMsg, run.StartedAt.UTC(), finishedAt,
	)
	return eris.Wrapf(err, "sqlite: save run %s", run.ID)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]model.RunSummary, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, status, locations, discovered, skipped, matched, unmatched, inserted, error, started_at, finished_at
		 FROM reconciliation_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.RunSummary
	for rows.Next() {
		var r model.RunSummary
		var errMsg sql.NullString
		var finishedAt sql.NullTime

		if err := rows.Scan(&r.ID, &r.Status, &r.Locations, &r.Discovered, &r.Skipped,
			&r.Matched, &r.Unmatched, &r.Inserted, &errMsg, &r.StartedAt, &finishedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		if errMsg.Valid {
			r.Error = errMsg.String
		}
		if finishedAt.Valid {
			r.FinishedAt = finishedAt.Time
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
