package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists tick metrics and reloads to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *zap.SugaredLogger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log *zap.SugaredLogger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while ticks write.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Infow("sqlite recorder opened", "path", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS metric_snapshots (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			tick_id     TEXT NOT NULL,
			timestamp   INTEGER NOT NULL,
			instrument  TEXT NOT NULL,
			metric      TEXT NOT NULL,
			value       REAL,
			value_time  INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON metric_snapshots(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_inst ON metric_snapshots(instrument, metric)`,

		`CREATE TABLE IF NOT EXISTS history_reloads (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			instrument  TEXT NOT NULL,
			bars        INTEGER,
			first_bar   INTEGER,
			last_bar    INTEGER,
			error       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reloads_ts ON history_reloads(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordTick writes one row per instrument and metric. Unavailable metrics
// are stored as NULL.
func (r *SQLiteRecorder) RecordTick(snap *TickSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO metric_snapshots
		(tick_id, timestamp, instrument, metric, value, value_time)
		VALUES (?,?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	ts := snap.At.Unix()
	for _, res := range snap.Results {
		for _, f := range res.Fields {
			var num sql.NullFloat64
			var at sql.NullInt64
			if v, ok := f.Value.Float(); ok {
				num = sql.NullFloat64{Float64: v, Valid: true}
			}
			if v, ok := f.Value.Time(); ok {
				at = sql.NullInt64{Int64: v.Unix(), Valid: true}
			}
			if _, err := stmt.Exec(snap.TickID, ts, res.Instrument, f.Name, num, at); err != nil {
				tx.Rollback()
				return fmt.Errorf("insert %s/%s: %w", res.Instrument, f.Name, err)
			}
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordReload(evt *ReloadEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO history_reloads
		(timestamp, instrument, bars, first_bar, last_bar, error)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), evt.Instrument, evt.Bars,
		nullUnix(evt.First), nullUnix(evt.Last), evt.Err,
	)
	return err
}

func nullUnix(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}

func (r *SQLiteRecorder) Close() error {
	r.log.Infow("closing sqlite recorder")
	return r.db.Close()
}
