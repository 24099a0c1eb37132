/*
Package sqlite provides a SQLite-backed Persister.

PURPOSE:
  Alternative persistence backend with the same whole-snapshot contract
  as the JSON file store: Save replaces the full collection inside one
  transaction, Load reads it back in stored order. A reader sees either
  the previous complete snapshot or the new one.

KEY TABLES:
  work_records: The ordered record collection (position column keeps
                the most-recent-first ordering)
  open_session: Single-row table holding the running clock, if any

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/timeclock.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - worklog/store.go: Persister contract
  - store/file: JSON file implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/timeclock/worklog"
)

// Store implements worklog.Persister using SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// New creates a SQLite store at the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS work_records (
		position         INTEGER NOT NULL,
		id               TEXT PRIMARY KEY,
		date             TEXT NOT NULL,
		start_at         TEXT NOT NULL,
		end_at           TEXT NOT NULL,
		total_seconds    INTEGER NOT NULL,
		display          TEXT NOT NULL,
		half_hours       TEXT NOT NULL,
		hourly           TEXT NOT NULL,
		salary           TEXT NOT NULL,
		modified_hourly  INTEGER NOT NULL DEFAULT 0,
		description      TEXT NOT NULL DEFAULT '',
		custom_window    INTEGER NOT NULL DEFAULT 0,
		custom_start_min INTEGER NOT NULL DEFAULT 0,
		custom_end_min   INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_work_records_position ON work_records(position);
	CREATE INDEX IF NOT EXISTS idx_work_records_date ON work_records(date);

	CREATE TABLE IF NOT EXISTS open_session (
		id          INTEGER PRIMARY KEY CHECK (id = 1),
		start_at    TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save replaces the stored snapshot in one transaction.
func (s *Store) Save(ctx context.Context, snap worklog.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM work_records`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM open_session`); err != nil {
		return err
	}

	insert := `INSERT INTO work_records
		(position, id, date, start_at, end_at, total_seconds, display,
		 half_hours, hourly, salary, modified_hourly, description,
		 custom_window, custom_start_min, custom_end_min)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for i, rec := range snap.Records {
		_, err := tx.ExecContext(ctx, insert,
			i,
			string(rec.ID),
			rec.Date.Format(time.RFC3339),
			rec.Start.Format(time.RFC3339),
			rec.End.Format(time.RFC3339),
			rec.TotalSeconds,
			rec.Display,
			rec.HalfHours.String(),
			rec.Hourly.String(),
			rec.Salary.String(),
			boolToInt(rec.ModifiedHourly),
			rec.Description,
			boolToInt(rec.CustomWindow),
			rec.CustomStartMin,
			rec.CustomEndMin,
		)
		if err != nil {
			return fmt.Errorf("inserting record %s: %w", rec.ID, err)
		}
	}

	if snap.Open != nil {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO open_session (id, start_at, description) VALUES (1, ?, ?)`,
			snap.Open.Start.Format(time.RFC3339), snap.Open.Description)
		if err != nil {
			return fmt.Errorf("inserting open session: %w", err)
		}
	}

	return tx.Commit()
}

// Load reads the snapshot back in stored order.
func (s *Store) Load(ctx context.Context) (worklog.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, start_at, end_at, total_seconds, display,
		       half_hours, hourly, salary, modified_hourly, description,
		       custom_window, custom_start_min, custom_end_min
		FROM work_records ORDER BY position`)
	if err != nil {
		return worklog.Snapshot{}, err
	}
	defer rows.Close()

	var snap worklog.Snapshot
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return worklog.Snapshot{}, err
		}
		snap.Records = append(snap.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return worklog.Snapshot{}, err
	}

	var startAt, description string
	err = s.db.QueryRowContext(ctx,
		`SELECT start_at, description FROM open_session WHERE id = 1`).
		Scan(&startAt, &description)
	switch {
	case err == sql.ErrNoRows:
		// No running clock.
	case err != nil:
		return worklog.Snapshot{}, err
	default:
		start, perr := time.Parse(time.RFC3339, startAt)
		if perr != nil {
			return worklog.Snapshot{}, fmt.Errorf("parsing open session start: %w", perr)
		}
		snap.Open = &worklog.OpenSession{Start: start, Description: description}
	}

	return snap, nil
}

func scanRecord(rows *sql.Rows) (worklog.WorkRecord, error) {
	var (
		rec                       worklog.WorkRecord
		id, date, startAt, endAt  string
		halfHours, hourly, salary string
		modifiedHourly, customWin int
	)
	err := rows.Scan(&id, &date, &startAt, &endAt, &rec.TotalSeconds,
		&rec.Display, &halfHours, &hourly, &salary, &modifiedHourly,
		&rec.Description, &customWin, &rec.CustomStartMin, &rec.CustomEndMin)
	if err != nil {
		return worklog.WorkRecord{}, err
	}

	rec.ID = worklog.RecordID(id)
	if rec.Date, err = time.Parse(time.RFC3339, date); err != nil {
		return worklog.WorkRecord{}, fmt.Errorf("parsing date: %w", err)
	}
	if rec.Start, err = time.Parse(time.RFC3339, startAt); err != nil {
		return worklog.WorkRecord{}, fmt.Errorf("parsing start: %w", err)
	}
	if rec.End, err = time.Parse(time.RFC3339, endAt); err != nil {
		return worklog.WorkRecord{}, fmt.Errorf("parsing end: %w", err)
	}
	if rec.HalfHours, err = decimal.NewFromString(halfHours); err != nil {
		return worklog.WorkRecord{}, fmt.Errorf("parsing half_hours: %w", err)
	}
	if rec.Hourly, err = decimal.NewFromString(hourly); err != nil {
		return worklog.WorkRecord{}, fmt.Errorf("parsing hourly: %w", err)
	}
	if rec.Salary, err = decimal.NewFromString(salary); err != nil {
		return worklog.WorkRecord{}, fmt.Errorf("parsing salary: %w", err)
	}
	rec.ModifiedHourly = modifiedHourly != 0
	rec.CustomWindow = customWin != 0
	return rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
