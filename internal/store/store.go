// Package store archives resolved journal transactions in SQLite.
//
// Each business day is stored as one set of rows. Saving a day again replaces
// its earlier rows, so re-analyzing a month leaves a single copy.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ginjaninja78/fuelstats/internal/logparser"
)

//go:embed schema.sql
var schemaSQL string

const dayLayout = "2006-01-02"

// Store is an open archive database.
type Store struct {
	db *sql.DB
}

// Open creates or opens the archive at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// One writer; day saves from concurrent goroutines queue on it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// BeginRun records a processing run. Days are saved under its id.
func (s *Store) BeginRun(ctx context.Context, runID string, started time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at) VALUES (?, ?)
		ON CONFLICT(id) DO NOTHING
	`, runID, started.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("begin run %s: %w", runID, err)
	}
	return nil
}

// SaveDay replaces the archived rows of day.Date with the contents of day.
func (s *Store) SaveDay(ctx context.Context, runID string, day *logparser.DayResult) (err error) {
	if day.Date.IsZero() {
		return errors.New("save day: result has no date")
	}
	key := day.Date.Format(dayLayout)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save day %s: %w", key, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, table := range []string{"fuel_transactions", "car_washes", "diagnostics"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE day = ?", key); err != nil {
			return fmt.Errorf("save day %s: clear %s: %w", key, table, err)
		}
	}

	for _, f := range day.Fuel {
		var tier sql.NullString
		var washCents sql.NullInt64
		if f.CarWash != nil {
			tier = sql.NullString{String: string(f.CarWash.Tier), Valid: true}
			washCents = sql.NullInt64{Int64: int64(f.CarWash.Amount), Valid: true}
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO fuel_transactions
			(day, run_id, txn_id, time, amount_cents, location, tender, volume_milli,
			 grade, pump, unit_price_milli, indoor_prepay, reference, wash_tier, wash_cents)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			key, runID, f.ID, timeText(f.Time), int64(f.Amount), string(f.Location), string(f.Tender),
			int64(f.Volume), string(f.Grade), f.Pump, int64(f.UnitPrice), f.IndoorPrepay, f.Reference,
			tier, washCents,
		)
		if err != nil {
			return fmt.Errorf("save day %s: fuel %s: %w", key, f.ID, err)
		}
	}

	for _, w := range day.CarWashes {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO car_washes
			(day, run_id, txn_id, time, amount_cents, location, tender, tier)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			key, runID, w.ID, timeText(w.Time), int64(w.Amount), string(w.Location), string(w.Tender), string(w.Tier),
		)
		if err != nil {
			return fmt.Errorf("save day %s: wash %s: %w", key, w.ID, err)
		}
	}

	for _, d := range day.Diagnostics {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO diagnostics
			(day, run_id, severity, kind, line, txn_id, reference, message)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			key, runID, string(d.Severity), string(d.Kind), d.Line, d.TxnID, d.Reference, d.Message,
		)
		if err != nil {
			return fmt.Errorf("save day %s: diagnostic: %w", key, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("save day %s: commit: %w", key, err)
	}
	return nil
}

func timeText(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// DayCounts is the number of archived rows of one day.
type DayCounts struct {
	Fuel        int
	CarWashes   int
	Diagnostics int
}

// Counts returns the archived row counts of day.
func (s *Store) Counts(ctx context.Context, day time.Time) (DayCounts, error) {
	key := day.Format(dayLayout)
	var c DayCounts
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM fuel_transactions WHERE day = ?),
			(SELECT COUNT(*) FROM car_washes WHERE day = ?),
			(SELECT COUNT(*) FROM diagnostics WHERE day = ?)
	`, key, key, key).Scan(&c.Fuel, &c.CarWashes, &c.Diagnostics)
	if err != nil {
		return DayCounts{}, fmt.Errorf("count day %s: %w", key, err)
	}
	return c, nil
}
