// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists extraction runs in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	_ "github.com/mattn/go-sqlite3"

	"github.com/meshintelligence/marcpick/internal/extract"
	"github.com/meshintelligence/marcpick/pkg/types"
)

// Store manages the extraction database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at cfg.DBPath and creates
// the schema if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	path := cfg.DBPath
	if path == "" {
		path = "marcpick.db"
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			format TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
			matched INTEGER NOT NULL DEFAULT 0,
			filtered INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id),
			position INTEGER NOT NULL,
			identifier TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS extracted (
			record_id INTEGER NOT NULL REFERENCES records(id),
			selector TEXT NOT NULL,
			ord INTEGER NOT NULL,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_run ON records(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_extracted_record ON extracted(record_id)`,
		`CREATE INDEX IF NOT EXISTS idx_extracted_selector ON extracted(selector)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RunSummary holds counts from one persisted extraction run.
type RunSummary struct {
	RunID    int64
	Records  int
	Values   int
	Filtered int
	Skipped  int
}

// SaveRun drains the stream into the database in a single transaction
// and records the run's source, format, and counters. Progress lines go
// to w.
func (s *Store) SaveRun(ctx context.Context, source string, format types.Format, st *extract.Stream, w io.Writer) (RunSummary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (source, format) VALUES (?, ?)`, source, string(format))
	if err != nil {
		return RunSummary{}, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return RunSummary{}, fmt.Errorf("reading run id: %w", err)
	}

	insertRecord, err := tx.PrepareContext(ctx,
		`INSERT INTO records (run_id, position, identifier) VALUES (?, ?, ?)`)
	if err != nil {
		return RunSummary{}, fmt.Errorf("preparing record insert: %w", err)
	}
	defer insertRecord.Close()

	insertValue, err := tx.PrepareContext(ctx,
		`INSERT INTO extracted (record_id, selector, ord, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return RunSummary{}, fmt.Errorf("preparing value insert: %w", err)
	}
	defer insertValue.Close()

	summary := RunSummary{RunID: runID}
	for {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		p, err := st.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return summary, fmt.Errorf("reading record %d: %w", summary.Records+1, err)
		}

		res, err := insertRecord.ExecContext(ctx, runID, summary.Records, p.Record)
		if err != nil {
			return summary, fmt.Errorf("inserting record: %w", err)
		}
		recordID, err := res.LastInsertId()
		if err != nil {
			return summary, fmt.Errorf("reading record id: %w", err)
		}

		for _, key := range p.Keys {
			for ord, value := range p.Values[key] {
				if _, err := insertValue.ExecContext(ctx, recordID, key, ord, value); err != nil {
					return summary, fmt.Errorf("inserting value for %s: %w", key, err)
				}
				summary.Values++
			}
		}
		summary.Records++
	}

	summary.Filtered = st.Filtered()
	summary.Skipped = st.Skipped()
	if _, err := tx.ExecContext(ctx,
		`UPDATE runs SET matched = ?, filtered = ?, skipped = ? WHERE id = ?`,
		summary.Records, summary.Filtered, summary.Skipped, runID); err != nil {
		return summary, fmt.Errorf("updating run counters: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing run: %w", err)
	}

	fmt.Fprintf(w, "run %d: %d records, %d values, %d filtered, %d skipped\n",
		summary.RunID, summary.Records, summary.Values, summary.Filtered, summary.Skipped)
	return summary, nil
}

// Values returns every stored value for one selector in a run, ordered
// by record position and value order.
func (s *Store) Values(ctx context.Context, runID int64, sel string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.value FROM extracted e
		 JOIN records r ON r.id = e.record_id
		 WHERE r.run_id = ? AND e.selector = ?
		 ORDER BY r.position, e.ord`, runID, sel)
	if err != nil {
		return nil, fmt.Errorf("querying values: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning value: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
