// Package sqlite exports pipeline tables into a single SQLite snapshot file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/okian/secopvotes/internal/domain/model"
)

const runsDDL = `CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT NOT NULL,
    stage TEXT NOT NULL,
    started_at TIMESTAMP NOT NULL,
    "rows" INTEGER NOT NULL
)`

// Store wraps the snapshot database.
type Store struct {
	db *sql.DB
}

// Open creates or opens the snapshot at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrExport, path, err)
	}
	if _, err := db.ExecContext(ctx, runsDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: create runs: %v", ErrExport, err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// WriteTable replaces table name with t inside one transaction. Columns whose
// non-empty cells all parse as numbers are stored as REAL, the rest as TEXT,
// and empty cells as NULL.
func (s *Store) WriteTable(ctx context.Context, name string, t *model.Table) (err error) {
	if !validName(name) {
		return fmt.Errorf("%q: %w", name, ErrTableName)
	}
	numeric := numericColumns(t)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrExport, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	defs := make([]string, len(t.Header))
	cols := make([]string, len(t.Header))
	for i, h := range t.Header {
		typ := "TEXT"
		if numeric[i] {
			typ = "REAL"
		}
		cols[i] = strconv.Quote(h)
		defs[i] = cols[i] + " " + typ
	}
	if _, err = tx.ExecContext(ctx, `DROP TABLE IF EXISTS "`+name+`"`); err != nil {
		return fmt.Errorf("%w: drop %s: %v", ErrExport, name, err)
	}
	if _, err = tx.ExecContext(ctx, `CREATE TABLE "`+name+`" (`+strings.Join(defs, ",")+`)`); err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrExport, name, err)
	}
	if len(cols) == 0 {
		return tx.Commit()
	}

	ph := strings.TrimRight(strings.Repeat("?,", len(cols)), ",")
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO "`+name+`" (`+strings.Join(cols, ",")+`) VALUES (`+ph+`)`)
	if err != nil {
		return fmt.Errorf("%w: prepare %s: %v", ErrExport, name, err)
	}
	defer stmt.Close()

	args := make([]any, len(cols))
	for i := range t.Rows {
		for c := range cols {
			args[c] = value(t.Cell(i, c), numeric[c])
		}
		if _, err = stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("%w: insert %s row %d: %v", ErrExport, name, i, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit %s: %v", ErrExport, name, err)
	}
	return nil
}

// RecordRun appends one row to the runs table.
func (s *Store) RecordRun(ctx context.Context, runID, stage string, startedAt time.Time, rows int) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO runs (run_id, stage, started_at, "rows") VALUES (?, ?, ?, ?)`,
		runID, stage, startedAt.UTC().Format(time.RFC3339), rows)
	if err != nil {
		return fmt.Errorf("%w: record run: %v", ErrExport, err)
	}
	return nil
}

func numericColumns(t *model.Table) []bool {
	out := make([]bool, len(t.Header))
	for c := range t.Header {
		seen := false
		numeric := true
		for i := range t.Rows {
			v := t.Cell(i, c)
			if v == "" {
				continue
			}
			seen = true
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				numeric = false
				break
			}
		}
		out[c] = seen && numeric
	}
	return out
}

func value(cell string, numeric bool) any {
	if cell == "" {
		return nil
	}
	if numeric {
		f, _ := strconv.ParseFloat(cell, 64)
		return f
	}
	return cell
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}
