package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/gyeh/tempinfer/internal/model"
	embedsql "github.com/gyeh/tempinfer/internal/sql"
)

const (
	sqliteDateLayout      = "2006-01-02"
	sqliteTimestampLayout = "2006-01-02 15:04:05.000000"
)

// SQLiteSink stores runs and converted values in a local SQLite file. Dates
// are stored as ISO text so SQLite's date functions work on them.
type SQLiteSink struct {
	db    *sql.DB
	table string
}

// OpenSQLite opens or creates the database at path and its schema.
func OpenSQLite(ctx context.Context, path, table string) (*SQLiteSink, error) {
	if table == "" {
		table = templateTable
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer; avoids SQLITE_BUSY between the run updates and the row inserts.
	db.SetMaxOpenConns(1)

	s := &SQLiteSink{db: db, table: table}
	if err := s.EnsureTable(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteSink) quoted() string {
	return `"` + strings.ReplaceAll(s.table, `"`, `""`) + `"`
}

// Table returns the values table name.
func (s *SQLiteSink) Table() string { return s.table }

// EnsureTable creates the runs and values tables.
func (s *SQLiteSink) EnsureTable(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, embedsql.SQLiteSchema); err != nil {
		return fmt.Errorf("create sqlite schema: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(embedsql.SQLiteValuesTable, s.quoted())); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

// LookupRun finds the most relevant earlier run of the same file column,
// preferring completed runs.
func (s *SQLiteSink) LookupRun(ctx context.Context, sha, column string) (uuid.UUID, string, bool, error) {
	var id, status string
	err := s.db.QueryRowContext(ctx, `
		SELECT run_id, status FROM runs
		WHERE source_file_sha256 = ? AND column_name = ? AND target_table = ?
		ORDER BY (status = 'complete') DESC, created_at DESC
		LIMIT 1`, sha, column, s.table).Scan(&id, &status)
	if err == sql.ErrNoRows {
		return uuid.Nil, "", false, nil
	}
	if err != nil {
		return uuid.Nil, "", false, fmt.Errorf("lookup run: %w", err)
	}
	runID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, "", false, fmt.Errorf("lookup run: bad run id %q: %w", id, err)
	}
	return runID, status, true, nil
}

// RegisterRun inserts a pending run.
func (s *SQLiteSink) RegisterRun(ctx context.Context, run model.Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, source_file_name, source_file_sha256, column_name, family, target_table, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.RunID.String(), run.SourceFileName, run.SourceSHA256, run.Column, run.Family, s.table, model.RunPending)
	if err != nil {
		return fmt.Errorf("register run: %w", err)
	}
	return nil
}

// CopyRows inserts rows in a single transaction until ch is closed. On error
// it keeps draining ch so the producer is never left blocked.
func (s *SQLiteSink) CopyRows(ctx context.Context, ch <-chan *model.ConvertedRow) (n int64, err error) {
	defer func() {
		if err != nil {
			for range ch {
			}
		}
	}()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (run_id, row_number, raw_value, date_value, timestamp_value) VALUES (?, ?, ?, ?, ?)",
		s.quoted()))
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for row := range ch {
		if _, err := stmt.ExecContext(ctx, sqliteValues(row)...); err != nil {
			return n, fmt.Errorf("insert row %d: %w", row.RowNumber, err)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return n, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

func sqliteValues(r *model.ConvertedRow) []any {
	var raw, date, ts any
	if r.RawValue != nil {
		raw = *r.RawValue
	}
	if r.DateValue != nil {
		date = r.DateValue.Format(sqliteDateLayout)
	}
	if r.TimestampValue != nil {
		ts = r.TimestampValue.Format(sqliteTimestampLayout)
	}
	return []any{r.RunID.String(), r.RowNumber, raw, date, ts}
}

// UpdateRunStatus sets a run's status.
func (s *SQLiteSink) UpdateRunStatus(ctx context.Context, runID uuid.UUID, status string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE runs SET status = ?,
			finished_at = CASE WHEN ? IN ('complete', 'failed') THEN strftime('%Y-%m-%dT%H:%M:%fZ', 'now') ELSE finished_at END
		WHERE run_id = ?`, status, status, runID.String())
	if err != nil {
		return fmt.Errorf("update run status: %w", err)
	}
	return nil
}

// FinishRun marks a run complete and records its totals.
func (s *SQLiteSink) FinishRun(ctx context.Context, runID uuid.UUID, t model.RunTotals) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE runs SET status = 'complete', rows_loaded = ?, rows_matched = ?,
			latest_pattern = ?, pattern_switches = ?,
			finished_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		WHERE run_id = ?`,
		t.RowsLoaded, t.RowsMatched, t.LatestPattern, t.PatternSwitches, runID.String())
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// DeleteRunRows deletes the values loaded by a run.
func (s *SQLiteSink) DeleteRunRows(ctx context.Context, runID uuid.UUID) (int64, error) {
	res, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE run_id = ?", s.quoted()), runID.String())
	if err != nil {
		return 0, fmt.Errorf("delete run rows: %w", err)
	}
	return res.RowsAffected()
}

// DB exposes the handle for inspection.
func (s *SQLiteSink) DB() *sql.DB { return s.db }

// Close closes the database.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
