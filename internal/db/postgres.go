package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gyeh/tempinfer/internal/model"
	embedsql "github.com/gyeh/tempinfer/internal/sql"
)

const (
	pgSchema      = "tempinfer"
	templateTable = "converted_values"
)

// NewPool creates a pgxpool with session-level params suitable for bulk loads.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	// Disable statement timeout for bulk loading sessions.
	cfg.ConnConfig.RuntimeParams["statement_timeout"] = "0"
	cfg.ConnConfig.RuntimeParams["application_name"] = "tempinfer"
	cfg.ConnConfig.RuntimeParams["timezone"] = "UTC"

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// PostgresSink stores runs in tempinfer.runs and converted values in a table
// of the tempinfer schema, loaded with COPY.
type PostgresSink struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgresSink wraps an open pool. The sink closes the pool on Close.
func NewPostgresSink(pool *pgxpool.Pool, table string) *PostgresSink {
	if table == "" {
		table = templateTable
	}
	return &PostgresSink{pool: pool, table: table}
}

func (s *PostgresSink) ident() pgx.Identifier {
	return pgx.Identifier{pgSchema, s.table}
}

// Table returns the values table name.
func (s *PostgresSink) Table() string { return s.table }

// EnsureTable creates the values table from the migrated template when it is
// not the template itself.
func (s *PostgresSink) EnsureTable(ctx context.Context) error {
	if s.table == templateTable {
		return nil
	}
	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (LIKE %s INCLUDING ALL)",
		s.ident().Sanitize(), pgx.Identifier{pgSchema, templateTable}.Sanitize())
	if _, err := s.pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

// LookupRun finds the most relevant earlier run of the same file column,
// preferring completed runs.
func (s *PostgresSink) LookupRun(ctx context.Context, sha, column string) (uuid.UUID, string, bool, error) {
	var id uuid.UUID
	var status string
	err := s.pool.QueryRow(ctx, embedsql.LookupRun, sha, column, s.table).Scan(&id, &status)
	if err == pgx.ErrNoRows {
		return uuid.Nil, "", false, nil
	}
	if err != nil {
		return uuid.Nil, "", false, fmt.Errorf("lookup run: %w", err)
	}
	return id, status, true, nil
}

// RegisterRun inserts a pending run.
func (s *PostgresSink) RegisterRun(ctx context.Context, run model.Run) error {
	_, err := s.pool.Exec(ctx, embedsql.RegisterRun,
		run.RunID, run.SourceFileName, run.SourceSHA256, run.Column, run.Family, s.table)
	if err != nil {
		return fmt.Errorf("register run: %w", err)
	}
	return nil
}

// CopyRows COPY-loads rows until ch is closed.
func (s *PostgresSink) CopyRows(ctx context.Context, ch <-chan *model.ConvertedRow) (int64, error) {
	n, err := s.pool.CopyFrom(ctx, s.ident(), model.ConvertedColumns(), NewChannelSource(ch))
	if err != nil {
		return n, fmt.Errorf("copy into %s: %w", s.table, err)
	}
	return n, nil
}

// UpdateRunStatus sets a run's status.
func (s *PostgresSink) UpdateRunStatus(ctx context.Context, runID uuid.UUID, status string) error {
	if _, err := s.pool.Exec(ctx, embedsql.UpdateRunStatus, runID, status); err != nil {
		return fmt.Errorf("update run status: %w", err)
	}
	return nil
}

// FinishRun marks a run complete and records its totals.
func (s *PostgresSink) FinishRun(ctx context.Context, runID uuid.UUID, t model.RunTotals) error {
	_, err := s.pool.Exec(ctx, embedsql.FinishRun,
		runID, t.RowsLoaded, t.RowsMatched, t.LatestPattern, t.PatternSwitches)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// DeleteRunRows deletes the values loaded by a run.
func (s *PostgresSink) DeleteRunRows(ctx context.Context, runID uuid.UUID) (int64, error) {
	stmt := fmt.Sprintf("DELETE FROM %s WHERE run_id = $1", s.ident().Sanitize())
	tag, err := s.pool.Exec(ctx, stmt, runID)
	if err != nil {
		return 0, fmt.Errorf("delete run rows: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Close closes the pool.
func (s *PostgresSink) Close() error {
	s.pool.Close()
	return nil
}
