package db

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	embedsql "github.com/gyeh/tempinfer/internal/sql"
)

const migrationsTable = `CREATE TABLE IF NOT EXISTS public.tempinfer_migrations (
    name       text PRIMARY KEY,
    applied_at timestamptz NOT NULL DEFAULT now()
)`

// ApplyMigrations runs the embedded migrations that have not been recorded
// in public.tempinfer_migrations, in filename order. Each migration and its
// record commit together.
func ApplyMigrations(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) error {
	if _, err := pool.Exec(ctx, migrationsTable); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	names, err := fs.Glob(embedsql.Migrations, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)

	done := make(map[string]bool)
	rows, err := pool.Query(ctx, "SELECT name FROM public.tempinfer_migrations")
	if err != nil {
		return fmt.Errorf("read applied migrations: %w", err)
	}
	applied, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return fmt.Errorf("read applied migrations: %w", err)
	}
	for _, name := range applied {
		done[name] = true
	}

	var ran int
	for _, file := range names {
		name := path.Base(file)
		if done[name] {
			log.Debug().Str("migration", name).Msg("already applied")
			continue
		}
		data, err := fs.ReadFile(embedsql.Migrations, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		log.Info().Str("migration", name).Msg("applying migration")
		err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, string(data)); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, "INSERT INTO public.tempinfer_migrations (name) VALUES ($1)", name)
			return err
		})
		if err != nil {
			return fmt.Errorf("execute migration %s: %w", name, err)
		}
		ran++
	}

	log.Info().Int("applied", ran).Int("total", len(names)).Msg("migrations up to date")
	return nil
}
