package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/tempinfer/internal/config"
	"github.com/gyeh/tempinfer/internal/db"
	"github.com/gyeh/tempinfer/internal/exitcode"
	"github.com/gyeh/tempinfer/internal/load"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Convert a column and load it into Postgres or SQLite",
	RunE:  runLoad,
}

func init() {
	f := loadCmd.Flags()
	addInputFlags(f)
	f.StringVar(&cfg.DSN, "dsn", os.Getenv("DATABASE_URL"), "Postgres connection string (or set DATABASE_URL)")
	f.StringVar(&cfg.SQLitePath, "sqlite", "", "Load into this SQLite database file instead of Postgres")
	f.StringVar(&cfg.Table, "table", config.DefaultTable, "Destination table for converted values")
	f.IntVar(&cfg.BatchSize, "batch-size", config.DefaultBatchSize, "Rows buffered between conversion and COPY")
	f.BoolVar(&cfg.Force, "force", false, "Reload even if this file column was already loaded")
	_ = loadCmd.MarkFlagRequired("file")
	_ = loadCmd.MarkFlagRequired("column")
	rootCmd.AddCommand(loadCmd)
}

func openSink(ctx context.Context, log zerolog.Logger) (load.Sink, error) {
	if cfg.SQLitePath != "" {
		log.Debug().Str("path", cfg.SQLitePath).Msg("using sqlite sink")
		s, err := db.OpenSQLite(ctx, cfg.SQLitePath, cfg.Table)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}
	return db.NewPostgresSink(pool, cfg.Table), nil
}

func runLoad(cmd *cobra.Command, args []string) error {
	log := newLogger()
	ctx := context.Background()
	mustValidate(log, cfg.ValidateWithSink)

	sink, err := openSink(ctx, log)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer sink.Close()

	summary, err := load.Run(ctx, sink, log, &cfg)
	if err != nil {
		if errors.Is(err, load.ErrNoFamily) {
			log.Error().Err(err).Str("column", cfg.Column).Msg("no date or datetime pattern matched")
			os.Exit(exitcode.NoMatch)
		}
		var pe *load.PipelineError
		if errors.As(err, &pe) {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("load failed")
			os.Exit(exitcode.ForPhase(pe.Phase))
		}
		log.Error().Err(err).Msg("load failed")
		os.Exit(exitcode.ConvertError)
	}

	if summary.AlreadyLoaded {
		fmt.Printf("Already loaded as run %s (use --force to reload)\n", summary.RunID)
		return nil
	}
	fmt.Printf("Load complete: %s, %d rows into %s, %d matched (%.1f%%), %d pattern switches (%.1fs)\n",
		summary.Family, summary.RowsLoaded, cfg.Table, summary.RowsMatched,
		summary.MatchRate()*100, summary.PatternSwitches, summary.DurationTotal.Seconds())
	if summary.RowsUnmatched > 0 {
		os.Exit(exitcode.PartialSuccess)
	}
	return nil
}
