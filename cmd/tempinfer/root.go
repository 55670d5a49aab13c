package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gyeh/tempinfer/internal/config"
	"github.com/gyeh/tempinfer/internal/convert"
	"github.com/gyeh/tempinfer/internal/exitcode"
	"github.com/gyeh/tempinfer/internal/load"
	"github.com/gyeh/tempinfer/internal/logging"
	"github.com/gyeh/tempinfer/internal/temporal"
)

var (
	cfg        config.Config
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "tempinfer",
	Short: "Infer date/datetime formats of string columns and convert them",
	Long: "Detects which date or datetime pattern family a Parquet or CSV string column uses, " +
		"converts it to date32 / timestamp[us] values, and writes or loads the result.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML config file (sample_size, null_values, patterns, table, batch_size, workers)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

// addInputFlags registers the flags shared by every command that reads a column.
func addInputFlags(f *pflag.FlagSet) {
	f.StringVar(&cfg.FilePath, "file", "", "Path to Parquet or CSV file (required)")
	f.StringVar(&cfg.Column, "column", "", "Name of the string column to convert (required)")
	f.StringVar(&cfg.Family, "family", "", "Skip detection and use this family: date-dmy, date-ymd, datetime-dmy, datetime-ymd")
	f.IntVar(&cfg.SampleSize, "sample-size", config.DefaultSampleSize, "Non-null values to sample for detection (0 = all)")
	f.IntVar(&cfg.Workers, "workers", 0, "Convert chunks in parallel with this many workers (0 or 1 = sequential)")
	f.StringSliceVar(&cfg.NullValues, "null-values", nil, "Values treated as missing (default \"\",NA,N/A,null,NULL)")
}

// loadConfig overlays the YAML file, letting explicitly set flags win.
func loadConfig(cmd *cobra.Command, args []string) error {
	if configPath != "" {
		if err := cfg.MergeFile(configPath, cmd.Flags().Changed); err != nil {
			return err
		}
	}
	cfg.ApplyDefaults()
	return nil
}

func newLogger() zerolog.Logger {
	return logging.Setup(cfg.LogFormat, cfg.LogLevel)
}

func mustValidate(log zerolog.Logger, validate func() error) {
	if err := validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
}

// inspect runs the read-only preflight and exits on failure.
func inspect(log zerolog.Logger) *load.PreflightResult {
	pf, err := load.Inspect(log, &cfg)
	if err != nil {
		if errors.Is(err, load.ErrNoFamily) {
			log.Error().Err(err).Str("column", cfg.Column).Msg("no date or datetime pattern matched")
			os.Exit(exitcode.NoMatch)
		}
		log.Error().Err(err).Msg("preflight failed")
		os.Exit(exitcode.ValidationError)
	}
	return pf
}

// convertColumn converts the preflight column and exits on failure.
func convertColumn(ctx context.Context, log zerolog.Logger, pf *load.PreflightResult) *convert.Result {
	res, err := convert.Column(ctx, log, pf.Catalog, pf.Family, pf.Raw, convert.Options{
		NullTokens: cfg.NullTokens(),
		Workers:    cfg.Workers,
	})
	if err != nil {
		log.Error().Err(err).Msg("conversion failed")
		os.Exit(exitcode.ConvertError)
	}
	return res
}

func printVote(pf *load.PreflightResult) {
	if pf.Forced {
		fmt.Printf("Family:     %s (forced)\n", pf.Family)
		return
	}
	v := pf.Vote
	fmt.Printf("Family:     %s (%.1f%% of %d sampled)\n", v.Family, v.Share()*100, v.Sampled)
	for _, f := range temporal.AllFamilies() {
		if n := v.Votes[f]; n > 0 {
			fmt.Printf("  %-14s %6d votes\n", f, n)
		}
	}
	if v.Unmatched > 0 {
		fmt.Printf("  %-14s %6d\n", "unmatched", v.Unmatched)
	}
	if v.Pattern != "" {
		fmt.Printf("Pattern:    %s (e.g. %q)\n", v.Pattern, v.Example)
	}
}
