package load

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/tempinfer/internal/config"
	"github.com/gyeh/tempinfer/internal/model"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Run executes the full load pipeline: preflight → stage → finalize. A failed
// stage marks the run failed and removes any rows it wrote.
func Run(ctx context.Context, sink Sink, log zerolog.Logger, cfg *config.Config) (*model.RunSummary, error) {
	totalStart := time.Now()

	// Phase 1: Preflight
	log.Info().Str("file", cfg.FilePath).Str("column", cfg.Column).Msg("starting preflight")
	pf, err := Preflight(ctx, sink, log, cfg)
	if err != nil {
		return nil, &PipelineError{Phase: "preflight", Err: err}
	}
	defer pf.Release()

	summary := &model.RunSummary{
		FilePath:       pf.FilePath,
		FileSHA256:     pf.FileSHA256,
		Column:         cfg.Column,
		RunID:          pf.RunID.String(),
		Family:         pf.Family.String(),
		DurationDetect: pf.Duration,
	}

	if pf.AlreadyLoaded {
		log.Info().
			Str("run_id", pf.RunID.String()).
			Str("sha256", pf.FileSHA256).
			Msg("column already loaded, skipping (use --force to reload)")
		summary.AlreadyLoaded = true
		summary.DurationTotal = time.Since(totalStart)
		return summary, nil
	}

	// Phase 2: Stage
	log.Info().Str("family", pf.Family.String()).Msg("starting staging")
	if err := sink.UpdateRunStatus(ctx, pf.RunID, model.RunStaging); err != nil {
		return nil, &PipelineError{Phase: "stage", Err: err}
	}

	stageResult, err := Stage(ctx, sink, log, pf, cfg)
	if err != nil {
		fail(ctx, sink, log, pf)
		return nil, &PipelineError{Phase: "stage", Err: err}
	}

	// Phase 3: Finalize
	log.Info().Msg("finalizing")
	if err := Finalize(ctx, sink, log, pf.RunID, stageResult); err != nil {
		fail(ctx, sink, log, pf)
		return nil, &PipelineError{Phase: "finalize", Err: err}
	}

	summary.LatestPattern = stageResult.Latest
	summary.RowsRead = stageResult.RowsRead
	summary.RowsNull = stageResult.RowsNull
	summary.RowsMatched = stageResult.Stats.Matched()
	summary.RowsUnmatched = stageResult.Stats.Misses
	summary.RowsLoaded = stageResult.RowsLoaded
	summary.PatternSwitches = stageResult.Stats.Rescans
	summary.DurationLoad = stageResult.Duration
	summary.DurationTotal = time.Since(totalStart)

	log.Info().
		Int64("rows_read", summary.RowsRead).
		Int64("rows_loaded", summary.RowsLoaded).
		Int64("rows_matched", summary.RowsMatched).
		Int64("rows_unmatched", summary.RowsUnmatched).
		Int64("rows_null", summary.RowsNull).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("load pipeline complete")

	return summary, nil
}

func fail(ctx context.Context, sink Sink, log zerolog.Logger, pf *PreflightResult) {
	if err := sink.UpdateRunStatus(ctx, pf.RunID, model.RunFailed); err != nil {
		log.Warn().Err(err).Msg("could not mark run failed")
	}
	if err := Cleanup(ctx, sink, log, pf.RunID); err != nil {
		log.Warn().Err(err).Msg("cleanup of partial rows failed (non-fatal)")
	}
}
