package load

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/tempinfer/internal/model"
)

// Finalize records the run totals and marks it complete.
func Finalize(ctx context.Context, sink Sink, log zerolog.Logger, runID uuid.UUID, st *StageResult) error {
	totals := model.RunTotals{
		RowsLoaded:      st.RowsLoaded,
		RowsMatched:     st.Stats.Matched(),
		LatestPattern:   st.Latest,
		PatternSwitches: st.Stats.Rescans,
	}
	if err := sink.FinishRun(ctx, runID, totals); err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	log.Info().Str("run_id", runID.String()).Msg("run complete")
	return nil
}
