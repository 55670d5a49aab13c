package load

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Cleanup deletes the values written by a run.
func Cleanup(ctx context.Context, sink Sink, log zerolog.Logger, runID uuid.UUID) error {
	start := time.Now()

	n, err := sink.DeleteRunRows(ctx, runID)
	if err != nil {
		return err
	}

	log.Info().
		Int64("rows_deleted", n).
		Dur("duration", time.Since(start)).
		Msg("run cleanup complete")

	return nil
}
