package load

import (
	"context"
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/tempinfer/internal/config"
	"github.com/gyeh/tempinfer/internal/convert"
	"github.com/gyeh/tempinfer/internal/model"
	"github.com/gyeh/tempinfer/internal/temporal"
)

// StageResult holds metrics from the staging phase.
type StageResult struct {
	RowsRead   int64
	RowsLoaded int64
	RowsNull   int64
	Stats      temporal.Stats
	Latest     string
	Duration   time.Duration
}

// Stage converts the column and streams one row per source value into the
// sink through a channel.
func Stage(ctx context.Context, sink Sink, log zerolog.Logger, pf *PreflightResult, cfg *config.Config) (*StageResult, error) {
	start := time.Now()

	conv, err := convert.Column(ctx, log, pf.Catalog, pf.Family, pf.Raw, convert.Options{
		NullTokens: cfg.NullTokens(),
		Workers:    cfg.Workers,
	})
	if err != nil {
		return nil, fmt.Errorf("stage convert: %w", err)
	}
	defer conv.Release()

	batch := cfg.BatchSize
	if batch <= 0 {
		batch = config.DefaultBatchSize
	}
	ch := make(chan *model.ConvertedRow, batch)
	errCh := make(chan error, 1)

	copyCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var rowsRead int64

	// Producer goroutine: raw + converted chunks → rows → channel
	go func() {
		defer close(ch)
		n, err := produceRows(copyCtx, ch, pf.RunID, pf.Family, pf.Raw, conv.Values)
		rowsRead = n
		errCh <- err
	}()

	// Consumer: copy from channel into the values table
	rowsLoaded, copyErr := sink.CopyRows(copyCtx, ch)
	// Unblock the producer if the consumer stopped early.
	cancel()

	prodErr := <-errCh
	if copyErr != nil {
		return nil, fmt.Errorf("stage copy: %w", copyErr)
	}
	if prodErr != nil {
		return nil, fmt.Errorf("stage producer: %w", prodErr)
	}

	dur := time.Since(start)
	log.Info().
		Int64("rows_read", rowsRead).
		Int64("rows_loaded", rowsLoaded).
		Int64("rows_matched", conv.Stats.Matched()).
		Int64("rows_unmatched", conv.Stats.Misses).
		Int64("pattern_switches", conv.Stats.Rescans).
		Str("duration", dur.String()).
		Float64("rows_per_sec", float64(rowsLoaded)/dur.Seconds()).
		Msg("staging complete")

	return &StageResult{
		RowsRead:   rowsRead,
		RowsLoaded: rowsLoaded,
		RowsNull:   conv.Nulls,
		Stats:      conv.Stats,
		Latest:     conv.Latest,
		Duration:   dur,
	}, nil
}

// produceRows walks the aligned raw and converted chunks. Raw values that
// are null in the source stay null; the converted value is null whenever the
// value was a null token or did not match.
func produceRows(ctx context.Context, ch chan<- *model.ConvertedRow, runID uuid.UUID, f temporal.Family, raw, values *arrow.Chunked) (int64, error) {
	var rowNum int64
	for c := range raw.Chunks() {
		strs, ok := raw.Chunk(c).(temporal.StringColumn)
		if !ok {
			return rowNum, fmt.Errorf("chunk %d: raw column is %s, want string", c, raw.Chunk(c).DataType())
		}
		get, err := rawValues(values.Chunk(c))
		if err != nil {
			return rowNum, fmt.Errorf("chunk %d: %w", c, err)
		}
		for i := 0; i < strs.Len(); i++ {
			rowNum++
			var rawVal *string
			if !strs.IsNull(i) {
				s := strs.Value(i)
				rawVal = &s
			}
			v, ok := get(i)
			row := model.NewConvertedRow(runID, rowNum, rawVal, f, v, ok)
			select {
			case ch <- row:
			case <-ctx.Done():
				return rowNum, ctx.Err()
			}
		}
	}
	return rowNum, nil
}

func rawValues(arr arrow.Array) (func(int) (int64, bool), error) {
	switch a := arr.(type) {
	case *array.Date32:
		return func(i int) (int64, bool) { return int64(a.Value(i)), a.IsValid(i) }, nil
	case *array.Timestamp:
		return func(i int) (int64, bool) { return int64(a.Value(i)), a.IsValid(i) }, nil
	default:
		return nil, fmt.Errorf("unexpected converted type %s", arr.DataType())
	}
}
