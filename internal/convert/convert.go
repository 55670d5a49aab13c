// Package convert runs a pattern converter over a chunked string column.
package convert

import (
	"context"
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/rs/zerolog"

	"github.com/gyeh/tempinfer/internal/normalize"
	"github.com/gyeh/tempinfer/internal/temporal"
)

// Options controls a column conversion.
type Options struct {
	NullTokens normalize.NullTokens
	// Workers > 1 converts chunks in parallel, one converter per chunk.
	// Otherwise a single converter is threaded through the chunks in order.
	Workers int
	Mem     memory.Allocator
}

// Result is a converted column plus the converter counters.
type Result struct {
	Family temporal.Family
	// Values has the same chunk layout as the input column.
	Values   *arrow.Chunked
	Stats    temporal.Stats
	Latest   string // empty for parallel runs
	Nulls    int64
	Duration time.Duration
}

// Release frees the converted arrays.
func (r *Result) Release() {
	if r.Values != nil {
		r.Values.Release()
		r.Values = nil
	}
}

// Column converts raw under family f.
func Column(ctx context.Context, log zerolog.Logger, cat *temporal.Catalog, f temporal.Family, raw *arrow.Chunked, opts Options) (*Result, error) {
	start := time.Now()
	if opts.Mem == nil {
		opts.Mem = memory.DefaultAllocator
	}

	cols := make([]temporal.StringColumn, 0, len(raw.Chunks()))
	var nulls int64
	for i, chunk := range raw.Chunks() {
		col, ok := chunk.(temporal.StringColumn)
		if !ok {
			return nil, fmt.Errorf("chunk %d: expected a string array, got %s", i, chunk.DataType())
		}
		if opts.NullTokens != nil {
			col = opts.NullTokens.Clean(col)
		}
		for j := 0; j < col.Len(); j++ {
			if col.IsNull(j) {
				nulls++
			}
		}
		cols = append(cols, col)
	}

	res := &Result{Family: f, Nulls: nulls}
	var outs []arrow.Array
	if opts.Workers > 1 && len(cols) > 1 {
		arrs, stats, err := cat.ConvertChunks(ctx, f, cols, opts.Workers, opts.Mem)
		if err != nil {
			return nil, err
		}
		outs, res.Stats = arrs, stats
	} else {
		conv, err := cat.NewConverter(f)
		if err != nil {
			return nil, err
		}
		conv.SetAllocator(opts.Mem)
		for i, col := range cols {
			if err := ctx.Err(); err != nil {
				releaseAll(outs)
				return nil, err
			}
			out, err := conv.ConvertColumn(col)
			if err != nil {
				releaseAll(outs)
				return nil, fmt.Errorf("chunk %d: %w", i, err)
			}
			outs = append(outs, out)
		}
		res.Stats = conv.Stats()
		res.Latest = conv.Latest()
	}
	res.Values = arrow.NewChunked(f.LogicalType(), outs)
	releaseAll(outs)
	res.Duration = time.Since(start)

	log.Debug().
		Str("family", f.String()).
		Int64("fast_path", res.Stats.FastPath).
		Int64("rescans", res.Stats.Rescans).
		Int64("misses", res.Stats.Misses).
		Int64("nulls", nulls).
		Dur("duration", res.Duration).
		Msg("column converted")
	return res, nil
}

func releaseAll(arrs []arrow.Array) {
	for _, a := range arrs {
		a.Release()
	}
}
