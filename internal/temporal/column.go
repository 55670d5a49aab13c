package temporal

import (
	"context"
	"fmt"
	"sort"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
)

// StringColumn is an ordered sequence of optional strings. *array.String and
// *array.LargeString satisfy it.
type StringColumn interface {
	Len() int
	IsNull(i int) bool
	Value(i int) string
}

type appender[V int32 | int64] interface {
	Append(V)
	AppendNull()
	Reserve(int)
}

func fill[V int32 | int64, T int32 | int64](b appender[V], c *Converter[T], values StringColumn) {
	n := values.Len()
	b.Reserve(n)
	for i := 0; i < n; i++ {
		if values.IsNull(i) {
			b.AppendNull()
			continue
		}
		if v, ok := c.Parse(values.Value(i)); ok {
			b.Append(V(v))
		} else {
			b.AppendNull()
		}
	}
}

// ConvertColumn converts every slot of values in order. Null inputs and
// unmatched values become null outputs. The result is a date32 array for date
// families and a timestamp[us] array for datetime families.
func (c *Converter[T]) ConvertColumn(values StringColumn) (arrow.Array, error) {
	var raw arrow.Array
	switch c.kind {
	case dayCount:
		b := array.NewInt32Builder(c.mem)
		defer b.Release()
		fill[int32](b, c, values)
		raw = b.NewArray()
	case microsecondTimestamp:
		b := array.NewInt64Builder(c.mem)
		defer b.Release()
		fill[int64](b, c, values)
		raw = b.NewArray()
	default:
		return nil, errors.AssertionFailedf("converter for %s has no transform", c.family)
	}
	defer raw.Release()
	return reinterpret(raw, c.family.LogicalType())
}

// ConvertChunked converts a chunked string column, threading this
// converter's state through the chunks in order.
func (c *Converter[T]) ConvertChunked(values *arrow.Chunked) (*arrow.Chunked, error) {
	outs := make([]arrow.Array, 0, len(values.Chunks()))
	defer func() {
		for _, a := range outs {
			a.Release()
		}
	}()
	for i, chunk := range values.Chunks() {
		col, err := stringChunk(chunk)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}
		out, err := c.ConvertColumn(col)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}
		outs = append(outs, out)
	}
	return arrow.NewChunked(c.family.LogicalType(), outs), nil
}

// reinterpret stamps a logical type onto the buffers of a primitive array
// without copying. Widths always agree for arrays built by ConvertColumn; a
// mismatch is an assertion failure.
func reinterpret(raw arrow.Array, target arrow.FixedWidthDataType) (arrow.Array, error) {
	src, ok := raw.DataType().(arrow.FixedWidthDataType)
	if !ok || src.BitWidth() != target.BitWidth() {
		return nil, errors.AssertionFailedf("cannot reinterpret %s array as %s", raw.DataType(), target)
	}
	data := array.NewData(target, raw.Len(), raw.Data().Buffers(), nil, raw.NullN(), raw.Data().Offset())
	defer data.Release()
	return array.MakeFromData(data), nil
}

func stringChunk(arr arrow.Array) (StringColumn, error) {
	col, ok := arr.(StringColumn)
	if !ok {
		return nil, fmt.Errorf("expected a string array, got %s", arr.DataType())
	}
	return col, nil
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.FastPath += o.FastPath
	s.Rescans += o.Rescans
	s.Misses += o.Misses
}

// ConvertChunks converts independent chunks in parallel, one fresh converter
// per chunk, and returns the outputs in input order. workers <= 0 means one
// goroutine per chunk. Cancellation is checked before each chunk starts.
func (c *Catalog) ConvertChunks(ctx context.Context, f Family, chunks []StringColumn, workers int, mem memory.Allocator) ([]arrow.Array, Stats, error) {
	if _, err := c.NewConverter(f); err != nil {
		return nil, Stats{}, err
	}
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	outs := make([]arrow.Array, len(chunks))
	stats := make([]Stats, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, chunk := range chunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			conv, err := c.NewConverter(f)
			if err != nil {
				return err
			}
			conv.SetAllocator(mem)
			out, err := conv.ConvertColumn(chunk)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", i, err)
			}
			outs[i] = out
			stats[i] = conv.Stats()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, a := range outs {
			if a != nil {
				a.Release()
			}
		}
		return nil, Stats{}, err
	}

	var total Stats
	for _, s := range stats {
		total.Add(s)
	}
	return outs, total, nil
}

// chunkedStrings presents the chunks of a chunked string column as one
// indexable column.
type chunkedStrings struct {
	chunks []StringColumn
	starts []int
	n      int
}

// ChunkedStrings wraps a chunked string column as a single StringColumn.
func ChunkedStrings(ch *arrow.Chunked) (StringColumn, error) {
	cs := &chunkedStrings{}
	for i, chunk := range ch.Chunks() {
		if chunk.Len() == 0 {
			continue
		}
		col, err := stringChunk(chunk)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}
		cs.chunks = append(cs.chunks, col)
		cs.starts = append(cs.starts, cs.n)
		cs.n += col.Len()
	}
	return cs, nil
}

// Chunks splits a chunked string column into its non-empty chunks.
func Chunks(ch *arrow.Chunked) ([]StringColumn, error) {
	cs, err := ChunkedStrings(ch)
	if err != nil {
		return nil, err
	}
	return cs.(*chunkedStrings).chunks, nil
}

func (c *chunkedStrings) Len() int { return c.n }

func (c *chunkedStrings) locate(i int) (StringColumn, int) {
	k := sort.Search(len(c.starts), func(j int) bool { return c.starts[j] > i }) - 1
	return c.chunks[k], i - c.starts[k]
}

func (c *chunkedStrings) IsNull(i int) bool {
	col, j := c.locate(i)
	return col.IsNull(j)
}

func (c *chunkedStrings) Value(i int) string {
	col, j := c.locate(i)
	return col.Value(j)
}
