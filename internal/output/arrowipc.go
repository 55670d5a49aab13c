package output

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Schema is the Arrow schema of converted output for a value type.
func Schema(valueType arrow.DataType) *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "row", Type: arrow.PrimitiveTypes.Int64},
		{Name: "raw", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "value", Type: valueType, Nullable: true},
	}, nil)
}

// WriteArrow writes cols as an Arrow IPC file, one record batch per chunk.
func WriteArrow(w io.Writer, cols Columns, mem memory.Allocator) error {
	if err := cols.check(); err != nil {
		return err
	}
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	schema := Schema(cols.Family.LogicalType())

	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	if err != nil {
		return fmt.Errorf("create arrow writer: %w", err)
	}

	var offset int64
	for c := range cols.Raw.Chunks() {
		raw, values := cols.Raw.Chunk(c), cols.Values.Chunk(c)
		rows := rowNumbers(mem, offset, raw.Len())
		rec := array.NewRecord(schema, []arrow.Array{rows, raw, values}, int64(raw.Len()))
		err := fw.Write(rec)
		rec.Release()
		rows.Release()
		if err != nil {
			fw.Close()
			return fmt.Errorf("write record batch %d: %w", c, err)
		}
		offset += int64(raw.Len())
	}
	if err := fw.Close(); err != nil {
		return fmt.Errorf("close arrow writer: %w", err)
	}
	return nil
}

func rowNumbers(mem memory.Allocator, offset int64, n int) arrow.Array {
	b := array.NewInt64Builder(mem)
	defer b.Release()
	b.Reserve(n)
	for i := 0; i < n; i++ {
		b.UnsafeAppend(offset + int64(i) + 1)
	}
	return b.NewArray()
}
