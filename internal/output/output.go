// Package output writes a converted column, alongside its raw strings, to
// Parquet or Arrow IPC files.
package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/gyeh/tempinfer/internal/temporal"
)

// Columns pairs raw strings with their converted values. Both must share the
// same chunk layout.
type Columns struct {
	Family temporal.Family
	Raw    *arrow.Chunked
	Values *arrow.Chunked
}

func (c Columns) check() error {
	if c.Raw.Len() != c.Values.Len() || len(c.Raw.Chunks()) != len(c.Values.Chunks()) {
		return fmt.Errorf("raw (%d rows, %d chunks) and values (%d rows, %d chunks) are not aligned",
			c.Raw.Len(), len(c.Raw.Chunks()), c.Values.Len(), len(c.Values.Chunks()))
	}
	for i := range c.Raw.Chunks() {
		if c.Raw.Chunk(i).Len() != c.Values.Chunk(i).Len() {
			return fmt.Errorf("chunk %d: raw has %d rows, values %d", i, c.Raw.Chunk(i).Len(), c.Values.Chunk(i).Len())
		}
	}
	return nil
}

// WriteFile writes cols to path in the named format ("parquet" or "arrow").
func WriteFile(path, format string, cols Columns, mem memory.Allocator) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()

	switch strings.ToLower(format) {
	case "parquet":
		return WriteParquet(f, cols)
	case "arrow":
		return WriteArrow(f, cols, mem)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
