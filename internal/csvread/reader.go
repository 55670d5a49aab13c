// Package csvread reads one column of a CSV file with a header row.
package csvread

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// DefaultChunkRows is the number of rows per output chunk.
const DefaultChunkRows = 64 * 1024

// ReadFile reads column from the CSV file at path.
func ReadFile(path, column string, chunkRows int, mem memory.Allocator) (*arrow.Chunked, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file: %w", err)
	}
	defer f.Close()
	return Read(f, column, chunkRows, mem)
}

// Read reads column from CSV data whose first record is a header. Every
// field is kept as a string; empty fields stay empty strings so that null
// handling happens in one place downstream.
func Read(r io.Reader, column string, chunkRows int, mem memory.Allocator) (*arrow.Chunked, error) {
	if chunkRows <= 0 {
		chunkRows = DefaultChunkRows
	}
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv has no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	idx := -1
	for i, name := range header {
		if strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("missing column %q; have: %s", column, strings.Join(header, ", "))
	}

	var chunks []arrow.Array
	defer func() {
		for _, c := range chunks {
			c.Release()
		}
	}()
	b := array.NewStringBuilder(mem)
	defer b.Release()

	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv at line %d: %w", line+1, err)
		}
		line++
		if idx < len(rec) {
			b.Append(rec[idx])
		} else {
			b.AppendNull()
		}
		if b.Len() == chunkRows {
			chunks = append(chunks, b.NewArray())
		}
	}
	if b.Len() > 0 {
		chunks = append(chunks, b.NewArray())
	}
	return arrow.NewChunked(arrow.BinaryTypes.String, chunks), nil
}
