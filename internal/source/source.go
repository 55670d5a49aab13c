// Package source loads one string column from a Parquet or CSV file.
package source

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/gyeh/tempinfer/internal/csvread"
	"github.com/gyeh/tempinfer/internal/parquetread"
)

// Format is an input file format.
type Format string

const (
	Parquet Format = "parquet"
	CSV     Format = "csv"
)

// FormatOf picks the format from the file extension. Unknown extensions are
// treated as Parquet.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return CSV
	default:
		return Parquet
	}
}

// ReadColumn reads column from the file at path as a chunked string column.
func ReadColumn(path, column string, mem memory.Allocator) (*arrow.Chunked, error) {
	switch FormatOf(path) {
	case CSV:
		return csvread.ReadFile(path, column, csvread.DefaultChunkRows, mem)
	default:
		r, err := parquetread.Open(path)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		ch, err := r.ReadColumn(column, mem)
		if err != nil {
			return nil, fmt.Errorf("read column %q: %w", column, err)
		}
		return ch, nil
	}
}
