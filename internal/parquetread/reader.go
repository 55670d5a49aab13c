package parquetread

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/parquet-go/parquet-go"
)

const readBatchSize = 1024

// Reader reads a single string column out of a Parquet file.
type Reader struct {
	file *os.File
	pf   *parquet.File
}

// Open opens a Parquet file for column reads.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat parquet file: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	return &Reader{file: f, pf: pf}, nil
}

// NumRows returns the total number of rows in the Parquet file.
func (r *Reader) NumRows() int64 {
	return r.pf.NumRows()
}

// Schema returns the Parquet schema for validation.
func (r *Reader) Schema() *parquet.Schema {
	return r.pf.Schema()
}

// ReadColumn reads the named column into a chunked arrow string column, one
// chunk per row group. The column is validated first.
func (r *Reader) ReadColumn(column string, mem memory.Allocator) (*arrow.Chunked, error) {
	leaf, err := ValidateColumn(r.pf.Schema(), column)
	if err != nil {
		return nil, err
	}
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	var chunks []arrow.Array
	release := func() {
		for _, c := range chunks {
			c.Release()
		}
	}
	for i, rg := range r.pf.RowGroups() {
		arr, err := readChunk(rg.ColumnChunks()[leaf.ColumnIndex], mem)
		if err != nil {
			release()
			return nil, fmt.Errorf("row group %d: %w", i, err)
		}
		chunks = append(chunks, arr)
	}
	defer release()
	return arrow.NewChunked(arrow.BinaryTypes.String, chunks), nil
}

func readChunk(cc parquet.ColumnChunk, mem memory.Allocator) (arrow.Array, error) {
	b := array.NewStringBuilder(mem)
	defer b.Release()
	b.Reserve(int(cc.NumValues()))

	pages := cc.Pages()
	defer pages.Close()

	buf := make([]parquet.Value, readBatchSize)
	for {
		page, err := pages.ReadPage()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read page: %w", err)
		}
		values := page.Values()
		for {
			n, readErr := values.ReadValues(buf)
			for _, v := range buf[:n] {
				if v.IsNull() {
					b.AppendNull()
				} else {
					// ByteArray aliases the page buffer.
					b.Append(string(v.ByteArray()))
				}
			}
			if readErr == io.EOF {
				break
			}
			if readErr != nil {
				return nil, fmt.Errorf("read values: %w", readErr)
			}
		}
	}
	return b.NewArray(), nil
}

// Close releases all resources.
func (r *Reader) Close() error {
	return r.file.Close()
}

func columnPath(column string) []string {
	return strings.Split(column, ".")
}
