package output

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/tempinfer/internal/temporal"
)

const writeBatchSize = 1024

// DateRow is the Parquet layout for date families.
type DateRow struct {
	Row   int64   `parquet:"row"`
	Raw   *string `parquet:"raw,optional"`
	Value *int32  `parquet:"value,optional,date"`
}

// TimestampRow is the Parquet layout for datetime families.
type TimestampRow struct {
	Row   int64   `parquet:"row"`
	Raw   *string `parquet:"raw,optional"`
	Value *int64  `parquet:"value,optional,timestamp(microsecond)"`
}

// WriteParquet writes cols as a Parquet file, one row group per chunk.
func WriteParquet(w io.Writer, cols Columns) error {
	if err := cols.check(); err != nil {
		return err
	}
	if cols.Family.IsDate() {
		return writeRows(w, cols, func(row int64, raw *string, values any, i int) DateRow {
			r := DateRow{Row: row, Raw: raw}
			if d := values.(*array.Date32); d.IsValid(i) {
				v := int32(d.Value(i))
				r.Value = &v
			}
			return r
		})
	}
	return writeRows(w, cols, func(row int64, raw *string, values any, i int) TimestampRow {
		r := TimestampRow{Row: row, Raw: raw}
		if ts := values.(*array.Timestamp); ts.IsValid(i) {
			v := int64(ts.Value(i))
			r.Value = &v
		}
		return r
	})
}

func writeRows[T any](w io.Writer, cols Columns, build func(row int64, raw *string, values any, i int) T) error {
	pw := parquet.NewGenericWriter[T](w)
	buf := make([]T, 0, writeBatchSize)
	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		if _, err := pw.Write(buf); err != nil {
			return fmt.Errorf("write parquet rows: %w", err)
		}
		buf = buf[:0]
		return nil
	}

	var row int64
	for c := range cols.Raw.Chunks() {
		raw, ok := cols.Raw.Chunk(c).(temporal.StringColumn)
		if !ok {
			return fmt.Errorf("chunk %d: raw column is %s, want string", c, cols.Raw.Chunk(c).DataType())
		}
		values := cols.Values.Chunk(c)
		for i := 0; i < raw.Len(); i++ {
			row++
			var rawVal *string
			if !raw.IsNull(i) {
				s := raw.Value(i)
				rawVal = &s
			}
			buf = append(buf, build(row, rawVal, values, i))
			if len(buf) == writeBatchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		if err := flush(); err != nil {
			return err
		}
		if err := pw.Flush(); err != nil {
			return fmt.Errorf("flush row group %d: %w", c, err)
		}
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}
