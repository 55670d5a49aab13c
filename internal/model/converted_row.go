package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/gyeh/tempinfer/internal/temporal"
)

// ConvertedRow is the DB-ready result of converting one source value.
// Exactly one of DateValue and TimestampValue is set when the value parsed.
type ConvertedRow struct {
	RunID     uuid.UUID
	RowNumber int64
	RawValue  *string

	DateValue      *time.Time
	TimestampValue *time.Time
}

// NewConvertedRow builds a row from a converter result. v is a day-count for
// date families and a microsecond timestamp for datetime families; ok=false
// leaves both value columns null.
func NewConvertedRow(runID uuid.UUID, rowNum int64, raw *string, f temporal.Family, v int64, ok bool) *ConvertedRow {
	r := &ConvertedRow{RunID: runID, RowNumber: rowNum, RawValue: raw}
	if !ok {
		return r
	}
	if f.IsDate() {
		t := temporal.DaysToTime(int32(v))
		r.DateValue = &t
	} else {
		t := temporal.MicrosToTime(v)
		r.TimestampValue = &t
	}
	return r
}

// Matched reports whether either value column is set.
func (r *ConvertedRow) Matched() bool {
	return r.DateValue != nil || r.TimestampValue != nil
}

// ConvertedColumns returns the ordered column names for COPY into
// tempinfer.converted_values.
func ConvertedColumns() []string {
	return []string{
		"run_id",
		"row_number",
		"raw_value",
		"date_value",
		"timestamp_value",
	}
}

// CopyValues returns the row values in the same order as ConvertedColumns(),
// suitable for pgx CopyFromSource.
func (r *ConvertedRow) CopyValues() []any {
	return []any{
		r.RunID,
		r.RowNumber,
		r.RawValue,
		r.DateValue,
		r.TimestampValue,
	}
}
