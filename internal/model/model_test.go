package model

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/gyeh/tempinfer/internal/temporal"
)

func TestNewConvertedRow(t *testing.T) {
	id := uuid.New()
	raw := "01/02/2020"

	d := NewConvertedRow(id, 1, &raw, temporal.DateDMY, 18293, true)
	if d.DateValue == nil || d.TimestampValue != nil {
		t.Fatalf("date row = %+v", d)
	}
	if want := time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC); !d.DateValue.Equal(want) {
		t.Errorf("DateValue = %s, want %s", d.DateValue, want)
	}

	ts := NewConvertedRow(id, 2, &raw, temporal.DatetimeYMD, 1_000_001, true)
	if ts.TimestampValue == nil || ts.DateValue != nil {
		t.Fatalf("timestamp row = %+v", ts)
	}
	if want := time.Date(1970, 1, 1, 0, 0, 1, 1000, time.UTC); !ts.TimestampValue.Equal(want) {
		t.Errorf("TimestampValue = %s, want %s", ts.TimestampValue, want)
	}

	miss := NewConvertedRow(id, 3, &raw, temporal.DateDMY, 0, false)
	if miss.Matched() {
		t.Error("unmatched row must have no value")
	}
	if len(miss.CopyValues()) != len(ConvertedColumns()) {
		t.Errorf("CopyValues has %d values for %d columns", len(miss.CopyValues()), len(ConvertedColumns()))
	}
}

func TestRunSummary_MatchRate(t *testing.T) {
	s := &RunSummary{RowsMatched: 3, RowsUnmatched: 1, RowsNull: 10}
	if got := s.MatchRate(); got != 0.75 {
		t.Errorf("MatchRate = %v, want 0.75", got)
	}
	if (&RunSummary{}).MatchRate() != 0 {
		t.Error("empty summary should have zero match rate")
	}
}
