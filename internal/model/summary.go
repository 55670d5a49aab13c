package model

import "time"

// RunSummary captures metrics from a single conversion or load run.
type RunSummary struct {
	FilePath        string
	FileSHA256      string
	Column          string
	RunID           string
	Family          string
	LatestPattern   string
	AlreadyLoaded   bool
	RowsRead        int64
	RowsNull        int64
	RowsMatched     int64
	RowsUnmatched   int64
	RowsLoaded      int64
	PatternSwitches int64
	DurationDetect  time.Duration
	DurationLoad    time.Duration
	DurationTotal   time.Duration
}

// MatchRate is the fraction of non-null rows that converted.
func (s *RunSummary) MatchRate() float64 {
	n := s.RowsMatched + s.RowsUnmatched
	if n == 0 {
		return 0
	}
	return float64(s.RowsMatched) / float64(n)
}
