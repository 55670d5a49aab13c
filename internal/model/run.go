package model

import "github.com/google/uuid"

// Run statuses, in pipeline order.
const (
	RunPending  = "pending"
	RunStaging  = "staging"
	RunComplete = "complete"
	RunFailed   = "failed"
)

// Run is the provenance record of one load of one column.
type Run struct {
	RunID          uuid.UUID
	SourceFileName string
	SourceSHA256   string
	Column         string
	Family         string
	Table          string
}

// RunTotals are recorded when a run completes.
type RunTotals struct {
	RowsLoaded      int64
	RowsMatched     int64
	LatestPattern   string
	PatternSwitches int64
}
