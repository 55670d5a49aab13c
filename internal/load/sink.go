package load

import (
	"context"

	"github.com/google/uuid"

	"github.com/gyeh/tempinfer/internal/model"
)

// Sink is a database destination for converted values. *db.PostgresSink and
// *db.SQLiteSink implement it.
type Sink interface {
	Table() string
	EnsureTable(ctx context.Context) error
	LookupRun(ctx context.Context, sha, column string) (uuid.UUID, string, bool, error)
	RegisterRun(ctx context.Context, run model.Run) error
	// CopyRows consumes ch until it is closed and returns the rows written.
	CopyRows(ctx context.Context, ch <-chan *model.ConvertedRow) (int64, error)
	UpdateRunStatus(ctx context.Context, runID uuid.UUID, status string) error
	FinishRun(ctx context.Context, runID uuid.UUID, totals model.RunTotals) error
	DeleteRunRows(ctx context.Context, runID uuid.UUID) (int64, error)
	Close() error
}
