package store

import (
	"context"
	"time"

	"github.com/contentpeak/opplens/pkg/opplens/idea"
	"github.com/contentpeak/opplens/pkg/opplens/keyword"
)

// Store is the interface for persisting and querying analysis runs.
type Store interface {
	Close() error

	SaveRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, error)
	ListRuns(ctx context.Context, limit int) ([]RunInfo, error)
	DeleteRun(ctx context.Context, id string) error
}

// Run is one persisted analysis: the scored keywords and synthesized ideas
// from a single pipeline pass, plus its processing counts.
type Run struct {
	ID          string // ULID
	CreatedAt   time.Time
	Source      string // label for the input, usually the export file name
	RowsTotal   int
	RowsKept    int
	RowsDropped int
	Summary     Summary
	TimedOut    bool
	Keywords    []keyword.Keyword
	Ideas       []idea.ContentIdea
}

// Summary holds per-category counts for a run's scored keywords.
type Summary struct {
	Total     int
	High      int
	Medium    int
	Low       int
	QuickWins int
}

// RunInfo is the lightweight listing record for a stored run.
type RunInfo struct {
	ID        string
	CreatedAt time.Time
	Source    string
	Keywords  int
	Ideas     int
	TimedOut  bool
}
