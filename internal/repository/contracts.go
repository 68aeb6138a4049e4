package repository

import (
	"context"

	"github.com/maxviazov/scrollwindow/internal/model"
	"github.com/maxviazov/scrollwindow/internal/scroll"
)

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
// I pass context through so nested calls can honor cancellations and deadlines.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution for repositories that support it.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// EntryRepository declares persistence operations for journal entries.
// I return domain models and surface domain errors from errors.go rather than PG codes.
type EntryRepository interface {
	Append(ctx context.Context, e model.Entry) (model.Entry, error)
	GetByID(ctx context.Context, id int64) (model.Entry, error)
	// List returns the rows matching f exactly as q addresses them: q's offset,
	// limit and sort, with no look-ahead and no windowing.
	List(ctx context.Context, f EntryFilter, q scroll.Query) ([]model.Entry, error)
	// Scroll returns the window of entries matching f that starts at pos.
	// The query's limit and sort are honored; its offset is taken from pos.
	Scroll(ctx context.Context, f EntryFilter, q scroll.Query, pos scroll.Position) (scroll.Window[model.Entry], error)
}
