// Package scroll turns a bounded query into a window of results keyed by an
// offset position.
//
// The limit is raised by one before the query runs; the extra row, when it
// comes back, only tells the caller that another window exists and is dropped
// from the returned page. No count query is needed.
package scroll

import (
	"context"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNilArgument marks a missing required argument.
	ErrNilArgument = errors.New("scroll: required argument is nil")
	// ErrUnsupportedPosition marks a position variant windowing is not implemented for.
	ErrUnsupportedPosition = errors.New("scroll: unsupported scroll position")
	ErrInvalidQuery        = errors.New("scroll: invalid query")
	ErrIndexOutOfRange     = errors.New("scroll: index out of range")
)

// QueryFunc executes q and returns its rows in order.
type QueryFunc[T any] func(ctx context.Context, q Query) ([]T, error)

// Plan is the pure preparation step of a scroll: the query to execute and
// what is needed to window its result afterwards.
type Plan struct {
	query    Query
	limit    int
	position PositionFunc
}

// Query is the query to hand to the executor, with the look-ahead applied.
func (p Plan) Query() Query { return p.query }

// Limit is the limit requested by the caller.
func (p Plan) Limit() int { return p.limit }

// Prepare validates pos and computes the over-fetch query for q.
func Prepare(q Query, pos Position) (Plan, error) {
	if pos == nil {
		return Plan{}, fmt.Errorf("%w: position", ErrNilArgument)
	}
	var fn PositionFunc
	switch p := pos.(type) {
	case OffsetPosition:
		fn = p.PositionFunction()
	default:
		return Plan{}, fmt.Errorf("%w: %T", ErrUnsupportedPosition, pos)
	}

	limit := q.Limit()
	exec := q
	// math.MaxInt cannot grow; it is executed as is and still windowed normally.
	if limit > 0 && limit < math.MaxInt {
		exec = q.WithLimit(limit + 1)
	}
	return Plan{query: exec, limit: limit, position: fn}, nil
}

// WindowFrom builds the window for rows returned by executing plan.Query().
// It is CPU-only and safe to call from whatever goroutine delivers the rows.
func WindowFrom[T any](plan Plan, rows []T) Window[T] {
	hasMore := plan.limit > 0 && len(rows) > 0 && len(rows) > plan.limit
	return newWindow(FirstN(plan.limit, rows), plan.position, hasMore)
}

// Scroll runs q through fn once and returns the resulting window.
// Errors from fn are returned unchanged.
func Scroll[T any](ctx context.Context, q Query, fn QueryFunc[T], pos Position) (Window[T], error) {
	if fn == nil {
		return Window[T]{}, fmt.Errorf("%w: query function", ErrNilArgument)
	}
	plan, err := Prepare(q, pos)
	if err != nil {
		return Window[T]{}, err
	}
	rows, err := fn(ctx, plan.Query())
	if err != nil {
		return Window[T]{}, err
	}
	return WindowFrom(plan, rows), nil
}
